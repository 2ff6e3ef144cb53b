package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
)

// Versioned document keys. Bumping a version abandons the old document
// rather than migrating it in place.
const (
	employeesKeySuffix = "employees:v2"
	projectsKeySuffix  = "projects:v1"
	favoritesKeySuffix = "favorites:v1"
)

// Store owns the canonical employee, project and favorites collections for
// one owner (tenant). Every read goes to the medium; every mutation is a
// read-modify-write of the whole document followed by a change broadcast.
// Mutations within one process are serialized; across processes the last
// write wins wholesale, by design.
type Store struct {
	kv    KV
	owner string
	mu    *sync.Mutex
}

func New(kv KV) *Store {
	return &Store{kv: kv, mu: &sync.Mutex{}}
}

// Scoped returns a view of the same medium namespaced to one owner. The
// write lock is shared so in-process mutations never interleave.
func (s *Store) Scoped(owner string) *Store {
	return &Store{kv: s.kv, owner: owner, mu: s.mu}
}

func (s *Store) key(suffix string) string {
	if s.owner == "" {
		return "ks:" + suffix
	}
	return "ks:" + s.owner + ":" + suffix
}

func (s *Store) employeesKey() string { return s.key(employeesKeySuffix) }
func (s *Store) projectsKey() string  { return s.key(projectsKeySuffix) }
func (s *Store) favoritesKey() string { return s.key(favoritesKeySuffix) }

// Watch delivers change notifications from other instances sharing the
// medium. The callback receives the changed key ("" when the payload could
// not be decoded); callers reload whatever they care about and must treat
// repeated notifications as redundant reloads.
func (s *Store) Watch(ctx context.Context, fn func(key string)) error {
	return s.kv.Subscribe(ctx, fn)
}

// loadDoc reads and decodes a whole document. A missing key or a document
// that fails to parse both yield the zero value: corrupt local state must
// degrade to an empty collection, never to an error the UI would crash on.
func loadDoc[T any](ctx context.Context, kv KV, key string, out *T) error {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("[store] malformed document at %s, treating as empty: %v", key, err)
		var zero T
		*out = zero
	}
	return nil
}

func saveDoc[T any](ctx context.Context, kv KV, key string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(raw))
}

/* ---------- employees & certificates ---------- */

func (s *Store) LoadEmployees(ctx context.Context) ([]domain.Employee, error) {
	var list []domain.Employee
	if err := loadDoc(ctx, s.kv, s.employeesKey(), &list); err != nil {
		return nil, err
	}
	out := make([]domain.Employee, 0, len(list))
	for _, e := range list {
		out = append(out, normalizeEmployee(e))
	}
	return out, nil
}

func (s *Store) SaveEmployees(ctx context.Context, list []domain.Employee) error {
	if list == nil {
		list = []domain.Employee{}
	}
	return saveDoc(ctx, s.kv, s.employeesKey(), list)
}

type AddEmployeeInput struct {
	Name  string
	Email string
	Role  string
	Phone string
}

func (s *Store) AddEmployee(ctx context.Context, in AddEmployeeInput) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return nil, err
	}
	emp := domain.Employee{
		ID:           NewID("emp_"),
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		Phone:        in.Phone,
		Status:       domain.EmployeeActive,
		Certificates: []domain.Certificate{},
	}
	if err := s.SaveEmployees(ctx, append([]domain.Employee{emp}, list...)); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, updated domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == updated.ID {
			list[i] = normalizeEmployee(updated)
			return s.SaveEmployees(ctx, list)
		}
	}
	return domain.ErrEmployeeNotFound
}

// RemoveEmployee hard-deletes. Removing an unknown id is a no-op.
func (s *Store) RemoveEmployee(ctx context.Context, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, e := range list {
		if e.ID != employeeID {
			kept = append(kept, e)
		}
	}
	return s.SaveEmployees(ctx, kept)
}

func (s *Store) SetEmployeeStatus(ctx context.Context, employeeID string, st domain.EmployeeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == employeeID {
			list[i].Status = st
			return s.SaveEmployees(ctx, list)
		}
	}
	return domain.ErrEmployeeNotFound
}

type AddCertificateInput struct {
	Name       string
	Issuer     string
	Number     string
	IssueDate  string
	ExpiryDate string
	Notes      string
}

func (s *Store) AddCertificate(ctx context.Context, employeeID string, in AddCertificateInput) (*domain.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID != employeeID {
			continue
		}
		cert := domain.Certificate{
			ID:         NewID("cert_"),
			Name:       in.Name,
			Issuer:     in.Issuer,
			Number:     in.Number,
			IssueDate:  in.IssueDate,
			ExpiryDate: in.ExpiryDate,
			Notes:      in.Notes,
			Status:     domain.CertificateActive,
		}
		list[i].Certificates = append([]domain.Certificate{cert}, list[i].Certificates...)
		if err := s.SaveEmployees(ctx, list); err != nil {
			return nil, err
		}
		return &cert, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (s *Store) UpdateCertificate(ctx context.Context, employeeID string, updated domain.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != employeeID {
			continue
		}
		for j := range list[i].Certificates {
			if list[i].Certificates[j].ID == updated.ID {
				list[i].Certificates[j] = updated
				return s.SaveEmployees(ctx, list)
			}
		}
		return domain.ErrCertificateNotFound
	}
	return domain.ErrEmployeeNotFound
}

func (s *Store) SetCertificateStatus(ctx context.Context, employeeID, certificateID string, st domain.CertificateStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != employeeID {
			continue
		}
		for j := range list[i].Certificates {
			if list[i].Certificates[j].ID == certificateID {
				list[i].Certificates[j].Status = st
				return s.SaveEmployees(ctx, list)
			}
		}
		return domain.ErrCertificateNotFound
	}
	return domain.ErrEmployeeNotFound
}

// RemoveCertificate is idempotent: unknown employee or certificate ids are
// no-ops.
func (s *Store) RemoveCertificate(ctx context.Context, employeeID, certificateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != employeeID {
			continue
		}
		kept := list[i].Certificates[:0]
		for _, c := range list[i].Certificates {
			if c.ID != certificateID {
				kept = append(kept, c)
			}
		}
		list[i].Certificates = kept
		return s.SaveEmployees(ctx, list)
	}
	return nil
}

// FindCertificateByID scans all employees for a certificate id and returns
// the owning employee id along with the certificate.
func (s *Store) FindCertificateByID(ctx context.Context, certificateID string) (string, *domain.Certificate, error) {
	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return "", nil, err
	}
	for _, e := range list {
		for _, c := range e.Certificates {
			if c.ID == certificateID {
				cert := c
				return e.ID, &cert, nil
			}
		}
	}
	return "", nil, domain.ErrCertificateNotFound
}

/* ---------- projects ---------- */

func (s *Store) LoadProjects(ctx context.Context) ([]domain.Project, error) {
	var list []domain.Project
	if err := loadDoc(ctx, s.kv, s.projectsKey(), &list); err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(list))
	for _, p := range list {
		out = append(out, normalizeProject(p))
	}
	return out, nil
}

func (s *Store) SaveProjects(ctx context.Context, list []domain.Project) error {
	if list == nil {
		list = []domain.Project{}
	}
	return saveDoc(ctx, s.kv, s.projectsKey(), list)
}

type AddProjectInput struct {
	Name        string
	Customer    string
	Location    string
	StartDate   string
	EndDate     string
	Description string
}

func (s *Store) AddProject(ctx context.Context, in AddProjectInput) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return nil, err
	}
	p := domain.Project{
		ID:          NewID("prj_"),
		Name:        in.Name,
		Customer:    in.Customer,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      domain.ProjectActive,
		Description: in.Description,
		Members:     []domain.ProjectMember{},
	}
	if err := s.SaveProjects(ctx, append([]domain.Project{p}, list...)); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdateProject(ctx context.Context, updated domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == updated.ID {
			list[i] = normalizeProject(updated)
			return s.SaveProjects(ctx, list)
		}
	}
	return domain.ErrProjectNotFound
}

func (s *Store) SetProjectStatus(ctx context.Context, projectID string, st domain.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == projectID {
			list[i].Status = st
			return s.SaveProjects(ctx, list)
		}
	}
	return domain.ErrProjectNotFound
}

// RemoveProject hard-deletes. Removing an unknown id is a no-op.
func (s *Store) RemoveProject(ctx context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, p := range list {
		if p.ID != projectID {
			kept = append(kept, p)
		}
	}
	return s.SaveProjects(ctx, kept)
}

// AddMemberToProject prepends a membership stamped with the current time.
// Adding an employee who is already a member is a no-op; the membership is
// a weak reference, the employee id is not checked against the employee
// collection.
func (s *Store) AddMemberToProject(ctx context.Context, projectID, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != projectID {
			continue
		}
		if list[i].MemberOf(employeeID) {
			return nil
		}
		m := domain.ProjectMember{EmployeeID: employeeID, AddedAt: time.Now().UTC()}
		list[i].Members = append([]domain.ProjectMember{m}, list[i].Members...)
		return s.SaveProjects(ctx, list)
	}
	return domain.ErrProjectNotFound
}

func (s *Store) RemoveMemberFromProject(ctx context.Context, projectID, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != projectID {
			continue
		}
		kept := list[i].Members[:0]
		for _, m := range list[i].Members {
			if m.EmployeeID != employeeID {
				kept = append(kept, m)
			}
		}
		list[i].Members = kept
		return s.SaveProjects(ctx, list)
	}
	return nil
}

/* ---------- favorites ---------- */

// Favorites is the auxiliary pinned-entity document shown on the overview.
type Favorites struct {
	Employees []string `json:"employees"`
	Projects  []string `json:"projects"`
}

func (s *Store) LoadFavorites(ctx context.Context) (Favorites, error) {
	var fav Favorites
	if err := loadDoc(ctx, s.kv, s.favoritesKey(), &fav); err != nil {
		return Favorites{}, err
	}
	if fav.Employees == nil {
		fav.Employees = []string{}
	}
	if fav.Projects == nil {
		fav.Projects = []string{}
	}
	return fav, nil
}

func (s *Store) SaveFavorites(ctx context.Context, fav Favorites) error {
	return saveDoc(ctx, s.kv, s.favoritesKey(), fav)
}

// ToggleFavoriteEmployee flips the pinned state of an employee id and
// reports the new state.
func (s *Store) ToggleFavoriteEmployee(ctx context.Context, employeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fav, err := s.LoadFavorites(ctx)
	if err != nil {
		return false, err
	}
	fav.Employees, _ = toggleID(fav.Employees, employeeID)
	on := containsID(fav.Employees, employeeID)
	if err := s.SaveFavorites(ctx, fav); err != nil {
		return false, err
	}
	return on, nil
}

// ToggleFavoriteProject flips the pinned state of a project id and reports
// the new state.
func (s *Store) ToggleFavoriteProject(ctx context.Context, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fav, err := s.LoadFavorites(ctx)
	if err != nil {
		return false, err
	}
	fav.Projects, _ = toggleID(fav.Projects, projectID)
	on := containsID(fav.Projects, projectID)
	if err := s.SaveFavorites(ctx, fav); err != nil {
		return false, err
	}
	return on, nil
}

/* ---------- helpers ---------- */

func normalizeEmployee(e domain.Employee) domain.Employee {
	if e.Certificates == nil {
		e.Certificates = []domain.Certificate{}
	}
	if e.Status == "" {
		e.Status = domain.EmployeeActive
	}
	for i := range e.Certificates {
		if e.Certificates[i].Status == "" {
			e.Certificates[i].Status = domain.CertificateActive
		}
	}
	return e
}

func normalizeProject(p domain.Project) domain.Project {
	if p.Members == nil {
		p.Members = []domain.ProjectMember{}
	}
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return p
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func toggleID(ids []string, id string) ([]string, bool) {
	if containsID(ids, id) {
		out := make([]string, 0, len(ids))
		for _, v := range ids {
			if v != id {
				out = append(out, v)
			}
		}
		return out, false
	}
	return append(ids, id), true
}
