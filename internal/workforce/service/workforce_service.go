// Package service orchestrates the workforce core for the dashboard API:
// store mutations, query evaluation, bulk actions resolved from selection
// keys, CSV exports and the per-owner snapshot mirrors.
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/export"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/query"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/selection"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/status"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"
)

type Service struct {
	base          *store.Store
	thresholdDays int

	mirrorsMu sync.Mutex
	mirrors   map[string]*store.Mirror
}

func New(base *store.Store, thresholdDays int) *Service {
	if thresholdDays <= 0 {
		thresholdDays = status.DefaultSoonThresholdDays
	}
	return &Service{
		base:          base,
		thresholdDays: thresholdDays,
		mirrors:       make(map[string]*store.Mirror),
	}
}

func (s *Service) ThresholdDays() int { return s.thresholdDays }

func (s *Service) scoped(owner string) *store.Store {
	return s.base.Scoped(owner)
}

// mirror returns the owner's snapshot mirror, creating it on first use.
// Writes from other instances refresh it through the change channel; local
// writes refresh it directly via refreshMirror.
func (s *Service) mirror(ctx context.Context, owner string) (*store.Mirror, error) {
	s.mirrorsMu.Lock()
	defer s.mirrorsMu.Unlock()
	if m, ok := s.mirrors[owner]; ok {
		return m, nil
	}
	m, err := store.NewMirror(context.WithoutCancel(ctx), s.scoped(owner))
	if err != nil {
		return nil, err
	}
	s.mirrors[owner] = m
	return m, nil
}

// refreshMirror re-reads the owner's snapshot after a local write. Writers
// do not wait for their own broadcast to come back.
func (s *Service) refreshMirror(ctx context.Context, owner string) {
	s.mirrorsMu.Lock()
	m, ok := s.mirrors[owner]
	s.mirrorsMu.Unlock()
	if !ok {
		return
	}
	if err := m.Refresh(ctx); err != nil {
		log.Printf("[workforce] mirror refresh for %s failed: %v", owner, err)
	}
}

/* ---------- list views ---------- */

type EmployeeListOptions struct {
	Filter query.EmployeeFilter
	Term   string
	Sort   query.Sort
}

func (s *Service) ListEmployees(ctx context.Context, owner string, opt EmployeeListOptions) ([]domain.Employee, error) {
	list, err := s.scoped(owner).LoadEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return query.Employees(list, query.EmployeeQuery{
		Filter:        opt.Filter,
		Term:          opt.Term,
		Sort:          opt.Sort,
		Today:         time.Now(),
		ThresholdDays: s.thresholdDays,
	}), nil
}

type CertificateListOptions struct {
	Filter query.CertificateFilter
	Term   string
	Sort   query.Sort
}

func (s *Service) ListCertificateRows(ctx context.Context, owner string, opt CertificateListOptions) ([]query.CertificateRow, error) {
	list, err := s.scoped(owner).LoadEmployees(ctx)
	if err != nil {
		return nil, err
	}
	rows := query.FlattenCertificates(list)
	return query.Certificates(rows, query.CertificateQuery{
		Filter:        opt.Filter,
		Term:          opt.Term,
		Sort:          opt.Sort,
		Today:         time.Now(),
		ThresholdDays: s.thresholdDays,
	}), nil
}

type ProjectListOptions struct {
	Filter query.ProjectFilter
	Term   string
	Sort   query.Sort
}

func (s *Service) ListProjects(ctx context.Context, owner string, opt ProjectListOptions) ([]domain.Project, error) {
	list, err := s.scoped(owner).LoadProjects(ctx)
	if err != nil {
		return nil, err
	}
	return query.Projects(list, query.ProjectQuery{
		Filter: opt.Filter,
		Term:   opt.Term,
		Sort:   opt.Sort,
	}), nil
}

/* ---------- single-record operations ---------- */

func (s *Service) AddEmployee(ctx context.Context, owner string, in store.AddEmployeeInput) (*domain.Employee, error) {
	emp, err := s.scoped(owner).AddEmployee(ctx, in)
	if err != nil {
		return nil, err
	}
	s.refreshMirror(ctx, owner)
	return emp, nil
}

func (s *Service) GetEmployee(ctx context.Context, owner, employeeID string) (*domain.Employee, error) {
	list, err := s.scoped(owner).LoadEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.ID == employeeID {
			return &e, nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

func (s *Service) UpdateEmployee(ctx context.Context, owner string, emp domain.Employee) error {
	if err := s.scoped(owner).UpdateEmployee(ctx, emp); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) RemoveEmployee(ctx context.Context, owner, employeeID string) error {
	if err := s.scoped(owner).RemoveEmployee(ctx, employeeID); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

// SetEmployeeStatus flips the persisted archive flag without touching the
// rest of the record.
func (s *Service) SetEmployeeStatus(ctx context.Context, owner, employeeID string, st domain.EmployeeStatus) error {
	if err := s.scoped(owner).SetEmployeeStatus(ctx, employeeID, st); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) AddCertificate(ctx context.Context, owner, employeeID string, in store.AddCertificateInput) (*domain.Certificate, error) {
	cert, err := s.scoped(owner).AddCertificate(ctx, employeeID, in)
	if err != nil {
		return nil, err
	}
	s.refreshMirror(ctx, owner)
	return cert, nil
}

func (s *Service) UpdateCertificate(ctx context.Context, owner, employeeID string, cert domain.Certificate) error {
	if err := s.scoped(owner).UpdateCertificate(ctx, employeeID, cert); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) RemoveCertificate(ctx context.Context, owner, employeeID, certificateID string) error {
	if err := s.scoped(owner).RemoveCertificate(ctx, employeeID, certificateID); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) ArchiveCertificate(ctx context.Context, owner, employeeID, certificateID string) error {
	err := s.scoped(owner).SetCertificateStatus(ctx, employeeID, certificateID, domain.CertificateArchived)
	if err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

// FindCertificateRow resolves a certificate id to its flattened row.
func (s *Service) FindCertificateRow(ctx context.Context, owner, certificateID string) (*query.CertificateRow, error) {
	st := s.scoped(owner)
	employeeID, cert, err := st.FindCertificateByID(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	emp, err := s.GetEmployee(ctx, owner, employeeID)
	if err != nil {
		return nil, err
	}
	return &query.CertificateRow{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.Name,
		EmployeeEmail: emp.Email,
		EmployeePhone: emp.Phone,
		Certificate:   *cert,
	}, nil
}

func (s *Service) AddProject(ctx context.Context, owner string, in store.AddProjectInput) (*domain.Project, error) {
	p, err := s.scoped(owner).AddProject(ctx, in)
	if err != nil {
		return nil, err
	}
	s.refreshMirror(ctx, owner)
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, owner, projectID string) (*domain.Project, error) {
	list, err := s.scoped(owner).LoadProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == projectID {
			return &p, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}

func (s *Service) UpdateProject(ctx context.Context, owner string, p domain.Project) error {
	if err := s.scoped(owner).UpdateProject(ctx, p); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) SetProjectStatus(ctx context.Context, owner, projectID string, st domain.ProjectStatus) error {
	if err := s.scoped(owner).SetProjectStatus(ctx, projectID, st); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) RemoveProject(ctx context.Context, owner, projectID string) error {
	if err := s.scoped(owner).RemoveProject(ctx, projectID); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) AddMember(ctx context.Context, owner, projectID, employeeID string) error {
	if err := s.scoped(owner).AddMemberToProject(ctx, projectID, employeeID); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, owner, projectID, employeeID string) error {
	if err := s.scoped(owner).RemoveMemberFromProject(ctx, projectID, employeeID); err != nil {
		return err
	}
	s.refreshMirror(ctx, owner)
	return nil
}

/* ---------- bulk actions ---------- */

// ArchiveSelectedCertificates archives every certificate named by the
// selection keys. Malformed keys and rows deleted since selection are
// skipped, not errors.
func (s *Service) ArchiveSelectedCertificates(ctx context.Context, owner string, keys []string) (int, error) {
	refs := make([]store.CertRef, 0, len(keys))
	for _, k := range keys {
		employeeID, certificateID, ok := selection.SplitCertRowKey(k)
		if !ok {
			continue
		}
		refs = append(refs, store.CertRef{EmployeeID: employeeID, CertificateID: certificateID})
	}
	n, err := s.scoped(owner).ArchiveCertificates(ctx, refs)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.refreshMirror(ctx, owner)
	}
	return n, nil
}

func (s *Service) ArchiveSelectedEmployees(ctx context.Context, owner string, employeeIDs []string) (int, error) {
	n, err := s.scoped(owner).ArchiveEmployees(ctx, employeeIDs)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.refreshMirror(ctx, owner)
	}
	return n, nil
}

// CloseSelectedProjects transitions the selected projects to completed,
// the dashboard's "close" action.
func (s *Service) CloseSelectedProjects(ctx context.Context, owner string, projectIDs []string) (int, error) {
	n, err := s.scoped(owner).SetProjectsStatus(ctx, projectIDs, domain.ProjectCompleted)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.refreshMirror(ctx, owner)
	}
	return n, nil
}

func (s *Service) DeleteSelectedProjects(ctx context.Context, owner string, projectIDs []string) (int, error) {
	n, err := s.scoped(owner).RemoveProjects(ctx, projectIDs)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.refreshMirror(ctx, owner)
	}
	return n, nil
}

/* ---------- exports ---------- */

func (s *Service) ExportEmployeesCSV(ctx context.Context, owner string) (string, error) {
	list, err := s.scoped(owner).LoadEmployees(ctx)
	if err != nil {
		return "", err
	}
	return export.Employees(list), nil
}

// ExportSelectedEmployeesCSV exports exactly the selected employees,
// resolved against the live collection.
func (s *Service) ExportSelectedEmployeesCSV(ctx context.Context, owner string, employeeIDs []string) (string, error) {
	list, err := s.scoped(owner).LoadEmployees(ctx)
	if err != nil {
		return "", err
	}
	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}
	sel := make([]domain.Employee, 0, len(employeeIDs))
	for _, e := range list {
		if wanted[e.ID] {
			sel = append(sel, e)
		}
	}
	return export.Employees(sel), nil
}

func (s *Service) ExportCertificatesCSV(ctx context.Context, owner string) (string, error) {
	list, err := s.scoped(owner).LoadEmployees(ctx)
	if err != nil {
		return "", err
	}
	return export.Certificates(list), nil
}

// ExportSelectedCertificatesCSV narrows the employee tree to the selected
// certificates and exports those rows. Dangling keys are skipped.
func (s *Service) ExportSelectedCertificatesCSV(ctx context.Context, owner string, keys []string) (string, error) {
	list, err := s.scoped(owner).LoadEmployees(ctx)
	if err != nil {
		return "", err
	}
	wanted := make(map[string]map[string]bool, len(keys))
	for _, k := range keys {
		employeeID, certificateID, ok := selection.SplitCertRowKey(k)
		if !ok {
			continue
		}
		if wanted[employeeID] == nil {
			wanted[employeeID] = make(map[string]bool)
		}
		wanted[employeeID][certificateID] = true
	}
	sel := make([]domain.Employee, 0, len(wanted))
	for _, e := range list {
		ids := wanted[e.ID]
		if ids == nil {
			continue
		}
		kept := make([]domain.Certificate, 0, len(ids))
		for _, c := range e.Certificates {
			if ids[c.ID] {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			e.Certificates = kept
			sel = append(sel, e)
		}
	}
	return export.Certificates(sel), nil
}

func (s *Service) ExportProjectsCSV(ctx context.Context, owner string, projectIDs []string) (string, error) {
	list, err := s.scoped(owner).LoadProjects(ctx)
	if err != nil {
		return "", err
	}
	if projectIDs == nil {
		return export.Projects(list), nil
	}
	wanted := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = true
	}
	sel := make([]domain.Project, 0, len(projectIDs))
	for _, p := range list {
		if wanted[p.ID] {
			sel = append(sel, p)
		}
	}
	return export.Projects(sel), nil
}

// ExportCertificateRecordCSV renders the vertical single-certificate
// download.
func (s *Service) ExportCertificateRecordCSV(ctx context.Context, owner, certificateID string) (string, error) {
	row, err := s.FindCertificateRow(ctx, owner, certificateID)
	if err != nil {
		return "", err
	}
	return export.CertificateRecord(*row), nil
}

/* ---------- favorites & overview ---------- */

func (s *Service) Favorites(ctx context.Context, owner string) (store.Favorites, error) {
	return s.scoped(owner).LoadFavorites(ctx)
}

func (s *Service) ToggleFavoriteEmployee(ctx context.Context, owner, employeeID string) (bool, error) {
	on, err := s.scoped(owner).ToggleFavoriteEmployee(ctx, employeeID)
	if err != nil {
		return false, err
	}
	s.refreshMirror(ctx, owner)
	return on, nil
}

func (s *Service) ToggleFavoriteProject(ctx context.Context, owner, projectID string) (bool, error) {
	on, err := s.scoped(owner).ToggleFavoriteProject(ctx, projectID)
	if err != nil {
		return false, err
	}
	s.refreshMirror(ctx, owner)
	return on, nil
}

// Overview is the dashboard landing-page summary.
type Overview struct {
	EmployeeCount     int `json:"employee_count"`
	CertificateCount  int `json:"certificate_count"`
	ExpiringSoonCount int `json:"expiring_soon_count"`
	ExpiredCount      int `json:"expired_count"`
	ActiveProjects    int `json:"active_projects"`
}

// GetOverview computes the counters from the owner's mirror snapshot.
func (s *Service) GetOverview(ctx context.Context, owner string) (Overview, error) {
	m, err := s.mirror(ctx, owner)
	if err != nil {
		return Overview{}, err
	}
	today := time.Now()
	var ov Overview
	for _, e := range m.Employees() {
		if e.Status == domain.EmployeeArchived {
			continue
		}
		ov.EmployeeCount++
		ov.CertificateCount += len(e.Certificates)
		ov.ExpiringSoonCount += query.SoonCertCount(e, today, s.thresholdDays)
		ov.ExpiredCount += query.ExpiredCertCount(e, today, s.thresholdDays)
	}
	for _, p := range m.Projects() {
		if !p.Closed() {
			ov.ActiveProjects++
		}
	}
	return ov, nil
}

// IsNotFound reports whether err is one of the entity not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrEmployeeNotFound) ||
		errors.Is(err, domain.ErrProjectNotFound) ||
		errors.Is(err, domain.ErrCertificateNotFound)
}
