package store

import (
	"context"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
)

// Batch mutations apply the same transition as their single-record
// counterparts but in one read-modify-write, so a bulk action produces one
// persisted write and one notification. Keys whose record has been deleted
// by another instance in the meantime are skipped silently; the returned
// count is the number of records actually changed.

// CertRef addresses one certificate row: the owning employee and the
// certificate itself.
type CertRef struct {
	EmployeeID    string
	CertificateID string
}

// ArchiveCertificates marks every referenced certificate archived.
func (s *Store) ArchiveCertificates(ctx context.Context, refs []CertRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byEmployee := make(map[string]map[string]bool, len(refs))
	for _, ref := range refs {
		if byEmployee[ref.EmployeeID] == nil {
			byEmployee[ref.EmployeeID] = make(map[string]bool)
		}
		byEmployee[ref.EmployeeID][ref.CertificateID] = true
	}

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range list {
		wanted := byEmployee[list[i].ID]
		if wanted == nil {
			continue
		}
		for j := range list[i].Certificates {
			c := &list[i].Certificates[j]
			if wanted[c.ID] && c.Status != domain.CertificateArchived {
				c.Status = domain.CertificateArchived
				changed++
			}
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.SaveEmployees(ctx, list)
}

// ArchiveEmployees marks every referenced employee archived.
func (s *Store) ArchiveEmployees(ctx context.Context, employeeIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}

	list, err := s.LoadEmployees(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range list {
		if wanted[list[i].ID] && list[i].Status != domain.EmployeeArchived {
			list[i].Status = domain.EmployeeArchived
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.SaveEmployees(ctx, list)
}

// SetProjectsStatus transitions every referenced project to st.
func (s *Store) SetProjectsStatus(ctx context.Context, projectIDs []string, st domain.ProjectStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = true
	}

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range list {
		if wanted[list[i].ID] && list[i].Status != st {
			list[i].Status = st
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.SaveProjects(ctx, list)
}

// RemoveProjects hard-deletes every referenced project.
func (s *Store) RemoveProjects(ctx context.Context, projectIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = true
	}

	list, err := s.LoadProjects(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]domain.Project, 0, len(list))
	for _, p := range list {
		if !wanted[p.ID] {
			kept = append(kept, p)
		}
	}
	removed := len(list) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.SaveProjects(ctx, kept)
}
