package store

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
)

// Mirror keeps an in-memory snapshot of one owner's collections, refreshed
// whenever another instance writes to the medium. Consumers get read-only
// copies; a failed refresh keeps the previous snapshot so a flaky channel
// costs freshness, never correctness.
type Mirror struct {
	store *Store

	mu        sync.RWMutex
	employees []domain.Employee
	projects  []domain.Project
}

// NewMirror loads the initial snapshot and subscribes to change
// notifications. The subscription lasts until ctx is cancelled.
func NewMirror(ctx context.Context, s *Store) (*Mirror, error) {
	m := &Mirror{store: s}
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	err := s.Watch(ctx, func(key string) {
		// Only this owner's documents matter, but an empty or unknown key
		// is treated conservatively as "something changed, reload".
		if key != "" && !strings.HasPrefix(key, s.key("")) {
			return
		}
		if err := m.Refresh(context.Background()); err != nil {
			log.Printf("[mirror] refresh after change %q failed: %v", key, err)
		}
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Refresh re-reads both collections from the medium. Safe to call
// arbitrarily often; redundant refreshes are harmless.
func (m *Mirror) Refresh(ctx context.Context) error {
	employees, err := m.store.LoadEmployees(ctx)
	if err != nil {
		return err
	}
	projects, err := m.store.LoadProjects(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.employees = employees
	m.projects = projects
	m.mu.Unlock()
	return nil
}

// Employees returns the current snapshot. Callers must not mutate it.
func (m *Mirror) Employees() []domain.Employee {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.employees
}

// Projects returns the current snapshot. Callers must not mutate it.
func (m *Mirror) Projects() []domain.Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.projects
}
