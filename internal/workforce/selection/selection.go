// Package selection tracks bulk-selected table rows by opaque key. The set
// stores explicit keys only: rows hidden by the current filter keep their
// selected state until cleared or batch-acted-upon.
package selection

import (
	"sort"
	"strings"
)

// certRowSep joins employee and certificate ids into one row key for the
// flattened certificate table.
const certRowSep = "::"

// CertRowKey builds the row key for a flattened certificate row.
func CertRowKey(employeeID, certificateID string) string {
	return employeeID + certRowSep + certificateID
}

// SplitCertRowKey decomposes a certificate row key. ok is false for keys
// that are not in the employee::certificate form.
func SplitCertRowKey(key string) (employeeID, certificateID string, ok bool) {
	employeeID, certificateID, ok = strings.Cut(key, certRowSep)
	if !ok || employeeID == "" || certificateID == "" {
		return "", "", false
	}
	return employeeID, certificateID, true
}

// Selection is a mutable set of row keys. Not safe for concurrent use; one
// selection belongs to one view.
type Selection struct {
	keys map[string]struct{}
}

func New() *Selection {
	return &Selection{keys: make(map[string]struct{})}
}

// Toggle flips membership of a single row key.
func (s *Selection) Toggle(key string) {
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		return
	}
	s.keys[key] = struct{}{}
}

// ToggleAllVisible implements the header checkbox: if every visible row is
// already selected, deselect exactly those rows; otherwise select them all.
// Rows outside the visible set are never touched.
func (s *Selection) ToggleAllVisible(visible []string) {
	if s.AllVisibleSelected(visible) {
		for _, k := range visible {
			delete(s.keys, k)
		}
		return
	}
	for _, k := range visible {
		s.keys[k] = struct{}{}
	}
}

// AllVisibleSelected reports whether the selection covers every visible
// row. An empty selection never counts as all-selected.
func (s *Selection) AllVisibleSelected(visible []string) bool {
	if len(s.keys) == 0 || len(visible) == 0 {
		return false
	}
	for _, k := range visible {
		if _, ok := s.keys[k]; !ok {
			return false
		}
	}
	return true
}

// PartiallySelected reports the indeterminate checkbox state: some but not
// all visible rows selected.
func (s *Selection) PartiallySelected(visible []string) bool {
	if len(s.keys) == 0 || s.AllVisibleSelected(visible) {
		return false
	}
	for _, k := range visible {
		if _, ok := s.keys[k]; ok {
			return true
		}
	}
	return false
}

func (s *Selection) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *Selection) Len() int { return len(s.keys) }

// Keys returns the selected keys in stable (sorted) order.
func (s *Selection) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Selection) Clear() {
	s.keys = make(map[string]struct{})
}
