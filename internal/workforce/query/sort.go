package query

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Sort is one column/direction pair. The zero value means natural order.
type Sort struct {
	Key string  `json:"key"`
	Dir SortDir `json:"dir"`
}

func (s Sort) None() bool { return s.Key == "" }

func (s Sort) factor() int {
	if s.Dir == SortDesc {
		return -1
	}
	return 1
}

// NextSort advances the header-click toggle cycle for a column:
// none -> asc -> desc -> none. Clicking a different column starts that
// column at ascending.
func NextSort(current Sort, key string) Sort {
	if current.Key != key {
		return Sort{Key: key, Dir: SortAsc}
	}
	if current.Dir == SortAsc {
		return Sort{Key: key, Dir: SortDesc}
	}
	return Sort{}
}

// newCollator builds a Swedish collator for name-like fields. Collators
// are not safe for concurrent use, so each query evaluation gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Swedish)
}
