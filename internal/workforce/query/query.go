// Package query evaluates the dashboard table views: status filter, then
// free-text search, then an optional column sort. It is stateless and
// re-evaluated from scratch on every call; inputs are never mutated.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/status"
)

/* ---------- employees ---------- */

// EmployeeFilter is the employee table's status vocabulary.
type EmployeeFilter string

const (
	EmployeesAll      EmployeeFilter = "all"
	EmployeesNoCerts  EmployeeFilter = "no-certs"
	EmployeesSoon     EmployeeFilter = "soon"
	EmployeesExpired  EmployeeFilter = "expired"
	EmployeesArchived EmployeeFilter = "archived"
)

// Employee sort keys.
const (
	SortEmployeeName      = "name"
	SortEmployeeContact   = "contact"
	SortEmployeeCertCount = "cert_count"
)

// EmployeeQuery describes one evaluation of the employee table.
type EmployeeQuery struct {
	Filter        EmployeeFilter
	Term          string
	Sort          Sort
	Today         time.Time
	ThresholdDays int
}

// Employees returns the filtered, searched and sorted employee view.
// Filtering is conjunctive; "all" includes archived employees, while the
// temporal tiers exclude them.
func Employees(list []domain.Employee, q EmployeeQuery) []domain.Employee {
	term := foldTerm(q.Term)
	out := make([]domain.Employee, 0, len(list))
	for _, e := range list {
		if !employeeMatchesFilter(e, q) {
			continue
		}
		if term != "" && !employeeMatchesTerm(e, term) {
			continue
		}
		out = append(out, e)
	}
	sortEmployees(out, q)
	return out
}

func employeeMatchesFilter(e domain.Employee, q EmployeeQuery) bool {
	archived := e.Status == domain.EmployeeArchived
	switch q.Filter {
	case "", EmployeesAll:
		return true
	case EmployeesArchived:
		return archived
	case EmployeesNoCerts:
		return !archived && len(e.Certificates) == 0
	case EmployeesSoon:
		return !archived && SoonCertCount(e, q.Today, q.ThresholdDays) > 0
	case EmployeesExpired:
		return !archived && ExpiredCertCount(e, q.Today, q.ThresholdDays) > 0
	default:
		return false
	}
}

func employeeMatchesTerm(e domain.Employee, term string) bool {
	if anyContains(term, e.Name, e.Email, e.Role, e.Phone) {
		return true
	}
	for _, c := range e.Certificates {
		if anyContains(term, c.Name, c.Issuer, c.Number, c.Notes) {
			return true
		}
	}
	return false
}

func sortEmployees(list []domain.Employee, q EmployeeQuery) {
	if q.Sort.None() {
		return
	}
	factor := q.Sort.factor()
	col := newCollator()
	switch q.Sort.Key {
	case SortEmployeeName:
		sort.SliceStable(list, func(i, j int) bool {
			return factor*col.CompareString(list[i].Name, list[j].Name) < 0
		})
	case SortEmployeeContact:
		sort.SliceStable(list, func(i, j int) bool {
			if cmp := col.CompareString(list[i].Email, list[j].Email); cmp != 0 {
				return factor*cmp < 0
			}
			return factor*col.CompareString(list[i].Phone, list[j].Phone) < 0
		})
	case SortEmployeeCertCount:
		sort.SliceStable(list, func(i, j int) bool {
			return factor*(ActiveCertCount(list[i], q.Today, q.ThresholdDays)-ActiveCertCount(list[j], q.Today, q.ThresholdDays)) < 0
		})
	}
}

// ActiveCertCount counts certificates that are neither archived nor
// expired (expiring soon still counts as active here).
func ActiveCertCount(e domain.Employee, today time.Time, thresholdDays int) int {
	n := 0
	for _, c := range e.Certificates {
		switch status.Certificate(c, today, thresholdDays).Tier {
		case status.TierActive, status.TierExpiringSoon:
			n++
		}
	}
	return n
}

// SoonCertCount counts certificates classified as expiring soon.
func SoonCertCount(e domain.Employee, today time.Time, thresholdDays int) int {
	n := 0
	for _, c := range e.Certificates {
		if status.Certificate(c, today, thresholdDays).Tier == status.TierExpiringSoon {
			n++
		}
	}
	return n
}

// ExpiredCertCount counts certificates classified as expired.
func ExpiredCertCount(e domain.Employee, today time.Time, thresholdDays int) int {
	n := 0
	for _, c := range e.Certificates {
		if status.Certificate(c, today, thresholdDays).Tier == status.TierExpired {
			n++
		}
	}
	return n
}

/* ---------- certificate rows ---------- */

// CertificateFilter is the flattened certificate table's vocabulary.
type CertificateFilter string

const (
	CertificatesAll      CertificateFilter = "all"
	CertificatesActive   CertificateFilter = "active"
	CertificatesSoon     CertificateFilter = "soon"
	CertificatesExpired  CertificateFilter = "expired"
	CertificatesArchived CertificateFilter = "archived"
)

// Certificate sort keys.
const (
	SortCertName     = "cert"
	SortCertEmployee = "employee"
)

// CertificateRow is one flattened row: a certificate joined with its
// owning employee's display fields.
type CertificateRow struct {
	EmployeeID    string             `json:"employee_id"`
	EmployeeName  string             `json:"employee_name"`
	EmployeeEmail string             `json:"employee_email,omitempty"`
	EmployeePhone string             `json:"employee_phone,omitempty"`
	Certificate   domain.Certificate `json:"certificate"`
}

// FlattenCertificates produces one row per certificate in the natural
// listing order: ascending expiry date with absent dates last, ties broken
// by certificate name.
func FlattenCertificates(list []domain.Employee) []CertificateRow {
	rows := make([]CertificateRow, 0, len(list))
	for _, e := range list {
		for _, c := range e.Certificates {
			rows = append(rows, CertificateRow{
				EmployeeID:    e.ID,
				EmployeeName:  e.Name,
				EmployeeEmail: e.Email,
				EmployeePhone: e.Phone,
				Certificate:   c,
			})
		}
	}
	col := newCollator()
	sort.SliceStable(rows, func(i, j int) bool {
		ai, aok := expiryUnix(rows[i].Certificate)
		bi, bok := expiryUnix(rows[j].Certificate)
		if aok != bok {
			return aok
		}
		if aok && ai != bi {
			return ai < bi
		}
		return col.CompareString(rows[i].Certificate.Name, rows[j].Certificate.Name) < 0
	})
	return rows
}

func expiryUnix(c domain.Certificate) (int64, bool) {
	if c.ExpiryDate == "" {
		return 0, false
	}
	t, err := time.Parse(status.DateLayout, c.ExpiryDate)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}

// CertificateQuery describes one evaluation of the certificate table.
type CertificateQuery struct {
	Filter        CertificateFilter
	Term          string
	Sort          Sort
	Today         time.Time
	ThresholdDays int
}

// Certificates filters, searches and sorts flattened certificate rows.
// The archived tier matches only archived certificates; the temporal tiers
// never match archived ones.
func Certificates(rows []CertificateRow, q CertificateQuery) []CertificateRow {
	term := foldTerm(q.Term)
	out := make([]CertificateRow, 0, len(rows))
	for _, r := range rows {
		if !certMatchesFilter(r.Certificate, q) {
			continue
		}
		if term != "" && !anyContains(term, r.Certificate.Name, r.EmployeeName, r.Certificate.Issuer, r.Certificate.Number) {
			continue
		}
		out = append(out, r)
	}
	sortCertificates(out, q)
	return out
}

func certMatchesFilter(c domain.Certificate, q CertificateQuery) bool {
	switch q.Filter {
	case "", CertificatesAll:
		return true
	}
	tier := status.Certificate(c, q.Today, q.ThresholdDays).Tier
	switch q.Filter {
	case CertificatesArchived:
		return tier == status.TierArchived
	case CertificatesExpired:
		return tier == status.TierExpired
	case CertificatesSoon:
		return tier == status.TierExpiringSoon
	case CertificatesActive:
		// The active filter keeps everything not expired and not
		// archived, expiring-soon included.
		return tier == status.TierActive || tier == status.TierExpiringSoon
	default:
		return false
	}
}

func sortCertificates(rows []CertificateRow, q CertificateQuery) {
	if q.Sort.None() {
		return
	}
	factor := q.Sort.factor()
	col := newCollator()
	switch q.Sort.Key {
	case SortCertName:
		sort.SliceStable(rows, func(i, j int) bool {
			return factor*col.CompareString(rows[i].Certificate.Name, rows[j].Certificate.Name) < 0
		})
	case SortCertEmployee:
		sort.SliceStable(rows, func(i, j int) bool {
			return factor*col.CompareString(rows[i].EmployeeName, rows[j].EmployeeName) < 0
		})
	}
}

/* ---------- projects ---------- */

// ProjectFilter is "all" or one exact project status.
type ProjectFilter string

const ProjectsAll ProjectFilter = "all"

// Project sort keys.
const (
	SortProjectName     = "name"
	SortProjectCustomer = "customer"
)

// ProjectQuery describes one evaluation of the project table.
type ProjectQuery struct {
	Filter ProjectFilter
	Term   string
	Sort   Sort
}

// Projects filters, searches and sorts the project view.
func Projects(list []domain.Project, q ProjectQuery) []domain.Project {
	term := foldTerm(q.Term)
	out := make([]domain.Project, 0, len(list))
	for _, p := range list {
		if q.Filter != "" && q.Filter != ProjectsAll && string(q.Filter) != string(p.Status) {
			continue
		}
		if term != "" && !anyContains(term, p.Name, p.Customer, p.Location) {
			continue
		}
		out = append(out, p)
	}
	sortProjects(out, q)
	return out
}

func sortProjects(list []domain.Project, q ProjectQuery) {
	if q.Sort.None() {
		return
	}
	factor := q.Sort.factor()
	col := newCollator()
	switch q.Sort.Key {
	case SortProjectName:
		sort.SliceStable(list, func(i, j int) bool {
			return factor*col.CompareString(list[i].Name, list[j].Name) < 0
		})
	case SortProjectCustomer:
		sort.SliceStable(list, func(i, j int) bool {
			if cmp := col.CompareString(list[i].Customer, list[j].Customer); cmp != 0 {
				return factor*cmp < 0
			}
			return factor*col.CompareString(list[i].Location, list[j].Location) < 0
		})
	}
}

/* ---------- helpers ---------- */

// foldTerm normalizes a search term; an empty or whitespace-only term
// matches everything.
func foldTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func anyContains(foldedTerm string, fields ...string) bool {
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), foldedTerm) {
			return true
		}
	}
	return false
}
