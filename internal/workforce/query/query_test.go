package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/status"
)

func day(s string) time.Time {
	t, err := time.Parse(status.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func cert(id, name, expiry string) domain.Certificate {
	return domain.Certificate{ID: id, Name: name, ExpiryDate: expiry, Status: domain.CertificateActive}
}

func testEmployees() []domain.Employee {
	return []domain.Employee{
		{
			ID: "emp_anna", Name: "Anna Svensson", Email: "anna@example.com",
			Status: domain.EmployeeActive, Certificates: []domain.Certificate{},
		},
		{
			ID: "emp_bo", Name: "Bo Berg", Email: "bo@example.com", Role: "Electrician",
			Status: domain.EmployeeActive,
			Certificates: []domain.Certificate{
				cert("cert_soon", "Heta Arbeten", "2025-06-15"),
				cert("cert_far", "Truckkort", "2027-01-01"),
			},
		},
		{
			ID: "emp_cia", Name: "Cia Dahl", Email: "cia@example.com",
			Status: domain.EmployeeActive,
			Certificates: []domain.Certificate{
				cert("cert_old", "Fallskydd", "2024-12-01"),
			},
		},
		{
			ID: "emp_dan", Name: "Dan Ek",
			Status: domain.EmployeeArchived,
			Certificates: []domain.Certificate{
				cert("cert_dan", "Heta Arbeten", "2024-01-01"),
			},
		},
	}
}

func TestEmployees_Filters(t *testing.T) {
	list := testEmployees()
	today := day("2025-06-01")

	q := EmployeeQuery{Today: today, ThresholdDays: status.DefaultSoonThresholdDays}

	t.Run("all includes archived", func(t *testing.T) {
		q := q
		q.Filter = EmployeesAll
		assert.Len(t, Employees(list, q), 4)
	})

	t.Run("no-certs", func(t *testing.T) {
		q := q
		q.Filter = EmployeesNoCerts
		got := Employees(list, q)
		require.Len(t, got, 1)
		assert.Equal(t, "emp_anna", got[0].ID)
	})

	t.Run("soon excludes archived employees", func(t *testing.T) {
		q := q
		q.Filter = EmployeesSoon
		got := Employees(list, q)
		require.Len(t, got, 1)
		assert.Equal(t, "emp_bo", got[0].ID)
	})

	t.Run("expired", func(t *testing.T) {
		q := q
		q.Filter = EmployeesExpired
		got := Employees(list, q)
		require.Len(t, got, 1)
		assert.Equal(t, "emp_cia", got[0].ID)
	})

	t.Run("archived", func(t *testing.T) {
		q := q
		q.Filter = EmployeesArchived
		got := Employees(list, q)
		require.Len(t, got, 1)
		assert.Equal(t, "emp_dan", got[0].ID)
	})
}

func TestEmployees_Search(t *testing.T) {
	list := testEmployees()
	q := EmployeeQuery{Filter: EmployeesAll, Today: day("2025-06-01"), ThresholdDays: 30}

	t.Run("matches nested certificate name", func(t *testing.T) {
		q := q
		q.Term = "truckkort"
		got := Employees(list, q)
		require.Len(t, got, 1)
		assert.Equal(t, "emp_bo", got[0].ID)
	})

	t.Run("matches role case-insensitively", func(t *testing.T) {
		q := q
		q.Term = "ELECTRICIAN"
		got := Employees(list, q)
		require.Len(t, got, 1)
		assert.Equal(t, "emp_bo", got[0].ID)
	})

	t.Run("empty term matches everyone", func(t *testing.T) {
		q := q
		q.Term = "   "
		assert.Len(t, Employees(list, q), 4)
	})

	t.Run("input order is preserved without a sort", func(t *testing.T) {
		got := Employees(list, q)
		assert.Equal(t, "emp_anna", got[0].ID)
		assert.Equal(t, "emp_dan", got[3].ID)
	})
}

func TestEmployees_Sort(t *testing.T) {
	list := testEmployees()
	q := EmployeeQuery{Filter: EmployeesAll, Today: day("2025-06-01"), ThresholdDays: 30}

	t.Run("by name desc", func(t *testing.T) {
		q := q
		q.Sort = Sort{Key: SortEmployeeName, Dir: SortDesc}
		got := Employees(list, q)
		assert.Equal(t, "emp_dan", got[0].ID)
		assert.Equal(t, "emp_anna", got[3].ID)
	})

	t.Run("by cert count", func(t *testing.T) {
		q := q
		q.Sort = Sort{Key: SortEmployeeCertCount, Dir: SortDesc}
		got := Employees(list, q)
		assert.Equal(t, "emp_bo", got[0].ID)
	})

	t.Run("repeated evaluation is stable", func(t *testing.T) {
		q := q
		q.Sort = Sort{Key: SortEmployeeName, Dir: SortAsc}
		first := Employees(list, q)
		second := Employees(list, q)
		assert.Equal(t, first, second)
	})
}

func TestNextSort_ToggleCycle(t *testing.T) {
	s := NextSort(Sort{}, SortEmployeeName)
	assert.Equal(t, Sort{Key: SortEmployeeName, Dir: SortAsc}, s)

	s = NextSort(s, SortEmployeeName)
	assert.Equal(t, Sort{Key: SortEmployeeName, Dir: SortDesc}, s)

	s = NextSort(s, SortEmployeeName)
	assert.True(t, s.None())

	// clicking a different column resets to ascending
	s = NextSort(Sort{Key: SortEmployeeName, Dir: SortDesc}, SortEmployeeContact)
	assert.Equal(t, Sort{Key: SortEmployeeContact, Dir: SortAsc}, s)
}

func TestFlattenCertificates_NaturalOrder(t *testing.T) {
	list := []domain.Employee{
		{
			ID: "emp_a", Name: "A",
			Certificates: []domain.Certificate{
				cert("c_none", "Utan datum", ""),
				cert("c_late", "Sent", "2027-05-01"),
			},
		},
		{
			ID: "emp_b", Name: "B",
			Certificates: []domain.Certificate{
				cert("c_early", "Tidigt", "2025-01-01"),
				cert("c_tie_b", "B-kort", "2027-05-01"),
			},
		},
	}

	rows := FlattenCertificates(list)
	require.Len(t, rows, 4)
	assert.Equal(t, "c_early", rows[0].Certificate.ID)
	// same expiry: name order breaks the tie
	assert.Equal(t, "c_tie_b", rows[1].Certificate.ID)
	assert.Equal(t, "c_late", rows[2].Certificate.ID)
	// no expiry goes last
	assert.Equal(t, "c_none", rows[3].Certificate.ID)
}

func TestCertificates_Filters(t *testing.T) {
	today := day("2025-06-01")
	archived := cert("c_arch", "Gammalt", "2027-01-01")
	archived.Status = domain.CertificateArchived

	rows := FlattenCertificates([]domain.Employee{
		{
			ID: "emp_a", Name: "A",
			Certificates: []domain.Certificate{
				cert("c_soon", "Snart", "2025-06-20"),
				cert("c_exp", "Utgånget", "2025-01-01"),
				cert("c_ok", "Giltigt", "2027-01-01"),
				archived,
			},
		},
	})

	q := CertificateQuery{Today: today, ThresholdDays: 30}

	ids := func(rows []CertificateRow) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Certificate.ID)
		}
		return out
	}

	t.Run("archived wins over expiry date", func(t *testing.T) {
		q := q
		q.Filter = CertificatesArchived
		assert.Equal(t, []string{"c_arch"}, ids(Certificates(rows, q)))
	})

	t.Run("active includes soon, never archived", func(t *testing.T) {
		q := q
		q.Filter = CertificatesActive
		got := ids(Certificates(rows, q))
		assert.Contains(t, got, "c_soon")
		assert.Contains(t, got, "c_ok")
		assert.NotContains(t, got, "c_arch")
		assert.NotContains(t, got, "c_exp")
	})

	t.Run("expired", func(t *testing.T) {
		q := q
		q.Filter = CertificatesExpired
		assert.Equal(t, []string{"c_exp"}, ids(Certificates(rows, q)))
	})

	t.Run("search on issuer and number", func(t *testing.T) {
		withIssuer := cert("c_iss", "Kort", "2027-01-01")
		withIssuer.Issuer = "Brandskyddsföreningen"
		rows := FlattenCertificates([]domain.Employee{
			{ID: "emp_a", Name: "A", Certificates: []domain.Certificate{withIssuer}},
		})
		q := q
		q.Filter = CertificatesAll
		q.Term = "brandskydds"
		assert.Equal(t, []string{"c_iss"}, ids(Certificates(rows, q)))
	})
}

func TestProjects_FilterAndSort(t *testing.T) {
	list := []domain.Project{
		{ID: "p1", Name: "Bygg Syd", Customer: "NCC", Status: domain.ProjectActive},
		{ID: "p2", Name: "Anläggning", Customer: "Peab", Location: "Lund", Status: domain.ProjectCompleted},
		{ID: "p3", Name: "Bygg Nord", Customer: "NCC", Location: "Kiruna", Status: domain.ProjectActive},
	}

	t.Run("exact status filter", func(t *testing.T) {
		got := Projects(list, ProjectQuery{Filter: ProjectFilter(domain.ProjectCompleted)})
		require.Len(t, got, 1)
		assert.Equal(t, "p2", got[0].ID)
	})

	t.Run("search by customer", func(t *testing.T) {
		got := Projects(list, ProjectQuery{Filter: ProjectsAll, Term: "ncc"})
		assert.Len(t, got, 2)
	})

	t.Run("customer sort falls back to location", func(t *testing.T) {
		got := Projects(list, ProjectQuery{
			Filter: ProjectsAll,
			Sort:   Sort{Key: SortProjectCustomer, Dir: SortAsc},
		})
		require.Len(t, got, 3)
		// NCC before Peab; within NCC, empty location first
		assert.Equal(t, "p1", got[0].ID)
		assert.Equal(t, "p3", got[1].ID)
		assert.Equal(t, "p2", got[2].ID)
	})
}

func TestCertCounts(t *testing.T) {
	today := day("2025-06-01")
	e := testEmployees()[1] // Bo: one soon, one far

	assert.Equal(t, 2, ActiveCertCount(e, today, 30))
	assert.Equal(t, 1, SoonCertCount(e, today, 30))
	assert.Equal(t, 0, ExpiredCertCount(e, today, 30))
}
