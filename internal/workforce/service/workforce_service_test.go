package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/selection"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	return New(store.New(store.NewMemoryKV()), 30)
}

func TestService_ArchiveSelectedCertificates(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	emp, err := svc.AddEmployee(ctx, "owner-1", store.AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)
	c1, err := svc.AddCertificate(ctx, "owner-1", emp.ID, store.AddCertificateInput{Name: "A"})
	require.NoError(t, err)
	c2, err := svc.AddCertificate(ctx, "owner-1", emp.ID, store.AddCertificateInput{Name: "B"})
	require.NoError(t, err)

	// c2 is deleted after selection but before the bulk action lands
	require.NoError(t, svc.RemoveCertificate(ctx, "owner-1", emp.ID, c2.ID))

	keys := []string{
		selection.CertRowKey(emp.ID, c1.ID),
		selection.CertRowKey(emp.ID, c2.ID),
		"malformed-key",
	}
	n, err := svc.ArchiveSelectedCertificates(ctx, "owner-1", keys)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	row, err := svc.FindCertificateRow(ctx, "owner-1", c1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CertificateArchived, row.Certificate.Status)
}

func TestService_CloseSelectedProjects(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	p1, err := svc.AddProject(ctx, "owner-1", store.AddProjectInput{Name: "One"})
	require.NoError(t, err)
	p2, err := svc.AddProject(ctx, "owner-1", store.AddProjectInput{Name: "Two"})
	require.NoError(t, err)

	n, err := svc.CloseSelectedProjects(ctx, "owner-1", []string{p1.ID, p2.ID, "prj_gone"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := svc.GetProject(ctx, "owner-1", p1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, got.Status)
	assert.True(t, got.Closed())
}

func TestService_ExportSelectedCertificatesSkipsDangling(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	emp, err := svc.AddEmployee(ctx, "owner-1", store.AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)
	c1, err := svc.AddCertificate(ctx, "owner-1", emp.ID, store.AddCertificateInput{
		Name: "Heta Arbeten", ExpiryDate: "2027-01-01",
	})
	require.NoError(t, err)

	keys := []string{
		selection.CertRowKey(emp.ID, c1.ID),
		selection.CertRowKey(emp.ID, "cert_gone"),
		selection.CertRowKey("emp_gone", "cert_x"),
	}
	csv, err := svc.ExportSelectedCertificatesCSV(ctx, "owner-1", keys)
	require.NoError(t, err)

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Heta Arbeten")
}

func TestService_GetOverview(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	past := time.Now().AddDate(0, 0, -10).Format("2006-01-02")

	emp, err := svc.AddEmployee(ctx, "owner-1", store.AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)
	_, err = svc.AddCertificate(ctx, "owner-1", emp.ID, store.AddCertificateInput{Name: "Soon", ExpiryDate: soon})
	require.NoError(t, err)
	_, err = svc.AddCertificate(ctx, "owner-1", emp.ID, store.AddCertificateInput{Name: "Past", ExpiryDate: past})
	require.NoError(t, err)

	// archived employees do not count at all
	archived, err := svc.AddEmployee(ctx, "owner-1", store.AddEmployeeInput{Name: "Gone"})
	require.NoError(t, err)
	archived.Status = domain.EmployeeArchived
	require.NoError(t, svc.UpdateEmployee(ctx, "owner-1", *archived))

	_, err = svc.AddProject(ctx, "owner-1", store.AddProjectInput{Name: "Active"})
	require.NoError(t, err)
	closed, err := svc.AddProject(ctx, "owner-1", store.AddProjectInput{Name: "Done"})
	require.NoError(t, err)
	require.NoError(t, svc.SetProjectStatus(ctx, "owner-1", closed.ID, domain.ProjectCompleted))

	ov, err := svc.GetOverview(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, ov.EmployeeCount)
	assert.Equal(t, 2, ov.CertificateCount)
	assert.Equal(t, 1, ov.ExpiringSoonCount)
	assert.Equal(t, 1, ov.ExpiredCount)
	assert.Equal(t, 1, ov.ActiveProjects)
}

func TestService_OwnersAreIsolated(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.AddEmployee(ctx, "owner-a", store.AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)

	listB, err := svc.ListEmployees(ctx, "owner-b", EmployeeListOptions{})
	require.NoError(t, err)
	assert.Empty(t, listB)

	on, err := svc.ToggleFavoriteEmployee(ctx, "owner-a", "emp_x")
	require.NoError(t, err)
	assert.True(t, on)

	favB, err := svc.Favorites(ctx, "owner-b")
	require.NoError(t, err)
	assert.Empty(t, favB.Employees)
}

func TestService_IsNotFound(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.GetEmployee(ctx, "owner-1", "emp_none")
	assert.True(t, IsNotFound(err))

	_, err = svc.GetProject(ctx, "owner-1", "prj_none")
	assert.True(t, IsNotFound(err))

	_, err = svc.FindCertificateRow(ctx, "owner-1", "cert_none")
	assert.True(t, IsNotFound(err))
}
