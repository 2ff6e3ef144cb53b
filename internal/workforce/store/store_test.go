package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ctx := context.Background()
	err = client.Ping(ctx).Err()
	require.NoError(t, err)

	return client, mr
}

func newClientFor(t *testing.T, addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	client, mr := setupTestRedis(t)
	return New(NewRedisKV(client)).Scoped("owner-1"), mr
}

func TestStore_AddEmployee(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	first, err := s.AddEmployee(ctx, AddEmployeeInput{Name: "Anna Svensson", Email: "anna@example.com"})
	require.NoError(t, err)
	assert.True(t, len(first.ID) > 4 && first.ID[:4] == "emp_")
	assert.Equal(t, domain.EmployeeActive, first.Status)
	assert.NotNil(t, first.Certificates)

	second, err := s.AddEmployee(ctx, AddEmployeeInput{Name: "Bo Berg"})
	require.NoError(t, err)

	// newest first
	list, err := s.LoadEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestStore_RemoveEmployee_Idempotent(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	emp, err := s.AddEmployee(ctx, AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)

	require.NoError(t, s.RemoveEmployee(ctx, emp.ID))
	require.NoError(t, s.RemoveEmployee(ctx, emp.ID))
	require.NoError(t, s.RemoveEmployee(ctx, "emp_nosuch"))

	list, err := s.LoadEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_AddCertificate(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	emp, err := s.AddEmployee(ctx, AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)

	cert, err := s.AddCertificate(ctx, emp.ID, AddCertificateInput{
		Name:       "Heta Arbeten",
		ExpiryDate: "2027-01-01",
	})
	require.NoError(t, err)
	assert.True(t, len(cert.ID) > 5 && cert.ID[:5] == "cert_")
	assert.Equal(t, domain.CertificateActive, cert.Status)

	second, err := s.AddCertificate(ctx, emp.ID, AddCertificateInput{Name: "Truckkort"})
	require.NoError(t, err)

	list, err := s.LoadEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list[0].Certificates, 2)
	assert.Equal(t, second.ID, list[0].Certificates[0].ID)
}

func TestStore_AddCertificate_MissingEmployee(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.AddCertificate(context.Background(), "emp_nosuch", AddCertificateInput{Name: "X"})
	require.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestStore_FindCertificateByID(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	emp, err := s.AddEmployee(ctx, AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)
	cert, err := s.AddCertificate(ctx, emp.ID, AddCertificateInput{Name: "Heta Arbeten"})
	require.NoError(t, err)

	gotEmp, gotCert, err := s.FindCertificateByID(ctx, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, gotEmp)
	assert.Equal(t, "Heta Arbeten", gotCert.Name)

	_, _, err = s.FindCertificateByID(ctx, "cert_nosuch")
	require.ErrorIs(t, err, domain.ErrCertificateNotFound)
}

func TestStore_ProjectMembers(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	p, err := s.AddProject(ctx, AddProjectInput{Name: "Bygg Nord"})
	require.NoError(t, err)

	require.NoError(t, s.AddMemberToProject(ctx, p.ID, "emp_a"))
	// adding the same member again is a no-op
	require.NoError(t, s.AddMemberToProject(ctx, p.ID, "emp_a"))

	list, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list[0].Members, 1)

	require.NoError(t, s.RemoveMemberFromProject(ctx, p.ID, "emp_a"))
	require.NoError(t, s.RemoveMemberFromProject(ctx, p.ID, "emp_a"))

	list, err = s.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, list[0].Members)

	require.ErrorIs(t, s.AddMemberToProject(ctx, "prj_nosuch", "emp_a"), domain.ErrProjectNotFound)
}

func TestStore_CorruptDocumentFailsSoft(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("ks:owner-1:employees:v2", "{not json"))

	list, err := s.LoadEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// writing over the corrupt value recovers the key
	_, err = s.AddEmployee(ctx, AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)

	list, err = s.LoadEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_OwnerScoping(t *testing.T) {
	client, _ := setupTestRedis(t)
	base := New(NewRedisKV(client))
	ctx := context.Background()

	a := base.Scoped("owner-a")
	b := base.Scoped("owner-b")

	_, err := a.AddEmployee(ctx, AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)

	listB, err := b.LoadEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, listB)

	listA, err := a.LoadEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, listA, 1)
}

func TestStore_FavoritesToggle(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	on, err := s.ToggleFavoriteEmployee(ctx, "emp_a")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.ToggleFavoriteEmployee(ctx, "emp_a")
	require.NoError(t, err)
	assert.False(t, on)

	on, err = s.ToggleFavoriteProject(ctx, "prj_a")
	require.NoError(t, err)
	assert.True(t, on)

	fav, err := s.LoadFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, fav.Employees)
	assert.Equal(t, []string{"prj_a"}, fav.Projects)
}

func TestStore_BatchArchiveCertificates(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	emp, err := s.AddEmployee(ctx, AddEmployeeInput{Name: "Anna"})
	require.NoError(t, err)
	c1, err := s.AddCertificate(ctx, emp.ID, AddCertificateInput{Name: "A"})
	require.NoError(t, err)
	c2, err := s.AddCertificate(ctx, emp.ID, AddCertificateInput{Name: "B"})
	require.NoError(t, err)

	refs := []CertRef{
		{EmployeeID: emp.ID, CertificateID: c1.ID},
		{EmployeeID: emp.ID, CertificateID: c2.ID},
		{EmployeeID: "emp_gone", CertificateID: "cert_gone"},
	}
	n, err := s.ArchiveCertificates(ctx, refs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.LoadEmployees(ctx)
	require.NoError(t, err)
	for _, c := range list[0].Certificates {
		assert.Equal(t, domain.CertificateArchived, c.Status)
	}
}

func TestStore_BatchProjectOps(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	p1, err := s.AddProject(ctx, AddProjectInput{Name: "One"})
	require.NoError(t, err)
	p2, err := s.AddProject(ctx, AddProjectInput{Name: "Two"})
	require.NoError(t, err)

	n, err := s.SetProjectsStatus(ctx, []string{p1.ID, "prj_gone"}, domain.ProjectCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.RemoveProjects(ctx, []string{p2.ID, "prj_gone"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := s.LoadProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ProjectCompleted, list[0].Status)
}
