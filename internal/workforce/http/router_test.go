package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CertTrack-HQ/certtrack-backend/internal/auth"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/service"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *service.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.New(store.New(store.NewMemoryKV()), 30)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(auth.OptionalUser())
	Register(api, svc)

	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "tester")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEmployeeEndpoints(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{
		"name":  "Anna Svensson",
		"email": "anna@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		OK       bool `json:"ok"`
		Employee struct {
			ID string `json:"id"`
		} `json:"employee"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.OK)
	require.NotEmpty(t, created.Employee.ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/employees?status=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Anna Svensson")

	w = doJSON(t, r, http.MethodGet, "/api/v1/employees/"+created.Employee.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/employees/emp_missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/employees/"+created.Employee.ID+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/employees?status=archived", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.Employee.ID)
}

func TestCertificateEndpoints(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "Bo Berg"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Employee struct {
			ID string `json:"id"`
		} `json:"employee"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPost, "/api/v1/employees/"+created.Employee.ID+"/certificates", gin.H{
		"name":        "Heta Arbeten",
		"expiry_date": "2027-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var certResp struct {
		Certificate struct {
			ID string `json:"id"`
		} `json:"certificate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &certResp))

	w = doJSON(t, r, http.MethodGet, "/api/v1/certificates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Heta Arbeten")

	w = doJSON(t, r, http.MethodPost, "/api/v1/certificates/"+certResp.Certificate.ID+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/certificates?status=archived", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), certResp.Certificate.ID)
}

func TestCSVExportHeaders(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "Anna"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/employees/export.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "employees.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "employee_id,name,email"))
}

func TestBulkProjectEndpoints(t *testing.T) {
	r, _ := setupTestRouter(t)

	var ids []string
	for _, name := range []string{"One", "Two"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Project struct {
				ID string `json:"id"`
			} `json:"project"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		ids = append(ids, resp.Project.ID)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects/bulk/close", gin.H{"ids": ids})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"closed":2`)

	w = doJSON(t, r, http.MethodGet, "/api/v1/projects?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ids[0])

	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/bulk/delete", gin.H{"ids": ids[:1]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":1`)

	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/bulk/close", gin.H{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoritesEndpoints(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/favorites/employees/emp_x/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favorite":true`)

	w = doJSON(t, r, http.MethodPost, "/api/v1/favorites/employees/emp_x/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favorite":false`)
}
