package http

import (
	"github.com/gin-gonic/gin"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/query"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/service"
)

type Handler struct {
	svc *service.Service
}

// Register mounts the workforce dashboard API onto rg. Callers must have
// installed an auth middleware that resolves the owner id first.
func Register(rg *gin.RouterGroup, svc *service.Service) {
	h := &Handler{svc: svc}

	rg.GET("/overview", h.overview)

	fav := rg.Group("/favorites")
	fav.GET("", h.listFavorites)
	fav.POST("/employees/:employee_id/toggle", h.toggleFavoriteEmployee)
	fav.POST("/projects/:project_id/toggle", h.toggleFavoriteProject)

	emp := rg.Group("/employees")
	emp.GET("", h.listEmployees)
	emp.POST("", h.createEmployee)
	emp.GET("/export.csv", h.exportEmployees)
	emp.POST("/bulk/archive", h.bulkArchiveEmployees)
	emp.POST("/bulk/export", h.bulkExportEmployees)
	emp.GET("/:employee_id", h.getEmployee)
	emp.PATCH("/:employee_id", h.updateEmployee)
	emp.DELETE("/:employee_id", h.deleteEmployee)
	emp.GET("/:employee_id/export.csv", h.exportEmployeeRecord)
	emp.POST("/:employee_id/archive", h.archiveEmployee)
	emp.POST("/:employee_id/certificates", h.createCertificate)
	emp.PATCH("/:employee_id/certificates/:certificate_id", h.updateCertificate)
	emp.DELETE("/:employee_id/certificates/:certificate_id", h.deleteCertificate)

	cert := rg.Group("/certificates")
	cert.GET("", h.listCertificates)
	cert.GET("/export.csv", h.exportCertificates)
	cert.POST("/bulk/archive", h.bulkArchiveCertificates)
	cert.POST("/bulk/export", h.bulkExportCertificates)
	cert.GET("/:certificate_id", h.getCertificate)
	cert.GET("/:certificate_id/export.csv", h.exportCertificateRecord)
	cert.POST("/:certificate_id/archive", h.archiveCertificate)

	prj := rg.Group("/projects")
	prj.GET("", h.listProjects)
	prj.POST("", h.createProject)
	prj.GET("/export.csv", h.exportProjects)
	prj.POST("/bulk/close", h.bulkCloseProjects)
	prj.POST("/bulk/delete", h.bulkDeleteProjects)
	prj.POST("/bulk/export", h.bulkExportProjects)
	prj.GET("/:project_id", h.getProject)
	prj.PATCH("/:project_id", h.updateProject)
	prj.DELETE("/:project_id", h.deleteProject)
	prj.POST("/:project_id/status", h.setProjectStatus)
	prj.GET("/:project_id/members", h.listMembers)
	prj.POST("/:project_id/members", h.addMember)
	prj.DELETE("/:project_id/members/:employee_id", h.removeMember)
}

// querySort reads the sort/dir query params. An unknown dir falls back to
// ascending; an empty sort key means natural order.
func querySort(c *gin.Context) query.Sort {
	key := c.Query("sort")
	if key == "" {
		return query.Sort{}
	}
	dir := query.SortAsc
	if c.Query("dir") == string(query.SortDesc) {
		dir = query.SortDesc
	}
	return query.Sort{Key: key, Dir: dir}
}
