package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CertTrack-HQ/certtrack-backend/internal/auth"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/export"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/query"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/service"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"
)

func (h *Handler) listEmployees(c *gin.Context) {
	owner := auth.UserDBID(c)
	items, err := h.svc.ListEmployees(c.Request.Context(), owner, service.EmployeeListOptions{
		Filter: query.EmployeeFilter(c.DefaultQuery("status", "all")),
		Term:   c.Query("q"),
		Sort:   querySort(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "employees": items})
}

func (h *Handler) createEmployee(c *gin.Context) {
	var req createEmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	emp, err := h.svc.AddEmployee(c.Request.Context(), owner, store.AddEmployeeInput{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Role:  strings.TrimSpace(req.Role),
		Phone: strings.TrimSpace(req.Phone),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "employee": emp})
}

func (h *Handler) getEmployee(c *gin.Context) {
	owner := auth.UserDBID(c)
	emp, err := h.svc.GetEmployee(c.Request.Context(), owner, c.Param("employee_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "employee": emp})
}

func (h *Handler) updateEmployee(c *gin.Context) {
	var req updateEmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	emp, err := h.svc.GetEmployee(c.Request.Context(), owner, c.Param("employee_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name must not be empty"})
			return
		}
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		emp.Email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		emp.Role = strings.TrimSpace(*req.Role)
	}
	if req.Phone != nil {
		emp.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Status != nil {
		st := domain.EmployeeStatus(*req.Status)
		if st != domain.EmployeeActive && st != domain.EmployeeArchived {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid status"})
			return
		}
		emp.Status = st
	}

	if err := h.svc.UpdateEmployee(c.Request.Context(), owner, *emp); err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "employee": emp})
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	owner := auth.UserDBID(c)
	if err := h.svc.RemoveEmployee(c.Request.Context(), owner, c.Param("employee_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) createCertificate(c *gin.Context) {
	var req createCertificateReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	cert, err := h.svc.AddCertificate(c.Request.Context(), owner, c.Param("employee_id"), store.AddCertificateInput{
		Name:       strings.TrimSpace(req.Name),
		Issuer:     strings.TrimSpace(req.Issuer),
		Number:     strings.TrimSpace(req.Number),
		IssueDate:  strings.TrimSpace(req.IssueDate),
		ExpiryDate: strings.TrimSpace(req.ExpiryDate),
		Notes:      req.Notes,
	})
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "certificate": cert})
}

func (h *Handler) archiveEmployee(c *gin.Context) {
	owner := auth.UserDBID(c)
	err := h.svc.SetEmployeeStatus(c.Request.Context(), owner, c.Param("employee_id"), domain.EmployeeArchived)
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) updateCertificate(c *gin.Context) {
	var req updateCertificateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	employeeID := c.Param("employee_id")
	row, err := h.svc.FindCertificateRow(c.Request.Context(), owner, c.Param("certificate_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	if row.EmployeeID != employeeID {
		respondLookupError(c, domain.ErrCertificateNotFound)
		return
	}

	cert := row.Certificate
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name must not be empty"})
			return
		}
		cert.Name = strings.TrimSpace(*req.Name)
	}
	if req.Issuer != nil {
		cert.Issuer = strings.TrimSpace(*req.Issuer)
	}
	if req.Number != nil {
		cert.Number = strings.TrimSpace(*req.Number)
	}
	if req.IssueDate != nil {
		cert.IssueDate = strings.TrimSpace(*req.IssueDate)
	}
	if req.ExpiryDate != nil {
		cert.ExpiryDate = strings.TrimSpace(*req.ExpiryDate)
	}
	if req.Notes != nil {
		cert.Notes = *req.Notes
	}

	if err := h.svc.UpdateCertificate(c.Request.Context(), owner, employeeID, cert); err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "certificate": cert})
}

func (h *Handler) deleteCertificate(c *gin.Context) {
	owner := auth.UserDBID(c)
	err := h.svc.RemoveCertificate(c.Request.Context(), owner, c.Param("employee_id"), c.Param("certificate_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) exportEmployees(c *gin.Context) {
	owner := auth.UserDBID(c)
	csv, err := h.svc.ExportEmployeesCSV(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondCSV(c, "employees.csv", csv)
}

func (h *Handler) exportEmployeeRecord(c *gin.Context) {
	owner := auth.UserDBID(c)
	emp, err := h.svc.GetEmployee(c.Request.Context(), owner, c.Param("employee_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	respondCSV(c, "employee_"+emp.ID+".csv", export.EmployeeRecord(*emp))
}

func (h *Handler) bulkArchiveEmployees(c *gin.Context) {
	var req bulkIDsReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	n, err := h.svc.ArchiveSelectedEmployees(c.Request.Context(), owner, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "archived": n})
}

func (h *Handler) bulkExportEmployees(c *gin.Context) {
	var req bulkIDsReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	csv, err := h.svc.ExportSelectedEmployeesCSV(c.Request.Context(), owner, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondCSV(c, "employees_selected.csv", csv)
}
