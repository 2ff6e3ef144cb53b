package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CertTrack-HQ/certtrack-backend/internal/auth"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/query"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/service"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"
)

func (h *Handler) listProjects(c *gin.Context) {
	owner := auth.UserDBID(c)
	items, err := h.svc.ListProjects(c.Request.Context(), owner, service.ProjectListOptions{
		Filter: query.ProjectFilter(c.DefaultQuery("status", "all")),
		Term:   c.Query("q"),
		Sort:   querySort(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	p, err := h.svc.AddProject(c.Request.Context(), owner, store.AddProjectInput{
		Name:        strings.TrimSpace(req.Name),
		Customer:    strings.TrimSpace(req.Customer),
		Location:    strings.TrimSpace(req.Location),
		StartDate:   strings.TrimSpace(req.StartDate),
		EndDate:     strings.TrimSpace(req.EndDate),
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) getProject(c *gin.Context) {
	owner := auth.UserDBID(c)
	p, err := h.svc.GetProject(c.Request.Context(), owner, c.Param("project_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) updateProject(c *gin.Context) {
	var req updateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	p, err := h.svc.GetProject(c.Request.Context(), owner, c.Param("project_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "name must not be empty"})
			return
		}
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Customer != nil {
		p.Customer = strings.TrimSpace(*req.Customer)
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		p.StartDate = strings.TrimSpace(*req.StartDate)
	}
	if req.EndDate != nil {
		p.EndDate = strings.TrimSpace(*req.EndDate)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != nil {
		st := domain.ProjectStatus(*req.Status)
		if !domain.ValidProjectStatus(st) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid status"})
			return
		}
		p.Status = st
	}

	if err := h.svc.UpdateProject(c.Request.Context(), owner, *p); err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) deleteProject(c *gin.Context) {
	owner := auth.UserDBID(c)
	if err := h.svc.RemoveProject(c.Request.Context(), owner, c.Param("project_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) setProjectStatus(c *gin.Context) {
	var req setProjectStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	st := domain.ProjectStatus(req.Status)
	if !domain.ValidProjectStatus(st) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid status"})
		return
	}

	owner := auth.UserDBID(c)
	if err := h.svc.SetProjectStatus(c.Request.Context(), owner, c.Param("project_id"), st); err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Member rows reference employees by id only. A member whose employee was
// deleted still shows up here, flagged with "known": false.
func (h *Handler) listMembers(c *gin.Context) {
	owner := auth.UserDBID(c)
	p, err := h.svc.GetProject(c.Request.Context(), owner, c.Param("project_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}

	employees, err := h.svc.ListEmployees(c.Request.Context(), owner, service.EmployeeListOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	byID := make(map[string]domain.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	members := make([]gin.H, 0, len(p.Members))
	for _, m := range p.Members {
		row := gin.H{"employee_id": m.EmployeeID, "added_at": m.AddedAt}
		if e, ok := byID[m.EmployeeID]; ok {
			row["known"] = true
			row["name"] = e.Name
			row["email"] = e.Email
			row["role"] = e.Role
		} else {
			row["known"] = false
		}
		members = append(members, row)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "members": members})
}

func (h *Handler) addMember(c *gin.Context) {
	var req addMemberReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.EmployeeID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	err := h.svc.AddMember(c.Request.Context(), owner, c.Param("project_id"), strings.TrimSpace(req.EmployeeID))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) removeMember(c *gin.Context) {
	owner := auth.UserDBID(c)
	err := h.svc.RemoveMember(c.Request.Context(), owner, c.Param("project_id"), c.Param("employee_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) exportProjects(c *gin.Context) {
	owner := auth.UserDBID(c)
	csv, err := h.svc.ExportProjectsCSV(c.Request.Context(), owner, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondCSV(c, "projects.csv", csv)
}

func (h *Handler) bulkCloseProjects(c *gin.Context) {
	var req bulkIDsReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	n, err := h.svc.CloseSelectedProjects(c.Request.Context(), owner, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "closed": n})
}

func (h *Handler) bulkDeleteProjects(c *gin.Context) {
	var req bulkIDsReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	n, err := h.svc.DeleteSelectedProjects(c.Request.Context(), owner, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": n})
}

func (h *Handler) bulkExportProjects(c *gin.Context) {
	var req bulkIDsReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	csv, err := h.svc.ExportProjectsCSV(c.Request.Context(), owner, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondCSV(c, "projects_selected.csv", csv)
}
