package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CertTrack-HQ/certtrack-backend/internal/auth"
)

func (h *Handler) overview(c *gin.Context) {
	owner := auth.UserDBID(c)
	ov, err := h.svc.GetOverview(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "overview": ov})
}

func (h *Handler) listFavorites(c *gin.Context) {
	owner := auth.UserDBID(c)
	fav, err := h.svc.Favorites(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "favorites": fav})
}

func (h *Handler) toggleFavoriteEmployee(c *gin.Context) {
	owner := auth.UserDBID(c)
	on, err := h.svc.ToggleFavoriteEmployee(c.Request.Context(), owner, c.Param("employee_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "favorite": on})
}

func (h *Handler) toggleFavoriteProject(c *gin.Context) {
	owner := auth.UserDBID(c)
	on, err := h.svc.ToggleFavoriteProject(c.Request.Context(), owner, c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "favorite": on})
}
