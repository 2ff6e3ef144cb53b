package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CertTrack-HQ/certtrack-backend/internal/auth"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/export"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/query"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/service"
)

func (h *Handler) listCertificates(c *gin.Context) {
	owner := auth.UserDBID(c)
	rows, err := h.svc.ListCertificateRows(c.Request.Context(), owner, service.CertificateListOptions{
		Filter: query.CertificateFilter(c.DefaultQuery("status", "all")),
		Term:   c.Query("q"),
		Sort:   querySort(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "certificates": rows})
}

func (h *Handler) getCertificate(c *gin.Context) {
	owner := auth.UserDBID(c)
	row, err := h.svc.FindCertificateRow(c.Request.Context(), owner, c.Param("certificate_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "certificate": row})
}

func (h *Handler) archiveCertificate(c *gin.Context) {
	owner := auth.UserDBID(c)
	row, err := h.svc.FindCertificateRow(c.Request.Context(), owner, c.Param("certificate_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	if err := h.svc.ArchiveCertificate(c.Request.Context(), owner, row.EmployeeID, row.Certificate.ID); err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) exportCertificates(c *gin.Context) {
	owner := auth.UserDBID(c)
	csv, err := h.svc.ExportCertificatesCSV(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondCSV(c, "certificates.csv", csv)
}

func (h *Handler) exportCertificateRecord(c *gin.Context) {
	owner := auth.UserDBID(c)
	row, err := h.svc.FindCertificateRow(c.Request.Context(), owner, c.Param("certificate_id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	respondCSV(c, "certificate_"+row.Certificate.ID+".csv", export.CertificateRecord(*row))
}

func (h *Handler) bulkArchiveCertificates(c *gin.Context) {
	var req bulkKeysReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	n, err := h.svc.ArchiveSelectedCertificates(c.Request.Context(), owner, req.Keys)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "archived": n})
}

func (h *Handler) bulkExportCertificates(c *gin.Context) {
	var req bulkKeysReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	owner := auth.UserDBID(c)
	csv, err := h.svc.ExportSelectedCertificatesCSV(c.Request.Context(), owner, req.Keys)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	respondCSV(c, "certificates_selected.csv", csv)
}
