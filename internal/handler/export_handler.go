package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fydhel24/proyectoadmusoficial-sub000/internal/service"
	appErrors "github.com/fydhel24/proyectoadmusoficial-sub000/pkg/errors"
	"github.com/fydhel24/proyectoadmusoficial-sub000/pkg/response"
)

// ExportHandler generates and serves weekly schedule exports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Generate godoc
// @Summary Export the weekly schedule
// @Tags Exports
// @Produce json
// @Param id path string true "Week ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 201 {object} response.Envelope
// @Router /weeks/{id}/export [post]
func (h *ExportHandler) Generate(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "pdf")))
	if format != service.ExportFormatPDF && format != service.ExportFormatCSV {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv"))
		return
	}

	result, err := h.service.GenerateWeekSchedule(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"url":        result.URL,
		"token":      result.Token,
		"format":     result.Format,
		"expires_at": result.ExpiresAt,
	})
}

// Download godoc
// @Summary Download a generated export
// @Tags Exports
// @Produce application/octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	_, relPath, _, err := h.service.ParseToken(c.Param("token"), false)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token"))
		return
	}

	file, err := h.service.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file"))
		return
	}

	mime := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".pdf":
		mime = "application/pdf"
	case ".csv":
		mime = "text/csv"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.DataFromReader(http.StatusOK, info.Size(), mime, file, nil)
}
