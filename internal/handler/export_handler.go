package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// ExportHandler streams back-office exports as file downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Download godoc
// @Summary Download leads or enrollments as CSV or PDF
// @Tags Exports
// @Produce application/octet-stream
// @Param kind path string true "Export kind" Enums(leads, enrollments)
// @Param format query string false "File format" Enums(csv, pdf) default(csv)
// @Success 200 {file} binary
// @Router /admin/exports/{kind} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	file, err := h.service.Generate(c.Request.Context(), c.Param("kind"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
