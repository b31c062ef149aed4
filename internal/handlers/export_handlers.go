package handlers

import (
	"net/http"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler holds the Excel export service.
type ExportHandler struct {
	exportService services.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(es services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: es}
}

// ExportClients streams the full client list as an xlsx download.
func (h *ExportHandler) ExportClients(c *gin.Context) {
	data, fileName, err := h.exportService.BuildClientWorkbook()
	if err != nil {
		utils.LogError(err, "ExportClients: Error from exportService.BuildClientWorkbook")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build client export.", "Internal error"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
