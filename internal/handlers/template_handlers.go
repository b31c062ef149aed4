package handlers

import (
	"errors"
	"net/http"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TemplateHandler holds the email template service.
type TemplateHandler struct {
	templateService services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(ts services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: ts}
}

// GetTemplates returns the effective per-nationality templates for one type
// ("first" or "second"), mixing stored overrides with embedded defaults.
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	templateType := c.Param("type")

	templates, err := h.templateService.GetEffectiveTemplates(templateType)
	if err != nil {
		utils.LogError(err, "GetTemplates: Error from templateService.GetEffectiveTemplates for type "+templateType)
		if errors.Is(err, services.ErrTemplateTypeInvalid) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown template type.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch templates.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": templateType, "templates": templates})
}

// SaveTemplates stores per-nationality overrides for one template type.
// Blank entries fall back to the embedded default.
func (h *TemplateHandler) SaveTemplates(c *gin.Context) {
	templateType := c.Param("type")

	var req services.SaveTemplatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveTemplates: Failed to bind JSON for type "+templateType)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	saved, err := h.templateService.SaveTemplates(templateType, req.Templates)
	if err != nil {
		utils.LogError(err, "SaveTemplates: Error from templateService.SaveTemplates for type "+templateType)
		if errors.Is(err, services.ErrTemplateTypeInvalid) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown template type.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save templates.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Templates saved successfully", "saved": saved})
}

// ResetTemplates removes every stored override for one template type,
// restoring the embedded defaults.
func (h *TemplateHandler) ResetTemplates(c *gin.Context) {
	templateType := c.Param("type")

	err := h.templateService.ResetTemplates(templateType)
	if err != nil {
		utils.LogError(err, "ResetTemplates: Error from templateService.ResetTemplates for type "+templateType)
		if errors.Is(err, services.ErrTemplateTypeInvalid) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown template type.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to reset templates.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Templates reset to defaults"})
}

// ClearAllTemplates removes every stored override of every type.
func (h *TemplateHandler) ClearAllTemplates(c *gin.Context) {
	err := h.templateService.ClearAllTemplates()
	if err != nil {
		utils.LogError(err, "ClearAllTemplates: Error from templateService.ClearAllTemplates")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to clear templates.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All template overrides cleared"})
}
