package handlers

import (
	"errors"
	"net/http"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler holds the application settings service.
type SettingHandler struct {
	settingService services.SettingService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(ss services.SettingService) *SettingHandler {
	return &SettingHandler{settingService: ss}
}

// GetSettings lists every stored application setting.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingService.GetSettings()
	if err != nil {
		utils.LogError(err, "GetSettings: Error from settingService.GetSettings")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch settings.", "Internal error"))
		return
	}

	if settings == nil {
		settings = []models.ApplicationSetting{}
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// GetSettingByKey fetches one setting by its key.
func (h *SettingHandler) GetSettingByKey(c *gin.Context) {
	key := c.Param("key")

	setting, err := h.settingService.GetSettingByKey(key)
	if err != nil {
		utils.LogError(err, "GetSettingByKey: Error from settingService.GetSettingByKey for key "+key)
		if errors.Is(err, services.ErrSettingNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Setting not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch setting.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, setting)
}

// SetVATRate stores the VAT rate applied to new client records and exports.
func (h *SettingHandler) SetVATRate(c *gin.Context) {
	var req services.SetVATRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SetVATRate: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	err := h.settingService.SetVATRate(req.VATRate)
	if err != nil {
		utils.LogError(err, "SetVATRate: Error from settingService.SetVATRate")
		if errors.Is(err, services.ErrSettingValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update VAT rate.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "VAT rate updated", "vat_rate": req.VATRate})
}
