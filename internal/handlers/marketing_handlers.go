package handlers

import (
	"errors"
	"net/http"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MarketingHandler holds the marketing list and campaign service.
type MarketingHandler struct {
	marketingService services.MarketingService
}

// NewMarketingHandler creates a new MarketingHandler.
func NewMarketingHandler(ms services.MarketingService) *MarketingHandler {
	return &MarketingHandler{marketingService: ms}
}

// SaveList parses a pasted address blob and stores the valid addresses.
func (h *MarketingHandler) SaveList(c *gin.Context) {
	var req services.SaveMarketingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveList: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	added, err := h.marketingService.SaveList(req)
	if err != nil {
		utils.LogError(err, "SaveList: Error from marketingService.SaveList")
		if errors.Is(err, services.ErrCampaignValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save marketing list.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marketing list saved", "added": added})
}

// GetEmails returns stored marketing addresses, optionally filtered by list.
func (h *MarketingHandler) GetEmails(c *gin.Context) {
	var pListName *string
	if listName := c.Query("list"); listName != "" {
		pListName = &listName
	}

	emails, err := h.marketingService.GetEmails(pListName)
	if err != nil {
		utils.LogError(err, "GetEmails: Error from marketingService.GetEmails")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch marketing emails.", "Internal error"))
		return
	}

	if emails == nil {
		emails = []models.MarketingEmail{}
	}
	c.JSON(http.StatusOK, gin.H{"data": emails, "total": len(emails)})
}

// DeleteEmail removes one stored address by ID.
func (h *MarketingHandler) DeleteEmail(c *gin.Context) {
	idStr := c.Param("id")
	emailID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid email ID format.", err.Error()))
		return
	}

	err = h.marketingService.DeleteEmail(emailID)
	if err != nil {
		utils.LogError(err, "DeleteEmail: Error from marketingService.DeleteEmail for ID "+idStr)
		if errors.Is(err, services.ErrMarketingEntryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Marketing list entry not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete marketing email.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marketing email deleted"})
}

// ClearAll empties the whole marketing list.
func (h *MarketingHandler) ClearAll(c *gin.Context) {
	err := h.marketingService.ClearAll()
	if err != nil {
		utils.LogError(err, "ClearAll: Error from marketingService.ClearAll")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to clear marketing list.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marketing list cleared"})
}

// SendCampaign sends one HTML email to the union of stored addresses, pasted
// addresses, and (optionally) every client email.
func (h *MarketingHandler) SendCampaign(c *gin.Context) {
	var req services.SendCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SendCampaign: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.marketingService.SendCampaign(req)
	if err != nil {
		utils.LogError(err, "SendCampaign: Error from marketingService.SendCampaign")
		if errors.Is(err, services.ErrNoRecipients) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "No recipients resolved for this campaign.", err.Error()))
		} else if errors.Is(err, services.ErrCampaignValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to send campaign.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
