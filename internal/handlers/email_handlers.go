package handlers

import (
	"errors"
	"net/http"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EmailHandler holds the manual email sending service.
type EmailHandler struct {
	emailService services.EmailService
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(es services.EmailService) *EmailHandler {
	return &EmailHandler{emailService: es}
}

// SendFeedback triggers a manual feedback email for one client.
func (h *EmailHandler) SendFeedback(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	err = h.emailService.SendManualFeedback(clientID)
	if err != nil {
		utils.LogError(err, "SendFeedback: Error from emailService.SendManualFeedback for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmailAlreadySent) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A manual feedback email was already sent to this client.", err.Error()))
		} else if errors.Is(err, services.ErrEmailSendFailed) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeSendFailed, "The email could not be delivered.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to send feedback email.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback email sent successfully"})
}

// SendFeedbackAll sends the feedback email to every client that has not had
// a manual send yet.
func (h *EmailHandler) SendFeedbackAll(c *gin.Context) {
	result, err := h.emailService.SendFeedbackToAll()
	if err != nil {
		utils.LogError(err, "SendFeedbackAll: Error from emailService.SendFeedbackToAll")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to run bulk feedback send.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendCustom sends a one-off email with caller-provided subject and body.
func (h *EmailHandler) SendCustom(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	var req services.SendCustomEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SendCustom: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	err = h.emailService.SendCustomEmail(clientID, req)
	if err != nil {
		utils.LogError(err, "SendCustom: Error from emailService.SendCustomEmail for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmailSendFailed) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeSendFailed, "The email could not be delivered.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to send custom email.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Custom email sent successfully"})
}

// PreviewFeedback returns the rendered feedback email for one client without
// sending anything.
func (h *EmailHandler) PreviewFeedback(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	preview, err := h.emailService.PreviewFeedback(clientID)
	if err != nil {
		utils.LogError(err, "PreviewFeedback: Error from emailService.PreviewFeedback for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build email preview.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, preview)
}
