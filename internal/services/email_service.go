package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/mailer"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/templates"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"
)

var (
	ErrEmailAlreadySent = errors.New("email already sent to this client")
	ErrEmailSendFailed  = errors.New("failed to send email")
)

// BulkSendResult reports what a send-to-all pass did.
type BulkSendResult struct {
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"` // addresses that errored
}

// SendCustomEmailRequest DTO
type SendCustomEmailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"` // HTML body
}

// EmailPreview is the rendered template the UI shows before a manual send.
type EmailPreview struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// --- EmailService Interface ---
// Manual feedback sending. The scheduled path lives in DispatchService; both
// share the claim/release flag discipline.
type EmailService interface {
	SendManualFeedback(clientID int64) error
	SendFeedbackToAll() (*BulkSendResult, error)
	SendCustomEmail(clientID int64, req SendCustomEmailRequest) error
	PreviewFeedback(clientID int64) (*EmailPreview, error)
}

type emailService struct {
	clientRepo      repositories.ClientRepository
	templateService TemplateService
	sender          mailer.Sender
	db              *sql.DB
}

// NewEmailService creates a new instance of EmailService.
func NewEmailService(clientRepo repositories.ClientRepository, templateService TemplateService, sender mailer.Sender, db *sql.DB) EmailService {
	return &emailService{
		clientRepo:      clientRepo,
		templateService: templateService,
		sender:          sender,
		db:              db,
	}
}

// sendWithManualFlag claims the manual flag, delivers, and releases the claim
// when delivery fails so the send can be retried.
func (s *emailService) sendWithManualFlag(client *models.Client, subject, body string) error {
	claimed, err := s.clientRepo.ClaimEmailFlag(s.db, client.ID, repositories.FlagManualEmail, time.Now())
	if err != nil {
		return fmt.Errorf("failed to claim manual email flag: %w", err)
	}
	if !claimed {
		return ErrEmailAlreadySent
	}

	if err := s.sender.SendHTML(client.Email, subject, body); err != nil {
		utils.LogError(err, "Manual email delivery failed for "+client.Email)
		if releaseErr := s.clientRepo.ReleaseEmailFlag(s.db, client.ID, repositories.FlagManualEmail); releaseErr != nil {
			utils.LogError(releaseErr, "Failed to release manual email flag for "+client.Email)
		}
		return fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}
	return nil
}

func (s *emailService) SendManualFeedback(clientID int64) error {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to load client: %w", err)
	}

	subject, body, err := s.templateService.RenderForClient(client, models.TemplateTypeFirst)
	if err != nil {
		return fmt.Errorf("failed to render feedback template: %w", err)
	}
	return s.sendWithManualFlag(client, subject, body)
}

func (s *emailService) SendFeedbackToAll() (*BulkSendResult, error) {
	clients, err := s.clientRepo.GetAllClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	result := &BulkSendResult{}
	for i := range clients {
		client := &clients[i]
		if client.ManualEmailSent {
			result.Skipped++
			continue
		}

		subject, body, err := s.templateService.RenderForClient(client, models.TemplateTypeFirst)
		if err != nil {
			result.Failed = append(result.Failed, client.Email)
			continue
		}

		switch err := s.sendWithManualFlag(client, subject, body); {
		case err == nil:
			result.Sent++
		case errors.Is(err, ErrEmailAlreadySent):
			result.Skipped++
		default:
			result.Failed = append(result.Failed, client.Email)
		}
	}
	return result, nil
}

func (s *emailService) SendCustomEmail(clientID int64, req SendCustomEmailRequest) error {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to load client: %w", err)
	}

	body := templates.Render(req.Content, client.Name)
	return s.sendWithManualFlag(client, req.Subject, body)
}

func (s *emailService) PreviewFeedback(clientID int64) (*EmailPreview, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	subject, body, err := s.templateService.RenderForClient(client, models.TemplateTypeFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to render feedback template: %w", err)
	}
	return &EmailPreview{Subject: subject, Content: body}, nil
}
