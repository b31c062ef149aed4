package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/mailer"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"
)

// Day thresholds for the scheduled feedback mails, counted in whole days
// after the dive date.
const (
	FirstEmailAfterDays  = 1
	SecondEmailAfterDays = 3

	// MinGapAfterFirstEmail is the required distance between the first and
	// second feedback mail, measured from the recorded first-send timestamp.
	MinGapAfterFirstEmail = 24 * time.Hour
)

// DispatchResult summarizes one checker pass.
type DispatchResult struct {
	Checked    int      `json:"checked"`
	FirstSent  int      `json:"first_sent"`
	SecondSent int      `json:"second_sent"`
	Skipped    int      `json:"skipped"` // claims lost to a concurrent pass
	Failed     []string `json:"failed,omitempty"`
}

// --- DispatchService Interface ---
// The scheduled email checker: one RunPass per dispatcher tick.
type DispatchService interface {
	RunPass(now time.Time) (*DispatchResult, error)
}

type dispatchService struct {
	clientRepo      repositories.ClientRepository
	templateService TemplateService
	sender          mailer.Sender
	db              *sql.DB
}

// NewDispatchService creates a new instance of DispatchService.
func NewDispatchService(clientRepo repositories.ClientRepository, templateService TemplateService, sender mailer.Sender, db *sql.DB) DispatchService {
	return &dispatchService{
		clientRepo:      clientRepo,
		templateService: templateService,
		sender:          sender,
		db:              db,
	}
}

// DaysSinceDive returns the number of whole calendar days between the dive
// date and now. Same-day dives yield 0.
func DaysSinceDive(diveDate string, now time.Time) (int, error) {
	dive, err := time.Parse("2006-01-02", diveDate)
	if err != nil {
		return 0, ErrDateFormat
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	diveDay := time.Date(dive.Year(), dive.Month(), dive.Day(), 0, 0, 0, 0, time.UTC)
	return int(today.Sub(diveDay).Hours() / 24), nil
}

// secondEmailDue enforces the minimum gap: the second mail goes out only after
// the first one actually did, and not within MinGapAfterFirstEmail of it.
func secondEmailDue(client *models.Client, now time.Time) bool {
	if !client.FirstEmailSent || client.FirstEmailSentAt == nil {
		return false
	}
	return now.Sub(*client.FirstEmailSentAt) >= MinGapAfterFirstEmail
}

// RunPass walks every client once, sending whichever scheduled mail is due.
// Per-client failures are collected; the pass itself only fails when the
// client list cannot be loaded.
func (s *dispatchService) RunPass(now time.Time) (*DispatchResult, error) {
	clients, err := s.clientRepo.GetAllClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for dispatch pass: %w", err)
	}

	result := &DispatchResult{}
	for i := range clients {
		// Re-read the row so a flag set since the listing is respected.
		current, err := s.clientRepo.GetClientByID(clients[i].ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue // deleted between listing and check
			}
			result.Failed = append(result.Failed, clients[i].Email)
			continue
		}
		result.Checked++

		days, err := DaysSinceDive(current.DiveDate, now)
		if err != nil {
			utils.LogError(err, "Dispatch: unreadable dive date for "+current.Email)
			result.Failed = append(result.Failed, current.Email)
			continue
		}

		if days >= FirstEmailAfterDays && !current.FirstEmailSent {
			s.sendScheduled(current, models.TemplateTypeFirst, repositories.FlagFirstEmail, now, result, &result.FirstSent)
		} else if days >= SecondEmailAfterDays && !current.SecondEmailSent && secondEmailDue(current, now) {
			s.sendScheduled(current, models.TemplateTypeSecond, repositories.FlagSecondEmail, now, result, &result.SecondSent)
		}
	}
	return result, nil
}

// sendScheduled claims the flag, delivers, and releases the claim on failure.
// The claim happening before the SMTP call is what keeps overlapping passes
// from double-sending.
func (s *dispatchService) sendScheduled(client *models.Client, templateType string, flag repositories.EmailFlag, now time.Time, result *DispatchResult, sentCounter *int) {
	claimed, err := s.clientRepo.ClaimEmailFlag(s.db, client.ID, flag, now)
	if err != nil {
		utils.LogError(err, "Dispatch: failed to claim "+string(flag)+" for "+client.Email)
		result.Failed = append(result.Failed, client.Email)
		return
	}
	if !claimed {
		result.Skipped++
		return
	}

	subject, body, err := s.templateService.RenderForClient(client, templateType)
	if err == nil {
		err = s.sender.SendHTML(client.Email, subject, body)
	}
	if err != nil {
		utils.LogError(err, "Dispatch: send failed for "+client.Email)
		if releaseErr := s.clientRepo.ReleaseEmailFlag(s.db, client.ID, flag); releaseErr != nil {
			utils.LogError(releaseErr, "Dispatch: failed to release "+string(flag)+" for "+client.Email)
		}
		result.Failed = append(result.Failed, client.Email)
		return
	}

	*sentCounter++
	utils.LogInfo("Dispatch: scheduled email sent", map[string]interface{}{
		"email":    client.Email,
		"template": templateType,
	})
}
