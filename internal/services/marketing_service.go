package services

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/mailer"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"
)

// DefaultListName is used when a pasted list is saved without a name.
const DefaultListName = "general"

var (
	ErrMarketingEntryNotFound = errors.New("marketing list entry not found")
	ErrNoRecipients           = errors.New("no recipients found for campaign")
	ErrCampaignValidation     = errors.New("campaign validation error")
)

// SaveMarketingListRequest carries a pasted address blob, one address per
// line or comma-separated.
type SaveMarketingListRequest struct {
	ListName string `json:"list_name"`
	Emails   string `json:"emails" binding:"required"`
}

// SendCampaignRequest DTO
type SendCampaignRequest struct {
	Subject        string `json:"subject" binding:"required"`
	Content        string `json:"content" binding:"required"` // HTML body
	Emails         string `json:"emails"`                     // extra pasted addresses
	IncludeClients bool   `json:"include_clients"`            // union in every client email
}

// CampaignResult reports a bulk marketing send.
type CampaignResult struct {
	Recipients int      `json:"recipients"`
	Sent       int      `json:"sent"`
	Failed     []string `json:"failed,omitempty"`
}

// --- MarketingService Interface ---
type MarketingService interface {
	SaveList(req SaveMarketingListRequest) (int, error)
	GetEmails(listName *string) ([]models.MarketingEmail, error)
	DeleteEmail(id int64) error
	ClearAll() error
	SendCampaign(req SendCampaignRequest) (*CampaignResult, error)
}

type marketingService struct {
	marketingRepo repositories.MarketingRepository
	clientRepo    repositories.ClientRepository
	sender        mailer.Sender
	db            *sql.DB
	listFilePath  string // flat-file mirror of the last saved pasted list
}

// NewMarketingService creates a new instance of MarketingService.
func NewMarketingService(marketingRepo repositories.MarketingRepository, clientRepo repositories.ClientRepository, sender mailer.Sender, db *sql.DB, listFilePath string) MarketingService {
	return &marketingService{
		marketingRepo: marketingRepo,
		clientRepo:    clientRepo,
		sender:        sender,
		db:            db,
		listFilePath:  listFilePath,
	}
}

// ParseAddresses splits a pasted blob on newlines and commas, trims,
// lowercases, drops anything that is not a plausible address, and
// deduplicates while preserving order.
func ParseAddresses(raw string) []string {
	seen := make(map[string]struct{})
	var addresses []string
	for _, line := range strings.Split(raw, "\n") {
		for _, field := range strings.Split(line, ",") {
			address := strings.ToLower(strings.TrimSpace(field))
			if address == "" || !emailRegex.MatchString(address) {
				continue
			}
			if _, ok := seen[address]; ok {
				continue
			}
			seen[address] = struct{}{}
			addresses = append(addresses, address)
		}
	}
	return addresses
}

// SaveList stores a pasted list in the database and mirrors it to the flat
// file. Returns the number of newly stored addresses.
func (s *marketingService) SaveList(req SaveMarketingListRequest) (int, error) {
	addresses := ParseAddresses(req.Emails)
	if len(addresses) == 0 {
		return 0, fmt.Errorf("%w: no valid addresses in submitted list", ErrCampaignValidation)
	}

	listName := strings.TrimSpace(req.ListName)
	if listName == "" {
		listName = DefaultListName
	}

	added, err := s.marketingRepo.AddEmails(s.db, listName, addresses)
	if err != nil {
		return added, fmt.Errorf("failed to store marketing list: %w", err)
	}

	if s.listFilePath != "" {
		if err := os.WriteFile(s.listFilePath, []byte(strings.Join(addresses, "\n")+"\n"), 0o644); err != nil {
			// The database copy is authoritative; the file is best effort.
			utils.LogError(err, "Failed to mirror marketing list to "+s.listFilePath)
		}
	}
	return added, nil
}

func (s *marketingService) GetEmails(listName *string) ([]models.MarketingEmail, error) {
	emails, err := s.marketingRepo.GetEmails(listName)
	if err != nil {
		return nil, fmt.Errorf("failed to load marketing emails: %w", err)
	}
	return emails, nil
}

func (s *marketingService) DeleteEmail(id int64) error {
	err := s.marketingRepo.DeleteEmail(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMarketingEntryNotFound
		}
		return fmt.Errorf("failed to delete marketing email: %w", err)
	}
	return nil
}

func (s *marketingService) ClearAll() error {
	if err := s.marketingRepo.DeleteAllEmails(s.db); err != nil {
		return fmt.Errorf("failed to clear marketing emails: %w", err)
	}
	if s.listFilePath != "" {
		if err := os.Remove(s.listFilePath); err != nil && !os.IsNotExist(err) {
			utils.LogError(err, "Failed to remove marketing list file "+s.listFilePath)
		}
	}
	return nil
}

// SendCampaign delivers one HTML mail to the union of stored addresses,
// pasted addresses and (optionally) all client emails. Each recipient is a
// separate SMTP submission; failures are collected, not fatal.
func (s *marketingService) SendCampaign(req SendCampaignRequest) (*CampaignResult, error) {
	seen := make(map[string]struct{})
	var recipients []string
	add := func(address string) {
		address = strings.ToLower(strings.TrimSpace(address))
		if address == "" {
			return
		}
		if _, ok := seen[address]; ok {
			return
		}
		seen[address] = struct{}{}
		recipients = append(recipients, address)
	}

	stored, err := s.marketingRepo.GetEmails(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored marketing emails: %w", err)
	}
	for _, entry := range stored {
		add(entry.Email)
	}
	for _, address := range ParseAddresses(req.Emails) {
		add(address)
	}
	if req.IncludeClients {
		clients, err := s.clientRepo.GetAllClients()
		if err != nil {
			return nil, fmt.Errorf("failed to load client emails: %w", err)
		}
		for i := range clients {
			add(clients[i].Email)
		}
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	result := &CampaignResult{Recipients: len(recipients)}
	for _, address := range recipients {
		if err := s.sender.SendHTML(address, req.Subject, req.Content); err != nil {
			utils.LogError(err, "Marketing send failed for "+address)
			result.Failed = append(result.Failed, address)
			continue
		}
		result.Sent++
	}
	utils.LogInfo("Marketing campaign finished", map[string]interface{}{
		"recipients": result.Recipients,
		"sent":       result.Sent,
		"failed":     len(result.Failed),
	})
	return result, nil
}
