package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrClientValidation = errors.New("client data validation error")
	ErrDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
)

// --- Client DTOs ---
type CreateClientRequest struct {
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	DiveCount     int     `json:"dive_count" binding:"required"`
	DiveDate      string  `json:"dive_date" binding:"required"` // Format YYYY-MM-DD
	InvoiceAmount float64 `json:"invoice_amount"`
	Discount      float64 `json:"discount"`
	VATRate       *float64 `json:"vat_rate"` // Defaults to the configured rate when omitted
	Nationality   string  `json:"nationality"`
	Expenses      float64 `json:"expenses"`
	Revenue       float64 `json:"revenue"`
}

type UpdateClientRequest struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	DiveCount     *int     `json:"dive_count"`
	DiveDate      *string  `json:"dive_date"` // Format YYYY-MM-DD
	InvoiceAmount *float64 `json:"invoice_amount"`
	Discount      *float64 `json:"discount"`
	VATRate       *float64 `json:"vat_rate"`
	Nationality   *string  `json:"nationality"`
	Expenses      *float64 `json:"expenses"`
	Revenue       *float64 `json:"revenue"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req CreateClientRequest, addedBy string) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error)
	GetAllClients() ([]models.Client, error)
	UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(clientID int64) error
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo     repositories.ClientRepository
	settingService SettingService
	db             *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, settingService SettingService, db *sql.DB) ClientService {
	return &clientService{
		clientRepo:     repo,
		settingService: settingService,
		db:             db,
	}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func validateClientEmail(email string) error {
	if !emailRegex.MatchString(strings.ToLower(strings.TrimSpace(email))) {
		return fmt.Errorf("%w: email format is invalid", ErrClientValidation)
	}
	return nil
}

func validateDiveDate(diveDate string) error {
	if _, err := time.Parse("2006-01-02", diveDate); err != nil {
		return ErrDateFormat
	}
	return nil
}

func normalizeNationality(nationality string) string {
	switch strings.ToLower(strings.TrimSpace(nationality)) {
	case models.NationalityEnglish:
		return models.NationalityEnglish
	case models.NationalityFrench:
		return models.NationalityFrench
	case models.NationalityGerman:
		return models.NationalityGerman
	default:
		return models.NationalityPortuguese
	}
}

func (s *clientService) CreateClient(req CreateClientRequest, addedBy string) (*models.Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrClientValidation)
	}
	if err := validateClientEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validateDiveDate(req.DiveDate); err != nil {
		return nil, err
	}
	if req.DiveCount < 0 {
		return nil, fmt.Errorf("%w: dive count cannot be negative", ErrClientValidation)
	}
	if req.InvoiceAmount < 0 || req.Discount < 0 || req.Expenses < 0 {
		return nil, fmt.Errorf("%w: amounts cannot be negative", ErrClientValidation)
	}

	vatRate := s.settingService.GetVATRate()
	if req.VATRate != nil {
		if *req.VATRate < 0 || *req.VATRate >= 1 {
			return nil, fmt.Errorf("%w: vat rate must be between 0 and 1", ErrClientValidation)
		}
		vatRate = *req.VATRate
	}

	if addedBy == "" {
		addedBy = "unknown"
	}

	client := &models.Client{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		DiveCount:     req.DiveCount,
		DiveDate:      req.DiveDate,
		InvoiceAmount: req.InvoiceAmount,
		Discount:      req.Discount,
		VATRate:       vatRate,
		Nationality:   normalizeNationality(req.Nationality),
		Expenses:      req.Expenses,
		Revenue:       req.Revenue,
		AddedBy:       addedBy,
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(id)
}

func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	clients, totalCount, err := s.clientRepo.GetClients(page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, totalCount, nil
}

func (s *clientService) GetAllClients() ([]models.Client, error) {
	clients, err := s.clientRepo.GetAllClients()
	if err != nil {
		return nil, fmt.Errorf("failed to get all clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrClientValidation)
		}
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if err := validateClientEmail(*req.Email); err != nil {
			return nil, err
		}
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.DiveCount != nil {
		if *req.DiveCount < 0 {
			return nil, fmt.Errorf("%w: dive count cannot be negative", ErrClientValidation)
		}
		client.DiveCount = *req.DiveCount
	}
	if req.DiveDate != nil {
		if err := validateDiveDate(*req.DiveDate); err != nil {
			return nil, err
		}
		client.DiveDate = *req.DiveDate
	}
	if req.InvoiceAmount != nil {
		client.InvoiceAmount = *req.InvoiceAmount
	}
	if req.Discount != nil {
		client.Discount = *req.Discount
	}
	if req.VATRate != nil {
		if *req.VATRate < 0 || *req.VATRate >= 1 {
			return nil, fmt.Errorf("%w: vat rate must be between 0 and 1", ErrClientValidation)
		}
		client.VATRate = *req.VATRate
	}
	if req.Nationality != nil {
		client.Nationality = normalizeNationality(*req.Nationality)
	}
	if req.Expenses != nil {
		client.Expenses = *req.Expenses
	}
	if req.Revenue != nil {
		client.Revenue = *req.Revenue
	}

	err = s.clientRepo.UpdateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(clientID)
}

func (s *clientService) DeleteClient(clientID int64) error {
	err := s.clientRepo.DeleteClient(s.db, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
