package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"
)

// DefaultVATRate is the Portuguese reduced IVA rate applied when nothing is
// configured.
const DefaultVATRate = 0.22

var (
	ErrSettingNotFound   = errors.New("setting not found")
	ErrSettingValidation = errors.New("setting validation error")
)

// SetVATRateRequest DTO
type SetVATRateRequest struct {
	VATRate float64 `json:"vat_rate" binding:"required"`
}

// --- SettingService Interface ---
type SettingService interface {
	GetSettings() ([]models.ApplicationSetting, error)
	GetSettingByKey(key string) (*models.ApplicationSetting, error)
	SetVATRate(rate float64) error
	// GetVATRate returns the configured rate, or DefaultVATRate when unset or
	// unreadable.
	GetVATRate() float64
}

type settingService struct {
	settingRepo repositories.SettingRepository
	db          *sql.DB
}

// NewSettingService creates a new instance of SettingService.
func NewSettingService(repo repositories.SettingRepository, db *sql.DB) SettingService {
	return &settingService{settingRepo: repo, db: db}
}

func (s *settingService) GetSettings() ([]models.ApplicationSetting, error) {
	settings, err := s.settingRepo.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

func (s *settingService) GetSettingByKey(key string) (*models.ApplicationSetting, error) {
	setting, err := s.settingRepo.GetSettingByKey(key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return setting, nil
}

func (s *settingService) SetVATRate(rate float64) error {
	if rate < 0 || rate >= 1 {
		return fmt.Errorf("%w: vat rate must be between 0 and 1", ErrSettingValidation)
	}

	description := "IVA rate applied to invoice amounts"
	setting := &models.ApplicationSetting{
		SettingKey:   models.SettingKeyVATRate,
		SettingValue: strconv.FormatFloat(rate, 'f', -1, 64),
		Description:  &description,
	}
	if err := s.settingRepo.UpsertSetting(s.db, setting); err != nil {
		return fmt.Errorf("failed to store vat rate: %w", err)
	}
	return nil
}

func (s *settingService) GetVATRate() float64 {
	setting, err := s.settingRepo.GetSettingByKey(models.SettingKeyVATRate)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			utils.LogError(err, "GetVATRate: falling back to default rate")
		}
		return DefaultVATRate
	}
	rate, err := strconv.ParseFloat(setting.SettingValue, 64)
	if err != nil || rate < 0 || rate >= 1 {
		utils.LogError(err, "GetVATRate: stored rate unreadable, falling back to default")
		return DefaultVATRate
	}
	return rate
}
