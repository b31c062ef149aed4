package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
)

// SettingRepository stores key/value application settings (the IVA rate lives
// here under models.SettingKeyVATRate).
type SettingRepository interface {
	GetSettings() ([]models.ApplicationSetting, error)
	GetSettingByKey(key string) (*models.ApplicationSetting, error)
	UpsertSetting(executor SQLExecutor, setting *models.ApplicationSetting) error
	DeleteSettingByKey(executor SQLExecutor, key string) error
}

type settingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository(db *sql.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetSettings retrieves all application settings.
func (r *settingRepository) GetSettings() ([]models.ApplicationSetting, error) {
	settings := []models.ApplicationSetting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM application_settings ORDER BY setting_key ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying application settings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.ApplicationSetting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning application setting: %v", ErrDatabaseError, err)
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating application setting rows: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

// GetSettingByKey retrieves a specific setting by its key.
func (r *settingRepository) GetSettingByKey(key string) (*models.ApplicationSetting, error) {
	s := &models.ApplicationSetting{}
	query := `SELECT id, setting_key, setting_value, description, created_at, updated_at
	          FROM application_settings WHERE setting_key = $1`

	err := r.db.QueryRow(query, key).Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting setting %s: %v", ErrDatabaseError, key, err)
	}
	return s, nil
}

// UpsertSetting inserts a setting or replaces its value by key.
func (r *settingRepository) UpsertSetting(executor SQLExecutor, setting *models.ApplicationSetting) error {
	query := `INSERT INTO application_settings (setting_key, setting_value, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          ON CONFLICT (setting_key)
	          DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = EXCLUDED.updated_at
	          RETURNING id`

	currentTime := time.Now()
	err := executor.QueryRow(query, setting.SettingKey, setting.SettingValue, setting.Description, currentTime).Scan(&setting.ID)
	if err != nil {
		return fmt.Errorf("%w: upserting setting %s: %v", ErrDatabaseError, setting.SettingKey, err)
	}
	return nil
}

// DeleteSettingByKey removes a setting row.
func (r *settingRepository) DeleteSettingByKey(executor SQLExecutor, key string) error {
	query := `DELETE FROM application_settings WHERE setting_key = $1`
	result, err := executor.Exec(query, key)
	if err != nil {
		return fmt.Errorf("%w: deleting setting %s: %v", ErrDatabaseError, key, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting setting %s: %v", ErrDatabaseError, key, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
