package models

import "time"

// SettingKeyVATRate holds the IVA rate applied to invoice amounts, stored as
// a decimal string (e.g. "0.22").
const SettingKeyVATRate = "vat_rate"

// ApplicationSetting is a key/value configuration row.
type ApplicationSetting struct {
	ID           int64     `json:"id" db:"id"`
	SettingKey   string    `json:"setting_key" db:"setting_key" binding:"required"`
	SettingValue string    `json:"setting_value" db:"setting_value" binding:"required"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
