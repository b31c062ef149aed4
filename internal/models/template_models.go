package models

import "time"

// Template types: the first feedback email goes out one day after the dive,
// the second three days after.
const (
	TemplateTypeFirst  = "first"
	TemplateTypeSecond = "second"
)

// EmailTemplate is a database override of an embedded default feedback
// template, keyed by (nationality, template_type).
type EmailTemplate struct {
	ID           int64     `json:"id" db:"id"`
	Nationality  string    `json:"nationality" db:"nationality"`
	TemplateType string    `json:"template_type" db:"template_type"`
	Content      string    `json:"content" db:"content"` // HTML body
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
