package models

import "time"

// Nationalities a client can be registered with. They select both the
// feedback template and the email subject line.
const (
	NationalityPortuguese = "portuguese"
	NationalityEnglish    = "english"
	NationalityFrench     = "french"
	NationalityGerman     = "german"
)

// Client represents a dive customer of the center.
type Client struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name" binding:"required"`
	Email         string  `json:"email" db:"email" binding:"required"`
	DiveCount     int     `json:"dive_count" db:"dive_count"`
	DiveDate      string  `json:"dive_date" db:"dive_date"` // YYYY-MM-DD
	InvoiceAmount float64 `json:"invoice_amount" db:"invoice_amount"`
	Discount      float64 `json:"discount" db:"discount"`
	VATRate       float64 `json:"vat_rate" db:"vat_rate"`
	Nationality   string  `json:"nationality" db:"nationality"`
	Expenses      float64 `json:"expenses" db:"expenses"`
	Revenue       float64 `json:"revenue" db:"revenue"`

	// Feedback email state. The two scheduled flags are owned by the
	// dispatcher; the manual flag by the send endpoints.
	FirstEmailSent    bool       `json:"first_email_sent" db:"first_email_sent"`
	SecondEmailSent   bool       `json:"second_email_sent" db:"second_email_sent"`
	ManualEmailSent   bool       `json:"manual_email_sent" db:"manual_email_sent"`
	FirstEmailSentAt  *time.Time `json:"first_email_sent_at,omitempty" db:"first_email_sent_at"`
	SecondEmailSentAt *time.Time `json:"second_email_sent_at,omitempty" db:"second_email_sent_at"`

	AddedBy   string    `json:"added_by" db:"added_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
