package models

import "time"

// MarketingEmail is a single address on a named marketing list.
type MarketingEmail struct {
	ID        int64     `json:"id" db:"id"`
	ListName  string    `json:"list_name" db:"list_name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
