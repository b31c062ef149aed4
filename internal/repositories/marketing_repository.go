package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
)

// MarketingRepository stores marketing list addresses.
type MarketingRepository interface {
	AddEmails(executor SQLExecutor, listName string, emails []string) (int, error)
	GetEmails(listName *string) ([]models.MarketingEmail, error)
	DeleteEmail(executor SQLExecutor, id int64) error
	DeleteAllEmails(executor SQLExecutor) error
	CountEmails() (int, error)
}

type marketingRepository struct {
	db *sql.DB
}

// NewMarketingRepository creates a new instance of MarketingRepository.
func NewMarketingRepository(db *sql.DB) MarketingRepository {
	return &marketingRepository{db: db}
}

// AddEmails inserts addresses onto a list, skipping ones already present.
// Returns the number of newly stored addresses.
func (r *marketingRepository) AddEmails(executor SQLExecutor, listName string, emails []string) (int, error) {
	query := `INSERT INTO marketing_emails (list_name, email, created_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (list_name, email) DO NOTHING`

	currentTime := time.Now()
	added := 0
	for _, email := range emails {
		result, err := executor.Exec(query, listName, email, currentTime)
		if err != nil {
			return added, fmt.Errorf("%w: adding marketing email %s: %v", ErrDatabaseError, email, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("%w: getting rows affected for marketing email %s: %v", ErrDatabaseError, email, err)
		}
		added += int(rowsAffected)
	}
	return added, nil
}

// GetEmails retrieves stored addresses, optionally filtered by list name.
func (r *marketingRepository) GetEmails(listName *string) ([]models.MarketingEmail, error) {
	emails := []models.MarketingEmail{}

	query := `SELECT id, list_name, email, created_at FROM marketing_emails`
	var args []interface{}
	if listName != nil && *listName != "" {
		query += ` WHERE list_name = $1`
		args = append(args, *listName)
	}
	query += ` ORDER BY list_name ASC, email ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying marketing emails: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.MarketingEmail
		if err := rows.Scan(&entry.ID, &entry.ListName, &entry.Email, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning marketing email: %v", ErrDatabaseError, err)
		}
		emails = append(emails, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating marketing email rows: %v", ErrDatabaseError, err)
	}
	return emails, nil
}

// DeleteEmail removes one address from its list.
func (r *marketingRepository) DeleteEmail(executor SQLExecutor, id int64) error {
	query := `DELETE FROM marketing_emails WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting marketing email ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting marketing email ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllEmails clears every stored marketing address.
func (r *marketingRepository) DeleteAllEmails(executor SQLExecutor) error {
	query := `DELETE FROM marketing_emails`
	if _, err := executor.Exec(query); err != nil {
		return fmt.Errorf("%w: clearing marketing emails: %v", ErrDatabaseError, err)
	}
	return nil
}

// CountEmails returns the number of stored marketing addresses.
func (r *marketingRepository) CountEmails() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM marketing_emails`).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: counting marketing emails: %v", ErrDatabaseError, err)
	}
	return count, nil
}
