package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// EmailFlag identifies one of the three per-client email-sent flags.
type EmailFlag string

const (
	FlagFirstEmail  EmailFlag = "first_email_sent"
	FlagSecondEmail EmailFlag = "second_email_sent"
	FlagManualEmail EmailFlag = "manual_email_sent"
)

// EmailCounters feeds the dashboard summary.
type EmailCounters struct {
	TotalClients  int
	PendingFirst  int
	PendingSecond int
	ManualSent    int
}

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClientByEmail(email string) (*models.Client, error)
	GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error)
	GetAllClients() ([]models.Client, error)
	UpdateClient(executor SQLExecutor, client *models.Client) error
	DeleteClient(executor SQLExecutor, id int64) error

	// ClaimEmailFlag flips the given flag from false to true and stamps the
	// sent-at column (for the scheduled flags). It reports false when the
	// flag was already set, which is how at-most-once sending is enforced.
	ClaimEmailFlag(executor SQLExecutor, id int64, flag EmailFlag, at time.Time) (bool, error)
	// ReleaseEmailFlag clears a claimed flag after a failed send.
	ReleaseEmailFlag(executor SQLExecutor, id int64, flag EmailFlag) error

	GetEmailCounters() (*EmailCounters, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, email, dive_count, dive_date, invoice_amount, discount, vat_rate,
	          nationality, expenses, revenue, first_email_sent, second_email_sent, manual_email_sent,
	          first_email_sent_at, second_email_sent_at, added_by, created_at, updated_at`

// scanClient scans one client row. dive_date is a DATE column; it comes back
// as time.Time and is normalized to YYYY-MM-DD.
func scanClient(row interface{ Scan(...interface{}) error }, client *models.Client) error {
	var diveDate time.Time
	var firstSentAt, secondSentAt sql.NullTime
	err := row.Scan(
		&client.ID, &client.Name, &client.Email, &client.DiveCount, &diveDate,
		&client.InvoiceAmount, &client.Discount, &client.VATRate, &client.Nationality,
		&client.Expenses, &client.Revenue,
		&client.FirstEmailSent, &client.SecondEmailSent, &client.ManualEmailSent,
		&firstSentAt, &secondSentAt,
		&client.AddedBy, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		return err
	}
	client.DiveDate = diveDate.Format("2006-01-02")
	if firstSentAt.Valid {
		client.FirstEmailSentAt = &firstSentAt.Time
	}
	if secondSentAt.Valid {
		client.SecondEmailSentAt = &secondSentAt.Time
	}
	return nil
}

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (name, email, dive_count, dive_date, invoice_amount, discount, vat_rate,
	            nationality, expenses, revenue, first_email_sent, second_email_sent, manual_email_sent,
	            added_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          RETURNING id`

	currentTime := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = currentTime
	}
	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = currentTime
	}

	err := executor.QueryRow(query,
		client.Name, client.Email, client.DiveCount, client.DiveDate,
		client.InvoiceAmount, client.Discount, client.VATRate, client.Nationality,
		client.Expenses, client.Revenue,
		client.FirstEmailSent, client.SecondEmailSent, client.ManualEmailSent,
		client.AddedBy, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return client.ID, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	err := scanClient(r.db.QueryRow(query, id), client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClientByEmail retrieves a client by their email address.
func (r *clientRepository) GetClientByEmail(email string) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`

	err := scanClient(r.db.QueryRow(query, email), client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by email %s: %v", ErrDatabaseError, email, err)
	}
	return client, nil
}

// GetClients retrieves a list of clients with pagination and optional search.
func (r *clientRepository) GetClients(page, pageSize int, searchTerm *string) ([]models.Client, int, error) {
	clients := []models.Client{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clientColumns + `, COUNT(*) OVER() as total_count FROM clients`)

	var args []interface{}
	argCount := 1

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		queryBuilder.WriteString(fmt.Sprintf(" WHERE (LOWER(name) ILIKE $%d OR LOWER(email) ILIKE $%d OR LOWER(nationality) ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY dive_date DESC, name ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var client models.Client
		var diveDate time.Time
		var firstSentAt, secondSentAt sql.NullTime
		if err := rows.Scan(
			&client.ID, &client.Name, &client.Email, &client.DiveCount, &diveDate,
			&client.InvoiceAmount, &client.Discount, &client.VATRate, &client.Nationality,
			&client.Expenses, &client.Revenue,
			&client.FirstEmailSent, &client.SecondEmailSent, &client.ManualEmailSent,
			&firstSentAt, &secondSentAt,
			&client.AddedBy, &client.CreatedAt, &client.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		client.DiveDate = diveDate.Format("2006-01-02")
		if firstSentAt.Valid {
			client.FirstEmailSentAt = &firstSentAt.Time
		}
		if secondSentAt.Valid {
			client.SecondEmailSentAt = &secondSentAt.Time
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}

	return clients, totalCount, nil
}

// GetAllClients retrieves every client row, ordered by dive date. Used by the
// feedback dispatcher, the bulk senders and the spreadsheet export.
func (r *clientRepository) GetAllClients() ([]models.Client, error) {
	clients := []models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY dive_date DESC, name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying all clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var client models.Client
		if err := scanClient(rows, &client); err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClient updates an existing client in the database.
func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients SET
	            name = $1, email = $2, dive_count = $3, dive_date = $4, invoice_amount = $5,
	            discount = $6, vat_rate = $7, nationality = $8, expenses = $9, revenue = $10,
	            updated_at = $11
	          WHERE id = $12`

	client.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		client.Name, client.Email, client.DiveCount, client.DiveDate, client.InvoiceAmount,
		client.Discount, client.VATRate, client.Nationality, client.Expenses, client.Revenue,
		client.UpdatedAt, client.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client from the database.
func (r *clientRepository) DeleteClient(executor SQLExecutor, id int64) error {
	query := `DELETE FROM clients WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimEmailFlag conditionally sets a flag that is still false. The scheduled
// flags also record the send timestamp.
func (r *clientRepository) ClaimEmailFlag(executor SQLExecutor, id int64, flag EmailFlag, at time.Time) (bool, error) {
	var query string
	var args []interface{}
	switch flag {
	case FlagFirstEmail:
		query = `UPDATE clients SET first_email_sent = TRUE, first_email_sent_at = $1, updated_at = $1
		         WHERE id = $2 AND first_email_sent = FALSE`
		args = []interface{}{at, id}
	case FlagSecondEmail:
		query = `UPDATE clients SET second_email_sent = TRUE, second_email_sent_at = $1, updated_at = $1
		         WHERE id = $2 AND second_email_sent = FALSE`
		args = []interface{}{at, id}
	case FlagManualEmail:
		query = `UPDATE clients SET manual_email_sent = TRUE, updated_at = $1
		         WHERE id = $2 AND manual_email_sent = FALSE`
		args = []interface{}{at, id}
	default:
		return false, fmt.Errorf("%w: unknown email flag %q", ErrDatabaseError, flag)
	}

	result, err := executor.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: claiming %s for client ID %d: %v", ErrDatabaseError, flag, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for claiming %s on client ID %d: %v", ErrDatabaseError, flag, id, err)
	}
	return rowsAffected == 1, nil
}

// ReleaseEmailFlag clears a flag (and its timestamp) after a send failure so
// a later pass can retry.
func (r *clientRepository) ReleaseEmailFlag(executor SQLExecutor, id int64, flag EmailFlag) error {
	var query string
	switch flag {
	case FlagFirstEmail:
		query = `UPDATE clients SET first_email_sent = FALSE, first_email_sent_at = NULL, updated_at = NOW() WHERE id = $1`
	case FlagSecondEmail:
		query = `UPDATE clients SET second_email_sent = FALSE, second_email_sent_at = NULL, updated_at = NOW() WHERE id = $1`
	case FlagManualEmail:
		query = `UPDATE clients SET manual_email_sent = FALSE, updated_at = NOW() WHERE id = $1`
	default:
		return fmt.Errorf("%w: unknown email flag %q", ErrDatabaseError, flag)
	}

	if _, err := executor.Exec(query, id); err != nil {
		return fmt.Errorf("%w: releasing %s for client ID %d: %v", ErrDatabaseError, flag, id, err)
	}
	return nil
}

// GetEmailCounters aggregates the flag columns for the dashboard.
func (r *clientRepository) GetEmailCounters() (*EmailCounters, error) {
	counters := &EmailCounters{}
	query := `SELECT COUNT(*),
	                 COUNT(*) FILTER (WHERE NOT first_email_sent),
	                 COUNT(*) FILTER (WHERE NOT second_email_sent),
	                 COUNT(*) FILTER (WHERE manual_email_sent)
	          FROM clients`

	err := r.db.QueryRow(query).Scan(
		&counters.TotalClients, &counters.PendingFirst, &counters.PendingSecond, &counters.ManualSent,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: counting email flags: %v", ErrDatabaseError, err)
	}
	return counters, nil
}
