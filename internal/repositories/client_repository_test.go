package repositories

import (
	"testing"
	"time"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientColumnNames = []string{
	"id", "name", "email", "dive_count", "dive_date", "invoice_amount", "discount", "vat_rate",
	"nationality", "expenses", "revenue", "first_email_sent", "second_email_sent", "manual_email_sent",
	"first_email_sent_at", "second_email_sent_at", "added_by", "created_at", "updated_at",
}

func clientRow(id int64, firstSentAt interface{}) *sqlmock.Rows {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(clientColumnNames).AddRow(
		id, "Maria Santos", "maria@example.com", 2, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		100.0, 5.0, 0.22, models.NationalityPortuguese, 10.0, 90.0,
		false, false, false,
		firstSentAt, nil, "admin", now, now,
	)
}

func TestGetClientByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id =").
		WithArgs(int64(7)).
		WillReturnRows(clientRow(7, nil))

	client, err := repo.GetClientByID(7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), client.ID)
	assert.Equal(t, "maria@example.com", client.Email)
	assert.Equal(t, "2026-08-15", client.DiveDate)
	assert.Nil(t, client.FirstEmailSentAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClientByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id =").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(clientColumnNames))

	_, err = repo.GetClientByID(404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClientByIDParsesSentTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)

	sentAt := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id =").
		WithArgs(int64(7)).
		WillReturnRows(clientRow(7, sentAt))

	client, err := repo.GetClientByID(7)
	require.NoError(t, err)
	require.NotNil(t, client.FirstEmailSentAt)
	assert.Equal(t, sentAt, *client.FirstEmailSentAt)
}

func TestClaimEmailFlag(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)
	at := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE clients SET first_email_sent = TRUE, first_email_sent_at =").
		WithArgs(at, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.ClaimEmailFlag(db, 7, FlagFirstEmail, at)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimEmailFlagAlreadySet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)
	at := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	// The conditional WHERE matches no row when the flag is already true.
	mock.ExpectExec("UPDATE clients SET manual_email_sent = TRUE").
		WithArgs(at, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.ClaimEmailFlag(db, 7, FlagManualEmail, at)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimEmailFlagUnknownFlag(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)

	_, err = repo.ClaimEmailFlag(db, 7, EmailFlag("nonsense"), time.Now())
	assert.ErrorIs(t, err, ErrDatabaseError)
}

func TestReleaseEmailFlag(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)

	mock.ExpectExec("UPDATE clients SET second_email_sent = FALSE, second_email_sent_at = NULL").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReleaseEmailFlag(db, 7, FlagSecondEmail))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClientNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)

	mock.ExpectExec("DELETE FROM clients WHERE id =").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteClient(db, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmailCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClientRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending_first", "pending_second", "manual_sent"}).
			AddRow(10, 4, 7, 2))

	counters, err := repo.GetEmailCounters()
	require.NoError(t, err)
	assert.Equal(t, 10, counters.TotalClients)
	assert.Equal(t, 4, counters.PendingFirst)
	assert.Equal(t, 7, counters.PendingSecond)
	assert.Equal(t, 2, counters.ManualSent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
