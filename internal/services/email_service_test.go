package services

import (
	"testing"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmailFixture(clients ...*models.Client) (EmailService, *fakeClientRepo, *fakeSender) {
	clientRepo := newFakeClientRepo(clients...)
	sender := newFakeSender()
	templateService := NewTemplateService(newFakeTemplateRepo(), nil)
	return NewEmailService(clientRepo, templateService, sender, nil), clientRepo, sender
}

func TestSendManualFeedback(t *testing.T) {
	client := &models.Client{
		Name:        "Anna Schmidt",
		Email:       "anna@example.com",
		DiveDate:    "2026-08-20",
		Nationality: models.NationalityGerman,
	}
	service, repo, sender := newEmailFixture(client)

	require.NoError(t, service.SendManualFeedback(client.ID))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "anna@example.com", sender.sent[0].To)
	assert.Equal(t, templates.Subject(models.NationalityGerman), sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Body, "Anna Schmidt")

	stored, err := repo.GetClientByID(client.ID)
	require.NoError(t, err)
	assert.True(t, stored.ManualEmailSent)
}

func TestSendManualFeedbackOnlyOnce(t *testing.T) {
	client := &models.Client{
		Name:     "Repeat Target",
		Email:    "repeat@example.com",
		DiveDate: "2026-08-20",
	}
	service, _, sender := newEmailFixture(client)

	require.NoError(t, service.SendManualFeedback(client.ID))
	err := service.SendManualFeedback(client.ID)
	assert.ErrorIs(t, err, ErrEmailAlreadySent)
	assert.Len(t, sender.sent, 1)
}

func TestSendManualFeedbackUnknownClient(t *testing.T) {
	service, _, _ := newEmailFixture()

	err := service.SendManualFeedback(42)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestSendManualFeedbackFailureAllowsRetry(t *testing.T) {
	client := &models.Client{
		Name:     "Flaky Inbox",
		Email:    "flaky@example.com",
		DiveDate: "2026-08-20",
	}
	service, repo, sender := newEmailFixture(client)
	sender.failFor["flaky@example.com"] = true

	err := service.SendManualFeedback(client.ID)
	assert.ErrorIs(t, err, ErrEmailSendFailed)

	stored, err := repo.GetClientByID(client.ID)
	require.NoError(t, err)
	assert.False(t, stored.ManualEmailSent)

	sender.failFor = map[string]bool{}
	require.NoError(t, service.SendManualFeedback(client.ID))
}

func TestSendFeedbackToAll(t *testing.T) {
	alreadySent := &models.Client{
		Name: "Done Already", Email: "done@example.com",
		DiveDate: "2026-08-20", ManualEmailSent: true,
	}
	fresh := &models.Client{
		Name: "Fresh One", Email: "freshone@example.com", DiveDate: "2026-08-21",
	}
	failing := &models.Client{
		Name: "Dead Letter", Email: "dead@example.com", DiveDate: "2026-08-22",
	}
	service, _, sender := newEmailFixture(alreadySent, fresh, failing)
	sender.failFor["dead@example.com"] = true

	result, err := service.SendFeedbackToAll()
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"dead@example.com"}, result.Failed)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "freshone@example.com", sender.sent[0].To)
}

func TestSendCustomEmail(t *testing.T) {
	client := &models.Client{
		Name:     "Custom Target",
		Email:    "custom@example.com",
		DiveDate: "2026-08-20",
	}
	service, _, sender := newEmailFixture(client)

	err := service.SendCustomEmail(client.ID, SendCustomEmailRequest{
		Subject: "Special offer",
		Content: "<p>Hi [NOME], come dive again!</p>",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Special offer", sender.sent[0].Subject)
	assert.Equal(t, "<p>Hi Custom Target, come dive again!</p>", sender.sent[0].Body)
}

func TestPreviewFeedbackSendsNothing(t *testing.T) {
	client := &models.Client{
		Name:        "Preview Only",
		Email:       "preview@example.com",
		DiveDate:    "2026-08-20",
		Nationality: models.NationalityFrench,
	}
	service, repo, sender := newEmailFixture(client)

	preview, err := service.PreviewFeedback(client.ID)
	require.NoError(t, err)

	assert.Equal(t, templates.Subject(models.NationalityFrench), preview.Subject)
	assert.Contains(t, preview.Content, "Preview Only")
	assert.Empty(t, sender.sent)

	stored, err := repo.GetClientByID(client.ID)
	require.NoError(t, err)
	assert.False(t, stored.ManualEmailSent)
}
