package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarketingFixture(t *testing.T, clients ...*models.Client) (MarketingService, *fakeMarketingRepo, *fakeSender, string) {
	t.Helper()
	marketingRepo := newFakeMarketingRepo()
	sender := newFakeSender()
	listFile := filepath.Join(t.TempDir(), "marketing_emails.txt")
	service := NewMarketingService(marketingRepo, newFakeClientRepo(clients...), sender, nil, listFile)
	return service, marketingRepo, sender, listFile
}

func TestParseAddresses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "newline separated",
			raw:  "one@example.com\ntwo@example.com",
			want: []string{"one@example.com", "two@example.com"},
		},
		{
			name: "commas and whitespace",
			raw:  " one@example.com , two@example.com\nthree@example.com",
			want: []string{"one@example.com", "two@example.com", "three@example.com"},
		},
		{
			name: "lowercased and deduplicated",
			raw:  "One@Example.com\none@example.com",
			want: []string{"one@example.com"},
		},
		{
			name: "invalid entries dropped",
			raw:  "not-an-email\n@missing.local\nvalid@example.com\n",
			want: []string{"valid@example.com"},
		},
		{
			name: "empty blob",
			raw:  "\n\n,,\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddresses(tt.raw))
		})
	}
}

func TestSaveListStoresAndMirrorsToFile(t *testing.T) {
	service, repo, _, listFile := newMarketingFixture(t)

	added, err := service.SaveList(SaveMarketingListRequest{
		Emails: "a@example.com\nb@example.com\na@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	entries, err := repo.GetEmails(nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, DefaultListName, entries[0].ListName)

	content, err := os.ReadFile(listFile)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com\nb@example.com\n", string(content))
}

func TestSaveListRejectsBlobWithoutAddresses(t *testing.T) {
	service, _, _, _ := newMarketingFixture(t)

	_, err := service.SaveList(SaveMarketingListRequest{Emails: "nothing useful here"})
	assert.ErrorIs(t, err, ErrCampaignValidation)
}

func TestSaveListCountsOnlyNewAddresses(t *testing.T) {
	service, _, _, _ := newMarketingFixture(t)

	_, err := service.SaveList(SaveMarketingListRequest{Emails: "a@example.com"})
	require.NoError(t, err)

	added, err := service.SaveList(SaveMarketingListRequest{Emails: "a@example.com\nb@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestClearAllRemovesMirrorFile(t *testing.T) {
	service, repo, _, listFile := newMarketingFixture(t)

	_, err := service.SaveList(SaveMarketingListRequest{Emails: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, service.ClearAll())

	count, err := repo.CountEmails()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = os.Stat(listFile)
	assert.True(t, os.IsNotExist(err))
}

func TestSendCampaignUnionsRecipients(t *testing.T) {
	client := &models.Client{Name: "Diver", Email: "diver@example.com", DiveDate: "2026-08-20"}
	service, _, sender, _ := newMarketingFixture(t, client)

	_, err := service.SaveList(SaveMarketingListRequest{Emails: "stored@example.com\ndiver@example.com"})
	require.NoError(t, err)

	result, err := service.SendCampaign(SendCampaignRequest{
		Subject:        "Summer deals",
		Content:        "<p>Dive with us!</p>",
		Emails:         "pasted@example.com, stored@example.com",
		IncludeClients: true,
	})
	require.NoError(t, err)

	// stored, pasted and client addresses, deduplicated across sources.
	assert.Equal(t, 3, result.Recipients)
	assert.Equal(t, 3, result.Sent)
	assert.Empty(t, result.Failed)

	var addresses []string
	for _, mail := range sender.sent {
		assert.Equal(t, "Summer deals", mail.Subject)
		addresses = append(addresses, mail.To)
	}
	assert.ElementsMatch(t, []string{"stored@example.com", "diver@example.com", "pasted@example.com"}, addresses)
}

func TestSendCampaignWithoutRecipients(t *testing.T) {
	service, _, _, _ := newMarketingFixture(t)

	_, err := service.SendCampaign(SendCampaignRequest{Subject: "s", Content: "c"})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestSendCampaignCollectsFailures(t *testing.T) {
	service, _, sender, _ := newMarketingFixture(t)
	sender.failFor["bad@example.com"] = true

	result, err := service.SendCampaign(SendCampaignRequest{
		Subject: "s",
		Content: "c",
		Emails:  "good@example.com\nbad@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Recipients)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, []string{"bad@example.com"}, result.Failed)
}

func TestDeleteEmailNotFound(t *testing.T) {
	service, _, _, _ := newMarketingFixture(t)

	err := service.DeleteEmail(99)
	assert.ErrorIs(t, err, ErrMarketingEntryNotFound)
}
