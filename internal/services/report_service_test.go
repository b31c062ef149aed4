package services

import (
	"testing"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRevenueReport(t *testing.T) {
	clientRepo := newFakeClientRepo(
		&models.Client{
			Name: "A", Email: "a@example.com", DiveDate: "2026-08-10",
			InvoiceAmount: 100, VATRate: 0.22, Expenses: 10, Revenue: 90, Discount: 5,
		},
		&models.Client{
			Name: "B", Email: "b@example.com", DiveDate: "2026-08-11",
			InvoiceAmount: 50, VATRate: 0.06, Expenses: 5, Revenue: 45,
		},
	)
	service := NewReportService(clientRepo, newFakeMarketingRepo())

	report, err := service.GetRevenueReport()
	require.NoError(t, err)

	assert.Equal(t, 2, report.ClientCount)
	assert.InDelta(t, 150, report.TotalInvoiced, 0.001)
	assert.InDelta(t, 100*1.22+50*1.06, report.TotalWithVAT, 0.001)
	assert.InDelta(t, 100*0.22+50*0.06, report.TotalVAT, 0.001)
	assert.InDelta(t, 15, report.TotalExpenses, 0.001)
	assert.InDelta(t, 135, report.TotalRevenue, 0.001)
	assert.InDelta(t, 5, report.TotalDiscount, 0.001)
}

func TestGetDashboardSummary(t *testing.T) {
	clientRepo := newFakeClientRepo(
		&models.Client{Name: "A", Email: "a@example.com", DiveDate: "2026-08-10", FirstEmailSent: true, ManualEmailSent: true},
		&models.Client{Name: "B", Email: "b@example.com", DiveDate: "2026-08-11"},
	)
	marketingRepo := newFakeMarketingRepo()
	_, err := marketingRepo.AddEmails(nil, "general", []string{"x@example.com", "y@example.com"})
	require.NoError(t, err)

	service := NewReportService(clientRepo, marketingRepo)

	summary, err := service.GetDashboardSummary()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ClientCount)
	assert.Equal(t, 1, summary.PendingFirstEmails)
	assert.Equal(t, 2, summary.PendingSecondEmails)
	assert.Equal(t, 1, summary.ManualEmailsSent)
	assert.Equal(t, 2, summary.MarketingRecipients)
}

// The fakes must keep satisfying the repository interfaces.
var (
	_ repositories.ClientRepository    = (*fakeClientRepo)(nil)
	_ repositories.TemplateRepository  = (*fakeTemplateRepo)(nil)
	_ repositories.MarketingRepository = (*fakeMarketingRepo)(nil)
	_ repositories.SettingRepository   = (*fakeSettingRepo)(nil)
	_ repositories.UserRepository      = (*fakeUserRepo)(nil)
)
