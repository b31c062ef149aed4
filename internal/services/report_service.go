package services

import (
	"fmt"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"
)

// --- ReportService Interface ---
type ReportService interface {
	GetRevenueReport() (*models.RevenueReport, error)
	GetDashboardSummary() (*models.DashboardSummary, error)
}

type reportService struct {
	clientRepo    repositories.ClientRepository
	marketingRepo repositories.MarketingRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(clientRepo repositories.ClientRepository, marketingRepo repositories.MarketingRepository) ReportService {
	return &reportService{clientRepo: clientRepo, marketingRepo: marketingRepo}
}

// GetRevenueReport aggregates invoice figures over all clients, applying each
// client's own VAT rate.
func (s *reportService) GetRevenueReport() (*models.RevenueReport, error) {
	clients, err := s.clientRepo.GetAllClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for revenue report: %w", err)
	}

	report := &models.RevenueReport{ClientCount: len(clients)}
	for i := range clients {
		c := &clients[i]
		report.TotalInvoiced += c.InvoiceAmount
		report.TotalWithVAT += c.InvoiceAmount * (1 + c.VATRate)
		report.TotalVAT += c.InvoiceAmount * c.VATRate
		report.TotalExpenses += c.Expenses
		report.TotalRevenue += c.Revenue
		report.TotalDiscount += c.Discount
	}
	return report, nil
}

func (s *reportService) GetDashboardSummary() (*models.DashboardSummary, error) {
	counters, err := s.clientRepo.GetEmailCounters()
	if err != nil {
		return nil, fmt.Errorf("failed to load email counters: %w", err)
	}
	marketingCount, err := s.marketingRepo.CountEmails()
	if err != nil {
		return nil, fmt.Errorf("failed to count marketing emails: %w", err)
	}

	return &models.DashboardSummary{
		ClientCount:         counters.TotalClients,
		PendingFirstEmails:  counters.PendingFirst,
		PendingSecondEmails: counters.PendingSecond,
		ManualEmailsSent:    counters.ManualSent,
		MarketingRecipients: marketingCount,
	}, nil
}
