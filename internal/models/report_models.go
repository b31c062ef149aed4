package models

// RevenueReport aggregates invoice figures across all clients.
type RevenueReport struct {
	ClientCount   int     `json:"client_count"`
	TotalInvoiced float64 `json:"total_invoiced"`
	TotalWithVAT  float64 `json:"total_with_vat"`
	TotalVAT      float64 `json:"total_vat"`
	TotalExpenses float64 `json:"total_expenses"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalDiscount float64 `json:"total_discount"`
}

// DashboardSummary is the landing-page counter block.
type DashboardSummary struct {
	ClientCount         int `json:"client_count"`
	PendingFirstEmails  int `json:"pending_first_emails"`
	PendingSecondEmails int `json:"pending_second_emails"`
	ManualEmailsSent    int `json:"manual_emails_sent"`
	MarketingRecipients int `json:"marketing_recipients"`
}
