package models

import "time"

// Loan represents a loan issued to a customer. TotalAmount and EMI are
// computed once at creation from the flat-interest terms and never change.
type Loan struct {
	ID          int64     `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Principal   float64   `json:"principal"`
	Rate        float64   `json:"rate"`
	PeriodYears int       `json:"period_years"`
	TotalAmount float64   `json:"total_amount"`
	EMI         float64   `json:"emi"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoanStatus holds figures derived from a loan and its full payment history.
// It is recomputed on every read and never persisted.
type LoanStatus struct {
	TotalPaid float64 `json:"total_paid"`
	Balance   float64 `json:"balance"`
	EMIsLeft  int     `json:"emis_left"`
}
