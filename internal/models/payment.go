package models

import "time"

// Payment represents a single payment recorded against a loan.
// Payments are append-only and never updated or deleted.
type Payment struct {
	ID          int64     `json:"id"`
	LoanID      int64     `json:"loan_id"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
}
