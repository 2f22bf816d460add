package models

// LendRequest is the body of POST /lend.
type LendRequest struct {
	CustomerID     string  `json:"customer_id" validate:"required"`
	LoanAmount     float64 `json:"loan_amount" validate:"required,gt=0"`
	LoanPeriod     int     `json:"loan_period" validate:"min=0"`
	RateOfInterest float64 `json:"rate_of_interest" validate:"min=0"`
}

// PaymentRequest is the body of POST /payment.
type PaymentRequest struct {
	LoanID int64   `json:"loan_id" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// LendResponse confirms a newly created loan.
type LendResponse struct {
	LoanID      int64   `json:"loan_id"`
	TotalAmount float64 `json:"total_amount"`
	MonthlyEMI  float64 `json:"monthly_emi"`
}

// PaymentResponse confirms a recorded payment.
type PaymentResponse struct {
	Message         string  `json:"message"`
	LoanID          int64   `json:"loan_id"`
	RemainingAmount float64 `json:"remaining_amount"`
}

// TransactionEntry is one payment in a ledger response.
type TransactionEntry struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// LedgerResponse is the full payment history and status of a loan.
type LedgerResponse struct {
	LoanID        int64              `json:"loan_id"`
	Principal     float64            `json:"principal"`
	TotalAmount   float64            `json:"total_amount"`
	MonthlyEMI    float64            `json:"monthly_emi"`
	Transactions  []TransactionEntry `json:"transactions"`
	TotalPaid     float64            `json:"total_paid"`
	BalanceAmount float64            `json:"balance_amount"`
	EMIsLeft      int                `json:"emis_left"`
}

// LoanSummary is one loan in a customer overview.
type LoanSummary struct {
	LoanID        int64   `json:"loan_id"`
	Principal     float64 `json:"principal"`
	TotalAmount   float64 `json:"total_amount"`
	TotalInterest float64 `json:"total_interest"`
	EMIAmount     float64 `json:"emi_amount"`
	AmountPaid    float64 `json:"amount_paid"`
	EMIsLeft      int     `json:"emis_left"`
}

// OverviewResponse lists all loans held by a customer.
type OverviewResponse struct {
	CustomerID string        `json:"customer_id"`
	Loans      []LoanSummary `json:"loans"`
}
