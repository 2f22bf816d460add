package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lendbook/loan-service/internal/models"
)

// ErrLoanNotFound is returned when a referenced loan does not exist.
var ErrLoanNotFound = errors.New("loan not found")

// ErrNoLoans is returned when a customer has no loans on record.
var ErrNoLoans = errors.New("no loans found for customer")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateLoan persists a new loan with its derived totals
func (r *Repository) CreateLoan(loan *models.Loan) error {
	query := `
		INSERT INTO loans (customer_id, principal, rate, period_years, total_amount, emi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, loan.CustomerID, loan.Principal, loan.Rate, loan.PeriodYears, loan.TotalAmount, loan.EMI).
		Scan(&loan.ID, &loan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// FindLoanByID retrieves a loan by its identifier
func (r *Repository) FindLoanByID(id int64) (*models.Loan, error) {
	loan := &models.Loan{}
	query := `
		SELECT id, customer_id, principal, rate, period_years, total_amount, emi, created_at
		FROM loans
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&loan.ID, &loan.CustomerID, &loan.Principal, &loan.Rate, &loan.PeriodYears, &loan.TotalAmount, &loan.EMI, &loan.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	return loan, nil
}

// FindLoansByCustomer retrieves all loans of a customer in creation order
func (r *Repository) FindLoansByCustomer(customerID string) ([]models.Loan, error) {
	query := `
		SELECT id, customer_id, principal, rate, period_years, total_amount, emi, created_at
		FROM loans
		WHERE customer_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var loan models.Loan
		if err := rows.Scan(&loan.ID, &loan.CustomerID, &loan.Principal, &loan.Rate, &loan.PeriodYears, &loan.TotalAmount, &loan.EMI, &loan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}
	if len(loans) == 0 {
		return nil, ErrNoLoans
	}
	return loans, nil
}

// FindAllLoans retrieves every loan in creation order
func (r *Repository) FindAllLoans() ([]models.Loan, error) {
	query := `
		SELECT id, customer_id, principal, rate, period_years, total_amount, emi, created_at
		FROM loans
		ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var loan models.Loan
		if err := rows.Scan(&loan.ID, &loan.CustomerID, &loan.Principal, &loan.Rate, &loan.PeriodYears, &loan.TotalAmount, &loan.EMI, &loan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}
	return loans, nil
}

// RecordPayment appends a payment to a loan and returns the new total paid.
// The loan row stays locked for the duration of the transaction so concurrent
// payments against the same loan are serialized and the returned total is
// consistent with the insert.
func (r *Repository) RecordPayment(loanID int64, amount float64) (*models.Payment, float64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int64
	err = tx.QueryRow(`SELECT id FROM loans WHERE id = $1 FOR UPDATE`, loanID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return nil, 0, ErrLoanNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to lock loan: %w", err)
	}

	payment := &models.Payment{LoanID: loanID, Amount: amount}
	err = tx.QueryRow(`
		INSERT INTO payments (loan_id, amount, payment_date)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, payment_date`, loanID, amount).
		Scan(&payment.ID, &payment.PaymentDate)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to record payment: %w", err)
	}

	var totalPaid float64
	err = tx.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE loan_id = $1`, loanID).
		Scan(&totalPaid)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to sum payments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit payment: %w", err)
	}
	return payment, totalPaid, nil
}

// FindPaymentsByLoan retrieves the full payment history of a loan in
// recording order
func (r *Repository) FindPaymentsByLoan(loanID int64) ([]models.Payment, error) {
	query := `
		SELECT id, loan_id, amount, payment_date
		FROM payments
		WHERE loan_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(&payment.ID, &payment.LoanID, &payment.Amount, &payment.PaymentDate); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}
	return payments, nil
}
