package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lendbook/loan-service/internal/ledger"
	"github.com/lendbook/loan-service/internal/models"
)

// ErrInvalidLoanTerms is returned when lend input fails business validation.
var ErrInvalidLoanTerms = errors.New("invalid loan terms")

// ErrInvalidPaymentAmount is returned for non-positive payment amounts.
var ErrInvalidPaymentAmount = errors.New("payment amount must be positive")

// Store is the persistence interface the service operates on.
type Store interface {
	CreateLoan(loan *models.Loan) error
	FindLoanByID(id int64) (*models.Loan, error)
	FindLoansByCustomer(customerID string) ([]models.Loan, error)
	FindAllLoans() ([]models.Loan, error)
	RecordPayment(loanID int64, amount float64) (*models.Payment, float64, error)
	FindPaymentsByLoan(loanID int64) ([]models.Payment, error)
}

// Service handles business logic
type Service struct {
	store Store
	log   *logrus.Logger
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Lend creates a new loan with flat interest over the whole period and
// returns its identifier and derived totals.
func (s *Service) Lend(req models.LendRequest) (*models.LendResponse, error) {
	if req.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer_id is required", ErrInvalidLoanTerms)
	}
	if req.LoanAmount <= 0 {
		return nil, fmt.Errorf("%w: loan_amount must be positive", ErrInvalidLoanTerms)
	}
	if req.LoanPeriod < 0 {
		return nil, fmt.Errorf("%w: loan_period must not be negative", ErrInvalidLoanTerms)
	}
	if req.RateOfInterest < 0 {
		return nil, fmt.Errorf("%w: rate_of_interest must not be negative", ErrInvalidLoanTerms)
	}

	terms := ledger.CalculateTerms(req.LoanAmount, req.LoanPeriod, req.RateOfInterest)

	loan := &models.Loan{
		CustomerID:  req.CustomerID,
		Principal:   req.LoanAmount,
		Rate:        req.RateOfInterest,
		PeriodYears: req.LoanPeriod,
		TotalAmount: terms.TotalAmount,
		EMI:         terms.EMI,
	}
	if err := s.store.CreateLoan(loan); err != nil {
		return nil, err
	}

	s.log.Infof("Loan %d created for customer %s: principal %.2f, total %.2f", loan.ID, loan.CustomerID, loan.Principal, loan.TotalAmount)
	return &models.LendResponse{
		LoanID:      loan.ID,
		TotalAmount: ledger.Round2(loan.TotalAmount),
		MonthlyEMI:  ledger.Round2(loan.EMI),
	}, nil
}

// RecordPayment appends a payment to a loan and returns the remaining
// balance after it is applied. Overpayment is permitted and yields a
// negative balance.
func (s *Service) RecordPayment(req models.PaymentRequest) (*models.PaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	loan, err := s.store.FindLoanByID(req.LoanID)
	if err != nil {
		return nil, err
	}

	payment, totalPaid, err := s.store.RecordPayment(loan.ID, req.Amount)
	if err != nil {
		return nil, err
	}

	s.log.Infof("Payment %d of %.2f recorded for loan %d", payment.ID, payment.Amount, loan.ID)
	return &models.PaymentResponse{
		Message:         "Payment successful",
		LoanID:          loan.ID,
		RemainingAmount: ledger.Round2(loan.TotalAmount - totalPaid),
	}, nil
}

// Ledger returns the full payment history and current status of a loan.
func (s *Service) Ledger(loanID int64) (*models.LedgerResponse, error) {
	loan, err := s.store.FindLoanByID(loanID)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.FindPaymentsByLoan(loan.ID)
	if err != nil {
		return nil, err
	}

	status := ledger.Status(loan, payments)

	transactions := make([]models.TransactionEntry, 0, len(payments))
	for _, p := range payments {
		transactions = append(transactions, models.TransactionEntry{
			Date:   p.PaymentDate.UTC().Format(time.RFC3339),
			Amount: p.Amount,
		})
	}

	return &models.LedgerResponse{
		LoanID:        loan.ID,
		Principal:     ledger.Round2(loan.Principal),
		TotalAmount:   ledger.Round2(loan.TotalAmount),
		MonthlyEMI:    ledger.Round2(loan.EMI),
		Transactions:  transactions,
		TotalPaid:     ledger.Round2(status.TotalPaid),
		BalanceAmount: ledger.Round2(status.Balance),
		EMIsLeft:      status.EMIsLeft,
	}, nil
}

// Overview returns a summary of every loan held by a customer. Each loan's
// payments are summed independently.
func (s *Service) Overview(customerID string) (*models.OverviewResponse, error) {
	loans, err := s.store.FindLoansByCustomer(customerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.LoanSummary, 0, len(loans))
	for i := range loans {
		loan := &loans[i]
		payments, err := s.store.FindPaymentsByLoan(loan.ID)
		if err != nil {
			return nil, err
		}
		status := ledger.Status(loan, payments)

		summaries = append(summaries, models.LoanSummary{
			LoanID:        loan.ID,
			Principal:     ledger.Round2(loan.Principal),
			TotalAmount:   ledger.Round2(loan.TotalAmount),
			TotalInterest: ledger.Round2(loan.TotalAmount - loan.Principal),
			EMIAmount:     ledger.Round2(loan.EMI),
			AmountPaid:    ledger.Round2(status.TotalPaid),
			EMIsLeft:      status.EMIsLeft,
		})
	}

	return &models.OverviewResponse{CustomerID: customerID, Loans: summaries}, nil
}
