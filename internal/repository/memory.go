package repository

import (
	"sync"
	"time"

	"github.com/lendbook/loan-service/internal/models"
)

// MemoryStore is an in-memory implementation of the service store, used in
// tests and for running the API without a database. A single mutex guards
// all state, so payment writes are serialized per store.
type MemoryStore struct {
	mu         sync.Mutex
	loans      map[int64]*models.Loan
	payments   map[int64][]models.Payment
	nextLoanID int64
	nextPayID  int64
}

// NewMemoryStore initializes an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		loans:    make(map[int64]*models.Loan),
		payments: make(map[int64][]models.Payment),
	}
}

func (m *MemoryStore) CreateLoan(loan *models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextLoanID++
	loan.ID = m.nextLoanID
	loan.CreatedAt = time.Now().UTC()
	copied := *loan
	m.loans[loan.ID] = &copied
	return nil
}

func (m *MemoryStore) FindLoanByID(id int64) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[id]
	if !ok {
		return nil, ErrLoanNotFound
	}
	copied := *loan
	return &copied, nil
}

func (m *MemoryStore) FindLoansByCustomer(customerID string) ([]models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var loans []models.Loan
	for id := int64(1); id <= m.nextLoanID; id++ {
		if loan, ok := m.loans[id]; ok && loan.CustomerID == customerID {
			loans = append(loans, *loan)
		}
	}
	if len(loans) == 0 {
		return nil, ErrNoLoans
	}
	return loans, nil
}

func (m *MemoryStore) FindAllLoans() ([]models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var loans []models.Loan
	for id := int64(1); id <= m.nextLoanID; id++ {
		if loan, ok := m.loans[id]; ok {
			loans = append(loans, *loan)
		}
	}
	return loans, nil
}

func (m *MemoryStore) RecordPayment(loanID int64, amount float64) (*models.Payment, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[loanID]; !ok {
		return nil, 0, ErrLoanNotFound
	}

	m.nextPayID++
	payment := models.Payment{
		ID:          m.nextPayID,
		LoanID:      loanID,
		Amount:      amount,
		PaymentDate: time.Now().UTC(),
	}
	m.payments[loanID] = append(m.payments[loanID], payment)

	var totalPaid float64
	for _, p := range m.payments[loanID] {
		totalPaid += p.Amount
	}
	return &payment, totalPaid, nil
}

func (m *MemoryStore) FindPaymentsByLoan(loanID int64) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payments := make([]models.Payment, len(m.payments[loanID]))
	copy(payments, m.payments[loanID])
	return payments, nil
}
