package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lendbook/loan-service/internal/models"
)

func TestCalculateTerms(t *testing.T) {
	terms := CalculateTerms(10000, 2, 8)

	assert.Equal(t, 11600.0, terms.TotalAmount)
	assert.Equal(t, 483.33, Round2(terms.EMI))
}

func TestCalculateTerms_ZeroRate(t *testing.T) {
	terms := CalculateTerms(12000, 1, 0)

	assert.Equal(t, 12000.0, terms.TotalAmount)
	assert.Equal(t, 1000.0, terms.EMI)
}

func TestCalculateTerms_ZeroPeriod(t *testing.T) {
	// A zero-year loan is due as a single lump installment.
	terms := CalculateTerms(5000, 0, 10)

	assert.Equal(t, 5000.0, terms.TotalAmount)
	assert.Equal(t, 5000.0, terms.EMI)
}

func TestStatus_NoPayments(t *testing.T) {
	loan := &models.Loan{TotalAmount: 11600, EMI: 11600.0 / 24}

	status := Status(loan, nil)

	assert.Equal(t, 0.0, status.TotalPaid)
	assert.Equal(t, 11600.0, status.Balance)
	assert.Equal(t, 24, status.EMIsLeft)
}

func TestStatus_PartiallyPaid(t *testing.T) {
	loan := &models.Loan{TotalAmount: 11600, EMI: 11600.0 / 24}
	payments := []models.Payment{{Amount: 5000}}

	status := Status(loan, payments)

	assert.Equal(t, 5000.0, status.TotalPaid)
	assert.Equal(t, 6600.0, Round2(status.Balance))
	assert.Equal(t, 14, status.EMIsLeft)
}

func TestStatus_SumIsOrderIndependent(t *testing.T) {
	loan := &models.Loan{TotalAmount: 10000, EMI: 500}
	forward := []models.Payment{{Amount: 1200.50}, {Amount: 300.25}, {Amount: 999.99}}
	reversed := []models.Payment{{Amount: 999.99}, {Amount: 300.25}, {Amount: 1200.50}}

	assert.Equal(t, Status(loan, forward).TotalPaid, Status(loan, reversed).TotalPaid)
}

func TestStatus_Overpaid(t *testing.T) {
	loan := &models.Loan{TotalAmount: 1000, EMI: 100}
	payments := []models.Payment{{Amount: 1500}}

	status := Status(loan, payments)

	assert.Equal(t, -500.0, status.Balance)
	assert.Equal(t, 0, status.EMIsLeft)
}

func TestStatus_ExactlyPaid(t *testing.T) {
	loan := &models.Loan{TotalAmount: 1000, EMI: 100}
	payments := []models.Payment{{Amount: 400}, {Amount: 600}}

	status := Status(loan, payments)

	assert.Equal(t, 0.0, status.Balance)
	assert.Equal(t, 0, status.EMIsLeft)
}

func TestStatus_ZeroEMI(t *testing.T) {
	loan := &models.Loan{TotalAmount: 0, EMI: 0}

	status := Status(loan, nil)

	assert.Equal(t, 0, status.EMIsLeft)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 483.33, Round2(483.333333))
	assert.Equal(t, 483.34, Round2(483.336))
	assert.Equal(t, -0.5, Round2(-0.499999))
}
