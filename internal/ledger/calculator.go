package ledger

import (
	"math"

	"github.com/lendbook/loan-service/internal/models"
)

// Terms holds the derived figures for a new loan.
type Terms struct {
	TotalAmount float64
	EMI         float64
}

// CalculateTerms computes total payable and monthly installment for a loan
// using flat (non-compounding) interest over the whole period. A zero-year
// period means the entire amount is due as a single installment.
func CalculateTerms(principal float64, periodYears int, rate float64) Terms {
	interest := principal * float64(periodYears) * rate / 100
	totalAmount := principal + interest

	totalMonths := periodYears * 12
	emi := totalAmount
	if totalMonths > 0 {
		emi = totalAmount / float64(totalMonths)
	}

	return Terms{TotalAmount: totalAmount, EMI: emi}
}

// Status derives total paid, outstanding balance and remaining installments
// from a loan and its full payment history. The balance goes negative on
// overpayment; EMIsLeft never does.
func Status(loan *models.Loan, payments []models.Payment) models.LoanStatus {
	var totalPaid float64
	for _, p := range payments {
		totalPaid += p.Amount
	}

	balance := loan.TotalAmount - totalPaid

	emisLeft := 0
	if loan.EMI > 0 {
		emisLeft = int(math.Ceil(balance / loan.EMI))
	}
	if emisLeft < 0 {
		emisLeft = 0
	}

	return models.LoanStatus{
		TotalPaid: totalPaid,
		Balance:   balance,
		EMIsLeft:  emisLeft,
	}
}

// Round2 rounds a monetary figure to 2 decimal places. Internal computation
// keeps full float64 precision; rounding happens only at response boundaries.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
