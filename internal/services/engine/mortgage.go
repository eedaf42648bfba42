package engine

import (
	"math"

	"investment-projection-engine/internal/models"
)

// amortization is a fixed-rate mortgage schedule built once per run.
type amortization struct {
	originationMonth int
	principal        float64
	monthlyPayment   float64
	monthlyRate      float64
	termMonths       int
}

// newAmortization prices the loan: principal is LTV% of base price, drawn at
// the origination month (handover unless overridden), with the standard
// fixed-rate payment P*r(1+r)^n / ((1+r)^n - 1).
func newAmortization(m models.MortgageInputs, basePrice float64, handoverMonth int) *amortization {
	origination := handoverMonth
	if m.OriginationMonth != nil {
		origination = *m.OriginationMonth
	}

	principal := m.LTVPercent / 100 * basePrice
	termMonths := m.TermYears * 12
	rate := m.AnnualInterestPercent / 100 / 12

	var payment float64
	if rate == 0 {
		payment = principal / float64(termMonths)
	} else {
		factor := math.Pow(1+rate, float64(termMonths))
		payment = principal * rate * factor / (factor - 1)
	}

	return &amortization{
		originationMonth: origination,
		principal:        principal,
		monthlyPayment:   payment,
		monthlyRate:      rate,
		termMonths:       termMonths,
	}
}

// monthlyBreakdown splits the payment for a given month into interest and
// principal given the outstanding balance at the start of that month. The
// final payment is clipped so the balance never goes negative.
func (a *amortization) monthlyBreakdown(balance float64) (payment, interest, principal float64) {
	if balance <= 0 {
		return 0, 0, 0
	}
	interest = balance * a.monthlyRate
	payment = a.monthlyPayment
	principal = payment - interest
	if principal > balance {
		principal = balance
		payment = interest + principal
	}
	return payment, interest, principal
}

// active reports whether debt service is due in the given month.
func (a *amortization) active(month int) bool {
	return month > a.originationMonth && month <= a.originationMonth+a.termMonths
}
