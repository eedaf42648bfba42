// Package models defines the data structures for the investment projection engine.
package models

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidBasePrice     = errors.New("base price must be positive")
	ErrInvalidRentalMode    = errors.New("invalid rental mode")
	ErrInvalidServiceCharge = errors.New("invalid service charge mode")
	ErrInvalidMilestoneKind = errors.New("invalid milestone kind")
	ErrInvalidPercent       = errors.New("percentage must be between 0 and 100")
	ErrHandoverBeforeBook   = errors.New("handover date must not precede booking date")
	ErrInvalidLTV           = errors.New("loan-to-value percent must be between 0 and 100")
	ErrInvalidTerm          = errors.New("mortgage term must be at least one year")
	ErrMissingShortTerm     = errors.New("short-term rental mode requires short-term assumptions")
)

// ScheduleError reports a structurally invalid milestone plan. It is fatal:
// resolution stops and no schedule is produced. MilestoneIndex is -1 when the
// plan as a whole is at fault.
type ScheduleError struct {
	MilestoneIndex int
	Label          string
	Reason         string
}

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	if e.MilestoneIndex < 0 {
		return fmt.Sprintf("invalid payment plan: %s", e.Reason)
	}
	label := e.Label
	if label == "" {
		label = fmt.Sprintf("milestone %d", e.MilestoneIndex)
	}
	return fmt.Sprintf("invalid payment plan: %s: %s", label, e.Reason)
}

// NewScheduleError constructs a ScheduleError for one milestone.
func NewScheduleError(index int, label, format string, args ...interface{}) *ScheduleError {
	return &ScheduleError{
		MilestoneIndex: index,
		Label:          label,
		Reason:         fmt.Sprintf(format, args...),
	}
}

// NewPlanError constructs a ScheduleError for the plan as a whole.
func NewPlanError(format string, args ...interface{}) *ScheduleError {
	return &ScheduleError{MilestoneIndex: -1, Reason: fmt.Sprintf(format, args...)}
}

// OutOfRangeError reports an exit month beyond the computed horizon. The
// caller must extend the horizon and recompute; the core never clamps.
type OutOfRangeError struct {
	Requested int
	Horizon   int
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("exit month %d exceeds computed horizon of %d months", e.Requested, e.Horizon)
}

// ValidateOIInputs validates a projection input snapshot before any
// computation runs.
func ValidateOIInputs(in *OIInputs) error {
	if in.BasePrice <= 0 {
		return ErrInvalidBasePrice
	}
	if in.HandoverDate.Index() < in.BookingDate.Index() {
		return ErrHandoverBeforeBook
	}
	if !in.RentalMode.IsValid() {
		return ErrInvalidRentalMode
	}
	if in.RentalMode == RentalModeShortTerm && in.ShortTerm == nil {
		return ErrMissingShortTerm
	}
	if !in.ServiceChargeMode.IsValid() {
		return ErrInvalidServiceCharge
	}
	if in.DownPaymentPercent < 0 || in.DownPaymentPercent > 100 {
		return ErrInvalidPercent
	}
	if in.RentalYieldPercent < 0 || in.RentalYieldPercent > 100 {
		return ErrInvalidPercent
	}
	if in.SellingCostPercent < 0 || in.SellingCostPercent > 100 {
		return ErrInvalidPercent
	}
	for i, m := range in.Milestones {
		if !m.Kind.IsValid() {
			return fmt.Errorf("%w: milestone %d has kind %q", ErrInvalidMilestoneKind, i, m.Kind)
		}
		if m.PaymentPercent < 0 || m.PaymentPercent > 100 {
			return fmt.Errorf("%w: milestone %d", ErrInvalidPercent, i)
		}
	}
	return nil
}

// ValidateMortgageInputs validates financing terms.
func ValidateMortgageInputs(m *MortgageInputs) error {
	if m == nil {
		return nil
	}
	if m.LTVPercent <= 0 || m.LTVPercent > 100 {
		return ErrInvalidLTV
	}
	if m.AnnualInterestPercent < 0 {
		return fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidPercent)
	}
	if m.TermYears < 1 {
		return ErrInvalidTerm
	}
	return nil
}
