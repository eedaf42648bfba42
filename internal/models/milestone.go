// Package models defines the data structures for the investment projection engine.
package models

import (
	"fmt"
	"time"
)

// MilestoneKind represents how a payment milestone is triggered.
type MilestoneKind string

const (
	// MilestoneKindTime triggers a fixed number of months after booking.
	MilestoneKindTime MilestoneKind = "time"
	// MilestoneKindConstruction triggers at a construction-completion percentage.
	MilestoneKindConstruction MilestoneKind = "construction"
	// MilestoneKindHandover is due at handover; its percentage is the residual
	// left after every other milestone.
	MilestoneKindHandover MilestoneKind = "handover"
	// MilestoneKindPostHandover triggers a fixed number of months after handover.
	MilestoneKindPostHandover MilestoneKind = "post_handover"
)

// IsValid checks if the milestone kind is a known value.
func (k MilestoneKind) IsValid() bool {
	switch k {
	case MilestoneKindTime, MilestoneKindConstruction, MilestoneKindHandover, MilestoneKindPostHandover:
		return true
	}
	return false
}

// PaymentMilestone represents one contractual payment obligation.
// TriggerValue is months after booking for "time" milestones, percent
// complete for "construction" milestones, and months after handover for
// "post_handover" milestones; it is ignored for the handover milestone.
type PaymentMilestone struct {
	Label          string        `json:"label,omitempty"`
	Kind           MilestoneKind `json:"kind"`
	TriggerValue   float64       `json:"trigger_value"`
	PaymentPercent float64       `json:"payment_percent"`
}

// MonthAnchor is a calendar month+year anchor (booking and handover dates).
type MonthAnchor struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Index returns the absolute month index (year*12 + month) used for ordering.
func (a MonthAnchor) Index() int {
	return a.Year*12 + int(a.Month) - 1
}

// MonthsUntil returns the number of whole months from a to b.
func (a MonthAnchor) MonthsUntil(b MonthAnchor) int {
	return b.Index() - a.Index()
}

// AddMonths returns the anchor shifted forward by n months.
func (a MonthAnchor) AddMonths(n int) MonthAnchor {
	idx := a.Index() + n
	year := idx / 12
	month := time.Month(idx%12 + 1)
	return MonthAnchor{Year: year, Month: month}
}

// String formats the anchor as YYYY-MM.
func (a MonthAnchor) String() string {
	return fmt.Sprintf("%04d-%02d", a.Year, int(a.Month))
}

// PaymentPlan bundles everything the schedule resolver needs.
type PaymentPlan struct {
	BasePrice       float64            `json:"base_price"`
	BookingDate     MonthAnchor        `json:"booking_date"`
	HandoverDate    MonthAnchor        `json:"handover_date"`
	Milestones      []PaymentMilestone `json:"milestones"`
	HasPostHandover bool               `json:"has_post_handover"`
}

// PaymentEvent is a resolved cash outflow: the month index is relative to
// booking (month 0), amounts are absolute currency.
type PaymentEvent struct {
	MonthIndex int     `json:"month_index"`
	Amount     float64 `json:"amount"`
}

// ResolvedSchedule is the output of the payment schedule resolver.
type ResolvedSchedule struct {
	Events        []PaymentEvent `json:"events"`
	HandoverMonth int            `json:"handover_month"`
	// PreHandoverPercent is the share of base price due before handover,
	// including the booking down payment.
	PreHandoverPercent float64 `json:"pre_handover_percent"`
	// HandoverResidualPercent is the implicit percentage due at handover.
	HandoverResidualPercent float64 `json:"handover_residual_percent"`
}

// LastEventMonth returns the month index of the final scheduled payment,
// or 0 when the schedule is empty.
func (s *ResolvedSchedule) LastEventMonth() int {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].MonthIndex
}

// TotalScheduled sums all resolved payment amounts.
func (s *ResolvedSchedule) TotalScheduled() float64 {
	total := 0.0
	for _, e := range s.Events {
		total += e.Amount
	}
	return total
}

// AmountDueAt returns the cash due at a given month, zero if none.
func (s *ResolvedSchedule) AmountDueAt(month int) float64 {
	for _, e := range s.Events {
		if e.MonthIndex == month {
			return e.Amount
		}
		if e.MonthIndex > month {
			break
		}
	}
	return 0
}
