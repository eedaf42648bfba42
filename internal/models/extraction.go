// Package models defines the data structures for the investment projection engine.
package models

import (
	"fmt"
	"time"
)

// ExtractedMilestone is one milestone as returned by the external AI
// payment-plan extractor. Percentages may arrive slightly off; the mapping
// below normalizes them before the resolver sees the plan.
type ExtractedMilestone struct {
	Label          string  `json:"label,omitempty"`
	Kind           string  `json:"kind"`
	TriggerValue   float64 `json:"trigger_value"`
	PaymentPercent float64 `json:"payment_percent"`
	IsHandover     bool    `json:"is_handover,omitempty"`
}

// AIPaymentPlanResult is the structured output of the external extraction
// service. The engine never calls the extractor; it only consumes this shape.
type AIPaymentPlanResult struct {
	Milestones         []ExtractedMilestone `json:"milestones"`
	DownPaymentPercent float64              `json:"down_payment_percent"`
	HandoverYear       int                  `json:"handover_year"`
	HandoverMonth      int                  `json:"handover_month"`
	HasPostHandover    bool                 `json:"has_post_handover"`
	Confidence         float64              `json:"confidence"`
	Warnings           []string             `json:"warnings,omitempty"`
}

// ApplyExtractedPlan maps an extractor result onto an input snapshot:
// milestone kinds are normalized, the down payment and handover date fields
// are copied over, and explicit handover rows are dropped so the resolver
// computes the residual itself. Existing milestones on the snapshot are
// replaced wholesale.
func ApplyExtractedPlan(in *OIInputs, plan *AIPaymentPlanResult) error {
	if plan == nil {
		return fmt.Errorf("extracted plan is nil")
	}

	milestones := make([]PaymentMilestone, 0, len(plan.Milestones))
	for i, em := range plan.Milestones {
		if em.IsHandover {
			// Residual is recomputed by the resolver, never trusted from
			// the extractor.
			continue
		}
		kind, err := normalizeMilestoneKind(em.Kind)
		if err != nil {
			return fmt.Errorf("extracted milestone %d: %w", i, err)
		}
		milestones = append(milestones, PaymentMilestone{
			Label:          em.Label,
			Kind:           kind,
			TriggerValue:   em.TriggerValue,
			PaymentPercent: em.PaymentPercent,
		})
	}

	in.Milestones = milestones
	in.DownPaymentPercent = plan.DownPaymentPercent
	in.HasPostHandover = plan.HasPostHandover
	if plan.HandoverYear > 0 && plan.HandoverMonth >= 1 && plan.HandoverMonth <= 12 {
		in.HandoverDate = MonthAnchor{Year: plan.HandoverYear, Month: time.Month(plan.HandoverMonth)}
	}
	return nil
}

// normalizeMilestoneKind maps extractor kind spellings to standard values.
func normalizeMilestoneKind(kind string) (MilestoneKind, error) {
	switch kind {
	case "time", "months_after_booking", "on_booking":
		return MilestoneKindTime, nil
	case "construction", "construction_percent", "completion":
		return MilestoneKindConstruction, nil
	case "handover", "on_handover":
		return MilestoneKindHandover, nil
	case "post_handover", "post-handover", "months_after_handover":
		return MilestoneKindPostHandover, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMilestoneKind, kind)
}
