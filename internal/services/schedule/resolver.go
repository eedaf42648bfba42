// Package schedule resolves payment-milestone plans into concrete,
// time-ordered cash-outflow schedules anchored to calendar months.
package schedule

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/utils"
)

// Resolve transforms a milestone plan into an ordered payment schedule.
// Month indexes are relative to booking (month 0). Structural problems in
// the plan are rejected with a *models.ScheduleError naming the offending
// milestone; a valid schedule always pays out exactly the base price.
func Resolve(plan models.PaymentPlan) (*models.ResolvedSchedule, error) {
	if plan.BasePrice <= 0 {
		return nil, models.NewPlanError("base price must be positive, got %.2f", plan.BasePrice)
	}

	handoverMonth := plan.BookingDate.MonthsUntil(plan.HandoverDate)
	if handoverMonth < 0 {
		return nil, models.NewPlanError("handover %s precedes booking %s", plan.HandoverDate, plan.BookingDate)
	}

	// Stage 1: resolve each explicit milestone to a month and percent.
	type resolved struct {
		month   int
		percent float64
	}
	items := make([]resolved, 0, len(plan.Milestones)+1)

	var prePercent, postPercent float64
	explicitHandover := false

	for i, m := range plan.Milestones {
		switch m.Kind {
		case models.MilestoneKindTime:
			month := int(m.TriggerValue)
			if month < 0 {
				return nil, models.NewScheduleError(i, m.Label, "resolves to month %d, before booking", month)
			}
			items = append(items, resolved{month: month, percent: m.PaymentPercent})
			prePercent += m.PaymentPercent

		case models.MilestoneKindConstruction:
			if m.TriggerValue < 0 || m.TriggerValue > 100 {
				return nil, models.NewScheduleError(i, m.Label, "construction trigger %.1f%% is outside 0-100", m.TriggerValue)
			}
			// Linear percent-complete curve between booking and handover,
			// rounded to the nearest whole month.
			month := int(math.Round(m.TriggerValue / 100 * float64(handoverMonth)))
			items = append(items, resolved{month: month, percent: m.PaymentPercent})
			prePercent += m.PaymentPercent

		case models.MilestoneKindHandover:
			// Explicit handover rows carry no percentage of their own; the
			// residual below covers them. Flag so a plan cannot double-pay.
			if explicitHandover {
				return nil, models.NewScheduleError(i, m.Label, "duplicate handover milestone")
			}
			explicitHandover = true
			if m.PaymentPercent != 0 {
				prePercent += m.PaymentPercent
				items = append(items, resolved{month: handoverMonth, percent: m.PaymentPercent})
			}

		case models.MilestoneKindPostHandover:
			if !plan.HasPostHandover {
				return nil, models.NewScheduleError(i, m.Label, "post-handover milestone on a plan without post-handover payments")
			}
			if m.TriggerValue < 0 {
				return nil, models.NewScheduleError(i, m.Label, "post-handover trigger cannot be negative")
			}
			items = append(items, resolved{month: handoverMonth + int(m.TriggerValue), percent: m.PaymentPercent})
			postPercent += m.PaymentPercent

		default:
			return nil, models.NewScheduleError(i, m.Label, "unknown milestone kind %q", m.Kind)
		}
	}

	// Stage 2: compute the implicit handover residual. Post-handover
	// percentages come out of the same 100, so the residual shrinks (and may
	// legitimately reach zero) when a post-handover tail exists.
	residual := 100 - prePercent - postPercent
	if residual < -percentEpsilon {
		return nil, models.NewPlanError(
			"milestone percentages total %.2f%%, handover residual would be %.2f%%",
			prePercent+postPercent, residual)
	}
	if residual < 0 {
		residual = 0
	}
	if residual > 0 {
		items = append(items, resolved{month: handoverMonth, percent: residual})
	}

	// Stage 3: aggregate same-month events and order the schedule. Multiple
	// milestones landing on one month are summed, never overwritten.
	byMonth := make(map[int]float64, len(items))
	for _, it := range items {
		byMonth[it.month] += it.percent
	}
	events := make([]models.PaymentEvent, 0, len(byMonth))
	for month, percent := range byMonth {
		events = append(events, models.PaymentEvent{
			MonthIndex: month,
			Amount:     percent / 100 * plan.BasePrice,
		})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].MonthIndex < events[j].MonthIndex
	})

	result := &models.ResolvedSchedule{
		Events:                  events,
		HandoverMonth:           handoverMonth,
		PreHandoverPercent:      prePercent,
		HandoverResidualPercent: residual,
	}

	utils.GetLogger().Debug("Resolved payment schedule",
		zap.Int("milestones", len(plan.Milestones)),
		zap.Int("events", len(events)),
		zap.Int("handover_month", handoverMonth),
		zap.Float64("residual_percent", residual),
	)

	return result, nil
}

// percentEpsilon absorbs floating-point drift when percentages are summed.
const percentEpsilon = 1e-9
