package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment-projection-engine/internal/models"
)

// mockPlan creates a test payment plan with default values
func mockPlan(overrides map[string]interface{}) models.PaymentPlan {
	plan := models.PaymentPlan{
		BasePrice:    1_000_000,
		BookingDate:  models.MonthAnchor{Year: 2026, Month: time.January},
		HandoverDate: models.MonthAnchor{Year: 2028, Month: time.January},
		Milestones: []models.PaymentMilestone{
			{Label: "down payment", Kind: models.MilestoneKindTime, TriggerValue: 0, PaymentPercent: 20},
			{Label: "50% construction", Kind: models.MilestoneKindConstruction, TriggerValue: 50, PaymentPercent: 30},
		},
	}

	if v, ok := overrides["base_price"]; ok {
		plan.BasePrice = v.(float64)
	}
	if v, ok := overrides["handover"]; ok {
		plan.HandoverDate = v.(models.MonthAnchor)
	}
	if v, ok := overrides["milestones"]; ok {
		plan.Milestones = v.([]models.PaymentMilestone)
	}
	if v, ok := overrides["post_handover"]; ok {
		plan.HasPostHandover = v.(bool)
	}

	return plan
}

func TestResolveReferencePlan(t *testing.T) {
	sched, err := Resolve(mockPlan(nil))
	require.NoError(t, err)

	assert.Equal(t, 24, sched.HandoverMonth)
	require.Len(t, sched.Events, 3)

	assert.Equal(t, 0, sched.Events[0].MonthIndex)
	assert.InDelta(t, 200_000, sched.Events[0].Amount, 1e-6)

	// 50% complete on a linear 24-month curve lands on month 12.
	assert.Equal(t, 12, sched.Events[1].MonthIndex)
	assert.InDelta(t, 300_000, sched.Events[1].Amount, 1e-6)

	// Implicit handover residual of 50%.
	assert.Equal(t, 24, sched.Events[2].MonthIndex)
	assert.InDelta(t, 500_000, sched.Events[2].Amount, 1e-6)

	assert.InDelta(t, 50, sched.HandoverResidualPercent, 1e-9)
}

func TestResolveScheduleCompleteness(t *testing.T) {
	// For any valid plan, resolved amounts sum to exactly the base price.
	plans := []models.PaymentPlan{
		mockPlan(nil),
		mockPlan(map[string]interface{}{
			"milestones": []models.PaymentMilestone{
				{Kind: models.MilestoneKindTime, TriggerValue: 0, PaymentPercent: 10},
				{Kind: models.MilestoneKindTime, TriggerValue: 6, PaymentPercent: 10},
				{Kind: models.MilestoneKindConstruction, TriggerValue: 25, PaymentPercent: 15},
				{Kind: models.MilestoneKindConstruction, TriggerValue: 75, PaymentPercent: 15},
			},
		}),
		mockPlan(map[string]interface{}{
			"post_handover": true,
			"milestones": []models.PaymentMilestone{
				{Kind: models.MilestoneKindTime, TriggerValue: 0, PaymentPercent: 20},
				{Kind: models.MilestoneKindPostHandover, TriggerValue: 12, PaymentPercent: 20},
				{Kind: models.MilestoneKindPostHandover, TriggerValue: 24, PaymentPercent: 20},
			},
		}),
	}

	for _, plan := range plans {
		sched, err := Resolve(plan)
		require.NoError(t, err)
		assert.InDelta(t, plan.BasePrice, sched.TotalScheduled(), 1e-6)
	}
}

func TestResolveMergesSameMonthEvents(t *testing.T) {
	// Two milestones landing on month 6 become one summed event.
	plan := mockPlan(map[string]interface{}{
		"milestones": []models.PaymentMilestone{
			{Kind: models.MilestoneKindTime, TriggerValue: 6, PaymentPercent: 10},
			{Kind: models.MilestoneKindConstruction, TriggerValue: 25, PaymentPercent: 15},
		},
	})

	sched, err := Resolve(plan)
	require.NoError(t, err)

	require.Len(t, sched.Events, 2)
	assert.Equal(t, 6, sched.Events[0].MonthIndex)
	assert.InDelta(t, 250_000, sched.Events[0].Amount, 1e-6)
}

func TestResolveRejectsOverAllocatedPlan(t *testing.T) {
	// Explicit percentages above 100% would need a negative handover
	// residual; the plan must be rejected, never silently corrected.
	plan := mockPlan(map[string]interface{}{
		"milestones": []models.PaymentMilestone{
			{Kind: models.MilestoneKindTime, TriggerValue: 0, PaymentPercent: 60},
			{Kind: models.MilestoneKindTime, TriggerValue: 12, PaymentPercent: 50},
		},
	})

	_, err := Resolve(plan)
	require.Error(t, err)

	var schedErr *models.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, -1, schedErr.MilestoneIndex)
}

func TestResolveRejectsPreBookingMilestone(t *testing.T) {
	plan := mockPlan(map[string]interface{}{
		"milestones": []models.PaymentMilestone{
			{Label: "bad", Kind: models.MilestoneKindTime, TriggerValue: -3, PaymentPercent: 10},
		},
	})

	_, err := Resolve(plan)
	require.Error(t, err)

	var schedErr *models.ScheduleError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, 0, schedErr.MilestoneIndex)
	assert.Equal(t, "bad", schedErr.Label)
}

func TestResolveRejectsHandoverBeforeBooking(t *testing.T) {
	plan := mockPlan(map[string]interface{}{
		"handover": models.MonthAnchor{Year: 2025, Month: time.June},
	})

	_, err := Resolve(plan)
	var schedErr *models.ScheduleError
	require.ErrorAs(t, err, &schedErr)
}

func TestResolveRejectsPostHandoverWithoutFlag(t *testing.T) {
	plan := mockPlan(map[string]interface{}{
		"milestones": []models.PaymentMilestone{
			{Kind: models.MilestoneKindPostHandover, TriggerValue: 6, PaymentPercent: 10},
		},
	})

	_, err := Resolve(plan)
	var schedErr *models.ScheduleError
	require.ErrorAs(t, err, &schedErr)
}

func TestResolveZeroResidualPlan(t *testing.T) {
	// A fully allocated plan carries no handover payment at all.
	plan := mockPlan(map[string]interface{}{
		"milestones": []models.PaymentMilestone{
			{Kind: models.MilestoneKindTime, TriggerValue: 0, PaymentPercent: 60},
			{Kind: models.MilestoneKindTime, TriggerValue: 12, PaymentPercent: 40},
		},
	})

	sched, err := Resolve(plan)
	require.NoError(t, err)
	assert.InDelta(t, 0, sched.HandoverResidualPercent, 1e-9)
	assert.InDelta(t, plan.BasePrice, sched.TotalScheduled(), 1e-6)
	assert.Zero(t, sched.AmountDueAt(24))
}
