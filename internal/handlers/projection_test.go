package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appConfig "investment-projection-engine/internal/config"
	"investment-projection-engine/internal/models"
)

func computeRequest() *ProjectionRequest {
	return &ProjectionRequest{
		Inputs: models.OIInputs{
			BasePrice:          1_000_000,
			Currency:           "AED",
			DownPaymentPercent: 20,
			BookingDate:        models.MonthAnchor{Year: 2026, Month: time.January},
			HandoverDate:       models.MonthAnchor{Year: 2028, Month: time.January},
			Milestones: []models.PaymentMilestone{
				{Kind: models.MilestoneKindConstruction, TriggerValue: 50, PaymentPercent: 30},
			},
			RentalYieldPercent:  7,
			RentalMode:          models.RentalModeLongTerm,
			ServiceChargeMode:   models.ServiceChargePercentOfValue,
			SellingCostPercent:  2,
			ExitCandidateMonths: []int{24, 36, 60},
			Appreciation: models.AppreciationRates{
				ConstructionAnnualPercent: 8,
				GrowthAnnualPercent:       10,
				MatureAnnualPercent:       3,
				GrowthPeriodYears:         5,
			},
		},
	}
}

func TestCompute_FullPipeline(t *testing.T) {
	result, err := Compute(&appConfig.Config{}, computeRequest())
	require.NoError(t, err)

	require.NotNil(t, result.Schedule)
	assert.Equal(t, 24, result.Schedule.HandoverMonth)
	assert.Len(t, result.Schedule.Events, 3)

	require.NotNil(t, result.Projection)
	assert.Equal(t, 144, result.Projection.HorizonMonths)

	require.NotNil(t, result.Exits)
	assert.Len(t, result.Exits.Scenarios, 3)
	assert.GreaterOrEqual(t, result.Exits.BestIndex, 0)
}

func TestCompute_SellingCostFallsBackToConfig(t *testing.T) {
	req := computeRequest()
	req.Inputs.SellingCostPercent = 0

	cfg := &appConfig.Config{SellingCostPercent: 4}
	result, err := Compute(cfg, req)
	require.NoError(t, err)

	s := result.Exits.Scenarios[1]
	assert.InDelta(t, 0.04*s.ExitPrice, s.SellingCosts, 1e-6)
}

func TestCompute_AppliesExtractedPlan(t *testing.T) {
	req := computeRequest()
	req.ExtractedPlan = &models.AIPaymentPlanResult{
		Milestones: []models.ExtractedMilestone{
			{Kind: "construction_percent", TriggerValue: 40, PaymentPercent: 40},
			{Kind: "handover", IsHandover: true, PaymentPercent: 50},
		},
		DownPaymentPercent: 10,
		HandoverYear:       2028,
		HandoverMonth:      7,
		Confidence:         0.9,
	}

	result, err := Compute(&appConfig.Config{}, req)
	require.NoError(t, err)

	// Handover moved to July 2028: 30 months after booking.
	assert.Equal(t, 30, result.Schedule.HandoverMonth)
	// 10% down, 40% at 40% construction (month 12), 50% residual.
	require.Len(t, result.Schedule.Events, 3)
	assert.InDelta(t, 100_000, result.Schedule.Events[0].Amount, 1e-6)
	assert.Equal(t, 12, result.Schedule.Events[1].MonthIndex)
	assert.InDelta(t, 500_000, result.Schedule.Events[2].Amount, 1e-6)
}

func TestCompute_RejectsInvalidInputs(t *testing.T) {
	req := computeRequest()
	req.Inputs.BasePrice = 0
	_, err := Compute(&appConfig.Config{}, req)
	assert.ErrorIs(t, err, models.ErrInvalidBasePrice)
}

func TestProjectionHandler_Handle(t *testing.T) {
	h := &ProjectionHandler{config: &appConfig.Config{}}

	body, err := json.Marshal(computeRequest())
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{Body: string(body)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result ProjectionResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
	assert.Equal(t, 24, result.Schedule.HandoverMonth)
}

func TestProjectionHandler_HandleRejectsBadBody(t *testing.T) {
	h := &ProjectionHandler{config: &appConfig.Config{}}

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{Body: "{"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectionHandler_HandleOverAllocatedPlan(t *testing.T) {
	h := &ProjectionHandler{config: &appConfig.Config{}}

	req := computeRequest()
	req.Inputs.Milestones = []models.PaymentMilestone{
		{Kind: models.MilestoneKindTime, TriggerValue: 0, PaymentPercent: 90},
		{Kind: models.MilestoneKindTime, TriggerValue: 12, PaymentPercent: 50},
	}
	body, _ := json.Marshal(req)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{Body: string(body)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
