// Package handlers provides HTTP handlers for the investment projection engine.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	appConfig "investment-projection-engine/internal/config"
	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/services/analyzer"
	"investment-projection-engine/internal/services/engine"
	"investment-projection-engine/internal/services/schedule"
	"investment-projection-engine/internal/utils"
)

// ProjectionRequest is the compute request body. When an extracted plan is
// present it is applied onto the inputs before resolution, replacing any
// manually entered milestones.
type ProjectionRequest struct {
	Inputs        models.OIInputs             `json:"inputs"`
	Mortgage      *models.MortgageInputs      `json:"mortgage,omitempty"`
	ExtractedPlan *models.AIPaymentPlanResult `json:"extracted_plan,omitempty"`
}

// ProjectionResponse bundles the full pipeline output for one run.
type ProjectionResponse struct {
	Schedule   *models.ResolvedSchedule `json:"schedule"`
	Projection *models.Projection       `json:"projection"`
	Exits      *models.ExitAnalysis     `json:"exits"`
}

// Compute runs the resolver, engine and analyzer on one request. It is the
// single composition point shared by the lambda handler and the dev server.
func Compute(cfg *appConfig.Config, req *ProjectionRequest) (*ProjectionResponse, error) {
	in := req.Inputs

	if req.ExtractedPlan != nil {
		if err := models.ApplyExtractedPlan(&in, req.ExtractedPlan); err != nil {
			return nil, err
		}
	}
	if err := models.ValidateOIInputs(&in); err != nil {
		return nil, err
	}

	sched, err := schedule.Resolve(in.PaymentPlan())
	if err != nil {
		return nil, err
	}

	proj, err := engine.Project(sched, &in, req.Mortgage, engine.Options{
		DefaultHorizonMonths: cfg.DefaultHorizonMonths,
		MaxHorizonMonths:     cfg.MaxHorizonMonths,
	})
	if err != nil {
		return nil, err
	}

	sellingCost := in.SellingCostPercent
	if sellingCost == 0 {
		sellingCost = cfg.SellingCostPercent
	}
	exits, err := analyzer.AnalyzeExits(proj, in.ExitCandidateMonths, sellingCost, analyzer.BandThresholds{
		Strong:   cfg.DSCRStrongThreshold,
		Adequate: cfg.DSCRAdequateThreshold,
	})
	if err != nil {
		return nil, err
	}

	return &ProjectionResponse{
		Schedule:   sched,
		Projection: proj,
		Exits:      exits,
	}, nil
}

// ProjectionHandler serves compute requests via API Gateway.
type ProjectionHandler struct {
	config *appConfig.Config
}

// NewProjectionHandler creates a new projection handler.
func NewProjectionHandler() (*ProjectionHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, err
	}
	return &ProjectionHandler{config: cfg}, nil
}

// Handle processes a projection compute request.
func (h *ProjectionHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Content-Type":                "application/json",
	}

	var req ProjectionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "invalid request body", headers), nil
	}

	result, err := Compute(h.config, &req)
	if err != nil {
		utils.Logger.Warn("Projection request rejected", zap.Error(err))
		return errorResponse(statusForError(err), err.Error(), headers), nil
	}

	body, err := json.Marshal(result)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "failed to encode response", headers), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// statusForError maps the error taxonomy onto HTTP statuses: structural plan
// problems and out-of-range exits are the caller's fault.
func statusForError(err error) int {
	var schedErr *models.ScheduleError
	var rangeErr *models.OutOfRangeError
	switch {
	case errors.As(err, &schedErr), errors.As(err, &rangeErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// errorResponse builds a JSON error payload.
func errorResponse(status int, message string, headers map[string]string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(body),
	}
}
