// Package analyzer derives exit-scenario profitability and debt-coverage
// metrics from a computed monthly ledger. It is a pure computation over a
// fixed projection; no internal state.
package analyzer

import (
	"math"

	"go.uber.org/zap"

	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/utils"
)

// AnalyzeExits evaluates each candidate exit month against the ledger.
// Scenarios are reported in caller order; BestIndex picks the highest true
// ROE with ties broken by the earliest exit month. A candidate beyond the
// ledger's horizon is an *models.OutOfRangeError: the caller must extend the
// horizon and recompute, the analyzer never clamps.
func AnalyzeExits(proj *models.Projection, candidates []int, sellingCostPercent float64, bands BandThresholds) (*models.ExitAnalysis, error) {
	if sellingCostPercent < 0 {
		sellingCostPercent = 0
	}

	analysis := &models.ExitAnalysis{
		Scenarios: make([]models.ExitScenarioResult, 0, len(candidates)),
		BestIndex: -1,
	}

	for _, e := range candidates {
		scenario, err := evaluateExit(proj, e, sellingCostPercent)
		if err != nil {
			return nil, err
		}
		analysis.Scenarios = append(analysis.Scenarios, scenario)

		i := len(analysis.Scenarios) - 1
		if analysis.BestIndex < 0 || scenario.TrueROE.GreaterThan(analysis.Scenarios[analysis.BestIndex].TrueROE) {
			analysis.BestIndex = i
		}
	}

	if proj.Mortgaged || len(proj.Months) > 0 {
		analysis.DSCR = CoverageSeries(proj, bands)
	}

	utils.GetLogger().Debug("Exit analysis complete",
		zap.Int("scenarios", len(analysis.Scenarios)),
		zap.Int("best_index", analysis.BestIndex),
	)

	return analysis, nil
}

// evaluateExit computes one scenario from the ledger row at the exit month.
func evaluateExit(proj *models.Projection, exitMonth int, sellingCostPercent float64) (models.ExitScenarioResult, error) {
	if exitMonth < 0 || exitMonth > proj.HorizonMonths || exitMonth >= len(proj.Months) {
		return models.ExitScenarioResult{}, &models.OutOfRangeError{
			Requested: exitMonth,
			Horizon:   proj.HorizonMonths,
		}
	}

	row := proj.Months[exitMonth]
	exitPrice := row.PropertyValue
	sellingCosts := sellingCostPercent / 100 * exitPrice

	// Sale proceeds clear the outstanding loan; capital deployed already
	// excludes the financed portion, so the payoff comes out of profit.
	profit := exitPrice - row.CapitalDeployed + row.CumulativeNetRent - sellingCosts - row.LoanBalance

	trueROE := models.DivideRatio(profit, row.CapitalDeployed)

	return models.ExitScenarioResult{
		ExitMonth:            exitMonth,
		IsHandoverExit:       exitMonth == proj.HandoverMonth,
		ExitPrice:            exitPrice,
		TotalCapitalDeployed: row.CapitalDeployed,
		CumulativeNetRent:    row.CumulativeNetRent,
		SellingCosts:         sellingCosts,
		LoanPayoff:           row.LoanBalance,
		TrueProfit:           profit,
		TrueROE:              trueROE,
		AnnualizedROE:        annualize(trueROE, exitMonth),
	}, nil
}

// annualize compounds a holding-period ROE to an annual rate:
// (1+roe)^(12/e) - 1. Undefined at month 0 and for total losses beyond the
// deployed capital, where the compounding transform has no real value.
func annualize(roe models.Ratio, exitMonth int) models.Ratio {
	if exitMonth == 0 {
		return models.UndefinedRatio()
	}
	v, ok := roe.Value()
	if !ok {
		return roe
	}
	if 1+v < 0 {
		return models.UndefinedRatio()
	}
	return models.FiniteRatio(math.Pow(1+v, 12/float64(exitMonth)) - 1)
}
