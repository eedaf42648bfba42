// Package models defines the data structures for the investment projection engine.
package models

// ExitScenarioResult holds profitability metrics for one candidate exit month.
type ExitScenarioResult struct {
	ExitMonth            int     `json:"exit_month"`
	IsHandoverExit       bool    `json:"is_handover_exit"`
	ExitPrice            float64 `json:"exit_price"`
	TotalCapitalDeployed float64 `json:"total_capital_deployed"`
	CumulativeNetRent    float64 `json:"cumulative_net_rent"`
	SellingCosts         float64 `json:"selling_costs"`
	LoanPayoff           float64 `json:"loan_payoff,omitempty"`
	TrueProfit           float64 `json:"true_profit"`
	TrueROE              Ratio   `json:"true_roe"`
	AnnualizedROE        Ratio   `json:"annualized_roe"`
}

// CoverageBand buckets a DSCR value for reporting.
type CoverageBand string

const (
	CoverageBandStrong    CoverageBand = "strong"
	CoverageBandAdequate  CoverageBand = "adequate"
	CoverageBandShortfall CoverageBand = "shortfall"
)

// DSCRPoint is one month of the debt-service-coverage series.
type DSCRPoint struct {
	MonthIndex int          `json:"month_index"`
	DSCR       Ratio        `json:"dscr"`
	Band       CoverageBand `json:"band"`
}

// ExitAnalysis is the analyzer's full output: scenarios in caller order, the
// best scenario by true ROE (earliest month wins ties) and the DSCR series.
type ExitAnalysis struct {
	Scenarios []ExitScenarioResult `json:"scenarios"`
	BestIndex int                  `json:"best_index"`
	DSCR      []DSCRPoint          `json:"dscr,omitempty"`
}

// Best returns the highest-ROE scenario, or nil when there are none.
func (a *ExitAnalysis) Best() *ExitScenarioResult {
	if a.BestIndex < 0 || a.BestIndex >= len(a.Scenarios) {
		return nil
	}
	return &a.Scenarios[a.BestIndex]
}
