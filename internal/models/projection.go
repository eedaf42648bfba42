// Package models defines the data structures for the investment projection engine.
package models

// ProjectionPhase identifies the appreciation regime active in a month.
type ProjectionPhase string

const (
	PhaseConstruction ProjectionPhase = "construction"
	PhaseGrowth       ProjectionPhase = "growth"
	PhaseMature       ProjectionPhase = "mature"
)

// MonthlyProjection is one row of the month-by-month ledger.
type MonthlyProjection struct {
	MonthIndex      int             `json:"month_index"`
	Phase           ProjectionPhase `json:"phase"`
	IsConstruction  bool            `json:"is_construction"`
	IsHandover      bool            `json:"is_handover"`
	PropertyValue   float64         `json:"property_value"`
	ScheduledCash   float64         `json:"scheduled_cash"`
	CapitalDeployed float64         `json:"capital_deployed"`
	GrossRent       float64         `json:"gross_rent"`
	ServiceCharges  float64         `json:"service_charges"`
	NetRent         float64         `json:"net_rent"`
	// AirbnbNetIncome is populated instead of the yield figures in
	// short-term mode; NetRent mirrors it so downstream math stays uniform.
	AirbnbNetIncome   float64 `json:"airbnb_net_income,omitempty"`
	CumulativeNetRent float64 `json:"cumulative_net_rent"`
	MortgagePayment   float64 `json:"mortgage_payment,omitempty"`
	MortgageInterest  float64 `json:"mortgage_interest,omitempty"`
	MortgagePrincipal float64 `json:"mortgage_principal,omitempty"`
	LoanBalance       float64 `json:"loan_balance,omitempty"`
	Equity            float64 `json:"equity"`
}

// YearlyProjection is the derived yearly rollup for reporting.
type YearlyProjection struct {
	Year            int     `json:"year"`
	IsConstruction  bool    `json:"is_construction"`
	IsHandoverYear  bool    `json:"is_handover_year"`
	AverageValue    float64 `json:"average_value"`
	YearEndValue    float64 `json:"year_end_value"`
	AnnualGrossRent float64 `json:"annual_gross_rent"`
	ServiceCharges  float64 `json:"service_charges"`
	AnnualNetRent   float64 `json:"annual_net_rent"`
	CapitalDeployed float64 `json:"capital_deployed"`
	YearEndBalance  float64 `json:"year_end_balance,omitempty"`
	YearEndEquity   float64 `json:"year_end_equity"`
}

// ProjectionWarning is a non-fatal numeric-consistency note. Computation
// continues; the UI decides how to surface these.
type ProjectionWarning struct {
	MonthIndex int    `json:"month_index"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Warning codes.
const (
	WarnServiceChargesExceedRent = "service_charges_exceed_rent"
	WarnNegativeCashFlow         = "negative_cash_flow"
)

// Projection is the full engine output for one run.
type Projection struct {
	Months        []MonthlyProjection `json:"months"`
	Years         []YearlyProjection  `json:"years"`
	HorizonMonths int                 `json:"horizon_months"`
	HandoverMonth int                 `json:"handover_month"`
	Mortgaged     bool                `json:"mortgaged"`
	// MonthlyMortgagePayment is zero for cash purchases.
	MonthlyMortgagePayment float64             `json:"monthly_mortgage_payment,omitempty"`
	Warnings               []ProjectionWarning `json:"warnings,omitempty"`
}

// ValueAt returns the property value at a month, and false past the horizon.
func (p *Projection) ValueAt(month int) (float64, bool) {
	if month < 0 || month >= len(p.Months) {
		return 0, false
	}
	return p.Months[month].PropertyValue, true
}
