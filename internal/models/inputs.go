// Package models defines the data structures for the investment projection engine.
package models

// RentalMode selects the income model used by the projection engine.
type RentalMode string

const (
	RentalModeLongTerm  RentalMode = "long_term"
	RentalModeShortTerm RentalMode = "short_term"
)

// IsValid checks if the rental mode is a known value.
func (m RentalMode) IsValid() bool {
	return m == RentalModeLongTerm || m == RentalModeShortTerm
}

// ServiceChargeMode determines how service charges are computed.
type ServiceChargeMode string

const (
	// ServiceChargePercentOfValue charges an annual percentage of current value.
	ServiceChargePercentOfValue ServiceChargeMode = "percent_of_value"
	// ServiceChargePerSqft charges an annual fixed rate per square foot.
	ServiceChargePerSqft ServiceChargeMode = "per_sqft"
)

// IsValid checks if the service charge mode is a known value.
func (m ServiceChargeMode) IsValid() bool {
	return m == ServiceChargePercentOfValue || m == ServiceChargePerSqft
}

// AppreciationRates holds the annualized appreciation rate triplet, one per
// phase, plus the growth-phase duration. All rates are whole-number percents.
type AppreciationRates struct {
	ConstructionAnnualPercent float64 `json:"construction_annual_percent"`
	GrowthAnnualPercent       float64 `json:"growth_annual_percent"`
	MatureAnnualPercent       float64 `json:"mature_annual_percent"`
	GrowthPeriodYears         int     `json:"growth_period_years"`
}

// ShortTermAssumptions parameterizes the default short-term (Airbnb) income
// model: average daily rate, occupancy, an expense ratio and an optional
// 12-entry seasonality curve of month multipliers (January first).
type ShortTermAssumptions struct {
	AverageDailyRate float64   `json:"average_daily_rate"`
	OccupancyPercent float64   `json:"occupancy_percent"`
	ExpenseRatio     float64   `json:"expense_ratio"`
	SeasonalityCurve []float64 `json:"seasonality_curve,omitempty"`
	ADRGrowthPercent float64   `json:"adr_growth_percent"`
}

// OIInputs is the immutable projection input snapshot for one computation run.
// Percentages are whole numbers (6.8 means 6.8%) and divided by 100 at point
// of use.
type OIInputs struct {
	BasePrice           float64               `json:"base_price"`
	Currency            string                `json:"currency"`
	UnitSizeSqft        float64               `json:"unit_size_sqft"`
	DownPaymentPercent  float64               `json:"down_payment_percent"`
	BookingDate         MonthAnchor           `json:"booking_date"`
	HandoverDate        MonthAnchor           `json:"handover_date"`
	Milestones          []PaymentMilestone    `json:"milestones"`
	HasPostHandover     bool                  `json:"has_post_handover"`
	RentalYieldPercent  float64               `json:"rental_yield_percent"`
	RentalMode          RentalMode            `json:"rental_mode"`
	RentGrowthPercent   float64               `json:"rent_growth_percent"`
	ServiceChargeMode   ServiceChargeMode     `json:"service_charge_mode"`
	ServiceChargeRate   float64               `json:"service_charge_rate"`
	Appreciation        AppreciationRates     `json:"appreciation"`
	ShortTerm           *ShortTermAssumptions `json:"short_term,omitempty"`
	SellingCostPercent  float64               `json:"selling_cost_percent"`
	ExitCandidateMonths []int                 `json:"exit_candidate_months,omitempty"`
}

// PaymentPlan extracts the schedule resolver's input from the snapshot. The
// booking down payment is represented as a time milestone at month zero.
func (in *OIInputs) PaymentPlan() PaymentPlan {
	milestones := make([]PaymentMilestone, 0, len(in.Milestones)+1)
	if in.DownPaymentPercent > 0 {
		milestones = append(milestones, PaymentMilestone{
			Label:          "down payment",
			Kind:           MilestoneKindTime,
			TriggerValue:   0,
			PaymentPercent: in.DownPaymentPercent,
		})
	}
	milestones = append(milestones, in.Milestones...)

	return PaymentPlan{
		BasePrice:       in.BasePrice,
		BookingDate:     in.BookingDate,
		HandoverDate:    in.HandoverDate,
		Milestones:      milestones,
		HasPostHandover: in.HasPostHandover,
	}
}

// MortgageInputs holds fixed-rate financing terms.
type MortgageInputs struct {
	LTVPercent            float64 `json:"ltv_percent"`
	AnnualInterestPercent float64 `json:"annual_interest_percent"`
	TermYears             int     `json:"term_years"`
	// OriginationMonth is relative to booking; nil means at handover.
	OriginationMonth *int `json:"origination_month,omitempty"`
}
