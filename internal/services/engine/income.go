package engine

import (
	"math"

	"investment-projection-engine/internal/models"
)

// IncomeModel is the pluggable rental-income strategy selected by the
// snapshot's rental mode. MonthlyGross returns the gross income for a month
// (zero before handover); valueAtHandover is fixed for the whole run so
// implementations stay pure.
type IncomeModel interface {
	// Name returns the strategy identifier for logs and stored results.
	Name() string
	// MonthlyGross computes gross income for month m (relative to booking).
	MonthlyGross(m int) float64
}

// LongTermIncomeModel implements the standard yield formula: rent is anchored
// at the handover-year value and escalated annually by the rent-growth rate
// on each anniversary of handover.
type LongTermIncomeModel struct {
	handoverMonth     int
	baseMonthlyRent   float64
	rentGrowthPercent float64
}

// NewLongTermIncomeModel derives the base rent from the value at handover.
func NewLongTermIncomeModel(valueAtHandover, yieldPercent, rentGrowthPercent float64, handoverMonth int) *LongTermIncomeModel {
	return &LongTermIncomeModel{
		handoverMonth:     handoverMonth,
		baseMonthlyRent:   valueAtHandover * yieldPercent / 100 / 12,
		rentGrowthPercent: rentGrowthPercent,
	}
}

// Name returns the strategy identifier.
func (m *LongTermIncomeModel) Name() string { return "long_term_yield" }

// MonthlyGross returns zero through handover, then the escalated base rent.
// The first rent month is the one after handover; escalation applies on each
// full year of collected rent.
func (m *LongTermIncomeModel) MonthlyGross(month int) float64 {
	if month <= m.handoverMonth {
		return 0
	}
	leaseYears := (month - m.handoverMonth - 1) / 12
	return m.baseMonthlyRent * math.Pow(1+m.rentGrowthPercent/100, float64(leaseYears))
}

// ShortTermIncomeModel is the default Airbnb-style model: occupancy x ADR
// with an optional 12-entry seasonality curve, ADR growth on handover
// anniversaries, and expenses taken as a flat ratio of gross. Callers with
// their own occupancy/ADR data can supply any IncomeModel instead.
type ShortTermIncomeModel struct {
	handoverMonth int
	anchor        models.MonthAnchor
	assumptions   models.ShortTermAssumptions
}

// NewShortTermIncomeModel builds the default short-term model. The booking
// anchor maps month indexes onto calendar months for the seasonality curve.
func NewShortTermIncomeModel(a models.ShortTermAssumptions, bookingDate models.MonthAnchor, handoverMonth int) *ShortTermIncomeModel {
	return &ShortTermIncomeModel{
		handoverMonth: handoverMonth,
		anchor:        bookingDate,
		assumptions:   a,
	}
}

// Name returns the strategy identifier.
func (m *ShortTermIncomeModel) Name() string { return "short_term" }

// averageDaysPerMonth keeps monthly revenue independent of calendar length.
const averageDaysPerMonth = 365.25 / 12

// MonthlyGross returns net-of-expenses short-term income for a month. The
// expense ratio is folded in here because short-term operating costs replace
// the yield model's service-charge deduction; the engine still subtracts
// ownership service charges separately.
func (m *ShortTermIncomeModel) MonthlyGross(month int) float64 {
	if month <= m.handoverMonth {
		return 0
	}
	a := m.assumptions
	adr := a.AverageDailyRate
	operatingYears := (month - m.handoverMonth - 1) / 12
	if a.ADRGrowthPercent != 0 && operatingYears > 0 {
		adr *= math.Pow(1+a.ADRGrowthPercent/100, float64(operatingYears))
	}

	seasonality := 1.0
	if len(a.SeasonalityCurve) == 12 {
		calendarMonth := int(m.anchor.AddMonths(month).Month) - 1
		seasonality = a.SeasonalityCurve[calendarMonth]
	}

	gross := adr * averageDaysPerMonth * a.OccupancyPercent / 100 * seasonality
	return gross * (1 - a.ExpenseRatio)
}
