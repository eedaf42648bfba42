// Package engine walks the month-by-month investment ledger: phase-based
// appreciation, rental income net of service charges, mortgage debt service
// and cumulative out-of-pocket capital.
package engine

import (
	"math"

	"investment-projection-engine/internal/models"
)

// phaseDescriptor is one appreciation regime: a half-open month window
// [Start, End) with the compounding monthly rate derived from the annual one.
type phaseDescriptor struct {
	Phase       models.ProjectionPhase
	Start       int
	End         int // exclusive; math.MaxInt32 for the open-ended mature phase
	MonthlyRate float64
}

// phaseTable answers "which regime and rate applies to month m" via a single
// lookup built once per run.
type phaseTable struct {
	phases []phaseDescriptor
}

// newPhaseTable builds the construction/growth/mature windows from the
// appreciation triplet. Construction covers [0, handover), growth covers
// the configured number of years from handover, mature runs open-ended.
func newPhaseTable(rates models.AppreciationRates, handoverMonth int) *phaseTable {
	growthEnd := handoverMonth + rates.GrowthPeriodYears*12
	return &phaseTable{phases: []phaseDescriptor{
		{
			Phase:       models.PhaseConstruction,
			Start:       0,
			End:         handoverMonth,
			MonthlyRate: monthlyRate(rates.ConstructionAnnualPercent),
		},
		{
			Phase:       models.PhaseGrowth,
			Start:       handoverMonth,
			End:         growthEnd,
			MonthlyRate: monthlyRate(rates.GrowthAnnualPercent),
		},
		{
			Phase:       models.PhaseMature,
			Start:       growthEnd,
			End:         math.MaxInt32,
			MonthlyRate: monthlyRate(rates.MatureAnnualPercent),
		},
	}}
}

// forMonth returns the descriptor whose window contains month m.
func (t *phaseTable) forMonth(m int) phaseDescriptor {
	for _, p := range t.phases {
		if m >= p.Start && m < p.End {
			return p
		}
	}
	return t.phases[len(t.phases)-1]
}

// monthlyRate converts a whole-number annual percentage into the equivalent
// compounding monthly rate: (1+annual)^(1/12) - 1.
func monthlyRate(annualPercent float64) float64 {
	return math.Pow(1+annualPercent/100, 1.0/12) - 1
}
