package analyzer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/services/engine"
	"investment-projection-engine/internal/services/schedule"
)

// referenceProjection runs the full pipeline for a 1M AED unit: 20% down,
// 30% at 50% construction, handover at month 24, 7% yield, 8/10/3
// appreciation.
func referenceProjection(t *testing.T, mortgage *models.MortgageInputs) (*models.Projection, *models.OIInputs) {
	t.Helper()
	in := &models.OIInputs{
		BasePrice:          1_000_000,
		DownPaymentPercent: 20,
		BookingDate:        models.MonthAnchor{Year: 2026, Month: time.January},
		HandoverDate:       models.MonthAnchor{Year: 2028, Month: time.January},
		Milestones: []models.PaymentMilestone{
			{Kind: models.MilestoneKindConstruction, TriggerValue: 50, PaymentPercent: 30},
		},
		RentalYieldPercent: 7,
		RentalMode:         models.RentalModeLongTerm,
		ServiceChargeMode:  models.ServiceChargePercentOfValue,
		Appreciation: models.AppreciationRates{
			ConstructionAnnualPercent: 8,
			GrowthAnnualPercent:       10,
			MatureAnnualPercent:       3,
			GrowthPeriodYears:         5,
		},
		SellingCostPercent:  2,
		ExitCandidateMonths: []int{24, 36, 60},
	}
	sched, err := schedule.Resolve(in.PaymentPlan())
	require.NoError(t, err)
	proj, err := engine.Project(sched, in, mortgage, engine.Options{})
	require.NoError(t, err)
	return proj, in
}

func TestAnalyzeExitsReferenceScenario(t *testing.T) {
	proj, in := referenceProjection(t, nil)

	analysis, err := AnalyzeExits(proj, in.ExitCandidateMonths, in.SellingCostPercent, DefaultBandThresholds())
	require.NoError(t, err)
	require.Len(t, analysis.Scenarios, 3)

	// Exit at month 36: value has compounded 24 construction months at 8%
	// and 12 growth months at 10%; rent ran for months 25-36.
	s := analysis.Scenarios[1]
	assert.Equal(t, 36, s.ExitMonth)
	assert.False(t, s.IsHandoverExit)

	exitPrice := 1_000_000 * math.Pow(1.08, 2) * 1.10
	assert.InDelta(t, exitPrice, s.ExitPrice, 1e-4)
	assert.InDelta(t, 1_000_000, s.TotalCapitalDeployed, 1e-6)

	valueAtHandover := 1_000_000 * math.Pow(1.08, 2)
	cumRent := valueAtHandover * 0.07
	assert.InDelta(t, cumRent, s.CumulativeNetRent, 1e-4)

	sellingCosts := 0.02 * exitPrice
	assert.InDelta(t, sellingCosts, s.SellingCosts, 1e-4)

	profit := exitPrice - 1_000_000 + cumRent - sellingCosts
	assert.InDelta(t, profit, s.TrueProfit, 1e-4)

	roe, ok := s.TrueROE.Value()
	require.True(t, ok)
	assert.InDelta(t, profit/1_000_000, roe, 1e-9)

	annual, ok := s.AnnualizedROE.Value()
	require.True(t, ok)
	assert.InDelta(t, math.Pow(1+roe, 12.0/36)-1, annual, 1e-9)

	// Handover exit flag on the first candidate.
	assert.True(t, analysis.Scenarios[0].IsHandoverExit)
}

func TestAnalyzeExitsROESignMatchesProfit(t *testing.T) {
	proj, in := referenceProjection(t, nil)

	analysis, err := AnalyzeExits(proj, []int{12, 24, 36, 60, 120}, in.SellingCostPercent, DefaultBandThresholds())
	require.NoError(t, err)

	for _, s := range analysis.Scenarios {
		roe, ok := s.TrueROE.Value()
		require.True(t, ok, "exit %d", s.ExitMonth)
		switch {
		case s.TrueProfit > 0:
			assert.Greater(t, roe, 0.0, "exit %d", s.ExitMonth)
		case s.TrueProfit < 0:
			assert.Less(t, roe, 0.0, "exit %d", s.ExitMonth)
		default:
			assert.Zero(t, roe, "exit %d", s.ExitMonth)
		}
	}
}

func TestAnalyzeExitsBestPrefersEarliestOnTie(t *testing.T) {
	// A flat market with no rent and no selling costs yields the same ROE
	// at every exit; the earliest candidate must win.
	proj := &models.Projection{HorizonMonths: 48, HandoverMonth: 24}
	for m := 0; m <= 48; m++ {
		proj.Months = append(proj.Months, models.MonthlyProjection{
			MonthIndex:      m,
			PropertyValue:   1_000_000,
			CapitalDeployed: 1_000_000,
		})
	}

	analysis, err := AnalyzeExits(proj, []int{24, 36, 48}, 0, DefaultBandThresholds())
	require.NoError(t, err)
	assert.Equal(t, 0, analysis.BestIndex)
	require.NotNil(t, analysis.Best())
	assert.Equal(t, 24, analysis.Best().ExitMonth)
}

func TestAnalyzeExitsRejectsBeyondHorizon(t *testing.T) {
	proj, in := referenceProjection(t, nil)

	_, err := AnalyzeExits(proj, []int{proj.HorizonMonths + 1}, in.SellingCostPercent, DefaultBandThresholds())
	require.Error(t, err)

	var oor *models.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, proj.HorizonMonths+1, oor.Requested)
	assert.Equal(t, proj.HorizonMonths, oor.Horizon)
}

func TestAnalyzeExitsMonthZeroAnnualizationUndefined(t *testing.T) {
	proj, in := referenceProjection(t, nil)

	analysis, err := AnalyzeExits(proj, []int{0}, in.SellingCostPercent, DefaultBandThresholds())
	require.NoError(t, err)
	require.Len(t, analysis.Scenarios, 1)

	s := analysis.Scenarios[0]
	assert.True(t, s.TrueROE.IsFinite())
	assert.Equal(t, models.RatioUndefined, s.AnnualizedROE.State())
}

func TestAnalyzeExitsLoanPayoffReducesProfit(t *testing.T) {
	mortgage := &models.MortgageInputs{LTVPercent: 50, AnnualInterestPercent: 4.5, TermYears: 20}
	proj, in := referenceProjection(t, mortgage)

	analysis, err := AnalyzeExits(proj, []int{36}, in.SellingCostPercent, DefaultBandThresholds())
	require.NoError(t, err)

	s := analysis.Scenarios[0]
	row := proj.Months[36]
	assert.InDelta(t, row.LoanBalance, s.LoanPayoff, 1e-9)
	expected := s.ExitPrice - s.TotalCapitalDeployed + s.CumulativeNetRent - s.SellingCosts - s.LoanPayoff
	assert.InDelta(t, expected, s.TrueProfit, 1e-6)
}

func TestCoverageSeriesWithoutMortgage(t *testing.T) {
	proj, _ := referenceProjection(t, nil)

	series := CoverageSeries(proj, DefaultBandThresholds())
	require.Len(t, series, len(proj.Months))
	for _, p := range series {
		assert.Equal(t, models.RatioInfinite, p.DSCR.State())
		assert.Equal(t, models.CoverageBandStrong, p.Band)
	}
}

func TestCoverageSeriesWithMortgage(t *testing.T) {
	mortgage := &models.MortgageInputs{LTVPercent: 50, AnnualInterestPercent: 4.5, TermYears: 20}
	proj, _ := referenceProjection(t, mortgage)

	series := CoverageSeries(proj, DefaultBandThresholds())
	p := series[30]
	v, ok := p.DSCR.Value()
	require.True(t, ok)
	assert.InDelta(t, proj.Months[30].NetRent/proj.Months[30].MortgagePayment, v, 1e-12)

	// Before origination no payment is due, so those months carry the
	// no-debt-service sentinel even though the purchase is financed.
	pre := series[10]
	assert.Equal(t, models.RatioInfinite, pre.DSCR.State())
	assert.Equal(t, models.CoverageBandStrong, pre.Band)
}

func TestCoverageSeriesAfterLoanRetired(t *testing.T) {
	// Coverage divides by the payment actually due each month: the clipped
	// final payment, then the sentinel once the balance is repaid.
	proj := &models.Projection{Mortgaged: true, MonthlyMortgagePayment: 2000, HorizonMonths: 2}
	proj.Months = []models.MonthlyProjection{
		{MonthIndex: 0, NetRent: 3000, MortgagePayment: 2000},
		{MonthIndex: 1, NetRent: 3000, MortgagePayment: 1500},
		{MonthIndex: 2, NetRent: 3000},
	}

	series := CoverageSeries(proj, DefaultBandThresholds())

	v, ok := series[0].DSCR.Value()
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-12)

	v, ok = series[1].DSCR.Value()
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-12)

	assert.Equal(t, models.RatioInfinite, series[2].DSCR.State())
	assert.Equal(t, models.CoverageBandStrong, series[2].Band)
}

func TestAnalyzeExitsZeroCapitalSentinels(t *testing.T) {
	// With zero capital deployed the ROE sentinel must keep the profit sign:
	// a gain is infinite, a loss is undefined, never the other way around.
	gain := &models.Projection{HorizonMonths: 1}
	gain.Months = []models.MonthlyProjection{
		{MonthIndex: 0, PropertyValue: 100},
		{MonthIndex: 1, PropertyValue: 100},
	}
	analysis, err := AnalyzeExits(gain, []int{1}, 0, DefaultBandThresholds())
	require.NoError(t, err)
	assert.Positive(t, analysis.Scenarios[0].TrueProfit)
	assert.Equal(t, models.RatioInfinite, analysis.Scenarios[0].TrueROE.State())

	loss := &models.Projection{HorizonMonths: 1, Mortgaged: true}
	loss.Months = []models.MonthlyProjection{
		{MonthIndex: 0, PropertyValue: 100, LoanBalance: 200},
		{MonthIndex: 1, PropertyValue: 100, LoanBalance: 200},
	}
	analysis, err = AnalyzeExits(loss, []int{1}, 0, DefaultBandThresholds())
	require.NoError(t, err)
	assert.Negative(t, analysis.Scenarios[0].TrueProfit)
	assert.Equal(t, models.RatioUndefined, analysis.Scenarios[0].TrueROE.State())
	assert.Equal(t, models.RatioUndefined, analysis.Scenarios[0].AnnualizedROE.State())
}

func TestBandThresholds(t *testing.T) {
	bands := DefaultBandThresholds()

	assert.Equal(t, models.CoverageBandStrong, bands.bandFor(models.FiniteRatio(1.20)))
	assert.Equal(t, models.CoverageBandStrong, bands.bandFor(models.FiniteRatio(2.5)))
	assert.Equal(t, models.CoverageBandAdequate, bands.bandFor(models.FiniteRatio(1.0)))
	assert.Equal(t, models.CoverageBandAdequate, bands.bandFor(models.FiniteRatio(1.19)))
	assert.Equal(t, models.CoverageBandShortfall, bands.bandFor(models.FiniteRatio(0.99)))
	assert.Equal(t, models.CoverageBandStrong, bands.bandFor(models.InfiniteRatio()))
	assert.Equal(t, models.CoverageBandShortfall, bands.bandFor(models.UndefinedRatio()))

	custom := BandThresholds{Strong: 1.5, Adequate: 1.1}
	assert.Equal(t, models.CoverageBandAdequate, custom.bandFor(models.FiniteRatio(1.2)))
}
