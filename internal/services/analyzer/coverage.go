package analyzer

import (
	"investment-projection-engine/internal/models"
)

// BandThresholds configures the DSCR reporting bands. The three-band
// taxonomy (strong / adequate / shortfall) is fixed contract; only the cut
// points are configurable.
type BandThresholds struct {
	Strong   float64
	Adequate float64
}

// DefaultBandThresholds are the conventional underwriting cut points.
func DefaultBandThresholds() BandThresholds {
	return BandThresholds{Strong: 1.20, Adequate: 1.00}
}

// CoverageSeries computes the month-by-month debt-service-coverage ratio:
// net rent over the payment actually due that month. Months without debt
// service, whether no mortgage at all, before origination, or after the
// loan is retired, carry the infinite sentinel, not an error.
func CoverageSeries(proj *models.Projection, bands BandThresholds) []models.DSCRPoint {
	if bands.Strong == 0 && bands.Adequate == 0 {
		bands = DefaultBandThresholds()
	}

	series := make([]models.DSCRPoint, len(proj.Months))
	for i, row := range proj.Months {
		var dscr models.Ratio
		if !proj.Mortgaged || row.MortgagePayment == 0 {
			dscr = models.InfiniteRatio()
		} else {
			dscr = models.DivideRatio(row.NetRent, row.MortgagePayment)
		}
		series[i] = models.DSCRPoint{
			MonthIndex: row.MonthIndex,
			DSCR:       dscr,
			Band:       bands.bandFor(dscr),
		}
	}
	return series
}

// bandFor buckets a DSCR value.
func (b BandThresholds) bandFor(dscr models.Ratio) models.CoverageBand {
	switch dscr.State() {
	case models.RatioInfinite:
		return models.CoverageBandStrong
	case models.RatioUndefined:
		return models.CoverageBandShortfall
	}
	v, _ := dscr.Value()
	switch {
	case v >= b.Strong:
		return models.CoverageBandStrong
	case v >= b.Adequate:
		return models.CoverageBandAdequate
	default:
		return models.CoverageBandShortfall
	}
}
