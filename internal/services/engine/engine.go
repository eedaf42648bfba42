package engine

import (
	"go.uber.org/zap"

	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/utils"
)

// Options bounds the analysis horizon. Zero values fall back to the
// defaults below.
type Options struct {
	// DefaultHorizonMonths is the minimum horizon past handover when no exit
	// candidate or schedule event reaches further.
	DefaultHorizonMonths int
	// MaxHorizonMonths caps the ledger length.
	MaxHorizonMonths int
}

const (
	defaultHorizonMonths = 120
	maxHorizonMonths     = 360
)

// Project walks month 0 (booking) through the horizon and produces the full
// monthly ledger plus the yearly rollup. The schedule must come from the
// resolver; the engine performs numeric guards only. The run is pure:
// identical inputs yield identical output.
func Project(sched *models.ResolvedSchedule, in *models.OIInputs, mortgage *models.MortgageInputs, opts Options) (*models.Projection, error) {
	if err := models.ValidateOIInputs(in); err != nil {
		return nil, err
	}
	if err := models.ValidateMortgageInputs(mortgage); err != nil {
		return nil, err
	}

	horizon := computeHorizon(sched, in, opts)
	handover := sched.HandoverMonth
	if handover > horizon {
		// The cap bounds the ledger; a handover past it can never be walked.
		return nil, models.NewPlanError(
			"handover at month %d is beyond the maximum analysis horizon of %d months", handover, horizon)
	}

	// Pass 1: the value path. Appreciation accrues over each month at the
	// rate of the regime active during that month, so a 24-month
	// construction phase compounds the construction rate exactly 24 times.
	phases := newPhaseTable(in.Appreciation, handover)
	values := make([]float64, horizon+1)
	values[0] = in.BasePrice
	for m := 1; m <= horizon; m++ {
		values[m] = values[m-1] * (1 + phases.forMonth(m-1).MonthlyRate)
	}

	income := buildIncomeModel(in, values[handover], handover)

	var loan *amortization
	if mortgage != nil {
		loan = newAmortization(*mortgage, in.BasePrice, handover)
	}

	proj := &models.Projection{
		Months:        make([]models.MonthlyProjection, 0, horizon+1),
		HorizonMonths: horizon,
		HandoverMonth: handover,
		Mortgaged:     loan != nil,
	}
	if loan != nil {
		proj.MonthlyMortgagePayment = loan.monthlyPayment
	}

	// Pass 2: cash flows.
	var (
		capitalDeployed float64
		cumNetRent      float64
		loanBalance     float64
		drawdownLeft    float64
	)
	warned := map[string]bool{}

	for m := 0; m <= horizon; m++ {
		row := models.MonthlyProjection{
			MonthIndex:     m,
			Phase:          phases.forMonth(m).Phase,
			IsConstruction: m < handover,
			IsHandover:     m == handover,
			PropertyValue:  values[m],
		}

		// Scheduled cash out. When financed, the drawdown covers scheduled
		// payments from origination onward; only the uncovered remainder is
		// out-of-pocket capital.
		cashDue := sched.AmountDueAt(m)
		row.ScheduledCash = cashDue
		if loan != nil && m == loan.originationMonth {
			loanBalance = loan.principal
			drawdownLeft = loan.principal
		}
		if drawdownLeft > 0 && cashDue > 0 {
			financed := cashDue
			if financed > drawdownLeft {
				financed = drawdownLeft
			}
			cashDue -= financed
			drawdownLeft -= financed
		}
		capitalDeployed += cashDue

		// Debt service. Interest is a cash cost; the principal component
		// builds equity and counts as deployed capital.
		if loan != nil && loan.active(m) {
			payment, interest, principal := loan.monthlyBreakdown(loanBalance)
			loanBalance -= principal
			capitalDeployed += principal
			row.MortgagePayment = payment
			row.MortgageInterest = interest
			row.MortgagePrincipal = principal
		}
		row.LoanBalance = loanBalance

		// Income, net of service charges. No income accrues during
		// construction; charges start when the unit exists.
		gross := income.MonthlyGross(m)
		var charges float64
		if m > handover {
			charges = monthlyServiceCharge(in, values[m])
		}
		net := gross - charges
		if net < 0 {
			if gross > 0 && !warned[models.WarnServiceChargesExceedRent] {
				warned[models.WarnServiceChargesExceedRent] = true
				proj.Warnings = append(proj.Warnings, models.ProjectionWarning{
					MonthIndex: m,
					Code:       models.WarnServiceChargesExceedRent,
					Message:    "service charges exceed gross rent; net rent floored at zero",
				})
			}
			net = 0
		}
		cumNetRent += net

		row.GrossRent = gross
		row.ServiceCharges = charges
		row.NetRent = net
		if in.RentalMode == models.RentalModeShortTerm {
			row.AirbnbNetIncome = net
		}
		row.CumulativeNetRent = cumNetRent
		row.CapitalDeployed = capitalDeployed
		row.Equity = values[m] - loanBalance

		if row.MortgagePayment > net && m > handover && !warned[models.WarnNegativeCashFlow] {
			warned[models.WarnNegativeCashFlow] = true
			proj.Warnings = append(proj.Warnings, models.ProjectionWarning{
				MonthIndex: m,
				Code:       models.WarnNegativeCashFlow,
				Message:    "debt service exceeds net rent; monthly cash flow is negative",
			})
		}

		proj.Months = append(proj.Months, row)
	}

	proj.Years = rollupYears(proj.Months, handover)

	utils.GetLogger().Debug("Projection complete",
		zap.Int("horizon_months", horizon),
		zap.Int("handover_month", handover),
		zap.Bool("mortgaged", loan != nil),
		zap.String("income_model", income.Name()),
		zap.Int("warnings", len(proj.Warnings)),
	)

	return proj, nil
}

// buildIncomeModel selects the strategy for the snapshot's rental mode.
func buildIncomeModel(in *models.OIInputs, valueAtHandover float64, handover int) IncomeModel {
	if in.RentalMode == models.RentalModeShortTerm && in.ShortTerm != nil {
		return NewShortTermIncomeModel(*in.ShortTerm, in.BookingDate, handover)
	}
	return NewLongTermIncomeModel(valueAtHandover, in.RentalYieldPercent, in.RentGrowthPercent, handover)
}

// monthlyServiceCharge computes one month of charges under either mode.
func monthlyServiceCharge(in *models.OIInputs, value float64) float64 {
	switch in.ServiceChargeMode {
	case models.ServiceChargePerSqft:
		return in.ServiceChargeRate * in.UnitSizeSqft / 12
	default:
		return in.ServiceChargeRate / 100 * value / 12
	}
}

// computeHorizon picks the ledger length: the furthest of the last exit
// candidate, the last scheduled payment and the default window past
// handover, capped at the maximum.
func computeHorizon(sched *models.ResolvedSchedule, in *models.OIInputs, opts Options) int {
	defaultWindow := opts.DefaultHorizonMonths
	if defaultWindow <= 0 {
		defaultWindow = defaultHorizonMonths
	}
	maxWindow := opts.MaxHorizonMonths
	if maxWindow <= 0 {
		maxWindow = maxHorizonMonths
	}

	horizon := sched.HandoverMonth + defaultWindow
	if last := sched.LastEventMonth(); last > horizon {
		horizon = last
	}
	for _, e := range in.ExitCandidateMonths {
		if e > horizon {
			horizon = e
		}
	}
	if horizon > maxWindow {
		horizon = maxWindow
	}
	return horizon
}

// rollupYears derives the yearly reporting view from the monthly ledger.
func rollupYears(months []models.MonthlyProjection, handover int) []models.YearlyProjection {
	if len(months) == 0 {
		return nil
	}

	years := make([]models.YearlyProjection, 0, len(months)/12+1)
	for start := 0; start < len(months); start += 12 {
		end := start + 12
		if end > len(months) {
			end = len(months)
		}
		span := months[start:end]

		y := models.YearlyProjection{
			Year:           start / 12,
			IsConstruction: end-1 < handover,
			IsHandoverYear: handover >= start && handover < end,
		}
		var valueSum float64
		for _, row := range span {
			valueSum += row.PropertyValue
			y.AnnualGrossRent += row.GrossRent
			y.ServiceCharges += row.ServiceCharges
			y.AnnualNetRent += row.NetRent
		}
		last := span[len(span)-1]
		y.AverageValue = valueSum / float64(len(span))
		y.YearEndValue = last.PropertyValue
		y.CapitalDeployed = last.CapitalDeployed
		y.YearEndBalance = last.LoanBalance
		y.YearEndEquity = last.Equity

		years = append(years, y)
	}
	return years
}
