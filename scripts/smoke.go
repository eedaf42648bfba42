//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"
	"time"

	"investment-projection-engine/internal/models"
	"investment-projection-engine/internal/services/analyzer"
	"investment-projection-engine/internal/services/engine"
	"investment-projection-engine/internal/services/schedule"
)

// Runs the full pipeline on a reference off-plan purchase and prints the
// headline numbers. Run with: go run scripts/smoke.go
func main() {
	fmt.Println("=== Projection Pipeline Smoke Test ===")
	fmt.Println()

	inputs := &models.OIInputs{
		BasePrice:          1_000_000,
		Currency:           "AED",
		UnitSizeSqft:       850,
		DownPaymentPercent: 20,
		BookingDate:        models.MonthAnchor{Year: 2026, Month: time.January},
		HandoverDate:       models.MonthAnchor{Year: 2028, Month: time.January},
		Milestones: []models.PaymentMilestone{
			{Label: "50% construction", Kind: models.MilestoneKindConstruction, TriggerValue: 50, PaymentPercent: 30},
		},
		RentalYieldPercent: 7,
		RentalMode:         models.RentalModeLongTerm,
		RentGrowthPercent:  3,
		ServiceChargeMode:  models.ServiceChargePerSqft,
		ServiceChargeRate:  15,
		Appreciation: models.AppreciationRates{
			ConstructionAnnualPercent: 8,
			GrowthAnnualPercent:       10,
			MatureAnnualPercent:       5,
			GrowthPeriodYears:         3,
		},
		SellingCostPercent:  2,
		ExitCandidateMonths: []int{24, 36, 60},
	}

	sched, err := schedule.Resolve(inputs.PaymentPlan())
	if err != nil {
		fmt.Printf("❌ Schedule resolution failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("📅 Schedule: %d events, handover at month %d\n", len(sched.Events), sched.HandoverMonth)
	for _, e := range sched.Events {
		fmt.Printf("   month %3d  %12.2f %s\n", e.MonthIndex, e.Amount, inputs.Currency)
	}

	proj, err := engine.Project(sched, inputs, nil, engine.Options{})
	if err != nil {
		fmt.Printf("❌ Projection failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("📈 Ledger: %d months, value at horizon %.2f\n", len(proj.Months), proj.Months[proj.HorizonMonths].PropertyValue)

	exits, err := analyzer.AnalyzeExits(proj, inputs.ExitCandidateMonths, inputs.SellingCostPercent, analyzer.DefaultBandThresholds())
	if err != nil {
		fmt.Printf("❌ Exit analysis failed: %v\n", err)
		os.Exit(1)
	}

	for _, s := range exits.Scenarios {
		fmt.Printf("🚪 Exit month %3d: price %.0f, profit %.0f, ROE %s, annualized %s\n",
			s.ExitMonth, s.ExitPrice, s.TrueProfit, s.TrueROE, s.AnnualizedROE)
	}
	if best := exits.Best(); best != nil {
		fmt.Printf("⭐ Best exit: month %d\n", best.ExitMonth)
	}

	fmt.Println()
	fmt.Println("✅ Pipeline OK")
}
