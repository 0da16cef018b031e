package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/mixopt"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/planning"
)

func runOptimize(cmd *cobra.Command, args []string) error {
	var record domain.InterviewRecord
	if err := readInput(args, &record); err != nil {
		return err
	}

	record.Normalize()
	if err := record.Validate(); err != nil {
		return err
	}

	limits, err := loadLimits(cmd)
	if err != nil {
		return err
	}

	menu := resolveMenu(cmd.Context(), cmd)

	mapper := planning.NewMapper(limits)
	planCtx := mapper.Build(record)

	optimizer := mixopt.NewOptimizer(limits)
	started := time.Now()
	result := optimizer.Optimize(loanInputFromRecord(record, menu), planCtx)

	metrics.Optimizations.Inc()
	metrics.OptimizeDuration.Observe(time.Since(started).Seconds())
	if result.AdvisorRecommendedIndex != result.EngineRecommendedIndex {
		metrics.AdvisorDivergence.Inc()
	}

	engine := result.Candidates[result.EngineRecommendedIndex]
	advisor := result.Candidates[result.AdvisorRecommendedIndex]
	log.Info().
		Str("engine_pick", engine.Label).
		Str("advisor_pick", advisor.Label).
		Int("candidates", len(result.Candidates)).
		Msg("mix optimization complete")

	archiveSnapshot(cmd, "optimize", record, result)
	return writeJSON(result)
}

// loanInputFromRecord projects the confirmed intake record onto the priced
// optimization input.
func loanInputFromRecord(record domain.InterviewRecord, menu map[domain.Track]float64) mixopt.LoanInput {
	var age *int
	if record.Borrower.AgeYears > 0 {
		a := record.Borrower.AgeYears
		age = &a
	}
	return mixopt.LoanInput{
		AmountNIS:            record.Loan.AmountNIS,
		TermYears:            record.Loan.TermYears,
		PropertyValueNIS:     record.Property.ValueNIS,
		DownPaymentNIS:       record.Property.ValueNIS - record.Loan.AmountNIS,
		MonthlyNetIncome:     record.Borrower.TotalMonthlyIncome(),
		ExistingLoansPayment: record.Borrower.FixedExpensesNIS,
		OtherHousingPayments: record.Borrower.OtherHousingNIS,
		BorrowerRentExpense:  record.Borrower.RentExpenseNIS,
		BorrowerAge:          age,
		PropertyType:         record.Property.Type,
		DealType:             record.DealType,
		Occupancy:            record.Borrower.Occupancy,
		RiskProfile:          domain.RiskStandard,
		MenuRates:            menu,
		Quotes:               record.Quotes,
	}
}
