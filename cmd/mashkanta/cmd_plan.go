package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
	"github.com/Mendelovic/mashkanta-broker-sub000/internal/planning"
)

func runPlan(cmd *cobra.Command, args []string) error {
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

	mapper := planning.NewMapper(limits)
	ctx := mapper.Build(record)

	log.Info().
		Float64("volatility_weight", ctx.Weights.PaymentVolatility).
		Float64("variable_cap", ctx.SoftCaps.VariableShareMax).
		Int("future_plans", len(record.FuturePlans)).
		Msg("planning context built")

	archiveSnapshot(cmd, "planning", record, ctx)
	return writeJSON(ctx)
}
