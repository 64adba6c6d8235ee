package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/segyhp/rent-billing/internal/app"
	"github.com/segyhp/rent-billing/internal/config"
	"github.com/segyhp/rent-billing/internal/domain"
	"github.com/segyhp/rent-billing/internal/logger"
	"github.com/segyhp/rent-billing/pkg/utils"

	"github.com/spf13/cobra"
)

// run loads configuration, opens the app and hands it to fn.
func run(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) (interface{}, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// keep stdout clean for the JSON result
	cfg.Logging.Level = "warn"
	zlog, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer zlog.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func LedgerCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "ledger <tenantId>",
		Short: "Print a tenant's ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := utils.ParseAsOf(asOf, time.Now())
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, a *app.App) (interface{}, error) {
				return a.Billing.GetLedger(ctx, args[0], date)
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "ledger date (YYYY-MM-DD), default today")
	return cmd
}

func ImpactCmd() *cobra.Command {
	var rate, effectiveFrom string

	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Preview how a penalty rate change would move tenant penalties",
		RunE: func(cmd *cobra.Command, args []string) error {
			newRate, err := utils.ParseRate(rate)
			if err != nil {
				return err
			}
			var from *time.Time
			if effectiveFrom != "" {
				d, err := domain.ParseDate(effectiveFrom)
				if err != nil {
					return err
				}
				from = &d
			}
			return run(cmd, func(ctx context.Context, a *app.App) (interface{}, error) {
				return a.Penalty.GetImpact(ctx, newRate, from)
			})
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "new monthly penalty rate in percent")
	cmd.Flags().StringVar(&effectiveFrom, "effective-from", "", "date the new rate starts (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func RateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Show or change the penalty rate",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the rate in force today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.App) (interface{}, error) {
				return a.Penalty.GetCurrentRate(ctx)
			})
		},
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "List every rate change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.App) (interface{}, error) {
				return a.Penalty.GetHistory(ctx)
			})
		},
	}

	var rate, effectiveFrom string
	set := &cobra.Command{
		Use:   "set",
		Short: "Schedule a new rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			newRate, err := utils.ParseRate(rate)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, a *app.App) (interface{}, error) {
				entry, err := a.Penalty.UpdateRate(ctx, &domain.UpdatePenaltyRateRequest{
					NewRate:       newRate,
					EffectiveFrom: effectiveFrom,
				})
				if err != nil {
					return nil, fmt.Errorf("rate not changed: %w", err)
				}
				return entry, nil
			})
		},
	}
	set.Flags().StringVar(&rate, "rate", "", "monthly penalty rate in percent")
	set.Flags().StringVar(&effectiveFrom, "effective-from", "", "date the rate starts (YYYY-MM-DD)")
	_ = set.MarkFlagRequired("rate")
	_ = set.MarkFlagRequired("effective-from")

	cmd.AddCommand(show, history, set)
	return cmd
}
