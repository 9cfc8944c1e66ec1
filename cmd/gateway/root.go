package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/config"
)

const shutdownTimeout = 10 * time.Second

// newRootCommand builds the CLI. The app is wired once the chosen
// subcommand is known; the returned func closes it.
func newRootCommand(baseLogger pslog.Logger) (*cobra.Command, func()) {
	v := viper.New()
	var a *app

	root := &cobra.Command{
		Use:           "gateway",
		Short:         "Drive payments, refunds, accounts and invoices on the remote billing back end",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger := baseLogger
			if level, ok := pslog.ParseLevel(cfg.LogLevel); ok {
				logger = logger.LogLevel(level)
			} else {
				logger.Warn("cli.log_level.invalid", "value", cfg.LogLevel)
			}
			a, err = wireApp(cmd.Context(), cfg, logger)
			return err
		},
	}

	config.RegisterFlags(root.PersistentFlags())
	if err := config.Bind(v, root.PersistentFlags()); err != nil {
		panic(err)
	}

	current := func() *app { return a }
	root.AddCommand(
		newProcessPaymentCommand(current),
		newPaymentInfoCommand(current),
		newRefundCommand(current),
		newCreateAccountCommand(current),
		newUpdateContactCommand(current),
		newPaymentMethodsCommand(current),
		newInvoicesCommand(current),
		newSubscriptionsCommand(current),
		newPoolStatsCommand(current),
	)
	closeApp := func() {
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			baseLogger.Warn("cli.shutdown.failed", "error", err)
		}
	}
	return root, closeApp
}
