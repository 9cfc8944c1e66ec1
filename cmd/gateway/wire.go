package main

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/adapters"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/adapters/querytemplate"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/config"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/gateway"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/repo"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/session"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/add_payment_method"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/create_account"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/delete_payment_method"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/get_payment_info"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/invoices"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/list_payment_methods"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/process_payment"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/process_refund"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/set_default_payment_method"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/update_account_contact"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/usecases/update_payment_method"
)

type app struct {
	cfg       config.Config
	logger    pslog.Logger
	telemetry *telemetry
	pool      *pool.Pool[contracts.Connection]
	spanner   *spanner.Client

	processPayment      *process_payment.Interactor
	paymentInfo         *get_payment_info.Interactor
	refunds             *process_refund.Interactor
	createAccount       *create_account.Interactor
	updateContact       *update_account_contact.Interactor
	addPaymentMethod    *add_payment_method.Interactor
	deletePaymentMethod *delete_payment_method.Interactor
	setDefault          *set_default_payment_method.Interactor
	updatePaymentMethod *update_payment_method.Interactor
	listPaymentMethods  *list_payment_methods.Interactor
	invoices            *invoices.Interactor
}

func wireApp(ctx context.Context, cfg config.Config, logger pslog.Logger) (a *app, err error) {
	a = &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
			a = nil
		}
	}()

	// Metrics first so the pool and session instruments land on the exporter
	if a.telemetry, err = setupTelemetry(cfg.MetricsListen, logger); err != nil {
		return a, err
	}

	queries, err := querytemplate.New()
	if err != nil {
		return a, err
	}
	clock := domain.RealClock{}
	ops := gateway.NewOperations(cfg.Gateway, queries, clock, logger.With("svc", "gateway"))

	httpClient := adapters.NewHTTPClient(cfg.RPCTimeout)
	api := adapters.NewRPCClient(httpClient, cfg.RemoteURL)
	factory := session.NewFactory(api, cfg.Session, ops.ValidateConnection, logger.With("svc", "session"))
	if a.pool, err = pool.New[contracts.Connection](cfg.Pool, factory, logger.With("svc", "pool")); err != nil {
		return a, fmt.Errorf("connection pool: %w", err)
	}
	if err := a.pool.Prewarm(ctx); err != nil {
		logger.Warn("pool.prewarm.failed", "error", err)
	}

	if a.spanner, err = spanner.NewClient(ctx, cfg.DatabasePath()); err != nil {
		return a, fmt.Errorf("spanner client: %w", err)
	}
	store := repo.NewPaymentStore(a.spanner)
	directory := adapters.NewHTTPAccountDirectory(httpClient, cfg.HostURL)

	a.processPayment = process_payment.NewInteractor(a.pool, ops, directory, store, clock, logger)
	a.paymentInfo = get_payment_info.NewInteractor(a.pool, ops, directory, store, clock, logger)
	a.refunds = process_refund.NewInteractor(a.pool, ops, directory, store, logger)
	a.createAccount = create_account.NewInteractor(a.pool, ops, directory, logger)
	a.updateContact = update_account_contact.NewInteractor(a.pool, ops, directory)
	a.addPaymentMethod = add_payment_method.NewInteractor(a.pool, ops, directory, store, clock, logger)
	a.deletePaymentMethod = delete_payment_method.NewInteractor(a.pool, ops, directory, store, clock, logger)
	a.setDefault = set_default_payment_method.NewInteractor(a.pool, ops, directory, store, clock, logger)
	a.updatePaymentMethod = update_payment_method.NewInteractor(a.pool, ops, directory, store)
	a.listPaymentMethods = list_payment_methods.NewInteractor(a.pool, ops, directory, store, clock, logger)
	a.invoices = invoices.NewInteractor(a.pool, ops, directory)
	return a, nil
}

func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.pool != nil {
		if err := a.pool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pool close: %w", err))
		}
	}
	if a.spanner != nil {
		a.spanner.Close()
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
