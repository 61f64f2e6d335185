package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"NexStock/internal/auth"
	"NexStock/internal/config"
	"NexStock/internal/inventory"
	"NexStock/pkg/kit"
)

const minJWTSecretLen = 32

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadEnv()
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		store, closeStore, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer closeStore()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		locale, err := language.Parse(cfg.Inventory.SortLocale)
		if err != nil {
			log.Warn("bad SORT_LOCALE, using en", zap.String("locale", cfg.Inventory.SortLocale), zap.Error(err))
			locale = language.English
		}

		deps := inventory.LedgerDeps{
			Log:     log,
			Metrics: inventory.NewLedgerMetrics(reg, service),
			Locale:  locale,
		}
		s := &inventory.Server{
			Products: inventory.NewProducts(store, deps),
			Rentals:  inventory.NewRentals(store, deps),
			Store:    store,
			Log:      log,
		}

		httpDeps := inventory.HTTPDeps{
			Log:            log,
			Namespace:      service,
			Registry:       reg,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsToken:   cfg.Metrics.Token,
		}
		if err := wireAuth(cfg, log, &httpDeps); err != nil {
			return err
		}

		h := inventory.NewHandler(s, httpDeps)

		return kit.RunHTTPServer(cmd.Context(), kit.ServerConfig{
			Addr:              cfg.Addr(),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		}, h, log)
	},
}

func wireAuth(cfg *config.Config, log *zap.Logger, deps *inventory.HTTPDeps) error {
	if !cfg.Auth.Enabled() {
		log.Warn("OPERATOR_PASSWORD_HASH not set, write endpoints are open")
		return nil
	}
	if len(cfg.Auth.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("JWT_SECRET is required and must be at least %d chars", minJWTSecretLen)
	}

	as := &auth.Server{
		Log:      log,
		Operator: auth.NewOperator(cfg.Auth.OperatorUser, cfg.Auth.OperatorPasswordHash),
		JWT:      auth.NewTokenMaker(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
	}
	deps.Auth = as.Routes()
	deps.Guard = as.RequireOperator
	return nil
}
