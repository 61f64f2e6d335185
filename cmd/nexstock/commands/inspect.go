package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"NexStock/internal/config"
	"NexStock/internal/inventory"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Print the stored products as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedgers(cmd, func(p *inventory.Products, _ *inventory.Rentals) (any, error) {
			return p.List(cmd.Context())
		})
	},
}

var rentalsCmd = &cobra.Command{
	Use:   "rentals",
	Short: "Print the stored rentals as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedgers(cmd, func(_ *inventory.Products, r *inventory.Rentals) (any, error) {
			return r.List(cmd.Context())
		})
	},
}

func withLedgers(cmd *cobra.Command, fn func(*inventory.Products, *inventory.Rentals) (any, error)) error {
	cfg := config.LoadEnv()
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	deps := inventory.LedgerDeps{Log: log}
	out, err := fn(inventory.NewProducts(store, deps), inventory.NewRentals(store, deps))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
