package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"NexStock/internal/config"
	"NexStock/pkg/kit"
)

const service = "nexstock"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "nexstock",
	Short: "NexStock inventory and rental tracker",
	Long: `NexStock tracks products, sales and rentals in a single JSON document
(or one Postgres row) and serves them over HTTP.

Configuration is read from the environment; --env-file names a .env file
loaded first. Variables already set in the environment win.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(serveCmd, productsCmd, rentalsCmd, migrateCmd, hashPasswordCmd)
}

func newLogger(cfg *config.Config) *zap.Logger {
	return kit.NewLogger(service, kit.LogConfig{
		Level:       cfg.Logger.Level,
		Development: cfg.Development(),
	})
}
