// Package cli implements the civreg operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"civreg/internal/platform/config"
	"civreg/internal/platform/logger"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "civreg",
	Short: "Operator tooling for the death registration service",
	Long: `civreg manages the death registration service: schema migrations,
reference data, the rules knowledge index, and one-off registrations run
from the command line.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// ExecuteContext runs the root command; subcommands see ctx via cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL URL (overrides database.url)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = v.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(migrateCmd, seedCmd, indexCmd, registerCmd)
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config %s: %v\n", cfgFile, err)
	}
}

// loadConfig decodes the shared viper instance after flags are parsed.
func loadConfig() (config.Config, error) {
	return config.FromViper(v)
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	return logger.NewWithWriter(w, cfg.Log.Level, cfg.Log.Format)
}
