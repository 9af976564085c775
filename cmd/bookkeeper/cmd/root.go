// Package cmd provides CLI commands for bookkeeper.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/config"
	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
	"github.com/shunichi-ikebuchi/bookkeeper/pkg/postgres"
	"github.com/shunichi-ikebuchi/bookkeeper/pkg/sqlite"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bookkeeper",
	Short: "Double-entry bookkeeping on SQLite or PostgreSQL",
	Long: `bookkeeper is a double-entry bookkeeping CLI. It records financial
transactions as balanced journal entries and derives account balances
from the accumulated ledger.

Every journal entry must balance (debits = credits); unbalanced entries
are rejected atomically at commit time.

Example:
  bookkeeper account create --number 1000 --name Cash --type asset --normal debit
  bookkeeper journal post --desc "Opening balance" 1000:5000:debit 2000:5000:credit
  bookkeeper balances`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(seedCmd)
}

// stores bundles the opened storage backends with their closer.
type stores struct {
	Accounts ledger.AccountStore
	Journal  ledger.JournalStore
	close    func() error
}

// Close releases the underlying database connection.
func (s *stores) Close() error {
	return s.close()
}

// openStores loads configuration and opens the configured storage backend.
func openStores() (*stores, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		slog.Debug("Opening database", "driver", cfg.Driver)
		conn, err := postgres.Open(cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		return &stores{
			Accounts: postgres.NewAccountStore(conn),
			Journal:  postgres.NewJournalStore(conn),
			close:    conn.Close,
		}, nil
	default:
		slog.Debug("Opening database", "driver", cfg.Driver, "path", cfg.SQLite.Path)
		conn, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &stores{
			Accounts: sqlite.NewAccountStore(conn),
			Journal:  sqlite.NewJournalStore(conn),
			close:    conn.Close,
		}, nil
	}
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
