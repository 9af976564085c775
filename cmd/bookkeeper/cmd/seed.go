package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/chart"
	"github.com/spf13/cobra"
)

var chartFile string

// seedCmd loads a chart-of-accounts YAML file into the account store.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the chart of accounts from a YAML file",
	Long: `Seed the chart of accounts from a YAML file.

Accounts that already exist are skipped, so seeding can be rerun after
extending the chart file.

Example chart file:
  accounts:
    - number: "1000"
      name: Cash
      type: asset
      normal_balance: debit
    - number: "2800"
      name: Bank
      type: asset
      normal_balance: debit

Example:
  bookkeeper seed --file chart.yaml`,
	Run: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&chartFile, "file", "chart.yaml", "chart-of-accounts YAML file")
}

func runSeed(cmd *cobra.Command, args []string) {
	c, err := chart.Load(chartFile)
	exitOnError(err, "failed to load chart file")

	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	created, err := c.Seed(context.Background(), st.Accounts)
	exitOnError(err, "failed to seed chart of accounts")

	slog.Info("Chart seeded", "file", chartFile, "created", created, "total", len(c.Accounts))
	fmt.Printf("Seeded %d of %d accounts from %s\n", created, len(c.Accounts), chartFile)
}
