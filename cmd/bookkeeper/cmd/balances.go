package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// balancesCmd prints the derived balance of every account. Balances are
// recomputed from the committed ledger on each invocation.
var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Display all accounts with their derived balances",
	Long: `Display every account with its balance derived from the ledger.

The balance of an account is the sum of amounts on its normal balance
side minus the sum on the opposite side, in cents. Accounts without
ledger activity show zero.

Example:
  bookkeeper balances`,
	Run: runBalances,
}

func runBalances(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	balances, err := st.Accounts.ListAccountsWithBalances(context.Background())
	exitOnError(err, "failed to list account balances")

	if len(balances) == 0 {
		fmt.Println("No accounts.")
		return
	}

	fmt.Printf("%-10s %-30s %-12s %12s\n", "NUMBER", "NAME", "TYPE", "BALANCE")
	for _, b := range balances {
		fmt.Printf("%-10s %-30s %-12s %12d\n", b.Number, b.Name, b.Type, b.Balance)
	}
}
