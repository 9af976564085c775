package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
	"github.com/spf13/cobra"
)

var (
	accountNumber string
	accountName   string
	accountType   string
	accountNormal string
)

// accountCmd groups the chart-of-accounts commands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the chart of accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	Long: `Create an account in the chart of accounts.

Example:
  bookkeeper account create --number 1000 --name Cash --type asset --normal debit`,
	Run: runAccountCreate,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts ordered by account number",
	Run:   runAccountList,
}

var accountUpdateCmd = &cobra.Command{
	Use:   "update NUMBER",
	Short: "Update an account's fields",
	Long: `Update an account identified by its current account number.

Only the provided flags are changed.

Example:
  bookkeeper account update 1000 --name "Petty Cash"`,
	Args: cobra.ExactArgs(1),
	Run:  runAccountUpdate,
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete NUMBER",
	Short: "Delete an account by account number",
	Long: `Delete an account by account number.

Deletion fails while any ledger line still references the account.`,
	Args: cobra.ExactArgs(1),
	Run:  runAccountDelete,
}

func init() {
	accountCreateCmd.Flags().StringVar(&accountNumber, "number", "", "account number (required, max 10 chars)")
	accountCreateCmd.Flags().StringVar(&accountName, "name", "", "account name (required)")
	accountCreateCmd.Flags().StringVar(&accountType, "type", "", "account type, e.g. asset, liability, equity, revenue, expense (required)")
	accountCreateCmd.Flags().StringVar(&accountNormal, "normal", "", "normal balance side: debit or credit (required)")
	accountCreateCmd.MarkFlagRequired("number")
	accountCreateCmd.MarkFlagRequired("name")
	accountCreateCmd.MarkFlagRequired("type")
	accountCreateCmd.MarkFlagRequired("normal")

	accountUpdateCmd.Flags().StringVar(&accountNumber, "number", "", "new account number")
	accountUpdateCmd.Flags().StringVar(&accountName, "name", "", "new account name")
	accountUpdateCmd.Flags().StringVar(&accountType, "type", "", "new account type")
	accountUpdateCmd.Flags().StringVar(&accountNormal, "normal", "", "new normal balance side: debit or credit")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountUpdateCmd)
	accountCmd.AddCommand(accountDeleteCmd)
}

func runAccountCreate(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	acc, err := st.Accounts.CreateAccount(context.Background(), ledger.NewAccount{
		Number:        accountNumber,
		Name:          accountName,
		Type:          accountType,
		NormalBalance: ledger.Side(accountNormal),
	})
	exitOnError(err, "failed to create account")

	slog.Info("Account created", "id", acc.ID, "number", acc.Number)
	fmt.Printf("Created account %s (%s, %s-normal) with id %d\n", acc.Number, acc.Type, acc.NormalBalance, acc.ID)
}

func runAccountList(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	accounts, err := st.Accounts.ListAccounts(context.Background())
	exitOnError(err, "failed to list accounts")

	if len(accounts) == 0 {
		fmt.Println("No accounts.")
		return
	}

	fmt.Printf("%-10s %-30s %-12s %s\n", "NUMBER", "NAME", "TYPE", "NORMAL")
	for _, acc := range accounts {
		fmt.Printf("%-10s %-30s %-12s %s\n", acc.Number, acc.Name, acc.Type, acc.NormalBalance)
	}
}

func runAccountUpdate(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	ctx := context.Background()
	acc, err := st.Accounts.GetAccountByNumber(ctx, args[0])
	exitOnError(err, "failed to look up account")

	var upd ledger.AccountUpdate
	if cmd.Flags().Changed("number") {
		upd.Number = &accountNumber
	}
	if cmd.Flags().Changed("name") {
		upd.Name = &accountName
	}
	if cmd.Flags().Changed("type") {
		upd.Type = &accountType
	}
	if cmd.Flags().Changed("normal") {
		side := ledger.Side(accountNormal)
		upd.NormalBalance = &side
	}

	updated, err := st.Accounts.UpdateAccount(ctx, acc.ID, upd)
	exitOnError(err, "failed to update account")

	fmt.Printf("Updated account %s (%s, %s-normal)\n", updated.Number, updated.Type, updated.NormalBalance)
}

func runAccountDelete(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	ctx := context.Background()
	acc, err := st.Accounts.GetAccountByNumber(ctx, args[0])
	exitOnError(err, "failed to look up account")

	err = st.Accounts.DeleteAccount(ctx, acc.ID)
	exitOnError(err, "failed to delete account")

	fmt.Printf("Deleted account %s\n", acc.Number)
}
