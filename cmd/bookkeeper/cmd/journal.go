package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
	"github.com/spf13/cobra"
)

var (
	journalDesc string
	journalDate string
)

// journalCmd groups the journal entry commands.
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and inspect journal entries",
}

var journalPostCmd = &cobra.Command{
	Use:   "post NUMBER:AMOUNT:SIDE [NUMBER:AMOUNT:SIDE...]",
	Short: "Post a balanced journal entry",
	Long: `Post a journal entry with at least two ledger lines.

Each line is NUMBER:AMOUNT:SIDE where NUMBER is an account number,
AMOUNT is a positive amount in cents, and SIDE is debit or credit.
Total debits must equal total credits or the whole entry is rolled back.

Example:
  bookkeeper journal post --desc "Office rent" 7400:120000:debit 2800:120000:credit`,
	Args: cobra.MinimumNArgs(ledger.MinJournalLines),
	Run:  runJournalPost,
}

var journalShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one journal entry with its lines",
	Args:  cobra.ExactArgs(1),
	Run:   runJournalShow,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all journal entries with their lines",
	Run:   runJournalList,
}

var journalAccountCmd = &cobra.Command{
	Use:   "account NUMBER",
	Short: "List journal entries touching an account, oldest first",
	Args:  cobra.ExactArgs(1),
	Run:   runJournalAccount,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a journal entry and all of its lines",
	Args:  cobra.ExactArgs(1),
	Run:   runJournalDelete,
}

func init() {
	journalPostCmd.Flags().StringVar(&journalDesc, "desc", "", "journal entry description (required)")
	journalPostCmd.Flags().StringVar(&journalDate, "date", "", "entry date as YYYY-MM-DD (default today)")
	journalPostCmd.MarkFlagRequired("desc")

	journalCmd.AddCommand(journalPostCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalAccountCmd)
	journalCmd.AddCommand(journalDeleteCmd)
}

// parseLine parses a NUMBER:AMOUNT:SIDE argument, resolving the account
// number to its id through the account store.
func parseLine(ctx context.Context, st *stores, arg string) (ledger.NewLine, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return ledger.NewLine{}, fmt.Errorf("%w: line %q must be NUMBER:AMOUNT:SIDE", ledger.ErrValidation, arg)
	}

	acc, err := st.Accounts.GetAccountByNumber(ctx, parts[0])
	if err != nil {
		return ledger.NewLine{}, fmt.Errorf("account %q: %w", parts[0], err)
	}

	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ledger.NewLine{}, fmt.Errorf("%w: amount %q is not an integer", ledger.ErrValidation, parts[1])
	}

	return ledger.NewLine{
		AccountID: acc.ID,
		Amount:    amount,
		Side:      ledger.Side(parts[2]),
	}, nil
}

func runJournalPost(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	ctx := context.Background()

	var date time.Time
	if journalDate != "" {
		date, err = time.Parse(ledger.DateLayout, journalDate)
		exitOnError(err, "invalid --date")
	}

	lines := make([]ledger.NewLine, 0, len(args))
	for _, arg := range args {
		line, err := parseLine(ctx, st, arg)
		exitOnError(err, "invalid ledger line")
		lines = append(lines, line)
	}

	entry, err := st.Journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: journalDesc,
		Date:        date,
		Lines:       lines,
	})
	exitOnError(err, "failed to post journal entry")

	fmt.Printf("Posted journal entry %d (%s) with %d lines\n", entry.ID, entry.Description, len(entry.Lines))
}

func printEntry(e ledger.JournalWithLines) {
	fmt.Printf("#%d %s  %s\n", e.ID, e.Date.Format(ledger.DateLayout), e.Description)
	for _, l := range e.Lines {
		fmt.Printf("    account %-6d %8d  %s\n", l.AccountID, l.Amount, l.Side)
	}
}

func runJournalShow(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	exitOnError(err, "invalid journal entry id")

	entry, err := st.Journal.GetJournalEntry(context.Background(), id)
	exitOnError(err, "failed to get journal entry")

	printEntry(entry)
}

func runJournalList(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	entries, err := st.Journal.ListJournalEntries(context.Background())
	exitOnError(err, "failed to list journal entries")

	if len(entries) == 0 {
		fmt.Println("No journal entries.")
		return
	}
	for _, e := range entries {
		printEntry(e)
	}
}

func runJournalAccount(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	ctx := context.Background()
	acc, err := st.Accounts.GetAccountByNumber(ctx, args[0])
	exitOnError(err, "failed to look up account")

	entries, err := st.Journal.ListJournalEntriesForAccount(ctx, acc.ID)
	exitOnError(err, "failed to list journal entries for account")

	if len(entries) == 0 {
		fmt.Printf("No activity on account %s.\n", acc.Number)
		return
	}
	for _, e := range entries {
		printEntry(e)
	}
}

func runJournalDelete(cmd *cobra.Command, args []string) {
	st, err := openStores()
	exitOnError(err, "failed to open storage")
	defer st.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	exitOnError(err, "invalid journal entry id")

	err = st.Journal.DeleteJournalEntry(context.Background(), id)
	exitOnError(err, "failed to delete journal entry")

	fmt.Printf("Deleted journal entry %d\n", id)
}
