// Package ledger defines the double-entry bookkeeping domain model:
// accounts, journal entries and their ledger lines, the validation rules
// for creating them, and the storage contracts implemented by the
// database backends.
package ledger

import "time"

// DateLayout is the calendar-date format used for journal entry dates.
const DateLayout = "2006-01-02"

// Side identifies the debit or credit side of a ledger line, and the
// normal balance side of an account.
type Side string

const (
	Debit  Side = "debit"
	Credit Side = "credit"
)

// Valid reports whether s is one of the two recognized sides.
func (s Side) Valid() bool {
	return s == Debit || s == Credit
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// Account is one account in the chart of accounts.
type Account struct {
	ID            int64
	Number        string // short unique account number, e.g. "2800"
	Name          string
	Type          string // asset, liability, equity, revenue, expense, ...
	NormalBalance Side
}

// JournalEntry is the header of one atomic financial event. Its monetary
// content lives in the ledger lines that reference it.
type JournalEntry struct {
	ID          int64
	Description string
	Date        time.Time
}

// LedgerLine is a single debit or credit movement against one account,
// belonging to exactly one journal entry. Amount is in minor currency
// units (cents) and is always positive; the direction is carried by Side.
type LedgerLine struct {
	ID             int64
	JournalEntryID int64
	AccountID      int64
	Amount         int64
	Side           Side
}

// JournalWithLines is a journal entry together with all of its lines.
type JournalWithLines struct {
	JournalEntry
	Lines []LedgerLine
}

// AccountBalance is an account with its derived balance: the sum of
// amounts on its normal balance side minus the sum on the opposite side,
// over all committed ledger lines. Zero for accounts with no lines.
type AccountBalance struct {
	Account
	Balance int64
}
