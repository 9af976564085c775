package ledger

import "context"

// AccountStore is the registry of accounts, including the derived
// balance view.
type AccountStore interface {
	// CreateAccount inserts a new account. Returns ErrConflict if the
	// account number is already taken, ErrValidation for bad input.
	CreateAccount(ctx context.Context, acc NewAccount) (Account, error)

	// GetAccountByNumber returns the account with the given number, or
	// ErrNotFound.
	GetAccountByNumber(ctx context.Context, number string) (Account, error)

	// ListAccounts returns all accounts ordered by account number.
	ListAccounts(ctx context.Context) ([]Account, error)

	// UpdateAccount applies a partial update. Returns ErrNotFound if the
	// id is unknown, ErrConflict if the new number collides with another
	// account.
	UpdateAccount(ctx context.Context, id int64, upd AccountUpdate) (Account, error)

	// DeleteAccount removes an account. Returns ErrReferential while any
	// ledger line references it, ErrNotFound if the id is unknown.
	DeleteAccount(ctx context.Context, id int64) error

	// ListAccountsWithBalances returns every account with its balance
	// derived from the committed ledger, ordered by account number. The
	// balance is recomputed on every call, never cached.
	ListAccountsWithBalances(ctx context.Context) ([]AccountBalance, error)
}

// JournalStore owns journal entries and their ledger lines.
type JournalStore interface {
	// CreateJournalEntry persists the header and all lines as one atomic
	// unit. The unit is rolled back entirely if a line references a
	// missing account (ErrReferential) or if the lines do not balance at
	// commit time (ErrValidation).
	CreateJournalEntry(ctx context.Context, j NewJournal) (JournalWithLines, error)

	// GetJournalEntry returns one journal entry with its lines, or
	// ErrNotFound.
	GetJournalEntry(ctx context.Context, id int64) (JournalWithLines, error)

	// ListJournalEntries returns all journal entries with their lines.
	ListJournalEntries(ctx context.Context) ([]JournalWithLines, error)

	// ListJournalEntriesForAccount returns the journal entries that touch
	// the given account, ordered by journal date ascending, carrying only
	// the lines that reference that account.
	ListJournalEntriesForAccount(ctx context.Context, accountID int64) ([]JournalWithLines, error)

	// DeleteJournalEntry removes an entry and all of its lines in one
	// transaction. Returns ErrNotFound if the id is unknown.
	DeleteJournalEntry(ctx context.Context, id int64) error
}
