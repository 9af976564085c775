package sqlite

// Schema defines the SQL statements to create the ledger tables.
//
// Sides are stored as the strings 'debit'/'credit' guarded by CHECK
// constraints, dates as TEXT in YYYY-MM-DD form. Deleting a journal
// entry cascades to its lines; deleting an account is restricted while
// any line references it.
const Schema = `
-- Chart of accounts
CREATE TABLE IF NOT EXISTS account (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    account_number TEXT NOT NULL UNIQUE,        -- short number, e.g. 2800, 4000
    name TEXT NOT NULL,
    type TEXT NOT NULL,                         -- asset, liability, equity, revenue, expense
    normal_balance TEXT NOT NULL
        CHECK (normal_balance IN ('debit', 'credit'))
);

-- One atomic financial event
CREATE TABLE IF NOT EXISTS journal_entry (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    date TEXT NOT NULL DEFAULT (date('now'))    -- YYYY-MM-DD
);

-- Debit/credit movements belonging to journal entries
CREATE TABLE IF NOT EXISTS ledger_entry (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    journal_entry_id INTEGER NOT NULL
        REFERENCES journal_entry(id) ON DELETE CASCADE,
    account_id INTEGER NOT NULL
        REFERENCES account(id) ON DELETE RESTRICT,
    amount INTEGER NOT NULL CHECK (amount > 0), -- minor currency units (cents)
    side TEXT NOT NULL
        CHECK (side IN ('debit', 'credit'))
);

CREATE INDEX IF NOT EXISTS idx_ledger_entry_journal
    ON ledger_entry(journal_entry_id);

CREATE INDEX IF NOT EXISTS idx_ledger_entry_account
    ON ledger_entry(account_id);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
