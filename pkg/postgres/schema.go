package postgres

import "fmt"

// schemaStatements creates the ledger schema. The balance invariant is a
// deferred constraint trigger: every insert, update or delete of a
// ledger line arms a commit-time check that the touched journal entry
// sums to zero. Checking per row would reject every entry after its
// first line, since a single line alone never balances.
var schemaStatements = []string{
	`DO $$ BEGIN
		CREATE TYPE debit_credit AS ENUM ('debit', 'credit');
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$;`,

	`CREATE TABLE IF NOT EXISTS account (
		id SERIAL PRIMARY KEY,
		account_number VARCHAR(10) NOT NULL UNIQUE,
		name VARCHAR NOT NULL,
		type VARCHAR(50) NOT NULL,
		normal_balance debit_credit NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS journal_entry (
		id SERIAL PRIMARY KEY,
		description VARCHAR NOT NULL,
		date DATE NOT NULL DEFAULT now()
	);`,

	`CREATE TABLE IF NOT EXISTS ledger_entry (
		id SERIAL PRIMARY KEY,
		journal_entry_id INTEGER NOT NULL
			REFERENCES journal_entry(id) ON DELETE CASCADE,
		account_id INTEGER NOT NULL
			REFERENCES account(id) ON DELETE NO ACTION,
		amount INTEGER NOT NULL CHECK (amount > 0),
		side debit_credit NOT NULL
	);`,

	`CREATE INDEX IF NOT EXISTS idx_ledger_entry_journal
		ON ledger_entry(journal_entry_id);`,

	`CREATE INDEX IF NOT EXISTS idx_ledger_entry_account
		ON ledger_entry(account_id);`,

	`CREATE OR REPLACE FUNCTION ensure_journal_balance() RETURNS TRIGGER AS $$
	DECLARE
		touched INTEGER;
	BEGIN
		IF TG_OP = 'DELETE' THEN
			touched := OLD.journal_entry_id;
		ELSE
			touched := NEW.journal_entry_id;
		END IF;

		IF (SELECT COALESCE(
				SUM(CASE WHEN side = 'debit' THEN amount ELSE 0 END) -
				SUM(CASE WHEN side = 'credit' THEN amount ELSE 0 END), 0)
			FROM ledger_entry
			WHERE journal_entry_id = touched) <> 0
		THEN
			RAISE EXCEPTION 'journal entry must be balanced (debits = credits)';
		END IF;

		IF TG_OP = 'DELETE' THEN
			RETURN OLD;
		END IF;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,

	`DO $$ BEGIN
		CREATE CONSTRAINT TRIGGER check_journal_balance
			AFTER INSERT OR UPDATE OR DELETE ON ledger_entry
			DEFERRABLE INITIALLY DEFERRED
			FOR EACH ROW EXECUTE FUNCTION ensure_journal_balance();
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$;`,
}

// InitializeSchema initializes the database schema.
// All statements are idempotent, so it is safe to run at every startup.
func InitializeSchema(conn *Connection) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
