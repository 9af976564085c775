package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
)

// JournalStore manages journal entries and their ledger lines in SQLite.
type JournalStore struct {
	conn *Connection
}

// NewJournalStore creates a new JournalStore instance.
func NewJournalStore(conn *Connection) *JournalStore {
	return &JournalStore{conn: conn}
}

// CreateJournalEntry persists the header and all lines in a single
// transaction. The balance invariant is verified by an aggregate query
// over the entry's persisted lines as the last statement before commit;
// a non-zero imbalance fails the transaction and rolls back the whole
// unit, header included. A per-line check would be useless here: lines
// are inserted one at a time, and a single line never balances.
func (s *JournalStore) CreateJournalEntry(ctx context.Context, j ledger.NewJournal) (ledger.JournalWithLines, error) {
	if err := j.Validate(); err != nil {
		return ledger.JournalWithLines{}, err
	}

	date := j.Date
	if date.IsZero() {
		date = time.Now()
	}

	out := ledger.JournalWithLines{
		JournalEntry: ledger.JournalEntry{
			Description: j.Description,
			Date:        truncateToDay(date),
		},
	}

	err := s.conn.Transaction(func(tx *sql.Tx) error {
		const insertJournal = `INSERT INTO journal_entry (description, date) VALUES (?, ?)`

		res, err := tx.ExecContext(ctx, insertJournal, j.Description, out.Date.Format(ledger.DateLayout))
		if err != nil {
			return err
		}
		journalID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted journal id: %w", err)
		}
		out.ID = journalID

		const insertLine = `INSERT INTO ledger_entry (journal_entry_id, account_id, amount, side)
		VALUES (?, ?, ?, ?)`

		for _, l := range j.Lines {
			res, err := tx.ExecContext(ctx, insertLine, journalID, l.AccountID, l.Amount, string(l.Side))
			if err != nil {
				return err
			}
			lineID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read inserted line id: %w", err)
			}
			out.Lines = append(out.Lines, ledger.LedgerLine{
				ID:             lineID,
				JournalEntryID: journalID,
				AccountID:      l.AccountID,
				Amount:         l.Amount,
				Side:           l.Side,
			})
		}

		return checkBalanced(ctx, tx, journalID)
	})
	if err != nil {
		return ledger.JournalWithLines{}, translateError(err)
	}

	return out, nil
}

// checkBalanced evaluates the zero-sum invariant for one journal entry
// over the final state of its lines inside the given transaction. It is
// the SQLite stand-in for a deferred constraint trigger and must run as
// the last statement before commit.
func checkBalanced(ctx context.Context, tx *sql.Tx, journalID int64) error {
	const query = `SELECT COALESCE(SUM(CASE WHEN side = 'debit' THEN amount ELSE -amount END), 0)
	FROM ledger_entry WHERE journal_entry_id = ?`

	var imbalance int64
	if err := tx.QueryRowContext(ctx, query, journalID).Scan(&imbalance); err != nil {
		return fmt.Errorf("failed to check journal balance: %w", err)
	}
	if imbalance != 0 {
		return fmt.Errorf("%w: journal entry must be balanced (debits = credits), off by %d", ledger.ErrValidation, imbalance)
	}
	return nil
}

// GetJournalEntry returns one journal entry with its lines.
func (s *JournalStore) GetJournalEntry(ctx context.Context, id int64) (ledger.JournalWithLines, error) {
	const header = `SELECT id, description, date FROM journal_entry WHERE id = ?`

	var out ledger.JournalWithLines
	var dateText string
	err := s.conn.db.QueryRowContext(ctx, header, id).Scan(&out.ID, &out.Description, &dateText)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.JournalWithLines{}, fmt.Errorf("%w: journal entry %d", ledger.ErrNotFound, id)
	}
	if err != nil {
		return ledger.JournalWithLines{}, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	out.Date, err = parseDate(dateText)
	if err != nil {
		return ledger.JournalWithLines{}, err
	}

	const lines = `SELECT id, journal_entry_id, account_id, amount, side
	FROM ledger_entry WHERE journal_entry_id = ? ORDER BY id ASC`

	rows, err := s.conn.db.QueryContext(ctx, lines, id)
	if err != nil {
		return ledger.JournalWithLines{}, fmt.Errorf("failed to query ledger lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l ledger.LedgerLine
		var side string
		if err := rows.Scan(&l.ID, &l.JournalEntryID, &l.AccountID, &l.Amount, &side); err != nil {
			return ledger.JournalWithLines{}, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		l.Side = ledger.Side(side)
		out.Lines = append(out.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return ledger.JournalWithLines{}, err
	}
	return out, nil
}

// ListJournalEntries returns all journal entries with their lines. The
// flat join is ordered by journal id, so the grouped output is in entry
// creation order.
func (s *JournalStore) ListJournalEntries(ctx context.Context) ([]ledger.JournalWithLines, error) {
	const query = `
	SELECT j.id, j.description, j.date, l.id, l.account_id, l.amount, l.side
	FROM journal_entry j
	INNER JOIN ledger_entry l ON l.journal_entry_id = j.id
	ORDER BY j.id ASC, l.id ASC`

	return s.queryGrouped(ctx, query)
}

// ListJournalEntriesForAccount returns the journal entries holding lines
// for the given account, ordered by journal date ascending. Only the
// lines referencing the account are attached; this feeds per-account
// activity views.
func (s *JournalStore) ListJournalEntriesForAccount(ctx context.Context, accountID int64) ([]ledger.JournalWithLines, error) {
	const query = `
	SELECT j.id, j.description, j.date, l.id, l.account_id, l.amount, l.side
	FROM ledger_entry l
	INNER JOIN journal_entry j ON j.id = l.journal_entry_id
	WHERE l.account_id = ?
	ORDER BY j.date ASC, j.id ASC, l.id ASC`

	return s.queryGrouped(ctx, query, accountID)
}

func (s *JournalStore) queryGrouped(ctx context.Context, query string, args ...interface{}) ([]ledger.JournalWithLines, error) {
	rows, err := s.conn.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var flat []ledger.JournalRow
	for rows.Next() {
		var r ledger.JournalRow
		var dateText, side string
		if err := rows.Scan(&r.JournalID, &r.Description, &dateText, &r.LineID, &r.AccountID, &r.Amount, &side); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		r.Date, err = parseDate(dateText)
		if err != nil {
			return nil, err
		}
		r.Side = ledger.Side(side)
		flat = append(flat, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ledger.GroupJournalRows(flat), nil
}

// DeleteJournalEntry removes all lines of an entry and then the entry
// itself in one transaction. No partial deletion state is observable
// outside the transaction.
func (s *JournalStore) DeleteJournalEntry(ctx context.Context, id int64) error {
	err := s.conn.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entry WHERE journal_entry_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM journal_entry WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: journal entry %d", ledger.ErrNotFound, id)
		}
		return nil
	})
	return translateError(err)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(text string) (time.Time, error) {
	t, err := time.Parse(ledger.DateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse journal date %q: %w", text, err)
	}
	return t, nil
}

var _ ledger.JournalStore = (*JournalStore)(nil)
