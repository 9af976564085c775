package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
)

// JournalStore manages journal entries and their ledger lines in
// PostgreSQL.
type JournalStore struct {
	db *sql.DB
}

// NewJournalStore creates a new JournalStore instance.
func NewJournalStore(conn *Connection) *JournalStore {
	return &JournalStore{db: conn.db}
}

// CreateJournalEntry persists the header and all lines in a single
// transaction. The balance invariant is checked by the deferred
// check_journal_balance trigger, which fires at COMMIT over the final
// set of lines; an unbalanced entry fails the commit and the whole unit
// is rolled back, header included.
func (s *JournalStore) CreateJournalEntry(ctx context.Context, j ledger.NewJournal) (ledger.JournalWithLines, error) {
	if err := j.Validate(); err != nil {
		return ledger.JournalWithLines{}, err
	}

	date := j.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.JournalWithLines{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var out ledger.JournalWithLines

	const insertJournal = `INSERT INTO journal_entry (description, date)
	VALUES ($1, $2) RETURNING id, description, date`

	err = tx.QueryRowContext(ctx, insertJournal, j.Description, date).
		Scan(&out.ID, &out.Description, &out.Date)
	if err != nil {
		return ledger.JournalWithLines{}, translateError(err)
	}

	const insertLine = `INSERT INTO ledger_entry (journal_entry_id, account_id, amount, side)
	VALUES ($1, $2, $3, $4) RETURNING id`

	for _, l := range j.Lines {
		var lineID int64
		err = tx.QueryRowContext(ctx, insertLine, out.ID, l.AccountID, l.Amount, string(l.Side)).Scan(&lineID)
		if err != nil {
			return ledger.JournalWithLines{}, translateError(err)
		}
		out.Lines = append(out.Lines, ledger.LedgerLine{
			ID:             lineID,
			JournalEntryID: out.ID,
			AccountID:      l.AccountID,
			Amount:         l.Amount,
			Side:           l.Side,
		})
	}

	// The deferred trigger runs here, after all statements.
	if err = tx.Commit(); err != nil {
		return ledger.JournalWithLines{}, translateError(err)
	}
	return out, nil
}

// GetJournalEntry returns one journal entry with its lines.
func (s *JournalStore) GetJournalEntry(ctx context.Context, id int64) (ledger.JournalWithLines, error) {
	const header = `SELECT id, description, date FROM journal_entry WHERE id = $1`

	var out ledger.JournalWithLines
	err := s.db.QueryRowContext(ctx, header, id).Scan(&out.ID, &out.Description, &out.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.JournalWithLines{}, fmt.Errorf("%w: journal entry %d", ledger.ErrNotFound, id)
	}
	if err != nil {
		return ledger.JournalWithLines{}, fmt.Errorf("failed to scan journal entry: %w", err)
	}

	const lines = `SELECT id, journal_entry_id, account_id, amount, side
	FROM ledger_entry WHERE journal_entry_id = $1 ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, lines, id)
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

// ListJournalEntries returns all journal entries with their lines,
// grouped from the flat join in journal id order.
func (s *JournalStore) ListJournalEntries(ctx context.Context) ([]ledger.JournalWithLines, error) {
	const query = `
	SELECT j.id, j.description, j.date, l.id, l.account_id, l.amount, l.side
	FROM journal_entry j
	INNER JOIN ledger_entry l ON l.journal_entry_id = j.id
	ORDER BY j.id ASC, l.id ASC`

	return s.queryGrouped(ctx, query)
}

// ListJournalEntriesForAccount returns the journal entries holding lines
// for the given account, ordered by journal date ascending.
func (s *JournalStore) ListJournalEntriesForAccount(ctx context.Context, accountID int64) ([]ledger.JournalWithLines, error) {
	const query = `
	SELECT j.id, j.description, j.date, l.id, l.account_id, l.amount, l.side
	FROM ledger_entry l
	INNER JOIN journal_entry j ON j.id = l.journal_entry_id
	WHERE l.account_id = $1
	ORDER BY j.date ASC, j.id ASC, l.id ASC`

	return s.queryGrouped(ctx, query, accountID)
}

func (s *JournalStore) queryGrouped(ctx context.Context, query string, args ...interface{}) ([]ledger.JournalWithLines, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var flat []ledger.JournalRow
	for rows.Next() {
		var r ledger.JournalRow
		var side string
		if err := rows.Scan(&r.JournalID, &r.Description, &r.Date, &r.LineID, &r.AccountID, &r.Amount, &side); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
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
// itself in one transaction.
func (s *JournalStore) DeleteJournalEntry(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM ledger_entry WHERE journal_entry_id = $1`, id); err != nil {
		return translateError(err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM journal_entry WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		err = fmt.Errorf("%w: journal entry %d", ledger.ErrNotFound, id)
		return err
	}

	if err = tx.Commit(); err != nil {
		return translateError(err)
	}
	return nil
}

var _ ledger.JournalStore = (*JournalStore)(nil)
