package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
)

// AccountStore manages the chart of accounts in PostgreSQL.
type AccountStore struct {
	db *sql.DB
}

// NewAccountStore creates a new AccountStore instance.
func NewAccountStore(conn *Connection) *AccountStore {
	return &AccountStore{db: conn.db}
}

// CreateAccount inserts a new account. Duplicate account numbers fail
// with ledger.ErrConflict through the UNIQUE constraint.
func (s *AccountStore) CreateAccount(ctx context.Context, acc ledger.NewAccount) (ledger.Account, error) {
	if err := acc.Validate(); err != nil {
		return ledger.Account{}, err
	}

	const query = `INSERT INTO account (account_number, name, type, normal_balance)
	VALUES ($1, $2, $3, $4)
	RETURNING id, account_number, name, type, normal_balance`

	row := s.db.QueryRowContext(ctx, query, acc.Number, acc.Name, acc.Type, string(acc.NormalBalance))
	created, err := scanAccount(row)
	if err != nil {
		return ledger.Account{}, translateError(err)
	}
	return created, nil
}

// GetAccountByNumber returns the account with the given account number.
func (s *AccountStore) GetAccountByNumber(ctx context.Context, number string) (ledger.Account, error) {
	const query = `SELECT id, account_number, name, type, normal_balance
	FROM account WHERE account_number = $1`

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, number))
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Account{}, fmt.Errorf("%w: account", ledger.ErrNotFound)
	}
	if err != nil {
		return ledger.Account{}, err
	}
	return acc, nil
}

func scanAccount(row *sql.Row) (ledger.Account, error) {
	var acc ledger.Account
	var side string
	if err := row.Scan(&acc.ID, &acc.Number, &acc.Name, &acc.Type, &side); err != nil {
		return ledger.Account{}, err
	}
	acc.NormalBalance = ledger.Side(side)
	return acc, nil
}

// ListAccounts returns all accounts ordered by account number.
func (s *AccountStore) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	const query = `SELECT id, account_number, name, type, normal_balance
	FROM account ORDER BY account_number ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		var acc ledger.Account
		var side string
		if err := rows.Scan(&acc.ID, &acc.Number, &acc.Name, &acc.Type, &side); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		acc.NormalBalance = ledger.Side(side)
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount applies a partial update to an account. An empty update
// returns the current row unchanged.
func (s *AccountStore) UpdateAccount(ctx context.Context, id int64, upd ledger.AccountUpdate) (ledger.Account, error) {
	if err := upd.Validate(); err != nil {
		return ledger.Account{}, err
	}
	if upd.Empty() {
		const query = `SELECT id, account_number, name, type, normal_balance
		FROM account WHERE id = $1`
		acc, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Account{}, fmt.Errorf("%w: account %d", ledger.ErrNotFound, id)
		}
		return acc, err
	}

	query := `UPDATE account SET `
	var args []interface{}
	appendSet := func(column string, value interface{}) {
		if len(args) > 0 {
			query += ", "
		}
		args = append(args, value)
		query += fmt.Sprintf("%s = $%d", column, len(args))
	}
	if upd.Number != nil {
		appendSet("account_number", *upd.Number)
	}
	if upd.Name != nil {
		appendSet("name", *upd.Name)
	}
	if upd.Type != nil {
		appendSet("type", *upd.Type)
	}
	if upd.NormalBalance != nil {
		appendSet("normal_balance", string(*upd.NormalBalance))
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d RETURNING id, account_number, name, type, normal_balance", len(args))

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Account{}, fmt.Errorf("%w: account %d", ledger.ErrNotFound, id)
	}
	if err != nil {
		return ledger.Account{}, translateError(err)
	}
	return acc, nil
}

// DeleteAccount removes an account. The FK from ledger_entry blocks the
// deletion with ledger.ErrReferential while any line references it.
func (s *AccountStore) DeleteAccount(ctx context.Context, id int64) error {
	const query = `DELETE FROM account WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %d", ledger.ErrNotFound, id)
	}
	return nil
}

// ListAccountsWithBalances returns every account with its derived
// balance, ordered by account number. The aggregate is recomputed from
// the committed ledger on every call.
func (s *AccountStore) ListAccountsWithBalances(ctx context.Context) ([]ledger.AccountBalance, error) {
	const query = `
	SELECT a.id, a.account_number, a.name, a.type, a.normal_balance,
	       COALESCE(SUM(CASE WHEN l.side = a.normal_balance THEN l.amount ELSE -l.amount END), 0) AS balance
	FROM account a
	LEFT JOIN ledger_entry l ON l.account_id = a.id
	GROUP BY a.id, a.account_number, a.name, a.type, a.normal_balance
	ORDER BY a.account_number ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list account balances: %w", err)
	}
	defer rows.Close()

	var balances []ledger.AccountBalance
	for rows.Next() {
		var ab ledger.AccountBalance
		var side string
		if err := rows.Scan(&ab.ID, &ab.Number, &ab.Name, &ab.Type, &side, &ab.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account balance: %w", err)
		}
		ab.NormalBalance = ledger.Side(side)
		balances = append(balances, ab)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return balances, nil
}

var _ ledger.AccountStore = (*AccountStore)(nil)
