package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
)

// newTestConn opens a fresh database in a per-test temp directory.
func newTestConn(t *testing.T) *Connection {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustCreateAccount(t *testing.T, store *AccountStore, number, name, accType string, normal ledger.Side) ledger.Account {
	t.Helper()

	acc, err := store.CreateAccount(context.Background(), ledger.NewAccount{
		Number:        number,
		Name:          name,
		Type:          accType,
		NormalBalance: normal,
	})
	if err != nil {
		t.Fatalf("CreateAccount(%s) failed: %v", number, err)
	}
	return acc
}

// countRows returns the number of rows in a table.
func countRows(t *testing.T, conn *Connection, table string) int {
	t.Helper()

	var n int
	if err := conn.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return n
}
