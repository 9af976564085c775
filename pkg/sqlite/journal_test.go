package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateJournalEntry(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)
	bank := mustCreateAccount(t, accounts, "2800", "Bank", "asset", ledger.Debit)

	created, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Test Journal",
		Date:        day(2024, 2, 1),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 5000, Side: ledger.Debit},
			{AccountID: bank.ID, Amount: 5000, Side: ledger.Credit},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournalEntry() failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("created journal entry should have a non-zero id")
	}
	if len(created.Lines) != 2 {
		t.Fatalf("created entry has %d lines, expected 2", len(created.Lines))
	}
	for _, l := range created.Lines {
		if l.ID == 0 || l.JournalEntryID != created.ID {
			t.Errorf("line not linked to its entry: %+v", l)
		}
	}

	fetched, err := journal.GetJournalEntry(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetJournalEntry() failed: %v", err)
	}
	if fetched.Description != "Test Journal" {
		t.Errorf("description = %q, expected %q", fetched.Description, "Test Journal")
	}
	if !fetched.Date.Equal(day(2024, 2, 1)) {
		t.Errorf("date = %v, expected %v", fetched.Date, day(2024, 2, 1))
	}
	if len(fetched.Lines) != 2 {
		t.Errorf("fetched entry has %d lines, expected 2", len(fetched.Lines))
	}
}

func TestCreateJournalEntryDefaultsDateToToday(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)
	bank := mustCreateAccount(t, accounts, "2800", "Bank", "asset", ledger.Debit)

	created, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Undated entry",
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 100, Side: ledger.Debit},
			{AccountID: bank.ID, Amount: 100, Side: ledger.Credit},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournalEntry() failed: %v", err)
	}

	today := time.Now().Format(ledger.DateLayout)
	if created.Date.Format(ledger.DateLayout) != today {
		t.Errorf("defaulted date = %v, expected today (%s)", created.Date, today)
	}
}

func TestCreateUnbalancedJournalEntryRollsBack(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)
	ap := mustCreateAccount(t, accounts, "2000", "AP", "liability", ledger.Credit)

	_, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Unbalanced Journal",
		Date:        day(2024, 2, 1),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 5000, Side: ledger.Debit},
			{AccountID: ap.ID, Amount: 4000, Side: ledger.Credit},
		},
	})
	if !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("unbalanced entry error = %v, expected ErrValidation", err)
	}

	// Atomicity: neither the header nor any line may survive.
	if n := countRows(t, conn, "journal_entry"); n != 0 {
		t.Errorf("journal_entry has %d rows after rollback, expected 0", n)
	}
	if n := countRows(t, conn, "ledger_entry"); n != 0 {
		t.Errorf("ledger_entry has %d rows after rollback, expected 0", n)
	}

	// Both balances must remain zero.
	balances, err := accounts.ListAccountsWithBalances(ctx)
	if err != nil {
		t.Fatalf("ListAccountsWithBalances() failed: %v", err)
	}
	for _, b := range balances {
		if b.Balance != 0 {
			t.Errorf("account %s balance = %d after rollback, expected 0", b.Number, b.Balance)
		}
	}
}

func TestCreateJournalEntryUnknownAccount(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)

	_, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Invalid Account Journal",
		Date:        day(2024, 2, 1),
		Lines: []ledger.NewLine{
			{AccountID: 9999, Amount: 5000, Side: ledger.Debit},
			{AccountID: cash.ID, Amount: 5000, Side: ledger.Credit},
		},
	})
	if !errors.Is(err, ledger.ErrReferential) {
		t.Fatalf("unknown account error = %v, expected ErrReferential", err)
	}

	// The whole unit rolls back, no orphaned header.
	if n := countRows(t, conn, "journal_entry"); n != 0 {
		t.Errorf("journal_entry has %d rows after rollback, expected 0", n)
	}
}

func TestCreateJournalEntryTooFewLines(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)

	_, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Single line",
		Date:        day(2024, 2, 1),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 5000, Side: ledger.Debit},
		},
	})
	if !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("single-line entry error = %v, expected ErrValidation", err)
	}
}

func TestGetJournalEntryNotFound(t *testing.T) {
	conn := newTestConn(t)
	journal := NewJournalStore(conn)

	_, err := journal.GetJournalEntry(context.Background(), 9999)
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("missing entry error = %v, expected ErrNotFound", err)
	}
}

func TestListJournalEntries(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)
	bank := mustCreateAccount(t, accounts, "2800", "Bank", "asset", ledger.Debit)
	revenue := mustCreateAccount(t, accounts, "4000", "Revenue", "revenue", ledger.Credit)

	first, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Journal 1",
		Date:        day(2024, 2, 1),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 3000, Side: ledger.Debit},
			{AccountID: bank.ID, Amount: 3000, Side: ledger.Credit},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournalEntry() failed: %v", err)
	}

	second, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Journal 2",
		Date:        day(2024, 2, 2),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 7000, Side: ledger.Debit},
			{AccountID: revenue.ID, Amount: 7000, Side: ledger.Credit},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournalEntry() failed: %v", err)
	}

	entries, err := journal.ListJournalEntries(ctx)
	if err != nil {
		t.Fatalf("ListJournalEntries() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListJournalEntries() returned %d entries, expected 2", len(entries))
	}
	if entries[0].ID != first.ID || entries[1].ID != second.ID {
		t.Errorf("entry order = [%d, %d], expected [%d, %d]", entries[0].ID, entries[1].ID, first.ID, second.ID)
	}
	if len(entries[0].Lines) != 2 || len(entries[1].Lines) != 2 {
		t.Errorf("line counts = [%d, %d], expected [2, 2]", len(entries[0].Lines), len(entries[1].Lines))
	}
}

func TestListJournalEntriesForAccount(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)
	bank := mustCreateAccount(t, accounts, "2800", "Bank", "asset", ledger.Debit)

	// Created out of date order on purpose.
	_, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Later Transaction",
		Date:        day(2024, 2, 5),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 1000, Side: ledger.Debit},
			{AccountID: bank.ID, Amount: 1000, Side: ledger.Credit},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournalEntry() failed: %v", err)
	}

	_, err = journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Earlier Transaction",
		Date:        day(2024, 2, 1),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 500, Side: ledger.Credit},
			{AccountID: bank.ID, Amount: 500, Side: ledger.Debit},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournalEntry() failed: %v", err)
	}

	entries, err := journal.ListJournalEntriesForAccount(ctx, cash.ID)
	if err != nil {
		t.Fatalf("ListJournalEntriesForAccount() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListJournalEntriesForAccount() returned %d entries, expected 2", len(entries))
	}
	if entries[0].Description != "Earlier Transaction" || entries[1].Description != "Later Transaction" {
		t.Errorf("entry order = [%q, %q], expected earliest first", entries[0].Description, entries[1].Description)
	}

	// Only the lines touching the requested account are attached.
	for _, e := range entries {
		if len(e.Lines) != 1 {
			t.Fatalf("entry %d carries %d lines, expected 1", e.ID, len(e.Lines))
		}
		if e.Lines[0].AccountID != cash.ID {
			t.Errorf("entry %d carries a line for account %d, expected %d", e.ID, e.Lines[0].AccountID, cash.ID)
		}
	}
}

func TestListJournalEntriesForAccountEmpty(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)

	entries, err := journal.ListJournalEntriesForAccount(ctx, cash.ID)
	if err != nil {
		t.Fatalf("ListJournalEntriesForAccount() failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ListJournalEntriesForAccount() returned %d entries, expected 0", len(entries))
	}
}

func TestDeleteJournalEntry(t *testing.T) {
	conn := newTestConn(t)
	accounts := NewAccountStore(conn)
	journal := NewJournalStore(conn)
	ctx := context.Background()

	cash := mustCreateAccount(t, accounts, "1000", "Cash", "asset", ledger.Debit)
	bank := mustCreateAccount(t, accounts, "2800", "Bank", "asset", ledger.Debit)

	created, err := journal.CreateJournalEntry(ctx, ledger.NewJournal{
		Description: "Deletable Journal Entry",
		Date:        day(2024, 2, 1),
		Lines: []ledger.NewLine{
			{AccountID: cash.ID, Amount: 5000, Side: ledger.Debit},
			{AccountID: bank.ID, Amount: 5000, Side: ledger.Credit},
		},
	})
	if err != nil {
		t.Fatalf("CreateJournalEntry() failed: %v", err)
	}

	if err := journal.DeleteJournalEntry(ctx, created.ID); err != nil {
		t.Fatalf("DeleteJournalEntry() failed: %v", err)
	}

	_, err = journal.GetJournalEntry(ctx, created.ID)
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("deleted entry lookup error = %v, expected ErrNotFound", err)
	}
	if n := countRows(t, conn, "ledger_entry"); n != 0 {
		t.Errorf("ledger_entry has %d rows after deletion, expected 0", n)
	}
}

func TestDeleteJournalEntryNotFound(t *testing.T) {
	conn := newTestConn(t)
	journal := NewJournalStore(conn)

	err := journal.DeleteJournalEntry(context.Background(), 9999)
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("unknown id error = %v, expected ErrNotFound", err)
	}
}
