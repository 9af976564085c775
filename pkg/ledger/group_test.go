package ledger

import (
	"testing"
	"time"
)

func TestGroupJournalRows(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC)
	}

	rows := []JournalRow{
		{JournalID: 7, Description: "Rent", Date: day(5), LineID: 1, AccountID: 10, Amount: 1000, Side: Debit},
		{JournalID: 7, Description: "Rent", Date: day(5), LineID: 2, AccountID: 20, Amount: 1000, Side: Credit},
		{JournalID: 3, Description: "Sale", Date: day(1), LineID: 3, AccountID: 10, Amount: 500, Side: Credit},
		{JournalID: 3, Description: "Sale", Date: day(1), LineID: 4, AccountID: 30, Amount: 500, Side: Debit},
	}

	entries := GroupJournalRows(rows)

	if len(entries) != 2 {
		t.Fatalf("GroupJournalRows() returned %d entries, expected 2", len(entries))
	}

	// First-seen order, not id order: entry 7 appeared first in the rows.
	if entries[0].ID != 7 || entries[1].ID != 3 {
		t.Errorf("entry order = [%d, %d], expected [7, 3]", entries[0].ID, entries[1].ID)
	}
	if entries[0].Description != "Rent" || !entries[0].Date.Equal(day(5)) {
		t.Errorf("entry 7 header = %q %v, expected Rent %v", entries[0].Description, entries[0].Date, day(5))
	}
	if len(entries[0].Lines) != 2 || len(entries[1].Lines) != 2 {
		t.Fatalf("line counts = [%d, %d], expected [2, 2]", len(entries[0].Lines), len(entries[1].Lines))
	}

	line := entries[1].Lines[0]
	if line.ID != 3 || line.JournalEntryID != 3 || line.AccountID != 10 || line.Amount != 500 || line.Side != Credit {
		t.Errorf("unexpected first line of entry 3: %+v", line)
	}
}

func TestGroupJournalRowsEmpty(t *testing.T) {
	if got := GroupJournalRows(nil); len(got) != 0 {
		t.Errorf("GroupJournalRows(nil) returned %d entries, expected 0", len(got))
	}
}
