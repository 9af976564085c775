package ledger

import "time"

// JournalRow is one row of a flat journal/ledger join as produced by the
// storage backends.
type JournalRow struct {
	JournalID   int64
	Description string
	Date        time.Time
	LineID      int64
	AccountID   int64
	Amount      int64
	Side        Side
}

// GroupJournalRows reassembles a flat join result into journal entries
// with nested lines. Grouping is keyed by journal id and preserves the
// order in which each id is first encountered, so the output order
// follows the ordering of the underlying query.
func GroupJournalRows(rows []JournalRow) []JournalWithLines {
	index := make(map[int64]int, len(rows))
	var entries []JournalWithLines

	for _, r := range rows {
		i, ok := index[r.JournalID]
		if !ok {
			i = len(entries)
			index[r.JournalID] = i
			entries = append(entries, JournalWithLines{
				JournalEntry: JournalEntry{
					ID:          r.JournalID,
					Description: r.Description,
					Date:        r.Date,
				},
			})
		}
		entries[i].Lines = append(entries[i].Lines, LedgerLine{
			ID:             r.LineID,
			JournalEntryID: r.JournalID,
			AccountID:      r.AccountID,
			Amount:         r.Amount,
			Side:           r.Side,
		})
	}

	return entries
}
