package ledger

import (
	"fmt"
	"time"
)

// MaxAccountNumberLen bounds the account number, matching the varchar(10)
// column in the schema.
const MaxAccountNumberLen = 10

// MinJournalLines is the minimum number of ledger lines per journal
// entry. A single line can never balance.
const MinJournalLines = 2

// NewAccount carries the fields for creating an account.
type NewAccount struct {
	Number        string
	Name          string
	Type          string
	NormalBalance Side
}

// Validate checks the field-level constraints on a new account.
func (a NewAccount) Validate() error {
	if a.Number == "" {
		return fmt.Errorf("%w: account number must not be empty", ErrValidation)
	}
	if len(a.Number) > MaxAccountNumberLen {
		return fmt.Errorf("%w: account number %q exceeds %d characters", ErrValidation, a.Number, MaxAccountNumberLen)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: account name must not be empty", ErrValidation)
	}
	if a.Type == "" {
		return fmt.Errorf("%w: account type must not be empty", ErrValidation)
	}
	if !a.NormalBalance.Valid() {
		return fmt.Errorf("%w: normal balance must be %q or %q, got %q", ErrValidation, Debit, Credit, a.NormalBalance)
	}
	return nil
}

// AccountUpdate carries a partial update of an account's mutable fields.
// Nil fields are left unchanged.
type AccountUpdate struct {
	Number        *string
	Name          *string
	Type          *string
	NormalBalance *Side
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Number == nil && u.Name == nil && u.Type == nil && u.NormalBalance == nil
}

// Validate checks the provided fields of a partial update.
func (u AccountUpdate) Validate() error {
	if u.Number != nil {
		if *u.Number == "" {
			return fmt.Errorf("%w: account number must not be empty", ErrValidation)
		}
		if len(*u.Number) > MaxAccountNumberLen {
			return fmt.Errorf("%w: account number %q exceeds %d characters", ErrValidation, *u.Number, MaxAccountNumberLen)
		}
	}
	if u.Name != nil && *u.Name == "" {
		return fmt.Errorf("%w: account name must not be empty", ErrValidation)
	}
	if u.Type != nil && *u.Type == "" {
		return fmt.Errorf("%w: account type must not be empty", ErrValidation)
	}
	if u.NormalBalance != nil && !u.NormalBalance.Valid() {
		return fmt.Errorf("%w: normal balance must be %q or %q, got %q", ErrValidation, Debit, Credit, *u.NormalBalance)
	}
	return nil
}

// NewLine carries one ledger line of a journal entry being created.
type NewLine struct {
	AccountID int64
	Amount    int64
	Side      Side
}

// NewJournal carries the header and lines of a journal entry being
// created. A zero Date means today.
type NewJournal struct {
	Description string
	Date        time.Time
	Lines       []NewLine
}

// Validate checks the input-level constraints on a new journal entry.
// The balance invariant itself is not checked here: it is enforced by
// the store at transaction-commit time over the persisted lines.
func (j NewJournal) Validate() error {
	if j.Description == "" {
		return fmt.Errorf("%w: journal description must not be empty", ErrValidation)
	}
	if len(j.Lines) < MinJournalLines {
		return fmt.Errorf("%w: journal entry requires at least %d ledger lines, got %d", ErrValidation, MinJournalLines, len(j.Lines))
	}
	for i, l := range j.Lines {
		if l.AccountID <= 0 {
			return fmt.Errorf("%w: line %d: account id must be positive", ErrValidation, i)
		}
		if l.Amount <= 0 {
			return fmt.Errorf("%w: line %d: amount must be positive, got %d", ErrValidation, i, l.Amount)
		}
		if !l.Side.Valid() {
			return fmt.Errorf("%w: line %d: side must be %q or %q, got %q", ErrValidation, i, Debit, Credit, l.Side)
		}
	}
	return nil
}
