package ledger

import "errors"

// Error taxonomy shared by all storage backends. Every error returned by
// an AccountStore or JournalStore wraps exactly one of these sentinels,
// so callers can classify failures with errors.Is regardless of which
// database produced them.
var (
	// ErrValidation marks malformed input or a failed balance invariant
	// at commit time. Recoverable by correcting the input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a lookup by id or number with no matching row.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a unique-constraint violation, such as a
	// duplicate account number.
	ErrConflict = errors.New("already exists")

	// ErrReferential marks a foreign-key violation: a line referencing a
	// nonexistent account, or an account deletion blocked by existing
	// ledger lines.
	ErrReferential = errors.New("referential integrity violation")
)
