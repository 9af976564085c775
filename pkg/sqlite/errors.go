package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
)

// translateError maps SQLite constraint violations onto the ledger error
// taxonomy so callers never see driver-specific errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ledger.ErrNotFound, err)
	}

	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}

	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", ledger.ErrConflict, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %v", ledger.ErrReferential, err)
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return fmt.Errorf("%w: %v", ledger.ErrValidation, err)
	}
	return err
}
