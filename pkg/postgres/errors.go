package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
)

// SQLSTATE codes of interest.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidEnumInput    = "22P02"
	codeRaiseException      = "P0001" // balance trigger
)

// translateError maps PostgreSQL errors onto the ledger error taxonomy
// so callers never see driver-specific errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ledger.ErrNotFound, err)
	}

	var pe *pq.Error
	if !errors.As(err, &pe) {
		return err
	}

	switch string(pe.Code) {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", ledger.ErrConflict, pe.Message)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", ledger.ErrReferential, pe.Message)
	case codeCheckViolation, codeInvalidEnumInput, codeRaiseException:
		return fmt.Errorf("%w: %s", ledger.ErrValidation, pe.Message)
	}
	return err
}
