package aggregate

import (
	"errors"
	"fmt"

	"github.com/wombat6/stacktrack/internal/model"
)

// ErrMalformedTransaction marks input transactions that cannot be charted.
var ErrMalformedTransaction = errors.New("malformed transaction")

// TransactionError describes one malformed transaction.
type TransactionError struct {
	Index       int
	TxID        string
	Description string
}

func (e *TransactionError) Error() string {
	if e.TxID != "" {
		return fmt.Sprintf("transaction %d (%s): %s", e.Index, e.TxID, e.Description)
	}
	return fmt.Sprintf("transaction %d: %s", e.Index, e.Description)
}

func (e *TransactionError) Unwrap() error {
	return ErrMalformedTransaction
}

// Validate checks every transaction and returns one error per violation.
func Validate(txs []model.Transaction) []*TransactionError {
	var errs []*TransactionError
	for i, tx := range txs {
		fail := func(format string, args ...any) {
			errs = append(errs, &TransactionError{
				Index:       i,
				TxID:        tx.TxID,
				Description: fmt.Sprintf(format, args...),
			})
		}

		switch {
		case tx.Time == 0:
			fail("missing timestamp")
		case tx.Time < 0:
			fail("timestamp %d is before 1970", tx.Time)
		}
		if tx.Amount.IsNegative() {
			fail("amount %s is negative", tx.Amount)
		}
		if !tx.Direction.Valid() {
			fail("unknown direction %q", tx.Direction)
		}
	}
	return errs
}
