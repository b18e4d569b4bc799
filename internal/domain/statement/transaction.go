package statement

import (
	"time"

	"github.com/statementkit/tvareport/pkg/money"
)

// Transaction is the canonical unit flowing through the pipeline. Amount is
// signed: positive for credits (income), negative for debits (expense), and
// never zero, since rows that would produce a zero amount are dropped upstream.
//
// Category and TaxCategory usually coincide. TaxCategory is the rate key
// assigned by classification and always names a configured rule (or the
// default); Category is the reporting bucket, which the direction policy may
// remap (see the categorize package).
type Transaction struct {
	Date        time.Time
	Label       string
	Amount      *money.Money
	Category    string
	TaxCategory string
	// TaxRate is a snapshot of the rate bound to TaxCategory at
	// classification time; later rule edits do not retroactively apply.
	TaxRate float64
}
