package statement

import (
	"github.com/statementkit/tvareport/pkg/money"
)

// Normalize builds canonical transactions from the rows following headerRow.
//
// Debit and credit cells are coerced independently; absent or unparseable
// cells count as zero rather than failing the row, because exports routinely
// carry footer and subtotal rows. A row is dropped when its date does not
// parse or when debit and credit are both zero. Row order is preserved.
func Normalize(grid RawGrid, headerRow int, hm HeaderMap) []Transaction {
	txs := make([]Transaction, 0, len(grid))

	for row := headerRow + 1; row < len(grid); row++ {
		date, err := ParseDate(grid.Cell(row, hm[FieldDate]))
		if err != nil {
			continue
		}

		debit := coerceAmount(grid.Cell(row, hm[FieldDebit]))
		credit := coerceAmount(grid.Cell(row, hm[FieldCredit]))
		if debit.IsZero() && credit.IsZero() {
			continue
		}

		txs = append(txs, Transaction{
			Date:   date,
			Label:  CleanLabel(grid.Cell(row, hm[FieldLabel])),
			Amount: credit.Subtract(debit),
		})
	}
	return txs
}

// coerceAmount parses a debit/credit cell as a non-negative value,
// treating anything unparseable as zero.
func coerceAmount(cell string) *money.Money {
	m, err := money.Parse(cell)
	if err != nil {
		return money.Zero()
	}
	return m.Abs()
}
