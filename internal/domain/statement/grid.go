// Package statement normalizes raw bank statement exports into canonical
// transactions: locating the header row inside a noisy grid, mapping observed
// column labels to canonical fields, and coercing locale-formatted cells.
package statement

// RawGrid is the in-memory form of a tabular export: ordered rows of string
// cells, no header assumed. It is treated as immutable by every stage.
type RawGrid [][]string

// Cell returns the value at (row, col), or "" when out of range.
func (g RawGrid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Row returns the row at the given index, or nil when out of range.
func (g RawGrid) Row(row int) []string {
	if row < 0 || row >= len(g) {
		return nil
	}
	return g[row]
}
