package statement

import "strings"

// DefaultScanDepth bounds how many leading rows are considered header
// candidates. Exports put account metadata above the table, rarely more
// than a couple dozen lines of it.
const DefaultScanDepth = 30

// Header keyword sets, matched case-insensitively as substrings. French
// exports use accented and unaccented spellings interchangeably.
var (
	labelKeywords    = []string{"libellé", "libelle", "lib"}
	movementKeywords = []string{"débit", "debit", "crédit", "credit"}
)

// LocateHeader scans the grid for the row that plausibly carries the column
// headers. It never fails: when no candidate satisfies the header predicate,
// row 0 is returned with degraded=true so the caller can surface a warning.
// Required-column validation downstream is the hard gate.
func LocateHeader(grid RawGrid, scanDepth int) (row int, degraded bool) {
	if scanDepth <= 0 {
		scanDepth = DefaultScanDepth
	}

	// Pass 1: treat each candidate row as the header row and test its cells.
	limit := scanDepth
	if limit > len(grid) {
		limit = len(grid)
	}
	for i := 0; i < limit; i++ {
		if isHeaderRow(grid[i]) {
			return i, false
		}
	}

	// Pass 2: look for a row whose joined text satisfies the same predicate.
	// Catches merged or oddly split header cells.
	for i, cells := range grid {
		joined := strings.ToLower(strings.Join(cells, " "))
		if matchesHeaderText(joined) {
			return i, false
		}
	}

	return 0, true
}

// isHeaderRow reports whether the cells, read as column labels, name a date
// column, a label column, and at least one debit or credit column.
func isHeaderRow(cells []string) bool {
	var hasDate, hasLabel, hasMovement bool
	for _, c := range cells {
		lc := strings.ToLower(strings.TrimSpace(c))
		if lc == "" {
			continue
		}
		if strings.Contains(lc, "date") {
			hasDate = true
		}
		if containsAny(lc, labelKeywords) {
			hasLabel = true
		}
		if containsAny(lc, movementKeywords) {
			hasMovement = true
		}
	}
	return hasDate && hasLabel && hasMovement
}

func matchesHeaderText(text string) bool {
	return strings.Contains(text, "date") &&
		containsAny(text, labelKeywords) &&
		containsAny(text, movementKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
