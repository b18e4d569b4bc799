package statement

import (
	"fmt"
	"strings"
)

// Field names a canonical statement column.
type Field string

const (
	FieldDate   Field = "Date"
	FieldLabel  Field = "Label"
	FieldDebit  Field = "Debit"
	FieldCredit Field = "Credit"
)

// requiredFields in canonical order, used for deterministic error reporting.
var requiredFields = []Field{FieldDate, FieldLabel, FieldDebit, FieldCredit}

// HeaderMap maps each canonical field to the observed column index.
type HeaderMap map[Field]int

// SchemaResolutionError reports canonical columns that could not be resolved
// from the observed headers. It is fatal for the document: retrying with the
// same input reproduces it.
type SchemaResolutionError struct {
	Missing  []Field
	Observed []string
}

func (e *SchemaResolutionError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		missing[i] = string(f)
	}
	return fmt.Sprintf("cannot resolve required columns %s from headers %q",
		strings.Join(missing, ", "), e.Observed)
}

// fieldMatchers in priority order: the first matching rule claims a column.
var fieldMatchers = []struct {
	field    Field
	keywords []string
}{
	{FieldDate, []string{"date"}},
	{FieldLabel, []string{"libellé", "libelle", "lib"}},
	{FieldDebit, []string{"débit", "debit"}},
	{FieldCredit, []string{"crédit", "credit"}},
}

// ResolveColumns maps the chosen header row's labels to canonical fields by
// substring matching. Per column the first matching rule wins; per field the
// first matching column (in column order) wins. Missing required fields make
// the whole resolution fail.
func ResolveColumns(headers []string) (HeaderMap, error) {
	hm := make(HeaderMap, len(requiredFields))

	for col, header := range headers {
		lc := strings.ToLower(strings.TrimSpace(header))
		if lc == "" {
			continue
		}
		for _, m := range fieldMatchers {
			if !containsAny(lc, m.keywords) {
				continue
			}
			if _, taken := hm[m.field]; !taken {
				hm[m.field] = col
			}
			break // first matching rule claims this column
		}
	}

	var missing []Field
	for _, f := range requiredFields {
		if _, ok := hm[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		observed := make([]string, len(headers))
		copy(observed, headers)
		return nil, &SchemaResolutionError{Missing: missing, Observed: observed}
	}
	return hm, nil
}
