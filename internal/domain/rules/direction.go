package rules

// Direction-specific reporting categories. Rule authors may bind keywords to
// business categories rather than VAT types; when such a category lands on a
// transaction flowing the wrong way (an expense category on a credit, or an
// income category on a debit), reporting remaps it to OtherCategory. This
// mirrors the historical behavior of the rule files and is a deliberate,
// documented policy, not something the engine arbitrates.

// OtherCategory is the reporting bucket for direction mismatches.
const OtherCategory = "Autre"

var expenseCategories = map[string]struct{}{
	"Fournitures Bureau":    {},
	"Matériel Informatique": {},
	"Services Pro":          {},
	"Déplacements":          {},
	"Repas Pro":             {},
	"Télécom":               {},
	"Logiciels/Abonnements": {},
	"Formation":             {},
	"Cotisations":           {},
	"Loyer/Immobilier":      {},
	"Publicité/Marketing":   {},
	"Frais Bancaires":       {},
}

var incomeCategories = map[string]struct{}{
	"Prestation de Services": {},
	"Vente de Produits":      {},
	"Remboursements":         {},
	"Subventions":            {},
}

// IsExpenseCategory reports whether the category is expense-only.
func IsExpenseCategory(category string) bool {
	_, ok := expenseCategories[category]
	return ok
}

// IsIncomeCategory reports whether the category is income-only.
func IsIncomeCategory(category string) bool {
	_, ok := incomeCategories[category]
	return ok
}
