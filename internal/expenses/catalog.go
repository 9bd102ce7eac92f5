package expenses

import "expense-ledger/internal/models"

// CategoryDef defines the display properties of a category.
type CategoryDef struct {
	ID    models.Category `json:"id"`
	Label string          `json:"label"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
}

var catalog = []CategoryDef{
	{models.CategoryFood, "Food & Dining", "🍕", "#60a5fa"},
	{models.CategoryTransport, "Transport", "🚗", "#a78bfa"},
	{models.CategoryShopping, "Shopping", "🛍️", "#34d399"},
	{models.CategoryEntertainment, "Entertainment", "🎬", "#f472b6"},
	{models.CategoryBills, "Bills & Utilities", "💡", "#fbbf24"},
	{models.CategoryHealth, "Health", "🏥", "#f87171"},
	{models.CategoryEducation, "Education", "📚", "#818cf8"},
	{models.CategoryOther, "Other", "📦", "#94a3b8"},
}

// Catalog returns the category definitions in display order.
func Catalog() []CategoryDef {
	return append([]CategoryDef(nil), catalog...)
}

// Lookup returns the definition of c, falling back to "other".
func Lookup(c models.Category) CategoryDef {
	for _, def := range catalog {
		if def.ID == c {
			return def
		}
	}
	return catalog[len(catalog)-1]
}

func catalogIndex(c models.Category) int {
	for i, def := range catalog {
		if def.ID == c {
			return i
		}
	}
	return len(catalog)
}
