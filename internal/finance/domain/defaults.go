package domain

// StarterCategory describes one entry of the catalog seeded for new users.
type StarterCategory struct {
	Name      string
	Kind      string
	Role      string
	SortOrder int
}

// StarterCategories is the catalog created for every user at registration.
// All entries are persisted with is_default = true and is_visible = true.
// Exactly one entry per kind carries RoleFallback.
var StarterCategories = []StarterCategory{
	{Name: "Salary", Kind: KindIncome, Role: RoleNone, SortOrder: 1},
	{Name: "Investments", Kind: KindIncome, Role: RoleNone, SortOrder: 2},
	{Name: "Freelance", Kind: KindIncome, Role: RoleNone, SortOrder: 3},
	{Name: "Other Income", Kind: KindIncome, Role: RoleFallback, SortOrder: 4},

	{Name: "Food", Kind: KindExpense, Role: RoleNone, SortOrder: 1},
	{Name: "Transport", Kind: KindExpense, Role: RoleNone, SortOrder: 2},
	{Name: "Utilities", Kind: KindExpense, Role: RoleNone, SortOrder: 3},
	{Name: "Home", Kind: KindExpense, Role: RoleNone, SortOrder: 4},
	{Name: "Health", Kind: KindExpense, Role: RoleNone, SortOrder: 5},
	{Name: "Entertainment", Kind: KindExpense, Role: RoleNone, SortOrder: 6},
	{Name: "Education", Kind: KindExpense, Role: RoleNone, SortOrder: 7},
	{Name: "Other Expenses", Kind: KindExpense, Role: RoleFallback, SortOrder: 8},
}

// FallbackName returns the catalog name of the fallback category for a kind.
// Lookups at runtime go through the stored role, never through this name; it
// exists so an on-demand fallback created for a pre-catalog account matches
// what the bootstrapper would have seeded.
func FallbackName(kind string) string {
	if kind == KindIncome {
		return "Other Income"
	}
	return "Other Expenses"
}
