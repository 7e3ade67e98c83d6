package domain

// BudgetItem is one line of a wedding budget.
type BudgetItem struct {
	ID   int     `json:"id"`
	Name string  `json:"name" validate:"required,notblank"`
	Cost float64 `json:"cost" validate:"gt=0"`
}
