package models

// Account is a row of the accounts table.
type Account struct {
	AccountID    string `db:"account_id"`
	Name         string `db:"name"`
	BaseCurrency string `db:"base_currency"`
	IsActive     bool   `db:"is_active"`
	AuditFields         // Embed common audit fields
}

// Category is a row of the categories table.
type Category struct {
	CategoryID string `db:"category_id"`
	AccountID  string `db:"account_id"`
	Name       string `db:"name"`
}
