package domain

// Account scopes every ledger query and reports totals in its base currency.
type Account struct {
	AccountID    string `json:"accountID"`
	Name         string `json:"name"`
	BaseCurrency string `json:"baseCurrency"` // ISO code, e.g. "USD"
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// Category groups transactions of an account.
type Category struct {
	CategoryID string `json:"categoryID"`
	AccountID  string `json:"accountID"`
	Name       string `json:"name"`
}

// Subcategory narrows a Category.
type Subcategory struct {
	SubcategoryID string `json:"subcategoryID"`
	CategoryID    string `json:"categoryID"`
	Name          string `json:"name"`
}
