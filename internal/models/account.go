package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID       string      `db:"account_id"`
	TenantID        string      `db:"tenant_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID *string     `db:"parent_account_id"` // Nullable
	Description     string      `db:"description"`
	IsActive        bool        `db:"is_active"`
	SecurityLevel   *int        `db:"security_level"` // Nullable, NULL is visible to everyone
	AuditFields
}
