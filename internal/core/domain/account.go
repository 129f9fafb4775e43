package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// MaxAccountCodeLength is the longest code an account may carry.
const MaxAccountCodeLength = 7

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// NormalBalance returns the side on which the account type increases.
func (t AccountType) NormalBalance() Direction {
	switch t {
	case Asset, Expense:
		return Debit
	case Liability, Equity, Income:
		return Credit
	}
	return ""
}

// Account represents a node in a tenant's chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        string      `json:"tenantID"`
	Code            string      `json:"code"` // unique per tenant
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"`
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	SecurityLevel   *int        `json:"securityLevel,omitempty"` // nil = visible to everyone
	AuditFields
}

// EffectiveSecurityLevel returns the account's security level, treating nil as 0.
func (a Account) EffectiveSecurityLevel() int {
	if a.SecurityLevel == nil {
		return 0
	}
	return *a.SecurityLevel
}

// VisibleTo reports whether a caller with the given maximum level may see the account.
func (a Account) VisibleTo(maxLevel int) bool {
	return a.EffectiveSecurityLevel() <= maxLevel
}
