package ledger

// TransactionType identifies the kind of financial event a transaction records.
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeSaving   TransactionType = "saving"
)

// TransactionTypes lists the supported transaction types.
var TransactionTypes = []TransactionType{
	TransactionTypeExpense,
	TransactionTypeIncome,
	TransactionTypeTransfer,
	TransactionTypeSaving,
}

// IsValid reports whether t is one of the supported transaction types.
func (t TransactionType) IsValid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AccountType identifies the kind of account holding a balance.
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeWallet     AccountType = "wallet"
	AccountTypeOther      AccountType = "other"
)

// AccountTypes lists the supported account types.
var AccountTypes = []AccountType{
	AccountTypeCash,
	AccountTypeBank,
	AccountTypeCredit,
	AccountTypeInvestment,
	AccountTypeWallet,
	AccountTypeOther,
}

func (t AccountType) IsValid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AllowsNegativeBalance reports whether the account may carry a balance below zero.
// Only credit accounts may.
func (t AccountType) AllowsNegativeBalance() bool {
	return t == AccountTypeCredit
}

// DefaultCurrency is used for accounts created without an explicit currency.
const DefaultCurrency = "USD"
