package models

import "time"

// StatementType identifies which issuer layout a document follows.
type StatementType string

const (
	StatementBank    StatementType = "bank"
	StatementCard    StatementType = "card"
	StatementUnknown StatementType = "unknown"
)

// BankSummary is the per-statement header record for a checking account.
// InvoiceID is derived: last 4 digits of the account number + "_" + the
// statement start date as YYYYMMDD.
type BankSummary struct {
	InvoiceID        string
	BeginningBalance float64
	EndingBalance    float64
	Deposits         float64
	Withdrawals      float64 // stored negative
	DateStart        time.Time
	DateEnd          time.Time
	AccountNumber    string
	CreatedOn        time.Time
	ModifiedOn       time.Time
}

// CardSummary is the per-statement header record for a credit card.
// InvoiceID is derived: card last 4 + "_" + the opening date as YYYYMMDD.
type CardSummary struct {
	InvoiceID        string
	CardNumber       string // last 4 digits
	PreviousBalance  float64
	CurrentBalance   float64
	DateStart        time.Time
	DateEnd          time.Time
	CashAdvances     float64
	BalanceTransfers float64
	Fees             float64
	Interest         float64
	AvailableCredit  float64
	CreditLimit      float64
	CreatedOn        time.Time
	ModifiedOn       time.Time
}

// Transaction is one parsed activity row. Amounts are signed: positive for
// credits/deposits, negative for debits, withdrawals and card charges.
// ResBalance is the running balance and is nil for card statements.
type Transaction struct {
	ID           int64
	InvoiceID    string
	Date         string // as printed, MM/DD
	Desc         string
	Amount       float64
	ResBalance   *float64
	AdjustedDate time.Time // printed month/day with the inferred year
	Category     *string
	CreatedOn    time.Time
	ModifiedOn   time.Time
}

// UncategorizedTransaction is the slice of a transaction row the
// categorization workflow needs.
type UncategorizedTransaction struct {
	ID   int64
	Desc string
}

// CategoryOther is the fallback assigned when the classifier fails or
// returns a value outside the enumeration.
const CategoryOther = "Other"

// Categories is the fixed set of allowed transaction categories. A stored
// category is always one of these, never raw classifier output.
func Categories() []string {
	return []string{
		"Groceries",
		"Dining",
		"Transportation",
		"Utilities",
		"Entertainment",
		"Shopping",
		"Healthcare",
		"Travel",
		"Income",
		"Transfer",
		CategoryOther,
	}
}
