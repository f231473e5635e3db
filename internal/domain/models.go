package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry, owned by one
// Telegram user. Amounts are whole Toman, always positive.
type Transaction struct {
	ID          int64
	Amount      decimal.Decimal
	Description string
	IsIncome    bool
	RecordedAt  time.Time
	UserID      int64
}

// Debt is keyed by its debtor code (one lowercase letter plus two
// digits 1-9), unique across the whole store.
type Debt struct {
	DebtorCode  string
	DebtorName  string
	Amount      decimal.Decimal
	Description *string
	RecordedAt  time.Time
	UserID      int64
}
