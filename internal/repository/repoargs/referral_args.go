package repoargs

import (
	"github.com/shopspring/decimal"
)

// ChainEntryCreate один предок фиксируемой цепочки.
type ChainEntryCreate struct {
	Level      int
	ReferrerID int64
	Percentage decimal.Decimal
}

type ReferralRecordCreate struct {
	UserID       int64
	ReferralCode string
	Chain        []ChainEntryCreate
}
