package repoargs

import (
	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/shopspring/decimal"
)

type WithdrawalCreate struct {
	UserID     int64
	Amount     decimal.Decimal
	Status     domain.WithdrawalStatusType
	FraudScore int
}
