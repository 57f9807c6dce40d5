package repoargs

import (
	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/shopspring/decimal"
)

type CommissionCreate struct {
	FromUserID            int64
	ToUserID              int64
	Level                 int
	Percentage            decimal.Decimal
	OriginalAmount        decimal.Decimal
	CommissionAmount      decimal.Decimal
	TransactionType       domain.RewardEventType
	ExternalTransactionID string
	Status                domain.CommissionStatusType
	FraudScore            int
}
