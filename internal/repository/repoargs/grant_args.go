package repoargs

import (
	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/shopspring/decimal"
)

type GrantCreate struct {
	UserID     int64
	Amount     decimal.Decimal
	Source     domain.GrantSourceType
	Status     domain.GrantStatusType
	FraudScore int
	Schedule   domain.VestingSchedule
}
