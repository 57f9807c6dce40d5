package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type ReferralServicer interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.ReferralRecord, error)
	Earnings(ctx context.Context, userID int64) ([]domain.CommissionTransaction, error)
}

type CommissionServicer interface {
	Process(ctx context.Context, args service.ProcessArgs) ([]domain.CommissionTransaction, error)
	ApproveHeld(ctx context.Context, commissionID int64) (*domain.CommissionTransaction, error)
}

type VestingServicer interface {
	Grant(ctx context.Context, args service.GrantArgs) (*domain.CreditGrant, error)
	ProcessUserVesting(ctx context.Context, userID int64, now time.Time) (decimal.Decimal, error)
	ReleaseHold(ctx context.Context, grantID int64) error
}

type BalanceServicer interface {
	GetBalance(ctx context.Context, userID int64) (*domain.BalanceAccount, error)
	RequestWithdrawal(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, withdrawalID int64) error
	RejectWithdrawal(ctx context.Context, withdrawalID int64) error
	Withdrawals(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error)
}
