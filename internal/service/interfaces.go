package service

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

// ChainBuilder строит реферальную запись нового юзера при регистрации.
type ChainBuilder interface {
	BuildChain(ctx context.Context, userID int64, referralCode string) (*domain.ReferralRecord, error)
}

// UserDirectory справочник юзеров. VIP уровень читается отсюда в момент
// начисления комиссии, а не из зафиксированной цепочки.
type UserDirectory interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type ReferralRepository interface {
	CreateRecord(ctx context.Context, args repoargs.ReferralRecordCreate) (*domain.ReferralRecord, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.ReferralRecord, error)
	FindByCode(ctx context.Context, code string) (*domain.ReferralRecord, error)
	AddGeneratedCommission(ctx context.Context, userID int64, amount decimal.Decimal) error
}

type CommissionRepository interface {
	Create(ctx context.Context, args repoargs.CommissionCreate) (*domain.CommissionTransaction, error)
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.CommissionTransaction, error)
	GetByToUserID(ctx context.Context, userID int64) ([]domain.CommissionTransaction, error)
}

type GrantRepository interface {
	Create(ctx context.Context, args repoargs.GrantCreate) (*domain.CreditGrant, error)
	GetByID(ctx context.Context, id int64) (*domain.CreditGrant, error)
	GetUnvestedByUserID(ctx context.Context, userID int64) ([]domain.CreditGrant, error)
	InsertRelease(ctx context.Context, grantID int64, bucket domain.VestingBucket, amount decimal.Decimal) error
	MarkVested(ctx context.Context, grantID int64) error
	SetStatus(ctx context.Context, grantID int64, from, to domain.GrantStatusType) error
}

type BalanceRepository interface {
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) error
	Debit(ctx context.Context, userID int64, amount decimal.Decimal) error
	DebitWithdrawable(ctx context.Context, userID int64, amount decimal.Decimal) error
	CreditWithdrawable(ctx context.Context, userID int64, amount decimal.Decimal) error
	Promote(ctx context.Context, userID int64, minAvailable decimal.Decimal) (bool, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.BalanceAccount, error)
}

type WithdrawalRepository interface {
	Create(ctx context.Context, args repoargs.WithdrawalCreate) (*domain.WithdrawalRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.WithdrawalRequest, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error)
	SetStatus(ctx context.Context, id int64, from, to domain.WithdrawalStatusType) error
}
