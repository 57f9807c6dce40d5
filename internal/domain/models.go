package domain

import (
	"github.com/shopspring/decimal"

	"time"
)

// MaxChainDepth максимальная глубина реферальной цепочки. Уровень 1 — прямой
// пригласивший, уровень 3 — самый дальний предок.
const MaxChainDepth = 3

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Password  string
	VIPLevel  int
	Verified  bool
}

// ReferralRecord создается один раз при регистрации и после этого неизменяем.
// Цепочка предков фиксируется на момент создания и не пересчитывается по
// живым ссылкам.
type ReferralRecord struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UserID         int64
	ReferralCode   string
	Status         ReferralStatusType
	TotalGenerated decimal.Decimal
	Chain          []ReferralChainEntry
}

// ReferralChainEntry один предок в цепочке. Percentage — ставка на момент
// регистрации, носит справочный характер: реальная ставка всегда
// пересчитывается по текущему VIP уровню предка при начислении комиссии.
type ReferralChainEntry struct {
	Level      int
	ReferrerID int64
	Percentage decimal.Decimal
}

type CommissionTransaction struct {
	ID                    int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
	FromUserID            int64
	ToUserID              int64
	Level                 int
	Percentage            decimal.Decimal
	OriginalAmount        decimal.Decimal
	CommissionAmount      decimal.Decimal
	TransactionType       RewardEventType
	ExternalTransactionID string
	Status                CommissionStatusType
	FraudScore            int
	PaidAt                *time.Time
}

// CreditGrant пул кредитов, высвобождаемый в доступный баланс по траншам.
type CreditGrant struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     int64
	Amount     decimal.Decimal
	Source     GrantSourceType
	Status     GrantStatusType
	FraudScore int
	Schedule   VestingSchedule
	Progress   VestingSchedule
	IsVested   bool
}

// VestingSchedule фиксированная разбивка суммы гранта на 4 транша.
// Сумма траншей всегда равна сумме гранта.
type VestingSchedule struct {
	Immediate  decimal.Decimal
	AfterDay   decimal.Decimal
	AfterWeek  decimal.Decimal
	AfterMonth decimal.Decimal
}

func (s VestingSchedule) Sum() decimal.Decimal {
	return s.Immediate.Add(s.AfterDay).Add(s.AfterWeek).Add(s.AfterMonth)
}

// Bucket возвращает сумму транша b. Для неизвестного транша возвращает ноль.
func (s VestingSchedule) Bucket(b VestingBucket) decimal.Decimal {
	switch b {
	case BucketImmediate:
		return s.Immediate
	case BucketAfterDay:
		return s.AfterDay
	case BucketAfterWeek:
		return s.AfterWeek
	case BucketAfterMonth:
		return s.AfterMonth
	}
	return decimal.Zero
}

// ImmediateOnly расписание, при котором вся сумма доступна сразу.
func ImmediateOnly(amount decimal.Decimal) VestingSchedule {
	return VestingSchedule{Immediate: amount}
}

// EvenSplit делит сумму на четыре равных транша. Остаток копеек от деления
// достается немедленному траншу, чтобы сумма траншей сходилась с суммой
// гранта до копейки.
func EvenSplit(amount decimal.Decimal) VestingSchedule {
	part := amount.Div(decimal.NewFromInt(4)).RoundDown(2) //nolint:mnd
	return VestingSchedule{
		Immediate:  amount.Sub(part.Mul(decimal.NewFromInt(3))), //nolint:mnd
		AfterDay:   part,
		AfterWeek:  part,
		AfterMonth: part,
	}
}

// BalanceAccount агрегат балансов юзера.
// Инвариант: Withdrawable <= Available <= Total.
type BalanceAccount struct {
	UserID       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Total        decimal.Decimal
	Available    decimal.Decimal
	Withdrawable decimal.Decimal
}

type WithdrawalRequest struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     int64
	Amount     decimal.Decimal
	Status     WithdrawalStatusType
	FraudScore int
}
