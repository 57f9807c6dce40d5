package domain

import "time"

type ReferralStatusType string

const (
	ReferralStatusActive    ReferralStatusType = "active"
	ReferralStatusInactive  ReferralStatusType = "inactive"
	ReferralStatusSuspended ReferralStatusType = "suspended"
)

type CommissionStatusType string

const (
	CommissionStatusPending   CommissionStatusType = "pending"
	CommissionStatusPaid      CommissionStatusType = "paid"
	CommissionStatusFailed    CommissionStatusType = "failed"
	CommissionStatusCancelled CommissionStatusType = "cancelled"
)

type GrantStatusType string

const (
	// GrantStatusPending грант удержан фрод-проверкой, транши не высвобождаются.
	GrantStatusPending   GrantStatusType = "pending"
	GrantStatusActive    GrantStatusType = "active"
	GrantStatusVested    GrantStatusType = "vested"
	GrantStatusCancelled GrantStatusType = "cancelled"
)

type GrantSourceType string

const (
	GrantSourceTask       GrantSourceType = "task_reward"
	GrantSourceAppInstall GrantSourceType = "app_install"
	GrantSourceSignup     GrantSourceType = "signup_bonus"
	GrantSourcePromo      GrantSourceType = "promo"
)

// RewardEventType тип монетарного события, порождающего комиссии.
type RewardEventType string

const (
	EventVIPPurchase    RewardEventType = "vip_purchase"
	EventTaskCompletion RewardEventType = "task_completion"
	EventAppInstall     RewardEventType = "app_install"
)

type WithdrawalStatusType string

const (
	WithdrawalStatusPending    WithdrawalStatusType = "pending"
	WithdrawalStatusProcessing WithdrawalStatusType = "processing"
	WithdrawalStatusCompleted  WithdrawalStatusType = "completed"
	WithdrawalStatusRejected   WithdrawalStatusType = "rejected"
)

type VestingBucket string

const (
	BucketImmediate  VestingBucket = "immediate"
	BucketAfterDay   VestingBucket = "after_1d"
	BucketAfterWeek  VestingBucket = "after_7d"
	BucketAfterMonth VestingBucket = "after_30d"
)

// VestingBuckets транши в порядке созревания.
func VestingBuckets() []VestingBucket {
	return []VestingBucket{BucketImmediate, BucketAfterDay, BucketAfterWeek, BucketAfterMonth}
}

// Offset смещение созревания транша относительно времени создания гранта.
func (b VestingBucket) Offset() time.Duration {
	switch b {
	case BucketAfterDay:
		return 24 * time.Hour
	case BucketAfterWeek:
		return 7 * 24 * time.Hour
	case BucketAfterMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}
