package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrInvalidReferralCode    = errors.New("invalid referral code")
	ErrSelfReferral           = errors.New("self referral is not allowed")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrAlreadyVested          = errors.New("grant is in terminal state")
	ErrInvalidVestingSchedule = errors.New("vesting schedule does not sum to grant amount")
	ErrWithdrawalNotAllowed   = errors.New("withdrawal is not allowed")
)

// DuplicateReferralError у юзера уже есть реферальная запись. Запись создается
// единожды и повторная попытка — всегда ошибка вызывающей стороны.
type DuplicateReferralError struct {
	Record *ReferralRecord
}

func NewDuplicateReferralError(record *ReferralRecord) error {
	return &DuplicateReferralError{Record: record}
}

func (e *DuplicateReferralError) Error() string {
	return fmt.Sprintf(
		"referral record already exists for user with id %d",
		e.Record.UserID,
	)
}
