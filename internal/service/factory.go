package service

import (
	"fmt"

	"github.com/fsdevblog/groph-rewards/internal/fraud"
	"github.com/fsdevblog/groph-rewards/internal/service/psswd"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService       *UserService
	ReferralService   *ReferralService
	CommissionService *CommissionService
	VestingService    *VestingService
	BalanceService    *BalanceService
}

func Factory(
	unitOfWork uow.UOW,
	scorer fraud.Scorer,
	jwtSecret []byte,
	minWithdrawal decimal.Decimal,
	l *logrus.Logger,
) (*AppServices, error) {
	referralService, referralServiceErr := NewReferralService(unitOfWork)
	if referralServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", referralServiceErr.Error())
	}

	userService, userServiceErr := NewUserService(unitOfWork, referralService, psswd.PasswordHash(""), jwtSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	commissionService, commissionServiceErr := NewCommissionService(unitOfWork, scorer, l)
	if commissionServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", commissionServiceErr.Error())
	}

	vestingService, vestingServiceErr := NewVestingService(unitOfWork, scorer, l)
	if vestingServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", vestingServiceErr.Error())
	}

	balanceService, balanceServiceErr := NewBalanceService(unitOfWork, scorer, minWithdrawal, l)
	if balanceServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", balanceServiceErr.Error())
	}

	return &AppServices{
		UserService:       userService,
		ReferralService:   referralService,
		CommissionService: commissionService,
		VestingService:    vestingService,
		BalanceService:    balanceService,
	}, nil
}
