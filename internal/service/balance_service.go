package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/fraud"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BalanceService операции над счетом юзера. Все мутации — атомарные
// инкременты на стороне БД; инвариант withdrawable <= available <= total
// дополнительно закреплен CHECK ограничениями схемы.
type BalanceService struct {
	uow            uow.UOW
	balanceRepo    BalanceRepository
	withdrawalRepo WithdrawalRepository
	userRepo       UserDirectory
	scorer         fraud.Scorer
	minWithdrawal  decimal.Decimal
	l              *logrus.Entry
}

func NewBalanceService(
	u uow.UOW,
	scorer fraud.Scorer,
	minWithdrawal decimal.Decimal,
	l *logrus.Logger,
) (*BalanceService, error) {
	balanceRepo, balErr := uow.GetRepositoryAs[BalanceRepository](u, uow.RepositoryName(repoargs.BalanceRepoName))
	if balErr != nil {
		return nil, balErr
	}
	withdrawalRepo, wdErr := uow.GetRepositoryAs[WithdrawalRepository](
		u, uow.RepositoryName(repoargs.WithdrawalRepoName),
	)
	if wdErr != nil {
		return nil, wdErr
	}
	userRepo, userErr := uow.GetRepositoryAs[UserDirectory](u, uow.RepositoryName(repoargs.UserRepoName))
	if userErr != nil {
		return nil, userErr
	}
	return &BalanceService{
		uow:            u,
		balanceRepo:    balanceRepo,
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		scorer:         scorer,
		minWithdrawal:  minWithdrawal,
		l:              l.WithField("component", "balance"),
	}, nil
}

// GetBalance возвращает счет юзера. Для юзера без начислений — нулевой счет.
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (*domain.BalanceAccount, error) {
	account, err := s.balanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return account, nil
}

// Debit списывает amount с доступного баланса (трата кредитов внутри
// платформы). При нехватке средств вернется domain.ErrInsufficientBalance.
func (s *BalanceService) Debit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInsufficientBalance
	}
	return s.balanceRepo.Debit(ctx, userID, amount) //nolint:wrapcheck
}

// PromoteToWithdrawable продвигает доступные кредиты в выводимые, если юзер
// прошел верификацию и баланс пересек минимальный порог. Продвижение
// одностороннее. Возвращает true если пул выводимых средств вырос.
func (s *BalanceService) PromoteToWithdrawable(ctx context.Context, userID int64) (bool, error) {
	user, userErr := s.userRepo.GetByID(ctx, userID)
	if userErr != nil {
		return false, fmt.Errorf("promoting withdrawable: %w", userErr)
	}
	if !user.Verified {
		return false, nil
	}
	promoted, promoteErr := s.balanceRepo.Promote(ctx, userID, s.minWithdrawal)
	if promoteErr != nil {
		return false, fmt.Errorf("promoting withdrawable: %w", promoteErr)
	}
	return promoted, nil
}

// RequestWithdrawal создает заявку на вывод средств.
//
// Алгоритм работы:
//  1. Юзер обязан быть верифицирован, иначе domain.ErrWithdrawalNotAllowed.
//  2. Опортунистически продвигает доступные кредиты в выводимые.
//  3. Скорит заявку (для выводов работает эвристика возраста аккаунта):
//     скор выше порога оставляет заявку в pending до ручной проверки.
//  4. Списание с баланса и создание заявки — одна транзакция. Средства
//     резервируются и для удержанных заявок.
func (s *BalanceService) RequestWithdrawal(
	ctx context.Context,
	userID int64,
	amount decimal.Decimal,
) (*domain.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrWithdrawalNotAllowed
	}
	user, userErr := s.userRepo.GetByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("requesting withdrawal: %w", userErr)
	}
	if !user.Verified {
		return nil, domain.ErrWithdrawalNotAllowed
	}

	if _, promoteErr := s.balanceRepo.Promote(ctx, userID, s.minWithdrawal); promoteErr != nil {
		return nil, fmt.Errorf("requesting withdrawal: %w", promoteErr)
	}

	score, scoreErr := s.scorer.Score(ctx, fraud.Event{
		Kind:             fraud.KindWithdrawal,
		UserID:           userID,
		AccountCreatedAt: user.CreatedAt,
	})
	if scoreErr != nil {
		s.l.WithError(scoreErr).Warn("fraud scoring failed, treating withdrawal as clean")
		score = fraud.Result{}
	}

	status := domain.WithdrawalStatusProcessing
	if score.Hold() {
		status = domain.WithdrawalStatusPending
	}

	var request *domain.WithdrawalRequest
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		balanceRepo, balErr := uow.GetAs[BalanceRepository](tx, uow.RepositoryName(repoargs.BalanceRepoName))
		if balErr != nil {
			return balErr //nolint:wrapcheck
		}
		withdrawalRepo, wdErr := uow.GetAs[WithdrawalRepository](tx, uow.RepositoryName(repoargs.WithdrawalRepoName))
		if wdErr != nil {
			return wdErr //nolint:wrapcheck
		}

		if debitErr := balanceRepo.DebitWithdrawable(c, userID, amount); debitErr != nil {
			return debitErr //nolint:wrapcheck
		}
		var createErr error
		request, createErr = withdrawalRepo.Create(c, repoargs.WithdrawalCreate{
			UserID:     userID,
			Amount:     amount,
			Status:     status,
			FraudScore: score.Score,
		})
		return createErr //nolint:wrapcheck
	})
	if txErr != nil {
		if errors.Is(txErr, domain.ErrInsufficientBalance) {
			return nil, domain.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("requesting withdrawal: %w", txErr)
	}
	return request, nil
}

// ApproveWithdrawal одобряет удержанную фрод-проверкой заявку: переводит ее
// из pending в processing. Средства уже зарезервированы при создании заявки.
// Для заявки не в pending вернется domain.ErrRecordNotFound.
func (s *BalanceService) ApproveWithdrawal(ctx context.Context, withdrawalID int64) error {
	err := s.withdrawalRepo.SetStatus(
		ctx, withdrawalID, domain.WithdrawalStatusPending, domain.WithdrawalStatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("approving withdrawal %d: %w", withdrawalID, err)
	}
	return nil
}

// RejectWithdrawal отклоняет удержанную фрод-проверкой заявку и возвращает
// зарезервированные средства на счет, атомарно. Для заявки не в pending
// вернется domain.ErrRecordNotFound.
func (s *BalanceService) RejectWithdrawal(ctx context.Context, withdrawalID int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		withdrawalRepo, wdErr := uow.GetAs[WithdrawalRepository](tx, uow.RepositoryName(repoargs.WithdrawalRepoName))
		if wdErr != nil {
			return wdErr //nolint:wrapcheck
		}
		balanceRepo, balErr := uow.GetAs[BalanceRepository](tx, uow.RepositoryName(repoargs.BalanceRepoName))
		if balErr != nil {
			return balErr //nolint:wrapcheck
		}

		request, getErr := withdrawalRepo.GetByID(c, withdrawalID)
		if getErr != nil {
			return getErr //nolint:wrapcheck
		}
		if setErr := withdrawalRepo.SetStatus(
			c, withdrawalID, domain.WithdrawalStatusPending, domain.WithdrawalStatusRejected,
		); setErr != nil {
			return setErr //nolint:wrapcheck
		}
		return balanceRepo.CreditWithdrawable(c, request.UserID, request.Amount) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("rejecting withdrawal %d: %w", withdrawalID, txErr)
	}
	return nil
}

// Withdrawals возвращает заявки юзера на вывод по убыванию даты.
func (s *BalanceService) Withdrawals(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error) {
	requests, err := s.withdrawalRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return requests, nil
}
