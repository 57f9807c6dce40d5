package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/fraud"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CommissionService распределяет комиссии по зафиксированной реферальной
// цепочке плательщика.
type CommissionService struct {
	uow          uow.UOW
	referralRepo ReferralRepository
	userRepo     UserDirectory
	scorer       fraud.Scorer
	l            *logrus.Entry
}

func NewCommissionService(u uow.UOW, scorer fraud.Scorer, l *logrus.Logger) (*CommissionService, error) {
	referralRepo, refErr := uow.GetRepositoryAs[ReferralRepository](u, uow.RepositoryName(repoargs.ReferralRepoName))
	if refErr != nil {
		return nil, refErr
	}
	userRepo, userErr := uow.GetRepositoryAs[UserDirectory](u, uow.RepositoryName(repoargs.UserRepoName))
	if userErr != nil {
		return nil, userErr
	}
	return &CommissionService{
		uow:          u,
		referralRepo: referralRepo,
		userRepo:     userRepo,
		scorer:       scorer,
		l:            l.WithField("component", "commission"),
	}, nil
}

type ProcessArgs struct {
	PayerID               int64
	Amount                decimal.Decimal
	TransactionType       domain.RewardEventType
	ExternalTransactionID string
	// Fraud метаданные исходного события для скоринга. UserID проставляется
	// сервисом.
	Fraud fraud.Event
	// Score готовый результат скоринга. Событие скорится ровно один раз:
	// если грант по нему уже создан, его скор передается сюда и повторное
	// обращение к скореру (инкрементирующее оконные счетчики) не выполняется.
	Score *fraud.Result
}

// Process распределяет комиссии с суммы Amount по предкам плательщика.
//
// Алгоритм работы:
//  1. Загружает зафиксированную цепочку плательщика; отсутствие цепочки —
//     не ошибка, комиссии просто не начисляются.
//  2. Для каждого предка ставка считается по его ТЕКУЩЕМУ VIP уровню.
//  3. Шаг каждого предка атомарен: запись комиссии, зачисление на баланс и
//     инкремент счетчика плательщика выполняются в одной транзакции. Ошибка
//     на одном предке не мешает обработке остальных — целиком цепочка
//     обрабатывается по принципу best effort.
//  4. Повторная обработка того же ExternalTransactionID — структурный no-op:
//     вставка упирается в уникальный ключ (from, external_id, level).
//
// Если фрод-скор события выше порога, комиссии создаются в статусе pending
// без зачисления на баланс — до ручного одобрения через ApproveHeld.
func (s *CommissionService) Process(ctx context.Context, args ProcessArgs) ([]domain.CommissionTransaction, error) {
	if !args.Amount.IsPositive() {
		return nil, nil
	}

	record, findErr := s.referralRepo.FindByUserID(ctx, args.PayerID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("processing commissions: %w", findErr)
	}
	if len(record.Chain) == 0 || record.Status != domain.ReferralStatusActive {
		return nil, nil
	}

	var score fraud.Result
	if args.Score != nil {
		score = *args.Score
	} else {
		fraudEvent := args.Fraud
		fraudEvent.UserID = args.PayerID
		var scoreErr error
		score, scoreErr = s.scorer.Score(ctx, fraudEvent)
		if scoreErr != nil {
			// скоринг вспомогателен: при недоступности скорера событие
			// обрабатывается как чистое.
			s.l.WithError(scoreErr).Warn("fraud scoring failed, treating event as clean")
			score = fraud.Result{}
		}
	}

	var transactions = make([]domain.CommissionTransaction, 0, len(record.Chain))
	for _, entry := range record.Chain {
		transaction, stepErr := s.processAncestor(ctx, args, entry, score)
		if stepErr != nil {
			if errors.Is(stepErr, domain.ErrDuplicateKey) {
				// событие уже было обработано для этого предка.
				continue
			}
			s.l.WithError(stepErr).WithFields(logrus.Fields{
				"payerID":    args.PayerID,
				"referrerID": entry.ReferrerID,
				"level":      entry.Level,
			}).Error("commission step failed")
			continue
		}
		if transaction != nil {
			transactions = append(transactions, *transaction)
		}
	}
	return transactions, nil
}

// processAncestor выполняет атомарный шаг одного предка.
func (s *CommissionService) processAncestor(
	ctx context.Context,
	args ProcessArgs,
	entry domain.ReferralChainEntry,
	score fraud.Result,
) (*domain.CommissionTransaction, error) {
	ancestor, userErr := s.userRepo.GetByID(ctx, entry.ReferrerID)
	if userErr != nil {
		return nil, fmt.Errorf("looking up ancestor: %w", userErr)
	}

	percentage := RateFor(ancestor.VIPLevel, entry.Level)
	commission := CommissionAmount(args.Amount, percentage)
	if !commission.IsPositive() {
		return nil, nil
	}

	var transaction *domain.CommissionTransaction
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		commissionRepo, comErr := uow.GetAs[CommissionRepository](tx, uow.RepositoryName(repoargs.CommissionRepoName))
		if comErr != nil {
			return comErr //nolint:wrapcheck
		}

		created, createErr := commissionRepo.Create(c, repoargs.CommissionCreate{
			FromUserID:            args.PayerID,
			ToUserID:              entry.ReferrerID,
			Level:                 entry.Level,
			Percentage:            percentage,
			OriginalAmount:        args.Amount,
			CommissionAmount:      commission,
			TransactionType:       args.TransactionType,
			ExternalTransactionID: args.ExternalTransactionID,
			Status:                domain.CommissionStatusPending,
			FraudScore:            score.Score,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}
		transaction = created

		// удержанная комиссия остается pending и баланс не трогает.
		if score.Hold() {
			return nil
		}
		return s.payCommission(c, tx, transaction)
	})
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return transaction, nil
}

// payCommission зачисляет комиссию на баланс предка и помечает ее оплаченной.
// Вызывается только внутри открытой uow транзакции.
func (s *CommissionService) payCommission(
	ctx context.Context,
	tx uow.TX,
	transaction *domain.CommissionTransaction,
) error {
	commissionRepo, comErr := uow.GetAs[CommissionRepository](tx, uow.RepositoryName(repoargs.CommissionRepoName))
	if comErr != nil {
		return comErr //nolint:wrapcheck
	}
	balanceRepo, balErr := uow.GetAs[BalanceRepository](tx, uow.RepositoryName(repoargs.BalanceRepoName))
	if balErr != nil {
		return balErr //nolint:wrapcheck
	}
	referralRepo, refErr := uow.GetAs[ReferralRepository](tx, uow.RepositoryName(repoargs.ReferralRepoName))
	if refErr != nil {
		return refErr //nolint:wrapcheck
	}

	if creditErr := balanceRepo.Credit(ctx, transaction.ToUserID, transaction.CommissionAmount); creditErr != nil {
		return creditErr //nolint:wrapcheck
	}

	paidAt := time.Now()
	if markErr := commissionRepo.MarkPaid(ctx, transaction.ID, paidAt); markErr != nil {
		return markErr //nolint:wrapcheck
	}

	if genErr := referralRepo.AddGeneratedCommission(
		ctx, transaction.FromUserID, transaction.CommissionAmount,
	); genErr != nil {
		return genErr //nolint:wrapcheck
	}

	transaction.Status = domain.CommissionStatusPaid
	transaction.PaidAt = &paidAt
	return nil
}

// ApproveHeld одобряет удержанную фрод-проверкой комиссию: зачисляет сумму
// на баланс предка и помечает запись оплаченной, атомарно.
func (s *CommissionService) ApproveHeld(ctx context.Context, commissionID int64) (*domain.CommissionTransaction, error) {
	var transaction *domain.CommissionTransaction
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		commissionRepo, comErr := uow.GetAs[CommissionRepository](tx, uow.RepositoryName(repoargs.CommissionRepoName))
		if comErr != nil {
			return comErr //nolint:wrapcheck
		}
		found, getErr := commissionRepo.GetByID(c, commissionID)
		if getErr != nil {
			return getErr //nolint:wrapcheck
		}
		if found.Status != domain.CommissionStatusPending {
			return domain.ErrRecordNotFound
		}
		transaction = found
		return s.payCommission(c, tx, transaction)
	})
	if txErr != nil {
		return nil, fmt.Errorf("approving held commission %d: %w", commissionID, txErr)
	}
	return transaction, nil
}
