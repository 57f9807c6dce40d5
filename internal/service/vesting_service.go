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

// VestingService создает кредитные гранты и высвобождает созревшие транши в
// доступный баланс. Вестинг pull-based: никакого фонового планировщика нет,
// ProcessVesting вызывается когда грант трогают.
type VestingService struct {
	uow       uow.UOW
	grantRepo GrantRepository
	scorer    fraud.Scorer
	l         *logrus.Entry
}

func NewVestingService(u uow.UOW, scorer fraud.Scorer, l *logrus.Logger) (*VestingService, error) {
	grantRepo, grantErr := uow.GetRepositoryAs[GrantRepository](u, uow.RepositoryName(repoargs.GrantRepoName))
	if grantErr != nil {
		return nil, grantErr
	}
	return &VestingService{
		uow:       u,
		grantRepo: grantRepo,
		scorer:    scorer,
		l:         l.WithField("component", "vesting"),
	}, nil
}

type GrantArgs struct {
	UserID   int64
	Amount   decimal.Decimal
	Schedule domain.VestingSchedule
	Source   domain.GrantSourceType
	// Fraud метаданные исходного события для скоринга. UserID проставляется
	// сервисом.
	Fraud fraud.Event
}

// Grant создает грант с фиксированным расписанием из четырех траншей.
// Сумма траншей обязана совпадать с суммой гранта. Грант с фрод-скором выше
// порога создается в статусе pending: транши не высвобождаются до снятия
// удержания через ReleaseHold.
func (s *VestingService) Grant(ctx context.Context, args GrantArgs) (*domain.CreditGrant, error) {
	if !args.Amount.IsPositive() {
		return nil, domain.ErrInvalidVestingSchedule
	}
	if !args.Schedule.Sum().Equal(args.Amount) {
		return nil, domain.ErrInvalidVestingSchedule
	}

	fraudEvent := args.Fraud
	fraudEvent.UserID = args.UserID
	score, scoreErr := s.scorer.Score(ctx, fraudEvent)
	if scoreErr != nil {
		s.l.WithError(scoreErr).Warn("fraud scoring failed, treating event as clean")
		score = fraud.Result{}
	}

	status := domain.GrantStatusActive
	if score.Hold() {
		status = domain.GrantStatusPending
	}

	grant, createErr := s.grantRepo.Create(ctx, repoargs.GrantCreate{
		UserID:     args.UserID,
		Amount:     args.Amount,
		Source:     args.Source,
		Status:     status,
		FraudScore: score.Score,
		Schedule:   args.Schedule,
	})
	if createErr != nil {
		return nil, fmt.Errorf("creating grant: %w", createErr)
	}
	return grant, nil
}

// ProcessVesting высвобождает созревшие к моменту now транши гранта и
// возвращает сумму, высвобожденную ИМЕННО ЭТИМ вызовом (не накопленный итог).
// Вызов идемпотентен: повторный вызов без новых созревших траншей вернет 0 —
// высвобождение транша это append-only событие с уникальным ключом
// (grant_id, bucket), двойное зачисление структурно невозможно.
//
// Удержанный фрод-проверкой (pending) и терминальный грант дают 0 без ошибки.
func (s *VestingService) ProcessVesting(
	ctx context.Context,
	grantID int64,
	now time.Time,
) (decimal.Decimal, error) {
	grant, getErr := s.grantRepo.GetByID(ctx, grantID)
	if getErr != nil {
		return decimal.Zero, fmt.Errorf("processing vesting of grant %d: %w", grantID, getErr)
	}
	return s.processGrant(ctx, grant, now)
}

// ProcessUserVesting прогоняет вестинг по всем активным грантам юзера.
// Вызывается опортунистически при чтении баланса.
func (s *VestingService) ProcessUserVesting(
	ctx context.Context,
	userID int64,
	now time.Time,
) (decimal.Decimal, error) {
	grants, getErr := s.grantRepo.GetUnvestedByUserID(ctx, userID)
	if getErr != nil {
		return decimal.Zero, fmt.Errorf("processing vesting of user %d: %w", userID, getErr)
	}

	released := decimal.Zero
	for i := range grants {
		delta, processErr := s.processGrant(ctx, &grants[i], now)
		if processErr != nil {
			s.l.WithError(processErr).WithField("grantID", grants[i].ID).Error("grant vesting failed")
			continue
		}
		released = released.Add(delta)
	}
	return released, nil
}

func (s *VestingService) processGrant(
	ctx context.Context,
	grant *domain.CreditGrant,
	now time.Time,
) (decimal.Decimal, error) {
	if grant.Status != domain.GrantStatusActive || grant.IsVested {
		return decimal.Zero, nil
	}

	released := decimal.Zero
	for _, bucket := range domain.VestingBuckets() {
		amount := grant.Schedule.Bucket(bucket)
		if !amount.IsPositive() {
			continue
		}
		if grant.Progress.Bucket(bucket).IsPositive() {
			continue
		}
		if now.Before(grant.CreatedAt.Add(bucket.Offset())) {
			continue
		}

		releaseErr := s.releaseBucket(ctx, grant, bucket, amount)
		if releaseErr != nil {
			if errors.Is(releaseErr, domain.ErrDuplicateKey) {
				// конкурентный вызов уже высвободил транш.
				continue
			}
			return released, fmt.Errorf("releasing bucket `%s` of grant %d: %w", bucket, grant.ID, releaseErr)
		}
		released = released.Add(amount)
		setProgress(&grant.Progress, bucket, amount)
	}

	if grant.Progress.Sum().Equal(grant.Amount) {
		grant.IsVested = true
		grant.Status = domain.GrantStatusVested
		if markErr := s.grantRepo.MarkVested(ctx, grant.ID); markErr != nil &&
			!errors.Is(markErr, domain.ErrRecordNotFound) {
			return released, fmt.Errorf("marking grant %d vested: %w", grant.ID, markErr)
		}
	}
	return released, nil
}

// releaseBucket атомарный шаг одного транша: журнальная запись о
// высвобождении и зачисление на баланс в одной транзакции.
func (s *VestingService) releaseBucket(
	ctx context.Context,
	grant *domain.CreditGrant,
	bucket domain.VestingBucket,
	amount decimal.Decimal,
) error {
	return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
		grantRepo, grantErr := uow.GetAs[GrantRepository](tx, uow.RepositoryName(repoargs.GrantRepoName))
		if grantErr != nil {
			return grantErr //nolint:wrapcheck
		}
		balanceRepo, balErr := uow.GetAs[BalanceRepository](tx, uow.RepositoryName(repoargs.BalanceRepoName))
		if balErr != nil {
			return balErr //nolint:wrapcheck
		}

		if insertErr := grantRepo.InsertRelease(c, grant.ID, bucket, amount); insertErr != nil {
			return insertErr //nolint:wrapcheck
		}
		return balanceRepo.Credit(c, grant.UserID, amount) //nolint:wrapcheck
	})
}

// ReleaseHold снимает фрод-удержание с гранта. Сами транши высвобождаются
// следующим вызовом ProcessVesting по обычному расписанию.
func (s *VestingService) ReleaseHold(ctx context.Context, grantID int64) error {
	err := s.grantRepo.SetStatus(ctx, grantID, domain.GrantStatusPending, domain.GrantStatusActive)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("releasing hold of grant %d: %w", grantID, domain.ErrAlreadyVested)
		}
		return fmt.Errorf("releasing hold of grant %d: %w", grantID, err)
	}
	return nil
}

// Cancel отменяет грант. Уже высвобожденные транши не откатываются,
// невысвобожденные замораживаются навсегда. Терминальный грант отменить
// нельзя — вернется domain.ErrAlreadyVested.
func (s *VestingService) Cancel(ctx context.Context, grantID int64) error {
	for _, from := range []domain.GrantStatusType{domain.GrantStatusPending, domain.GrantStatusActive} {
		err := s.grantRepo.SetStatus(ctx, grantID, from, domain.GrantStatusCancelled)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("cancelling grant %d: %w", grantID, err)
		}
	}
	return fmt.Errorf("cancelling grant %d: %w", grantID, domain.ErrAlreadyVested)
}

func setProgress(progress *domain.VestingSchedule, bucket domain.VestingBucket, amount decimal.Decimal) {
	switch bucket {
	case domain.BucketImmediate:
		progress.Immediate = amount
	case domain.BucketAfterDay:
		progress.AfterDay = amount
	case domain.BucketAfterWeek:
		progress.AfterWeek = amount
	case domain.BucketAfterMonth:
		progress.AfterMonth = amount
	}
}
