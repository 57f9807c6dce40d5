package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	"github.com/google/uuid"
)

const referralCodeLength = 8

// maxCodeAttempts количество попыток сгенерировать уникальный реферальный код.
const maxCodeAttempts = 3

// ReferralService строит и читает неизменяемые реферальные цепочки.
type ReferralService struct {
	uow            uow.UOW
	referralRepo   ReferralRepository
	userRepo       UserDirectory
	commissionRepo CommissionRepository
}

func NewReferralService(u uow.UOW) (*ReferralService, error) {
	referralRepo, refErr := uow.GetRepositoryAs[ReferralRepository](u, uow.RepositoryName(repoargs.ReferralRepoName))
	if refErr != nil {
		return nil, refErr
	}
	userRepo, userErr := uow.GetRepositoryAs[UserDirectory](u, uow.RepositoryName(repoargs.UserRepoName))
	if userErr != nil {
		return nil, userErr
	}
	commissionRepo, comErr := uow.GetRepositoryAs[CommissionRepository](
		u, uow.RepositoryName(repoargs.CommissionRepoName),
	)
	if comErr != nil {
		return nil, comErr
	}
	return &ReferralService{
		uow:            u,
		referralRepo:   referralRepo,
		userRepo:       userRepo,
		commissionRepo: commissionRepo,
	}, nil
}

// BuildChain создает реферальную запись нового юзера, фиксируя цепочку до
// трех предков. Пустой referralCode допустим: запись создается с пустой
// цепочкой, юзер получает собственный код.
//
// Алгоритм работы:
//  1. Проверяет что у юзера еще нет записи (запись создается единожды).
//  2. Разрешает код в запись прямого реферера; самоприглашение — ошибка.
//  3. Уровни 2 и 3 берутся из уже сохраненной цепочки реферера (его уровни
//     1 и 2) — одиночное чтение вместо рекурсивного обхода, цикл невозможен
//     по построению: запись читается только после того как полностью создана.
//  4. Сохраняет запись и цепочку в одной транзакции.
//
// Зафиксированные проценты справочные: при начислении комиссии ставка
// пересчитывается по текущему VIP уровню предка.
func (s *ReferralService) BuildChain(
	ctx context.Context,
	userID int64,
	referralCode string,
) (*domain.ReferralRecord, error) {
	existing, findErr := s.referralRepo.FindByUserID(ctx, userID)
	if findErr == nil {
		return nil, domain.NewDuplicateReferralError(existing)
	}
	if !errors.Is(findErr, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("building referral chain: %w", findErr)
	}

	chain, chainErr := s.resolveChain(ctx, userID, referralCode)
	if chainErr != nil {
		return nil, chainErr
	}

	var record *domain.ReferralRecord
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			repo, repoErr := uow.GetAs[ReferralRepository](tx, uow.RepositoryName(repoargs.ReferralRepoName))
			if repoErr != nil {
				return repoErr //nolint:wrapcheck
			}
			var createErr error
			record, createErr = repo.CreateRecord(c, repoargs.ReferralRecordCreate{
				UserID:       userID,
				ReferralCode: newReferralCode(),
				Chain:        chain,
			})
			return createErr //nolint:wrapcheck
		})
		if txErr == nil {
			return record, nil
		}
		if errors.Is(txErr, domain.ErrDuplicateKey) {
			// дубликат либо по коду (перегенерируем), либо по user_id
			// (конкурентная повторная регистрация).
			if concurrent, concurrentErr := s.referralRepo.FindByUserID(ctx, userID); concurrentErr == nil {
				return nil, domain.NewDuplicateReferralError(concurrent)
			}
			continue
		}
		return nil, fmt.Errorf("building referral chain: %w", txErr)
	}
	return nil, fmt.Errorf("building referral chain: %w", domain.ErrDuplicateKey)
}

// GetByUserID возвращает реферальную запись юзера вместе с цепочкой.
func (s *ReferralService) GetByUserID(ctx context.Context, userID int64) (*domain.ReferralRecord, error) {
	record, err := s.referralRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return record, nil
}

// Earnings возвращает комиссии, заработанные юзером как предком чужих цепочек.
func (s *ReferralService) Earnings(ctx context.Context, userID int64) ([]domain.CommissionTransaction, error) {
	transactions, err := s.commissionRepo.GetByToUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}

func (s *ReferralService) resolveChain(
	ctx context.Context,
	userID int64,
	referralCode string,
) ([]repoargs.ChainEntryCreate, error) {
	if referralCode == "" {
		return nil, nil
	}

	referrerRecord, codeErr := s.referralRepo.FindByCode(ctx, referralCode)
	if codeErr != nil {
		if errors.Is(codeErr, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidReferralCode
		}
		return nil, fmt.Errorf("resolving referral code: %w", codeErr)
	}
	if referrerRecord.UserID == userID {
		return nil, domain.ErrSelfReferral
	}

	ancestors := []int64{referrerRecord.UserID}
	for _, entry := range referrerRecord.Chain {
		if len(ancestors) == domain.MaxChainDepth {
			break
		}
		ancestors = append(ancestors, entry.ReferrerID)
	}

	var chain = make([]repoargs.ChainEntryCreate, 0, len(ancestors))
	seen := map[int64]struct{}{userID: {}}
	for _, ancestorID := range ancestors {
		// страховка на случай битых данных: предок не может быть самим
		// юзером или повторяться.
		if _, ok := seen[ancestorID]; ok {
			continue
		}
		seen[ancestorID] = struct{}{}

		// уровень считается по уже собранной цепочке, чтобы пропуск битого
		// предка не оставлял дыру в нумерации.
		level := len(chain) + 1
		ancestor, userErr := s.userRepo.GetByID(ctx, ancestorID)
		if userErr != nil {
			return nil, fmt.Errorf("resolving ancestor %d: %w", ancestorID, userErr)
		}
		chain = append(chain, repoargs.ChainEntryCreate{
			Level:      level,
			ReferrerID: ancestorID,
			Percentage: RateFor(ancestor.VIPLevel, level),
		})
	}
	return chain, nil
}

func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:referralCodeLength])
}
