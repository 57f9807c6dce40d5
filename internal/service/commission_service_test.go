package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/fraud"
	fraudmocks "github.com/fsdevblog/groph-rewards/internal/fraud/mocks"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/internal/service/mocks"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-rewards/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type CommissionServiceTestSuite struct {
	suite.Suite
	mockCtrl           *gomock.Controller
	mockUOW            *uowmocks.MockUOW
	mockTX             *uowmocks.MockTX
	mockReferralRepo   *mocks.MockReferralRepository
	mockUserRepo       *mocks.MockUserDirectory
	mockCommissionRepo *mocks.MockCommissionRepository
	mockBalanceRepo    *mocks.MockBalanceRepository
	mockScorer         *fraudmocks.MockScorer
	commissionService  *CommissionService
}

func TestCommissionServiceSuite(t *testing.T) {
	suite.Run(t, new(CommissionServiceTestSuite))
}

func (s *CommissionServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockReferralRepo = mocks.NewMockReferralRepository(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserDirectory(s.mockCtrl)
	s.mockCommissionRepo = mocks.NewMockCommissionRepository(s.mockCtrl)
	s.mockBalanceRepo = mocks.NewMockBalanceRepository(s.mockCtrl)
	s.mockScorer = fraudmocks.NewMockScorer(s.mockCtrl)

	// Мок получения репозиториев из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.ReferralRepoName)).
		Return(s.mockReferralRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	// Мок получения репозиториев из транзакции.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CommissionRepoName)).
		Return(s.mockCommissionRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.BalanceRepoName)).
		Return(s.mockBalanceRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ReferralRepoName)).
		Return(s.mockReferralRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	// Инициализация сервиса.
	commissionService, servErr := NewCommissionService(s.mockUOW, s.mockScorer, l)
	s.Require().NoError(servErr)
	s.commissionService = commissionService
}

func (s *CommissionServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// payerRecord цепочка плательщика (id 4): предки 3, 2 и 1 на уровнях 1-3.
func payerRecord() *domain.ReferralRecord {
	return &domain.ReferralRecord{
		ID:     4,
		UserID: 4,
		Status: domain.ReferralStatusActive,
		Chain: []domain.ReferralChainEntry{
			{Level: 1, ReferrerID: 3, Percentage: decimal.NewFromInt(20)},
			{Level: 2, ReferrerID: 2, Percentage: decimal.NewFromInt(10)},
			{Level: 3, ReferrerID: 1, Percentage: decimal.NewFromInt(5)},
		},
	}
}

// Покупка на 1000 раздает 200/100/50 трем поколениям предков, каждый шаг
// атомарен: запись комиссии, зачисление и инкремент счетчика плательщика.
func (s *CommissionServiceTestSuite) TestProcess() {
	amount := decimal.NewFromInt(1000)

	s.mockReferralRepo.EXPECT().
		FindByUserID(gomock.Any(), int64(4)).
		Return(payerRecord(), nil)

	s.mockScorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		Return(fraud.Result{Score: 10}, nil)

	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), int64(3)).
		Return(&domain.User{ID: 3, VIPLevel: 0}, nil)
	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), int64(2)).
		Return(&domain.User{ID: 2, VIPLevel: 3}, nil)
	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1, VIPLevel: 1}, nil)

	wantAmounts := map[int64]decimal.Decimal{
		3: decimal.NewFromInt(200), // уровень 1, vip0 -> 20%
		2: decimal.NewFromInt(100), // уровень 2 -> 10% независимо от vip
		1: decimal.NewFromInt(50),  // уровень 3 -> 5%
	}

	var nextID int64
	s.mockCommissionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CommissionCreate) (*domain.CommissionTransaction, error) {
			s.Equal(int64(4), args.FromUserID)
			s.Equal("tx-1", args.ExternalTransactionID)
			s.Equal(domain.CommissionStatusPending, args.Status)
			s.True(wantAmounts[args.ToUserID].Equal(args.CommissionAmount), "ancestor %d", args.ToUserID)

			nextID++
			return &domain.CommissionTransaction{
				ID:               nextID,
				FromUserID:       args.FromUserID,
				ToUserID:         args.ToUserID,
				Level:            args.Level,
				CommissionAmount: args.CommissionAmount,
				Status:           args.Status,
			}, nil
		}).Times(3)

	for ancestorID, commission := range wantAmounts {
		s.mockBalanceRepo.EXPECT().Credit(gomock.Any(), ancestorID, decimalEq(commission))
		s.mockReferralRepo.EXPECT().AddGeneratedCommission(gomock.Any(), int64(4), decimalEq(commission))
	}
	s.mockCommissionRepo.EXPECT().MarkPaid(gomock.Any(), gomock.Any(), gomock.Any()).Times(3)

	transactions, err := s.commissionService.Process(s.T().Context(), ProcessArgs{
		PayerID:               4,
		Amount:                amount,
		TransactionType:       domain.EventVIPPurchase,
		ExternalTransactionID: "tx-1",
	})

	s.Require().NoError(err)
	s.Require().Len(transactions, 3)
	for _, transaction := range transactions {
		s.Equal(domain.CommissionStatusPaid, transaction.Status)
		s.NotNil(transaction.PaidAt)
	}
}

// Повторная обработка того же внешнего события — no-op: вставка упирается в
// уникальный ключ и шаг молча пропускается.
func (s *CommissionServiceTestSuite) TestProcessIdempotent() {
	s.mockReferralRepo.EXPECT().
		FindByUserID(gomock.Any(), int64(4)).
		Return(payerRecord(), nil)

	s.mockScorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		Return(fraud.Result{}, nil)

	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
		Return(&domain.User{VIPLevel: 0}, nil).Times(3)

	s.mockCommissionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey).Times(3)

	transactions, err := s.commissionService.Process(s.T().Context(), ProcessArgs{
		PayerID:               4,
		Amount:                decimal.NewFromInt(1000),
		TransactionType:       domain.EventVIPPurchase,
		ExternalTransactionID: "tx-1",
	})

	s.Require().NoError(err)
	s.Empty(transactions)
}

// Плательщик без цепочки не ошибка: комиссии просто не начисляются.
func (s *CommissionServiceTestSuite) TestProcessWithoutChain() {
	s.mockReferralRepo.EXPECT().
		FindByUserID(gomock.Any(), int64(7)).
		Return(nil, domain.ErrRecordNotFound)

	transactions, err := s.commissionService.Process(s.T().Context(), ProcessArgs{
		PayerID:               7,
		Amount:                decimal.NewFromInt(100),
		ExternalTransactionID: "tx-2",
	})

	s.Require().NoError(err)
	s.Empty(transactions)
}

// Ошибка на одном предке не мешает остальным.
func (s *CommissionServiceTestSuite) TestProcessPartialFailure() {
	s.mockReferralRepo.EXPECT().
		FindByUserID(gomock.Any(), int64(4)).
		Return(payerRecord(), nil)

	s.mockScorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		Return(fraud.Result{}, nil)

	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), int64(3)).
		Return(nil, errors.New("connection reset"))
	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), int64(2)).
		Return(&domain.User{ID: 2}, nil)
	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1}, nil)

	var nextID int64
	s.mockCommissionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CommissionCreate) (*domain.CommissionTransaction, error) {
			nextID++
			return &domain.CommissionTransaction{
				ID:               nextID,
				FromUserID:       args.FromUserID,
				ToUserID:         args.ToUserID,
				CommissionAmount: args.CommissionAmount,
				Status:           args.Status,
			}, nil
		}).Times(2)

	s.mockBalanceRepo.EXPECT().Credit(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)
	s.mockCommissionRepo.EXPECT().MarkPaid(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)
	s.mockReferralRepo.EXPECT().AddGeneratedCommission(gomock.Any(), int64(4), gomock.Any()).Times(2)

	transactions, err := s.commissionService.Process(s.T().Context(), ProcessArgs{
		PayerID:               4,
		Amount:                decimal.NewFromInt(1000),
		ExternalTransactionID: "tx-3",
	})

	s.Require().NoError(err)
	s.Len(transactions, 2)
}

// Скор выше порога оставляет комиссии в pending: баланс не трогается.
func (s *CommissionServiceTestSuite) TestProcessFraudHold() {
	s.mockReferralRepo.EXPECT().
		FindByUserID(gomock.Any(), int64(4)).
		Return(payerRecord(), nil)

	s.mockScorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		Return(fraud.Result{Score: 85, Flags: []string{"completion_too_fast", "user_volume"}}, nil)

	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
		Return(&domain.User{VIPLevel: 0}, nil).Times(3)

	var nextID int64
	s.mockCommissionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CommissionCreate) (*domain.CommissionTransaction, error) {
			s.Equal(85, args.FraudScore)
			s.Equal(domain.CommissionStatusPending, args.Status)
			nextID++
			return &domain.CommissionTransaction{
				ID:         nextID,
				FromUserID: args.FromUserID,
				ToUserID:   args.ToUserID,
				Status:     args.Status,
				FraudScore: args.FraudScore,
			}, nil
		}).Times(3)

	transactions, err := s.commissionService.Process(s.T().Context(), ProcessArgs{
		PayerID:               4,
		Amount:                decimal.NewFromInt(1000),
		TransactionType:       domain.EventTaskCompletion,
		ExternalTransactionID: "tx-4",
	})

	s.Require().NoError(err)
	s.Require().Len(transactions, 3)
	for _, transaction := range transactions {
		s.Equal(domain.CommissionStatusPending, transaction.Status)
	}
}

// Готовый скор переиспользуется как есть: скорер не вызывается повторно и
// оконные счетчики события не инкрементируются второй раз.
func (s *CommissionServiceTestSuite) TestProcessPrecomputedScore() {
	s.mockReferralRepo.EXPECT().
		FindByUserID(gomock.Any(), int64(4)).
		Return(payerRecord(), nil)

	// s.mockScorer без ожиданий: любой вызов Score провалит тест.

	s.mockUserRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
		Return(&domain.User{VIPLevel: 0}, nil).Times(3)

	var nextID int64
	s.mockCommissionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CommissionCreate) (*domain.CommissionTransaction, error) {
			s.Equal(85, args.FraudScore)
			s.Equal(domain.CommissionStatusPending, args.Status)
			nextID++
			return &domain.CommissionTransaction{
				ID:         nextID,
				FromUserID: args.FromUserID,
				ToUserID:   args.ToUserID,
				Status:     args.Status,
				FraudScore: args.FraudScore,
			}, nil
		}).Times(3)

	transactions, err := s.commissionService.Process(s.T().Context(), ProcessArgs{
		PayerID:               4,
		Amount:                decimal.NewFromInt(1000),
		TransactionType:       domain.EventTaskCompletion,
		ExternalTransactionID: "tx-5",
		Score:                 &fraud.Result{Score: 85},
	})

	s.Require().NoError(err)
	s.Require().Len(transactions, 3)
	for _, transaction := range transactions {
		s.Equal(domain.CommissionStatusPending, transaction.Status)
	}
}

func (s *CommissionServiceTestSuite) TestApproveHeld() {
	held := domain.CommissionTransaction{
		ID:               11,
		FromUserID:       4,
		ToUserID:         3,
		CommissionAmount: decimal.NewFromInt(200),
		Status:           domain.CommissionStatusPending,
		FraudScore:       85,
	}

	s.mockCommissionRepo.EXPECT().GetByID(gomock.Any(), held.ID).Return(&held, nil)
	s.mockBalanceRepo.EXPECT().Credit(gomock.Any(), held.ToUserID, held.CommissionAmount)
	s.mockCommissionRepo.EXPECT().
		MarkPaid(gomock.Any(), held.ID, gomock.AssignableToTypeOf(time.Time{}))
	s.mockReferralRepo.EXPECT().AddGeneratedCommission(gomock.Any(), held.FromUserID, held.CommissionAmount)

	transaction, err := s.commissionService.ApproveHeld(s.T().Context(), held.ID)
	s.Require().NoError(err)
	s.Equal(domain.CommissionStatusPaid, transaction.Status)
	s.NotNil(transaction.PaidAt)
}

// Одобрить можно только удержанную комиссию.
func (s *CommissionServiceTestSuite) TestApproveHeldAlreadyPaid() {
	paid := domain.CommissionTransaction{ID: 12, Status: domain.CommissionStatusPaid}

	s.mockCommissionRepo.EXPECT().GetByID(gomock.Any(), paid.ID).Return(&paid, nil)

	transaction, err := s.commissionService.ApproveHeld(s.T().Context(), paid.ID)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
	s.Nil(transaction)
}
