package service

import (
	"context"
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

type VestingServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockGrantRepo   *mocks.MockGrantRepository
	mockBalanceRepo *mocks.MockBalanceRepository
	mockScorer      *fraudmocks.MockScorer
	vestingService  *VestingService
}

func TestVestingServiceSuite(t *testing.T) {
	suite.Run(t, new(VestingServiceTestSuite))
}

func (s *VestingServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockGrantRepo = mocks.NewMockGrantRepository(s.mockCtrl)
	s.mockBalanceRepo = mocks.NewMockBalanceRepository(s.mockCtrl)
	s.mockScorer = fraudmocks.NewMockScorer(s.mockCtrl)

	// Мок получения репозиториев из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.GrantRepoName)).
		Return(s.mockGrantRepo, nil).AnyTimes()

	// Мок получения репозиториев из транзакции.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.GrantRepoName)).
		Return(s.mockGrantRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.BalanceRepoName)).
		Return(s.mockBalanceRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	// Инициализация сервиса.
	vestingService, servErr := NewVestingService(s.mockUOW, s.mockScorer, l)
	s.Require().NoError(servErr)
	s.vestingService = vestingService
}

func (s *VestingServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// halfAndHalfGrant активный грант на 100: 50 сразу, 50 через сутки.
func halfAndHalfGrant(createdAt time.Time) *domain.CreditGrant {
	return &domain.CreditGrant{
		ID:        1,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		UserID:    10,
		Amount:    decimal.NewFromInt(100),
		Source:    domain.GrantSourceTask,
		Status:    domain.GrantStatusActive,
		Schedule: domain.VestingSchedule{
			Immediate: decimal.NewFromInt(50),
			AfterDay:  decimal.NewFromInt(50),
		},
	}
}

func (s *VestingServiceTestSuite) TestGrant() {
	args := GrantArgs{
		UserID: 10,
		Amount: decimal.NewFromInt(100),
		Schedule: domain.VestingSchedule{
			Immediate: decimal.NewFromInt(50),
			AfterDay:  decimal.NewFromInt(50),
		},
		Source: domain.GrantSourceTask,
	}

	s.mockScorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		Return(fraud.Result{Score: 5}, nil)

	s.mockGrantRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, create repoargs.GrantCreate) (*domain.CreditGrant, error) {
			s.Equal(domain.GrantStatusActive, create.Status)
			s.Equal(5, create.FraudScore)
			return &domain.CreditGrant{
				ID:       1,
				UserID:   create.UserID,
				Amount:   create.Amount,
				Status:   create.Status,
				Schedule: create.Schedule,
			}, nil
		})

	grant, err := s.vestingService.Grant(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(domain.GrantStatusActive, grant.Status)
}

// Сумма траншей обязана совпадать с суммой гранта.
func (s *VestingServiceTestSuite) TestGrantScheduleMismatch() {
	grant, err := s.vestingService.Grant(s.T().Context(), GrantArgs{
		UserID:   10,
		Amount:   decimal.NewFromInt(100),
		Schedule: domain.VestingSchedule{Immediate: decimal.NewFromInt(99)},
	})

	s.Require().ErrorIs(err, domain.ErrInvalidVestingSchedule)
	s.Nil(grant)
}

// Грант с высоким фрод-скором создается удержанным.
func (s *VestingServiceTestSuite) TestGrantFraudHold() {
	s.mockScorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		Return(fraud.Result{Score: 90, Flags: []string{"completion_too_fast"}}, nil)

	s.mockGrantRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, create repoargs.GrantCreate) (*domain.CreditGrant, error) {
			s.Equal(domain.GrantStatusPending, create.Status)
			s.Equal(90, create.FraudScore)
			return &domain.CreditGrant{ID: 2, Status: create.Status, FraudScore: create.FraudScore}, nil
		})

	grant, err := s.vestingService.Grant(s.T().Context(), GrantArgs{
		UserID:   10,
		Amount:   decimal.NewFromInt(100),
		Schedule: domain.VestingSchedule{Immediate: decimal.NewFromInt(100)},
	})
	s.Require().NoError(err)
	s.Equal(domain.GrantStatusPending, grant.Status)
}

// Сразу после создания созрел только немедленный транш: высвобождается 50.
// Повторный вызов в тот же момент — 0, двойного зачисления нет.
func (s *VestingServiceTestSuite) TestProcessVestingImmediate() {
	createdAt := time.Now()

	s.mockGrantRepo.EXPECT().
		GetByID(gomock.Any(), int64(1)).
		Return(halfAndHalfGrant(createdAt), nil)

	s.mockGrantRepo.EXPECT().
		InsertRelease(gomock.Any(), int64(1), domain.BucketImmediate, decimal.NewFromInt(50))
	s.mockBalanceRepo.EXPECT().
		Credit(gomock.Any(), int64(10), decimal.NewFromInt(50))

	released, err := s.vestingService.ProcessVesting(s.T().Context(), 1, createdAt.Add(time.Minute))
	s.Require().NoError(err)
	s.True(released.Equal(decimal.NewFromInt(50)), "released %s", released)

	// Второй вызов: немедленный транш уже в прогрессе, суточный не созрел.
	vested := halfAndHalfGrant(createdAt)
	vested.Progress = domain.VestingSchedule{Immediate: decimal.NewFromInt(50)}
	s.mockGrantRepo.EXPECT().
		GetByID(gomock.Any(), int64(1)).
		Return(vested, nil)

	released, err = s.vestingService.ProcessVesting(s.T().Context(), 1, createdAt.Add(2*time.Minute))
	s.Require().NoError(err)
	s.True(released.IsZero(), "released %s", released)
}

// Спустя сутки созревает второй транш; полный прогресс переводит грант в
// терминальный статус.
func (s *VestingServiceTestSuite) TestProcessVestingMatured() {
	createdAt := time.Now().Add(-25 * time.Hour)

	grant := halfAndHalfGrant(createdAt)
	grant.Progress = domain.VestingSchedule{Immediate: decimal.NewFromInt(50)}

	s.mockGrantRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(grant, nil)

	s.mockGrantRepo.EXPECT().
		InsertRelease(gomock.Any(), int64(1), domain.BucketAfterDay, decimal.NewFromInt(50))
	s.mockBalanceRepo.EXPECT().
		Credit(gomock.Any(), int64(10), decimal.NewFromInt(50))
	s.mockGrantRepo.EXPECT().MarkVested(gomock.Any(), int64(1))

	released, err := s.vestingService.ProcessVesting(s.T().Context(), 1, time.Now())
	s.Require().NoError(err)
	s.True(released.Equal(decimal.NewFromInt(50)), "released %s", released)
	s.True(grant.IsVested)
	s.Equal(domain.GrantStatusVested, grant.Status)
}

// Конкурентное высвобождение того же транша не задваивает зачисление: вставка
// журнальной записи упирается в уникальный ключ и транш пропускается.
func (s *VestingServiceTestSuite) TestProcessVestingConcurrentRelease() {
	createdAt := time.Now()

	s.mockGrantRepo.EXPECT().
		GetByID(gomock.Any(), int64(1)).
		Return(halfAndHalfGrant(createdAt), nil)

	s.mockGrantRepo.EXPECT().
		InsertRelease(gomock.Any(), int64(1), domain.BucketImmediate, decimal.NewFromInt(50)).
		Return(domain.ErrDuplicateKey)

	released, err := s.vestingService.ProcessVesting(s.T().Context(), 1, createdAt.Add(time.Minute))
	s.Require().NoError(err)
	s.True(released.IsZero(), "released %s", released)
}

// Удержанный фрод-проверкой грант не высвобождает транши.
func (s *VestingServiceTestSuite) TestProcessVestingHeldGrant() {
	held := halfAndHalfGrant(time.Now().Add(-48 * time.Hour))
	held.Status = domain.GrantStatusPending

	s.mockGrantRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(held, nil)

	released, err := s.vestingService.ProcessVesting(s.T().Context(), 1, time.Now())
	s.Require().NoError(err)
	s.True(released.IsZero(), "released %s", released)
}

// Вестинг всех грантов юзера: ошибка одного гранта не мешает остальным.
func (s *VestingServiceTestSuite) TestProcessUserVesting() {
	createdAt := time.Now()

	healthy := halfAndHalfGrant(createdAt)
	broken := halfAndHalfGrant(createdAt)
	broken.ID = 2

	s.mockGrantRepo.EXPECT().
		GetUnvestedByUserID(gomock.Any(), int64(10)).
		Return([]domain.CreditGrant{*broken, *healthy}, nil)

	s.mockGrantRepo.EXPECT().
		InsertRelease(gomock.Any(), int64(2), domain.BucketImmediate, decimal.NewFromInt(50)).
		Return(domain.ErrUnknown)
	s.mockGrantRepo.EXPECT().
		InsertRelease(gomock.Any(), int64(1), domain.BucketImmediate, decimal.NewFromInt(50))
	s.mockBalanceRepo.EXPECT().
		Credit(gomock.Any(), int64(10), decimal.NewFromInt(50))

	released, err := s.vestingService.ProcessUserVesting(s.T().Context(), 10, createdAt.Add(time.Minute))
	s.Require().NoError(err)
	s.True(released.Equal(decimal.NewFromInt(50)), "released %s", released)
}

func (s *VestingServiceTestSuite) TestReleaseHold() {
	s.mockGrantRepo.EXPECT().
		SetStatus(gomock.Any(), int64(3), domain.GrantStatusPending, domain.GrantStatusActive)

	s.Require().NoError(s.vestingService.ReleaseHold(s.T().Context(), 3))
}

func (s *VestingServiceTestSuite) TestCancelVestedGrant() {
	s.mockGrantRepo.EXPECT().
		SetStatus(gomock.Any(), int64(4), domain.GrantStatusPending, domain.GrantStatusCancelled).
		Return(domain.ErrRecordNotFound)
	s.mockGrantRepo.EXPECT().
		SetStatus(gomock.Any(), int64(4), domain.GrantStatusActive, domain.GrantStatusCancelled).
		Return(domain.ErrRecordNotFound)

	err := s.vestingService.Cancel(s.T().Context(), 4)
	s.Require().ErrorIs(err, domain.ErrAlreadyVested)
}
