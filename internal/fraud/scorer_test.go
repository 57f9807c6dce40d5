package fraud_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/fraud"
	"github.com/fsdevblog/groph-rewards/internal/fraud/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type RuleScorerTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockCounters *mocks.MockCounterStore
	scorer       *fraud.RuleScorer
}

func TestRuleScorerSuite(t *testing.T) {
	suite.Run(t, new(RuleScorerTestSuite))
}

func (s *RuleScorerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCounters = mocks.NewMockCounterStore(s.mockCtrl)

	l := logrus.New()
	l.SetOutput(io.Discard)

	s.scorer = fraud.NewRuleScorer(s.mockCounters, l)
}

func (s *RuleScorerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// Чистое событие: все счетчики в норме, задача выполнена в разумный срок.
func (s *RuleScorerTestSuite) TestCleanEvent() {
	started := time.Now().Add(-10 * time.Minute)

	s.mockCounters.EXPECT().
		Observe(gomock.Any(), "user:1", time.Hour).
		Return(int64(2), nil)
	s.mockCounters.EXPECT().
		Observe(gomock.Any(), "device:fp-1", 24*time.Hour).
		Return(int64(3), nil)

	result, err := s.scorer.Score(s.T().Context(), fraud.Event{
		Kind:              fraud.KindTaskCompletion,
		UserID:            1,
		DeviceFingerprint: "fp-1",
		TaskStartedAt:     started,
		TaskCompletedAt:   started.Add(9 * time.Minute),
		TaskEstimated:     10 * time.Minute,
	})

	s.Require().NoError(err)
	s.Zero(result.Score)
	s.Empty(result.Flags)
	s.False(result.Hold())
}

// Эвристики аддитивны, сумма ограничена сотней.
func (s *RuleScorerTestSuite) TestScoreCapped() {
	started := time.Now().Add(-time.Minute)

	s.mockCounters.EXPECT().
		Observe(gomock.Any(), "user:1", time.Hour).
		Return(int64(50), nil)
	s.mockCounters.EXPECT().
		Observe(gomock.Any(), "device:fp-1", 24*time.Hour).
		Return(int64(200), nil)

	// задача "выполнена" за 2% оценочного времени: +60, объем юзера +30,
	// объем устройства +25 — сырая сумма 115 ужимается до 100.
	result, err := s.scorer.Score(s.T().Context(), fraud.Event{
		Kind:              fraud.KindTaskCompletion,
		UserID:            1,
		DeviceFingerprint: "fp-1",
		TaskStartedAt:     started,
		TaskCompletedAt:   started.Add(12 * time.Second),
		TaskEstimated:     10 * time.Minute,
	})

	s.Require().NoError(err)
	s.Equal(100, result.Score)
	s.ElementsMatch([]string{"completion_too_fast", "user_volume", "device_volume"}, result.Flags)
	s.True(result.Hold())
}

func (s *RuleScorerTestSuite) TestCompletionSpeed() {
	started := time.Now().Add(-time.Hour)

	cases := []struct {
		name      string
		elapsed   time.Duration
		wantScore int
		wantFlag  string
	}{
		{name: "очень быстро", elapsed: 30 * time.Second, wantScore: 60, wantFlag: "completion_too_fast"},
		{name: "быстро", elapsed: 2 * time.Minute, wantScore: 40, wantFlag: "completion_fast"},
		{name: "в норме", elapsed: 5 * time.Minute, wantScore: 0},
	}

	for _, c := range cases {
		s.Run(c.name, func() {
			s.mockCounters.EXPECT().
				Observe(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(int64(1), nil).
				Times(2)

			result, err := s.scorer.Score(s.T().Context(), fraud.Event{
				Kind:              fraud.KindTaskCompletion,
				UserID:            1,
				DeviceFingerprint: "fp-1",
				TaskStartedAt:     started,
				TaskCompletedAt:   started.Add(c.elapsed),
				TaskEstimated:     10 * time.Minute,
			})

			s.Require().NoError(err)
			s.Equal(c.wantScore, result.Score)
			if c.wantFlag != "" {
				s.Contains(result.Flags, c.wantFlag)
			}
		})
	}
}

// Для выводов оконные счетчики не считаются, зато работает возраст аккаунта.
func (s *RuleScorerTestSuite) TestWithdrawalAccountAge() {
	now := time.Now()

	cases := []struct {
		name      string
		createdAt time.Time
		wantScore int
	}{
		{name: "аккаунту меньше суток", createdAt: now.Add(-2 * time.Hour), wantScore: 50},
		{name: "аккаунту меньше недели", createdAt: now.Add(-3 * 24 * time.Hour), wantScore: 30},
		{name: "старый аккаунт", createdAt: now.Add(-60 * 24 * time.Hour), wantScore: 0},
	}

	for _, c := range cases {
		s.Run(c.name, func() {
			result, err := s.scorer.Score(s.T().Context(), fraud.Event{
				Kind:             fraud.KindWithdrawal,
				UserID:           1,
				AccountCreatedAt: c.createdAt,
				OccurredAt:       now,
			})

			s.Require().NoError(err)
			s.Equal(c.wantScore, result.Score)
		})
	}
}

// Недоступность счетчиков не фатальна: эвристика пропускается.
func (s *RuleScorerTestSuite) TestCounterFailureSkipsHeuristic() {
	s.mockCounters.EXPECT().
		Observe(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("connection refused")).
		Times(2)

	result, err := s.scorer.Score(s.T().Context(), fraud.Event{
		Kind:              fraud.KindAppInstall,
		UserID:            1,
		DeviceFingerprint: "fp-1",
	})

	s.Require().NoError(err)
	s.Zero(result.Score)
}

// IP подменяет отсутствующий отпечаток устройства.
func (s *RuleScorerTestSuite) TestIPFallback() {
	s.mockCounters.EXPECT().
		Observe(gomock.Any(), "user:1", time.Hour).
		Return(int64(1), nil)
	s.mockCounters.EXPECT().
		Observe(gomock.Any(), "device:10.0.0.1", 24*time.Hour).
		Return(int64(100), nil)

	result, err := s.scorer.Score(s.T().Context(), fraud.Event{
		Kind:   fraud.KindAppInstall,
		UserID: 1,
		IP:     "10.0.0.1",
	})

	s.Require().NoError(err)
	s.Equal(25, result.Score)
	s.Contains(result.Flags, "device_volume")
}
