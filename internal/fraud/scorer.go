// Package fraud содержит эвристический скоринг рискованных событий.
// Скоринг аддитивный: каждая эвристика считается независимо, сумма
// ограничивается сверху 100. Скоринг никогда не отклоняет событие — он лишь
// решает, будет ли награда выплачена сразу или удержана до ручной проверки.
package fraud

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=scorer.go -destination=mocks/mocks.go -package=mocks

type EventKind string

const (
	KindTaskCompletion EventKind = "task_completion"
	KindAppInstall     EventKind = "app_install"
	KindPurchase       EventKind = "purchase"
	KindWithdrawal     EventKind = "withdrawal"
)

type Event struct {
	Kind              EventKind
	UserID            int64
	DeviceFingerprint string
	IP                string
	TaskStartedAt     time.Time
	TaskCompletedAt   time.Time
	TaskEstimated     time.Duration
	AccountCreatedAt  time.Time
	OccurredAt        time.Time
}

type Result struct {
	Score int
	Flags []string
}

// HoldThreshold скор выше этого значения переводит награду/вывод в pending
// вместо немедленной выплаты.
const HoldThreshold = 70

func (r Result) Hold() bool {
	return r.Score > HoldThreshold
}

// CounterStore счетчики событий в скользящем окне. Observe регистрирует
// событие под ключом key и возвращает текущее значение счетчика окна.
type CounterStore interface {
	Observe(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Scorer interface {
	Score(ctx context.Context, event Event) (Result, error)
}

const (
	maxScore = 100

	// скорость выполнения задачи относительно оценочной длительности
	speedFastRatio      = 0.30
	speedVeryFastRatio  = 0.10
	speedFastWeight     = 40
	speedVeryFastWeight = 60

	// объем выполнений одним юзером
	volumeWindow = time.Hour
	volumeLimit  = 10
	volumeWeight = 30

	// объем выполнений с одного устройства/IP
	deviceWindow = 24 * time.Hour
	deviceLimit  = 50
	deviceWeight = 25

	// возраст аккаунта (только для заявок на вывод)
	accountAgeDayWeight  = 50
	accountAgeWeekWeight = 30
)

// RuleScorer детерминированная таблица правил поверх оконных счетчиков.
type RuleScorer struct {
	counters CounterStore
	l        *logrus.Entry
}

func NewRuleScorer(counters CounterStore, l *logrus.Logger) *RuleScorer {
	return &RuleScorer{
		counters: counters,
		l:        l.WithField("component", "fraud"),
	}
}

// Score считает суммарный риск события. Ошибки счетчиков не фатальны:
// соответствующая эвристика пропускается, событие скорится по остальным.
func (s *RuleScorer) Score(ctx context.Context, event Event) (Result, error) {
	var score int
	var flags []string

	if w, flag := s.speedScore(event); w > 0 {
		score += w
		flags = append(flags, flag)
	}

	if event.Kind != KindWithdrawal {
		if w, flag := s.volumeScore(ctx, event); w > 0 {
			score += w
			flags = append(flags, flag)
		}
		if w, flag := s.deviceScore(ctx, event); w > 0 {
			score += w
			flags = append(flags, flag)
		}
	}

	if event.Kind == KindWithdrawal {
		if w, flag := s.accountAgeScore(event); w > 0 {
			score += w
			flags = append(flags, flag)
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return Result{Score: score, Flags: flags}, nil
}

// speedScore задача выполнена подозрительно быстро относительно оценки.
func (s *RuleScorer) speedScore(event Event) (int, string) {
	if event.TaskEstimated <= 0 || event.TaskStartedAt.IsZero() || event.TaskCompletedAt.IsZero() {
		return 0, ""
	}
	elapsed := event.TaskCompletedAt.Sub(event.TaskStartedAt)
	if elapsed < 0 {
		return 0, ""
	}
	ratio := float64(elapsed) / float64(event.TaskEstimated)
	switch {
	case ratio < speedVeryFastRatio:
		return speedVeryFastWeight, "completion_too_fast"
	case ratio < speedFastRatio:
		return speedFastWeight, "completion_fast"
	}
	return 0, ""
}

func (s *RuleScorer) volumeScore(ctx context.Context, event Event) (int, string) {
	count, err := s.counters.Observe(ctx, userKey(event.UserID), volumeWindow)
	if err != nil {
		s.l.WithError(err).Warn("volume counter unavailable, skipping heuristic")
		return 0, ""
	}
	if count > volumeLimit {
		return volumeWeight, "user_volume"
	}
	return 0, ""
}

func (s *RuleScorer) deviceScore(ctx context.Context, event Event) (int, string) {
	fingerprint := event.DeviceFingerprint
	if fingerprint == "" {
		fingerprint = event.IP
	}
	if fingerprint == "" {
		return 0, ""
	}
	count, err := s.counters.Observe(ctx, deviceKey(fingerprint), deviceWindow)
	if err != nil {
		s.l.WithError(err).Warn("device counter unavailable, skipping heuristic")
		return 0, ""
	}
	if count > deviceLimit {
		return deviceWeight, "device_volume"
	}
	return 0, ""
}

func (s *RuleScorer) accountAgeScore(event Event) (int, string) {
	if event.AccountCreatedAt.IsZero() {
		return 0, ""
	}
	now := event.OccurredAt
	if now.IsZero() {
		now = time.Now()
	}
	age := now.Sub(event.AccountCreatedAt)
	switch {
	case age < 24*time.Hour:
		return accountAgeDayWeight, "account_age_day"
	case age < 7*24*time.Hour:
		return accountAgeWeekWeight, "account_age_week"
	}
	return 0, ""
}
