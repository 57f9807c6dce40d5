package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/fraud"
	"github.com/fsdevblog/groph-rewards/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// EventsHandler принимает монетарные события платформы: покупки, выполнение
// заданий и установки приложений. Каждое событие порождает комиссии предкам
// плательщика, а наградные события дополнительно создают кредитный грант
// самому юзеру.
type EventsHandler struct {
	commissionService CommissionServicer
	vestingService    VestingServicer
}

func NewEventsHandler(commissionService CommissionServicer, vestingService VestingServicer) *EventsHandler {
	return &EventsHandler{
		commissionService: commissionService,
		vestingService:    vestingService,
	}
}

type PurchaseEventParams struct {
	ExternalID        string  `binding:"required"       json:"external_id"`
	Sum               float64 `binding:"required,gt=0"  json:"sum"`
	DeviceFingerprint string  `json:"device_fingerprint"`
}

type TaskEventParams struct {
	ExternalID        string    `binding:"required"      json:"external_id"`
	Sum               float64   `binding:"required,gt=0" json:"sum"`
	DeviceFingerprint string    `json:"device_fingerprint"`
	StartedAt         time.Time `binding:"required"      json:"started_at"`
	CompletedAt       time.Time `binding:"required"      json:"completed_at"`
	EstimatedMinutes  int       `binding:"required,gt=0" json:"estimated_minutes"`
}

type InstallEventParams struct {
	ExternalID        string  `binding:"required"       json:"external_id"`
	Sum               float64 `binding:"required,gt=0"  json:"sum"`
	DeviceFingerprint string  `json:"device_fingerprint"`
}

type GrantResponse struct {
	ID     int64   `json:"id"`
	Sum    float64 `json:"sum"`
	Status string  `json:"status"`
}

type EventResponse struct {
	Grant       *GrantResponse `json:"grant,omitempty"`
	Commissions int            `json:"commissions"`
}

// Purchase POST RouteGroup + EventPurchaseRoute. Покупка VIP статуса текущим
// юзером: самому юзеру ничего не начисляется, комиссии расходятся по его
// реферальной цепочке. Повторная отправка того же external_id — no-op.
func (h *EventsHandler) Purchase(c *gin.Context) {
	var params PurchaseEventParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}
	userID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := h.commissionService.Process(ctx, service.ProcessArgs{
		PayerID:               userID,
		Amount:                decimal.NewFromFloat(params.Sum),
		TransactionType:       domain.EventVIPPurchase,
		ExternalTransactionID: params.ExternalID,
		Fraud: fraud.Event{
			Kind:              fraud.KindPurchase,
			DeviceFingerprint: params.DeviceFingerprint,
			IP:                c.ClientIP(),
			OccurredAt:        time.Now(),
		},
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusAccepted, EventResponse{Commissions: len(transactions)})
}

// TaskCompletion POST RouteGroup + EventTaskRoute. Выполнение задания: юзер
// получает грант с равномерным вестингом на 4 транша, комиссии с суммы награды
// расходятся по его цепочке.
func (h *EventsHandler) TaskCompletion(c *gin.Context) {
	var params TaskEventParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}
	userID := getUserIDFromContext(c)

	fraudEvent := fraud.Event{
		Kind:              fraud.KindTaskCompletion,
		DeviceFingerprint: params.DeviceFingerprint,
		IP:                c.ClientIP(),
		TaskStartedAt:     params.StartedAt,
		TaskCompletedAt:   params.CompletedAt,
		TaskEstimated:     time.Duration(params.EstimatedMinutes) * time.Minute,
		OccurredAt:        time.Now(),
	}
	amount := decimal.NewFromFloat(params.Sum)

	h.processRewardEvent(c, rewardEventArgs{
		userID:     userID,
		amount:     amount,
		schedule:   domain.EvenSplit(amount),
		source:     domain.GrantSourceTask,
		eventType:  domain.EventTaskCompletion,
		externalID: params.ExternalID,
		fraudEvent: fraudEvent,
	})
}

// AppInstall POST RouteGroup + EventInstallRoute. Установка приложения: грант
// без вестинга (вся сумма доступна сразу) плюс комиссии по цепочке.
func (h *EventsHandler) AppInstall(c *gin.Context) {
	var params InstallEventParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}
	userID := getUserIDFromContext(c)
	amount := decimal.NewFromFloat(params.Sum)

	h.processRewardEvent(c, rewardEventArgs{
		userID:     userID,
		amount:     amount,
		schedule:   domain.ImmediateOnly(amount),
		source:     domain.GrantSourceAppInstall,
		eventType:  domain.EventAppInstall,
		externalID: params.ExternalID,
		fraudEvent: fraud.Event{
			Kind:              fraud.KindAppInstall,
			DeviceFingerprint: params.DeviceFingerprint,
			IP:                c.ClientIP(),
			OccurredAt:        time.Now(),
		},
	})
}

type rewardEventArgs struct {
	userID     int64
	amount     decimal.Decimal
	schedule   domain.VestingSchedule
	source     domain.GrantSourceType
	eventType  domain.RewardEventType
	externalID string
	fraudEvent fraud.Event
}

// processRewardEvent общий путь наградных событий: грант юзеру, затем
// комиссии предкам. Шаги независимы — упавшие комиссии не откатывают грант.
func (h *EventsHandler) processRewardEvent(c *gin.Context, args rewardEventArgs) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	grant, grantErr := h.vestingService.Grant(ctx, service.GrantArgs{
		UserID:   args.userID,
		Amount:   args.amount,
		Schedule: args.schedule,
		Source:   args.source,
		Fraud:    args.fraudEvent,
	})
	if grantErr != nil {
		if errors.Is(grantErr, domain.ErrInvalidVestingSchedule) {
			_ = c.AbortWithError(http.StatusUnprocessableEntity, errors.New("invalid reward amount")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, grantErr).SetType(gin.ErrorTypePrivate)
		return
	}

	// событие уже отскорено при создании гранта: комиссии переиспользуют
	// его скор, оконные счетчики не инкрементируются второй раз и решение
	// об удержании для гранта и комиссий единое.
	transactions, processErr := h.commissionService.Process(ctx, service.ProcessArgs{
		PayerID:               args.userID,
		Amount:                args.amount,
		TransactionType:       args.eventType,
		ExternalTransactionID: args.externalID,
		Fraud:                 args.fraudEvent,
		Score:                 &fraud.Result{Score: grant.FraudScore},
	})
	if processErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, processErr).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusAccepted, EventResponse{
		Grant: &GrantResponse{
			ID:     grant.ID,
			Sum:    grant.Amount.InexactFloat64(),
			Status: string(grant.Status),
		},
		Commissions: len(transactions),
	})
}

// ApproveCommission POST RouteGroup + ApproveCommissionRoute. Одобряет
// комиссию, удержанную фрод-проверкой.
func (h *EventsHandler) ApproveCommission(c *gin.Context) {
	commissionID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, parseErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := h.commissionService.ApproveHeld(ctx, commissionID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			_ = c.AbortWithError(http.StatusNotFound, errors.New("held commission not found")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     transaction.ID,
		"status": transaction.Status,
	})
}

// ReleaseGrant POST RouteGroup + ReleaseGrantRoute. Снимает фрод-удержание с
// гранта; транши высвободятся следующим прогоном вестинга.
func (h *EventsHandler) ReleaseGrant(c *gin.Context) {
	grantID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, parseErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.vestingService.ReleaseHold(ctx, grantID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyVested):
			_ = c.AbortWithError(http.StatusConflict, errors.New("grant is not on hold")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrRecordNotFound):
			_ = c.AbortWithError(http.StatusNotFound, errors.New("grant not found")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}
	c.AbortWithStatus(http.StatusOK)
}
