package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BalanceHandler struct {
	balanceService BalanceServicer
	vestingService VestingServicer
}

func NewBalanceHandler(balanceService BalanceServicer, vestingService VestingServicer) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
		vestingService: vestingService,
	}
}

type BalanceResponse struct {
	Total        float64 `json:"total"`
	Available    float64 `json:"available"`
	Withdrawable float64 `json:"withdrawable"`
}

// Index GET RouteGroup + BalanceRoute. Возвращает балансы текущего юзера.
// Перед чтением опортунистически прогоняет вестинг: созревшие к этому моменту
// транши попадают в доступный баланс ровно в момент запроса.
func (h *BalanceHandler) Index(c *gin.Context) {
	userID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if _, vestErr := h.vestingService.ProcessUserVesting(ctx, userID, time.Now()); vestErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, vestErr).SetType(gin.ErrorTypePrivate)
		return
	}

	account, getErr := h.balanceService.GetBalance(ctx, userID)
	if getErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, getErr).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{
		Total:        account.Total.InexactFloat64(),
		Available:    account.Available.InexactFloat64(),
		Withdrawable: account.Withdrawable.InexactFloat64(),
	})
}

type WithdrawParams struct {
	Sum float64 `binding:"required,gt=0" json:"sum"`
}

type WithdrawalResponse struct {
	ID          int64     `json:"id"`
	Sum         float64   `json:"sum"`
	Status      string    `json:"status"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Withdraw POST RouteGroup + BalanceWithdrawRoute. Создает заявку на вывод
// средств текущего юзера.
func (h *BalanceHandler) Withdraw(c *gin.Context) {
	var params WithdrawParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}
	userID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	request, err := h.balanceService.RequestWithdrawal(ctx, userID, decimal.NewFromFloat(params.Sum))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			_ = c.AbortWithError(http.StatusPaymentRequired, errors.New("insufficient balance")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrWithdrawalNotAllowed):
			_ = c.AbortWithError(http.StatusForbidden, errors.New("withdrawal is not allowed")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, WithdrawalResponse{
		ID:          request.ID,
		Sum:         request.Amount.InexactFloat64(),
		Status:      string(request.Status),
		ProcessedAt: request.UpdatedAt,
	})
}

// ApproveWithdrawal POST RouteGroup + ApproveWithdrawalRoute. Одобряет
// заявку на вывод, удержанную фрод-проверкой.
func (h *BalanceHandler) ApproveWithdrawal(c *gin.Context) {
	h.resolveWithdrawal(c, h.balanceService.ApproveWithdrawal)
}

// RejectWithdrawal POST RouteGroup + RejectWithdrawalRoute. Отклоняет
// удержанную заявку и возвращает зарезервированные средства на счет.
func (h *BalanceHandler) RejectWithdrawal(c *gin.Context) {
	h.resolveWithdrawal(c, h.balanceService.RejectWithdrawal)
}

func (h *BalanceHandler) resolveWithdrawal(c *gin.Context, resolve func(context.Context, int64) error) {
	withdrawalID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, parseErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := resolve(ctx, withdrawalID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			_ = c.AbortWithError(http.StatusNotFound, errors.New("held withdrawal not found")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

// Withdrawals GET RouteGroup + WithdrawalsRoute. Возвращает заявки текущего
// юзера на вывод по убыванию даты. Пустой список отдает 204.
func (h *BalanceHandler) Withdrawals(c *gin.Context) {
	userID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	requests, err := h.balanceService.Withdrawals(ctx, userID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	if len(requests) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]WithdrawalResponse, 0, len(requests))
	for _, request := range requests {
		response = append(response, WithdrawalResponse{
			ID:          request.ID,
			Sum:         request.Amount.InexactFloat64(),
			Status:      string(request.Status),
			ProcessedAt: request.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}
