package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralService ReferralServicer
}

func NewReferralHandler(referralService ReferralServicer) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
	}
}

type ReferralChainEntryResponse struct {
	Level      int     `json:"level"`
	ReferrerID int64   `json:"referrer_id"`
	Percentage float64 `json:"percentage"`
}

type ReferralResponse struct {
	ReferralCode   string                       `json:"referral_code"`
	Status         string                       `json:"status"`
	TotalGenerated float64                      `json:"total_generated"`
	Chain          []ReferralChainEntryResponse `json:"chain"`
}

// Index GET RouteGroup + ReferralRoute. Возвращает реферальную запись текущего
// юзера: его код приглашения и зафиксированную цепочку предков.
func (h *ReferralHandler) Index(c *gin.Context) {
	userID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	record, err := h.referralService.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			_ = c.AbortWithError(http.StatusNotFound, errors.New("referral record not found")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	chain := make([]ReferralChainEntryResponse, 0, len(record.Chain))
	for _, entry := range record.Chain {
		chain = append(chain, ReferralChainEntryResponse{
			Level:      entry.Level,
			ReferrerID: entry.ReferrerID,
			Percentage: entry.Percentage.InexactFloat64(),
		})
	}

	c.JSON(http.StatusOK, ReferralResponse{
		ReferralCode:   record.ReferralCode,
		Status:         string(record.Status),
		TotalGenerated: record.TotalGenerated.InexactFloat64(),
		Chain:          chain,
	})
}

type EarningResponse struct {
	ID          int64      `json:"id"`
	FromUserID  int64      `json:"from_user_id"`
	Level       int        `json:"level"`
	Percentage  float64    `json:"percentage"`
	Sum         float64    `json:"sum"`
	EventType   string     `json:"event_type"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ProcessedAt time.Time  `json:"processed_at"`
}

// Earnings GET RouteGroup + ReferralEarningsRoute. Возвращает комиссии,
// начисленные текущему юзеру с событий его рефералов, по убыванию даты.
// Пустой список отдает 204.
func (h *ReferralHandler) Earnings(c *gin.Context) {
	userID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := h.referralService.Earnings(ctx, userID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	if len(transactions) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]EarningResponse, 0, len(transactions))
	for _, transaction := range transactions {
		response = append(response, EarningResponse{
			ID:          transaction.ID,
			FromUserID:  transaction.FromUserID,
			Level:       transaction.Level,
			Percentage:  transaction.Percentage.InexactFloat64(),
			Sum:         transaction.CommissionAmount.InexactFloat64(),
			EventType:   string(transaction.TransactionType),
			Status:      string(transaction.Status),
			PaidAt:      transaction.PaidAt,
			ProcessedAt: transaction.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}
