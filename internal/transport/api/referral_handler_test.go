package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/logger"
	"github.com/fsdevblog/groph-rewards/internal/service/tokens"
	"github.com/fsdevblog/groph-rewards/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-rewards/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type ReferralHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockReferralService *mocks.MockReferralServicer
	jwtSecret           []byte
}

func TestReferralHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReferralHandlerTestSuite))
}

func (s *ReferralHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockReferralService = mocks.NewMockReferralServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:            logger.New(os.Stdout),
		UserService:       mocks.NewMockUserServicer(mockCtrl),
		ReferralService:   s.mockReferralService,
		CommissionService: mocks.NewMockCommissionServicer(mockCtrl),
		VestingService:    mocks.NewMockVestingServicer(mockCtrl),
		BalanceService:    mocks.NewMockBalanceServicer(mockCtrl),
		JWTSecretKey:      s.jwtSecret,
	})
}

func (s *ReferralHandlerTestSuite) TestIndex() {
	var userID int64 = 1
	var orphanUserID int64 = 2

	userJWT, userErr := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(userErr)
	orphanJWT, orphanErr := tokens.GenerateUserJWT(orphanUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(orphanErr)

	record := &domain.ReferralRecord{
		ID:             1,
		UserID:         userID,
		ReferralCode:   "AB12CD34",
		Status:         domain.ReferralStatusActive,
		TotalGenerated: decimal.NewFromInt(150),
		Chain: []domain.ReferralChainEntry{
			{Level: 1, ReferrerID: 10, Percentage: decimal.NewFromInt(30)},
			{Level: 2, ReferrerID: 11, Percentage: decimal.NewFromInt(10)},
		},
	}
	s.mockReferralService.EXPECT().GetByUserID(gomock.Any(), userID).Return(record, nil).Times(1)
	s.mockReferralService.EXPECT().GetByUserID(gomock.Any(), orphanUserID).
		Return(nil, domain.ErrRecordNotFound).Times(1)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			jwtToken:   userJWT,
			wantStatus: http.StatusOK,
		}, {
			name:       "no record",
			jwtToken:   orphanJWT,
			wantStatus: http.StatusNotFound,
		}, {
			name:       "not authorized",
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + ReferralRoute,
			}
			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", t.jwtToken)))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)
			s.Require().NoError(err)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantStatus != http.StatusOK {
				return
			}

			var body ReferralResponse
			s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
			s.Equal("AB12CD34", body.ReferralCode)
			s.Len(body.Chain, 2)
			s.InDelta(150, body.TotalGenerated, 0.0001)
		})
	}
}

func (s *ReferralHandlerTestSuite) TestEarnings() {
	var userID int64 = 1
	var emptyUserID int64 = 2

	userJWT, userErr := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(userErr)
	emptyJWT, emptyErr := tokens.GenerateUserJWT(emptyUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(emptyErr)

	paidAt := time.Now()
	s.mockReferralService.EXPECT().Earnings(gomock.Any(), userID).
		Return([]domain.CommissionTransaction{
			{
				ID:               1,
				FromUserID:       5,
				ToUserID:         userID,
				Level:            1,
				Percentage:       decimal.NewFromInt(30),
				CommissionAmount: decimal.NewFromInt(60),
				TransactionType:  domain.EventVIPPurchase,
				Status:           domain.CommissionStatusPaid,
				PaidAt:           &paidAt,
			},
		}, nil).Times(1)
	s.mockReferralService.EXPECT().Earnings(gomock.Any(), emptyUserID).
		Return([]domain.CommissionTransaction{}, nil).Times(1)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			jwtToken:   userJWT,
			wantStatus: http.StatusOK,
		}, {
			name:       "no earnings",
			jwtToken:   emptyJWT,
			wantStatus: http.StatusNoContent,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + ReferralEarningsRoute,
			}, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", t.jwtToken)))
			s.Require().NoError(err)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}
