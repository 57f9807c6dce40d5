package api

import (
	"time"

	"github.com/fsdevblog/groph-rewards/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup             = "/api"
	RegisterRoute          = "/user/register"
	LoginRoute             = "/user/login"
	BalanceRoute           = "/user/balance"
	BalanceWithdrawRoute   = "/user/balance/withdraw"
	WithdrawalsRoute       = "/user/withdrawals"
	ReferralRoute          = "/user/referral"
	ReferralEarningsRoute  = "/user/referral/earnings"
	EventPurchaseRoute     = "/events/purchase"
	EventTaskRoute         = "/events/task"
	EventInstallRoute      = "/events/install"
	ApproveCommissionRoute = "/commissions/:id/approve"
	ReleaseGrantRoute      = "/grants/:id/release"
	ApproveWithdrawalRoute = "/withdrawals/:id/approve"
	RejectWithdrawalRoute  = "/withdrawals/:id/reject"
)

type RouterArgs struct {
	Logger            *logrus.Logger
	UserService       UserServicer
	ReferralService   ReferralServicer
	CommissionService CommissionServicer
	VestingService    VestingServicer
	BalanceService    BalanceServicer
	JWTSecretKey      []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	referralHandler := NewReferralHandler(args.ReferralService)
	eventsHandler := NewEventsHandler(args.CommissionService, args.VestingService)
	balanceHandler := NewBalanceHandler(args.BalanceService, args.VestingService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(BalanceRoute, balanceHandler.Index)
	api.POST(BalanceWithdrawRoute, balanceHandler.Withdraw)
	api.GET(WithdrawalsRoute, balanceHandler.Withdrawals)

	api.GET(ReferralRoute, referralHandler.Index)
	api.GET(ReferralEarningsRoute, referralHandler.Earnings)

	api.POST(EventPurchaseRoute, eventsHandler.Purchase)
	api.POST(EventTaskRoute, eventsHandler.TaskCompletion)
	api.POST(EventInstallRoute, eventsHandler.AppInstall)

	api.POST(ApproveCommissionRoute, eventsHandler.ApproveCommission)
	api.POST(ReleaseGrantRoute, eventsHandler.ReleaseGrant)
	api.POST(ApproveWithdrawalRoute, balanceHandler.ApproveWithdrawal)
	api.POST(RejectWithdrawalRoute, balanceHandler.RejectWithdrawal)
	return r
}
