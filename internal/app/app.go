package app

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-rewards/internal/fraud"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"

	"github.com/fsdevblog/groph-rewards/pkg/uow"

	"github.com/fsdevblog/groph-rewards/internal/config"
	"github.com/fsdevblog/groph-rewards/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-rewards/internal/service"
	"github.com/fsdevblog/groph-rewards/internal/transport/api"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	"os/signal"
	"syscall"

	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %+v", a.Config)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	minWithdrawal, minErr := decimal.NewFromString(a.Config.MinWithdrawal)
	if minErr != nil {
		return fmt.Errorf("app run: parsing min withdrawal: %s", minErr.Error())
	}

	redisClient := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			a.Logger.WithError(closeErr).Warn("closing redis client")
		}
	}()
	scorer := fraud.NewRuleScorer(fraud.NewRedisCounters(redisClient), a.Logger)

	services, sErr := service.Factory(unitOfWork, scorer, []byte(a.Config.JWTSecret), minWithdrawal, a.Logger)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router := api.New(api.RouterArgs{
		Logger:            a.Logger,
		UserService:       services.UserService,
		ReferralService:   services.ReferralService,
		CommissionService: services.CommissionService,
		VestingService:    services.VestingService,
		BalanceService:    services.BalanceService,
		JWTSecretKey:      []byte(a.Config.JWTSecret),
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.ReferralRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewReferralRepository(dbtx)
		},
		repoargs.CommissionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCommissionRepository(dbtx)
		},
		repoargs.GrantRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewGrantRepository(dbtx)
		},
		repoargs.BalanceRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewBalanceRepository(dbtx)
		},
		repoargs.WithdrawalRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewWithdrawalRepository(dbtx)
		},
	}
	for name, factoryFn := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factoryFn); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
