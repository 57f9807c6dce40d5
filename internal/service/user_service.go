package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/internal/service/tokens"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
)

const JWTTokenExpire = 1 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserDirectory
	referralRepo   ReferralRepository
	chainBuilder   ChainBuilder
	hasher         PasswordHasher
	jwtTokenSecret []byte
}

func NewUserService(
	u uow.UOW,
	chainBuilder ChainBuilder,
	hasher PasswordHasher,
	jwtTokenSecret []byte,
) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserDirectory](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	referralRepo, refRepoErr := uow.GetRepositoryAs[ReferralRepository](u, uow.RepositoryName(repoargs.ReferralRepoName))
	if refRepoErr != nil {
		return nil, refRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		referralRepo:   referralRepo,
		chainBuilder:   chainBuilder,
		hasher:         hasher,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Username     string
	Password     string
	ReferralCode string
}

// Register создает юзера и его реферальную запись. Код пригласившего
// проверяется до создания юзера: невалидный код не оставляет за собой
// частично зарегистрированного юзера. После успешного создания генерирует
// jwt token. Возвращает 3 значения: созданный юзер, токен и ошибку.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	if args.ReferralCode != "" {
		if _, codeErr := s.referralRepo.FindByCode(ctx, args.ReferralCode); codeErr != nil {
			if errors.Is(codeErr, domain.ErrRecordNotFound) {
				return nil, "", domain.ErrInvalidReferralCode
			}
			return nil, "", fmt.Errorf("registering user: %w", codeErr)
		}
	}

	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}
	var user *domain.User
	var token string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var userErr, tokenErr error
		userRepo, userRepoErr := uow.GetAs[UserDirectory](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Username: args.Username,
			Password: password,
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		token, tokenErr = tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
		if tokenErr != nil {
			return tokenErr //nolint:wrapcheck
		}
		return nil
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}

	if _, chainErr := s.chainBuilder.BuildChain(ctx, user.ID, args.ReferralCode); chainErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", chainErr)
	}
	return user, token, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login проверяет пару логин/пароль. При несовпадении возвращает
// domain.ErrPasswordMissMatch (в том числе для несуществующего юзера,
// чтобы не раскрывать занятость логина).
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, userErr := s.userRepo.FindUserByUsername(ctx, args.Username)
	if userErr != nil {
		if errors.Is(userErr, domain.ErrRecordNotFound) {
			return nil, "", domain.ErrPasswordMissMatch
		}
		return nil, "", fmt.Errorf("logging in user: %w", userErr)
	}
	if !s.hasher.ComparePassword(args.Password, user.Password) {
		return nil, "", domain.ErrPasswordMissMatch
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in user: %w", tokenErr)
	}
	return user, token, nil
}
