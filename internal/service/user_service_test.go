package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-rewards/internal/domain"
	"github.com/fsdevblog/groph-rewards/internal/repository/repoargs"
	"github.com/fsdevblog/groph-rewards/internal/service/mocks"
	"github.com/fsdevblog/groph-rewards/internal/service/tokens"
	"github.com/fsdevblog/groph-rewards/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-rewards/pkg/uow/mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserDirectory
	mockReferralRepo *mocks.MockReferralRepository
	mockChainBuilder *mocks.MockChainBuilder
	mockPsswd        *mocks.MockPasswordHasher
	jwtSecret        []byte
	userService      *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserDirectory(mockCtrl)
	s.mockReferralRepo = mocks.NewMockReferralRepository(mockCtrl)
	s.mockChainBuilder = mocks.NewMockChainBuilder(mockCtrl)
	s.mockPsswd = mocks.NewMockPasswordHasher(mockCtrl)

	s.jwtSecret = []byte("secret")

	// Мок получения репозиториев из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.ReferralRepoName)).
		Return(s.mockReferralRepo, nil).AnyTimes()

	// Инициализация сервиса.
	userService, servErr := NewUserService(s.mockUOW, s.mockChainBuilder, s.mockPsswd, s.jwtSecret)
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TestRegister() {
	password := gofakeit.Password(true, true, true, false, false, 12) //nolint:mnd
	argsOk := RegisterUserArgs{
		Username: "validUser",
		Password: password,
	}
	argsDuplicateUsername := RegisterUserArgs{
		Username: "duplicateUser",
		Password: password,
	}

	validHashedPassword := "hashedPassword"

	createdUser := domain.User{
		ID:        1,
		Username:  argsOk.Username,
		Password:  validHashedPassword,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).MinTimes(1)

	// Мок хеширования пароля.
	s.mockPsswd.EXPECT().HashPassword(argsOk.Password).Return(validHashedPassword, nil).Times(2)

	// Мок репозитория.
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Username: argsOk.Username,
			Password: validHashedPassword,
		})).
		Return(&createdUser, nil)

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Eq(repoargs.CreateUser{
			Username: argsDuplicateUsername.Username,
			Password: validHashedPassword,
		})).
		Return(nil, domain.ErrDuplicateKey)

	// Мок построения реферальной записи: вызывается только для успешно
	// созданного юзера.
	s.mockChainBuilder.EXPECT().
		BuildChain(gomock.Any(), createdUser.ID, "").
		Return(&domain.ReferralRecord{ID: 1, UserID: createdUser.ID, ReferralCode: "NEWCODE1"}, nil)

	// Мок uow.
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	cases := []struct {
		name      string
		args      RegisterUserArgs
		wantErr   error
		wantUser  *domain.User
		wantToken bool
	}{
		{
			name:      "ok",
			args:      argsOk,
			wantUser:  &createdUser,
			wantToken: true,
		},
		{
			name:    "duplicate username",
			args:    argsDuplicateUsername,
			wantErr: domain.ErrDuplicateKey,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Register(s.T().Context(), t.args)

			s.Require().ErrorIs(err, t.wantErr)
			s.Equal(t.wantUser, user)

			if t.wantToken {
				s.Require().NotEmpty(tokenStr)

				token, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(token.Claims.(*tokens.UserClaims).ID, user.ID) //nolint:errcheck
			} else {
				s.Empty(tokenStr)
			}
		})
	}
}

// Невалидный реферальный код отклоняется до создания юзера.
func (s *UserServiceTestSuite) TestRegisterInvalidReferralCode() {
	s.mockReferralRepo.EXPECT().
		FindByCode(gomock.Any(), "BOGUS000").
		Return(nil, domain.ErrRecordNotFound)

	user, tokenStr, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username:     "someUser",
		Password:     "<PASSWORD>",
		ReferralCode: "BOGUS000",
	})

	s.Require().ErrorIs(err, domain.ErrInvalidReferralCode)
	s.Nil(user)
	s.Empty(tokenStr)
}

// Валидный код проверяется и прокидывается строителю цепочки.
func (s *UserServiceTestSuite) TestRegisterWithReferralCode() {
	referralCode := "AB12CD34"
	validHashedPassword := "hashedPassword"

	createdUser := domain.User{ID: 2, Username: "invitedUser", Password: validHashedPassword}

	s.mockReferralRepo.EXPECT().
		FindByCode(gomock.Any(), referralCode).
		Return(&domain.ReferralRecord{ID: 9, UserID: 1, ReferralCode: referralCode}, nil)

	s.mockPsswd.EXPECT().HashPassword("<PASSWORD>").Return(validHashedPassword, nil)

	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil)
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(&createdUser, nil)

	s.mockChainBuilder.EXPECT().
		BuildChain(gomock.Any(), createdUser.ID, referralCode).
		Return(&domain.ReferralRecord{ID: 10, UserID: createdUser.ID, ReferralCode: "NEWCODE2"}, nil)

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})

	user, tokenStr, err := s.userService.Register(s.T().Context(), RegisterUserArgs{
		Username:     "invitedUser",
		Password:     "<PASSWORD>",
		ReferralCode: referralCode,
	})

	s.Require().NoError(err)
	s.Equal(&createdUser, user)
	s.NotEmpty(tokenStr)
}

func (s *UserServiceTestSuite) TestLogin() {
	savedUserUsername := "test"
	// аргументы вызовов для кейсов ниже.
	argsOk := LoginUserArgs{
		Username: savedUserUsername,
		Password: "<PASSWORD>",
	}
	argsWrongUsername := LoginUserArgs{
		Username: "wrong",
		Password: "<PASSWORD>",
	}
	argsWrongPass := LoginUserArgs{
		Username: savedUserUsername,
		Password: "wrong pass",
	}

	validHashPassword := "hash ok"

	savedUser := domain.User{
		ID:        1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Username:  savedUserUsername,
		Password:  validHashPassword,
	}

	// Мок для сравнения пароля.
	s.mockPsswd.EXPECT().ComparePassword(argsOk.Password, validHashPassword).Return(true)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongUsername.Password, validHashPassword).Times(0)
	s.mockPsswd.EXPECT().ComparePassword(argsWrongPass.Password, validHashPassword).Return(false)

	// Мок репозитория.
	s.mockUserRepo.EXPECT().
		FindUserByUsername(gomock.Any(), savedUserUsername).
		Return(&savedUser, nil).Times(2)

	s.mockUserRepo.EXPECT().
		FindUserByUsername(gomock.Any(), argsWrongUsername.Username).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name               string
		args               LoginUserArgs
		wantErr            error
		wantHashedPassword string
	}{
		{name: "ok", args: argsOk, wantErr: nil, wantHashedPassword: validHashPassword},
		// несуществующий логин неотличим от неверного пароля.
		{name: "wrong username", args: argsWrongUsername, wantErr: domain.ErrPasswordMissMatch},
		{name: "wrong password", args: argsWrongPass, wantErr: domain.ErrPasswordMissMatch},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			user, tokenStr, err := s.userService.Login(s.T().Context(), t.args)
			s.Require().ErrorIs(err, t.wantErr)

			if t.wantErr == nil {
				s.Equal(t.wantHashedPassword, user.Password)
				s.NotEmpty(tokenStr)

				token, tokenErr := tokens.ValidateUserJWT(tokenStr, s.jwtSecret)
				s.Require().NoError(tokenErr)
				s.Equal(token.Claims.(*tokens.UserClaims).ID, savedUser.ID) //nolint:errcheck
				s.NotNil(user)
			}
		})
	}
}
