package auth

import (
	"context"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/hasher"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/passhash"
	"github.com/tanker-union/fleet-system/pkg/trm"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

type AuthService struct {
	userRepo     UserRepo
	refreshRepo  RefreshTokenRepo
	registrar    DriverRegistrar
	tokenService TokenProvider
	trm          trm.TxManager
	log          logger.Logger
}

func NewAuthService(
	userRepo UserRepo,
	refreshRepo RefreshTokenRepo,
	registrar DriverRegistrar,
	tokenService TokenProvider,
	trm trm.TxManager,
	log logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		refreshRepo:  refreshRepo,
		registrar:    registrar,
		tokenService: tokenService,
		trm:          trm,
		log:          log,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "login")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, wrap.Error(ctx, ErrUnexpected)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if ok, err := passhash.VerifyPassword(password, user.GetPassword()); err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user)
	if err != nil {
		s.log.Error(ctx, "failed to generate tokens", err)
		return nil, ErrTokenGenerateFail
	}

	return tokens, nil
}

// Register creates a driver account: the user row and the roster row commit
// together or not at all.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "register")

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, wrap.Error(ctx, ErrUnexpected)
	}
	if existing != nil {
		return nil, ErrNotUniqueEmail
	}

	hashPassword, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "failed to generate hash from password", err)
		return nil, ErrUnexpected
	}

	user := models.User{
		ID:    uuid.New(),
		Name:  req.Name,
		Email: req.Email,
		Role:  types.RoleDriver,
	}
	user.SetPassword(hashPassword)

	var driver *models.Driver

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, &user); err != nil {
			return wrap.Error(ctx, err)
		}

		driver, err = s.registrar.CreateForUser(ctx, user.ID, user.Name)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to register driver", err)
		return nil, ErrUnexpected
	}

	return driver, nil
}

// Logout revokes the presented refresh token. Expired or unknown tokens are
// not an error, the session is gone either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	ctx = wrap.WithAction(ctx, "logout")

	record, err := s.refreshRepo.GetByHash(ctx, hasher.Hash(refreshToken))
	if err != nil {
		return nil
	}

	if err := s.refreshRepo.Revoke(ctx, record.ID); err != nil {
		s.log.Warn(ctx, "failed to revoke refresh token", "error", err)
	}
	return nil
}

// RoleCheck validates an access token and loads the user it belongs to. The
// auth middleware calls this on every request.
func (s *AuthService) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != models.AccessToken {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}
