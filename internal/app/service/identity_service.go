package service

import (
	"context"
	"errors"
	"time"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"github.com/zhwaweb/zhwaweb-admin/pkg/util"
	"gorm.io/gorm"
)

var (
	// ErrUnauthenticated covers every token failure and unknown subjects
	// alike, so callers cannot tell which one occurred.
	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrInactiveAccount = errors.New("inactive user")
)

// TokenRevoker is an optional server-side revocation list keyed by jti.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type IdentityService interface {
	// Resolve maps a bearer token to its user.
	Resolve(ctx context.Context, token string) (*model.User, *util.Claims, error)
	// RequireActive rejects deactivated accounts.
	RequireActive(user *model.User) (*model.User, error)
	// Authenticate is Resolve followed by RequireActive.
	Authenticate(ctx context.Context, token string) (*model.User, *util.Claims, error)
}

type identityService struct {
	userRepo repository.UserRepository
	tokens   *util.TokenService
	revoker  TokenRevoker
}

// NewIdentityService builds the resolver. revoker may be nil, in which case
// tokens stay valid until they expire.
func NewIdentityService(userRepo repository.UserRepository, tokens *util.TokenService, revoker TokenRevoker) IdentityService {
	return &identityService{
		userRepo: userRepo,
		tokens:   tokens,
		revoker:  revoker,
	}
}

func (s *identityService) Resolve(ctx context.Context, token string) (*model.User, *util.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		logger.Debug("Token verification failed", map[string]interface{}{
			"expired": errors.Is(err, util.ErrExpiredToken),
		})
		return nil, nil, ErrUnauthenticated
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.Error("Failed to check token revocation", err, map[string]interface{}{
				"subject": claims.Subject,
			})
			return nil, nil, ErrUnauthenticated
		}
		if revoked {
			logger.Debug("Revoked token presented", map[string]interface{}{
				"subject": claims.Subject,
			})
			return nil, nil, ErrUnauthenticated
		}
	}

	user, err := s.userRepo.FindByUsername(claims.Subject)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to load token subject", err, map[string]interface{}{
				"subject": claims.Subject,
			})
		}
		return nil, nil, ErrUnauthenticated
	}

	return user, claims, nil
}

func (s *identityService) RequireActive(user *model.User) (*model.User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !user.IsActive {
		logger.Warn("Inactive user rejected", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInactiveAccount
	}
	return user, nil
}

func (s *identityService) Authenticate(ctx context.Context, token string) (*model.User, *util.Claims, error) {
	user, claims, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.RequireActive(user); err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}
