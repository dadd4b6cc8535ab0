package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"github.com/zhwaweb/zhwaweb-admin/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken           = errors.New("username already registered")
	ErrInvalidRole             = errors.New("invalid user type")
	ErrInvalidCredentials      = errors.New("incorrect username or password")
	ErrPhoneLoginDisabled      = errors.New("phone login is disabled")
	ErrAdminCredentialsInvalid = errors.New("admin credentials invalid")
	ErrAdminNotConfigured      = errors.New("admin bootstrap credentials are not configured")
)

// AdminBootstrap is the configured admin identity.
type AdminBootstrap struct {
	Username        string
	Password        string
	AllowPhoneLogin bool
}

// LoginResult is an issued session.
type LoginResult struct {
	User        *model.User
	AccessToken string
	ExpiresAt   time.Time
}

type AuthService interface {
	Register(username, password string, role model.UserRole) (*model.User, error)
	Login(username, password string) (*LoginResult, error)
	LoginAsAdmin() (*LoginResult, error)
	SeedAdmin() (*model.User, error)
	Logout(ctx context.Context, claims *util.Claims) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *util.TokenService
	revoker  TokenRevoker
	admin    AdminBootstrap
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *util.TokenService,
	revoker TokenRevoker,
	admin AdminBootstrap,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		revoker:  revoker,
		admin:    admin,
	}
}

func (s *authService) Register(username, password string, role model.UserRole) (*model.User, error) {
	username = strings.TrimSpace(username)
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
		"type":     role,
	})

	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameTaken
	}

	user, err := s.createUser(username, password, role)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
		"type":     role,
	})
	return user, nil
}

func (s *authService) createUser(username, password string, role model.UserRole) (*model.User, error) {
	hashed, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashed,
		Type:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) authenticate(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) issue(user *model.User) (*LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.Username, 0)
	if err != nil {
		logger.Error("Failed to issue access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// Login does not check is_active; inactive users get a token that every
// protected route then rejects.
func (s *authService) Login(username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.authenticate(username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("Login failed: invalid credentials", map[string]interface{}{
				"username": username,
			})
		}
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"type":    user.Type,
	})
	return result, nil
}

// SeedAdmin creates the configured admin when it does not exist yet.
// An existing account is returned untouched.
func (s *authService) SeedAdmin() (*model.User, error) {
	username := strings.TrimSpace(s.admin.Username)
	if username == "" || s.admin.Password == "" {
		return nil, ErrAdminNotConfigured
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	admin, err := s.createUser(username, s.admin.Password, model.RoleAdmin)
	if errors.Is(err, ErrUsernameTaken) {
		return s.userRepo.FindByUsername(username)
	}
	if err != nil {
		logger.Error("Failed to seed admin user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("Admin user seeded", map[string]interface{}{
		"user_id":  admin.ID,
		"username": admin.Username,
	})
	return admin, nil
}

// LoginAsAdmin signs in as the configured admin without a password. It is
// disabled unless AllowPhoneLogin is set.
func (s *authService) LoginAsAdmin() (*LoginResult, error) {
	if !s.admin.AllowPhoneLogin {
		return nil, ErrPhoneLoginDisabled
	}

	if _, err := s.SeedAdmin(); err != nil {
		if errors.Is(err, ErrAdminNotConfigured) {
			return nil, ErrAdminCredentialsInvalid
		}
		return nil, err
	}

	user, err := s.authenticate(s.admin.Username, s.admin.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("Phone login failed: admin credentials invalid", map[string]interface{}{
				"username": s.admin.Username,
			})
			return nil, ErrAdminCredentialsInvalid
		}
		return nil, err
	}

	logger.Info("Admin logged in via phone login", map[string]interface{}{
		"user_id": user.ID,
	})
	return s.issue(user)
}

// Logout revokes the presented token when a revocation list is configured.
// Without one it is a no-op and the client simply discards the token.
func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.revoker == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		logger.Error("Failed to revoke token on logout", err, map[string]interface{}{
			"subject": claims.Subject,
		})
		return err
	}

	logger.Info("Token revoked on logout", map[string]interface{}{
		"subject": claims.Subject,
	})
	return nil
}
