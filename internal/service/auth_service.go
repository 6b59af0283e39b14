package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/dto"
	"workplace-api/internal/repository"
	"workplace-api/internal/response"
)

const (
	verificationCodeTTL = 15 * time.Minute
	verificationKeyFmt  = "verify:%s"
)

// CodeStore holds short-lived opaque values such as verification codes
// and invitation tokens
type CodeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

// ErrCodeStoreMiss is returned by CodeStore implementations when a key
// is absent or expired
var ErrCodeStoreMiss = errors.New("code not found")

// Notifier delivers out-of-band messages. Implementations must not block
// request handling on delivery.
type Notifier interface {
	NotifyVerificationCode(ctx context.Context, email, code string) error
	NotifyInvitation(ctx context.Context, email, workplaceName, token string) error
}

// AuthService defines the interface for registration and authentication
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
}

// authServiceImpl is the implementation of AuthService
type authServiceImpl struct {
	userRepo repository.UserRepository
	codes    CodeStore
	notifier Notifier
	tokens   *TokenManager
	logger   *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	codes CodeStore,
	notifier Notifier,
	tokens *TokenManager,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		codes:    codes,
		notifier: notifier,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates an unverified account and sends a verification code.
// Re-registering an unverified address replaces the pending account data
// and issues a fresh code.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil && user.Verified:
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Email already registered", "")
	case err == nil:
		user.PasswordHash = string(hash)
		user.Name = req.Name
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update account", err.Error())
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &domain.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			Name:         req.Name,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create account", err.Error())
		}
	default:
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up account", err.Error())
	}

	code, err := generateCode()
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to generate code", err.Error())
	}
	key := fmt.Sprintf(verificationKeyFmt, req.Email)
	if err := s.codes.Set(ctx, key, code, verificationCodeTTL); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to store code", err.Error())
	}

	if err := s.notifier.NotifyVerificationCode(ctx, req.Email, code); err != nil {
		// Delivery is best effort; the code can be re-sent by registering
		// again.
		s.logger.Warn("Failed to send verification code",
			zap.String("email", req.Email),
			zap.Error(err),
		)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &dto.RegisterResponse{UserID: user.ID.String()}, nil
}

// VerifyEmail consumes a verification code and marks the account verified
func (s *authServiceImpl) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	key := fmt.Sprintf(verificationKeyFmt, req.Email)
	stored, err := s.codes.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCodeStoreMiss) {
			return response.NewAppError(response.ErrCodeValidation, "Verification code expired or unknown", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to look up code", err.Error())
	}
	if stored != req.Code {
		return response.NewAppError(response.ErrCodeValidation, "Verification code mismatch", "")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeUserNotFound, "Account not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to look up account", err.Error())
	}

	user.Verified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to verify account", err.Error())
	}

	if err := s.codes.Del(ctx, key); err != nil {
		s.logger.Warn("Failed to delete verification code", zap.Error(err))
	}
	return nil
}

// Login checks credentials and returns a token pair. Unknown addresses,
// wrong passwords and unverified accounts all produce the same error.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid credentials", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up account", err.Error())
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid credentials", "")
	}
	if !user.Verified {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid credentials", "")
	}

	access, refresh, err := s.tokens.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to issue tokens", err.Error())
	}
	return &dto.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *authServiceImpl) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.tokens.Parse(req.RefreshToken)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid refresh token", "")
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid refresh token", "")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid refresh token", "")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid refresh token", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up account", err.Error())
	}

	access, refresh, err := s.tokens.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to issue tokens", err.Error())
	}
	return &dto.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// generateCode produces a six digit verification code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
