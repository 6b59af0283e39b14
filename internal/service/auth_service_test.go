package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/dto"
	"workplace-api/internal/response"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-secret", 30*time.Minute, 168*time.Hour)
}

func TestAuthService_Register_StoresCodeAndNotifies(t *testing.T) {
	var createdUser *domain.User
	userRepo := &MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFunc: func(ctx context.Context, user *domain.User) error {
			user.ID = uuid.New()
			createdUser = user
			return nil
		},
	}
	codes := &MockCodeStore{}
	var sentEmail, sentCode string
	notifier := &MockNotifier{
		NotifyVerificationCodeFunc: func(ctx context.Context, email, code string) error {
			sentEmail = email
			sentCode = code
			return nil
		},
	}
	svc := NewAuthService(userRepo, codes, notifier, newTestTokenManager(), zap.NewNop())

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UserID != createdUser.ID.String() {
		t.Errorf("response user id %s does not match created user %s", result.UserID, createdUser.ID)
	}
	if createdUser.Verified {
		t.Error("new account must start unverified")
	}
	if createdUser.PasswordHash == "correct horse" {
		t.Error("password was stored in plain text")
	}

	if sentEmail != "alice@example.com" {
		t.Errorf("code sent to wrong address %q", sentEmail)
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(sentCode) {
		t.Errorf("expected a six digit code, got %q", sentCode)
	}

	stored, err := codes.Get(context.Background(), fmt.Sprintf("verify:%s", "alice@example.com"))
	if err != nil {
		t.Fatalf("code was not stored: %v", err)
	}
	if stored != sentCode {
		t.Error("stored code differs from the code sent out")
	}
}

func TestAuthService_Register_VerifiedEmailConflicts(t *testing.T) {
	userRepo := &MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{
				BaseModel: domain.BaseModel{ID: uuid.New()},
				Email:     email,
				Verified:  true,
			}, nil
		},
	}
	svc := NewAuthService(userRepo, &MockCodeStore{}, &MockNotifier{}, newTestTokenManager(), zap.NewNop())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		Name:     "Alice",
	})
	if code := appErrorCode(t, err); code != response.ErrCodeAlreadyExists {
		t.Errorf("expected ALREADY_EXISTS, got %s", code)
	}
}

func TestAuthService_Register_UnverifiedEmailReplaced(t *testing.T) {
	existing := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "alice@example.com",
		Name:      "Old Name",
		Verified:  false,
	}
	updated := false
	userRepo := &MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, user *domain.User) error {
			updated = true
			return nil
		},
	}
	svc := NewAuthService(userRepo, &MockCodeStore{}, &MockNotifier{}, newTestTokenManager(), zap.NewNop())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "new password",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("pending account was not replaced")
	}
	if existing.Name != "Alice" {
		t.Errorf("pending account kept stale name %q", existing.Name)
	}
}

func TestAuthService_VerifyEmail(t *testing.T) {
	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "alice@example.com",
	}
	userRepo := &MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		},
	}
	codes := &MockCodeStore{}
	_ = codes.Set(context.Background(), "verify:alice@example.com", "123456", time.Minute)
	svc := NewAuthService(userRepo, codes, &MockNotifier{}, newTestTokenManager(), zap.NewNop())

	t.Run("wrong code rejected", func(t *testing.T) {
		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "alice@example.com",
			Code:  "999999",
		})
		if code := appErrorCode(t, err); code != response.ErrCodeValidation {
			t.Errorf("expected VALIDATION_ERROR, got %s", code)
		}
		if user.Verified {
			t.Error("account verified by a wrong code")
		}
	})

	t.Run("matching code verifies and is consumed", func(t *testing.T) {
		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "alice@example.com",
			Code:  "123456",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !user.Verified {
			t.Error("account was not marked verified")
		}
		if _, err := codes.Get(context.Background(), "verify:alice@example.com"); err == nil {
			t.Error("verification code was not consumed")
		}
	})

	t.Run("expired code rejected", func(t *testing.T) {
		err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
			Email: "bob@example.com",
			Code:  "123456",
		})
		if code := appErrorCode(t, err); code != response.ErrCodeValidation {
			t.Errorf("expected VALIDATION_ERROR, got %s", code)
		}
	})
}

func TestAuthService_Login_FailureModesAreIndistinguishable(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("right password"), bcrypt.MinCost)
	userRepo := &MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			switch email {
			case "verified@example.com":
				return &domain.User{BaseModel: domain.BaseModel{ID: uuid.New()}, Email: email, PasswordHash: string(hash), Verified: true}, nil
			case "unverified@example.com":
				return &domain.User{BaseModel: domain.BaseModel{ID: uuid.New()}, Email: email, PasswordHash: string(hash), Verified: false}, nil
			default:
				return nil, gorm.ErrRecordNotFound
			}
		},
	}
	svc := NewAuthService(userRepo, &MockCodeStore{}, &MockNotifier{}, newTestTokenManager(), zap.NewNop())

	failures := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown address", "nobody@example.com", "right password"},
		{"wrong password", "verified@example.com", "wrong password"},
		{"unverified account", "unverified@example.com", "right password"},
	}

	var messages []string
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: tt.email, Password: tt.password})
			if err == nil {
				t.Fatal("expected login to fail")
			}
			if code := appErrorCode(t, err); code != response.ErrCodeUnauthorized {
				t.Errorf("expected UNAUTHORIZED, got %s", code)
			}
			messages = append(messages, err.Error())
		})
	}
	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Errorf("failure modes leak information: %q vs %q", messages[0], messages[i])
		}
	}

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "verified@example.com",
		Password: "right password",
	})
	if err != nil {
		t.Fatalf("valid login failed: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("login did not return a token pair")
	}
}

func TestAuthService_Refresh(t *testing.T) {
	userID := uuid.New()
	tokens := newTestTokenManager()
	access, refresh, err := tokens.GeneratePair(userID, "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate tokens: %v", err)
	}

	userRepo := &MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			if id != userID {
				return nil, gorm.ErrRecordNotFound
			}
			return &domain.User{BaseModel: domain.BaseModel{ID: userID}, Email: "alice@example.com", Verified: true}, nil
		},
	}
	svc := NewAuthService(userRepo, &MockCodeStore{}, &MockNotifier{}, tokens, zap.NewNop())

	t.Run("refresh token accepted", func(t *testing.T) {
		result, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: refresh})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		claims, err := tokens.Parse(result.AccessToken)
		if err != nil {
			t.Fatalf("new access token does not parse: %v", err)
		}
		if claims.TokenType != TokenTypeAccess {
			t.Errorf("expected access token, got %q", claims.TokenType)
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: access})
		if code := appErrorCode(t, err); code != response.ErrCodeUnauthorized {
			t.Errorf("expected UNAUTHORIZED for access token, got %s", code)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "not-a-jwt"})
		if code := appErrorCode(t, err); code != response.ErrCodeUnauthorized {
			t.Errorf("expected UNAUTHORIZED, got %s", code)
		}
	})
}
