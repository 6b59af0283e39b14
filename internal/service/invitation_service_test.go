package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/dto"
	"workplace-api/internal/response"
)

type invitationFixture struct {
	workplace      *domain.Workplace
	user           *domain.User
	codes          *MockCodeStore
	membershipRepo *MockMembershipRepository
	svc            InvitationService

	sentToken string
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	f := &invitationFixture{
		workplace: &domain.Workplace{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			Name:      "Platform Team",
		},
		user: &domain.User{
			BaseModel: domain.BaseModel{ID: uuid.New()},
			Email:     "invitee@example.com",
			Verified:  true,
		},
		codes:          &MockCodeStore{},
		membershipRepo: &MockMembershipRepository{},
	}
	workplaceRepo := &MockWorkplaceRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workplace, error) {
			if id != f.workplace.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return f.workplace, nil
		},
	}
	userRepo := &MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return f.user, nil
		},
	}
	notifier := &MockNotifier{
		NotifyInvitationFunc: func(ctx context.Context, email, workplaceName, token string) error {
			f.sentToken = token
			return nil
		},
	}
	f.membershipRepo.FindByWorkplaceAndUserFunc = func(ctx context.Context, workplaceID, userID uuid.UUID) (*domain.Membership, error) {
		return nil, gorm.ErrRecordNotFound
	}
	f.svc = NewInvitationService(workplaceRepo, f.membershipRepo, userRepo, f.codes, notifier, zap.NewNop())
	return f
}

func TestInvitationService_InviteAndAccept_EnrollsMember(t *testing.T) {
	f := newInvitationFixture(t)

	var created *domain.Membership
	f.membershipRepo.CreateFunc = func(ctx context.Context, membership *domain.Membership) error {
		created = membership
		return nil
	}

	err := f.svc.InviteMember(context.Background(), f.workplace.ID, &dto.InviteMemberRequest{
		Email: "invitee@example.com",
	})
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if f.sentToken == "" {
		t.Fatal("no invitation token was sent")
	}

	result, err := f.svc.AcceptInvitation(context.Background(), f.user.ID, &dto.AcceptInvitationRequest{
		Token: f.sentToken,
	})
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if created == nil {
		t.Fatal("no membership was created")
	}
	if created.Role != domain.RoleMember {
		t.Errorf("expected role MEMBER, got %s", created.Role)
	}
	if created.WorkplaceID != f.workplace.ID || created.UserID != f.user.ID {
		t.Error("membership bound to wrong workplace or user")
	}
	if result.ID != f.workplace.ID {
		t.Errorf("accept returned wrong workplace %s", result.ID)
	}

	// Single use: the token must be consumed.
	if _, err := f.svc.AcceptInvitation(context.Background(), f.user.ID, &dto.AcceptInvitationRequest{
		Token: f.sentToken,
	}); err == nil {
		t.Error("consumed token was accepted a second time")
	}
}

func TestInvitationService_Accept_CaseInsensitiveEmailMatch(t *testing.T) {
	f := newInvitationFixture(t)
	f.user.Email = "Invitee@Example.COM"

	if err := f.svc.InviteMember(context.Background(), f.workplace.ID, &dto.InviteMemberRequest{
		Email: "invitee@example.com",
	}); err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	if _, err := f.svc.AcceptInvitation(context.Background(), f.user.ID, &dto.AcceptInvitationRequest{
		Token: f.sentToken,
	}); err != nil {
		t.Fatalf("accept failed for case-differing address: %v", err)
	}
}

func TestInvitationService_Accept_WrongEmailForbidden(t *testing.T) {
	f := newInvitationFixture(t)

	if err := f.svc.InviteMember(context.Background(), f.workplace.ID, &dto.InviteMemberRequest{
		Email: "someone-else@example.com",
	}); err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	_, err := f.svc.AcceptInvitation(context.Background(), f.user.ID, &dto.AcceptInvitationRequest{
		Token: f.sentToken,
	})
	if code := appErrorCode(t, err); code != response.ErrCodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", code)
	}
}

func TestInvitationService_Accept_ExistingMemberKeepsRole(t *testing.T) {
	f := newInvitationFixture(t)
	f.membershipRepo.FindByWorkplaceAndUserFunc = func(ctx context.Context, workplaceID, userID uuid.UUID) (*domain.Membership, error) {
		return &domain.Membership{
			BaseModel:   domain.BaseModel{ID: uuid.New()},
			WorkplaceID: workplaceID,
			UserID:      userID,
			Role:        domain.RoleAdmin,
		}, nil
	}
	createCalled := false
	f.membershipRepo.CreateFunc = func(ctx context.Context, membership *domain.Membership) error {
		createCalled = true
		return nil
	}

	if err := f.svc.InviteMember(context.Background(), f.workplace.ID, &dto.InviteMemberRequest{
		Email: "invitee@example.com",
	}); err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	if _, err := f.svc.AcceptInvitation(context.Background(), f.user.ID, &dto.AcceptInvitationRequest{
		Token: f.sentToken,
	}); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if createCalled {
		t.Error("existing ADMIN membership was overwritten with MEMBER")
	}
	// Token still consumed.
	if _, err := f.svc.AcceptInvitation(context.Background(), f.user.ID, &dto.AcceptInvitationRequest{
		Token: f.sentToken,
	}); err == nil {
		t.Error("consumed token was accepted a second time")
	}
}

func TestInvitationService_Accept_UnknownToken(t *testing.T) {
	f := newInvitationFixture(t)
	_, err := f.svc.AcceptInvitation(context.Background(), f.user.ID, &dto.AcceptInvitationRequest{
		Token: "deadbeefdeadbeefdeadbeefdeadbeef",
	})
	if code := appErrorCode(t, err); code != response.ErrCodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", code)
	}
}

func TestInvitationService_Invite_WorkplaceNotFound(t *testing.T) {
	f := newInvitationFixture(t)
	err := f.svc.InviteMember(context.Background(), uuid.New(), &dto.InviteMemberRequest{
		Email: "invitee@example.com",
	})
	if code := appErrorCode(t, err); code != response.ErrCodeWorkplaceNotFound {
		t.Errorf("expected WORKPLACE_NOT_FOUND, got %s", code)
	}
}
