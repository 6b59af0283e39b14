package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/dto"
	"workplace-api/internal/repository"
	"workplace-api/internal/response"
)

const (
	invitationTTL    = 72 * time.Hour
	invitationKeyFmt = "invite:%s"
)

// InvitationService defines the interface for workplace invitations
type InvitationService interface {
	InviteMember(ctx context.Context, workplaceID uuid.UUID, req *dto.InviteMemberRequest) error
	AcceptInvitation(ctx context.Context, userID uuid.UUID, req *dto.AcceptInvitationRequest) (*dto.WorkplaceResponse, error)
}

// invitationServiceImpl is the implementation of InvitationService
type invitationServiceImpl struct {
	workplaceRepo  repository.WorkplaceRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	codes          CodeStore
	notifier       Notifier
	logger         *zap.Logger
}

// NewInvitationService creates a new instance of InvitationService
func NewInvitationService(
	workplaceRepo repository.WorkplaceRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	codes CodeStore,
	notifier Notifier,
	logger *zap.Logger,
) InvitationService {
	return &invitationServiceImpl{
		workplaceRepo:  workplaceRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		codes:          codes,
		notifier:       notifier,
		logger:         logger,
	}
}

// InviteMember issues a single-use invitation token for an email address
// and sends it out. The address does not need an account yet; the token
// is claimed after registration.
func (s *invitationServiceImpl) InviteMember(ctx context.Context, workplaceID uuid.UUID, req *dto.InviteMemberRequest) error {
	workplace, err := s.workplaceRepo.FindByID(ctx, workplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeWorkplaceNotFound, "Workplace not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load workplace", err.Error())
	}

	token, err := generateToken()
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to generate token", err.Error())
	}

	// Token payload binds the invitation to both the workplace and the
	// invited address.
	payload := workplaceID.String() + "|" + req.Email
	key := fmt.Sprintf(invitationKeyFmt, token)
	if err := s.codes.Set(ctx, key, payload, invitationTTL); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to store invitation", err.Error())
	}

	if err := s.notifier.NotifyInvitation(ctx, req.Email, workplace.Name, token); err != nil {
		s.logger.Warn("Failed to send invitation",
			zap.String("workplace_id", workplaceID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Invitation issued",
		zap.String("workplace_id", workplaceID.String()),
	)
	return nil
}

// AcceptInvitation consumes an invitation token and enrolls the caller as
// MEMBER. Accepting while already a member succeeds without changing the
// existing role.
func (s *invitationServiceImpl) AcceptInvitation(ctx context.Context, userID uuid.UUID, req *dto.AcceptInvitationRequest) (*dto.WorkplaceResponse, error) {
	key := fmt.Sprintf(invitationKeyFmt, req.Token)
	payload, err := s.codes.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCodeStoreMiss) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invitation expired or unknown", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up invitation", err.Error())
	}

	workplaceID, email, ok := parseInvitationPayload(payload)
	if !ok {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invitation expired or unknown", "")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up account", err.Error())
	}
	if !strings.EqualFold(user.Email, email) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Invitation was issued for a different address", "")
	}

	workplace, err := s.workplaceRepo.FindByID(ctx, workplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeWorkplaceNotFound, "Workplace not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load workplace", err.Error())
	}

	_, err = s.membershipRepo.FindByWorkplaceAndUser(ctx, workplaceID, userID)
	switch {
	case err == nil:
		// Already a member. The token is still consumed.
	case errors.Is(err, gorm.ErrRecordNotFound):
		membership := &domain.Membership{
			WorkplaceID: workplaceID,
			UserID:      userID,
			Role:        domain.RoleMember,
		}
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to enroll member", err.Error())
		}
	default:
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to look up membership", err.Error())
	}

	if err := s.codes.Del(ctx, key); err != nil {
		s.logger.Warn("Failed to delete invitation token", zap.Error(err))
	}

	s.logger.Info("Invitation accepted",
		zap.String("workplace_id", workplaceID.String()),
		zap.String("user_id", userID.String()),
	)
	return toWorkplaceResponse(workplace), nil
}

func parseInvitationPayload(payload string) (uuid.UUID, string, bool) {
	parts := strings.SplitN(payload, "|", 2)
	if len(parts) != 2 {
		return uuid.Nil, "", false
	}
	workplaceID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", false
	}
	return workplaceID, parts[1], true
}

// generateToken produces an opaque 32 character invitation token
func generateToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
