package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"workplace-api/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc      func(ctx context.Context, user *domain.User) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// MockWorkplaceRepository is a mock implementation of WorkplaceRepository
type MockWorkplaceRepository struct {
	CreateFunc   func(ctx context.Context, workplace *domain.Workplace) error
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Workplace, error)
	UpdateFunc   func(ctx context.Context, workplace *domain.Workplace) error
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
}

func (m *MockWorkplaceRepository) Create(ctx context.Context, workplace *domain.Workplace) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, workplace)
	}
	return nil
}

func (m *MockWorkplaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Workplace, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockWorkplaceRepository) Update(ctx context.Context, workplace *domain.Workplace) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, workplace)
	}
	return nil
}

func (m *MockWorkplaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	CreateFunc                    func(ctx context.Context, membership *domain.Membership) error
	FindByIDFunc                  func(ctx context.Context, id uuid.UUID) (*domain.Membership, error)
	FindByWorkplaceAndUserFunc    func(ctx context.Context, workplaceID, userID uuid.UUID) (*domain.Membership, error)
	FindByWorkplaceFunc           func(ctx context.Context, workplaceID uuid.UUID, emailPrefix string) ([]*domain.Membership, error)
	FindByWorkplaceAndUserIDsFunc func(ctx context.Context, workplaceID uuid.UUID, userIDs []uuid.UUID) ([]*domain.Membership, error)
	FindByUserFunc                func(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error)
	DeleteFunc                    func(ctx context.Context, id uuid.UUID) error
	DeleteByWorkplaceFunc         func(ctx context.Context, workplaceID uuid.UUID) error
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *domain.Membership) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, membership)
	}
	return nil
}

func (m *MockMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Membership, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindByWorkplaceAndUser(ctx context.Context, workplaceID, userID uuid.UUID) (*domain.Membership, error) {
	if m.FindByWorkplaceAndUserFunc != nil {
		return m.FindByWorkplaceAndUserFunc(ctx, workplaceID, userID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, emailPrefix string) ([]*domain.Membership, error) {
	if m.FindByWorkplaceFunc != nil {
		return m.FindByWorkplaceFunc(ctx, workplaceID, emailPrefix)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindByWorkplaceAndUserIDs(ctx context.Context, workplaceID uuid.UUID, userIDs []uuid.UUID) ([]*domain.Membership, error) {
	if m.FindByWorkplaceAndUserIDsFunc != nil {
		return m.FindByWorkplaceAndUserIDsFunc(ctx, workplaceID, userIDs)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Membership, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMembershipRepository) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	if m.DeleteByWorkplaceFunc != nil {
		return m.DeleteByWorkplaceFunc(ctx, workplaceID)
	}
	return nil
}

// MockSprintRepository is a mock implementation of SprintRepository
type MockSprintRepository struct {
	CreateFunc            func(ctx context.Context, sprint *domain.Sprint) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Sprint, error)
	FindByWorkplaceFunc   func(ctx context.Context, workplaceID uuid.UUID, skip, limit int) ([]*domain.Sprint, error)
	FindOverlappingFunc   func(ctx context.Context, workplaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*domain.Sprint, error)
	UpdateFunc            func(ctx context.Context, sprint *domain.Sprint) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	DeleteByWorkplaceFunc func(ctx context.Context, workplaceID uuid.UUID) error
}

func (m *MockSprintRepository) Create(ctx context.Context, sprint *domain.Sprint) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sprint)
	}
	return nil
}

func (m *MockSprintRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sprint, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSprintRepository) FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, skip, limit int) ([]*domain.Sprint, error) {
	if m.FindByWorkplaceFunc != nil {
		return m.FindByWorkplaceFunc(ctx, workplaceID, skip, limit)
	}
	return nil, nil
}

func (m *MockSprintRepository) FindOverlapping(ctx context.Context, workplaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*domain.Sprint, error) {
	if m.FindOverlappingFunc != nil {
		return m.FindOverlappingFunc(ctx, workplaceID, start, end, excludeID)
	}
	return nil, nil
}

func (m *MockSprintRepository) Update(ctx context.Context, sprint *domain.Sprint) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sprint)
	}
	return nil
}

func (m *MockSprintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockSprintRepository) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	if m.DeleteByWorkplaceFunc != nil {
		return m.DeleteByWorkplaceFunc(ctx, workplaceID)
	}
	return nil
}

// MockIssueRepository is a mock implementation of IssueRepository
type MockIssueRepository struct {
	CreateFunc                       func(ctx context.Context, issue *domain.Issue) error
	FindByIDFunc                     func(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
	FindByWorkplaceFunc              func(ctx context.Context, workplaceID uuid.UUID, namePrefix string) ([]*domain.Issue, error)
	FindBySprintFunc                 func(ctx context.Context, sprintID uuid.UUID) ([]*domain.Issue, error)
	UpdateFunc                       func(ctx context.Context, issue *domain.Issue) error
	DeleteFunc                       func(ctx context.Context, id uuid.UUID) error
	DeleteByWorkplaceFunc            func(ctx context.Context, workplaceID uuid.UUID) error
	DetachFromSprintFunc             func(ctx context.Context, sprintID uuid.UUID) error
	AddAssignmentsFunc               func(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error
	RemoveAssignmentsFunc            func(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error
	FindAssignmentsFunc              func(ctx context.Context, issueID uuid.UUID) ([]*domain.IssueAssignment, error)
	DeleteAssignmentsByIssueFunc     func(ctx context.Context, issueID uuid.UUID) error
	DeleteAssignmentsByWorkplaceFunc func(ctx context.Context, workplaceID uuid.UUID) error
}

func (m *MockIssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, issue)
	}
	return nil
}

func (m *MockIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockIssueRepository) FindByWorkplace(ctx context.Context, workplaceID uuid.UUID, namePrefix string) ([]*domain.Issue, error) {
	if m.FindByWorkplaceFunc != nil {
		return m.FindByWorkplaceFunc(ctx, workplaceID, namePrefix)
	}
	return nil, nil
}

func (m *MockIssueRepository) FindBySprint(ctx context.Context, sprintID uuid.UUID) ([]*domain.Issue, error) {
	if m.FindBySprintFunc != nil {
		return m.FindBySprintFunc(ctx, sprintID)
	}
	return nil, nil
}

func (m *MockIssueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, issue)
	}
	return nil
}

func (m *MockIssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockIssueRepository) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	if m.DeleteByWorkplaceFunc != nil {
		return m.DeleteByWorkplaceFunc(ctx, workplaceID)
	}
	return nil
}

func (m *MockIssueRepository) DetachFromSprint(ctx context.Context, sprintID uuid.UUID) error {
	if m.DetachFromSprintFunc != nil {
		return m.DetachFromSprintFunc(ctx, sprintID)
	}
	return nil
}

func (m *MockIssueRepository) AddAssignments(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error {
	if m.AddAssignmentsFunc != nil {
		return m.AddAssignmentsFunc(ctx, issueID, membershipIDs)
	}
	return nil
}

func (m *MockIssueRepository) RemoveAssignments(ctx context.Context, issueID uuid.UUID, membershipIDs []uuid.UUID) error {
	if m.RemoveAssignmentsFunc != nil {
		return m.RemoveAssignmentsFunc(ctx, issueID, membershipIDs)
	}
	return nil
}

func (m *MockIssueRepository) FindAssignments(ctx context.Context, issueID uuid.UUID) ([]*domain.IssueAssignment, error) {
	if m.FindAssignmentsFunc != nil {
		return m.FindAssignmentsFunc(ctx, issueID)
	}
	return nil, nil
}

func (m *MockIssueRepository) DeleteAssignmentsByIssue(ctx context.Context, issueID uuid.UUID) error {
	if m.DeleteAssignmentsByIssueFunc != nil {
		return m.DeleteAssignmentsByIssueFunc(ctx, issueID)
	}
	return nil
}

func (m *MockIssueRepository) DeleteAssignmentsByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	if m.DeleteAssignmentsByWorkplaceFunc != nil {
		return m.DeleteAssignmentsByWorkplaceFunc(ctx, workplaceID)
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc               func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByIssueFunc          func(ctx context.Context, issueID uuid.UUID) ([]*domain.Comment, error)
	UpdateFunc               func(ctx context.Context, comment *domain.Comment) error
	DeleteFunc               func(ctx context.Context, id uuid.UUID) error
	DeleteByIssueFunc        func(ctx context.Context, issueID uuid.UUID) error
	DeleteByWorkplaceFunc    func(ctx context.Context, workplaceID uuid.UUID) error
	UpdateSprintForIssueFunc func(ctx context.Context, issueID uuid.UUID, sprintID *uuid.UUID) error
	DetachFromSprintFunc     func(ctx context.Context, sprintID uuid.UUID) error
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByIssue(ctx context.Context, issueID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByIssueFunc != nil {
		return m.FindByIssueFunc(ctx, issueID)
	}
	return nil, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCommentRepository) DeleteByIssue(ctx context.Context, issueID uuid.UUID) error {
	if m.DeleteByIssueFunc != nil {
		return m.DeleteByIssueFunc(ctx, issueID)
	}
	return nil
}

func (m *MockCommentRepository) DeleteByWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	if m.DeleteByWorkplaceFunc != nil {
		return m.DeleteByWorkplaceFunc(ctx, workplaceID)
	}
	return nil
}

func (m *MockCommentRepository) UpdateSprintForIssue(ctx context.Context, issueID uuid.UUID, sprintID *uuid.UUID) error {
	if m.UpdateSprintForIssueFunc != nil {
		return m.UpdateSprintForIssueFunc(ctx, issueID, sprintID)
	}
	return nil
}

func (m *MockCommentRepository) DetachFromSprint(ctx context.Context, sprintID uuid.UUID) error {
	if m.DetachFromSprintFunc != nil {
		return m.DetachFromSprintFunc(ctx, sprintID)
	}
	return nil
}

// MockCodeStore is an in-memory CodeStore for tests
type MockCodeStore struct {
	SetFunc func(ctx context.Context, key, value string, ttl time.Duration) error
	GetFunc func(ctx context.Context, key string) (string, error)
	DelFunc func(ctx context.Context, key string) error

	values map[string]string
}

func (m *MockCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *MockCodeStore) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", ErrCodeStoreMiss
}

func (m *MockCodeStore) Del(ctx context.Context, key string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key)
	}
	delete(m.values, key)
	return nil
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	NotifyVerificationCodeFunc func(ctx context.Context, email, code string) error
	NotifyInvitationFunc       func(ctx context.Context, email, workplaceName, token string) error
}

func (m *MockNotifier) NotifyVerificationCode(ctx context.Context, email, code string) error {
	if m.NotifyVerificationCodeFunc != nil {
		return m.NotifyVerificationCodeFunc(ctx, email, code)
	}
	return nil
}

func (m *MockNotifier) NotifyInvitation(ctx context.Context, email, workplaceName, token string) error {
	if m.NotifyInvitationFunc != nil {
		return m.NotifyInvitationFunc(ctx, email, workplaceName, token)
	}
	return nil
}

// MockFileStore is a mock implementation of FileStore
type MockFileStore struct {
	UploadFunc   func(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	DownloadFunc func(ctx context.Context, key string) (io.ReadCloser, string, error)
	DeleteFunc   func(ctx context.Context, key string) error
	URLFunc      func(key string) string
}

func (m *MockFileStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, body, contentType)
	}
	return "https://files.test/" + key, nil
}

func (m *MockFileStore) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, key)
	}
	return nil, "", ErrFileNotFound
}

func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockFileStore) URL(key string) string {
	if m.URLFunc != nil {
		return m.URLFunc(key)
	}
	return "https://files.test/" + key
}
