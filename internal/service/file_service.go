package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/dto"
	"workplace-api/internal/repository"
	"workplace-api/internal/response"
)

// FileStore abstracts the blob backend. Keys are opaque storage tokens;
// the database never holds blob content.
type FileStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ErrFileNotFound is returned by FileStore implementations for missing keys
var ErrFileNotFound = errors.New("file not found")

// FileService defines the interface for workplace-scoped file storage
type FileService interface {
	UploadFile(ctx context.Context, workplaceID uuid.UUID, filename, contentType string, body io.Reader) (*dto.FileUploadResponse, error)
	DownloadFile(ctx context.Context, workplaceID uuid.UUID, filename string) (io.ReadCloser, string, error)
	DeleteFile(ctx context.Context, workplaceID uuid.UUID, filename string) error
}

// fileServiceImpl is the implementation of FileService
type fileServiceImpl struct {
	store         FileStore
	workplaceRepo repository.WorkplaceRepository
	logger        *zap.Logger
}

// NewFileService creates a new instance of FileService
func NewFileService(store FileStore, workplaceRepo repository.WorkplaceRepository, logger *zap.Logger) FileService {
	return &fileServiceImpl{
		store:         store,
		workplaceRepo: workplaceRepo,
		logger:        logger,
	}
}

// UploadFile stores a file under the workplace's prefix and returns its
// storage token
func (s *fileServiceImpl) UploadFile(ctx context.Context, workplaceID uuid.UUID, filename, contentType string, body io.Reader) (*dto.FileUploadResponse, error) {
	if err := s.checkWorkplace(ctx, workplaceID); err != nil {
		return nil, err
	}
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	key := fileKey(workplaceID, filename)
	url, err := s.store.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to upload file", err.Error())
	}

	s.logger.Info("File uploaded",
		zap.String("workplace_id", workplaceID.String()),
		zap.String("key", key),
	)
	return &dto.FileUploadResponse{Key: key, Name: filename, URL: url}, nil
}

// DownloadFile streams a file from the workplace's prefix
func (s *fileServiceImpl) DownloadFile(ctx context.Context, workplaceID uuid.UUID, filename string) (io.ReadCloser, string, error) {
	if err := s.checkWorkplace(ctx, workplaceID); err != nil {
		return nil, "", err
	}
	if err := validateFilename(filename); err != nil {
		return nil, "", err
	}

	body, contentType, err := s.store.Download(ctx, fileKey(workplaceID, filename))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, "", response.NewAppError(response.ErrCodeNotFound, "File not found", "")
		}
		return nil, "", response.NewAppError(response.ErrCodeInternal, "Failed to download file", err.Error())
	}
	return body, contentType, nil
}

// DeleteFile removes a file from the workplace's prefix
func (s *fileServiceImpl) DeleteFile(ctx context.Context, workplaceID uuid.UUID, filename string) error {
	if err := s.checkWorkplace(ctx, workplaceID); err != nil {
		return err
	}
	if err := validateFilename(filename); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, fileKey(workplaceID, filename)); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete file", err.Error())
	}
	return nil
}

func (s *fileServiceImpl) checkWorkplace(ctx context.Context, workplaceID uuid.UUID) error {
	if _, err := s.workplaceRepo.FindByID(ctx, workplaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeWorkplaceNotFound, "Workplace not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load workplace", err.Error())
	}
	return nil
}

// validateFilename rejects names that would escape the workplace prefix
func validateFilename(filename string) error {
	if filename == "" ||
		strings.Contains(filename, "/") ||
		strings.Contains(filename, "\\") ||
		strings.Contains(filename, "..") {
		return response.NewAppError(response.ErrCodeValidation, "Invalid filename", filename)
	}
	return nil
}

func fileKey(workplaceID uuid.UUID, filename string) string {
	return fmt.Sprintf("workplaces/%s/%s", workplaceID, filename)
}
