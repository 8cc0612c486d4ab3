package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/logger"
	"github.com/undergraduation/ugadmin/internal/pkg/storage"
)

// MaxFileSizeBytes caps a single document upload at 50 MB
const MaxFileSizeBytes = 50 << 20

// allowedContentTypes whitelists document MIME types
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain":               true,
	"image/jpeg":               true,
	"image/png":                true,
	"image/gif":                true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// FileService stores student documents in the object store and tracks metadata
type FileService struct {
	fileRepo      repositories.FileRepository
	studentRepo   repositories.StudentRepository
	store         storage.Storage
	presignExpiry time.Duration
	auditSvc      *AuditService
}

// NewFileService creates a new file service instance
func NewFileService(fileRepo repositories.FileRepository, studentRepo repositories.StudentRepository, store storage.Storage, presignExpiry time.Duration, auditSvc *AuditService) *FileService {
	return &FileService{
		fileRepo:      fileRepo,
		studentRepo:   studentRepo,
		store:         store,
		presignExpiry: presignExpiry,
		auditSvc:      auditSvc,
	}
}

// validateUpload enforces size, MIME and filename constraints
func validateUpload(fileName, contentType string, size int64, fileType string) error {
	if size <= 0 {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, "file is empty")
	}
	if size > MaxFileSizeBytes {
		return apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("file is %d bytes, the maximum is %d", size, MaxFileSizeBytes))
	}
	if !allowedContentTypes[strings.ToLower(contentType)] {
		return apperrors.NewCustomError(apperrors.ErrFileTypeInvalid,
			fmt.Sprintf("content type %q is not allowed", contentType))
	}
	if fileName == "" || strings.ContainsAny(fileName, "\\/\x00") || strings.Contains(fileName, "..") {
		return apperrors.NewCustomError(apperrors.ErrFileNameInvalid,
			fmt.Sprintf("file name %q contains invalid characters", fileName))
	}
	if !models.IsValidFileType(fileType) {
		return apperrors.NewValidationError(
			fmt.Sprintf("file_type %q is invalid, must be one of: transcript, essay, recommendation, portfolio, certificate, other", fileType), nil)
	}
	return nil
}

// Upload stores the bytes first, then the metadata row
func (s *FileService) Upload(ctx context.Context, actor models.Principal, studentID, fileName, contentType, fileType string, description *string, content []byte) (*models.StoredFile, error) {
	if err := validateUpload(fileName, contentType, int64(len(content)), fileType); err != nil {
		return nil, err
	}

	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	// Duplicate uploads are allowed but noted
	if exists, err := s.fileRepo.ExistsByHash(ctx, studentID, hash); err == nil && exists {
		logger.Warn().
			Str("studentId", studentID).
			Str("sha256", hash).
			Msg("Duplicate file content uploaded for student")
	}

	key := fmt.Sprintf("students/%s/files/%s%s", studentID, uuid.New().String(), strings.ToLower(filepath.Ext(fileName)))

	_, err := s.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: contentType,
		Metadata:    map[string]string{"original-name": fileName},
	})
	if err != nil {
		return nil, fmt.Errorf("error storing file: %w", err)
	}

	file := &models.StoredFile{
		StudentID:   studentID,
		FileName:    fileName,
		FileType:    models.FileType(fileType),
		ContentType: contentType,
		SizeBytes:   int64(len(content)),
		StorageKey:  key,
		SHA256:      hash,
		Description: description,
		UploadedBy:  actor.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Metadata failed; remove the orphaned object
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.Error().Err(delErr).Str("key", key).Msg("Failed to remove orphaned object")
		}
		return nil, fmt.Errorf("error recording file metadata: %w", err)
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditUploadFile,
		TargetType: "file",
		TargetID:   &file.ID,
		Success:    true,
		Details: map[string]interface{}{
			"student_id": studentID,
			"file_name":  fileName,
			"size_bytes": file.SizeBytes,
		},
	})

	return file, nil
}

// Get retrieves metadata and a short-lived download URL
func (s *FileService) Get(ctx context.Context, actor models.Principal, fileID string) (*models.StoredFile, string, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, "", err
	}

	url, err := s.store.PresignGet(ctx, file.StorageKey, s.presignExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning download: %w", err)
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditDownloadFile,
		TargetType: "file",
		TargetID:   &file.ID,
		Success:    true,
	})

	return file, url, nil
}

// ListByStudent retrieves a student's documents newest first
func (s *FileService) ListByStudent(ctx context.Context, studentID, fileType string) ([]*models.StoredFile, error) {
	if fileType != "" && !models.IsValidFileType(fileType) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("file_type %q is invalid", fileType), nil)
	}

	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	return s.fileRepo.ListByStudent(ctx, studentID, fileType)
}

// Delete removes the object, then the metadata row. A missing object is
// tolerated so a failed earlier delete can be retried.
func (s *FileService) Delete(ctx context.Context, actor models.Principal, fileID string) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.StorageKey); err != nil {
		logger.Warn().Err(err).Str("key", file.StorageKey).Msg("Object delete failed, removing metadata anyway")
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditDeleteFile,
		TargetType: "file",
		TargetID:   &fileID,
		Success:    true,
		Details:    map[string]interface{}{"student_id": file.StudentID},
	})

	return nil
}

// Statistics aggregates the stored document footprint
func (s *FileService) Statistics(ctx context.Context) (*models.StorageStatistics, error) {
	return s.fileRepo.Statistics(ctx)
}
