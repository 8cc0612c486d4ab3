package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/undergraduation/ugadmin/internal/app/models"
	repoMocks "github.com/undergraduation/ugadmin/internal/app/repositories/mocks"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/storage"
	storageMocks "github.com/undergraduation/ugadmin/internal/pkg/storage/mocks"
)

type fileFixture struct {
	svc         *FileService
	fileRepo    *repoMocks.MockFileRepository
	studentRepo *repoMocks.MockStudentRepository
	store       *storageMocks.MockStorage
	auditRepo   *repoMocks.MockAuditRepository
}

func newFileFixture() *fileFixture {
	f := &fileFixture{
		fileRepo:    new(repoMocks.MockFileRepository),
		studentRepo: new(repoMocks.MockStudentRepository),
		store:       new(storageMocks.MockStorage),
		auditRepo:   new(repoMocks.MockAuditRepository),
	}
	f.auditRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = NewFileService(f.fileRepo, f.studentRepo, f.store, 15*time.Minute, NewAuditService(f.auditRepo))
	return f
}

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()
	content := []byte("%PDF-1.7 transcript body")
	student := &models.Student{ID: "student-1", Name: "Ada Lovelace", Email: "ada@example.com"}

	t.Run("stores the object then the metadata", func(t *testing.T) {
		f := newFileFixture()
		f.studentRepo.On("GetByID", ctx, "student-1").Return(student, nil)
		f.fileRepo.On("ExistsByHash", ctx, "student-1", mock.Anything).Return(false, nil)
		f.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "students/student-1/files/") && strings.HasSuffix(key, ".pdf")
		}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.Size == int64(len(content)) && opt.ContentType == "application/pdf"
		})).Return(storage.ObjectInfo{Size: int64(len(content))}, nil)

		sum := sha256.Sum256(content)
		wantHash := hex.EncodeToString(sum[:])
		f.fileRepo.On("Create", ctx, mock.MatchedBy(func(file *models.StoredFile) bool {
			return file.StudentID == "student-1" &&
				file.FileName == "transcript.pdf" &&
				file.FileType == models.FileTypeTranscript &&
				file.SHA256 == wantHash &&
				file.UploadedBy == "user-1"
		})).Return(nil)

		file, err := f.svc.Upload(ctx, testPrincipal(), "student-1", "transcript.pdf", "application/pdf", "transcript", nil, content)

		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), file.SizeBytes)
		f.store.AssertExpectations(t)
		f.fileRepo.AssertExpectations(t)
	})

	t.Run("removes the orphaned object when metadata insert fails", func(t *testing.T) {
		f := newFileFixture()
		f.studentRepo.On("GetByID", ctx, "student-1").Return(student, nil)
		f.fileRepo.On("ExistsByHash", ctx, "student-1", mock.Anything).Return(false, nil)
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		f.fileRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
		f.store.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Upload(ctx, testPrincipal(), "student-1", "essay.pdf", "application/pdf", "essay", nil, content)

		require.Error(t, err)
		f.store.AssertCalled(t, "Delete", ctx, mock.Anything)
	})

	t.Run("duplicate content is allowed", func(t *testing.T) {
		f := newFileFixture()
		f.studentRepo.On("GetByID", ctx, "student-1").Return(student, nil)
		f.fileRepo.On("ExistsByHash", ctx, "student-1", mock.Anything).Return(true, nil)
		f.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		f.fileRepo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Upload(ctx, testPrincipal(), "student-1", "transcript.pdf", "application/pdf", "transcript", nil, content)

		require.NoError(t, err)
	})

	t.Run("unknown student stops the upload", func(t *testing.T) {
		f := newFileFixture()
		f.studentRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrStudentNotFound)

		_, err := f.svc.Upload(ctx, testPrincipal(), "missing", "transcript.pdf", "application/pdf", "transcript", nil, content)

		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
		f.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	validationTests := []struct {
		name        string
		fileName    string
		contentType string
		fileType    string
		content     []byte
		wantErr     error
	}{
		{
			name: "empty file", fileName: "transcript.pdf", contentType: "application/pdf",
			fileType: "transcript", content: nil, wantErr: apperrors.ErrBadRequest,
		},
		{
			name: "oversized file", fileName: "transcript.pdf", contentType: "application/pdf",
			fileType: "transcript", content: make([]byte, MaxFileSizeBytes+1), wantErr: apperrors.ErrFileTooLarge,
		},
		{
			name: "disallowed content type", fileName: "app.exe", contentType: "application/x-msdownload",
			fileType: "other", content: content, wantErr: apperrors.ErrFileTypeInvalid,
		},
		{
			name: "path traversal in name", fileName: "../etc/passwd", contentType: "application/pdf",
			fileType: "transcript", content: content, wantErr: apperrors.ErrFileNameInvalid,
		},
		{
			name: "unknown file type", fileName: "transcript.pdf", contentType: "application/pdf",
			fileType: "diploma", content: content, wantErr: apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range validationTests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFileFixture()

			_, err := f.svc.Upload(ctx, testPrincipal(), "student-1", tt.fileName, tt.contentType, tt.fileType, nil, tt.content)

			assert.ErrorIs(t, err, tt.wantErr)
			f.studentRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestFileService_Get(t *testing.T) {
	ctx := context.Background()
	stored := &models.StoredFile{
		ID:         "file-1",
		StudentID:  "student-1",
		FileName:   "transcript.pdf",
		StorageKey: "students/student-1/files/abc.pdf",
	}

	t.Run("returns metadata with a presigned URL", func(t *testing.T) {
		f := newFileFixture()
		f.fileRepo.On("GetByID", ctx, "file-1").Return(stored, nil)
		f.store.On("PresignGet", ctx, stored.StorageKey, 15*time.Minute).
			Return("https://minio.local/presigned", nil)

		file, url, err := f.svc.Get(ctx, testPrincipal(), "file-1")

		require.NoError(t, err)
		assert.Equal(t, "transcript.pdf", file.FileName)
		assert.Equal(t, "https://minio.local/presigned", url)
	})

	t.Run("unknown file", func(t *testing.T) {
		f := newFileFixture()
		f.fileRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrFileNotFound)

		_, _, err := f.svc.Get(ctx, testPrincipal(), "missing")

		assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	})
}

func TestFileService_ListByStudent(t *testing.T) {
	ctx := context.Background()
	student := &models.Student{ID: "student-1"}

	t.Run("filters by file type", func(t *testing.T) {
		f := newFileFixture()
		f.studentRepo.On("GetByID", ctx, "student-1").Return(student, nil)
		f.fileRepo.On("ListByStudent", ctx, "student-1", "essay").
			Return([]*models.StoredFile{{ID: "file-1", FileType: models.FileTypeEssay}}, nil)

		files, err := f.svc.ListByStudent(ctx, "student-1", "essay")

		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, models.FileTypeEssay, files[0].FileType)
	})

	t.Run("rejects unknown file type filter", func(t *testing.T) {
		f := newFileFixture()

		_, err := f.svc.ListByStudent(ctx, "student-1", "diploma")

		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		f.fileRepo.AssertNotCalled(t, "ListByStudent", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFileService_Delete(t *testing.T) {
	ctx := context.Background()
	stored := &models.StoredFile{
		ID:         "file-1",
		StudentID:  "student-1",
		StorageKey: "students/student-1/files/abc.pdf",
	}

	t.Run("removes object then metadata", func(t *testing.T) {
		f := newFileFixture()
		f.fileRepo.On("GetByID", ctx, "file-1").Return(stored, nil)
		f.store.On("Delete", ctx, stored.StorageKey).Return(nil)
		f.fileRepo.On("Delete", ctx, "file-1").Return(nil)

		err := f.svc.Delete(ctx, testPrincipal(), "file-1")

		require.NoError(t, err)
		f.store.AssertExpectations(t)
		f.fileRepo.AssertExpectations(t)
	})

	t.Run("missing object is tolerated", func(t *testing.T) {
		f := newFileFixture()
		f.fileRepo.On("GetByID", ctx, "file-1").Return(stored, nil)
		f.store.On("Delete", ctx, stored.StorageKey).Return(errors.New("object not found"))
		f.fileRepo.On("Delete", ctx, "file-1").Return(nil)

		err := f.svc.Delete(ctx, testPrincipal(), "file-1")

		require.NoError(t, err)
		f.fileRepo.AssertCalled(t, "Delete", ctx, "file-1")
	})

	t.Run("metadata delete failure is returned", func(t *testing.T) {
		f := newFileFixture()
		f.fileRepo.On("GetByID", ctx, "file-1").Return(stored, nil)
		f.store.On("Delete", ctx, stored.StorageKey).Return(nil)
		f.fileRepo.On("Delete", ctx, "file-1").Return(errors.New("delete failed"))

		err := f.svc.Delete(ctx, testPrincipal(), "file-1")

		assert.Error(t, err)
	})
}

func TestFileService_Statistics(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture()
	f.fileRepo.On("Statistics", ctx).Return(&models.StorageStatistics{
		TotalFiles:     4,
		TotalSizeBytes: 1 << 20,
	}, nil)

	stats, err := f.svc.Statistics(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalFiles)
}
