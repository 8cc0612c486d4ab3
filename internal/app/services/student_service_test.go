package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	repoMocks "github.com/undergraduation/ugadmin/internal/app/repositories/mocks"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

func testPrincipal() models.Principal {
	return models.Principal{UserID: "user-1", Email: "admin@undergraduation.com", Role: models.RoleAdmin}
}

func newStudentService(repo *repoMocks.MockStudentRepository) (*StudentService, *repoMocks.MockAuditRepository) {
	auditRepo := new(repoMocks.MockAuditRepository)
	auditRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewStudentService(repo, NewAuditService(auditRepo)), auditRepo
}

func TestStudentService_CreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and normalization", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(s *models.Student) bool {
			return s.Name == "Ada Lovelace" &&
				s.Email == "ada@example.com" &&
				s.Country == "GBR" &&
				s.ApplicationStatus == models.StatusExploring &&
				s.Phone != nil && *s.Phone == "4412345678901"
		})).Return(nil)

		student, err := svc.CreateStudent(ctx, testPrincipal(), &dto.CreateStudentRequest{
			Name:    "  Ada Lovelace ",
			Email:   "ada@example.com",
			Phone:   strPtr("+44 (123) 456-78901"),
			Country: "gbr",
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusExploring, student.ApplicationStatus)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid payload with field errors", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		_, err := svc.CreateStudent(ctx, testPrincipal(), &dto.CreateStudentRequest{
			Name:              "A",
			Email:             "not-an-email",
			ApplicationStatus: "Dreaming",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		var customErr *apperrors.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Contains(t, customErr.Details, "name")
		assert.Contains(t, customErr.Details, "email")
		assert.Contains(t, customErr.Details, "application_status")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("requires name and email", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		_, err := svc.CreateStudent(ctx, testPrincipal(), &dto.CreateStudentRequest{})

		require.Error(t, err)
		var customErr *apperrors.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, "name is required", customErr.Details["name"])
		assert.Equal(t, "email is required", customErr.Details["email"])
	})
}

func TestStudentService_UpdateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("touches only supplied fields", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		updated := &models.Student{ID: "id-1", Name: "Grace Hopper", Email: "grace@example.com"}
		repo.On("Update", ctx, "id-1", mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, hasName := fields["name"]
			_, hasEmail := fields["email"]
			return len(fields) == 1 && hasName && !hasEmail
		})).Return(updated, nil)

		student, err := svc.UpdateStudent(ctx, testPrincipal(), "id-1", &dto.UpdateStudentRequest{
			Name: strPtr("Grace Hopper"),
		})

		require.NoError(t, err)
		assert.Equal(t, "Grace Hopper", student.Name)
		repo.AssertExpectations(t)
	})

	t.Run("empty phone clears the column", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		repo.On("Update", ctx, "id-1", mock.MatchedBy(func(fields map[string]interface{}) bool {
			v, ok := fields["phone"]
			return ok && v == nil
		})).Return(&models.Student{ID: "id-1"}, nil)

		_, err := svc.UpdateStudent(ctx, testPrincipal(), "id-1", &dto.UpdateStudentRequest{
			Phone: strPtr(""),
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an empty payload", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		_, err := svc.UpdateStudent(ctx, testPrincipal(), "id-1", &dto.UpdateStudentRequest{})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		repo.On("Update", ctx, "missing", mock.Anything).Return(nil, apperrors.ErrStudentNotFound)

		_, err := svc.UpdateStudent(ctx, testPrincipal(), "missing", &dto.UpdateStudentRequest{
			Name: strPtr("Anyone"),
		})

		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestStudentService_DeleteStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id is not found, never silently ignored", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		repo.On("Delete", ctx, "missing").Return(apperrors.ErrStudentNotFound)

		err := svc.DeleteStudent(ctx, testPrincipal(), "missing")
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("records an audit entry on success", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		auditRepo := new(repoMocks.MockAuditRepository)
		svc := NewStudentService(repo, NewAuditService(auditRepo))

		repo.On("Delete", ctx, "id-1").Return(nil)
		auditRepo.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
			return e.Action == models.AuditDeleteStudent && e.Severity == models.AuditSeverityHigh
		})).Return(nil)

		err := svc.DeleteStudent(ctx, testPrincipal(), "id-1")
		require.NoError(t, err)
		auditRepo.AssertExpectations(t)
	})
}

func TestStudentService_ListStudents(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an unknown status filter", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		_, _, err := svc.ListStudents(ctx, dto.StudentListFilters{Status: "Dreaming"}, 1, 20)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects an unsortable order_by", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		_, _, err := svc.ListStudents(ctx, dto.StudentListFilters{OrderBy: "ai_summary; DROP TABLE"}, 1, 20)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("a page past the end is empty, not an error", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc, _ := newStudentService(repo)

		repo.On("List", ctx, dto.StudentListFilters{}, uint64(180), 20).
			Return([]*models.Student{}, int64(3), nil)

		students, total, err := svc.ListStudents(ctx, dto.StudentListFilters{}, 10, 20)
		require.NoError(t, err)
		assert.Empty(t, students)
		assert.Equal(t, int64(3), total)
	})
}
