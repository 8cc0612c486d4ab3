package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	repoMocks "github.com/undergraduation/ugadmin/internal/app/repositories/mocks"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

func newBulkService(repo *repoMocks.MockStudentRepository) *BulkService {
	auditRepo := new(repoMocks.MockAuditRepository)
	auditRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewBulkService(repo, NewAuditService(auditRepo))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name       string
		formatType string
		fileName   string
		want       string
		wantErr    bool
	}{
		{name: "explicit csv", formatType: "csv", want: dto.FormatCSV},
		{name: "explicit json uppercase", formatType: "JSON", want: dto.FormatJSON},
		{name: "csv from extension", fileName: "students.CSV", want: dto.FormatCSV},
		{name: "json from extension", fileName: "batch.json", want: dto.FormatJSON},
		{name: "hint wins over extension", formatType: "json", fileName: "data.csv", want: dto.FormatJSON},
		{name: "unsupported format", formatType: "xml", wantErr: true},
		{name: "unknown extension without hint", fileName: "students.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.formatType, tt.fileName)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBulkService_Import_CSV(t *testing.T) {
	ctx := context.Background()
	content := []byte("name,email,country,application_status\n" +
		"Ada Lovelace,ada@example.com,GBR,Exploring\n" +
		"No Email Row,,USA,Exploring\n" +
		"Grace Hopper,grace@example.com,USA,Applying\n")

	t.Run("bad rows fail independently", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		svc := newBulkService(repo)

		result, err := svc.Import(ctx, testPrincipal(), "students.csv", content, "", false)

		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalRows)
		assert.Equal(t, 2, result.SuccessfulImports)
		assert.Equal(t, 1, result.FailedImports)
		assert.Equal(t, result.TotalRows, result.SuccessfulImports+result.FailedImports)
		assert.Len(t, result.CreatedStudentIDs, 2)

		require.Len(t, result.Errors, 1)
		rowErr := result.Errors[0]
		assert.Equal(t, 3, rowErr.RowNumber, "header is row 1, first data row is row 2")
		assert.Equal(t, "validation_error", rowErr.ErrorType)
		assert.Contains(t, rowErr.FieldErrors, "email")
		assert.Equal(t, "No Email Row", rowErr.RowData["name"])

		repo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("database failure is a row error not a request error", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(s *models.Student) bool {
			return s.Email == "ada@example.com"
		})).Return(errors.New("duplicate key value"))
		repo.On("Create", ctx, mock.Anything).Return(nil)
		svc := newBulkService(repo)

		result, err := svc.Import(ctx, testPrincipal(), "students.csv", content, "csv", false)

		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulImports)
		assert.Equal(t, 2, result.FailedImports)

		var dbErrs int
		for _, rowErr := range result.Errors {
			if rowErr.ErrorType == "database_error" {
				dbErrs++
				assert.Equal(t, 2, rowErr.RowNumber)
				assert.Contains(t, rowErr.ErrorMessage, "duplicate key")
			}
		}
		assert.Equal(t, 1, dbErrs)
	})

	t.Run("validate only persists nothing", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc := newBulkService(repo)

		result, err := svc.Import(ctx, testPrincipal(), "students.csv", content, "", true)

		require.NoError(t, err)
		assert.True(t, result.ValidateOnly)
		assert.Equal(t, 2, result.SuccessfulImports)
		assert.Equal(t, 1, result.FailedImports)
		assert.Empty(t, result.CreatedStudentIDs)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBulkService_Import_JSON(t *testing.T) {
	ctx := context.Background()

	t.Run("array of objects", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		svc := newBulkService(repo)

		content := []byte(`[
			{"name": "Ada Lovelace", "email": "ada@example.com", "country": "GBR"},
			{"name": "Grace Hopper", "email": "not-an-email"}
		]`)

		result, err := svc.Import(ctx, testPrincipal(), "batch.json", content, "", false)

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 1, result.SuccessfulImports)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 2, result.Errors[0].RowNumber, "JSON rows are numbered from 1")
	})

	t.Run("wrapped students array", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		svc := newBulkService(repo)

		content := []byte(`{"students": [{"name": "Ada Lovelace", "email": "ada@example.com"}]}`)

		result, err := svc.Import(ctx, testPrincipal(), "batch.json", content, "", false)

		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessfulImports)
	})

	t.Run("single object", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		svc := newBulkService(repo)

		content := []byte(`{"name": "Ada Lovelace", "email": "ada@example.com"}`)

		result, err := svc.Import(ctx, testPrincipal(), "batch.json", content, "", false)

		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalRows)
		assert.Equal(t, 1, result.SuccessfulImports)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc := newBulkService(repo)

		_, err := svc.Import(ctx, testPrincipal(), "batch.json", []byte(`[{"name": `), "", false)

		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestBulkService_Import_Limits(t *testing.T) {
	ctx := context.Background()

	t.Run("empty file", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc := newBulkService(repo)

		_, err := svc.Import(ctx, testPrincipal(), "students.csv", []byte("name,email\n"), "", false)

		assert.ErrorIs(t, err, apperrors.ErrEmptyImportFile)
	})

	t.Run("too many rows", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc := newBulkService(repo)

		content := []byte("name,email\n")
		for i := 0; i < dto.MaxImportRows+1; i++ {
			content = append(content, []byte("Someone,someone@example.com\n")...)
		}

		_, err := svc.Import(ctx, testPrincipal(), "students.csv", content, "", false)

		assert.ErrorIs(t, err, apperrors.ErrImportTooLarge)
	})

	t.Run("unsupported format", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc := newBulkService(repo)

		_, err := svc.Import(ctx, testPrincipal(), "students.xlsx", []byte("x"), "", false)

		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	})
}

func TestBulkService_Export(t *testing.T) {
	ctx := context.Background()
	students := []*models.Student{
		{
			ID:                "id-1",
			Name:              "Ada Lovelace",
			Email:             "ada@example.com",
			Country:           "GBR",
			ApplicationStatus: models.StatusApplying,
		},
		{
			ID:                "id-2",
			Name:              "Grace Hopper",
			Email:             "grace@example.com",
			Phone:             strPtr("1555000111"),
			Country:           "USA",
			ApplicationStatus: models.StatusExploring,
		},
	}

	t.Run("CSV honors include_fields", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("ListForExport", ctx, mock.Anything).Return(students, nil)
		svc := newBulkService(repo)

		payload, contentType, err := svc.Export(ctx, testPrincipal(), dto.ExportFilters{
			Format:        "csv",
			IncludeFields: []string{"name", "email", "application_status"},
		})

		require.NoError(t, err)
		assert.Equal(t, "text/csv", contentType)
		assert.Equal(t,
			"name,email,application_status\n"+
				"Ada Lovelace,ada@example.com,Applying\n"+
				"Grace Hopper,grace@example.com,Exploring\n",
			string(payload))
	})

	t.Run("JSON carries export_info envelope", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("ListForExport", ctx, mock.Anything).Return(students, nil)
		svc := newBulkService(repo)

		payload, contentType, err := svc.Export(ctx, testPrincipal(), dto.ExportFilters{Format: "json"})

		require.NoError(t, err)
		assert.Equal(t, "application/json", contentType)

		var envelope dto.ExportEnvelope
		require.NoError(t, json.Unmarshal(payload, &envelope))
		assert.Equal(t, 2, envelope.ExportInfo.TotalCount)
		assert.Equal(t, dto.FormatJSON, envelope.ExportInfo.Format)
		require.Len(t, envelope.Students, 2)
		assert.Equal(t, "Ada Lovelace", envelope.Students[0]["name"])
		assert.Contains(t, envelope.Students[0], "created_at")
	})

	t.Run("defaults to CSV", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		repo.On("ListForExport", ctx, mock.Anything).Return([]*models.Student{}, nil)
		svc := newBulkService(repo)

		_, contentType, err := svc.Export(ctx, testPrincipal(), dto.ExportFilters{})

		require.NoError(t, err)
		assert.Equal(t, "text/csv", contentType)
	})

	t.Run("rejects invalid status filter", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc := newBulkService(repo)

		_, _, err := svc.Export(ctx, testPrincipal(), dto.ExportFilters{ApplicationStatus: "Enrolled"})

		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		repo.AssertNotCalled(t, "ListForExport", mock.Anything, mock.Anything)
	})

	t.Run("rejects unsupported format", func(t *testing.T) {
		repo := new(repoMocks.MockStudentRepository)
		svc := newBulkService(repo)

		_, _, err := svc.Export(ctx, testPrincipal(), dto.ExportFilters{Format: "xlsx"})

		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	})
}
