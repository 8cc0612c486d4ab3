package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

func performWithError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/boom", func(c *gin.Context) {
		HandleAPIError(c, err)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{name: "student not found", err: apperrors.ErrStudentNotFound, wantStatus: http.StatusNotFound, wantCode: dto.ErrorCodeNotFound},
		{name: "file not found", err: apperrors.ErrFileNotFound, wantStatus: http.StatusNotFound, wantCode: dto.ErrorCodeNotFound},
		{name: "permission denied", err: apperrors.NewForbiddenError("admins only"), wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden},
		{name: "expired token", err: apperrors.ErrTokenExpired, wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeAuth},
		{name: "disabled account", err: apperrors.ErrAccountDisabled, wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeAuth},
		{name: "validation failure", err: apperrors.NewValidationError("bad input", nil), wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidation},
		{name: "unsupported import format", err: apperrors.ErrUnsupportedFormat, wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidation},
		{name: "oversized file", err: apperrors.ErrFileTooLarge, wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidation},
		{name: "unknown template", err: apperrors.ErrTemplateNotFound, wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidation},
		{name: "unexpected error", err: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError, wantCode: dto.ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := performWithError(t, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestHandleAPIError_Payload(t *testing.T) {
	t.Run("custom message is surfaced", func(t *testing.T) {
		_, resp := performWithError(t, apperrors.NewCustomError(apperrors.ErrStudentNotFound, "student abc-123 not found"))
		assert.Equal(t, "student abc-123 not found", resp.Message)
	})

	t.Run("field details are attached", func(t *testing.T) {
		err := apperrors.NewValidationError("student payload failed validation", map[string]interface{}{
			"email": "email is required",
		})

		_, resp := performWithError(t, err)

		details, ok := resp.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "email is required", details["email"])
	})

	t.Run("internal errors never leak the cause", func(t *testing.T) {
		_, resp := performWithError(t, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))
		assert.Equal(t, "Internal server error", resp.Message)
	})
}
