package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/logger"
)

// HandleAPIError maps service errors onto the standard error envelope.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classifyError(err)

	resp := dto.NewErrorResponse(code, message).WithRequestID(GetRequestID(c))

	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Details != nil {
		resp = resp.WithDetails(customErr.Details)
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("requestId", GetRequestID(c)).
			Msg("Unhandled error")
	}

	c.JSON(status, resp)
}

func classifyError(err error) (int, dto.ErrorCode, string) {
	switch {
	case apperrors.Is(err,
		apperrors.ErrStudentNotFound,
		apperrors.ErrFileNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeNotFound, errorMessage(err, "Resource not found")

	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, errorMessage(err, "Permission denied")

	case apperrors.Is(err,
		apperrors.ErrTokenInvalid,
		apperrors.ErrTokenExpired,
		apperrors.ErrInvalidCredentials,
		apperrors.ErrAccountDisabled):
		return http.StatusUnauthorized, dto.ErrorCodeAuth, errorMessage(err, "Authentication failed")

	case apperrors.Is(err,
		apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest,
		apperrors.ErrInvalidStatus,
		apperrors.ErrInvalidRole,
		apperrors.ErrInvalidEmail,
		apperrors.ErrUnsupportedFormat,
		apperrors.ErrEmptyImportFile,
		apperrors.ErrImportTooLarge,
		apperrors.ErrFileTooLarge,
		apperrors.ErrFileTypeInvalid,
		apperrors.ErrFileNameInvalid,
		apperrors.ErrTemplateNotFound,
		apperrors.ErrNoRecipients):
		return http.StatusBadRequest, dto.ErrorCodeValidation, errorMessage(err, "Validation failed")

	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternal, "Internal server error"
	}
}

// errorMessage prefers the wrapped CustomError message over the fallback.
func errorMessage(err error, fallback string) string {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		return customErr.Message
	}
	return fallback
}
