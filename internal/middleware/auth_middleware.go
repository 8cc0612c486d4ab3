package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appAuth "github.com/undergraduation/ugadmin/internal/app/auth"
	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/auth"
)

// PrincipalKey is the gin context key holding the authenticated principal.
const PrincipalKey = "principal"

// AuthMiddleware validates bearer tokens and resolves dashboard users.
type AuthMiddleware struct {
	jwtService  *auth.JWTService
	userService *services.UserService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userService *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		userService: userService,
	}
}

// JWTAuth validates the Authorization header, provisions the user record on
// first sight and stores a Principal in the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeAuth, "Authentication required", "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeAuth, "Authentication required", "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				details = "Token has expired"
			}
			abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeAuth, "Authentication failed", details)
			return
		}

		meta := models.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		user, err := m.userService.ResolveOrProvision(c.Request.Context(), claims, meta)
		if err != nil {
			if errors.Is(err, apperrors.ErrAccountDisabled) {
				abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeAuth, "Authentication failed", "Account is disabled")
				return
			}
			abortWithError(c, http.StatusInternalServerError, dto.ErrorCodeInternal, "Internal server error", nil)
			return
		}

		c.Set(PrincipalKey, models.Principal{
			UserID:      user.ID,
			Email:       user.Email,
			Role:        user.Role,
			RequestMeta: meta,
		})

		c.Next()
	}
}

// Authorize enforces the role gate for an operation. It must run after JWTAuth.
func (m *AuthMiddleware) Authorize(op appAuth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrorCodeAuth, "Authentication required", "User information not found")
			return
		}

		if err := appAuth.Authorize(principal, op); err != nil {
			var customErr *apperrors.CustomError
			message := "Permission denied"
			if errors.As(err, &customErr) {
				message = customErr.Message
			}
			abortWithError(c, http.StatusForbidden, dto.ErrorCodeForbidden, message, nil)
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the principal stored by JWTAuth.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}

func abortWithError(c *gin.Context, status int, code dto.ErrorCode, message string, details interface{}) {
	resp := dto.NewErrorResponse(code, message).WithRequestID(GetRequestID(c))
	if details != nil {
		resp = resp.WithDetails(details)
	}
	c.AbortWithStatusJSON(status, resp)
}
