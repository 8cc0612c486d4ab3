package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appAuth "github.com/undergraduation/ugadmin/internal/app/auth"
	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	repoMocks "github.com/undergraduation/ugadmin/internal/app/repositories/mocks"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/auth"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject, email string, expiresAt time.Time) string {
	t.Helper()
	claims := auth.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "undergraduation.com",
			Audience:  jwt.ClaimStrings{"ugadmin-api"},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthFixture(userRepo *repoMocks.MockUserRepository) *AuthMiddleware {
	auditRepo := new(repoMocks.MockAuditRepository)
	auditRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   testSecret,
		TokenIssuer: "undergraduation.com",
		Audience:    "ugadmin-api",
	})
	userService := services.NewUserService(userRepo, services.NewAuditService(auditRepo))
	return NewAuthMiddleware(jwtService, userService)
}

func authTestRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), m.JWTAuth())
	handlers := append(extra, func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"userId": principal.UserID, "role": string(principal.Role)})
	})
	router.GET("/protected", handlers...)
	return router
}

func perform(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware_JWTAuth(t *testing.T) {
	activeUser := &models.User{
		ID:     "user-1",
		Email:  "staff@undergraduation.com",
		Role:   models.RoleStaff,
		Status: models.UserStatusActive,
	}

	t.Run("missing header", func(t *testing.T) {
		router := authTestRouter(newAuthFixture(new(repoMocks.MockUserRepository)))

		rec := perform(router, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, dto.ErrorCodeAuth, resp.Code)
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("garbage token", func(t *testing.T) {
		router := authTestRouter(newAuthFixture(new(repoMocks.MockUserRepository)))

		rec := perform(router, "Bearer not.a.token")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrorCodeAuth, decodeError(t, rec).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		router := authTestRouter(newAuthFixture(new(repoMocks.MockUserRepository)))
		token := signToken(t, "user-1", "staff@undergraduation.com", time.Now().Add(-time.Hour))

		rec := perform(router, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "Token has expired", resp.Details)
	})

	t.Run("valid token resolves the principal", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("GetByID", mock.Anything, "user-1").Return(activeUser, nil)
		userRepo.On("UpdateLastLogin", mock.Anything, "user-1", mock.AnythingOfType("time.Time")).Return(nil)
		router := authTestRouter(newAuthFixture(userRepo))
		token := signToken(t, "user-1", "staff@undergraduation.com", time.Now().Add(time.Hour))

		rec := perform(router, "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["userId"])
		assert.Equal(t, "staff", body["role"])
	})

	t.Run("first sight provisions a staff record", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("GetByID", mock.Anything, "new-user").Return(nil, apperrors.ErrUserNotFound)
		userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.ID == "new-user" && u.Role == models.RoleStaff
		})).Return(nil)
		router := authTestRouter(newAuthFixture(userRepo))
		token := signToken(t, "new-user", "new@undergraduation.com", time.Now().Add(time.Hour))

		rec := perform(router, "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		userRepo.AssertExpectations(t)
	})

	t.Run("disabled account", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("GetByID", mock.Anything, "user-1").Return(&models.User{
			ID:     "user-1",
			Status: models.UserStatusDisabled,
		}, nil)
		router := authTestRouter(newAuthFixture(userRepo))
		token := signToken(t, "user-1", "staff@undergraduation.com", time.Now().Add(time.Hour))

		rec := perform(router, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrorCodeAuth, decodeError(t, rec).Code)
	})
}

func TestAuthMiddleware_Authorize(t *testing.T) {
	token := func(t *testing.T) string {
		return signToken(t, "user-1", "staff@undergraduation.com", time.Now().Add(time.Hour))
	}

	t.Run("staff denied on an admin operation", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("GetByID", mock.Anything, "user-1").Return(&models.User{
			ID:     "user-1",
			Role:   models.RoleStaff,
			Status: models.UserStatusActive,
		}, nil)
		userRepo.On("UpdateLastLogin", mock.Anything, "user-1", mock.AnythingOfType("time.Time")).Return(nil)
		m := newAuthFixture(userRepo)
		router := authTestRouter(m, m.Authorize(appAuth.OpDeleteStudent))

		rec := perform(router, "Bearer "+token(t))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, dto.ErrorCodeForbidden, resp.Code)
		assert.Contains(t, resp.Message, "requires role")
	})

	t.Run("admin allowed on an admin operation", func(t *testing.T) {
		userRepo := new(repoMocks.MockUserRepository)
		userRepo.On("GetByID", mock.Anything, "user-1").Return(&models.User{
			ID:     "user-1",
			Role:   models.RoleAdmin,
			Status: models.UserStatusActive,
		}, nil)
		userRepo.On("UpdateLastLogin", mock.Anything, "user-1", mock.AnythingOfType("time.Time")).Return(nil)
		m := newAuthFixture(userRepo)
		router := authTestRouter(m, m.Authorize(appAuth.OpDeleteStudent))

		rec := perform(router, "Bearer "+token(t))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
