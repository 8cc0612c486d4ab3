package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/auth"
	"github.com/undergraduation/ugadmin/internal/pkg/logger"
)

// UserService resolves authenticated principals to dashboard users
type UserService struct {
	userRepo repositories.UserRepository
	auditSvc *AuditService
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.UserRepository, auditSvc *AuditService) *UserService {
	return &UserService{
		userRepo: userRepo,
		auditSvc: auditSvc,
	}
}

// ResolveOrProvision looks up the role record for a verified identity,
// creating a staff record on first sight. The auto-create is an explicit
// write, not a default applied at read time.
func (s *UserService) ResolveOrProvision(ctx context.Context, claims *auth.Claims, meta models.RequestMeta) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("error resolving user: %w", err)
		}

		now := time.Now().UTC()
		user = &models.User{
			ID:          claims.Subject,
			Email:       claims.Email,
			Role:        models.DefaultRole,
			Status:      models.UserStatusActive,
			CreatedAt:   now,
			LastLoginAt: &now,
		}
		if claims.Name != "" {
			name := claims.Name
			user.Name = &name
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("error provisioning user: %w", err)
		}

		s.auditSvc.Record(ctx, AuditEvent{
			Actor:      models.Principal{UserID: user.ID, Email: user.Email, Role: user.Role, RequestMeta: meta},
			Action:     models.AuditUserLogin,
			TargetType: "user",
			TargetID:   &user.ID,
			Success:    true,
			Details:    map[string]interface{}{"provisioned": true},
		})

		return user, nil
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountDisabled
	}

	// A corrupted stored role degrades to staff rather than failing the request
	if !models.IsValidRole(string(user.Role)) {
		logger.Warn().Str("userId", user.ID).Str("role", string(user.Role)).Msg("Unknown stored role, treating as staff")
		user.Role = models.RoleStaff
	}

	// Refresh last seen, best effort
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		logger.Warn().Err(err).Str("userId", user.ID).Msg("Failed to refresh last login")
	}

	return user, nil
}

// GetUser retrieves a dashboard user by ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ChangeRole updates a dashboard user's role
func (s *UserService) ChangeRole(ctx context.Context, actor models.Principal, userID string, role string) error {
	if !models.IsValidRole(role) {
		return apperrors.NewCustomError(apperrors.ErrInvalidRole,
			fmt.Sprintf("role %q is invalid, must be admin or staff", role))
	}

	if err := s.userRepo.UpdateRole(ctx, userID, models.Role(role)); err != nil {
		return err
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditChangeUserRole,
		TargetType: "user",
		TargetID:   &userID,
		Success:    true,
		Details:    map[string]interface{}{"new_role": role},
	})

	return nil
}
