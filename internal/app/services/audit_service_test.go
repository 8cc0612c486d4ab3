package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/undergraduation/ugadmin/internal/app/models"
	repoMocks "github.com/undergraduation/ugadmin/internal/app/repositories/mocks"
)

func TestAuditService_RecordCarriesRequestMeta(t *testing.T) {
	ctx := context.Background()
	actor := models.Principal{
		UserID: "staff-1",
		Email:  "staff@undergraduation.com",
		Role:   models.RoleStaff,
		RequestMeta: models.RequestMeta{
			IPAddress: "198.51.100.23",
			UserAgent: "dashboard/1.0",
		},
	}

	t.Run("entry inherits the actor's request metadata", func(t *testing.T) {
		auditRepo := new(repoMocks.MockAuditRepository)
		auditRepo.On("Insert", ctx, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
			return e.IPAddress != nil && *e.IPAddress == "198.51.100.23" &&
				e.UserAgent != nil && *e.UserAgent == "dashboard/1.0"
		})).Return(nil)

		NewAuditService(auditRepo).Record(ctx, AuditEvent{
			Actor:      actor,
			Action:     models.AuditUpdateStudent,
			TargetType: "student",
			Success:    true,
		})

		auditRepo.AssertExpectations(t)
	})

	t.Run("explicit event metadata wins over the actor's", func(t *testing.T) {
		forwarded := "203.0.113.9"
		auditRepo := new(repoMocks.MockAuditRepository)
		auditRepo.On("Insert", ctx, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
			return e.IPAddress != nil && *e.IPAddress == forwarded
		})).Return(nil)

		NewAuditService(auditRepo).Record(ctx, AuditEvent{
			Actor:     actor,
			Action:    models.AuditUpdateStudent,
			Success:   true,
			IPAddress: &forwarded,
		})

		auditRepo.AssertExpectations(t)
	})

	t.Run("no metadata leaves the columns null", func(t *testing.T) {
		auditRepo := new(repoMocks.MockAuditRepository)
		auditRepo.On("Insert", ctx, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
			return e.IPAddress == nil && e.UserAgent == nil
		})).Return(nil)

		NewAuditService(auditRepo).Record(ctx, AuditEvent{
			Actor:   models.Principal{UserID: "staff-1", Role: models.RoleStaff},
			Action:  models.AuditUpdateStudent,
			Success: true,
		})

		auditRepo.AssertExpectations(t)
	})
}
