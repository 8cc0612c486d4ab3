package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

func TestRequiredRole(t *testing.T) {
	adminOps := []Operation{OpUpdateStudent, OpDeleteStudent, OpBulkImport, OpChangeRole}
	for _, op := range adminOps {
		assert.Equal(t, models.RoleAdmin, RequiredRole(op), string(op))
	}

	staffOps := []Operation{
		OpListStudents, OpViewStudent, OpCreateStudent, OpSearchStudents,
		OpBulkExport, OpManageFiles, OpSendEmails, OpViewAuditLogs,
	}
	for _, op := range staffOps {
		assert.Equal(t, models.RoleStaff, RequiredRole(op), string(op))
	}
}

func TestAuthorize(t *testing.T) {
	admin := models.Principal{UserID: "admin-1", Role: models.RoleAdmin}
	staff := models.Principal{UserID: "staff-1", Role: models.RoleStaff}

	t.Run("admin may perform every operation", func(t *testing.T) {
		for op := range adminOnly {
			assert.NoError(t, Authorize(admin, op), string(op))
		}
		assert.NoError(t, Authorize(admin, OpListStudents))
	})

	t.Run("staff is denied admin operations", func(t *testing.T) {
		for op := range adminOnly {
			err := Authorize(staff, op)
			assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, string(op))
		}
	})

	t.Run("staff may perform open operations", func(t *testing.T) {
		assert.NoError(t, Authorize(staff, OpListStudents))
		assert.NoError(t, Authorize(staff, OpSendEmails))
		assert.NoError(t, Authorize(staff, OpBulkExport))
	})

	t.Run("unknown role is denied", func(t *testing.T) {
		odd := models.Principal{UserID: "x", Role: models.Role("superuser")}
		assert.ErrorIs(t, Authorize(odd, OpListStudents), apperrors.ErrPermissionDenied)
	})
}
