package auth

import (
	"fmt"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

// Operation identifies a protected dashboard action.
type Operation string

const (
	OpListStudents   Operation = "students.list"
	OpViewStudent    Operation = "students.view"
	OpCreateStudent  Operation = "students.create"
	OpUpdateStudent  Operation = "students.update"
	OpDeleteStudent  Operation = "students.delete"
	OpSearchStudents Operation = "students.search"
	OpBulkImport     Operation = "students.bulk_import"
	OpBulkExport     Operation = "students.bulk_export"
	OpManageFiles    Operation = "files.manage"
	OpSendEmails     Operation = "notifications.send"
	OpViewAuditLogs  Operation = "audit.view"
	OpChangeRole     Operation = "users.change_role"
)

// adminOnly lists the operations restricted to administrators. Everything
// else is open to any authenticated dashboard user.
var adminOnly = map[Operation]bool{
	OpUpdateStudent: true,
	OpDeleteStudent: true,
	OpBulkImport:    true,
	OpChangeRole:    true,
}

// RequiredRole returns the minimum role needed for an operation.
func RequiredRole(op Operation) models.Role {
	if adminOnly[op] {
		return models.RoleAdmin
	}
	return models.RoleStaff
}

// Authorize checks whether the principal may perform the operation.
func Authorize(principal models.Principal, op Operation) error {
	required := RequiredRole(op)
	if required == models.RoleAdmin && principal.Role != models.RoleAdmin {
		return apperrors.NewForbiddenError(
			fmt.Sprintf("operation requires role %q, current role is %q", required, principal.Role))
	}
	if !models.IsValidRole(string(principal.Role)) {
		return apperrors.NewForbiddenError(fmt.Sprintf("unknown role %q", principal.Role))
	}
	return nil
}
