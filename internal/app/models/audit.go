package models

import "time"

// AuditAction is the verb recorded for a tracked operation
type AuditAction string

const (
	AuditCreateStudent      AuditAction = "CREATE_STUDENT"
	AuditUpdateStudent      AuditAction = "UPDATE_STUDENT"
	AuditDeleteStudent      AuditAction = "DELETE_STUDENT"
	AuditViewStudent        AuditAction = "VIEW_STUDENT"
	AuditBulkImportStudents AuditAction = "BULK_IMPORT_STUDENTS"
	AuditExportStudents     AuditAction = "EXPORT_STUDENTS"
	AuditSearchStudents     AuditAction = "SEARCH_STUDENTS"
	AuditUploadFile         AuditAction = "UPLOAD_FILE"
	AuditDeleteFile         AuditAction = "DELETE_FILE"
	AuditDownloadFile       AuditAction = "DOWNLOAD_FILE"
	AuditSendEmail          AuditAction = "SEND_EMAIL"
	AuditUserLogin          AuditAction = "USER_LOGIN"
	AuditChangeUserRole     AuditAction = "CHANGE_USER_ROLE"
)

// AuditSeverity ranks how sensitive a recorded action is
type AuditSeverity string

const (
	AuditSeverityLow      AuditSeverity = "low"
	AuditSeverityMedium   AuditSeverity = "medium"
	AuditSeverityHigh     AuditSeverity = "high"
	AuditSeverityCritical AuditSeverity = "critical"
)

// SeverityForAction maps an action to its recorded severity
func SeverityForAction(action AuditAction) AuditSeverity {
	switch action {
	case AuditDeleteStudent, AuditBulkImportStudents, AuditChangeUserRole:
		return AuditSeverityHigh
	case AuditViewStudent, AuditSearchStudents:
		return AuditSeverityLow
	default:
		return AuditSeverityMedium
	}
}

// AuditLogEntry defines one append-only row of the 'audit_logs' table
type AuditLogEntry struct {
	ID         int64                  `json:"id" db:"id"`
	ActorID    string                 `json:"actor_id" db:"actor_id"`
	ActorEmail string                 `json:"actor_email" db:"actor_email"`
	ActorRole  Role                   `json:"actor_role" db:"actor_role"`
	Action     AuditAction            `json:"action" db:"action"`
	TargetType string                 `json:"target_type" db:"target_type"` // student, file, email, user
	TargetID   *string                `json:"target_id,omitempty" db:"target_id"`
	Severity   AuditSeverity          `json:"severity" db:"severity"`
	Success    bool                   `json:"success" db:"success"`
	Details    map[string]interface{} `json:"details,omitempty" db:"details"`
	IPAddress  *string                `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  *string                `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
}
