package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
)

// AuditRepository handles the append-only audit trail
type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditLogEntry) error
	Query(ctx context.Context, filters dto.AuditLogFilters, offset uint64, limit int) ([]*models.AuditLogEntry, int64, error)
}

type auditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// Insert appends one audit entry
func (r *auditRepository) Insert(ctx context.Context, entry *models.AuditLogEntry) error {
	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("error encoding audit details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (actor_id, actor_email, actor_role, action, target_type, target_id, severity, success, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		entry.ActorID, entry.ActorEmail, entry.ActorRole, entry.Action,
		entry.TargetType, entry.TargetID, entry.Severity, entry.Success,
		details, entry.IPAddress, entry.UserAgent, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("error inserting audit entry: %w", err)
	}

	return nil
}

// Query retrieves audit entries newest first
func (r *auditRepository) Query(ctx context.Context, filters dto.AuditLogFilters, offset uint64, limit int) ([]*models.AuditLogEntry, int64, error) {
	var conditions []string
	var args []interface{}

	if filters.ActorID != "" {
		args = append(args, filters.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filters.Action != "" {
		args = append(args, filters.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if filters.TargetType != "" {
		args = append(args, filters.TargetType)
		conditions = append(conditions, fmt.Sprintf("target_type = $%d", len(args)))
	}
	if filters.TargetID != "" {
		args = append(args, filters.TargetID)
		conditions = append(conditions, fmt.Sprintf("target_id = $%d", len(args)))
	}
	if filters.From != nil {
		args = append(args, *filters.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting audit entries: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, actor_id, actor_email, actor_role, action, target_type, target_id, severity, success, details, ip_address, user_agent, created_at
		FROM audit_logs%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		var details []byte
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.ActorEmail, &entry.ActorRole,
			&entry.Action, &entry.TargetType, &entry.TargetID, &entry.Severity,
			&entry.Success, &details, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, 0, fmt.Errorf("error decoding audit details: %w", err)
			}
		}
		entries = append(entries, &entry)
	}

	return entries, total, rows.Err()
}
