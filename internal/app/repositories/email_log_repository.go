package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
)

// EmailLogRepository records every notification delivery attempt
type EmailLogRepository interface {
	Insert(ctx context.Context, log *models.EmailLog) error
	Query(ctx context.Context, filters dto.EmailLogFilters, offset uint64, limit int) ([]*models.EmailLog, int64, error)
}

type emailLogRepository struct {
	db *pgxpool.Pool
}

// NewEmailLogRepository creates a new email log repository
func NewEmailLogRepository(db *pgxpool.Pool) EmailLogRepository {
	return &emailLogRepository{
		db: db,
	}
}

// Insert appends one delivery attempt
func (r *emailLogRepository) Insert(ctx context.Context, log *models.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO email_logs (id, recipient, student_id, template, subject, status, error_message, sent_by, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		log.ID, log.Recipient, log.StudentID, log.Template, log.Subject,
		log.Status, log.ErrorMessage, log.SentBy, log.SentAt)
	if err != nil {
		return fmt.Errorf("error inserting email log: %w", err)
	}

	return nil
}

// Query retrieves delivery attempts newest first
func (r *emailLogRepository) Query(ctx context.Context, filters dto.EmailLogFilters, offset uint64, limit int) ([]*models.EmailLog, int64, error) {
	var conditions []string
	var args []interface{}

	if filters.StudentID != "" {
		// student_id is a uuid column; a malformed filter matches nothing
		if uuid.Validate(filters.StudentID) != nil {
			return []*models.EmailLog{}, 0, nil
		}
		args = append(args, filters.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filters.Template != "" {
		args = append(args, filters.Template)
		conditions = append(conditions, fmt.Sprintf("template = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.From != nil {
		args = append(args, *filters.From)
		conditions = append(conditions, fmt.Sprintf("sent_at >= $%d", len(args)))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		conditions = append(conditions, fmt.Sprintf("sent_at <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM email_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting email logs: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, recipient, student_id, template, subject, status, error_message, sent_by, sent_at
		FROM email_logs%s
		ORDER BY sent_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying email logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.EmailLog
	for rows.Next() {
		var log models.EmailLog
		if err := rows.Scan(
			&log.ID, &log.Recipient, &log.StudentID, &log.Template, &log.Subject,
			&log.Status, &log.ErrorMessage, &log.SentBy, &log.SentAt,
		); err != nil {
			return nil, 0, err
		}
		logs = append(logs, &log)
	}

	return logs, total, rows.Err()
}
