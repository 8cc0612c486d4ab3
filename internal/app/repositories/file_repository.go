package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

const fileColumns = "id, student_id, file_name, file_type, content_type, size_bytes, storage_key, sha256, description, uploaded_by, created_at"

// FileRepository handles metadata for stored student documents
type FileRepository interface {
	Create(ctx context.Context, file *models.StoredFile) error
	GetByID(ctx context.Context, id string) (*models.StoredFile, error)
	ListByStudent(ctx context.Context, studentID string, fileType string) ([]*models.StoredFile, error)
	Delete(ctx context.Context, id string) error
	ExistsByHash(ctx context.Context, studentID, sha256 string) (bool, error)
	Statistics(ctx context.Context) (*models.StorageStatistics, error)
}

type fileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *pgxpool.Pool) FileRepository {
	return &fileRepository{
		db: db,
	}
}

// Create inserts metadata for an already-uploaded object
func (r *fileRepository) Create(ctx context.Context, file *models.StoredFile) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO student_files (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, fileColumns)

	_, err := r.db.Exec(ctx, query,
		file.ID, file.StudentID, file.FileName, file.FileType, file.ContentType,
		file.SizeBytes, file.StorageKey, file.SHA256, file.Description, file.UploadedBy, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating file record: %w", err)
	}

	return nil
}

// GetByID retrieves file metadata by ID
func (r *fileRepository) GetByID(ctx context.Context, id string) (*models.StoredFile, error) {
	// a non-uuid id can never match a row
	if uuid.Validate(id) != nil {
		return nil, apperrors.ErrFileNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM student_files WHERE id = $1`, fileColumns)

	file, err := scanStoredFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error retrieving file: %w", err)
	}

	return file, nil
}

// ListByStudent retrieves a student's documents newest first
func (r *fileRepository) ListByStudent(ctx context.Context, studentID string, fileType string) ([]*models.StoredFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_files WHERE student_id = $1`, fileColumns)
	args := []interface{}{studentID}

	if fileType != "" {
		args = append(args, fileType)
		query += fmt.Sprintf(" AND file_type = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	defer rows.Close()

	var files []*models.StoredFile
	for rows.Next() {
		file, err := scanStoredFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// Delete removes file metadata permanently
func (r *fileRepository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return apperrors.ErrFileNotFound
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM student_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}

	return nil
}

// ExistsByHash checks for a duplicate upload for the same student
func (r *fileRepository) ExistsByHash(ctx context.Context, studentID, sha256 string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM student_files WHERE student_id = $1 AND sha256 = $2)`,
		studentID, sha256).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking file hash: %w", err)
	}

	return exists, nil
}

// Statistics aggregates the stored document footprint
func (r *fileRepository) Statistics(ctx context.Context) (*models.StorageStatistics, error) {
	stats := &models.StorageStatistics{
		FilesByType: make(map[string]int64),
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(size_bytes), 0),
		       COALESCE(AVG(size_bytes), 0)::bigint,
		       COALESCE(MAX(size_bytes), 0)
		FROM student_files
	`).Scan(&stats.TotalFiles, &stats.TotalSizeBytes, &stats.AverageSizeBytes, &stats.LargestSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("error aggregating storage totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT file_type, COUNT(*) FROM student_files GROUP BY file_type`)
	if err != nil {
		return nil, fmt.Errorf("error aggregating storage types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fileType string
		var count int64
		if err := rows.Scan(&fileType, &count); err != nil {
			return nil, err
		}
		stats.FilesByType[fileType] = count
	}

	return stats, rows.Err()
}

func scanStoredFile(row pgx.Row) (*models.StoredFile, error) {
	var file models.StoredFile
	err := row.Scan(
		&file.ID,
		&file.StudentID,
		&file.FileName,
		&file.FileType,
		&file.ContentType,
		&file.SizeBytes,
		&file.StorageKey,
		&file.SHA256,
		&file.Description,
		&file.UploadedBy,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
