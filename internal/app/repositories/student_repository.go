package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
)

// studentColumns is the canonical select list for student rows
const studentColumns = "id, name, email, phone, country, grade, application_status, last_active, ai_summary, created_at, updated_at"

// searchableColumns whitelists fields usable in filters, sorting and suggestions
var searchableColumns = map[string]bool{
	"id":                 true,
	"name":               true,
	"email":              true,
	"phone":              true,
	"country":            true,
	"grade":              true,
	"application_status": true,
	"last_active":        true,
	"ai_summary":         true,
	"created_at":         true,
	"updated_at":         true,
}

// IsSearchableColumn reports whether field may appear in a query clause
func IsSearchableColumn(field string) bool {
	return searchableColumns[field]
}

// StudentRepository handles database operations for applicant records
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filters dto.StudentListFilters, offset uint64, limit int) ([]*models.Student, int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, req *dto.SearchRequest) ([]*models.Student, int64, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)
	FacetCounts(ctx context.Context, field string) (map[string]int64, error)
	ListForExport(ctx context.Context, filters dto.ExportFilters) ([]*models.Student, error)
}

type studentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) StudentRepository {
	return &studentRepository{
		db: db,
	}
}

// Create inserts a new applicant record, assigning id and timestamps
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	query := `
		INSERT INTO students (id, name, email, phone, country, grade, application_status, last_active, ai_summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		student.ID, student.Name, student.Email, student.Phone, student.Country,
		student.Grade, student.ApplicationStatus, student.LastActive, student.AISummary,
		student.CreatedAt, student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves an applicant record by ID
func (r *studentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	// ids are opaque to callers; a non-uuid can never match a row
	if uuid.Validate(id) != nil {
		return nil, apperrors.ErrStudentNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// List retrieves a page of applicant records with optional filters
func (r *studentRepository) List(ctx context.Context, filters dto.StudentListFilters, offset uint64, limit int) ([]*models.Student, int64, error) {
	var conditions []string
	var args []interface{}

	if filters.Name != "" {
		args = append(args, "%"+filters.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filters.Email != "" {
		args = append(args, "%"+filters.Email+"%")
		conditions = append(conditions, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("application_status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM students" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	orderBy := "created_at"
	if filters.OrderBy != "" && searchableColumns[filters.OrderBy] {
		orderBy = filters.OrderBy
	}
	direction := "DESC"
	if strings.EqualFold(filters.OrderDirection, "asc") {
		direction = "ASC"
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM students%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		studentColumns, where, orderBy, direction, len(args)-1, len(args))

	students, err := r.queryStudents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// Update applies a partial update and returns the refreshed record.
// fields keys must be whitelisted column names.
func (r *studentRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Student, error) {
	if uuid.Validate(id) != nil {
		return nil, apperrors.ErrStudentNotFound
	}
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	for _, col := range []string{"name", "email", "phone", "country", "grade", "application_status", "last_active", "ai_summary"} {
		value, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE students SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), studentColumns)

	student, err := scanStudent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return student, nil
}

// Delete removes an applicant record permanently
func (r *studentRepository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return apperrors.ErrStudentNotFound
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Count returns the total number of applicant records
func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return total, nil
}

// Search executes a structured query built from an already-validated request
func (r *studentRepository) Search(ctx context.Context, req *dto.SearchRequest) ([]*models.Student, int64, error) {
	where, args := buildSearchWhere(req)

	var filtered int64
	countQuery := "SELECT COUNT(*) FROM students" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&filtered); err != nil {
		return nil, 0, fmt.Errorf("error counting search results: %w", err)
	}

	sortField := "created_at"
	if req.SortField != "" && searchableColumns[req.SortField] {
		sortField = req.SortField
	}
	direction := "DESC"
	if strings.EqualFold(req.SortOrder, "asc") {
		direction = "ASC"
	}

	args = append(args, req.Limit, req.Offset)
	query := fmt.Sprintf(`SELECT %s FROM students%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		studentColumns, where, sortField, direction, len(args)-1, len(args))

	students, err := r.queryStudents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return students, filtered, nil
}

// buildSearchWhere translates the request into a WHERE clause.
// Categories combine with AND, values within a set with OR.
func buildSearchWhere(req *dto.SearchRequest) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if req.TextQuery != "" {
		fields := req.SearchFields
		if len(fields) == 0 {
			fields = []string{"name", "email"}
		}
		// Every term must match at least one target field
		for _, term := range strings.Fields(req.TextQuery) {
			args = append(args, "%"+term+"%")
			idx := len(args)
			var perField []string
			for _, f := range fields {
				if searchableColumns[f] {
					perField = append(perField, fmt.Sprintf("%s ILIKE $%d", f, idx))
				}
			}
			if len(perField) > 0 {
				conditions = append(conditions, "("+strings.Join(perField, " OR ")+")")
			}
		}
	}

	if len(req.ApplicationStatuses) > 0 {
		args = append(args, req.ApplicationStatuses)
		conditions = append(conditions, fmt.Sprintf("application_status = ANY($%d)", len(args)))
	}

	if len(req.Countries) > 0 {
		args = append(args, req.Countries)
		conditions = append(conditions, fmt.Sprintf("country = ANY($%d)", len(args)))
	}

	for _, f := range req.Filters {
		if !searchableColumns[f.Field] {
			continue
		}
		switch f.Operator {
		case dto.OpEq:
			args = append(args, f.Value)
			conditions = append(conditions, fmt.Sprintf("%s = $%d", f.Field, len(args)))
		case dto.OpNe:
			args = append(args, f.Value)
			conditions = append(conditions, fmt.Sprintf("%s != $%d", f.Field, len(args)))
		case dto.OpGt:
			args = append(args, f.Value)
			conditions = append(conditions, fmt.Sprintf("%s > $%d", f.Field, len(args)))
		case dto.OpGte:
			args = append(args, f.Value)
			conditions = append(conditions, fmt.Sprintf("%s >= $%d", f.Field, len(args)))
		case dto.OpLt:
			args = append(args, f.Value)
			conditions = append(conditions, fmt.Sprintf("%s < $%d", f.Field, len(args)))
		case dto.OpLte:
			args = append(args, f.Value)
			conditions = append(conditions, fmt.Sprintf("%s <= $%d", f.Field, len(args)))
		case dto.OpContains:
			args = append(args, fmt.Sprintf("%%%v%%", f.Value))
			conditions = append(conditions, fmt.Sprintf("%s::text ILIKE $%d", f.Field, len(args)))
		case dto.OpIn:
			args = append(args, toTextSlice(f.Value))
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", f.Field, len(args)))
		}
	}

	for _, df := range req.DateFilters {
		if !searchableColumns[df.Field] {
			continue
		}
		if df.From != nil {
			args = append(args, *df.From)
			conditions = append(conditions, fmt.Sprintf("%s >= $%d", df.Field, len(args)))
		}
		if df.To != nil {
			args = append(args, *df.To)
			conditions = append(conditions, fmt.Sprintf("%s <= $%d", df.Field, len(args)))
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// toTextSlice coerces a JSON-decoded "in" operand into a string slice
func toTextSlice(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", value)}
	}
}

// DistinctValues returns the sorted distinct non-empty values of a column
func (r *studentRepository) DistinctValues(ctx context.Context, field string) ([]string, error) {
	if !searchableColumns[field] {
		return nil, fmt.Errorf("field %q is not searchable", field)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %s::text FROM students
		WHERE %s IS NOT NULL AND %s::text != ''
		ORDER BY %s::text
	`, field, field, field, field)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving distinct values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

// FacetCounts aggregates record counts per value of a column, largest first
func (r *studentRepository) FacetCounts(ctx context.Context, field string) (map[string]int64, error) {
	if !searchableColumns[field] {
		return nil, fmt.Errorf("field %q is not searchable", field)
	}

	query := fmt.Sprintf(`
		SELECT %s::text, COUNT(*) FROM students
		WHERE %s IS NOT NULL AND %s::text != ''
		GROUP BY %s::text
		ORDER BY COUNT(*) DESC, %s::text ASC
	`, field, field, field, field, field)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error aggregating facets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var value string
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		counts[value] = count
	}

	return counts, rows.Err()
}

// ListForExport streams the full filtered set without a page ceiling
func (r *studentRepository) ListForExport(ctx context.Context, filters dto.ExportFilters) ([]*models.Student, error) {
	var conditions []string
	var args []interface{}

	if filters.ApplicationStatus != "" {
		args = append(args, filters.ApplicationStatus)
		conditions = append(conditions, fmt.Sprintf("application_status = $%d", len(args)))
	}
	if filters.Country != "" {
		args = append(args, filters.Country)
		conditions = append(conditions, fmt.Sprintf("country = $%d", len(args)))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		conditions = append(conditions, fmt.Sprintf("last_active >= $%d", len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		conditions = append(conditions, fmt.Sprintf("last_active <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM students%s ORDER BY created_at DESC`, studentColumns, where)
	return r.queryStudents(ctx, query, args...)
}

func (r *studentRepository) queryStudents(ctx context.Context, query string, args ...interface{}) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Phone,
		&student.Country,
		&student.Grade,
		&student.ApplicationStatus,
		&student.LastActive,
		&student.AISummary,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}
