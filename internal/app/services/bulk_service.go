package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
)

// importColumns maps accepted import column names onto record fields
var importColumns = map[string]bool{
	"name":               true,
	"email":              true,
	"phone":              true,
	"country":            true,
	"grade":              true,
	"application_status": true,
	"last_active":        true,
	"ai_summary":         true,
}

// defaultExportFields is the column set used when include_fields is absent
var defaultExportFields = []string{
	"id", "name", "email", "phone", "country", "grade",
	"application_status", "last_active", "created_at", "updated_at",
}

// importRow is one parsed row with its position in the source file
type importRow struct {
	number int
	data   map[string]string
}

// BulkService handles bulk import and export of applicant records
type BulkService struct {
	studentRepo repositories.StudentRepository
	auditSvc    *AuditService
}

// NewBulkService creates a new bulk service instance
func NewBulkService(studentRepo repositories.StudentRepository, auditSvc *AuditService) *BulkService {
	return &BulkService{
		studentRepo: studentRepo,
		auditSvc:    auditSvc,
	}
}

// DetectFormat resolves the import format from an explicit hint or the file extension
func DetectFormat(formatType, fileName string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(formatType))
	if format == "" {
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".csv":
			format = dto.FormatCSV
		case ".json":
			format = dto.FormatJSON
		}
	}

	switch format {
	case dto.FormatCSV, dto.FormatJSON:
		return format, nil
	default:
		return "", apperrors.NewCustomError(apperrors.ErrUnsupportedFormat,
			fmt.Sprintf("format %q is not supported, use csv or json", formatType))
	}
}

// Import runs a bulk import. Rows fail independently; failures are data in
// the result, not request errors.
func (s *BulkService) Import(ctx context.Context, actor models.Principal, fileName string, content []byte, formatType string, validateOnly bool) (*dto.ImportResult, error) {
	started := time.Now()

	format, err := DetectFormat(formatType, fileName)
	if err != nil {
		return nil, err
	}

	var rows []importRow
	switch format {
	case dto.FormatCSV:
		rows, err = parseCSVRows(content)
	case dto.FormatJSON:
		rows, err = parseJSONRows(content)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrEmptyImportFile, "import file contains no rows")
	}
	if len(rows) > dto.MaxImportRows {
		return nil, apperrors.NewCustomError(apperrors.ErrImportTooLarge,
			fmt.Sprintf("import carries %d rows, the maximum is %d", len(rows), dto.MaxImportRows))
	}

	result := &dto.ImportResult{
		TotalRows:         len(rows),
		Errors:            []dto.RowError{},
		CreatedStudentIDs: []string{},
		ValidateOnly:      validateOnly,
	}

	type staged struct {
		row     importRow
		student *models.Student
	}
	var validated []staged

	for _, row := range rows {
		req := rowToCreateRequest(row.data)
		student, errs := buildStudent(req)
		if errs.HasErrors() {
			result.Errors = append(result.Errors, dto.RowError{
				RowNumber:    row.number,
				RowData:      row.data,
				ErrorType:    "validation_error",
				ErrorMessage: "row failed validation",
				FieldErrors:  errs,
			})
			continue
		}
		validated = append(validated, staged{row: row, student: student})
	}

	if validateOnly {
		result.SuccessfulImports = len(validated)
	} else {
		for _, item := range validated {
			if err := s.studentRepo.Create(ctx, item.student); err != nil {
				result.Errors = append(result.Errors, dto.RowError{
					RowNumber:    item.row.number,
					RowData:      item.row.data,
					ErrorType:    "database_error",
					ErrorMessage: err.Error(),
				})
				continue
			}
			result.CreatedStudentIDs = append(result.CreatedStudentIDs, item.student.ID)
			result.SuccessfulImports++
		}
	}

	result.FailedImports = result.TotalRows - result.SuccessfulImports
	result.ProcessingTimeSeconds = time.Since(started).Seconds()

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditBulkImportStudents,
		TargetType: "student",
		Success:    true,
		Details: map[string]interface{}{
			"total_rows":         result.TotalRows,
			"successful_imports": result.SuccessfulImports,
			"failed_imports":     result.FailedImports,
			"validate_only":      validateOnly,
			"file_name":          fileName,
		},
	})

	return result, nil
}

// parseCSVRows reads a headered CSV. Data rows are numbered from 2 because
// the header is row 1.
func parseCSVRows(content []byte) ([]importRow, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("malformed CSV: %v", err))
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var rows []importRow
	for i, record := range records[1:] {
		data := make(map[string]string, len(header))
		for j, value := range record {
			if j < len(header) && importColumns[header[j]] {
				data[header[j]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, importRow{number: i + 2, data: data})
	}

	return rows, nil
}

// parseJSONRows accepts an array of objects, an object with a "students"
// array, or a single object. Rows are numbered from 1.
func parseJSONRows(content []byte) ([]importRow, error) {
	var objects []map[string]interface{}

	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("malformed JSON: %v", err))
		}
	} else {
		var wrapper struct {
			Students []map[string]interface{} `json:"students"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err == nil && wrapper.Students != nil {
			objects = wrapper.Students
		} else {
			var single map[string]interface{}
			if err := json.Unmarshal(trimmed, &single); err != nil {
				return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("malformed JSON: %v", err))
			}
			objects = []map[string]interface{}{single}
		}
	}

	var rows []importRow
	for i, obj := range objects {
		data := make(map[string]string, len(obj))
		for key, value := range obj {
			key = strings.ToLower(strings.TrimSpace(key))
			if !importColumns[key] || value == nil {
				continue
			}
			data[key] = fmt.Sprintf("%v", value)
		}
		rows = append(rows, importRow{number: i + 1, data: data})
	}

	return rows, nil
}

// rowToCreateRequest maps parsed row values onto a creation payload
func rowToCreateRequest(data map[string]string) *dto.CreateStudentRequest {
	req := &dto.CreateStudentRequest{
		Name:              data["name"],
		Email:             data["email"],
		Country:           data["country"],
		ApplicationStatus: data["application_status"],
	}

	if v, ok := data["phone"]; ok && v != "" {
		req.Phone = &v
	}
	if v, ok := data["grade"]; ok && v != "" {
		req.Grade = &v
	}
	if v, ok := data["ai_summary"]; ok && v != "" {
		req.AISummary = &v
	}
	if v, ok := data["last_active"]; ok && v != "" {
		if t, err := helpers.ParseDate(v); err == nil {
			req.LastActive = &t
		}
	}

	return req
}

// Export streams the full filtered record set; listing page caps do not apply
func (s *BulkService) Export(ctx context.Context, actor models.Principal, filters dto.ExportFilters) ([]byte, string, error) {
	if filters.ApplicationStatus != "" && !models.IsValidApplicationStatus(filters.ApplicationStatus) {
		return nil, "", apperrors.NewValidationError(
			fmt.Sprintf("application_status %q is invalid, must be one of: %s", filters.ApplicationStatus, statusHint()), nil)
	}

	format := strings.ToLower(strings.TrimSpace(filters.Format))
	if format == "" {
		format = dto.FormatCSV
	}
	if format != dto.FormatCSV && format != dto.FormatJSON {
		return nil, "", apperrors.NewCustomError(apperrors.ErrUnsupportedFormat,
			fmt.Sprintf("format %q is not supported, use csv or json", filters.Format))
	}

	fields := filters.IncludeFields
	if len(fields) == 0 {
		fields = defaultExportFields
	}

	students, err := s.studentRepo.ListForExport(ctx, filters)
	if err != nil {
		return nil, "", fmt.Errorf("error exporting students: %w", err)
	}

	var payload []byte
	var contentType string
	switch format {
	case dto.FormatCSV:
		payload, err = renderCSVExport(students, fields)
		contentType = "text/csv"
	case dto.FormatJSON:
		payload, err = renderJSONExport(students, fields, format)
		contentType = "application/json"
	}
	if err != nil {
		return nil, "", err
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditExportStudents,
		TargetType: "student",
		Success:    true,
		Details: map[string]interface{}{
			"format":      format,
			"total_count": len(students),
		},
	})

	return payload, contentType, nil
}

func renderCSVExport(students []*models.Student, fields []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(fields); err != nil {
		return nil, fmt.Errorf("error writing export header: %w", err)
	}

	for _, student := range students {
		values := studentFieldMap(student)
		record := make([]string, len(fields))
		for i, field := range fields {
			record[i] = stringifyExportValue(values[field])
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("error writing export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing export: %w", err)
	}

	return buf.Bytes(), nil
}

func renderJSONExport(students []*models.Student, fields []string, format string) ([]byte, error) {
	envelope := dto.ExportEnvelope{
		Students: make([]map[string]interface{}, 0, len(students)),
		ExportInfo: dto.ExportInfo{
			TotalCount: len(students),
			ExportedAt: time.Now().UTC(),
			Format:     format,
		},
	}

	for _, student := range students {
		values := studentFieldMap(student)
		row := make(map[string]interface{}, len(fields))
		for _, field := range fields {
			row[field] = values[field]
		}
		envelope.Students = append(envelope.Students, row)
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	return payload, nil
}

// studentFieldMap exposes a record's exportable fields by column name
func studentFieldMap(s *models.Student) map[string]interface{} {
	return map[string]interface{}{
		"id":                 s.ID,
		"name":               s.Name,
		"email":              s.Email,
		"phone":              s.Phone,
		"country":            s.Country,
		"grade":              s.Grade,
		"application_status": string(s.ApplicationStatus),
		"last_active":        s.LastActive,
		"ai_summary":         s.AISummary,
		"created_at":         s.CreatedAt,
		"updated_at":         s.UpdatedAt,
	}
}

func stringifyExportValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case time.Time:
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
