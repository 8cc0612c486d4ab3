package dto

import "time"

// Import formats accepted by the bulk engine
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// MaxImportRows caps how many rows a single import may carry
const MaxImportRows = 1000

// RowError describes why one row of an import failed.
// The rest of the file is unaffected.
type RowError struct {
	RowNumber    int               `json:"row_number"`
	RowData      map[string]string `json:"row_data,omitempty"`
	ErrorType    string            `json:"error_type" example:"validation_error"`
	ErrorMessage string            `json:"error_message"`
	FieldErrors  map[string]string `json:"field_errors,omitempty"`
}

// ImportResult summarizes a bulk import run
type ImportResult struct {
	TotalRows             int        `json:"total_rows"`
	SuccessfulImports     int        `json:"successful_imports"`
	FailedImports         int        `json:"failed_imports"`
	Errors                []RowError `json:"errors"`
	CreatedStudentIDs     []string   `json:"created_student_ids"`
	ValidateOnly          bool       `json:"validate_only"`
	ProcessingTimeSeconds float64    `json:"processing_time_seconds"`
}

// ExportFilters restricts which records an export includes
type ExportFilters struct {
	ApplicationStatus string
	Country           string
	StartDate         *time.Time
	EndDate           *time.Time
	IncludeFields     []string
	Format            string
}

// ExportInfo annotates a JSON export payload
type ExportInfo struct {
	TotalCount int       `json:"total_count"`
	ExportedAt time.Time `json:"exported_at"`
	Format     string    `json:"format"`
}

// ExportEnvelope wraps a JSON export
type ExportEnvelope struct {
	Students   []map[string]interface{} `json:"students"`
	ExportInfo ExportInfo               `json:"export_info"`
}
