package models

import "time"

// FileType classifies an uploaded student document
type FileType string

const (
	FileTypeTranscript     FileType = "transcript"
	FileTypeEssay          FileType = "essay"
	FileTypeRecommendation FileType = "recommendation"
	FileTypePortfolio      FileType = "portfolio"
	FileTypeCertificate    FileType = "certificate"
	FileTypeOther          FileType = "other"
)

// ValidFileTypes lists every accepted document classification
var ValidFileTypes = []FileType{
	FileTypeTranscript,
	FileTypeEssay,
	FileTypeRecommendation,
	FileTypePortfolio,
	FileTypeCertificate,
	FileTypeOther,
}

// IsValidFileType reports whether t is a known file type
func IsValidFileType(t string) bool {
	for _, v := range ValidFileTypes {
		if string(v) == t {
			return true
		}
	}
	return false
}

// StoredFile defines file metadata based on the 'student_files' table.
// The bytes themselves live in the object store under StorageKey.
type StoredFile struct {
	ID          string    `json:"id" db:"id"`
	StudentID   string    `json:"student_id" db:"student_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	FileType    FileType  `json:"file_type" db:"file_type"`
	ContentType string    `json:"content_type" db:"content_type"` // MIME type
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey  string    `json:"-" db:"storage_key"`
	SHA256      string    `json:"sha256" db:"sha256"`
	Description *string   `json:"description,omitempty" db:"description"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// StorageStatistics summarizes the uploaded document footprint
type StorageStatistics struct {
	TotalFiles       int64            `json:"total_files"`
	TotalSizeBytes   int64            `json:"total_size_bytes"`
	AverageSizeBytes int64            `json:"average_size_bytes"`
	LargestSizeBytes int64            `json:"largest_size_bytes"`
	FilesByType      map[string]int64 `json:"files_by_type"`
}
