package dto

import (
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
)

// FileResponse represents one stored document
type FileResponse struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	FileName    string    `json:"file_name" example:"transcript_2025.pdf"`
	FileType    string    `json:"file_type" example:"transcript"`
	ContentType string    `json:"content_type" example:"application/pdf"`
	SizeBytes   int64     `json:"size_bytes" example:"1048576"`
	SHA256      string    `json:"sha256"`
	Description *string   `json:"description,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	DownloadURL string    `json:"download_url,omitempty"` // Presigned, short-lived
	CreatedAt   time.Time `json:"created_at"`
}

// FromStoredFile converts a models.StoredFile to a FileResponse
func FromStoredFile(f *models.StoredFile) FileResponse {
	if f == nil {
		return FileResponse{}
	}
	return FileResponse{
		ID:          f.ID,
		StudentID:   f.StudentID,
		FileName:    f.FileName,
		FileType:    string(f.FileType),
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		SHA256:      f.SHA256,
		Description: f.Description,
		UploadedBy:  f.UploadedBy,
		CreatedAt:   f.CreatedAt,
	}
}

// FilesResponse represents a collection of stored documents
type FilesResponse struct {
	Files []FileResponse `json:"files"`
	Total int            `json:"total"`
}

// StorageStatisticsResponse reports the document storage footprint
type StorageStatisticsResponse struct {
	TotalFiles       int64            `json:"total_files"`
	TotalSizeBytes   int64            `json:"total_size_bytes"`
	AverageSizeBytes int64            `json:"average_size_bytes"`
	LargestSizeBytes int64            `json:"largest_size_bytes"`
	FilesByType      map[string]int64 `json:"files_by_type"`
}
