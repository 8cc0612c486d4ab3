package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/middleware"
)

// FileController handles student document storage operations
type FileController struct {
	fileService *services.FileService
}

// NewFileController creates a new FileController
func NewFileController(fileService *services.FileService) *FileController {
	return &FileController{
		fileService: fileService,
	}
}

// Upload stores a document for a student
// @Summary Upload student file
// @Description Stores a document in object storage and records its metadata
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param file formData file true "Document (max 50 MB)"
// @Param file_type formData string true "Document category" Enums(transcript,essay,recommendation,certificate,identification,other)
// @Param description formData string false "Optional description"
// @Success 201 {object} dto.FileResponse "File stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /files/students/{id}/upload [post]
func (c *FileController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		badRequest(ctx, "File is required", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(ctx, "Could not read file", err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		badRequest(ctx, "Could not read file", err.Error())
		return
	}

	var description *string
	if d := ctx.PostForm("description"); d != "" {
		description = &d
	}

	principal, _ := middleware.GetPrincipal(ctx)
	stored, err := c.fileService.Upload(
		ctx.Request.Context(),
		principal,
		ctx.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		ctx.PostForm("file_type"),
		description,
		content,
	)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.FromStoredFile(stored))
}

// ListByStudent lists the documents stored for a student
// @Summary List student files
// @Description Retrieves the stored documents of a student, optionally filtered by type
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param file_type query string false "Filter by document category"
// @Success 200 {object} dto.FilesResponse "Files retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /files/students/{id} [get]
func (c *FileController) ListByStudent(ctx *gin.Context) {
	files, err := c.fileService.ListByStudent(ctx.Request.Context(), ctx.Param("id"), ctx.Query("file_type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.FromStoredFile(f))
	}

	ctx.JSON(http.StatusOK, dto.FilesResponse{Files: out, Total: len(out)})
}

// Get retrieves file metadata with a short-lived download link
// @Summary Get file
// @Description Retrieves a file's metadata together with a presigned download URL
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} dto.FileResponse "File retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /files/{id} [get]
func (c *FileController) Get(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	stored, downloadURL, err := c.fileService.Get(ctx.Request.Context(), principal, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromStoredFile(stored)
	resp.DownloadURL = downloadURL
	ctx.JSON(http.StatusOK, resp)
}

// Delete removes a file and its stored object
// @Summary Delete file
// @Description Removes the stored object and then the metadata record
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} dto.SuccessResponse "File deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /files/{id} [delete]
func (c *FileController) Delete(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	if err := c.fileService.Delete(ctx.Request.Context(), principal, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "File deleted successfully"})
}

// Statistics summarizes stored documents
// @Summary Storage statistics
// @Description Reports counts and sizes of stored documents grouped by type
// @Tags files
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StorageStatisticsResponse "Statistics retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /files/storage/statistics [get]
func (c *FileController) Statistics(ctx *gin.Context) {
	stats, err := c.fileService.Statistics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StorageStatisticsResponse{
		TotalFiles:       stats.TotalFiles,
		TotalSizeBytes:   stats.TotalSizeBytes,
		AverageSizeBytes: stats.AverageSizeBytes,
		LargestSizeBytes: stats.LargestSizeBytes,
		FilesByType:      stats.FilesByType,
	})
}
