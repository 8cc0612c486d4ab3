package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/middleware"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
)

// BulkController handles bulk import and export of applicant records
type BulkController struct {
	bulkService *services.BulkService
}

// NewBulkController creates a new BulkController
func NewBulkController(bulkService *services.BulkService) *BulkController {
	return &BulkController{
		bulkService: bulkService,
	}
}

// Import ingests a CSV or JSON file of students
// @Summary Bulk import students
// @Description Imports applicant records from an uploaded CSV or JSON file, reporting per-row errors
// @Tags bulk
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or JSON file (max 1000 rows)"
// @Param format_type formData string false "Explicit format override" Enums(csv,json)
// @Param validate_only formData bool false "Validate without persisting" default(false)
// @Success 200 {object} dto.ImportResult "Import processed"
// @Failure 400 {object} dto.ErrorResponse "Unsupported format or unusable file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /bulk/import [post]
func (c *BulkController) Import(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		badRequest(ctx, "Import file is required", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(ctx, "Could not read import file", err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		badRequest(ctx, "Could not read import file", err.Error())
		return
	}

	format := ctx.PostForm("format_type")
	validateOnly := strings.EqualFold(ctx.PostForm("validate_only"), "true")

	principal, _ := middleware.GetPrincipal(ctx)
	result, err := c.bulkService.Import(ctx.Request.Context(), principal, fileHeader.Filename, content, format, validateOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Export streams all matching students as CSV or JSON
// @Summary Export students
// @Description Exports applicant records matching the filters as a downloadable CSV or JSON file
// @Tags bulk
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param format_type query string false "Export format" Enums(csv,json) default(csv)
// @Param application_status query string false "Filter by application status"
// @Param country query string false "Filter by country code"
// @Param start_date query string false "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param end_date query string false "Created at or before (RFC3339 or YYYY-MM-DD)"
// @Param include_fields query string false "Comma-separated field subset"
// @Success 200 {string} string "Export payload"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /bulk/export [get]
func (c *BulkController) Export(ctx *gin.Context) {
	filters := dto.ExportFilters{
		ApplicationStatus: ctx.Query("application_status"),
		Country:           ctx.Query("country"),
		Format:            ctx.Query("format_type"),
	}

	if fields := ctx.Query("include_fields"); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				filters.IncludeFields = append(filters.IncludeFields, f)
			}
		}
	}

	if startStr := ctx.Query("start_date"); startStr != "" {
		start, err := helpers.ParseDate(startStr)
		if err != nil {
			badRequest(ctx, "Invalid start_date", "start_date must be RFC3339 or YYYY-MM-DD")
			return
		}
		filters.StartDate = &start
	}
	if endStr := ctx.Query("end_date"); endStr != "" {
		end, err := helpers.ParseDate(endStr)
		if err != nil {
			badRequest(ctx, "Invalid end_date", "end_date must be RFC3339 or YYYY-MM-DD")
			return
		}
		filters.EndDate = &end
	}

	principal, _ := middleware.GetPrincipal(ctx)
	payload, contentType, err := c.bulkService.Export(ctx.Request.Context(), principal, filters)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ext := "csv"
	if strings.Contains(contentType, "json") {
		ext = "json"
	}
	fileName := fmt.Sprintf("students_export_%s.%s", time.Now().UTC().Format("20060102"), ext)

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	ctx.Data(http.StatusOK, contentType, payload)
}
