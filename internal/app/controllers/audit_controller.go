package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/middleware"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
)

// AuditController exposes the audit trail
type AuditController struct {
	auditService *services.AuditService
}

// NewAuditController creates a new AuditController
func NewAuditController(auditService *services.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// List retrieves audit log entries
// @Summary List audit logs
// @Description Retrieves audit entries with optional filters, newest first
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param page_size query int false "Page size" default(20) maximum(100)
// @Param actor_id query string false "Filter by acting user"
// @Param action query string false "Filter by action"
// @Param target_type query string false "Filter by target type"
// @Param target_id query string false "Filter by target ID"
// @Param from query string false "Entries at or after (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Entries at or before (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.AuditLogListResponse "Audit logs retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-logs [get]
func (c *AuditController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filters := dto.AuditLogFilters{
		ActorID:    ctx.Query("actor_id"),
		Action:     ctx.Query("action"),
		TargetType: ctx.Query("target_type"),
		TargetID:   ctx.Query("target_id"),
	}

	if fromStr := ctx.Query("from"); fromStr != "" {
		from, err := helpers.ParseDate(fromStr)
		if err != nil {
			badRequest(ctx, "Invalid from date", "from must be RFC3339 or YYYY-MM-DD")
			return
		}
		filters.From = &from
	}
	if toStr := ctx.Query("to"); toStr != "" {
		to, err := helpers.ParseDate(toStr)
		if err != nil {
			badRequest(ctx, "Invalid to date", "to must be RFC3339 or YYYY-MM-DD")
			return
		}
		filters.To = &to
	}

	entries, total, err := c.auditService.Query(ctx.Request.Context(), filters, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromAuditLogEntry(e))
	}

	ctx.JSON(http.StatusOK, dto.AuditLogListResponse{
		Logs:           out,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	})
}
