package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/middleware"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
)

// NotificationController handles templated email delivery
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// Send delivers a templated email to explicit recipients
// @Summary Send templated email
// @Description Renders a template and delivers it to each listed recipient
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendEmailRequest true "Template, recipients and merge data"
// @Success 200 {object} dto.SendResult "Delivery attempted"
// @Failure 400 {object} dto.ErrorResponse "Unknown template or no valid recipients"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications/send [post]
func (c *NotificationController) Send(ctx *gin.Context) {
	var req dto.SendEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid notification request", err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	result, err := c.notificationService.Send(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// SendToStudent delivers a templated email to a student's own address
// @Summary Email a student
// @Description Renders a template with the student's record merged in and delivers it to their address
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendToStudentRequest true "Student, template and merge data"
// @Success 200 {object} dto.SendResult "Delivery attempted"
// @Failure 400 {object} dto.ErrorResponse "Unknown template"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications/send-to-student [post]
func (c *NotificationController) SendToStudent(ctx *gin.Context) {
	var req dto.SendToStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid notification request", err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	result, err := c.notificationService.SendToStudent(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// SendBulk delivers a templated email to many students
// @Summary Bulk email students
// @Description Delivers a templated email to each listed student, continuing past individual failures
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendBulkRequest true "Students, template and merge data"
// @Success 200 {object} dto.SendResult "Delivery attempted"
// @Failure 400 {object} dto.ErrorResponse "Unknown template or empty student list"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications/send-bulk [post]
func (c *NotificationController) SendBulk(ctx *gin.Context) {
	var req dto.SendBulkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid notification request", err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	result, err := c.notificationService.SendBulk(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Logs lists past delivery attempts
// @Summary List email logs
// @Description Retrieves delivery attempts with optional filters, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param page_size query int false "Page size" default(20) maximum(100)
// @Param student_id query string false "Filter by student"
// @Param template query string false "Filter by template"
// @Param status query string false "Filter by delivery status" Enums(sent,failed)
// @Success 200 {object} dto.EmailLogListResponse "Logs retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications/logs [get]
func (c *NotificationController) Logs(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filters := dto.EmailLogFilters{
		StudentID: ctx.Query("student_id"),
		Template:  ctx.Query("template"),
		Status:    ctx.Query("status"),
	}

	logs, total, err := c.notificationService.Logs(ctx.Request.Context(), filters, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.EmailLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.FromEmailLog(l))
	}

	ctx.JSON(http.StatusOK, dto.EmailLogListResponse{
		Logs:           out,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	})
}
