package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/services"
	"github.com/undergraduation/ugadmin/internal/middleware"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
)

// StudentController handles applicant record operations
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Description Creates a new applicant record with the provided information
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.StudentResponse "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid student data", err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	student, err := c.studentService.CreateStudent(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.FromStudent(student))
}

// GetStudent retrieves a student by ID
// @Summary Get student by ID
// @Description Retrieves a specific applicant record by its ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.StudentResponse "Student retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	student, err := c.studentService.GetStudent(ctx.Request.Context(), principal, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromStudent(student))
}

// ListStudents retrieves a filtered page of students
// @Summary List students
// @Description Retrieves applicant records with optional filters and pagination
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param page_size query int false "Page size" default(20) maximum(100)
// @Param name query string false "Filter by name (case-insensitive substring)"
// @Param email query string false "Filter by email (case-insensitive substring)"
// @Param status query string false "Filter by application status"
// @Param order_by query string false "Sort column" default(created_at)
// @Param order_direction query string false "Sort direction" Enums(asc,desc)
// @Success 200 {object} dto.StudentListResponse "Students retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filters := dto.StudentListFilters{
		Name:           ctx.Query("name"),
		Email:          ctx.Query("email"),
		Status:         ctx.Query("status"),
		OrderBy:        ctx.Query("order_by"),
		OrderDirection: ctx.Query("order_direction"),
	}

	students, total, err := c.studentService.ListStudents(ctx.Request.Context(), filters, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentListResponse{
		Students:       dto.FromStudents(students),
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	})
}

// UpdateStudent applies a partial update to a student
// @Summary Update student
// @Description Updates only the supplied fields of an applicant record
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.StudentResponse "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid student data", err.Error())
		return
	}

	principal, _ := middleware.GetPrincipal(ctx)
	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), principal, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromStudent(student))
}

// DeleteStudent removes a student
// @Summary Delete student
// @Description Permanently removes an applicant record
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.SuccessResponse "Student deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	if err := c.studentService.DeleteStudent(ctx.Request.Context(), principal, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student deleted successfully"})
}

// badRequest writes a VALIDATION error envelope for malformed request bodies.
func badRequest(ctx *gin.Context, message string, details interface{}) {
	resp := dto.NewErrorResponse(dto.ErrorCodeValidation, message).
		WithDetails(details).
		WithRequestID(middleware.GetRequestID(ctx))
	ctx.JSON(http.StatusBadRequest, resp)
}
