package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
	"github.com/undergraduation/ugadmin/internal/pkg/validation"
)

// StudentService handles applicant record operations
type StudentService struct {
	studentRepo repositories.StudentRepository
	auditSvc    *AuditService
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.StudentRepository, auditSvc *AuditService) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		auditSvc:    auditSvc,
	}
}

// statusHint lists the creation statuses in validation messages
func statusHint() string {
	parts := make([]string, 0, len(models.ValidApplicationStatuses))
	for _, s := range models.ValidApplicationStatuses {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ", ")
}

// validateName checks a name value and records any failure
func validateName(name string, errs dto.FieldErrors) string {
	name = strings.TrimSpace(name)
	ok := validation.NewStringValidation(name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		WithPattern(validation.CompiledPatterns.Name).
		Validate()
	if !ok {
		errs.Add("name", fmt.Sprintf("name must be %d-%d characters of letters, spaces, hyphens, apostrophes or dots", validation.NameMinLength, validation.NameMaxLength))
	}
	return name
}

// validateEmail checks an email value and records any failure
func validateEmail(email string, errs dto.FieldErrors) string {
	email = strings.TrimSpace(email)
	if !validation.CompiledPatterns.Email.MatchString(email) {
		errs.Add("email", fmt.Sprintf("email %q is not a valid address", email))
	}
	return email
}

// validatePhone normalizes and checks a phone value
func validatePhone(phone string, errs dto.FieldErrors) string {
	normalized := validation.NormalizePhone(phone)
	if !validation.CompiledPatterns.Phone.MatchString(normalized) {
		errs.Add("phone", "phone must contain 10 to 15 digits")
	}
	return normalized
}

// validateCountry uppercases and checks an ISO alpha-3 country code
func validateCountry(country string, errs dto.FieldErrors) string {
	country = strings.ToUpper(strings.TrimSpace(country))
	if !validation.CompiledPatterns.Country.MatchString(country) {
		errs.Add("country", fmt.Sprintf("country %q must be an ISO 3166-1 alpha-3 code", country))
	}
	return country
}

// validateGrade checks a grade label
func validateGrade(grade string, errs dto.FieldErrors) string {
	grade = strings.TrimSpace(grade)
	if !validation.CompiledPatterns.Grade.MatchString(grade) {
		errs.Add("grade", fmt.Sprintf("grade %q must be a short alphanumeric label", grade))
	}
	return grade
}

// validateStatus checks enum membership; the message names the bad value
func validateStatus(status string, errs dto.FieldErrors) string {
	status = strings.TrimSpace(status)
	if !models.IsValidApplicationStatus(status) {
		errs.Add("application_status", fmt.Sprintf("application_status %q is invalid, must be one of: %s", status, statusHint()))
	}
	return status
}

// buildStudent validates a creation payload and assembles the model.
// Returned field errors are empty on success.
func buildStudent(req *dto.CreateStudentRequest) (*models.Student, dto.FieldErrors) {
	errs := dto.FieldErrors{}

	student := &models.Student{
		ApplicationStatus: models.DefaultApplicationStatus,
	}

	if strings.TrimSpace(req.Name) == "" {
		errs.Add("name", "name is required")
	} else {
		student.Name = validateName(req.Name, errs)
	}

	if strings.TrimSpace(req.Email) == "" {
		errs.Add("email", "email is required")
	} else {
		student.Email = validateEmail(req.Email, errs)
	}

	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		phone := validatePhone(*req.Phone, errs)
		student.Phone = &phone
	}

	if strings.TrimSpace(req.Country) != "" {
		student.Country = validateCountry(req.Country, errs)
	}

	if req.Grade != nil && strings.TrimSpace(*req.Grade) != "" {
		grade := validateGrade(*req.Grade, errs)
		student.Grade = &grade
	}

	if strings.TrimSpace(req.ApplicationStatus) != "" {
		student.ApplicationStatus = models.ApplicationStatus(validateStatus(req.ApplicationStatus, errs))
	}

	student.LastActive = req.LastActive
	student.AISummary = req.AISummary

	return student, errs
}

// buildUpdateFields validates a partial update and returns the columns to set.
// Only supplied fields are validated; absent fields are untouched.
func buildUpdateFields(req *dto.UpdateStudentRequest) (map[string]interface{}, dto.FieldErrors) {
	errs := dto.FieldErrors{}
	fields := make(map[string]interface{})

	if req.Name != nil {
		fields["name"] = validateName(*req.Name, errs)
	}
	if req.Email != nil {
		fields["email"] = validateEmail(*req.Email, errs)
	}
	if req.Phone != nil {
		if strings.TrimSpace(*req.Phone) == "" {
			fields["phone"] = nil
		} else {
			fields["phone"] = validatePhone(*req.Phone, errs)
		}
	}
	if req.Country != nil {
		fields["country"] = validateCountry(*req.Country, errs)
	}
	if req.Grade != nil {
		if strings.TrimSpace(*req.Grade) == "" {
			fields["grade"] = nil
		} else {
			fields["grade"] = validateGrade(*req.Grade, errs)
		}
	}
	if req.ApplicationStatus != nil {
		fields["application_status"] = validateStatus(*req.ApplicationStatus, errs)
	}
	if req.LastActive != nil {
		fields["last_active"] = *req.LastActive
	}
	if req.AISummary != nil {
		fields["ai_summary"] = *req.AISummary
	}

	return fields, errs
}

// fieldErrorDetails converts field errors into error envelope details
func fieldErrorDetails(errs dto.FieldErrors) map[string]interface{} {
	details := make(map[string]interface{}, len(errs))
	for field, message := range errs {
		details[field] = message
	}
	return details
}

// CreateStudent validates and persists a new applicant record
func (s *StudentService) CreateStudent(ctx context.Context, actor models.Principal, req *dto.CreateStudentRequest) (*models.Student, error) {
	student, errs := buildStudent(req)
	if errs.HasErrors() {
		return nil, apperrors.NewValidationError("student payload failed validation", fieldErrorDetails(errs))
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditCreateStudent,
		TargetType: "student",
		TargetID:   &student.ID,
		Success:    true,
		Details:    map[string]interface{}{"email": student.Email},
	})

	return student, nil
}

// GetStudent retrieves one applicant record
func (s *StudentService) GetStudent(ctx context.Context, actor models.Principal, id string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditViewStudent,
		TargetType: "student",
		TargetID:   &student.ID,
		Success:    true,
	})

	return student, nil
}

// ListStudents retrieves a filtered, ordered page of applicant records.
// A page past the end yields an empty slice, not an error.
func (s *StudentService) ListStudents(ctx context.Context, filters dto.StudentListFilters, page, size int) ([]*models.Student, int64, error) {
	if filters.Status != "" && !models.IsValidApplicationStatus(filters.Status) {
		return nil, 0, apperrors.NewValidationError(
			fmt.Sprintf("application_status %q is invalid, must be one of: %s", filters.Status, statusHint()), nil)
	}
	if filters.OrderBy != "" && !repositories.IsSearchableColumn(filters.OrderBy) {
		return nil, 0, apperrors.NewValidationError(
			fmt.Sprintf("order_by field %q is not sortable", filters.OrderBy), nil)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	students, total, err := s.studentRepo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}

	return students, total, nil
}

// UpdateStudent applies a partial update; only supplied fields change
func (s *StudentService) UpdateStudent(ctx context.Context, actor models.Principal, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if req.IsEmpty() {
		return nil, apperrors.NewValidationError("update payload carries no fields", nil)
	}

	fields, errs := buildUpdateFields(req)
	if errs.HasErrors() {
		return nil, apperrors.NewValidationError("student payload failed validation", fieldErrorDetails(errs))
	}

	student, err := s.studentRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, len(fields))
	for field := range fields {
		updated = append(updated, field)
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditUpdateStudent,
		TargetType: "student",
		TargetID:   &student.ID,
		Success:    true,
		Details:    map[string]interface{}{"fields": updated},
	})

	return student, nil
}

// DeleteStudent removes a record permanently.
// Deleting an unknown id is reported as not found, never silently ignored.
func (s *StudentService) DeleteStudent(ctx context.Context, actor models.Principal, id string) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditDeleteStudent,
		TargetType: "student",
		TargetID:   &id,
		Success:    true,
	})

	return nil
}
