package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
	"github.com/undergraduation/ugadmin/internal/pkg/apperrors"
	"github.com/undergraduation/ugadmin/internal/pkg/email"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
	"github.com/undergraduation/ugadmin/internal/pkg/logger"
	"github.com/undergraduation/ugadmin/internal/pkg/validation"
)

// bulkEmailBatchSize bounds how many students one batch addresses
const bulkEmailBatchSize = 10

// NotificationService sends templated emails and records every attempt
type NotificationService struct {
	emailLogRepo repositories.EmailLogRepository
	studentRepo  repositories.StudentRepository
	sender       email.Sender
	auditSvc     *AuditService
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(emailLogRepo repositories.EmailLogRepository, studentRepo repositories.StudentRepository, sender email.Sender, auditSvc *AuditService) *NotificationService {
	return &NotificationService{
		emailLogRepo: emailLogRepo,
		studentRepo:  studentRepo,
		sender:       sender,
		auditSvc:     auditSvc,
	}
}

// deliver renders the template and sends to one recipient, logging the outcome
func (s *NotificationService) deliver(ctx context.Context, actor models.Principal, recipient string, studentID *string, template string, data map[string]interface{}) *models.EmailLog {
	log := &models.EmailLog{
		Recipient: recipient,
		StudentID: studentID,
		Template:  models.EmailTemplate(template),
		Status:    models.EmailStatusSent,
		SentBy:    actor.UserID,
		SentAt:    time.Now().UTC(),
	}

	subject, body, err := email.RenderTemplate(template, data)
	if err == nil {
		log.Subject = subject
		err = s.sender.Send(recipient, subject, body)
	}

	if err != nil {
		message := err.Error()
		log.Status = models.EmailStatusFailed
		log.ErrorMessage = &message
	}

	if insertErr := s.emailLogRepo.Insert(ctx, log); insertErr != nil {
		logger.Error().Err(insertErr).Str("recipient", recipient).Msg("Failed to record email log")
	}

	return log
}

// validateTemplate checks the template name
func validateTemplate(template string) error {
	if !models.IsValidEmailTemplate(template) || !email.HasTemplate(template) {
		return apperrors.NewCustomError(apperrors.ErrTemplateNotFound,
			fmt.Sprintf("email template %q does not exist", template))
	}
	return nil
}

// Send delivers one template to explicit recipients
func (s *NotificationService) Send(ctx context.Context, actor models.Principal, req *dto.SendEmailRequest) (*dto.SendResult, error) {
	if err := validateTemplate(req.Template); err != nil {
		return nil, err
	}
	if len(req.Recipients) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrNoRecipients, "at least one recipient is required")
	}

	result := &dto.SendResult{Requested: len(req.Recipients)}
	for _, recipient := range req.Recipients {
		recipient = strings.TrimSpace(recipient)
		if !validation.CompiledPatterns.Email.MatchString(recipient) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("recipient %q is not a valid address", recipient), nil)
		}
	}

	for _, recipient := range req.Recipients {
		log := s.deliver(ctx, actor, strings.TrimSpace(recipient), nil, req.Template, req.Data)
		s.tally(result, log)
	}

	s.recordSendAudit(ctx, actor, req.Template, result)
	return result, nil
}

// SendToStudent delivers one template to a student's address with their
// record fields injected into the template data
func (s *NotificationService) SendToStudent(ctx context.Context, actor models.Principal, req *dto.SendToStudentRequest) (*dto.SendResult, error) {
	if err := validateTemplate(req.Template); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	data := mergeStudentData(student, req.Data)
	result := &dto.SendResult{Requested: 1}
	log := s.deliver(ctx, actor, student.Email, &student.ID, req.Template, data)
	s.tally(result, log)

	s.recordSendAudit(ctx, actor, req.Template, result)
	return result, nil
}

// SendBulk delivers one template to many students in batches.
// A failure in one batch does not stop later batches.
func (s *NotificationService) SendBulk(ctx context.Context, actor models.Principal, req *dto.SendBulkRequest) (*dto.SendResult, error) {
	if err := validateTemplate(req.Template); err != nil {
		return nil, err
	}
	if len(req.StudentIDs) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrNoRecipients, "at least one student is required")
	}

	result := &dto.SendResult{Requested: len(req.StudentIDs)}

	for start := 0; start < len(req.StudentIDs); start += bulkEmailBatchSize {
		end := start + bulkEmailBatchSize
		if end > len(req.StudentIDs) {
			end = len(req.StudentIDs)
		}

		for _, studentID := range req.StudentIDs[start:end] {
			student, err := s.studentRepo.GetByID(ctx, studentID)
			if err != nil {
				message := err.Error()
				id := studentID
				log := &models.EmailLog{
					Recipient:    studentID,
					StudentID:    &id,
					Template:     models.EmailTemplate(req.Template),
					Status:       models.EmailStatusFailed,
					ErrorMessage: &message,
					SentBy:       actor.UserID,
					SentAt:       time.Now().UTC(),
				}
				if insertErr := s.emailLogRepo.Insert(ctx, log); insertErr != nil {
					logger.Error().Err(insertErr).Str("studentId", studentID).Msg("Failed to record email log")
				}
				s.tally(result, log)
				continue
			}

			data := mergeStudentData(student, req.Data)
			log := s.deliver(ctx, actor, student.Email, &student.ID, req.Template, data)
			s.tally(result, log)
		}
	}

	s.recordSendAudit(ctx, actor, req.Template, result)
	return result, nil
}

// Logs retrieves delivery attempts newest first
func (s *NotificationService) Logs(ctx context.Context, filters dto.EmailLogFilters, page, size int) ([]*models.EmailLog, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	logs, total, err := s.emailLogRepo.Query(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying email logs: %w", err)
	}

	return logs, total, nil
}

func (s *NotificationService) tally(result *dto.SendResult, log *models.EmailLog) {
	if log.Status == models.EmailStatusSent {
		result.Sent++
	} else {
		result.Failed++
	}
	result.Logs = append(result.Logs, dto.FromEmailLog(log))
}

func (s *NotificationService) recordSendAudit(ctx context.Context, actor models.Principal, template string, result *dto.SendResult) {
	s.auditSvc.Record(ctx, AuditEvent{
		Actor:      actor,
		Action:     models.AuditSendEmail,
		TargetType: "email",
		Success:    result.Failed == 0,
		Details: map[string]interface{}{
			"template":  template,
			"requested": result.Requested,
			"sent":      result.Sent,
			"failed":    result.Failed,
		},
	})
}

// mergeStudentData injects record fields under keys templates reference.
// Explicit request data wins on conflict.
func mergeStudentData(student *models.Student, data map[string]interface{}) map[string]interface{} {
	merged := map[string]interface{}{
		"name":               student.Name,
		"email":              student.Email,
		"country":            student.Country,
		"application_status": string(student.ApplicationStatus),
	}
	for k, v := range data {
		merged[k] = v
	}
	return merged
}
