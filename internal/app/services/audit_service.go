package services

import (
	"context"
	"fmt"
	"time"

	"github.com/undergraduation/ugadmin/internal/app/models"
	"github.com/undergraduation/ugadmin/internal/app/models/dto"
	"github.com/undergraduation/ugadmin/internal/app/repositories"
	"github.com/undergraduation/ugadmin/internal/pkg/helpers"
	"github.com/undergraduation/ugadmin/internal/pkg/logger"
)

// AuditEvent describes one action to record on the trail
type AuditEvent struct {
	Actor      models.Principal
	Action     models.AuditAction
	TargetType string
	TargetID   *string
	Success    bool
	Details    map[string]interface{}
	IPAddress  *string
	UserAgent  *string
}

// AuditService appends to and queries the audit trail
type AuditService struct {
	auditRepo repositories.AuditRepository
}

// NewAuditService creates a new audit service instance
func NewAuditService(auditRepo repositories.AuditRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

// Record appends one entry to the trail. A persistence failure is logged
// and swallowed; auditing never fails the operation it describes.
func (s *AuditService) Record(ctx context.Context, event AuditEvent) {
	ip := event.IPAddress
	if ip == nil && event.Actor.IPAddress != "" {
		v := event.Actor.IPAddress
		ip = &v
	}
	ua := event.UserAgent
	if ua == nil && event.Actor.UserAgent != "" {
		v := event.Actor.UserAgent
		ua = &v
	}

	entry := &models.AuditLogEntry{
		ActorID:    event.Actor.UserID,
		ActorEmail: event.Actor.Email,
		ActorRole:  event.Actor.Role,
		Action:     event.Action,
		TargetType: event.TargetType,
		TargetID:   event.TargetID,
		Severity:   models.SeverityForAction(event.Action),
		Success:    event.Success,
		Details:    event.Details,
		IPAddress:  ip,
		UserAgent:  ua,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		logger.Error().Err(err).
			Str("action", string(event.Action)).
			Str("actorId", event.Actor.UserID).
			Msg("Failed to record audit entry")
	}
}

// Query retrieves a page of the trail, newest first
func (s *AuditService) Query(ctx context.Context, filters dto.AuditLogFilters, page, size int) ([]*models.AuditLogEntry, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	entries, total, err := s.auditRepo.Query(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying audit trail: %w", err)
	}

	return entries, total, nil
}
