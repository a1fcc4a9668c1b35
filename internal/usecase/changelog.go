package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
)

// changeLog writes the audit record and outbox event that accompany every
// state change. Both rows share the caller's transaction.
type changeLog struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

type change struct {
	action       domain.AuditAction
	resourceType string
	resourceID   string
	before       any
	after        any
	eventType    domain.EventType
	payload      map[string]any
}

func (c changeLog) record(ctx context.Context, tx Transaction, ch change, now time.Time) error {
	if ch.eventType != "" && c.outboxRepo != nil {
		event := domain.NewOutboxEvent(c.idGen.Generate(), ch.eventType, ch.resourceID, ch.payload, now)
		if err := c.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}
	}

	if c.auditRepo == nil {
		return nil
	}

	auditLog := &domain.AuditLog{
		ID:           c.idGen.Generate(),
		UserID:       domain.ActorID(ctx),
		Action:       string(ch.action),
		ResourceType: ch.resourceType,
		ResourceID:   ch.resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}
	if ch.before != nil {
		auditLog.BeforeState = domain.MarshalState(ch.before)
	}
	if ch.after != nil {
		auditLog.AfterState = domain.MarshalState(ch.after)
	}

	if err := c.auditRepo.CreateTx(ctx, tx, auditLog); err != nil {
		return err
	}

	if c.metrics != nil {
		c.metrics.AuditLogsCreated.WithLabelValues(auditLog.Action, auditLog.Status).Inc()
	}

	return nil
}

func clampLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
