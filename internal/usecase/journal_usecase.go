package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
)

// JournalUseCase handles journal submission and review.
type JournalUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	journalRepo JournalRepository
	cache       StatementCache
	retrier     Retrier
	log         changeLog
	metrics     *metrics.Metrics
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	cache StatementCache,
	retrier Retrier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *JournalUseCase {
	return &JournalUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		cache:       cache,
		retrier:     retrier,
		log:         changeLog{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen, metrics: metrics},
		metrics:     metrics,
	}
}

// JournalLineInput is one line of a submitted group.
type JournalLineInput struct {
	AccountID string
	Date      time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// SubmitGroupInput represents input for submitting a journal group.
type SubmitGroupInput struct {
	Description string
	Lines       []JournalLineInput
}

// SubmitGroup validates and stores a balanced group of entries as pending.
func (uc *JournalUseCase) SubmitGroup(ctx context.Context, input SubmitGroupInput) (*domain.JournalGroup, error) {
	start := time.Now()
	now := start.UTC()

	group := &domain.JournalGroup{
		ID:          uc.log.idGen.Generate(),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.StatusPending,
		SubmittedBy: domain.ActorID(ctx),
		CreatedAt:   now,
	}
	for _, line := range input.Lines {
		group.Entries = append(group.Entries, &domain.JournalEntry{
			ID:        uc.log.idGen.Generate(),
			GroupID:   group.ID,
			AccountID: line.AccountID,
			Date:      calendarDate(line.Date),
			Debit:     line.Debit,
			Credit:    line.Credit,
			Status:    domain.StatusPending,
			CreatedAt: now,
		})
	}

	if err := group.Validate(); err != nil {
		uc.countError(err)
		return nil, err
	}

	err := uc.retry(ctx, func() error {
		return uc.submit(ctx, group, now)
	})
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.JournalSubmitted.Inc()
		uc.metrics.JournalLines.Observe(float64(len(group.Entries)))
		uc.metrics.JournalSubmitDuration.Observe(time.Since(start).Seconds())
	}

	return group, nil
}

func (uc *JournalUseCase) submit(ctx context.Context, group *domain.JournalGroup, now time.Time) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock accounts in sorted order so concurrent submissions and
	// deactivations touching the same accounts cannot deadlock.
	accountIDs := group.AccountIDs()
	slices.Sort(accountIDs)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, accountIDs)
	if err != nil {
		return err
	}
	if len(accounts) != len(accountIDs) {
		return domain.ErrAccountNotFound
	}
	for _, a := range accounts {
		if !a.Active {
			return domain.ErrInactiveAccount
		}
	}

	if err := uc.journalRepo.CreateGroup(txCtx, tx, group); err != nil {
		return err
	}

	debit, _ := group.Totals()
	err = uc.log.record(txCtx, tx, change{
		action:       domain.AuditActionJournalSubmit,
		resourceType: domain.ResourceJournalGroup,
		resourceID:   group.ID,
		after:        group,
		eventType:    domain.EventTypeJournalSubmitted,
		payload: map[string]any{
			"group_id":     group.ID,
			"lines":        len(group.Entries),
			"total":        debit.String(),
			"submitted_by": group.SubmittedBy,
		},
	}, now)
	if err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// ReviewInput represents a reviewer's decision on a pending group.
type ReviewInput struct {
	GroupID  string
	Decision domain.Decision
	Reason   string
}

// ReviewGroup approves or rejects a pending group. The first reviewer wins;
// later reviews fail with ErrAlreadyReviewed.
func (uc *JournalUseCase) ReviewGroup(ctx context.Context, input ReviewInput) (*domain.JournalGroup, error) {
	status, err := input.Decision.Status()
	if err != nil {
		return nil, err
	}
	if user, ok := domain.UserFromContext(ctx); ok && !user.Role.CanReview() {
		return nil, domain.ErrInsufficientRole
	}

	var group *domain.JournalGroup
	err = uc.retry(ctx, func() error {
		var err error
		group, err = uc.review(ctx, input, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	if status == domain.StatusApproved && uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("group_id", group.ID).Msg("failed to invalidate statement cache")
		}
	}

	if uc.metrics != nil {
		uc.metrics.JournalReviews.WithLabelValues(string(input.Decision)).Inc()
	}

	return group, nil
}

func (uc *JournalUseCase) review(ctx context.Context, input ReviewInput, status domain.EntryStatus) (*domain.JournalGroup, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	group, err := uc.journalRepo.GetGroupForUpdate(txCtx, tx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if group.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyReviewed
	}

	before := *group
	now := time.Now().UTC()

	group.Status = status
	group.ReviewedBy = domain.ActorID(ctx)
	group.ReviewedAt = &now
	if status == domain.StatusRejected {
		group.RejectionReason = strings.TrimSpace(input.Reason)
	}
	for _, e := range group.Entries {
		e.Status = status
	}

	if err := uc.journalRepo.UpdateGroupStatus(txCtx, tx, group); err != nil {
		return nil, err
	}

	ch := change{
		action:       domain.AuditActionJournalApprove,
		resourceType: domain.ResourceJournalGroup,
		resourceID:   group.ID,
		before:       map[string]any{"status": string(before.Status)},
		after:        map[string]any{"status": string(group.Status), "reviewed_by": group.ReviewedBy},
		eventType:    domain.EventTypeJournalApproved,
		payload: map[string]any{
			"group_id":    group.ID,
			"reviewed_by": group.ReviewedBy,
		},
	}
	if status == domain.StatusRejected {
		ch.action = domain.AuditActionJournalReject
		ch.eventType = domain.EventTypeJournalRejected
		ch.payload["reason"] = group.RejectionReason
	}

	if err := uc.log.record(txCtx, tx, ch, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return group, nil
}

// AddComment attaches a comment to an entry. A comment can be set only once.
func (uc *JournalUseCase) AddComment(ctx context.Context, entryID, text string) (*domain.JournalEntry, error) {
	if err := domain.ValidateComment(text); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.journalRepo.GetEntryForUpdate(txCtx, tx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Comment != "" {
		return nil, domain.ErrCommentExists
	}

	if err := uc.journalRepo.SetEntryComment(txCtx, tx, entry.ID, text); err != nil {
		return nil, err
	}
	entry.Comment = text

	err = uc.log.record(txCtx, tx, change{
		action:       domain.AuditActionEntryComment,
		resourceType: domain.ResourceJournalEntry,
		resourceID:   entry.ID,
		after:        map[string]any{"comment": text},
	}, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntryComments.Inc()
	}

	return entry, nil
}

// GetGroup retrieves a group with its entries.
func (uc *JournalUseCase) GetGroup(ctx context.Context, id string) (*domain.JournalGroup, error) {
	return uc.journalRepo.GetGroup(ctx, id)
}

// ListGroups lists groups, newest first.
func (uc *JournalUseCase) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error) {
	filter.Limit, filter.Offset = clampLimit(filter.Limit, filter.Offset)
	return uc.journalRepo.ListGroups(ctx, filter)
}

func (uc *JournalUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

func (uc *JournalUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.JournalErrors.WithLabelValues(errorType(err)).Inc()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnbalancedEntry):
		return "unbalanced"
	case errors.Is(err, domain.ErrInactiveAccount):
		return "inactive_account"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}

// calendarDate drops the time of day, keeping the date as seen in UTC.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
