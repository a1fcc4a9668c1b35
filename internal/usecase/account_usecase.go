package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
)

// AccountUseCase maintains the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	journalRepo JournalRepository
	auditRepo   AuditRepository
	cache       StatementCache
	log         changeLog
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	cache StatementCache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		log:         changeLog{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen, metrics: metrics},
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Number         int64
	Name           string
	Description    string
	Category       string
	Subcategory    string
	NormalSide     string // optional, defaults from the category
	InitialBalance decimal.Decimal
	Order          int
	Comment        string
}

// CreateAccount adds an account to the chart.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	side := category.DefaultNormalSide()
	if strings.TrimSpace(input.NormalSide) != "" {
		side, err = domain.ParseSide(input.NormalSide)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.log.idGen.Generate(),
		Number:         input.Number,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Category:       category,
		Subcategory:    strings.ToLower(strings.TrimSpace(input.Subcategory)),
		NormalSide:     side,
		InitialBalance: input.InitialBalance,
		Active:         true,
		Order:          input.Order,
		Comment:        input.Comment,
		CreatedBy:      domain.ActorID(ctx),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	numberTaken, nameTaken, err := uc.accountRepo.ExistsByNumberOrName(txCtx, tx, account.Number, account.Name, "")
	if err != nil {
		return nil, err
	}
	if numberTaken {
		return nil, domain.ErrDuplicateAccountNumber
	}
	if nameTaken {
		return nil, domain.ErrDuplicateAccountName
	}

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	err = uc.log.record(txCtx, tx, change{
		action:       domain.AuditActionAccountCreate,
		resourceType: domain.ResourceAccount,
		resourceID:   account.ID,
		after:        account,
		eventType:    domain.EventTypeAccountCreated,
		payload: map[string]any{
			"account_id":  account.ID,
			"number":      account.Number,
			"name":        account.Name,
			"category":    string(account.Category),
			"normal_side": string(account.NormalSide),
		},
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidate(ctx)

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
		uc.metrics.AccountOperations.WithLabelValues("create").Inc()
	}

	return account, nil
}

// UpdateAccountInput carries the editable account fields. Nil fields are left unchanged.
type UpdateAccountInput struct {
	Name        *string
	Description *string
	Subcategory *string
	Order       *int
	Comment     *string
}

// UpdateAccount edits the mutable fields of an account.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	before := *account

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := domain.ValidateAccountName(name); err != nil {
			return nil, err
		}
		if name != account.Name {
			_, nameTaken, err := uc.accountRepo.ExistsByNumberOrName(txCtx, tx, 0, name, account.ID)
			if err != nil {
				return nil, err
			}
			if nameTaken {
				return nil, domain.ErrDuplicateAccountName
			}
		}
		account.Name = name
	}
	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		account.Description = *input.Description
	}
	if input.Subcategory != nil {
		account.Subcategory = strings.ToLower(strings.TrimSpace(*input.Subcategory))
	}
	if input.Order != nil {
		account.Order = *input.Order
	}
	if input.Comment != nil {
		account.Comment = *input.Comment
	}

	now := time.Now().UTC()
	account.UpdatedAt = now

	if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
		return nil, err
	}

	err = uc.log.record(txCtx, tx, change{
		action:       domain.AuditActionAccountUpdate,
		resourceType: domain.ResourceAccount,
		resourceID:   account.ID,
		before:       &before,
		after:        account,
		eventType:    domain.EventTypeAccountUpdated,
		payload: map[string]any{
			"account_id":  account.ID,
			"name":        account.Name,
			"subcategory": account.Subcategory,
		},
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidate(ctx)

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("update").Inc()
	}

	return account, nil
}

// ActivateAccount marks an account active. Activating an active account is a no-op.
func (uc *AccountUseCase) ActivateAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.setActive(ctx, id, true)
}

// DeactivateAccount marks an account inactive. It is refused while the
// account's projected balance is positive.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.setActive(ctx, id, false)
}

func (uc *AccountUseCase) setActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if account.Active == active {
		return account, nil
	}

	if !active {
		entries, err := uc.journalRepo.ListApprovedByAccount(txCtx, account.ID)
		if err != nil {
			return nil, err
		}
		if domain.NewProjection(account, entries).EndingBalance().IsPositive() {
			return nil, domain.ErrAccountHasBalance
		}
	}

	before := *account
	now := time.Now().UTC()
	account.Active = active
	account.UpdatedAt = now

	if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
		return nil, err
	}

	ch := change{
		action:       domain.AuditActionAccountActivate,
		resourceType: domain.ResourceAccount,
		resourceID:   account.ID,
		before:       &before,
		after:        account,
		eventType:    domain.EventTypeAccountActivated,
		payload:      map[string]any{"account_id": account.ID},
	}
	operation := "activate"
	if !active {
		ch.action = domain.AuditActionAccountDeactivate
		ch.eventType = domain.EventTypeAccountDeactivated
		operation = "deactivate"
	}

	if err := uc.log.record(txCtx, tx, ch, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues(operation).Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	filter.Limit, filter.Offset = clampLimit(filter.Limit, filter.Offset)
	return uc.accountRepo.List(ctx, filter)
}

// AccountEvents returns the change log of one account, newest first.
func (uc *AccountUseCase) AccountEvents(ctx context.Context, id string, limit, offset int) ([]*domain.AuditLog, error) {
	if _, err := uc.accountRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if uc.auditRepo == nil {
		return nil, nil
	}

	limit, offset = clampLimit(limit, offset)
	return uc.auditRepo.List(ctx, domain.AuditFilter{
		ResourceType: domain.ResourceAccount,
		ResourceID:   id,
		Limit:        limit,
		Offset:       offset,
	})
}

func (uc *AccountUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate statement cache")
	}
}
