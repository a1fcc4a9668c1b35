package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/postgres/generated"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	queries *generated.Queries
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db generated.DBTX) *JournalRepository {
	return &JournalRepository{queries: generated.New(db)}
}

// CreateGroup inserts the group and its entries. Entry sequences are
// assigned by the database and written back onto the entries.
func (r *JournalRepository) CreateGroup(ctx context.Context, tx usecase.Transaction, group *domain.JournalGroup) error {
	q := txQueries(tx)

	if err := q.CreateJournalGroup(ctx, generated.CreateJournalGroupParams{
		ID:          group.ID,
		Description: group.Description,
		Status:      string(group.Status),
		SubmittedBy: group.SubmittedBy,
		CreatedAt:   timeToPgTimestamptz(group.CreatedAt),
	}); err != nil {
		return err
	}

	for _, e := range group.Entries {
		seq, err := q.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
			ID:        e.ID,
			GroupID:   group.ID,
			AccountID: e.AccountID,
			EntryDate: timeToPgDate(e.Date),
			Debit:     decimalToNumeric(e.Debit),
			Credit:    decimalToNumeric(e.Credit),
			Status:    string(e.Status),
			CreatedAt: timeToPgTimestamptz(e.CreatedAt),
		})
		if err != nil {
			return err
		}
		e.Sequence = seq
	}

	return nil
}

// GetGroup retrieves a group with its entries.
func (r *JournalRepository) GetGroup(ctx context.Context, id string) (*domain.JournalGroup, error) {
	return r.loadGroup(ctx, r.queries, id, false)
}

// GetGroupForUpdate locks the group row so concurrent reviews serialize on it.
func (r *JournalRepository) GetGroupForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalGroup, error) {
	return r.loadGroup(ctx, txQueries(tx), id, true)
}

func (r *JournalRepository) loadGroup(ctx context.Context, q *generated.Queries, id string, lock bool) (*domain.JournalGroup, error) {
	var (
		row generated.JournalGroup
		err error
	)
	if lock {
		row, err = q.GetJournalGroupForUpdate(ctx, id)
	} else {
		row, err = q.GetJournalGroup(ctx, id)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}

		return nil, err
	}

	group := rowToGroup(row)

	entries, err := q.ListEntriesByGroupIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		group.Entries = append(group.Entries, rowToEntry(e))
	}

	return group, nil
}

// UpdateGroupStatus writes the review outcome to the group and all of its entries.
func (r *JournalRepository) UpdateGroupStatus(ctx context.Context, tx usecase.Transaction, group *domain.JournalGroup) error {
	q := txQueries(tx)

	if err := q.UpdateJournalGroupStatus(ctx, generated.UpdateJournalGroupStatusParams{
		ID:              group.ID,
		Status:          string(group.Status),
		ReviewedBy:      group.ReviewedBy,
		ReviewedAt:      optionalTimestamptz(group.ReviewedAt),
		RejectionReason: group.RejectionReason,
	}); err != nil {
		return err
	}

	return q.UpdateJournalEntriesStatus(ctx, generated.UpdateJournalEntriesStatusParams{
		GroupID: group.ID,
		Status:  string(group.Status),
	})
}

// ListGroups lists groups newest first, each with its entries.
func (r *JournalRepository) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error) {
	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)

	rows, err := r.queries.ListJournalGroups(ctx, generated.ListJournalGroupsParams{
		Column1: string(filter.Status),
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*domain.JournalGroup{}, nil
	}

	groups := make([]*domain.JournalGroup, 0, len(rows))
	byID := make(map[string]*domain.JournalGroup, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		g := rowToGroup(row)
		groups = append(groups, g)
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}

	entries, err := r.queries.ListEntriesByGroupIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if g, ok := byID[e.GroupID]; ok {
			g.Entries = append(g.Entries, rowToEntry(e))
		}
	}

	return groups, nil
}

// GetEntryForUpdate retrieves a single entry with a row lock.
func (r *JournalRepository) GetEntryForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	row, err := txQueries(tx).GetJournalEntryForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// SetEntryComment stores a comment on an entry that has none yet.
func (r *JournalRepository) SetEntryComment(ctx context.Context, tx usecase.Transaction, id, comment string) error {
	n, err := txQueries(tx).SetJournalEntryComment(ctx, generated.SetJournalEntryCommentParams{
		ID:      id,
		Comment: comment,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCommentExists
	}

	return nil
}

// ListApprovedByAccount returns the approved entries of one account in posting order.
func (r *JournalRepository) ListApprovedByAccount(ctx context.Context, accountID string) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.ListApprovedEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListApproved returns approved entries dated inside rng in posting order.
func (r *JournalRepository) ListApproved(ctx context.Context, rng domain.DateRange) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.ListApprovedEntriesInRange(ctx, generated.ListApprovedEntriesInRangeParams{
		StartDate: optionalDate(rng.Start),
		EndDate:   optionalDate(rng.End),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ApprovedTotals sums the debit and credit columns over every approved entry.
func (r *JournalRepository) ApprovedTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.ApprovedTotals(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(row.TotalDebit), numericToDecimal(row.TotalCredit), nil
}

func rowToGroup(row generated.JournalGroup) *domain.JournalGroup {
	var reviewedAt *time.Time
	if row.ReviewedAt.Valid {
		t := row.ReviewedAt.Time
		reviewedAt = &t
	}

	return &domain.JournalGroup{
		ID:              row.ID,
		Description:     row.Description,
		Status:          domain.EntryStatus(row.Status),
		SubmittedBy:     row.SubmittedBy,
		ReviewedBy:      row.ReviewedBy,
		ReviewedAt:      reviewedAt,
		RejectionReason: row.RejectionReason,
		CreatedAt:       row.CreatedAt.Time,
	}
}

func rowsToEntries(rows []generated.JournalEntry) []*domain.JournalEntry {
	entries := make([]*domain.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries
}

func rowToEntry(row generated.JournalEntry) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:        row.ID,
		GroupID:   row.GroupID,
		AccountID: row.AccountID,
		Date:      dateToTime(row.EntryDate),
		Debit:     numericToDecimal(row.Debit),
		Credit:    numericToDecimal(row.Credit),
		Status:    domain.EntryStatus(row.Status),
		Comment:   row.Comment,
		Sequence:  row.Sequence,
		CreatedAt: row.CreatedAt.Time,
	}
}
