package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/opsdash/ledgercore/internal/apperrors"
	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
)

type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new repository for the append-only entry log.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

// SaveEntry appends a journal entry and its postings within one DB
// transaction. Either every row is committed or none is.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, postings []domain.Posting) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	entryQuery := `
		INSERT INTO journal_entries (entry_id, entry_date, description, reference, source, status, reverses_entry_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.Source,
		entry.Status,
		entry.ReversesEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	postingQuery := `
		INSERT INTO postings (posting_id, entry_id, account_code, side, amount)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, p := range postings {
		batch.Queue(postingQuery,
			p.PostingID,
			p.EntryID,
			p.AccountCode,
			p.Side,
			p.Amount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute posting batch for entry %s: %w", entry.EntryID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for entry %s: %w", entry.EntryID, err)
	}

	return nil
}

// LinkReversal marks the original entry REVERSED and records which entry
// reversed it. Only a still-POSTED entry can be linked; a concurrent second
// reversal loses the race and gets ErrAlreadyReversed.
func (r *PgxJournalRepository) LinkReversal(ctx context.Context, originalEntryID, reversingEntryID string) error {
	query := `
		UPDATE journal_entries
		SET status = $1, reversed_by_entry_id = $2
		WHERE entry_id = $3 AND status = $4;
	`
	tag, err := r.pool.Exec(ctx, query, domain.Reversed, reversingEntryID, originalEntryID, domain.Posted)
	if err != nil {
		return fmt.Errorf("failed to link reversal for entry %s: %w", originalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyReversed, originalEntryID)
	}
	return nil
}

const entryColumns = `entry_id, entry_date, description, reference, source, status, reverses_entry_id, reversed_by_entry_id, created_at, created_by`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.EntryDate,
		&entry.Description,
		&entry.Reference,
		&entry.Source,
		&entry.Status,
		&entry.ReversesEntryID,
		&entry.ReversedByEntryID,
		&entry.CreatedAt,
		&entry.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (r *PgxJournalRepository) FindPostingsByEntryID(ctx context.Context, entryID string) ([]domain.Posting, error) {
	query := `
		SELECT posting_id, entry_id, account_code, side, amount
		FROM postings
		WHERE entry_id = $1
		ORDER BY posting_id;
	`
	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	return collectPostings(rows)
}

func (r *PgxJournalRepository) ListPostingsByAccount(ctx context.Context, accountCode string, from, to time.Time) ([]domain.Posting, error) {
	query := `
		SELECT p.posting_id, p.entry_id, p.account_code, p.side, p.amount
		FROM postings p
		JOIN journal_entries e ON e.entry_id = p.entry_id
		WHERE p.account_code = $1 AND e.entry_date >= $2 AND e.entry_date <= $3
		ORDER BY e.entry_date, p.posting_id;
	`
	rows, err := r.pool.Query(ctx, query, accountCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings for account %s: %w", accountCode, err)
	}
	defer rows.Close()

	return collectPostings(rows)
}

func collectPostings(rows pgx.Rows) ([]domain.Posting, error) {
	postings := []domain.Posting{}
	for rows.Next() {
		var p domain.Posting
		if err := rows.Scan(&p.PostingID, &p.EntryID, &p.AccountCode, &p.Side, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting rows: %w", err)
	}
	return postings, nil
}

// SumPostingsByAccount aggregates total debits and credits for one account up
// to asOf in a single query, so the caller always sees entry-atomic totals.
func (r *PgxJournalRepository) SumPostingsByAccount(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN p.side = 'DEBIT' THEN p.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN p.side = 'CREDIT' THEN p.amount ELSE 0 END), 0)
		FROM postings p
		JOIN journal_entries e ON e.entry_id = p.entry_id
		WHERE p.account_code = $1 AND e.entry_date <= $2;
	`
	var debits, credits decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, accountCode, asOf).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum postings for account %s: %w", accountCode, err)
	}
	return debits, credits, nil
}

// activityQuery drives from the chart of accounts, not from postings: every
// active account appears even with zero postings in the window, and a
// deactivated account stays on the report while it still carries activity.
const activityQuery = `
	SELECT
		a.code, a.name, a.account_type, a.description, a.is_active, a.created_at, a.created_by,
		COALESCE(SUM(CASE WHEN p.side = 'DEBIT' THEN p.amount ELSE 0 END), 0) AS debits,
		COALESCE(SUM(CASE WHEN p.side = 'CREDIT' THEN p.amount ELSE 0 END), 0) AS credits
	FROM accounts a
	LEFT JOIN (
		SELECT p.account_code, p.side, p.amount
		FROM postings p
		JOIN journal_entries e ON e.entry_id = p.entry_id
		WHERE %s
	) p ON p.account_code = a.code
	WHERE a.is_active OR p.account_code IS NOT NULL
	GROUP BY a.code, a.name, a.account_type, a.description, a.is_active, a.created_at, a.created_by
	ORDER BY a.code;
`

func (r *PgxJournalRepository) ActivityPerAccount(ctx context.Context, asOf time.Time) ([]domain.AccountActivity, error) {
	query := fmt.Sprintf(activityQuery, `e.entry_date <= $1`)
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query account activity: %w", err)
	}
	defer rows.Close()

	return collectActivity(rows)
}

func (r *PgxJournalRepository) ActivityPerAccountRange(ctx context.Context, from, to time.Time) ([]domain.AccountActivity, error) {
	query := fmt.Sprintf(activityQuery, `e.entry_date >= $1 AND e.entry_date <= $2`)
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query account activity: %w", err)
	}
	defer rows.Close()

	return collectActivity(rows)
}

func collectActivity(rows pgx.Rows) ([]domain.AccountActivity, error) {
	activity := []domain.AccountActivity{}
	for rows.Next() {
		var row domain.AccountActivity
		var accountType string
		if err := rows.Scan(
			&row.Account.Code,
			&row.Account.Name,
			&accountType,
			&row.Account.Description,
			&row.Account.IsActive,
			&row.Account.CreatedAt,
			&row.Account.CreatedBy,
			&row.Debits,
			&row.Credits,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		row.Account.AccountType = domain.AccountType(accountType)
		activity = append(activity, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return activity, nil
}
