package repositories

import (
	"context"
	"time"

	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entries and postings.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindPostingsByEntryID retrieves all postings of one entry.
	FindPostingsByEntryID(ctx context.Context, entryID string) ([]domain.Posting, error)

	// ListPostingsByAccount retrieves an account's postings within a date
	// range (inclusive), ordered by entry date.
	ListPostingsByAccount(ctx context.Context, accountCode string, from, to time.Time) ([]domain.Posting, error)
}

// JournalWriter defines write operations for the append-only entry log.
type JournalWriter interface {
	// SaveEntry atomically appends an entry with all its postings. Either
	// every row is visible or none is; a concurrent balance read never sees
	// a half-applied entry.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, postings []domain.Posting) error

	// LinkReversal records the reversal linkage on the original entry and
	// flips its status to REVERSED.
	LinkReversal(ctx context.Context, originalEntryID, reversingEntryID string) error
}

// BalanceReader defines the aggregate reads the balance projector and the
// statement compiler fold over. Each call is a single consistent snapshot.
type BalanceReader interface {
	// SumPostingsByAccount returns total debits and credits posted to one
	// account with entry dates on or before asOf.
	SumPostingsByAccount(ctx context.Context, accountCode string, asOf time.Time) (debits, credits decimal.Decimal, err error)

	// ActivityPerAccount returns debit/credit totals for every account with
	// at least one posting dated on or before asOf, joined with the account.
	ActivityPerAccount(ctx context.Context, asOf time.Time) ([]domain.AccountActivity, error)

	// ActivityPerAccountRange is ActivityPerAccount restricted to entry
	// dates within [from, to].
	ActivityPerAccountRange(ctx context.Context, from, to time.Time) ([]domain.AccountActivity, error)
}

// JournalRepository combines all journal-related repository interfaces.
type JournalRepository interface {
	JournalReader
	JournalWriter
	BalanceReader
}
