package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is one line from an external bank or card feed. It is the
// input artifact of the categorization pipeline and is never persisted as
// ledger truth; on success it becomes exactly one journal entry.
type RawTransaction struct {
	Date              time.Time         `json:"date"`
	Description       string            `json:"description"`
	Amount            decimal.Decimal   `json:"amount"` // Signed: negative means money out
	SourceAccountHint string            `json:"sourceAccountHint"`
	RawFields         map[string]string `json:"rawFields,omitempty"`
}

// Fingerprint returns the deterministic idempotency key for the transaction.
// Two imports of the same feed line always produce the same fingerprint, so
// a unique-constraint insert makes re-runs and concurrent imports safe.
func (t RawTransaction) Fingerprint() string {
	payload := fmt.Sprintf("%s|%s|%s|%s",
		t.Date.Format("2006-01-02"),
		strings.TrimSpace(t.Description),
		t.Amount.String(),
		t.SourceAccountHint,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// ActionType is a declarative side effect a categorization rule may trigger.
type ActionType string

const (
	ActionAssetCreate     ActionType = "ASSET_CREATE"
	ActionBillMatch       ActionType = "BILL_MATCH"
	ActionInventoryUpdate ActionType = "INVENTORY_UPDATE"
	ActionJournalPost     ActionType = "JOURNAL_POST"
)

// Rule is one row of the categorization rule table. Rules are configuration
// supplied by the settings collaborator, evaluated in priority order by a
// single generic matcher.
type Rule struct {
	RuleID            string           `json:"ruleID"`
	Keyword           string           `json:"keyword"`  // Matched case-insensitively against the description
	Category          string           `json:"category"` // e.g. "Materials", "Fuel"
	Priority          int              `json:"priority"` // Higher wins on ties
	Confidence        float64          `json:"confidence"`
	DebitAccountCode  string           `json:"debitAccountCode"`
	CreditAccountCode string           `json:"creditAccountCode"`
	Actions           []ActionType     `json:"actions,omitempty"`
	MinAmount         *decimal.Decimal `json:"minAmount,omitempty"`      // Gate for ASSET_CREATE rules
	VendorAllowlist   []string         `json:"vendorAllowlist,omitempty"` // Gate for ASSET_CREATE rules
	IsActive          bool             `json:"isActive"`
}

// Matches reports whether the rule applies to the transaction.
// Keyword match is a case-insensitive substring test on the description;
// amount and vendor gates apply only when the rule declares them.
func (r Rule) Matches(txn RawTransaction) bool {
	if !r.IsActive || r.Keyword == "" {
		return false
	}
	desc := strings.ToLower(txn.Description)
	if !strings.Contains(desc, strings.ToLower(r.Keyword)) {
		return false
	}
	if r.MinAmount != nil && txn.Amount.Abs().LessThan(*r.MinAmount) {
		return false
	}
	if len(r.VendorAllowlist) > 0 {
		found := false
		for _, v := range r.VendorAllowlist {
			if strings.Contains(desc, strings.ToLower(v)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CategoryUncategorized is assigned when no rule matches.
const CategoryUncategorized = "Uncategorized"

// CategorizationResult is the ephemeral outcome of classifying one raw
// transaction. It is consumed to either post automatically or enqueue for
// human review.
type CategorizationResult struct {
	Category          string       `json:"category"`
	DebitAccountCode  string       `json:"debitAccountCode"`
	CreditAccountCode string       `json:"creditAccountCode"`
	Confidence        float64      `json:"confidence"`
	NeedsReview       bool         `json:"needsReview"`
	TriggeredActions  []ActionType `json:"triggeredActions,omitempty"`
	MatchedRuleID     string       `json:"matchedRuleID,omitempty"`
}

// ReviewStatus tracks the lifecycle of a review-queue item.
type ReviewStatus string

const (
	ReviewOpen     ReviewStatus = "OPEN"
	ReviewResolved ReviewStatus = "RESOLVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// ReviewItem is a classified transaction below the confidence threshold,
// awaiting human confirmation before posting.
type ReviewItem struct {
	ItemID            string          `json:"itemID"`
	Fingerprint       string          `json:"fingerprint"`
	TxnDate           time.Time       `json:"txnDate"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	SourceAccountHint string          `json:"sourceAccountHint"`
	Category          string          `json:"category"`
	DebitAccountCode  string          `json:"debitAccountCode"`
	CreditAccountCode string          `json:"creditAccountCode"`
	Confidence        float64         `json:"confidence"`
	Status            ReviewStatus    `json:"status"`
	PostedEntryID     *string         `json:"postedEntryID,omitempty"`
	AuditFields
}

// BillStatus tracks a payable supplied by the supplier collaborator.
type BillStatus string

const (
	BillOpen BillStatus = "OPEN"
	BillPaid BillStatus = "PAID"
)

// VendorBill is an open payable that a BILL_MATCH action may settle.
type VendorBill struct {
	BillID        string          `json:"billID"`
	VendorName    string          `json:"vendorName"`
	Amount        decimal.Decimal `json:"amount"`
	Status        BillStatus      `json:"status"`
	PaidByEntryID *string         `json:"paidByEntryID,omitempty"`
	AuditFields
}

// FixedAsset is the record an ASSET_CREATE action produces for a capital
// purchase. SourceFingerprint keys the row so a replayed import cannot
// create the asset twice.
type FixedAsset struct {
	AssetID           string          `json:"assetID"`
	Name              string          `json:"name"`
	Cost              decimal.Decimal `json:"cost"`
	AcquiredOn        time.Time       `json:"acquiredOn"`
	SourceFingerprint string          `json:"sourceFingerprint"`
	AuditFields
}

// TransactionOutcome is the per-transaction element of a batch import result.
type TransactionOutcome struct {
	Transaction    RawTransaction       `json:"transaction"`
	Classification CategorizationResult `json:"classification"`
	PostedEntryID  *string              `json:"postedEntryID,omitempty"`
	ReviewItemID   *string              `json:"reviewItemID,omitempty"`
	Duplicate      bool                 `json:"duplicate"`
}

// ImportSummary reflects the partial-success outcome of a batch import.
type ImportSummary struct {
	Total          int                  `json:"total"`
	Categorized    int                  `json:"categorized"`
	NeedsReview    int                  `json:"needsReview"`
	Duplicates     int                  `json:"duplicates"`
	AssetsCreated  int                  `json:"assetsCreated"`
	BillsMatched   int                  `json:"billsMatched"`
	JournalEntries int                  `json:"journalEntries"`
	Outcomes       []TransactionOutcome `json:"outcomes"`
}
