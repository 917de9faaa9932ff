package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Profile describes a source-specific statement column layout. Profiles are
// keyed by name and selected by the caller of the import endpoint.
type Profile struct {
	Name              string
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	// Some feeds split money movement into separate debit/credit columns
	// instead of one signed amount column.
	DebitColumn     string
	CreditColumn    string
	SeparateAmounts bool
	// Optional columns carried into RawFields.
	ExtraColumns []string
}

// BuiltinProfiles returns the statement layouts shipped with the engine.
// "bank" covers the common date/description/amount/balance export; "card"
// covers card feeds with cardholder and account columns.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"bank": {
			Name:              "bank",
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
			ExtraColumns:      []string{"Balance"},
		},
		"card": {
			Name:              "card",
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
			ExtraColumns:      []string{"Cardholder", "Account"},
		},
		"bank-split": {
			Name:              "bank-split",
			DateColumn:        "Date",
			DescriptionColumn: "Description",
			DebitColumn:       "Withdrawal",
			CreditColumn:      "Deposit",
			SeparateAmounts:   true,
		},
	}
}

// dateFormats are tried in order when parsing statement dates.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-Jan-2006",
	"02-01-2006",
	"Jan 02, 2006",
}

// ParseDate parses statement date strings in the formats seen across feeds.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseAmount parses amount strings, stripping currency symbols, thousands
// separators and parenthesized negatives. Amounts stay decimal end to end;
// floats never touch money.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountStr)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %s", amountStr)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
