package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/opsdash/ledgercore/internal/core/domain"
)

// ParseCSV reads a statement CSV with the given profile's column layout and
// returns raw transactions for the categorization pipeline. The first row
// must be a header; rows with unparseable dates or amounts fail the parse,
// a statement file is either readable or rejected whole before any
// classification happens.
func ParseCSV(r io.Reader, profile Profile, sourceAccountHint string) ([]domain.RawTransaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns, err := mapColumns(header, profile)
	if err != nil {
		return nil, err
	}

	var txns []domain.RawTransaction
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line+1, err)
		}
		line++

		txn, err := buildTransaction(record, columns, profile, sourceAccountHint)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// columnIndexes maps profile column names to header positions.
type columnIndexes struct {
	date        int
	description int
	amount      int
	debit       int
	credit      int
	extras      map[string]int
}

func mapColumns(header []string, profile Profile) (columnIndexes, error) {
	idx := columnIndexes{date: -1, description: -1, amount: -1, debit: -1, credit: -1, extras: map[string]int{}}
	position := make(map[string]int, len(header))
	for i, h := range header {
		position[strings.ToLower(strings.TrimSpace(h))] = i
	}

	lookup := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := position[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	idx.date = lookup(profile.DateColumn)
	idx.description = lookup(profile.DescriptionColumn)
	idx.amount = lookup(profile.AmountColumn)
	idx.debit = lookup(profile.DebitColumn)
	idx.credit = lookup(profile.CreditColumn)
	for _, extra := range profile.ExtraColumns {
		if i := lookup(extra); i >= 0 {
			idx.extras[extra] = i
		}
	}

	if idx.date < 0 || idx.description < 0 {
		return idx, fmt.Errorf("header does not match profile %q: missing %q or %q", profile.Name, profile.DateColumn, profile.DescriptionColumn)
	}
	if profile.SeparateAmounts {
		if idx.debit < 0 || idx.credit < 0 {
			return idx, fmt.Errorf("header does not match profile %q: missing %q or %q", profile.Name, profile.DebitColumn, profile.CreditColumn)
		}
	} else if idx.amount < 0 {
		return idx, fmt.Errorf("header does not match profile %q: missing %q", profile.Name, profile.AmountColumn)
	}
	return idx, nil
}

func buildTransaction(record []string, columns columnIndexes, profile Profile, sourceAccountHint string) (domain.RawTransaction, error) {
	var txn domain.RawTransaction

	cell := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := ParseDate(cell(columns.date))
	if err != nil {
		return txn, err
	}

	txn.Date = date
	txn.Description = cell(columns.description)
	txn.SourceAccountHint = sourceAccountHint

	if profile.SeparateAmounts {
		// Withdrawal and deposit columns; money out is negative.
		debit, err := ParseAmount(cell(columns.debit))
		if err != nil {
			return txn, err
		}
		credit, err := ParseAmount(cell(columns.credit))
		if err != nil {
			return txn, err
		}
		txn.Amount = credit.Sub(debit)
	} else {
		amount, err := ParseAmount(cell(columns.amount))
		if err != nil {
			return txn, err
		}
		txn.Amount = amount
	}

	if len(columns.extras) > 0 {
		txn.RawFields = make(map[string]string, len(columns.extras))
		for name, i := range columns.extras {
			txn.RawFields[name] = cell(i)
		}
	}
	return txn, nil
}
