package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/opsdash/ledgercore/internal/core/domain"
)

// ParseXLSX reads the first sheet of a statement workbook using the same
// profile layout as the CSV path. Banks that only export XLSX go through
// here; the pipeline downstream is identical.
func ParseXLSX(r io.Reader, profile Profile, sourceAccountHint string) ([]domain.RawTransaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns, err := mapColumns(rows[0], profile)
	if err != nil {
		return nil, err
	}

	var txns []domain.RawTransaction
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		txn, err := buildTransaction(row, columns, profile, sourceAccountHint)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
