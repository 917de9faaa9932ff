package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdash/ledgercore/internal/importer"
)

func TestParseCSV_BankProfile(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount,Balance",
		"2025-03-10,SHELL OIL 57442,-82.45,1200.00",
		`2025-03-11,CUSTOMER DEPOSIT 1881,"2,500.00","3,700.00"`,
	}, "\n")

	txns, err := importer.ParseCSV(strings.NewReader(input), importer.BuiltinProfiles()["bank"], "1000")

	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "SHELL OIL 57442", txns[0].Description)
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("-82.45")))
	assert.Equal(t, "1000", txns[0].SourceAccountHint)
	assert.Equal(t, "1200.00", txns[0].RawFields["Balance"])

	assert.True(t, txns[1].Amount.Equal(decimal.NewFromInt(2500)))
}

func TestParseCSV_BankSplitProfile(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Withdrawal,Deposit",
		"2025-03-10,SHELL OIL 57442,82.45,",
		"2025-03-11,CUSTOMER DEPOSIT 1881,,2500.00",
	}, "\n")

	txns, err := importer.ParseCSV(strings.NewReader(input), importer.BuiltinProfiles()["bank-split"], "1000")

	require.NoError(t, err)
	require.Len(t, txns, 2)

	// Withdrawals come out negative, deposits positive
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("-82.45")))
	assert.True(t, txns[1].Amount.Equal(decimal.NewFromInt(2500)))
}

func TestParseCSV_HeaderCaseInsensitive(t *testing.T) {
	input := strings.Join([]string{
		"date,DESCRIPTION,amount",
		"2025-03-10,SHELL OIL,-10.00",
	}, "\n")

	txns, err := importer.ParseCSV(strings.NewReader(input), importer.BuiltinProfiles()["bank"], "1000")

	require.NoError(t, err)
	require.Len(t, txns, 1)
}

func TestParseCSV_HeaderMismatch(t *testing.T) {
	input := strings.Join([]string{
		"Posted,Memo,Value",
		"2025-03-10,SHELL OIL,-10.00",
	}, "\n")

	_, err := importer.ParseCSV(strings.NewReader(input), importer.BuiltinProfiles()["bank"], "1000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "bank"`)
}

func TestParseCSV_BadRowFailsWhole(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount",
		"2025-03-10,SHELL OIL,-10.00",
		"not-a-date,BROKEN ROW,5.00",
	}, "\n")

	_, err := importer.ParseCSV(strings.NewReader(input), importer.BuiltinProfiles()["bank"], "1000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
