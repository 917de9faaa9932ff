package importer_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdash/ledgercore/internal/importer"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-03-10", want},
		{"10/03/2025", want},
		{"10-Mar-2025", want},
		{"Mar 10, 2025", want},
		{"  2025-03-10  ", want},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := importer.ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s", got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := importer.ParseDate("yesterday")
	require.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"82.45", "82.45"},
		{"-82.45", "-82.45"},
		{"$2,500.00", "2500"},
		{"(1,200.50)", "-1200.5"},
		{"  $10  ", "10"},
		{"", "0"},
		{"-", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := importer.ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := importer.ParseAmount("ten dollars")
	require.Error(t, err)
}
