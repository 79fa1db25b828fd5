package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural months (mixed case)",
			input:    "3 MoNtHs AgO",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:     "valid singular week (capitalized)",
			input:    "1 Week Ago",
			expected: fixedNow.AddDate(0, 0, -7),
		},
		{
			name:     "valid 10 days ahead (upper case)",
			input:    "10 DAYS AHEAD",
			expected: fixedNow.AddDate(0, 0, 10),
		},
		{
			name:     "valid year",
			input:    "1 year ago",
			expected: fixedNow.AddDate(-1, 0, 0),
		},
		{
			name:        "invalid missing direction",
			input:       "2 years",
			expectError: true,
		},
		{
			name:        "invalid hours are too fine",
			input:       "4 hours ago",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one year ago",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tResult, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tResult)
		})
	}
}

func TestParseDate(t *testing.T) {
	midnight := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		input       string
		expected    time.Time
		expectError bool
	}{
		{input: "2024-02-29", expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{input: "2024-02-29T23:15:00+02:00", expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{input: "today", expected: midnight},
		{input: "Yesterday", expected: midnight.AddDate(0, 0, -1)},
		{input: "tomorrow", expected: midnight.AddDate(0, 0, 1)},
		{input: "6 weeks ago", expected: midnight.AddDate(0, 0, -42)},
		{input: "2 days ahead", expected: midnight.AddDate(0, 0, 2)},
		{input: "", expectError: true},
		{input: "2024-13-01", expectError: true},
		{input: "next week", expectError: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
