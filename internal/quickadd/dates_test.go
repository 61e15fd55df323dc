package quickadd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		token string
		want  time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"240301", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"01mar24", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"01MAR24", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"31dec99", time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseDate(tt.token, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_NextOccurrence(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  time.Time
	}{
		{
			name:  "later this year",
			token: "20mar",
			want:  time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "today stays this year",
			token: "15mar",
			want:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "already passed rolls to next year",
			token: "14mar",
			want:  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "earlier month rolls to next year",
			token: "01jan",
			want:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.token, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	tokens := []string{
		"",
		"tomorrow",
		"2024-3-1",
		"2024-13-01",
		"240230",
		"31feb24",
		"32mar",
		"1mar",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := ParseDate(token, now)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}
