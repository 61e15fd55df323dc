package quickadd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parseNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Parsed
		wantLL  string
		wantDL  string
		project *string
	}{
		{
			name: "plain title",
			raw:  "Buy milk",
			want: Parsed{Title: "Buy milk"},
		},
		{
			name: "scrap after first newline",
			raw:  "Buy milk\nand eggs",
			want: Parsed{Title: "Buy milk", Scrap: "and eggs"},
		},
		{
			name: "multi line scrap",
			raw:  "Buy milk\nand eggs\nand bread",
			want: Parsed{Title: "Buy milk", Scrap: "and eggs\nand bread"},
		},
		{
			name:   "date pair",
			raw:    "Call bank 2024-03-01:2024-03-10",
			want:   Parsed{Title: "Call bank"},
			wantLL: "2024-03-01",
			wantDL: "2024-03-10",
		},
		{
			name:   "mixed date formats",
			raw:    "Call bank 240301:10mar24",
			want:   Parsed{Title: "Call bank"},
			wantLL: "2024-03-01",
			wantDL: "2024-03-10",
		},
		{
			name: "deadline before liveline stays in title",
			raw:  "Call bank 2024-03-10:2024-03-01",
			want: Parsed{Title: "Call bank 2024-03-10:2024-03-01"},
		},
		{
			name: "unparseable date pair stays in title",
			raw:  "Call bank 2024-03-01:whenever",
			want: Parsed{Title: "Call bank 2024-03-01:whenever"},
		},
		{
			name:    "project token",
			raw:     "Write report #work",
			want:    Parsed{Title: "Write report"},
			project: strPtr("work"),
		},
		{
			name:    "bare hash detaches from project",
			raw:     "Plan trip #",
			want:    Parsed{Title: "Plan trip"},
			project: strPtr(""),
		},
		{
			name:    "project token mid title",
			raw:     "Write #work report",
			want:    Parsed{Title: "Write report"},
			project: strPtr("work"),
		},
		{
			name:    "everything at once",
			raw:     "Ship release 2024-03-01:2024-03-10 #launch\nremember the changelog",
			want:    Parsed{Title: "Ship release", Scrap: "remember the changelog"},
			wantLL:  "2024-03-01",
			wantDL:  "2024-03-10",
			project: strPtr("launch"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, 0, parseNow)

			assert.Equal(t, tt.want.Title, got.Title)
			assert.Equal(t, tt.want.Scrap, got.Scrap)

			if tt.wantLL == "" {
				assert.Nil(t, got.Liveline)
				assert.Nil(t, got.Deadline)
			} else {
				require.NotNil(t, got.Liveline)
				require.NotNil(t, got.Deadline)
				assert.Equal(t, tt.wantLL, got.Liveline.Format("2006-01-02"))
				assert.Equal(t, tt.wantDL, got.Deadline.Format("2006-01-02"))
			}

			if tt.project == nil {
				assert.Nil(t, got.Project)
			} else {
				require.NotNil(t, got.Project)
				assert.Equal(t, *tt.project, *got.Project)
			}
		})
	}
}

func TestParse_TimezoneOffset(t *testing.T) {
	// UTC+1: local midnight is 23:00 UTC the previous day.
	got := Parse("Call bank 2024-03-01:2024-03-10", 3600, parseNow)

	require.NotNil(t, got.Liveline)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), *got.Liveline)
	assert.Equal(t, time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC), *got.Deadline)
}

func TestParse_FirstDatePairWins(t *testing.T) {
	got := Parse("a 2024-03-01:2024-03-02 b 2024-04-01:2024-04-02", 0, parseNow)

	require.NotNil(t, got.Liveline)
	assert.Equal(t, "2024-03-01", got.Liveline.Format("2006-01-02"))
	assert.Equal(t, "a b 2024-04-01:2024-04-02", got.Title)
}
