package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePeriodPresets(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	for kw, preset := range map[string]string{
		"last 7 days":    "7d",
		"Last Week":      "7d",
		"last 30 days":   "30d",
		"last month":     "30d",
		"last quarter":   "90d",
		"last 12 months": "365d",
		"last year":      "365d",
	} {
		p, ok := ParsePeriod(kw, "", "", now)
		require.True(t, ok, kw)
		require.Equal(t, preset, p.Preset, kw)
	}
}

func TestParsePeriodRelativeDates(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	p, ok := ParsePeriod("yesterday", "", "", now)
	require.True(t, ok)
	require.Equal(t, "2026-08-26", p.Start)
	require.Equal(t, "2026-08-26", p.End)

	p, ok = ParsePeriod("this month", "", "", now)
	require.True(t, ok)
	require.Equal(t, "2026-08-01", p.Start)
	require.Equal(t, "2026-08-27", p.End)
}

func TestParsePeriodExplicitDates(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	p, ok := ParsePeriod("", "2026-01-01", "2026-01-31", now)
	require.True(t, ok)
	require.Equal(t, "2026-01-01", p.Start)
	require.Equal(t, "2026-01-31", p.End)

	// Open-ended range closes at today.
	p, ok = ParsePeriod("", "2026-08-01", "", now)
	require.True(t, ok)
	require.Equal(t, "2026-08-27", p.End)

	_, ok = ParsePeriod("", "January first", "", now)
	require.False(t, ok)
}

func TestParsePeriodUnknownKeyword(t *testing.T) {
	_, ok := ParsePeriod("during the campaign", "", "", time.Now())
	require.False(t, ok)
	_, ok = ParsePeriod("", "", "", time.Now())
	require.False(t, ok)
}
