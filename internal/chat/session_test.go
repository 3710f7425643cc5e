package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtendKeepsContiguousPrefix(t *testing.T) {
	s := &Session{ID: "s1"}

	// Skipping the campaign level is a gap.
	require.ErrorIs(t, s.Extend(LevelAdset, []string{"as1"}, ""), ErrChainGap)

	require.NoError(t, s.Extend(LevelCampaign, []string{"c1"}, "Summer Sale"))
	require.NoError(t, s.Extend(LevelAdset, []string{"as1"}, "Lookalikes"))
	require.NoError(t, s.Extend(LevelAd, []string{"a1"}, "Video A"))

	ids, ok := s.Resolved(LevelAdset)
	require.True(t, ok)
	require.Equal(t, []string{"as1"}, ids)
}

func TestExtendIsIdempotent(t *testing.T) {
	s := &Session{ID: "s1"}
	require.NoError(t, s.Extend(LevelCampaign, []string{"c1", "c2"}, ""))
	require.NoError(t, s.Extend(LevelCampaign, []string{"c2", "c1"}, ""))
	require.Len(t, s.Chain, 1)
}

func TestExtendRepinningDropsDeeperLevels(t *testing.T) {
	s := &Session{ID: "s1"}
	require.NoError(t, s.Extend(LevelCampaign, []string{"c1"}, ""))
	require.NoError(t, s.Extend(LevelAdset, []string{"as1"}, ""))

	require.NoError(t, s.Extend(LevelCampaign, []string{"c9"}, ""))
	_, ok := s.Resolved(LevelAdset)
	require.False(t, ok)
	ids, ok := s.Resolved(LevelCampaign)
	require.True(t, ok)
	require.Equal(t, []string{"c9"}, ids)
}

func TestExtendNeverPinsAccount(t *testing.T) {
	s := &Session{ID: "s1"}
	require.Error(t, s.Extend(LevelAccount, nil, ""))
}

func TestTruncateBelow(t *testing.T) {
	s := &Session{ID: "s1"}
	require.NoError(t, s.Extend(LevelCampaign, []string{"c1"}, ""))
	require.NoError(t, s.Extend(LevelAdset, []string{"as1"}, ""))
	require.NoError(t, s.Extend(LevelAd, []string{"a1"}, ""))

	s.TruncateBelow(LevelCampaign)
	require.Len(t, s.Chain, 1)
	require.Equal(t, LevelCampaign, s.Chain[0].Level)
}
