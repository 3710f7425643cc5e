package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var selOptions = []Option{
	{ID: "c1", Name: "Summer Sale"},
	{ID: "c2", Name: "Brand Awareness"},
	{ID: "c3", Name: "Retargeting"},
}

func TestResolveSelectionByID(t *testing.T) {
	p := newPendingSelection(LevelCampaign, selOptions)
	ids, label, ok := resolveSelection(p, "c2")
	require.True(t, ok)
	require.Equal(t, []string{"c2"}, ids)
	require.Equal(t, "Brand Awareness", label)
}

func TestResolveSelectionByNameCaseInsensitive(t *testing.T) {
	p := newPendingSelection(LevelCampaign, selOptions)
	ids, _, ok := resolveSelection(p, "  summer sale ")
	require.True(t, ok)
	require.Equal(t, []string{"c1"}, ids)
}

func TestResolveSelectionAll(t *testing.T) {
	p := newPendingSelection(LevelCampaign, selOptions)
	ids, label, ok := resolveSelection(p, "All")
	require.True(t, ok)
	require.Equal(t, []string{"c1", "c2", "c3"}, ids)
	require.Equal(t, "all campaigns", label)
}

func TestResolveSelectionRejectsUnknown(t *testing.T) {
	p := newPendingSelection(LevelCampaign, selOptions)
	_, _, ok := resolveSelection(p, "the blue one")
	require.False(t, ok)
	_, _, ok = resolveSelection(p, "")
	require.False(t, ok)
}

func TestMatchEntitiesDeduplicates(t *testing.T) {
	ids, label := matchEntities(selOptions, []string{"Summer Sale", "c1", "retargeting", "unknown"})
	require.Equal(t, []string{"c1", "c3"}, ids)
	require.Equal(t, "Summer Sale, Retargeting", label)
}

func TestSelectionPromptNamesOptions(t *testing.T) {
	p := newPendingSelection(LevelAdset, selOptions)
	require.Contains(t, p.Prompt, "Which adset do you mean?")
	require.Contains(t, p.Prompt, "Summer Sale")
	require.Contains(t, p.Prompt, `"all"`)
}
