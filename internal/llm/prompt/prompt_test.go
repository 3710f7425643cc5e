package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRendersSectionsInOrder(t *testing.T) {
	out, err := Build(Spec{
		Purpose:    "Extract advertising parameters from a user question.",
		Background: "The question concerns one ad account.",
		OutputFields: []Field{
			{Name: "country", Type: "string", Required: true, Description: "ISO-ish country name"},
			{Name: "entities_mentioned", Type: "string[]", Required: false},
		},
		Constraints:  []string{"Return JSON only."},
		Rules:        []string{"Never invent entity names."},
		OutputFormat: "Single JSON object.",
	})
	require.NoError(t, err)

	require.Contains(t, out, "[PURPOSE]")
	require.Contains(t, out, "[OUTPUT]")
	require.Contains(t, out, "- country (string, required): ISO-ish country name")
	require.Contains(t, out, "- entities_mentioned (string[], optional)")
	require.Less(t, strings.Index(out, "[PURPOSE]"), strings.Index(out, "[OUTPUT]"))
	require.Less(t, strings.Index(out, "[OUTPUT]"), strings.Index(out, "[RULES]"))
}

func TestBuildRejectsEmptySpec(t *testing.T) {
	_, err := Build(Spec{})
	require.Error(t, err)

	_, err = Build(Spec{Purpose: "p"})
	require.Error(t, err)
}

func TestBuildSkipsEmptySections(t *testing.T) {
	out, err := Build(Spec{
		Purpose:      "p",
		OutputFields: []Field{{Name: "x", Type: "string"}},
	})
	require.NoError(t, err)
	require.NotContains(t, out, "[BACKGROUND]")
	require.NotContains(t, out, "[CONSTRAINTS]")
}
