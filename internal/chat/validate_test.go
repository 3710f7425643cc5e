package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"adpilot/internal/reporting"
)

func TestValidateKeywordParamsListsOnlyMissing(t *testing.T) {
	missing := ValidateKeywordParams(ResolvedParams{})
	require.Len(t, missing, 3)

	missing = ValidateKeywordParams(ResolvedParams{
		SeedKeywords: []string{"running shoes"},
		Country:      "US",
	})
	require.Len(t, missing, 1)
	require.Equal(t, "time period", missing[0].Field)
}

func TestValidateKeywordParamsComplete(t *testing.T) {
	missing := ValidateKeywordParams(ResolvedParams{
		SeedKeywords: []string{"running shoes"},
		Country:      "US",
		Period:       reporting.Period{Preset: "30d"},
		HasPeriod:    true,
	})
	require.Empty(t, missing)
}

func TestValidationIsMonotone(t *testing.T) {
	// Supplying one missing parameter never introduces another.
	base := ResolvedParams{}
	before := fieldSet(ValidateKeywordParams(base))

	withSeeds := base
	withSeeds.SeedKeywords = []string{"shoes"}
	after := fieldSet(ValidateKeywordParams(withSeeds))

	for f := range after {
		require.True(t, before[f], "field %s appeared after adding a parameter", f)
	}
}

func TestClarificationNamesMissingWithExamples(t *testing.T) {
	msg := ClarificationFor(ValidateKeywordParams(ResolvedParams{}))
	require.Contains(t, msg, "seed keywords")
	require.Contains(t, msg, `"running shoes"`)
	require.Contains(t, msg, "time period")
	require.Contains(t, msg, `"last 30 days"`)

	msg = ClarificationFor([]MissingParam{{Field: "country", Example: `"US"`}})
	require.Equal(t, `To look up keyword insights I still need the country (for example "US").`, msg)

	require.Empty(t, ClarificationFor(nil))
}

func fieldSet(missing []MissingParam) map[string]bool {
	out := map[string]bool{}
	for _, m := range missing {
		out[m.Field] = true
	}
	return out
}
