package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLevelDeepestWins(t *testing.T) {
	require.Equal(t, LevelAccount, DetectLevel("How did we do overall last month?"))
	require.Equal(t, LevelCampaign, DetectLevel("How are my campaigns performing?"))
	require.Equal(t, LevelAdset, DetectLevel("Show me the audiences in the retargeting campaign"))
	require.Equal(t, LevelAd, DetectLevel("Which ads in my retargeting ad set performed best?"))
	require.Equal(t, LevelAd, DetectLevel("compare the creatives across campaigns"))
}

func TestDetectLevelGenericAdsPhrasingsStayAtAccount(t *testing.T) {
	require.Equal(t, LevelAccount, DetectLevel("What's my overall Meta ads performance?"))
	require.Equal(t, LevelAccount, DetectLevel("how are all my ads performing in total"))
	require.Equal(t, LevelAccount, DetectLevel("my Google ads results overall"))
	// Specific ad talk still escalates.
	require.Equal(t, LevelAd, DetectLevel("which ads performed best"))
	require.Equal(t, LevelAd, DetectLevel("how is that ad doing overall"))
}

func TestDetectLevelAdSetIsNotAd(t *testing.T) {
	require.Equal(t, LevelAdset, DetectLevel("how is my ad set doing"))
	require.Equal(t, LevelAdset, DetectLevel("list my adsets"))
	require.Equal(t, LevelAd, DetectLevel("how is my ad doing"))
}

func TestLevelNames(t *testing.T) {
	require.Equal(t, "account", LevelAccount.String())
	require.Equal(t, "campaigns", LevelCampaign.Plural())
	require.Equal(t, "adsets", LevelAdset.Plural())
	require.Equal(t, "ads", LevelAd.Plural())
}
