package chat

import (
	"regexp"
	"strings"
)

// Level is the drill-down depth of the ads hierarchy.
type Level int

const (
	LevelAccount Level = iota
	LevelCampaign
	LevelAdset
	LevelAd
)

func (l Level) String() string {
	switch l {
	case LevelCampaign:
		return "campaign"
	case LevelAdset:
		return "adset"
	case LevelAd:
		return "ad"
	default:
		return "account"
	}
}

// Plural returns the reporting-backend path segment for the level.
func (l Level) Plural() string {
	switch l {
	case LevelCampaign:
		return "campaigns"
	case LevelAdset:
		return "adsets"
	case LevelAd:
		return "ads"
	default:
		return "accounts"
	}
}

var (
	campaignWords = regexp.MustCompile(`\bcampaigns?\b`)
	adsetWords    = regexp.MustCompile(`\badsets?\b|\baudiences?\b|\bad groups?\b`)
	adSpecific    = regexp.MustCompile(`\bad\b|\bcreatives?\b`)
	adPlural      = regexp.MustCompile(`\bads\b`)
	// Product names: "Meta ads performance" talks about the account,
	// not about individual ads.
	productAds  = regexp.MustCompile(`\b(meta|facebook|google|instagram) ads\b`)
	accountCues = regexp.MustCompile(`\b(overall|total|account|all my|in general|altogether)\b`)
)

// DetectLevel scans the question for level-indicator vocabulary and
// returns the deepest indicated level. Questions with no indicator
// stay at the account level. The bare plural "ads" escalates only
// when the phrasing is not account-wide ("all my ads performance"
// stays at the account).
func DetectLevel(question string) Level {
	text := strings.ToLower(question)
	// "ad set" would otherwise also match the bare ad indicator.
	text = strings.ReplaceAll(text, "ad set", "adset")
	text = productAds.ReplaceAllString(text, " ")
	hasAdset := adsetWords.MatchString(text)
	stripped := adsetWords.ReplaceAllString(text, " ")

	switch {
	case adSpecific.MatchString(stripped):
		return LevelAd
	case adPlural.MatchString(stripped) && !accountCues.MatchString(stripped):
		return LevelAd
	case hasAdset:
		return LevelAdset
	case campaignWords.MatchString(text):
		return LevelCampaign
	default:
		return LevelAccount
	}
}

// hasAccountCue reports explicit account-wide phrasing.
func hasAccountCue(question string) bool {
	return accountCues.MatchString(strings.ToLower(question))
}
