package chat

import (
	"regexp"
	"strings"
)

// Intent separates small talk from analytical questions.
type Intent string

const (
	IntentChitchat   Intent = "chitchat"
	IntentAnalytical Intent = "analytical"
)

// Family picks the retrieval path for an analytical question.
type Family string

const (
	FamilyPerformance Family = "performance"
	FamilyKeyword     Family = "keyword_insight"
)

// IntentClassifier routes utterances by keyword lists. Pure and
// data-driven so it stays cheap and testable; the LLM only sees
// questions that survive this gate.
type IntentClassifier struct {
	chitchatPhrases  []string
	analyticalWords  []string
	keywordIndicator []string
	greeting         *regexp.Regexp
}

func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		chitchatPhrases: []string{
			"how are you", "who are you", "what can you do",
			"thank you", "thanks", "good morning", "good evening",
			"nice to meet", "tell me a joke",
		},
		analyticalWords: []string{
			"campaign", "adset", "ad set", "ads", "spend", "budget",
			"performance", "impressions", "clicks", "conversions", "ctr",
			"cpc", "roas", "reach", "results", "keyword", "insight",
			"report", "metric", "compare", "trend", "audience",
		},
		keywordIndicator: []string{
			"keyword", "search intent", "search volume", "search term",
			"seed keyword", "people search", "search demand",
		},
		greeting: regexp.MustCompile(`^\s*(hi|hey|hello|yo|sup|howdy)\b[\s!,.]*$`),
	}
}

// Classify returns chitchat only when the utterance carries no
// analytical signal at all.
func (c *IntentClassifier) Classify(question string) Intent {
	text := strings.ToLower(strings.TrimSpace(question))
	if text == "" {
		return IntentChitchat
	}
	for _, w := range c.analyticalWords {
		if strings.Contains(text, w) {
			return IntentAnalytical
		}
	}
	if c.greeting.MatchString(text) {
		return IntentChitchat
	}
	for _, p := range c.chitchatPhrases {
		if strings.Contains(text, p) {
			return IntentChitchat
		}
	}
	return IntentAnalytical
}

// FamilyOf picks the keyword-insight path when its indicators appear,
// otherwise the ads-performance path.
func (c *IntentClassifier) FamilyOf(question string) Family {
	text := strings.ToLower(question)
	for _, p := range c.keywordIndicator {
		if strings.Contains(text, p) {
			return FamilyKeyword
		}
	}
	return FamilyPerformance
}
