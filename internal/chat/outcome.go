package chat

// OutcomeKind discriminates the single per-turn reply shape.
type OutcomeKind string

const (
	OutcomeAnswer        OutcomeKind = "answer"
	OutcomeSelection     OutcomeKind = "selection"
	OutcomeClarification OutcomeKind = "clarification"
)

// SelectionPrompt is the requires-selection payload sent to the UI.
type SelectionPrompt struct {
	Type    string   `json:"type"` // campaigns | adsets | ads
	Options []Option `json:"options"`
	Prompt  string   `json:"prompt"`
}

// Outcome is the reply of one turn. Exactly one of Answer, Selection
// or Clarification is populated, matching Kind.
type Outcome struct {
	Kind          OutcomeKind      `json:"kind"`
	Answer        string           `json:"answer,omitempty"`
	Selection     *SelectionPrompt `json:"selection,omitempty"`
	Clarification string           `json:"clarification,omitempty"`
}

func answerOutcome(text string) Outcome {
	return Outcome{Kind: OutcomeAnswer, Answer: text}
}

func selectionOutcome(p *PendingSelection) Outcome {
	return Outcome{Kind: OutcomeSelection, Selection: &SelectionPrompt{
		Type:    p.Level.Plural(),
		Options: p.Options,
		Prompt:  p.Prompt,
	}}
}

func clarificationOutcome(text string) Outcome {
	return Outcome{Kind: OutcomeClarification, Clarification: text}
}
