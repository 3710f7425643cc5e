package chat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"adpilot/internal/llm"
	"adpilot/internal/reporting"
)

const composerSystem = "You are an advertising analytics assistant. " +
	"Answer the user's question using only the JSON data provided. " +
	"Be concise, cite concrete numbers, and do not invent data."

const chitchatSystem = "You are a friendly assistant inside an advertising " +
	"analytics tool. Keep replies short and steer the user toward questions " +
	"about their ad performance or keyword insights."

// Composer turns retrieved payloads into the final prose answer.
type Composer struct {
	llm llm.Client
}

func NewComposer(client llm.Client) *Composer {
	return &Composer{llm: client}
}

// Compose forwards question and payloads to the generation service.
// unavailable names analytics categories that failed this turn; the
// answer acknowledges them instead of pretending completeness.
func (c *Composer) Compose(ctx context.Context, question string, payloads []reporting.Payload, unavailable []string) (string, error) {
	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "chat: encode payloads")
	}
	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nRetrieved data:\n")
	b.Write(data)
	if len(unavailable) > 0 {
		b.WriteString("\n\nNote: the following data categories were unavailable this turn: ")
		b.WriteString(strings.Join(unavailable, ", "))
		b.WriteString(". Mention briefly that they could not be retrieved.")
	}
	answer, err := c.llm.Complete(ctx, composerSystem, b.String())
	if err != nil {
		return "", errors.Wrap(err, "chat: compose answer")
	}
	return strings.TrimSpace(answer), nil
}
