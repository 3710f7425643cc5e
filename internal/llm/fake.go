package llm

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// FakeClient returns scripted payloads for offline use and tests.
// JSON responses are matched by substring against the prompt plus the
// encoded input; the first matching rule wins. Unmatched prompts get
// an empty object.
type FakeClient struct {
	mu        sync.Mutex
	jsonRules []fakeRule
	replies   []string
	replyIdx  int
	calls     []string
}

type fakeRule struct {
	contains string
	payload  json.RawMessage
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// StubJSON registers a JSON payload for prompts containing the marker.
func (f *FakeClient) StubJSON(promptContains string, payload string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jsonRules = append(f.jsonRules, fakeRule{contains: promptContains, payload: json.RawMessage(payload)})
	return f
}

// StubReply queues a prose completion; replies are consumed in order,
// the last one repeating.
func (f *FakeClient) StubReply(reply string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, reply)
	return f
}

// Calls returns every prompt seen so far.
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeClient) GenerateJSON(_ context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.Marshal(input)
	text := prompt + "\n" + string(in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	for _, r := range f.jsonRules {
		if strings.Contains(text, r.contains) {
			return r.payload, nil
		}
	}
	return json.RawMessage(`{}`), nil
}

func (f *FakeClient) Complete(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, system+"\n"+user)
	if len(f.replies) == 0 {
		return "ok", nil
	}
	r := f.replies[f.replyIdx]
	if f.replyIdx < len(f.replies)-1 {
		f.replyIdx++
	}
	return r, nil
}
