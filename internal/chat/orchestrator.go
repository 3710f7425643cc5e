// Package chat implements the conversational drill-down orchestrator
// for ads performance and keyword-insight questions.
package chat

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"adpilot/internal/llm"
	"adpilot/internal/logging"
	"adpilot/internal/reporting"
)

// ErrNotFound is returned by SessionStore implementations for unknown
// session IDs.
var ErrNotFound = errors.New("chat: session not found")

// SessionStore persists conversation sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]SessionSummary, error)
}

const backendDownMessage = "The reporting backend is temporarily unavailable. Please try again in a moment."

// TurnRequest is one user turn.
type TurnRequest struct {
	SessionID string         `json:"session_id,omitempty"`
	Question  string         `json:"question"`
	Context   *ModuleContext `json:"module_context,omitempty"`
}

// TurnResult pairs the session with the single outcome of the turn.
type TurnResult struct {
	SessionID string  `json:"session_id"`
	Outcome   Outcome `json:"outcome"`
}

// lockStripes bounds the per-session lock table. Sessions hashing to
// the same stripe serialize together.
const lockStripes = 64

// Orchestrator drives one turn at a time per session. Turns on the
// same session are serialized; sessions on different lock stripes run
// concurrently.
type Orchestrator struct {
	store      SessionStore
	llm        llm.Client
	backend    Backend
	extractor  *Extractor
	intents    *IntentClassifier
	dispatcher *Dispatcher
	composer   *Composer
	log        *logging.Logger
	now        func() time.Time
	onOutcome  func(sessionID string, o Outcome)

	locks [lockStripes]sync.Mutex
}

// OrchestratorOption customizes construction.
type OrchestratorOption func(*Orchestrator)

// WithClock overrides the time source. Tests use this.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// WithOutcomeHook registers a callback invoked after every completed
// turn, before Turn returns. The watch endpoint feeds from it.
func WithOutcomeHook(fn func(sessionID string, o Outcome)) OrchestratorOption {
	return func(o *Orchestrator) { o.onOutcome = fn }
}

// WithCallTimeout bounds each reporting call.
func WithCallTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.dispatcher.timeout = d }
}

func NewOrchestrator(store SessionStore, client llm.Client, backend Backend, log *logging.Logger, opts ...OrchestratorOption) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("chat: session store is required")
	}
	if client == nil {
		return nil, errors.New("chat: llm client is required")
	}
	if backend == nil {
		return nil, errors.New("chat: reporting backend is required")
	}
	if log == nil {
		log = logging.Nop()
	}
	ex, err := NewExtractor(client, log)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		store:      store,
		llm:        client,
		backend:    backend,
		extractor:  ex,
		intents:    NewIntentClassifier(),
		dispatcher: NewDispatcher(backend, 0, log),
		composer:   NewComposer(client),
		log:        log.Sub("chat"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Turn processes one user utterance and returns exactly one outcome.
func (o *Orchestrator) Turn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return TurnResult{SessionID: req.SessionID}, errors.New("chat: question is empty")
	}

	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = uuid.NewString()
	}
	lock := o.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := o.loadOrCreate(ctx, id, req.Context)
	if err != nil {
		return TurnResult{}, err
	}

	now := o.now()
	sess.Append("user", question, now)

	outcome, err := o.step(ctx, sess, question)
	if err != nil {
		o.log.Error().Str("session", sess.ID).Err(err).Msg("turn failed")
		return TurnResult{SessionID: sess.ID}, err
	}

	sess.Append("assistant", outcomeText(outcome), o.now())
	sess.UpdatedAt = o.now()
	if err := o.store.Put(ctx, sess); err != nil {
		return TurnResult{SessionID: sess.ID}, errors.Wrap(err, "chat: persist session")
	}
	if o.onOutcome != nil {
		o.onOutcome(sess.ID, outcome)
	}
	return TurnResult{SessionID: sess.ID, Outcome: outcome}, nil
}

// Sessions lists stored sessions.
func (o *Orchestrator) Sessions(ctx context.Context) ([]SessionSummary, error) {
	return o.store.List(ctx)
}

// Session fetches one session record.
func (o *Orchestrator) Session(ctx context.Context, id string) (*Session, error) {
	return o.store.Get(ctx, id)
}

// Delete removes a session.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	return o.store.Delete(ctx, id)
}

func (o *Orchestrator) loadOrCreate(ctx context.Context, id string, mc *ModuleContext) (*Session, error) {
	sess, err := o.store.Get(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		now := o.now()
		sess = &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	default:
		return nil, errors.Wrap(err, "chat: load session")
	}
	if mc != nil {
		sess.Context = *mc
	}
	return sess, nil
}

func (o *Orchestrator) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &o.locks[h.Sum32()%lockStripes]
}

// step runs the turn state machine: resume an open selection or
// clarification if one exists, otherwise treat the utterance as a
// fresh question.
func (o *Orchestrator) step(ctx context.Context, sess *Session, question string) (Outcome, error) {
	if sess.Pending != nil {
		return o.resumeSelection(ctx, sess, question)
	}
	if sess.Clarify != nil {
		return o.resumeClarification(ctx, sess, question)
	}
	return o.answerQuestion(ctx, sess, question)
}

func (o *Orchestrator) answerQuestion(ctx context.Context, sess *Session, question string) (Outcome, error) {
	if o.intents.Classify(question) == IntentChitchat {
		reply, err := o.llm.Complete(ctx, chitchatSystem, question)
		if err != nil {
			o.log.Warn().Err(err).Msg("chitchat completion failed")
			reply = "Hi! Ask me anything about your ad performance or keyword insights."
		}
		return answerOutcome(strings.TrimSpace(reply)), nil
	}

	extracted := o.extractor.Extract(ctx, question)
	params := Resolve(extracted, sess.Context, o.now())

	if o.intents.FamilyOf(question) == FamilyKeyword {
		return o.keywordTurn(ctx, sess, question, extracted, params)
	}

	target := DetectLevel(question)
	if target == LevelAccount && !hasAccountCue(question) {
		// A follow-up with no level indicator stays at the depth the
		// conversation already reached.
		if deepest, _ := deepestResolved(sess); deepest > LevelAccount {
			target = deepest
		}
	}
	return o.drill(ctx, sess, target, question, params)
}

// keywordTurn is the validated single-call path. A failed validation
// leaves a clarification record on the session so the next turn can
// supply just the missing values.
func (o *Orchestrator) keywordTurn(ctx context.Context, sess *Session, question string, extracted ParameterSet, params ResolvedParams) (Outcome, error) {
	if missing := ValidateKeywordParams(params); len(missing) > 0 {
		sess.Clarify = &PendingClarification{Family: FamilyKeyword, Question: question, Extracted: extracted}
		return clarificationOutcome(ClarificationFor(missing)), nil
	}
	sess.Clarify = nil
	payload, err := o.dispatcher.KeywordInsights(ctx, params)
	if err != nil {
		return answerOutcome(backendDownMessage), nil
	}
	answer, err := o.composer.Compose(ctx, question, []reporting.Payload{payload}, nil)
	if err != nil {
		o.log.Warn().Err(err).Msg("composer failed")
		return answerOutcome(backendDownMessage), nil
	}
	return answerOutcome(answer), nil
}

// drill resolves the hierarchy toward target and answers when ready.
func (o *Orchestrator) drill(ctx context.Context, sess *Session, target Level, question string, params ResolvedParams) (Outcome, error) {
	res, err := o.advance(ctx, sess, target, question, params)
	if err != nil {
		return Outcome{}, err
	}
	if !res.ready {
		return res.outcome, nil
	}
	return o.answerAt(ctx, sess, target, res.ids, question, params)
}

func (o *Orchestrator) answerAt(ctx context.Context, sess *Session, level Level, ids []string, question string, params ResolvedParams) (Outcome, error) {
	payloads, failed, err := o.dispatcher.Dispatch(ctx, sess.Context.AccountID, level, ids, params)
	if err != nil {
		if errors.Is(err, ErrAllCallsFailed) {
			return answerOutcome(backendDownMessage), nil
		}
		return Outcome{}, err
	}
	answer, err := o.composer.Compose(ctx, question, payloads, failed)
	if err != nil {
		o.log.Warn().Err(err).Msg("composer failed")
		return answerOutcome(backendDownMessage), nil
	}
	sess.LastAnswered = level
	return answerOutcome(answer), nil
}

// resumeSelection interprets the utterance as a reply to the open
// selection, falling back to implicit-cancel or bounded re-prompting.
func (o *Orchestrator) resumeSelection(ctx context.Context, sess *Session, reply string) (Outcome, error) {
	p := sess.Pending

	if ids, label, ok := resolveSelection(p, reply); ok {
		sess.Pending = nil
		if err := sess.Extend(p.Level, ids, label); err != nil {
			return Outcome{}, err
		}
		return o.drill(ctx, sess, p.Target, p.Question, p.Params)
	}

	// Not a usable reply. A genuinely different question cancels the
	// selection and restarts routing; otherwise re-prompt, bounded.
	extracted := o.extractor.Extract(ctx, reply)
	if o.isUnrelated(p, reply, extracted) {
		o.log.Info().Str("session", sess.ID).Msg("pending selection implicitly cancelled")
		sess.ResetChain()
		return o.answerQuestion(ctx, sess, reply)
	}

	p.Attempts++
	if p.Attempts >= maxSelectionAttempts {
		o.log.Info().Str("session", sess.ID).Msg("selection abandoned after repeated failures")
		sess.Pending = nil
		level, ids := deepestResolved(sess)
		return o.answerAt(ctx, sess, level, ids, p.Question, p.Params)
	}
	retry := *p
	retry.Prompt = "I couldn't match that to the options. " + p.Prompt
	return selectionOutcome(&retry), nil
}

// resumeClarification merges the reply into the stored extraction and
// retries the keyword gate for the original question.
func (o *Orchestrator) resumeClarification(ctx context.Context, sess *Session, reply string) (Outcome, error) {
	c := sess.Clarify

	// A reply that drills into the hierarchy is a new question.
	if DetectLevel(reply) != LevelAccount {
		o.log.Info().Str("session", sess.ID).Msg("pending clarification implicitly cancelled")
		sess.Clarify = nil
		return o.answerQuestion(ctx, sess, reply)
	}

	fresh := o.extractor.Extract(ctx, reply)
	merged := mergeParameterSets(c.Extracted, fresh)
	params := Resolve(merged, sess.Context, o.now())
	return o.keywordTurn(ctx, sess, c.Question, merged, params)
}

// isUnrelated decides whether an unresolvable reply is actually a new
// question: it names entities outside the offered options, or targets
// a shallower level than the one being disambiguated.
func (o *Orchestrator) isUnrelated(p *PendingSelection, reply string, extracted ParameterSet) bool {
	if len(extracted.Entities) > 0 && !anyEntityMatches(p.Options, extracted.Entities) {
		return true
	}
	if lvl := DetectLevel(reply); lvl != LevelAccount && lvl < p.Level {
		return true
	}
	if o.intents.FamilyOf(reply) == FamilyKeyword {
		return true
	}
	return false
}

func deepestResolved(sess *Session) (Level, []string) {
	level := LevelAccount
	var ids []string
	for _, e := range sess.Chain {
		if e.Level > level {
			level = e.Level
			ids = e.IDs
		}
	}
	return level, ids
}

func outcomeText(o Outcome) string {
	switch o.Kind {
	case OutcomeSelection:
		if o.Selection != nil {
			return o.Selection.Prompt
		}
	case OutcomeClarification:
		return o.Clarification
	}
	return o.Answer
}
