// Package negotiation implements the live negotiation session: an
// ordered conversation log, a single-flight recommendation cycle
// keyed on the latest opponent utterance, a simulated transcription
// recorder, and the handoff of a finished session to the archive.
package negotiation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/negotiapro/copilot/engine/core"
	"github.com/negotiapro/copilot/pkg/logger"
)

// Matcher is the playbook matching service seen from the session.
type Matcher interface {
	Match(ctx context.Context, utteranceText string) ([]Recommendation, error)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(ctx context.Context, utteranceText string) ([]Recommendation, error)

func (f MatcherFunc) Match(ctx context.Context, utteranceText string) ([]Recommendation, error) {
	return f(ctx, utteranceText)
}

// Archiver receives completed sessions. Implemented by the workflow
// archive.
type Archiver interface {
	Archive(rec ArchiveRecord) error
}

const (
	// defaultSummary mirrors the report line generated for every
	// archived session; a richer summary is out of scope here.
	defaultSummary = "Multiple key topics were discussed during this negotiation; see the conversation log for detail."

	decisionPreviewRunes = 30
	maxKeyDecisions      = 3
)

// decisionMarkers is the fixed vocabulary used by the key-decision
// heuristic. Matching is a case-insensitive substring check; this is
// deliberately simple and documented as a heuristic, not a semantic
// guarantee.
var decisionMarkers = []string{
	"agree", "accept", "approve", "confirm", "decide", "decision", "deal",
}

// Session is the state machine for one live negotiation. All
// transitions are atomic with respect to each other; the only
// suspension point is the recommendation request, which runs without
// the session lock and is reconciled against a request token so a
// stale response never mutates a reset session.
type Session struct {
	mu           sync.Mutex
	state        State
	log          []Utterance
	live         *RecommendationSet
	pendingToken string
	startedAt    time.Time

	matcher  Matcher
	archiver Archiver
	recorder *Recorder
	recCfg   RecorderConfig
	clock    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the session's time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// WithRecorderConfig overrides the transcription recorder settings.
func WithRecorderConfig(cfg RecorderConfig) Option {
	return func(s *Session) { s.recCfg = cfg }
}

// NewSession creates an idle session wired to the given matcher and
// archiver.
func NewSession(matcher Matcher, archiver Archiver, opts ...Option) *Session {
	s := &Session{
		state:    StateIdle,
		matcher:  matcher,
		archiver: archiver,
		recCfg:   DefaultRecorderConfig(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Log returns a copy of the conversation log in order.
func (s *Session) Log() []Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Utterance, len(s.log))
	copy(out, s.log)
	return out
}

// LiveRecommendations returns the current recommendation set, if any.
func (s *Session) LiveRecommendations() (RecommendationSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return RecommendationSet{}, false
	}
	return *s.live, true
}

// SubmitOpponentUtterance appends an opponent utterance to the log and
// requests recommendations keyed on it. At most one request is
// outstanding per session; concurrent submissions are rejected until
// the request resolves or fails. The utterance stays logged even when
// the recommendation request fails.
func (s *Session) SubmitOpponentUtterance(ctx context.Context, text string) (*RecommendationSet, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state == StateAwaitingRecommendation {
		s.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	utt := Utterance{
		ID:        core.MustNewID(),
		Speaker:   SpeakerOpponent,
		Text:      text,
		Timestamp: s.clock(),
	}
	if len(s.log) == 0 {
		s.startedAt = utt.Timestamp
	}
	s.log = append(s.log, utt)
	s.live = nil
	s.state = StateAwaitingRecommendation
	token := uuid.NewString()
	s.pendingToken = token
	s.mu.Unlock()

	items, err := s.matcher.Match(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingToken != token {
		// The session was reset (or the reply cycle moved on) while
		// the request was in flight; the response must not be applied.
		logger.FromContext(ctx).Debug("discarding stale recommendation response")
		return nil, ErrSuperseded
	}
	s.pendingToken = ""
	if err != nil {
		s.live = nil
		s.state = StateCapturing
		logger.FromContext(ctx).Warn("recommendation request failed", "error", err)
		return nil, err
	}
	s.live = &RecommendationSet{RequestUtteranceID: utt.ID, Items: items}
	s.state = StateRecommended
	set := *s.live
	return &set, nil
}

// AcceptRecommendation appends a self utterance for the given item
// from the live recommendation set and clears the set. The item must
// belong to the current set.
func (s *Session) AcceptRecommendation(itemID string) (Utterance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecommended {
		return Utterance{}, ErrInvalidState
	}
	item, ok := s.live.item(itemID)
	if !ok {
		return Utterance{}, ErrUnknownRecommendation
	}
	utt := Utterance{
		ID:         core.MustNewID(),
		Speaker:    SpeakerSelf,
		Text:       item.Body,
		ScriptRef:  item.ID,
		ScriptName: item.Title,
		Timestamp:  s.clock(),
	}
	s.log = append(s.log, utt)
	s.live = nil
	s.state = StateCapturing
	return utt, nil
}

// SubmitCustomReply appends a self utterance with free-form text and
// clears the live recommendation set. Valid from any non-idle state;
// an outstanding recommendation request is invalidated because the
// reply makes its result moot.
func (s *Session) SubmitCustomReply(text string) (Utterance, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Utterance{}, ErrEmptyInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return Utterance{}, ErrInvalidState
	}
	utt := Utterance{
		ID:        core.MustNewID(),
		Speaker:   SpeakerSelf,
		Text:      text,
		Timestamp: s.clock(),
	}
	s.log = append(s.log, utt)
	s.live = nil
	s.pendingToken = ""
	s.state = StateCapturing
	return utt, nil
}

// Reset clears the log and recommendation state and returns the
// session to idle. When the log is non-empty the caller must pass
// force=true to confirm the loss; this backs the UI confirmation step.
func (s *Session) Reset(force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.log) > 0 && !force {
		return ErrConfirmationRequired
	}
	s.resetLocked()
	return nil
}

func (s *Session) resetLocked() {
	s.log = nil
	s.live = nil
	s.pendingToken = ""
	s.startedAt = time.Time{}
	s.state = StateIdle
	s.stopRecorderLocked()
}

// Archive hands the finished session to the archive as a completed
// record and resets the session. It fails with ErrEmptySession, state
// unchanged, when the log is empty.
func (s *Session) Archive(ctx context.Context, counterparty string) (ArchiveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.log) == 0 {
		return ArchiveRecord{}, ErrEmptySession
	}
	now := s.clock()
	rec := ArchiveRecord{
		Counterparty: counterparty,
		Date:         now,
		Duration:     now.Sub(s.startedAt),
		Log:          append([]Utterance(nil), s.log...),
		Summary:      defaultSummary,
		KeyDecisions: extractKeyDecisions(s.log),
	}
	if s.archiver != nil {
		if err := s.archiver.Archive(rec); err != nil {
			return ArchiveRecord{}, err
		}
	}
	logger.FromContext(ctx).Info("session archived",
		"counterparty", counterparty, "turns", len(rec.Log))
	s.resetLocked()
	return rec, nil
}

// extractKeyDecisions selects utterances containing a decision marker,
// in log order, truncated to a bounded preview and capped at three
// entries.
func extractKeyDecisions(log []Utterance) []string {
	var out []string
	for i := range log {
		if len(out) == maxKeyDecisions {
			break
		}
		lower := strings.ToLower(log[i].Text)
		for _, marker := range decisionMarkers {
			if strings.Contains(lower, marker) {
				out = append(out, preview(log[i].Text))
				break
			}
		}
	}
	return out
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= decisionPreviewRunes {
		return text
	}
	return string(runes[:decisionPreviewRunes]) + "..."
}
