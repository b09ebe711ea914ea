package negotiation

import (
	"strings"
	"sync"
	"time"
)

// defaultScript is the scripted stand-in for real speech-to-text: a
// fixed sequence of fragments appended on a cadence while recording.
var defaultScript = []string{
	"well", "good morning everyone", "regarding", "the deposit ratio",
	"we certainly", "understand", "the review committee's position",
	"but", "ten percent", "is", "quite high", "I would like",
	"to propose", "a stepped", "arrangement",
}

// RecorderConfig controls the simulated transcription capture.
type RecorderConfig struct {
	Interval time.Duration
	Script   []string
}

// DefaultRecorderConfig returns the demo capture settings.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Interval: 500 * time.Millisecond,
		Script:   defaultScript,
	}
}

// Recorder accumulates transcript fragments on a timer until its
// fragment budget is exhausted or it is stopped. The timer is owned
// by the recorder and released on every exit path.
type Recorder struct {
	mu       sync.Mutex
	buf      []string
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newRecorder(cfg RecorderConfig) *Recorder {
	r := &Recorder{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.run(cfg)
	return r
}

func (r *Recorder) run(cfg RecorderConfig) {
	defer close(r.done)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for i := 0; i < len(cfg.Script); i++ {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			r.buf = append(r.buf, cfg.Script[i])
			r.mu.Unlock()
		}
	}
}

// halt cancels the capture timer. Safe to call more than once.
func (r *Recorder) halt() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// drain stops the recorder, waits for the capture goroutine to exit,
// and returns the accumulated transcript.
func (r *Recorder) drain() string {
	r.halt()
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	text := strings.Join(r.buf, " ")
	r.buf = nil
	return strings.TrimSpace(text)
}

// StartRecording begins simulated transcript capture. It is an
// idempotent no-op while a recording is already active; the return
// value reports whether a new recording started. Recording runs
// independently of the capture/recommend states.
func (s *Session) StartRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorder != nil {
		return false
	}
	s.recorder = newRecorder(s.recCfg)
	return true
}

// Recording reports whether a transcript capture is active.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder != nil
}

// StopRecording stops the capture and returns the staged transcript.
// The text is destined for the pending opponent-utterance input, not
// the log; staging is the caller's responsibility. The second return
// reports whether a recording was active.
func (s *Session) StopRecording() (string, bool) {
	s.mu.Lock()
	rec := s.recorder
	s.recorder = nil
	s.mu.Unlock()
	if rec == nil {
		return "", false
	}
	return rec.drain(), true
}

// stopRecorderLocked cancels any active recorder without waiting for
// the capture goroutine; the buffer is discarded. Called on reset and
// archive so no timer outlives the session it was feeding.
func (s *Session) stopRecorderLocked() {
	if s.recorder != nil {
		s.recorder.halt()
		s.recorder = nil
	}
}
