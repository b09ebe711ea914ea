package negotiation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoItems = []Recommendation{
	{ID: "script_001", Scene: "Deposit negotiation", Title: "Stepped deposit plan", Body: "I would like to discuss a stepped arrangement.", Tip: "Tie the ratio to asset performance"},
	{ID: "script_002", Scene: "Risk pushback", Title: "Data breakdown", Body: "Let me break the overdue number down.", Tip: "Separate legacy from new assets"},
}

func staticMatcher(items []Recommendation, err error) Matcher {
	return MatcherFunc(func(context.Context, string) ([]Recommendation, error) {
		return items, err
	})
}

type capturingArchiver struct {
	records []ArchiveRecord
	err     error
}

func (a *capturingArchiver) Archive(rec ArchiveRecord) error {
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, rec)
	return nil
}

func TestSubmitOpponentUtterance(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject empty or whitespace-only input unchanged", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		for _, input := range []string{"", "   ", "\n\t"} {
			_, err := sess.SubmitOpponentUtterance(ctx, input)
			assert.ErrorIs(t, err, ErrEmptyInput)
		}
		assert.Empty(t, sess.Log())
		assert.Equal(t, StateIdle, sess.State())
	})

	t.Run("Should log the utterance and move to recommended on success", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		set, err := sess.SubmitOpponentUtterance(ctx, "  the deposit must go to 10%  ")
		require.NoError(t, err)
		require.Len(t, set.Items, 2)

		log := sess.Log()
		require.Len(t, log, 1)
		assert.Equal(t, SpeakerOpponent, log[0].Speaker)
		assert.Equal(t, "the deposit must go to 10%", log[0].Text)
		assert.Equal(t, log[0].ID, set.RequestUtteranceID)
		assert.Equal(t, StateRecommended, sess.State())
	})

	t.Run("Should keep the utterance and return to capturing on failure", func(t *testing.T) {
		sess := NewSession(staticMatcher(nil, errors.New("match service down")), nil)
		_, err := sess.SubmitOpponentUtterance(ctx, "hello")
		require.Error(t, err)

		assert.Len(t, sess.Log(), 1, "conversation capture must survive a downstream failure")
		assert.Equal(t, StateCapturing, sess.State())
		_, live := sess.LiveRecommendations()
		assert.False(t, live)
	})

	t.Run("Should reject a second submission while a request is outstanding", func(t *testing.T) {
		block := make(chan struct{})
		matcher := MatcherFunc(func(context.Context, string) ([]Recommendation, error) {
			<-block
			return demoItems, nil
		})
		sess := NewSession(matcher, nil)

		first := make(chan error, 1)
		go func() {
			_, err := sess.SubmitOpponentUtterance(ctx, "first")
			first <- err
		}()
		require.Eventually(t, func() bool {
			return sess.State() == StateAwaitingRecommendation
		}, time.Second, 5*time.Millisecond)

		_, err := sess.SubmitOpponentUtterance(ctx, "second")
		assert.ErrorIs(t, err, ErrRequestInFlight)
		assert.Len(t, sess.Log(), 1, "log length must not exceed accepted submissions")

		close(block)
		require.NoError(t, <-first)
		assert.Equal(t, StateRecommended, sess.State())
	})

	t.Run("Should discard a stale response arriving after reset", func(t *testing.T) {
		block := make(chan struct{})
		matcher := MatcherFunc(func(context.Context, string) ([]Recommendation, error) {
			<-block
			return demoItems, nil
		})
		sess := NewSession(matcher, nil)

		result := make(chan error, 1)
		go func() {
			_, err := sess.SubmitOpponentUtterance(ctx, "first")
			result <- err
		}()
		require.Eventually(t, func() bool {
			return sess.State() == StateAwaitingRecommendation
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, sess.Reset(true))
		close(block)

		assert.ErrorIs(t, <-result, ErrSuperseded)
		assert.Equal(t, StateIdle, sess.State())
		assert.Empty(t, sess.Log())
		_, live := sess.LiveRecommendations()
		assert.False(t, live)
	})
}

func TestAcceptRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("Should append a self utterance referencing the script", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		_, err := sess.SubmitOpponentUtterance(ctx, "the deposit must go up")
		require.NoError(t, err)

		utt, err := sess.AcceptRecommendation("script_001")
		require.NoError(t, err)
		assert.Equal(t, SpeakerSelf, utt.Speaker)
		assert.Equal(t, "script_001", utt.ScriptRef)
		assert.Equal(t, demoItems[0].Body, utt.Text)

		assert.Equal(t, StateCapturing, sess.State())
		_, live := sess.LiveRecommendations()
		assert.False(t, live, "acceptance must clear the live set")
		assert.Len(t, sess.Log(), 2)
	})

	t.Run("Should reject an item outside the live set", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		_, err := sess.SubmitOpponentUtterance(ctx, "hello")
		require.NoError(t, err)

		_, err = sess.AcceptRecommendation("script_999")
		assert.ErrorIs(t, err, ErrUnknownRecommendation)
		assert.Len(t, sess.Log(), 1)
	})

	t.Run("Should reject acceptance outside the recommended state", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		_, err := sess.AcceptRecommendation("script_001")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestSubmitCustomReply(t *testing.T) {
	ctx := context.Background()

	t.Run("Should append a self utterance and clear recommendations", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		_, err := sess.SubmitOpponentUtterance(ctx, "hello")
		require.NoError(t, err)

		utt, err := sess.SubmitCustomReply("let me check with my team")
		require.NoError(t, err)
		assert.Equal(t, SpeakerSelf, utt.Speaker)
		assert.Empty(t, utt.ScriptRef)
		assert.Equal(t, StateCapturing, sess.State())
		_, live := sess.LiveRecommendations()
		assert.False(t, live)
	})

	t.Run("Should not be valid from idle", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		_, err := sess.SubmitCustomReply("hello")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Should reject empty text", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		_, err := sess.SubmitOpponentUtterance(ctx, "hello")
		require.NoError(t, err)
		_, err = sess.SubmitCustomReply("   ")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reset an empty session without confirmation", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		assert.NoError(t, sess.Reset(false))
	})

	t.Run("Should require confirmation when the log is non-empty", func(t *testing.T) {
		sess := NewSession(staticMatcher(demoItems, nil), nil)
		_, err := sess.SubmitOpponentUtterance(ctx, "hello")
		require.NoError(t, err)

		assert.ErrorIs(t, sess.Reset(false), ErrConfirmationRequired)
		assert.Len(t, sess.Log(), 1, "unconfirmed reset must not discard the log")

		require.NoError(t, sess.Reset(true))
		assert.Empty(t, sess.Log())
		assert.Equal(t, StateIdle, sess.State())
	})
}

func TestArchive(t *testing.T) {
	ctx := context.Background()

	t.Run("Should fail on an empty session and leave state unchanged", func(t *testing.T) {
		archiver := &capturingArchiver{}
		sess := NewSession(staticMatcher(demoItems, nil), archiver)
		_, err := sess.Archive(ctx, "Zhongguancun Bank")
		assert.ErrorIs(t, err, ErrEmptySession)
		assert.Equal(t, StateIdle, sess.State())
		assert.Empty(t, archiver.records)
	})

	t.Run("Should extract decision-marker utterances in log order", func(t *testing.T) {
		archiver := &capturingArchiver{}
		sess := NewSession(staticMatcher(nil, errors.New("down")), archiver)
		_, _ = sess.SubmitOpponentUtterance(ctx, "we could accept this deal if the ratio steps down")
		_, err := sess.SubmitCustomReply("ok, agreed")
		require.NoError(t, err)

		rec, err := sess.Archive(ctx, "Zhongguancun Bank")
		require.NoError(t, err)
		require.Len(t, rec.KeyDecisions, 2)
		assert.Contains(t, rec.KeyDecisions[0], "accept this deal")
		assert.Equal(t, "ok, agreed", rec.KeyDecisions[1])
	})

	t.Run("Should truncate long decisions and cap the count", func(t *testing.T) {
		archiver := &capturingArchiver{}
		sess := NewSession(staticMatcher(nil, errors.New("down")), archiver)
		long := "we agree that the deposit ratio should be stepped over three months starting at seven percent"
		for _, text := range []string{long, "accepted", "approved", "confirmed as final decision"} {
			_, _ = sess.SubmitOpponentUtterance(ctx, text)
		}

		rec, err := sess.Archive(ctx, "SPD Bank")
		require.NoError(t, err)
		require.Len(t, rec.KeyDecisions, 3, "key decisions are capped")
		assert.Len(t, []rune(rec.KeyDecisions[0]), 33, "30-rune preview plus ellipsis")
	})

	t.Run("Should hand the record off and reset the session", func(t *testing.T) {
		archiver := &capturingArchiver{}
		sess := NewSession(staticMatcher(demoItems, nil), archiver)
		_, err := sess.SubmitOpponentUtterance(ctx, "shall we talk about the deposit")
		require.NoError(t, err)
		_, err = sess.AcceptRecommendation("script_001")
		require.NoError(t, err)

		rec, err := sess.Archive(ctx, "Zhongguancun Bank")
		require.NoError(t, err)
		assert.Equal(t, "Zhongguancun Bank", rec.Counterparty)
		assert.Len(t, rec.Log, 2)

		require.Len(t, archiver.records, 1)
		assert.Equal(t, rec.Counterparty, archiver.records[0].Counterparty)

		assert.Equal(t, StateIdle, sess.State())
		assert.Empty(t, sess.Log())
	})

	t.Run("Should keep the session when the archiver fails", func(t *testing.T) {
		archiver := &capturingArchiver{err: errors.New("store unavailable")}
		sess := NewSession(staticMatcher(demoItems, nil), archiver)
		_, err := sess.SubmitOpponentUtterance(ctx, "hello")
		require.NoError(t, err)

		_, err = sess.Archive(ctx, "SPD Bank")
		require.Error(t, err)
		assert.Len(t, sess.Log(), 1, "a failed handoff must not lose the log")
	})
}
