package negotiation

import (
	"time"

	"github.com/negotiapro/copilot/engine/core"
)

// Speaker identifies which side of the table an utterance came from.
type Speaker string

const (
	SpeakerOpponent Speaker = "opponent"
	SpeakerSelf     Speaker = "self"
)

// State is the live session's position in the capture/recommend cycle.
type State string

const (
	StateIdle                   State = "idle"
	StateCapturing              State = "capturing"
	StateAwaitingRecommendation State = "awaiting_recommendation"
	StateRecommended            State = "recommended"
)

// Utterance is one entry in the ordered, append-only conversation log.
// ScriptRef is set only when the utterance originated from an accepted
// recommendation.
type Utterance struct {
	ID         core.ID   `json:"id"`
	Speaker    Speaker   `json:"speaker"`
	Text       string    `json:"text"`
	ScriptRef  string    `json:"script_ref,omitempty"`
	ScriptName string    `json:"script_name,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Recommendation is one suggested script returned by the playbook
// matching service.
type Recommendation struct {
	ID    string `json:"id"`
	Scene string `json:"scene"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Tip   string `json:"tip"`
}

// RecommendationSet is the ephemeral set of suggestions keyed on the
// opponent utterance that triggered it. At most one set is live per
// session; the next opponent utterance, an acceptance, or a dismissal
// replaces it.
type RecommendationSet struct {
	RequestUtteranceID core.ID
	Items              []Recommendation
}

// Contains reports whether the set holds a recommendation with the
// given ID.
func (rs *RecommendationSet) Contains(id string) bool {
	if rs == nil {
		return false
	}
	for i := range rs.Items {
		if rs.Items[i].ID == id {
			return true
		}
	}
	return false
}

// item returns the recommendation with the given ID, if present.
func (rs *RecommendationSet) item(id string) (Recommendation, bool) {
	if rs == nil {
		return Recommendation{}, false
	}
	for i := range rs.Items {
		if rs.Items[i].ID == id {
			return rs.Items[i], true
		}
	}
	return Recommendation{}, false
}

// ArchiveRecord is the completed session handed off to the archive.
// Ownership of the log transfers by value; the live session resets
// after a successful handoff.
type ArchiveRecord struct {
	Counterparty string
	Date         time.Time
	Duration     time.Duration
	Log          []Utterance
	Summary      string
	KeyDecisions []string
}
