package workflow

import (
	"time"

	"github.com/negotiapro/copilot/engine/core"
	"github.com/negotiapro/copilot/engine/negotiation"
)

// Status marks whether a negotiation record is finished or still open.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"

	// StatusAll matches every record in list filters.
	StatusAll Status = "all"
)

// Priority ranks a follow-up item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TodoStatus tracks a follow-up item's completion.
type TodoStatus string

const (
	TodoPending   TodoStatus = "pending"
	TodoCompleted TodoStatus = "completed"
)

// Todo is a follow-up action captured during the review.
type Todo struct {
	Title    string     `json:"title"`
	Owner    string     `json:"owner"`
	Deadline string     `json:"deadline"`
	Priority Priority   `json:"priority"`
	Status   TodoStatus `json:"status"`
}

// MeetingNotes carries the structured minutes of the negotiation.
type MeetingNotes struct {
	Attendees     string `json:"attendees"`
	Topics        string `json:"topics"`
	Agreements    string `json:"agreements"`
	Disagreements string `json:"disagreements"`
}

// LearningKind classifies a script learning entry.
type LearningKind string

const (
	LearningSuccess     LearningKind = "success"
	LearningImprovement LearningKind = "improvement"
)

// ScriptLearning records how a script performed in the field.
type ScriptLearning struct {
	Kind       LearningKind `json:"kind"`
	Scene      string       `json:"scene"`
	Situation  string       `json:"situation"`
	Script     string       `json:"script"`
	Effect     string       `json:"effect"`
	Suggestion string       `json:"suggestion,omitempty"`
}

// Record is one archived negotiation. Records are immutable once
// stored; the only mutation path is deletion.
type Record struct {
	ID              core.ID                 `json:"id"`
	Counterparty    string                  `json:"counterparty"`
	Date            time.Time               `json:"date"`
	Status          Status                  `json:"status"`
	Duration        time.Duration           `json:"duration"`
	Log             []negotiation.Utterance `json:"log"`
	Summary         string                  `json:"summary"`
	KeyDecisions    []string                `json:"key_decisions"`
	MeetingNotes    *MeetingNotes           `json:"meeting_notes,omitempty"`
	Todos           []Todo                  `json:"todos,omitempty"`
	ScriptLearnings []ScriptLearning        `json:"script_learnings,omitempty"`
}

// newRecordFromSession converts an archived live session into a
// completed record.
func newRecordFromSession(rec negotiation.ArchiveRecord) *Record {
	return &Record{
		ID:           core.MustNewID(),
		Counterparty: rec.Counterparty,
		Date:         rec.Date,
		Status:       StatusCompleted,
		Duration:     rec.Duration,
		Log:          rec.Log,
		Summary:      rec.Summary,
		KeyDecisions: rec.KeyDecisions,
	}
}
