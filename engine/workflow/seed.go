package workflow

import (
	"time"

	"github.com/negotiapro/copilot/engine/core"
	"github.com/negotiapro/copilot/engine/negotiation"
)

// Seed loads the demo record set used when the archive starts empty.
func Seed(a *Archive) {
	for i := len(seedRecords) - 1; i >= 0; i-- {
		a.Add(seedRecords[i])
	}
}

func seedUtterance(speaker negotiation.Speaker, at, text string) negotiation.Utterance {
	ts, _ := time.Parse("2006-01-02 15:04", at)
	return negotiation.Utterance{
		ID:        core.MustNewID(),
		Speaker:   speaker,
		Text:      text,
		Timestamp: ts,
	}
}

func seedDate(date string) time.Time {
	ts, _ := time.Parse("2006-01-02", date)
	return ts
}

var seedRecords = []*Record{
	{
		ID:           core.MustNewID(),
		Counterparty: "Zhongguancun Bank",
		Date:         seedDate("2026-02-08"),
		Status:       StatusCompleted,
		Duration:     45 * time.Minute,
		KeyDecisions: []string{
			"Stepped deposit plan won preliminary approval",
			"Agreed to provide an additional risk reserve",
			"Final sign-off pending the review committee",
		},
		Log: []negotiation.Utterance{
			seedUtterance(negotiation.SpeakerOpponent, "2026-02-08 09:15",
				"You recently went through a shareholder change. Is the company in trouble?"),
			seedUtterance(negotiation.SpeakerSelf, "2026-02-08 09:16",
				"Thanks for asking. The adjustment is part of a group-level strategy refresh; the new shareholder has a stronger background and the business is unaffected."),
		},
		Summary: "Against Zhongguancun Bank's push to raise the deposit ratio, our stepped plan won preliminary approval. The bank probed the shareholder change and asset quality; data-backed answers and alternative plans held the line.",
		MeetingNotes: &MeetingNotes{
			Attendees:     "Ours: commercial director Zhang San, risk manager Li Si. Theirs: review committee chair Wang Wu, business lead Zhao Liu.",
			Topics:        "1. Impact of the shareholder change on business stability; 2. Asset quality improvement measures; 3. Deposit ratio adjustment plan",
			Agreements:    "1. The stepped deposit plan is viable; 2. We report risk data weekly; 3. Committee verdict within 3 business days",
			Disagreements: "1. They insist on 10% deposit, we consider it too high; 2. Expectations differ on the pace of M3+ improvement",
		},
		Todos: []Todo{
			{Title: "Prepare the review committee briefing deck", Owner: "Zhang San", Deadline: "2026-02-10", Priority: PriorityHigh, Status: TodoCompleted},
			{Title: "Compile asset quality trend data for the last 3 months", Owner: "Li Si", Deadline: "2026-02-09", Priority: PriorityHigh, Status: TodoCompleted},
			{Title: "Follow up on the committee approval", Owner: "Zhang San", Deadline: "2026-02-11", Priority: PriorityMedium, Status: TodoPending},
		},
		ScriptLearnings: []ScriptLearning{
			{
				Kind:      LearningSuccess,
				Scene:     "Shareholder change pushback",
				Situation: "They questioned whether the shareholder change destabilizes operations",
				Script:    "Proactive candor: the adjustment is a group strategy refresh, the new shareholder is stronger, management is stable, and Q4 originations grew 12% quarter over quarter.",
				Effect:    "They accepted the explanation and did not press further; volunteering data built credibility.",
			},
			{
				Kind:      LearningSuccess,
				Scene:     "Deposit negotiation",
				Situation: "They demanded the deposit rise from 5% to 10%",
				Script:    "Stepped deposit plan: 7% for the first 3 months, back to 6% if M3+ stays under 4%, 8% if it exceeds 4.5%.",
				Effect:    "They found the stepped plan reasonable and agreed to table it at the committee, avoiding a flat-refusal standoff.",
			},
			{
				Kind:       LearningImprovement,
				Scene:      "Asset quality discussion",
				Situation:  "They pointed out our M3+ of 4.8% versus the 3.2% industry average",
				Script:     "We conceded the number is elevated but stressed the recent improvement trend",
				Effect:     "They stayed skeptical; the pace of improvement did not convince them",
				Suggestion: "Break the number down further: legacy versus newly originated assets, plus peer benchmarks, to strengthen the case",
			},
		},
	},
	{
		ID:           core.MustNewID(),
		Counterparty: "SPD Bank",
		Date:         seedDate("2026-02-05"),
		Status:       StatusCompleted,
		Duration:     30 * time.Minute,
		KeyDecisions: []string{
			"Current commercial terms stay in place",
			"Monthly data reporting frequency increases",
			"Next month's schedule confirmed at 8 million",
		},
		Summary: "Routine business sync confirming next month's funding schedule and reporting cadence. Cooperation is stable with no major issues.",
	},
	{
		ID:           core.MustNewID(),
		Counterparty: "Huaxia Bank",
		Date:         seedDate("2026-02-01"),
		Status:       StatusPending,
		Summary:      "Planned discussion of a potential new product partnership",
	},
}
