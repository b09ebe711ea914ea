package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/negotiapro/copilot/engine/core"
	"github.com/negotiapro/copilot/engine/negotiation"
)

// ErrRecordNotFound is returned when an export targets an unknown
// record ID.
var ErrRecordNotFound = errors.New("record not found")

// Export renders the record as a plain-text review report. The output
// is a pure function of the record so the same record always exports
// byte-identically, which audit and tests rely on.
func (a *Archive) Export(id core.ID) (string, error) {
	rec, ok := a.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return renderReport(rec), nil
}

func renderReport(rec *Record) string {
	var b strings.Builder
	b.WriteString("Negotiation Review Report\n")
	b.WriteString("=========================\n\n")
	fmt.Fprintf(&b, "Counterparty: %s\n", rec.Counterparty)
	fmt.Fprintf(&b, "Date:         %s\n", rec.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Duration:     %s\n", formatDuration(rec.Duration))
	fmt.Fprintf(&b, "Turns:        %d\n", len(rec.Log))

	b.WriteString("\nKey Decisions:\n")
	if len(rec.KeyDecisions) == 0 {
		b.WriteString("(none)\n")
	}
	for i, decision := range rec.KeyDecisions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, decision)
	}

	b.WriteString("\nSummary:\n")
	b.WriteString(rec.Summary)
	b.WriteString("\n")

	b.WriteString("\nConversation Log:\n")
	for i := range rec.Log {
		fmt.Fprintf(&b, "[%s] %s: %s\n",
			rec.Log[i].Timestamp.Format("15:04"),
			speakerLabel(rec.Log[i].Speaker),
			rec.Log[i].Text)
	}
	return b.String()
}

func speakerLabel(sp negotiation.Speaker) string {
	if sp == negotiation.SpeakerOpponent {
		return "Opponent"
	}
	return "Self"
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	return d.Round(time.Second).String()
}
