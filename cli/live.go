package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/negotiapro/copilot/engine/auth"
	"github.com/negotiapro/copilot/engine/negotiation"
)

// LiveCmd returns the interactive live-assist command. Each input line
// is treated as an opponent utterance; slash commands drive the rest
// of the session.
func LiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Run a live negotiation session",
		Long: `Run a live negotiation session. Type what the counterparty said to get
script recommendations. Commands:

  /use <n>            reply with recommendation n
  /reply <text>       reply with your own words
  /record             start simulated transcription
  /stop               stop transcription and stage the transcript
  /log                print the conversation so far
  /archive <name>     archive the session under the counterparty name
  /reset              discard the session
  /quit               leave`,
		RunE: runLive,
	}
}

func runLive(cmd *cobra.Command, _ []string) error {
	app, ctx, err := NewApp(cmd)
	if err != nil {
		return err
	}
	if err := app.RequireAccess(auth.Requirement{}); err != nil {
		return err
	}

	sess := negotiation.NewSession(
		negotiation.MatcherFunc(app.Client.MatchPlaybook),
		app.Archive,
	)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Live session started. Type the counterparty's words, or /quit to leave.")

	var staged string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if staged != "" {
			fmt.Fprintf(out, "(staged transcript: %s)\n", staged)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/record":
			if sess.StartRecording() {
				fmt.Fprintln(out, "Recording. Use /stop to stage the transcript.")
			} else {
				fmt.Fprintln(out, "Already recording")
			}
		case line == "/stop":
			text, ok := sess.StopRecording()
			if !ok {
				fmt.Fprintln(out, "Not recording")
				continue
			}
			staged = text
			fmt.Fprintf(out, "Staged: %s\n", staged)
		case line == "/log":
			for _, utt := range sess.Log() {
				fmt.Fprintf(out, "[%s] %s: %s\n",
					utt.Timestamp.Format("15:04"), utt.Speaker, utt.Text)
			}
		case line == "/reset":
			if err := sess.Reset(false); errors.Is(err, negotiation.ErrConfirmationRequired) {
				fmt.Fprint(out, "Discard the current conversation? [y/N] ")
				if scanner.Scan() && strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
					_ = sess.Reset(true)
					fmt.Fprintln(out, "Session reset")
				}
			} else {
				fmt.Fprintln(out, "Session reset")
			}
			staged = ""
		case strings.HasPrefix(line, "/archive"):
			name := strings.TrimSpace(strings.TrimPrefix(line, "/archive"))
			if name == "" {
				fmt.Fprintln(out, "Usage: /archive <counterparty name>")
				continue
			}
			rec, err := sess.Archive(ctx, name)
			if err != nil {
				fmt.Fprintf(out, "Cannot archive: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Archived %d turns under %q\n", len(rec.Log), name)
		case strings.HasPrefix(line, "/use"):
			acceptRecommendation(cmd, sess, strings.TrimSpace(strings.TrimPrefix(line, "/use")))
		case strings.HasPrefix(line, "/reply"):
			text := strings.TrimSpace(strings.TrimPrefix(line, "/reply"))
			if staged != "" && text == "" {
				text, staged = staged, ""
			}
			if _, err := sess.SubmitCustomReply(text); err != nil {
				fmt.Fprintf(out, "Cannot reply: %v\n", err)
			}
		default:
			text := line
			if staged != "" {
				// A staged transcript becomes part of the pending input.
				text = staged + " " + line
				staged = ""
			}
			set, err := sess.SubmitOpponentUtterance(ctx, text)
			if err != nil {
				fmt.Fprintf(out, "No recommendations: %v\n", err)
				continue
			}
			printRecommendations(cmd, set)
		}
	}
	return scanner.Err()
}

func printRecommendations(cmd *cobra.Command, set *negotiation.RecommendationSet) {
	out := cmd.OutOrStdout()
	for i, item := range set.Items {
		fmt.Fprintf(out, "%d. [%s] %s\n   %s\n   Tip: %s\n", i+1, item.Scene, item.Title, item.Body, item.Tip)
	}
	fmt.Fprintln(out, "Reply with /use <n> or /reply <text>")
}

func acceptRecommendation(cmd *cobra.Command, sess *negotiation.Session, arg string) {
	out := cmd.OutOrStdout()
	set, ok := sess.LiveRecommendations()
	if !ok {
		fmt.Fprintln(out, "No live recommendations")
		return
	}
	idx := 0
	if _, err := fmt.Sscanf(arg, "%d", &idx); err != nil || idx < 1 || idx > len(set.Items) {
		fmt.Fprintf(out, "Usage: /use <1..%d>\n", len(set.Items))
		return
	}
	utt, err := sess.AcceptRecommendation(set.Items[idx-1].ID)
	if err != nil {
		fmt.Fprintf(out, "Cannot use recommendation: %v\n", err)
		return
	}
	fmt.Fprintf(out, "You: %s\n", utt.Text)
}
