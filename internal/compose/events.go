package compose

import (
	"fmt"
	"strings"

	"github.com/vivekmuskan03/sahayak/internal/knowledge"
)

// EventDetail renders a single event with its dates.
func EventDetail(ev knowledge.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s", ev.Title, strings.TrimSpace(ev.Body))
	if !ev.StartsAt.IsZero() {
		fmt.Fprintf(&b, "\n\nStarts: %s", ev.StartsAt.Format("Jan 2, 2006 3:04 PM"))
	}
	if !ev.EndsAt.IsZero() {
		fmt.Fprintf(&b, "\nEnds: %s", ev.EndsAt.Format("Jan 2, 2006 3:04 PM"))
	}
	return b.String()
}

// EventList renders recent events as a numbered digest.
func EventList(events []knowledge.Document) string {
	if len(events) == 0 {
		return "No events available yet."
	}
	var b strings.Builder
	b.WriteString("Upcoming events:\n")
	for i, ev := range events {
		desc := ev.Body
		if len(desc) > 120 {
			desc = desc[:120] + "..."
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, ev.Title, desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

// EventNotFound is the miss answer, with the latest events as a fallback.
func EventNotFound(events []knowledge.Document) string {
	return "I could not find that event. Here are the latest events:\n" + EventList(events)
}
