package compose

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	dayTokenRe = regexp.MustCompile(`(?i)\b(sun|mon|tue|tues|wed|thu|thur|thurs|fri|sat|sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

var fullDays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
var abbrDays = []string{"sun", "mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat"}

// ExtractDaySection pulls the sessions for one weekday out of free-form
// timetable text. It understands both block form (a day-name header line
// followed by session lines) and table form (a header row of day columns).
func ExtractDaySection(text string, weekday time.Weekday) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " ")); l != "" {
			lines = append(lines, l)
		}
	}
	targetFull := strings.ToLower(weekday.String())
	targetAbbr := targetFull[:3]

	// Block form first.
	collecting := false
	var block []string
	for _, line := range lines {
		l := strings.ToLower(line)
		if isDayOnly(l) {
			collecting = strings.Contains(l, targetFull) || strings.HasPrefix(l, targetAbbr)
			continue
		}
		if collecting {
			if dayTokenRe.MatchString(l) {
				break
			}
			block = append(block, line)
		}
	}
	if len(block) > 0 {
		return block
	}

	// Table form: find the header row and read today's column downward.
	headerIdx, dayCol := -1, -1
	for i, line := range lines {
		if !dayTokenRe.MatchString(line) {
			continue
		}
		cells := splitCells(line)
		for col, c := range cells {
			c = strings.ToLower(c)
			if c == targetFull || c == targetAbbr || strings.HasPrefix(c, targetAbbr) || strings.Contains(c, targetFull) {
				headerIdx, dayCol = i, col
				break
			}
		}
		if headerIdx != -1 {
			break
		}
	}
	if headerIdx == -1 {
		return nil
	}
	var picked []string
	for r := headerIdx + 1; r < len(lines) && r < headerIdx+40; r++ {
		row := lines[r]
		if dayTokenRe.MatchString(row) {
			break
		}
		cells := splitCells(row)
		if len(cells) <= dayCol {
			continue
		}
		if cell := strings.TrimSpace(cells[dayCol]); cell != "" {
			picked = append(picked, cell)
		}
	}
	return picked
}

func isDayOnly(l string) bool {
	t := strings.TrimSuffix(l, ":")
	for _, d := range fullDays {
		if t == d {
			return true
		}
	}
	for _, d := range abbrDays {
		if t == d {
			return true
		}
	}
	return false
}

// splitCells treats pipes and runs of whitespace as column separators.
// Line normalization has already collapsed wide gaps to single spaces.
func splitCells(line string) []string {
	return strings.Fields(strings.ReplaceAll(line, "|", " "))
}

// ScheduleReply renders the answer for "what's my schedule today".
func ScheduleReply(timetable string, now time.Time) string {
	day := now.Weekday()
	sessions := ExtractDaySection(timetable, day)
	if len(sessions) == 0 {
		if strings.TrimSpace(timetable) == "" {
			return "I don't have your timetable yet. Share it with me or upload it, and I'll tell you your schedule for any day."
		}
		return fmt.Sprintf("I couldn't find any sessions for %s in your timetable. It might be a free day!", day)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Here's your schedule for %s:\n", day)
	for i, s := range sessions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
