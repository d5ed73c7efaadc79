package translate

import (
	"strings"
	"testing"
)

func TestProtectRestoreRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"time range", "The library is open from 8:00 A.M. to 10:00 P.M. daily."},
		{"dash range", "Lab hours: 9 AM - 5 PM on weekdays."},
		{"single time", "The seminar starts at 3:30 PM sharp."},
		{"numeric date", "The fee deadline is 10/09/2025."},
		{"bare year", "Admissions for 2025 are open."},
		{"acronym", "The CSE department follows the JNTU syllabus."},
		{"mixed", "CSE lab runs 8:00 AM to 11:00 AM, deadline 12/01/2025."},
		{"nothing protected", "where is the library"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked, segs := Protect(tt.text)
			if got := Restore(masked, segs); got != tt.text {
				t.Fatalf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestProtectMasksRangeAsOneSegment(t *testing.T) {
	masked, segs := Protect("Open 8:00 A.M. to 10:00 P.M. today")
	if len(segs) != 1 {
		t.Fatalf("segments = %d (%v), want 1", len(segs), segs)
	}
	if segs[0] != "8:00 A.M. to 10:00 P.M." {
		t.Fatalf("segment = %q, want the full range", segs[0])
	}
	if strings.Contains(masked, "A.M.") || strings.Contains(masked, "P.M.") {
		t.Fatalf("masked text still contains time literals: %q", masked)
	}
}

func TestProtectLeavesTextAroundPlaceholders(t *testing.T) {
	masked, segs := Protect("The CSE lab opens at 9:00 AM")
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	if !strings.Contains(masked, "The") || !strings.Contains(masked, "lab opens at") {
		t.Fatalf("surrounding text missing from masked form: %q", masked)
	}
}

func TestRestoreWithManySegmentsDoesNotCollide(t *testing.T) {
	// Placeholder ids 1 and 10 must not be confused during restore.
	parts := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		parts = append(parts, "AB")
	}
	text := strings.Join(parts, " and ")
	masked, segs := Protect(text)
	if len(segs) != 12 {
		t.Fatalf("segments = %d, want 12", len(segs))
	}
	if got := Restore(masked, segs); got != text {
		t.Fatalf("round trip = %q, want %q", got, text)
	}
}
