package classify

import "strings"

// Severity ranks how urgent a detected concern is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ConcernType names the wellbeing category a message matched.
type ConcernType string

const (
	ConcernSuicide        ConcernType = "suicide"
	ConcernSelfHarm       ConcernType = "self_harm"
	ConcernDepression     ConcernType = "depression"
	ConcernAcademicStress ConcernType = "academic_stress"
)

// Concern is the outcome of scanning one message for wellbeing signals.
type Concern struct {
	Detected bool
	Type     ConcernType
	Severity Severity
	Keywords []string
}

type concernList struct {
	ctype    ConcernType
	severity Severity
	keywords []string
}

// Lists are ordered by priority: the first list with a hit decides the
// concern type and base severity. Keyword matching is substring based on
// the lowercased message.
var concernLists = []concernList{
	{ConcernSuicide, SeverityCritical, []string{
		"kill myself", "end my life", "suicide", "suicidal", "want to die", "not worth living",
		"better off dead", "end it all", "take my life", "hurt myself", "self harm",
		"cut myself", "overdose", "jump off", "hang myself", "no point living",
		"life is meaningless", "nothing matters", "can't go on", "give up",
		"hopeless", "worthless", "burden", "everyone would be better without me",
	}},
	{ConcernSelfHarm, SeverityHigh, []string{
		"cut myself", "hurt myself", "self harm", "burn myself",
	}},
	{ConcernDepression, SeverityMedium, []string{
		"depressed", "depression", "sad all the time", "crying", "hopeless",
		"empty", "numb", "can't feel", "lost", "alone", "isolated",
		"anxiety", "panic", "overwhelmed", "stressed", "can't cope",
		"mental health", "therapy", "counseling", "medication",
	}},
	{ConcernAcademicStress, SeverityMedium, []string{
		"failing", "can't pass", "academic probation", "expelled", "drop out",
		"parents will kill me", "disappointed", "shame", "embarrassed",
		"waste of money", "waste of time", "not smart enough", "stupid",
	}},
}

// DetectConcern scans message for wellbeing keywords. All lists are scanned
// so the keyword tally is complete; the type comes from the highest-priority
// list that hit, and more than one keyword overall bumps the severity one
// level (critical stays critical).
func DetectConcern(message string) Concern {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return Concern{}
	}

	var c Concern
	seen := map[string]bool{}
	for _, list := range concernLists {
		for _, kw := range list.keywords {
			if !strings.Contains(text, kw) || seen[kw] {
				continue
			}
			seen[kw] = true
			c.Keywords = append(c.Keywords, kw)
			if !c.Detected {
				c.Detected = true
				c.Type = list.ctype
				c.Severity = list.severity
			}
		}
	}
	if len(c.Keywords) > 1 {
		c.Severity = bump(c.Severity)
	}
	return c
}

func bump(s Severity) Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	case SeverityHigh:
		return SeverityCritical
	default:
		return s
	}
}
