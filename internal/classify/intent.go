package classify

import (
	"regexp"
	"strings"
)

// Kind is the top-level conversational branch a message routes to.
type Kind string

const (
	KindSchedule   Kind = "schedule"
	KindGreeting   Kind = "greeting"
	KindTodo       Kind = "todo"
	KindEvent      Kind = "event"
	KindPersonal   Kind = "personal"
	KindRegulation Kind = "regulation"
	KindUtility    Kind = "utility"
	KindQuestion   Kind = "question"
	KindOutOfScope Kind = "out_of_scope"
)

// GreetingKind distinguishes canned greeting replies.
type GreetingKind string

const (
	GreetingHello     GreetingKind = "hello"
	GreetingHowAreYou GreetingKind = "how_are_you"
	GreetingFarewell  GreetingKind = "farewell"
	GreetingAck       GreetingKind = "ack"
)

// TodoAction is the sub-operation of a todo-branch message.
type TodoAction string

const (
	TodoCreate   TodoAction = "create"
	TodoComplete TodoAction = "complete"
	TodoClearAll TodoAction = "clear_all"
	TodoList     TodoAction = "list"
)

// UtilityKind is one of the allowed real-life helpers.
type UtilityKind string

const (
	UtilityTime      UtilityKind = "time"
	UtilityDate      UtilityKind = "date"
	UtilityStudyTips UtilityKind = "study_tips"
)

// Intent is the routing decision for one message, already translated to
// English. Only the fields for the matched Kind are populated.
type Intent struct {
	Kind Kind

	Greeting   GreetingKind
	Todo       TodoAction
	Utility    UtilityKind
	Regulation string // "R22", "R25" or "general"

	// EventTitle is the explicit title of "tell me about the event: X".
	// EventFollowUp marks a detail request relying on the remembered event.
	EventTitle    string
	EventFollowUp bool
}

var (
	scheduleRe = regexp.MustCompile(`(what'?s|what is|show|tell).*\b(schedule|timetable|routine)\b.*(today|now)|\b(today'?s|today)\b.*\b(schedule|timetable|routine)\b`)

	greetingHelloRe     = regexp.MustCompile(`^(hi|hello|hey|yo|hola|namaste|namaskar|vanakkam|salaam|good (morning|afternoon|evening|night)|gm|gn)$`)
	greetingHowAreYouRe = regexp.MustCompile(`^(how are you|how r u|hru|what'?s up|wass?up|sup|how'?s it going|how (is|are) it going|how are things|how you doing)$`)
	greetingFarewellRe  = regexp.MustCompile(`^(thank you|thanks|thx|ty|bye|goodbye|see you|take care|cya)$`)
	greetingAckRe       = regexp.MustCompile(`^(yes|no|ok|okay|sure|alright|k|kk|fine|great|cool)$`)

	todoWordRe     = regexp.MustCompile(`\b(homework|todo|to-?do|task|tasks|assignments?)\b`)
	todoCompleteRe = regexp.MustCompile(`\b(complete|completed|finish|finished|mark|done|did)\b`)
	todoClearAllRe = regexp.MustCompile(`(delete|clear|complete|finish|mark)\s+(all|everything)`)
	todoListRe     = regexp.MustCompile(`\b(show|list) my (todos?|to-?dos?|tasks)\b`)

	eventWordRe   = regexp.MustCompile(`\b(upcoming events?|events?)\b`)
	eventTitleRe  = regexp.MustCompile(`tell me about the event\s*:?\s*([^\n]+)`)
	eventFollowRe = regexp.MustCompile(`\b(give|explain|details|description|more about|tell me more)\b`)

	personalRes = []*regexp.Regexp{
		regexp.MustCompile(`my (course|branch|department|semester|year|schedule|timetable|grades|marks|attendance)`),
		regexp.MustCompile(`when is my (class|exam|test|assignment|project|quiz|viva)`),
		regexp.MustCompile(`how (do i|to) (register|enroll|apply) (for|in)`),
		regexp.MustCompile(`where is my (classroom|lab|faculty|mentor)`),
		regexp.MustCompile(`who is my (teacher|professor|mentor|advisor)`),
		regexp.MustCompile(`what are my (grades|marks|attendance|results)`),
		regexp.MustCompile(`(i need|i want) (information|details) about my`),
		regexp.MustCompile(`(show|tell) me my`),
		regexp.MustCompile(`(what|when|where|who|how) (is|are) my`),
		regexp.MustCompile(`enrolled in`),
	}

	regulationRe = regexp.MustCompile(`\br\s?22\b|\br\s?25\b|\bregulations?\b|\b(syllabus|curriculum)\b.*\br\s?2[25]\b`)

	utilityTimeRe  = regexp.MustCompile(`(what'?s|what is).*time|time now|current time`)
	utilityDateRe  = regexp.MustCompile(`(what'?s|what is).*date|today'?s date|current date`)
	utilityStudyRe = regexp.MustCompile(`study tips|how to study|focus better|time management|motivation`)

	generalQuestionRe = regexp.MustCompile(`\b(what is|what are|how does|why|when|where|who)\b`)
)

// campusKeywords anchor a message to the assistant's domain. A message
// matching none of them (and no general-question shape) gets the
// out-of-scope reply instead of a generated answer.
var campusKeywords = []string{
	"vignan", "university", "college", "student", "admission", "course", "program",
	"academic", "faculty", "campus", "library", "hostel", "placement", "exam",
	"semester", "degree", "bachelor", "master", "phd", "research", "thesis",
	"assignment", "project", "lab", "laboratory", "department", "engineering",
	"management", "pharmacy", "science", "technology", "education", "study",
	"scholarship", "fee", "tuition", "registration", "enrollment", "graduation",
	"convocation", "alumni", "career", "job", "internship", "training",
	"r22", "r25", "regulation", "regulations", "syllabus", "curriculum", "jntu",
	"jntuk", "jntua", "jntuh", "autonomous", "affiliated", "ugc", "aicte",
	"credit", "credits", "cgpa", "sgpa", "grade", "grades", "marking", "scheme",
	"evaluation", "assessment", "internal", "external", "midterm", "final",
	"practical", "theory", "tutorial", "seminar", "workshop", "industrial",
	"viva", "defense", "submission",
}

type intentRule struct {
	name  string
	match func(text string, hasLastEvent bool) (Intent, bool)
}

// intentRules run in order; the first matching rule wins. Order encodes
// precedence: completing a task must be checked before creating one, and a
// quoted event title before the generic event keyword.
var intentRules = []intentRule{
	{"schedule", func(t string, _ bool) (Intent, bool) {
		if scheduleRe.MatchString(t) {
			return Intent{Kind: KindSchedule}, true
		}
		return Intent{}, false
	}},
	{"greeting", func(t string, _ bool) (Intent, bool) {
		switch {
		case greetingHelloRe.MatchString(t):
			return Intent{Kind: KindGreeting, Greeting: GreetingHello}, true
		case greetingHowAreYouRe.MatchString(t):
			return Intent{Kind: KindGreeting, Greeting: GreetingHowAreYou}, true
		case greetingFarewellRe.MatchString(t):
			return Intent{Kind: KindGreeting, Greeting: GreetingFarewell}, true
		case greetingAckRe.MatchString(t):
			return Intent{Kind: KindGreeting, Greeting: GreetingAck}, true
		}
		return Intent{}, false
	}},
	{"todo_list", func(t string, _ bool) (Intent, bool) {
		if todoListRe.MatchString(t) {
			return Intent{Kind: KindTodo, Todo: TodoList}, true
		}
		return Intent{}, false
	}},
	{"todo_clear_all", func(t string, _ bool) (Intent, bool) {
		if todoWordRe.MatchString(t) && todoClearAllRe.MatchString(t) {
			return Intent{Kind: KindTodo, Todo: TodoClearAll}, true
		}
		return Intent{}, false
	}},
	{"todo_complete", func(t string, _ bool) (Intent, bool) {
		if todoWordRe.MatchString(t) && todoCompleteRe.MatchString(t) {
			return Intent{Kind: KindTodo, Todo: TodoComplete}, true
		}
		return Intent{}, false
	}},
	{"todo_create", func(t string, _ bool) (Intent, bool) {
		if todoWordRe.MatchString(t) {
			return Intent{Kind: KindTodo, Todo: TodoCreate}, true
		}
		return Intent{}, false
	}},
	{"event_title", func(t string, _ bool) (Intent, bool) {
		if m := eventTitleRe.FindStringSubmatch(t); m != nil {
			return Intent{Kind: KindEvent, EventTitle: strings.TrimSpace(m[1])}, true
		}
		return Intent{}, false
	}},
	{"event", func(t string, _ bool) (Intent, bool) {
		if eventWordRe.MatchString(t) {
			return Intent{Kind: KindEvent}, true
		}
		return Intent{}, false
	}},
	{"event_follow_up", func(t string, hasLastEvent bool) (Intent, bool) {
		if hasLastEvent && eventFollowRe.MatchString(t) {
			return Intent{Kind: KindEvent, EventFollowUp: true}, true
		}
		return Intent{}, false
	}},
	{"regulation", func(t string, _ bool) (Intent, bool) {
		if !regulationRe.MatchString(t) {
			return Intent{}, false
		}
		reg := "general"
		switch {
		case strings.Contains(t, "r22") || strings.Contains(t, "r 22"):
			reg = "R22"
		case strings.Contains(t, "r25") || strings.Contains(t, "r 25"):
			reg = "R25"
		}
		return Intent{Kind: KindRegulation, Regulation: reg}, true
	}},
	{"utility", func(t string, _ bool) (Intent, bool) {
		switch {
		case utilityTimeRe.MatchString(t):
			return Intent{Kind: KindUtility, Utility: UtilityTime}, true
		case utilityDateRe.MatchString(t):
			return Intent{Kind: KindUtility, Utility: UtilityDate}, true
		case utilityStudyRe.MatchString(t):
			return Intent{Kind: KindUtility, Utility: UtilityStudyTips}, true
		}
		return Intent{}, false
	}},
	{"personal", func(t string, _ bool) (Intent, bool) {
		for _, re := range personalRes {
			if re.MatchString(t) {
				return Intent{Kind: KindPersonal}, true
			}
		}
		return Intent{}, false
	}},
}

// ClassifyIntent routes text (English, lowercasing is internal) to a branch.
// hasLastEvent enables bare follow-up phrasing like "tell me more" to reach
// the remembered event.
func ClassifyIntent(text string, hasLastEvent bool) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range intentRules {
		if intent, ok := rule.match(t, hasLastEvent); ok {
			return intent
		}
	}
	if isCampusRelated(t) || generalQuestionRe.MatchString(t) {
		return Intent{Kind: KindQuestion}
	}
	return Intent{Kind: KindOutOfScope}
}

func isCampusRelated(t string) bool {
	for _, kw := range campusKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
