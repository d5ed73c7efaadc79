package session

import (
	"regexp"
	"strings"
)

// Keyword tables are ordered so the more specific phrase wins; matching is
// substring based on the lowercased message.
var departmentKeywords = []struct{ keyword, department string }{
	{"computer science engineering", "Computer Science Engineering"},
	{"computer science and engineering", "Computer Science"},
	{"computer science", "Computer Science"},
	{"cse", "Computer Science"},
	{"electronics", "Electronics and Communication"},
	{"ece", "Electronics and Communication"},
	{"mechanical", "Mechanical Engineering"},
	{"civil", "Civil Engineering"},
	{"electrical", "Electrical Engineering"},
	{"management", "Management"},
	{"mba", "Management"},
	{"pharmacy", "Pharmacy"},
	{"b.pharm", "Pharmacy"},
	{"m.pharm", "Pharmacy"},
}

var yearPatterns = []struct {
	re   *regexp.Regexp
	year string
}{
	{regexp.MustCompile(`first year|1st year|1 year`), "First Year"},
	{regexp.MustCompile(`second year|2nd year|2 year`), "Second Year"},
	{regexp.MustCompile(`third year|3rd year|3 year`), "Third Year"},
	{regexp.MustCompile(`fourth year|4th year|4 year`), "Fourth Year"},
	{regexp.MustCompile(`final year|last year`), "Final Year"},
}

var nameRe = regexp.MustCompile(`(?i)(?:my name is|call me)\s+([a-zA-Z][a-zA-Z ]*)`)

var interestKeywords = []struct{ keyword, interest string }{
	{"programming", "programming"},
	{"coding", "programming"},
	{"software development", "software development"},
	{"web development", "web development"},
	{"mobile app", "mobile development"},
	{"data science", "data science"},
	{"machine learning", "machine learning"},
	{"cybersecurity", "cybersecurity"},
	{"networking", "networking"},
	{"database", "database management"},
	{"cloud computing", "cloud computing"},
	{"blockchain", "blockchain"},
	{"gaming", "game development"},
	{"ui/ux", "UI/UX design"},
	{"design", "design"},
	{"robotics", "robotics"},
	{"iot", "Internet of Things"},
	{"embedded systems", "embedded systems"},
	{"marketing", "marketing"},
	{"finance", "finance"},
	{"entrepreneurship", "entrepreneurship"},
}

var goalKeywords = []struct{ keyword, goal string }{
	{"higher studies", "higher studies"},
	{"masters", "masters degree"},
	{"phd", "PhD"},
	{"research", "research career"},
	{"placement", "job placement"},
	{"internship", "internship"},
	{"startup", "startup/entrepreneurship"},
	{"government job", "government job"},
	{"abroad", "studying abroad"},
	{"scholarship", "scholarship"},
	{"cgpa", "improving CGPA"},
	{"certification", "certifications"},
}

// Formatting preferences stick until the user states a new one.
var lengthKeywords = []struct{ keyword, length string }{
	{"short answer", "short"},
	{"keep it short", "short"},
	{"keep answers short", "short"},
	{"answer briefly", "short"},
	{"brief answer", "short"},
	{"detailed answer", "long"},
	{"long answer", "long"},
	{"in detail", "long"},
	{"explain fully", "long"},
}

var styleKeywords = []struct{ keyword, style string }{
	{"be formal", "formal"},
	{"formal tone", "formal"},
	{"answer formally", "formal"},
	{"no emoji", "formal"},
	{"be casual", "friendly"},
	{"friendly tone", "friendly"},
}

var challengeKeywords = []struct{ keyword, challenge string }{
	{"difficult", "academic difficulty"},
	{"struggling", "academic struggle"},
	{"failing", "academic performance"},
	{"low cgpa", "low CGPA"},
	{"exam stress", "exam stress"},
	{"time management", "time management"},
	{"assignment", "assignment problems"},
	{"placement", "placement concerns"},
	{"fees", "financial issues"},
	{"hostel", "hostel problems"},
	{"language barrier", "language barriers"},
}

// ExtractContext mines a message (in English) for facts worth remembering:
// department, year of study, preferred name, interests, goals and
// challenges. The result is merged into the session by the caller.
func ExtractContext(message string) Context {
	lower := strings.ToLower(message)
	var c Context

	for _, d := range departmentKeywords {
		if strings.Contains(lower, d.keyword) {
			c.Department = d.department
			break
		}
	}
	for _, y := range yearPatterns {
		if y.re.MatchString(lower) {
			c.Year = y.year
			break
		}
	}
	if m := nameRe.FindStringSubmatch(message); m != nil {
		c.PreferredName = strings.TrimSpace(m[1])
	}
	for _, i := range interestKeywords {
		if strings.Contains(lower, i.keyword) {
			c.Interests = append(c.Interests, i.interest)
		}
	}
	if len(c.Interests) > 0 {
		c.LastTopics = append([]string(nil), c.Interests...)
	}
	for _, g := range goalKeywords {
		if strings.Contains(lower, g.keyword) {
			c.AcademicGoals = append(c.AcademicGoals, g.goal)
		}
	}
	for _, ch := range challengeKeywords {
		if strings.Contains(lower, ch.keyword) {
			c.CurrentChallenges = append(c.CurrentChallenges, ch.challenge)
		}
	}
	for _, l := range lengthKeywords {
		if strings.Contains(lower, l.keyword) {
			c.AnswerLength = l.length
			break
		}
	}
	for _, st := range styleKeywords {
		if strings.Contains(lower, st.keyword) {
			c.ResponseStyle = st.style
			break
		}
	}
	return c
}
