package compose

import (
	"fmt"
	"time"

	"github.com/vivekmuskan03/sahayak/internal/classify"
)

// Canned replies are authored in English; the caller localizes them.

func GreetingReply(kind classify.GreetingKind, name, department string) string {
	if name == "" {
		name = "Student"
	}
	departmentText := ""
	if department != "" {
		departmentText = fmt.Sprintf(" from the %s department", department)
	}
	switch kind {
	case classify.GreetingHowAreYou:
		return "I'm doing great, thank you for asking! 😊 I'm here and ready to help you with any university-related questions or concerns you might have. What would you like to know about Vignan University today?"
	case classify.GreetingFarewell:
		return fmt.Sprintf("You're very welcome, %s! 😊 I'm always happy to help. Feel free to come back anytime you have questions about Vignan University. Have a great day!", name)
	case classify.GreetingAck:
		return "I understand! 👍 I'm here whenever you need help with anything related to Vignan University. What would you like to know about?"
	default:
		return fmt.Sprintf("Hello %s%s! 👋 I'm Vignan University's AI Assistant. I'm here to help you with anything related to your university experience - academics, campus life, admissions, or any questions you might have. How can I assist you today?", name, departmentText)
	}
}

// FirstTurnGreeting prefixes an answer on the first exchange of a session.
func FirstTurnGreeting(name, answer string) string {
	if name == "" {
		name = "Student"
	}
	return fmt.Sprintf("Hello %s! 👋 %s", name, answer)
}

const studyTips = `Here are some study tips:
1. Set a clear goal for each session.
2. Use 25-30 minute focus blocks with 5-minute breaks.
3. Practice active recall and spaced repetition.
4. Summarize what you learned in your own words.
5. Reduce distractions: notifications off, quiet space.
6. Sleep well and stay hydrated.`

func UtilityReply(kind classify.UtilityKind, now time.Time) string {
	switch kind {
	case classify.UtilityTime:
		return fmt.Sprintf("The current time is %s.", now.Format("3:04 PM"))
	case classify.UtilityDate:
		return fmt.Sprintf("Today's date is %s.", now.Format("January 2, 2006"))
	case classify.UtilityStudyTips:
		return studyTips
	}
	return "Here to help!"
}

func OutOfScopeReply() string {
	return "I'm Vignan University's AI Assistant! 😊 I'm here to help you with university-related questions, but I'm also happy to chat about general topics and provide support.\n\n" +
		"**I can help you with:**\n" +
		"• Academic programs, syllabus, and regulations (R22, R25)\n" +
		"• Admissions, fees, scholarships, placements\n" +
		"• Campus facilities: library, hostels, labs, timings\n" +
		"• Departments, faculty, student services\n" +
		"• Study tips and academic support\n\n" +
		"What would you like to know?"
}
