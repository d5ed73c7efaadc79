package compose

import (
	"fmt"

	"github.com/vivekmuskan03/sahayak/internal/classify"
)

// ConcernReply returns the supportive answer for a detected wellbeing
// concern. These are always served before any other branch.
func ConcernReply(c classify.Concern, name string) string {
	if name == "" {
		name = "Student"
	}
	switch c.Type {
	case classify.ConcernSuicide:
		return fmt.Sprintf(`I'm really concerned about what you're sharing, %s. 😔 Your life has value and meaning, even when it doesn't feel that way right now.

**Please know that you're not alone in this struggle.**

Here are some resources that can help:
• **Crisis Helpline (India):** 9152987821 (24/7)
• **National Suicide Prevention Helpline:** 1800-599-0019
• **Vignan University Counseling Center:** Available on campus
• **Your family and friends** care about you deeply

**What you're feeling is temporary, even if it doesn't feel that way.** There are people who want to help you through this difficult time.

Would you like to talk about what's making you feel this way? I'm here to listen without judgment. 💙`, name)
	case classify.ConcernSelfHarm:
		return fmt.Sprintf(`I'm worried about you, %s. 💙 I can hear that you're going through a really tough time right now.

**Your safety is the most important thing.** Hurting yourself won't solve the problems you're facing, and there are better ways to cope with these feelings.

**You deserve support and care:**
• Talk to someone you trust - a friend, family member, or counselor
• Vignan University has counseling services available
• Consider reaching out to a mental health professional
• Remember that these feelings are temporary

**What's really bothering you?** I'm here to listen and support you. 🤗

You don't have to face this alone.`, name)
	case classify.ConcernDepression:
		return fmt.Sprintf(`I can hear that you're struggling with some really difficult emotions, %s. 😔 It takes courage to share these feelings, and I want you to know that you're not alone.

**What you're experiencing is valid and treatable.** Many students go through similar challenges.

**Here are some things that might help:**
• **Talk to someone:** A trusted friend, family member, or counselor
• **University resources:** Vignan has counseling services for students
• **Professional help:** Consider speaking with a mental health professional
• **Self-care:** Try to maintain a routine and be gentle with yourself

**What's been weighing on your mind lately?** I'm here to listen and support you. 💙

Remember, seeking help is a sign of strength, not weakness.`, name)
	case classify.ConcernAcademicStress:
		return fmt.Sprintf(`I completely understand how you're feeling, %s. 😔 Academic pressure is one of the most common challenges students face, and it's absolutely normal to feel overwhelmed sometimes.

**First, let me tell you this - you're not alone, and your feelings are completely valid.**

**Let's tackle this together step by step:**

🎯 **Immediate Relief:**
• Take a deep breath - you've already taken the first step by reaching out
• One difficult period doesn't define your entire academic journey
• Your worth is not determined by grades or performance

📚 **Academic Support Available:**
• **Vignan's Academic Support Center** - free tutoring and study groups
• **Professor Office Hours** - they want to help you succeed
• **Peer Study Groups** - connect with classmates facing similar challenges

**I'm here to help you find practical solutions.** What would you like to focus on first? 🤝`, name)
	default:
		return fmt.Sprintf(`I can sense that you're going through a difficult time, %s. 😔 Whatever you're facing, please know that you don't have to handle it alone.

**It's okay to not be okay sometimes.** Reaching out for support is a sign of strength.

**Here are some ways to get help:**
• **Talk to someone you trust** - friends, family, or a counselor
• **University resources** - Vignan has support services available
• **Professional help** - Consider speaking with a mental health professional

**What's on your mind?** I'm here to listen. 💙`, name)
	}
}
