package compose

// RegulationReply answers R22/R25 curriculum questions from a built-in
// knowledge table, so regulation basics work without any corpus.
func RegulationReply(regulation string) string {
	switch regulation {
	case "R22":
		return `## R22 Regulations (2022) - JNTU Academic Framework

**Overview:**
R22 refers to the 2022 academic regulations for undergraduate programs at JNTU-affiliated institutions, including Vignan University.

**Key Features:**
- **Duration:** 4 years (8 semesters) for B.Tech programs
- **Credit System:** Choice Based Credit System (CBCS)
- **Total Credits:** 160 credits minimum for graduation
- **CGPA Requirement:** Minimum 5.0 CGPA for graduation

**Credit Distribution:**
- **Mathematics & Basic Sciences:** 25-30 credits
- **Engineering Sciences:** 25-30 credits
- **Professional Core:** 50-60 credits
- **Professional Electives:** 15-20 credits
- **Open Electives:** 10-15 credits
- **Project Work:** 8-12 credits
- **Internship/Industrial Training:** 2-4 credits

**Evaluation System:**
- **Internal Assessment:** 30% (assignments, quizzes, mid-term exams)
- **External Assessment:** 70% (end-semester examinations)
- **Grading:** 10-point scale (O, A+, A, B+, B, C, P, F)

**Project Requirements:**
- **Minor Project:** 6th semester (2 credits)
- **Major Project:** 7th & 8th semesters (6 credits each)

Would you like to know more about specific aspects of R22 regulations, such as course structure for your department or evaluation criteria?`
	case "R25":
		return `## R25 Regulations (2025) - JNTU Academic Framework

**Overview:**
R25 refers to the 2025 academic regulations for undergraduate programs at JNTU-affiliated institutions, including Vignan University. This is the newer curriculum framework.

**Key Features:**
- **Duration:** 4 years (8 semesters) for B.Tech programs
- **Credit System:** Enhanced Choice Based Credit System (CBCS)
- **Total Credits:** 160-170 credits for graduation
- **CGPA Requirement:** Minimum 5.0 CGPA for graduation

**Enhanced Features:**
- **Industry Integration:** More emphasis on industry-relevant skills
- **Research Component:** Mandatory research methodology course
- **Skill Enhancement:** Additional skill development courses
- **Flexible Electives:** More choice in professional and open electives

**Credit Distribution:**
- **Mathematics & Basic Sciences:** 25-30 credits
- **Engineering Sciences:** 25-30 credits
- **Professional Core:** 50-60 credits
- **Professional Electives:** 20-25 credits
- **Open Electives:** 15-20 credits
- **Project Work:** 10-15 credits
- **Internship/Industrial Training:** 3-5 credits
- **Skill Development:** 5-8 credits

**Evaluation System:**
- **Continuous Assessment:** 40% (assignments, quizzes, mid-term exams, lab work)
- **End-Semester Examination:** 60%
- **Grading:** 10-point scale with enhanced criteria

Would you like specific details about R25 regulations for your program or any particular aspect?`
	default:
		return `## Academic Regulations at Vignan University

**Current Regulation Frameworks:**
- **R22 (2022):** Traditional 4-year B.Tech programs with 160 credits
- **R25 (2025):** Enhanced curriculum with industry focus and 160-170 credits

**Key Differences:**
- R25 has more industry integration and skill development
- R25 includes mandatory research methodology
- R25 offers more flexible elective choices
- R25 has enhanced evaluation criteria

**Common Features:**
- Choice Based Credit System (CBCS)
- Minimum 5.0 CGPA for graduation
- 4-year duration (8 semesters)
- Project work and internship requirements

Which specific regulation (R22 or R25) would you like to know more about?`
	}
}
