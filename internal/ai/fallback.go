package ai

import (
	"fmt"
	"strings"
)

// fallbackSkills maps lowercased job titles to canned skill lists. Unknown
// titles fall back to the software engineer set, so the result is
// deterministic for every input.
var fallbackSkills = map[string][]string{
	"frontend developer": {"React", "JavaScript", "TypeScript", "HTML/CSS", "Redux", "Git", "Responsive Design", "Problem Solving", "Team Collaboration", "Agile"},
	"backend developer":  {"Node.js", "Python", "Go", "APIs", "Databases", "Git", "Cloud Services", "Problem Solving", "System Design", "Testing"},
	"full stack developer": {"React", "Node.js", "JavaScript", "TypeScript", "Databases", "Git", "APIs", "Problem Solving", "Team Collaboration", "Agile"},
	"product manager":    {"Product Strategy", "Roadmap Planning", "Stakeholder Management", "Data Analysis", "User Research", "Agile", "Leadership", "Communication", "Problem Solving", "Market Research"},
	"software engineer":  {"Programming", "Algorithms", "Data Structures", "Git", "Testing", "Problem Solving", "Team Collaboration", "Code Review", "Debugging", "Documentation"},
	"data scientist":     {"Python", "Machine Learning", "Statistics", "SQL", "Data Visualization", "R", "Problem Solving", "Communication", "Research", "Analytics"},
	"designer":           {"UI/UX Design", "Figma", "Adobe Creative Suite", "Prototyping", "User Research", "Visual Design", "Communication", "Problem Solving", "Creativity", "Collaboration"},
}

// FallbackSummary returns the canned summary for a job title.
func FallbackSummary(jobTitle string) string {
	title := strings.TrimSpace(jobTitle)
	if title == "" {
		title = "Software Engineer"
	}
	return fmt.Sprintf("Experienced %s with a proven track record of delivering high-quality results. "+
		"Skilled in modern technologies and best practices, with strong problem-solving abilities and a passion for continuous learning. "+
		"Dedicated to creating innovative solutions that drive business growth and enhance user experiences.", title)
}

// FallbackExperienceBullets returns the canned experience bullet points.
func FallbackExperienceBullets() string {
	return strings.Join([]string{
		"• Developed and maintained scalable applications serving thousands of users daily",
		"• Collaborated with cross-functional teams to deliver projects on time and within budget",
		"• Implemented best practices and modern development methodologies",
		"• Optimized application performance, improving load times and user experience",
		"• Mentored junior team members and contributed to code reviews",
	}, "\n")
}

// FallbackSkills returns the canned skill list for a job title.
func FallbackSkills(jobTitle string) []string {
	if skills, ok := fallbackSkills[strings.ToLower(strings.TrimSpace(jobTitle))]; ok {
		return append([]string(nil), skills...)
	}
	return append([]string(nil), fallbackSkills["software engineer"]...)
}
