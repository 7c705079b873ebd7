package ai

import (
	"slices"

	"github.com/spigell/ats-scorer/internal/resume"
)

const lowScoreThreshold = 50

const (
	adviceKeywords    = "Add more industry-specific keywords and technical skills relevant to your target role"
	adviceActionVerbs = "Use strong action verbs (developed, implemented, optimized) to describe your achievements"
	adviceSkills      = "Add a dedicated Skills section listing your technical and soft skills"
	adviceSummary     = "Include a professional summary at the top highlighting your key qualifications"
	adviceProjects    = "Add a Projects section to showcase your practical experience and portfolio"
)

var genericAdvice = []string{
	"Include quantifiable achievements with specific metrics (e.g., 'increased efficiency by 30%')",
	"Ensure consistent formatting with clear section headers and bullet points throughout",
	"Tailor your resume keywords to match the job description you're targeting",
	"Keep resume length to 1-2 pages and avoid dense paragraphs",
	"Add relevant certifications or online courses to demonstrate continuous learning",
}

// Fallback returns rule-based suggestions for a score and its detected
// sections. It always returns between 1 and MaxSuggestions items.
func Fallback(score int, sections resume.Sections) []string {
	suggestions := make([]string, 0, MaxSuggestions)

	if score < lowScoreThreshold {
		suggestions = append(suggestions, adviceKeywords, adviceActionVerbs)
	}

	if !sections.Has(resume.SectionSkills) {
		suggestions = append(suggestions, adviceSkills)
	}

	if !sections.Has(resume.SectionSummary) {
		suggestions = append(suggestions, adviceSummary)
	}

	if !sections.Has(resume.SectionProjects) {
		suggestions = append(suggestions, adviceProjects)
	}

	for _, advice := range genericAdvice {
		if len(suggestions) >= MaxSuggestions {
			break
		}
		if !slices.Contains(suggestions, advice) {
			suggestions = append(suggestions, advice)
		}
	}

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}

	return suggestions
}
