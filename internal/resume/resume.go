package resume

import (
	"regexp"
	"strings"
	"unicode"
)

// SectionName identifies one of the canonical résumé sections.
type SectionName string

const (
	SectionContact        SectionName = "contact"
	SectionSummary        SectionName = "summary"
	SectionExperience     SectionName = "experience"
	SectionEducation      SectionName = "education"
	SectionSkills         SectionName = "skills"
	SectionProjects       SectionName = "projects"
	SectionCertifications SectionName = "certifications"
	SectionAchievements   SectionName = "achievements"
)

// SectionNames lists every canonical section in reporting order.
var SectionNames = []SectionName{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionAchievements,
}

var sectionPatterns = map[SectionName]*regexp.Regexp{
	SectionContact:        regexp.MustCompile(`(?i)(contact|personal\s+information|email|phone)`),
	SectionSummary:        regexp.MustCompile(`(?i)(summary|objective|profile|about\s+me)`),
	SectionExperience:     regexp.MustCompile(`(?i)(experience|work\s+history|employment|professional\s+experience)`),
	SectionEducation:      regexp.MustCompile(`(?i)(education|academic|qualification)`),
	SectionSkills:         regexp.MustCompile(`(?i)(skills|technical\s+skills|competencies|expertise)`),
	SectionProjects:       regexp.MustCompile(`(?i)(projects|portfolio)`),
	SectionCertifications: regexp.MustCompile(`(?i)(certifications?|licenses?|credentials)`),
	SectionAchievements:   regexp.MustCompile(`(?i)(achievements?|awards?|honors?|accomplishments?)`),
}

// Sections maps every canonical section to whether it was detected.
type Sections map[SectionName]bool

// Has reports whether the section was detected.
func (s Sections) Has(name SectionName) bool {
	return s[name]
}

// Detected returns the names of the detected sections in reporting order.
func (s Sections) Detected() []string {
	names := make([]string, 0, len(SectionNames))
	for _, name := range SectionNames {
		if s[name] {
			names = append(names, string(name))
		}
	}
	return names
}

// ParsedDocument is the normalized text of a résumé with its detected sections.
type ParsedDocument struct {
	Text      string
	Sections  Sections
	WordCount int
}

// Parse normalizes raw extracted text and detects its sections.
func Parse(raw string) ParsedDocument {
	text := Normalize(raw)
	return ParsedDocument{
		Text:      text,
		Sections:  DetectSections(text),
		WordCount: len(strings.Fields(text)),
	}
}

// Normalize strips non-printable characters, treats the ASCII information
// separators as whitespace, collapses every whitespace run into a single
// space and trims the result. Newline runs collapse along with the rest of
// the whitespace.
func Normalize(raw string) string {
	printable := strings.Map(func(r rune) rune {
		switch {
		case isSeparator(r):
			return ' '
		case unicode.IsPrint(r) || unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, raw)

	return strings.Join(strings.Fields(printable), " ")
}

// isSeparator reports the ASCII information separators (file, group, record
// and unit), which split words like whitespace does.
func isSeparator(r rune) bool {
	return r >= '\x1c' && r <= '\x1f'
}

// DetectSections searches the whole text for the header synonyms of every
// section. Each section is matched independently and all keys are present in
// the result.
func DetectSections(text string) Sections {
	sections := make(Sections, len(SectionNames))
	for _, name := range SectionNames {
		sections[name] = sectionPatterns[name].MatchString(text)
	}
	return sections
}
