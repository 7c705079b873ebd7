// Package ats computes the deterministic ATS compatibility score of a résumé.
package ats

import (
	"math"
	"regexp"
	"strings"

	"github.com/spigell/ats-scorer/internal/resume"
)

const (
	weightKeywords   = 0.40
	weightSections   = 0.30
	weightFormatting = 0.15
	weightContent    = 0.15

	// keywordSaturation is the share of the taxonomy (in percent) that earns
	// the full keyword score.
	keywordSaturation = 30.0

	maxMatchedSkills = 15
	maxMissingSkills = 10

	priorityTechnical = 20
	prioritySoft      = 10
)

var (
	criticalSections    = []resume.SectionName{resume.SectionExperience, resume.SectionSkills, resume.SectionEducation}
	recommendedSections = []resume.SectionName{resume.SectionSummary, resume.SectionProjects, resume.SectionCertifications}

	bulletRe = regexp.MustCompile(`[•\-\*]`)
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRe  = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	metricRe = regexp.MustCompile(`\d+%|\d+\+`)
)

// Breakdown holds the four sub-scores, each within [0, 100].
type Breakdown struct {
	KeywordMatch        float64 `json:"keyword_match"`
	SectionCompleteness float64 `json:"section_completeness"`
	Formatting          float64 `json:"formatting"`
	ContentQuality      float64 `json:"content_quality"`
}

// Total is the weighted sum of the sub-scores rounded half away from zero.
func (b Breakdown) Total() int {
	return Round(b.KeywordMatch*weightKeywords +
		b.SectionCompleteness*weightSections +
		b.Formatting*weightFormatting +
		b.ContentQuality*weightContent)
}

// Rounded returns every sub-score rounded with the same policy as Total.
func (b Breakdown) Rounded() RoundedBreakdown {
	return RoundedBreakdown{
		KeywordMatch:        Round(b.KeywordMatch),
		SectionCompleteness: Round(b.SectionCompleteness),
		Formatting:          Round(b.Formatting),
		ContentQuality:      Round(b.ContentQuality),
	}
}

// RoundedBreakdown is the integer form of Breakdown used in reports.
type RoundedBreakdown struct {
	KeywordMatch        int `json:"keyword_match"`
	SectionCompleteness int `json:"section_completeness"`
	Formatting          int `json:"formatting"`
	ContentQuality      int `json:"content_quality"`
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// Result is the outcome of scoring a single document.
type Result struct {
	TotalScore    int
	Breakdown     Breakdown
	MatchedSkills []string
	MissingSkills []string
	Sections      resume.Sections
}

// Engine scores documents against a keyword taxonomy. It is safe for
// concurrent use.
type Engine struct {
	taxonomy Taxonomy
	all      []string
	priority []string
	matcher  matcher
}

// NewEngine creates an Engine for the taxonomy, DefaultTaxonomy when nil.
func NewEngine(taxonomy Taxonomy) *Engine {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy
	}

	all := taxonomy.All()

	priority := make([]string, 0, priorityTechnical+prioritySoft)
	priority = append(priority, taxonomy.Head(CategoryTechnical, priorityTechnical)...)
	priority = append(priority, taxonomy.Head(CategorySoftSkills, prioritySoft)...)

	return &Engine{
		taxonomy: taxonomy,
		all:      all,
		priority: priority,
		matcher:  newMatcher(all),
	}
}

// Score computes the ATS score of a parsed document. It never fails; an empty
// document yields the minimum value of every sub-score.
func (e *Engine) Score(doc resume.ParsedDocument) Result {
	text := strings.ToLower(doc.Text)

	keywordScore, matched := e.KeywordScore(text)

	breakdown := Breakdown{
		KeywordMatch:        keywordScore,
		SectionCompleteness: SectionScore(doc.Sections),
		Formatting:          FormattingScore(text, doc.WordCount),
		ContentQuality:      e.ContentQualityScore(text),
	}

	return Result{
		TotalScore:    breakdown.Total(),
		Breakdown:     breakdown,
		MatchedSkills: truncate(matched, maxMatchedSkills),
		MissingSkills: truncate(e.MissingSkills(text), maxMissingSkills),
		Sections:      doc.Sections,
	}
}

// KeywordScore matches the whole taxonomy against text and returns the score
// with the matched keywords in taxonomy order.
func (e *Engine) KeywordScore(text string) (float64, []string) {
	text = strings.ToLower(text)
	matched := e.matcher.filter(text, e.all, true)
	return scaleKeywordScore(len(matched), len(e.all)), matched
}

// scaleKeywordScore maps the matched share linearly so that matching
// keywordSaturation percent of the taxonomy earns 100.
func scaleKeywordScore(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	percentage := float64(matched) / float64(total) * 100
	return math.Min(percentage/keywordSaturation*100, 100)
}

// SectionScore weighs critical sections at 60 and recommended ones at 40.
func SectionScore(sections resume.Sections) float64 {
	critical := countPresent(sections, criticalSections)
	recommended := countPresent(sections, recommendedSections)

	return float64(critical)/float64(len(criticalSections))*60 +
		float64(recommended)/float64(len(recommendedSections))*40
}

func countPresent(sections resume.Sections, names []resume.SectionName) int {
	count := 0
	for _, name := range names {
		if sections.Has(name) {
			count++
		}
	}
	return count
}

// FormattingScore rates length, bullet usage and contact details.
func FormattingScore(text string, wordCount int) float64 {
	score := 0.0

	switch {
	case wordCount >= 300 && wordCount <= 800:
		score += 40
	case (wordCount >= 200 && wordCount < 300) || (wordCount > 800 && wordCount <= 1000):
		score += 25
	default:
		score += 10
	}

	bullets := len(bulletRe.FindAllStringIndex(text, -1))
	switch {
	case bullets >= 5:
		score += 30
	case bullets >= 2:
		score += 15
	}

	if emailRe.MatchString(text) {
		score += 15
	}

	if phoneRe.MatchString(text) {
		score += 15
	}

	return score
}

// ContentQualityScore rates action verb variety and quantified achievements.
func (e *Engine) ContentQualityScore(text string) float64 {
	text = strings.ToLower(text)
	score := 0.0

	verbs := len(e.matcher.filter(text, e.taxonomy[CategoryActionVerbs], true))
	switch {
	case verbs >= 8:
		score += 60
	case verbs >= 5:
		score += 40
	case verbs >= 2:
		score += 20
	}

	metrics := len(metricRe.FindAllStringIndex(text, -1))
	switch {
	case metrics >= 3:
		score += 40
	case metrics >= 1:
		score += 20
	}

	return score
}

// MissingSkills lists the priority keywords (leading technical and soft
// skills) absent from text, in priority order. The result is not truncated.
func (e *Engine) MissingSkills(text string) []string {
	return e.matcher.filter(strings.ToLower(text), e.priority, false)
}

func truncate(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
