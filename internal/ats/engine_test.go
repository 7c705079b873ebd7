package ats

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/ats-scorer/internal/resume"
)

const sampleResume = "John Doe Experience: Developed and implemented REST API using Python and AWS. " +
	"Increased performance by 25%. Skills: Python, AWS, Leadership. john@example.com 555-123-4567"

func sections(present ...resume.SectionName) resume.Sections {
	s := make(resume.Sections, len(resume.SectionNames))
	for _, name := range resume.SectionNames {
		s[name] = false
	}
	for _, name := range present {
		s[name] = true
	}
	return s
}

func TestScoreSampleResume(t *testing.T) {
	engine := NewEngine(nil)

	doc := resume.Parse(sampleResume)
	doc.Sections = sections(resume.SectionExperience, resume.SectionSkills, resume.SectionContact)

	if doc.WordCount != 22 {
		t.Fatalf("expected 22 words, got %d", doc.WordCount)
	}

	result := engine.Score(doc)

	// The two hyphens of the phone number count as bullet glyphs.
	if result.Breakdown.Formatting != 10+15+15+15 {
		t.Fatalf("unexpected formatting score: %v", result.Breakdown.Formatting)
	}

	if result.Breakdown.ContentQuality != 40 {
		t.Fatalf("unexpected content quality score: %v", result.Breakdown.ContentQuality)
	}

	if result.Breakdown.SectionCompleteness != 40 {
		t.Fatalf("unexpected section score: %v", result.Breakdown.SectionCompleteness)
	}

	expectedMatched := []string{"python", "aws", "rest api", "leadership", "developed", "implemented", "increased"}
	if !reflect.DeepEqual(result.MatchedSkills, expectedMatched) {
		t.Fatalf("expected matched %v, got %v", expectedMatched, result.MatchedSkills)
	}

	wantKeyword := scaleKeywordScore(len(expectedMatched), DefaultTaxonomy.Len())
	if result.Breakdown.KeywordMatch != wantKeyword {
		t.Fatalf("expected keyword score %v, got %v", wantKeyword, result.Breakdown.KeywordMatch)
	}

	if result.TotalScore != 35 {
		t.Fatalf("expected total 35, got %d", result.TotalScore)
	}

	expectedMissing := []string{"java", "javascript", "typescript", "react", "angular", "vue", "node.js", "django", "flask", "spring"}
	if !reflect.DeepEqual(result.MissingSkills, expectedMissing) {
		t.Fatalf("expected missing %v, got %v", expectedMissing, result.MissingSkills)
	}
}

func TestScoreEmptyDocument(t *testing.T) {
	result := NewEngine(nil).Score(resume.Parse(""))

	want := Breakdown{KeywordMatch: 0, SectionCompleteness: 0, Formatting: 10, ContentQuality: 0}
	if result.Breakdown != want {
		t.Fatalf("expected %+v, got %+v", want, result.Breakdown)
	}

	if result.TotalScore != 2 {
		t.Fatalf("expected total 2, got %d", result.TotalScore)
	}

	if len(result.MatchedSkills) != 0 {
		t.Fatalf("expected no matched skills, got %v", result.MatchedSkills)
	}

	if len(result.MissingSkills) != maxMissingSkills {
		t.Fatalf("expected %d missing skills, got %d", maxMissingSkills, len(result.MissingSkills))
	}
}

func TestScoreWholeTaxonomy(t *testing.T) {
	engine := NewEngine(nil)
	text := strings.Join(DefaultTaxonomy.All(), ", ")

	score, matched := engine.KeywordScore(text)
	if score != 100 {
		t.Fatalf("expected keyword score 100, got %v", score)
	}

	if !reflect.DeepEqual(matched, DefaultTaxonomy.All()) {
		t.Fatalf("expected every keyword to match in taxonomy order")
	}

	result := engine.Score(resume.Parse(text))
	if len(result.MatchedSkills) != maxMatchedSkills {
		t.Fatalf("expected matched skills truncated to %d, got %d", maxMatchedSkills, len(result.MatchedSkills))
	}

	if len(result.MissingSkills) != 0 {
		t.Fatalf("expected no missing skills, got %v", result.MissingSkills)
	}
}

func TestScaleKeywordScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matched int
		total   int
		expect  float64
	}{
		{name: "saturation share", matched: 30, total: 100, expect: 100},
		{name: "half of saturation", matched: 15, total: 100, expect: 50},
		{name: "capped", matched: 90, total: 100, expect: 100},
		{name: "nothing matched", matched: 0, total: 105, expect: 0},
		{name: "empty taxonomy", matched: 0, total: 0, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := scaleKeywordScore(tt.matched, tt.total); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestKeywordMatchingUsesWordBoundaries(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)

	tests := []struct {
		name   string
		text   string
		expect []string
	}{
		{
			name:   "ascii neighbours",
			text:   "JavaScript, PostgreSQL and leadership-driven sales",
			expect: []string{"javascript", "postgresql", "leadership", "sales"},
		},
		{name: "cjk neighbours", text: "熟悉python和aws", expect: []string{}},
		{name: "cyrillic prefix", text: "опытjava", expect: []string{}},
		{name: "accented prefix", text: "éai", expect: []string{}},
		{name: "digit suffix", text: "python3 aws", expect: []string{"aws"}},
		{name: "separated by punctuation", text: "опыт: java, python (aws)", expect: []string{"python", "java", "aws"}},
		{name: "text edges", text: "ai", expect: []string{"ai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, matched := engine.KeywordScore(tt.text)
			if !reflect.DeepEqual(matched, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, matched)
			}
		})
	}
}

func TestKeywordPatternNonWordEdges(t *testing.T) {
	t.Parallel()

	re := keywordPattern("c++")
	if !re.MatchString("x c++y") {
		t.Fatalf("expected match when a word rune follows a non-word edge")
	}
	if re.MatchString("x c++ y") {
		t.Fatalf("expected no boundary between two non-word runes")
	}
}

func TestSectionScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sections resume.Sections
		expect   float64
	}{
		{name: "none", sections: sections(), expect: 0},
		{
			name: "all scored sections",
			sections: sections(
				resume.SectionExperience, resume.SectionSkills, resume.SectionEducation,
				resume.SectionSummary, resume.SectionProjects, resume.SectionCertifications,
			),
			expect: 100,
		},
		{
			name:     "critical only",
			sections: sections(resume.SectionExperience, resume.SectionSkills, resume.SectionEducation),
			expect:   60,
		},
		{
			name:     "recommended only",
			sections: sections(resume.SectionSummary, resume.SectionProjects, resume.SectionCertifications),
			expect:   40,
		},
		{
			name:     "unscored sections ignored",
			sections: sections(resume.SectionContact, resume.SectionAchievements),
			expect:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SectionScore(tt.sections); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestFormattingScore(t *testing.T) {
	t.Parallel()

	full := strings.Repeat("• shipped things\n", 6) + "jane@example.com 555.123.4567"

	tests := []struct {
		name      string
		text      string
		wordCount int
		expect    float64
	}{
		{name: "everything present", text: full, wordCount: 500, expect: 100},
		{name: "empty", text: "", wordCount: 0, expect: 10},
		{name: "lower ideal bound", text: "", wordCount: 300, expect: 40},
		{name: "upper ideal bound", text: "", wordCount: 800, expect: 40},
		{name: "slightly short", text: "", wordCount: 299, expect: 25},
		{name: "short", text: "", wordCount: 200, expect: 25},
		{name: "too short", text: "", wordCount: 199, expect: 10},
		{name: "slightly long", text: "", wordCount: 801, expect: 25},
		{name: "long", text: "", wordCount: 1000, expect: 25},
		{name: "too long", text: "", wordCount: 1001, expect: 10},
		{name: "two bullets", text: "* a * b", wordCount: 0, expect: 25},
		{name: "one bullet", text: "- a", wordCount: 0, expect: 10},
		{name: "invalid email tld", text: "jane@example.c", wordCount: 0, expect: 10},
		{name: "phone without separators", text: "call 5551234567", wordCount: 0, expect: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormattingScore(tt.text, tt.wordCount); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestContentQualityScore(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)

	tests := []struct {
		name   string
		text   string
		expect float64
	}{
		{
			name:   "eight verbs and three percentages",
			text:   "developed designed implemented created built launched managed led; grew 10% then 20% then 30%",
			expect: 100,
		},
		{name: "five verbs", text: "developed designed implemented created built", expect: 40},
		{name: "two verbs", text: "Developed and Designed", expect: 20},
		{name: "one verb", text: "developed", expect: 0},
		{name: "repeated verb counts once", text: "led led led", expect: 0},
		{name: "plus metric", text: "served 100+ customers", expect: 20},
		{name: "three metrics", text: "5+ teams, 40% faster, 3x cheaper, 10+ regions", expect: 40},
		{name: "empty", text: "", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := engine.ContentQualityScore(tt.text); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestScoreInvariants(t *testing.T) {
	engine := NewEngine(nil)

	texts := []string{
		"",
		sampleResume,
		strings.Join(DefaultTaxonomy.All(), " "),
		strings.Repeat("- managed 10% growth of b2b sales\n", 400),
		"Summary Projects Certifications Education",
	}

	for _, text := range texts {
		result := engine.Score(resume.Parse(text))
		b := result.Breakdown

		for name, v := range map[string]float64{
			"keyword":    b.KeywordMatch,
			"section":    b.SectionCompleteness,
			"formatting": b.Formatting,
			"content":    b.ContentQuality,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("%s score %v out of range for %q", name, v, text)
			}
		}

		want := Round(0.40*b.KeywordMatch + 0.30*b.SectionCompleteness + 0.15*b.Formatting + 0.15*b.ContentQuality)
		if result.TotalScore != want {
			t.Fatalf("expected total %d, got %d", want, result.TotalScore)
		}

		if len(result.MatchedSkills) > maxMatchedSkills || len(result.MissingSkills) > maxMissingSkills {
			t.Fatalf("skill lists not truncated: %d matched, %d missing", len(result.MatchedSkills), len(result.MissingSkills))
		}
	}
}

func TestMissingSkillsExcludeMatched(t *testing.T) {
	engine := NewEngine(nil)

	texts := []string{
		sampleResume,
		"Go, Docker, Kubernetes, teamwork and communication at scale",
		"java developer with react and vue; time management",
	}

	for _, text := range texts {
		_, matched := engine.KeywordScore(text)
		present := make(map[string]bool, len(matched))
		for _, keyword := range matched {
			present[keyword] = true
		}

		missing := engine.MissingSkills(text)
		for _, keyword := range missing {
			if present[keyword] {
				t.Fatalf("keyword %q is both matched and missing for %q", keyword, text)
			}
		}

		if len(missing)+countIn(engine.priority, present) != len(engine.priority) {
			t.Fatalf("missing and matched do not partition the priority list for %q", text)
		}
	}
}

func countIn(keywords []string, set map[string]bool) int {
	n := 0
	for _, keyword := range keywords {
		if set[keyword] {
			n++
		}
	}
	return n
}

func TestRound(t *testing.T) {
	tests := map[float64]int{
		0:     0,
		2.4:   2,
		2.5:   3,
		3.5:   4,
		99.49: 99,
		100:   100,
	}

	for in, want := range tests {
		if got := Round(in); got != want {
			t.Fatalf("Round(%v): expected %d, got %d", in, want, got)
		}
	}
}

func TestScoreSplitsOnInformationSeparators(t *testing.T) {
	engine := NewEngine(nil)

	result := engine.Score(resume.Parse("python\x1cjava\x1fsql"))

	expected := []string{"python", "java", "sql"}
	if !reflect.DeepEqual(result.MatchedSkills, expected) {
		t.Fatalf("expected %v, got %v", expected, result.MatchedSkills)
	}
}
