package ats

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	wordChar    = `[\p{L}\p{N}_]`
	nonWordChar = `[^\p{L}\p{N}_]`
)

// matcher holds one compiled word-boundary pattern per keyword. It is built
// once and only read afterwards.
type matcher map[string]*regexp.Regexp

func newMatcher(keywords []string) matcher {
	m := make(matcher, len(keywords))
	for _, keyword := range keywords {
		key := strings.ToLower(keyword)
		if _, ok := m[key]; ok {
			continue
		}
		m[key] = keywordPattern(key)
	}
	return m
}

// keywordPattern compiles key with Unicode-aware word boundaries on both
// sides. RE2's \b only knows ASCII word characters, so the boundary is
// spelled out: an edge rune that is a word character must touch a non-word
// rune or the text edge, and a non-word edge rune must touch a word rune.
func keywordPattern(key string) *regexp.Regexp {
	first, _ := utf8.DecodeRuneInString(key)
	last, _ := utf8.DecodeLastRuneInString(key)

	before, after := `(?:^|`+nonWordChar+`)`, `(?:`+nonWordChar+`|$)`
	if !isWordRune(first) {
		before = wordChar
	}
	if !isWordRune(last) {
		after = wordChar
	}

	return regexp.MustCompile(before + regexp.QuoteMeta(key) + after)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// contains reports whether keyword occurs in the lower-cased text as a whole
// word or phrase.
func (m matcher) contains(text, keyword string) bool {
	key := strings.ToLower(keyword)
	re, ok := m[key]
	if !ok {
		re = keywordPattern(key)
	}
	return re.MatchString(text)
}

// filter returns the keywords found (or, with present=false, not found) in
// text, preserving input order.
func (m matcher) filter(text string, keywords []string, present bool) []string {
	out := make([]string, 0)
	for _, keyword := range keywords {
		if m.contains(text, keyword) == present {
			out = append(out, keyword)
		}
	}
	return out
}
