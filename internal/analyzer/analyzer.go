// Package analyzer runs the résumé analysis pipeline: extraction, parsing,
// scoring and suggestions.
package analyzer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/ai"
	"github.com/spigell/ats-scorer/internal/ats"
	"github.com/spigell/ats-scorer/internal/metrics"
	"github.com/spigell/ats-scorer/internal/resume"
	"github.com/spigell/ats-scorer/internal/resume/extract"
)

// InputError is a rejection caused by the caller's input. It is never retried.
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	return e.Reason
}

func (e *InputError) Unwrap() error {
	return e.Err
}

const (
	reasonInvalidType = "Invalid file type. Only PDF and DOCX allowed"
	reasonNoText      = "Could not extract text from resume"
)

// Extractor turns document bytes into raw text.
type Extractor interface {
	Extract(data []byte, kind extract.Kind) (string, error)
}

// Recorder receives pipeline measurements.
type Recorder interface {
	ObserveAnalysis(outcome string)
	ObserveScore(score int)
	ObserveExtraction(kind string, d time.Duration)
}

// Report is the merged outcome of one analysis.
type Report struct {
	Success          bool                 `json:"success"`
	ATSScore         int                  `json:"ats_score"`
	MatchedSkills    []string             `json:"matched_skills"`
	MissingSkills    []string             `json:"missing_skills"`
	Suggestions      []string             `json:"suggestions"`
	ScoreBreakdown   ats.RoundedBreakdown `json:"score_breakdown"`
	SectionsDetected resume.Sections      `json:"sections_detected"`
	WordCount        int                  `json:"word_count"`

	SuggestionSource string        `json:"-"`
	Breakdown        ats.Breakdown `json:"-"`
}

// Service wires the pipeline stages together. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	extractor Extractor
	engine    *ats.Engine
	advisor   *ai.Advisor
	logger    *zap.Logger
	recorder  Recorder
}

// Deps aggregates the collaborators of a Service. Nil fields get defaults:
// the document extractor, the default taxonomy engine, a fallback-only
// advisor and a no-op logger.
type Deps struct {
	Extractor Extractor
	Engine    *ats.Engine
	Advisor   *ai.Advisor
	Logger    *zap.Logger
	Recorder  Recorder
}

func New(deps Deps) *Service {
	s := &Service{
		extractor: deps.Extractor,
		engine:    deps.Engine,
		advisor:   deps.Advisor,
		logger:    deps.Logger,
		recorder:  deps.Recorder,
	}

	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.extractor == nil {
		s.extractor = extract.New()
	}
	if s.engine == nil {
		s.engine = ats.NewEngine(nil)
	}
	if s.advisor == nil {
		s.advisor = ai.NewAdvisor(nil, s.logger)
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}

	return s
}

// Analyze scores an already parsed document.
func (s *Service) Analyze(doc resume.ParsedDocument) ats.Result {
	return s.engine.Score(doc)
}

// Suggestions returns up to five suggestions, AI generated when possible and
// rule based otherwise. It never fails.
func (s *Service) Suggestions(ctx context.Context, text string, sections resume.Sections, score int) ai.SuggestionSet {
	return s.advisor.Suggest(ctx, ai.Request{Text: text, Sections: sections, Score: score})
}

// AnalyzeFile runs the whole pipeline for an uploaded document.
func (s *Service) AnalyzeFile(ctx context.Context, filename string, data []byte) (*Report, error) {
	report, err := s.analyzeFile(ctx, filename, data)
	s.recorder.ObserveAnalysis(outcome(err))
	return report, err
}

func (s *Service) analyzeFile(ctx context.Context, filename string, data []byte) (*Report, error) {
	kind, err := extract.KindFromFilename(filename)
	if err != nil {
		return nil, &InputError{Reason: reasonInvalidType, Err: err}
	}

	started := time.Now()
	raw, err := s.extractor.Extract(data, kind)
	s.recorder.ObserveExtraction(string(kind), time.Since(started))
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			return nil, &InputError{Reason: reasonInvalidType, Err: err}
		}
		return nil, err
	}

	doc := resume.Parse(raw)
	if doc.Text == "" {
		return nil, &InputError{Reason: reasonNoText}
	}

	result := s.Analyze(doc)
	s.recorder.ObserveScore(result.TotalScore)

	suggestions := s.Suggestions(ctx, doc.Text, doc.Sections, result.TotalScore)

	s.logger.Debug("resume analyzed",
		zap.Int("ats_score", result.TotalScore),
		zap.Int("word_count", doc.WordCount),
		zap.Strings("sections", doc.Sections.Detected()),
		zap.String("suggestion_source", suggestions.Source),
	)

	return &Report{
		Success:          true,
		ATSScore:         result.TotalScore,
		MatchedSkills:    result.MatchedSkills,
		MissingSkills:    result.MissingSkills,
		Suggestions:      suggestions.Items,
		ScoreBreakdown:   result.Breakdown.Rounded(),
		SectionsDetected: doc.Sections,
		WordCount:        doc.WordCount,
		SuggestionSource: suggestions.Source,
		Breakdown:        result.Breakdown,
	}, nil
}

func outcome(err error) string {
	var (
		inputErr   *InputError
		extractErr *extract.ExtractionError
	)

	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &inputErr):
		return metrics.OutcomeInvalidInput
	case errors.As(err, &extractErr):
		return metrics.OutcomeExtractFailed
	default:
		return metrics.OutcomeError
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveAnalysis(string)                  {}
func (nopRecorder) ObserveScore(int)                        {}
func (nopRecorder) ObserveExtraction(string, time.Duration) {}
