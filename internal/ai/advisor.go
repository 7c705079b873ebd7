package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// ErrNoSuggestions is returned by suggesters whose response held nothing usable.
var ErrNoSuggestions = errors.New("no suggestions in response")

// SuggestionSet is the outcome of Advisor.Suggest.
type SuggestionSet struct {
	Items  []string
	Source string
}

// Observer is notified about the source of every suggestion set.
type Observer interface {
	ObserveSuggestions(source string)
}

// Advisor asks the primary suggester once and substitutes Fallback output on
// any failure. Suggest never fails.
type Advisor struct {
	primary  Suggester
	timeout  time.Duration
	logger   *zap.Logger
	observer Observer
}

// AdvisorOption customizes an Advisor.
type AdvisorOption func(*Advisor)

// WithTimeout bounds each call to the primary suggester.
func WithTimeout(d time.Duration) AdvisorOption {
	return func(a *Advisor) { a.timeout = d }
}

// WithObserver registers an observer for suggestion sources.
func WithObserver(o Observer) AdvisorOption {
	return func(a *Advisor) { a.observer = o }
}

// NewAdvisor creates an Advisor. A nil primary means AI suggestions are
// disabled and every call is served by Fallback.
func NewAdvisor(primary Suggester, logger *zap.Logger, opts ...AdvisorOption) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Advisor{primary: primary, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether a primary suggester is configured.
func (a *Advisor) Enabled() bool {
	return a.primary != nil
}

// Suggest returns up to MaxSuggestions items from the primary suggester, or
// the Fallback rules when it is disabled, fails or answers with nothing usable.
func (a *Advisor) Suggest(ctx context.Context, req Request) SuggestionSet {
	if a.primary == nil {
		return a.fallback(req)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	items, err := a.primary.Suggest(ctx, req)
	if err == nil {
		items = clean(items)
		if len(items) == 0 {
			err = ErrNoSuggestions
		}
	}

	if err != nil {
		a.logger.Warn("suggestion generation failed, using rule-based suggestions",
			zap.Int("ats_score", req.Score),
			zap.Error(err),
		)
		return a.fallback(req)
	}

	a.observe(SourceAI)
	return SuggestionSet{Items: items, Source: SourceAI}
}

func (a *Advisor) fallback(req Request) SuggestionSet {
	a.observe(SourceFallback)
	return SuggestionSet{Items: Fallback(req.Score, req.Sections), Source: SourceFallback}
}

func (a *Advisor) observe(source string) {
	if a.observer != nil {
		a.observer.ObserveSuggestions(source)
	}
}

func clean(items []string) []string {
	out := make([]string, 0, MaxSuggestions)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
