package ai

import (
	"context"

	"github.com/spigell/ats-scorer/internal/resume"
)

// MaxSuggestions caps every suggestion set.
const MaxSuggestions = 5

// Request carries what a suggester needs to advise on a résumé.
type Request struct {
	Text     string
	Sections resume.Sections
	Score    int
}

// Suggester produces improvement suggestions for a scored résumé.
type Suggester interface {
	Suggest(ctx context.Context, req Request) ([]string, error)
}
