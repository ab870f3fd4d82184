package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-scanner/internal/resume"
)

type minScoreFilter struct {
	threshold float64
	logger    *zap.Logger
}

// NewMinScore creates a filter that drops results scoring below threshold (0-100).
// A zero threshold keeps everything.
func NewMinScore(threshold float64, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &minScoreFilter{threshold: threshold, logger: logger}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) {}

func (f *minScoreFilter) IsEnabled() bool { return true }

func (f *minScoreFilter) Validate() error {
	if f.threshold < 0 || f.threshold > 100 {
		return fmt.Errorf("minimum score must be between 0 and 100, got %v", f.threshold)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, r *resume.Results) (*resume.Results, Step, error) {
	initial := r.Len()
	if f.threshold == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	removed := r.Keep(func(item *resume.MatchResult) bool {
		return item.Score >= f.threshold
	})
	if len(removed) > 0 {
		f.logger.Info("excluding resumes below the minimum score",
			zap.Float64("min_score", f.threshold),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"min_score": strconv.FormatFloat(f.threshold, 'f', 2, 64)},
	}
}

type topFilter struct {
	limit int
}

// NewTop creates a filter that keeps the best limit results. Zero keeps everything.
// It expects results already sorted best first.
func NewTop(limit int) Filter {
	return &topFilter{limit: limit}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Disable(string) {}

func (f *topFilter) IsEnabled() bool { return true }

func (f *topFilter) Validate() error {
	if f.limit < 0 {
		return fmt.Errorf("top must not be negative, got %d", f.limit)
	}
	return nil
}

func (f *topFilter) Apply(_ context.Context, r *resume.Results) (*resume.Results, Step, error) {
	initial := r.Len()
	if f.limit == 0 || initial <= f.limit {
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	r.Items = r.Items[:f.limit]
	return r, Step{Initial: initial, Dropped: initial - f.limit, Left: r.Len()}, nil
}

func (f *topFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"top": strconv.Itoa(f.limit)},
	}
}
