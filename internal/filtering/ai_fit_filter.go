package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scanner/internal/ai"
	"github.com/spigell/resume-scanner/internal/resume"
)

type aiFitFilter struct {
	enabled bool
	reason  string
	config  *AIFitFilterConfig
	deps    *AIFitFilterDeps
}

type AIFitFilterDeps struct {
	Logger         *zap.Logger
	Matcher        ai.Matcher
	JobDescription string
	ExcludeFile    string
}

type AIFitFilterConfig struct {
	Enabled         bool
	MinimumFitScore float64
	Gemini          *AIGeminiConfig
}

// AIGeminiConfig stores Gemini provider configuration.
type AIGeminiConfig struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// NewAIFit creates the AI-based filtering step.
func NewAIFit(cfg *AIFitFilterConfig, deps *AIFitFilterDeps) Filter {
	if cfg == nil {
		cfg = &AIFitFilterConfig{}
	}
	if deps != nil && deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &aiFitFilter{
		enabled: cfg.Enabled,
		deps:    deps,
		config:  cfg,
	}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return f.enabled }

func (f *aiFitFilter) Validate() error {
	if f.deps == nil || f.deps.Matcher == nil {
		return errors.New("ai matcher is not initialized: filter is not usable")
	}
	if strings.TrimSpace(f.deps.JobDescription) == "" {
		return errors.New("job description is required for ai evaluation")
	}
	if f.config.Gemini == nil {
		return errors.New("gemini configuration is required when ai filter is enabled")
	}
	if strings.TrimSpace(f.config.Gemini.Model) == "" {
		return errors.New("gemini model is required when ai filter is enabled")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, r *resume.Results) (*resume.Results, Step, error) {
	initial := r.Len()

	if err := f.applyMatcher(ctx, r); err != nil {
		return r, Step{}, err
	}

	left := r.Len()
	return r, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

// applyMatcher reviews results one by one. Failed reviews keep the resume and
// record the error on it; rejected resumes are dropped.
func (f *aiFitFilter) applyMatcher(ctx context.Context, results *resume.Results) error {
	initial := results.Len()
	approved := make([]*resume.MatchResult, 0, initial)
	rejected := &resume.Results{}

	for _, result := range results.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		assessment, err := f.deps.Matcher.Evaluate(ctx, f.deps.JobDescription, result)
		if err != nil {
			f.deps.Logger.Warn("AI evaluation failed",
				zap.String("resume", result.Filename),
				zap.Error(err),
			)
			result.AI = &resume.AIAssessment{Error: err.Error()}
			approved = append(approved, result)
			continue
		}

		result.AI = assessment.ToResult()

		if !result.AI.Fit {
			f.deps.Logger.Info("resume rejected by AI provider",
				zap.String("resume", result.Filename),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)
			rejected.Items = append(rejected.Items, result)
			continue
		}

		f.deps.Logger.Info("resume approved by AI",
			zap.String("resume", result.Filename),
			zap.Float64("ai_score", assessment.Score),
		)

		approved = append(approved, result)
	}

	results.Items = approved

	if err := f.appendToExcludeFile(rejected); err != nil {
		f.deps.Logger.Warn("failed to append resumes to exclude file", zap.Error(err))
	}

	f.deps.Logger.Info("AI filtering completed",
		zap.Int("initial_resumes", initial),
		zap.Int("approved_resumes", len(approved)),
	)

	return nil
}

func (f *aiFitFilter) appendToExcludeFile(rejected *resume.Results) error {
	path := strings.TrimSpace(f.deps.ExcludeFile)
	if path == "" || rejected.Len() == 0 {
		return nil
	}

	excluded, err := resume.GetExcludedResumesFromFile(path)
	if err != nil {
		return fmt.Errorf("load excluded resumes: %w", err)
	}

	for _, result := range rejected.Items {
		single := &resume.Results{Items: []*resume.MatchResult{result}}
		excluded.Append(single.ToExcluded(resume.ExcludeActorAI, result.AI.Reason))
	}

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded resumes: %w", err)
	}

	f.deps.Logger.Info("resumes appended to exclude file",
		zap.Strings("resumes", rejected.Filenames()),
		zap.String("exclude_file", path),
	)

	return nil
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
		if f.config.Gemini != nil {
			details["model"] = f.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(f.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(f.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
