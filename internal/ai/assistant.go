package ai

import (
	"context"

	"github.com/spigell/resume-scanner/internal/resume"
)

// FitAssessment is a language model verdict on how well a resume fits the job description.
type FitAssessment struct {
	Fit    bool
	Score  float64
	Reason string
	Raw    string
}

// ToResult converts the assessment into the form stored on a match result.
func (f *FitAssessment) ToResult() *resume.AIAssessment {
	if f == nil {
		return nil
	}
	return &resume.AIAssessment{
		Fit:    f.Fit,
		Score:  f.Score,
		Reason: f.Reason,
		Raw:    f.Raw,
	}
}

type Matcher interface {
	Evaluate(ctx context.Context, jobDescription string, result *resume.MatchResult) (*FitAssessment, error)
}
