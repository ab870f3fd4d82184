package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/resume-scanner/internal/ai"
	"github.com/spigell/resume-scanner/internal/logger"
	"github.com/spigell/resume-scanner/internal/resume"
	"github.com/spigell/resume-scanner/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

type Matcher struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

type fitResponse struct {
	Fit    bool    `mapstructure:"fit"`
	Score  float64 `mapstructure:"score"`
	Reason string  `mapstructure:"reason"`
}

func NewMatcher(generator contentGenerator, minScore float64, maxLogLength int, log *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if minScore < 0 {
		minScore = 0
	}

	return &Matcher{
		generator: generator,
		minScore:  minScore,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) Evaluate(ctx context.Context, jobDescription string, result *resume.MatchResult) (*ai.FitAssessment, error) {
	if result == nil {
		return nil, errors.New("match result is required")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.New("job description is required")
	}

	message := buildMessage(jobDescription, result.Text)
	fields := logger.ResumeFields(result.Filename, "")

	m.logger.Debug("gemini generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, m.maxLogLen)),
	)...)

	raw, err := m.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)...)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if m.minScore > 0 && assessment.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold", append(fields,
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", m.minScore),
		)...)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildMessage(jobDescription, resumeText string) string {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		resumeText = "(empty)"
	}

	var b strings.Builder
	b.WriteString("Job description:\n")
	b.WriteString(strings.TrimSpace(jobDescription))
	b.WriteString("\n\nResume:\n")
	b.WriteString(resumeText)
	return b.String()
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var payload fitResponse
	if err := mapstructure.WeakDecode(data, &payload); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	if math.IsNaN(payload.Score) {
		payload.Score = 0
	}

	return &ai.FitAssessment{
		Fit:    payload.Fit,
		Score:  payload.Score,
		Reason: strings.TrimSpace(payload.Reason),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
