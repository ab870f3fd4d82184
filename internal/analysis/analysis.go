// Package analysis runs one scoring pass of a job description over a batch of resumes.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scanner/internal/extract"
	"github.com/spigell/resume-scanner/internal/keywords"
	"github.com/spigell/resume-scanner/internal/logger"
	"github.com/spigell/resume-scanner/internal/resume"
	"github.com/spigell/resume-scanner/internal/similarity"
)

var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrNoResumes           = errors.New("no resumes to analyze")
)

// Corpus selects which documents form the TF-IDF vocabulary.
type Corpus string

const (
	// CorpusPerResume scores every resume in its own two-document corpus with the job description.
	CorpusPerResume Corpus = "per-resume"
	// CorpusBatch scores all resumes in a single corpus.
	CorpusBatch Corpus = "batch"
)

// ParseCorpus validates a corpus name. An empty name means CorpusPerResume.
func ParseCorpus(s string) (Corpus, error) {
	switch Corpus(strings.ToLower(strings.TrimSpace(s))) {
	case "", CorpusPerResume:
		return CorpusPerResume, nil
	case CorpusBatch:
		return CorpusBatch, nil
	default:
		return "", fmt.Errorf("unknown scoring corpus %q (use %s or %s)", s, CorpusPerResume, CorpusBatch)
	}
}

type Extractor interface {
	Extract(filename string, content []byte) (string, error)
}

type Options struct {
	// FailFast aborts the whole run on the first extraction failure.
	FailFast bool
	Corpus   Corpus
}

type Analyzer struct {
	extractor Extractor
	scorer    *similarity.Scorer
	options   Options
	logger    *zap.Logger
}

func New(extractor Extractor, scorer *similarity.Scorer, options Options, log *zap.Logger) *Analyzer {
	if scorer == nil {
		scorer = similarity.NewScorer()
	}
	if options.Corpus == "" {
		options.Corpus = CorpusPerResume
	}

	return &Analyzer{
		extractor: extractor,
		scorer:    scorer,
		options:   options,
		logger:    logger.WithFields(log),
	}
}

// Validate checks the inputs of a run before any processing starts.
func Validate(jobDescription string, uploads *resume.Uploads) error {
	if strings.TrimSpace(jobDescription) == "" {
		return ErrEmptyJobDescription
	}
	if uploads.Len() == 0 {
		return ErrNoResumes
	}
	return nil
}

// Analyze extracts, scores and keyword-matches every upload in order and
// returns one result per upload sorted by score, best first.
func (a *Analyzer) Analyze(ctx context.Context, jobDescription string, uploads *resume.Uploads) (*resume.Results, error) {
	if err := Validate(jobDescription, uploads); err != nil {
		return nil, err
	}

	a.logger.Info("starting the analysis",
		zap.Int("resumes", uploads.Len()),
		zap.String("corpus", string(a.options.Corpus)),
		zap.Bool("fail_fast", a.options.FailFast),
	)

	results := &resume.Results{Items: make([]*resume.MatchResult, 0, uploads.Len())}

	for _, upload := range uploads.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields := logger.ResumeFields(upload.Filename, extract.Format(upload.Filename))

		var (
			text string
			err  = upload.Err
		)
		if err == nil {
			text, err = a.extractor.Extract(upload.Filename, upload.Content)
		}
		result := &resume.MatchResult{Filename: upload.Filename}

		if err != nil {
			if a.options.FailFast {
				return nil, fmt.Errorf("analysis aborted: %w", err)
			}
			a.logger.Warn("extraction failed, scoring resume as empty", append(fields, zap.Error(err))...)
			result.Error = err.Error()
			text = ""
		}

		result.Text = text
		result.Matched, result.Missing = keywords.Match(text, jobDescription)
		results.Items = append(results.Items, result)

		a.logger.Debug("resume processed", append(fields,
			zap.Int("text_length", len(text)),
			zap.Int("matched", len(result.Matched)),
			zap.Int("missing", len(result.Missing)),
		)...)
	}

	a.score(jobDescription, results)
	results.Sort()

	a.logger.Info("analysis completed", zap.Int("results", results.Len()))

	return results, nil
}

func (a *Analyzer) score(jobDescription string, results *resume.Results) {
	if a.options.Corpus == CorpusBatch {
		texts := make([]string, 0, results.Len())
		for _, item := range results.Items {
			texts = append(texts, item.Text)
		}
		for i, score := range a.scorer.Scores(jobDescription, texts) {
			results.Items[i].Score = score * 100
		}
		return
	}

	for _, item := range results.Items {
		item.Score = a.scorer.Score(jobDescription, item.Text) * 100
	}
}
