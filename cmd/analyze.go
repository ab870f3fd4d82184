package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scanner/internal/ai"
	"github.com/spigell/resume-scanner/internal/ai/gemini"
	"github.com/spigell/resume-scanner/internal/analysis"
	"github.com/spigell/resume-scanner/internal/extract"
	"github.com/spigell/resume-scanner/internal/filtering"
	"github.com/spigell/resume-scanner/internal/logger"
	"github.com/spigell/resume-scanner/internal/report"
	"github.com/spigell/resume-scanner/internal/resume"
	"github.com/spigell/resume-scanner/internal/secrets"
	"github.com/spigell/resume-scanner/internal/similarity"
)

const (
	PromptReport              = "Show report"
	PromptChart               = "Show score chart"
	PromptResultsToFile       = "Dump results to file"
	PromptAppendToExcludeFile = "Append shown resumes to exclude file"
	PromptExit                = "Exit"

	outputText = "text"
	outputJSON = "json"
)

var errExit = errors.New("exit requested")

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume files or directories...]",
	Short: "Score resumes against a job description",
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("jd", "", "file with the job description")
	analyzeCmd.Flags().String("jd-text", "", "job description text (overrides --jd)")
	analyzeCmd.Flags().Bool("fail-fast", false, "abort the whole run when a resume can not be read")
	analyzeCmd.Flags().String("corpus", "", "tf-idf corpus: per-resume or batch")
	analyzeCmd.Flags().Float64("min-score", 0, "drop resumes scoring below this percentage")
	analyzeCmd.Flags().Int("top", 0, "keep only the best N resumes")
	analyzeCmd.Flags().StringP("exclude-file", "e", "", "special file with resumes to exclude. Default is unset.")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "print the report and exit without interactive prompts")
	analyzeCmd.Flags().StringP("output", "o", outputText, "report format: text or json")

	viper.BindPFlag("job-description-file", analyzeCmd.Flags().Lookup("jd"))
	viper.BindPFlag("extraction.fail-fast", analyzeCmd.Flags().Lookup("fail-fast"))
	viper.BindPFlag("scoring.corpus", analyzeCmd.Flags().Lookup("corpus"))
	viper.BindPFlag("min-score", analyzeCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("top", analyzeCmd.Flags().Lookup("top"))
	viper.BindPFlag("exclude-file", analyzeCmd.Flags().Lookup("exclude-file"))
}

// analyze is the main command for the cli.
func analyze(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	baseLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer baseLogger.Sync()

	logger := logger.WithRun(baseLogger, uuid.NewString())

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-scanner", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	output := strings.ToLower(strings.TrimSpace(cmd.Flag("output").Value.String()))
	if output != outputText && output != outputJSON {
		logger.Fatal("invalid output format", zap.String("output", output), zap.String("hint", "use text or json"))
	}

	corpus, err := analysis.ParseCorpus(config.Scoring.Corpus)
	if err != nil {
		logger.Fatal("invalid scoring configuration", zap.Error(err))
	}

	jobDescription, err := resolveJobDescription(cmd, config)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	paths := args
	if len(paths) == 0 {
		paths = config.Resumes
	}

	uploads, err := resume.LoadUploads(paths, config.Extraction.MaxFileSize)
	if err != nil {
		logger.Fatal("loading resumes", zap.Error(err))
	}

	if err := analysis.Validate(jobDescription, uploads); err != nil {
		hint := "pass resume files or directories as arguments or set resumes in the config"
		if errors.Is(err, analysis.ErrEmptyJobDescription) {
			hint = "use --jd, --jd-text or job-description-file in the config"
		}
		logger.Warn("nothing to analyze", zap.Error(err), zap.String("hint", hint))
		os.Exit(1)
	}

	extractor := extract.New(config.Extraction.MaxFileSize, logger)
	analyzer := analysis.New(extractor, similarity.NewScorer(), analysis.Options{
		FailFast: config.Extraction.FailFast,
		Corpus:   corpus,
	}, logger)

	results, err := analyzer.Analyze(ctx, jobDescription, uploads)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	filters := prepareFilters(ctx, config, jobDescription, logger)
	for _, status := range filtering.Describe(filters) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	results, err = filtering.Run(ctx, filters, results, logger)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if output == outputJSON {
		if err := report.JSON(os.Stdout, results); err != nil {
			logger.Fatal("writing results", zap.Error(err))
		}
		return
	}

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := showReport(results); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	for {
		logger.Info("current list of resumes", zap.Int("count", results.Len()))

		prompt := promptui.Select{
			Label: "What next?",
			Items: promptItems(config, results),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func promptItems(config *Config, results *resume.Results) []string {
	items := []string{PromptReport, PromptChart, PromptResultsToFile}
	if strings.TrimSpace(config.ExcludeFile) != "" && results.Len() != 0 {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func handleAction(action string, logger *zap.Logger, config *Config, results *resume.Results) error {
	switch action {
	case PromptReport:
		return report.Text(os.Stdout, results)
	case PromptChart:
		return report.Chart(os.Stdout, results, 0)
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.ExcludeFile, results)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showReport(results *resume.Results) error {
	if err := report.Text(os.Stdout, results); err != nil {
		return err
	}
	return report.Chart(os.Stdout, results, 0)
}

func appendToExcludeFile(logger *zap.Logger, excludeFile string, results *resume.Results) error {
	excluded, err := resume.GetExcludedResumesFromFile(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(results.ToExcluded(resume.ExcludeActorUser, ""))

	if err := excluded.ToFile(excludeFile); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", excludeFile))

	results.Exclude(excluded.Filenames())
	return nil
}

func resolveJobDescription(cmd *cobra.Command, config *Config) (string, error) {
	if text := cmd.Flag("jd-text").Value.String(); strings.TrimSpace(text) != "" {
		return text, nil
	}

	path := strings.TrimSpace(config.JobDescriptionFile)
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description file: %w", err)
	}
	return string(data), nil
}

func prepareFilters(ctx context.Context, config *Config, jobDescription string, logger *zap.Logger) []filtering.Filter {
	aiConfig := &filtering.AIFitFilterConfig{
		Enabled:         config.AI.Enabled,
		MinimumFitScore: config.AI.MinimumFitScore,
		Gemini: &filtering.AIGeminiConfig{
			Model:        config.AI.Gemini.Model,
			MaxRetries:   config.AI.Gemini.MaxRetries,
			MaxLogLength: config.AI.Gemini.MaxLogLength,
		},
	}
	aiDeps := &filtering.AIFitFilterDeps{
		Logger:         logger,
		JobDescription: jobDescription,
		ExcludeFile:    config.ExcludeFile,
	}

	filters := []filtering.Filter{
		filtering.NewExcludeFile(config.ExcludeFile, logger),
		filtering.NewMinScore(config.MinScore, logger),
		filtering.NewAIFit(aiConfig, aiDeps),
		filtering.NewTop(config.Top),
	}

	if !config.AI.Enabled {
		filtering.DisableByName(filters, "ai_fit", "disabled in config")
		return filters
	}

	matcher, err := newAIMatcher(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI filter", zap.Error(err))
		filtering.DisableByName(filters, "ai_fit", err.Error())
		return filters
	}
	aiDeps.Matcher = matcher

	return filters
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Matcher, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file / GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithFields(log, logger.AIFields("gemini", cfg.Gemini.Model)...).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := logger.WithFields(log, logger.AIFields("gemini", generator.Model())...).
		With(zap.Float64("minimum_fit_score", minScore))

	return gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, matcherLogger), nil
}
