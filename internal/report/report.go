// Package report renders match results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/spigell/resume-scanner/internal/resume"
)

const (
	defaultBarWidth = 40
	separator       = "---"
)

var (
	colorTitle   = color.New(color.FgCyan, color.Bold)
	colorScore   = color.New(color.FgGreen, color.Bold)
	colorMatched = color.New(color.FgGreen)
	colorMissing = color.New(color.FgRed)
	colorWarn    = color.New(color.FgYellow)
	colorBar     = color.New(color.FgBlue)
)

// errWriter remembers the first write error and drops every later write.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func (e *errWriter) result(what string) error {
	if e.err != nil {
		return fmt.Errorf("write %s: %w", what, e.err)
	}
	return nil
}

// Text writes a block per result in the given order.
func Text(out io.Writer, results *resume.Results) error {
	w := &errWriter{w: out}

	colorTitle.Fprintln(w, "Resume Match Results")
	fmt.Fprintln(w)

	for _, item := range results.Items {
		colorTitle.Fprintf(w, "%s\n", item.Filename)
		colorScore.Fprintf(w, "Match Score: %.2f%%\n", item.Score)

		if item.Error != "" {
			colorWarn.Fprintf(w, "Extraction error: %s\n", item.Error)
		}

		colorMatched.Fprintln(w, "Matched Skills:")
		fmt.Fprintln(w, FormatKeywords(item.Matched))

		colorMissing.Fprintln(w, "Missing Skills:")
		fmt.Fprintln(w, FormatKeywords(item.Missing))

		if item.AI != nil {
			writeAI(w, item.AI)
		}

		fmt.Fprintln(w, separator)
	}

	return w.result("report")
}

func writeAI(w io.Writer, assessment *resume.AIAssessment) {
	if assessment.Error != "" {
		colorWarn.Fprintf(w, "AI review failed: %s\n", assessment.Error)
		return
	}

	verdict := colorMissing.Sprint("not a fit")
	if assessment.Fit {
		verdict = colorMatched.Sprint("fit")
	}
	fmt.Fprintf(w, "AI review: %s (score %.2f)\n", verdict, assessment.Score)
	if assessment.Reason != "" {
		fmt.Fprintf(w, "AI reason: %s\n", assessment.Reason)
	}
}

// FormatKeywords renders keywords as a backticked comma separated list, or None.
func FormatKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return "None"
	}

	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		quoted = append(quoted, "`"+keyword+"`")
	}
	return strings.Join(quoted, ", ")
}

// Chart writes a horizontal bar per result scaled to width for a 100% score.
func Chart(out io.Writer, results *resume.Results, width int) error {
	w := &errWriter{w: out}
	if width <= 0 {
		width = defaultBarWidth
	}

	colorTitle.Fprintln(w, "Match Score Comparison")

	labelWidth := 0
	for _, item := range results.Items {
		if n := utf8.RuneCountInString(item.Filename); n > labelWidth {
			labelWidth = n
		}
	}

	for _, item := range results.Items {
		pad := labelWidth - utf8.RuneCountInString(item.Filename)
		fmt.Fprintf(w, "%s%s | ", item.Filename, strings.Repeat(" ", pad))
		colorBar.Fprint(w, strings.Repeat("#", barLength(item.Score, width)))
		fmt.Fprintf(w, " %.2f%%\n", item.Score)
	}

	return w.result("chart")
}

func barLength(score float64, width int) int {
	if score <= 0 || math.IsNaN(score) {
		return 0
	}
	if score >= 100 {
		return width
	}
	return int(math.Round(score / 100 * float64(width)))
}

// JSON writes the results as indented JSON.
func JSON(w io.Writer, results *resume.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
