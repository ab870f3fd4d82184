package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// MatchResult is the outcome of matching one resume against the job description.
type MatchResult struct {
	Filename string        `json:"filename"`
	Score    float64       `json:"score"`
	Matched  []string      `json:"matched"`
	Missing  []string      `json:"missing"`
	Error    string        `json:"error,omitempty"`
	AI       *AIAssessment `json:"ai,omitempty"`

	// Text is the extracted resume text. It is kept for later review steps only.
	Text string `json:"-"`
}

// AIAssessment holds the optional language model review of a resume.
type AIAssessment struct {
	Fit    bool    `json:"fit"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
	Raw    string  `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// Results is an ordered list of match results.
type Results struct {
	Items []*MatchResult `json:"results"`
}

func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

// Sort orders results by score, best first. Equal scores keep their order.
func (r *Results) Sort() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].Score > r.Items[j].Score
	})
}

func (r *Results) Scores() []float64 {
	scores := make([]float64, 0, r.Len())
	for _, item := range r.Items {
		scores = append(scores, item.Score)
	}
	return scores
}

func (r *Results) Filenames() []string {
	names := make([]string, 0, r.Len())
	for _, item := range r.Items {
		names = append(names, item.Filename)
	}
	return names
}

func (r *Results) FindByFilename(filename string) *MatchResult {
	for _, item := range r.Items {
		if item.Filename == filename {
			return item
		}
	}
	return nil
}

// Exclude removes results whose filename is among targets and returns the removed names.
// The order of the remaining results is preserved.
func (r *Results) Exclude(targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	var excluded []string
	kept := r.Items[:0]
	for _, item := range r.Items {
		if _, ok := set[item.Filename]; ok {
			excluded = append(excluded, item.Filename)
			continue
		}
		kept = append(kept, item)
	}
	r.Items = kept

	return excluded
}

// Keep retains only the results accepted by fn and returns the removed names.
func (r *Results) Keep(fn func(*MatchResult) bool) []string {
	var removed []string
	kept := r.Items[:0]
	for _, item := range r.Items {
		if !fn(item) {
			removed = append(removed, item.Filename)
			continue
		}
		kept = append(kept, item)
	}
	r.Items = kept
	return removed
}

func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "resume_matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToExcluded converts results into exclude file entries.
func (r *Results) ToExcluded(actor ExcludeActor, reason string) *ExcludedResumes {
	excluded := &ExcludedResumes{}
	now := time.Now().UTC()
	for _, item := range r.Items {
		excluded.Items = append(excluded.Items, &ExcludedResume{
			Filename:   item.Filename,
			Score:      item.Score,
			ExcludedAt: now,
			Actor:      actor,
			Reason:     reason,
		})
	}
	return excluded
}

// Report builds a flat summary of every result, keyed by filename.
func (r *Results) Report() map[string]map[string]string {
	report := make(map[string]map[string]string, r.Len())
	for _, item := range r.Items {
		entry := map[string]string{
			"score":   fmt.Sprintf("%.2f", item.Score),
			"matched": fmt.Sprintf("%d", len(item.Matched)),
			"missing": fmt.Sprintf("%d", len(item.Missing)),
		}
		if item.Error != "" {
			entry["error"] = item.Error
		}
		if item.AI != nil {
			if item.AI.Error != "" {
				entry["ai_error"] = item.AI.Error
			} else {
				entry["ai_fit"] = fmt.Sprintf("%t", item.AI.Fit)
				entry["ai_score"] = fmt.Sprintf("%.2f", item.AI.Score)
				entry["ai_reason"] = item.AI.Reason
			}
		}
		report[item.Filename] = entry
	}
	return report
}
