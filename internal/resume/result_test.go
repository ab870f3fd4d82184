package resume

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResultsSortDescending(t *testing.T) {
	results := &Results{Items: []*MatchResult{
		{Filename: "a.pdf", Score: 40},
		{Filename: "b.pdf", Score: 90},
		{Filename: "c.pdf", Score: 65},
	}}

	results.Sort()

	want := []float64{90, 65, 40}
	if got := results.Scores(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResultsSortKeepsTiesInOrder(t *testing.T) {
	results := &Results{Items: []*MatchResult{
		{Filename: "first.pdf", Score: 50},
		{Filename: "second.pdf", Score: 50},
		{Filename: "best.pdf", Score: 70},
	}}

	results.Sort()

	want := []string{"best.pdf", "first.pdf", "second.pdf"}
	if got := results.Filenames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResultsExclude(t *testing.T) {
	results := &Results{Items: []*MatchResult{
		{Filename: "a.pdf"},
		{Filename: "b.pdf"},
		{Filename: "c.pdf"},
	}}

	removed := results.Exclude([]string{"b.pdf", "missing.pdf"})
	if !reflect.DeepEqual(removed, []string{"b.pdf"}) {
		t.Fatalf("unexpected removed list: %v", removed)
	}

	if got := results.Filenames(); !reflect.DeepEqual(got, []string{"a.pdf", "c.pdf"}) {
		t.Fatalf("unexpected remaining results: %v", got)
	}
}

func TestResultsReportIncludesAI(t *testing.T) {
	results := &Results{Items: []*MatchResult{
		{
			Filename: "ok.pdf",
			Score:    75.5,
			Matched:  []string{"go"},
			Missing:  []string{"aws", "k8s"},
			AI:       &AIAssessment{Fit: true, Score: 0.91, Reason: "Matches stack"},
		},
		{
			Filename: "broken.docx",
			Error:    "zip: not a valid zip file",
			AI:       &AIAssessment{Error: "quota exceeded"},
		},
	}}

	report := results.Report()

	ok := report["ok.pdf"]
	if ok["score"] != "75.50" || ok["matched"] != "1" || ok["missing"] != "2" {
		t.Fatalf("unexpected entry: %v", ok)
	}
	if ok["ai_fit"] != "true" || ok["ai_score"] != "0.91" || ok["ai_reason"] != "Matches stack" {
		t.Fatalf("unexpected ai fields: %v", ok)
	}

	broken := report["broken.docx"]
	if broken["error"] == "" {
		t.Fatalf("expected extraction error in report")
	}
	if broken["ai_error"] != "quota exceeded" {
		t.Fatalf("unexpected ai_error: %q", broken["ai_error"])
	}
	if _, ok := broken["ai_fit"]; ok {
		t.Fatalf("did not expect ai_fit for error case")
	}
}

func TestResultsDumpToTmpFile(t *testing.T) {
	results := &Results{Items: []*MatchResult{{Filename: "a.pdf", Score: 12.5, Text: "secret text"}}}

	name, err := results.DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var decoded Results
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if decoded.Len() != 1 || decoded.Items[0].Score != 12.5 {
		t.Fatalf("unexpected dump content: %s", data)
	}
	if decoded.Items[0].Text != "" {
		t.Fatalf("extracted text must not be dumped")
	}
}

func TestExcludedResumesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	excluded, err := GetExcludedResumesFromFile(path)
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if len(excluded.Items) != 0 {
		t.Fatalf("expected empty list, got %d", len(excluded.Items))
	}

	results := &Results{Items: []*MatchResult{{Filename: "a.pdf", Score: 10}, {Filename: "b.pdf", Score: 20}}}
	excluded.Append(results.ToExcluded(ExcludeActorUser, "reviewed"))
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := GetExcludedResumesFromFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(loaded.Filenames(), []string{"a.pdf", "b.pdf"}) {
		t.Fatalf("unexpected filenames: %v", loaded.Filenames())
	}
	if loaded.Items[0].Actor != ExcludeActorUser || loaded.Items[0].Reason != "reviewed" {
		t.Fatalf("unexpected entry: %+v", loaded.Items[0])
	}
}
