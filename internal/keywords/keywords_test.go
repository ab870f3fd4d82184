package keywords

import (
	"reflect"
	"testing"
)

const jobDescription = "Looking for a Python developer with AWS experience"

func TestKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "drops short tokens and lower-cases",
			input:  jobDescription,
			expect: []string{"aws", "developer", "experience", "for", "looking", "python", "with"},
		},
		{
			name:   "deduplicates case-insensitively",
			input:  "Go GOLANG golang Golang go",
			expect: []string{"golang"},
		},
		{
			name:   "keeps punctuation",
			input:  "AWS, Docker.",
			expect: []string{"aws,", "docker."},
		},
		{
			name:   "counts runes not bytes",
			input:  "ёж ёжик",
			expect: []string{"ёжик"},
		},
		{
			name:   "empty",
			input:  "  \n\t ",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Keywords(tt.input); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestMatchExample(t *testing.T) {
	matched, missing := Match("Experienced Python developer skilled in AWS and Docker", jobDescription)

	wantMatched := []string{"aws", "developer", "experience", "python"}
	wantMissing := []string{"for", "looking", "with"}

	if !reflect.DeepEqual(matched, wantMatched) {
		t.Fatalf("expected matched %v, got %v", wantMatched, matched)
	}
	if !reflect.DeepEqual(missing, wantMissing) {
		t.Fatalf("expected missing %v, got %v", wantMissing, missing)
	}
}

func TestMatchPartitionIsExhaustiveAndDisjoint(t *testing.T) {
	resumes := []string{
		"",
		"python",
		"LOOKING FOR WITH",
		"catalog of experiences with aws",
	}

	all := Keywords(jobDescription)

	for _, text := range resumes {
		matched, missing := Match(text, jobDescription)

		seen := make(map[string]int)
		for _, k := range matched {
			seen[k]++
		}
		for _, k := range missing {
			seen[k]++
		}

		if len(seen) != len(all) || len(matched)+len(missing) != len(all) {
			t.Fatalf("%q: partition does not cover keywords: %v / %v", text, matched, missing)
		}
		for _, k := range all {
			if seen[k] != 1 {
				t.Fatalf("%q: keyword %q appears %d times", text, k, seen[k])
			}
		}
		for k := range seen {
			if len([]rune(k)) <= 2 {
				t.Fatalf("%q: short keyword %q reported", text, k)
			}
		}
	}
}

func TestMatchEmptyResume(t *testing.T) {
	matched, missing := Match("", jobDescription)
	if len(matched) != 0 {
		t.Fatalf("expected no matches, got %v", matched)
	}
	if !reflect.DeepEqual(missing, Keywords(jobDescription)) {
		t.Fatalf("expected every keyword missing, got %v", missing)
	}
}

func TestMatchSubstringFalsePositive(t *testing.T) {
	matched, _ := Match("Product catalog owner", "cat")
	if !reflect.DeepEqual(matched, []string{"cat"}) {
		t.Fatalf("expected substring match inside catalog, got %v", matched)
	}
}
