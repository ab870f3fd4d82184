package resume

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spigell/resume-scanner/internal/extract"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadUploadsExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.docx", "docx")
	writeFile(t, dir, "a.PDF", "pdf")
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	uploads, err := LoadUploads([]string{dir}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a.PDF", "b.docx"}
	if got := uploads.Filenames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if string(uploads.Items[0].Content) != "pdf" {
		t.Fatalf("unexpected content: %q", uploads.Items[0].Content)
	}
}

func TestLoadUploadsKeepsExplicitUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "resume.txt", "plain text")

	uploads, err := LoadUploads([]string{path, "  "}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uploads.Len() != 1 || uploads.Items[0].Filename != "resume.txt" {
		t.Fatalf("unexpected uploads: %v", uploads.Filenames())
	}
}

func TestLoadUploadsMarksLargeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "0123")
	writeFile(t, dir, "b.pdf", "0123456789")

	uploads, err := LoadUploads([]string{dir}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := uploads.Filenames(), []string{"a.pdf", "b.pdf"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if uploads.Items[0].Err != nil || string(uploads.Items[0].Content) != "0123" {
		t.Fatalf("small file should load, got content %q err %v", uploads.Items[0].Content, uploads.Items[0].Err)
	}

	big := uploads.Items[1]
	if !errors.Is(big.Err, extract.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", big.Err)
	}
	var extractErr *extract.Error
	if !errors.As(big.Err, &extractErr) || extractErr.Filename != "b.pdf" || extractErr.Format != extract.FormatPDF {
		t.Fatalf("expected extract error for b.pdf, got %#v", big.Err)
	}
	if big.Content != nil {
		t.Fatalf("oversized file should not be read, got %q", big.Content)
	}
}

func TestLoadUploadsMissingPath(t *testing.T) {
	if _, err := LoadUploads([]string{filepath.Join(t.TempDir(), "nope.pdf")}, 0); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"cv.pdf":     true,
		"cv.DOCX":    true,
		"cv.doc":     false,
		"resume.txt": false,
		"pdf":        false,
	}

	for name, want := range tests {
		if got := IsSupported(name); got != want {
			t.Fatalf("IsSupported(%q) = %v, want %v", name, got, want)
		}
	}
}
