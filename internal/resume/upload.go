package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spigell/resume-scanner/internal/extract"
)

// Supported extensions for directory expansion.
var supportedExtensions = []string{".pdf", ".docx"}

// Upload is a single resume file handed to the analysis.
type Upload struct {
	Filename string
	Content  []byte
	// Err is set when the file could not be loaded. The analysis treats it as
	// a failed extraction of this file only.
	Err error
}

// Uploads is an ordered batch of resume files.
type Uploads struct {
	Items []*Upload
}

func (u *Uploads) Len() int {
	if u == nil {
		return 0
	}
	return len(u.Items)
}

func (u *Uploads) Filenames() []string {
	names := make([]string, 0, u.Len())
	for _, item := range u.Items {
		names = append(names, item.Filename)
	}
	return names
}

// IsSupported reports whether the filename carries an extension the extractor understands.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// LoadUploads reads every path into memory. Directories are expanded to the
// supported files they contain (not recursive, sorted by name); explicit files
// are read regardless of their extension. Files larger than maxSize (when
// positive) are not read and carry extract.ErrTooLarge instead; unreadable
// files carry their read error. Only missing paths and unreadable directories
// fail the whole load.
func LoadUploads(paths []string, maxSize int64) (*Uploads, error) {
	uploads := &Uploads{}

	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", path, err)
		}

		if !info.IsDir() {
			uploads.Items = append(uploads.Items, readUpload(path, info.Size(), maxSize))
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", path, err)
		}

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !IsSupported(entry.Name()) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			full := filepath.Join(path, name)
			stat, err := os.Stat(full)
			if err != nil {
				uploads.Items = append(uploads.Items, &Upload{Filename: name, Err: fmt.Errorf("stat %q: %w", full, err)})
				continue
			}
			uploads.Items = append(uploads.Items, readUpload(full, stat.Size(), maxSize))
		}
	}

	return uploads, nil
}

func readUpload(path string, size, maxSize int64) *Upload {
	name := filepath.Base(path)

	if maxSize > 0 && size > maxSize {
		return &Upload{
			Filename: name,
			Err: &extract.Error{
				Filename: name,
				Format:   extract.Format(name),
				Err:      fmt.Errorf("%w: %d bytes (max %d)", extract.ErrTooLarge, size, maxSize),
			},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &Upload{Filename: name, Err: fmt.Errorf("read %q: %w", path, err)}
	}

	return &Upload{Filename: name, Content: data}
}
