// Package extract turns uploaded resume files into plain text.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"

	defaultMaxFileSize = 10 << 20
)

var (
	// ErrContentMismatch is returned when the file content does not match its extension.
	ErrContentMismatch = errors.New("file content does not match its extension")
	// ErrTooLarge is returned for files over the configured size limit.
	ErrTooLarge = errors.New("file is too large")
)

// Error describes a failed extraction of a single file.
type Error struct {
	Filename string
	Format   string
	Err      error
}

func (e *Error) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("extract text from %q: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("extract %s text from %q: %v", e.Format, e.Filename, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Extractor picks a parser by file extension.
type Extractor struct {
	maxFileSize int64
	logger      *zap.Logger
}

// New creates an extractor. A non-positive maxFileSize falls back to 10 MiB.
func New(maxFileSize int64, logger *zap.Logger) *Extractor {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{maxFileSize: maxFileSize, logger: logger}
}

// Format returns the format implied by the filename extension or "" when unsupported.
func Format(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return ""
	}
}

// Extract returns the plain text of the file. Unsupported extensions yield an
// empty string and no error.
func (e *Extractor) Extract(filename string, content []byte) (string, error) {
	format := Format(filename)
	if format == "" {
		e.logger.Debug("unsupported resume format, skipping extraction", zap.String("filename", filename))
		return "", nil
	}

	if int64(len(content)) > e.maxFileSize {
		return "", &Error{Filename: filename, Format: format, Err: fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(content), e.maxFileSize)}
	}

	var (
		text string
		err  error
	)

	switch format {
	case FormatPDF:
		if !filetype.Is(content, "pdf") {
			err = ErrContentMismatch
			break
		}
		text, err = extractPDF(content)
	case FormatDOCX:
		if !filetype.Is(content, "zip") {
			err = ErrContentMismatch
			break
		}
		text, err = extractDOCX(content)
	}

	if err != nil {
		return "", &Error{Filename: filename, Format: format, Err: err}
	}

	e.logger.Debug("resume text extracted",
		zap.String("filename", filename),
		zap.String("format", format),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
