package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

var errNoDocumentPart = errors.New("no " + documentPart + " in archive")

// extractDOCX joins the text of the body paragraphs with a single newline.
// Only direct children of w:body count: paragraphs inside tables, content
// controls and text boxes are left out.
func extractDOCX(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		paragraphs, err := parseParagraphs(rc)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", documentPart, err)
		}
		return strings.Join(paragraphs, "\n"), nil
	}

	return "", errNoDocumentPart
}

func parseParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		stack      []string
		// index of the open body paragraph in stack, -1 outside of one
		para   = -1
		inText bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case name == "p" && para < 0 && parentIs(stack, "body"):
				para = len(stack)
				current.Reset()
			case para >= 0 && inRun(stack, para):
				switch name {
				case "t":
					inText = true
				case "tab":
					current.WriteString("\t")
				case "br", "cr":
					current.WriteString("\n")
				}
			}
			stack = append(stack, name)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			if t.Name.Local == "t" {
				inText = false
			}
			if len(stack) == para {
				paragraphs = append(paragraphs, current.String())
				para = -1
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}

func parentIs(stack []string, name string) bool {
	return len(stack) > 0 && stack[len(stack)-1] == name
}

// inRun reports whether the next element is a direct child of a run of the
// paragraph opened at stack[para], either plain or wrapped in a hyperlink.
func inRun(stack []string, para int) bool {
	switch len(stack) - para {
	case 2:
		return stack[para+1] == "r"
	case 3:
		return stack[para+1] == "hyperlink" && stack[para+2] == "r"
	default:
		return false
	}
}
