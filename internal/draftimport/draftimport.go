// Package draftimport converts foreign documents (.txt, .html, .docx, .pdf)
// into markdown drafts. Each importer produces a document outline; WriteDraft
// serializes the outline to markdown with a draft frontmatter header.
package draftimport

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mwhite4/inkpress/internal/outline"
)

// Importer converts raw document bytes into an outline.
type Importer interface {
	Import(r io.Reader, filename string) (*outline.Doc, error)
}

// SupportedExtensions lists file extensions the importer can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".html": true,
	".htm":  true,
	".docx": true,
	".pdf":  true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// WriteDraft serializes an outline to a markdown draft with frontmatter.
func WriteDraft(doc *outline.Doc) []byte {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", quoteYAML(doc.Title))
	sb.WriteString("draft: true\n")
	sb.WriteString("---\n\n")
	sb.Write(doc.Markdown())
	return []byte(sb.String())
}

func quoteYAML(s string) string {
	if strings.ContainsAny(s, ":#\"'\n") {
		return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
	}
	return s
}

// titleFromFilename strips the extension to derive a default title.
func titleFromFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
