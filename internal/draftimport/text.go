package draftimport

import (
	"bufio"
	"io"
	"strings"

	"github.com/mwhite4/inkpress/internal/outline"
)

// TextImporter handles plain text files. Blank-line separated paragraphs
// become prose sections; there is no heading structure to recover.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*outline.Doc, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &outline.Doc{Title: titleFromFilename(filename)}
	for _, para := range paragraphs {
		doc.Sections = append(doc.Sections, &outline.Section{Text: para})
	}
	return doc, nil
}
