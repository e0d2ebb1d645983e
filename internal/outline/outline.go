// Package outline models an article as a heading hierarchy with the prose
// under each heading. It backs the per-article table of contents and the
// draft importer, which builds outlines from foreign formats and serializes
// them back to markdown.
package outline

import (
	"fmt"
	"strings"
)

// Doc is the root of a document outline.
type Doc struct {
	Title    string     // document title (from metadata or filename)
	Sections []*Section // top-level sections
}

// Section is a recursive part of the outline.
type Section struct {
	Heading  string     // section heading (empty for leading prose)
	Text     string     // prose under this heading (may be empty)
	Page     int        // source page, 0 if not applicable
	Sections []*Section // subsections
}

// Markdown serializes the outline back to markdown source. Headings map to
// ATX markers by depth; prose is emitted as-is between them.
func (d *Doc) Markdown() []byte {
	var sb strings.Builder
	for _, s := range d.Sections {
		writeSection(&sb, s, 1)
	}
	return []byte(sb.String())
}

func writeSection(sb *strings.Builder, s *Section, level int) {
	if level > 6 {
		level = 6
	}
	if s.Heading != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "%s %s\n", strings.Repeat("#", level), s.Heading)
	}
	if s.Text != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(s.Text, "\n"))
		sb.WriteString("\n")
	}
	for _, child := range s.Sections {
		writeSection(sb, child, level+1)
	}
}

// Headings returns the outline flattened to (depth, heading) pairs in
// document order, skipping prose-only sections. Used by templates to emit a
// table of contents.
func (d *Doc) Headings() []HeadingEntry {
	var out []HeadingEntry
	var walk func(sections []*Section, depth int)
	walk = func(sections []*Section, depth int) {
		for _, s := range sections {
			if s.Heading != "" {
				out = append(out, HeadingEntry{Depth: depth, Text: s.Heading})
			}
			walk(s.Sections, depth+1)
		}
	}
	walk(d.Sections, 1)
	return out
}

// HeadingEntry is one table-of-contents row.
type HeadingEntry struct {
	Depth int
	Text  string
}
