package outline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// The outline parser only needs goldmark's AST; frontmatter is consumed by
// the meta extension so a leading YAML block never shows up as a section.
var md = goldmark.New(goldmark.WithExtensions(meta.Meta))

// FromMarkdown builds an outline from markdown source based on heading
// levels. Prose between headings attaches to the nearest enclosing section.
func FromMarkdown(source []byte, title string) *Doc {
	doc := md.Parser().Parse(text.NewReader(source))

	tree := &Doc{Title: title}

	type stackEntry struct {
		section *Section
		level   int
	}

	// Root is level 0 so every heading nests under it.
	root := &Section{Heading: tree.Title}
	stack := []stackEntry{{section: root, level: 0}}

	var currentText bytes.Buffer

	flushText := func() {
		t := strings.TrimSpace(currentText.String())
		if t != "" {
			top := stack[len(stack)-1].section
			if top.Text != "" {
				top.Text += "\n\n" + t
			} else {
				top.Text = t
			}
		}
		currentText.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flushText()
			level := node.Level
			heading := string(node.Text(source))

			section := &Section{Heading: heading}

			// Pop until the parent has a lower level.
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}

			parent := stack[len(stack)-1].section
			parent.Sections = append(parent.Sections, section)
			stack = append(stack, stackEntry{section: section, level: level})

		default:
			if t := extractText(n, source); t != "" {
				if currentText.Len() > 0 {
					currentText.WriteString("\n\n")
				}
				currentText.WriteString(t)
			}
		}
	}
	flushText()

	tree.Sections = root.Sections
	// No headings at all: keep the prose as a single section.
	if len(tree.Sections) == 0 && root.Text != "" {
		tree.Sections = []*Section{{Text: root.Text}}
	}

	return tree
}

// extractText gets the text content of a goldmark AST node. Raw lines are
// read only for childless blocks (code blocks); blocks with inline children
// cover the same segments through them.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(source))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(source))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, source))
		}
	}
	return strings.TrimSpace(buf.String())
}
