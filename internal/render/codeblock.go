package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/mwhite4/inkpress/internal/highlight"
)

// codeBlockRenderer replaces goldmark's default code block output with
// syntax-highlighted fragments. The language tag on a fence selects the
// lexer; untagged fences and indented code blocks highlight as "text".
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := "text"
	if l := n.Language(source); len(l) > 0 {
		lang = string(l)
	}
	writeHighlighted(w, source, n, lang)
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	writeHighlighted(w, source, node, "text")
	return ast.WalkContinue, nil
}

func writeHighlighted(w util.BufWriter, source []byte, n ast.Node, lang string) {
	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}
	body := strings.TrimRight(code.String(), "\n")

	_, _ = w.WriteString(`<pre><code class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(lang)))
	_, _ = w.WriteString(`">`)

	var fragment bytes.Buffer
	if err := highlight.Snippet(&fragment, body, lang); err != nil {
		// Tokenisers don't fail on ordinary text; if one does, emit the
		// code escaped and unhighlighted.
		_, _ = w.Write(util.EscapeHTML([]byte(body)))
	} else {
		_, _ = w.Write(fragment.Bytes())
	}

	_, _ = w.WriteString("</code></pre>\n")
}
