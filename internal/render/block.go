package render

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DefaultDecorativeClasses is the pool of cosmetic class names attached to
// wrapped blocks. One member is chosen uniformly per block; the labels carry
// no meaning beyond selecting a stylesheet rule.
var DefaultDecorativeClasses = []string{"alpha", "beta", "gamma", "delta"}

// DecoratedBlock wraps one direct child block of the document root. It is
// inserted by the AST transformer below and rendered as a classed <div>.
type DecoratedBlock struct {
	ast.BaseBlock
	Label      string // semantic type of the wrapped block, e.g. "paragraph"
	Decoration string // one member of the decorative pool
}

// KindDecoratedBlock is the node kind of DecoratedBlock.
var KindDecoratedBlock = ast.NewNodeKind("DecoratedBlock")

func (n *DecoratedBlock) Kind() ast.NodeKind { return KindDecoratedBlock }

func (n *DecoratedBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label":      n.Label,
		"Decoration": n.Decoration,
	}, nil)
}

// blockWrapper rewrites the document so that each direct child block of the
// root is enclosed in a DecoratedBlock. Wrapping is one level deep only;
// nested blocks render with goldmark's default behavior. Raw HTML blocks are
// left alone, so feeding previously rendered output back through the
// renderer does not double-wrap.
type blockWrapper struct {
	pool []string
	pick func(n int) int
}

func (t *blockWrapper) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	for child := doc.FirstChild(); child != nil; {
		next := child.NextSibling()
		if wrappable(child) {
			wrapper := &DecoratedBlock{
				Label:      blockLabel(child),
				Decoration: t.pool[t.pick(len(t.pool))],
			}
			doc.ReplaceChild(doc, child, wrapper)
			wrapper.AppendChild(wrapper, child)
		}
		child = next
	}
}

func wrappable(n ast.Node) bool {
	if n.Type() != ast.TypeBlock {
		return false
	}
	return n.Kind() != ast.KindHTMLBlock
}

// blockLabel names the semantic type emitted in the wrapper's class list.
func blockLabel(n ast.Node) string {
	switch n.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		return "paragraph"
	case ast.KindHeading:
		return "heading"
	case ast.KindBlockquote:
		return "blockquote"
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		return "code"
	case ast.KindList:
		return "list"
	case ast.KindThematicBreak:
		return "thematic-break"
	}
	return strings.ToLower(n.Kind().String())
}

type decoratedBlockRenderer struct{}

func (r *decoratedBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDecoratedBlock, r.renderDecoratedBlock)
}

func (r *decoratedBlockRenderer) renderDecoratedBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*DecoratedBlock)
	if entering {
		_, _ = w.WriteString(`<div class="block ` + n.Label + ` ` + n.Decoration + "\">\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}
