// Package highlight wraps chroma for fenced code blocks. Output is an HTML
// fragment with class-based markup so all styling lives in the site
// stylesheet; line numbers are off and the surrounding <pre> is supplied by
// the caller.
package highlight

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var formatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
	chromahtml.TabWidth(4),
)

// Snippet writes source highlighted for lang to w. Unknown language tags are
// handed to chroma as-is; its fallback lexer renders them as plain text with
// no markup spans.
func Snippet(w io.Writer, source, lang string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	tokens, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}
	return formatter.Format(w, styles.Fallback, tokens)
}

// WriteCSS writes the stylesheet for the named chroma style, covering every
// class the formatter can emit. Falls back to the default style when the
// name is unknown.
func WriteCSS(w io.Writer, styleName string) error {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return formatter.WriteCSS(w, style)
}
