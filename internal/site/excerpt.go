package site

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Excerpt extracts a plain-text preview from a rendered HTML fragment: the
// text of the first paragraph, truncated to maxWords on a word boundary.
func Excerpt(fragment []byte, maxWords int) string {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return ""
	}

	p := findFirstParagraph(doc)
	if p == nil {
		return ""
	}

	words := strings.Fields(textContent(p))
	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "…"
	}
	return strings.Join(words, " ")
}

func findFirstParagraph(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p":
			return n
		case "pre", "script", "style":
			return nil
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if p := findFirstParagraph(c); p != nil {
			return p
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
