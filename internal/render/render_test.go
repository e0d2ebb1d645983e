package render

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// collectBlockDivs parses rendered output and returns the class attribute of
// every <div> whose class list starts with "block".
func collectBlockDivs(t *testing.T, rendered []byte) []string {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		t.Fatalf("output is not parseable HTML: %v", err)
	}
	var classes []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			for _, attr := range n.Attr {
				if attr.Key == "class" && strings.HasPrefix(attr.Val, "block ") {
					classes = append(classes, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return classes
}

func TestRender_WrapsTopLevelBlocks(t *testing.T) {
	r := New()
	out, err := r.Render([]byte("# Title\n\nSome text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	classes := collectBlockDivs(t, out)
	if len(classes) != 2 {
		t.Fatalf("expected 2 wrapped blocks, got %d (%v)", len(classes), classes)
	}
	if !strings.HasPrefix(classes[0], "block heading ") {
		t.Errorf("expected heading wrapper, got %q", classes[0])
	}
	if !strings.HasPrefix(classes[1], "block paragraph ") {
		t.Errorf("expected paragraph wrapper, got %q", classes[1])
	}

	s := string(out)
	if !strings.Contains(s, ">Title</h1>") {
		t.Errorf("expected h1 content, got %q", s)
	}
	if !strings.Contains(s, "<p>Some text.</p>") {
		t.Errorf("expected paragraph content, got %q", s)
	}
}

func TestRender_DecorativeClassFromPool(t *testing.T) {
	pool := map[string]bool{"alpha": true, "beta": true, "gamma": true, "delta": true}

	r := New()
	out, err := r.Render([]byte("One.\n\nTwo.\n\nThree.\n\n# Four\n\n> Five.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	classes := collectBlockDivs(t, out)
	if len(classes) != 5 {
		t.Fatalf("expected 5 wrapped blocks, got %d", len(classes))
	}
	for _, cls := range classes {
		tokens := strings.Fields(cls)
		if len(tokens) != 3 {
			t.Fatalf("expected exactly 3 class tokens, got %q", cls)
		}
		if tokens[0] != "block" {
			t.Errorf("expected first token %q, got %q", "block", tokens[0])
		}
		if !pool[tokens[2]] {
			t.Errorf("decorative class %q not in pool", tokens[2])
		}
	}
}

func TestRender_InjectedPickerIsDeterministic(t *testing.T) {
	r := New(WithPick(func(n int) int { return 0 }))

	first, err := r.Render([]byte("Paragraph one.\n\nParagraph two.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Render([]byte("Paragraph one.\n\nParagraph two.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("expected identical output with fixed picker:\n%q\n%q", first, second)
	}
	if !strings.Contains(string(first), `class="block paragraph alpha"`) {
		t.Errorf("expected pool[0] decoration, got %q", first)
	}
}

func TestRender_CustomDecorativePool(t *testing.T) {
	r := New(
		WithDecorativeClasses("north", "south"),
		WithPick(func(n int) int { return n - 1 }),
	)
	out, err := r.Render([]byte("Hello.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `class="block paragraph south"`) {
		t.Errorf("expected custom pool class, got %q", out)
	}
}

func TestRender_FencedCodeWithLanguage(t *testing.T) {
	r := New()
	out, err := r.Render([]byte("```ruby\nputs \"hi\"\n```\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `<pre><code class="ruby">`) {
		t.Errorf("expected ruby code element, got %q", s)
	}
	if !strings.Contains(s, "<span class=") {
		t.Errorf("expected highlighter markup for ruby, got %q", s)
	}
	if !strings.Contains(s, "</code></pre>") {
		t.Errorf("expected closing code/pre, got %q", s)
	}
	classes := collectBlockDivs(t, out)
	if len(classes) != 1 || !strings.HasPrefix(classes[0], "block code ") {
		t.Errorf("expected single code wrapper, got %v", classes)
	}
}

func TestRender_UntaggedFenceDefaultsToText(t *testing.T) {
	r := New()
	out, err := r.Render([]byte("```\nplain text\n```\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `<pre><code class="text">plain text</code></pre>`) {
		t.Errorf("expected unhighlighted text block, got %q", s)
	}
	if strings.Contains(s, "<span") {
		t.Errorf("expected no highlighter spans for plain text, got %q", s)
	}
}

func TestRender_UnknownLanguagePassedThrough(t *testing.T) {
	r := New()
	out, err := r.Render([]byte("```zzznotalang\nstuff\n```\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `<pre><code class="zzznotalang">`) {
		t.Errorf("expected language tag emitted unmodified, got %q", out)
	}
}

func TestRender_NestedBlocksNotWrapped(t *testing.T) {
	// The paragraph inside the blockquote must not get its own wrapper.
	r := New()
	out, err := r.Render([]byte("> Quoted text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	classes := collectBlockDivs(t, out)
	if len(classes) != 1 {
		t.Fatalf("expected 1 wrapper, got %d (%v)", len(classes), classes)
	}
	if !strings.HasPrefix(classes[0], "block blockquote ") {
		t.Errorf("expected blockquote wrapper, got %q", classes[0])
	}
}

func TestRender_RawHTMLNotReWrapped(t *testing.T) {
	// Rendering previous output again must pass the literal divs through
	// without adding new wrappers.
	r := New()
	first, err := r.Render([]byte("# Title\n\nSome text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Render(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Count(string(first), `<div class="block `)
	got := strings.Count(string(second), `<div class="block `)
	if got != want {
		t.Errorf("expected %d wrappers after re-render, got %d:\n%s", want, got, second)
	}
}

func TestRender_SmartQuotes(t *testing.T) {
	r := New()
	out, err := r.Render([]byte("She said \"hello\" and didn't leave.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "&ldquo;hello&rdquo;") {
		t.Errorf("expected double-quote substitution, got %q", s)
	}
	if !strings.Contains(s, "didn&rsquo;t") {
		t.Errorf("expected apostrophe substitution, got %q", s)
	}
}

func TestRender_EmptyInput(t *testing.T) {
	r := New()
	out, err := r.Render([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bytes.TrimSpace(out)) != 0 {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestRenderArticle_FrontmatterConsumed(t *testing.T) {
	src := "---\ntitle: On Logging\ntags:\n  - ruby\n  - infra\n---\n\nBody text.\n"
	r := New()
	out, metaData, err := r.RenderArticle([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metaData["title"] != "On Logging" {
		t.Errorf("expected frontmatter title, got %v", metaData["title"])
	}
	s := string(out)
	if strings.Contains(s, "On Logging") {
		t.Errorf("frontmatter leaked into output: %q", s)
	}
	if !strings.Contains(s, "<p>Body text.</p>") {
		t.Errorf("expected body rendered, got %q", s)
	}
}
