package site

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mwhite4/inkpress/internal/article"
)

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	Title   string   `xml:"title"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Link    atomLink `xml:"link"`
	Summary string   `xml:"summary,omitempty"`
}

// writeFeed emits an Atom feed for the given articles, newest first.
func writeFeed(w io.Writer, cfg Config, articles []*article.Article) error {
	base := strings.TrimRight(cfg.BaseURL, "/")

	feed := atomFeed{
		Xmlns:   "http://www.w3.org/2005/Atom",
		Title:   cfg.SiteTitle,
		ID:      base + "/",
		Updated: time.Now().UTC().Format(time.RFC3339),
		Links: []atomLink{
			{Href: base + "/"},
			{Href: base + "/feed.xml", Rel: "self"},
		},
	}

	for _, a := range articles {
		url := fmt.Sprintf("%s/%s/", base, a.Slug)
		feed.Entries = append(feed.Entries, atomEntry{
			Title:   a.Title,
			ID:      url,
			Updated: a.Date.UTC().Format(time.RFC3339),
			Link:    atomLink{Href: url},
			Summary: a.Excerpt,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
