package article

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwhite4/inkpress/internal/render"
)

func writeArticle(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_FrontmatterFields(t *testing.T) {
	src := `---
title: Logging Done Right
date: 2019-04-02
tags:
  - logging
  - infra
draft: true
---

First paragraph.
`
	path := writeArticle(t, "logging-done-right.md", src)
	a, err := Load(render.New(), path, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Title != "Logging Done Right" {
		t.Errorf("expected frontmatter title, got %q", a.Title)
	}
	if a.Slug != "logging-done-right" {
		t.Errorf("expected slug from filename, got %q", a.Slug)
	}
	if !a.Draft {
		t.Error("expected draft flag set")
	}
	if got := a.Date.Format("2006-01-02"); got != "2019-04-02" {
		t.Errorf("expected frontmatter date, got %s", got)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "logging" || a.Tags[1] != "infra" {
		t.Errorf("expected tags [logging infra], got %v", a.Tags)
	}
	if !strings.Contains(string(a.HTML), "<p>First paragraph.</p>") {
		t.Errorf("expected rendered body, got %q", a.HTML)
	}
}

func TestLoad_DefaultsWithoutFrontmatter(t *testing.T) {
	fallback := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	path := writeArticle(t, "Plain Notes.md", "Just a body.\n")

	a, err := Load(render.New(), path, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Title != "Plain Notes" {
		t.Errorf("expected filename title, got %q", a.Title)
	}
	if a.Slug != "plain-notes" {
		t.Errorf("expected slugified filename, got %q", a.Slug)
	}
	if !a.Date.Equal(fallback) {
		t.Errorf("expected fallback date, got %v", a.Date)
	}
	if a.Draft {
		t.Error("expected draft false by default")
	}
}

func TestLoad_OutlineFromHeadings(t *testing.T) {
	path := writeArticle(t, "structured.md", "# Top\n\nIntro.\n\n## Sub\n\nMore.\n")
	a, err := Load(render.New(), path, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := a.Outline.Headings()
	if len(entries) != 2 {
		t.Fatalf("expected 2 outline entries, got %d", len(entries))
	}
	if entries[0].Text != "Top" || entries[1].Text != "Sub" {
		t.Errorf("unexpected outline entries: %+v", entries)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2021-03-04", "2021-03-04", true},
		{"2021-03-04T15:04:05Z", "2021-03-04", true},
		{" 2021-03-04 ", "2021-03-04", true},
		{"yesterday", "", false},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseDate(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error", tt.in)
			}
			continue
		}
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Mongrel2 & Rails!  ", "mongrel2-rails"},
		{"already-a-slug", "already-a-slug"},
		{"___", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
