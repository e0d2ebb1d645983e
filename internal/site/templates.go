package site

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// baseCSS carries the structural rules for wrapped blocks and the four
// decorative class names. The chroma rules are appended by the builder.
const baseCSS = `body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: Georgia, serif; line-height: 1.6; }
nav a { text-decoration: none; font-weight: bold; }
.block { margin: 1.2rem 0; }
.block.alpha { border-left: 3px solid #c9d8e4; padding-left: 0.8rem; }
.block.beta { border-left: 3px solid #d8e4c9; padding-left: 0.8rem; }
.block.gamma { border-left: 3px solid #e4c9d8; padding-left: 0.8rem; }
.block.delta { border-left: 3px solid #e4d8c9; padding-left: 0.8rem; }
pre { overflow-x: auto; padding: 0.8rem; background: #f6f6f4; }
.tag { background: #eee; padding: 0.1rem 0.4rem; border-radius: 3px; font-size: 0.85rem; }
.toc { font-size: 0.9rem; color: #555; }
`
