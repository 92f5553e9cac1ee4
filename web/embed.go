package web

import "embed"

// TemplatesFS embeds the HTML templates of the static site.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets copied verbatim into the site output.
//
//go:embed static/*
var StaticFS embed.FS
