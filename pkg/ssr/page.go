package ssr

import (
	"bufio"
	"io"

	"golang.org/x/net/html"
)

// Page is the document shell around rendered markup.
type Page struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Meta contains meta tags for the head.
	Meta []MetaTag

	// StyleSheets contains stylesheet hrefs.
	StyleSheets []string

	// Styles contains inline CSS.
	Styles []string

	// Scripts are appended to the end of the body.
	Scripts []ScriptTag

	// RootID is the id of the element the markup is rendered into, which
	// the client claims on rehydration. Defaults to "app".
	RootID string

	// LiveURL, when set, is exposed as data-live on the root element.
	LiveURL string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Module bool
	Defer  bool
	Inline string
}

// WritePage writes a complete HTML document with body as the content of
// the root element.
func WritePage(w io.Writer, page Page, body string) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	rootID := page.RootID
	if rootID == "" {
		rootID = "app"
	}

	bw := bufio.NewWriter(w)
	p := func(parts ...string) {
		for _, s := range parts {
			bw.WriteString(s)
		}
	}

	p("<!DOCTYPE html>\n", `<html lang="`, attr(lang), "\">\n<head>\n")
	p(`  <meta charset="utf-8">`, "\n")
	p(`  <meta name="viewport" content="width=device-width, initial-scale=1">`, "\n")
	if page.Title != "" {
		p("  <title>", html.EscapeString(page.Title), "</title>\n")
	}
	for _, m := range page.Meta {
		p("  <meta")
		if m.Name != "" {
			p(` name="`, attr(m.Name), `"`)
		}
		if m.Property != "" {
			p(` property="`, attr(m.Property), `"`)
		}
		p(` content="`, attr(m.Content), "\">\n")
	}
	for _, href := range page.StyleSheets {
		p(`  <link rel="stylesheet" href="`, attr(href), "\">\n")
	}
	for _, css := range page.Styles {
		p("  <style>", css, "</style>\n")
	}
	p("</head>\n<body>\n")

	p(`<div id="`, attr(rootID), `"`)
	if page.LiveURL != "" {
		p(` data-live="`, attr(page.LiveURL), `"`)
	}
	p(">", body, "</div>\n")

	for _, s := range page.Scripts {
		p("<script")
		if s.Module {
			p(` type="module"`)
		}
		if s.Src != "" {
			p(` src="`, attr(s.Src), `"`)
		}
		if s.Defer {
			p(" defer")
		}
		p(">", s.Inline, "</script>\n")
	}
	p("</body>\n</html>\n")
	return bw.Flush()
}

func attr(s string) string {
	return html.EscapeString(s)
}
