package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vango-dev/lumen/pkg/backend"
)

// Page geometry in points (A4).
const (
	PageWidth  = 595
	PageHeight = 842
	margin     = 56

	defaultFontSize = 12
	lineSpacing     = 1.4
)

// headingSizes are the font sizes of heading tags.
var headingSizes = map[string]float64{
	"h1": 24,
	"h2": 18,
	"h3": 14,
}

// Line is one laid-out line of text.
type Line struct {
	Text string
	Size float64
}

// Layout splits root into pages of lines. Every element tagged "page"
// starts a page; without page elements the whole tree is one page. Text
// nodes that are siblings share a line.
func Layout(root *Element) [][]Line {
	var pages []*Element
	collectPages(root, &pages)
	if len(pages) == 0 {
		pages = []*Element{root}
	}

	out := make([][]Line, 0, len(pages))
	for _, p := range pages {
		var lines []Line
		layoutLines(p, defaultFontSize, &lines)
		out = append(out, lines)
	}
	return out
}

func collectPages(e *Element, pages *[]*Element) {
	if e.kind == backend.KindElement && e.Tag == "page" {
		*pages = append(*pages, e)
		return
	}
	for _, c := range e.children {
		collectPages(c, pages)
	}
}

func layoutLines(e *Element, size float64, lines *[]Line) {
	if e.kind == backend.KindElement {
		if s, ok := headingSizes[e.Tag]; ok {
			size = s
		}
		if v, err := strconv.ParseFloat(e.Attrs["size"], 64); err == nil && v > 0 {
			size = v
		}
	}

	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			*lines = append(*lines, Line{Text: run.String(), Size: size})
			run.Reset()
		}
	}
	for _, c := range e.children {
		switch c.kind {
		case backend.KindText:
			run.WriteString(c.Data)
		case backend.KindElement, backend.KindFragment:
			flush()
			layoutLines(c, size, lines)
		}
	}
	flush()
}

// Write lays out root and writes a PDF 1.4 file to w. Lines that do not
// fit on their page are dropped.
func Write(w io.Writer, root *Element) error {
	pages := Layout(root)

	var buf bytes.Buffer
	offsets := []int{0}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n")

	// Objects 1-3 are fixed; page i uses objects 4+2i (page) and 5+2i
	// (content stream).
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, lines := range pages {
		content := pageContent(lines)
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			PageWidth, PageHeight, 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets))
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xref)

	_, err := w.Write(buf.Bytes())
	return err
}

func pageContent(lines []Line) string {
	var sb strings.Builder
	y := float64(PageHeight - margin)
	for _, l := range lines {
		y -= l.Size * lineSpacing
		if y < margin {
			break
		}
		fmt.Fprintf(&sb, "BT /F1 %s Tf %d %s Td (%s) Tj ET\n",
			formatNum(l.Size), margin, formatNum(y), escapeText(l.Text))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// escapeText escapes PDF string delimiters and replaces characters the
// standard Helvetica encoding cannot show.
func escapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '(' || r == ')':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n' || r == '\t':
			sb.WriteByte(' ')
		case r < 32 || r > 126:
			sb.WriteByte('?')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
