package ssr

import (
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Static serves page assets (stylesheets, scripts, images) from a file
// system under a URL prefix.
type Static struct {
	Prefix string
	FS     fs.FS

	// Immutable sets a one year max-age on fingerprinted names such as
	// app.a1b2c3d4.css. Other files get a one hour max-age.
	Immutable bool
}

// WithStatic serves s next to the pages.
func WithStatic(s Static) HandlerOption {
	return func(h *Handler) {
		if s.FS != nil {
			h.static = &s
		}
	}
}

func (s *Static) prefix() string {
	p := s.Prefix
	if p == "" {
		p = "/static"
	}
	return "/" + strings.Trim(p, "/")
}

// relPath maps a request path to a file name inside FS. Traversal,
// absolute paths and backslashes are rejected.
func (s *Static) relPath(urlPath string) (string, bool) {
	prefix := s.prefix() + "/"
	if !strings.HasPrefix(urlPath, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(urlPath, prefix)
	if rel == "" || strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}
	clean := path.Clean(rel)
	if !fs.ValidPath(clean) || clean == "." {
		return "", false
	}
	return clean, true
}

func (s *Static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel, ok := s.relPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	f, err := s.FS.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	seeker, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "unseekable asset", http.StatusInternalServerError)
		return
	}

	switch {
	case s.Immutable && isFingerprinted(rel):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	default:
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	}
	http.ServeContent(w, r, rel, info.ModTime(), seeker)
}

// isFingerprinted reports whether the name carries a hex hash of at least
// eight characters before its extension.
func isFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
