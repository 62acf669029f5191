package httpapi

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"strings"
	texttemplate "text/template"

	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/yuin/goldmark"
)

//go:embed blocked.md
var blockedMarkdown string

var (
	blockedSource = texttemplate.Must(texttemplate.New("blocked.md").Parse(blockedMarkdown))

	blockedShell = template.Must(template.New("blocked").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Blocked: {{.Host}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 36rem; margin: 15vh auto; padding: 0 1rem; color: #1f2937; }
h1 { color: #7c6fe0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))
)

type blockedPage struct {
	Host string
	Body template.HTML
}

// sanitizeHost keeps only characters valid in a hostname so the value is
// inert in both Markdown and HTML.
func sanitizeHost(host string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(host) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == ':':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "This site"
	}
	return b.String()
}

// renderBlocked produces the blocked page for host.
func renderBlocked(host string) ([]byte, error) {
	host = sanitizeHost(host)

	var md bytes.Buffer
	if err := blockedSource.Execute(&md, struct{ Host string }{host}); err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &body); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	// goldmark escapes text and drops raw HTML by default
	page := blockedPage{Host: host, Body: template.HTML(body.String())}
	if err := blockedShell.Execute(&out, page); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (s *Server) handleBlocked(w http.ResponseWriter, r *http.Request) {
	html, err := renderBlocked(r.URL.Query().Get("host"))
	if err != nil {
		s.log.Error("Failed to render blocked page", logfields.Error(err))
		http.Error(w, "blocked", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(html)
}
