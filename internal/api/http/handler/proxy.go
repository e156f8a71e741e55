package handler

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	"github.com/5G-MAG/m1-dashboard/internal/cert"
)

const viewBasePath = "/view"

// hopHeaders are not copied from backend view responses.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Content-Length":    true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
}

type ViewClient interface {
	View(ctx context.Context, path, rawQuery string) (*http.Response, error)
	Details(ctx context.Context) ([]af.SessionDetails, error)
}

// ViewHandler serves the backend's detail pages under /view so that the
// browser only needs to reach the dashboard.
type ViewHandler struct {
	client ViewClient
}

func NewViewHandler(client ViewClient) *ViewHandler {
	return &ViewHandler{client: client}
}

func (h *ViewHandler) Proxy(c *gin.Context) {
	targetPath := strings.TrimPrefix(c.Request.URL.EscapedPath(), viewBasePath+"/")
	if targetPath == "details" {
		h.Details(c)
		return
	}

	resp, err := h.client.View(c.Request.Context(), targetPath, c.Request.URL.RawQuery)
	if err != nil {
		slog.Error("Failed to fetch backend view", "error", err, "path", targetPath)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend view unavailable"})
		return
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Failed to read backend view", "error", err, "path", targetPath)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read backend view"})
		return
	}

	for key, values := range resp.Header {
		if hopHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}

	if isHTMLResponse(resp.Header.Get("Content-Type")) {
		payload = rewriteHTMLPaths(payload, viewBasePath)
		slog.Debug("HTML response rewritten", "path", targetPath, "base_path", viewBasePath)
	}

	slog.Debug("Served backend view", "path", targetPath, "status_code", resp.StatusCode)
	c.Status(resp.StatusCode)
	c.Writer.Write(payload)
}

type detailsEntry struct {
	ID           string
	Certificates []string
	Hosting      string
	Consumption  string
}

var detailsTemplate = template.Must(template.New("details").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Provisioning Sessions</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 24px; }
  section { margin-bottom: 32px; }
  pre { background: #f4f4f5; padding: 12px; border-radius: 6px; overflow-x: auto; }
</style>
</head>
<body>
<h1>Provisioning Sessions</h1>
{{- range .}}
<section>
  <h2>{{.ID}}</h2>
  <h3>Certificates</h3>
  {{- range .Certificates}}
  <pre>{{.}}</pre>
  {{- else}}
  <p>None</p>
  {{- end}}
  <h3>Content Hosting Configuration</h3>
  <pre>{{.Hosting}}</pre>
  <h3>Consumption Reporting Configuration</h3>
  <pre>{{.Consumption}}</pre>
</section>
{{- else}}
<p>No provisioning sessions.</p>
{{- end}}
</body>
</html>
`))

// Details renders the backend's session details as HTML. Certificates
// that are PEM encoded are shown decoded.
func (h *ViewHandler) Details(c *gin.Context) {
	details, err := h.client.Details(c.Request.Context())
	if err != nil {
		slog.Error("Failed to fetch session details", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": af.Detail(err, "failed to fetch session details")})
		return
	}

	entries := make([]detailsEntry, 0, len(details))
	for _, d := range details {
		entry := detailsEntry{
			ID:          d.ID,
			Hosting:     rawOrNone(d.ContentHostingConfiguration),
			Consumption: rawOrNone(d.ConsumptionReportingConfiguration),
		}
		for _, pem := range d.Certificates {
			desc, err := cert.Describe([]byte(pem), 0)
			if errors.Is(err, cert.ErrNotPEM) {
				desc = pem
			}
			entry.Certificates = append(entry.Certificates, desc)
		}
		entries = append(entries, entry)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := detailsTemplate.Execute(c.Writer, entries); err != nil {
		slog.Error("Failed to render session details", "error", err)
	}
}

func rawOrNone(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "None"
	}
	return s
}

func isHTMLResponse(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

func rewriteHTMLPaths(htmlBytes []byte, basePathPrefix string) []byte {
	html := string(htmlBytes)

	baseTag := "<base href=\"" + basePathPrefix + "/\">"
	if strings.Contains(html, "<head>") {
		html = strings.Replace(html, "<head>", "<head>"+baseTag, 1)
	} else if strings.Contains(html, "<HEAD>") {
		html = strings.Replace(html, "<HEAD>", "<HEAD>"+baseTag, 1)
	} else {
		return htmlBytes
	}

	return []byte(html)
}
