package af

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const maxResponseBytes = 4 << 20

// Client talks to the management backend that fronts the Application
// Function. Paths are resolved relative to the configured base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type call struct {
	op     string
	method string
	path   []string
	body   any
	out    any
	raw    *[]byte
	// status is the only accepted status code; zero accepts any 2xx.
	status int
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(parsed.String(), "/"),
		httpClient: httpClient,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ViewURL returns the absolute URL of a server-rendered page. Each part is
// escaped as a single path segment.
func (c *Client) ViewURL(parts ...string) string {
	return c.baseURL + "/" + JoinPath(parts...)
}

// JoinPath escapes each part as one path segment and joins them with "/".
func JoinPath(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.PathEscape(part)
	}
	return strings.Join(escaped, "/")
}

func (c *Client) CheckConnection(ctx context.Context) error {
	return c.send(ctx, call{op: "connection check", method: http.MethodGet, path: []string{"connection_checker"}})
}

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp createSessionResponse
	if err := c.send(ctx, call{op: "create session", method: http.MethodPost, path: []string{"create_session"}, out: &resp}); err != nil {
		return "", err
	}
	if resp.ProvisioningSessionID == "" {
		return "", fmt.Errorf("create session: response missing provisioning_session_id")
	}
	return resp.ProvisioningSessionID, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	var resp sessionListResponse
	if err := c.send(ctx, call{op: "list sessions", method: http.MethodGet, path: []string{"fetch_all_sessions"}, out: &resp}); err != nil {
		return nil, err
	}
	return resp.SessionIDs, nil
}

func (c *Client) RemoveAllSessions(ctx context.Context) error {
	return c.send(ctx, call{op: "remove all sessions", method: http.MethodDelete, path: []string{"remove_all_sessions"}})
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.send(ctx, call{op: "delete session", method: http.MethodDelete, path: []string{"delete_session", sessionID}})
}

// SetHosting asks the backend to create (or replace) the content hosting
// configuration of a session.
func (c *Client) SetHosting(ctx context.Context, sessionID string) (string, error) {
	var resp messageResponse
	if err := c.send(ctx, call{op: "set hosting", method: http.MethodPost, path: []string{"set_stream", sessionID}, out: &resp}); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) CreateCertificate(ctx context.Context, sessionID string) (string, error) {
	var resp certificateResponse
	if err := c.send(ctx, call{op: "create certificate", method: http.MethodPost, path: []string{"certificate", sessionID}, out: &resp}); err != nil {
		return "", err
	}
	return resp.CertificateID, nil
}

// GetCertificate returns the raw certificate document of a session.
func (c *Client) GetCertificate(ctx context.Context, sessionID string) ([]byte, error) {
	var raw []byte
	if err := c.send(ctx, call{op: "get certificate", method: http.MethodGet, path: []string{"certificate", sessionID}, raw: &raw}); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) GetCertificateID(ctx context.Context, sessionID string) (string, error) {
	var resp certificateResponse
	if err := c.send(ctx, call{op: "get certificate id", method: http.MethodGet, path: []string{"get_certificate_id", sessionID}, out: &resp}); err != nil {
		return "", err
	}
	return resp.CertificateID, nil
}

func (c *Client) SetConsumption(ctx context.Context, sessionID string, cfg ConsumptionReportingConfiguration) (string, error) {
	var resp messageResponse
	if err := c.send(ctx, call{op: "set consumption reporting", method: http.MethodPost, path: []string{"set_consumption", sessionID}, body: cfg, out: &resp}); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) DeleteConsumption(ctx context.Context, sessionID string) error {
	return c.send(ctx, call{op: "delete consumption reporting", method: http.MethodDelete, path: []string{"del_consumption", sessionID}, status: http.StatusNoContent})
}

func (c *Client) PolicyTemplatesEnabled(ctx context.Context, sessionID string) (bool, error) {
	var resp policyCheckResponse
	if err := c.send(ctx, call{op: "policy template check", method: http.MethodGet, path: []string{"policy_template_checker", sessionID}, out: &resp}); err != nil {
		return false, err
	}
	return resp.Enabled, nil
}

func (c *Client) CreatePolicyTemplate(ctx context.Context, sessionID string, template PolicyTemplate) (string, error) {
	var resp policyTemplateResponse
	if err := c.send(ctx, call{op: "create policy template", method: http.MethodPost, path: []string{"create_policy_template", sessionID}, body: template, out: &resp}); err != nil {
		return "", err
	}
	return resp.PolicyTemplateID, nil
}

func (c *Client) ListPolicyTemplateIDs(ctx context.Context, sessionID string) ([]string, error) {
	var ids []string
	if err := c.send(ctx, call{op: "list policy templates", method: http.MethodGet, path: []string{"list_policy_template_ids", sessionID}, out: &ids}); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) DeletePolicyTemplate(ctx context.Context, sessionID, policyTemplateID string) error {
	return c.send(ctx, call{op: "delete policy template", method: http.MethodDelete, path: []string{"delete_policy_template", sessionID, policyTemplateID}, status: http.StatusNoContent})
}

func (c *Client) CreateMetrics(ctx context.Context, sessionID string, cfg MetricsReportingConfiguration) (string, error) {
	var resp metricsResponse
	if err := c.send(ctx, call{op: "create metrics configuration", method: http.MethodPost, path: []string{"create_metrics", sessionID}, body: cfg, out: &resp}); err != nil {
		return "", err
	}
	return resp.MetricsReportingConfigurationID, nil
}

func (c *Client) ListMetricsIDs(ctx context.Context, sessionID string) ([]string, error) {
	var ids []string
	if err := c.send(ctx, call{op: "list metrics configurations", method: http.MethodGet, path: []string{"list_metrics_ids", sessionID}, out: &ids}); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) DeleteMetrics(ctx context.Context, sessionID, metricsID string) error {
	return c.send(ctx, call{op: "delete metrics configuration", method: http.MethodDelete, path: []string{"delete_metrics", sessionID, metricsID}, status: http.StatusNoContent})
}

func (c *Client) Details(ctx context.Context) ([]SessionDetails, error) {
	var details []SessionDetails
	if err := c.send(ctx, call{op: "session details", method: http.MethodGet, path: []string{"details"}, out: &details}); err != nil {
		return nil, err
	}
	return details, nil
}

// View fetches a server-rendered page. path is already escaped and is
// resolved relative to the base URL. The caller closes the body.
func (c *Client) View(ctx context.Context, path, rawQuery string) (*http.Response, error) {
	path = strings.TrimPrefix(path, "/")
	if slices.ContainsFunc(strings.Split(path, "/"), isParentSegment) {
		return nil, fmt.Errorf("view %q: invalid path", path)
	}

	target := c.baseURL + "/" + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("view %q: failed to create request: %w", path, err)
	}

	slog.Debug("Fetching backend view", "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("view %q: failed to execute request: %w", path, err)
	}
	return resp, nil
}

func isParentSegment(segment string) bool {
	unescaped, err := url.PathUnescape(segment)
	return err != nil || unescaped == ".."
}

func (c *Client) send(ctx context.Context, cl call) error {
	var reqBody io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", cl.op, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	target := c.ViewURL(cl.path...)
	req, err := http.NewRequestWithContext(ctx, cl.method, target, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("Calling backend", "op", cl.op, "method", cl.method, "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to execute request: %w", cl.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", cl.op, err)
	}

	if !accepted(cl.status, resp.StatusCode) {
		slog.Debug("Backend rejected request", "op", cl.op, "status_code", resp.StatusCode)
		return &Error{Op: cl.op, StatusCode: resp.StatusCode, Detail: parseDetail(body)}
	}

	if cl.raw != nil {
		*cl.raw = body
	}
	if cl.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, cl.out); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", cl.op, err)
	}
	return nil
}

func accepted(want, got int) bool {
	if want != 0 {
		return got == want
	}
	return got >= 200 && got < 300
}
