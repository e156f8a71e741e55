package af

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", srv.Client())
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("localhost:8000", nil)
	assert.Error(t, err)

	_, err = NewClient("", nil)
	assert.Error(t, err)
}

func TestViewURLEscapesSegments(t *testing.T) {
	c, err := NewClient("http://backend:8000/ui/", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8000/ui/show_certificate/ps%201/cert%2F2", c.ViewURL("show_certificate", "ps 1", "cert/2"))
	assert.Equal(t, "http://backend:8000/ui/details", c.ViewURL("details"))
}

func TestListSessions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/fetch_all_sessions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"session_ids":["a","b","c"]}`)
	})

	ids, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestCreateSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create_session", r.URL.Path)
		_, _ = io.WriteString(w, `{"provisioning_session_id":"ps-1"}`)
	})

	id, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ps-1", id)
}

func TestCreateSessionMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := c.CreateSession(context.Background())
	assert.Error(t, err)
}

func TestSetConsumptionSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/set_consumption/ps-1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(10), body["reportingInterval"])
		assert.Equal(t, 50.5, body["samplePercentage"])
		assert.Equal(t, true, body["locationReporting"])
		assert.Equal(t, false, body["accessReporting"])

		_, _ = io.WriteString(w, `{"message":"Consumption reporting set"}`)
	})

	msg, err := c.SetConsumption(context.Background(), "ps-1", ConsumptionReportingConfiguration{
		ReportingInterval: 10,
		SamplePercentage:  50.5,
		LocationReporting: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Consumption reporting set", msg)
}

func TestDeleteRequiresNoContent(t *testing.T) {
	status := http.StatusNoContent
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/delete_policy_template/ps-1/pol-1", r.URL.Path)
		w.WriteHeader(status)
		if status != http.StatusNoContent {
			_, _ = io.WriteString(w, `{"detail":"policy template is in use"}`)
		}
	})

	require.NoError(t, c.DeletePolicyTemplate(context.Background(), "ps-1", "pol-1"))

	status = http.StatusOK
	err := c.DeletePolicyTemplate(context.Background(), "ps-1", "pol-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, StatusCode(err))
	assert.Equal(t, "policy template is in use", Detail(err, "fallback"))
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "string detail", body: `{"detail":"no such session"}`, detail: "no such session"},
		{name: "structured detail", body: `{"detail":[{"loc":["body"],"msg":"bad"}]}`, detail: `[{"loc":["body"],"msg":"bad"}]`},
		{name: "null detail", body: `{"detail":null}`, detail: ""},
		{name: "not json", body: `Internal Server Error`, detail: ""},
		{name: "empty", body: ``, detail: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.CreateCertificate(context.Background(), "ps-1")
			require.Error(t, err)
			assert.True(t, IsHTTPError(err))
			want := tt.detail
			if want == "" {
				want = "fallback"
			}
			assert.Equal(t, want, Detail(err, "fallback"))
		})
	}
}

func TestDeleteSessionNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delete_session/ps-9", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.DeleteSession(context.Background(), "ps-9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTransportErrorIsNotHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, err := NewClient(baseURL, nil)
	require.NoError(t, err)

	err = c.CheckConnection(context.Background())
	require.Error(t, err)
	assert.False(t, IsHTTPError(err))
	assert.Equal(t, 0, StatusCode(err))
	assert.Equal(t, "fallback", Detail(err, "fallback"))
}

func TestListIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/list_policy_template_ids/ps-1":
			_, _ = io.WriteString(w, `["p1","p2"]`)
		case "/list_metrics_ids/ps-1":
			_, _ = io.WriteString(w, `[]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	policies, err := c.ListPolicyTemplateIDs(context.Background(), "ps-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, policies)

	metrics, err := c.ListMetricsIDs(context.Background(), "ps-1")
	require.NoError(t, err)
	assert.Empty(t, metrics)
}

func TestPolicyTemplatesEnabled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/policy_template_checker/ps-1", r.URL.Path)
		_, _ = io.WriteString(w, `{"enabled":true}`)
	})

	enabled, err := c.PolicyTemplatesEnabled(context.Background(), "ps-1")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestGetCertificateReturnsRawBody(t *testing.T) {
	const pemBody = "-----BEGIN CERTIFICATE-----\nMIIB\n-----END CERTIFICATE-----\n"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/certificate/ps-1", r.URL.Path)
		_, _ = io.WriteString(w, pemBody)
	})

	raw, err := c.GetCertificate(context.Background(), "ps-1")
	require.NoError(t, err)
	assert.Equal(t, pemBody, string(raw))
}

func TestPolicyTemplateOmitsEmptyMembers(t *testing.T) {
	data, err := json.Marshal(PolicyTemplate{
		ExternalReference: "42",
		ApplicationSessionContext: &ApplicationSessionContext{
			SliceInfo: &SliceInfo{SST: 0, SD: "00ff0A"},
		},
		ChargingSpecification: &ChargingSpecification{SponStatus: "SPONSOR_ENABLED"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"externalReference":"42",
		"applicationSessionContext":{"sliceInfo":{"sst":0,"sd":"00ff0A"}},
		"chargingSpecification":{"sponStatus":"SPONSOR_ENABLED"}
	}`, string(data))
}

func TestView(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/show_consumption/ps-1", r.URL.Path)
		assert.Equal(t, "raw=1", r.URL.RawQuery)
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html><head></head></html>")
	})

	resp, err := c.View(context.Background(), "/show_consumption/ps-1", "raw=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = c.View(context.Background(), "/show_consumption/../../etc", "")
	assert.Error(t, err)

	_, err = c.View(context.Background(), "/show_consumption/%2e%2E/etc", "")
	assert.Error(t, err)
}
