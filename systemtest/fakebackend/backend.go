package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"sync/atomic"
)

type session struct {
	id          string
	hosting     bool
	certID      string
	consumption json.RawMessage
	policies    []string
	metrics     []string
}

// Backend is an in-memory stand-in for the management backend. Session IDs
// are ps-1, ps-2 and so on.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	sessions []*session
	nextID   int
	down     atomic.Bool
	purges   atomic.Int32
}

func Start() *Backend {
	b := &Backend{}
	b.Server = httptest.NewServer(b.routes())
	return b
}

// SetDown makes the connection check fail with 503.
func (b *Backend) SetDown(down bool) {
	b.down.Store(down)
}

func (b *Backend) Purges() int {
	return int(b.purges.Load())
}

func (b *Backend) SessionIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, len(b.sessions))
	for i, s := range b.sessions {
		ids[i] = s.id
	}
	return ids
}

// AddSession creates a session directly on the backend, as another client
// would, and returns its ID.
func (b *Backend) AddSession() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s := &session{id: fmt.Sprintf("ps-%d", b.nextID)}
	b.sessions = append(b.sessions, s)
	return s.id
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /connection_checker", func(w http.ResponseWriter, r *http.Request) {
		if b.down.Load() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "AF unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /create_session", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"provisioning_session_id": b.AddSession()})
	})
	mux.HandleFunc("GET /fetch_all_sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"session_ids": b.SessionIDs()})
	})
	mux.HandleFunc("DELETE /remove_all_sessions", func(w http.ResponseWriter, r *http.Request) {
		b.purges.Add(1)
		b.mu.Lock()
		b.sessions = nil
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /delete_session/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		b.sessions = slices.DeleteFunc(b.sessions, func(other *session) bool { return other == s })
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("POST /set_stream/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		s.hosting = true
		writeJSON(w, http.StatusOK, map[string]string{"message": "Hosting started"})
	}))
	mux.HandleFunc("POST /certificate/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		s.certID = "cert-" + s.id
		writeJSON(w, http.StatusOK, map[string]string{"certificate_id": s.certID})
	}))
	mux.HandleFunc("GET /get_certificate_id/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		if s.certID == "" {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no certificate"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"certificate_id": s.certID})
	}))
	mux.HandleFunc("POST /set_consumption/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		var body json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		s.consumption = body
		writeJSON(w, http.StatusOK, map[string]string{"message": "Consumption reporting set"})
	}))
	mux.HandleFunc("DELETE /del_consumption/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		if s.consumption == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No consumption reporting configured"})
			return
		}
		s.consumption = nil
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /policy_template_checker/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		writeJSON(w, http.StatusOK, map[string]bool{"enabled": true})
	}))
	mux.HandleFunc("POST /create_policy_template/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		id := fmt.Sprintf("policy-%d", len(s.policies)+1)
		s.policies = append(s.policies, id)
		writeJSON(w, http.StatusOK, map[string]string{"policy_template_id": id})
	}))
	mux.HandleFunc("GET /list_policy_template_ids/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		writeJSON(w, http.StatusOK, append([]string{}, s.policies...))
	}))
	mux.HandleFunc("DELETE /delete_policy_template/{id}/{policy}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		s.policies = slices.DeleteFunc(s.policies, func(p string) bool { return p == r.PathValue("policy") })
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("POST /create_metrics/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		id := fmt.Sprintf("metrics-%d", len(s.metrics)+1)
		s.metrics = append(s.metrics, id)
		writeJSON(w, http.StatusOK, map[string]string{"metrics_reporting_configuration_id": id})
	}))
	mux.HandleFunc("GET /list_metrics_ids/{id}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		writeJSON(w, http.StatusOK, append([]string{}, s.metrics...))
	}))
	mux.HandleFunc("DELETE /delete_metrics/{id}/{metrics}", b.withSession(func(w http.ResponseWriter, r *http.Request, s *session) {
		s.metrics = slices.DeleteFunc(s.metrics, func(m string) bool { return m == r.PathValue("metrics") })
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /details", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		details := make([]map[string]any, 0, len(b.sessions))
		for _, s := range b.sessions {
			details = append(details, map[string]any{
				"id":                                s.id,
				"Certificates":                      []string{},
				"ContentHostingConfiguration":       map[string]bool{"enabled": s.hosting},
				"ConsumptionReportingConfiguration": s.consumption,
			})
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, details)
	})
	mux.HandleFunc("GET /show_protocol/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><head><title>Protocols</title></head><body>%s</body></html>", r.PathValue("id"))
	})
	return mux
}

func (b *Backend) withSession(fn func(http.ResponseWriter, *http.Request, *session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, s := range b.sessions {
			if s.id == r.PathValue("id") {
				fn(w, r, s)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Provisioning session not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
