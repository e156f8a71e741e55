package dashboard

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/5G-MAG/m1-dashboard/internal/af"
)

// MockAFClient is a mock implementation of AFClient
type MockAFClient struct {
	mock.Mock
}

func (m *MockAFClient) CheckConnection(ctx context.Context) error {
	return m.Called().Error(0)
}

func (m *MockAFClient) CreateSession(ctx context.Context) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAFClient) ListSessions(ctx context.Context) ([]string, error) {
	args := m.Called()
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockAFClient) RemoveAllSessions(ctx context.Context) error {
	return m.Called().Error(0)
}

func (m *MockAFClient) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(sessionID).Error(0)
}

func (m *MockAFClient) SetHosting(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockAFClient) CreateCertificate(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockAFClient) GetCertificateID(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockAFClient) SetConsumption(ctx context.Context, sessionID string, cfg af.ConsumptionReportingConfiguration) (string, error) {
	args := m.Called(sessionID, cfg)
	return args.String(0), args.Error(1)
}

func (m *MockAFClient) DeleteConsumption(ctx context.Context, sessionID string) error {
	return m.Called(sessionID).Error(0)
}

func (m *MockAFClient) PolicyTemplatesEnabled(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAFClient) CreatePolicyTemplate(ctx context.Context, sessionID string, template af.PolicyTemplate) (string, error) {
	args := m.Called(sessionID, template)
	return args.String(0), args.Error(1)
}

func (m *MockAFClient) ListPolicyTemplateIDs(ctx context.Context, sessionID string) ([]string, error) {
	args := m.Called(sessionID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockAFClient) DeletePolicyTemplate(ctx context.Context, sessionID, policyTemplateID string) error {
	return m.Called(sessionID, policyTemplateID).Error(0)
}

func (m *MockAFClient) CreateMetrics(ctx context.Context, sessionID string, cfg af.MetricsReportingConfiguration) (string, error) {
	args := m.Called(sessionID, cfg)
	return args.String(0), args.Error(1)
}

func (m *MockAFClient) ListMetricsIDs(ctx context.Context, sessionID string) ([]string, error) {
	args := m.Called(sessionID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockAFClient) DeleteMetrics(ctx context.Context, sessionID, metricsID string) error {
	return m.Called(sessionID, metricsID).Error(0)
}

func (m *MockAFClient) ViewURL(parts ...string) string {
	return "http://backend/" + af.JoinPath(parts...)
}

type fakeTable struct {
	mu   sync.Mutex
	rows []Row
}

func (t *fakeTable) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Row(nil), t.rows...)
}

func (t *fakeTable) AddRow(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, Row{SessionID: sessionID, Policies: PolicyChecking})
}

func (t *fakeTable) RemoveRow(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, row := range t.rows {
		if row.SessionID == sessionID {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (t *fakeTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
}

func (t *fakeTable) SetPolicyAvailability(sessionID string, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.rows[i].SessionID == sessionID {
			t.rows[i].Policies = PolicyDisabled
			if enabled {
				t.rows[i].Policies = PolicyEnabled
			}
		}
	}
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	status string
}

func (n *fakeNotifier) Notify(alert Alert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
}

func (n *fakeNotifier) SetStatus(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = text
}

func (n *fakeNotifier) Alerts() []Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Alert(nil), n.alerts...)
}

func (n *fakeNotifier) Status() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}
