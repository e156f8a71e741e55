package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/5G-MAG/m1-dashboard/internal/af"
)

// AFClient is the part of the management backend the dashboard drives.
type AFClient interface {
	CheckConnection(ctx context.Context) error
	CreateSession(ctx context.Context) (string, error)
	ListSessions(ctx context.Context) ([]string, error)
	RemoveAllSessions(ctx context.Context) error
	DeleteSession(ctx context.Context, sessionID string) error
	SetHosting(ctx context.Context, sessionID string) (string, error)
	CreateCertificate(ctx context.Context, sessionID string) (string, error)
	GetCertificateID(ctx context.Context, sessionID string) (string, error)
	SetConsumption(ctx context.Context, sessionID string, cfg af.ConsumptionReportingConfiguration) (string, error)
	DeleteConsumption(ctx context.Context, sessionID string) error
	PolicyTemplatesEnabled(ctx context.Context, sessionID string) (bool, error)
	CreatePolicyTemplate(ctx context.Context, sessionID string, template af.PolicyTemplate) (string, error)
	ListPolicyTemplateIDs(ctx context.Context, sessionID string) ([]string, error)
	DeletePolicyTemplate(ctx context.Context, sessionID, policyTemplateID string) error
	CreateMetrics(ctx context.Context, sessionID string, cfg af.MetricsReportingConfiguration) (string, error)
	ListMetricsIDs(ctx context.Context, sessionID string) ([]string, error)
	DeleteMetrics(ctx context.Context, sessionID, metricsID string) error
	ViewURL(parts ...string) string
}

type PolicyAvailability string

const (
	PolicyChecking PolicyAvailability = "checking"
	PolicyEnabled  PolicyAvailability = "enabled"
	PolicyDisabled PolicyAvailability = "disabled"
)

type Row struct {
	SessionID string             `json:"session_id"`
	Policies  PolicyAvailability `json:"policies"`
}

// Table is the rendered session table. Rows keep insertion order and may
// contain duplicates; RemoveRow drops the first match only.
type Table interface {
	Rows() []Row
	AddRow(sessionID string)
	RemoveRow(sessionID string) bool
	Clear()
	SetPolicyAvailability(sessionID string, enabled bool)
}

// Notifier receives what happens outside of a user request: connectivity
// alerts and the AF status line.
type Notifier interface {
	Notify(alert Alert)
	SetStatus(text string)
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

type Alert struct {
	Level Level  `json:"level"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Result is the outcome of one dialog flow.
type Result struct {
	Alert   *Alert
	OpenURL string
	// Choices is set when the flow needs a selection it could not make.
	Choices []string
}

type Confirmation struct {
	Title string
	Text  string
}

type Choice struct {
	Title   string
	Options []string
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(ctx context.Context, c Confirmation) bool

// ChooseFunc asks the user to pick one option. ok is false on cancel.
type ChooseFunc func(ctx context.Context, c Choice) (option string, ok bool)

// AlwaysConfirm accepts every confirmation. Used when the caller has already
// asked the user.
func AlwaysConfirm(context.Context, Confirmation) bool { return true }

type Controller struct {
	client   AFClient
	table    Table
	notifier Notifier
	viewURL  func(parts ...string) string

	mu             sync.Mutex
	connectionLost bool
}

type Option func(*Controller)

// WithViewBase makes OpenURL results point at base (for example the local
// view proxy) instead of the backend.
func WithViewBase(base string) Option {
	base = strings.TrimSuffix(base, "/")
	return func(c *Controller) {
		c.viewURL = func(parts ...string) string {
			return base + "/" + af.JoinPath(parts...)
		}
	}
}

func NewController(client AFClient, table Table, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		client:   client,
		table:    table,
		notifier: notifier,
		viewURL:  client.ViewURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConnectionLost reports whether the last probe found the backend down.
func (c *Controller) ConnectionLost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectionLost
}

func alert(level Level, title, text string) Result {
	return Result{Alert: &Alert{Level: level, Title: title, Text: text}}
}

func openURL(url string) Result {
	return Result{OpenURL: url}
}
