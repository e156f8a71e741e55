package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	"github.com/5G-MAG/m1-dashboard/internal/forms"
)

var errTransport = errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")

func httpErr(status int, detail string) error {
	return &af.Error{Op: "test", StatusCode: status, Detail: detail}
}

func newTestController(t *testing.T) (*Controller, *MockAFClient, *fakeTable, *fakeNotifier) {
	t.Helper()
	client := new(MockAFClient)
	table := &fakeTable{}
	notifier := &fakeNotifier{}
	t.Cleanup(func() { client.AssertExpectations(t) })
	return NewController(client, table, notifier), client, table, notifier
}

func sessionIDs(rows []Row) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SessionID)
	}
	return ids
}

func TestLoadAllSessionsReplacesTable(t *testing.T) {
	c, client, table, _ := newTestController(t)
	table.AddRow("stale")

	client.On("ListSessions").Return([]string{"a", "b", "c"}, nil)
	client.On("PolicyTemplatesEnabled", "a").Return(true, nil)
	client.On("PolicyTemplatesEnabled", "b").Return(false, nil)
	client.On("PolicyTemplatesEnabled", "c").Return(false, httpErr(http.StatusInternalServerError, ""))

	res := c.LoadAllSessions(context.Background())
	assert.Nil(t, res.Alert)

	rows := table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b", "c"}, sessionIDs(rows))
	assert.Equal(t, PolicyEnabled, rows[0].Policies)
	assert.Equal(t, PolicyDisabled, rows[1].Policies)
	assert.Equal(t, PolicyDisabled, rows[2].Policies)
}

func TestLoadAllSessionsFailure(t *testing.T) {
	c, client, table, _ := newTestController(t)
	table.AddRow("kept")

	client.On("ListSessions").Return(nil, httpErr(http.StatusBadGateway, "")).Once()
	res := c.LoadAllSessions(context.Background())
	require.NotNil(t, res.Alert)
	assert.Equal(t, LevelError, res.Alert.Level)
	assert.Equal(t, "Failed to load data!", res.Alert.Title)
	assert.Equal(t, "Check connection with the 5GMS Application Function.", res.Alert.Text)
	assert.Equal(t, []string{"kept"}, sessionIDs(table.Rows()))

	client.On("ListSessions").Return(nil, errTransport).Once()
	res = c.LoadAllSessions(context.Background())
	require.NotNil(t, res.Alert)
	assert.Equal(t, "Error", res.Alert.Title)
}

func TestCreateSession(t *testing.T) {
	c, client, table, _ := newTestController(t)
	client.On("CreateSession").Return("ps-42", nil)
	client.On("PolicyTemplatesEnabled", "ps-42").Return(true, nil)

	res := c.CreateSession(context.Background())
	require.NotNil(t, res.Alert)
	assert.Equal(t, Alert{Level: LevelSuccess, Title: "Created Provisioning Session", Text: "ID: ps-42"}, *res.Alert)
	assert.Equal(t, []Row{{SessionID: "ps-42", Policies: PolicyEnabled}}, table.Rows())
}

func TestCreateSessionFailure(t *testing.T) {
	c, client, table, _ := newTestController(t)
	client.On("CreateSession").Return("", httpErr(http.StatusServiceUnavailable, "")).Once()
	client.On("CreateSession").Return("", errTransport).Once()

	res := c.CreateSession(context.Background())
	assert.Equal(t, "Failed to create new provisioning session!", res.Alert.Title)

	res = c.CreateSession(context.Background())
	assert.Equal(t, "Network Error", res.Alert.Title)
	assert.Empty(t, table.Rows())
}

func TestDeleteSession(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		level     Level
		title     string
		text      string
		remaining []string
	}{
		{name: "deleted", level: LevelSuccess, title: "Deleted Provisioning session", remaining: []string{"b", "a"}},
		{name: "not found", err: httpErr(http.StatusNotFound, ""), level: LevelInfo, title: "Provisioning session not found.", remaining: []string{"b", "a"}},
		{name: "server error", err: httpErr(http.StatusInternalServerError, "boom"), level: LevelError, title: "Failed to delete the provisioning session.", text: "boom", remaining: []string{"a", "b", "a"}},
		{name: "server error without detail", err: httpErr(http.StatusInternalServerError, ""), level: LevelError, title: "Failed to delete the provisioning session.", text: "An error occurred while deleting the session.", remaining: []string{"a", "b", "a"}},
		{name: "network error", err: errTransport, level: LevelError, title: "Error", remaining: []string{"a", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, client, table, _ := newTestController(t)
			table.AddRow("a")
			table.AddRow("b")
			table.AddRow("a")
			client.On("DeleteSession", "a").Return(tt.err)

			res := c.DeleteSession(context.Background(), "a", AlwaysConfirm)
			require.NotNil(t, res.Alert)
			assert.Equal(t, tt.level, res.Alert.Level)
			assert.Equal(t, tt.title, res.Alert.Title)
			if tt.text != "" {
				assert.Equal(t, tt.text, res.Alert.Text)
			}
			assert.Equal(t, tt.remaining, sessionIDs(table.Rows()))
		})
	}
}

func TestDeleteSessionDeclined(t *testing.T) {
	c, _, table, _ := newTestController(t)
	table.AddRow("a")

	var asked Confirmation
	res := c.DeleteSession(context.Background(), "a", func(_ context.Context, q Confirmation) bool {
		asked = q
		return false
	})
	assert.Nil(t, res.Alert)
	assert.Equal(t, "Delete Provisioning Session?", asked.Title)
	assert.Len(t, table.Rows(), 1)
}

func TestCreateHosting(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("SetHosting", "ps-1").Return("Hosting started", nil).Once()
	client.On("SetHosting", "ps-1").Return("", httpErr(http.StatusBadRequest, "")).Once()

	res := c.CreateHosting(context.Background(), "ps-1")
	assert.Equal(t, Alert{Level: LevelSuccess, Title: "Hosting started"}, *res.Alert)

	res = c.CreateHosting(context.Background(), "ps-1")
	assert.Equal(t, "Failed to set hosting for the provisioning session.", res.Alert.Title)
}

func TestCreateCertificate(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("CreateCertificate", "ps-1").Return("cert-1", nil).Once()
	client.On("CreateCertificate", "ps-1").Return("", httpErr(http.StatusBadRequest, "no hosting configured")).Once()
	client.On("CreateCertificate", "ps-1").Return("", httpErr(http.StatusBadRequest, "")).Once()

	res := c.CreateCertificate(context.Background(), "ps-1")
	assert.Equal(t, "ID: cert-1", res.Alert.Text)

	res = c.CreateCertificate(context.Background(), "ps-1")
	assert.Equal(t, "no hosting configured", res.Alert.Text)

	res = c.CreateCertificate(context.Background(), "ps-1")
	assert.Equal(t, "An error occurred", res.Alert.Text)
}

func TestShowCertificateOpensView(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("GetCertificateID", "ps-1").Return("cert/1", nil).Once()
	client.On("GetCertificateID", "ps-1").Return("", httpErr(http.StatusNotFound, "")).Once()

	res := c.ShowCertificate(context.Background(), "ps-1")
	assert.Nil(t, res.Alert)
	assert.Equal(t, "http://backend/show_certificate/ps-1/cert%2F1", res.OpenURL)

	res = c.ShowCertificate(context.Background(), "ps-1")
	assert.Empty(t, res.OpenURL)
	assert.Equal(t, "Certificate might not be activated for this Provisioning Session.", res.Alert.Text)
}

func TestViewBaseOption(t *testing.T) {
	client := new(MockAFClient)
	c := NewController(client, &fakeTable{}, &fakeNotifier{}, WithViewBase("/view/"))

	assert.Equal(t, "/view/show_protocol/ps-1", c.ShowProtocols("ps-1").OpenURL)
	assert.Equal(t, "/view/show_consumption/ps-1", c.ShowConsumption("ps-1").OpenURL)
	assert.Equal(t, "/view/details", c.ShowDetails().OpenURL)
}

func TestSetConsumptionRejectsInvalidForm(t *testing.T) {
	c, client, _, _ := newTestController(t)

	_, err := c.SetConsumption(context.Background(), "ps-1", forms.ConsumptionForm{
		ReportingInterval: "10",
		SamplePercentage:  "150",
	})
	var vErr *forms.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Sample percentage must be between 0 and 100 %", vErr.Message)
	client.AssertNotCalled(t, "SetConsumption", mock.Anything, mock.Anything)
}

func TestSetConsumption(t *testing.T) {
	c, client, _, _ := newTestController(t)
	want := af.ConsumptionReportingConfiguration{ReportingInterval: 10, SamplePercentage: 50, LocationReporting: true}
	client.On("SetConsumption", "ps-1", want).Return("Consumption reporting configured", nil)

	res, err := c.SetConsumption(context.Background(), "ps-1", forms.ConsumptionForm{
		ReportingInterval: "10",
		SamplePercentage:  "50",
		LocationReporting: true,
	})
	require.NoError(t, err)
	assert.Equal(t, LevelSuccess, res.Alert.Level)
	assert.Equal(t, "Consumption reporting configured", res.Alert.Title)
}

func TestDeleteConsumption(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level Level
		title string
		text  string
	}{
		{name: "no content", level: LevelSuccess, title: "Deleted Consumption Reporting!", text: "The consumption reporting has been deleted."},
		{name: "detail", err: httpErr(http.StatusBadRequest, "nothing to delete"), level: LevelError, title: "Application Provider says:", text: "nothing to delete"},
		{name: "no detail", err: httpErr(http.StatusOK, ""), level: LevelError, title: "Application Provider says:", text: "Unknown error occurred."},
		{name: "network", err: errTransport, level: LevelError, title: "Error", text: "Network error or server not responding."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, client, _, _ := newTestController(t)
			client.On("DeleteConsumption", "ps-1").Return(tt.err)

			res := c.DeleteConsumption(context.Background(), "ps-1", AlwaysConfirm)
			assert.Equal(t, Alert{Level: tt.level, Title: tt.title, Text: tt.text}, *res.Alert)
		})
	}
}

func TestSetDynamicPolicyRejectsBadSD(t *testing.T) {
	c, client, _, _ := newTestController(t)

	_, err := c.SetDynamicPolicy(context.Background(), "ps-1", forms.PolicyForm{
		ExternalReference: "ext",
		SponStatus:        forms.SponsorDisabled,
		SST:               "1",
		SD:                "12G456",
	})
	var vErr *forms.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "SD must be a 6-digit hexadecimal string", vErr.Message)
	client.AssertNotCalled(t, "CreatePolicyTemplate", mock.Anything, mock.Anything)
}

func TestSetDynamicPolicy(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("CreatePolicyTemplate", "ps-1", mock.AnythingOfType("af.PolicyTemplate")).Return("pol-1", nil)

	res, err := c.SetDynamicPolicy(context.Background(), "ps-1", forms.PolicyForm{
		ExternalReference: "ext",
		SponStatus:        forms.SponsorEnabled,
		SST:               "1",
		SD:                "abcdef",
	})
	require.NoError(t, err)
	assert.Equal(t, `Created Dynamic Policies with ID: "pol-1"`, res.Alert.Text)
}

func TestShowDynamicPolicies(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("ListPolicyTemplateIDs", "ps-1").Return([]string{"p1", "p2"}, nil).Once()
	client.On("ListPolicyTemplateIDs", "ps-1").Return([]string{}, nil).Once()

	res := c.ShowDynamicPolicies(context.Background(), "ps-1")
	assert.Equal(t, "http://backend/show_policy_template/ps-1/p1", res.OpenURL)

	res = c.ShowDynamicPolicies(context.Background(), "ps-1")
	assert.Equal(t, Alert{Level: LevelError, Title: "Error", Text: "No policy template IDs found for this session."}, *res.Alert)
}

func TestDeleteDynamicPolicy(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("ListPolicyTemplateIDs", "ps-1").Return([]string{"p1", "p2"}, nil)
	client.On("DeletePolicyTemplate", "ps-1", "p1").Return(nil).Once()
	client.On("DeletePolicyTemplate", "ps-1", "p1").Return(httpErr(http.StatusConflict, "in use")).Once()
	client.On("DeletePolicyTemplate", "ps-1", "p1").Return(httpErr(http.StatusInternalServerError, "")).Once()
	client.On("DeletePolicyTemplate", "ps-1", "p1").Return(errTransport).Once()

	var asked Confirmation
	confirm := func(_ context.Context, q Confirmation) bool {
		asked = q
		return true
	}

	res := c.DeleteDynamicPolicy(context.Background(), "ps-1", confirm)
	assert.Equal(t, "Are you sure you want to delete the policy template with ID: p1?", asked.Text)
	assert.Equal(t, "The policy template with ID: p1 has been deleted.", res.Alert.Text)

	res = c.DeleteDynamicPolicy(context.Background(), "ps-1", confirm)
	assert.Equal(t, Alert{Level: LevelError, Title: "Failed to Delete", Text: "in use"}, *res.Alert)

	res = c.DeleteDynamicPolicy(context.Background(), "ps-1", confirm)
	assert.Equal(t, Alert{Level: LevelError, Title: "Failed to Delete", Text: "An error occurred while deleting the policy template."}, *res.Alert)

	res = c.DeleteDynamicPolicy(context.Background(), "ps-1", confirm)
	assert.Equal(t, Alert{Level: LevelError, Title: "Error", Text: "Network error or server not responding."}, *res.Alert)
}

func TestShowMetrics(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("ListMetricsIDs", "ps-1").Return([]string{}, nil).Once()
	client.On("ListMetricsIDs", "ps-1").Return([]string{"m1", "m2"}, nil)

	res := c.ShowMetrics(context.Background(), "ps-1", nil)
	assert.Equal(t, Alert{Level: LevelInfo, Title: "No Metrics Configurations", Text: "There are no metrics configurations available for this session."}, *res.Alert)

	res = c.ShowMetrics(context.Background(), "ps-1", nil)
	assert.Equal(t, []string{"m1", "m2"}, res.Choices)

	res = c.ShowMetrics(context.Background(), "ps-1", Pick("m2"))
	assert.Equal(t, "http://backend/show_metrics/ps-1/m2", res.OpenURL)
}

func TestDeleteMetrics(t *testing.T) {
	c, client, _, _ := newTestController(t)
	client.On("ListMetricsIDs", "ps-1").Return([]string{"m1", "m2"}, nil)
	client.On("DeleteMetrics", "ps-1", "m2").Return(nil).Once()
	client.On("DeleteMetrics", "ps-1", "m2").Return(httpErr(http.StatusOK, "")).Once()
	client.On("DeleteMetrics", "ps-1", "m2").Return(httpErr(http.StatusNotFound, "metrics m2 not found")).Once()
	client.On("DeleteMetrics", "ps-1", "m2").Return(errTransport).Once()

	res := c.DeleteMetrics(context.Background(), "ps-1", Pick("m2"), AlwaysConfirm)
	assert.Equal(t, Alert{Level: LevelSuccess, Title: "Deleted!", Text: "The metrics configuration m2 has been deleted."}, *res.Alert)

	res = c.DeleteMetrics(context.Background(), "ps-1", Pick("m2"), AlwaysConfirm)
	assert.Equal(t, Alert{Level: LevelError, Title: "Error", Text: "Failed to delete the metrics configuration"}, *res.Alert)

	res = c.DeleteMetrics(context.Background(), "ps-1", Pick("m2"), AlwaysConfirm)
	assert.Equal(t, Alert{Level: LevelError, Title: "Error", Text: "metrics m2 not found"}, *res.Alert)

	res = c.DeleteMetrics(context.Background(), "ps-1", Pick("m2"), AlwaysConfirm)
	assert.Equal(t, "Network error or server not responding.", res.Alert.Text)

	res = c.DeleteMetrics(context.Background(), "ps-1", func(context.Context, Choice) (string, bool) { return "", false }, AlwaysConfirm)
	assert.Nil(t, res.Alert)
}

func TestCreateMetricsRejectsMissingSamplingPeriod(t *testing.T) {
	c, client, _, _ := newTestController(t)

	_, err := c.CreateMetrics(context.Background(), "ps-1", forms.MetricsForm{ReportingInterval: "5"})
	var vErr *forms.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Sampling Period is mandatory value", vErr.Message)
	client.AssertNotCalled(t, "CreateMetrics", mock.Anything, mock.Anything)
}
