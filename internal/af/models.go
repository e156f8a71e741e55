package af

import "encoding/json"

type sessionListResponse struct {
	SessionIDs []string `json:"session_ids"`
}

type createSessionResponse struct {
	ProvisioningSessionID string `json:"provisioning_session_id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type certificateResponse struct {
	CertificateID string `json:"certificate_id"`
}

type policyTemplateResponse struct {
	PolicyTemplateID string `json:"policy_template_id"`
}

type policyCheckResponse struct {
	Enabled bool `json:"enabled"`
}

type metricsResponse struct {
	MetricsReportingConfigurationID string `json:"metrics_reporting_configuration_id"`
}

// ConsumptionReportingConfiguration is the body of set_consumption.
type ConsumptionReportingConfiguration struct {
	ReportingInterval int     `json:"reportingInterval"`
	SamplePercentage  float64 `json:"samplePercentage"`
	LocationReporting bool    `json:"locationReporting"`
	AccessReporting   bool    `json:"accessReporting"`
}

// PolicyTemplate is the body of create_policy_template. Empty members are
// left out of the JSON document.
type PolicyTemplate struct {
	ExternalReference         string                     `json:"externalReference,omitempty"`
	ApplicationSessionContext *ApplicationSessionContext `json:"applicationSessionContext,omitempty"`
	QoSSpecification          *QoSSpecification          `json:"qoSSpecification,omitempty"`
	ChargingSpecification     *ChargingSpecification     `json:"chargingSpecification,omitempty"`
	State                     string                     `json:"state,omitempty"`
	StateReason               *StateReason               `json:"stateReason,omitempty"`
}

type ApplicationSessionContext struct {
	SliceInfo *SliceInfo `json:"sliceInfo,omitempty"`
	DNN       string     `json:"dnn,omitempty"`
}

// SliceInfo is an S-NSSAI: SST in 0..255 and an optional 6 hex digit SD.
type SliceInfo struct {
	SST int    `json:"sst"`
	SD  string `json:"sd,omitempty"`
}

type QoSSpecification struct {
	QoSReference        string `json:"qosReference,omitempty"`
	MaxAuthBtrUl        string `json:"maxAuthBtrUl,omitempty"`
	MaxAuthBtrDl        string `json:"maxAuthBtrDl,omitempty"`
	DefPacketLossRateDl *int   `json:"defPacketLossRateDl,omitempty"`
	DefPacketLossRateUl *int   `json:"defPacketLossRateUl,omitempty"`
}

type ChargingSpecification struct {
	SponID     string   `json:"sponId,omitempty"`
	SponStatus string   `json:"sponStatus,omitempty"`
	GPSI       []string `json:"gpsi,omitempty"`
}

type StateReason struct {
	Type string `json:"type,omitempty"`
}

// MetricsReportingConfiguration is the body of create_metrics.
type MetricsReportingConfiguration struct {
	Scheme            string   `json:"scheme,omitempty"`
	DataNetworkName   string   `json:"dataNetworkName,omitempty"`
	ReportingInterval int      `json:"reportingInterval"`
	SamplePercentage  *float64 `json:"samplePercentage,omitempty"`
	URLFilters        []string `json:"urlFilters,omitempty"`
	SamplingPeriod    int      `json:"samplingPeriod"`
	Metrics           []string `json:"metrics"`
}

// SessionDetails is one entry of the details listing.
type SessionDetails struct {
	ID                                string          `json:"id"`
	Certificates                      []string        `json:"Certificates"`
	ContentHostingConfiguration       json.RawMessage `json:"ContentHostingConfiguration"`
	ConsumptionReportingConfiguration json.RawMessage `json:"ConsumptionReportingConfiguration"`
}
