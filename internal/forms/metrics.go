package forms

import "github.com/5G-MAG/m1-dashboard/internal/af"

// Metric URNs selectable in the metrics reporting dialog.
const (
	MetricHTTPList         = "urn:3GPP:ns:PSS:DASH:QM10#HTTPList"
	MetricBufferLevel      = "urn:3GPP:ns:PSS:DASH:QM10#BufferLevel"
	MetricRepSwitchList    = "urn:3GPP:ns:PSS:DASH:QM10#RepSwitchList"
	MetricMPDInformation   = "urn:3GPP:ns:PSS:DASH:QM10#MPDInformation"
	MetricRenderedViewport = "urn:3gpp:metadata:2020:VR:metrics#RenderedViewports"
)

var KnownMetrics = []string{
	MetricHTTPList,
	MetricBufferLevel,
	MetricRepSwitchList,
	MetricMPDInformation,
	MetricRenderedViewport,
}

type MetricsForm struct {
	SamplingPeriod    string   `json:"sampling_period" validate:"required,integer,positive"`
	ReportingInterval string   `json:"reporting_interval" validate:"required,integer,positive"`
	SamplePercentage  string   `json:"sample_percentage" validate:"omitempty,numeric,percent"`
	Scheme            string   `json:"scheme"`
	DataNetworkName   string   `json:"data_network_name"`
	URLFilters        string   `json:"url_filters"`
	Metrics           []string `json:"metrics" validate:"dive,oneof=urn:3GPP:ns:PSS:DASH:QM10#HTTPList urn:3GPP:ns:PSS:DASH:QM10#BufferLevel urn:3GPP:ns:PSS:DASH:QM10#RepSwitchList urn:3GPP:ns:PSS:DASH:QM10#MPDInformation urn:3gpp:metadata:2020:VR:metrics#RenderedViewports"`
}

var metricsMessages = map[string]string{
	"SamplingPeriod.required": "Sampling Period is mandatory value",
	"SamplingPeriod":          "Sampling Period must be positive value.",
	"ReportingInterval":       "Reporting Interval must be a positive value",
	"SamplePercentage":        "Sample percentage must be between 0 and 100 %",
	"Metrics":                 "Unknown metric selected",
}

func (f MetricsForm) Validate() (af.MetricsReportingConfiguration, error) {
	if err := check(f, metricsMessages); err != nil {
		return af.MetricsReportingConfiguration{}, err
	}

	cfg := af.MetricsReportingConfiguration{
		Scheme:            f.Scheme,
		DataNetworkName:   f.DataNetworkName,
		ReportingInterval: parseInt(f.ReportingInterval),
		URLFilters:        splitList(f.URLFilters),
		SamplingPeriod:    parseInt(f.SamplingPeriod),
		Metrics:           append([]string{}, f.Metrics...),
	}
	if f.SamplePercentage != "" {
		pct, _ := parseNumber(f.SamplePercentage)
		cfg.SamplePercentage = &pct
	}
	return cfg, nil
}
