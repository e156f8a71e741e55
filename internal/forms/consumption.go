package forms

import "github.com/5G-MAG/m1-dashboard/internal/af"

const (
	msgConsumptionNumbers = "Set all parameters with valid numerical values!"
	msgConsumptionPercent = "Sample percentage must be between 0 and 100 %"
)

// ConsumptionForm holds the consumption reporting dialog.
type ConsumptionForm struct {
	ReportingInterval string `json:"reporting_interval" validate:"required,integer,positive"`
	SamplePercentage  string `json:"sample_percentage" validate:"required,numeric,percent"`
	LocationReporting bool   `json:"location_reporting"`
	AccessReporting   bool   `json:"access_reporting"`
}

var consumptionMessages = map[string]string{
	"ReportingInterval":        msgConsumptionNumbers,
	"SamplePercentage":         msgConsumptionNumbers,
	"SamplePercentage.percent": msgConsumptionPercent,
}

func (f ConsumptionForm) Validate() (af.ConsumptionReportingConfiguration, error) {
	if err := check(f, consumptionMessages); err != nil {
		return af.ConsumptionReportingConfiguration{}, err
	}

	pct, _ := parseNumber(f.SamplePercentage)
	return af.ConsumptionReportingConfiguration{
		ReportingInterval: parseInt(f.ReportingInterval),
		SamplePercentage:  pct,
		LocationReporting: f.LocationReporting,
		AccessReporting:   f.AccessReporting,
	}, nil
}
