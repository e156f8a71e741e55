package forms

import (
	"fmt"
	"strings"

	"github.com/5G-MAG/m1-dashboard/internal/af"
)

const (
	SponsorEnabled  = "SPONSOR_ENABLED"
	SponsorDisabled = "SPONSOR_DISABLED"
)

// PolicyForm holds the dynamic policy dialog. Field order is the order in
// which the dialog reports problems.
type PolicyForm struct {
	ExternalReference string `json:"external_reference" validate:"required"`
	SponStatus        string `json:"spon_status" validate:"required,oneof=SPONSOR_ENABLED SPONSOR_DISABLED"`
	SST               string `json:"sst" validate:"required,sst"`
	SD                string `json:"sd" validate:"sd"`

	DNN                 string `json:"dnn"`
	QoSReference        string `json:"qos_reference"`
	MaxAuthBtrUl        string `json:"max_auth_btr_ul" validate:"omitempty,numeric"`
	MaxAuthBtrUlUnit    string `json:"max_auth_btr_ul_unit" validate:"omitempty,oneof=bps kbps mbps gbps tbps Kbps Mbps Gbps Tbps"`
	MaxAuthBtrDl        string `json:"max_auth_btr_dl" validate:"omitempty,numeric"`
	MaxAuthBtrDlUnit    string `json:"max_auth_btr_dl_unit" validate:"omitempty,oneof=bps kbps mbps gbps tbps Kbps Mbps Gbps Tbps"`
	DefPacketLossRateDl string `json:"def_packet_loss_rate_dl" validate:"omitempty,integer"`
	DefPacketLossRateUl string `json:"def_packet_loss_rate_ul" validate:"omitempty,integer"`
	SponID              string `json:"spon_id"`
	GPSI                string `json:"gpsi"`
	State               string `json:"state"`
	StateReasonType     string `json:"state_reason_type"`
}

var policyMessages = map[string]string{
	"ExternalReference":   "External Policy ID is required",
	"SponStatus":          "Please select a valid Sponsor Status",
	"SST":                 "SST must be between 0 and 255 inclusive",
	"SD":                  "SD must be a 6-digit hexadecimal string",
	"MaxAuthBtrUl":        "Max authorized bit rate UL must be a number",
	"MaxAuthBtrUlUnit":    "Unknown bit rate unit",
	"MaxAuthBtrDl":        "Max authorized bit rate DL must be a number",
	"MaxAuthBtrDlUnit":    "Unknown bit rate unit",
	"DefPacketLossRateDl": "Default packet loss rate DL must be an integer",
	"DefPacketLossRateUl": "Default packet loss rate UL must be an integer",
}

func (f PolicyForm) Validate() (af.PolicyTemplate, error) {
	f.ExternalReference = strings.TrimSpace(f.ExternalReference)
	if err := check(f, policyMessages); err != nil {
		return af.PolicyTemplate{}, err
	}

	tmpl := af.PolicyTemplate{
		ExternalReference: f.ExternalReference,
		ApplicationSessionContext: &af.ApplicationSessionContext{
			SliceInfo: &af.SliceInfo{SST: parseInt(f.SST), SD: f.SD},
			DNN:       f.DNN,
		},
		State: f.State,
	}

	qos := af.QoSSpecification{
		QoSReference:        f.QoSReference,
		MaxAuthBtrUl:        bitRate(f.MaxAuthBtrUl, f.MaxAuthBtrUlUnit),
		MaxAuthBtrDl:        bitRate(f.MaxAuthBtrDl, f.MaxAuthBtrDlUnit),
		DefPacketLossRateDl: optionalInt(f.DefPacketLossRateDl),
		DefPacketLossRateUl: optionalInt(f.DefPacketLossRateUl),
	}
	if qos != (af.QoSSpecification{}) {
		tmpl.QoSSpecification = &qos
	}

	tmpl.ChargingSpecification = &af.ChargingSpecification{
		SponID:     f.SponID,
		SponStatus: f.SponStatus,
		GPSI:       splitList(f.GPSI),
	}

	if f.StateReasonType != "" {
		tmpl.StateReason = &af.StateReason{Type: f.StateReasonType}
	}
	return tmpl, nil
}

// bitRate renders "<value> <Unit>", e.g. "5 Mbps". A missing unit means bps.
func bitRate(value, unit string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", value, normalizeUnit(unit))
}

func normalizeUnit(unit string) string {
	switch strings.ToLower(unit) {
	case "kbps":
		return "Kbps"
	case "mbps":
		return "Mbps"
	case "gbps":
		return "Gbps"
	case "tbps":
		return "Tbps"
	default:
		return "bps"
	}
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n := parseInt(s)
	return &n
}
