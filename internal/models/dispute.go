// Package models defines the data structures for the Insurex coverage engine.
package models

// RiskLevel grades how strong a dispute opportunity is.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// SortPriority orders risk levels for ranking: high sorts before medium,
// medium before low. Unknown levels sort last.
func (r RiskLevel) SortPriority() int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	default:
		return 3
	}
}

// DisputeRecord is one dispute opportunity raised against a breakdown entry.
// Records are recomputed on every forecast call and never persisted; the
// SuccessRate is a fixed heuristic constant per rule branch, not derived
// from data.
type DisputeRecord struct {
	RiskLevel      RiskLevel `json:"riskLevel"`
	Reason         string    `json:"reason"`
	Details        string    `json:"details"`
	DisputeReason  string    `json:"disputeReason"`
	ActionPoints   []string  `json:"actionPoints"`
	SupportingDocs []string  `json:"supportingDocs"`
	SuccessRate    int       `json:"successRate"`
}

// ItemDispute is a DisputeRecord enriched with the bill item it targets.
type ItemDispute struct {
	DisputeRecord
	ItemName        string       `json:"itemName"`
	ItemCost        float64      `json:"itemCost"`
	CoveredCost     float64      `json:"coveredCost"`
	UncoveredAmount float64      `json:"uncoveredAmount"`
	Category        ItemCategory `json:"category"`
}

// DisputeStats aggregates dispute records over a whole bill. When one item
// raises several disputes its uncovered amount is counted once per record,
// so TotalDisputableAmount can exceed the bill's uncovered total.
type DisputeStats struct {
	TotalDisputableAmount float64 `json:"totalDisputableAmount"`
	HighRiskCount         int     `json:"highRiskCount"`
	MediumRiskCount       int     `json:"mediumRiskCount"`
	LowRiskCount          int     `json:"lowRiskCount"`
	TotalDisputeCount     int     `json:"totalDisputeCount"`
	AverageSuccessRate    int     `json:"averageSuccessRate"`
}

// DisputeAnalysis is the ranked dispute list plus aggregate statistics.
type DisputeAnalysis struct {
	Disputes []ItemDispute `json:"disputes"`
	Summary  DisputeStats  `json:"summary"`
}

// PatientInfo carries optional claim context for dispute scripts. Absent
// fields render as bracketed prompts in the generated text.
type PatientInfo struct {
	PolicyNumber  string `json:"policyNumber,omitempty"`
	ClaimNumber   string `json:"claimNumber,omitempty"`
	PatientName   string `json:"patientName,omitempty"`
	HospitalName  string `json:"hospitalName,omitempty"`
	AdmissionDate string `json:"admissionDate,omitempty"`
	DischargeDate string `json:"dischargeDate,omitempty"`
}

// DisputeScript holds the rendered communication templates for a dispute.
type DisputeScript struct {
	EmailScript  string `json:"emailScript"`
	CallScript   string `json:"callScript"`
	ShortSummary string `json:"shortSummary"`
}
