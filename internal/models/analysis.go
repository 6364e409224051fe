// Package models defines the data structures for the Insurex coverage engine.
package models

import "time"

// CoverageStatus is the coverage decision for a single bill item.
type CoverageStatus string

const (
	StatusCovered          CoverageStatus = "covered"
	StatusPartiallyCovered CoverageStatus = "partially_covered"
	StatusNotCovered       CoverageStatus = "not_covered"
)

// BreakdownEntry is the per-item result of a coverage analysis.
//
// Invariant: OriginalCost == CoveredCost + UncoveredCost + CopayAmount,
// including after a manual override.
type BreakdownEntry struct {
	ItemName      string         `json:"itemName"`
	Category      ItemCategory   `json:"category"`
	OriginalCost  float64        `json:"originalCost"`
	CoveredCost   float64        `json:"coveredCost"`
	UncoveredCost float64        `json:"uncoveredCost"`
	Status        CoverageStatus `json:"status"`
	Explanation   string         `json:"explanation"`
	CopayAmount   float64        `json:"copayAmount"`
}

// Summary aggregates a breakdown into patient-facing totals. Co-payment is
// folded into OutOfPocket, not into NotCoveredAmount.
type Summary struct {
	TotalBill              float64 `json:"totalBill"`
	CoveredAmount          float64 `json:"coveredAmount"`
	PartiallyCoveredAmount float64 `json:"partiallyCoveredAmount"`
	NotCoveredAmount       float64 `json:"notCoveredAmount"`
	OutOfPocket            float64 `json:"outOfPocket"`
}

// AnalysisMetadata flags how the analysis was produced.
type AnalysisMetadata struct {
	// IsAIEstimated is true for engine-derived results and flips to false
	// permanently once any manual override has been applied.
	IsAIEstimated bool `json:"isAIEstimated"`
}

// Analysis is the full result of running the coverage engine over a bill.
type Analysis struct {
	Summary   Summary          `json:"summary"`
	Breakdown []BreakdownEntry `json:"breakdown"`
	Metadata  AnalysisMetadata `json:"metadata"`
}

// ItemOverride carries a manual correction to one breakdown entry. Nil
// fields are left untouched; set fields replace the entry's values as-is,
// without re-deriving from policy rules.
type ItemOverride struct {
	ItemName      *string         `json:"itemName,omitempty"`
	Category      *ItemCategory   `json:"category,omitempty"`
	OriginalCost  *float64        `json:"originalCost,omitempty"`
	CoveredCost   *float64        `json:"coveredCost,omitempty"`
	UncoveredCost *float64        `json:"uncoveredCost,omitempty"`
	Status        *CoverageStatus `json:"status,omitempty"`
	Explanation   *string         `json:"explanation,omitempty"`
	CopayAmount   *float64        `json:"copayAmount,omitempty"`
}

// SavedAnalysis is an analysis persisted for later retrieval.
type SavedAnalysis struct {
	ID            string    `json:"id" db:"id"`
	PolicyName    string    `json:"policy_name,omitempty" db:"policy_name"`
	TotalBill     float64   `json:"total_bill" db:"total_bill"`
	OutOfPocket   float64   `json:"out_of_pocket" db:"out_of_pocket"`
	IsAIEstimated bool      `json:"is_ai_estimated" db:"is_ai_estimated"`
	Analysis      Analysis  `json:"analysis" db:"analysis"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
