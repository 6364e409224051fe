// Package models defines the data structures for the Insurex coverage engine.
package models

// HospitalType identifies how a hospital relates to the insurer's network.
type HospitalType string

const (
	HospitalGovernment HospitalType = "government"
	HospitalNetwork    HospitalType = "network"
	HospitalNonNetwork HospitalType = "non-network"
)

// RoomType is the ward class chosen for a planned admission.
type RoomType string

const (
	RoomGeneral     RoomType = "general"
	RoomSemiPrivate RoomType = "semi-private"
	RoomPrivate     RoomType = "private"
	RoomDeluxe      RoomType = "deluxe"
	RoomSuite       RoomType = "suite"
)

// GuidanceInput is what the user supplies before hospitalization: a
// hypothetical procedure plus location and policy parameters, with no
// itemized bill yet.
type GuidanceInput struct {
	Procedure    string       `json:"procedure"`
	Pincode      string       `json:"pincode"`
	HospitalType HospitalType `json:"hospitalType"`
	RoomType     RoomType     `json:"roomType"`
	SumInsured   float64      `json:"sumInsured"`
	RoomRentCap  float64      `json:"roomRentCap"`
	CoPayPercent float64      `json:"coPayPercent"`
	SubLimits    []string     `json:"subLimits"`
}

// EstimateBreakdown splits the estimated total into cost heads. Consumables
// overlaps the other fractions rather than being drawn from them.
type EstimateBreakdown struct {
	Room        float64 `json:"room"`
	Procedure   float64 `json:"procedure"`
	Consumables float64 `json:"consumables"`
	Diagnostics float64 `json:"diagnostics"`
	Others      float64 `json:"others"`
}

// Estimate is the pre-treatment cost projection.
type Estimate struct {
	TotalEstimatedCost   float64           `json:"totalEstimatedCost"`
	Breakdown            EstimateBreakdown `json:"breakdown"`
	ExpectedDays         int               `json:"expectedDays"`
	EstimatedOutOfPocket float64           `json:"estimatedOutOfPocket"`
	InsuranceCoverage    float64           `json:"insuranceCoverage"`
	CoveragePercentage   int               `json:"coveragePercentage"`
}

// Advisory is a single insight, warning or recommendation surfaced with the
// estimate.
type Advisory struct {
	Type            string `json:"type"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	Impact          string `json:"impact,omitempty"`
	PotentialSaving string `json:"potentialSaving,omitempty"`
	Severity        string `json:"severity"`
}

// ProcedureInfo summarizes the matched reference procedure.
type ProcedureInfo struct {
	Name      string `json:"name"`
	AvgDays   int    `json:"avgDays"`
	RiskLevel string `json:"riskLevel"`
}

// Guidance is the full pre-hospitalization response. Estimate and
// ProcedureInfo are nil when the procedure is not in the reference table;
// that degraded response is not an error.
type Guidance struct {
	Insights        []Advisory     `json:"insights"`
	Warnings        []Advisory     `json:"warnings"`
	Recommendations []Advisory     `json:"recommendations"`
	Estimate        *Estimate      `json:"estimate"`
	ProcedureInfo   *ProcedureInfo `json:"procedureInfo,omitempty"`
}

// ProcedureOption is a reference procedure exposed for autocomplete.
type ProcedureOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
