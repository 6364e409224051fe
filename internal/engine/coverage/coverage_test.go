package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurex/internal/engine/coverage"
	"insurex/internal/models"
)

func icuRoomBill() []models.BillItem {
	return []models.BillItem{
		{Name: "ICU Room", Category: models.CategoryRoom, Cost: 30000, Days: 5},
	}
}

func TestAnalyze_RoomRentOverCap(t *testing.T) {
	rules := models.PolicyRules{RoomRentCapPerDay: 5000}

	analysis := coverage.Analyze(rules, icuRoomBill())

	require.Len(t, analysis.Breakdown, 1)
	entry := analysis.Breakdown[0]

	assert.Equal(t, models.StatusPartiallyCovered, entry.Status)
	assert.Equal(t, 30000.0, entry.OriginalCost)
	assert.Equal(t, 25000.0, entry.CoveredCost) // cap × 5 days, no copay
	assert.Equal(t, 5000.0, entry.UncoveredCost)
	assert.Equal(t, 0.0, entry.CopayAmount)

	assert.Equal(t, 30000.0, analysis.Summary.TotalBill)
	assert.Equal(t, 25000.0, analysis.Summary.PartiallyCoveredAmount)
	assert.Equal(t, 5000.0, analysis.Summary.NotCoveredAmount)
	assert.Equal(t, 5000.0, analysis.Summary.OutOfPocket)
	assert.True(t, analysis.Metadata.IsAIEstimated)
}

func TestAnalyze_RoomRentOverCapWithCopay(t *testing.T) {
	rules := models.PolicyRules{RoomRentCapPerDay: 5000, CoPayPercent: 20}

	analysis := coverage.Analyze(rules, icuRoomBill())

	require.Len(t, analysis.Breakdown, 1)
	entry := analysis.Breakdown[0]

	assert.Equal(t, 5000.0, entry.CopayAmount) // round(25000×20/100)
	assert.Equal(t, 20000.0, entry.CoveredCost)
	assert.Equal(t, 5000.0, entry.UncoveredCost)
	assert.Equal(t, 10000.0, analysis.Summary.OutOfPocket) // uncovered + copay
}

func TestAnalyze_MedicineNeverCovered(t *testing.T) {
	rules := models.PolicyRules{
		RoomRentCapPerDay:         5000,
		DiagnosticCoveragePercent: 100,
		CoveredProcedures:         []string{"physiotherapy"},
	}
	bill := []models.BillItem{
		{Name: "Physiotherapy", Category: models.CategoryMedicine, Cost: 3000},
	}

	analysis := coverage.Analyze(rules, bill)

	require.Len(t, analysis.Breakdown, 1)
	assert.Equal(t, models.StatusNotCovered, analysis.Breakdown[0].Status)
	assert.Equal(t, 3000.0, analysis.Breakdown[0].UncoveredCost)
	assert.Equal(t, 0.0, analysis.Breakdown[0].CoveredCost)
}

func TestAnalyze_ExclusionPrecedesEverything(t *testing.T) {
	// An excluded item is not covered even when its category rule would
	// cover it fully.
	rules := models.PolicyRules{
		RoomRentCapPerDay: 10000,
		ExcludedItems:     []string{"  Deluxe Room  "},
	}
	bill := []models.BillItem{
		{Name: "deluxe room", Category: models.CategoryRoom, Cost: 5000, Days: 1},
	}

	analysis := coverage.Analyze(rules, bill)

	entry := analysis.Breakdown[0]
	assert.Equal(t, models.StatusNotCovered, entry.Status)
	assert.Equal(t, 5000.0, entry.UncoveredCost)
	assert.Contains(t, entry.Explanation, "Excluded by policy")
}

func TestAnalyze_RoomCapBoundary(t *testing.T) {
	rules := models.PolicyRules{RoomRentCapPerDay: 5000}
	bill := []models.BillItem{
		{Name: "Room", Category: models.CategoryRoom, Cost: 25000, Days: 5},
	}

	analysis := coverage.Analyze(rules, bill)

	// Cost exactly equal to the cap is fully covered.
	assert.Equal(t, models.StatusCovered, analysis.Breakdown[0].Status)
	assert.Equal(t, 25000.0, analysis.Breakdown[0].CoveredCost)
	assert.Equal(t, 0.0, analysis.Breakdown[0].UncoveredCost)
}

func TestAnalyze_RoomWithoutCap(t *testing.T) {
	bill := []models.BillItem{
		{Name: "Room", Category: models.CategoryRoom, Cost: 8000, Days: 2},
	}

	analysis := coverage.Analyze(models.PolicyRules{}, bill)

	assert.Equal(t, models.StatusNotCovered, analysis.Breakdown[0].Status)
	assert.Equal(t, 8000.0, analysis.Breakdown[0].UncoveredCost)
}

func TestAnalyze_DiagnosticCoverageLevels(t *testing.T) {
	bill := []models.BillItem{
		{Name: "MRI Scan", Category: models.CategoryDiagnostic, Cost: 1999},
	}

	tests := []struct {
		name      string
		percent   float64
		status    models.CoverageStatus
		covered   float64
		uncovered float64
	}{
		{"zero percent", 0, models.StatusNotCovered, 0, 1999},
		{"full coverage", 100, models.StatusCovered, 1999, 0},
		{"partial coverage", 50, models.StatusPartiallyCovered, 999.5, 999.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := models.PolicyRules{DiagnosticCoveragePercent: tt.percent}
			analysis := coverage.Analyze(rules, bill)

			entry := analysis.Breakdown[0]
			assert.Equal(t, tt.status, entry.Status)
			assert.Equal(t, tt.covered, entry.CoveredCost)
			assert.Equal(t, tt.uncovered, entry.UncoveredCost)
		})
	}
}

func TestAnalyze_ProcedureList(t *testing.T) {
	rules := models.PolicyRules{CoveredProcedures: []string{"Angioplasty"}}
	bill := []models.BillItem{
		{Name: " angioplasty ", Category: models.CategoryProcedure, Cost: 200000},
		{Name: "Knee Replacement", Category: models.CategoryProcedure, Cost: 250000},
	}

	analysis := coverage.Analyze(rules, bill)

	assert.Equal(t, models.StatusCovered, analysis.Breakdown[0].Status)
	assert.Equal(t, models.StatusNotCovered, analysis.Breakdown[1].Status)
}

func TestAnalyze_UnknownCategory(t *testing.T) {
	bill := []models.BillItem{
		{Name: "Ambulance", Category: "transport", Cost: 2500},
	}

	analysis := coverage.Analyze(models.PolicyRules{}, bill)

	assert.Equal(t, models.StatusNotCovered, analysis.Breakdown[0].Status)
	assert.Contains(t, analysis.Breakdown[0].Explanation, "Unknown category")
}

func TestAnalyze_NormalizesMalformedItems(t *testing.T) {
	bill := []models.BillItem{
		{Name: "", Category: models.CategoryMedicine, Cost: -50},
	}

	analysis := coverage.Analyze(models.PolicyRules{}, bill)

	entry := analysis.Breakdown[0]
	assert.Equal(t, models.DefaultItemName, entry.ItemName)
	assert.Equal(t, 0.0, entry.OriginalCost)
}

func TestAnalyze_PerEntryInvariant(t *testing.T) {
	rules := models.PolicyRules{
		RoomRentCapPerDay:         4000,
		DiagnosticCoveragePercent: 80,
		CoveredProcedures:         []string{"appendectomy"},
		CoPayPercent:              10,
	}
	bill := []models.BillItem{
		{Name: "Room", Category: models.CategoryRoom, Cost: 21000, Days: 3},
		{Name: "Appendectomy", Category: models.CategoryProcedure, Cost: 60000},
		{Name: "Blood Panel", Category: models.CategoryDiagnostic, Cost: 7350},
		{Name: "Gloves", Category: models.CategoryConsumable, Cost: 900},
	}

	analysis := coverage.Analyze(rules, bill)

	for _, entry := range analysis.Breakdown {
		assert.InDelta(t, entry.OriginalCost,
			entry.CoveredCost+entry.UncoveredCost+entry.CopayAmount, 1e-9,
			"entry %q must split exactly", entry.ItemName)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	rules := models.PolicyRules{RoomRentCapPerDay: 5000, CoPayPercent: 15}
	first := coverage.Analyze(rules, icuRoomBill())
	second := coverage.Analyze(rules, icuRoomBill())
	assert.Equal(t, first, second)
}

func TestOverrideItem_ReplacesEntryAndResums(t *testing.T) {
	rules := models.PolicyRules{RoomRentCapPerDay: 5000}
	analysis := coverage.Analyze(rules, icuRoomBill())

	covered := 30000.0
	uncovered := 0.0
	status := models.StatusCovered
	updated := coverage.OverrideItem(analysis, 0, models.ItemOverride{
		CoveredCost:   &covered,
		UncoveredCost: &uncovered,
		Status:        &status,
	})

	entry := updated.Breakdown[0]
	assert.Equal(t, 30000.0, entry.CoveredCost)
	assert.Equal(t, 0.0, entry.UncoveredCost)
	assert.Equal(t, models.StatusCovered, entry.Status)
	assert.Contains(t, entry.Explanation, "(manually overridden)")

	assert.Equal(t, 30000.0, updated.Summary.CoveredAmount)
	assert.Equal(t, 0.0, updated.Summary.OutOfPocket)
	assert.False(t, updated.Metadata.IsAIEstimated)

	// The input analysis is not mutated.
	assert.Equal(t, 25000.0, analysis.Breakdown[0].CoveredCost)
	assert.True(t, analysis.Metadata.IsAIEstimated)
}

func TestOverrideItem_OutOfRangeIndex(t *testing.T) {
	rules := models.PolicyRules{RoomRentCapPerDay: 5000}
	analysis := coverage.Analyze(rules, icuRoomBill())

	updated := coverage.OverrideItem(analysis, 7, models.ItemOverride{})

	// Entries untouched, but the analysis still counts as manually edited.
	assert.Equal(t, analysis.Breakdown, updated.Breakdown)
	assert.Equal(t, analysis.Summary, updated.Summary)
	assert.False(t, updated.Metadata.IsAIEstimated)
}

func TestOverrideItem_AIEstimatedStaysFalse(t *testing.T) {
	rules := models.PolicyRules{RoomRentCapPerDay: 5000}
	analysis := coverage.Analyze(rules, icuRoomBill())

	once := coverage.OverrideItem(analysis, 0, models.ItemOverride{})
	twice := coverage.OverrideItem(once, 0, models.ItemOverride{})

	assert.False(t, once.Metadata.IsAIEstimated)
	assert.False(t, twice.Metadata.IsAIEstimated)
}

func TestOverrideItem_NilBreakdown(t *testing.T) {
	analysis := models.Analysis{Metadata: models.AnalysisMetadata{IsAIEstimated: true}}

	updated := coverage.OverrideItem(analysis, 0, models.ItemOverride{})

	assert.Equal(t, analysis, updated)
}
