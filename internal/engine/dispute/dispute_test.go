package dispute_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurex/internal/engine/dispute"
	"insurex/internal/models"
)

func TestAnalyzePotential_RejectedProcedureRaisesTwoDisputes(t *testing.T) {
	item := models.BreakdownEntry{
		ItemName:     "Laparoscopy",
		Category:     models.CategoryProcedure,
		OriginalCost: 25000,
		Status:       models.StatusNotCovered,
		Explanation:  "Procedure not in covered list",
	}

	records := dispute.AnalyzePotential(item, models.PolicyRules{})

	// Both the procedure-specific and the generic full-rejection branch
	// fire for the same item; they are not deduplicated.
	require.Len(t, records, 2)
	assert.Equal(t, "Major Procedure Not Covered", records[0].Reason)
	assert.Equal(t, models.RiskHigh, records[0].RiskLevel)
	assert.Equal(t, 75, records[0].SuccessRate)
	assert.Equal(t, "Item Fully Rejected", records[1].Reason)
	assert.Equal(t, models.RiskMedium, records[1].RiskLevel)
	assert.Equal(t, 45, records[1].SuccessRate)
}

func TestAnalyzePotential_RoomDeductionTiers(t *testing.T) {
	tests := []struct {
		name    string
		covered float64
		reason  string
		risk    models.RiskLevel
		rate    int
	}{
		{"over 40 percent deducted", 5000, "Excessive Room Rent Deduction", models.RiskHigh, 65},
		{"over 20 percent deducted", 7000, "Room Rent Exceeds Policy Cap", models.RiskMedium, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.BreakdownEntry{
				ItemName:     "Room",
				Category:     models.CategoryRoom,
				OriginalCost: 10000,
				CoveredCost:  tt.covered,
				Status:       models.StatusPartiallyCovered,
			}

			records := dispute.AnalyzePotential(item, models.PolicyRules{})

			require.Len(t, records, 1)
			assert.Equal(t, tt.reason, records[0].Reason)
			assert.Equal(t, tt.risk, records[0].RiskLevel)
			assert.Equal(t, tt.rate, records[0].SuccessRate)
		})
	}
}

func TestAnalyzePotential_SmallRoomDeductionIgnored(t *testing.T) {
	item := models.BreakdownEntry{
		ItemName:     "Room",
		Category:     models.CategoryRoom,
		OriginalCost: 10000,
		CoveredCost:  9000, // 10% deducted
		Status:       models.StatusPartiallyCovered,
	}

	assert.Empty(t, dispute.AnalyzePotential(item, models.PolicyRules{}))
}

func TestAnalyzePotential_ConsumableTiers(t *testing.T) {
	tests := []struct {
		name   string
		cost   float64
		count  int
		reason string
		rate   int
	}{
		{"high value", 12000, 1, "High-Value Consumables Rejected", 70},
		{"medium value", 5000, 1, "Consumables Not Covered", 60},
		{"below threshold", 2000, 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.BreakdownEntry{
				ItemName:     "Surgical Kit",
				Category:     models.CategoryConsumable,
				OriginalCost: tt.cost,
				Status:       models.StatusNotCovered,
			}

			records := dispute.AnalyzePotential(item, models.PolicyRules{})

			require.Len(t, records, tt.count)
			if tt.count > 0 {
				assert.Equal(t, tt.reason, records[0].Reason)
				assert.Equal(t, tt.rate, records[0].SuccessRate)
			}
		})
	}
}

func TestAnalyzePotential_ConsumableSkipsGenericBranch(t *testing.T) {
	// A rejected consumable above the generic threshold raises only the
	// consumable-specific dispute, never the generic one.
	item := models.BreakdownEntry{
		ItemName:     "Implant Kit",
		Category:     models.CategoryConsumable,
		OriginalCost: 50000,
		Status:       models.StatusNotCovered,
	}

	records := dispute.AnalyzePotential(item, models.PolicyRules{})

	require.Len(t, records, 1)
	assert.Equal(t, "High-Value Consumables Rejected", records[0].Reason)
}

func TestAnalyzePotential_DiagnosticPartial(t *testing.T) {
	item := models.BreakdownEntry{
		ItemName:     "CT Scan",
		Category:     models.CategoryDiagnostic,
		OriginalCost: 15000,
		CoveredCost:  7500,
		Status:       models.StatusPartiallyCovered,
	}

	records := dispute.AnalyzePotential(item, models.PolicyRules{})

	require.Len(t, records, 1)
	assert.Equal(t, "Diagnostic Tests Partially Covered", records[0].Reason)
	assert.Equal(t, 50, records[0].SuccessRate)
}

func TestAnalyzePotential_HighCopay(t *testing.T) {
	item := models.BreakdownEntry{
		ItemName:     "Bypass Surgery",
		Category:     models.CategoryProcedure,
		OriginalCost: 150000,
		CoveredCost:  150000,
		Status:       models.StatusCovered,
	}
	rules := models.PolicyRules{CoPayPercent: 20}

	records := dispute.AnalyzePotential(item, rules)

	require.Len(t, records, 1)
	assert.Equal(t, "High Co-Payment Amount", records[0].Reason)
	assert.Equal(t, models.RiskLow, records[0].RiskLevel)
	assert.Equal(t, 40, records[0].SuccessRate)
	assert.Contains(t, records[0].Details, "₹30,000")
}

func TestSummarize_RanksByRiskThenAmount(t *testing.T) {
	breakdown := []models.BreakdownEntry{
		{ItemName: "CT Scan", Category: models.CategoryDiagnostic, OriginalCost: 15000, CoveredCost: 7500, Status: models.StatusPartiallyCovered},
		{ItemName: "Implant", Category: models.CategoryConsumable, OriginalCost: 12000, Status: models.StatusNotCovered},
		{ItemName: "Stitches", Category: models.CategoryConsumable, OriginalCost: 5000, Status: models.StatusNotCovered},
	}

	result := dispute.Summarize(breakdown, models.PolicyRules{})

	require.Len(t, result.Disputes, 3)
	// High risk first, then medium ordered by uncovered amount descending.
	assert.Equal(t, "Implant", result.Disputes[0].ItemName)
	assert.Equal(t, models.RiskHigh, result.Disputes[0].RiskLevel)
	assert.Equal(t, "CT Scan", result.Disputes[1].ItemName)
	assert.Equal(t, "Stitches", result.Disputes[2].ItemName)
}

func TestSummarize_StatsCountPerRecord(t *testing.T) {
	// One item raising two disputes contributes its uncovered amount to
	// the disputable total once per record.
	breakdown := []models.BreakdownEntry{
		{ItemName: "Laparoscopy", Category: models.CategoryProcedure, OriginalCost: 25000, Status: models.StatusNotCovered},
	}

	result := dispute.Summarize(breakdown, models.PolicyRules{})

	assert.Equal(t, 2, result.Summary.TotalDisputeCount)
	assert.Equal(t, 50000.0, result.Summary.TotalDisputableAmount)
	assert.Equal(t, 1, result.Summary.HighRiskCount)
	assert.Equal(t, 1, result.Summary.MediumRiskCount)
	assert.Equal(t, 60, result.Summary.AverageSuccessRate) // mean of 75 and 45
}

func TestSummarize_EmptyBreakdown(t *testing.T) {
	result := dispute.Summarize(nil, models.PolicyRules{})

	assert.Empty(t, result.Disputes)
	assert.Equal(t, 0, result.Summary.TotalDisputeCount)
	assert.Equal(t, 0, result.Summary.AverageSuccessRate)
}

func TestGenerateScript_FillsKnownFields(t *testing.T) {
	record := models.DisputeRecord{
		RiskLevel:     models.RiskHigh,
		Reason:        "Major Procedure Not Covered",
		Details:       "Procedure rejected.",
		DisputeReason: "Likely a coding error.",
		ActionPoints:  []string{"Verify procedure code", "Check waiting period", "Confirm no exclusion"},
		SupportingDocs: []string{
			"Policy procedure coverage list",
			"Discharge summary",
		},
		SuccessRate: 75,
	}
	item := models.BreakdownEntry{
		ItemName:     "Laparoscopy",
		OriginalCost: 25000,
		CoveredCost:  0,
	}
	info := models.PatientInfo{
		PolicyNumber: "POL-12345",
		PatientName:  "A. Sharma",
	}

	script := dispute.GenerateScript(record, item, info)

	assert.Contains(t, script.EmailScript, "POL-12345")
	assert.Contains(t, script.EmailScript, "A. Sharma")
	assert.Contains(t, script.EmailScript, "Laparoscopy")
	assert.Contains(t, script.EmailScript, "₹25,000")
	assert.Contains(t, script.EmailScript, "1. Verify procedure code")
	assert.Contains(t, script.EmailScript, "2. Discharge summary")

	assert.Contains(t, script.CallScript, "POL-12345")
	assert.Contains(t, script.CallScript, "Check waiting period")
	assert.Contains(t, script.CallScript, "IRDAI")

	assert.Equal(t,
		"Dispute Major Procedure Not Covered: ₹25,000 | Risk: HIGH | Success Rate: 75%",
		script.ShortSummary)
}

func TestGenerateScript_MissingPatientInfoUsesPlaceholders(t *testing.T) {
	record := models.DisputeRecord{Reason: "Item Fully Rejected", SuccessRate: 45}
	item := models.BreakdownEntry{ItemName: "Gloves", OriginalCost: 6000}

	script := dispute.GenerateScript(record, item, models.PatientInfo{})

	for _, placeholder := range []string{
		"[Your Policy Number]",
		"[Claim Number]",
		"[Patient Name]",
		"[Hospital Name]",
		"[Admission Date]",
		"[Discharge Date]",
	} {
		assert.True(t, strings.Contains(script.EmailScript, placeholder),
			"email script missing %s", placeholder)
	}
}
