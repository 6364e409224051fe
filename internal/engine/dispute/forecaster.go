// Package dispute implements the dispute forecasting engine: it inspects
// classified bill items and surfaces disputable charges with guidance.
package dispute

import (
	"fmt"
	"math"

	"insurex/internal/models"
	"insurex/internal/utils"
)

// AnalyzePotential evaluates a fixed battery of heuristics against one
// classified breakdown entry and returns zero or more dispute records.
// The heuristics are independent and non-exclusive; a single item can raise
// several disputes (a large rejected procedure trips both the
// procedure-specific and the generic full-rejection branch). Thresholds and
// success rates are fixed constants.
func AnalyzePotential(item models.BreakdownEntry, rules models.PolicyRules) []models.DisputeRecord {
	disputes := []models.DisputeRecord{}

	// Room rent deductions
	if item.Category == models.CategoryRoom && item.Status == models.StatusPartiallyCovered {
		uncovered := item.OriginalCost - item.CoveredCost
		percentDeducted := 0
		if item.OriginalCost > 0 {
			percentDeducted = int(math.Round(uncovered / item.OriginalCost * 100))
		}

		if percentDeducted > 40 {
			disputes = append(disputes, models.DisputeRecord{
				RiskLevel: models.RiskHigh,
				Reason:    "Excessive Room Rent Deduction",
				Details: fmt.Sprintf("%d%% of room charges (%s) rejected due to cap. This may trigger proportionate deductions on other costs.",
					percentDeducted, utils.FormatINR(uncovered)),
				DisputeReason: "Room cap enforcement often includes hidden proportionate deductions on consumables and procedures, which is not disclosed upfront.",
				ActionPoints: []string{
					"Request itemized breakdown showing how room cap affected other charges",
					"Ask for policy clause justifying proportionate deductions",
					"Challenge if other items were reduced without clear reasoning",
				},
				SupportingDocs: []string{
					"Policy document with room rent clause",
					"Hospital room allocation slip",
					"Doctor's prescription if room upgrade was medically necessary",
				},
				SuccessRate: 65,
			})
		} else if percentDeducted > 20 {
			disputes = append(disputes, models.DisputeRecord{
				RiskLevel: models.RiskMedium,
				Reason:    "Room Rent Exceeds Policy Cap",
				Details: fmt.Sprintf("%d%% of room charges (%s) not covered. Cap may have been applied incorrectly.",
					percentDeducted, utils.FormatINR(uncovered)),
				DisputeReason: "Room caps are often calculated incorrectly, especially for partial days or ICU/emergency situations.",
				ActionPoints: []string{
					"Verify if room upgrade was medically necessary",
					"Check if emergency/ICU exemptions apply",
					"Confirm daily rate calculation is accurate",
				},
				SupportingDocs: []string{
					"Doctor's recommendation for specific room type",
					"Hospital admission records",
					"Room availability certificate",
				},
				SuccessRate: 55,
			})
		}
	}

	// Consumables and medicines rejected outright
	if (item.Category == models.CategoryConsumable || item.Category == models.CategoryMedicine) &&
		item.Status == models.StatusNotCovered {
		if item.OriginalCost > 10000 {
			disputes = append(disputes, models.DisputeRecord{
				RiskLevel: models.RiskHigh,
				Reason:    "High-Value Consumables Rejected",
				Details: fmt.Sprintf("%s in consumables/medicines not covered. Many policies cover consumables but insurers often reject them.",
					utils.FormatINR(item.OriginalCost)),
				DisputeReason: `Insurers frequently reject consumables claiming they are "not medically necessary" even when they are part of standard treatment protocol.`,
				ActionPoints: []string{
					"Request doctor to certify consumables were medically necessary",
					"Check policy for consumables coverage clause",
					"Compare against IRDAI guidelines on consumable coverage",
				},
				SupportingDocs: []string{
					"Doctor's prescription and necessity certificate",
					"Hospital protocol document",
					"Policy wording on consumables",
				},
				SuccessRate: 70,
			})
		} else if item.OriginalCost > 3000 {
			disputes = append(disputes, models.DisputeRecord{
				RiskLevel: models.RiskMedium,
				Reason:    "Consumables Not Covered",
				Details: fmt.Sprintf("%s in consumables rejected. Policy may cover these items.",
					utils.FormatINR(item.OriginalCost)),
				DisputeReason: "Standard consumables like gloves, syringes, and sutures are often incorrectly excluded.",
				ActionPoints: []string{
					"Verify if consumables are listed in policy inclusions",
					"Check if items were part of surgical package",
					"Request hospital to reclassify if misclassified",
				},
				SupportingDocs: []string{
					"Itemized bill showing consumables",
					"Policy inclusions list",
					"Hospital treatment protocol",
				},
				SuccessRate: 60,
			})
		}
	}

	// Partially covered diagnostics
	if item.Category == models.CategoryDiagnostic && item.Status == models.StatusPartiallyCovered {
		uncovered := item.OriginalCost - item.CoveredCost
		if uncovered > 5000 {
			disputes = append(disputes, models.DisputeRecord{
				RiskLevel: models.RiskMedium,
				Reason:    "Diagnostic Tests Partially Covered",
				Details: fmt.Sprintf("%s of diagnostic costs not covered. Sub-limits may be incorrectly applied.",
					utils.FormatINR(uncovered)),
				DisputeReason: "Pre-hospitalization and post-hospitalization diagnostic sub-limits are often misapplied to in-hospital tests.",
				ActionPoints: []string{
					"Verify if tests were done during hospitalization",
					"Check if sub-limits apply to in-hospital diagnostics",
					"Confirm tests were medically necessary for treatment",
				},
				SupportingDocs: []string{
					"Doctor's prescription for tests",
					"Test reports with dates",
					"Policy sub-limit clauses",
				},
				SuccessRate: 50,
			})
		}
	}

	// Major procedure rejections
	if item.Category == models.CategoryProcedure && item.Status == models.StatusNotCovered &&
		item.OriginalCost > 20000 {
		disputes = append(disputes, models.DisputeRecord{
			RiskLevel: models.RiskHigh,
			Reason:    "Major Procedure Not Covered",
			Details: fmt.Sprintf("%s procedure rejected. This may be an error as most policies cover standard procedures.",
				utils.FormatINR(item.OriginalCost)),
			DisputeReason: "Procedures are sometimes rejected due to coding errors, waiting period misapplication, or incorrect exclusion claims.",
			ActionPoints: []string{
				"Verify procedure code matches policy coverage list",
				"Check if waiting period has been completed",
				"Confirm procedure was not pre-existing condition related",
			},
			SupportingDocs: []string{
				"Policy procedure coverage list",
				"Doctor's notes on medical necessity",
				"Hospital discharge summary",
			},
			SuccessRate: 75,
		})
	}

	// High co-payment
	if item.CoveredCost > 0 && rules.CoPayPercent > 0 {
		coPayAmount := math.Round(item.CoveredCost * rules.CoPayPercent / 100)
		if coPayAmount > 20000 {
			disputes = append(disputes, models.DisputeRecord{
				RiskLevel: models.RiskLow,
				Reason:    "High Co-Payment Amount",
				Details: fmt.Sprintf("%s (%s%%) co-payment applied. Verify if co-payment clause was disclosed.",
					utils.FormatINR(coPayAmount), formatPercent(rules.CoPayPercent)),
				DisputeReason: "Co-payment clauses are sometimes not clearly disclosed at policy purchase or may not apply in emergency cases.",
				ActionPoints: []string{
					"Check if co-payment was disclosed in policy schedule",
					"Verify if emergency treatment exempts co-payment",
					"Confirm age-based co-payment is correctly applied",
				},
				SupportingDocs: []string{
					"Policy schedule showing co-payment",
					"Emergency admission records",
					"Age proof if age-based co-pay",
				},
				SuccessRate: 40,
			})
		}
	}

	// Generic full rejection. Consumables and medicines are excluded here
	// because the dedicated branch above already covers them and they would
	// otherwise double-count.
	if item.Status == models.StatusNotCovered && item.OriginalCost > 5000 &&
		item.Category != models.CategoryConsumable && item.Category != models.CategoryMedicine {
		disputes = append(disputes, models.DisputeRecord{
			RiskLevel: models.RiskMedium,
			Reason:    "Item Fully Rejected",
			Details: fmt.Sprintf("%s completely rejected. Reason: %q",
				utils.FormatINR(item.OriginalCost), item.Explanation),
			DisputeReason: "Full rejections often happen due to miscommunication, coding errors, or overly strict interpretation of policy terms.",
			ActionPoints: []string{
				"Request detailed reason for rejection",
				"Check if item can be reclassified under covered category",
				"Verify exclusion clause actually applies to this item",
			},
			SupportingDocs: []string{
				"Hospital bill showing item details",
				"Policy exclusions list",
				"Doctor's necessity certificate",
			},
			SuccessRate: 45,
		})
	}

	return disputes
}
