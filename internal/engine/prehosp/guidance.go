package prehosp

import (
	"fmt"
	"math"
	"strings"

	"insurex/internal/models"
	"insurex/internal/utils"
)

// Guidance produces a pre-treatment cost estimate plus warnings, insights
// and recommendations for a hypothetical procedure. An unrecognized
// procedure yields a degraded response with a nil estimate, never an error.
//
// The out-of-pocket accumulation is an ordered pipeline: room-cap excess,
// then sub-limits, then co-payment on the remainder. Co-payment is computed
// on the cost net of the adjustments before it, so the step order changes
// the totals and must not be rearranged.
func Guidance(inputs models.GuidanceInput) models.Guidance {
	procedure := models.NormalizeName(inputs.Procedure)
	profile, ok := procedureTable[procedure]
	if !ok {
		return insufficientData()
	}

	hospitalType := inputs.HospitalType
	if hospitalType == "" {
		hospitalType = models.HospitalNetwork
	}
	roomType := inputs.RoomType
	if roomType == "" {
		roomType = models.RoomSemiPrivate
	}
	sumInsured := inputs.SumInsured
	if sumInsured <= 0 {
		sumInsured = 500000
	}

	locationCategory := pincodeCategory(inputs.Pincode)
	locationMultiplier := locationMultipliers[locationCategory]
	hospitalMultiplier, ok := hospitalTypeMultipliers[hospitalType]
	if !ok {
		hospitalMultiplier = hospitalTypeMultipliers[models.HospitalNetwork]
	}
	roomMultiplier, ok := roomTypeMultipliers[roomType]
	if !ok {
		roomMultiplier = roomTypeMultipliers[models.RoomSemiPrivate]
	}

	baseCost := (profile.BaseCost.Min + profile.BaseCost.Max) / 2
	estimatedTotalCost := baseCost * locationMultiplier * hospitalMultiplier * roomMultiplier

	roomCostPerDay := estimatedTotalCost * 0.25 / float64(profile.AvgDays)
	consumablesCost := estimatedTotalCost * profile.ConsumablesPercent / 100

	estimate := &models.Estimate{
		TotalEstimatedCost: estimatedTotalCost,
		Breakdown: models.EstimateBreakdown{
			Room:      roomCostPerDay * float64(profile.AvgDays),
			Procedure: estimatedTotalCost * 0.40,
			// Consumables overlaps the fixed fractions rather than being
			// drawn from them; the split is a modeling simplification.
			Consumables: consumablesCost,
			Diagnostics: estimatedTotalCost * 0.10,
			Others:      estimatedTotalCost * 0.25,
		},
		ExpectedDays: profile.AvgDays,
	}

	var insights, warnings, recommendations []models.Advisory
	estimatedOOP := 0.0

	// Step 1: room rent cap excess, doubled to model the proportionate
	// deductions a breached cap usually triggers on other heads.
	if inputs.RoomRentCap > 0 && roomCostPerDay > inputs.RoomRentCap {
		roomExcess := (roomCostPerDay - inputs.RoomRentCap) * float64(profile.AvgDays)
		proportionalImpact := roomExcess * 2
		estimatedOOP += proportionalImpact

		warnings = append(warnings, models.Advisory{
			Type:  "warning",
			Title: "Room Rent Cap Alert",
			Message: fmt.Sprintf("Your chosen %s room (₹%.0f/day) exceeds your policy cap (₹%.0f/day). This may trigger proportionate deductions on other costs.",
				roomType, math.Round(roomCostPerDay), inputs.RoomRentCap),
			Impact:   utils.FormatINR(proportionalImpact),
			Severity: "high",
		})

		cheaper := models.RoomGeneral
		if roomType == models.RoomPrivate {
			cheaper = models.RoomSemiPrivate
		}
		recommendations = append(recommendations, models.Advisory{
			Type:  "recommendation",
			Title: "Room Type Recommendation",
			Message: fmt.Sprintf("Consider a %s room to stay within your cap and avoid additional out-of-pocket expenses.",
				cheaper),
			PotentialSaving: utils.FormatINR(proportionalImpact),
			Severity:        "info",
		})
	}

	// Step 2: sub-limits known to bite this procedure. Matching is
	// case-insensitive substring containment against the user's list.
	matchedSubLimits := matchSubLimits(profile.CommonSubLimits, inputs.SubLimits)
	if len(matchedSubLimits) > 0 {
		subLimitImpact := estimatedTotalCost * 0.15
		estimatedOOP += subLimitImpact

		warnings = append(warnings, models.Advisory{
			Type:  "warning",
			Title: "Sub-Limit Detected",
			Message: fmt.Sprintf("Your policy has sub-limits on: %s. These may cap coverage for key components of this procedure.",
				strings.Join(matchedSubLimits, ", ")),
			Impact:   utils.FormatINR(subLimitImpact),
			Severity: "high",
		})

		insights = append(insights, models.Advisory{
			Type:     "info",
			Title:    "Understanding Sub-Limits",
			Message:  "Sub-limits restrict coverage for specific items (e.g., stents, implants) within your total sum insured. Verify these limits with your insurer.",
			Severity: "info",
		})
	}

	// Step 3: co-payment on the cost net of the deductions above.
	if inputs.CoPayPercent > 0 {
		coPayAmount := (estimatedTotalCost - estimatedOOP) * inputs.CoPayPercent / 100
		estimatedOOP += coPayAmount

		warnings = append(warnings, models.Advisory{
			Type:     "warning",
			Title:    "Co-Payment Required",
			Message:  fmt.Sprintf("You will pay %.0f%% of covered expenses as co-payment.", inputs.CoPayPercent),
			Impact:   utils.FormatINR(coPayAmount),
			Severity: "medium",
		})
	}

	if profile.ConsumablesPercent > 30 {
		insights = append(insights, models.Advisory{
			Type:  "caution",
			Title: "High Consumables Expected",
			Message: fmt.Sprintf("This procedure typically involves %.0f%% consumables costs (₹%.0f). Verify if your policy covers all consumables.",
				profile.ConsumablesPercent, math.Round(consumablesCost)),
			Severity: "medium",
		})

		recommendations = append(recommendations, models.Advisory{
			Type:     "recommendation",
			Title:    "Pre-Authorization Tip",
			Message:  "Request detailed pre-authorization specifying all consumables to avoid surprises during billing.",
			Severity: "info",
		})
	}

	// Non-network hospitals add risk but no modeled OOP.
	if hospitalType == models.HospitalNonNetwork {
		networkSaving := estimatedTotalCost * 0.4

		warnings = append(warnings, models.Advisory{
			Type:     "warning",
			Title:    "Non-Network Hospital",
			Message:  "Non-network hospitals may require upfront payment and reimbursement, with potential claim rejections.",
			Impact:   "Higher out-of-pocket risk",
			Severity: "high",
		})

		recommendations = append(recommendations, models.Advisory{
			Type:            "recommendation",
			Title:           "Consider Network Hospital",
			Message:         "Network hospitals offer cashless treatment and better coverage. You could save approximately " + utils.FormatINR(networkSaving),
			PotentialSaving: utils.FormatINR(networkSaving),
			Severity:        "info",
		})
	}

	if estimatedTotalCost > sumInsured*0.7 {
		warnings = append(warnings, models.Advisory{
			Type:  "warning",
			Title: "Sum Insured Alert",
			Message: fmt.Sprintf("Estimated cost (%s) is %d%% of your sum insured (%s). Consider top-up insurance.",
				utils.FormatINR(estimatedTotalCost),
				int(math.Round(estimatedTotalCost/sumInsured*100)),
				utils.FormatINR(sumInsured)),
			Severity: "high",
		})
	}

	insights = append(insights, models.Advisory{
		Type:     "info",
		Title:    "Location Impact",
		Message:  fmt.Sprintf("Treatment in %s affects costs. Metro costs are typically 30-50%% higher.", locationLabel(locationCategory)),
		Severity: "info",
	})

	estimate.EstimatedOutOfPocket = math.Max(0, estimatedOOP)
	estimate.InsuranceCoverage = estimatedTotalCost - estimate.EstimatedOutOfPocket
	estimate.CoveragePercentage = int(math.Round(estimate.InsuranceCoverage / estimatedTotalCost * 100))

	// The risk assessment goes first in the insights list.
	insights = append([]models.Advisory{riskAssessment(estimate)}, insights...)

	recommendations = append(recommendations, models.Advisory{
		Type:     "recommendation",
		Title:    "Next Steps",
		Message:  "Always get pre-authorization from your insurer before admission. Share this estimate with them for verification.",
		Severity: "info",
	})

	return models.Guidance{
		Insights:        insights,
		Warnings:        warnings,
		Recommendations: recommendations,
		Estimate:        estimate,
		ProcedureInfo: &models.ProcedureInfo{
			Name:      inputs.Procedure,
			AvgDays:   profile.AvgDays,
			RiskLevel: profile.RiskLevel,
		},
	}
}

// insufficientData is the degraded response for unrecognized procedures.
func insufficientData() models.Guidance {
	return models.Guidance{
		Insights: []models.Advisory{{
			Type:     "info",
			Title:    "Procedure Information",
			Message:  "We are still gathering data for this procedure. Please consult your insurer for specific coverage details.",
			Severity: "info",
		}},
		Warnings: []models.Advisory{},
		Recommendations: []models.Advisory{{
			Type:     "info",
			Title:    "General Recommendation",
			Message:  "Always verify coverage with your insurance provider before admission.",
			Severity: "info",
		}},
		Estimate: nil,
	}
}

// matchSubLimits returns the procedure's known sub-limits that appear,
// case-insensitively, inside any of the user's policy sub-limit entries.
func matchSubLimits(known, supplied []string) []string {
	matched := []string{}
	for _, k := range known {
		for _, s := range supplied {
			if strings.Contains(strings.ToLower(s), strings.ToLower(k)) {
				matched = append(matched, k)
				break
			}
		}
	}
	return matched
}

func riskAssessment(estimate *models.Estimate) models.Advisory {
	oopShare := int(math.Round(estimate.EstimatedOutOfPocket / estimate.TotalEstimatedCost * 100))
	advisory := models.Advisory{
		Type:  "info",
		Title: "Cost Risk Assessment",
	}

	switch {
	case estimate.EstimatedOutOfPocket > estimate.TotalEstimatedCost*0.3:
		advisory.Severity = "high"
		advisory.Message = fmt.Sprintf("HIGH RISK: Estimated out-of-pocket is %s (%d%% of total cost). Review policy terms carefully.",
			utils.FormatINR(estimate.EstimatedOutOfPocket), oopShare)
	case estimate.EstimatedOutOfPocket > estimate.TotalEstimatedCost*0.15:
		advisory.Severity = "medium"
		advisory.Message = fmt.Sprintf("MODERATE RISK: Estimated out-of-pocket is %s (%d%% of total cost).",
			utils.FormatINR(estimate.EstimatedOutOfPocket), oopShare)
	default:
		advisory.Severity = "low"
		advisory.Message = fmt.Sprintf("LOW RISK: Your policy appears to cover most costs. Estimated out-of-pocket: %s (%d%% of total cost).",
			utils.FormatINR(estimate.EstimatedOutOfPocket), oopShare)
	}

	return advisory
}

func locationLabel(category string) string {
	switch category {
	case "metro":
		return "metro cities"
	case "tier1":
		return "tier-1 cities"
	case "tier2":
		return "tier-2 cities"
	default:
		return "rural areas"
	}
}
