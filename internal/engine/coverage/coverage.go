// Package coverage implements the deterministic coverage analysis engine.
// All functions are pure: same inputs, same outputs, safe to call
// concurrently without locks.
package coverage

import (
	"fmt"
	"math"
	"strconv"

	"insurex/internal/models"
)

// classification is the outcome of running the rule chain over one item.
type classification struct {
	Status             models.CoverageStatus
	CoveredBeforeCopay float64
	Uncovered          float64
	Explanation        string
}

// classifyItem decides coverage for a single canonical bill item. The rule
// order is a policy contract: exclusions override everything, then category
// rules apply, and anything without a rule falls through to not_covered.
func classifyItem(item models.BillItem, rules models.PolicyRules) classification {
	cost := item.Cost

	if models.NameInList(item.Name, rules.ExcludedItems) {
		return classification{
			Status:      models.StatusNotCovered,
			Uncovered:   cost,
			Explanation: "Excluded by policy: " + item.Name,
		}
	}

	switch item.Category {
	case models.CategoryRoom:
		cap := rules.RoomRentCapPerDay * float64(item.Days)
		if cap <= 0 {
			return classification{
				Status:      models.StatusNotCovered,
				Uncovered:   cost,
				Explanation: "No room rent cap provided; marking not covered",
			}
		}
		if cost <= cap {
			return classification{
				Status:             models.StatusCovered,
				CoveredBeforeCopay: cost,
				Explanation: fmt.Sprintf("Room rent within policy cap of ₹%s/day for %d day(s)",
					formatAmount(rules.RoomRentCapPerDay), item.Days),
			}
		}
		uncovered := cost - cap
		return classification{
			Status:             models.StatusPartiallyCovered,
			CoveredBeforeCopay: cap,
			Uncovered:          uncovered,
			Explanation: fmt.Sprintf("Room rent exceeds policy cap of ₹%s/day; ₹%s over cap",
				formatAmount(rules.RoomRentCapPerDay), formatAmount(uncovered)),
		}

	case models.CategoryDiagnostic:
		pct := rules.DiagnosticCoveragePercent
		if pct == 0 {
			return classification{
				Status:      models.StatusNotCovered,
				Uncovered:   cost,
				Explanation: "Diagnostics not covered per policy",
			}
		}
		if pct == 100 {
			return classification{
				Status:             models.StatusCovered,
				CoveredBeforeCopay: cost,
				Explanation:        "Diagnostics covered at 100% per policy",
			}
		}
		// Round on the cost×pct product before dividing; the rounding
		// order is load-bearing for determinism.
		covered := math.Round(cost*pct) / 100
		return classification{
			Status:             models.StatusPartiallyCovered,
			CoveredBeforeCopay: covered,
			Uncovered:          cost - covered,
			Explanation:        fmt.Sprintf("Diagnostics covered at %s%% per policy", formatAmount(pct)),
		}

	case models.CategoryProcedure:
		if models.NameInList(item.Name, rules.CoveredProcedures) {
			return classification{
				Status:             models.StatusCovered,
				CoveredBeforeCopay: cost,
				Explanation:        "Procedure covered under policy",
			}
		}
		return classification{
			Status:      models.StatusNotCovered,
			Uncovered:   cost,
			Explanation: "Procedure not in covered list",
		}

	case models.CategoryMedicine, models.CategoryConsumable:
		// No coverage rule exists for these categories in this model.
		return classification{
			Status:      models.StatusNotCovered,
			Uncovered:   cost,
			Explanation: fmt.Sprintf("No coverage rule for %s; marked not covered", item.Category),
		}

	default:
		return classification{
			Status:      models.StatusNotCovered,
			Uncovered:   cost,
			Explanation: "Unknown category; marked not covered",
		}
	}
}

// Analyze runs the classifier over every bill item, applies co-payment to
// the insurer's share and produces summary totals plus an itemized
// breakdown. Inputs are normalized first, so malformed values never fail.
func Analyze(policyRules models.PolicyRules, billItems []models.BillItem) models.Analysis {
	rules := models.NormalizePolicyRules(policyRules)

	breakdown := make([]models.BreakdownEntry, 0, len(billItems))
	var summary models.Summary

	for _, raw := range billItems {
		item := models.NormalizeBillItem(raw)
		summary.TotalBill += item.Cost

		c := classifyItem(item, rules)

		copayAmount := math.Round(c.CoveredBeforeCopay * rules.CoPayPercent / 100)
		insurerPays := c.CoveredBeforeCopay - copayAmount

		switch c.Status {
		case models.StatusCovered:
			summary.CoveredAmount += insurerPays
		case models.StatusPartiallyCovered:
			summary.PartiallyCoveredAmount += insurerPays
		}
		summary.NotCoveredAmount += c.Uncovered
		summary.OutOfPocket += c.Uncovered + copayAmount

		breakdown = append(breakdown, models.BreakdownEntry{
			ItemName:      item.Name,
			Category:      item.Category,
			OriginalCost:  item.Cost,
			CoveredCost:   insurerPays,
			UncoveredCost: c.Uncovered,
			Status:        c.Status,
			Explanation:   c.Explanation,
			CopayAmount:   copayAmount,
		})
	}

	return models.Analysis{
		Summary:   summary,
		Breakdown: breakdown,
		Metadata:  models.AnalysisMetadata{IsAIEstimated: true},
	}
}

// OverrideItem applies a manual correction to the breakdown entry at
// itemIndex and recomputes the summary by re-summing the whole breakdown.
// It does not re-derive anything from policy rules; whatever the caller
// sets is what the summary reflects. An out-of-range index leaves the
// breakdown unchanged but still recomputes (a no-op edit). A nil breakdown
// returns the input untouched.
func OverrideItem(analysis models.Analysis, itemIndex int, override models.ItemOverride) models.Analysis {
	if analysis.Breakdown == nil {
		return analysis
	}

	breakdown := make([]models.BreakdownEntry, len(analysis.Breakdown))
	copy(breakdown, analysis.Breakdown)

	if itemIndex >= 0 && itemIndex < len(breakdown) {
		breakdown[itemIndex] = mergeOverride(breakdown[itemIndex], override)
	}

	var summary models.Summary
	for _, b := range breakdown {
		summary.TotalBill += b.OriginalCost
		switch b.Status {
		case models.StatusCovered:
			summary.CoveredAmount += b.CoveredCost
		case models.StatusPartiallyCovered:
			summary.PartiallyCoveredAmount += b.CoveredCost
		}
		summary.NotCoveredAmount += b.UncoveredCost
		summary.OutOfPocket += b.UncoveredCost + b.CopayAmount
	}

	metadata := analysis.Metadata
	metadata.IsAIEstimated = false

	return models.Analysis{
		Summary:   summary,
		Breakdown: breakdown,
		Metadata:  metadata,
	}
}

// mergeOverride shallow-merges the set override fields into the entry and
// marks the explanation as manually overridden.
func mergeOverride(entry models.BreakdownEntry, override models.ItemOverride) models.BreakdownEntry {
	if override.ItemName != nil {
		entry.ItemName = *override.ItemName
	}
	if override.Category != nil {
		entry.Category = *override.Category
	}
	if override.OriginalCost != nil {
		entry.OriginalCost = *override.OriginalCost
	}
	if override.CoveredCost != nil {
		entry.CoveredCost = *override.CoveredCost
	}
	if override.UncoveredCost != nil {
		entry.UncoveredCost = *override.UncoveredCost
	}
	if override.Status != nil {
		entry.Status = *override.Status
	}
	if override.CopayAmount != nil {
		entry.CopayAmount = *override.CopayAmount
	}

	explanation := entry.Explanation
	if override.Explanation != nil {
		explanation = *override.Explanation
	}
	entry.Explanation = explanation + " (manually overridden)"

	return entry
}

// formatAmount renders a number the way it appears in rule explanations:
// no grouping, no trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
