package dispute

import (
	"math"
	"sort"
	"strconv"

	"insurex/internal/models"
)

// Summarize runs the forecaster over every breakdown entry, attaches item
// context to each record and ranks the merged list: high risk first, then
// medium, then low, with ties broken by uncovered amount descending.
//
// TotalDisputableAmount sums each record's uncovered amount, so an item that
// raised several disputes is counted once per record. That double-counting
// mirrors how the figures are presented to the user and is kept as-is.
func Summarize(breakdown []models.BreakdownEntry, rules models.PolicyRules) models.DisputeAnalysis {
	allDisputes := []models.ItemDispute{}
	var stats models.DisputeStats

	for _, item := range breakdown {
		uncovered := item.OriginalCost - item.CoveredCost

		for _, record := range AnalyzePotential(item, rules) {
			stats.TotalDisputableAmount += uncovered

			switch record.RiskLevel {
			case models.RiskHigh:
				stats.HighRiskCount++
			case models.RiskMedium:
				stats.MediumRiskCount++
			default:
				stats.LowRiskCount++
			}

			allDisputes = append(allDisputes, models.ItemDispute{
				DisputeRecord:   record,
				ItemName:        item.ItemName,
				ItemCost:        item.OriginalCost,
				CoveredCost:     item.CoveredCost,
				UncoveredAmount: uncovered,
				Category:        item.Category,
			})
		}
	}

	sort.SliceStable(allDisputes, func(i, j int) bool {
		if allDisputes[i].RiskLevel.SortPriority() != allDisputes[j].RiskLevel.SortPriority() {
			return allDisputes[i].RiskLevel.SortPriority() < allDisputes[j].RiskLevel.SortPriority()
		}
		return allDisputes[i].UncoveredAmount > allDisputes[j].UncoveredAmount
	})

	stats.TotalDisputeCount = len(allDisputes)
	if len(allDisputes) > 0 {
		total := 0
		for _, d := range allDisputes {
			total += d.SuccessRate
		}
		stats.AverageSuccessRate = int(math.Round(float64(total) / float64(len(allDisputes))))
	}

	return models.DisputeAnalysis{
		Disputes: allDisputes,
		Summary:  stats,
	}
}

// formatPercent renders a percentage without trailing zeros, e.g. 20 -> "20".
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
