// Package models defines the data structures for the Insurex coverage engine.
package models

import "strings"

// PolicyRules holds the coverage rules extracted from an insurance policy.
// Zero values are meaningful: a RoomRentCapPerDay of 0 means the policy did
// not provide a cap, not that room charges are free.
type PolicyRules struct {
	RoomRentCapPerDay         float64  `json:"roomRentCapPerDay"`
	CoveredProcedures         []string `json:"coveredProcedures"`
	ExcludedItems             []string `json:"excludedItems"`
	DiagnosticCoveragePercent float64  `json:"diagnosticCoveragePercent"`
	CoPayPercent              float64  `json:"coPayPercent"`
}

// NormalizePolicyRules coerces raw policy rules into canonical form.
// It never fails: negative caps collapse to 0, percents are clamped to
// [0,100] and nil lists become empty slices.
func NormalizePolicyRules(raw PolicyRules) PolicyRules {
	rules := PolicyRules{
		RoomRentCapPerDay:         raw.RoomRentCapPerDay,
		CoveredProcedures:         raw.CoveredProcedures,
		ExcludedItems:             raw.ExcludedItems,
		DiagnosticCoveragePercent: ClampPercent(raw.DiagnosticCoveragePercent),
		CoPayPercent:              ClampPercent(raw.CoPayPercent),
	}

	if rules.RoomRentCapPerDay < 0 {
		rules.RoomRentCapPerDay = 0
	}
	if rules.CoveredProcedures == nil {
		rules.CoveredProcedures = []string{}
	}
	if rules.ExcludedItems == nil {
		rules.ExcludedItems = []string{}
	}

	return rules
}

// ClampPercent restricts a percentage to the [0,100] range.
func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NormalizeName canonicalizes a name for rule matching: surrounding
// whitespace is trimmed and the result is lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NameInList reports whether name matches any entry in list. Matching is
// exact string equality after normalization, never substring or fuzzy.
func NameInList(name string, list []string) bool {
	n := NormalizeName(name)
	for _, item := range list {
		if NormalizeName(item) == n {
			return true
		}
	}
	return false
}
