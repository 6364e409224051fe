// Package models defines the data structures for the Insurex coverage engine.
package models

// ItemCategory classifies a hospital bill line item.
type ItemCategory string

const (
	CategoryRoom       ItemCategory = "room"
	CategoryProcedure  ItemCategory = "procedure"
	CategoryDiagnostic ItemCategory = "diagnostic"
	CategoryMedicine   ItemCategory = "medicine"
	CategoryConsumable ItemCategory = "consumable"
)

// KnownCategories returns the categories the classifier has explicit rules
// for. Anything else falls through to the unknown-category branch.
func KnownCategories() []ItemCategory {
	return []ItemCategory{
		CategoryRoom,
		CategoryProcedure,
		CategoryDiagnostic,
		CategoryMedicine,
		CategoryConsumable,
	}
}

// DefaultItemName is substituted when a bill item carries no name.
const DefaultItemName = "Unknown Item"

// BillItem is a single line item from a hospital bill.
type BillItem struct {
	Name     string       `json:"name"`
	Category ItemCategory `json:"category"`
	Cost     float64      `json:"cost"`
	Days     int          `json:"days,omitempty"`
}

// NormalizeBillItem coerces a raw bill item into canonical form: missing
// name becomes DefaultItemName, negative cost collapses to 0 and days
// defaults to 1. Days is only meaningful for room items but is defaulted
// unconditionally.
func NormalizeBillItem(raw BillItem) BillItem {
	item := raw

	if item.Name == "" {
		item.Name = DefaultItemName
	}
	if item.Cost < 0 {
		item.Cost = 0
	}
	if item.Days < 1 {
		item.Days = 1
	}

	return item
}
