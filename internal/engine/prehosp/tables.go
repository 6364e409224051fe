// Package prehosp implements the pre-hospitalization guidance engine:
// proactive cost estimates and warnings before a planned treatment.
package prehosp

import (
	"sort"
	"strings"

	"insurex/internal/models"
)

// costRange is the reference billed-cost band for a procedure.
type costRange struct {
	Min float64
	Max float64
}

// procedureProfile is one row of the reference procedure table.
type procedureProfile struct {
	BaseCost           costRange
	AvgDays            int
	ConsumablesPercent float64
	CommonSubLimits    []string
	RiskLevel          string
}

// procedureTable holds typical costs and known coverage pitfalls per
// procedure. Keys are normalized (lowercase, trimmed) procedure names.
var procedureTable = map[string]procedureProfile{
	"angioplasty": {
		BaseCost:           costRange{Min: 150000, Max: 300000},
		AvgDays:            3,
		ConsumablesPercent: 40,
		CommonSubLimits:    []string{"stents", "cardiology procedures"},
		RiskLevel:          "high",
	},
	"knee replacement": {
		BaseCost:           costRange{Min: 200000, Max: 400000},
		AvgDays:            7,
		ConsumablesPercent: 35,
		CommonSubLimits:    []string{"joint replacement", "implants"},
		RiskLevel:          "high",
	},
	"appendectomy": {
		BaseCost:           costRange{Min: 40000, Max: 80000},
		AvgDays:            2,
		ConsumablesPercent: 20,
		CommonSubLimits:    []string{},
		RiskLevel:          "medium",
	},
	"cataract surgery": {
		BaseCost:           costRange{Min: 25000, Max: 60000},
		AvgDays:            1,
		ConsumablesPercent: 30,
		CommonSubLimits:    []string{"eye care", "lens"},
		RiskLevel:          "low",
	},
	"hernia repair": {
		BaseCost:           costRange{Min: 50000, Max: 100000},
		AvgDays:            2,
		ConsumablesPercent: 25,
		CommonSubLimits:    []string{"mesh implants"},
		RiskLevel:          "medium",
	},
	"cesarean section": {
		BaseCost:           costRange{Min: 60000, Max: 120000},
		AvgDays:            3,
		ConsumablesPercent: 20,
		CommonSubLimits:    []string{"maternity"},
		RiskLevel:          "medium",
	},
	"gallbladder removal": {
		BaseCost:           costRange{Min: 50000, Max: 90000},
		AvgDays:            2,
		ConsumablesPercent: 22,
		CommonSubLimits:    []string{},
		RiskLevel:          "low",
	},
	"hysterectomy": {
		BaseCost:           costRange{Min: 80000, Max: 150000},
		AvgDays:            4,
		ConsumablesPercent: 25,
		CommonSubLimits:    []string{},
		RiskLevel:          "medium",
	},
}

// hospitalTypeMultipliers scales cost by how the hospital bills insurers.
var hospitalTypeMultipliers = map[models.HospitalType]float64{
	models.HospitalGovernment: 0.3,
	models.HospitalNetwork:    1.0,
	models.HospitalNonNetwork: 1.4,
}

// locationMultipliers scales cost by city tier.
var locationMultipliers = map[string]float64{
	"metro": 1.3,
	"tier1": 1.1,
	"tier2": 0.9,
	"rural": 0.7,
}

// roomTypeMultipliers scales cost by ward class.
var roomTypeMultipliers = map[models.RoomType]float64{
	models.RoomGeneral:     0.8,
	models.RoomSemiPrivate: 1.0,
	models.RoomPrivate:     1.5,
	models.RoomDeluxe:      2.0,
	models.RoomSuite:       2.5,
}

var (
	metroPrefixes = []string{"110", "400", "560", "600", "700", "500"}
	tier1Prefixes = []string{"411", "380", "302", "160", "226"}
)

// pincodeCategory maps the first three digits of an Indian pincode to a
// city tier. A real deployment would consult a pincode database; this
// prefix table covers the major metros and tier-1 cities.
func pincodeCategory(pincode string) string {
	pin := pincode
	if len(pin) > 3 {
		pin = pin[:3]
	}

	for _, p := range metroPrefixes {
		if pin == p {
			return "metro"
		}
	}
	for _, p := range tier1Prefixes {
		if pin == p {
			return "tier1"
		}
	}
	if strings.HasPrefix(pin, "4") || strings.HasPrefix(pin, "6") {
		return "tier2"
	}
	return "rural"
}

// ProcedureList returns the reference procedures for autocomplete, sorted
// by name with title-cased labels.
func ProcedureList() []models.ProcedureOption {
	options := make([]models.ProcedureOption, 0, len(procedureTable))
	for name := range procedureTable {
		options = append(options, models.ProcedureOption{
			Value: name,
			Label: titleCase(name),
		})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Value < options[j].Value })
	return options
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
