package hospitals

// fallbackHospitals serves a handful of known pincodes when the Google
// APIs are unconfigured or unreachable.
var fallbackHospitals = map[string][]Hospital{
	"380001": {
		{
			Name:           "SVP Hospital",
			Address:        "Ellisbridge, Ahmedabad, Gujarat 380006",
			Location:       Location{Lat: 23.0264, Lng: 72.5843},
			DistanceKm:     2.1,
			Rating:         4.3,
			CashlessLikely: true,
		},
		{
			Name:           "Civil Hospital",
			Address:        "Asarwa, Ahmedabad, Gujarat 380016",
			Location:       Location{Lat: 23.0358, Lng: 72.5873},
			DistanceKm:     3.2,
			Rating:         4.1,
			CashlessLikely: true,
		},
	},
	"110001": {
		{
			Name:           "Delhi Heart & Lung Institute",
			Address:        "Ranjit Nagar, Delhi 110001",
			Location:       Location{Lat: 28.6406, Lng: 77.1926},
			DistanceKm:     2.4,
			Rating:         4.3,
			CashlessLikely: true,
		},
	},
}

// fallbackResult builds a SearchResult from the static dataset. An
// unknown pincode yields an empty result with Count 0.
func fallbackResult(pincode, note string) *SearchResult {
	entries := fallbackHospitals[pincode]
	result := &SearchResult{
		Pincode:   pincode,
		Count:     len(entries),
		Hospitals: entries,
		Note:      note,
	}
	if len(entries) > 0 {
		result.SearchLocation = entries[0].Location
	}
	return result
}
