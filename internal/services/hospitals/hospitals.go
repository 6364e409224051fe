// Package hospitals finds cashless-network hospital candidates near an
// Indian pincode using the Google Geocoding and Places APIs, with a small
// built-in fallback dataset for when the APIs are unavailable.
package hospitals

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"

	"insurex/internal/models"
	"insurex/internal/utils"
)

const (
	geocodeURL      = "https://maps.googleapis.com/maps/api/geocode/json"
	searchNearbyURL = "https://places.googleapis.com/v1/places:searchNearby"

	searchRadiusMeters = 5000
	maxResults         = 10
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// Location is a lat/lng pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Hospital is one nearby hospital candidate.
type Hospital struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Location         Location `json:"location"`
	DistanceKm       float64  `json:"distanceKm"`
	PlaceID          string   `json:"placeId,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"userRatingsTotal,omitempty"`
	Source           string   `json:"source,omitempty"`
	CashlessLikely   bool     `json:"cashlessLikely"`
}

// SearchResult is the response payload for a hospital search.
type SearchResult struct {
	Pincode        string     `json:"pincode"`
	SearchLocation Location   `json:"searchLocation"`
	Count          int        `json:"count"`
	Hospitals      []Hospital `json:"hospitals"`
	Note           string     `json:"note,omitempty"`
}

// Service queries the Google APIs for hospitals near a pincode.
type Service struct {
	apiKey     string
	httpClient *http.Client
}

// NewService creates a hospital search service. An empty API key is
// allowed; searches then serve only the fallback dataset.
func NewService(apiKey string) *Service {
	return &Service{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search finds up to 10 hospitals near the given pincode, sorted by
// distance. It returns models.ErrInvalidPincode for malformed input and
// falls back to the built-in dataset when the APIs are unconfigured or
// failing.
func (s *Service) Search(ctx context.Context, pincode string) (*SearchResult, error) {
	if !pincodePattern.MatchString(pincode) {
		return nil, models.ErrInvalidPincode
	}

	if s.apiKey == "" {
		utils.GetLogger().Warn("Missing Google Maps API key, using fallback data", zap.String("pincode", pincode))
		return fallbackResult(pincode, "Using fallback data - API key not configured"), nil
	}

	origin, err := s.geocodePincode(ctx, pincode)
	if err != nil {
		utils.GetLogger().Warn("Geocoding failed", zap.String("pincode", pincode), zap.Error(err))
		if fb := fallbackResult(pincode, "Using fallback data - geocoding failed"); fb.Count > 0 {
			return fb, nil
		}
		return nil, fmt.Errorf("location not found for pincode %s: %w", pincode, err)
	}

	places, err := s.nearbyHospitals(ctx, origin)
	if err != nil {
		utils.GetLogger().Warn("Places search failed", zap.String("pincode", pincode), zap.Error(err))
		if fb := fallbackResult(pincode, "Using fallback data - API error occurred"); fb.Count > 0 {
			return fb, nil
		}
		return nil, fmt.Errorf("hospital search failed: %w", err)
	}

	hospitals := make([]Hospital, 0, len(places))
	for _, p := range places {
		if p.Location == nil {
			continue
		}
		loc := Location{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
		h := Hospital{
			Name:             p.DisplayName.Text,
			Address:          p.FormattedAddress,
			Location:         loc,
			DistanceKm:       haversineKm(origin, loc),
			PlaceID:          p.ID,
			Rating:           p.Rating,
			UserRatingsTotal: p.UserRatingCount,
			Source:           "google_places",
			CashlessLikely:   cashlessLikely(p.Rating, p.UserRatingCount),
		}
		if h.Name == "" {
			h.Name = "Unknown Hospital"
		}
		if h.Address == "" {
			h.Address = "Address not available"
		}
		hospitals = append(hospitals, h)
	}

	sort.SliceStable(hospitals, func(i, j int) bool {
		return hospitals[i].DistanceKm < hospitals[j].DistanceKm
	})
	if len(hospitals) > maxResults {
		hospitals = hospitals[:maxResults]
	}

	return &SearchResult{
		Pincode:        pincode,
		SearchLocation: origin,
		Count:          len(hospitals),
		Hospitals:      hospitals,
	}, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (s *Service) geocodePincode(ctx context.Context, pincode string) (Location, error) {
	q := url.Values{}
	q.Set("address", pincode)
	q.Set("region", "in")
	q.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geocodeURL+"?"+q.Encode(), nil)
	if err != nil {
		return Location{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, err
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Location{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if parsed.Status != "OK" || len(parsed.Results) == 0 {
		return Location{}, fmt.Errorf("geocoding returned status %s", parsed.Status)
	}
	return parsed.Results[0].Geometry.Location, nil
}

type place struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Rating          float64 `json:"rating"`
	UserRatingCount int     `json:"userRatingCount"`
}

type searchNearbyResponse struct {
	Places []place `json:"places"`
}

func (s *Service) nearbyHospitals(ctx context.Context, origin Location) ([]place, error) {
	requestBody := map[string]any{
		"includedTypes":  []string{"hospital"},
		"maxResultCount": 20,
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": map[string]any{
					"latitude":  origin.Lat,
					"longitude": origin.Lng,
				},
				"radius": searchRadiusMeters,
			},
		},
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchNearbyURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)
	req.Header.Set("X-Goog-FieldMask", "places.displayName,places.formattedAddress,places.location,places.rating,places.userRatingCount,places.id")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	var parsed searchNearbyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}
	return parsed.Places, nil
}

// cashlessLikely is a heuristic: well-rated hospitals with a meaningful
// review count usually sit on insurer cashless networks. A real
// integration would consult insurer network lists.
func cashlessLikely(rating float64, ratingCount int) bool {
	return rating >= 4.0 && ratingCount >= 50
}

// haversineKm returns the great-circle distance between two points,
// rounded to two decimals.
func haversineKm(a, b Location) float64 {
	const earthRadiusKm = 6371

	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*100) / 100
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
