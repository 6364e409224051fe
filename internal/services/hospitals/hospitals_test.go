package hospitals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurex/internal/models"
)

func TestSearch_RejectsMalformedPincode(t *testing.T) {
	svc := NewService("")

	for _, pincode := range []string{"", "1234", "12345678", "38000a", "380 01"} {
		_, err := svc.Search(context.Background(), pincode)
		assert.ErrorIs(t, err, models.ErrInvalidPincode, "pincode %q", pincode)
	}
}

func TestSearch_FallbackWithoutAPIKey(t *testing.T) {
	svc := NewService("")

	result, err := svc.Search(context.Background(), "380001")
	require.NoError(t, err)

	assert.Equal(t, "380001", result.Pincode)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "SVP Hospital", result.Hospitals[0].Name)
	assert.Equal(t, result.Hospitals[0].Location, result.SearchLocation)
	assert.NotEmpty(t, result.Note)
}

func TestSearch_FallbackUnknownPincode(t *testing.T) {
	svc := NewService("")

	result, err := svc.Search(context.Background(), "560001")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Hospitals)
}

func TestHaversineKm(t *testing.T) {
	// Connaught Place to India Gate is roughly 2.5 km.
	a := Location{Lat: 28.6315, Lng: 77.2167}
	b := Location{Lat: 28.6129, Lng: 77.2295}

	d := haversineKm(a, b)
	assert.InDelta(t, 2.4, d, 0.3)

	assert.Equal(t, 0.0, haversineKm(a, a))
	// Symmetric to the 2-decimal rounding.
	assert.Equal(t, d, haversineKm(b, a))
}

func TestCashlessLikely(t *testing.T) {
	assert.True(t, cashlessLikely(4.3, 120))
	assert.False(t, cashlessLikely(3.9, 120))
	assert.False(t, cashlessLikely(4.5, 10))
	assert.False(t, cashlessLikely(0, 0))
}
