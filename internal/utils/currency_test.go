package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{44200, "₹44,200"},
		{150000, "₹1,50,000"},
		{1234567, "₹12,34,567"},
		{10000000, "₹1,00,00,000"},
		{999.5, "₹1,000"},
		{-5000, "₹-5,000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatINR(tt.amount), "amount %v", tt.amount)
	}
}
