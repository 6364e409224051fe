// Package utils provides utility functions for the Insurex backend.
package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatINR renders an amount as rupees with Indian digit grouping and no
// fraction, e.g. 150000 -> "₹1,50,000".
func FormatINR(amount float64) string {
	n := int64(math.Round(amount))

	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		// Indian grouping: last group of 3, then groups of 2
		head := s[:len(s)-3]
		tail := s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		s = strings.Join(groups, ",") + "," + tail
	}

	if neg {
		s = "-" + s
	}
	return "₹" + s
}
