package pudo

import (
	"strings"
)

// Filter retains only the points whose carrier name contains fragment as
// a case-insensitive substring. An empty fragment returns the input
// unchanged; no matches yield an empty, non-erroneous result.
func Filter(points []PickupPoint, fragment string) []PickupPoint {
	if fragment == "" {
		return points
	}

	fragment = strings.ToLower(fragment)
	filtered := make([]PickupPoint, 0, len(points))
	for _, p := range points {
		if strings.Contains(strings.ToLower(p.Carrier), fragment) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
