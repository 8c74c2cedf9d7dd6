package geo

import (
	"math"
	"strings"

	"prepared/pkg/errors"
)

// Point is a located place. Postal and region codes are always present;
// coordinates are optional and take precedence when both sides of a
// comparison carry them.
type Point struct {
	PostalCode string
	RegionCode string
	Lat        *float64
	Lon        *float64
}

func (p Point) HasCoordinates() bool {
	return p.Lat != nil && p.Lon != nil
}

const (
	earthRadiusMiles = 3958.8

	// Fallback heuristic constants: one postal-code unit of difference
	// counts as a tenth of a mile, differing regions add a flat penalty,
	// and the estimate is capped so heuristic error stays bounded.
	milesPerPostalUnit = 0.1
	crossRegionPenalty = 50.0
	maxHeuristicMiles  = 500.0
)

// Distance returns the distance between a and b in miles. When both points
// carry coordinates this is the great-circle distance; otherwise it falls
// back to a deterministic postal-code heuristic. The function is pure and
// symmetric in its arguments.
func Distance(a, b Point) (float64, error) {
	if a.HasCoordinates() && b.HasCoordinates() {
		return haversineMiles(*a.Lat, *a.Lon, *b.Lat, *b.Lon), nil
	}
	return postalDistance(a, b)
}

// WithinRadius reports whether a and b are at most radiusMiles apart.
func WithinRadius(a, b Point, radiusMiles float64) (bool, error) {
	if radiusMiles <= 0 {
		return false, errors.WithCodef(errors.CodeInvalidRadius, "radius must be positive, got %g", radiusMiles)
	}
	d, err := Distance(a, b)
	if err != nil {
		return false, err
	}
	return d <= radiusMiles, nil
}

func postalDistance(a, b Point) (float64, error) {
	sameRegion := normCode(a.RegionCode) == normCode(b.RegionCode)
	if sameRegion && normCode(a.PostalCode) == normCode(b.PostalCode) {
		return 0, nil
	}

	aNum, aOK := postalNumber(a.PostalCode)
	bNum, bOK := postalNumber(b.PostalCode)
	if !aOK || !bOK {
		return 0, errors.WithCodef(errors.CodeGeomatchUnavailable,
			"cannot estimate distance between postal codes %q and %q", a.PostalCode, b.PostalCode)
	}

	d := math.Abs(aNum-bNum) * milesPerPostalUnit
	if !sameRegion {
		d += crossRegionPenalty
	}
	return math.Min(d, maxHeuristicMiles), nil
}

func normCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// postalNumber extracts the digits of a postal code as a number. Codes
// with no digits at all cannot be compared.
func postalNumber(code string) (float64, bool) {
	var digits strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	var n float64
	for _, r := range digits.String() {
		n = n*10 + float64(r-'0')
	}
	return n, true
}

func haversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
