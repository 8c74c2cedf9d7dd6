package geo

import (
	"math"
	"testing"

	"prepared/pkg/errors"
)

func ptr(f float64) *float64 { return &f }

func coordPoint(lat, lon float64) Point {
	return Point{PostalCode: "00000", RegionCode: "XX", Lat: ptr(lat), Lon: ptr(lon)}
}

func TestDistance(t *testing.T) {
	t.Run("zero for identical postal and region", func(t *testing.T) {
		a := Point{PostalCode: "94105", RegionCode: "CA"}
		d, err := Distance(a, a)
		if err != nil {
			t.Fatalf("Distance: %v", err)
		}
		if d != 0 {
			t.Errorf("Expected 0, got %v", d)
		}
	})

	t.Run("zero for identical non-numeric codes", func(t *testing.T) {
		a := Point{PostalCode: "N/A", RegionCode: "CA"}
		d, err := Distance(a, a)
		if err != nil {
			t.Fatalf("Distance: %v", err)
		}
		if d != 0 {
			t.Errorf("Expected 0, got %v", d)
		}
	})

	t.Run("postal heuristic is symmetric", func(t *testing.T) {
		a := Point{PostalCode: "94105", RegionCode: "CA"}
		b := Point{PostalCode: "94610", RegionCode: "CA"}
		d1, err1 := Distance(a, b)
		d2, err2 := Distance(b, a)
		if err1 != nil || err2 != nil {
			t.Fatalf("Distance: %v, %v", err1, err2)
		}
		if d1 != d2 {
			t.Errorf("Expected symmetric distance, got %v and %v", d1, d2)
		}
		if want := 505 * 0.1; d1 != want {
			t.Errorf("Expected %v, got %v", want, d1)
		}
	})

	t.Run("cross-region penalty applies", func(t *testing.T) {
		a := Point{PostalCode: "94105", RegionCode: "CA"}
		b := Point{PostalCode: "94105", RegionCode: "NV"}
		d, err := Distance(a, b)
		if err != nil {
			t.Fatalf("Distance: %v", err)
		}
		if d != 50 {
			t.Errorf("Expected 50, got %v", d)
		}
	})

	t.Run("heuristic is capped", func(t *testing.T) {
		a := Point{PostalCode: "00001", RegionCode: "ME"}
		b := Point{PostalCode: "99999", RegionCode: "AK"}
		d, err := Distance(a, b)
		if err != nil {
			t.Fatalf("Distance: %v", err)
		}
		if d != 500 {
			t.Errorf("Expected cap of 500, got %v", d)
		}
	})

	t.Run("haversine is symmetric and zero on self", func(t *testing.T) {
		a := coordPoint(37.7898, -122.3942)
		b := coordPoint(37.8715, -122.2730)
		d1, _ := Distance(a, b)
		d2, _ := Distance(b, a)
		if d1 != d2 {
			t.Errorf("Expected symmetric distance, got %v and %v", d1, d2)
		}
		if d0, _ := Distance(a, a); d0 != 0 {
			t.Errorf("Expected 0 self-distance, got %v", d0)
		}
	})

	t.Run("haversine matches a known distance", func(t *testing.T) {
		// one degree of latitude is about 69.1 miles
		a := coordPoint(37.0, -122.0)
		b := coordPoint(38.0, -122.0)
		d, err := Distance(a, b)
		if err != nil {
			t.Fatalf("Distance: %v", err)
		}
		if math.Abs(d-69.09) > 0.2 {
			t.Errorf("Expected ~69.09 miles, got %v", d)
		}
	})

	t.Run("coordinates take precedence over postal match", func(t *testing.T) {
		// identical postal codes would give 0, but the coordinates put
		// the points ~8 miles apart
		a := Point{PostalCode: "94105", RegionCode: "CA", Lat: ptr(37.7898), Lon: ptr(-122.3942)}
		b := Point{PostalCode: "94105", RegionCode: "CA", Lat: ptr(37.9000), Lon: ptr(-122.4500)}
		d, err := Distance(a, b)
		if err != nil {
			t.Fatalf("Distance: %v", err)
		}
		if d < 5 {
			t.Errorf("Expected coordinate distance, got %v", d)
		}
		in, err := WithinRadius(a, b, 5)
		if err != nil {
			t.Fatalf("WithinRadius: %v", err)
		}
		if in {
			t.Error("Expected out of radius on the coordinate path")
		}
	})

	t.Run("unusable postal codes are an error", func(t *testing.T) {
		a := Point{PostalCode: "N/A", RegionCode: "CA"}
		b := Point{PostalCode: "94105", RegionCode: "CA"}
		_, err := Distance(a, b)
		if err == nil {
			t.Fatal("Expected error")
		}
		if !errors.IsCode(err, errors.CodeGeomatchUnavailable) {
			t.Errorf("Expected geomatch-unavailable code, got %d", errors.GetCode(err))
		}
	})
}

func TestWithinRadius(t *testing.T) {
	emergency := Point{PostalCode: "94105", RegionCode: "CA"}
	home := Point{PostalCode: "94105", RegionCode: "CA"}

	t.Run("same postal and region is inside any radius", func(t *testing.T) {
		in, err := WithinRadius(home, emergency, 10)
		if err != nil {
			t.Fatalf("WithinRadius: %v", err)
		}
		if !in {
			t.Error("Expected inside radius")
		}
	})

	t.Run("monotonic in radius", func(t *testing.T) {
		a := Point{PostalCode: "94105", RegionCode: "CA"}
		b := Point{PostalCode: "94160", RegionCode: "CA"} // 5.5 miles by heuristic
		for _, r := range []float64{5.5, 10, 100, 500} {
			in, err := WithinRadius(a, b, r)
			if err != nil {
				t.Fatalf("WithinRadius(%v): %v", r, err)
			}
			if !in {
				t.Errorf("Expected inside radius %v", r)
			}
		}
		if in, _ := WithinRadius(a, b, 5); in {
			t.Error("Expected outside radius 5")
		}
	})

	t.Run("non-positive radius is rejected", func(t *testing.T) {
		_, err := WithinRadius(home, emergency, 0)
		if !errors.IsCode(err, errors.CodeInvalidRadius) {
			t.Errorf("Expected invalid-radius code, got %d", errors.GetCode(err))
		}
	})
}
