package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := DistanceMeters(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100000 || d > 140000 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceMetersIdenticalPoints(t *testing.T) {
	if d := DistanceMeters(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	ab := DistanceMeters(12.9716, 77.5946, 13.0827, 80.2707)
	ba := DistanceMeters(13.0827, 80.2707, 12.9716, 77.5946)
	if math.Abs(ab-ba) > 1e-6 {
		t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceMetersOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.2 km on the spherical model.
	d := DistanceMeters(0, 0, 1, 0)
	if d < 111000 || d > 111500 {
		t.Fatalf("unexpected distance for 1 degree latitude: %v", d)
	}
}
