package sgp4

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// A representative LEO (Starlink-like) two-line element set, 69
// characters per line.
const testLine1 = "1 44713U 19074A   25278.52421296  .00002182  00000-0  16538-3 0  9992"
const testLine2 = "2 44713  53.0531  95.4862 0001234  87.6543 272.4567 15.06395221123456"

func TestParseElements_ValidTLE(t *testing.T) {
	el, err := ParseElements(testLine1, testLine2)
	if err != nil {
		t.Fatalf("ParseElements: %v", err)
	}
	if el.NoradID != "44713" {
		t.Errorf("expected NORAD id 44713, got %q", el.NoradID)
	}
	if el.InclinationDeg < 50 || el.InclinationDeg > 56 {
		t.Errorf("unexpected inclination: %f", el.InclinationDeg)
	}
	if el.MeanMotionRevDay < 14 || el.MeanMotionRevDay > 16 {
		t.Errorf("unexpected mean motion: %f", el.MeanMotionRevDay)
	}
}

func TestParseElements_MismatchedNoradID(t *testing.T) {
	badLine2 := "2 99999  53.0531  95.4862 0001234  87.6543 272.4567 15.06395221123456"
	if _, err := ParseElements(testLine1, badLine2); err == nil {
		t.Error("expected error for mismatched NORAD id, got nil")
	}
}

func TestParseElements_TooShort(t *testing.T) {
	if _, err := ParseElements("too short", testLine2); err == nil {
		t.Error("expected error for short line1, got nil")
	}
}

func TestPropagate_PositionWithinLEOBand(t *testing.T) {
	el, err := ParseElements(testLine1, testLine2)
	if err != nil {
		t.Fatalf("ParseElements: %v", err)
	}

	for _, dt := range []float64{0, 30, 90, 360, 1440} {
		state, err := Propagate(el, dt)
		if err != nil {
			t.Fatalf("Propagate(dt=%f): %v", dt, err)
		}
		mag := r3.Norm(state.PositionKM)
		if mag < 6500 || mag > 9000 {
			t.Errorf("dt=%f: position magnitude %f outside LEO band [6500,9000]", dt, mag)
		}
		vmag := r3.Norm(state.VelocityKMS)
		if vmag < 5 || vmag > 9 {
			t.Errorf("dt=%f: velocity magnitude %f outside [5,9] km/s", dt, vmag)
		}
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			t.Errorf("dt=%f: non-finite position", dt)
		}
	}
}

func TestPropagate_RejectsInvalidEccentricity(t *testing.T) {
	el, _ := ParseElements(testLine1, testLine2)
	el.Eccentricity = 1.5
	if _, err := Propagate(el, 0); err == nil {
		t.Error("expected error for eccentricity >= 1, got nil")
	}
}

func TestSolveKepler_LowEccentricity(t *testing.T) {
	ea, err := solveKepler(1.0, 0.001)
	if err != nil {
		t.Fatalf("solveKepler: %v", err)
	}
	// Check the Kepler equation is satisfied.
	m := ea - 0.001*math.Sin(ea)
	if math.Abs(m-1.0) > 1e-8 {
		t.Errorf("Kepler equation not satisfied: got M=%f, want 1.0", m)
	}
}
