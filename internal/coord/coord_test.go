package coord

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
)

func TestGeodeticECEFRoundTrip(t *testing.T) {
	cases := []struct {
		name           string
		lat, lon, altM float64
	}{
		{"NTPU ground station", config.NTPU.LatDeg, config.NTPU.LonDeg, config.NTPU.AltitudeM},
		{"LEO altitude", 45.0, -120.0, 550000.0},
		{"equator", 0.0, 0.0, 400000.0},
		{"near pole", 89.5, 30.0, 800000.0},
		{"negative altitude", 10.0, 10.0, -500.0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ecef := GeodeticToECEF(c.lat, c.lon, c.altM)
			lat, lon, alt := ECEFToGeodetic(ecef)

			if math.Abs(lat-c.lat) > 1e-6 {
				t.Errorf("lat round trip: got %f, want %f", lat, c.lat)
			}
			if math.Abs(lon-c.lon) > 1e-6 {
				t.Errorf("lon round trip: got %f, want %f", lon, c.lon)
			}
			if math.Abs(alt-c.altM) > 1e-3 { // within 1mm, spec §8
				t.Errorf("alt round trip: got %f, want %f", alt, c.altM)
			}
		})
	}
}

func TestTEMEToECEF_ProducesLEOMagnitude(t *testing.T) {
	// A plausible TEME position at ~550km altitude.
	teme := r3.Vec{X: 6900, Y: 500, Z: 200}
	out := TEMEToECEF(teme, time.Date(2025, 10, 5, 12, 34, 56, 0, time.UTC), ZeroIERSTable{})

	mag := r3.Norm(out)
	inMag := r3.Norm(teme)
	if math.Abs(mag-inMag) > 1e-6 {
		t.Errorf("rotation must preserve vector magnitude: in=%f out=%f", inMag, mag)
	}
}

func TestComputeTopocentric_DirectlyOverhead(t *testing.T) {
	stationECEF := GeodeticToECEF(config.NTPU.LatDeg, config.NTPU.LonDeg, config.NTPU.AltitudeM)
	// Satellite directly above the station: extend the station's own
	// unit vector outward.
	unit := r3.Scale(1/r3.Norm(stationECEF), stationECEF)
	satECEF := r3.Add(stationECEF, r3.Scale(550.0, unit))

	topo := ComputeTopocentric(config.NTPU.LatDeg, config.NTPU.LonDeg, stationECEF, satECEF)

	if math.Abs(topo.ElevationDeg-90) > 1.0 {
		t.Errorf("expected ~90 deg elevation directly overhead, got %f", topo.ElevationDeg)
	}
	if math.Abs(topo.SlantRangeKM-550.0) > 1.0 {
		t.Errorf("expected ~550km slant range, got %f", topo.SlantRangeKM)
	}
}

func TestMJD_KnownEpoch(t *testing.T) {
	// J2000.0 = 2000-01-01T12:00:00 TT ≈ MJD 51544.5 in TT.
	tt := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	mjd := MJD(tt)
	if math.Abs(mjd-51544.5) > 0.001 {
		t.Errorf("expected MJD ~51544.5, got %f", mjd)
	}
}
