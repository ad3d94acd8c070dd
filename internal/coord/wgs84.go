// Package coord implements the coordinate engine (component A):
// TEME<->ECEF via IAU 2006 precession, a ten-term 1980 nutation series
// (not the full IAU 2000A series) and IERS corrections,
// ECEF<->geodetic WGS84, and topocentric elevation/azimuth/slant range.
//
// Grounded on gonum.org/v1/gonum/spatial/r3 for 3-vector arithmetic —
// the teacher's go.mod carries gonum.org/v1/gonum (used for statistics
// in internal/db/db.go); r3 is the same module's standard vector
// subpackage, not a new dependency family. No astronomy library (a Go
// port of IAU SOFA, for instance) appears anywhere in the retrieved
// example pack, so the precession/nutation series here are hand-written
// — see DESIGN.md for the scope this implies.
package coord

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
)

// GeodeticToECEF converts WGS84 geodetic coordinates to ECEF, in
// kilometers. latDeg/lonDeg are in degrees, altM is meters above the
// ellipsoid.
func GeodeticToECEF(latDeg, lonDeg, altM float64) r3.Vec {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	e2 := config.WGS84EccentricitySquared()
	aKM := config.WGS84SemiMajorAxisM / 1000
	altKM := altM / 1000

	sinLat := math.Sin(lat)
	n := aKM / math.Sqrt(1-e2*sinLat*sinLat)

	return r3.Vec{
		X: (n + altKM) * math.Cos(lat) * math.Cos(lon),
		Y: (n + altKM) * math.Cos(lat) * math.Sin(lon),
		Z: (n*(1-e2) + altKM) * sinLat,
	}
}

// ECEFToGeodetic converts an ECEF position (km) to WGS84 geodetic
// coordinates: latitude and longitude in degrees, altitude in meters.
// Uses Bowring's iterative method, converging to within
// config.MaxGeodeticAccuracyM or config.MaxGeodeticIter iterations,
// per spec §4.5 step 4.
func ECEFToGeodetic(p r3.Vec) (latDeg, lonDeg, altM float64) {
	e2 := config.WGS84EccentricitySquared()
	aKM := config.WGS84SemiMajorAxisM / 1000

	pr := math.Hypot(p.X, p.Y)
	lon := math.Atan2(p.Y, p.X)

	lat := math.Atan2(p.Z, pr*(1-e2))
	var altKM float64
	for i := 0; i < config.MaxGeodeticIter; i++ {
		sinLat := math.Sin(lat)
		n := aKM / math.Sqrt(1-e2*sinLat*sinLat)
		newAltKM := pr/math.Cos(lat) - n
		newLat := math.Atan2(p.Z, pr*(1-e2*n/(n+newAltKM)))

		converged := math.Abs(newAltKM-altKM)*1000 < config.MaxGeodeticAccuracyM
		lat, altKM = newLat, newAltKM
		if converged {
			break
		}
	}

	return lat * 180 / math.Pi, lon * 180 / math.Pi, altKM * 1000
}
