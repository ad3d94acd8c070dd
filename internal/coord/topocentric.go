package coord

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Topocentric is the elevation/azimuth/slant-range triple relative to a
// ground station (spec §3).
type Topocentric struct {
	ElevationDeg float64
	AzimuthDeg   float64
	SlantRangeKM float64
}

// ComputeTopocentric rotates the vector from a ground station (ECEF,
// km) to a satellite (ECEF, km) into the station's East-North-Up local
// tangent plane, per spec §4.5 step 5.
func ComputeTopocentric(stationLatDeg, stationLonDeg float64, stationECEF, satECEF r3.Vec) Topocentric {
	d := r3.Sub(satECEF, stationECEF)

	lat := stationLatDeg * math.Pi / 180
	lon := stationLonDeg * math.Pi / 180
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	east := -sinLon*d.X + cosLon*d.Y
	north := -sinLat*cosLon*d.X - sinLat*sinLon*d.Y + cosLat*d.Z
	up := cosLat*cosLon*d.X + cosLat*sinLon*d.Y + sinLat*d.Z

	horizontal := math.Hypot(east, north)
	elevation := math.Atan2(up, horizontal)
	azimuth := math.Atan2(east, north)
	if azimuth < 0 {
		azimuth += 2 * math.Pi
	}

	return Topocentric{
		ElevationDeg: elevation * 180 / math.Pi,
		AzimuthDeg:   azimuth * 180 / math.Pi,
		SlantRangeKM: r3.Norm(d),
	}
}
