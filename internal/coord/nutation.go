package coord

import "math"

const arcsecToRad = math.Pi / (180 * 3600)

// meanObliquity returns the IAU 2006 mean obliquity of the ecliptic, in
// radians, for T Julian centuries TT since J2000.
func meanObliquity(t float64) float64 {
	arcsec := 84381.406 - 46.836769*t - 0.0001831*t*t + 0.00200340*t*t*t -
		0.000000576*t*t*t*t - 0.0000000434*t*t*t*t*t
	return arcsec * arcsecToRad
}

// precessionAngles returns the IAU 2006 precession angles
// zeta, z, theta (Capitaine et al. 2003), in radians, for T Julian
// centuries TT since J2000.
func precessionAngles(t float64) (zeta, z, theta float64) {
	t2, t3, t4, t5 := t*t, t*t*t, t*t*t*t, t*t*t*t*t
	zetaArcsec := 2.650545 + 2306.083227*t + 0.2988499*t2 + 0.01801828*t3 - 0.000005971*t4 - 0.0000003173*t5
	zArcsec := -2.650545 + 2306.077181*t + 1.0927348*t2 + 0.01826837*t3 - 0.000028596*t4 - 0.0000002904*t5
	thetaArcsec := 2004.191903*t - 0.4294934*t2 - 0.04182264*t3 - 0.000007089*t4 - 0.0000001274*t5
	return zetaArcsec * arcsecToRad, zArcsec * arcsecToRad, thetaArcsec * arcsecToRad
}

// nutationTerm is one row of the reduced luni-solar nutation series.
// Argument multipliers are (D, M, Mprime, F, Omega) — mean elongation
// of the Moon from the Sun, mean anomaly of the Sun, mean anomaly of
// the Moon, Moon's argument of latitude, and longitude of the Moon's
// ascending node, respectively (Meeus, Astronomical Algorithms ch.22).
//
// This is the ten dominant terms of the classical 1980 nutation theory,
// not the full 678/1365-term IAU 2000A series: no astronomy library
// (e.g. a Go port of IAU SOFA) exists anywhere in the retrieved example
// pack to ground a full series on, and hand-transcribing it here would
// not be grounded on anything in the corpus either. See DESIGN.md.
type nutationTerm struct {
	d, m, mp, f, omega   float64 // multipliers
	dpsi0, dpsiT          float64 // 0.0001 arcsec, and per-century rate
	deps0, depsT          float64
}

var nutationSeries = []nutationTerm{
	{0, 0, 0, 0, 1, -171996, -174.2, 92025, 8.9},
	{-2, 0, 0, 2, 2, -13187, -1.6, 5736, -3.1},
	{0, 0, 0, 2, 2, -2274, -0.2, 977, -0.5},
	{0, 0, 0, 0, 2, 2062, 0.2, -895, 0.5},
	{0, 1, 0, 0, 0, 1426, -3.4, 54, -0.1},
	{0, 0, 1, 0, 0, 712, 0.1, -7, 0},
	{-2, 1, 0, 2, 2, -517, 1.2, 224, -0.6},
	{0, 0, 0, 2, 1, -386, -0.4, 200, 0},
	{0, 0, 1, 2, 2, -301, 0, 129, -0.1},
	{-2, -1, 0, 2, 2, 217, -0.5, -95, 0.3},
}

// delaunayArguments returns the fundamental lunisolar arguments D, M,
// M', F, Omega in radians for T Julian centuries TT since J2000
// (Meeus, Astronomical Algorithms ch.22, degrees mod 360).
func delaunayArguments(t float64) (d, m, mp, f, omega float64) {
	deg := func(v float64) float64 {
		v = math.Mod(v, 360)
		if v < 0 {
			v += 360
		}
		return v * math.Pi / 180
	}
	d = deg(297.85036 + 445267.111480*t - 0.0019142*t*t + t*t*t/189474)
	m = deg(357.52772 + 35999.050340*t - 0.0001603*t*t - t*t*t/300000)
	mp = deg(134.96298 + 477198.867398*t + 0.0086972*t*t + t*t*t/56250)
	f = deg(93.27191 + 483202.017538*t - 0.0036825*t*t + t*t*t/327270)
	omega = deg(125.04452 - 1934.136261*t + 0.0020708*t*t + t*t*t/450000)
	return
}

// nutationAngles returns nutation in longitude (dpsi) and obliquity
// (deps), in radians, for T Julian centuries TT since J2000.
func nutationAngles(t float64) (dpsi, deps float64) {
	d, m, mp, f, omega := delaunayArguments(t)
	for _, term := range nutationSeries {
		arg := term.d*d + term.m*m + term.mp*mp + term.f*f + term.omega*omega
		dpsi += (term.dpsi0 + term.dpsiT*t) * math.Sin(arg)
		deps += (term.deps0 + term.depsT*t) * math.Cos(arg)
	}
	// Series amplitudes are in units of 0.0001 arcsec.
	const unit = 0.0001 * math.Pi / (180 * 3600)
	return dpsi * unit, deps * unit
}
