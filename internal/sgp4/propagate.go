package sgp4

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WGS72 constants, the reference ellipsoid/gravitational parameters the
// original SGP4 theory was built around (spec §4.4 uses TLE mean
// elements, which are themselves defined against WGS72).
const (
	muKM3PerS2 = 398600.8
	reKM       = 6378.135
	j2         = 0.001082616
)

var muKM3PerMin2 = muKM3PerS2 * 3600 // km^3/min^2

// State is a TEME position/velocity at a point in time.
type State struct {
	PositionKM  r3.Vec
	VelocityKMS r3.Vec
}

const maxKeplerIterations = 50
const keplerTolerance = 1e-10

// Propagate computes the TEME state at deltaMinutes (elapsed minutes
// since the TLE's own epoch — not a shared pipeline epoch, per spec §3)
// using first-order J2 secular perturbation theory on the mean
// elements. BSTAR is parsed but this reduced propagator does not apply
// drag-induced decay to semi-major axis or eccentricity (see package
// doc).
func Propagate(el Elements, deltaMinutes float64) (State, error) {
	if el.MeanMotionRevDay <= 0 {
		return State{}, fmt.Errorf("satellite %s: non-positive mean motion %f", el.NoradID, el.MeanMotionRevDay)
	}
	if el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return State{}, fmt.Errorf("satellite %s: eccentricity out of range %f", el.NoradID, el.Eccentricity)
	}

	n0 := el.MeanMotionRevDay * 2 * math.Pi / 1440.0 // rad/min
	a0 := math.Cbrt(muKM3PerMin2 / (n0 * n0))         // km

	i0 := el.InclinationDeg * math.Pi / 180
	e0 := el.Eccentricity
	p := a0 * (1 - e0*e0)
	if p <= 0 {
		return State{}, fmt.Errorf("satellite %s: degenerate orbit (p<=0)", el.NoradID)
	}

	reOverP := reKM / p
	k2term := 1.5 * j2 * reOverP * reOverP

	raanDot := -k2term * n0 * math.Cos(i0)
	argpDot := 0.5 * k2term * n0 * (5*math.Cos(i0)*math.Cos(i0) - 1)
	mDot := n0 + 0.5*k2term*n0*math.Sqrt(1-e0*e0)*(3*math.Cos(i0)*math.Cos(i0)-1)

	raan := el.RAANDeg*math.Pi/180 + raanDot*deltaMinutes
	argp := el.ArgPerigeeDeg*math.Pi/180 + argpDot*deltaMinutes
	m := el.MeanAnomalyDeg*math.Pi/180 + mDot*deltaMinutes
	m = math.Mod(m, 2*math.Pi)

	ea, err := solveKepler(m, e0)
	if err != nil {
		return State{}, fmt.Errorf("satellite %s: %w", el.NoradID, err)
	}

	cosE, sinE := math.Cos(ea), math.Sin(ea)
	nu := math.Atan2(math.Sqrt(1-e0*e0)*sinE, cosE-e0)
	r := a0 * (1 - e0*cosE)
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return State{}, fmt.Errorf("satellite %s: non-finite radius", el.NoradID)
	}

	xPF := r * math.Cos(nu)
	yPF := r * math.Sin(nu)

	sqrtMuOverP := math.Sqrt(muKM3PerMin2 / p)
	rDot := sqrtMuOverP * e0 * math.Sin(nu)
	rfDot := sqrtMuOverP * (1 + e0*math.Cos(nu))
	vxPF := rDot*math.Cos(nu) - rfDot*math.Sin(nu)
	vyPF := rDot*math.Sin(nu) + rfDot*math.Cos(nu)

	pos := perifocalToTEME(xPF, yPF, 0, raan, i0, argp)
	vel := perifocalToTEME(vxPF, vyPF, 0, raan, i0, argp)
	vel = r3.Scale(1.0/60.0, vel) // km/min -> km/s

	if !finiteVec(pos) || !finiteVec(vel) {
		return State{}, fmt.Errorf("satellite %s: non-finite propagated state", el.NoradID)
	}

	return State{PositionKM: pos, VelocityKMS: vel}, nil
}

func finiteVec(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// solveKepler solves M = E - e*sin(E) for E via Newton-Raphson.
func solveKepler(m, e float64) (float64, error) {
	ea := m
	if e > 0.8 {
		ea = math.Pi
	}
	for i := 0; i < maxKeplerIterations; i++ {
		f := ea - e*math.Sin(ea) - m
		fPrime := 1 - e*math.Cos(ea)
		delta := f / fPrime
		ea -= delta
		if math.Abs(delta) < keplerTolerance {
			return ea, nil
		}
	}
	return 0, fmt.Errorf("kepler equation did not converge")
}

// perifocalToTEME rotates a perifocal-frame vector into TEME via the
// standard 3-1-3 Euler sequence: argument of perigee about Z, then
// inclination about X, then RAAN about Z.
func perifocalToTEME(x, y, z, raan, incl, argp float64) r3.Vec {
	v := r3.Vec{X: x, Y: y, Z: z}
	v = rotZ(argp, v)
	v = rotX(incl, v)
	v = rotZ(raan, v)
	return v
}

func rotZ(angle float64, v r3.Vec) r3.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return r3.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
}

func rotX(angle float64, v r3.Vec) r3.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return r3.Vec{X: v.X, Y: c*v.Y - s*v.Z, Z: s*v.Y + c*v.Z}
}
