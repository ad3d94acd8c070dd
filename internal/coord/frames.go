package coord

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cedarwud/orbit-engine-sub004/internal/runtimectx"
)

// rotX rotates v about the X axis by angle radians (right-handed).
func rotX(angle float64, v r3.Vec) r3.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return r3.Vec{
		X: v.X,
		Y: c*v.Y + s*v.Z,
		Z: -s*v.Y + c*v.Z,
	}
}

// rotZ rotates v about the Z axis by angle radians (right-handed).
func rotZ(angle float64, v r3.Vec) r3.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return r3.Vec{
		X: c*v.X + s*v.Y,
		Y: -s*v.X + c*v.Y,
		Z: v.Z,
	}
}

// precessionNutationRotate applies the combined IAU 2006 precession +
// reduced nutation series to v, per spec §4.5 step 3 ("Apply IAU 2000A
// precession + nutation to obtain the rotation TEME→true-of-date").
func precessionNutationRotate(t float64, v r3.Vec) r3.Vec {
	zeta, z, theta := precessionAngles(t)
	eps0 := meanObliquity(t)
	dpsi, deps := nutationAngles(t)

	// Precession: rotate by -zeta about Z, theta about Y, -z about Z.
	pv := rotZ(-zeta, v)
	pv = rotY(theta, pv)
	pv = rotZ(-z, pv)

	// Nutation: rotate by eps0 about X, -dpsi about Z, -(eps0+deps) about X.
	nv := rotX(eps0, pv)
	nv = rotZ(-dpsi, nv)
	nv = rotX(-(eps0 + deps), nv)
	return nv
}

// rotY rotates v about the Y axis by angle radians (right-handed).
func rotY(angle float64, v r3.Vec) r3.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return r3.Vec{
		X: c*v.X - s*v.Z,
		Y: v.Y,
		Z: s*v.X + c*v.Z,
	}
}

// earthRotationAngle returns the IAU 2000 Earth Rotation Angle in
// radians for Tu UT1 days since J2000.0 (spec §4.5 step 3).
func earthRotationAngle(tuDays float64) float64 {
	frac := tuDays - math.Floor(tuDays)
	turns := 0.7790572732640 + 0.00273781191135448*tuDays + frac
	turns = math.Mod(turns, 1)
	if turns < 0 {
		turns++
	}
	return turns * 2 * math.Pi
}

// polarMotionRotate applies the small-angle polar motion correction
// (xp, yp in radians) converting a pseudo-Earth-fixed vector to ECEF.
func polarMotionRotate(xp, yp float64, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: v.X + xp*v.Z,
		Y: v.Y - yp*v.Z,
		Z: -xp*v.X + yp*v.Y + v.Z,
	}
}

// TEMEToECEF converts a TEME position (km) at UTC instant t to ECEF
// (km), applying IAU 2006 precession with the ten-term 1980 nutation
// series in nutation.go (not the full IAU 2000A nutation series), the
// Earth Rotation Angle from UT1, and IERS polar motion (spec §4.5
// steps 1-3).
func TEMEToECEF(teme r3.Vec, t time.Time, iers runtimectx.IERSTable) r3.Vec {
	mjd := MJD(t)
	dut1 := iers.UT1MinusUTC(mjd)
	xpArcsec, ypArcsec := iers.PolarMotion(mjd)

	tCenturies := JulianCenturiesTT(t)
	tod := precessionNutationRotate(tCenturies, teme)

	tuDays := DaysSinceJ2000UT1(t, dut1)
	era := earthRotationAngle(tuDays)
	pef := rotZ(era, tod)

	xp := xpArcsec * arcsecToRad
	yp := ypArcsec * arcsecToRad
	return polarMotionRotate(xp, yp, pef)
}
