// Package sgp4 wraps a simplified general-perturbations propagator
// (component B): given a TLE's mean orbital elements and an offset
// from the TLE's own epoch, it returns TEME position/velocity.
//
// No SGP4 implementation exists anywhere in the retrieved example
// pack, so this propagator is written from first principles against
// the classical J2 secular-perturbation theory (the same theory SGP4
// itself extends with drag and deep-space resonance terms). BSTAR is
// parsed but drag decay is not applied, and there is no deep-space
// (period > 225 min) branch: every orbit is propagated with the same
// near-Earth J2 theory, which suits the LEO constellations (Starlink,
// OneWeb) this pipeline handles.
package sgp4

import (
	"fmt"
	"strconv"
	"strings"
)

// Elements holds a TLE's mean orbital elements at epoch, in the units
// SGP4 conventionally uses internally (degrees for angles, rev/day for
// mean motion) before propagation converts them.
type Elements struct {
	NoradID           string
	InclinationDeg    float64
	RAANDeg           float64
	Eccentricity      float64
	ArgPerigeeDeg     float64
	MeanAnomalyDeg    float64
	MeanMotionRevDay  float64
	BStar             float64
	MeanMotionDotDiv2 float64
}

// field slices a 1-indexed, inclusive column range from a TLE line, per
// the standard fixed-width TLE format.
func field(line string, startCol, endCol int) string {
	if startCol < 1 {
		startCol = 1
	}
	start := startCol - 1
	end := endCol
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}

// parseAssumedDecimal parses a TLE field that represents a decimal
// fraction with an implied leading "0." (e.g. eccentricity "0001234"
// means 0.0001234).
func parseAssumedDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat("0."+s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid assumed-decimal field %q: %w", s, err)
	}
	return v, nil
}

// parseExponential parses a TLE field of the form "sign mantissa sign
// exponent" with an implied decimal point before the mantissa digits,
// e.g. " 12345-3" means +0.12345e-3, and "-12345-3" means -0.12345e-3.
func parseExponential(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1.0
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	// The exponent is the trailing sign+digit(s).
	expSignIdx := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '-' || s[i] == '+' {
			expSignIdx = i
			break
		}
	}
	if expSignIdx < 0 {
		v, err := strconv.ParseFloat("0."+s, 64)
		return sign * v, err
	}
	mantissaPart := s[:expSignIdx]
	expPart := s[expSignIdx:]
	mantissa, err := strconv.ParseFloat("0."+mantissaPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid exponential field %q: %w", s, err)
	}
	exp, err := strconv.Atoi(expPart)
	if err != nil {
		return 0, fmt.Errorf("invalid exponential field %q: %w", s, err)
	}
	return sign * mantissa * pow10(exp), nil
}

func pow10(n int) float64 {
	v := 1.0
	neg := n < 0
	if neg {
		n = -n
	}
	for i := 0; i < n; i++ {
		v *= 10
	}
	if neg {
		return 1 / v
	}
	return v
}

// ParseElements parses the mean elements out of a two-line element set.
// The two lines must each be the standard 69-character TLE format.
// Epoch is read from stage-1's own typed epoch field, not re-derived
// from line 1, per spec §3's invariant that each satellite keeps its
// own epoch under pipeline control rather than a recomputed one.
func ParseElements(line1, line2 string) (Elements, error) {
	if len(strings.TrimRight(line1, " ")) < 69 || len(strings.TrimRight(line2, " ")) < 69 {
		return Elements{}, fmt.Errorf("TLE lines must be 69 characters, got %d and %d", len(line1), len(line2))
	}

	noradID := field(line2, 3, 7)
	if other := field(line1, 3, 7); other != noradID {
		return Elements{}, fmt.Errorf("NORAD id mismatch between lines: %q vs %q", other, noradID)
	}

	ndot, err := strconv.ParseFloat(field(line1, 34, 43), 64)
	if err != nil {
		return Elements{}, fmt.Errorf("mean motion derivative: %w", err)
	}

	bstar, err := parseExponential(field(line1, 54, 61))
	if err != nil {
		return Elements{}, fmt.Errorf("bstar: %w", err)
	}

	incl, err := strconv.ParseFloat(field(line2, 9, 16), 64)
	if err != nil {
		return Elements{}, fmt.Errorf("inclination: %w", err)
	}
	raan, err := strconv.ParseFloat(field(line2, 18, 25), 64)
	if err != nil {
		return Elements{}, fmt.Errorf("raan: %w", err)
	}
	ecc, err := parseAssumedDecimal(field(line2, 27, 33))
	if err != nil {
		return Elements{}, fmt.Errorf("eccentricity: %w", err)
	}
	argp, err := strconv.ParseFloat(field(line2, 35, 42), 64)
	if err != nil {
		return Elements{}, fmt.Errorf("argument of perigee: %w", err)
	}
	ma, err := strconv.ParseFloat(field(line2, 44, 51), 64)
	if err != nil {
		return Elements{}, fmt.Errorf("mean anomaly: %w", err)
	}
	mm, err := strconv.ParseFloat(field(line2, 53, 63), 64)
	if err != nil {
		return Elements{}, fmt.Errorf("mean motion: %w", err)
	}

	return Elements{
		NoradID:           noradID,
		InclinationDeg:    incl,
		RAANDeg:           raan,
		Eccentricity:      ecc,
		ArgPerigeeDeg:     argp,
		MeanAnomalyDeg:    ma,
		MeanMotionRevDay:  mm,
		BStar:             bstar,
		MeanMotionDotDiv2: ndot,
	}, nil
}
