package coord

import (
	"math"
	"time"
)

// taiMinusUTCAfter is the TAI-UTC offset (leap seconds) in effect from
// each listed UTC instant onward. The table only needs entries through
// the most recent leap second; no new leap second has been inserted
// since 2016-12-31 (37s), and the pipeline operates on historical TLE
// epochs, not future ones.
var taiMinusUTCAfter = []struct {
	since time.Time
	secs  float64
}{
	{time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), 37},
	{time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC), 36},
	{time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), 35},
	{time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), 34},
	{time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), 33},
}

// TAIMinusUTC returns the TAI-UTC leap-second offset for a given UTC
// instant.
func TAIMinusUTC(t time.Time) float64 {
	for _, e := range taiMinusUTCAfter {
		if !t.Before(e.since) {
			return e.secs
		}
	}
	return 32 // pre-2006 floor; outside the pipeline's operating range
}

// ttMinusTAI is fixed by definition (spec §4.5 step 1).
const ttMinusTAI = 32.184

// UTCToTT converts a UTC instant to Terrestrial Time.
func UTCToTT(t time.Time) time.Time {
	offsetSecs := TAIMinusUTC(t) + ttMinusTAI
	return t.Add(time.Duration(offsetSecs * float64(time.Second)))
}

// MJD returns the modified Julian date (JD - 2400000.5) for a UTC
// instant, using the standard Gregorian calendar JD formula.
func MJD(t time.Time) float64 {
	t = t.UTC()
	y, m, d := t.Date()
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4
	dayFrac := float64(d) + (float64(t.Hour())*3600+float64(t.Minute())*60+float64(t.Second())+float64(t.Nanosecond())/1e9)/86400.0
	jd := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + dayFrac + float64(b) - 1524.5
	return jd - 2400000.5
}

// JulianCenturiesTT returns T, the number of Julian centuries of TT
// elapsed since J2000.0 (JD 2451545.0), for a UTC instant. Precession
// and nutation formulas are polynomials in T.
func JulianCenturiesTT(utc time.Time) float64 {
	tt := UTCToTT(utc)
	mjdTT := MJD(tt)
	const mjdJ2000 = 51544.5
	return (mjdTT - mjdJ2000) / 36525.0
}

// DaysSinceJ2000UT1 returns the number of UT1 days since J2000.0,
// approximating UT1 with UTC+ut1MinusUTC (spec §4.5 step 1).
func DaysSinceJ2000UT1(utc time.Time, ut1MinusUTC float64) float64 {
	ut1 := utc.Add(time.Duration(ut1MinusUTC * float64(time.Second)))
	const mjdJ2000 = 51544.5
	return MJD(ut1) - mjdJ2000
}
