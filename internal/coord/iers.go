package coord

import "sort"

// BulletinEntry is one daily IERS Bulletin A row: UT1-UTC in seconds and
// polar motion (xp, yp) in arcseconds, keyed by MJD.
type BulletinEntry struct {
	MJD float64
	DUT1 float64
	XP   float64
	YP   float64
}

// StaticIERSTable is an in-memory, sorted-by-MJD IERS table satisfying
// runtimectx.IERSTable, built from caller-supplied Bulletin A entries.
// This type only owns lookup/interpolation; nothing in this module
// downloads or caches a Bulletin A file, and stage 3 uses the built-in
// table from internal/iers instead.
type StaticIERSTable struct {
	entries []BulletinEntry
}

// NewStaticIERSTable builds a table from entries, sorting them by MJD.
func NewStaticIERSTable(entries []BulletinEntry) *StaticIERSTable {
	sorted := make([]BulletinEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MJD < sorted[j].MJD })
	return &StaticIERSTable{entries: sorted}
}

// lookup finds the bracketing entries for mjd and linearly interpolates
// field f. If mjd falls outside the table's range, the nearest entry's
// value is held constant (flat extrapolation) rather than extrapolating
// wildly, since IERS corrections are sub-second/sub-arcsecond and a
// held value is a safer default than a linear projection far outside
// the observed window.
func (t *StaticIERSTable) lookup(mjd float64, f func(BulletinEntry) float64) float64 {
	if len(t.entries) == 0 {
		return 0
	}
	if mjd <= t.entries[0].MJD {
		return f(t.entries[0])
	}
	last := len(t.entries) - 1
	if mjd >= t.entries[last].MJD {
		return f(t.entries[last])
	}

	idx := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].MJD >= mjd })
	hi := t.entries[idx]
	lo := t.entries[idx-1]
	frac := (mjd - lo.MJD) / (hi.MJD - lo.MJD)
	return f(lo) + frac*(f(hi)-f(lo))
}

// UT1MinusUTC implements runtimectx.IERSTable.
func (t *StaticIERSTable) UT1MinusUTC(mjd float64) float64 {
	return t.lookup(mjd, func(e BulletinEntry) float64 { return e.DUT1 })
}

// PolarMotion implements runtimectx.IERSTable.
func (t *StaticIERSTable) PolarMotion(mjd float64) (xp, yp float64) {
	xp = t.lookup(mjd, func(e BulletinEntry) float64 { return e.XP })
	yp = t.lookup(mjd, func(e BulletinEntry) float64 { return e.YP })
	return xp, yp
}

// ZeroIERSTable is a no-correction stand-in (UT1-UTC=0, polar motion=0),
// useful for unit tests that only need the precession/nutation chain
// exercised without a populated bulletin.
type ZeroIERSTable struct{}

func (ZeroIERSTable) UT1MinusUTC(float64) float64           { return 0 }
func (ZeroIERSTable) PolarMotion(float64) (float64, float64) { return 0, 0 }
