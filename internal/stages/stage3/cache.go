package stage3

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/cedarwud/orbit-engine-sub004/internal/config"
	"github.com/cedarwud/orbit-engine-sub004/internal/stages/stage2"
)

// CacheKey content-addresses the stage-3 computation by the
// canonicalized tuple (input satellite ids + propagated states + time
// grid + config). TLEs are not carried forward into stage-2's output,
// so each satellite's propagated TEME positions stand in for them: a
// changed TLE changes those positions and therefore the key.
func CacheKey(upstream stage2.Payload, cfg *config.Stage3Config) string {
	ids := make([]string, 0, len(upstream.Satellites))
	for id := range upstream.Satellites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('|')
		series := upstream.Satellites[id]
		for _, pt := range series.TimeSeries {
			fmt.Fprintf(&b, "%s:%g/%g/%g,", pt.Timestamp, pt.X, pt.Y, pt.Z)
		}
		b.WriteByte(';')
	}
	fmt.Fprintf(&b, "frame=%s>%s;nutation=%s;polar=%v;accuracy=%f",
		cfg.Coordinate.SourceFrame, cfg.Coordinate.TargetFrame, cfg.Coordinate.NutationModel,
		cfg.Coordinate.PolarMotion, cfg.Precision.TargetAccuracyM)

	// Stage 1's per-constellation overrides change the threshold
	// transformOne resolves (resolveElevationThresholds), so they must be
	// part of the key whenever auto_merge_stage1 can let them take effect.
	fmt.Fprintf(&b, ";auto_merge_stage1=%v", cfg.ConfigSourcePriority.AutoMergeStage1)
	if cfg.ConfigSourcePriority.AutoMergeStage1 {
		constellations := make([]string, 0, len(upstream.Metadata.ConstellationConfigs))
		for name := range upstream.Metadata.ConstellationConfigs {
			constellations = append(constellations, name)
		}
		sort.Strings(constellations)
		for _, name := range constellations {
			fmt.Fprintf(&b, ";override[%s]=%f", name, upstream.Metadata.ConstellationConfigs[name].ElevationThresholdDeg)
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
