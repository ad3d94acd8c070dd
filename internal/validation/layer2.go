package validation

import "fmt"

// ExternalValidate is the stateless layer-2 checker (spec §4.7): it
// trusts layer 1 for domain correctness and only verifies structural
// and statistical sanity of the persisted snapshot against fixed
// thresholds. It never recomputes the payload.
func ExternalValidate(stage int, snap ValidationSnapshot) (bool, string) {
	if snap.Stage != stage {
		return false, fmt.Sprintf("snapshot stage mismatch: expected %d, got %d", stage, snap.Stage)
	}
	if snap.Status != "success" {
		return false, fmt.Sprintf("stage %d: layer-1 status is %q, not success", stage, snap.Status)
	}
	if !snap.ValidationPassed {
		return false, fmt.Sprintf("stage %d: layer-1 validation_passed=false", stage)
	}
	if len(snap.SatellitesSample) > MaxSampleSize {
		return false, fmt.Sprintf("stage %d: satellites_sample exceeds max size %d", stage, MaxSampleSize)
	}
	if snap.ValidationDetails.ChecksPerformed == 0 {
		return false, fmt.Sprintf("stage %d: no checks were performed", stage)
	}
	if snap.ValidationDetails.ChecksPassed != snap.ValidationDetails.ChecksPerformed {
		failed := make([]string, 0)
		for name, status := range snap.ValidationDetails.CheckResults {
			if status == CheckFailed {
				failed = append(failed, name)
			}
		}
		return false, fmt.Sprintf("stage %d: %d of %d checks failed: %v", stage, snap.ValidationDetails.ChecksPerformed-snap.ValidationDetails.ChecksPassed, snap.ValidationDetails.ChecksPerformed, failed)
	}
	return true, "ok"
}
