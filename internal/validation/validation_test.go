package validation

import (
	"testing"
)

func TestChecklist_AllPassed(t *testing.T) {
	c := NewChecklist()
	c.Check("a", true)
	c.Check("b", true)
	c.NotApplicable("c")

	if !c.AllPassed() {
		t.Error("expected AllPassed=true")
	}
	if len(c.FailedChecks()) != 0 {
		t.Errorf("expected no failed checks, got %v", c.FailedChecks())
	}
}

func TestChecklist_SomeFailed(t *testing.T) {
	c := NewChecklist()
	c.Check("a", true)
	c.Check("b", false)

	if c.AllPassed() {
		t.Error("expected AllPassed=false")
	}
	failed := c.FailedChecks()
	if len(failed) != 1 || failed[0] != "b" {
		t.Errorf("expected [b] failed, got %v", failed)
	}
}

func TestNewSnapshot_DerivesStatusFromChecks(t *testing.T) {
	checks := map[string]CheckStatus{
		"check1": CheckPassed,
		"check2": CheckPassed,
	}
	snap := NewSnapshot(2, "stage2_orbital_propagation", checks, map[string]interface{}{"satellite_count": 10}, nil, nil)

	if snap.Status != "success" || !snap.ValidationPassed {
		t.Errorf("expected success snapshot, got status=%s passed=%v", snap.Status, snap.ValidationPassed)
	}
	if snap.ValidationDetails.ChecksPassed != 2 || snap.ValidationDetails.ChecksPerformed != 2 {
		t.Errorf("unexpected check counts: %+v", snap.ValidationDetails)
	}
}

func TestNewSnapshot_FailureWhenAnyCheckFails(t *testing.T) {
	checks := map[string]CheckStatus{
		"check1": CheckPassed,
		"check2": CheckFailed,
	}
	snap := NewSnapshot(3, "stage3_coordinate_transformation", checks, nil, nil, nil)

	if snap.Status != "failed" || snap.ValidationPassed {
		t.Errorf("expected failed snapshot, got status=%s passed=%v", snap.Status, snap.ValidationPassed)
	}
}

func TestNewSnapshot_TruncatesSample(t *testing.T) {
	sample := make([]interface{}, 30)
	for i := range sample {
		sample[i] = i
	}
	snap := NewSnapshot(4, "stage4_link_feasibility", map[string]CheckStatus{"x": CheckPassed}, nil, nil, sample)
	if len(snap.SatellitesSample) != MaxSampleSize {
		t.Errorf("expected sample truncated to %d, got %d", MaxSampleSize, len(snap.SatellitesSample))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	checks := map[string]CheckStatus{"a": CheckPassed, "b": CheckPassed}
	original := NewSnapshot(2, "stage2_orbital_propagation", checks, map[string]interface{}{"satellite_count": float64(5)}, map[string]interface{}{"worker_count": float64(30)}, nil)

	if err := Write(dir, original); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Read(dir, 2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if loaded.Stage != original.Stage || loaded.StageName != original.StageName || loaded.Status != original.Status {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, original)
	}

	okBefore, _ := ExternalValidate(2, original)
	okAfter, _ := ExternalValidate(2, loaded)
	if okBefore != okAfter {
		t.Errorf("layer-2 verdict changed across round trip: before=%v after=%v", okBefore, okAfter)
	}
}

func TestExternalValidate_StageMismatch(t *testing.T) {
	snap := NewSnapshot(2, "stage2", map[string]CheckStatus{"a": CheckPassed}, nil, nil, nil)
	ok, msg := ExternalValidate(3, snap)
	if ok {
		t.Error("expected validation failure on stage mismatch")
	}
	if msg == "" {
		t.Error("expected a diagnostic message")
	}
}

func TestExternalValidate_TrustsLayer1ButChecksStructure(t *testing.T) {
	snap := NewSnapshot(4, "stage4", map[string]CheckStatus{"a": CheckFailed}, nil, nil, nil)
	ok, _ := ExternalValidate(4, snap)
	if ok {
		t.Error("expected validation failure when layer-1 checks failed")
	}
}
