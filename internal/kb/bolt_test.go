package kb

import (
	"path/filepath"
	"testing"

	"github.com/ironsheep/captcha-match/internal/geometry"
)

func openTestBolt(t *testing.T) *BoltRepository {
	t.Helper()
	repo, err := OpenBolt(filepath.Join(t.TempDir(), "kb.db"))
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestBoltRepository_RoundTrip(t *testing.T) {
	repo := openTestBolt(t)

	want := testSamples()
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertSamplesEqual(t, got, want)
}

func TestBoltRepository_EmptyBeforeFirstSave(t *testing.T) {
	repo := openTestBolt(t)
	samples, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("expected empty base, got %d samples", len(samples))
	}
}

func TestBoltRepository_PreservesOrder(t *testing.T) {
	repo := openTestBolt(t)

	// More samples than fit one bucket page, labels in a deliberately
	// non-sorted order; iteration order must still equal insertion order.
	var want []Sample
	labels := "ZQAMBX93017"
	for _, r := range labels {
		want = append(want, Sample{
			Label:  string(r),
			Points: geometry.PointCloud{{X: float64(r), Y: 1}},
		})
	}
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i := range want {
		if got[i].Label != want[i].Label {
			t.Errorf("position %d: label = %q, want %q", i, got[i].Label, want[i].Label)
		}
	}
}

func TestBoltRepository_SaveReplacesWholesale(t *testing.T) {
	repo := openTestBolt(t)

	if err := repo.Save(testSamples()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	replacement := []Sample{{Label: "Z", Points: geometry.PointCloud{{X: 1, Y: 2}}}}
	if err := repo.Save(replacement); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertSamplesEqual(t, got, replacement)
}
