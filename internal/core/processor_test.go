package core

import (
	"math"
	"sync"
	"testing"
	"time"

	"pulserelay/internal/domain"
	"pulserelay/internal/logger"
)

func testProcessor(maxAge time.Duration) *Processor {
	return NewProcessor(maxAge, logger.New("error", "text"))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUpdateOrdering(t *testing.T) {
	p := testProcessor(30 * time.Second)

	if !p.Update(domain.NewSnapshot(100, nil)) {
		t.Fatal("first sample should be accepted")
	}
	if !p.Update(domain.NewSnapshot(110, nil)) {
		t.Fatal("advancing sample should be accepted")
	}
	if p.Update(domain.NewSnapshot(110, nil)) {
		t.Error("equal timestamp should be rejected")
	}
	if p.Update(domain.NewSnapshot(105, nil)) {
		t.Error("older timestamp should be rejected")
	}

	got, ok := p.LatestWithDerived()
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if got.TS != 110 {
		t.Errorf("latest ts = %v, want 110", got.TS)
	}
}

func TestUpdateMissingTimestamp(t *testing.T) {
	p := testProcessor(30 * time.Second)

	if p.Update(domain.Snapshot{}) {
		t.Error("sample without timestamp should be rejected")
	}
	if _, ok := p.LatestWithDerived(); ok {
		t.Error("rejection must not touch state")
	}
}

func TestRejectionLeavesStateUnchanged(t *testing.T) {
	p := testProcessor(30 * time.Second)

	p.Update(domain.NewSnapshot(100, map[string]domain.Group{
		"cpu": {"usage_percent": 12.5},
	}))

	before, _ := p.LatestWithDerived()

	p.Update(domain.NewSnapshot(90, map[string]domain.Group{
		"cpu": {"usage_percent": 99.0},
	}))

	after, _ := p.LatestWithDerived()
	if after.TS != before.TS || after.Field("cpu", "usage_percent") != before.Field("cpu", "usage_percent") {
		t.Errorf("observable state changed after rejection: %+v != %+v", after, before)
	}
}

func TestDerivedRates(t *testing.T) {
	p := testProcessor(30 * time.Second)

	p.Update(domain.NewSnapshot(100, map[string]domain.Group{
		"disk":    {"read_sectors": 1000, "write_sectors": 500},
		"network": {"rx_bytes": 2000, "tx_bytes": 1000},
	}))
	p.Update(domain.NewSnapshot(110, map[string]domain.Group{
		"disk":    {"read_sectors": 1100, "write_sectors": 550},
		"network": {"rx_bytes": 2500, "tx_bytes": 1300},
	}))

	got, ok := p.LatestWithDerived()
	if !ok {
		t.Fatal("expected a snapshot")
	}

	want := map[string]struct {
		group string
		value float64
	}{
		"read_sectors_rate":  {"disk", 10.0},
		"write_sectors_rate": {"disk", 5.0},
		"rx_bytes_rate":      {"network", 50.0},
		"tx_bytes_rate":      {"network", 30.0},
	}

	for field, w := range want {
		if v := got.Field(w.group, field); !almostEqual(v, w.value) {
			t.Errorf("%s.%s = %v, want %v", w.group, field, v, w.value)
		}
	}

	// Gauges pass through unchanged.
	if v := got.Field("disk", "read_sectors"); v != 1100 {
		t.Errorf("disk.read_sectors = %v, want 1100", v)
	}
}

func TestSingleSampleZeroRates(t *testing.T) {
	p := testProcessor(30 * time.Second)

	p.Update(domain.NewSnapshot(100, map[string]domain.Group{
		"disk": {"read_sectors": 1000},
	}))

	got, _ := p.LatestWithDerived()
	for _, c := range domain.CounterFields {
		if v := got.Field(c.Group, c.RateField()); v != 0 {
			t.Errorf("%s = %v, want 0 after a single sample", c.RateField(), v)
		}
	}
}

func TestRateGroupsCreatedWhenAbsent(t *testing.T) {
	p := testProcessor(30 * time.Second)

	p.Update(domain.NewSnapshot(100, map[string]domain.Group{"cpu": {"usage_percent": 1}}))

	got, _ := p.LatestWithDerived()
	if _, ok := got.Groups["disk"]; !ok {
		t.Error("disk group with rates should exist even when the sample had none")
	}
	if _, ok := got.Groups["network"]; !ok {
		t.Error("network group with rates should exist even when the sample had none")
	}
}

func TestNegativeRatePassesThrough(t *testing.T) {
	p := testProcessor(30 * time.Second)

	p.Update(domain.NewSnapshot(100, map[string]domain.Group{
		"network": {"rx_bytes": 5000},
	}))
	p.Update(domain.NewSnapshot(110, map[string]domain.Group{
		"network": {"rx_bytes": 1000},
	}))

	got, _ := p.LatestWithDerived()
	if v := got.Field("network", "rx_bytes_rate"); !almostEqual(v, -400) {
		t.Errorf("rx_bytes_rate = %v, want -400 (counter reset is not clamped)", v)
	}
}

func TestDerivedSnapshotIsIndependent(t *testing.T) {
	p := testProcessor(30 * time.Second)

	in := domain.NewSnapshot(100, map[string]domain.Group{"cpu": {"usage_percent": 10}})
	p.Update(in)

	// Mutating the caller's sample must not reach stored state.
	in.Set("cpu", "usage_percent", 99)
	got, _ := p.LatestWithDerived()
	if v := got.Field("cpu", "usage_percent"); v != 10 {
		t.Errorf("stored state aliased caller input: usage_percent = %v", v)
	}

	// Mutating a returned snapshot must not reach stored state either.
	got.Set("cpu", "usage_percent", 55)
	again, _ := p.LatestWithDerived()
	if v := again.Field("cpu", "usage_percent"); v != 10 {
		t.Errorf("stored state aliased returned snapshot: usage_percent = %v", v)
	}
}

func TestHealth(t *testing.T) {
	p := testProcessor(30 * time.Second)

	h := p.Health()
	if h.Status != domain.StatusStale || h.LastSeenTS != nil {
		t.Errorf("empty processor health = %+v, want stale with nil ts", h)
	}

	p.Update(domain.NewSnapshot(1000, nil))

	tests := []struct {
		now  int64
		want string
	}{
		{1025, domain.StatusOK},
		{1040, domain.StatusStale},
	}

	for _, tt := range tests {
		p.now = func() time.Time { return time.Unix(tt.now, 0) }

		h := p.Health()
		if h.Status != tt.want {
			t.Errorf("health at t=%d = %q, want %q", tt.now, h.Status, tt.want)
		}
		if h.LastSeenTS == nil || *h.LastSeenTS != 1000 {
			t.Errorf("health at t=%d last_seen_ts = %v, want 1000", tt.now, h.LastSeenTS)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	p := testProcessor(30 * time.Second)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p.Update(domain.NewSnapshot(float64(i*4+offset), map[string]domain.Group{
					"network": {"rx_bytes": float64(i)},
				}))
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if s, ok := p.LatestWithDerived(); ok && !s.HasTS() {
					t.Error("observed a torn snapshot")
					return
				}
				p.Health()
			}
		}()
	}
	wg.Wait()
}
