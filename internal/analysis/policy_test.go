package analysis

import (
	"fmt"
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()

	d := Decide(
		[]string{"a", "b", "c", "d"},
		[]string{"a", "b"},
		now.Add(-2*time.Hour), now, cfg,
	)

	if len(d.NewTrackIDs) != 2 {
		t.Errorf("NewTrackIDs = %v, want 2 ids", d.NewTrackIDs)
	}
	if d.TotalTracks != 4 {
		t.Errorf("TotalTracks = %d, want 4", d.TotalTracks)
	}
	if d.ChangeFraction() != 0.5 {
		t.Errorf("ChangeFraction() = %v, want 0.5", d.ChangeFraction())
	}
	if d.HoursSince != 2 {
		t.Errorf("HoursSince = %v, want 2", d.HoursSince)
	}
}

func TestShouldUpdate(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()

	ids := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("t%d", i)
		}
		return out
	}

	tests := []struct {
		name        string
		windowIDs   []string
		analyzedIDs []string
		lastUpdated time.Time
		want        bool
	}{
		{
			name:        "no new songs and fresh analysis",
			windowIDs:   ids(10),
			analyzedIDs: ids(10),
			lastUpdated: now.Add(-1 * time.Hour),
			want:        false,
		},
		{
			name:        "new song count exactly at threshold is inclusive",
			windowIDs:   ids(30), // 8 of 30 new: fraction 0.27 stays below 0.4
			analyzedIDs: ids(30)[8:],
			lastUpdated: now.Add(-1 * time.Hour),
			want:        true,
		},
		{
			name:        "one below absolute threshold",
			windowIDs:   ids(30),
			analyzedIDs: ids(30)[7:],
			lastUpdated: now.Add(-1 * time.Hour),
			want:        false,
		},
		{
			name:        "proportional trigger at boundary",
			windowIDs:   ids(10), // 4 of 10 new: exactly 0.4
			analyzedIDs: ids(10)[4:],
			lastUpdated: now.Add(-1 * time.Hour),
			want:        true,
		},
		{
			name:        "proportional trigger just below boundary",
			windowIDs:   ids(10), // 3 of 10 new: 0.3
			analyzedIDs: ids(10)[3:],
			lastUpdated: now.Add(-1 * time.Hour),
			want:        false,
		},
		{
			name:        "staleness alone is sufficient",
			windowIDs:   ids(10),
			analyzedIDs: ids(10),
			lastUpdated: now.Add(-7 * time.Hour),
			want:        true,
		},
		{
			name:        "staleness boundary is inclusive",
			windowIDs:   ids(10),
			analyzedIDs: ids(10),
			lastUpdated: now.Add(-6 * time.Hour),
			want:        true,
		},
		{
			name:        "empty window with stale analysis",
			windowIDs:   nil,
			analyzedIDs: ids(5),
			lastUpdated: now.Add(-8 * time.Hour),
			want:        true,
		},
		{
			name:        "empty window with fresh analysis never triggers proportionally",
			windowIDs:   nil,
			analyzedIDs: ids(5),
			lastUpdated: now.Add(-1 * time.Hour),
			want:        false,
		},
		{
			name:        "both absolute and proportional fire",
			windowIDs:   ids(12), // 10 of 12 new
			analyzedIDs: ids(12)[10:],
			lastUpdated: now.Add(-1 * time.Hour),
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.windowIDs, tt.analyzedIDs, tt.lastUpdated, now, cfg)
			if got := d.ShouldUpdate(); got != tt.want {
				t.Errorf("ShouldUpdate() = %v, want %v (new=%d total=%d hours=%.1f)",
					got, tt.want, len(d.NewTrackIDs), d.TotalTracks, d.HoursSince)
			}
		})
	}
}

func TestShouldUpdateIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()

	d := Decide([]string{"a", "b"}, []string{"a"}, now.Add(-3*time.Hour), now, cfg)

	first := d.ShouldUpdate()
	for i := 0; i < 10; i++ {
		if d.ShouldUpdate() != first {
			t.Fatal("ShouldUpdate() changed across calls with identical inputs")
		}
	}
}
