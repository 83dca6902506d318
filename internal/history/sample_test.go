package history

import "testing"

func TestSelectSample(t *testing.T) {
	tests := []struct {
		name       string
		events     []PlayEvent
		maxSize    int
		heavyPlays int
		wantNames  []string
		wantCounts []int
	}{
		{
			name: "no heavy rotation fills by recency",
			events: []PlayEvent{
				playAt("a1", "Midnight", "Ivy", 22),
				playAt("b1", "Glass", "Noor", 21),
				playAt("a1", "Midnight", "Ivy", 20),
				playAt("c1", "Harbor", "Wren", 19),
			},
			maxSize:    5,
			heavyPlays: 3,
			wantNames:  []string{"Midnight", "Glass", "Harbor"},
			wantCounts: []int{2, 1, 1},
		},
		{
			name: "heavy rotation first sorted by count",
			events: []PlayEvent{
				playAt("a1", "Midnight", "Ivy", 23),
				playAt("b1", "Glass", "Noor", 22),
				playAt("b1", "Glass", "Noor", 21),
				playAt("b1", "Glass", "Noor", 20),
				playAt("a1", "Midnight", "Ivy", 19),
				playAt("a1", "Midnight", "Ivy", 18),
				playAt("a1", "Midnight", "Ivy", 17),
				playAt("b1", "Glass", "Noor", 16),
				playAt("c1", "Harbor", "Wren", 15),
			},
			maxSize:    5,
			heavyPlays: 3,
			wantNames:  []string{"Midnight", "Glass", "Harbor"},
			wantCounts: []int{4, 4, 1},
		},
		{
			name: "heavy ties keep recency order",
			events: []PlayEvent{
				playAt("a1", "Midnight", "Ivy", 23),
				playAt("b1", "Glass", "Noor", 22),
				playAt("a1", "Midnight", "Ivy", 21),
				playAt("b1", "Glass", "Noor", 20),
				playAt("a1", "Midnight", "Ivy", 19),
				playAt("b1", "Glass", "Noor", 18),
			},
			maxSize:    2,
			heavyPlays: 3,
			wantNames:  []string{"Midnight", "Glass"},
			wantCounts: []int{3, 3},
		},
		{
			name: "sample never exceeds max size",
			events: []PlayEvent{
				playAt("a1", "Midnight", "Ivy", 23),
				playAt("b1", "Glass", "Noor", 22),
				playAt("c1", "Harbor", "Wren", 21),
				playAt("d1", "Static", "Juno", 20),
			},
			maxSize:    2,
			heavyPlays: 3,
			wantNames:  []string{"Midnight", "Glass"},
			wantCounts: []int{1, 1},
		},
		{
			name:       "empty window",
			events:     nil,
			maxSize:    5,
			heavyPlays: 3,
			wantNames:  nil,
			wantCounts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := CountPlays(tt.events)
			sample := SelectSample(tt.events, counts, tt.maxSize, tt.heavyPlays)

			if len(sample) > tt.maxSize {
				t.Fatalf("sample has %d entries, max is %d", len(sample), tt.maxSize)
			}
			if len(sample) != len(tt.wantNames) {
				t.Fatalf("sample has %d entries, want %d", len(sample), len(tt.wantNames))
			}
			for i := range tt.wantNames {
				if sample[i].Name != tt.wantNames[i] {
					t.Errorf("sample[%d].Name = %q, want %q", i, sample[i].Name, tt.wantNames[i])
				}
				if sample[i].PlayCount != tt.wantCounts[i] {
					t.Errorf("sample[%d].PlayCount = %d, want %d", i, sample[i].PlayCount, tt.wantCounts[i])
				}
			}

			// No two entries may share a track name.
			seen := make(map[string]bool)
			for _, s := range sample {
				if seen[s.Name] {
					t.Errorf("duplicate track name %q in sample", s.Name)
				}
				seen[s.Name] = true
			}
		})
	}
}

func TestSelectSampleCarriesAlbumArt(t *testing.T) {
	events := []PlayEvent{
		{TrackID: "a1", Name: "Midnight", Artist: "Ivy", AlbumArtURL: "https://img.example/midnight.jpg"},
	}
	counts := CountPlays(events)

	sample := SelectSample(events, counts, 5, 3)

	if len(sample) != 1 {
		t.Fatalf("sample has %d entries, want 1", len(sample))
	}
	if sample[0].AlbumArtURL != "https://img.example/midnight.jpg" {
		t.Errorf("AlbumArtURL = %q, want album art carried through", sample[0].AlbumArtURL)
	}
}
