package analysis

import "testing"

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantMood string
		wantBody string
	}{
		{
			name:     "well formed",
			text:     "MOOD: chill, nostalgic, mellow\nANALYSIS: You kept it low-key today. Mostly acoustic stuff with a soft edge.",
			wantMood: "chill, nostalgic, mellow",
			wantBody: "You kept it low-key today. Mostly acoustic stuff with a soft edge.",
		},
		{
			name:     "mood is lowercased",
			text:     "MOOD: Hyped, Energetic\nANALYSIS: Big energy.",
			wantMood: "hyped, energetic",
			wantBody: "Big energy.",
		},
		{
			name:     "case insensitive prefixes",
			text:     "mood: dreamy\nanalysis: Floaty synths all afternoon.",
			wantMood: "dreamy",
			wantBody: "Floaty synths all afternoon.",
		},
		{
			name:     "analysis continues onto following lines",
			text:     "MOOD: restless\nANALYSIS: First sentence here.\nSecond sentence on its own line.",
			wantMood: "restless",
			wantBody: "First sentence here.\nSecond sentence on its own line.",
		},
		{
			name:     "missing mood defaults to neutral",
			text:     "ANALYSIS: Just some tunes.",
			wantMood: "neutral",
			wantBody: "Just some tunes.",
		},
		{
			name:     "missing analysis falls back to whole text",
			text:     "MOOD: upbeat\nSome freeform response that ignored the format.",
			wantMood: "upbeat",
			wantBody: "MOOD: upbeat\nSome freeform response that ignored the format.",
		},
		{
			name:     "no structure at all",
			text:     "  The model just rambled.  ",
			wantMood: "neutral",
			wantBody: "The model just rambled.",
		},
		{
			name:     "empty mood value keeps default",
			text:     "MOOD:\nANALYSIS: Something.",
			wantMood: "neutral",
			wantBody: "Something.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood, body := parseResponse(tt.text)
			if mood != tt.wantMood {
				t.Errorf("mood = %q, want %q", mood, tt.wantMood)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
