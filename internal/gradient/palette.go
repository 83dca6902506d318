package gradient

import (
	"cmp"
	"slices"
	"strings"
)

// paletteEntry pairs a curated mood keyword with its hex color.
type paletteEntry struct {
	keyword string
	hex     string
}

// moodPalette is the curated keyword-to-color table, grouped by feel.
// Lookup is case-insensitive; fuzzy matching walks the table in the
// pinned order built by init below, not in this declaration order.
var moodPalette = []paletteEntry{
	// Energetic / positive
	{"energetic", "#FFE066"},
	{"energized", "#FFE066"},
	{"excited", "#FFB347"},
	{"joyful", "#FFD93D"},
	{"confident", "#6BCF7F"},
	{"playful", "#FF6B9D"},
	{"happy", "#FFE66D"},
	{"celebratory", "#FFA07A"},
	{"hopeful", "#A8E6CF"},
	{"defiant", "#E89C31"},
	{"bold", "#FF8C42"},
	{"grounded", "#8B9D83"},
	{"centered", "#A8C5A5"},
	{"poised", "#9FB8AD"},
	{"euphoric", "#FF85E6"},
	{"ecstatic", "#FF7ED4"},
	{"elated", "#FFADFF"},
	{"charged", "#FFD700"},
	{"stimulated", "#FFB700"},
	{"elevated", "#FFC8DD"},
	{"transcendent", "#E0B0FF"},
	{"floating", "#D4A5FF"},
	{"weightless", "#E6E6FA"},
	{"hyped", "#FFFF33"},

	// Calm / peaceful
	{"calm", "#A8D8EA"},
	{"peaceful", "#B4E7CE"},
	{"content", "#C7CEEA"},
	{"relaxed", "#B8E0D2"},
	{"serene", "#B3D9E8"},

	// Romantic / emotional
	{"romantic", "#FFB6C1"},
	{"passionate", "#FF69B4"},
	{"loving", "#FFABAB"},
	{"intimate", "#E8B4B8"},
	{"tender", "#FADADD"},
	{"flirty", "#FFB6D9"},

	// Melancholic / sad
	{"bittersweet", "#DDA0DD"},
	{"melancholic", "#9DB4C0"},
	{"sad", "#A7BEAE"},
	{"lonely", "#B8C5D6"},
	{"nostalgic", "#D4A5A5"},
	{"wistful", "#C4B7CB"},

	// Anxious / tense
	{"anxious", "#D4A373"},
	{"stressed", "#C8A882"},
	{"tense", "#BDB5A7"},
	{"restless", "#E5C185"},
	{"worried", "#C9B79C"},
	{"overwhelmed", "#D4C4B0"},

	// Conflicted / mixed
	{"conflicted", "#C2A9A0"},
	{"confused", "#B8AFA8"},
	{"uncertain", "#D1C4B5"},
	{"scattered", "#C9BDB1"},

	// Angry / intense
	{"angry", "#E57373"},
	{"frustrated", "#D98880"},
	{"intense", "#CD5C5C"},
	{"aggressive", "#C97064"},

	// Vulnerable / introspective
	{"vulnerable", "#D7BDE2"},
	{"introspective", "#B39EB5"},
	{"reflective", "#C8B8D0"},
	{"thoughtful", "#A8A4C8"},
	{"contemplative", "#B8AED4"},
}

// exactColors indexes the palette for exact keyword lookup.
var exactColors = make(map[string]string, len(moodPalette))

// fuzzyOrder is the palette in pinned iteration order for substring
// matching: longest keyword first, ties broken lexicographically. This
// keeps ambiguous matches (a word containing two curated keywords)
// reproducible across runs.
var fuzzyOrder []paletteEntry

func init() {
	for _, entry := range moodPalette {
		exactColors[entry.keyword] = entry.hex
	}

	fuzzyOrder = slices.Clone(moodPalette)
	slices.SortFunc(fuzzyOrder, func(a, b paletteEntry) int {
		if len(a.keyword) != len(b.keyword) {
			return len(b.keyword) - len(a.keyword)
		}
		return cmp.Compare(a.keyword, b.keyword)
	})
}

// lookupColor resolves a normalized (lowercase, trimmed) mood word
// against the curated palette. Exact matches win; otherwise the first
// entry in pinned order whose keyword contains, or is contained by, the
// word is used. Returns "" when the palette has no match.
func lookupColor(word string) string {
	if hex, ok := exactColors[word]; ok {
		return hex
	}
	for _, entry := range fuzzyOrder {
		if strings.Contains(word, entry.keyword) || strings.Contains(entry.keyword, word) {
			return entry.hex
		}
	}
	return ""
}
