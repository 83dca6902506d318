// Package gradient maps mood labels to deterministic layered color
// gradients. Words resolve through a curated palette with a procedural
// HSL fallback, so arbitrary unseen mood words still produce stable,
// visually coherent colors.
package gradient

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// baseOpacity is the default opacity of each gradient layer.
	baseOpacity = 0.4

	// neutralGray pads the color list when no mood word resolves.
	neutralGray = "#E8E8E8"

	// baseFill is the solid color behind the gradient layers.
	baseFill = "#FAFAFA"
)

// layerAnchors are the fixed ellipse positions of the three layers, so
// the composed image reads as a soft aura regardless of the mood words.
var layerAnchors = [3]string{
	"ellipse at 15% 25%", // top-left
	"ellipse at 85% 30%", // top-right
	"ellipse at 50% 85%", // bottom-center
}

// Layer is one radial-gradient layer of a mood aura.
type Layer struct {
	Anchor  string
	Color   string // hex "#RRGGBB" or "hsl(h, s%, l%)"
	Opacity float64
}

// Gradient is the full descriptor for a mood aura: three ordered layers
// plus a solid base fill.
type Gradient struct {
	Layers   [3]Layer
	BaseFill string
}

// Build derives the gradient for a mood label, conventionally three
// comma-separated words. The result is byte-identical across calls for
// the same label.
func Build(moodLabel string) Gradient {
	colors := resolveColors(moodLabel)
	opacities := layerOpacities(colors)

	var g Gradient
	for i := range g.Layers {
		g.Layers[i] = Layer{
			Anchor:  layerAnchors[i],
			Color:   colors[i],
			Opacity: opacities[i],
		}
	}
	g.BaseFill = baseFill
	return g
}

// CSS renders the gradient as a CSS background value: three layered
// radial gradients followed by the base fill.
func (g Gradient) CSS() string {
	parts := make([]string, 0, 4)
	for _, layer := range g.Layers {
		parts = append(parts, fmt.Sprintf("radial-gradient(%s, %s 0%%, transparent 60%%)",
			layer.Anchor, withAlpha(layer.Color, layer.Opacity)))
	}
	parts = append(parts, g.BaseFill)
	return strings.Join(parts, ", ")
}

// resolveColors maps the label's words to exactly three colors, padding
// with the first resolved color (or neutral gray) when fewer resolve.
func resolveColors(moodLabel string) [3]string {
	var resolved []string
	for _, word := range strings.Split(strings.ToLower(moodLabel), ",") {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		resolved = append(resolved, ColorFor(word))
		if len(resolved) == 3 {
			break
		}
	}

	var colors [3]string
	for i := range colors {
		switch {
		case i < len(resolved):
			colors[i] = resolved[i]
		case len(resolved) > 0:
			colors[i] = resolved[0]
		default:
			colors[i] = neutralGray
		}
	}
	return colors
}

// ColorFor resolves a single mood word to a color: curated palette
// first (exact, then substring containment), then a procedural HSL
// color derived from the word's sentiment and character codes.
func ColorFor(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if hex := lookupColor(normalized); hex != "" {
		return hex
	}
	return proceduralColor(normalized)
}

// layerOpacities varies layer opacity when colors repeat, so a
// single-color gradient still shows depth.
func layerOpacities(colors [3]string) [3]float64 {
	distinct := make(map[string]bool, 3)
	for _, c := range colors {
		distinct[c] = true
	}

	switch len(distinct) {
	case 1:
		return [3]float64{baseOpacity, baseOpacity * 0.75, baseOpacity * 0.85}
	case 2:
		return [3]float64{baseOpacity, baseOpacity * 0.85, baseOpacity}
	default:
		return [3]float64{baseOpacity, baseOpacity, baseOpacity}
	}
}

// positiveHints and negativeHints classify unknown words by substring.
var positiveHints = []string{
	"happy", "joy", "excite", "love", "peace", "calm", "content",
	"confident", "energet", "hope", "play", "celebrat", "bold",
	"euphoric", "elat", "hype", "pump", "thrill",
}

var negativeHints = []string{
	"sad", "angry", "anxious", "lonely", "worry", "tense", "frustrat",
	"depress", "melanchol", "bitter", "stress", "overwhelm", "vulnerab",
	"despond", "gloom", "despair",
}

type sentiment int

const (
	sentimentNeutral sentiment = iota
	sentimentPositive
	sentimentNegative
)

func classify(word string) sentiment {
	for _, hint := range positiveHints {
		if strings.Contains(word, hint) {
			return sentimentPositive
		}
	}
	for _, hint := range negativeHints {
		if strings.Contains(word, hint) {
			return sentimentNegative
		}
	}
	return sentimentNeutral
}

// wordHash sums the word's character codes. Trivial but stable across
// runs and platforms, which is all the fallback needs.
func wordHash(word string) int {
	sum := 0
	for _, r := range word {
		sum += int(r)
	}
	return sum
}

// proceduralColor maps sentiment and hash into an HSL band: warm and
// bright for positive words, cool and rich for negative, full hue range
// at medium brightness for neutral.
func proceduralColor(word string) string {
	hash := wordHash(word)

	var hue, saturation, lightness int
	switch classify(word) {
	case sentimentPositive:
		hue = 40 + hash%100
		saturation = 75 + hash%20
		lightness = 60 + hash%15
	case sentimentNegative:
		hue = 200 + hash%80
		saturation = 50 + hash%30
		lightness = 50 + hash%15
	default:
		hue = hash % 360
		saturation = 40 + hash%35
		lightness = 60 + hash%15
	}

	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, saturation, lightness)
}

// withAlpha renders a color with the given opacity as rgba or hsla.
func withAlpha(color string, opacity float64) string {
	alpha := formatOpacity(opacity)

	if strings.HasPrefix(color, "hsl") {
		inner := strings.TrimSuffix(strings.TrimPrefix(color, "hsl("), ")")
		return fmt.Sprintf("hsla(%s, %s)", inner, alpha)
	}

	r, g, b := hexToRGB(color)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, alpha)
}

func hexToRGB(hex string) (r, g, b int64) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	r, _ = strconv.ParseInt(hex[0:2], 16, 0)
	g, _ = strconv.ParseInt(hex[2:4], 16, 0)
	b, _ = strconv.ParseInt(hex[4:6], 16, 0)
	return r, g, b
}

// formatOpacity renders an opacity rounded to two decimals with
// trailing zeros trimmed, e.g. 0.4, 0.3, 0.34.
func formatOpacity(opacity float64) string {
	rounded := math.Round(opacity*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
