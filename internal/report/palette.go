package report

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"sync"
)

// Palette assigns a display colour to a category label.
type Palette interface {
	Color(label string) string
}

var colors = []string{
	"#f38ba8", "#fab387", "#f9e2af", "#a6e3a1",
	"#94e2d5", "#89dceb", "#74c7ec", "#89b4fa",
	"#b4befe", "#cba6f7", "#f5c2e7", "#eba0ac",
}

const (
	orange = "#fab387"
	blue   = "#89b4fa"
	green  = "#a6e3a1"
	purple = "#cba6f7"
)

var fixedColors = map[string]string{
	"food":     orange,
	"foods":    orange,
	"travel":   blue,
	"grocery":  green,
	"shopping": purple,
}

// HashPalette derives the colour from the label, so it is stable across passes.
type HashPalette struct{}

func (HashPalette) Color(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if c, ok := fixedColors[key]; ok {
		return c
	}

	h := fnv.New32a()
	h.Write([]byte(key))

	return colors[h.Sum32()%uint32(len(colors))]
}

// RandomPalette picks a fresh colour on every call.
type RandomPalette struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomPalette(seed uint64) *RandomPalette {
	return &RandomPalette{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *RandomPalette) Color(string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return colors[p.rnd.IntN(len(colors))]
}

// NewPalette maps the REPORT_PALETTE setting to a Palette. Unknown names fall back to hashing.
func NewPalette(name string, seed uint64) Palette {
	if strings.EqualFold(name, "random") {
		return NewRandomPalette(seed)
	}

	return HashPalette{}
}
