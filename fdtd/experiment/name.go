package experiment

import (
	"math/rand"
	"time"
)

var (
	adjectives = []string{
		"autumn", "hidden", "bitter", "misty", "silent", "empty", "dry", "dark",
		"summer", "icy", "delicate", "quiet", "white", "cool", "spring", "winter",
		"patient", "twilight", "dawn", "crimson", "wispy", "weathered", "blue",
		"billowing", "broken", "cold", "damp", "falling", "frosty", "green",
		"long", "late", "lingering", "bold", "little", "morning", "muddy", "old",
		"hollow", "muffled", "ringing", "echoing", "humming", "resonant", "dull",
		"wandering", "distant", "wild", "deep", "young", "faint", "solitary",
	}

	nouns = []string{
		"ripple", "river", "breeze", "moon", "rain", "wind", "sea", "morning",
		"snow", "lake", "sunset", "pine", "shadow", "leaf", "dawn", "echo",
		"forest", "hill", "cloud", "meadow", "sun", "glade", "bird", "brook",
		"chamber", "hall", "corridor", "drum", "bell", "chime", "murmur", "canyon",
		"feather", "grass", "haze", "mountain", "night", "pond", "darkness",
		"silence", "sound", "sky", "surf", "thunder", "wave", "resonance",
		"wood", "voice", "frost", "smoke", "star", "brass", "rhythm", "tone",
	}
)

// Namer picks memorable adjective-noun run names.
type Namer struct {
	rng *rand.Rand
}

func NewNamer(seed int64) *Namer {
	return &Namer{rng: rand.New(rand.NewSource(seed))}
}

func (n *Namer) Name() string {
	return adjectives[n.rng.Intn(len(adjectives))] + "-" + nouns[n.rng.Intn(len(nouns))]
}

// RunID combines a memorable name with a timestamp to make it unique.
func RunID(n *Namer, t time.Time) string {
	return n.Name() + "-" + t.UTC().Format("20060102-150405")
}
