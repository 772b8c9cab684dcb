package app

import (
	"encoding/json"
	"hash/fnv"
	"math/rand"
)

// dateSeed is the 32-bit seed for procedural generation: the same calendar
// date always produces the same batch.
func dateSeed(date string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(date))
	return h.Sum32()
}

var proceduralSuffixes = []string{"II", "X", "PLUS", "DEEP", "LITE", "DARK", "RAW", "ULTRA", "MICRO", "MEGA"}

func proceduralTemplates() []candidate {
	hp := func(v float64) *float64 { return &v }
	return []candidate{
		{
			Name:        "FLUTTER",
			Tagline:     "eyelid tremor becomes tremolo rate",
			Category:    "LFO",
			HP:          hp(6),
			BodyPart:    "eyes",
			Concept:     "Maps the micro-tremor frequency of eyelids to LFO rate. Perfectly still = slow throb. Tired eyes = fast flutter. The instability of human anatomy becomes a living modulation source.",
			KeyFeature:  "Involuntary tremor as expressive vibrato",
			Inputs:      []string{"RATE CV", "DEPTH CV"},
			Outputs:     []string{"LFO", "TREMOR CV", "GATE"},
			Params:      []string{"RATE SCALE", "DEPTH", "SHAPE"},
			Inspiration: "Vocal vibrato and involuntary muscle fasciculations",
		},
		{
			Name:        "CHEEKBONE",
			Tagline:     "smile width tunes the filter",
			Category:    "Filter",
			HP:          hp(10),
			BodyPart:    "cheeks",
			Concept:     "Tracks cheekbone elevation (smile vs neutral vs frown) as a -5 to +5V CV. High cheeks open a ladder filter; low cheeks engage a comb. Neutral position gives clean pass-through.",
			KeyFeature:  "Facial expression controls timbre in real-time",
			Inputs:      []string{"AUDIO", "MOD CV"},
			Outputs:     []string{"LP", "HP", "COMB"},
			Params:      []string{"CUTOFF", "RESONANCE", "CHROMA"},
			Inspiration: "The formant shift in the human voice when smiling",
		},
		{
			Name:        "EXHALE",
			Tagline:     "your breath is the envelope",
			Category:    "Envelope",
			HP:          hp(8),
			BodyPart:    "breath",
			Concept:     "Monitors breathing via mic amplitude envelope detection plus nostril landmark tracking. Inhale triggers attack; exhale shapes decay and release. Breathing rate controls overall envelope speed.",
			KeyFeature:  "Breathing synchronises synthesis to your body rhythm",
			Inputs:      []string{"GATE", "RATE CV"},
			Outputs:     []string{"ENV", "BREATH CV", "PHASE"},
			Params:      []string{"INHALE SCALE", "EXHALE SCALE", "SMOOTH"},
			Inspiration: "Bansuri flute dynamics and throat singing",
		},
	}
}

// proceduralBatch produces a seeded batch with no backend involved, as a
// JSON array in the same shape the backends emit so it flows through the
// normal parse path. Re-running for the same date yields identical bytes.
func proceduralBatch(date string, n int) string {
	rng := rand.New(rand.NewSource(int64(dateSeed(date))))

	templates := proceduralTemplates()
	pool := make([]candidate, 0, len(templates)*4)
	for i := 0; i < 4; i++ {
		pool = append(pool, templates...)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	selected := pool[:n]

	used := map[string]bool{}
	for i := range selected {
		name := selected[i].Name
		k := rng.Intn(len(proceduralSuffixes))
		for used[name] {
			name = selected[i].Name + " " + proceduralSuffixes[k%len(proceduralSuffixes)]
			k++
		}
		used[name] = true
		selected[i].Name = name
	}

	out, err := json.Marshal(selected)

	if err != nil {
		// Marshalling fixed literals cannot fail.
		panic(err)
	}

	return string(out)
}
