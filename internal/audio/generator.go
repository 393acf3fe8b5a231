package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ToneGenerator plays a sequence of sine notes of equal length, each with a
// short attack and exponential decay so consecutive notes do not click.
type ToneGenerator struct {
	sr      beep.SampleRate
	amp     float64
	notes   []float64
	noteLen int
	pos     int
}

func NewToneGenerator(sr beep.SampleRate, amp float64, noteLen time.Duration, notes ...float64) *ToneGenerator {
	return &ToneGenerator{
		sr:      sr,
		amp:     amp,
		notes:   notes,
		noteLen: sr.N(noteLen),
	}
}

// Len is the total number of samples the generator produces.
func (g *ToneGenerator) Len() int {
	return g.noteLen * len(g.notes)
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := g.Len()
	if g.pos >= total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= total {
			return i, true
		}
		note := g.notes[g.pos/g.noteLen]
		local := g.pos % g.noteLen
		t := float64(local) / float64(g.sr)

		attack := math.Min(float64(local)/float64(g.sr.N(5*time.Millisecond)), 1.0)
		envelope := attack * math.Exp(-t*12)
		sample := g.amp * envelope * math.Sin(2*math.Pi*note*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// SweepGenerator glides linearly from one frequency to another.
type SweepGenerator struct {
	sr       beep.SampleRate
	amp      float64
	from, to float64
	length   int
	pos      int
	phase    float64
}

func NewSweepGenerator(sr beep.SampleRate, amp float64, length time.Duration, from, to float64) *SweepGenerator {
	return &SweepGenerator{
		sr:     sr,
		amp:    amp,
		from:   from,
		to:     to,
		length: sr.N(length),
	}
}

func (g *SweepGenerator) Len() int { return g.length }

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.length {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.length {
			return i, true
		}
		progress := float64(g.pos) / float64(g.length)
		freq := g.from + (g.to-g.from)*progress

		// Accumulate phase so the glide stays continuous.
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		envelope := math.Sin(math.Pi * progress)
		sample := g.amp * envelope * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}
