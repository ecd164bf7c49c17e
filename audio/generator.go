package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/overlap/constants"
)

const sampleRate = beep.SampleRate(constants.AudioSampleRate)

// cueFormat is the encoding of cached cues
var cueFormat = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

// wave maps a phase in [0,1) to a sample in [-1,1]
type wave func(phase float64) float64

func sine(p float64) float64 { return math.Sin(2 * math.Pi * p) }

func square(p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}

func saw(p float64) float64 { return 2 * (p - 0.5) }

func noise(float64) float64 { return rand.Float64()*2 - 1 }

// oscillator streams an endless wave; step != 0 sweeps the frequency each sample
type oscillator struct {
	shape wave
	freq  float64
	step  float64
	phase float64
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := o.shape(o.phase)
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.freq += o.step
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope ramps the first attack samples up and the last release samples down
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

func newEnvelope(s beep.Streamer, length, attack, release time.Duration) beep.Streamer {
	total := sampleRate.N(length)
	att := sampleRate.N(attack)
	rel := sampleRate.N(release)
	return &envelope{
		streamer:     s,
		attack:       att,
		releaseStart: max(att, total-rel),
		release:      rel,
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	if !ok {
		return 0, false
	}
	for i := 0; i < n; i++ {
		vol := 1.0
		switch {
		case e.position < e.attack:
			vol = float64(e.position) / float64(e.attack)
		case e.position >= e.releaseStart && e.release > 0:
			vol = max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, true
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// tone describes one enveloped note; freqEnd != 0 sweeps linearly from freq
type tone struct {
	shape           wave
	freq, freqEnd   float64
	length          time.Duration
	attack, release time.Duration
}

// streamer synthesizes the tone, bounded to its length
func (t tone) streamer() beep.Streamer {
	n := sampleRate.N(t.length)
	osc := &oscillator{shape: t.shape, freq: t.freq}
	if t.freqEnd != 0 && n > 1 {
		osc.step = (t.freqEnd - t.freq) / float64(n-1)
	}
	return newEnvelope(beep.Take(n, osc), t.length, t.attack, t.release)
}

// render drains s into a buffer for replay
func render(s beep.Streamer) *beep.Buffer {
	buf := beep.NewBuffer(cueFormat)
	buf.Append(s)
	return buf
}
