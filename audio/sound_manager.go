package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/events"
)

// SoundManager plays transition cues through a single beep mixer
// Every method is safe before Initialize and after Cleanup; playback becomes a no-op
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	cache       [cueCount]*beep.Buffer
	lastPlayed  [cueCount]time.Time
	initialized bool
	muted       bool

	now func() time.Time
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(constants.AudioBufferDuration)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup drops queued cues; the speaker stays open because beep cannot reopen it
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// SetMuted toggles playback without tearing down the speaker
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	sm.muted = muted
	sm.mu.Unlock()
}

// Muted reports the mute state
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Play queues cue on the mixer
// Returns false when nothing was queued: uninitialized, muted, silent cue, or rate limited
func (sm *SoundManager) Play(cue Cue) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return false
	}
	s := sm.prepare(cue)
	if s == nil {
		return false
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
	return true
}

// PlayEvent plays the cue mapped to et
func (sm *SoundManager) PlayEvent(et events.EventType) bool {
	return sm.Play(CueFor(et))
}

// EventTypes lists every feed event that has a cue
func (sm *SoundManager) EventTypes() []events.EventType {
	var out []events.EventType
	for et := events.EventPairStart; et <= events.EventTileExitsArea; et++ {
		if CueFor(et) != CueNone {
			out = append(out, et)
		}
	}
	return out
}

// prepare returns a fresh streamer for cue, or nil if it is silent or played within MinCueGap
// Caller holds mu
func (sm *SoundManager) prepare(cue Cue) beep.Streamer {
	if cue <= CueNone || cue >= cueCount {
		return nil
	}
	now := sm.now()
	if now.Sub(sm.lastPlayed[cue]) < constants.MinCueGap {
		return nil
	}
	sm.lastPlayed[cue] = now

	if sm.cache[cue] == nil {
		sm.cache[cue] = render(generateCue(cue))
	}
	buf := sm.cache[cue]
	return newVolume(buf.Streamer(0, buf.Len()), constants.CueGain)
}
