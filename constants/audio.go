package constants

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// MinCueGap suppresses repeats of the same cue within one tick
	MinCueGap = 50 * time.Millisecond

	// CueGain scales every cue before mixing
	CueGain = 0.25
)

// Start Cue (rising chirp)
const (
	StartCueDuration = 90 * time.Millisecond
	StartCueAttack   = 5 * time.Millisecond
	StartCueRelease  = 40 * time.Millisecond
)

// Stop Cue (falling saw)
const (
	StopCueDuration = 80 * time.Millisecond
	StopCueAttack   = 5 * time.Millisecond
	StopCueRelease  = 30 * time.Millisecond
)

// Enter Cue (two-note coin)
const (
	EnterCueNote1Duration = 60 * time.Millisecond
	EnterCueNote2Duration = 180 * time.Millisecond
	EnterCueAttack        = 2 * time.Millisecond
	EnterCueNote1Release  = 10 * time.Millisecond
	EnterCueNote2Release  = 150 * time.Millisecond
)

// Area Cue (bell)
const (
	AreaCueDuration           = 400 * time.Millisecond
	AreaCueAttack             = 5 * time.Millisecond
	AreaCueFundamentalRelease = 350 * time.Millisecond
	AreaCueOvertoneRelease    = 150 * time.Millisecond
)

// Exit Cue (noise whoosh)
const (
	ExitCueDuration = 200 * time.Millisecond
	ExitCueAttack   = 100 * time.Millisecond
	ExitCueRelease  = 100 * time.Millisecond
)
