package audio

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/events"
)

// Cue is a short synthesized sound bound to a class of transitions
type Cue int

const (
	CueNone  Cue = iota
	CueStart     // Pair or tile overlap began
	CueStop      // Pair or tile overlap ended
	CueEnter     // Fully within a single cell
	CueExit      // Left a single cell or an area
	CueArea      // Every covered cell matches
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueStart:
		return "start"
	case CueStop:
		return "stop"
	case CueEnter:
		return "enter"
	case CueExit:
		return "exit"
	case CueArea:
		return "area"
	}
	return "none"
}

// CueFor maps a feed event to its cue, CueNone for silent events
func CueFor(et events.EventType) Cue {
	switch et {
	case events.EventPairStart, events.EventTileStartOverlap:
		return CueStart
	case events.EventPairStop, events.EventTileStopOverlap:
		return CueStop
	case events.EventTileEnter:
		return CueEnter
	case events.EventTileExit, events.EventTileExitsArea:
		return CueExit
	case events.EventTileEntersArea:
		return CueArea
	}
	return CueNone
}

// --- Cue Generators (unity gain) ---

func generateStartCue() beep.Streamer {
	return tone{shape: sine, freq: 440, freqEnd: 880, length: constants.StartCueDuration,
		attack: constants.StartCueAttack, release: constants.StartCueRelease}.streamer()
}

func generateStopCue() beep.Streamer {
	return tone{shape: saw, freq: 110, length: constants.StopCueDuration,
		attack: constants.StopCueAttack, release: constants.StopCueRelease}.streamer()
}

func generateEnterCue() beep.Streamer {
	// B5 then E6
	return beep.Seq(
		tone{shape: square, freq: 987.77, length: constants.EnterCueNote1Duration,
			attack: constants.EnterCueAttack, release: constants.EnterCueNote1Release}.streamer(),
		tone{shape: square, freq: 1318.51, length: constants.EnterCueNote2Duration,
			attack: constants.EnterCueAttack, release: constants.EnterCueNote2Release}.streamer(),
	)
}

func generateAreaCue() beep.Streamer {
	// A5 with an A6 overtone
	fund := tone{shape: sine, freq: 880, length: constants.AreaCueDuration,
		attack: constants.AreaCueAttack, release: constants.AreaCueFundamentalRelease}.streamer()
	over := tone{shape: sine, freq: 1760, length: constants.AreaCueDuration,
		attack: constants.AreaCueAttack, release: constants.AreaCueOvertoneRelease}.streamer()
	mixed := beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	return beep.Take(sampleRate.N(constants.AreaCueDuration), mixed)
}

func generateExitCue() beep.Streamer {
	return tone{shape: noise, length: constants.ExitCueDuration,
		attack: constants.ExitCueAttack, release: constants.ExitCueRelease}.streamer()
}

// generateCue dispatches to the specific generator
func generateCue(c Cue) beep.Streamer {
	switch c {
	case CueStart:
		return generateStartCue()
	case CueStop:
		return generateStopCue()
	case CueEnter:
		return generateEnterCue()
	case CueExit:
		return generateExitCue()
	case CueArea:
		return generateAreaCue()
	}
	return nil
}
