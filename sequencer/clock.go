package sequencer

import "math"

// StepsPerBeat is the fixed grid resolution (16th notes)
const StepsPerBeat = 4

// Tempo is the pair of values that determine playback rate
type Tempo struct {
	BPM         int
	BeatsPerBar int
}

// CyclesPerSecond returns how many bars (cycles) play per second
func (t Tempo) CyclesPerSecond() float64 {
	return CyclesPerSecond(float64(t.BPM), float64(t.BeatsPerBar))
}

// StepsPerBar returns the number of grid steps in one bar
func (t Tempo) StepsPerBar() int {
	return t.BeatsPerBar * StepsPerBeat
}

// StepsPerSecond returns the grid step rate
func (t Tempo) StepsPerSecond() float64 {
	return StepsPerSecond(t.CyclesPerSecond(), t.StepsPerBar())
}

// CyclesPerSecond converts tempo to backend rate. One cycle is one bar.
func CyclesPerSecond(bpm, beatsPerBar float64) float64 {
	return bpm / (60 * beatsPerBar)
}

// StepsPerSecond converts a cycle rate to a grid step rate
func StepsPerSecond(cps float64, stepsPerBar int) float64 {
	return cps * float64(stepsPerBar)
}

// CurrentStepIndex maps elapsed playback time onto a step of the looping grid
func CurrentStepIndex(elapsed, stepsPerSecond float64, totalSteps int) int {
	if totalSteps <= 0 {
		return 0
	}
	idx := int(math.Floor(elapsed*stepsPerSecond)) % totalSteps
	if idx < 0 {
		idx += totalSteps
	}
	return idx
}

// RebaseAnchor moves the playback anchor so that the cycle position at now
// is the same under newCPS as it was under oldCPS
func RebaseAnchor(now, oldAnchor, oldCPS, newCPS float64) float64 {
	return now - (now-oldAnchor)*oldCPS/newCPS
}
