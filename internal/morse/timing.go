package morse

import (
	"errors"
	"fmt"
	"time"
)

// Timing ratios in units of one dot.
const (
	DashUnits           = 3
	IntraSymbolGapUnits = 1
	InterLetterGapUnits = 3
	PostMessageGapUnits = 4

	// millisPerWPM is the dot length in ms at 1 WPM (PARIS standard).
	millisPerWPM = 1200.0
)

var (
	// ErrInvalidWPM is returned when the speed is below one word per minute.
	ErrInvalidWPM = errors.New("wpm must be at least 1")
	// ErrInvalidCalibration is returned for a non-positive calibration factor.
	ErrInvalidCalibration = errors.New("calibration must be greater than 0")
)

// Speed is the operator speed setting plus the hardware calibration factor.
type Speed struct {
	WPM         int
	Calibration float64
}

// Validate checks that the speed yields a positive unit.
func (s Speed) Validate() error {
	if s.WPM < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWPM, s.WPM)
	}
	if !(s.Calibration > 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidCalibration, s.Calibration)
	}
	return nil
}

// UnitMillis returns the dot length in milliseconds.
func (s Speed) UnitMillis() float64 {
	return millisPerWPM / float64(s.WPM) * s.Calibration
}

// Unit returns the dot length.
func (s Speed) Unit() time.Duration {
	return millis(s.UnitMillis())
}

// Timing holds the elementary durations derived from a Speed.
type Timing struct {
	Dot            time.Duration
	Dash           time.Duration
	IntraSymbolGap time.Duration
	InterLetterGap time.Duration
	PostMessageGap time.Duration
}

// TimingFor derives the element durations. The caller guarantees
// s.WPM >= 1.
func TimingFor(s Speed) Timing {
	unit := s.UnitMillis()
	return Timing{
		Dot:            millis(unit),
		Dash:           millis(unit * DashUnits),
		IntraSymbolGap: millis(unit * IntraSymbolGapUnits),
		InterLetterGap: millis(unit * InterLetterGapUnits),
		PostMessageGap: millis(unit * PostMessageGapUnits),
	}
}

// ReferenceWPM are the speeds shown on the calibration banner.
var ReferenceWPM = []int{12, 24, 48}

// ReferenceDot is the dot length in ms at one reference speed.
type ReferenceDot struct {
	WPM    int
	Millis float64
}

// ReferenceDots returns the dot length at each ReferenceWPM for the given
// calibration factor.
func ReferenceDots(calibration float64) []ReferenceDot {
	out := make([]ReferenceDot, 0, len(ReferenceWPM))
	for _, wpm := range ReferenceWPM {
		out = append(out, ReferenceDot{
			WPM:    wpm,
			Millis: Speed{WPM: wpm, Calibration: calibration}.UnitMillis(),
		})
	}
	return out
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
