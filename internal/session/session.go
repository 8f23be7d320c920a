// Package session holds the operator state of one console run.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/morse"
)

// Defaults for a new session.
const (
	DefaultWPM         = 12
	DefaultCalibration = 1.0
	DefaultSlots       = 6
	MaxSlots           = 9
)

// ErrInvalidSlot is returned for a memory slot outside 1..Slots().
var ErrInvalidSlot = errors.New("invalid memory slot")

// Step is a speed adjustment token.
type Step string

const (
	StepUp       Step = "+"
	StepUpFast   Step = "++"
	StepDown     Step = "-"
	StepDownFast Step = "--"
)

// SpeedPolicy maps steps to WPM deltas and bounds the result from below.
type SpeedPolicy struct {
	Name  string
	Small int
	Large int
	Floor int
}

var (
	// ClassicPolicy moves 5 WPM for every step and never goes below 1.
	ClassicPolicy = SpeedPolicy{Name: "classic", Small: 5, Large: 5, Floor: 1}
	// ExtendedPolicy moves 1 WPM for single steps and 5 for double steps.
	// The floor keeps the unit computable; the speed never reaches 0.
	ExtendedPolicy = SpeedPolicy{Name: "extended", Small: 1, Large: 5, Floor: 1}
)

// PolicyByName resolves "classic" or "extended".
func PolicyByName(name string) (SpeedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ClassicPolicy.Name:
		return ClassicPolicy, nil
	case ExtendedPolicy.Name, "":
		return ExtendedPolicy, nil
	default:
		return SpeedPolicy{}, fmt.Errorf("unknown speed policy %q (use classic or extended)", name)
	}
}

// Delta returns the signed WPM change for step.
func (p SpeedPolicy) Delta(step Step) int {
	switch step {
	case StepUp:
		return p.Small
	case StepUpFast:
		return p.Large
	case StepDown:
		return -p.Small
	case StepDownFast:
		return -p.Large
	default:
		return 0
	}
}

// Config holds the startup values of a session.
type Config struct {
	WPM         int
	Calibration float64
	Slots       int
	Policy      SpeedPolicy
}

// DefaultConfig returns 12 WPM, calibration 1.0, six slots, extended steps.
func DefaultConfig() Config {
	return Config{
		WPM:         DefaultWPM,
		Calibration: DefaultCalibration,
		Slots:       DefaultSlots,
		Policy:      ExtendedPolicy,
	}
}

// State is the mutable speed and memory bank.
type State struct {
	speed  morse.Speed
	policy SpeedPolicy
	memory []string
}

// New validates cfg and returns a fresh State with empty memory slots.
func New(cfg Config) (*State, error) {
	speed := morse.Speed{WPM: cfg.WPM, Calibration: cfg.Calibration}
	if err := speed.Validate(); err != nil {
		return nil, err
	}
	if cfg.Slots < 1 || cfg.Slots > MaxSlots {
		return nil, fmt.Errorf("memory slots must be between 1 and %d, got %d", MaxSlots, cfg.Slots)
	}
	if cfg.Policy.Floor < 1 {
		return nil, fmt.Errorf("speed policy %q: floor must be at least 1", cfg.Policy.Name)
	}
	return &State{
		speed:  speed,
		policy: cfg.Policy,
		memory: make([]string, cfg.Slots),
	}, nil
}

// Speed returns the current speed.
func (s *State) Speed() morse.Speed {
	return s.speed
}

// Policy returns the speed policy.
func (s *State) Policy() SpeedPolicy {
	return s.policy
}

// Adjust applies step under the session policy and returns the new WPM.
func (s *State) Adjust(step Step) int {
	wpm := s.speed.WPM + s.policy.Delta(step)
	if wpm < s.policy.Floor {
		wpm = s.policy.Floor
	}
	s.speed.WPM = wpm
	return wpm
}

// Slots returns the number of memory slots.
func (s *State) Slots() int {
	return len(s.memory)
}

// Store overwrites the 1-based slot.
func (s *State) Store(slot int, text string) error {
	idx, err := s.index(slot)
	if err != nil {
		return err
	}
	s.memory[idx] = text
	return nil
}

// Recall returns the text of the 1-based slot, possibly empty.
func (s *State) Recall(slot int) (string, error) {
	idx, err := s.index(slot)
	if err != nil {
		return "", err
	}
	return s.memory[idx], nil
}

func (s *State) index(slot int) (int, error) {
	if slot < 1 || slot > len(s.memory) {
		return 0, fmt.Errorf("%w: %d (use 1-%d)", ErrInvalidSlot, slot, len(s.memory))
	}
	return slot - 1, nil
}
