// Package command parses and executes operator command lines.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/session"
)

var (
	// ErrInvalidGroupCount is returned for a {N} line whose N is not a
	// non-negative integer.
	ErrInvalidGroupCount = errors.New("invalid {N} format")
	// ErrInvalidSlot is returned when ! or $ is not followed by a slot digit.
	ErrInvalidSlot = session.ErrInvalidSlot
)

// Command is one parsed operator line.
type Command interface {
	command()
}

type (
	Quit           struct{}
	DotCalibration struct{}
	ToneTest       struct{}
	Help           struct{}

	AdjustSpeed struct {
		Step session.Step
	}
	RepeatText struct {
		Text string
	}
	RandomGroups struct {
		Count int
	}
	StoreMemory struct {
		Slot int
		Text string
	}
	RecallMemory struct {
		Slot int
	}
	SendText struct {
		Text string
	}
)

func (Quit) command()           {}
func (DotCalibration) command() {}
func (ToneTest) command()       {}
func (Help) command()           {}
func (AdjustSpeed) command()    {}
func (RepeatText) command()     {}
func (RandomGroups) command()   {}
func (StoreMemory) command()    {}
func (RecallMemory) command()   {}
func (SendText) command()       {}

// Parser classifies lines. Slots bounds the digit accepted after ! and $.
type Parser struct {
	Slots int
}

// Parse classifies line with the default six memory slots.
func Parse(line string) (Command, error) {
	return Parser{Slots: session.DefaultSlots}.Parse(line)
}

// Parse classifies one line. The first matching rule wins; anything not
// recognized is text to send.
func (p Parser) Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	switch line {
	case "*":
		return Quit{}, nil
	case "+", "++", "-", "--":
		return AdjustSpeed{Step: session.Step(line)}, nil
	case "@":
		return DotCalibration{}, nil
	case "#":
		return ToneTest{}, nil
	}
	if strings.EqualFold(line, "#H") {
		return Help{}, nil
	}
	if inner, ok := wrapped(line, '[', ']'); ok {
		return RepeatText{Text: inner}, nil
	}
	if inner, ok := wrapped(line, '{', '}'); ok {
		n, err := strconv.Atoi(strings.TrimSpace(inner))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidGroupCount, line)
		}
		return RandomGroups{Count: n}, nil
	}
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		slot, text, err := p.slot(rest, '!')
		if err != nil {
			return nil, err
		}
		return StoreMemory{Slot: slot, Text: strings.TrimSpace(text)}, nil
	}
	if rest, ok := strings.CutPrefix(line, "$"); ok {
		slot, _, err := p.slot(rest, '$')
		if err != nil {
			return nil, err
		}
		return RecallMemory{Slot: slot}, nil
	}
	return SendText{Text: line}, nil
}

// slot reads the single slot digit at the start of rest.
func (p Parser) slot(rest string, prefix byte) (int, string, error) {
	slots := p.Slots
	if slots <= 0 {
		slots = session.DefaultSlots
	}
	if rest == "" || rest[0] < '1' || rest[0] > '0'+byte(slots) {
		return 0, "", fmt.Errorf("%w, use %c1-%c%d", ErrInvalidSlot, prefix, prefix, slots)
	}
	return int(rest[0] - '0'), rest[1:], nil
}

func wrapped(line string, opening, closing byte) (string, bool) {
	if len(line) < 2 || line[0] != opening || line[len(line)-1] != closing {
		return "", false
	}
	return line[1 : len(line)-1], true
}
