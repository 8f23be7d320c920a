package morse

import (
	"strings"
	"time"
)

// KeyEvent holds the output line at Active for Duration.
type KeyEvent struct {
	Duration time.Duration
	Active   bool
}

// Encode converts message into the ordered key events that send it at the
// given speed. Every element is followed by an element gap, every rune by a
// letter gap, and the message by a closing gap. Runes without a pattern
// contribute only the letter gap. A space keys nothing and contributes an
// element gap plus a letter gap.
func Encode(message string, s Speed) []KeyEvent {
	t := TimingFor(s)
	message = strings.ToUpper(message)

	events := make([]KeyEvent, 0, len(message)*8+1)
	for _, r := range message {
		pattern, _ := Lookup(r)
		for _, el := range pattern {
			switch el {
			case Dot:
				events = append(events, KeyEvent{Duration: t.Dot, Active: true})
			case Dash:
				events = append(events, KeyEvent{Duration: t.Dash, Active: true})
			}
			events = append(events, KeyEvent{Duration: t.IntraSymbolGap})
		}
		events = append(events, KeyEvent{Duration: t.InterLetterGap})
	}
	events = append(events, KeyEvent{Duration: t.PostMessageGap})
	return events
}

// Totals sums the keyed time and the overall time of an event sequence.
func Totals(events []KeyEvent) (keyed, total time.Duration) {
	for _, ev := range events {
		total += ev.Duration
		if ev.Active {
			keyed += ev.Duration
		}
	}
	return keyed, total
}

// Pattern renders message as dot/dash text: letters separated by a space,
// words by " / ". Unsupported runes are dropped.
func Pattern(message string) string {
	var words []string
	for _, word := range strings.Fields(strings.ToUpper(message)) {
		var letters []string
		for _, r := range word {
			if pattern, ok := Lookup(r); ok {
				letters = append(letters, string(pattern))
			}
		}
		if len(letters) > 0 {
			words = append(words, strings.Join(letters, " "))
		}
	}
	return strings.Join(words, " / ")
}
