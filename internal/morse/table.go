// Package morse encodes text into timed key events.
package morse

import "unicode"

// Element is one mark position inside a character pattern.
type Element byte

const (
	Dot   Element = '.'
	Dash  Element = '-'
	Blank Element = ' '
)

// symbols maps each sendable rune to its pattern. Space is a single Blank
// element, which keys nothing but still takes its element gap.
var symbols = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '=': "-...-",
	' ': " ",
}

// Lookup returns the pattern for r. Lowercase letters resolve to their
// uppercase form. Unknown runes report ok=false and an empty pattern.
func Lookup(r rune) (pattern []Element, ok bool) {
	s, ok := symbols[unicode.ToUpper(r)]
	if !ok {
		return nil, false
	}
	return []Element(s), true
}

// Supported reports whether r has a pattern.
func Supported(r rune) bool {
	_, ok := symbols[unicode.ToUpper(r)]
	return ok
}
