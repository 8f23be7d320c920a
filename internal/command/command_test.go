package command

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/session"
)

func TestParseClassification(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"*", Quit{}},
		{"  *  ", Quit{}},
		{"+", AdjustSpeed{Step: session.StepUp}},
		{"++", AdjustSpeed{Step: session.StepUpFast}},
		{"-", AdjustSpeed{Step: session.StepDown}},
		{"--", AdjustSpeed{Step: session.StepDownFast}},
		{"@", DotCalibration{}},
		{"#", ToneTest{}},
		{"#H", Help{}},
		{"#h", Help{}},
		{"[CQ CQ]", RepeatText{Text: "CQ CQ"}},
		{"[]", RepeatText{Text: ""}},
		{"{5}", RandomGroups{Count: 5}},
		{"{ 12 }", RandomGroups{Count: 12}},
		{"{0}", RandomGroups{Count: 0}},
		{"!3TEST", StoreMemory{Slot: 3, Text: "TEST"}},
		{"!1  CQ DE ZS6BVR  ", StoreMemory{Slot: 1, Text: "CQ DE ZS6BVR"}},
		{"!6", StoreMemory{Slot: 6, Text: ""}},
		{"$3", RecallMemory{Slot: 3}},
		{"$1ignored", RecallMemory{Slot: 1}},
		{"hello world", SendText{Text: "hello world"}},
		{"+++", SendText{Text: "+++"}},
		{"@@", SendText{Text: "@@"}},
		{"#HELP", SendText{Text: "#HELP"}},
		{"[open", SendText{Text: "[open"}},
		{"{", SendText{Text: "{"}},
		{"[", SendText{Text: "["}},
		{"", SendText{Text: ""}},
	}
	for _, tc := range cases {
		got, err := Parse(tc.line)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tc.line, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Parse(%q): expected %#v, got %#v", tc.line, tc.want, got)
		}
	}
}

func TestParseSlotValidation(t *testing.T) {
	for slot := '1'; slot <= '6'; slot++ {
		if _, err := Parse("!" + string(slot) + "text"); err != nil {
			t.Fatalf("expected !%c to be accepted: %v", slot, err)
		}
		if _, err := Parse("$" + string(slot)); err != nil {
			t.Fatalf("expected $%c to be accepted: %v", slot, err)
		}
	}
	for _, line := range []string{"!7text", "!0", "!", "!x", "$0", "$7", "$", "$a"} {
		if _, err := Parse(line); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("Parse(%q): expected ErrInvalidSlot, got %v", line, err)
		}
	}
}

func TestParserHonoursSlotCount(t *testing.T) {
	p := Parser{Slots: 3}
	if _, err := p.Parse("$3"); err != nil {
		t.Fatalf("expected $3 to be accepted: %v", err)
	}
	if _, err := p.Parse("$4"); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected $4 to be rejected, got %v", err)
	}
}

func TestParseGroupCountErrors(t *testing.T) {
	for _, line := range []string{"{}", "{five}", "{-1}", "{1.5}", "{5 5}"} {
		if _, err := Parse(line); !errors.Is(err, ErrInvalidGroupCount) {
			t.Fatalf("Parse(%q): expected ErrInvalidGroupCount, got %v", line, err)
		}
	}
}
