package command

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/generator"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/keyer"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/log"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/morse"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/session"
)

// Practice defaults.
const (
	DefaultRepeatCount = 3
	DefaultPause       = time.Second
)

// Recorder stores keyed messages. A nil Recorder disables history.
type Recorder interface {
	RecordTransmission(ctx context.Context, tx model.Transmission) (int64, error)
}

// Practice configures repeat and random-group runs.
type Practice struct {
	GroupSize   int
	Alphabet    []rune
	RepeatCount int
	Pause       time.Duration
}

// DefaultPractice returns 5-rune groups over A-Z0-9, three repeats and one
// second pauses.
func DefaultPractice() Practice {
	return Practice{
		GroupSize:   generator.DefaultGroupSize,
		Alphabet:    []rune(generator.DefaultAlphabet),
		RepeatCount: DefaultRepeatCount,
		Pause:       DefaultPause,
	}
}

// Interpreter executes commands against a session.
type Interpreter struct {
	state    *session.State
	player   *keyer.Player
	gen      *generator.Generator
	out      io.Writer
	practice Practice
	recorder Recorder
	version  string
	now      func() time.Time
	sent     int
}

// Deps bundles the collaborators of an Interpreter.
type Deps struct {
	State     *session.State
	Player    *keyer.Player
	Generator *generator.Generator
	Out       io.Writer
	Practice  Practice
	Recorder  Recorder
	Version   string
}

// NewInterpreter wires an Interpreter. Zero practice fields take defaults.
func NewInterpreter(d Deps) *Interpreter {
	practice := d.Practice
	defaults := DefaultPractice()
	if practice.GroupSize <= 0 {
		practice.GroupSize = defaults.GroupSize
	}
	if len(practice.Alphabet) == 0 {
		practice.Alphabet = defaults.Alphabet
	}
	if practice.RepeatCount <= 0 {
		practice.RepeatCount = defaults.RepeatCount
	}
	if practice.Pause < 0 {
		practice.Pause = defaults.Pause
	}
	gen := d.Generator
	if gen == nil {
		gen = generator.New()
	}
	out := d.Out
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{
		state:    d.State,
		player:   d.Player,
		gen:      gen,
		out:      out,
		practice: practice,
		recorder: d.Recorder,
		version:  d.Version,
		now:      time.Now,
	}
}

// State returns the session the interpreter mutates.
func (in *Interpreter) State() *session.State {
	return in.state
}

// Release forces the key line inactive.
func (in *Interpreter) Release() error {
	return in.player.Release()
}

// Sent returns the number of messages keyed so far.
func (in *Interpreter) Sent() int {
	return in.sent
}

// Execute runs cmd to completion. For DotCalibration and ToneTest, ctx
// cancellation is the normal way to end the mode. quit reports a Quit
// command.
func (in *Interpreter) Execute(ctx context.Context, cmd Command) (quit bool, err error) {
	switch c := cmd.(type) {
	case Quit:
		return true, nil
	case AdjustSpeed:
		in.printf("WPM: %d\n", in.state.Adjust(c.Step))
		return false, nil
	case DotCalibration:
		return false, in.dotMode(ctx)
	case ToneTest:
		return false, in.toneMode(ctx)
	case Help:
		in.printHelp()
		return false, nil
	case RepeatText:
		return false, in.repeat(ctx, c.Text)
	case RandomGroups:
		return false, in.groups(ctx, c.Count)
	case StoreMemory:
		if err := in.state.Store(c.Slot, c.Text); err != nil {
			return false, err
		}
		in.printf("Mem%d stored.\n", c.Slot)
		return false, nil
	case RecallMemory:
		text, err := in.state.Recall(c.Slot)
		if err != nil {
			return false, err
		}
		in.printf("%s\n", text)
		return false, in.send(ctx, model.KindMemory, text)
	case SendText:
		in.printf("Sending: %s\n", c.Text)
		return false, in.send(ctx, model.KindText, c.Text)
	default:
		return false, fmt.Errorf("unsupported command %T", cmd)
	}
}

func (in *Interpreter) send(ctx context.Context, kind model.Kind, text string) error {
	speed := in.state.Speed()
	events := morse.Encode(text, speed)
	started := in.now()
	err := in.player.Play(ctx, events)
	in.sent++

	keyed, total := morse.Totals(events)
	chars := utf8.RuneCountInString(text)
	log.Transmission(string(kind), chars, speed.WPM, keyed, total, err == nil)
	if in.recorder != nil {
		tx := model.Transmission{
			SentAt:      started,
			Kind:        kind,
			Text:        text,
			WPM:         speed.WPM,
			Calibration: speed.Calibration,
			Chars:       chars,
			KeyedMs:     keyed.Milliseconds(),
			DurationMs:  total.Milliseconds(),
			Completed:   err == nil,
		}
		// Recording failures only reach the log.
		if _, rerr := in.recorder.RecordTransmission(context.WithoutCancel(ctx), tx); rerr != nil {
			log.Errorf("failed to record transmission: %v", rerr)
		}
	}
	if err != nil {
		return fmt.Errorf("send %q: %w", text, err)
	}
	return nil
}

func (in *Interpreter) repeat(ctx context.Context, text string) error {
	for i := 0; i < in.practice.RepeatCount; i++ {
		if err := in.send(ctx, model.KindRepeat, text); err != nil {
			return err
		}
		if err := in.player.Pause(ctx, in.practice.Pause); err != nil {
			return err
		}
	}
	return nil
}

// groups draws each group just before it is keyed, so count only bounds the
// loop.
func (in *Interpreter) groups(ctx context.Context, count int) error {
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		group := in.gen.Group(in.practice.GroupSize, in.practice.Alphabet)
		in.printf("%s\n", group)
		if err := in.send(ctx, model.KindGroup, group); err != nil {
			return err
		}
		if err := in.player.Pause(ctx, in.practice.Pause); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) dotMode(ctx context.Context) error {
	speed := in.state.Speed()
	in.printf("\nDot mode (Calibration) - Version %s\n", in.version)
	in.printf("Press CTRL+C to stop.\n")
	for _, ref := range morse.ReferenceDots(speed.Calibration) {
		in.printf("%d WPM → %.1f ms per dot\n", ref.WPM, ref.Millis)
	}
	started := in.now()
	err := in.player.DotCalibration(ctx, speed)
	log.ModeStopped("dot", in.now().Sub(started))
	in.printf("\nStopped dot mode.\n")
	return err
}

func (in *Interpreter) toneMode(ctx context.Context) error {
	in.printf("\nTone mode - Version %s\n", in.version)
	in.printf("Press CTRL+C to stop.\n")
	started := in.now()
	err := in.player.ToneTest(ctx)
	log.ModeStopped("tone", in.now().Sub(started))
	in.printf("\nStopped tone mode.\n")
	return err
}

type helpEntry struct {
	keys string
	desc string
}

func (in *Interpreter) helpEntries() []helpEntry {
	slots := in.state.Slots()
	return []helpEntry{
		{"*", "Exit the program"},
		{"+ or ++ or - or --", "Increase/decrease speed (WPM)"},
		{"@", "Send continuous dots (scope calibration)"},
		{"#", "Send continuous tone (frequency counter)"},
		{"#H", "Show this help message"},
		{"[text]", fmt.Sprintf("Repeat text %d times with pauses", in.practice.RepeatCount)},
		{"{N}", fmt.Sprintf("Send N random %d-character groups", in.practice.GroupSize)},
		{fmt.Sprintf("!1–!%d", slots), fmt.Sprintf("Store text into memory slot 1–%d", slots)},
		{fmt.Sprintf("$1–$%d", slots), fmt.Sprintf("Send text from memory slot 1–%d", slots)},
		{"Any other text", "Sent as Morse code"},
	}
}

func (in *Interpreter) printHelp() {
	entries := in.helpEntries()
	width := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(e.keys); w > width {
			width = w
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\nMorse Sender Version %s\n", in.version)
	b.WriteString("\nCommand Reference:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s  %s\n", runewidth.FillRight(e.keys, width), e.desc)
	}
	b.WriteString("\n")
	in.printf("%s", b.String())
}

func (in *Interpreter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(in.out, format, args...)
}
