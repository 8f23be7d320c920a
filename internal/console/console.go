// Package console runs the interactive line console.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/command"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/log"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Options configures a Console.
type Options struct {
	In  io.Reader
	Out io.Writer
	// Interrupts delivers operator interrupts (SIGINT). Nil disables them.
	Interrupts <-chan os.Signal
	Parser     command.Parser
	// Color enables lipgloss styling of the prompt and errors.
	Color bool
}

// Console reads command lines and executes them one at a time.
type Console struct {
	interp     *command.Interpreter
	in         io.Reader
	out        io.Writer
	interrupts <-chan os.Signal
	parser     command.Parser
	color      bool
}

// New returns a console driving interp.
func New(interp *command.Interpreter, opts Options) *Console {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	parser := opts.Parser
	if parser.Slots == 0 {
		parser.Slots = interp.State().Slots()
	}
	return &Console{
		interp:     interp,
		in:         in,
		out:        out,
		interrupts: opts.Interrupts,
		parser:     parser,
		color:      opts.Color,
	}
}

type lineResult struct {
	line string
	err  error
	eof  bool
}

// Run reads and executes lines until Quit, end of input, an interrupt at
// the prompt, or ctx cancellation. The line is released before Run returns.
func (c *Console) Run(ctx context.Context) (err error) {
	defer func() {
		if rerr := c.interp.Release(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release key line: %w", rerr))
		}
	}()

	stop := make(chan struct{})
	defer close(stop)
	lines := c.readLines(stop)

	for {
		c.prompt()
		var res lineResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case <-c.interrupts:
			fmt.Fprintln(c.out)
			log.Info("interrupt at prompt")
			return nil
		case res = <-lines:
		}
		if res.err != nil {
			return fmt.Errorf("failed to read input: %w", res.err)
		}
		if res.eof {
			fmt.Fprintln(c.out)
			return nil
		}

		cmd, perr := c.parser.Parse(res.line)
		if perr != nil {
			c.reportError(perr)
			continue
		}
		quit, xerr := c.execute(ctx, cmd)
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if xerr != nil {
			log.Errorf("command %T failed: %v", cmd, xerr)
			c.reportError(xerr)
		}
	}
}

func (c *Console) execute(ctx context.Context, cmd command.Command) (bool, error) {
	if c.interrupts == nil {
		return c.interp.Execute(ctx, cmd)
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		mode := isMode(cmd)
		for {
			select {
			case <-done:
				return
			case <-c.interrupts:
				if mode {
					cancel()
					return
				}
				log.Info("interrupt ignored while sending")
			}
		}
	}()
	quit, err := c.interp.Execute(runCtx, cmd)
	close(done)
	<-watched
	if isMode(cmd) {
		c.drainInterrupts()
	}
	return quit, err
}

// drainInterrupts drops presses queued while a mode was stopping so they do
// not end the console at the next prompt.
func (c *Console) drainInterrupts() {
	for {
		select {
		case <-c.interrupts:
			log.Info("extra interrupt after mode stop ignored")
		default:
			return
		}
	}
}

func isMode(cmd command.Command) bool {
	switch cmd.(type) {
	case command.DotCalibration, command.ToneTest:
		return true
	}
	return false
}

func (c *Console) readLines(stop <-chan struct{}) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		reader := bufio.NewReader(c.in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- lineResult{line: strings.TrimRight(line, "\r\n")}:
				case <-stop:
					return
				}
			}
			if err != nil {
				res := lineResult{eof: true}
				if !errors.Is(err, io.EOF) {
					res = lineResult{err: err}
				}
				select {
				case lines <- res:
				case <-stop:
				}
				return
			}
		}
	}()
	return lines
}

func (c *Console) prompt() {
	p := Prompt(c.interp.State().Speed().WPM)
	if c.color {
		p = promptStyle.Render(p)
	}
	fmt.Fprint(c.out, p)
}

func (c *Console) reportError(err error) {
	msg := "Error: " + err.Error()
	if c.color {
		msg = errorStyle.Render(msg)
	}
	fmt.Fprintln(c.out, msg)
}

// Prompt formats the console prompt for wpm.
func Prompt(wpm int) string {
	return fmt.Sprintf("[%d WPM] > ", wpm)
}
