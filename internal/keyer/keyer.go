// Package keyer drives an output line from key events.
package keyer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/morse"
)

// Sink is the physical or virtual key line.
type Sink interface {
	SetActive(active bool) error
}

// Waiter blocks for d or until ctx is done.
type Waiter func(ctx context.Context, d time.Duration) error

// Sleep is the default Waiter.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Player owns the line state. It calls SetActive only on transitions and
// leaves the line inactive whenever one of its methods returns.
type Player struct {
	sink   Sink
	wait   Waiter
	active bool
}

// Option configures a Player.
type Option func(*Player)

// WithWaiter replaces the timer-based wait.
func WithWaiter(w Waiter) Option {
	return func(p *Player) { p.wait = w }
}

// NewPlayer returns a Player keying sink.
func NewPlayer(sink Sink, opts ...Option) *Player {
	p := &Player{sink: sink, wait: Sleep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Active reports the last state written to the sink.
func (p *Player) Active() bool {
	return p.active
}

// Play keys events in order. A cancelled ctx aborts the sequence; the line
// is released either way.
func (p *Player) Play(ctx context.Context, events []morse.KeyEvent) (err error) {
	defer func() { err = p.finish(err) }()
	for _, ev := range events {
		if err := p.set(ev.Active); err != nil {
			return err
		}
		if err := p.wait(ctx, ev.Duration); err != nil {
			return err
		}
	}
	return nil
}

// Pause holds the line inactive for d.
func (p *Player) Pause(ctx context.Context, d time.Duration) (err error) {
	defer func() { err = p.finish(err) }()
	if err := p.set(false); err != nil {
		return err
	}
	return p.wait(ctx, d)
}

// DotCalibration sends dot, gap, dot, gap... until ctx is done. Cancellation
// ends the mode normally and returns nil.
func (p *Player) DotCalibration(ctx context.Context, s morse.Speed) (err error) {
	defer func() { err = p.finish(ignoreCancel(ctx, err)) }()
	t := morse.TimingFor(s)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.set(true); err != nil {
			return err
		}
		if err := p.wait(ctx, t.Dot); err != nil {
			return err
		}
		if err := p.set(false); err != nil {
			return err
		}
		if err := p.wait(ctx, t.IntraSymbolGap); err != nil {
			return err
		}
	}
}

// ToneTest holds the line active until ctx is done. Cancellation ends the
// mode normally and returns nil.
func (p *Player) ToneTest(ctx context.Context) (err error) {
	defer func() { err = p.finish(ignoreCancel(ctx, err)) }()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.set(true); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

// Release forces the line inactive.
func (p *Player) Release() error {
	return p.finish(nil)
}

func (p *Player) set(active bool) error {
	if p.active == active {
		return nil
	}
	if err := p.sink.SetActive(active); err != nil {
		// A failed key-down may have reached part of the line.
		p.active = p.active || active
		return fmt.Errorf("set key %s: %w", stateName(active), err)
	}
	p.active = active
	return nil
}

// finish releases the line, retrying the write even after a failed one.
func (p *Player) finish(err error) error {
	if !p.active {
		return err
	}
	if rerr := p.sink.SetActive(false); rerr != nil {
		return errors.Join(err, fmt.Errorf("release key: %w", rerr))
	}
	p.active = false
	return err
}

func ignoreCancel(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func stateName(active bool) string {
	if active {
		return "down"
	}
	return "up"
}
