package output

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/log"
)

// Pin is the part of gpio.PinIO the GPIO line needs.
type Pin interface {
	Name() string
	Out(l gpio.Level) error
}

// GPIO keys one or more pins together, e.g. a relay plus indicator LEDs.
type GPIO struct {
	pins      []Pin
	activeLow bool
}

// OpenGPIO initializes the host drivers and resolves pins by name
// ("GPIO17", "GP1", "17"). Every pin starts inactive.
func OpenGPIO(names []string, activeLow bool) (*GPIO, error) {
	if len(names) == 0 {
		return nil, errors.New("gpio driver needs at least one pin")
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize gpio host: %w", err)
	}
	pins := make([]Pin, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("gpio pin %q not found", name)
		}
		pins = append(pins, p)
	}
	return NewGPIO(pins, activeLow)
}

// NewGPIO wraps already resolved pins and drives them inactive.
func NewGPIO(pins []Pin, activeLow bool) (*GPIO, error) {
	g := &GPIO{pins: pins, activeLow: activeLow}
	if err := g.SetActive(false); err != nil {
		return nil, err
	}
	return g, nil
}

// SetActive implements keyer.Sink.
func (g *GPIO) SetActive(active bool) error {
	level := gpio.Level(active != g.activeLow)
	var errs []error
	for _, p := range g.pins {
		if err := p.Out(level); err != nil {
			errs = append(errs, fmt.Errorf("pin %s: %w", p.Name(), err))
		}
	}
	log.KeyState(DriverGPIO, active)
	return errors.Join(errs...)
}

// Close leaves every pin inactive.
func (g *GPIO) Close() error {
	return g.SetActive(false)
}
