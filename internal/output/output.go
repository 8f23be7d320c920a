// Package output provides key line drivers.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/log"
)

// Driver names accepted by the configuration.
const (
	DriverConsole = "console"
	DriverGPIO    = "gpio"
	DriverMQTT    = "mqtt"
)

// Line is a key line that can be shut down.
type Line interface {
	SetActive(active bool) error
	io.Closer
}

// Console is a line with no hardware behind it. Transitions go to the
// diagnostics log.
type Console struct {
	mu     sync.Mutex
	active bool
	downs  int
}

// NewConsole returns an inactive Console line.
func NewConsole() *Console {
	return &Console{}
}

// SetActive implements keyer.Sink.
func (c *Console) SetActive(active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if active && !c.active {
		c.downs++
	}
	c.active = active
	log.KeyState(DriverConsole, active)
	return nil
}

// Active reports the current line state.
func (c *Console) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Downs counts key-down transitions.
func (c *Console) Downs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downs
}

// Close releases the line.
func (c *Console) Close() error {
	return c.SetActive(false)
}

// Multi keys several lines together.
type Multi []Line

// SetActive writes every line, even after one fails.
func (m Multi) SetActive(active bool) error {
	var errs []error
	for _, line := range m {
		if err := line.SetActive(active); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases and closes every line.
func (m Multi) Close() error {
	var errs []error
	for _, line := range m {
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Config selects and configures the driver.
type Config struct {
	Driver    string
	Pins      []string
	ActiveLow bool
	MQTT      MQTTConfig
}

// Open builds the line described by cfg. A comma separated driver list
// keys several drivers together.
func Open(cfg Config) (Line, error) {
	names := splitDrivers(cfg.Driver)
	if len(names) == 0 {
		names = []string{DriverConsole}
	}
	var lines Multi
	for _, name := range names {
		line, err := openOne(name, cfg)
		if err != nil {
			if cerr := lines.Close(); cerr != nil {
				log.Warnf("failed to close output after open error: %v", cerr)
			}
			return nil, err
		}
		lines = append(lines, line)
	}
	if len(lines) == 1 {
		return lines[0], nil
	}
	return lines, nil
}

func openOne(name string, cfg Config) (Line, error) {
	switch name {
	case DriverConsole:
		return NewConsole(), nil
	case DriverGPIO:
		return OpenGPIO(cfg.Pins, cfg.ActiveLow)
	case DriverMQTT:
		return DialMQTT(cfg.MQTT)
	default:
		return nil, fmt.Errorf("unknown output driver %q (use %s, %s or %s)", name, DriverConsole, DriverGPIO, DriverMQTT)
	}
}

func splitDrivers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
