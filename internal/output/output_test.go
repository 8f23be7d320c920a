package output

import (
	"errors"
	"strings"
	"testing"
)

type fakeLine struct {
	states []bool
	setErr error
	closed bool
}

func (f *fakeLine) SetActive(active bool) error {
	f.states = append(f.states, active)
	return f.setErr
}

func (f *fakeLine) Close() error {
	f.closed = true
	return f.SetActive(false)
}

func TestConsoleCountsKeyDowns(t *testing.T) {
	c := NewConsole()
	for _, active := range []bool{true, true, false, true, false} {
		if err := c.SetActive(active); err != nil {
			t.Fatalf("set active: %v", err)
		}
	}
	if c.Downs() != 2 {
		t.Fatalf("expected 2 key downs, got %d", c.Downs())
	}
	if err := c.SetActive(true); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if c.Active() {
		t.Fatalf("expected close to release the line")
	}
}

func TestMultiWritesEveryLine(t *testing.T) {
	boom := errors.New("stuck relay")
	a := &fakeLine{setErr: boom}
	b := &fakeLine{}
	m := Multi{a, b}

	if err := m.SetActive(true); !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(b.states) != 1 || !b.states[0] {
		t.Fatalf("expected second line to be keyed despite first failure, got %v", b.states)
	}
	if err := m.Close(); !errors.Is(err, boom) {
		t.Fatalf("expected close error, got %v", err)
	}
	if !a.closed || !b.closed || b.states[len(b.states)-1] {
		t.Fatalf("expected every line closed inactive")
	}
}

func TestOpenConsoleDefault(t *testing.T) {
	line, err := Open(Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := line.(*Console); !ok {
		t.Fatalf("expected console line, got %T", line)
	}
	line, err = Open(Config{Driver: " console , console "})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if m, ok := line.(Multi); !ok || len(m) != 2 {
		t.Fatalf("expected two console lines, got %T", line)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "console,serial"})
	if err == nil || !strings.Contains(err.Error(), "serial") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestOpenGPIONeedsPins(t *testing.T) {
	if _, err := Open(Config{Driver: DriverGPIO}); err == nil {
		t.Fatalf("expected error for gpio without pins")
	}
}

func TestOpenMQTTNeedsBroker(t *testing.T) {
	if _, err := Open(Config{Driver: DriverMQTT}); err == nil {
		t.Fatalf("expected error for mqtt without broker")
	}
	if _, err := DialMQTT(MQTTConfig{Broker: "tcp://localhost:1883"}); err == nil {
		t.Fatalf("expected error for mqtt without topic")
	}
}
