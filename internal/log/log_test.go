package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(wd, "logs"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv(EnvLogPath, "/tmp/morse-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/morse-env-log" {
		t.Errorf("got %q, want /tmp/morse-env-log", got)
	}
}

func TestResolveDirXDGState(t *testing.T) {
	t.Setenv(EnvLogPath, "")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/state/morsesender" {
		t.Errorf("got %q, want /tmp/state/morsesender", got)
	}
}

func TestInitWritesFile(t *testing.T) {
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	SessionStart("test", "console", "extended", 12, 1.0)
	Transmission("text", 3, 12, 900*time.Millisecond, 2*time.Second, true)
	Close()

	data, err := os.ReadFile(filepath.Join(tmp, "diagnostics.log"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"session_start", "driver=console", "transmission", "kind=text", "completed=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestHelpersAreNoopsBeforeInit(t *testing.T) {
	Close()
	Info("dropped")
	Warnf("dropped %d", 1)
	Errorf("dropped %d", 2)
	ModeStopped("dot", time.Second)
	KeyState("console", true)
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Close)

	ModeStopped("tone", 1500*time.Millisecond)
	if !strings.Contains(buf.String(), "mode_stopped") || !strings.Contains(buf.String(), "mode=tone") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}

func TestInitWithoutDir(t *testing.T) {
	SetDir("")
	if err := Init(); err == nil {
		Close()
		t.Fatalf("expected error without a directory")
	}
}
