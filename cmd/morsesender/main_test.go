package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/config"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/morse"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/session"
)

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("MORSESENDER_LOG_PATH", "")
	return dir
}

func TestResolveSettingsDefaults(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	s, err := resolveSettings(cmd, config.FileConfig{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.session.WPM != 12 || s.session.Calibration != 1.0 || s.session.Slots != 6 {
		t.Fatalf("unexpected session defaults %+v", s.session)
	}
	if s.session.Policy != session.ExtendedPolicy {
		t.Fatalf("expected extended policy, got %+v", s.session.Policy)
	}
	if s.practice.GroupSize != 5 || s.practice.RepeatCount != 3 || s.practice.Pause != time.Second {
		t.Fatalf("unexpected practice defaults %+v", s.practice)
	}
	if string(s.practice.Alphabet) != "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" {
		t.Fatalf("unexpected alphabet %q", string(s.practice.Alphabet))
	}
	if s.output.Driver != "console" || !s.history {
		t.Fatalf("unexpected output defaults %+v history=%v", s.output, s.history)
	}
}

func TestResolveSettingsFlagsOverrideConfig(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--wpm", "25", "--pins", "GP2"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	fileCfg := config.FileConfig{
		Keyer: config.KeyerConfig{
			WPM:         intPtr(20),
			Calibration: floatPtr(0.997),
			SpeedPolicy: stringPtr("classic"),
		},
		Practice: config.PracticeConfig{
			Pause: &config.Duration{Duration: 250 * time.Millisecond},
		},
		Output: config.OutputConfig{
			Driver: stringPtr("gpio"),
			Pins:   []string{"GP1", "GP4"},
			MQTT:   config.MQTTConfig{QoS: intPtr(0)},
		},
		History: config.HistoryConfig{Enabled: boolPtr(false)},
	}
	s, err := resolveSettings(cmd, fileCfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.session.WPM != 25 {
		t.Fatalf("expected flag to win, got %d", s.session.WPM)
	}
	if s.session.Calibration != 0.997 || s.session.Policy != session.ClassicPolicy {
		t.Fatalf("expected config values, got %+v", s.session)
	}
	if s.practice.Pause != 250*time.Millisecond {
		t.Fatalf("expected config pause, got %v", s.practice.Pause)
	}
	if s.output.Driver != "gpio" || len(s.output.Pins) != 1 || s.output.Pins[0] != "GP2" {
		t.Fatalf("unexpected output %+v", s.output)
	}
	if s.output.MQTT.QoS != 0 {
		t.Fatalf("expected qos from config, got %d", s.output.MQTT.QoS)
	}
	if s.history {
		t.Fatalf("expected history disabled by config")
	}
}

func TestResolveSettingsValidation(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"--speed-policy", "ludicrous"}, "--speed-policy"},
		{[]string{"--wpm", "0"}, "--wpm"},
		{[]string{"--calibration", "0"}, "--calibration"},
		{[]string{"--memory-slots", "10"}, "--memory-slots"},
		{[]string{"--group-size", "0"}, "--group-size"},
		{[]string{"--alphabet", " "}, "--alphabet"},
		{[]string{"--repeat-count", "0"}, "--repeat-count"},
		{[]string{"--mqtt-qos", "3"}, "--mqtt-qos"},
	}
	for _, tc := range cases {
		cmd := newRootCmd()
		if err := cmd.ParseFlags(tc.args); err != nil {
			t.Fatalf("parse %v: %v", tc.args, err)
		}
		_, err := resolveSettings(cmd, config.FileConfig{})
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%v: expected error naming %s, got %v", tc.args, tc.want, err)
		}
	}
}

func TestParseHistoryConfig(t *testing.T) {
	cfg, err := parseHistoryConfig("group", "2024-03-01", 10)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Kind != model.KindGroup || cfg.Last != 10 || cfg.Since == nil {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := parseHistoryConfig("qso", "", 0); err == nil {
		t.Fatalf("expected kind error")
	}
	if _, err := parseHistoryConfig("", "yesterday", 0); err == nil {
		t.Fatalf("expected since error")
	}
	if _, err := parseHistoryConfig("", "", -1); err == nil {
		t.Fatalf("expected last error")
	}
}

func TestWriteEncoding(t *testing.T) {
	var buf bytes.Buffer
	if err := writeEncoding(&buf, "E", morse.Speed{WPM: 12, Calibration: 1.0}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Pattern: .\n",
		"unit 100.0 ms",
		"1  down  100.0",
		"4  up    400.0",
		"Keyed 100.0 ms of 900.0 ms total.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestConfigTemplateParsesWhenUncommented(t *testing.T) {
	setting := regexp.MustCompile(`(?m)^# ([a-z-]+ = )`)
	body := setting.ReplaceAllString(defaultConfigTemplate(), "$1")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load uncommented template: %v\n%s", err, body)
	}
	if cfg.Keyer.WPM == nil || *cfg.Keyer.WPM != session.DefaultWPM {
		t.Fatalf("expected default wpm in template, got %+v", cfg.Keyer)
	}
	if cfg.Practice.Pause == nil || cfg.Practice.Pause.Duration != time.Second {
		t.Fatalf("expected 1s pause in template, got %+v", cfg.Practice.Pause)
	}
	if len(cfg.Output.Pins) != 3 {
		t.Fatalf("expected template pins, got %v", cfg.Output.Pins)
	}
}

func TestWriteConfigTemplateKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(path, []byte("[keyer]\nwpm = 30\n"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[keyer]\nwpm = 30\n" {
		t.Fatalf("expected existing config to be kept, got %q", string(data))
	}
}

func TestEncodeCommand(t *testing.T) {
	isolateXDG(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"encode", "--wpm", "24", "SOS"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "Pattern: ... --- ...") || !strings.Contains(out.String(), "24 WPM, unit 50.0 ms") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestSendCommandRecordsHistory(t *testing.T) {
	dir := isolateXDG(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"send", "--wpm", "60", "--log-dir", filepath.Join(dir, "logs"), "E"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "Sending: E") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if _, err := os.Stat(config.DefaultDBPath()); err != nil {
		t.Fatalf("expected history database: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "diagnostics.log")); err != nil {
		t.Fatalf("expected diagnostics log: %v", err)
	}

	history := newRootCmd()
	var listing bytes.Buffer
	history.SetOut(&listing)
	history.SetArgs([]string{"history", "--plain"})
	if err := history.Execute(); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(listing.String(), "1 transmissions, 1 characters") {
		t.Fatalf("unexpected history:\n%s", listing.String())
	}
}
