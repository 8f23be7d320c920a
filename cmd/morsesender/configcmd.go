package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/command"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/config"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/generator"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/session"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# morsesender configuration
# Uncomment a value to enable it. CLI flags override config values.

[keyer]
# wpm = %d                    # Initial speed in words per minute
# calibration = %.1f          # Timing correction factor (e.g. 0.997)
# speed-policy = %q   # classic (+/-5) or extended (+/-1, ++/-- 5)
# memory-slots = %d           # Number of memory slots (1-9)

[practice]
# group-size = %d             # Characters per random group
# alphabet = %q
# repeat-count = %d           # Times [text] is repeated
# pause = %q                # Pause after each repetition or group

[output]
# driver = "console"          # console, gpio, mqtt; comma separated to key several
# pins = ["GP1", "GP4", "GP5"]
# active-low = false

[output.mqtt]
# broker = "tcp://localhost:1883"
# topic = %q
# client-id = "morsesender"
# qos = %d

[history]
# enabled = true              # Record transmissions for the history command

[log]
# dir = ""                    # Diagnostics log directory
`,
		session.DefaultWPM,
		session.DefaultCalibration,
		session.ExtendedPolicy.Name,
		session.DefaultSlots,
		generator.DefaultGroupSize,
		generator.DefaultAlphabet,
		command.DefaultRepeatCount,
		command.DefaultPause.String(),
		defaultMQTTTopic,
		defaultMQTTQoS,
	)
}
