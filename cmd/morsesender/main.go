// Package main provides the CLI entrypoint for morsesender.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/command"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/config"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/generator"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/output"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/session"
)

var version = "dev"

const (
	defaultMQTTTopic = "morsesender/key"
	defaultMQTTQoS   = 1
)

var (
	keyerWPM         int
	keyerCalibration float64
	keyerPolicy      string
	keyerSlots       int

	practiceGroupSize   int
	practiceAlphabet    string
	practiceRepeatCount int
	practicePause       time.Duration

	outputDriver    string
	outputPins      []string
	outputActiveLow bool
	mqttBroker      string
	mqttTopic       string
	mqttClientID    string
	mqttQoS         int

	noHistory bool
	logDir    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "morsesender",
		Short:         "Morse code keyer console",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runConsoleCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&keyerWPM, "wpm", session.DefaultWPM, "initial speed in words per minute")
	flags.Float64Var(&keyerCalibration, "calibration", session.DefaultCalibration, "timing correction factor applied to every element")
	flags.StringVar(&keyerPolicy, "speed-policy", session.ExtendedPolicy.Name, "speed step policy (classic or extended)")
	flags.IntVar(&keyerSlots, "memory-slots", session.DefaultSlots, "number of memory slots (1-9)")
	flags.IntVar(&practiceGroupSize, "group-size", generator.DefaultGroupSize, "characters per random group")
	flags.StringVar(&practiceAlphabet, "alphabet", generator.DefaultAlphabet, "characters drawn for random groups")
	flags.IntVar(&practiceRepeatCount, "repeat-count", command.DefaultRepeatCount, "times [text] is repeated")
	flags.DurationVar(&practicePause, "pause", command.DefaultPause, "pause after each repetition or group")
	flags.StringVar(&outputDriver, "driver", output.DriverConsole, "key line driver: console, gpio, mqtt (comma separated)")
	flags.StringSliceVar(&outputPins, "pins", nil, "GPIO pin names keyed together")
	flags.BoolVar(&outputActiveLow, "active-low", false, "drive GPIO pins low when the key is down")
	flags.StringVar(&mqttBroker, "mqtt-broker", "", "MQTT broker URL for the mqtt driver")
	flags.StringVar(&mqttTopic, "mqtt-topic", defaultMQTTTopic, "MQTT topic for the key state")
	flags.StringVar(&mqttClientID, "mqtt-client-id", "", "MQTT client id")
	flags.IntVar(&mqttQoS, "mqtt-qos", defaultMQTTQoS, "MQTT quality of service (0-2)")
	flags.BoolVar(&noHistory, "no-history", false, "do not record transmissions")
	flags.StringVar(&logDir, "log-dir", "", "diagnostics log directory")

	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// settings are the resolved startup values.
type settings struct {
	session  session.Config
	practice command.Practice
	output   output.Config
	history  bool
	logDir   string
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return resolveSettings(cmd, fileCfg)
}

func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig) (settings, error) {
	applyIntConfig(cmd, "wpm", &keyerWPM, fileCfg.Keyer.WPM)
	applyFloatConfig(cmd, "calibration", &keyerCalibration, fileCfg.Keyer.Calibration)
	applyStringConfig(cmd, "speed-policy", &keyerPolicy, fileCfg.Keyer.SpeedPolicy)
	applyIntConfig(cmd, "memory-slots", &keyerSlots, fileCfg.Keyer.Slots)
	applyIntConfig(cmd, "group-size", &practiceGroupSize, fileCfg.Practice.GroupSize)
	applyStringConfig(cmd, "alphabet", &practiceAlphabet, fileCfg.Practice.Alphabet)
	applyIntConfig(cmd, "repeat-count", &practiceRepeatCount, fileCfg.Practice.RepeatCount)
	if fileCfg.Practice.Pause != nil && !cmd.Flags().Changed("pause") {
		practicePause = fileCfg.Practice.Pause.Duration
	}
	applyStringConfig(cmd, "driver", &outputDriver, fileCfg.Output.Driver)
	if fileCfg.Output.Pins != nil && !cmd.Flags().Changed("pins") {
		outputPins = fileCfg.Output.Pins
	}
	applyBoolConfig(cmd, "active-low", &outputActiveLow, fileCfg.Output.ActiveLow)
	applyStringConfig(cmd, "mqtt-broker", &mqttBroker, fileCfg.Output.MQTT.Broker)
	applyStringConfig(cmd, "mqtt-topic", &mqttTopic, fileCfg.Output.MQTT.Topic)
	applyStringConfig(cmd, "mqtt-client-id", &mqttClientID, fileCfg.Output.MQTT.ClientID)
	applyIntConfig(cmd, "mqtt-qos", &mqttQoS, fileCfg.Output.MQTT.QoS)
	if fileCfg.History.Enabled != nil && !cmd.Flags().Changed("no-history") {
		noHistory = !*fileCfg.History.Enabled
	}
	applyStringConfig(cmd, "log-dir", &logDir, fileCfg.Log.Dir)

	policy, err := session.PolicyByName(keyerPolicy)
	if err != nil {
		return settings{}, fmt.Errorf("--speed-policy: %w", err)
	}
	s := settings{
		session: session.Config{
			WPM:         keyerWPM,
			Calibration: keyerCalibration,
			Slots:       keyerSlots,
			Policy:      policy,
		},
		practice: command.Practice{
			GroupSize:   practiceGroupSize,
			Alphabet:    []rune(practiceAlphabet),
			RepeatCount: practiceRepeatCount,
			Pause:       practicePause,
		},
		output: output.Config{
			Driver:    outputDriver,
			Pins:      outputPins,
			ActiveLow: outputActiveLow,
			MQTT: output.MQTTConfig{
				Broker:   mqttBroker,
				Topic:    mqttTopic,
				ClientID: mqttClientID,
				QoS:      byte(mqttQoS),
			},
		},
		history: !noHistory,
		logDir:  logDir,
	}
	if err := validateSettings(s, mqttQoS); err != nil {
		return settings{}, err
	}
	return s, nil
}

func validateSettings(s settings, qos int) error {
	if s.session.WPM < 1 {
		return fmt.Errorf("--wpm must be >= 1")
	}
	if s.session.Calibration <= 0 {
		return fmt.Errorf("--calibration must be > 0")
	}
	if s.session.Slots < 1 || s.session.Slots > session.MaxSlots {
		return fmt.Errorf("--memory-slots must be between 1 and %d", session.MaxSlots)
	}
	if s.practice.GroupSize <= 0 {
		return fmt.Errorf("--group-size must be > 0")
	}
	if strings.TrimSpace(string(s.practice.Alphabet)) == "" {
		return fmt.Errorf("--alphabet must not be empty")
	}
	if s.practice.RepeatCount <= 0 {
		return fmt.Errorf("--repeat-count must be > 0")
	}
	if s.practice.Pause < 0 {
		return fmt.Errorf("--pause must be >= 0")
	}
	if qos < 0 || qos > 2 {
		return fmt.Errorf("--mqtt-qos must be 0, 1 or 2")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
