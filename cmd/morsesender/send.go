package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/command"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/morse"
)

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send [text...]",
		Short: "Key a message once and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSendCmd,
	}
}

func runSendCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rt, err := openRuntime(s, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			logErrf("%v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err = rt.interp.Execute(ctx, command.SendText{Text: strings.Join(args, " ")})
	return err
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [text...]",
		Short: "Print the Morse pattern and timing of a message without keying",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEncodeCmd,
	}
}

func runEncodeCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	speed := morse.Speed{WPM: s.session.WPM, Calibration: s.session.Calibration}
	if err := speed.Validate(); err != nil {
		return err
	}
	return writeEncoding(cmd.OutOrStdout(), strings.Join(args, " "), speed)
}

func writeEncoding(w io.Writer, text string, speed morse.Speed) error {
	events := morse.Encode(text, speed)
	keyed, total := morse.Totals(events)

	var b strings.Builder
	fmt.Fprintf(&b, "Text:    %s\n", text)
	fmt.Fprintf(&b, "Pattern: %s\n", morse.Pattern(text))
	fmt.Fprintf(&b, "Speed:   %d WPM, unit %.1f ms\n\n", speed.WPM, speed.UnitMillis())

	headers := []string{"#", "Line", "ms"}
	rows := make([][]string, 0, len(events))
	for i, ev := range events {
		state := "up"
		if ev.Active {
			state = "down"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			state,
			strconv.FormatFloat(float64(ev.Duration.Microseconds())/1000, 'f', 1, 64),
		})
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	for _, row := range append([][]string{headers}, rows...) {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			runewidth.FillLeft(row[0], widths[0]),
			runewidth.FillRight(row[1], widths[1]),
			runewidth.FillLeft(row[2], widths[2]))
	}
	fmt.Fprintf(&b, "\nKeyed %.1f ms of %.1f ms total.\n",
		float64(keyed.Microseconds())/1000, float64(total.Microseconds())/1000)

	_, err := io.WriteString(w, b.String())
	return err
}
