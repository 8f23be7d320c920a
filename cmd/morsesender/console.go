package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/console"
)

func runConsoleCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	rt, err := openRuntime(s, out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			logErrf("%v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	fmt.Fprintf(out, "Morse Sender Version %s\n", version)
	fmt.Fprintln(out, "Type #H for help, * to exit.")
	c := console.New(rt.interp, console.Options{
		In:         cmd.InOrStdin(),
		Out:        out,
		Interrupts: interrupts,
		Color:      term.IsTerminal(int(os.Stdout.Fd())),
	})
	return c.Run(ctx)
}
