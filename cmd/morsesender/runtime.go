package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/command"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/config"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/generator"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/keyer"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/log"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/output"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/session"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/store"
)

// keyerRuntime owns everything a keying command opens.
type keyerRuntime struct {
	interp *command.Interpreter
	line   output.Line
	store  *store.Store
}

func initLog(dirFlag string) {
	dir, err := log.ResolveDir(dirFlag)
	if err != nil {
		logErrf("diagnostics log disabled: %v\n", err)
		return
	}
	log.SetDir(dir)
	if err := log.Init(); err != nil {
		logErrf("diagnostics log disabled: %v\n", err)
	}
}

func openRuntime(s settings, out io.Writer) (*keyerRuntime, error) {
	initLog(s.logDir)

	state, err := session.New(s.session)
	if err != nil {
		log.Close()
		return nil, err
	}
	line, err := output.Open(s.output)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	rt := &keyerRuntime{line: line}
	deps := command.Deps{
		State:     state,
		Player:    keyer.NewPlayer(line),
		Generator: generator.New(),
		Out:       out,
		Practice:  s.practice,
		Version:   version,
	}
	if s.history {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			log.Warnf("history disabled: %v", err)
			logErrf("history disabled: %v\n", err)
		} else {
			rt.store = st
			deps.Recorder = st
		}
	}
	rt.interp = command.NewInterpreter(deps)

	speed := state.Speed()
	log.SessionStart(version, s.output.Driver, state.Policy().Name, speed.WPM, speed.Calibration)
	return rt, nil
}

// Close releases the key line and closes the store and log.
func (rt *keyerRuntime) Close() error {
	log.SessionEnd(rt.interp.Sent())
	var errs []error
	if err := rt.interp.Release(); err != nil {
		errs = append(errs, err)
	}
	if err := rt.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close output: %w", err))
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close db: %w", err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		log.Errorf("shutdown: %v", err)
	}
	log.Close()
	return err
}
