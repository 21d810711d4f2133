package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/integrii/flaggy"

	"retrolife/src/config"
	"retrolife/src/life"
	"retrolife/src/logs"
	"retrolife/src/universe"
	"retrolife/src/view"
)

const (
	defLogLevel    = "info"
	defLogFileName = "retrolife.log"
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	configPath  string
	logLevel    string
	logFile     string
	journal     bool
}

func main() {
	eo, uo, err := initOptions(os.Args[1:])
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	logger, closeLog, err := newLogger(eo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	u := universe.New(uo, nil, logger)

	if eo.interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
		u.Close()
		return
	}

	out := view.NewConsoleOut(os.Stdout, logger, 10, true)
	u.RegisterViewer(out)
	if uo.MaxSteps == 0 && !uo.StopWhenStable {
		logger.Info("no step limit, press ^C to stop")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	out.Start()
	if err := u.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation stopped", "error", err)
	}
	u.Close()
}

//initOptions merges defaults, the configuration file and the flags.
//The file is applied before parsing, so every given flag overrides it
func initOptions(args []string) (eo *EnvOptions, uo *universe.Options, err error) {

	o := universe.DefaultOptions
	eo = &EnvOptions{logLevel: defLogLevel}
	flaggy.DefaultParser = newParser(&o, eo)

	if path := configPath(args); path != "" {
		if err = applyConfig(path, &o, eo); err != nil {
			return eo, nil, err
		}
	}
	if err = flaggy.DefaultParser.ParseArgs(args); err != nil {
		return eo, nil, err
	}
	if eo.randomData {
		o.Fill = universe.FillRandom
	}
	if err = validateOptions(&o, eo); err != nil {
		return eo, nil, err
	}
	return eo, &o, nil
}

func newParser(uo *universe.Options, eo *EnvOptions) *flaggy.Parser {
	p := flaggy.NewParser("retrolife")
	p.Description = "Conway's Game of Life on a terminal desktop"
	p.ShowHelpOnUnexpected = true
	p.Int(&uo.Width, "x", "width", "Width of a simulation field")
	p.Int(&uo.Height, "y", "height", "Height of a simulation field")
	p.Duration(&uo.Interval, "i", "interval", "Auto-run speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	p.Int(&uo.MaxSteps, "s", "maxSteps", "Finish auto-run at this generation, 0 for no limit")
	p.Int(&uo.MaxSkippedTicks, "k", "maxSkippedTicks", "Finish auto-run when it falls this many ticks behind, 0 to never finish")
	p.Float64(&uo.Density, "d", "density", "Live cell probability for random data, from 0 to 1")
	p.Int64(&uo.Seed, "", "seed", "Random seed, 0 seeds from the clock")
	p.Int(&uo.Bands, "b", "bands", "Row bands computed in parallel on each step")
	p.String(&uo.Fill, "f", "fill", "Initial content ["+strings.Join(fills(), "|")+"]")
	p.Bool(&uo.StopWhenStable, "", "stopWhenStable", "Finish auto-run when the field stops changing")
	p.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	p.Bool(&eo.randomData, "r", "random", "Settle with random data, same as --fill random")
	p.String(&eo.configPath, "c", "config", "CUE configuration file, flags override its values")
	p.String(&eo.logLevel, "l", "logLevel", "Log level [debug|info|warn|error]")
	p.String(&eo.logFile, "", "logFile", "Log file, interactive mode logs to "+defLogFileName+" by default")
	p.Bool(&eo.journal, "", "journal", "Also log to the systemd journal")
	return p
}

//configPath finds the configuration file among the arguments ahead of flag parsing
func configPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ""
		case a == "-c" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

func applyConfig(path string, o *universe.Options, eo *EnvOptions) error {
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := f.Apply(o); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if f.LogLevel != nil {
		eo.logLevel = *f.LogLevel
	}
	if f.LogFile != nil {
		eo.logFile = *f.LogFile
	}
	return nil
}

func validateOptions(o *universe.Options, eo *EnvOptions) error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid field size %vx%v", o.Width, o.Height)
	}
	if o.Density < 0 || o.Density > 1 {
		return fmt.Errorf("density %v is outside [0, 1]", o.Density)
	}
	if !validFill(o.Fill) {
		return fmt.Errorf("unknown fill %q", o.Fill)
	}
	if _, err := logs.ParseLevel(eo.logLevel); err != nil {
		return err
	}
	return nil
}

func fills() []string {
	return append([]string{universe.FillDemo, universe.FillRandom, universe.FillEmpty}, life.PatternNames()...)
}

func validFill(fill string) bool {
	for _, f := range fills() {
		if f == fill {
			return true
		}
	}
	return false
}

//newLogger keeps the terminal free for the interactive UI by logging to a file
func newLogger(eo *EnvOptions) (*slog.Logger, func(), error) {
	level, err := logs.ParseLevel(eo.logLevel)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	closeLog := func() {}

	fileName := eo.logFile
	if fileName == "" && eo.interactive {
		fileName = defLogFileName
	}
	if fileName != "" {
		f, err := logs.OpenFile(fileName)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { _ = f.Close() }
	}

	return logs.New(logs.Options{
		Writer:  w,
		Level:   level,
		Journal: eo.journal,
	}), closeLog, nil
}
