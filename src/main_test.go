package main

import (
	"os"
	"path/filepath"
	"testing"

	"retrolife/src/universe"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "life.cue")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInitOptionsDefaults(t *testing.T) {
	eo, o, err := initOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if *o != universe.DefaultOptions {
		t.Fatalf("got %+v", o)
	}
	if eo.logLevel != defLogLevel || eo.interactive {
		t.Fatalf("got %+v", eo)
	}
}

func TestInitOptionsConfigAndFlags(t *testing.T) {
	p := writeConfig(t, `
width:    80
height:   30
fill:     "beacon"
logLevel: "warn"
`)
	eo, o, err := initOptions([]string{"--config", p, "-y", "12"})
	if err != nil {
		t.Fatal(err)
	}
	if o.Width != 80 || o.Height != 12 || o.Fill != "beacon" {
		t.Fatalf("got %+v", o)
	}
	if eo.logLevel != "warn" {
		t.Fatalf("log level %q", eo.logLevel)
	}

	eo, _, err = initOptions([]string{"-c=" + p, "-l", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if eo.logLevel != "debug" {
		t.Fatalf("log level %q", eo.logLevel)
	}
}

func TestInitOptionsFlagsResetConfig(t *testing.T) {
	p := writeConfig(t, `
maxSteps:       500
density:        0.8
stopWhenStable: true
`)
	_, o, err := initOptions([]string{"-c", p})
	if err != nil {
		t.Fatal(err)
	}
	if o.MaxSteps != 500 || o.Density != 0.8 || !o.StopWhenStable {
		t.Fatalf("config not applied: %+v", o)
	}

	// flags given their default values still win
	_, o, err = initOptions([]string{"-c", p, "--maxSteps", "0", "--density", "0.3", "--stopWhenStable=false"})
	if err != nil {
		t.Fatal(err)
	}
	if o.MaxSteps != 0 || o.Density != 0.3 || o.StopWhenStable {
		t.Fatalf("flags did not override the config: %+v", o)
	}
}

func TestInitOptionsRandomFlag(t *testing.T) {
	_, o, err := initOptions([]string{"-r"})
	if err != nil {
		t.Fatal(err)
	}
	if o.Fill != universe.FillRandom {
		t.Fatalf("fill %q", o.Fill)
	}
}

func TestInitOptionsInvalid(t *testing.T) {
	for name, args := range map[string][]string{
		"width":     {"-x", "0"},
		"density":   {"-d", "2"},
		"fill":      {"-f", "spaceship"},
		"log level": {"-l", "loud"},
		"config":    {"-c", "/nonexistent/life.cue"},
	} {
		if _, _, err := initOptions(args); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestConfigPath(t *testing.T) {
	for expected, args := range map[string][]string{
		"a.cue": {"-x", "10", "-c", "a.cue"},
		"b.cue": {"--config", "b.cue", "-n"},
		"c.cue": {"-c=c.cue"},
		"d.cue": {"--config=d.cue"},
		"":      {"-x", "10", "--", "-c", "e.cue"},
	} {
		if got := configPath(args); got != expected {
			t.Fatalf("%v: got %q", args, got)
		}
	}
	if configPath([]string{"-c"}) != "" {
		t.Fatal("dangling flag")
	}
}

func TestValidFill(t *testing.T) {
	for _, f := range []string{"demo", "random", "empty", "glider", "sample"} {
		if !validFill(f) {
			t.Fatalf("%q rejected", f)
		}
	}
	if validFill("") || validFill("gun") {
		t.Fatal("unknown fill accepted")
	}
}

func TestNewLoggerFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "life.log")
	logger, closeLog, err := newLogger(&EnvOptions{logLevel: "info", logFile: p})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello")
	closeLog()
	content, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(content) == 0 {
		t.Fatal("nothing logged")
	}
}
