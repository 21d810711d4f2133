package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"retrolife/src/universe"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoaderAssignFirst(t *testing.T) {
	first := writeFile(t, "first.cue", `fill: "glider"`)
	second := writeFile(t, "second.cue", `
fill: "block"
width: 30
`)
	loader := NewLoader([]string{first, second}, Schema)

	var fill string
	if err := loader.AssignFirst("fill", &fill); err != nil {
		t.Fatal(err)
	}
	if fill != "glider" {
		t.Fatalf("got %q", fill)
	}

	var width int
	if err := loader.AssignFirst("width", &width); err != nil {
		t.Fatal(err)
	}
	if width != 30 {
		t.Fatalf("got %d", width)
	}

	err := loader.AssignFirst("height", &width)
	if !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLoaderSchema(t *testing.T) {
	p := writeFile(t, "bad.cue", `colour: "green"`)
	var s string
	if err := NewLoader([]string{p}, Schema).AssignFirst("fill", &s); err == nil {
		t.Fatal("unknown field accepted")
	}

	p = writeFile(t, "bad.cue", `width: -1`)
	if _, err := Load(p); err == nil {
		t.Fatal("negative width accepted")
	}

	p = writeFile(t, "bad.cue", `density: 1.5`)
	if _, err := Load(p); err == nil {
		t.Fatal("density above 1 accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.cue")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadApply(t *testing.T) {
	p := writeFile(t, "life.cue", `
width:          64
height:         32
interval:       "50ms"
maxSteps:       500
density:        0.5
seed:           7
bands:          4
fill:           "random"
stopWhenStable: true
logLevel:       "debug"
`)
	f, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if f.LogLevel == nil || *f.LogLevel != "debug" || f.LogFile != nil {
		t.Fatalf("log fields: %v %v", f.LogLevel, f.LogFile)
	}

	o := universe.DefaultOptions
	if err := f.Apply(&o); err != nil {
		t.Fatal(err)
	}
	expected := universe.Options{
		Width:           64,
		Height:          32,
		Interval:        time.Millisecond * 50,
		MaxSteps:        500,
		MaxSkippedTicks: universe.DefMaxSkippedTicks,
		Density:         0.5,
		Seed:            7,
		Bands:           4,
		Fill:            universe.FillRandom,
		StopWhenStable:  true,
	}
	if o != expected {
		t.Fatalf("got %+v", o)
	}
}

func TestApplyBadInterval(t *testing.T) {
	p := writeFile(t, "life.cue", `interval: "soon"`)
	f, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	o := universe.DefaultOptions
	if err := f.Apply(&o); err == nil {
		t.Fatal("expected error")
	}
}
