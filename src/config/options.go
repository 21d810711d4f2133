package config

import (
	"errors"
	"fmt"
	"time"

	"retrolife/src/universe"
)

//Schema describes the accepted configuration file
const Schema = `
width?:           int & >0
height?:          int & >0
interval?:        string
maxSteps?:        int & >=0
maxSkippedTicks?: int & >=0
density?:         number & >=0 & <=1
seed?:            int
bands?:           int & >=0
fill?:            string
stopWhenStable?:  bool
logLevel?:        string
logFile?:         string
`

//File mirrors the configuration file, unset fields keep their current value
type File struct {
	Width           *int     `json:"width"`
	Height          *int     `json:"height"`
	Interval        *string  `json:"interval"`
	MaxSteps        *int     `json:"maxSteps"`
	MaxSkippedTicks *int     `json:"maxSkippedTicks"`
	Density         *float64 `json:"density"`
	Seed            *int64   `json:"seed"`
	Bands           *int     `json:"bands"`
	Fill            *string  `json:"fill"`
	StopWhenStable  *bool    `json:"stopWhenStable"`
	LogLevel        *string  `json:"logLevel"`
	LogFile         *string  `json:"logFile"`
}

//Load reads the CUE files and returns their merged content, the first file wins per field
func Load(paths ...string) (File, error) {
	var f File
	loader := NewLoader(paths, Schema)
	fields := []struct {
		path   string
		target any
	}{
		{"width", &f.Width},
		{"height", &f.Height},
		{"interval", &f.Interval},
		{"maxSteps", &f.MaxSteps},
		{"maxSkippedTicks", &f.MaxSkippedTicks},
		{"density", &f.Density},
		{"seed", &f.Seed},
		{"bands", &f.Bands},
		{"fill", &f.Fill},
		{"stopWhenStable", &f.StopWhenStable},
		{"logLevel", &f.LogLevel},
		{"logFile", &f.LogFile},
	}
	for _, field := range fields {
		err := loader.AssignFirst(field.path, field.target)
		if err != nil && !errors.Is(err, ErrValueNotFound) {
			return File{}, fmt.Errorf("load config: %w", err)
		}
	}
	return f, nil
}

//Apply copies the fields set in the file to o
func (f File) Apply(o *universe.Options) error {
	if f.Width != nil {
		o.Width = *f.Width
	}
	if f.Height != nil {
		o.Height = *f.Height
	}
	if f.Interval != nil {
		d, err := time.ParseDuration(*f.Interval)
		if err != nil {
			return fmt.Errorf("interval: %w", err)
		}
		o.Interval = d
	}
	if f.MaxSteps != nil {
		o.MaxSteps = *f.MaxSteps
	}
	if f.MaxSkippedTicks != nil {
		o.MaxSkippedTicks = *f.MaxSkippedTicks
	}
	if f.Density != nil {
		o.Density = *f.Density
	}
	if f.Seed != nil {
		o.Seed = *f.Seed
	}
	if f.Bands != nil {
		o.Bands = *f.Bands
	}
	if f.Fill != nil {
		o.Fill = *f.Fill
	}
	if f.StopWhenStable != nil {
		o.StopWhenStable = *f.StopWhenStable
	}
	return nil
}
