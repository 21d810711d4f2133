package universe

import (
	"time"

	"retrolife/src/life"
)

//Options represents the session's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration //auto-run tick
	MaxSteps        int           //auto-run finishes when the generation reaches it, 0 means no limit
	MaxSkippedTicks int           //auto-run finishes when it falls this many ticks behind in a row
	Density         float64       //default randomize density
	Seed            int64         //random source seed, 0 seeds from the clock
	Bands           int           //row bands computed in parallel per step
	Fill            string        //initial content: demo, random, empty or a pattern name
	StopWhenStable  bool          //auto-run finishes when the grid stops changing
}

//Status represents the status of the session at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Snapshot is a copy of the session state taken on the control goroutine
type Snapshot struct {
	Status
	Width  int
	Height int
	Grid   [][]life.Cell
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the session
type Viewer interface {
	Refresh(s Snapshot)
	Register(u *Session)
	Start()
}

//RunningState is the session running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 150
	DefMaxSteps           = 0
	DefWidth              = 40
	DefHeight             = 15
	DefMaxSkippedTicks    = 5
	DefFill               = FillDemo
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

//initial content kinds, any other value is looked up as a pattern name
const (
	FillDemo   = "demo"
	FillRandom = "random"
	FillEmpty  = "empty"
)

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Density:         life.DefaultDensity,
	Fill:            DefFill,
}

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "stepping"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}
