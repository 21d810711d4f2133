package view

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"retrolife/src/universe"
)

//ConsoleOut prints progress of a headless session
type ConsoleOut struct {
	u         *universe.Session
	w         io.Writer
	logger    *slog.Logger
	au        aurora.Aurora
	every     int
	mu        sync.Mutex
	startTime time.Time
	lastGen   int
}

//NewConsoleOut writes progress to w every `every` generations, colors toggles ANSI colors
func NewConsoleOut(w io.Writer, logger *slog.Logger, every int, colors bool) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ConsoleOut{
		w:      w,
		logger: logger,
		au:     aurora.NewAurora(colors),
		every:  every,
	}
}

//Refresh prints the progress while running and the summary once the session finished
func (c *ConsoleOut) Refresh(s universe.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": s.IterationNum,
			"Total time":      totalTime,
			"Live cells":      s.LiveCells,
		}
		fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
		c.logger.Info("simulation finished", "generation", s.IterationNum, "live", s.LiveCells, "elapsed", totalTime)
	} else if s.RunningMode == universe.RunningStateRun {
		if s.IterationNum%c.every == 0 && s.IterationNum != c.lastGen {
			c.lastGen = s.IterationNum
			fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", c.au.Cyan(s.IterationNum), s.LiveCells)
		}
	}
}

//Register prints the session configuration
func (c *ConsoleOut) Register(u *universe.Session) {
	c.u = u
	o := c.u.Options()
	fmt.Fprintln(c.w, c.au.Green("Running configuration:"))
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	if o.MaxSteps > 0 {
		fmt.Fprintf(c.w, "  Max generations: %v\n", o.MaxSteps)
	} else {
		fmt.Fprintln(c.w, "  Max generations: unlimited")
	}
	c.printHashData(map[string]interface{}{
		"Bands": o.Bands,
		"Fill":  o.Fill,
	})
}

//Start marks the beginning of the measured run
func (c *ConsoleOut) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
