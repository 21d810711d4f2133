package universe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"retrolife/src/life"
)

//ErrClosed is returned by blocking calls on a closed session
var ErrClosed = errors.New("session closed")

var sessionIDs atomic.Int64

//Session owns one life engine and serializes every access to it
//through a single control goroutine.
//Commands return immediately; the Status is written to the stateCh (if any) after each transition
type Session struct {
	id      int64
	options Options
	engine  *life.Engine
	state   struct {
		Status
		sync.Mutex
	}
	stateCh    chan Status
	views      []Viewer
	patterns   map[string]life.Pattern
	controlCh  chan func()
	closeCh    chan struct{}
	closeOnce  sync.Once
	driverID   int
	driverDone chan struct{}
	logger     *slog.Logger
}

//New creates the session and starts its control goroutine.
//stateCh may be nil; when set, the caller must keep reading it
func New(o *Options, stateCh chan Status, logger *slog.Logger) *Session {
	if o == nil {
		def := DefaultOptions
		o = &def
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	u := &Session{
		id:        sessionIDs.Add(1),
		options:   *o,
		stateCh:   stateCh,
		patterns:  map[string]life.Pattern{},
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
	}
	u.logger = logger.With("session", u.id)
	u.engine = life.New(o.Width, o.Height,
		life.WithBands(o.Bands),
		life.WithRand(rand.New(rand.NewPCG(uint64(seed), 0))),
	)
	u.options.Width = u.engine.Width()
	u.options.Height = u.engine.Height()

	for _, name := range life.PatternNames() {
		p, _ := life.LookupPattern(name)
		u.patterns[name] = p
	}
	u.fill(o.Fill)
	u.state.Status = Status{
		RunningMode: RunningStateManual,
		LiveCells:   u.engine.LiveCellCount(),
	}

	u.logger.Info("session created",
		"width", u.options.Width,
		"height", u.options.Height,
		"fill", o.Fill,
		"bands", o.Bands,
	)
	go u.mainLoop()
	return u
}

//fill seeds the freshly created engine
func (u *Session) fill(kind string) {
	switch kind {
	case FillDemo:
		u.engine.SeedDemo()
	case FillRandom:
		u.engine.Randomize(u.options.Density)
	case FillEmpty, "":
	default:
		p, ok := u.patterns[kind]
		if !ok {
			u.logger.Warn("unknown fill, starting empty", "fill", kind)
			return
		}
		w, h := p.Size()
		u.engine.Place(p, (u.engine.Width()-w)/2, (u.engine.Height()-h)/2)
	}
}

//ID returns the session identifier used in log records
func (u *Session) ID() int64 {
	return u.id
}

//Options returns the session configuration
func (u *Session) Options() Options {
	return u.options
}

//Status returns current session status
func (u *Session) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//StateCh returns the channel with the session's status updates
func (u *Session) StateCh() chan Status {
	return u.stateCh
}

//Snapshot returns a copy of the grid and status, waiting for the control goroutine
func (u *Session) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	if u.post(func() { reply <- u.snapshot() }) {
		select {
		case s := <-reply:
			return s
		case <-u.closeCh:
		}
	}
	return Snapshot{Status: u.Status(), Width: u.options.Width, Height: u.options.Height}
}

//AddPattern registers a pattern which can be placed with Settle
func (u *Session) AddPattern(p life.Pattern) {
	u.post(func() {
		u.patterns[p.Name] = p
	})
}

//Settle places the named pattern with its origin at x,y
func (u *Session) Settle(name string, x int, y int) {
	u.post(func() {
		p, ok := u.patterns[name]
		if !ok {
			u.logger.Warn("unknown pattern", "pattern", name)
			return
		}
		u.engine.Place(p, x, y)
		u.switchRunningState(u.mode())
	})
}

//Toggle inverses the cell state at point x, y
func (u *Session) Toggle(x int, y int) {
	u.post(func() {
		u.engine.ToggleCell(x, y)
		u.switchRunningState(u.mode())
	})
}

//Step does one simulation step
func (u *Session) Step() {
	u.post(func() {
		u.step()
		u.switchRunningState(u.mode())
	})
}

//Clear kills all cells, resets the counters and stops auto-run
func (u *Session) Clear() {
	u.post(func() {
		u.engine.Stop()
		u.stopDriver()
		u.engine.Clear()
		u.state.Lock()
		u.state.IterationTime = 0
		u.state.Unlock()
		u.switchRunningState(RunningStateManual)
	})
}

//Randomize reseeds the grid with the given live-cell density
func (u *Session) Randomize(density float64) {
	u.post(func() {
		u.engine.Randomize(density)
		u.state.Lock()
		u.state.IterationTime = 0
		u.state.Unlock()
		u.switchRunningState(u.mode())
	})
}

//StartAutoRun starts stepping every Interval until stopped or finished
func (u *Session) StartAutoRun() {
	u.post(func() {
		u.startAutoRun()
	})
}

//StopAutoRun stops the auto-run loop
func (u *Session) StopAutoRun() {
	u.post(u.stopAutoRun)
}

//ToggleAutoRun starts or stops the auto-run loop
func (u *Session) ToggleAutoRun() {
	u.post(func() {
		if u.engine.AutoRunning() {
			u.stopAutoRun()
		} else {
			u.startAutoRun()
		}
	})
}

//Run starts auto-run and blocks until it finishes or is stopped, the session is closed or ctx is done.
//Cancelling ctx finishes auto-run, so viewers get the Finished state before Run returns
func (u *Session) Run(ctx context.Context) error {
	started := make(chan chan struct{}, 1)
	if !u.post(func() { started <- u.startAutoRun() }) {
		return ErrClosed
	}
	var done chan struct{}
	select {
	case done = <-started:
	case <-u.closeCh:
		return ErrClosed
	case <-ctx.Done():
		return u.cancelRun(ctx.Err())
	}
	select {
	case <-done:
		return nil
	case <-u.closeCh:
		return ErrClosed
	case <-ctx.Done():
		return u.cancelRun(ctx.Err())
	}
}

//cancelRun finishes auto-run on the control goroutine and waits until the viewers saw it
func (u *Session) cancelRun(cause error) error {
	done := make(chan struct{})
	if u.post(func() {
		defer close(done)
		if u.engine.AutoRunning() {
			u.finish("auto-run cancelled", "cause", cause)
		}
	}) {
		select {
		case <-done:
		case <-u.closeCh:
		}
	}
	return cause
}

//RegisterViewer registers the viewer - the session will call the viewer when the state is changed
func (u *Session) RegisterViewer(v Viewer) {
	v.Register(u)
	u.post(func() {
		u.views = append(u.views, v)
		v.Refresh(u.snapshot())
	})
}

//Close stops the control goroutine and the auto-run loop, later commands are dropped
func (u *Session) Close() {
	u.closeOnce.Do(func() {
		close(u.closeCh)
		u.logger.Info("session closed")
	})
}

//post queues the command for the control goroutine, false if the session is closed
func (u *Session) post(cmd func()) bool {
	select {
	case <-u.closeCh:
		return false
	default:
	}
	select {
	case u.controlCh <- cmd:
		return true
	case <-u.closeCh:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *Session) mainLoop() {
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

//mode is the resting running state for the current auto-run flag
func (u *Session) mode() RunningState {
	if u.engine.AutoRunning() {
		return RunningStateRun
	}
	return RunningStateManual
}

//step advances the engine, the running state reads Step while the generation is computed
func (u *Session) step() {
	u.state.Lock()
	u.state.RunningMode = RunningStateStep
	u.state.Unlock()

	start := time.Now()
	u.engine.Step()
	elapsed := time.Since(start)

	u.state.Lock()
	u.state.IterationTime = elapsed
	u.state.Unlock()
}

//switchRunningState switch the state of the session to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *Session) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	u.state.IterationNum = u.engine.Generation()
	u.state.LiveCells = u.engine.LiveCellCount()
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		select {
		case u.stateCh <- st:
		case <-u.closeCh:
		}
	}
	u.refreshView()
}

//refreshView calls Refresh event for all registered views
func (u *Session) refreshView() {
	if len(u.views) == 0 {
		return
	}
	s := u.snapshot()
	for _, v := range u.views {
		v.Refresh(s)
	}
}

func (u *Session) snapshot() Snapshot {
	return Snapshot{
		Status: u.Status(),
		Width:  u.engine.Width(),
		Height: u.engine.Height(),
		Grid:   u.engine.Grid(),
	}
}
