package life

import (
	"math/rand/v2"
	"sync"
)

//Cell is a single grid position, live or dead
type Cell bool

//DefaultDensity is the live-cell probability used by Randomize callers that have no preference
const DefaultDensity = 0.3

//Engine holds a fixed-size Game of Life grid and its generation counter.
//The engine does no locking: the owner must serialize calls.
type Engine struct {
	width      int
	height     int
	cur        [][]Cell
	nxt        [][]Cell
	generation int
	stable     bool
	autoRun    bool
	bands      int
	rnd        *rand.Rand
}

//Option configures an Engine at construction
type Option func(e *Engine)

//WithBands splits the next generation computation into n row bands,
//each one calculated by its own goroutine. n <= 1 means serial computation.
func WithBands(n int) Option {
	return func(e *Engine) {
		e.bands = n
	}
}

//WithRand sets the pseudo-random source used by Randomize
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rnd = r
	}
}

//New creates an engine with an empty grid, non-positive dimensions are clamped to 1
func New(width int, height int, opts ...Option) *Engine {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	e := &Engine{
		width:  width,
		height: height,
		cur:    createArea(width, height),
		nxt:    createArea(width, height),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

//NewDemo creates an engine seeded with a glider at (2,2) and a blinker at (10,7)
func NewDemo(width int, height int, opts ...Option) *Engine {
	e := New(width, height, opts...)
	e.SeedDemo()
	return e
}

//SeedDemo places the demonstration glider and blinker
func (e *Engine) SeedDemo() {
	e.Place(Glider, 2, 2)
	e.Place(Blinker, 10, 7)
}

//Width returns the grid width
func (e *Engine) Width() int { return e.width }

//Height returns the grid height
func (e *Engine) Height() int { return e.height }

//Generation returns the number of steps since construction or the last Clear
func (e *Engine) Generation() int { return e.generation }

//Stable reports whether the last Step left the grid unchanged
func (e *Engine) Stable() bool { return e.stable }

//SetRand replaces the pseudo-random source used by Randomize
func (e *Engine) SetRand(r *rand.Rand) { e.rnd = r }

//Step advances the grid by one generation.
//The next state is computed from the current buffer into the spare one, then the buffers are swapped.
func (e *Engine) Step() {
	var changed bool
	if e.bands > 1 && e.height > 1 {
		changed = e.nextBanded()
	} else {
		changed = e.nextRows(0, e.height)
	}
	e.cur, e.nxt = e.nxt, e.cur
	e.stable = !changed
	e.generation++
}

//nextRows calculates rows [y1, y2) of the next generation, reports whether any cell changed
func (e *Engine) nextRows(y1 int, y2 int) (changed bool) {
	for y := y1; y < y2; y++ {
		for x := 0; x < e.width; x++ {
			next := nextState(e.cur[y][x], e.liveNeighbours(x, y))
			changed = changed || next != e.cur[y][x]
			e.nxt[y][x] = next
		}
	}
	return
}

//nextBanded calculates the next generation with one goroutine per row band
func (e *Engine) nextBanded() bool {
	bands := e.bands
	if bands > e.height {
		bands = e.height
	}
	rowsPerBand := (e.height + bands - 1) / bands
	changed := make([]bool, bands)
	var waitGroup sync.WaitGroup
	for i := 0; i < bands; i++ {
		y1 := i * rowsPerBand
		if y1 >= e.height {
			break
		}
		y2 := y1 + rowsPerBand
		if y2 > e.height {
			y2 = e.height
		}
		waitGroup.Add(1)
		go func(i int, y1 int, y2 int) {
			defer waitGroup.Done()
			changed[i] = e.nextRows(y1, y2)
		}(i, y1, y2)
	}
	waitGroup.Wait()
	for _, c := range changed {
		if c {
			return true
		}
	}
	return false
}

//liveNeighbours counts live cells in the Moore neighbourhood of x,y.
//Positions outside the grid count as dead.
func (e *Engine) liveNeighbours(x int, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= e.height {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := x + dx
			if nx < 0 || nx >= e.width {
				continue
			}
			if e.cur[ny][nx] {
				n++
			}
		}
	}
	return n
}

//nextState applies B3/S23
func nextState(alive Cell, liveNeighbours int) Cell {
	return liveNeighbours == 3 || (bool(alive) && liveNeighbours == 2)
}

//ToggleCell inverts the cell at x,y, out of range coordinates are ignored
func (e *Engine) ToggleCell(x int, y int) {
	if !e.inBounds(x, y) {
		return
	}
	e.cur[y][x] = !e.cur[y][x]
}

//Alive reports the state of the cell at x,y, false outside the grid
func (e *Engine) Alive(x int, y int) bool {
	if !e.inBounds(x, y) {
		return false
	}
	return bool(e.cur[y][x])
}

//Clear kills all cells and resets the generation counter
func (e *Engine) Clear() {
	fill(e.cur, false)
	e.generation = 0
	e.stable = false
}

//Randomize clears the grid and makes each cell live with the given probability.
//density <= 0 leaves the grid empty, density >= 1 fills it.
func (e *Engine) Randomize(density float64) {
	e.Clear()
	switch {
	case density <= 0:
		return
	case density >= 1:
		fill(e.cur, true)
		return
	}
	for y := range e.cur {
		for x := range e.cur[y] {
			e.cur[y][x] = e.random() < density
		}
	}
}

func (e *Engine) random() float64 {
	if e.rnd != nil {
		return e.rnd.Float64()
	}
	return rand.Float64()
}

//LiveCellCount returns the number of live cells
func (e *Engine) LiveCellCount() int {
	n := 0
	for _, row := range e.cur {
		for _, c := range row {
			if c {
				n++
			}
		}
	}
	return n
}

//Grid returns a copy of the current grid indexed as [y][x]
func (e *Engine) Grid() [][]Cell {
	g := createArea(e.width, e.height)
	for y := range e.cur {
		copy(g[y], e.cur[y])
	}
	return g
}

//Place makes the pattern's cells live with the pattern origin at x,y.
//Cells falling outside the grid are skipped.
func (e *Engine) Place(p Pattern, x int, y int) {
	for _, c := range p.Coordinates {
		cx, cy := x+c[0], y+c[1]
		if !e.inBounds(cx, cy) {
			continue
		}
		e.cur[cy][cx] = true
	}
}

//Start sets the auto-run flag, the engine never steps by itself
func (e *Engine) Start() { e.autoRun = true }

//Stop clears the auto-run flag
func (e *Engine) Stop() { e.autoRun = false }

//ToggleAutoRun flips the auto-run flag
func (e *Engine) ToggleAutoRun() { e.autoRun = !e.autoRun }

//AutoRunning reports the auto-run flag
func (e *Engine) AutoRunning() bool { return e.autoRun }

func (e *Engine) inBounds(x int, y int) bool {
	return x >= 0 && y >= 0 && x < e.width && y < e.height
}

//createArea allocates a zeroed grid backed by a single slice
func createArea(width int, height int) [][]Cell {
	area := make([][]Cell, height)
	b := make([]Cell, width*height)
	for i := range area {
		start := width * i
		area[i] = b[start : start+width : start+width]
	}
	return area
}

func fill(area [][]Cell, v Cell) {
	for y := range area {
		for x := range area[y] {
			area[y][x] = v
		}
	}
}
