package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"retrolife/src/life"
	"retrolife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal desktop for one session
type ConsoleUI struct {
	u          *universe.Session
	g          *gocui.Gui
	k          []keyBindings
	liveFiller string
	deadFiller string
	patterns   []string

	mu       sync.Mutex
	last     universe.Snapshot
	pattern  int
	hasFrame bool
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal takes over the terminal, it panics when the terminal can't be initialized
func NewViewTerminal() *ConsoleUI {

	var err error
	t := ConsoleUI{
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
		patterns:   life.PatternNames(),
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextRound,
			""},
		{'r',
			"R",
			"Run",
			t.cmdRun,
			""},
		{'a',
			"A",
			"Auto-run on/off",
			t.cmdToggleAutoRun,
			""},
		{'s',
			"S",
			"Stop",
			t.cmdStop,
			""},
		{'c',
			"C",
			"Clear",
			t.cmdClear,
			""},
		{'w',
			"W",
			"Settle with random",
			t.cmdSettleWithRandom,
			""},
		{'p',
			"P",
			"Next pattern",
			t.cmdNextPattern,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Toggle the cell",
			t.cmdMouseClick,
			"battlefield"},
		{gocui.MouseRight,
			"RMB",
			"Place the pattern",
			t.cmdPlacePattern,
			"battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

//Register binds the key handlers to the session
func (t *ConsoleUI) Register(u *universe.Session) {
	t.u = u
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
}

//Refresh is called from the session's control goroutine
func (t *ConsoleUI) Refresh(s universe.Snapshot) {
	t.mu.Lock()
	t.last = s
	t.hasFrame = true
	t.mu.Unlock()
	t.g.Update(func(g *gocui.Gui) error {
		t.renderField()
		t.renderConfiguration()
		t.renderStatus()
		return nil
	})
}

func (t *ConsoleUI) snapshot() (universe.Snapshot, string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.patterns[t.pattern], t.hasFrame
}

//renderField must run on the gocui goroutine
func (t *ConsoleUI) renderField() {
	v, e := t.g.View("battlefield")
	if e != nil {
		return
	}
	s, _, ok := t.snapshot()
	if !ok {
		return
	}
	//the entire field is redrawing at once now
	v.Clear()
	maxW, maxH := v.Size()
	_, _ = fmt.Fprint(v, RenderField(s.Grid, t.liveFiller, t.deadFiller, maxW, maxH, func(msg string) string {
		return aurora.Red(msg).BgBlack().String()
	}))
}

func (t *ConsoleUI) renderStatus() {
	v, e := t.g.View("status")
	if e != nil {
		return
	}
	s, pattern, _ := t.snapshot()
	v.Clear()
	for _, l := range statusLines(s.Status, pattern) {
		_, _ = fmt.Fprintln(v, l)
	}
}

func (t *ConsoleUI) renderConfiguration() {
	v, e := t.g.View("configuration")
	if e != nil || t.u == nil {
		return
	}
	v.Clear()
	for _, l := range configurationLines(t.u.Options()) {
		_, _ = fmt.Fprintln(v, l)
	}
}

func statusLines(s universe.Status, pattern string) []string {
	mode, ok := runningStateDescr[s.RunningMode]
	if !ok {
		mode = s.RunningMode.String()
	}
	return []string{
		renderProp("Generation", "%v", s.IterationNum),
		renderProp("Live Cells", "%v", s.LiveCells),
		renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)),
		renderProp("Mode", "%v", mode),
		renderProp("Pattern", "%v", pattern),
	}
}

func configurationLines(c universe.Options) []string {
	steps := "unlimited"
	if c.MaxSteps > 0 {
		steps = fmt.Sprintf("%v steps", c.MaxSteps)
	}
	return []string{
		renderProp("Dimension", "%v x %v", c.Width, c.Height),
		renderProp("Interval", "%v", c.Interval),
		renderProp("Iterations", "%v", steps),
		renderProp("Density", "%v", c.Density),
	}
}

func renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "Conway's Game of Life"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Game of Life"
		v.Frame = true
	}
	t.renderField()

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.StartAutoRun()
	return nil
}

func (t *ConsoleUI) cmdToggleAutoRun(_ *gocui.View) error {
	t.u.ToggleAutoRun()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.StopAutoRun()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.Randomize(t.u.Options().Density)
	return nil
}

func (t *ConsoleUI) cmdNextPattern(_ *gocui.View) error {
	t.mu.Lock()
	t.pattern = (t.pattern + 1) % len(t.patterns)
	t.mu.Unlock()
	t.renderStatus()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.u.Toggle(cx, cy)
	return nil
}

func (t *ConsoleUI) cmdPlacePattern(v *gocui.View) error {
	cx, cy := v.Cursor()
	_, pattern, _ := t.snapshot()
	t.u.Settle(pattern, cx, cy)
	return nil
}
