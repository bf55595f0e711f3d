// Package terminal renders the smoke scene as ASCII art with termbox.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/esimov/ascii-smoke/palette"
	"github.com/esimov/ascii-smoke/scene"
	"github.com/esimov/ascii-smoke/telemetry"
)

// shades orders glyphs from empty to dense smoke.
var shades = []rune(" .:-=+*#%@")

// Options configures the front-end.
type Options struct {
	FrameRate   int
	ClickAmount float64 // Smoke added by a left click
}

type Terminal struct {
	scene  *scene.Scene
	opts   Options
	logger *slog.Logger
	rec    *telemetry.Recorder
	ramp   *palette.Ramp

	backbuf  []termbox.Cell
	bbw, bbh int

	showPressure bool
	paused       bool
}

// New prepares a terminal front-end for sc. Statistics of every frame go to
// rec when it is not nil.
func New(sc *scene.Scene, opts Options, logger *slog.Logger, rec *telemetry.Recorder) *Terminal {
	return &Terminal{
		scene:  sc,
		opts:   opts,
		logger: logger,
		rec:    rec,
		ramp:   palette.NewRamp(),
	}
}

// Run takes over the terminal until the user quits or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing termbox: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.SetOutputMode(termbox.Output256)
	t.reallocBackBuffer(termbox.Size())

	events := make(chan termbox.Event, 8)
	done := make(chan struct{})
	go func() {
		for {
			ev := termbox.PollEvent()
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	defer func() {
		close(done)
		termbox.Interrupt()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(t.opts.FrameRate))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if ev.Type == termbox.EventError {
				return fmt.Errorf("polling events: %w", ev.Err)
			}
			if t.handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if !t.paused {
				t.step(elapsed)
			}
			t.redraw()
		}
	}
}

func (t *Terminal) step(elapsed time.Duration) {
	t.scene.Step(elapsed)
	if err := t.rec.Write(telemetry.Collect(t.scene.Frame(), t.scene.SimTime(), t.scene.Solver())); err != nil {
		t.logger.Error("telemetry", "error", err)
	}
}

// handle applies a single input event and reports whether to quit.
func (t *Terminal) handle(ev termbox.Event) bool {
	switch ev.Type {
	case termbox.EventKey:
		if ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
			return true
		}
		switch {
		case ev.Ch == 'r':
			t.scene.Reset()
			t.logger.Info("scene reset")
		case ev.Ch == 'p':
			t.showPressure = !t.showPressure
		case ev.Key == termbox.KeySpace:
			t.paused = !t.paused
		}
	case termbox.EventMouse:
		if ev.Key == termbox.MouseLeft {
			w, h := t.gridSize()
			if ev.MouseY < h {
				x, y := screenToWorld(ev.MouseX, ev.MouseY, w, h)
				t.scene.Inject(x, y, t.opts.ClickAmount)
				t.logger.Debug("click", "x", ev.MouseX, "y", ev.MouseY)
			}
		}
	case termbox.EventResize:
		t.reallocBackBuffer(ev.Width, ev.Height)
	}
	return false
}

func (t *Terminal) reallocBackBuffer(w, h int) {
	t.bbw, t.bbh = w, h
	t.backbuf = make([]termbox.Cell, w*h)
}

// gridSize is the screen area used for the fluid; the last row holds the status line.
func (t *Terminal) gridSize() (w, h int) {
	if t.bbh > 1 {
		return t.bbw, t.bbh - 1
	}
	return t.bbw, t.bbh
}

func (t *Terminal) redraw() {
	t.render()
	copy(termbox.CellBuffer(), t.backbuf)
	termbox.Flush()
}

// render draws the current scene into the back buffer.
func (t *Terminal) render() {
	w, h := t.gridSize()
	s := t.scene.Solver()
	dens := s.Dens()
	pressure := s.Pressure()
	lo, hi := t.scene.PressureRange()

	maxDens := 0.0
	for _, d := range dens.Values() {
		if d > maxDens {
			maxDens = d
		}
	}

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			i, j := s.Position(screenToWorld(cx, cy, w, h))
			cell := termbox.Cell{Ch: glyph(dens.At(i, j), maxDens), Fg: termbox.ColorWhite, Bg: termbox.ColorDefault}
			if t.showPressure {
				c := t.ramp.At(pressure.At(i, j), lo, hi)
				cell.Bg = termbox.Attribute(palette.Xterm256(c) + 1)
				cell.Fg = termbox.ColorBlack
			}
			t.backbuf[cy*t.bbw+cx] = cell
		}
	}

	for _, o := range t.scene.Objects() {
		t.drawObject(o, w, h)
	}
	if h < t.bbh {
		t.drawStatus(h)
	}
}

func (t *Terminal) drawObject(o scene.Object, w, h int) {
	switch o := o.(type) {
	case *scene.Rocket:
		x, y := o.Position()
		t.setCell(w, h, x, y, '^', termbox.ColorRed)
	case *scene.Emitter:
		x, y := o.Position()
		t.setCell(w, h, x, y, '*', termbox.ColorYellow)
	case *scene.Globe:
		cx, cy := o.Position()
		r := o.Radius()
		steps := 4 * max(w, h)
		for k := 0; k < steps; k++ {
			a := 2 * math.Pi * float64(k) / float64(steps)
			t.setCell(w, h, cx+r*math.Cos(a), cy+r*math.Sin(a), 'o', termbox.ColorCyan)
		}
		a := o.Angle()
		t.setCell(w, h, cx+r*math.Cos(a), cy+r*math.Sin(a), '@', termbox.ColorGreen)
	}
}

func (t *Terminal) setCell(w, h int, x, y float64, ch rune, fg termbox.Attribute) {
	cx, cy, ok := worldToScreen(x, y, w, h)
	if !ok {
		return
	}
	k := cy*t.bbw + cx
	t.backbuf[k].Ch = ch
	t.backbuf[k].Fg = fg
}

func (t *Terminal) drawStatus(row int) {
	mode := "density"
	if t.showPressure {
		mode = "pressure"
	}
	state := ""
	if t.paused {
		state = " [paused]"
	}
	status := fmt.Sprintf(" frame %d  t=%.2f  view: %s%s   click: add smoke  p: view  r: reset  space: pause  q: quit",
		t.scene.Frame(), t.scene.SimTime(), mode, state)

	base := row * t.bbw
	for k := base; k < base+t.bbw; k++ {
		t.backbuf[k] = termbox.Cell{Ch: ' ', Fg: termbox.ColorBlack, Bg: termbox.ColorWhite}
	}
	x := 0
	for _, r := range status {
		rw := runewidth.RuneWidth(r)
		if x+rw > t.bbw {
			break
		}
		t.backbuf[base+x].Ch = r
		x += rw
	}
}

// glyph picks the shade for density d relative to the densest cell.
func glyph(d, maxDens float64) rune {
	a := palette.Alpha(d, maxDens)
	return shades[int(a*float64(len(shades)-1)+0.5)]
}

// screenToWorld returns the normalized center of screen cell {cx, cy}.
func screenToWorld(cx, cy, w, h int) (x, y float64) {
	return (float64(cx) + 0.5) / float64(w), (float64(cy) + 0.5) / float64(h)
}

// worldToScreen maps normalized coordinates to a screen cell.
func worldToScreen(x, y float64, w, h int) (cx, cy int, ok bool) {
	if x < 0 || x >= 1 || y < 0 || y >= 1 {
		return 0, 0, false
	}
	return int(x * float64(w)), int(y * float64(h)), true
}
