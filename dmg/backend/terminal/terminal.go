// Package terminal renders frames in a terminal with tcell, two pixels per
// cell using upper half blocks.
package terminal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/memory"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Terminals only report key presses, so a button counts as held until no
// press or repeat has been seen for keyTimeout.
const keyTimeout = 120 * time.Millisecond

const upperHalfBlock = '▀'

var keyMapping = map[tcell.Key]memory.Button{
	tcell.KeyUp:         memory.ButtonUp,
	tcell.KeyDown:       memory.ButtonDown,
	tcell.KeyLeft:       memory.ButtonLeft,
	tcell.KeyRight:      memory.ButtonRight,
	tcell.KeyEnter:      memory.ButtonStart,
	tcell.KeyBackspace:  memory.ButtonSelect,
	tcell.KeyBackspace2: memory.ButtonSelect,
}

var runeMapping = map[rune]memory.Button{
	'z': memory.ButtonA,
	'x': memory.ButtonB,
	'a': memory.ButtonA,
	's': memory.ButtonB,
}

var shadeColors = [...]tcell.Color{
	video.White:     tcell.ColorWhite,
	video.LightGray: tcell.ColorSilver,
	video.DarkGray:  tcell.ColorGray,
	video.Black:     tcell.ColorBlack,
}

// Backend draws to a tcell screen.
type Backend struct {
	screen tcell.Screen
	title  string
	frames uint64
	quit   bool

	held    map[memory.Button]time.Time
	pressed map[memory.Button]bool
	now     func() time.Time
}

// New returns a backend for the controlling terminal.
func New() *Backend {
	return NewWithScreen(nil)
}

// NewWithScreen uses screen instead of opening the terminal, mostly for
// tcell's simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{
		screen:  screen,
		held:    make(map[memory.Button]time.Time),
		pressed: make(map[memory.Button]bool),
		now:     time.Now,
	}
}

func (t *Backend) Init(cfg backend.Config) error {
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	t.title = cfg.Title
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()
	slog.Debug("terminal backend initialized")
	return nil
}

func (t *Backend) Update(frame *video.FrameBuffer) (backend.Events, error) {
	now := t.now()
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.handleKey(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.frames++
	t.draw(frame)

	return backend.Events{Inputs: t.transitions(now), Quit: t.quit}, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleKey(ev *tcell.EventKey, now time.Time) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit = true
		return
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			t.quit = true
			return
		}
		if b, ok := runeMapping[ev.Rune()]; ok {
			t.held[b] = now
		}
		return
	}

	if b, ok := keyMapping[ev.Key()]; ok {
		t.held[b] = now
	}
}

// transitions turns key timestamps into press/release edges.
func (t *Backend) transitions(now time.Time) []backend.Input {
	var inputs []backend.Input
	for _, b := range memory.Buttons {
		last, ok := t.held[b]
		down := ok && now.Sub(last) < keyTimeout
		if !down {
			delete(t.held, b)
		}
		if down != t.pressed[b] {
			t.pressed[b] = down
			inputs = append(inputs, backend.Input{Button: b, Pressed: down})
		}
	}
	return inputs
}

func (t *Backend) draw(frame *video.FrameBuffer) {
	for y := 0; y < frame.Height(); y += 2 {
		for x := 0; x < frame.Width(); x++ {
			top := frame.At(x, y)
			bottom := video.White
			if y+1 < frame.Height() {
				bottom = frame.At(x, y+1)
			}
			style := tcell.StyleDefault.Foreground(shadeColors[top]).Background(shadeColors[bottom])
			t.screen.SetContent(x, y/2, upperHalfBlock, nil, style)
		}
	}

	status := fmt.Sprintf("%s  frame %d  arrows/z/x/enter/backspace, q quits", t.title, t.frames)
	row := (frame.Height() + 1) / 2
	for i, r := range status {
		t.screen.SetContent(i, row, r, nil, tcell.StyleDefault)
	}
	t.screen.Show()
}
