// Package term draws the board on a tcell screen and turns terminal key events into
// game keys.
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"termsnake/internal/sim/game"
)

const (
	glyphFood = '*'
	glyphBody = '█'
)

var (
	styleDefault = tcell.StyleDefault
	styleBorder  = styleDefault.Foreground(tcell.ColorDarkGray)
	styleFood    = styleDefault.Foreground(tcell.ColorYellow)
	styleBody    = styleDefault.Foreground(tcell.ColorLime)
	styleStatus  = styleDefault.Foreground(tcell.ColorGray)
	styleOver    = styleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// Screen is a game.Display and game.KeySource backed by a tcell screen.
type Screen struct {
	s    tcell.Screen
	keys chan game.Key
	done chan struct{}

	closeOnce sync.Once
	pumpWG    sync.WaitGroup
}

// Open initializes the real terminal. Close must be called to restore it.
func Open() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return Wrap(s), nil
}

// Wrap takes over an initialized tcell screen and starts reading its events.
func Wrap(s tcell.Screen) *Screen {
	s.HideCursor()
	s.SetStyle(styleDefault)
	sc := &Screen{
		s:    s,
		keys: make(chan game.Key, 8),
		done: make(chan struct{}),
	}
	sc.pumpWG.Add(1)
	go sc.pump()
	return sc
}

func (sc *Screen) Keys() <-chan game.Key { return sc.keys }

// Close restores the terminal and closes the key channel.
func (sc *Screen) Close() {
	sc.closeOnce.Do(func() {
		close(sc.done)
		sc.s.Fini()
		sc.pumpWG.Wait()
	})
}

func (sc *Screen) pump() {
	defer sc.pumpWG.Done()
	defer close(sc.keys)
	for {
		ev := sc.s.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			sc.s.Sync()
		case *tcell.EventKey:
			k := MapKey(ev)
			if k == game.KeyNone {
				continue
			}
			select {
			case sc.keys <- k:
			case <-sc.done:
				return
			}
		}
	}
}

// MapKey translates arrows, wasd and the quit keys; everything else is KeyNone.
func MapKey(ev *tcell.EventKey) game.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.KeyUp
	case tcell.KeyDown:
		return game.KeyDown
	case tcell.KeyLeft:
		return game.KeyLeft
	case tcell.KeyRight:
		return game.KeyRight
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return game.KeyQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return game.KeyUp
		case 's', 'S':
			return game.KeyDown
		case 'a', 'A':
			return game.KeyLeft
		case 'd', 'D':
			return game.KeyRight
		case 'q', 'Q':
			return game.KeyQuit
		}
	}
	return game.KeyNone
}

// Draw renders the board with a one-cell border at the top-left corner of the terminal
// and a status line underneath. Board cell (r, c) lands on screen column c+1, row r+1.
func (sc *Screen) Draw(f game.Frame) error {
	s := sc.s
	s.Clear()
	drawBorder(s, f.Width+2, f.Height+2)

	for _, p := range f.Food {
		s.SetContent(p.Col+1, p.Row+1, glyphFood, nil, styleFood)
	}
	for _, p := range f.Cells {
		if p.Row < 0 || p.Row >= f.Height || p.Col < 0 || p.Col >= f.Width {
			continue
		}
		s.SetContent(p.Col+1, p.Row+1, glyphBody, nil, styleBody)
	}

	status := fmt.Sprintf("length: %d  tick: %d", f.Len, f.Tick)
	style := styleStatus
	switch f.Outcome {
	case game.GameOver:
		status += "  game over"
		style = styleOver
	case game.Won:
		status += "  board full"
		style = styleOver
	}
	drawText(s, 0, f.Height+2, status, style)
	s.Show()
	return nil
}

func drawBorder(s tcell.Screen, w, h int) {
	for x := 1; x < w-1; x++ {
		s.SetContent(x, 0, '━', nil, styleBorder)
		s.SetContent(x, h-1, '━', nil, styleBorder)
	}
	for y := 1; y < h-1; y++ {
		s.SetContent(0, y, '┃', nil, styleBorder)
		s.SetContent(w-1, y, '┃', nil, styleBorder)
	}
	s.SetContent(0, 0, '┏', nil, styleBorder)
	s.SetContent(w-1, 0, '┓', nil, styleBorder)
	s.SetContent(0, h-1, '┗', nil, styleBorder)
	s.SetContent(w-1, h-1, '┛', nil, styleBorder)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
