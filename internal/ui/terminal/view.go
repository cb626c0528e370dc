package terminal

import (
	"unicode"

	"countdown/internal/core/countdown"

	"github.com/gdamore/tcell/v2"
)

// Commands is what the terminal view needs from the engine.
type Commands interface {
	AdjustTime(unit countdown.Unit, direction countdown.Direction)
	Start()
	Cancel()
	Snapshot() countdown.Snapshot
}

// Action tells the event loop what to do after a key.
type Action int

const (
	ActionNone Action = iota
	ActionRedraw
	ActionQuit
)

const helpLine = "h/H m/M s/S or arrows adjust   enter start/cancel   q quit"

var (
	styleDefault  = tcell.StyleDefault
	styleTime     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleUrgent   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleFinished = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true).Reverse(true)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// View renders the timer and maps keys to engine commands.
type View struct {
	screen   tcell.Screen
	commands Commands
	cursor   countdown.Unit
	blinkOn  bool
}

// NewView creates a view with the cursor on the seconds column.
func NewView(screen tcell.Screen, commands Commands) *View {
	return &View{
		screen:   screen,
		commands: commands,
		cursor:   countdown.UnitSecond,
		blinkOn:  true,
	}
}

// HandleKey applies one key press.
func (view *View) HandleKey(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEnter:
		view.toggle()
		return ActionRedraw
	case tcell.KeyLeft:
		if view.cursor > countdown.UnitHour {
			view.cursor--
		}
		return ActionRedraw
	case tcell.KeyRight:
		if view.cursor < countdown.UnitSecond {
			view.cursor++
		}
		return ActionRedraw
	case tcell.KeyUp:
		view.commands.AdjustTime(view.cursor, countdown.Increase)
		return ActionRedraw
	case tcell.KeyDown:
		view.commands.AdjustTime(view.cursor, countdown.Decrease)
		return ActionRedraw
	case tcell.KeyRune:
		return view.handleRune(r)
	}
	return ActionNone
}

func (view *View) handleRune(r rune) Action {
	switch r {
	case 'q':
		return ActionQuit
	case ' ':
		view.toggle()
	case 'k':
		view.commands.AdjustTime(view.cursor, countdown.Increase)
	case 'j':
		view.commands.AdjustTime(view.cursor, countdown.Decrease)
	case 'h', 'H':
		view.commands.AdjustTime(countdown.UnitHour, directionFor(r))
	case 'm', 'M':
		view.commands.AdjustTime(countdown.UnitMinute, directionFor(r))
	case 's', 'S':
		view.commands.AdjustTime(countdown.UnitSecond, directionFor(r))
	default:
		return ActionNone
	}
	return ActionRedraw
}

// Blink flips the finished highlight.
func (view *View) Blink() {
	view.blinkOn = !view.blinkOn
}

// Draw renders snapshot centred on the screen.
func (view *View) Draw(snapshot countdown.Snapshot) {
	view.screen.Clear()
	width, height := view.screen.Size()

	text := snapshot.String()
	x := (width - len(text)) / 2
	y := height/2 - 1
	if y < 0 {
		y = 0
	}

	style := styleTime
	if snapshot.Finished {
		style = styleDefault
		if view.blinkOn {
			style = styleFinished
		}
	}
	drawText(view.screen, x, y, style, text)
	if snapshot.SecondsUrgent() {
		// Seconds occupy the last two cells of HH:MM:SS.
		drawText(view.screen, x+len(text)-2, y, styleUrgent, text[len(text)-2:])
	}

	if !snapshot.Running {
		// Columns start at 0, 3 and 6 in HH:MM:SS.
		cursorX := x + int(view.cursor)*3
		drawText(view.screen, cursorX, y+1, styleCursor, "^^")
	}

	status := statusLine(snapshot)
	drawText(view.screen, (width-len(status))/2, y+3, styleDefault, status)
	drawText(view.screen, (width-len(helpLine))/2, height-1, styleHelp, helpLine)
	view.screen.Show()
}

func (view *View) toggle() {
	if view.commands.Snapshot().Running {
		view.commands.Cancel()
		return
	}
	view.commands.Start()
}

// Upper case increases, lower case decreases.
func directionFor(r rune) countdown.Direction {
	if unicode.IsUpper(r) {
		return countdown.Increase
	}
	return countdown.Decrease
}

func statusLine(snapshot countdown.Snapshot) string {
	switch snapshot.State() {
	case countdown.StateRunning:
		return "running"
	case countdown.StateFinished:
		return "time's up!"
	default:
		if snapshot.Total() <= 0 {
			return "idle: set a time"
		}
		return "idle: enter to start"
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	if x < 0 {
		x = 0
	}
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
