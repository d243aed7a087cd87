// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent status bar for the bake in progress
// and an input prompt at the bottom of the terminal. All application
// output is printed above the rendered area via Program.Println, so
// concurrent writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#292524")).
		Foreground(lipgloss.Color("#a8a29e"))

	timerRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	timerDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8a29e"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#57534e"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6d3d1"))

	// BannerStyle is the warm crust colour of the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6a86c"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e7e5e4"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#78716c"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8a29e"))
)

const promptText = "levain> "

// Status is what the bar at the bottom of the screen shows.
type Status struct {
	StepOrder int // 1-based position of the viewed step
	StepTotal int
	StepTitle string
	Completed int
	RoomTemp  float64

	TimerStep string // title of the running step, "" when no timer
	Countdown string // "MM:SS", or "HH:MM:SS" past an hour
	Expired   bool

	Title string // terminal window title
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call [UI.Println], [UI.Printf], [UI.SetStatus] and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool

	mu     sync.Mutex
	status Status // last status, used as the initial state of Run
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

func (u *UI) live() bool {
	return u.program != nil && !u.done.Load()
}

// Println prints a line above the prompt. Thread-safe. Falls back to
// fmt.Println before Run and after quit.
func (u *UI) Println(a ...any) {
	if u.live() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
func (u *UI) Printf(format string, a ...any) {
	if u.live() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// SetStatus updates the status bar and window title. Thread-safe.
func (u *UI) SetStatus(s Status) {
	u.mu.Lock()
	u.status = s
	u.mu.Unlock()
	if u.live() {
		u.program.Send(statusMsg(s))
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintChat prints a conversational line.
func (u *UI) PrintChat(text string) {
	u.Println(chatStyle.Render("  " + text))
}

// PrintStep prints a step header like "Step 4/18 · Add salt".
func (u *UI) PrintStep(text string) {
	u.Println(stepStyle.Render("  " + text))
}

// PrintInstruction prints body text.
func (u *UI) PrintInstruction(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an alert line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintVoice prints a voice-recognised input line.
func (u *UI) PrintVoice(text string) {
	u.Println(secondaryStyle.Render("[voice] ") + primaryStyle.Render(text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("levain") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// Plain-text prompt: styled prompts add ANSI bytes that break the
	// textinput width math.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#d6a86c"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	u.mu.Lock()
	initial := u.status
	u.mu.Unlock()

	m := model{
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		status:  initial,
		echoFn:  u.PrintUserInput,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	status  Status
	width   int
}

type statusMsg Status

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		signalReady(m.readyCh),
		tea.SetWindowTitle(windowTitle(m.status)),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(promptText) {
			m.input.Width = msg.Width - len(promptText)
		}
		return m, nil

	case statusMsg:
		prev := windowTitle(m.status)
		m.status = Status(msg)
		if title := windowTitle(m.status); title != prev {
			return m, tea.SetWindowTitle(title)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	if m.status.StepTotal > 0 {
		b.WriteString(renderBar(m.status, m.width))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func windowTitle(s Status) string {
	if s.Title == "" {
		return "Levain"
	}
	return s.Title
}

// renderBar lays out the viewed step, the running timer, progress and
// room temperature on one line.
func renderBar(s Status, width int) string {
	parts := []string{
		labelStyle.Render(fmt.Sprintf("Step %d/%d · %s", s.StepOrder, s.StepTotal, s.StepTitle)),
	}
	switch {
	case s.Expired:
		parts = append(parts, timerDoneStyle.Render("🔔 "+s.TimerStep+": done!"))
	case s.TimerStep != "":
		parts = append(parts, labelStyle.Render(s.TimerStep+": ")+timerRunStyle.Render("⏳ "+s.Countdown))
	}
	parts = append(parts,
		labelStyle.Render(fmt.Sprintf("%d/%d done", s.Completed, s.StepTotal)),
		labelStyle.Render(fmt.Sprintf("%g°C", s.RoomTemp)),
	)

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "
	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).Render(content)
}
