// Package progress shows progress on the terminal during long-running
// build steps.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

// stopWait bounds how long Stop waits for the program to exit.
const stopWait = 500 * time.Millisecond

// Spinner animates one build step on a terminal, with the time spent so
// far once the step takes longer than a second.
type Spinner struct {
	out     io.Writer
	message string
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

type stepModel struct {
	spinner spinner.Model
	message string
	started time.Time
	now     func() time.Time
}

func (m stepModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m stepModel) View() tea.View {
	return tea.NewView(m.line())
}

func (m stepModel) line() string {
	line := m.spinner.View() + " " + m.message
	if elapsed := m.now().Sub(m.started).Truncate(time.Second); elapsed >= time.Second {
		line += fmt.Sprintf(" (%s)", elapsed)
	}
	return line
}

// NewSpinner creates a spinner that draws message on out.
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{out: out, message: message, done: make(chan struct{})}
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	model := stepModel{
		spinner: sp,
		message: s.message,
		started: time.Now(),
		now:     time.Now,
	}

	// No input: the terminal stays in cooked mode so Ctrl-C reaches the
	// signal context and the child build.
	s.program = tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(s.out),
	)
	s.running = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// Stop ends the animation and clears the line. Stopping an idle spinner
// does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.program.Quit()

	select {
	case <-s.done:
	case <-time.After(stopWait):
	}

	fmt.Fprint(s.out, "\r\033[K")
}
