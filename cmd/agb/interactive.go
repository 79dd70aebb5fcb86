package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	agbhost "github.com/aheraud/agb-host"
	"github.com/aheraud/agb-host/bridge"
	"github.com/aheraud/agb-host/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// keyRelease is how long a terminal key press counts as held, since
// terminals report presses but not releases.
const keyRelease = 150 * time.Millisecond

// teaKeys maps bubbletea key names onto the bridge's host key identifiers.
var teaKeys = map[string]string{
	"up":    "ArrowUp",
	"down":  "ArrowDown",
	"left":  "ArrowLeft",
	"right": "ArrowRight",
	"x":     "x",
	"z":     "z",
	"c":     "c",
	"v":     "v",
}

type keyMap struct {
	Quit key.Binding
}

var defaultKeyMap = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type frameMsg struct {
	width, height int
	pixels        []byte
}

type guestTextMsg struct {
	kind string // "log", "error" or "alert"
	text string
}

// tuiFrontend forwards guest callbacks into the bubbletea event loop
// through a buffered queue. Callbacks fire from inside Emulate while the
// bridge mutex is held, so they must never block against the event loop;
// send drops messages when the queue is full, and a forwarder goroutine
// started by attach drains the queue into the program.
type tuiFrontend struct {
	msgs chan tea.Msg
}

func newTUIFrontend() *tuiFrontend {
	return &tuiFrontend{msgs: make(chan tea.Msg, 64)}
}

func (f *tuiFrontend) attach(p *tea.Program) {
	go func() {
		for msg := range f.msgs {
			p.Send(msg)
		}
	}()
}

func (f *tuiFrontend) send(msg tea.Msg) {
	select {
	case f.msgs <- msg:
	default:
		// the UI is behind; a dropped frame is superseded by the next tick
	}
}

var _ agbhost.Frontend = (*tuiFrontend)(nil)

func (f *tuiFrontend) Log(text string)   { f.send(guestTextMsg{kind: "log", text: text}) }
func (f *tuiFrontend) Error(text string) { f.send(guestTextMsg{kind: "error", text: text}) }
func (f *tuiFrontend) Alert(text string) { f.send(guestTextMsg{kind: "alert", text: text}) }

func (f *tuiFrontend) Draw(width, height int, pixels []byte) {
	// the converter reuses its buffer; copy before leaving the tick
	cp := make([]byte, len(pixels))
	copy(cp, pixels)
	f.send(frameMsg{width: width, height: height, pixels: cp})
}

type interactiveModel struct {
	ctx    context.Context
	bridge *bridge.Bridge
	rom    []byte
	keys   keyMap

	frame       []byte
	frameWidth  int
	frameHeight int

	termWidth  int
	termHeight int

	status string
}

func runInteractive(coreFile, romFile string, logger *zap.Logger) error {
	ctx := context.Background()

	coreWasm, err := os.ReadFile(coreFile)
	if err != nil {
		return fmt.Errorf("read core: %w", err)
	}
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if w < agbhost.ScreenWidth || h < agbhost.ScreenHeight/2 {
				fmt.Fprintf(os.Stderr,
					"terminal is %dx%d; %dx%d or larger renders pixel-perfect, smaller sizes are downsampled\n",
					w, h, agbhost.ScreenWidth, agbhost.ScreenHeight/2+2)
			}
		}
	}

	eng, err := engine.New(ctx)
	if err != nil {
		return err
	}
	defer eng.Close(ctx)

	front := newTUIFrontend()
	b, err := bridge.Open(ctx, eng, coreWasm, front, bridge.WithLogger(logger))
	if err != nil {
		return err
	}
	defer b.Close(ctx)

	m := &interactiveModel{
		ctx:    ctx,
		bridge: b,
		rom:    rom,
		keys:   defaultKeyMap,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	front.attach(p)

	_, err = p.Run()
	b.Stop()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return func() tea.Msg {
		if err := m.bridge.LoadROM(m.ctx, m.rom); err != nil {
			return guestTextMsg{kind: "alert", text: err.Error()}
		}
		m.bridge.Start(m.ctx)
		return nil
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height

	case frameMsg:
		m.frame = msg.pixels
		m.frameWidth = msg.width
		m.frameHeight = msg.height

	case guestTextMsg:
		if msg.kind == "alert" {
			m.status = alertStyle.Render(msg.text)
			m.bridge.Stop()
		} else if msg.kind == "error" {
			m.status = alertStyle.Render(msg.text)
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.bridge.Stop()
			return m, tea.Quit
		}
		if hostKey, ok := teaKeys[msg.String()]; ok {
			// dispatch off the event loop: the bridge mutex may be held
			// by an in-flight tick whose draw is queued behind this loop
			return m, m.pressKey(hostKey)
		}
	}
	return m, nil
}

// pressKey delivers a key press on a command goroutine and synthesizes the
// release the terminal never sends.
func (m *interactiveModel) pressKey(hostKey string) tea.Cmd {
	return func() tea.Msg {
		if err := m.bridge.KeyDown(m.ctx, hostKey); err != nil {
			return guestTextMsg{kind: "error", text: err.Error()}
		}
		time.AfterFunc(keyRelease, func() {
			_ = m.bridge.KeyUp(m.ctx, hostKey)
		})
		return nil
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("agb"))
	b.WriteByte('\n')

	if m.frame == nil {
		b.WriteString(helpStyle.Render("waiting for first frame..."))
	} else {
		maxW := m.termWidth
		maxH := (m.termHeight - 3) * 2
		if maxW <= 0 {
			maxW = agbhost.ScreenWidth
		}
		if maxH <= 0 {
			maxH = agbhost.ScreenHeight
		}
		b.WriteString(renderFrame(m.frame, m.frameWidth, m.frameHeight, maxW, maxH))
	}

	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteByte('\n')
	}
	b.WriteString(helpStyle.Render("arrows: d-pad  x: A  z: B  c: select  v: start  q: quit"))
	return b.String()
}

// renderFrame draws an RGBA frame as terminal half-blocks, two pixel rows
// per text row, downsampling nearest-neighbor when the frame exceeds
// maxW x maxH pixels.
func renderFrame(pixels []byte, width, height, maxW, maxH int) string {
	outW, outH := width, height
	scale := 1
	for outW > maxW || outH > maxH {
		scale++
		outW = (width + scale - 1) / scale
		outH = (height + scale - 1) / scale
	}

	at := func(x, y int) lipgloss.Color {
		o := (y*width + x) * 4
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", pixels[o], pixels[o+1], pixels[o+2]))
	}

	var b strings.Builder
	for row := 0; row < outH; row += 2 {
		for col := 0; col < outW; col++ {
			x := col * scale
			topY := row * scale
			style := lipgloss.NewStyle().Foreground(at(x, topY))
			if row+1 < outH {
				style = style.Background(at(x, (row+1)*scale))
			}
			b.WriteString(style.Render("▀"))
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}
