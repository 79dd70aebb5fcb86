package main

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	agbhost "github.com/aheraud/agb-host"
	"github.com/aheraud/agb-host/bridge"
)

// stubGuest is a minimal recording Guest over a plain byte slice.
type stubGuest struct {
	mu       sync.Mutex
	buf      []byte
	next     uint32
	keydowns []agbhost.Button
	keyups   []agbhost.Button
}

var _ agbhost.Guest = (*stubGuest)(nil)

func newStubGuest() *stubGuest {
	return &stubGuest{buf: make([]byte, 1<<16), next: 64}
}

func (g *stubGuest) Data() []byte           { return g.buf }
func (g *stubGuest) Size() uint32           { return uint32(len(g.buf)) }
func (g *stubGuest) Memory() agbhost.Memory { return g }

func (g *stubGuest) Alloc(size uint32) (uint32, error) {
	ptr := g.next
	g.next += size
	return ptr, nil
}

func (g *stubGuest) Free(ptr, size uint32) {}

func (g *stubGuest) LoadROM(context.Context, uint32, uint32) error { return nil }

func (g *stubGuest) Keydown(_ context.Context, code agbhost.Button) error {
	g.mu.Lock()
	g.keydowns = append(g.keydowns, code)
	g.mu.Unlock()
	return nil
}

func (g *stubGuest) Keyup(_ context.Context, code agbhost.Button) error {
	g.mu.Lock()
	g.keyups = append(g.keyups, code)
	g.mu.Unlock()
	return nil
}

func (g *stubGuest) Emulate(context.Context, uint32) error { return nil }

func (g *stubGuest) keydownCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.keydowns)
}

// Guest callbacks fire while the bridge mutex is held, so the frontend must
// never block waiting on the event loop, even when nothing drains it.
func TestTUIFrontend_SendNeverBlocks(t *testing.T) {
	front := newTUIFrontend()
	pixels := []byte{0x12, 0x34, 0x56, 0xFF}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			front.Draw(1, 1, pixels)
			front.Log("tick")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frontend callback blocked with no event loop draining it")
	}
}

// A key press must not call into the bridge on the event-loop goroutine:
// the bridge mutex may be held by an in-flight tick whose draw message is
// queued behind that very loop.
func TestUpdate_KeyDispatchOffEventLoop(t *testing.T) {
	guest := newStubGuest()
	front := newTUIFrontend()
	b := bridge.New(guest, front)

	m := &interactiveModel{
		ctx:    context.Background(),
		bridge: b,
		keys:   defaultKeyMap,
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd == nil {
		t.Fatal("mapped key produced no command")
	}
	if got := guest.keydownCount(); got != 0 {
		t.Fatalf("Update delivered %d keydowns synchronously, want 0", got)
	}

	if msg := cmd(); msg != nil {
		t.Fatalf("key command returned %v, want nil", msg)
	}
	if got := guest.keydownCount(); got != 1 {
		t.Fatalf("key command delivered %d keydowns, want 1", got)
	}
	guest.mu.Lock()
	code := guest.keydowns[0]
	guest.mu.Unlock()
	if code != agbhost.ButtonA {
		t.Errorf("keydown code = %v, want %v", code, agbhost.ButtonA)
	}
}

func TestUpdate_UnmappedKeyIgnored(t *testing.T) {
	guest := newStubGuest()
	b := bridge.New(guest, newTUIFrontend())
	m := &interactiveModel{ctx: context.Background(), bridge: b, keys: defaultKeyMap}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if cmd != nil {
		t.Fatal("unmapped key produced a command")
	}
}

func TestUpdate_QuitStopsBridge(t *testing.T) {
	guest := newStubGuest()
	b := bridge.New(guest, newTUIFrontend())
	m := &interactiveModel{ctx: context.Background(), bridge: b, keys: defaultKeyMap}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key did not return tea.Quit")
	}
	if b.Running() {
		t.Error("bridge still running after quit")
	}
}
