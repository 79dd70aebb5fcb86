package bridge

import (
	"context"
	stderrors "errors"
	"sync"

	"go.uber.org/zap"

	agbhost "github.com/aheraud/agb-host"
	"github.com/aheraud/agb-host/engine"
	"github.com/aheraud/agb-host/errors"
	"github.com/aheraud/agb-host/frame"
	"github.com/aheraud/agb-host/input"
	"github.com/aheraud/agb-host/marshal"
	"github.com/aheraud/agb-host/memview"
	"github.com/aheraud/agb-host/pump"
)

// Bridge connects a guest core to a Frontend. It owns the memory view
// cache, the marshaller, the frame converter, and the frame pump for one
// guest instance.
type Bridge struct {
	mu         sync.Mutex
	guest      agbhost.Guest
	views      *memview.Cache
	marshaller *marshal.Marshaller
	converter  *frame.Converter
	pump       *pump.Pump
	front      agbhost.Frontend
	log        *zap.Logger

	// runCtx is the context guest step calls run under while the pump is
	// active. Guarded by mu.
	runCtx context.Context

	pumpOpts []pump.Option
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) { b.log = l }
}

// WithPumpOptions forwards options to the frame pump, used by tests to
// substitute a deterministic ticker.
func WithPumpOptions(opts ...pump.Option) Option {
	return func(b *Bridge) { b.pumpOpts = opts }
}

// New wires a bridge around an already-instantiated guest. Most callers
// should use Open; New exists for tests and custom guest implementations.
func New(guest agbhost.Guest, front agbhost.Frontend, opts ...Option) *Bridge {
	b := newBridge(front, opts)
	b.attach(guest)
	return b
}

// Open instantiates coreWasm in eng with the bridge's callbacks bound as
// host imports, and returns the bridge driving it.
func Open(ctx context.Context, eng *engine.Engine, coreWasm []byte, front agbhost.Frontend, opts ...Option) (*Bridge, error) {
	b := newBridge(front, opts)

	// Callbacks can only fire from inside a guest call, which requires the
	// module returned below, so binding them before attach is safe.
	mod, err := eng.Instantiate(ctx, coreWasm, engine.Callbacks{
		Log:   b.onLog,
		Error: b.onError,
		Alert: b.onAlert,
		Draw:  b.onDraw,
		Throw: b.onThrow,
	})
	if err != nil {
		return nil, err
	}

	b.attach(mod)
	return b, nil
}

func newBridge(front agbhost.Frontend, opts []Option) *Bridge {
	b := &Bridge{
		front:     front,
		converter: frame.NewConverter(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) attach(guest agbhost.Guest) {
	b.guest = guest
	b.views = memview.New(guest.Memory())
	b.marshaller = marshal.New(guest, b.views)
	b.pump = pump.New(b.step, b.pumpOpts...)
}

// LoadROM copies rom into guest memory and hands it to the core. The
// staging allocation is freed once the call returns, on every exit path. A
// malformed ROM surfaces through the core's error and alert callbacks; the
// bridge remains usable for a retry.
func (b *Bridge) LoadROM(ctx context.Context, rom []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.log.Info("loading rom", zap.Int("size", len(rom)))
	return b.marshaller.WithBytes(rom, func(a marshal.Allocation) error {
		return b.guest.LoadROM(ctx, a.Ptr, a.Len)
	})
}

// KeyDown delivers a key press. Unmapped keys produce no guest call.
func (b *Bridge) KeyDown(ctx context.Context, key string) error {
	code, ok := input.Map(key)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.guest.Keydown(ctx, code)
}

// KeyUp delivers a key release. Unmapped keys produce no guest call.
func (b *Bridge) KeyUp(ctx context.Context, key string) error {
	code, ok := input.Map(key)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.guest.Keyup(ctx, code)
}

// Emulate advances emulation by ms milliseconds. Frames produced during the
// call reach the Frontend through its Draw callback.
func (b *Bridge) Emulate(ctx context.Context, ms uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.guest.Emulate(ctx, ms)
}

// Start begins the frame pump. If it is already running the previous
// schedule is cancelled first; at most one pump is ever active.
func (b *Bridge) Start(ctx context.Context) {
	b.mu.Lock()
	b.runCtx = ctx
	b.mu.Unlock()
	b.pump.Start()
}

// Stop cancels the frame pump. An in-flight step finishes first.
func (b *Bridge) Stop() {
	b.pump.Stop()
}

// Running reports whether the frame pump is active.
func (b *Bridge) Running() bool {
	return b.pump.Running()
}

// Close stops the pump and releases the guest instance.
func (b *Bridge) Close(ctx context.Context) error {
	b.Stop()
	if closer, ok := b.guest.(interface{ Close(context.Context) error }); ok {
		return closer.Close(ctx)
	}
	return nil
}

// step is the pump tick: advance emulation by the fixed target interval.
// Rendering happens through the guest's draw callback during the call.
func (b *Bridge) step(ms uint32) {
	b.mu.Lock()
	ctx := b.runCtx
	b.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := b.Emulate(ctx, ms); err != nil {
		b.log.Error("emulation step failed", zap.Error(err))
		b.front.Error(err.Error())
	}
}

// Guest callbacks. These only fire from inside a guest call, while mu is
// already held by the host-side caller, so they must not retake it.

func (b *Bridge) onLog(ptr, length uint32) {
	b.front.Log(b.views.String(ptr, length))
}

func (b *Bridge) onError(ptr, length uint32) {
	b.front.Error(b.views.String(ptr, length))
}

func (b *Bridge) onAlert(ptr, length uint32) {
	b.front.Alert(b.views.String(ptr, length))
}

func (b *Bridge) onDraw(width, height, ptr, length uint32) {
	words := b.views.Words(ptr, length)
	pixels := b.converter.Convert(int(width), int(height), words)
	b.front.Draw(int(width), int(height), pixels)
}

func (b *Bridge) onThrow(ptr, length uint32) error {
	err := b.marshaller.ThrowFromGuest(ptr, length)
	b.log.Debug("guest raised", zap.Error(err))
	return err
}

// GuestError reports whether err is a guest-signaled domain error, as
// opposed to a host or load failure.
func GuestError(err error) bool {
	var e *errors.Error
	return stderrors.As(err, &e) && e.Kind == errors.KindGuestError
}
