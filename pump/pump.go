// Package pump drives the guest's per-frame step function on a steady
// wall-clock cadence.
//
// Each tick advances emulation by the fixed target interval, not by the
// measured elapsed time, so a delayed tick under-advances emulation rather
// than compensating for drift. This matches the upstream frontends and must
// not be "fixed" without adopting frame-accurate timing as an explicit goal.
package pump

import (
	"sync"
	"time"
)

// FrameRate is the DMG refresh rate in frames per second.
const FrameRate = 59.7

// Interval is the target tick period, 1000/59.7 ms.
const Interval = time.Second * 10 / 597

// StepMillis is the fixed millisecond argument passed to the guest step
// function on every tick.
const StepMillis = uint32(Interval / time.Millisecond)

// Ticker abstracts time.Ticker so tests can drive ticks deterministically.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates the pump's ticker. The default wraps time.NewTicker.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Pump invokes a step callback once per tick. Ticks run on a single
// goroutine and never overlap; a late-finishing step delays, but does not
// run concurrently with, the next tick.
type Pump struct {
	step      func(ms uint32)
	newTicker TickerFactory

	mu      sync.Mutex
	ticker  Ticker
	done    chan struct{}
	stopped chan struct{}
}

// Option configures a Pump.
type Option func(*Pump)

// WithTickerFactory replaces the wall-clock ticker, used by tests to
// simulate N ticks without waiting.
func WithTickerFactory(f TickerFactory) Option {
	return func(p *Pump) { p.newTicker = f }
}

// New creates a stopped pump that calls step with StepMillis on every tick.
func New(step func(ms uint32), opts ...Option) *Pump {
	p := &Pump{
		step:      step,
		newTicker: newRealTicker,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins ticking at Interval. If the pump is already running the
// previous loop is stopped and drained first, so steps from the old and
// new tickers never overlap.
func (p *Pump) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	ticker := p.newTicker(Interval)
	done := make(chan struct{})
	stopped := make(chan struct{})
	p.ticker = ticker
	p.done = done
	p.stopped = stopped

	go p.run(ticker, done, stopped)
}

// Stop cancels the ticker and waits for the tick loop to exit. An
// in-flight step is never interrupted; it finishes before Stop returns.
// Stop must not be called from inside the step callback.
func (p *Pump) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Running reports whether a ticker is active.
func (p *Pump) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticker != nil
}

func (p *Pump) stopLocked() {
	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.done)
	<-p.stopped
	p.ticker = nil
	p.done = nil
	p.stopped = nil
}

func (p *Pump) run(ticker Ticker, done, stopped chan struct{}) {
	defer close(stopped)
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			select {
			case <-done:
				return
			default:
			}
			p.step(StepMillis)
		}
	}
}
