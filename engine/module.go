package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	agbhost "github.com/aheraud/agb-host"
	"github.com/aheraud/agb-host/errors"
)

// Export names of the core module.
const (
	exportLoadROM  = "load_rom"
	exportKeydown  = "keydown"
	exportKeyup    = "keyup"
	exportEmulate  = "emulate"
	exportAllocate = "allocate"
	exportFree     = "free"
)

// hostModule is the import namespace the core module expects.
const hostModule = "env"

// Callbacks receives guest-initiated calls out of the core module. All
// parameters are raw guest-memory offsets and lengths; decoding is left to
// the receiver so that it goes through its own revalidated views. Nil
// callbacks are ignored, except Throw which then falls back to an opaque
// guest error.
type Callbacks struct {
	Log   func(ptr, length uint32)
	Error func(ptr, length uint32)
	Alert func(ptr, length uint32)
	Draw  func(width, height, ptr, length uint32)

	// Throw converts a guest-signaled (ptr, length) error string into a
	// host error. The engine raises the result to terminate the in-flight
	// guest call.
	Throw func(ptr, length uint32) error
}

// Module is an instantiated core module with its export surface resolved.
// It implements agbhost.Guest. Not safe for concurrent use.
type Module struct {
	mod api.Module
	mem memory

	loadROM  api.Function
	keydown  api.Function
	keyup    api.Function
	emulate  api.Function
	allocate api.Function
	free     api.Function

	// allocCtx serves Alloc/Free, whose interface carries no context.
	allocCtx context.Context
}

// Instantiate compiles and instantiates the core module with cb bound as
// its "env" imports. At most one module may be instantiated per engine.
func (e *Engine) Instantiate(ctx context.Context, coreWasm []byte, cb Callbacks) (*Module, error) {
	if len(coreWasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "empty core module")
	}

	if err := e.bindHostModule(ctx, cb); err != nil {
		return nil, err
	}

	compiled, err := e.runtime.CompileModule(ctx, coreWasm)
	if err != nil {
		return nil, errors.Load("compile core module", err)
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("agb"))
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	if mod.Memory() == nil {
		_ = mod.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "core export", "memory")
	}

	m := &Module{
		mod:      mod,
		mem:      memory{mem: mod.Memory()},
		allocCtx: ctx,
	}

	for _, exp := range []struct {
		name string
		dst  *api.Function
	}{
		{exportLoadROM, &m.loadROM},
		{exportKeydown, &m.keydown},
		{exportKeyup, &m.keyup},
		{exportEmulate, &m.emulate},
		{exportAllocate, &m.allocate},
		{exportFree, &m.free},
	} {
		fn := mod.ExportedFunction(exp.name)
		if fn == nil {
			_ = mod.Close(ctx)
			return nil, errors.NotFound(errors.PhaseLoad, "core export", exp.name)
		}
		*exp.dst = fn
	}

	Logger().Info("core module instantiated",
		zap.Uint32("memory_size", m.mem.Size()))

	return m, nil
}

// bindHostModule instantiates the "env" host module guest imports resolve
// against. Must happen before the core module is instantiated.
func (e *Engine) bindHostModule(ctx context.Context, cb Callbacks) error {
	i32 := api.ValueTypeI32
	builder := e.runtime.NewHostModuleBuilder(hostModule)

	text := func(fn func(ptr, length uint32)) api.GoModuleFunc {
		return func(_ context.Context, _ api.Module, stack []uint64) {
			if fn != nil {
				fn(api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
			}
		}
	}

	builder.NewFunctionBuilder().
		WithGoModuleFunction(text(cb.Log), []api.ValueType{i32, i32}, nil).
		Export("log")
	builder.NewFunctionBuilder().
		WithGoModuleFunction(text(cb.Error), []api.ValueType{i32, i32}, nil).
		Export("error")
	builder.NewFunctionBuilder().
		WithGoModuleFunction(text(cb.Alert), []api.ValueType{i32, i32}, nil).
		Export("alert")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
			var err error
			if cb.Throw != nil {
				err = cb.Throw(ptr, length)
			}
			if err == nil {
				err = errors.Guest("guest raised an undecodable error")
			}
			// wazero recovers host panics and surfaces them as the
			// error of the in-flight guest call.
			panic(err)
		}), []api.ValueType{i32, i32}, nil).
		Export("throw")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
			if cb.Draw != nil {
				cb.Draw(
					api.DecodeU32(stack[0]),
					api.DecodeU32(stack[1]),
					api.DecodeU32(stack[2]),
					api.DecodeU32(stack[3]),
				)
			}
		}), []api.ValueType{i32, i32, i32, i32}, nil).
		Export("draw")

	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Load("bind host module", err)
	}
	return nil
}

// Close releases the module instance.
func (m *Module) Close(ctx context.Context) error {
	return m.mod.Close(ctx)
}

func (m *Module) LoadROM(ctx context.Context, ptr, length uint32) error {
	_, err := m.loadROM.Call(ctx, uint64(ptr), uint64(length))
	return err
}

func (m *Module) Keydown(ctx context.Context, code agbhost.Button) error {
	_, err := m.keydown.Call(ctx, uint64(code))
	return err
}

func (m *Module) Keyup(ctx context.Context, code agbhost.Button) error {
	_, err := m.keyup.Call(ctx, uint64(code))
	return err
}

func (m *Module) Emulate(ctx context.Context, ms uint32) error {
	_, err := m.emulate.Call(ctx, uint64(ms))
	return err
}

func (m *Module) Alloc(size uint32) (uint32, error) {
	results, err := m.allocate.Call(m.allocCtx, uint64(size))
	if err != nil {
		return 0, err
	}
	return api.DecodeU32(results[0]), nil
}

func (m *Module) Free(ptr, size uint32) {
	if _, err := m.free.Call(m.allocCtx, uint64(ptr), uint64(size)); err != nil {
		// free failing mid-teardown is not actionable; record and move on
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

func (m *Module) Memory() agbhost.Memory {
	return m.mem
}

var _ agbhost.Guest = (*Module)(nil)

// memory adapts wazero's api.Memory to the root Memory interface.
type memory struct {
	mem api.Memory
}

var _ agbhost.Memory = memory{}

func (m memory) Size() uint32 {
	return m.mem.Size()
}

func (m memory) Data() []byte {
	size := m.mem.Size()
	data, ok := m.mem.Read(0, size)
	if !ok {
		panic(errors.OutOfBounds(errors.PhaseView, 0, size, size))
	}
	return data
}
