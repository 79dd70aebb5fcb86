package engine

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/aheraud/agb-host/errors"
)

// Engine creates and manages the wazero runtime hosting the core module.
type Engine struct {
	runtime wazero.Runtime
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// New creates a new wazero-based engine
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a new engine with custom configuration
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &Engine{runtime: runtime}, nil
}

// Close releases all engine resources, including any instantiated module.
func (e *Engine) Close(ctx context.Context) error {
	if e.runtime == nil {
		return errors.NotInitialized(errors.PhaseLoad, "engine")
	}
	return e.runtime.Close(ctx)
}
