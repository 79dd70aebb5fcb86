package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aheraud/agb-host/bridge"
	"github.com/aheraud/agb-host/engine"
	"github.com/aheraud/agb-host/pump"
)

func main() {
	var (
		coreFile    = flag.String("core", "", "Path to the agb core wasm file")
		romFile     = flag.String("rom", "", "Path to the ROM file")
		frames      = flag.Int("frames", 600, "Frames to emulate in headless mode")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		debug       = flag.Bool("debug", false, "Verbose logging")
	)
	flag.Parse()

	if *coreFile == "" || *romFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: agb -core <core.wasm> -rom <game.gb> [-i] [-frames n]")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
		engine.SetLogger(l)
	}
	defer logger.Sync()

	if *interactive {
		if err := runInteractive(*coreFile, *romFile, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runHeadless(*coreFile, *romFile, *frames, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// consoleFrontend prints guest diagnostics and counts frames. Used in
// headless mode, where there is no display surface.
type consoleFrontend struct {
	logger *zap.Logger
	frames int
	alert  string
}

func (f *consoleFrontend) Log(text string)   { f.logger.Info("guest: " + text) }
func (f *consoleFrontend) Error(text string) { f.logger.Error("guest: " + text) }

func (f *consoleFrontend) Alert(text string) {
	f.alert = text
	fmt.Fprintf(os.Stderr, "ALERT: %s\n", text)
}

func (f *consoleFrontend) Draw(width, height int, pixels []byte) {
	f.frames++
}

func runHeadless(coreFile, romFile string, frames int, logger *zap.Logger) error {
	ctx := context.Background()

	coreWasm, err := os.ReadFile(coreFile)
	if err != nil {
		return fmt.Errorf("read core: %w", err)
	}
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}

	eng, err := engine.New(ctx)
	if err != nil {
		return err
	}
	defer eng.Close(ctx)

	front := &consoleFrontend{logger: logger}
	b, err := bridge.Open(ctx, eng, coreWasm, front, bridge.WithLogger(logger))
	if err != nil {
		return err
	}
	defer b.Close(ctx)

	if err := b.LoadROM(ctx, rom); err != nil {
		return err
	}
	if front.alert != "" {
		return fmt.Errorf("rom rejected: %s", front.alert)
	}

	for i := 0; i < frames; i++ {
		if err := b.Emulate(ctx, pump.StepMillis); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	fmt.Printf("Emulated %d steps, %d frames drawn\n", frames, front.frames)
	return nil
}
