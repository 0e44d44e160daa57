package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dwin-go/config"
	"dwin-go/core"
	"dwin-go/logging"
	"dwin-go/manager"
	"dwin-go/platform"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the window manager",
	Long: `Run the manager event loop against the headless adapter, reading
keystrokes from the terminal. Alt+1..5 switch buffers, Alt+Shift+P toggles
passthrough. Shift is decoded only on letters, so the Alt+Shift+digit
move-app bindings cannot be typed here. Press q or Ctrl-C to quit.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runScreen        string
	runPruneInterval time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runScreen, "screen", "1920x1080", "screen size as WIDTHxHEIGHT")
	runCmd.Flags().DurationVar(&runPruneInterval, "prune-interval", 10*time.Second, "how often to drop exited processes")
}

// parseScreen parses a WIDTHxHEIGHT flag value.
func parseScreen(s string) (core.Rect, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return core.Rect{}, fmt.Errorf("invalid screen %q, expected WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return core.Rect{}, fmt.Errorf("invalid screen width %q: %w", parts[0], err)
	}
	height, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return core.Rect{}, fmt.Errorf("invalid screen height %q: %w", parts[1], err)
	}
	rect := core.Rect{Width: width, Height: height}
	if !rect.Valid() {
		return core.Rect{}, fmt.Errorf("screen %q has no area", s)
	}
	return rect, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := GetContext()

	screen, err := parseScreen(runScreen)
	if err != nil {
		return err
	}

	cfg := core.NewConfig()
	if err := config.Load(GetConfigPath(), cfg); err != nil {
		return err
	}

	adapter := platform.NewHeadless(screen)
	m := manager.New(cfg, adapter)
	m.Debug = globalDebug

	terminal, err := platform.NewTerminal(os.Stdin)
	if err != nil {
		return err
	}
	defer terminal.Restore()

	logging.InfoContext(ctx, "manager started",
		"screen", runScreen,
		"rules", len(cfg.Rules),
		"bindings", len(cfg.Bindings))

	// keystrokes arrive on their own goroutine so the loop can also watch
	// for cancellation and the prune tick
	keys := make(chan platform.KeyEvent)
	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			ev, ok, stop, err := terminal.ReadKey()
			if err != nil || stop {
				return
			}
			if ok {
				keys <- ev
			}
		}
	}()

	prune := time.NewTicker(runPruneInterval)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return saveAndExit(m)
		case <-quit:
			return saveAndExit(m)
		case ev := <-keys:
			if _, err := m.HandleKey(ctx, ev.Modifiers, ev.Keycode); err != nil {
				logging.ErrorContext(ctx, "key handling failed", "error", err)
			}
		case <-prune.C:
			if dropped, err := m.PruneDead(ctx); err != nil {
				logging.ErrorContext(ctx, "prune failed", "error", err)
			} else if dropped > 0 {
				logging.InfoContext(ctx, "pruned exited apps", "count", dropped)
			}
		}
	}
}

func saveAndExit(m *manager.Manager) error {
	path := GetStatePath()
	if err := m.SaveState(path); err != nil {
		logging.Warn("could not save state", "path", path, "error", err)
	}
	return nil
}
