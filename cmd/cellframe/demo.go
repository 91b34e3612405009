package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"pkt.systems/pslog"

	"github.com/lixenwraith/cellframe/config"
	"github.com/lixenwraith/cellframe/terminal"
)

func newDemoCmd(root *rootOptions) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the process-monitor dashboard in this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if backend != "" {
				cfg.Render.Backend = backend
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			log, closeLog, err := openLogger(cfg.Logging, true)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			log.Info("demo start", "backend", cfg.Render.Backend, "color_mode", cfg.Render.ColorMode)

			switch cfg.Render.Backend {
			case config.BackendTcell:
				err = runTcellDemo(ctx, cfg.Render, log)
			default:
				err = runANSIDemo(ctx, cfg.Render, log)
			}
			log.Info("demo exit", "err", err)
			return err
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "ansi or tcell (overrides render.backend)")
	return cmd
}

func runANSIDemo(ctx context.Context, cfg config.RenderConfig, log pslog.Logger) error {
	tty := terminal.NewTTY(os.Stdin)
	if err := tty.Init(); err != nil {
		return err
	}
	defer tty.Fini()

	backend := terminal.NewANSIBackend(os.Stdout, terminal.ANSIOptions{
		ColorMode: cfg.ResolveColorMode(),
	})
	if err := backend.EnterScreen(); err != nil {
		return fmt.Errorf("enter screen: %w", err)
	}
	defer backend.LeaveScreen()

	return runDashboard(ctx, session{
		backend:  backend,
		keys:     readKeys(ctx, tty),
		resize:   terminal.WatchResize(ctx, os.Stdout),
		interval: time.Duration(cfg.FrameIntervalMs) * time.Millisecond,
		gap:      cfg.CoalesceGap,
		host:     hostname(),
		log:      log,
	})
}

func runTcellDemo(ctx context.Context, cfg config.RenderConfig, log pslog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	keys := make(chan rune, 16)
	resize := make(chan terminal.ResizeEvent, 1)
	go pollTcell(screen, keys, resize)

	return runDashboard(ctx, session{
		backend:  terminal.NewTcellBackend(screen),
		keys:     keys,
		resize:   resize,
		interval: time.Duration(cfg.FrameIntervalMs) * time.Millisecond,
		gap:      cfg.CoalesceGap,
		host:     hostname(),
		log:      log,
	})
}

// pollTcell translates screen events until the screen is finalized
func pollTcell(screen tcell.Screen, keys chan<- rune, resize chan<- terminal.ResizeEvent) {
	defer close(keys)
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
			w, h := ev.Size()
			select {
			case resize <- terminal.ResizeEvent{Width: w, Height: h}:
			default:
			}
		case *tcell.EventKey:
			var r rune
			switch ev.Key() {
			case tcell.KeyCtrlC:
				r = keyCtrlC
			case tcell.KeyDown:
				r = 'j'
			case tcell.KeyUp:
				r = 'k'
			case tcell.KeyRune:
				r = ev.Rune()
			default:
				continue
			}
			select {
			case keys <- r:
			default:
			}
		}
	}
}

// readKeys forwards input bytes from r until it fails or ctx ends
// Escape sequences arrive as their individual bytes
func readKeys(ctx context.Context, r io.Reader) <-chan rune {
	keys := make(chan rune, 16)
	go func() {
		defer close(keys)
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				select {
				case keys <- rune(b):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return keys
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return name
}
