package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	gliderssh "github.com/gliderlabs/ssh"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"

	"pkt.systems/pslog"

	"github.com/lixenwraith/cellframe/config"
	"github.com/lixenwraith/cellframe/logx"
	"github.com/lixenwraith/cellframe/terminal"
)

func newServeSSHCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-ssh",
		Short: "Serve the dashboard to SSH sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.SSH.Addr = addr
			}
			log, closeLog, err := openLogger(cfg.Logging, false)
			if err != nil {
				return err
			}
			defer closeLog()
			return serveSSH(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ssh.addr)")
	return cmd
}

func serveSSH(ctx context.Context, cfg config.Config, log pslog.Logger) error {
	srv := &sshDashboard{
		render: cfg.Render,
		log:    log,
	}
	server := &gliderssh.Server{
		Addr:    cfg.SSH.Addr,
		Handler: srv.handleSession,
	}
	if cfg.SSH.HostKey != "" {
		signer, err := ensureHostKey(cfg.SSH.HostKey)
		if err != nil {
			return err
		}
		server.AddHostKey(signer)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Info("ssh dashboard listening", "addr", cfg.SSH.Addr, "ephemeral_key", cfg.SSH.HostKey == "")

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh listen: %w", err)
	}
}

// sshDashboard runs one dashboard per SSH session
type sshDashboard struct {
	render config.RenderConfig
	log    pslog.Logger
}

func (s *sshDashboard) handleSession(sess gliderssh.Session) {
	remote := sess.RemoteAddr().String()
	log := logx.WithSession(s.log.With("user", sess.User(), "remote", remote), sess.Context().SessionID())

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		_ = sess.Exit(1)
		return
	}

	size := &windowSize{}
	size.Store(pty.Window.Width, pty.Window.Height)
	colorMode := sessionColorMode(sess.Environ(), s.render.ColorMode)

	backend := terminal.NewANSIBackend(sess, terminal.ANSIOptions{
		ColorMode: colorMode,
		Size:      size.Get,
	})
	if err := backend.EnterScreen(); err != nil {
		log.Warn("ssh session setup failed", "err", err)
		return
	}
	defer backend.LeaveScreen()

	log.Info("ssh session opened", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)
	started := time.Now()

	ctx, cancel := context.WithCancel(logx.WithContext(sess.Context(), log))
	defer cancel()

	err := runDashboard(ctx, session{
		backend:  backend,
		keys:     readKeys(ctx, sess),
		resize:   forwardWindows(ctx, winCh, size),
		interval: time.Duration(s.render.FrameIntervalMs) * time.Millisecond,
		gap:      s.render.CoalesceGap,
		host:     "ssh " + sess.User(),
		log:      logx.Ctx(ctx),
	})
	if err != nil {
		log.Warn("ssh dashboard failed", "err", err)
	}
	log.Info("ssh session closed", "duration", time.Since(started).Round(time.Millisecond))
}

// windowSize holds the latest pty window size for the backend's SizeFunc
type windowSize struct {
	packed atomic.Uint64
}

func (w *windowSize) Store(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	w.packed.Store(uint64(uint32(width))<<32 | uint64(uint32(height)))
}

// Get implements terminal.SizeFunc
func (w *windowSize) Get() (int, int, error) {
	v := w.packed.Load()
	return int(v >> 32), int(uint32(v)), nil
}

// forwardWindows records pty window changes and turns them into resize events
func forwardWindows(ctx context.Context, winCh <-chan gliderssh.Window, size *windowSize) <-chan terminal.ResizeEvent {
	out := make(chan terminal.ResizeEvent, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case win, ok := <-winCh:
				if !ok {
					return
				}
				size.Store(win.Width, win.Height)
				w, h, _ := size.Get()
				select {
				case out <- terminal.ResizeEvent{Width: w, Height: h}:
				default:
				}
			}
		}
	}()
	return out
}

// sessionColorMode picks true color when the client advertises it, else the
// configured mode; auto without a hint falls back to 256 colors
func sessionColorMode(env []string, configured string) terminal.ColorMode {
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		if k == "COLORTERM" && (v == "truecolor" || v == "24bit") {
			return terminal.ColorModeTrueColor
		}
	}
	switch strings.ToLower(configured) {
	case "", config.ColorAuto:
		return terminal.ColorMode256
	}
	mode, _ := terminal.ParseColorMode(configured)
	return mode
}

// ensureHostKey loads the ed25519 host key at path, generating it on first use
func ensureHostKey(path string) (ssh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse host key: %w", err)
		}
		return signer, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read host key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create host key dir: %w", err)
	}
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "cellframe")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("write host key: %w", err)
	}
	if err := pem.Encode(file, block); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("encode host key: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close host key: %w", err)
	}
	return ssh.NewSignerFromKey(priv)
}
