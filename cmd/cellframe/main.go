package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/lixenwraith/cellframe/config"
	"github.com/lixenwraith/cellframe/logx"
	"github.com/lixenwraith/cellframe/terminal"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) (code int) {
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			// \r\n survives a terminal still in raw mode
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCELLFRAME CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			code = 2
		}
	}()

	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("cellframe command failed")
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "cellframe",
		Short:         "Terminal UI rendering engine demos",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default ~/.config/cellframe/config.toml)")

	root.AddCommand(newDemoCmd(opts))
	root.AddCommand(newServeSSHCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// loadConfig reads the config from the --config path or the default location
func (o *rootOptions) loadConfig() (config.Config, error) {
	path, err := o.resolvePath()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}

func (o *rootOptions) resolvePath() (string, error) {
	if o.configPath != "" {
		return filepath.Clean(o.configPath), nil
	}
	return config.DefaultConfigPath()
}

// openLogger builds the command logger from config. An interactive UI owns
// stdout, so without a log file it logs nowhere; otherwise stderr is used.
// The returned close func is never nil
func openLogger(cfg config.LoggingConfig, interactive bool) (pslog.Logger, func(), error) {
	if cfg.File == "" {
		if interactive {
			return logx.Discard(), func() {}, nil
		}
		return logx.New(cfg, os.Stderr), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logx.New(cfg, f), func() { _ = f.Close() }, nil
}
