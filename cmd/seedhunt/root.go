package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/danmuck/seedhunt/internal/config"
	"github.com/danmuck/seedhunt/internal/observability"
	"github.com/danmuck/seedhunt/internal/search"
	"github.com/danmuck/seedhunt/internal/status"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	exitFound       = 0
	exitError       = 1
	exitNotFound    = 2
	exitInterrupted = 130
)

const defaultReportEvery = 100000

type options struct {
	configPath string
	threads    int
	report     uint64
	timeout    time.Duration
	statusAddr string

	stdout io.Writer
	code   int
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &options{stdout: stdout}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "seedhunt: %v\n", err)
		return exitError
	}
	return opts.code
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seedhunt",
		Short: "Recover missing words of a 12-word BIP-39 mnemonic",
		Long: `seedhunt brute-forces the missing words of a 12-word BIP-39 mnemonic.

The known words, their position (head) and the address the complete mnemonic
derives are read from a TOML config. Every candidate is checked by deriving
<path>/0/0 and comparing the resulting address with the target.

Examples:
  seedhunt -c config.toml
  seedhunt -c config.toml -t 8 -p 500000 --timeout 2h
  seedhunt -c config.toml --status-addr 127.0.0.1:9300`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := opts.search(cmd.Context(), cmd.Flags())
			opts.code = code
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "./config.toml", "path to the recovery config")
	flags.IntVarP(&opts.threads, "threads", "t", runtime.NumCPU(), "number of worker goroutines")
	flags.Uint64VarP(&opts.report, "report", "p", defaultReportEvery, "log progress every N candidates")
	flags.DurationVar(&opts.timeout, "timeout", 0, "stop searching after this long (overrides config)")
	flags.StringVar(&opts.statusAddr, "status-addr", "", "serve /health, /progress and /metrics here (overrides config)")
	return cmd
}

// applyFlags overrides file values with explicitly set flags.
func (o *options) applyFlags(cfg *config.Recovery, flags *pflag.FlagSet) {
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("status-addr") {
		cfg.StatusAddr = o.statusAddr
	}
}

func (o *options) searchConfig(cfg config.Recovery) search.Config {
	return search.Config{
		Known:       cfg.Words,
		Head:        cfg.Head,
		Verify:      cfg.VerifyParams(),
		Workers:     o.threads,
		ReportEvery: o.report,
		Timeout:     cfg.Timeout,
	}
}

func (o *options) search(parent context.Context, flags *pflag.FlagSet) (int, error) {
	logger := observability.InitLogger("seedhunt")

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return exitError, err
	}
	o.applyFlags(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		return exitError, err
	}
	logger.Info().
		Str("path", o.configPath).
		Int("known", len(cfg.Words)).
		Bool("head", cfg.Head).
		Msg("loaded recovery config")

	eng, err := search.NewEngine(o.searchConfig(cfg), logger)
	if err != nil {
		return exitError, err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopStatus := o.startStatus(cfg.StatusAddr, eng, logger)
	res, err := eng.Run(ctx)
	stopStatus()
	if err != nil {
		return exitError, err
	}

	switch res.Reason {
	case search.ReasonFound:
		fmt.Fprintf(o.stdout, "got mnemonic: %s\n", res.Phrase)
		return exitFound, nil
	case search.ReasonInterrupted:
		logger.Warn().Uint64("tried", res.Tried).Msg("search interrupted")
		return exitInterrupted, nil
	default:
		logger.Warn().
			Str("reason", string(res.Reason)).
			Uint64("tried", res.Tried).
			Msg("mnemonic not found")
		return exitNotFound, nil
	}
}

// startStatus runs the status server in the background when addr is set and
// returns a func that shuts it down and waits for it.
func (o *options) startStatus(addr string, eng *search.Engine, logger zerolog.Logger) func() {
	if addr == "" {
		return func() {}
	}
	srv := status.New(addr, eng, nil)
	srv.Version = version

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx); err != nil {
			logger.Error().Err(err).Str("addr", addr).Msg("status server failed")
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
