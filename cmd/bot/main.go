package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliseohh/stickershotbot/internal/bot"
	"github.com/eliseohh/stickershotbot/internal/config"
	"github.com/eliseohh/stickershotbot/internal/logger"
	"github.com/eliseohh/stickershotbot/internal/metrics"
	"github.com/eliseohh/stickershotbot/internal/token"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, token.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:           "stickershot-bot",
		Short:         "Sticker Shot Telegram bot serving /start and /help",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			tok, err := token.NewResolver(log, token.DefaultSources(cfg.WorkDir)...).Resolve()
			if err != nil {
				token.Instructions(stdout)
				return err
			}

			return run(cfg, tok, log)
		},
	}

	cmd.Version = version
	f := cmd.Flags()
	f.StringVar(&cfg.WorkDir, "workdir", cfg.WorkDir, "directory holding .env, config.* and the image")
	f.StringVar(&cfg.ImagePath, "image", cfg.ImagePath, "image sent on /start (relative to --workdir)")
	f.StringVar(&cfg.Env, "env", cfg.Env, "dev or prod (log format)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn, error")
	f.DurationVar(&cfg.PollTimeout, "poll-timeout", cfg.PollTimeout, "long polling timeout")
	f.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (empty disables)")

	return cmd
}

func run(cfg *config.Config, tok token.Token, log *zap.Logger) error {
	b, err := bot.New(bot.Config{
		Token:       string(tok),
		ImagePath:   cfg.Image(),
		PollTimeout: cfg.PollTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("bot init failed: %w", err)
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.StartServer(cfg.MetricsAddr, log)
		defer srv.Close()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Info("shutting down", zap.String("signal", s.String()))
		b.Stop()
	}()

	b.Start()
	return nil
}
