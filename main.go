package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Chlna6666/UA4F/internal/config"
	"github.com/Chlna6666/UA4F/internal/conn"
	"github.com/Chlna6666/UA4F/internal/logging"
	"github.com/Chlna6666/UA4F/internal/proxy"
	"github.com/Chlna6666/UA4F/internal/rewrite"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	start := time.Now()
	cfg := config.Default()

	pflag.StringVarP(&cfg.BindAddress, "bind", "b", cfg.BindAddress, "Listen address")
	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Listen port")
	pflag.StringVarP(&cfg.UserAgent, "user-agent", "f", cfg.UserAgent, "Replacement User-Agent value")
	pflag.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "Log level: debug|info|warn|error")
	pflag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path")
	pflag.BoolVar(&cfg.NoFileLog, "no-file-log", false, "Disable logging to file")
	pflag.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "Timeout for outbound DNS lookup and TCP connect")
	pflag.Int64Var(&cfg.MaxConnections, "max-connections", cfg.MaxConnections, "Maximum concurrently active client connections")
	pflag.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "How long a destination stays marked as non-HTTP")
	pflag.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Maximum entries in the non-HTTP destination cache")

	pflag.CommandLine.SortFlags = false
	pflag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFile, cfg.NoFileLog)

	g, ctx := errgroup.WithContext(context.Background())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := conn.ListenTCP(ctx, "tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})

	srv := proxy.NewServer(proxy.Config{
		DialTimeout:    cfg.DialTimeout,
		MaxConnections: cfg.MaxConnections,
		CacheTTL:       cfg.CacheTTL,
		CacheSize:      cfg.CacheSize,
	}, rewrite.New(cfg.UserAgent, logger), logger)

	g.Go(func() error {
		if err := srv.Serve(ctx, ln); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	logger.Info().
		Str("version", version).
		Int("cores", runtime.NumCPU()).
		Str("listen", cfg.ListenAddr()).
		Str("user_agent", cfg.UserAgent).
		Dur("startup", time.Since(start)).
		Msg("ua4f started")

	err = g.Wait()
	if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		err = nil
	}

	logger.Info().Msg("shutting down")
	return err
}
