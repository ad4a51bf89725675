package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/bogglefr/bogglesrv/internal/board"
	"github.com/bogglefr/bogglesrv/internal/config"
	"github.com/bogglefr/bogglesrv/internal/dict"
	"github.com/bogglefr/bogglesrv/internal/game"
	"github.com/bogglefr/bogglesrv/internal/gamelog"
	"github.com/bogglefr/bogglesrv/internal/grid"
	"github.com/bogglefr/bogglesrv/internal/players"
	"github.com/bogglefr/bogglesrv/internal/scheduler"
	"github.com/bogglefr/bogglesrv/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("bogglesrv starting",
		"bind", cfg.BindAddress,
		"port", cfg.Port,
		"tours", cfg.Turns,
		"immediat", cfg.Immediate,
		"log_level", cfg.LogLevel)

	// No dictionary, no game.
	d, err := dict.Load(cfg.Dictionary)
	if err != nil {
		return fmt.Errorf("loading dictionary: %w", err)
	}
	slog.Info("dictionnaire chargé", "path", cfg.Dictionary, "words", d.Len())

	var src grid.Source = grid.RandomSource{}
	if len(cfg.Grids) > 0 {
		cyclic, err := grid.NewCyclicSource(cfg.Grids)
		if err != nil {
			return fmt.Errorf("parsing fixed grids: %w", err)
		}
		src = cyclic
		slog.Info("grilles fixes activées", "count", len(cfg.Grids))
	}

	g := game.New(board.New(src, cfg.Immediate), players.NewRegistry(), d)
	glog := gamelog.New(256)
	sched := scheduler.New(g, glog, cfg.Turns, cfg.TurnDuration(), cfg.PauseDuration())
	srv := server.New(cfg, g, sched, glog)

	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return glog.Run(gctx)
	})

	eg.Go(func() error {
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	if cfg.WSPort != 0 {
		eg.Go(func() error {
			return srv.RunWS(gctx)
		})
	}

	return eg.Wait()
}

// parseLogLevel converts the configured level to slog.Level, defaulting to
// Info.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
