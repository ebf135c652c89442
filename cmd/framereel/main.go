package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/framereel/config"
	"github.com/bnema/framereel/internal/adapter/converter/ffmpeg"
	"github.com/bnema/framereel/internal/adapter/framesource/imagefile"
	"github.com/bnema/framereel/internal/adapter/storage/jsonfile"
	sqlitestore "github.com/bnema/framereel/internal/adapter/storage/sqlite"
	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/infrastructure/logger"
	"github.com/bnema/framereel/internal/port"
	"github.com/bnema/framereel/internal/service"
)

const (
	exitOK         = 0
	exitJobsFailed = 1
	exitConfig     = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return exitOK
		}
		logger.Error.Printf("%v", err)
		return exitConfig
	}
	logger.SetVerbose(cfg.Verbose)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error.Printf("failed to open run ledger: %v", err)
		return exitConfig
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	eventBus := service.NewEventBus()
	events := eventBus.SubscribeAll()
	logged := make(chan struct{})
	go func() {
		defer close(logged)
		logEvents(events)
	}()

	opts := service.RunOptions{
		Pattern: cfg.Images,
		Ext:     cfg.Ext,
		Spec: service.JobSpec{
			Prefix: cfg.Prefix,
			Width:  cfg.Width,
			Height: cfg.Height,
			FPS:    cfg.FPS,
		},
		Pool: cfg.Pool(),
	}
	runner := service.NewRunner(opts, imagefile.NewSource(), ffmpeg.NewConverter(cfg.FFmpegPath), store, eventBus)

	report, err := runner.Run(ctx)
	eventBus.UnsubscribeAll(events)
	<-logged
	if err != nil {
		logger.Error.Printf("%v", err)
		if errors.Is(err, domain.ErrConfiguration) {
			return exitConfig
		}
		return exitJobsFailed
	}

	if ctx.Err() != nil {
		logger.Warn.Printf("interrupted")
		return exitJobsFailed
	}
	if cfg.Strict && report.Failed() > 0 {
		return exitJobsFailed
	}
	return exitOK
}

func openStore(cfg *config.Config) (port.RunStore, error) {
	if cfg.Ledger == config.LedgerNone {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	switch cfg.Ledger {
	case config.LedgerSQLite:
		return sqlitestore.NewStore(cfg.DataDir)
	case config.LedgerJSON:
		return jsonfile.NewStore(cfg.DataDir)
	}
	return nil, fmt.Errorf("%w: unknown ledger %q", domain.ErrConfiguration, cfg.Ledger)
}

func logEvents(events <-chan service.Event) {
	for e := range events {
		switch e.Type {
		case service.EventStarted:
			logger.Info.Printf("%s: started (%d frames)", logger.SanitizeForLog(e.JobID), e.Total)
		case service.EventFrame:
			logger.Debug.Printf("%s: frame %d/%d", logger.SanitizeForLog(e.JobID), e.Frame, e.Total)
		case service.EventDone:
			logger.Info.Printf("%s: done (%d frames)", logger.SanitizeForLog(e.JobID), e.Frame)
		}
	}
}
