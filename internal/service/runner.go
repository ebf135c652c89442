package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/infrastructure/logger"
	"github.com/bnema/framereel/internal/port"
	"github.com/dustin/go-humanize"
)

type RunOptions struct {
	Pattern string
	Ext     string
	Spec    JobSpec
	Pool    domain.PoolConfig
}

// Runner drives one batch: discover, plan, dispatch, persist.
type Runner struct {
	opts     RunOptions
	source   port.FrameSource
	sinks    port.SinkFactory
	store    port.RunStore
	eventBus EventPublisher
}

// NewRunner wires a run. store and eventBus may be nil.
func NewRunner(opts RunOptions, source port.FrameSource, sinks port.SinkFactory, store port.RunStore, eventBus EventPublisher) *Runner {
	return &Runner{
		opts:     opts,
		source:   source,
		sinks:    sinks,
		store:    store,
		eventBus: eventBus,
	}
}

// Run returns a configuration error before any job is dispatched. Job
// failures never fail the run; they are reported in the returned Report.
func (r *Runner) Run(ctx context.Context) (*domain.Report, error) {
	files, err := Discover(r.opts.Pattern, r.opts.Ext)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: pattern %q", domain.ErrNoFrames, r.opts.Pattern)
	}

	plan, err := NewPlanner(r.opts.Pool, r.opts.Spec).Plan(files)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(r.opts.Spec.Prefix); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	pool := NewDispatchPool(NewVideoAssembler(r.source, r.sinks, r.eventBus), r.opts.Pool.WorkerLimit)
	workers := pool.Workers(len(plan.Jobs))

	logger.Info.Printf("frames found: %d", plan.Index.Len())
	logger.Info.Printf("video sequences: %d", len(plan.Sequences))
	logger.Info.Printf("videos to output: %d", len(plan.Jobs))
	logger.Info.Printf("starting with %d workers", workers)

	report := domain.NewReport(r.opts.Spec.Prefix)
	report.TotalFrames = plan.Index.Len()
	report.TotalSequences = len(plan.Sequences)
	report.Workers = workers

	report.Finish(pool.Dispatch(ctx, plan.Jobs))

	for _, res := range report.Results {
		if !res.Succeeded() {
			logger.Error.Printf("job %s failed: %s", res.JobID, res.Reason)
		}
	}

	if r.store != nil {
		if err := r.store.SaveReport(report); err != nil {
			logger.Error.Printf("failed to save run report %s: %v", report.ID, err)
		}
	}

	logger.Info.Printf("run %s finished in %s: %d succeeded, %d failed, %s written",
		report.ID, report.Elapsed().Round(time.Millisecond), report.Succeeded(), report.Failed(),
		humanize.Bytes(uint64(report.OutputBytes())))
	return report, nil
}
