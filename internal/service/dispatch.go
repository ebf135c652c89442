package service

import (
	"context"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/infrastructure/logger"
	"golang.org/x/sync/errgroup"
)

type Assembler interface {
	Assemble(ctx context.Context, job domain.VideoJob) domain.DispatchResult
}

// DispatchPool runs assemblers with a bounded number of concurrent workers
// and collects one result per job.
type DispatchPool struct {
	assembler Assembler
	workers   int
}

func NewDispatchPool(assembler Assembler, workers int) *DispatchPool {
	return &DispatchPool{
		assembler: assembler,
		workers:   workers,
	}
}

// EffectiveWorkers bounds the worker count by the number of realized jobs.
func EffectiveWorkers(limit, jobs int) int {
	if jobs <= 0 {
		return 0
	}
	if limit <= 0 {
		return 1
	}
	return min(limit, jobs)
}

func (p *DispatchPool) Workers(jobs int) int {
	return EffectiveWorkers(p.workers, jobs)
}

// Dispatch blocks until every job has a result. Results are returned in job
// order regardless of completion order.
func (p *DispatchPool) Dispatch(ctx context.Context, jobs []domain.VideoJob) []domain.DispatchResult {
	workers := p.Workers(len(jobs))
	if workers == 0 {
		return nil
	}

	out := make([]domain.DispatchResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			logger.Debug.Printf("dispatching job %s (%d frames)", job.ID, job.Sequence.Len())
			out[i] = p.assembler.Assemble(ctx, job)
			return nil
		})
	}
	// Assemble reports failures in its result, so Wait never returns an error.
	_ = g.Wait()
	return out
}
