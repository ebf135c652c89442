package service

import (
	"github.com/bnema/framereel/internal/domain"
)

// JobSpec is the encoding target shared by every job of a run.
type JobSpec struct {
	Prefix string
	Width  int
	Height int
	FPS    float64
}

// Plan is the ordered frame index, every partitioned sequence, and the jobs
// realized from the window.
type Plan struct {
	Index     domain.FrameIndex
	Sequences []domain.Sequence
	Jobs      []domain.VideoJob
}

type Planner struct {
	pool domain.PoolConfig
	spec JobSpec
}

func NewPlanner(pool domain.PoolConfig, spec JobSpec) *Planner {
	return &Planner{pool: pool, spec: spec}
}

func (p *Planner) Plan(paths []string) (*Plan, error) {
	if err := p.pool.Validate(); err != nil {
		return nil, err
	}

	index := domain.NewFrameIndex(paths)
	sequences, err := domain.Partition(index, p.pool.GroupSize)
	if err != nil {
		return nil, err
	}

	realized := domain.Window(sequences, p.pool.WindowCount)
	jobs := make([]domain.VideoJob, 0, len(realized))
	for _, seq := range realized {
		position := p.pool.WindowStart + seq.Position
		id := domain.JobName(p.spec.Prefix, position, p.pool.Pad, "")
		job := domain.VideoJob{
			ID:         id,
			Position:   position,
			Sequence:   seq,
			OutputPath: id + domain.VideoExt,
			Width:      p.spec.Width,
			Height:     p.spec.Height,
			FPS:        p.spec.FPS,
		}
		if err := job.Validate(); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return &Plan{Index: index, Sequences: sequences, Jobs: jobs}, nil
}
