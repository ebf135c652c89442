package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Report aggregates every DispatchResult of a run.
type Report struct {
	ID             string           `json:"id"`
	Prefix         string           `json:"prefix"`
	TotalFrames    int              `json:"total_frames"`
	TotalSequences int              `json:"total_sequences"`
	Workers        int              `json:"workers"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
	Results        []DispatchResult `json:"results"`
}

func NewReport(prefix string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Prefix:    prefix,
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) Finish(results []DispatchResult) {
	r.Results = results
	r.FinishedAt = time.Now().UTC()
}

// Clone returns a copy that shares no Results backing array with r.
func (r *Report) Clone() *Report {
	c := *r
	c.Results = slices.Clone(r.Results)
	return &c
}

func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// OutputBytes sums the sizes of every successfully written video.
func (r *Report) OutputBytes() int64 {
	var total int64
	for _, res := range r.Results {
		if res.Succeeded() {
			total += res.Bytes
		}
	}
	return total
}

func (r *Report) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
