package domain

import (
	"fmt"
	"math"
	"time"
)

type JobStatus string

const (
	JobStatusDone   JobStatus = "done"
	JobStatusFailed JobStatus = "failed"
)

// ValidFPS reports whether fps is a finite positive rate.
func ValidFPS(fps float64) bool {
	return fps > 0 && !math.IsInf(fps, 0)
}

// VideoJob pairs one sequence with its output identity and encoding target.
type VideoJob struct {
	ID         string
	Position   int
	Sequence   Sequence
	OutputPath string
	Width      int
	Height     int
	FPS        float64
}

func (j VideoJob) Validate() error {
	switch {
	case j.Width <= 0 || j.Height <= 0:
		return fmt.Errorf("%w: job %s: resolution must be positive, got %dx%d", ErrConfiguration, j.ID, j.Width, j.Height)
	case !ValidFPS(j.FPS):
		return fmt.Errorf("%w: job %s: fps must be positive, got %g", ErrConfiguration, j.ID, j.FPS)
	case j.OutputPath == "":
		return fmt.Errorf("%w: job %s: empty output path", ErrConfiguration, j.ID)
	}
	return nil
}

// DispatchResult is the outcome of one VideoJob.
type DispatchResult struct {
	JobID      string        `json:"job_id"`
	Position   int           `json:"position"`
	OutputPath string        `json:"output_path"`
	Frames     int           `json:"frames"`
	Status     JobStatus     `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	Bytes      int64         `json:"bytes"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

func (r DispatchResult) Succeeded() bool {
	return r.Status == JobStatusDone
}

// Succeed marks the result done with the number of frames written.
func (r *DispatchResult) Succeed(frames int, size int64) {
	r.Status = JobStatusDone
	r.Frames = frames
	r.Bytes = size
	r.Reason = ""
	r.Err = nil
}

func (r *DispatchResult) Fail(frames int, err error) {
	r.Status = JobStatusFailed
	r.Frames = frames
	r.Err = err
	if err != nil {
		r.Reason = err.Error()
	}
}
