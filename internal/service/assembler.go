package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/infrastructure/logger"
	"github.com/bnema/framereel/internal/port"
)

// VideoAssembler turns one VideoJob into one video file. Every failure is
// reported through the returned DispatchResult.
type VideoAssembler struct {
	source   port.FrameSource
	sinks    port.SinkFactory
	eventBus EventPublisher
}

func NewVideoAssembler(source port.FrameSource, sinks port.SinkFactory, eventBus EventPublisher) *VideoAssembler {
	return &VideoAssembler{
		source:   source,
		sinks:    sinks,
		eventBus: eventBus,
	}
}

func (a *VideoAssembler) Assemble(ctx context.Context, job domain.VideoJob) (res domain.DispatchResult) {
	start := time.Now()
	res = domain.DispatchResult{
		JobID:      job.ID,
		Position:   job.Position,
		OutputPath: job.OutputPath,
	}

	var sink port.VideoSink
	written := 0
	defer func() {
		if p := recover(); p != nil {
			if sink != nil {
				_ = sink.Abort()
			}
			res.Fail(written, fmt.Errorf("job %s panicked: %v", job.ID, p))
		}
		res.Duration = time.Since(start)
		if res.Succeeded() {
			a.publish(job.ID, Event{Type: EventDone, Frame: res.Frames, Total: job.Sequence.Len()})
		} else {
			a.publish(job.ID, Event{Type: EventFailed, Frame: res.Frames, Total: job.Sequence.Len(), Message: res.Reason})
		}
	}()

	if err := job.Validate(); err != nil {
		res.Fail(0, err)
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Fail(0, err)
		return res
	}

	a.publish(job.ID, Event{Type: EventStarted, Total: job.Sequence.Len()})

	sink, err := a.sinks.Open(ctx, job.OutputPath, job.Width, job.Height, job.FPS)
	if err != nil {
		sink = nil
		res.Fail(0, asSinkError(err))
		return res
	}

	written, err = a.writeFrames(ctx, sink, job)
	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			logger.Warn.Printf("job %s: abort sink: %v", job.ID, abortErr)
		}
		res.Fail(written, err)
		return res
	}

	if err := sink.Close(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		res.Fail(written, asSinkError(err))
		return res
	}

	var size int64
	if info, err := os.Stat(job.OutputPath); err == nil {
		size = info.Size()
	}
	res.Succeed(written, size)
	return res
}

// writeFrames decodes and writes the sequence strictly in partition order.
func (a *VideoAssembler) writeFrames(ctx context.Context, sink port.VideoSink, job domain.VideoJob) (int, error) {
	total := job.Sequence.Len()
	for i, path := range job.Sequence.Frames {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		img, err := a.source.Decode(ctx, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return i, ctxErr
			}
			if !errors.Is(err, domain.ErrDecode) {
				err = fmt.Errorf("%w: %w", domain.ErrDecode, err)
			}
			return i, fmt.Errorf("frame %d of %d (%s): %w", i+1, total, logger.SanitizeForLog(path), err)
		}

		if err := sink.WriteFrame(img); err != nil {
			// Sinks stop with the context; the write error then only echoes it.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return i, ctxErr
			}
			return i, fmt.Errorf("frame %d of %d: %w", i+1, total, asSinkError(err))
		}

		a.publish(job.ID, Event{Type: EventFrame, Frame: i + 1, Total: total})
	}
	return total, nil
}

func (a *VideoAssembler) publish(jobID string, event Event) {
	if a.eventBus != nil {
		a.eventBus.Publish(jobID, event)
	}
}

func asSinkError(err error) error {
	if errors.Is(err, domain.ErrSink) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrSink, err)
}
