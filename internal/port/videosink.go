package port

import (
	"context"
	"image"
)

// SinkFactory opens one VideoSink per output file.
type SinkFactory interface {
	Open(ctx context.Context, outputPath string, width, height int, fps float64) (VideoSink, error)
}

// VideoSink accepts frames in order. Exactly one of Close or Abort must be
// called to release it: Close finalizes the file, Abort discards it.
type VideoSink interface {
	WriteFrame(img image.Image) error
	Close() error
	Abort() error
}
