package port

import (
	"context"
	"image"
)

// FrameSource decodes the pixel data behind a frame path.
type FrameSource interface {
	Decode(ctx context.Context, path string) (image.Image, error)
}
