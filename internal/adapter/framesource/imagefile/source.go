package imagefile

import (
	"bufio"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/port"
)

// Source decodes JPEG and PNG frames from the local filesystem.
type Source struct{}

func NewSource() port.FrameSource {
	return &Source{}
}

func (s *Source) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrDecode, path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(bufio.NewReaderSize(f, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDecode, path, err)
	}
	return img, nil
}

var _ port.FrameSource = (*Source)(nil)
