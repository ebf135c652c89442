package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/port"
)

// CodecTag is the fourcc written into every AVI.
const CodecTag = "DIVX"

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains null byte")
)

// Converter opens ffmpeg processes that encode raw RGBA frames read from
// stdin into MPEG-4 Part 2 AVI files.
type Converter struct {
	binary string
}

func NewConverter(binary string) port.SinkFactory {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Converter{binary: binary}
}

func (c *Converter) Open(ctx context.Context, outputPath string, width, height int, fps float64) (port.VideoSink, error) {
	if err := validatePath(outputPath); err != nil {
		return nil, fmt.Errorf("%w: invalid output path: %w", domain.ErrSink, err)
	}
	if width <= 0 || height <= 0 || !domain.ValidFPS(fps) {
		return nil, fmt.Errorf("%w: invalid target %dx%d@%g", domain.ErrSink, width, height, fps)
	}

	stderr := newTailBuffer(4096)
	cmd := exec.CommandContext(ctx, c.binary, buildArgs(outputPath, width, height, fps)...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %w", domain.ErrSink, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %w", domain.ErrSink, c.binary, err)
	}

	kill := func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Kill()
	}
	return newSink(outputPath, width, height, stdin, cmd.Wait, kill, stderr), nil
}

func buildArgs(outputPath string, width, height int, fps float64) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "pipe:0",
		"-an",
		"-c:v", "mpeg4",
		"-vtag", CodecTag,
		"-q:v", "3",
		"-pix_fmt", "yuv420p",
		"-f", "avi",
		"-y", outputPath,
	}
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	return nil
}

var _ port.SinkFactory = (*Converter)(nil)
