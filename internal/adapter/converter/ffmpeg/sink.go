package ffmpeg

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/port"
)

var errReleased = errors.New("sink already released")

// Sink streams frames to one running ffmpeg process.
type Sink struct {
	path   string
	frame  *image.RGBA
	stdin  io.WriteCloser
	buf    *bufio.Writer
	wait   func() error
	kill   func() error
	stderr *tailBuffer

	stopOnce sync.Once
	waitErr  error
	released bool
	frames   int
}

func newSink(path string, width, height int, stdin io.WriteCloser, wait, kill func() error, stderr *tailBuffer) *Sink {
	return &Sink{
		path:   path,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
		stdin:  stdin,
		buf:    bufio.NewWriterSize(stdin, 1<<20),
		wait:   wait,
		kill:   kill,
		stderr: stderr,
	}
}

func (s *Sink) WriteFrame(img image.Image) error {
	if s.released {
		return fmt.Errorf("%w: %w", domain.ErrSink, errReleased)
	}

	b := img.Bounds()
	want := s.frame.Bounds()
	if b.Dx() != want.Dx() || b.Dy() != want.Dy() {
		return fmt.Errorf("%w: frame size %dx%d does not match output %dx%d",
			domain.ErrSink, b.Dx(), b.Dy(), want.Dx(), want.Dy())
	}

	draw.Draw(s.frame, want, img, b.Min, draw.Src)
	if _, err := s.buf.Write(s.frame.Pix); err != nil {
		s.stop(true)
		return s.sinkError("write frame", err)
	}
	s.frames++
	return nil
}

// Close flushes the remaining frames and waits for ffmpeg to finalize the
// container.
func (s *Sink) Close() error {
	if s.released {
		return nil
	}
	s.released = true

	flushErr := s.buf.Flush()
	if waitErr := s.stop(false); waitErr != nil {
		_ = os.Remove(s.path)
		return s.sinkError("finalize", waitErr)
	}
	if flushErr != nil {
		_ = os.Remove(s.path)
		return s.sinkError("flush", flushErr)
	}
	return nil
}

// Abort kills ffmpeg and removes whatever it wrote.
func (s *Sink) Abort() error {
	if s.released {
		return nil
	}
	s.released = true

	s.stop(true)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove partial output: %w", domain.ErrSink, err)
	}
	return nil
}

func (s *Sink) Frames() int {
	return s.frames
}

func (s *Sink) stop(kill bool) error {
	s.stopOnce.Do(func() {
		_ = s.stdin.Close()
		if kill && s.kill != nil {
			_ = s.kill()
		}
		if s.wait != nil {
			s.waitErr = s.wait()
		}
	})
	return s.waitErr
}

func (s *Sink) sinkError(op string, err error) error {
	if tail := strings.TrimSpace(s.stderr.String()); tail != "" {
		return fmt.Errorf("%w: %s %s: %w: %s", domain.ErrSink, op, s.path, err, tail)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrSink, op, s.path, err)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

var _ port.VideoSink = (*Sink)(nil)
