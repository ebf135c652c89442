package service

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/port"
)

// pathImage remembers which frame path it was decoded from.
type pathImage struct {
	*image.RGBA
	path string
}

type fakeSource struct {
	fail map[string]error
}

func (s *fakeSource) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := s.fail[path]; err != nil {
		return nil, err
	}
	return pathImage{RGBA: image.NewRGBA(image.Rect(0, 0, 4, 4)), path: path}, nil
}

type fakeSinks struct {
	mu      sync.Mutex
	written map[string][]string
	closed  map[string]bool
	aborted map[string]bool
	openErr map[string]error
}

func newFakeSinks() *fakeSinks {
	return &fakeSinks{
		written: make(map[string][]string),
		closed:  make(map[string]bool),
		aborted: make(map[string]bool),
		openErr: make(map[string]error),
	}
}

func (f *fakeSinks) Open(ctx context.Context, outputPath string, width, height int, fps float64) (port.VideoSink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.openErr[outputPath]; err != nil {
		return nil, err
	}
	if _, exists := f.written[outputPath]; exists {
		return nil, fmt.Errorf("%w: %s opened twice", domain.ErrSink, outputPath)
	}
	f.written[outputPath] = []string{}
	return &fakeSink{parent: f, path: outputPath}, nil
}

func (f *fakeSinks) frames(path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[path]
}

type fakeSink struct {
	parent *fakeSinks
	path   string
}

func (s *fakeSink) WriteFrame(img image.Image) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.written[s.path] = append(s.parent.written[s.path], img.(pathImage).path)
	return nil
}

func (s *fakeSink) Close() error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.closed[s.path] = true
	return nil
}

func (s *fakeSink) Abort() error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.aborted[s.path] = true
	return nil
}

func mkdir(path string) error {
	return os.MkdirAll(path, 0755)
}
