package mocks

import (
	"context"
	"image"

	"github.com/bnema/framereel/internal/port"
	"github.com/stretchr/testify/mock"
)

type SinkFactoryMock struct {
	mock.Mock
}

func NewSinkFactoryMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *SinkFactoryMock {
	m := &SinkFactoryMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SinkFactoryMock) Open(ctx context.Context, outputPath string, width, height int, fps float64) (port.VideoSink, error) {
	args := m.Called(ctx, outputPath, width, height, fps)
	sink, _ := args.Get(0).(port.VideoSink)
	return sink, args.Error(1)
}

type VideoSinkMock struct {
	mock.Mock
}

func NewVideoSinkMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *VideoSinkMock {
	m := &VideoSinkMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *VideoSinkMock) WriteFrame(img image.Image) error {
	return m.Called(img).Error(0)
}

func (m *VideoSinkMock) Close() error {
	return m.Called().Error(0)
}

func (m *VideoSinkMock) Abort() error {
	return m.Called().Error(0)
}

var (
	_ port.SinkFactory = (*SinkFactoryMock)(nil)
	_ port.VideoSink   = (*VideoSinkMock)(nil)
)
