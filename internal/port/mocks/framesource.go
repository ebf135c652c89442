package mocks

import (
	"context"
	"image"

	"github.com/bnema/framereel/internal/port"
	"github.com/stretchr/testify/mock"
)

type FrameSourceMock struct {
	mock.Mock
}

func NewFrameSourceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *FrameSourceMock {
	m := &FrameSourceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *FrameSourceMock) Decode(ctx context.Context, path string) (image.Image, error) {
	args := m.Called(ctx, path)
	img, _ := args.Get(0).(image.Image)
	return img, args.Error(1)
}

var _ port.FrameSource = (*FrameSourceMock)(nil)
