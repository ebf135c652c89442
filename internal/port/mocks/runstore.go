package mocks

import (
	"github.com/bnema/framereel/internal/domain"
	"github.com/bnema/framereel/internal/port"
	"github.com/stretchr/testify/mock"
)

type RunStoreMock struct {
	mock.Mock
}

func NewRunStoreMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *RunStoreMock {
	m := &RunStoreMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RunStoreMock) SaveReport(r *domain.Report) error {
	return m.Called(r).Error(0)
}

func (m *RunStoreMock) GetReport(id string) (*domain.Report, error) {
	args := m.Called(id)
	r, _ := args.Get(0).(*domain.Report)
	return r, args.Error(1)
}

func (m *RunStoreMock) ListReports() ([]*domain.Report, error) {
	args := m.Called()
	r, _ := args.Get(0).([]*domain.Report)
	return r, args.Error(1)
}

func (m *RunStoreMock) Close() error {
	return m.Called().Error(0)
}

var _ port.RunStore = (*RunStoreMock)(nil)
