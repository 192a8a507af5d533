// Package mocks provides testify mocks for the vcs interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/panbanda/reactify/internal/vcs"
)

// MockOpener is a mock type for the vcs.Opener interface.
type MockOpener struct {
	mock.Mock
}

// NewMockOpener creates a MockOpener whose expectations are asserted when
// the test finishes.
func NewMockOpener(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOpener {
	m := &MockOpener{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Open provides a mock function with the given path.
func (m *MockOpener) Open(path string) (vcs.Repository, error) {
	args := m.Called(path)
	var repo vcs.Repository
	if r := args.Get(0); r != nil {
		repo = r.(vcs.Repository)
	}
	return repo, args.Error(1)
}

// MockRepository is a mock type for the vcs.Repository interface.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a MockRepository whose expectations are
// asserted when the test finishes.
func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Root provides a mock function.
func (m *MockRepository) Root() string {
	return m.Called().String(0)
}

// CurrentRef provides a mock function.
func (m *MockRepository) CurrentRef() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// Status provides a mock function.
func (m *MockRepository) Status() (vcs.Status, error) {
	args := m.Called()
	var st vcs.Status
	if s := args.Get(0); s != nil {
		st = s.(vcs.Status)
	}
	return st, args.Error(1)
}
