package agent

import (
	"github.com/haikalllp/spinai-fork/core"
	"github.com/stretchr/testify/mock"
)

// MockAction for testing composite agents.
type MockAction struct {
	mock.Mock
	name string
}

func NewMockAction(name string) *MockAction {
	return &MockAction{name: name}
}

func (m *MockAction) Name() string { return m.name }

func (m *MockAction) Description() string { return "mock " + m.name }

func (m *MockAction) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	args := m.Called(rc, state)
	return args.Get(0).(core.ReviewState), args.Error(1)
}
