// Package mocks holds testify mocks shared across package tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// MockTarget implements target.Target for orchestrator tests.
type MockTarget struct {
	mock.Mock
}

func (m *MockTarget) Scan(ctx context.Context) (*types.ScanResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ScanResult), args.Error(1)
}

func (m *MockTarget) Definition() policy.Definition {
	args := m.Called()
	return args.Get(0).(policy.Definition)
}

func (m *MockTarget) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}
