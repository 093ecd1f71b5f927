package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestStartOrdering(t *testing.T) {
	var started []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			started = append(started, name)
			return nil
		}
	}

	s := NewStartup(noopLogger(), 1)
	s.AddDependency(NewDependency("server", []string{"database", "consumer"}, record("server"), nil))
	s.AddDependency(NewDependency("database", nil, record("database"), nil))
	s.AddDependency(NewDependency("consumer", []string{"database"}, record("consumer"), nil))

	err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"database", "consumer", "server"}, started)
}

func TestStopReversesRegistrationOrder(t *testing.T) {
	var stopped []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			stopped = append(stopped, name)
			return nil
		}
	}

	s := NewStartup(noopLogger(), 1)
	s.AddDependency(NewDependency("database", nil, nil, record("database")))
	s.AddDependency(NewDependency("consumer", nil, nil, record("consumer")))
	s.AddDependency(NewDependency("server", nil, nil, record("server")))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"server", "consumer", "database"}, stopped)
}

func TestStartFailsAfterMaxAttempts(t *testing.T) {
	attempts := 0
	s := NewStartup(noopLogger(), 1)
	s.AddDependency(NewDependency("database", nil, func(context.Context) error {
		attempts++
		return errors.New("connection refused")
	}, nil))

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup failed after 1 attempts")
	assert.Equal(t, 1, attempts)
}

func TestStartRetriesTransientFailures(t *testing.T) {
	attempts := 0
	s := NewStartup(noopLogger(), 3)
	s.AddDependency(NewDependency("database", nil, func(context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("connection refused")
		}
		return nil
	}, nil))

	err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestUnregisteredDependencyIsAnError(t *testing.T) {
	s := NewStartup(noopLogger(), 1)
	s.AddDependency(NewDependency("server", []string{"database"}, nil, nil))

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unregistered")
}

func TestStopSkipsNeverStartedDependencies(t *testing.T) {
	stopped := false
	s := NewStartup(noopLogger(), 1)
	s.AddDependency(NewDependency("consumer", nil, nil, func(context.Context) error {
		stopped = true
		return nil
	}))

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, stopped)
}
