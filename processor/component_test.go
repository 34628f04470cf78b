package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSource(records []Record, err error) (Source, *int) {
	calls := 0
	return SourceFunc(func(context.Context) ([]Record, error) {
		calls++
		return records, err
	}), &calls
}

func TestComponentValue(t *testing.T) {
	src, calls := stubSource([]Record{{ProcessorID: "B"}, {ProcessorID: "A"}}, nil)
	c, err := NewComponent(WithSource(src))
	require.NoError(t, err)

	value, ok := c.Value(context.Background())
	require.True(t, ok)
	assert.Equal(t, "A,B", value)
	assert.Equal(t, 1, *calls, "source must be queried exactly once")

	again, ok := c.Value(context.Background())
	require.True(t, ok)
	assert.Equal(t, value, again)
}

func TestComponentAbsorbsQueryFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	src, calls := stubSource([]Record{{ProcessorID: "ignored"}}, errors.New("access denied"))
	c, err := NewComponent(WithSource(src), WithBackend(BackendWMI), WithLogger(logger))
	require.NoError(t, err)

	value, ok := c.Value(context.Background())
	assert.False(t, ok)
	assert.Empty(t, value)
	assert.Equal(t, 1, *calls, "no retry after failure")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "access denied", entry.Data["error"])
	assert.Equal(t, "wmi", entry.Data["backend"])
}

func TestComponentAbsorbsPanic(t *testing.T) {
	c, err := NewComponent(WithSource(SourceFunc(func(context.Context) ([]Record, error) {
		panic("com not initialized")
	})))
	require.NoError(t, err)

	value, ok := c.Value(context.Background())
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestComponentNoRecords(t *testing.T) {
	src, _ := stubSource(nil, nil)
	c, err := NewComponent(WithSource(src))
	require.NoError(t, err)

	_, ok := c.Value(context.Background())
	assert.False(t, ok)
}

func TestNewComponentUnknownBackend(t *testing.T) {
	_, err := NewComponent(WithBackend("nope"))
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
