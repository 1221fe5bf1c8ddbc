package quickpiggy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 4, m.Concurrency)
	assert.Equal(t, 2*time.Minute, m.Timeout)

	m = NewManager(WithConcurrency(0))
	assert.Equal(t, 1, m.Concurrency, "concurrency is clamped to at least 1")

	m = NewManager(WithConcurrency(8), WithTimeout(time.Second))
	assert.Equal(t, 8, m.Concurrency)
	assert.Equal(t, time.Second, m.Timeout)
}

func TestManagerStartAllEmpty(t *testing.T) {
	m := NewManager()
	instances, err := m.StartAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, instances)

	require.NoError(t, m.TerminateAll(context.Background()))
}

func TestManagerStartAndTerminateAll(t *testing.T) {
	tools := installFakeTools(t)
	m := NewManager(WithConcurrency(2))

	base := []Option{
		WithExtraPath(tools),
		WithPollInterval(10 * time.Millisecond),
		WithVolatile(true),
	}

	dataA := filepath.Join(t.TempDir(), "a")
	dataB := filepath.Join(t.TempDir(), "b")

	instances, err := m.StartAll(context.Background(),
		append([]Option{WithDataDir(dataA), WithPort(4451)}, base...),
		append([]Option{WithDataDir(dataB), WithPort(4452)}, base...),
	)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	for _, inst := range instances {
		assert.Equal(t, StateReady, inst.State())
	}
	assert.Equal(t, 4451, instances[0].Port())
	assert.Equal(t, 4452, instances[1].Port())

	require.NoError(t, m.TerminateAll(context.Background(), instances...))

	for _, dir := range []string{dataA, dataB} {
		_, err := os.Stat(dir)
		assert.True(t, os.IsNotExist(err), "volatile datadir %s not removed", dir)
	}
}

func TestManagerStartAllTearsDownOnFailure(t *testing.T) {
	goodTools := installFakeTools(t)

	badTools := installFakeTools(t)
	writeFakeBin(t, badTools, BinCreateDB, "exit 1\n")

	goodData := filepath.Join(t.TempDir(), "good")
	badData := filepath.Join(t.TempDir(), "bad")

	m := NewManager(WithConcurrency(2))
	instances, err := m.StartAll(context.Background(),
		[]Option{
			WithExtraPath(goodTools),
			WithDataDir(goodData),
			WithPort(4461),
			WithVolatile(true),
			WithPollInterval(10 * time.Millisecond),
		},
		[]Option{
			WithExtraPath(badTools),
			WithDataDir(badData),
			WithPort(4462),
			WithVolatile(true),
			WithCreateDB("demo"),
			WithPollInterval(10 * time.Millisecond),
		},
	)
	require.Error(t, err)
	assert.Nil(t, instances)

	// The instance that did come up was terminated again.
	_, statErr := os.Stat(goodData)
	assert.True(t, os.IsNotExist(statErr), "surviving instance was not torn down")
}

func TestManagerTerminateAllSkipsNil(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.TerminateAll(context.Background(), nil, nil))
}
