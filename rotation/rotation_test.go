package rotation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPool(n int) []Credential {
	pool := make([]Credential, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, Credential{
			Name:   string(rune('A' + i)),
			APIKey: "key",
			Model:  "model",
		})
	}
	return pool
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, "state.json", testLogger())
	assert.Error(t, err)

	_, err = New(testPool(1), "", testLogger())
	assert.Error(t, err)
}

func TestNextWrapsAround(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "model-rotation.json")
	pool := testPool(3)
	r, err := New(pool, statePath, testLogger())
	require.NoError(t, err)

	for i := 0; i < len(pool); i++ {
		got := r.Next()
		assert.Equal(t, pool[i].Name, got.Name)
	}
	// One full cycle later the first credential comes back.
	assert.Equal(t, pool[0].Name, r.Next().Name)
}

func TestNextPersistsAcrossInstances(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "model-rotation.json")
	pool := testPool(3)

	r1, err := New(pool, statePath, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "A", r1.Next().Name)

	r2, err := New(pool, statePath, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "B", r2.Next().Name)
}

func TestCurrentDoesNotAdvance(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "model-rotation.json")
	r, err := New(testPool(3), statePath, testLogger())
	require.NoError(t, err)

	assert.Equal(t, "A", r.Current().Name)
	assert.Equal(t, "A", r.Current().Name)
	assert.Equal(t, "A", r.Next().Name)
	assert.Equal(t, "B", r.Current().Name)
}

func TestCorruptStateStartsFresh(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "model-rotation.json")
	require.NoError(t, os.WriteFile(statePath, []byte("{not json"), 0o600))

	r, err := New(testPool(3), statePath, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "A", r.Next().Name)
}

func TestOutOfRangeIndexStartsFresh(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "model-rotation.json")
	require.NoError(t, os.WriteFile(statePath, []byte(`{"currentIndex": 99, "lastUsed": ""}`), 0o600))

	r, err := New(testPool(3), statePath, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "A", r.Next().Name)
}

func TestReset(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "model-rotation.json")
	r, err := New(testPool(3), statePath, testLogger())
	require.NoError(t, err)

	r.Next()
	r.Next()
	require.NoError(t, r.Reset())
	assert.Equal(t, "A", r.Next().Name)
}

func TestPoolFromEnv(t *testing.T) {
	for i := 1; i <= 7; i++ {
		t.Setenv(fmt.Sprintf("OPENROUTER_API_KEY_%d", i), "")
		t.Setenv(fmt.Sprintf("OPENROUTER_MODEL_%d", i), "")
	}
	t.Setenv("OPENROUTER_API_KEY_2", "secret-2")
	t.Setenv("OPENROUTER_MODEL_2", "vendor/custom:free")

	pool := PoolFromEnv()
	require.Len(t, pool, 7)
	assert.Equal(t, "Model 1", pool[0].Name)
	assert.Equal(t, "nvidia/nemotron-3-nano-30b-a3b:free", pool[0].Model)
	assert.Equal(t, "secret-2", pool[1].APIKey)
	assert.Equal(t, "vendor/custom:free", pool[1].Model)
}
