package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	A int
	B string
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	c := New(t.TempDir(), false)

	key := Key([]byte("source-stop-1"), []byte("2026-08-01"))
	require.NoError(t, c.Store(key, record{A: 7, B: "hi"}))

	var out record
	ok, err := c.Load(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record{A: 7, B: "hi"}, out)
}

func TestLoadMissesOnForceRebuild(t *testing.T) {
	c := New(t.TempDir(), false)
	key := Key([]byte("x"))
	require.NoError(t, c.Store(key, record{A: 1}))

	c.ForceRebuild = true
	var out record
	ok, err := c.Load(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadMissesOnMissingFile(t *testing.T) {
	c := New(t.TempDir(), false)
	var out record
	ok, err := c.Load(Key([]byte("missing")), &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
