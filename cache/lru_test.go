// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[string, int](0)
	assert.Error(t, err)

	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	c.Add("alice", 1)
	c.Add("bob", 2)
	c.Add("carol", 3)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("alice")
	assert.False(t, ok, "oldest entry evicted")
	assert.Equal(t, Snapshot{Hits: 0, Misses: 1}, c.Stats().Snapshot())

	v, ok := c.Get("carol")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, Snapshot{Hits: 1, Misses: 1}, c.Stats().Snapshot())

	// bob was used less recently than carol
	c.Add("dave", 4)
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("bob")
	assert.False(t, ok)
	assert.Equal(t, Snapshot{Hits: 1, Misses: 2}, c.Stats().Snapshot())
}

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, []byte](8)
	require.NoError(t, err)

	loads := 0
	loader := func(key string) ([]byte, error) {
		loads++
		return []byte(key), nil
	}

	for range 3 {
		v, err := c.GetOrLoad("pool", loader)
		require.NoError(t, err)
		assert.Equal(t, []byte("pool"), v)
	}
	assert.Equal(t, 1, loads)
	assert.Equal(t, Snapshot{Hits: 2, Misses: 1}, c.Stats().Snapshot())

	errLoad := errors.New("load failed")
	_, err = c.GetOrLoad("gate", func(string) ([]byte, error) { return nil, errLoad })
	assert.ErrorIs(t, err, errLoad)
	_, ok := c.Get("gate")
	assert.False(t, ok, "failed loads are not cached")
}
