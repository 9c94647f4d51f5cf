// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/stakeledger/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("aalice")
		value      = []byte("456")
		inValidKey = []byte("abob")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "ledger"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBBulk(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("a1"), []byte("v1")))
	require.NoError(t, bulk.Put([]byte("a2"), []byte("v2")))
	require.NoError(t, bulk.Delete([]byte("a3")))
	assert.Equal(t, 3, bulk.Len())

	// nothing visible before write
	_, err = db.Get([]byte("a1"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, bulk.Write())
	got, err := db.Get([]byte("a2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestLevelDBReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("pool"), []byte{1}))
	require.NoError(t, db.Close())
	assert.Error(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get([]byte("pool"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got)
}

func TestLevelDBBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"aalice", "abob", "acarol", "pool", "gate"} {
		require.NoError(t, db.Put([]byte(k), []byte(k)))
	}

	iter := db.Iterate(kv.Bucket("a").Range())
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
		assert.Equal(t, iter.Key(), iter.Value())
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"aalice", "abob", "acarol"}, keys)
}
