// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketKey(t *testing.T) {
	assert.Equal(t, []byte("aalice"), Bucket("a").Key([]byte("alice")))
	assert.Equal(t, []byte("pool"), Bucket("pool").Key(nil))

	key := []byte("bob")
	full := Bucket("a").Key(key)
	full[1] = 'x'
	assert.Equal(t, []byte("bob"), key)
}

func TestBucketRange(t *testing.T) {
	assert.Equal(t, Range{Start: []byte("a"), Limit: []byte("b")}, Bucket("a").Range())
	assert.Equal(t, Range{Start: []byte("a\xff"), Limit: []byte("b")}, Bucket("a\xff").Range())
	assert.Empty(t, Bucket("").Range().Limit)
}
