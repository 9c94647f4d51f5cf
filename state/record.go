// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/vechain/stakeledger/kv"
)

// Record is a single RLP encoded value stored under a fixed key,
// similar to a state variable of a contract.
type Record[V any] struct {
	state *State
	key   []byte
}

func NewRecord[V any](state *State, key string) *Record[V] {
	return &Record[V]{state: state, key: []byte(key)}
}

// Get decodes the stored value into a fresh V.
// The boolean reports whether a value was stored.
func (r *Record[V]) Get() (value V, found bool, err error) {
	return decode[V](r.state, r.key)
}

// Set encodes and stores the value.
func (r *Record[V]) Set(value V) error {
	return encode(r.state, r.key, value)
}

// Mapping is a string keyed collection of RLP encoded values sharing a bucket.
type Mapping[V any] struct {
	state  *State
	bucket kv.Bucket
}

func NewMapping[V any](state *State, bucket kv.Bucket) *Mapping[V] {
	return &Mapping[V]{state: state, bucket: bucket}
}

// Get decodes the value stored under key.
func (m *Mapping[V]) Get(key string) (value V, found bool, err error) {
	return decode[V](m.state, m.bucket.Key([]byte(key)))
}

// Has reports whether a value is stored under key.
func (m *Mapping[V]) Has(key string) (bool, error) {
	return m.state.Has(m.bucket.Key([]byte(key)))
}

// Set encodes and stores the value under key.
func (m *Mapping[V]) Set(key string, value V) error {
	return encode(m.state, m.bucket.Key([]byte(key)), value)
}

// ForEach calls fn with every committed value in key order.
// It must not be called with pending changes, which it would miss.
func (m *Mapping[V]) ForEach(fn func(key string, value V) error) error {
	return m.state.iterate(m.bucket, func(key, raw []byte) error {
		var value V
		if err := rlp.DecodeBytes(raw, &value); err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return fn(string(key), value)
	})
}

func decode[V any](s *State, key []byte) (value V, found bool, err error) {
	raw, err := s.Get(key)
	if err != nil {
		return value, false, err
	}
	if len(raw) == 0 {
		return value, false, nil
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, false, errors.Wrapf(err, "decode %q", key)
	}
	return value, true, nil
}

func encode[V any](s *State, key []byte, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrapf(err, "encode %q", key)
	}
	s.Set(key, raw)
	return nil
}
