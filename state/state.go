// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vechain/stakeledger/cache"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/stackedmap"
)

var logger = log.WithContext("pkg", "state")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State is a revertable view of the ledger records.
// Writes stay in memory until staged and committed.
type State struct {
	store kv.Store
	cache *cache.LRU[string, []byte] // committed values, nil for absent keys
	sm    *stackedmap.StackedMap[string, []byte]
}

// New create state object.
func New(store kv.Store, cacheSize int) (*State, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	c, err := cache.NewLRU[string, []byte](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "new state cache")
	}
	s := &State{
		store: store,
		cache: c,
	}
	s.reset()
	return s, nil
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
}

// load implements stackedmap.MapGetter by reading committed values.
func (s *State) load(key string) ([]byte, bool, error) {
	metricAccessCounter().AddWithLabel(1, map[string]string{"type": "read", "target": "cache"})
	v, err := s.cache.GetOrLoad(key, s.loadStored)
	if err != nil {
		return nil, false, err
	}
	return v, v != nil, nil
}

// loadStored reads key from the store. Absent keys load as nil so misses are cached too.
func (s *State) loadStored(key string) ([]byte, error) {
	metricAccessCounter().AddWithLabel(1, map[string]string{"type": "read", "target": "store"})

	if snap, changed := s.cache.Stats().Changed(); changed {
		metricCacheHitRate().Set(int64(snap.HitRate()))
		metricCacheEntries().Set(int64(s.cache.Len()))
		logger.Trace("state cache stats", "hit", snap.Hits, "miss", snap.Misses, "entries", s.cache.Len())
	}

	v, err := s.store.Get([]byte(key))
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, &Error{errors.Wrapf(err, "get %x", key)}
	}
	return v, nil
}

// iterate calls fn with the committed values of bucket in key order, keys unprefixed.
// Pending changes are not visited.
func (s *State) iterate(bucket kv.Bucket, fn func(key, value []byte) error) error {
	iter := s.store.Iterate(bucket.Range())
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Key()[len(bucket):], iter.Value()); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return &Error{errors.Wrap(err, "iterate")}
	}
	return nil
}

// Get returns the value of the given key, or nil if absent.
func (s *State) Get(key []byte) ([]byte, error) {
	v, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Has returns whether the given key has a value.
func (s *State) Has(key []byte) (bool, error) {
	_, found, err := s.sm.Get(string(key))
	return found, err
}

// Set sets the value of the given key. Values must not be empty.
func (s *State) Set(key, value []byte) {
	if len(value) == 0 {
		panic("state: empty value")
	}
	metricAccessCounter().AddWithLabel(1, map[string]string{"type": "write", "target": "stack"})
	s.sm.Put(string(key), value)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 || revision > s.sm.Depth() {
		panic("state: invalid revision")
	}
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit changes.
func (s *State) Stage() *Stage {
	changes := make(map[string][]byte)
	var keys []string
	for _, entry := range s.sm.Journal() {
		if _, ok := changes[entry.Key]; !ok {
			keys = append(keys, entry.Key)
		}
		changes[entry.Key] = entry.Value
	}
	return &Stage{state: s, keys: keys, changes: changes}
}
