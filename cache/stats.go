// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts the lookups of a cache.
type Stats struct {
	hits, misses atomic.Uint64
	lastRate     atomic.Uint32
}

func (s *Stats) Hit()  { s.hits.Add(1) }
func (s *Stats) Miss() { s.misses.Add(1) }

// Snapshot is a reading of Stats.
type Snapshot struct {
	Hits   uint64
	Misses uint64
}

// HitRate returns the share of lookups served by the cache, in per mille.
func (s Snapshot) HitRate() uint32 {
	lookups := s.Hits + s.Misses
	if lookups == 0 {
		return 0
	}
	return uint32(s.Hits * 1000 / lookups)
}

// Snapshot reads the counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// Changed reads the counters and reports whether the hit rate moved
// since the previous call.
func (s *Stats) Changed() (Snapshot, bool) {
	snap := s.Snapshot()
	rate := snap.HitRate()
	return snap, s.lastRate.Swap(rate) != rate
}
