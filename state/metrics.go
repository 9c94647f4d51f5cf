// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/stakeledger/metrics"

var (
	metricAccessCounter = metrics.LazyLoadCounterVec("state_access_count", []string{"type", "target"})
	metricCommitSize    = metrics.LazyLoadHistogram("state_commit_keys", []int64{0, 1, 2, 3, 5, 10, 50})
	metricCacheHitRate  = metrics.LazyLoadGauge("state_cache_hit_permille")
	metricCacheEntries  = metrics.LazyLoadGauge("state_cache_entries")
)
