// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/vechain/stakeledger/metrics"

var (
	metricOpsCount      = metrics.LazyLoadCounterVec("staking_ops_count", []string{"op", "status"})
	metricRevertCount   = metrics.LazyLoadCounterVec("staking_reverts_count", []string{"op", "kind"})
	metricOpDuration    = metrics.LazyLoadHistogramVec("staking_op_duration_ms", []string{"op"}, metrics.BucketOps)
	metricTotalStakers  = metrics.LazyLoadGauge("staking_total_stakers")
	metricPaused        = metrics.LazyLoadGauge("staking_paused")
	metricEventFailures = metrics.LazyLoadCounter("staking_event_append_failures_count")
)
