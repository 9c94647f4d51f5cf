// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	metrics = noop{}

	assert.False(t, Enabled())
	assert.Nil(t, HTTPHandler())

	// all meters accept writes and drop them
	Counter("ops").Add(1)
	CounterVec("ops_vec", []string{"op"}).AddWithLabel(1, map[string]string{"unknown": "label"})
	Gauge("stakers").Set(3)
	GaugeVec("stakers_vec", []string{"op"}).SetWithLabel(1, nil)
	Histogram("latency", nil).Observe(5)
	HistogramVec("latency_vec", []string{"op"}, nil).ObserveWithLabels(5, nil)
}
