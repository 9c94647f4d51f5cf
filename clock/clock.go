// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock supplies the height, timestamp and epoch counters the ledger runs on.
package clock

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/pkg/errors"
)

// Clock is the host clock. All three counters are monotonic non-decreasing.
type Clock interface {
	Height() uint64
	Timestamp() uint64
	Epoch() uint64
}

// Snapshot is the set of clock values read once for a single call.
type Snapshot struct {
	Height    uint64
	Timestamp uint64
	Epoch     uint64
}

// Snapshotter is a clock able to read all counters at one instant.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Take reads all counters of the clock, at one instant when the clock is a Snapshotter.
func Take(c Clock) Snapshot {
	if s, ok := c.(Snapshotter); ok {
		return s.Snapshot()
	}
	return Snapshot{
		Height:    c.Height(),
		Timestamp: c.Timestamp(),
		Epoch:     c.Epoch(),
	}
}

// Manual is a clock driven by hand, for tests and solo runs.
type Manual struct {
	mu   sync.Mutex
	snap Snapshot
}

var (
	_ Clock       = (*Manual)(nil)
	_ Snapshotter = (*Manual)(nil)
)

// NewManual creates a manual clock at the given height, timestamp and epoch.
func NewManual(height, timestamp, epoch uint64) *Manual {
	return &Manual{snap: Snapshot{height, timestamp, epoch}}
}

func (m *Manual) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *Manual) Height() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Height
}

func (m *Manual) Timestamp() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Timestamp
}

func (m *Manual) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Epoch
}

// SetHeight moves the height counter. Moving it backwards is allowed so that
// regressions can be exercised.
func (m *Manual) SetHeight(h uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Height = h
}

// SetEpoch moves the epoch counter.
func (m *Manual) SetEpoch(e uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Epoch = e
}

// SetTimestamp moves the timestamp counter.
func (m *Manual) SetTimestamp(ts uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Timestamp = ts
}

// Advance moves height and timestamp forward by the given number of blocks,
// each block taking interval seconds.
func (m *Manual) Advance(blocks, interval uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Height += blocks
	m.snap.Timestamp += blocks * interval
}

// Default wall clock parameters.
const (
	DefaultBlockInterval = 10 * time.Second
	DefaultEpochLength   = 180
)

// Wall derives the counters from the wall time elapsed since a genesis time.
// Readings never go backwards even if the system time does.
type Wall struct {
	genesis     time.Time
	interval    time.Duration
	epochLength uint64
	now         func() time.Time

	mu   sync.Mutex
	last time.Time
}

var (
	_ Clock       = (*Wall)(nil)
	_ Snapshotter = (*Wall)(nil)
)

// NewWall creates a wall clock. Zero interval or epoch length take the defaults.
func NewWall(genesis time.Time, interval time.Duration, epochLength uint64) *Wall {
	if interval <= 0 {
		interval = DefaultBlockInterval
	}
	if epochLength == 0 {
		epochLength = DefaultEpochLength
	}
	return &Wall{
		genesis:     genesis,
		interval:    interval,
		epochLength: epochLength,
		now:         time.Now,
	}
}

func (w *Wall) current() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if now.Before(w.last) {
		return w.last
	}
	w.last = now
	return now
}

func (w *Wall) heightAt(t time.Time) uint64 {
	if t.Before(w.genesis) {
		return 0
	}
	return uint64(t.Sub(w.genesis) / w.interval)
}

func (w *Wall) Height() uint64 {
	return w.heightAt(w.current())
}

func (w *Wall) Timestamp() uint64 {
	return uint64(w.current().Unix())
}

func (w *Wall) Epoch() uint64 {
	return w.Height() / w.epochLength
}

// Snapshot derives all counters from a single time reading.
func (w *Wall) Snapshot() Snapshot {
	now := w.current()
	height := w.heightAt(now)
	return Snapshot{
		Height:    height,
		Timestamp: uint64(now.Unix()),
		Epoch:     height / w.epochLength,
	}
}

// Interval returns the block interval.
func (w *Wall) Interval() time.Duration {
	return w.interval
}

// CheckOffset queries the NTP server and returns the offset of the local clock.
func CheckOffset(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, errors.Wrap(err, "query ntp")
	}
	return resp.ClockOffset, nil
}
