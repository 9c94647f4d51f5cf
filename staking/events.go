// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/holiman/uint256"

// EventKind names a committed ledger operation.
type EventKind string

const (
	EventRegister EventKind = "register"
	EventStake    EventKind = "stake"
	EventUnstake  EventKind = "unstake"
	EventWithdraw EventKind = "withdraw"
	EventPause    EventKind = "pause"
	EventResume   EventKind = "resume"
)

// Valid reports whether k is a known kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventRegister, EventStake, EventUnstake, EventWithdraw, EventPause, EventResume:
		return true
	}
	return false
}

// Event records one committed operation.
type Event struct {
	Kind            EventKind
	Account         string // empty for pause and resume
	Caller          string
	Amount          *uint256.Int // nil when the operation moves no amount
	Height          uint64       // live height
	EffectiveHeight uint64
	Timestamp       uint64
	Epoch           uint64
}

// EventSink receives the events of committed operations.
type EventSink interface {
	Append(ev *Event) error
}
