// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import "github.com/vechain/stakeledger/staking"

// Event is a staking event as stored in the db.
type Event struct {
	Seq uint64 // assigned on append, starts at 1
	staking.Event
}

type RangeType string

const (
	Height RangeType = "height"
	Time   RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds the live height or the timestamp of events, both ends inclusive.
// To is ignored when it is below From.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Zero fields match everything.
type Filter struct {
	Account string
	Kinds   []staking.EventKind
	Range   *Range
	Order   Order // default asc
	Options *Options
}
