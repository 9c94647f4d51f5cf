// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import "github.com/vechain/stakeledger/eventdb"

type Event struct {
	Seq             uint64  `json:"seq"`
	Kind            string  `json:"kind"`
	Account         string  `json:"account,omitempty"`
	Caller          string  `json:"caller"`
	Amount          *string `json:"amount,omitempty"`
	Height          uint64  `json:"height"`
	EffectiveHeight uint64  `json:"effectiveHeight"`
	Timestamp       uint64  `json:"timestamp"`
	Epoch           uint64  `json:"epoch"`
}

func convertEvent(ev *eventdb.Event) *Event {
	out := &Event{
		Seq:             ev.Seq,
		Kind:            string(ev.Kind),
		Account:         ev.Account,
		Caller:          ev.Caller,
		Height:          ev.Height,
		EffectiveHeight: ev.EffectiveHeight,
		Timestamp:       ev.Timestamp,
		Epoch:           ev.Epoch,
	}
	if ev.Amount != nil {
		amount := ev.Amount.Dec()
		out.Amount = &amount
	}
	return out
}
