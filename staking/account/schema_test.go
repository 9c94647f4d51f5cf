// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacy() *LegacyV1 {
	return &LegacyV1{
		StakeBalance:          uint256.NewInt(1000),
		PreReward:             uint256.NewInt(35),
		LastUpdateHeight:      150,
		UnstakeBalance:        uint256.NewInt(20),
		UnstakeStartTimestamp: 1_700_000_000,
		UnstakeAvailableEpoch: 9,
	}
}

func TestUpgradeV1(t *testing.T) {
	old := legacy()
	acc := Upgrade(old)

	assert.Equal(t, old.StakeBalance, acc.StakeBalance)
	assert.Equal(t, old.PreReward, acc.PreReward)
	assert.Equal(t, old.LastUpdateHeight, acc.LastUpdateHeight)
	assert.Equal(t, old.UnstakeBalance, acc.UnstakeBalance)
	assert.Equal(t, old.UnstakeStartTimestamp, acc.UnstakeStartTimestamp)
	assert.Equal(t, old.UnstakeAvailableEpoch, acc.UnstakeAvailableEpoch)
	assert.Equal(t, DefaultPaidReward, acc.PaidReward)

	// idempotent
	assert.Equal(t, acc, Upgrade(acc))
	assert.Equal(t, acc, Upgrade(Upgrade(acc)))

	// no aliasing with the old record
	acc.StakeBalance.SetUint64(1)
	assert.Equal(t, uint64(1000), old.StakeBalance.Uint64())
}

type unknownShape struct{}

func (unknownShape) Version() Version { return 99 }

func TestUpgradeUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Upgrade(unknownShape{}) })
}

func TestRecordDecodesLegacy(t *testing.T) {
	raw, err := EncodeLegacyV1(legacy())
	require.NoError(t, err)

	var rec Record
	require.NoError(t, rlp.DecodeBytes(raw, &rec))
	assert.Equal(t, V1, rec.Stored)
	assert.Equal(t, Upgrade(legacy()), rec.Account)

	// re-encoding writes the current shape
	raw, err = rlp.EncodeToBytes(&rec)
	require.NoError(t, err)

	var again Record
	require.NoError(t, rlp.DecodeBytes(raw, &again))
	assert.Equal(t, CurrentVersion, again.Stored)
	assert.Equal(t, rec.Account, again.Account)
}

func TestRecordRejectsUnknownVersion(t *testing.T) {
	body, err := rlp.EncodeToBytes(legacy())
	require.NoError(t, err)
	raw, err := rlp.EncodeToBytes(&envelope{Version: 7, Body: body})
	require.NoError(t, err)

	var rec Record
	err = rlp.DecodeBytes(raw, &rec)
	assert.ErrorContains(t, err, "unknown account record version 7")
}

func TestRecordRejectsBodyMismatch(t *testing.T) {
	// a v2 tag over a v1 body is missing a field
	body, err := rlp.EncodeToBytes(legacy())
	require.NoError(t, err)
	raw, err := rlp.EncodeToBytes(&envelope{Version: V2, Body: body})
	require.NoError(t, err)

	var rec Record
	assert.Error(t, rlp.DecodeBytes(raw, &rec))
}
