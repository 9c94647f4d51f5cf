// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/stakeledger/staking/reverts"
)

const (
	defaultNumerator   = 715
	defaultDenominator = 1_000_000_000
)

func TestAccrueZeroElapsed(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 200 {
		var (
			lo, hi uint64
			h      uint64
			n, d   uint32
		)
		f.Fuzz(&lo)
		f.Fuzz(&hi)
		f.Fuzz(&h)
		f.Fuzz(&n)
		f.Fuzz(&d)
		if d == 0 {
			d = 1
		}
		balance := new(uint256.Int).SetUint64(lo)
		balance.Lsh(balance, 64).Or(balance, uint256.NewInt(hi))

		r, err := Accrue(balance, h, h, n, d)
		require.NoError(t, err)
		assert.True(t, r.IsZero())
	}
}

func TestAccrueMonotone(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 500 {
		var (
			b1, b2 uint64
			start  uint32
			e1, e2 uint32
			n      uint32
			d      uint32
		)
		f.Fuzz(&b1)
		f.Fuzz(&b2)
		f.Fuzz(&start)
		f.Fuzz(&e1)
		f.Fuzz(&e2)
		f.Fuzz(&n)
		f.Fuzz(&d)
		if d == 0 {
			d = 1
		}
		if b1 > b2 {
			b1, b2 = b2, b1
		}
		if e1 > e2 {
			e1, e2 = e2, e1
		}
		last := uint64(start)

		// monotone in elapsed
		r1, err := Accrue(uint256.NewInt(b1), last, last+uint64(e1), n, d)
		require.NoError(t, err)
		r2, err := Accrue(uint256.NewInt(b1), last, last+uint64(e2), n, d)
		require.NoError(t, err)
		assert.False(t, r1.Gt(r2), "elapsed %d vs %d", e1, e2)

		// monotone in balance
		r3, err := Accrue(uint256.NewInt(b2), last, last+uint64(e1), n, d)
		require.NoError(t, err)
		assert.False(t, r1.Gt(r3), "balance %d vs %d", b1, b2)
	}
}

func TestAccrueMatchesBigInt(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 300 {
		var (
			b       uint64
			elapsed uint32
			n, d    uint32
		)
		f.Fuzz(&b)
		f.Fuzz(&elapsed)
		f.Fuzz(&n)
		f.Fuzz(&d)
		if d == 0 {
			d = 1
		}

		got, err := Accrue(uint256.NewInt(b), 10, 10+uint64(elapsed), n, d)
		require.NoError(t, err)

		want := new(big.Int).SetUint64(b)
		want.Mul(want, big.NewInt(int64(n)))
		want.Mul(want, big.NewInt(int64(elapsed)))
		want.Div(want, big.NewInt(int64(d)))
		assert.Equal(t, want.String(), got.Dec())
	}
}

func TestAccrueDefaultRateOneBlock(t *testing.T) {
	balance, err := uint256.FromDecimal("10000000000000000000000000000000")
	require.NoError(t, err)

	got, err := Accrue(balance, 41, 42, defaultNumerator, defaultDenominator)
	require.NoError(t, err)

	want := new(big.Int).Mul(balance.ToBig(), big.NewInt(defaultNumerator))
	want.Div(want, big.NewInt(defaultDenominator))
	assert.Equal(t, want.String(), got.Dec())
	assert.Equal(t, "7150000000000000000000000", got.Dec())
}

func TestAccrueTruncates(t *testing.T) {
	// 1000 * 715 * 1 / 1e9 floors to zero
	got, err := Accrue(uint256.NewInt(1000), 0, 1, defaultNumerator, defaultDenominator)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = Accrue(uint256.NewInt(7), 0, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Uint64())
}

func TestAccrueErrors(t *testing.T) {
	_, err := Accrue(uint256.NewInt(1), 10, 9, 1, 1)
	assert.ErrorIs(t, err, reverts.ErrClockRegression)

	_, err = Accrue(uint256.NewInt(1), 0, 1, 1, 0)
	assert.Equal(t, reverts.ArithmeticOverflow, reverts.KindOf(err))

	tooBig := new(uint256.Int).AddUint64(MaxAmount, 1)
	_, err = Accrue(tooBig, 0, 1, 1, 1)
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	// result above the amount range
	_, err = Accrue(MaxAmount, 0, 2, 1, 1)
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	// the product of full range inputs fits in 256 bits, but the result exceeds MaxAmount
	r, err := Accrue(MaxAmount, 0, ^uint64(0), ^uint32(0), ^uint32(0))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)
	assert.Nil(t, r)

	// same intermediate width, result back in range after the division
	r, err = Accrue(MaxAmount, 0, 1, ^uint32(0), ^uint32(0))
	require.NoError(t, err)
	assert.True(t, r.Eq(MaxAmount))
}

func TestEffectiveHeight(t *testing.T) {
	assert.Equal(t, uint64(500), EffectiveHeight(false, 150, 500))
	assert.Equal(t, uint64(150), EffectiveHeight(true, 150, 500))
}

func TestAmountHelpers(t *testing.T) {
	sum, err := Add(uint256.NewInt(1), uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum.Uint64())

	_, err = Add(MaxAmount, uint256.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	diff, err := Sub(uint256.NewInt(5), uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), diff.Uint64())

	_, err = Sub(uint256.NewInt(1), uint256.NewInt(2))
	assert.Error(t, err)

	v, err := ParseAmount("340282366920938463463374607431768211455")
	require.NoError(t, err)
	assert.True(t, v.Eq(MaxAmount))

	_, err = ParseAmount("340282366920938463463374607431768211456")
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	_, err = ParseAmount("-1")
	assert.Error(t, err)

	assert.True(t, Zero().IsZero())
}
