// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/staking/account"
	"github.com/vechain/stakeledger/staking/reverts"
)

const (
	owner   = "owner"
	channel = "token"
)

func testConfig() Config {
	return Config{
		Owner:             owner,
		TransferChannel:   channel,
		RewardNumerator:   1,
		RewardDenominator: 100,
		UnlockEpochs:      1,
	}
}

type memEvents struct {
	events []*Event
	err    error
}

func (m *memEvents) Append(ev *Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

type fixture struct {
	t      *testing.T
	db     *lvldb.LevelDB
	clock  *clock.Manual
	events *memEvents
	staker *Staker
}

func newFixture(t *testing.T, cfg Config) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := clock.NewManual(100, 1_000, 1)
	events := &memEvents{}
	s, err := New(db, clk, cfg, events, 64)
	require.NoError(t, err)

	return &fixture{t: t, db: db, clock: clk, events: events, staker: s}
}

func amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func (f *fixture) at(height uint64) *fixture {
	f.clock.SetHeight(height)
	return f
}

func (f *fixture) register(id string) *fixture {
	require.NoError(f.t, f.staker.Register(id))
	return f
}

func (f *fixture) stake(id string, v uint64) *fixture {
	require.NoError(f.t, f.staker.DepositAndStake(channel, id, amount(v)))
	return f
}

func (f *fixture) unstake(id string, v uint64) *fixture {
	require.NoError(f.t, f.staker.Unstake(id, amount(v)))
	return f
}

func (f *fixture) account(id string) *account.Account {
	acc, err := f.staker.GetAccount(id)
	require.NoError(f.t, err)
	return acc
}

// dump returns every key/value of the store.
func (f *fixture) dump() map[string]string {
	out := make(map[string]string)
	iter := f.db.Iterate(kv.Range{})
	defer iter.Release()
	for iter.Next() {
		out[string(iter.Key())] = string(iter.Value())
	}
	require.NoError(f.t, iter.Error())
	return out
}

func TestNewValidatesConfig(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.RewardDenominator = 0
	_, err = New(db, clock.NewManual(0, 0, 0), cfg, nil, 8)
	assert.ErrorIs(t, err, reverts.ErrInvalidRewardConfig)

	cfg = testConfig()
	cfg.Owner = ""
	_, err = New(db, clock.NewManual(0, 0, 0), cfg, nil, 8)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(owner, channel)
	assert.Equal(t, uint32(715), cfg.RewardNumerator)
	assert.Equal(t, uint32(1_000_000_000), cfg.RewardDenominator)
	assert.Equal(t, uint64(1), cfg.UnlockEpochs)
	assert.NoError(t, cfg.Validate())
}

func TestRegister(t *testing.T) {
	f := newFixture(t, testConfig())

	registered, err := f.staker.IsRegistered("alice")
	require.NoError(t, err)
	assert.False(t, registered)

	bal, err := f.staker.StorageBalanceOf("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal)

	f.at(120).register("alice")

	registered, err = f.staker.IsRegistered("alice")
	require.NoError(t, err)
	assert.True(t, registered)

	bal, err = f.staker.StorageBalanceOf("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal)

	acc := f.account("alice")
	assert.Equal(t, account.New(120), acc)

	assert.ErrorIs(t, f.staker.Register("alice"), reverts.ErrAlreadyRegistered)

	_, err = f.staker.GetAccount("bob")
	assert.ErrorIs(t, err, reverts.ErrAccountNotFound)
}

func TestDepositAndStake(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice")

	f.at(110).stake("alice", 1000)
	acc := f.account("alice")
	assert.Equal(t, uint64(1000), acc.StakeBalance.Uint64())
	assert.Equal(t, uint64(110), acc.LastUpdateHeight)
	assert.True(t, acc.PreReward.IsZero())

	// 1000 * 10 / 100
	f.at(120).stake("alice", 500)
	acc = f.account("alice")
	assert.Equal(t, uint64(1500), acc.StakeBalance.Uint64())
	assert.Equal(t, uint64(120), acc.LastUpdateHeight)
	assert.Equal(t, uint64(100), acc.PreReward.Uint64())

	info, err := f.staker.PoolInfo()
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), info.Pool.TotalStakeBalance.Uint64())
	assert.Equal(t, uint64(1), info.Pool.TotalStakers.Uint64())
	assert.Equal(t, uint64(100), info.Pool.PreReward.Uint64())
}

func TestDepositCheckOrder(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice")
	require.NoError(t, f.staker.Pause(owner))

	// existence first
	err := f.staker.DepositAndStake("mallory", "bob", amount(1))
	assert.ErrorIs(t, err, reverts.ErrAccountNotFound)

	// then pause
	err = f.staker.DepositAndStake("mallory", "alice", amount(1))
	assert.ErrorIs(t, err, reverts.ErrContractPaused)

	require.NoError(t, f.staker.Resume(owner))

	// then authorization
	err = f.staker.DepositAndStake("mallory", "alice", amount(1))
	assert.ErrorIs(t, err, reverts.ErrUnauthorizedCaller)
	assert.True(t, f.account("alice").StakeBalance.IsZero())
}

func TestPauseScenario(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice")

	f.at(100).stake("alice", 1000)
	f.at(150)
	require.NoError(t, f.staker.Pause(owner))

	paused, err := f.staker.IsPaused()
	require.NoError(t, err)
	assert.True(t, paused)

	f.at(500)
	before := f.dump()
	err = f.staker.DepositAndStake(channel, "alice", amount(0))
	assert.ErrorIs(t, err, reverts.ErrContractPaused)
	assert.Equal(t, before, f.dump(), "failed deposit commits nothing")

	// folding at live height 500 uses the frozen height 150
	f.unstake("alice", 0)
	acc := f.account("alice")
	assert.Equal(t, uint64(150), acc.LastUpdateHeight)
	assert.Equal(t, uint64(1000*50/100), acc.PreReward.Uint64())

	info, err := f.staker.AccountInfo("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(150), info.EffectiveHeight)
	assert.Equal(t, uint64(500), info.Reward.Uint64())
}

func TestResumeExcludesPausedInterval(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice")
	f.at(100).stake("alice", 1000)

	f.at(150)
	require.NoError(t, f.staker.Pause(owner))
	assert.ErrorIs(t, f.staker.Pause(owner), reverts.ErrContractPaused)
	assert.ErrorIs(t, f.staker.Resume("mallory"), reverts.ErrUnauthorizedCaller)

	f.at(500)
	require.NoError(t, f.staker.Resume(owner))
	assert.ErrorIs(t, f.staker.Resume(owner), reverts.ErrNotPaused)

	// 10 live blocks after resume accrue on top of the 50 before the pause
	f.at(510)
	info, err := f.staker.AccountInfo("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(160), info.EffectiveHeight)
	assert.Equal(t, uint64(1000*60/100), info.Reward.Uint64())

	f.stake("alice", 0)
	acc := f.account("alice")
	assert.Equal(t, uint64(160), acc.LastUpdateHeight)
	assert.Equal(t, uint64(600), acc.PreReward.Uint64())

	pool, err := f.staker.PoolInfo()
	require.NoError(t, err)
	assert.False(t, pool.Paused)
	assert.Equal(t, uint64(600), pool.Reward.Uint64())
}

func TestPauseOwnerOnly(t *testing.T) {
	f := newFixture(t, testConfig())
	assert.ErrorIs(t, f.staker.Pause("mallory"), reverts.ErrUnauthorizedCaller)
	assert.ErrorIs(t, f.staker.Resume(owner), reverts.ErrNotPaused)
}

func TestUnstakeResetsLockup(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice").stake("alice", 1000)

	f.clock.SetEpoch(3)
	f.clock.SetTimestamp(2_000)
	f.unstake("alice", 300)

	acc := f.account("alice")
	assert.Equal(t, uint64(700), acc.StakeBalance.Uint64())
	assert.Equal(t, uint64(300), acc.UnstakeBalance.Uint64())
	assert.Equal(t, uint64(2_000), acc.UnstakeStartTimestamp)
	assert.Equal(t, uint64(4), acc.UnstakeAvailableEpoch)

	f.clock.SetEpoch(4)
	f.clock.SetTimestamp(3_000)
	f.unstake("alice", 200)

	acc = f.account("alice")
	assert.Equal(t, uint64(500), acc.UnstakeBalance.Uint64())
	assert.Equal(t, uint64(3_000), acc.UnstakeStartTimestamp)
	assert.Equal(t, uint64(5), acc.UnstakeAvailableEpoch)

	// the first batch waits for the second lock-up too
	_, err := f.staker.Withdraw("alice")
	assert.ErrorIs(t, err, reverts.ErrLockupNotElapsed)

	err = f.staker.Unstake("alice", amount(501))
	assert.ErrorIs(t, err, reverts.ErrInsufficientStake)

	err = f.staker.Unstake("bob", amount(1))
	assert.ErrorIs(t, err, reverts.ErrAccountNotFound)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice").stake("alice", 1000)

	_, err := f.staker.Withdraw("alice")
	assert.ErrorIs(t, err, reverts.ErrNothingToWithdraw)
	_, err = f.staker.Withdraw("bob")
	assert.ErrorIs(t, err, reverts.ErrAccountNotFound)

	f.clock.SetEpoch(10)
	f.at(110).unstake("alice", 400)

	info, err := f.staker.AccountInfo("alice")
	require.NoError(t, err)
	assert.False(t, info.CanWithdraw)

	// before
	_, err = f.staker.Withdraw("alice")
	assert.ErrorIs(t, err, reverts.ErrLockupNotElapsed)

	// at
	f.clock.SetEpoch(11)
	info, err = f.staker.AccountInfo("alice")
	require.NoError(t, err)
	assert.True(t, info.CanWithdraw)

	before, err := f.staker.Withdraw("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(400), before.UnstakeBalance.Uint64())
	assert.Equal(t, uint64(11), before.UnstakeAvailableEpoch)

	acc := f.account("alice")
	assert.True(t, acc.UnstakeBalance.IsZero())
	assert.Zero(t, acc.UnstakeStartTimestamp)
	assert.Zero(t, acc.UnstakeAvailableEpoch)
	assert.Equal(t, uint64(600), acc.StakeBalance.Uint64())
	assert.Equal(t, uint64(100), acc.PreReward.Uint64())

	// after
	f.clock.SetEpoch(20)
	f.unstake("alice", 100)
	assert.Equal(t, uint64(21), f.account("alice").UnstakeAvailableEpoch)
	_, err = f.staker.Withdraw("alice")
	assert.ErrorIs(t, err, reverts.ErrLockupNotElapsed)

	f.clock.SetEpoch(25)
	before, err = f.at(130).staker.Withdraw("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), before.UnstakeBalance.Uint64())

	// withdraw folds the reward of the remaining stake
	acc = f.account("alice")
	assert.True(t, acc.UnstakeBalance.IsZero())
	assert.Equal(t, uint64(130), acc.LastUpdateHeight)
	assert.Equal(t, uint64(100+500*20/100), acc.PreReward.Uint64())
}

func TestStakersCount(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice").register("bob")

	stakers := func() uint64 {
		info, err := f.staker.PoolInfo()
		require.NoError(t, err)
		return info.Pool.TotalStakers.Uint64()
	}

	f.stake("alice", 0)
	assert.Equal(t, uint64(0), stakers())
	f.stake("alice", 10)
	assert.Equal(t, uint64(1), stakers())
	f.stake("alice", 10)
	assert.Equal(t, uint64(1), stakers())
	f.stake("bob", 5)
	assert.Equal(t, uint64(2), stakers())
	f.unstake("alice", 5)
	assert.Equal(t, uint64(2), stakers())
	f.unstake("alice", 15)
	assert.Equal(t, uint64(1), stakers())
	f.unstake("alice", 0)
	assert.Equal(t, uint64(1), stakers())
}

func TestPoolTotalsRandomOps(t *testing.T) {
	f := newFixture(t, testConfig())
	ids := []string{"alice", "bob", "carol", "dave"}
	for _, id := range ids {
		f.register(id)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	height := uint64(100)
	for i := range 400 {
		height += rng.Uint64N(5)
		f.clock.SetHeight(height)
		f.clock.SetEpoch(height / 20)
		id := ids[rng.IntN(len(ids))]

		switch rng.IntN(6) {
		case 0, 1:
			_ = f.staker.DepositAndStake(channel, id, amount(rng.Uint64N(1000)))
		case 2:
			_ = f.staker.Unstake(id, amount(rng.Uint64N(800)))
		case 3:
			_, _ = f.staker.Withdraw(id)
		case 4:
			if rng.IntN(4) == 0 {
				_ = f.staker.Pause(owner)
			} else {
				_ = f.staker.Resume(owner)
			}
		case 5:
			_ = f.staker.Register(id)
		}

		total := new(uint256.Int)
		var stakers uint64
		for _, id := range ids {
			acc := f.account(id)
			total.Add(total, acc.StakeBalance)
			if acc.IsStaking() {
				stakers++
			}
		}
		info, err := f.staker.PoolInfo()
		require.NoError(t, err)
		require.Equal(t, total.Dec(), info.Pool.TotalStakeBalance.Dec(), "step %d", i)
		require.Equal(t, stakers, info.Pool.TotalStakers.Uint64(), "step %d", i)
	}
}

func TestDefaultRateLargeBalance(t *testing.T) {
	f := newFixture(t, DefaultConfig(owner, channel))
	f.register("whale")

	balance, err := uint256.FromDecimal("10000000000000000000000000000000")
	require.NoError(t, err)
	require.NoError(t, f.staker.DepositAndStake(channel, "whale", balance))

	f.at(101)
	info, err := f.staker.AccountInfo("whale")
	require.NoError(t, err)

	want := new(big.Int).Mul(balance.ToBig(), big.NewInt(715))
	want.Div(want, big.NewInt(1_000_000_000))
	assert.Equal(t, want.String(), info.Reward.Dec())
}

func TestOverflowReverts(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice")

	maxAmount := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	require.NoError(t, f.staker.DepositAndStake(channel, "alice", maxAmount))

	err := f.staker.DepositAndStake(channel, "alice", amount(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)
	assert.Equal(t, maxAmount, f.account("alice").StakeBalance)
}

type flakyStore struct {
	kv.Store
	failWrite bool
}

type flakyBulk struct {
	kv.Bulk
	store *flakyStore
}

func (b *flakyBulk) Write() error {
	if b.store.failWrite {
		return errors.New("disk full")
	}
	return b.Bulk.Write()
}

func (s *flakyStore) Bulk() kv.Bulk {
	return &flakyBulk{s.Store.Bulk(), s}
}

func TestAtomicCommit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := &flakyStore{Store: db}
	clk := clock.NewManual(100, 0, 0)
	events := &memEvents{}
	s, err := New(store, clk, testConfig(), events, 8)
	require.NoError(t, err)
	require.NoError(t, s.Register("alice"))

	store.failWrite = true
	clk.SetHeight(120)
	err = s.DepositAndStake(channel, "alice", amount(1000))
	require.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err))

	// neither the account nor the pool moved, no event was emitted
	acc, err := s.GetAccount("alice")
	require.NoError(t, err)
	assert.True(t, acc.StakeBalance.IsZero())
	assert.Equal(t, uint64(100), acc.LastUpdateHeight)

	info, err := s.PoolInfo()
	require.NoError(t, err)
	assert.True(t, info.Pool.TotalStakeBalance.IsZero())
	assert.Len(t, events.events, 1)

	store.failWrite = false
	require.NoError(t, s.DepositAndStake(channel, "alice", amount(1000)))
	acc, err = s.GetAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), acc.StakeBalance.Uint64())
}

func TestEvents(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice")
	f.clock.SetTimestamp(5_000)
	f.clock.SetEpoch(7)
	f.at(130).stake("alice", 10)
	_ = f.staker.Unstake("alice", amount(11))
	f.unstake("alice", 4)

	require.Len(t, f.events.events, 3)
	assert.Equal(t, EventRegister, f.events.events[0].Kind)

	ev := f.events.events[1]
	assert.Equal(t, EventStake, ev.Kind)
	assert.Equal(t, "alice", ev.Account)
	assert.Equal(t, channel, ev.Caller)
	assert.Equal(t, uint64(10), ev.Amount.Uint64())
	assert.Equal(t, uint64(130), ev.Height)
	assert.Equal(t, uint64(130), ev.EffectiveHeight)
	assert.Equal(t, uint64(5_000), ev.Timestamp)
	assert.Equal(t, uint64(7), ev.Epoch)

	assert.Equal(t, EventUnstake, f.events.events[2].Kind)
	assert.Equal(t, uint64(4), f.events.events[2].Amount.Uint64())

	// a failing sink never rolls back the ledger
	f.events.err = errors.New("sink down")
	f.stake("alice", 1)
	assert.Equal(t, uint64(7), f.account("alice").StakeBalance.Uint64())
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger")
	clk := clock.NewManual(100, 0, 0)

	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	s, err := New(db, clk, testConfig(), nil, 8)
	require.NoError(t, err)
	require.NoError(t, s.Register("alice"))
	require.NoError(t, s.DepositAndStake(channel, "alice", amount(1000)))
	clk.SetHeight(150)
	require.NoError(t, s.Pause(owner))
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	other := testConfig()
	other.RewardNumerator = 2
	_, err = New(db, clk, other, nil, 8)
	assert.ErrorContains(t, err, "config mismatch")

	clk.SetHeight(300)
	s, err = New(db, clk, testConfig(), nil, 8)
	require.NoError(t, err)

	paused, err := s.IsPaused()
	require.NoError(t, err)
	assert.True(t, paused)

	info, err := s.AccountInfo("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), info.Account.StakeBalance.Uint64())
	assert.Equal(t, uint64(500), info.Reward.Uint64())
}

func TestLegacyRecordsRewritten(t *testing.T) {
	f := newFixture(t, testConfig())

	raw, err := account.EncodeLegacyV1(&account.LegacyV1{
		StakeBalance:     amount(1000),
		PreReward:        amount(7),
		LastUpdateHeight: 100,
		UnstakeBalance:   amount(0),
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Put(account.Bucket.Key([]byte("carol")), raw))

	acc := f.account("carol")
	assert.Equal(t, uint64(1000), acc.StakeBalance.Uint64())
	assert.Equal(t, account.DefaultPaidReward, acc.PaidReward)

	f.at(110).unstake("carol", 0)

	stored, err := f.db.Get(account.Bucket.Key([]byte("carol")))
	require.NoError(t, err)
	assert.NotEqual(t, raw, stored, "first touch rewrites the record in the current shape")

	var rec account.Record
	require.NoError(t, rlp.DecodeBytes(stored, &rec))
	assert.Equal(t, account.CurrentVersion, rec.Stored)
	assert.Equal(t, uint64(7+1000*10/100), rec.Account.PreReward.Uint64())
}

func TestManyAccounts(t *testing.T) {
	f := newFixture(t, testConfig())
	for i := range 50 {
		id := fmt.Sprintf("acc-%02d", i)
		f.register(id).stake(id, uint64(i+1))
	}
	info, err := f.staker.PoolInfo()
	require.NoError(t, err)
	assert.Equal(t, uint64(50*51/2), info.Pool.TotalStakeBalance.Uint64())
	assert.Equal(t, uint64(50), info.Pool.TotalStakers.Uint64())
}

func TestReopenVerifiesTotals(t *testing.T) {
	f := newFixture(t, testConfig())
	f.register("alice").stake("alice", 700)
	f.register("bob").stake("bob", 300).at(110).unstake("bob", 300)
	f.register("carol")

	_, err := New(f.db, f.clock, testConfig(), nil, 8)
	require.NoError(t, err)

	// a record written behind the ledger's back breaks the totals
	raw, err := account.EncodeLegacyV1(&account.LegacyV1{
		StakeBalance:     amount(5),
		PreReward:        amount(0),
		LastUpdateHeight: 100,
		UnstakeBalance:   amount(0),
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Put(account.Bucket.Key([]byte("mallory")), raw))

	_, err = New(f.db, f.clock, testConfig(), nil, 8)
	assert.ErrorContains(t, err, "pool totals mismatch: pool has 1 stakers staking 700, accounts have 2 staking 705")
}
