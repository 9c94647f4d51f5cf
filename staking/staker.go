// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/staking/account"
	"github.com/vechain/stakeledger/staking/gate"
	"github.com/vechain/stakeledger/staking/pool"
	"github.com/vechain/stakeledger/staking/reverts"
	"github.com/vechain/stakeledger/state"
)

var logger = log.WithContext("pkg", "staking")

// metaKey stores the config the ledger was created with.
const metaKey = "meta"

// Staker is the staking ledger. Calls are serialized and each mutation
// commits all of its writes or none of them.
type Staker struct {
	mu sync.Mutex

	cfg    Config
	clock  clock.Clock
	state  *state.State
	events EventSink

	accountService *account.Service
	poolService    *pool.Service
	gateService    *gate.Service
}

// New opens the ledger over store. A new store is initialized with cfg,
// an existing one must have been created with the same cfg.
// events may be nil.
func New(store kv.Store, clk clock.Clock, cfg Config, events EventSink, cacheSize int) (*Staker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}
	st, err := state.New(store, cacheSize)
	if err != nil {
		return nil, err
	}

	s := &Staker{
		cfg:            cfg,
		clock:          clk,
		state:          st,
		events:         events,
		accountService: account.NewService(st),
		poolService:    pool.NewService(st),
		gateService:    gate.NewService(st, cfg.Owner),
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Staker) init() error {
	metaRecord := state.NewRecord[*Config](s.state, metaKey)
	stored, found, err := metaRecord.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get meta")
	}
	if found {
		if *stored != s.cfg {
			return errors.Errorf("config mismatch: store was created with %+v", *stored)
		}
		if err := s.verifyTotals(); err != nil {
			return err
		}
		return s.updateGauges()
	}

	height, err := s.gateService.Resolve(s.clock.Height())
	if err != nil {
		return err
	}
	if err := metaRecord.Set(&s.cfg); err != nil {
		return errors.Wrap(err, "failed to set meta")
	}
	if err := s.poolService.Init(height); err != nil {
		return err
	}
	if err := s.state.Stage().Commit(); err != nil {
		return err
	}
	logger.Info("ledger initialized", "owner", s.cfg.Owner, "transferChannel", s.cfg.TransferChannel,
		"numerator", s.cfg.RewardNumerator, "denominator", s.cfg.RewardDenominator, "unlockEpochs", s.cfg.UnlockEpochs)
	return s.updateGauges()
}

// verifyTotals checks the pool totals of a reopened store against its account records.
func (s *Staker) verifyTotals() error {
	p, err := s.poolService.Get()
	if err != nil {
		return err
	}
	var (
		accounts int
		stakers  = new(uint256.Int)
		stake    = new(uint256.Int)
	)
	if err := s.accountService.ForEach(func(_ string, acc *account.Account) error {
		accounts++
		if acc.IsStaking() {
			stakers.AddUint64(stakers, 1)
		}
		stake.Add(stake, acc.StakeBalance)
		return nil
	}); err != nil {
		return errors.Wrap(err, "failed to scan accounts")
	}
	if !stakers.Eq(p.TotalStakers) || !stake.Eq(p.TotalStakeBalance) {
		return errors.Errorf("pool totals mismatch: pool has %v stakers staking %v, accounts have %v staking %v",
			p.TotalStakers.Dec(), p.TotalStakeBalance.Dec(), stakers.Dec(), stake.Dec())
	}
	logger.Info("ledger verified", "accounts", accounts, "stakers", stakers.Dec(), "stake", stake.Dec())
	return nil
}

// call is the context of one mutation. The clock is read once per call.
type call struct {
	now    clock.Snapshot
	height uint64 // effective height
	event  *Event
}

// mutate runs fn inside a checkpoint and commits its writes when it succeeds.
func (s *Staker) mutate(kind EventKind, fn func(c *call) error) (*call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": string(kind)})
	}()

	now := clock.Take(s.clock)
	c := &call{now: now}

	checkpoint := s.state.NewCheckpoint()
	err := func() error {
		height, err := s.gateService.Resolve(now.Height)
		if err != nil {
			return err
		}
		c.height = height
		if err := fn(c); err != nil {
			return err
		}
		return s.state.Stage().Commit()
	}()
	if err != nil {
		s.state.RevertTo(checkpoint)
		s.recordFailure(kind, err)
		return nil, err
	}
	metricOpsCount().AddWithLabel(1, map[string]string{"op": string(kind), "status": "ok"})

	if c.event != nil {
		c.event.Kind = kind
		c.event.Height = now.Height
		c.event.EffectiveHeight = c.height
		c.event.Timestamp = now.Timestamp
		c.event.Epoch = now.Epoch
		s.appendEvent(c.event)
	}
	if err := s.updateGauges(); err != nil {
		logger.Warn("failed to update gauges", "err", err)
	}
	return c, nil
}

func (s *Staker) recordFailure(kind EventKind, err error) {
	if reverts.IsRevertErr(err) {
		logger.Debug("operation reverted", "op", kind, "kind", reverts.KindOf(err), "err", err)
		metricRevertCount().AddWithLabel(1, map[string]string{"op": string(kind), "kind": reverts.KindOf(err).String()})
		metricOpsCount().AddWithLabel(1, map[string]string{"op": string(kind), "status": "reverted"})
		return
	}
	logger.Error("operation failed", "op", kind, "err", err)
	metricOpsCount().AddWithLabel(1, map[string]string{"op": string(kind), "status": "error"})
}

// appendEvent hands the event to the sink. The ledger is committed already,
// so a failing sink is only logged.
func (s *Staker) appendEvent(ev *Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ev); err != nil {
		metricEventFailures().Add(1)
		logger.Error("failed to append event", "kind", ev.Kind, "account", ev.Account, "err", err)
	}
}

func (s *Staker) updateGauges() error {
	p, err := s.poolService.Get()
	if err != nil {
		return err
	}
	if p.TotalStakers.IsUint64() {
		metricTotalStakers().Set(int64(p.TotalStakers.Uint64()))
	}
	paused, err := s.gateService.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		metricPaused().Set(1)
	} else {
		metricPaused().Set(0)
	}
	return nil
}

//
// Mutations
//

// Register creates a zeroed account for id at the current effective height.
func (s *Staker) Register(id string) error {
	logger.Debug("registering account", "account", id)

	c, err := s.mutate(EventRegister, func(c *call) error {
		if _, err := s.accountService.Register(id, c.height); err != nil {
			return err
		}
		c.event = &Event{Account: id, Caller: id}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("registered account", "account", id, "height", c.height)
	return nil
}

// DepositAndStake adds amount to the stake of id. Only the transfer channel may call it,
// and not while paused.
func (s *Staker) DepositAndStake(caller, id string, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	logger.Debug("staking", "account", id, "caller", caller, "amount", amount)

	c, err := s.mutate(EventStake, func(c *call) error {
		acc, err := s.accountService.MustGet(id)
		if err != nil {
			return err
		}
		paused, err := s.gateService.IsPaused()
		if err != nil {
			return err
		}
		if paused {
			return reverts.ErrContractPaused
		}
		if caller != s.cfg.TransferChannel {
			return reverts.ErrUnauthorizedCaller
		}

		wasStaking := acc.IsStaking()
		if err := acc.Stake(amount, c.height, s.cfg.Rate()); err != nil {
			return err
		}
		if err := s.applyPool(func(p *pool.Pool) error {
			if err := p.AddStake(amount, c.height, s.cfg.Rate()); err != nil {
				return err
			}
			return p.UpdateStakers(wasStaking, acc.IsStaking())
		}); err != nil {
			return err
		}
		if err := s.accountService.Set(id, acc); err != nil {
			return err
		}
		c.event = &Event{Account: id, Caller: caller, Amount: amount.Clone()}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("staked", "account", id, "amount", amount, "height", c.height)
	return nil
}

// Unstake moves amount from the stake of id into its lock-up. The lock-up restarts
// for the whole unstaked balance.
func (s *Staker) Unstake(id string, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	logger.Debug("unstaking", "account", id, "amount", amount)

	c, err := s.mutate(EventUnstake, func(c *call) error {
		acc, err := s.accountService.MustGet(id)
		if err != nil {
			return err
		}

		wasStaking := acc.IsStaking()
		if err := acc.Unstake(amount, c.height, s.cfg.Rate(), c.now, s.cfg.UnlockEpochs); err != nil {
			return err
		}
		if err := s.applyPool(func(p *pool.Pool) error {
			if err := p.SubStake(amount, c.height, s.cfg.Rate()); err != nil {
				return err
			}
			return p.UpdateStakers(wasStaking, acc.IsStaking())
		}); err != nil {
			return err
		}
		if err := s.accountService.Set(id, acc); err != nil {
			return err
		}
		c.event = &Event{Account: id, Caller: id, Amount: amount.Clone()}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("unstaked", "account", id, "amount", amount, "epoch", c.now.Epoch)
	return nil
}

// Withdraw releases the unstaked balance of id once its lock-up elapsed.
// It returns the account as it was before the withdraw, for the caller to drive the transfer out.
func (s *Staker) Withdraw(id string) (*account.Account, error) {
	logger.Debug("withdrawing", "account", id)

	var before *account.Account
	_, err := s.mutate(EventWithdraw, func(c *call) error {
		acc, err := s.accountService.MustGet(id)
		if err != nil {
			return err
		}
		snapshot, err := acc.Withdraw(c.now.Epoch, c.height, s.cfg.Rate())
		if err != nil {
			return err
		}
		if err := s.accountService.Set(id, acc); err != nil {
			return err
		}
		before = snapshot
		c.event = &Event{Account: id, Caller: id, Amount: snapshot.UnstakeBalance.Clone()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("withdrew", "account", id, "amount", before.UnstakeBalance)
	return before, nil
}

// Pause freezes accrual for every account and the pool. Owner only.
func (s *Staker) Pause(caller string) error {
	logger.Debug("pausing", "caller", caller)

	c, err := s.mutate(EventPause, func(c *call) error {
		if _, err := s.gateService.Pause(caller, c.now.Height); err != nil {
			return err
		}
		c.event = &Event{Caller: caller}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("paused", "pauseAtBlock", c.height)
	return nil
}

// Resume restarts accrual from the frozen height. Owner only.
func (s *Staker) Resume(caller string) error {
	logger.Debug("resuming", "caller", caller)

	c, err := s.mutate(EventResume, func(c *call) error {
		g, err := s.gateService.Resume(caller, c.now.Height)
		if err != nil {
			return err
		}
		c.event = &Event{Caller: caller}
		c.height, err = g.Resolve(c.now.Height)
		return err
	})
	if err != nil {
		return err
	}

	logger.Info("resumed", "height", c.height)
	return nil
}

func (s *Staker) applyPool(fn func(p *pool.Pool) error) error {
	p, err := s.poolService.Get()
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	return s.poolService.Set(p)
}
