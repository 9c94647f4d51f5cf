// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/staking/reverts"
)

// Bucket is the key prefix of account records.
const Bucket = kv.Bucket("a")

// Service stores account records by identity.
type Service struct {
	accounts *state.Mapping[*Record]
}

func NewService(st *state.State) *Service {
	return &Service{
		accounts: state.NewMapping[*Record](st, Bucket),
	}
}

// Get returns the account of id, or nil if id is not registered.
func (s *Service) Get(id string) (*Account, error) {
	rec, found, err := s.accounts.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	if !found {
		return nil, nil
	}
	return rec.Account, nil
}

// MustGet returns the account of id, or ErrAccountNotFound.
func (s *Service) MustGet(id string) (*Account, error) {
	acc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, reverts.ErrAccountNotFound
	}
	return acc, nil
}

// Has reports whether id is registered.
func (s *Service) Has(id string) (bool, error) {
	has, err := s.accounts.Has(id)
	if err != nil {
		return false, errors.Wrap(err, "failed to check account")
	}
	return has, nil
}

// Register creates a zeroed account for id at height.
func (s *Service) Register(id string, height uint64) (*Account, error) {
	has, err := s.Has(id)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, reverts.ErrAlreadyRegistered
	}
	acc := New(height)
	if err := s.Set(id, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Set writes the account in the current record shape.
func (s *Service) Set(id string, acc *Account) error {
	if err := s.accounts.Set(id, &Record{Account: acc}); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}

// ForEach calls fn with every committed account in id order.
func (s *Service) ForEach(fn func(id string, acc *Account) error) error {
	return s.accounts.ForEach(func(id string, rec *Record) error {
		return fn(id, rec.Account)
	})
}
