// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"
	"github.com/vechain/stakeledger/state"
)

// Key is the storage key of the pool record.
const Key = "pool"

// Service stores the single pool record.
type Service struct {
	pool *state.Record[*Pool]
}

func NewService(st *state.State) *Service {
	return &Service{pool: state.NewRecord[*Pool](st, Key)}
}

// Init writes an empty pool at height unless one exists.
func (s *Service) Init(height uint64) error {
	_, found, err := s.pool.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get pool")
	}
	if found {
		return nil
	}
	return s.Set(New(height))
}

// Get returns the pool record.
func (s *Service) Get() (*Pool, error) {
	p, found, err := s.pool.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if !found {
		return nil, errors.New("pool not initialized")
	}
	return p, nil
}

// Set writes the pool record.
func (s *Service) Set(p *Pool) error {
	if err := s.pool.Set(p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return nil
}
