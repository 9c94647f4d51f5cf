// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/pkg/errors"

// Stage abstracts the pending changes of a state.
type Stage struct {
	state   *State
	keys    []string // in first write order
	changes map[string][]byte
}

// Len returns the count of changed keys.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all changes into the store as one atomic bulk.
// On success the state is reset onto the new committed values.
// On failure nothing is written and the pending changes are kept.
func (s *Stage) Commit() error {
	if s.Len() == 0 {
		s.state.reset()
		return nil
	}

	bulk := s.state.store.Bulk()
	for _, k := range s.keys {
		if err := bulk.Put([]byte(k), s.changes[k]); err != nil {
			return &Error{errors.Wrap(err, "stage put")}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{errors.Wrap(err, "commit")}
	}

	for _, k := range s.keys {
		s.state.cache.Add(k, s.changes[k])
	}
	metricCommitSize().Observe(int64(s.Len()))
	s.state.reset()
	return nil
}
