// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Version tags the shape of a persisted account record.
type Version uint

const (
	V1             Version = 1 // without PaidReward
	V2             Version = 2
	CurrentVersion         = V2
)

// Versioned is an account record in any known shape.
type Versioned interface {
	Version() Version
}

// LegacyV1 is the first shape of the account record.
type LegacyV1 struct {
	StakeBalance          *uint256.Int
	PreReward             *uint256.Int
	LastUpdateHeight      uint64
	UnstakeBalance        *uint256.Int
	UnstakeStartTimestamp uint64
	UnstakeAvailableEpoch uint64
}

func (*LegacyV1) Version() Version { return V1 }

// Upgrade converts a record of any known shape into the current one.
// Existing fields are copied unchanged and new fields take their defaults.
// Upgrading a current record returns a copy.
func Upgrade(old Versioned) *Account {
	switch v := old.(type) {
	case *Account:
		return v.Copy()
	case *LegacyV1:
		return &Account{
			StakeBalance:          cloneOrZero(v.StakeBalance),
			PreReward:             cloneOrZero(v.PreReward),
			LastUpdateHeight:      v.LastUpdateHeight,
			UnstakeBalance:        cloneOrZero(v.UnstakeBalance),
			UnstakeStartTimestamp: v.UnstakeStartTimestamp,
			UnstakeAvailableEpoch: v.UnstakeAvailableEpoch,
			PaidReward:            DefaultPaidReward.Clone(),
		}
	}
	panic(errors.Errorf("unknown account record version %d", old.Version()))
}

func cloneOrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}

// Record is the persisted form of an account: a version tag and the body in that version's shape.
// Decoding accepts every known version and yields the current shape.
type Record struct {
	Account *Account
	// Stored is the version the record was decoded from.
	Stored Version
}

type envelope struct {
	Version Version
	Body    rlp.RawValue
}

// EncodeRLP implements rlp.Encoder. Records are always written in the current shape.
func (r *Record) EncodeRLP(w io.Writer) error {
	body, err := rlp.EncodeToBytes(r.Account)
	if err != nil {
		return err
	}
	return rlp.Encode(w, &envelope{CurrentVersion, body})
}

// DecodeRLP implements rlp.Decoder.
func (r *Record) DecodeRLP(s *rlp.Stream) error {
	var env envelope
	if err := s.Decode(&env); err != nil {
		return err
	}

	var old Versioned
	switch env.Version {
	case V1:
		old = &LegacyV1{}
	case V2:
		old = &Account{}
	default:
		return errors.Errorf("unknown account record version %d", env.Version)
	}
	if err := rlp.DecodeBytes(env.Body, old); err != nil {
		return errors.Wrapf(err, "decode account record v%d", env.Version)
	}

	r.Account = Upgrade(old)
	r.Stored = env.Version
	return nil
}

// EncodeLegacyV1 encodes a record in the first shape. Only stores written before the
// upgrade hold such records; it is exported for migrations and tests.
func EncodeLegacyV1(v *LegacyV1) ([]byte, error) {
	body, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, err
	}
	return rlp.EncodeToBytes(&envelope{V1, body})
}
