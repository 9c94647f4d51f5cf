// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies the validation failures of ledger operations.
type Kind uint8

const (
	Unknown Kind = iota
	NotFound
	AlreadyExists
	InvalidState
	InsufficientBalance
	LockupNotElapsed
	Unauthorized
	ArithmeticOverflow
)

var kindNames = [...]string{
	Unknown:             "unknown",
	NotFound:            "not_found",
	AlreadyExists:       "already_exists",
	InvalidState:        "invalid_state",
	InsufficientBalance: "insufficient_balance",
	LockupNotElapsed:    "lockup_not_elapsed",
	Unauthorized:        "unauthorized",
	ArithmeticOverflow:  "arithmetic_overflow",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// ErrRevert is a failure caused by the caller's input or the ledger state.
// The operation that returned it committed nothing.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Kind returns the class of the failure.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

var (
	ErrAccountNotFound     = New(NotFound, "account not found")
	ErrAlreadyRegistered   = New(AlreadyExists, "account already registered")
	ErrContractPaused      = New(InvalidState, "contract paused")
	ErrNotPaused           = New(InvalidState, "contract not paused")
	ErrClockRegression     = New(InvalidState, "clock regression")
	ErrNothingToWithdraw   = New(InvalidState, "nothing to withdraw")
	ErrInsufficientStake   = New(InsufficientBalance, "insufficient stake")
	ErrLockupNotElapsed    = New(LockupNotElapsed, "lock-up not elapsed")
	ErrUnauthorizedCaller  = New(Unauthorized, "unauthorized caller")
	ErrArithmeticOverflow  = New(ArithmeticOverflow, "arithmetic overflow")
	ErrInvalidRewardConfig = New(ArithmeticOverflow, "reward denominator is zero")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, or Unknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}
