// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/staking"
)

type Accounts struct {
	staker *staking.Staker
}

func New(staker *staking.Staker) *Accounts {
	return &Accounts{
		staker,
	}
}

func (a *Accounts) writeInfo(w http.ResponseWriter, id string) error {
	info, err := a.staker.AccountInfo(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccountInfo(info))
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	return a.writeInfo(w, mux.Vars(req)["id"])
}

func (a *Accounts) handleGetStorageBalance(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	balance, err := a.staker.StorageBalanceOf(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &StorageBalance{ID: id, Balance: balance})
}

func (a *Accounts) handleRegister(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	if err := a.staker.Register(id); err != nil {
		return err
	}
	return a.writeInfo(w, id)
}

// handleStake credits the stake of id. Only the transfer channel may call it.
func (a *Accounts) handleStake(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	caller := utils.Caller(req)
	if err := utils.RequireCaller(req, a.staker.Config().TransferChannel); err != nil {
		return err
	}
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return err
	}
	if err := a.staker.DepositAndStake(caller, id, amount); err != nil {
		return err
	}
	return a.writeInfo(w, id)
}

func (a *Accounts) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	if err := utils.RequireCaller(req, id); err != nil {
		return err
	}
	var body UnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseAmount(body.Amount)
	if err != nil {
		return err
	}
	if err := a.staker.Unstake(id, amount); err != nil {
		return err
	}
	return a.writeInfo(w, id)
}

// handleWithdraw responds with the account as it was before the withdraw,
// so the caller learns the released amount.
func (a *Accounts) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]
	if err := utils.RequireCaller(req, id); err != nil {
		return err
	}
	// the body is optional and ignored
	_, _ = io.Copy(io.Discard, req.Body)

	before, err := a.staker.Withdraw(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(before))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{id}").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleRegister))
	sub.Path("/{id}/storage-balance").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetStorageBalance))
	sub.Path("/{id}/stake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleStake))
	sub.Path("/{id}/unstake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleUnstake))
	sub.Path("/{id}/withdraw").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleWithdraw))
}
