// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/staking"
)

type Pool struct {
	staker *staking.Staker
}

func New(staker *staking.Staker) *Pool {
	return &Pool{
		staker,
	}
}

func (p *Pool) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	info, err := p.staker.PoolInfo()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPoolInfo(info))
}

func (p *Pool) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	paused, err := p.staker.IsPaused()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Status{Paused: paused})
}

func (p *Pool) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, convertConfig(p.staker.Config()))
}

// handleAdmin runs a pause or resume on behalf of the owner.
func (p *Pool) handleAdmin(op func(caller string) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		if err := utils.RequireCaller(req, p.staker.Config().Owner); err != nil {
			return err
		}
		// the body is optional and ignored
		_, _ = io.Copy(io.Discard, req.Body)

		if err := op(utils.Caller(req)); err != nil {
			return err
		}
		return p.handleGetStatus(w, req)
	}
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/status").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetStatus))
	sub.Path("/config").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetConfig))
	sub.Path("/pause").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleAdmin(p.staker.Pause)))
	sub.Path("/resume").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleAdmin(p.staker.Resume)))
}
