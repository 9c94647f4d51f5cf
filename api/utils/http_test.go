// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/staking/reverts"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{reverts.ErrAccountNotFound, http.StatusNotFound},
		{reverts.ErrAlreadyRegistered, http.StatusConflict},
		{reverts.ErrContractPaused, http.StatusConflict},
		{reverts.ErrNotPaused, http.StatusConflict},
		{reverts.ErrNothingToWithdraw, http.StatusConflict},
		{reverts.ErrLockupNotElapsed, http.StatusConflict},
		{reverts.ErrInsufficientStake, http.StatusBadRequest},
		{reverts.ErrUnauthorizedCaller, http.StatusForbidden},
		{reverts.ErrArithmeticOverflow, http.StatusUnprocessableEntity},
		{reverts.New(reverts.Unknown, "odd"), http.StatusInternalServerError},
		{pkgerrors.Wrap(reverts.ErrAccountNotFound, "lookup"), http.StatusNotFound},
		{errors.New("disk full"), http.StatusInternalServerError},
		{utils.BadRequest(errors.New("bad")), http.StatusBadRequest},
		{utils.NotFound(nil), http.StatusNotFound},
		{utils.HTTPError(errors.New("teapot"), http.StatusTeapot), http.StatusTeapot},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, utils.StatusOf(tt.err), tt.err.Error())
	}
}

func TestWrapHandlerFunc(t *testing.T) {
	h := utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return reverts.ErrUnauthorizedCaller
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "unauthorized caller\n", rec.Body.String())

	h = utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, utils.M{"ok": true})
	})
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, utils.JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A string `json:"a"`
	}
	require.NoError(t, utils.ParseJSON(strings.NewReader(`{"a":"x"}`), &v))
	assert.Equal(t, "x", v.A)
	assert.Error(t, utils.ParseJSON(strings.NewReader(`{"b":"x"}`), &v))
}

func TestParseAmount(t *testing.T) {
	v, err := utils.ParseAmount("")
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	v, err = utils.ParseAmount("340282366920938463463374607431768211455")
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211455", v.Dec())

	_, err = utils.ParseAmount("340282366920938463463374607431768211456")
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	_, err = utils.ParseAmount("1e3")
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}
