// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vechain/stakeledger/staking/reverts"
)

type callerKey struct{}

// Credentials maps bearer tokens to the principal they authenticate.
type Credentials map[string]string

// lookup scans every token so the time taken does not depend on which one matches.
func (c Credentials) lookup(token string) (string, bool) {
	var (
		principal string
		found     bool
	)
	for t, p := range c {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			principal, found = p, true
		}
	}
	return principal, found
}

// Authenticate binds the principal of the request's bearer token to its context.
// A request without credentials passes through anonymous, an unknown token is
// rejected with 401.
func Authenticate(creds Credentials) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			header := req.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, req)
				return
			}
			scheme, token, _ := strings.Cut(header, " ")
			if !strings.EqualFold(scheme, "Bearer") {
				http.Error(w, "unsupported authorization scheme", http.StatusUnauthorized)
				return
			}
			principal, ok := creds.lookup(strings.TrimSpace(token))
			if !ok {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), callerKey{}, principal)))
		})
	}
}

// Caller returns the authenticated principal of req, empty when anonymous.
func Caller(req *http.Request) string {
	p, _ := req.Context().Value(callerKey{}).(string)
	return p
}

// RequireCaller fails with an unauthorized revert unless req is authenticated as principal.
func RequireCaller(req *http.Request, principal string) error {
	caller := Caller(req)
	if caller == "" || caller != principal {
		return reverts.ErrUnauthorizedCaller
	}
	return nil
}
