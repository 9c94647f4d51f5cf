// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakeledger/api/accounts"
	"github.com/vechain/stakeledger/api/events"
	"github.com/vechain/stakeledger/api/pool"
	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/eventdb"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/staking"
)

var logger = log.WithContext("pkg", "api")

const DefaultEventsLimit = 1000

type Options struct {
	// AllowedOrigins lists the CORS origins. Cross-origin requests are refused when empty.
	AllowedOrigins  []string
	Credentials     utils.Credentials
	EnableReqLogger bool
	EnableMetrics   bool
	EventsLimit     uint64
}

// New return api router. The events routes are mounted only when eventDB is not nil.
func New(staker *staking.Staker, eventDB *eventdb.EventDB, opts Options) http.Handler {
	if opts.EventsLimit == 0 {
		opts.EventsLimit = DefaultEventsLimit
	}

	router := mux.NewRouter()
	router.Use(utils.Authenticate(opts.Credentials))

	accounts.New(staker).
		Mount(router, "/accounts")
	pool.New(staker).
		Mount(router, "/pool")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
		if h := metrics.HTTPHandler(); h != nil {
			router.Path("/metrics").Methods(http.MethodGet).Handler(h)
		}
	}

	handler := handlers.CompressHandler(router)
	if len(opts.AllowedOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(opts.AllowedOrigins),
			handlers.AllowedHeaders([]string{"content-type", "authorization"}),
		)(handler)
	}
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler
}

// recoveryLogger reports handler panics through the package logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	logger.Error("api handler panicked", "err", fmt.Sprint(v...))
}
