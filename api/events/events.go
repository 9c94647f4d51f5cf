// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/eventdb"
	"github.com/vechain/stakeledger/staking"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func parseUint(query url.Values, name string, def uint64) (uint64, error) {
	s := query.Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

func (e *Events) parseFilter(query url.Values) (*eventdb.Filter, error) {
	filter := &eventdb.Filter{
		Account: query.Get("account"),
	}
	if kinds := query.Get("kind"); kinds != "" {
		for _, k := range strings.Split(kinds, ",") {
			kind := staking.EventKind(strings.TrimSpace(k))
			if !kind.Valid() {
				return nil, utils.BadRequest(errors.Errorf("kind: unknown event kind %q", kind))
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}

	switch order := eventdb.Order(strings.ToLower(query.Get("order"))); order {
	case "", eventdb.ASC:
		filter.Order = eventdb.ASC
	case eventdb.DESC:
		filter.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: expected asc or desc, got %q", order))
	}

	unit := eventdb.RangeType(strings.ToLower(query.Get("unit")))
	switch unit {
	case "":
		unit = eventdb.Height
	case eventdb.Height, eventdb.Time:
	default:
		return nil, utils.BadRequest(errors.Errorf("unit: expected height or time, got %q", unit))
	}
	from, err := parseUint(query, "from", 0)
	if err != nil {
		return nil, err
	}
	to, err := parseUint(query, "to", math.MaxUint64)
	if err != nil {
		return nil, err
	}
	if to < from {
		return nil, utils.BadRequest(errors.New("to: must not be below from"))
	}
	filter.Range = &eventdb.Range{Unit: unit, From: from, To: to}

	offset, err := parseUint(query, "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := parseUint(query, "limit", e.limit)
	if err != nil {
		return nil, err
	}
	if limit > e.limit {
		return nil, utils.BadRequest(errors.Errorf("limit: exceeds the maximum of %d", e.limit))
	}
	filter.Options = &eventdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	found, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(found))
	for _, ev := range found {
		out = append(out, convertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
