// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/staking"
)

var logger = log.WithContext("pkg", "eventdb")

const insertEvent = "INSERT INTO event(kind, account, caller, amount, height, effectiveHeight, timestamp, epoch) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

// EventDB keeps the committed ledger operations for querying.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would open its own memory db
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, errors.Wrap(err, "set journal mode")
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("event db opened", "path", path, "sqlite", driverVer)
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Append stores one event.
func (db *EventDB) Append(ev *staking.Event) error {
	if !ev.Kind.Valid() {
		return errors.Errorf("invalid event kind %q", ev.Kind)
	}
	var amount sql.NullString
	if ev.Amount != nil {
		amount = sql.NullString{String: ev.Amount.Dec(), Valid: true}
	}
	for _, v := range []uint64{ev.Height, ev.EffectiveHeight, ev.Timestamp, ev.Epoch} {
		if v > math.MaxInt64 {
			return errors.Errorf("value %d out of range", v)
		}
	}

	if _, err := db.db.Exec(insertEvent,
		string(ev.Kind),
		ev.Account,
		ev.Caller,
		amount,
		int64(ev.Height),
		int64(ev.EffectiveHeight),
		int64(ev.Timestamp),
		int64(ev.Epoch),
	); err != nil {
		return errors.Wrap(err, "insert event")
	}
	return nil
}

// Filter returns the events matched by filter. A nil filter matches every event.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Account != "" {
		args = append(args, filter.Account)
		stmt += " AND account = ?"
	}
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (?" + strings.Repeat(", ?", len(filter.Kinds)-1) + ")"
		for _, k := range filter.Kinds {
			args = append(args, string(k))
		}
	}
	if filter.Range != nil {
		condition := "height"
		if filter.Range.Unit == Time {
			condition = "timestamp"
		}
		args = append(args, clamp(filter.Range.From))
		stmt += " AND " + condition + " >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, clamp(filter.Range.To))
			stmt += " AND " + condition + " <= ?"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, clamp(filter.Options.Offset), clamp(filter.Options.Limit))
	}
	return db.query(ctx, stmt, args...)
}

// Count returns the number of stored events.
func (db *EventDB) Count(ctx context.Context) (uint64, error) {
	var n int64
	if err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq             int64
			kind            string
			amount          sql.NullString
			height          int64
			effectiveHeight int64
			timestamp       int64
			epoch           int64
			ev              Event
		)
		if err := rows.Scan(
			&seq,
			&kind,
			&ev.Account,
			&ev.Caller,
			&amount,
			&height,
			&effectiveHeight,
			&timestamp,
			&epoch,
		); err != nil {
			return nil, err
		}
		ev.Seq = uint64(seq)
		ev.Kind = staking.EventKind(kind)
		ev.Height = uint64(height)
		ev.EffectiveHeight = uint64(effectiveHeight)
		ev.Timestamp = uint64(timestamp)
		ev.Epoch = uint64(epoch)
		if amount.Valid {
			if ev.Amount, err = uint256.FromDecimal(amount.String); err != nil {
				return nil, errors.Wrapf(err, "event %d amount", seq)
			}
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func clamp(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
