// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// create a table for committed ledger operations
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	account TEXT NOT NULL,
	caller TEXT NOT NULL,
	amount TEXT,
	height INTEGER NOT NULL,
	effectiveHeight INTEGER NOT NULL,
	timestamp INTEGER NOT NULL,
	epoch INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS accountIndex ON event(account);
CREATE INDEX IF NOT EXISTS heightIndex ON event(height);
CREATE INDEX IF NOT EXISTS kindIndex ON event(kind);
`
