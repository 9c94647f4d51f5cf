// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger records on top of a kv store.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ atomic bulk write ]
//	         |
//	   [ lru cache ]
//	         |
//	    [ kv store ]
//
// Every value written since the last commit lives in the stacked map only,
// so reverting to a checkpoint leaves nothing behind.
package state
