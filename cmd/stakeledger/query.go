// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/client"
)

var (
	eventsKindFlag = cli.StringFlag{
		Name:  "kind",
		Usage: "comma separated event kinds to select",
	}
	eventsLimitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 20,
		Usage: "maximum number of events to print",
	}
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func accountAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return errors.New("account id required")
	}
	info, err := client.New(ctx.String(nodeURLFlag.Name)).GetAccount(id)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, info)
}

func poolAction(ctx *cli.Context) error {
	c := client.New(ctx.String(nodeURLFlag.Name))
	info, err := c.GetPool()
	if err != nil {
		return err
	}
	cfg, err := c.GetConfig()
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, map[string]any{
		"pool":   info,
		"config": cfg,
	})
}

func eventsAction(ctx *cli.Context) error {
	q := &client.EventQuery{
		Account: ctx.Args().First(),
		Limit:   ctx.Uint64(eventsLimitFlag.Name),
		Order:   "desc",
	}
	if kinds := ctx.String(eventsKindFlag.Name); kinds != "" {
		q.Kinds = strings.Split(kinds, ",")
	}
	evs, err := client.New(ctx.String(nodeURLFlag.Name)).FilterEvents(q)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	return printJSON(os.Stdout, evs)
}
