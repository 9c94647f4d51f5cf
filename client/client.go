// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP client for the stakeledger API.
// Every endpoint has a typed method returning the api JSON types.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/vechain/stakeledger/api/accounts"
	"github.com/vechain/stakeledger/api/events"
	"github.com/vechain/stakeledger/api/pool"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// StatusError is returned when the server responds with a status other than 200.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error - Status Code %d - %s", e.StatusCode, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNot200Status || (target == ErrNotFound && e.StatusCode == http.StatusNotFound)
}

// Client talks to a stakeledger node.
type Client struct {
	url   string
	c     *http.Client
	token string
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimRight(url, "/"),
		c:   c,
	}
}

// WithToken returns a copy of c that authenticates every request with the bearer token.
// The token decides which principal the node attributes the calls to.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// GetAccount retrieves the account of id with its reward so far.
func (c *Client) GetAccount(id string) (*accounts.AccountInfo, error) {
	var info accounts.AccountInfo
	if err := c.get("/accounts/"+url.PathEscape(id), &info); err != nil {
		return nil, fmt.Errorf("unable to retrieve account - %w", err)
	}
	return &info, nil
}

// GetStorageBalance returns 1 for a registered id and 0 otherwise.
func (c *Client) GetStorageBalance(id string) (uint64, error) {
	var sb accounts.StorageBalance
	if err := c.get("/accounts/"+url.PathEscape(id)+"/storage-balance", &sb); err != nil {
		return 0, fmt.Errorf("unable to retrieve storage balance - %w", err)
	}
	return sb.Balance, nil
}

// Register creates the account of id.
func (c *Client) Register(id string) (*accounts.AccountInfo, error) {
	var info accounts.AccountInfo
	if err := c.post("/accounts/"+url.PathEscape(id), nil, &info); err != nil {
		return nil, fmt.Errorf("unable to register account - %w", err)
	}
	return &info, nil
}

// Stake deposits amount into the stake of id. The client must carry the transfer channel token.
func (c *Client) Stake(id string, amount *uint256.Int) (*accounts.AccountInfo, error) {
	var info accounts.AccountInfo
	req := &accounts.StakeRequest{Amount: amount.Dec()}
	if err := c.post("/accounts/"+url.PathEscape(id)+"/stake", req, &info); err != nil {
		return nil, fmt.Errorf("unable to stake - %w", err)
	}
	return &info, nil
}

// Unstake moves amount of the stake of id into its lock-up.
func (c *Client) Unstake(id string, amount *uint256.Int) (*accounts.AccountInfo, error) {
	var info accounts.AccountInfo
	req := &accounts.UnstakeRequest{Amount: amount.Dec()}
	if err := c.post("/accounts/"+url.PathEscape(id)+"/unstake", req, &info); err != nil {
		return nil, fmt.Errorf("unable to unstake - %w", err)
	}
	return &info, nil
}

// Withdraw releases the unstaked balance of id and returns the account as it was before.
func (c *Client) Withdraw(id string) (*accounts.Account, error) {
	var before accounts.Account
	if err := c.post("/accounts/"+url.PathEscape(id)+"/withdraw", nil, &before); err != nil {
		return nil, fmt.Errorf("unable to withdraw - %w", err)
	}
	return &before, nil
}

func (c *Client) GetPool() (*pool.PoolInfo, error) {
	var info pool.PoolInfo
	if err := c.get("/pool", &info); err != nil {
		return nil, fmt.Errorf("unable to retrieve pool - %w", err)
	}
	return &info, nil
}

func (c *Client) GetStatus() (*pool.Status, error) {
	var status pool.Status
	if err := c.get("/pool/status", &status); err != nil {
		return nil, fmt.Errorf("unable to retrieve status - %w", err)
	}
	return &status, nil
}

func (c *Client) GetConfig() (*pool.Config, error) {
	var cfg pool.Config
	if err := c.get("/pool/config", &cfg); err != nil {
		return nil, fmt.Errorf("unable to retrieve config - %w", err)
	}
	return &cfg, nil
}

// Pause freezes reward accrual. The client must carry the owner token.
func (c *Client) Pause() (*pool.Status, error) {
	var status pool.Status
	if err := c.post("/pool/pause", nil, &status); err != nil {
		return nil, fmt.Errorf("unable to pause - %w", err)
	}
	return &status, nil
}

func (c *Client) Resume() (*pool.Status, error) {
	var status pool.Status
	if err := c.post("/pool/resume", nil, &status); err != nil {
		return nil, fmt.Errorf("unable to resume - %w", err)
	}
	return &status, nil
}

// EventQuery selects events. Zero fields are left to the server defaults.
type EventQuery struct {
	Account string
	Kinds   []string
	Unit    string // height or time
	From    *uint64
	To      *uint64
	Offset  uint64
	Limit   uint64
	Order   string // asc or desc
}

func (q *EventQuery) values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	if q.Account != "" {
		v.Set("account", q.Account)
	}
	if len(q.Kinds) > 0 {
		v.Set("kind", strings.Join(q.Kinds, ","))
	}
	if q.Unit != "" {
		v.Set("unit", q.Unit)
	}
	if q.From != nil {
		v.Set("from", strconv.FormatUint(*q.From, 10))
	}
	if q.To != nil {
		v.Set("to", strconv.FormatUint(*q.To, 10))
	}
	if q.Offset != 0 {
		v.Set("offset", strconv.FormatUint(q.Offset, 10))
	}
	if q.Limit != 0 {
		v.Set("limit", strconv.FormatUint(q.Limit, 10))
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

// FilterEvents queries the committed operation log.
func (c *Client) FilterEvents(q *EventQuery) ([]*events.Event, error) {
	path := "/events"
	if v := q.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []*events.Event
	if err := c.get(path, &out); err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}
	return out, nil
}

func (c *Client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) post(path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("unable to marshal payload - %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) do(method, path string, payload io.Reader, out any) error {
	req, err := http.NewRequest(method, c.url+path, payload)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unable to unmarshal response - %w", err)
	}
	return nil
}
