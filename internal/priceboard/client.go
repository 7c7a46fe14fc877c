package priceboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoToken indicates the client was asked to fetch rows without an API token.
var ErrNoToken = errors.New("priceboard: api token not configured")

// ColumnValue is one cell of a board row. Text carries the human-formatted
// value, RawValue the JSON-encoded structured value behind it.
type ColumnValue struct {
	ColumnKey string `json:"id"`
	Text      string `json:"text"`
	RawValue  string `json:"value"`
}

// Row is one item on the remote pricing board.
type Row struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Columns []ColumnValue `json:"column_values"`
}

// Column returns the cell for the given column key, if present.
func (r Row) Column(key string) (ColumnValue, bool) {
	for _, col := range r.Columns {
		if col.ColumnKey == key {
			return col, true
		}
	}
	return ColumnValue{}, false
}

// Client fetches pricing rows from a monday-style GraphQL board API.
type Client struct {
	endpoint string
	token    string
	boardID  string
	client   *http.Client
}

// ClientDeps bundles the dependencies for NewClient.
type ClientDeps struct {
	Endpoint string
	APIToken string
	BoardID  string
	Client   *http.Client
}

// NewClient validates the dependencies and returns a ready board client.
// An empty token is allowed; FetchRows then fails with ErrNoToken so the
// caller can keep serving fallback prices.
func NewClient(deps ClientDeps) (*Client, error) {
	if strings.TrimSpace(deps.Endpoint) == "" {
		return nil, errors.New("priceboard: endpoint is required")
	}
	if strings.TrimSpace(deps.BoardID) == "" {
		return nil, errors.New("priceboard: board id is required")
	}
	if deps.Client == nil {
		return nil, errors.New("priceboard: http client is required")
	}
	return &Client{
		endpoint: strings.TrimSpace(deps.Endpoint),
		token:    strings.TrimSpace(deps.APIToken),
		boardID:  strings.TrimSpace(deps.BoardID),
		client:   deps.Client,
	}, nil
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type boardResponse struct {
	Data struct {
		Boards []struct {
			ItemsPage struct {
				Items []Row `json:"items"`
			} `json:"items_page"`
		} `json:"boards"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchRows queries the board and returns all current items.
func (c *Client) FetchRows(ctx context.Context) ([]Row, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	query := fmt.Sprintf(`query { boards(ids: %s) { items_page(limit: 500) { items { id name column_values { id text value } } } } }`, c.boardID)
	payload, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("priceboard: marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("priceboard: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("priceboard: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("priceboard: unexpected status %s", resp.Status)
	}

	var decoded boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("priceboard: decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("priceboard: api error: %s", decoded.Errors[0].Message)
	}
	if len(decoded.Data.Boards) == 0 {
		return nil, errors.New("priceboard: board not found")
	}

	items := decoded.Data.Boards[0].ItemsPage.Items
	if len(items) == 0 {
		return nil, errors.New("priceboard: board returned no items")
	}
	return items, nil
}
