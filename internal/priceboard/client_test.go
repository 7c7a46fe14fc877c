package priceboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientDeps{
		Endpoint: server.URL,
		APIToken: "test-token",
		BoardID:  "123456",
		Client:   &http.Client{Timeout: 2 * time.Second},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestFetchRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-token" {
			t.Errorf("Authorization header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if !strings.Contains(string(body), "boards(ids: 123456)") {
			t.Errorf("query missing board id: %s", body)
		}
		w.Write([]byte(`{"data":{"boards":[{"items_page":{"items":[
			{"id":"1392077242","name":"Acrylglas","column_values":[
				{"id":"preis","text":"89,00 €","value":"\"89\""},
				{"id":"einheit","text":"m²","value":null}
			]}
		]}}]}}`))
	})

	rows, err := client.FetchRows(context.Background())
	if err != nil {
		t.Fatalf("FetchRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.ID != "1392077242" || row.Name != "Acrylglas" {
		t.Fatalf("row = %+v", row)
	}
	price, ok := row.Column("preis")
	if !ok || price.Text != "89,00 €" {
		t.Fatalf("price column = %+v, ok=%v", price, ok)
	}
}

func TestFetchRowsNoToken(t *testing.T) {
	client, err := NewClient(ClientDeps{
		Endpoint: "https://board.example.com/v2",
		BoardID:  "123456",
		Client:   http.DefaultClient,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.FetchRows(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
}

func TestFetchRowsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"invalid token"}]}`))
	})
	if _, err := client.FetchRows(context.Background()); err == nil || !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("err = %v, want api error", err)
	}
}

func TestFetchRowsEmptyBoard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"boards":[{"items_page":{"items":[]}}]}}`))
	})
	if _, err := client.FetchRows(context.Background()); err == nil {
		t.Fatal("expected error for empty item set")
	}
}

func TestFetchRowsHTTPStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := client.FetchRows(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
