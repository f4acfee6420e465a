package goldapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/tracker"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{APIKey: "test-key", Currency: "USD", BaseURL: srv.URL, HTTPClient: srv.Client()}
}

func TestSymbolFor(t *testing.T) {
	testCases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "gold", want: "XAU", ok: true},
		{in: " Silver ", want: "XAG", ok: true},
		{in: "platinum", want: "XPT", ok: true},
		{in: "palladium", want: "XPD", ok: true},
		{in: "copper", ok: false},
	}
	for _, tc := range testCases {
		got, ok := SymbolFor(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("SymbolFor(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClient_FetchPrice(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/XAU/USD" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("x-access-token") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"metal":"XAU","currency":"USD","price":1823.4,"price_gram_24k":58.62}`)
	}))

	q, err := c.FetchPrice(context.Background(), "xau")
	if err != nil {
		t.Fatal(err)
	}
	if q.Symbol != "XAU" {
		t.Errorf("symbol = %q, want XAU", q.Symbol)
	}
	if want := tracker.M(1823.4, "USD"); !q.UnitPrice.Equal(want) {
		t.Errorf("price = %s, want %s", q.UnitPrice, want)
	}
}

func TestClient_unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusForbidden)
	}))

	_, err := c.FetchPrice(context.Background(), "XAU")
	var fe *tracker.FeedError
	if !errors.As(err, &fe) || fe.Kind != tracker.FeedUnauthorized {
		t.Errorf("got %v, want FeedError{FeedUnauthorized}", err)
	}
}

func TestClient_unsupportedSymbol(t *testing.T) {
	c := New("key", "USD")
	_, err := c.FetchPrice(context.Background(), "BTC")
	var fe *tracker.FeedError
	if !errors.As(err, &fe) || fe.Kind != tracker.FeedNotFound {
		t.Errorf("got %v, want FeedError{FeedNotFound}", err)
	}
}

func TestClient_missingKey(t *testing.T) {
	c := New("", "USD")
	_, err := c.FetchPrice(context.Background(), "XAU")
	var fe *tracker.FeedError
	if !errors.As(err, &fe) || fe.Kind != tracker.FeedUnauthorized {
		t.Errorf("got %v, want FeedError{FeedUnauthorized}", err)
	}
}

func TestClient_emptyPrice(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))

	_, err := c.FetchPrice(context.Background(), "XAU")
	var fe *tracker.FeedError
	if !errors.As(err, &fe) || fe.Kind != tracker.FeedParseError {
		t.Errorf("got %v, want FeedError{FeedParseError}", err)
	}
}
