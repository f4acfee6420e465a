// Package coingecko fetches cryptocurrency spot prices from the CoinGecko
// public API. It implements the tracker.Feed interface for crypto holdings.
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tracker"
)

// DefaultBaseURL is the public CoinGecko API endpoint.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client fetches crypto prices for one vs-currency. It is stateless: spot
// prices are fetched on every call and never cached here.
type Client struct {
	// BaseURL overrides the API endpoint, mostly for tests.
	BaseURL string
	// VsCurrency is the quote currency, e.g. "USD".
	VsCurrency string
	// HTTPClient performs the price calls. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// SearchClient performs coin-id lookups. Defaults to a daily-cached
	// client: ids are stable, there is no point in fetching them twice a day.
	SearchClient *http.Client
}

// New returns a client quoting prices in the given currency.
func New(vsCurrency string) *Client {
	return &Client{VsCurrency: vsCurrency}
}

func (c *Client) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) searchClient() *http.Client {
	if c.SearchClient != nil {
		return c.SearchClient
	}
	return daily()
}

func (c *Client) vs() string {
	if c.VsCurrency == "" {
		return "usd"
	}
	return strings.ToLower(c.VsCurrency)
}

// Resolve searches CoinGecko for the coin id matching a symbol or name
// (e.g. "BTC" -> "bitcoin"). The first search result is the most relevant.
func (c *Client) Resolve(ctx context.Context, symbol string) (id, name string, err error) {
	addr := fmt.Sprintf("%s/search?query=%s", c.base(), url.QueryEscape(symbol))

	var jobj interface{}
	if err := jwget(ctx, c.searchClient(), addr, &jobj); err != nil {
		return "", "", c.classify(symbol, err)
	}

	jid, err := jsonpath.Get(`$.coins[0].id`, jobj)
	if err != nil {
		return "", "", &tracker.FeedError{Kind: tracker.FeedNotFound, Symbol: symbol, Err: fmt.Errorf("no coin matches %q", symbol)}
	}
	jname, _ := jsonpath.Get(`$.coins[0].name`, jobj)

	id, ok := jid.(string)
	if !ok {
		return "", "", &tracker.FeedError{Kind: tracker.FeedParseError, Symbol: symbol, Err: fmt.Errorf("coin id is not a string: %v", jid)}
	}
	name, _ = jname.(string)
	return id, name, nil
}

// FetchPrice implements tracker.Feed: it resolves the symbol to a coin id
// and fetches its current price in the configured vs-currency.
func (c *Client) FetchPrice(ctx context.Context, symbol string) (tracker.PriceQuote, error) {
	id, _, err := c.Resolve(ctx, symbol)
	if err != nil {
		return tracker.PriceQuote{}, err
	}

	addr := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", c.base(), url.QueryEscape(id), c.vs())
	var jobj interface{}
	if err := jwget(ctx, c.httpClient(), addr, &jobj); err != nil {
		return tracker.PriceQuote{}, c.classify(symbol, err)
	}

	// The response is keyed by coin id then vs-currency, both dynamic:
	// {"bitcoin":{"usd":30000}}. That is a jsonpath job, not a struct.
	path := fmt.Sprintf(`$[%q][%q]`, id, c.vs())
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedNotFound, Symbol: symbol, Err: fmt.Errorf("no price data for %q", id)}
	}
	val, ok := jval.(float64)
	if !ok {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedParseError, Symbol: symbol, Err: fmt.Errorf("price is not a number: %v", jval)}
	}

	return tracker.PriceQuote{
		Symbol:     tracker.NormalizeSymbol(symbol),
		UnitPrice:  tracker.M(val, strings.ToUpper(c.vs())),
		AsOf:       time.Now(),
		Source:     tracker.LiveAPI,
		Confidence: tracker.Fresh,
	}, nil
}

// classify turns transport and payload failures into typed feed errors.
func (c *Client) classify(symbol string, err error) *tracker.FeedError {
	var se *statusError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return &tracker.FeedError{Kind: tracker.FeedTimeout, Symbol: symbol, Err: err}
	case errors.As(err, &se):
		switch se.code {
		case http.StatusNotFound:
			return &tracker.FeedError{Kind: tracker.FeedNotFound, Symbol: symbol, Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &tracker.FeedError{Kind: tracker.FeedUnauthorized, Symbol: symbol, Err: err}
		default:
			return &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: err}
		}
	default:
		var jerr *json.SyntaxError
		var terr *json.UnmarshalTypeError
		if errors.As(err, &jerr) || errors.As(err, &terr) {
			return &tracker.FeedError{Kind: tracker.FeedParseError, Symbol: symbol, Err: err}
		}
		return &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: err}
	}
}
