// Package goldapi fetches precious metal spot prices from goldapi.io.
// It implements the tracker.Feed interface for metal holdings; prices are
// quoted per troy ounce.
package goldapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/tracker"
)

// DefaultBaseURL is the public goldapi.io endpoint.
const DefaultBaseURL = "https://www.goldapi.io/api"

// symbols supported by the feed; anything else is FeedNotFound.
var symbols = map[string]bool{"XAU": true, "XAG": true, "XPT": true, "XPD": true}

// SymbolFor maps a metal name to its feed symbol ("gold" -> "XAU").
// It returns false for unsupported metals.
func SymbolFor(metal string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(metal)) {
	case "gold":
		return "XAU", true
	case "silver":
		return "XAG", true
	case "platinum":
		return "XPT", true
	case "palladium":
		return "XPD", true
	default:
		return "", false
	}
}

// Client fetches metal spot prices. It is stateless; every call hits the API.
type Client struct {
	// APIKey is the goldapi.io access token, required.
	APIKey string
	// Currency is the quote currency, e.g. "USD".
	Currency string
	// BaseURL overrides the API endpoint, mostly for tests.
	BaseURL string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// New returns a client quoting spot prices in the given currency.
func New(apiKey, currency string) *Client {
	return &Client{APIKey: apiKey, Currency: currency}
}

func (c *Client) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) currency() string {
	if c.Currency == "" {
		return "USD"
	}
	return strings.ToUpper(c.Currency)
}

// FetchPrice implements tracker.Feed for metal symbols (XAU, XAG, XPT, XPD).
func (c *Client) FetchPrice(ctx context.Context, symbol string) (tracker.PriceQuote, error) {
	symbol = tracker.NormalizeSymbol(symbol)
	if !symbols[symbol] {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedNotFound, Symbol: symbol, Err: fmt.Errorf("unsupported metal symbol %q", symbol)}
	}
	if c.APIKey == "" {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedUnauthorized, Symbol: symbol, Err: errors.New("no metals API key configured")}
	}

	addr := fmt.Sprintf("%s/%s/%s", c.base(), symbol, c.currency())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: err}
	}
	req.Header.Set("x-access-token", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedTimeout, Symbol: symbol, Err: err}
		}
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing
	case http.StatusUnauthorized, http.StatusForbidden:
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedUnauthorized, Symbol: symbol, Err: fmt.Errorf("goldapi: %s", resp.Status)}
	case http.StatusNotFound:
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedNotFound, Symbol: symbol, Err: fmt.Errorf("goldapi: %s", resp.Status)}
	default:
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: fmt.Errorf("goldapi: %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: err}
	}

	// goldapi returns the spot price per troy ounce.
	var payload struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedParseError, Symbol: symbol, Err: err}
	}
	if payload.Price == 0 {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedParseError, Symbol: symbol, Err: errors.New("no price in response")}
	}

	return tracker.PriceQuote{
		Symbol:     symbol,
		UnitPrice:  tracker.M(payload.Price, c.currency()),
		AsOf:       time.Now(),
		Source:     tracker.LiveAPI,
		Confidence: tracker.Fresh,
	}, nil
}
