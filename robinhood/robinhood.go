// Package robinhood pulls open stock positions from a Robinhood brokerage
// account. It provides a one-shot positions snapshot for the `equities pull`
// command and implements tracker.Feed for already-imported equity holdings.
//
// Only the documented request/response contract is relied on: token login,
// open positions, instrument lookup and latest quote.
package robinhood

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/tracker"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the Robinhood API endpoint.
const DefaultBaseURL = "https://api.robinhood.com"

// Position is one open stock position.
type Position struct {
	Symbol   string
	Quantity tracker.Quantity
	Price    tracker.Money
}

// Session is an authenticated Robinhood API session.
type Session struct {
	// BaseURL overrides the API endpoint, mostly for tests.
	BaseURL string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	cfg tracker.BrokerageConfig

	mu    sync.Mutex // guards token; FetchPrice is called from worker pools
	token string
}

// NewSession creates an unauthenticated session for the given account.
func NewSession(cfg tracker.BrokerageConfig) *Session {
	return &Session{cfg: cfg}
}

func (s *Session) base() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return DefaultBaseURL
}

func (s *Session) client() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

// Login exchanges the configured credentials for an API token. It is
// idempotent and safe for concurrent use: once a token is held, further
// calls return immediately.
func (s *Session) Login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return nil
	}
	return s.login(ctx)
}

// login performs the token exchange. Callers hold s.mu.
func (s *Session) login(ctx context.Context) error {
	if !s.cfg.Configured() {
		return &tracker.FeedError{Kind: tracker.FeedUnauthorized, Err: errors.New("missing brokerage credentials")}
	}

	payload, _ := json.Marshal(map[string]string{
		"username": s.cfg.Username,
		"password": s.cfg.Password,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base()+"/api-token-auth/", bytes.NewReader(payload))
	if err != nil {
		return &tracker.FeedError{Kind: tracker.FeedUnreachable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client().Do(req)
	if err != nil {
		return classify("", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &tracker.FeedError{Kind: tracker.FeedUnauthorized, Err: fmt.Errorf("login failed: %s", resp.Status)}
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Token == "" {
		return &tracker.FeedError{Kind: tracker.FeedParseError, Err: fmt.Errorf("no token in login response: %v", err)}
	}
	s.token = body.Token
	return nil
}

// authToken returns the current API token.
func (s *Session) authToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// get performs an authenticated GET and decodes the JSON response into data.
// A non-200 status is returned as a statusError so classify can type it.
func (s *Session) get(ctx context.Context, addr string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+s.authToken())

	resp, err := s.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, status: resp.Status, addr: addr}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// Positions returns the account's open stock positions with their latest
// prices. Malformed position entries are skipped, not fatal.
func (s *Session) Positions(ctx context.Context) ([]Position, error) {
	addr := fmt.Sprintf("%s/positions/?nonzero=true&account_number=%s", s.base(), s.cfg.AccountNumber)

	var payload struct {
		Results []struct {
			Instrument string          `json:"instrument"`
			Quantity   decimal.Decimal `json:"quantity"`
		} `json:"results"`
	}
	if err := s.get(ctx, addr, &payload); err != nil {
		return nil, classify("", err)
	}

	var out []Position
	for _, p := range payload.Results {
		if p.Quantity.IsZero() {
			continue
		}
		symbol, err := s.instrumentSymbol(ctx, p.Instrument)
		if err != nil {
			continue
		}
		price, err := s.latestPrice(ctx, symbol)
		if err != nil {
			continue
		}
		out = append(out, Position{
			Symbol:   tracker.NormalizeSymbol(symbol),
			Quantity: tracker.Q(p.Quantity),
			Price:    price,
		})
	}
	return out, nil
}

// instrumentSymbol resolves an instrument URL to its ticker symbol.
func (s *Session) instrumentSymbol(ctx context.Context, instrumentURL string) (string, error) {
	var payload struct {
		Symbol string `json:"symbol"`
	}
	if err := s.get(ctx, instrumentURL, &payload); err != nil {
		return "", err
	}
	if payload.Symbol == "" {
		return "", errors.New("instrument has no symbol")
	}
	return payload.Symbol, nil
}

// latestPrice returns the latest quote for a symbol in USD.
func (s *Session) latestPrice(ctx context.Context, symbol string) (tracker.Money, error) {
	addr := fmt.Sprintf("%s/quotes/%s/", s.base(), symbol)
	var payload struct {
		LastTradePrice decimal.Decimal `json:"last_trade_price"`
	}
	if err := s.get(ctx, addr, &payload); err != nil {
		return tracker.Money{}, err
	}
	return tracker.M(payload.LastTradePrice, "USD"), nil
}

// FetchPrice implements tracker.Feed for equity holdings.
func (s *Session) FetchPrice(ctx context.Context, symbol string) (tracker.PriceQuote, error) {
	if err := s.Login(ctx); err != nil {
		return tracker.PriceQuote{}, err
	}
	price, err := s.latestPrice(ctx, symbol)
	if err != nil {
		return tracker.PriceQuote{}, classify(symbol, err)
	}
	if price.IsZero() {
		return tracker.PriceQuote{}, &tracker.FeedError{Kind: tracker.FeedNotFound, Symbol: symbol, Err: fmt.Errorf("no quote for %q", symbol)}
	}
	return tracker.PriceQuote{
		Symbol:     tracker.NormalizeSymbol(symbol),
		UnitPrice:  price,
		AsOf:       time.Now(),
		Source:     tracker.LiveAPI,
		Confidence: tracker.Fresh,
	}, nil
}

// statusError reports a non-200 HTTP response.
type statusError struct {
	code   int
	status string
	addr   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("cannot http GET %v: %v", e.addr, e.status)
}

// classify turns transport and status failures into typed feed errors.
func classify(symbol string, err error) *tracker.FeedError {
	var se *statusError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return &tracker.FeedError{Kind: tracker.FeedTimeout, Symbol: symbol, Err: err}
	case errors.As(err, &se):
		switch se.code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &tracker.FeedError{Kind: tracker.FeedUnauthorized, Symbol: symbol, Err: err}
		case http.StatusNotFound:
			return &tracker.FeedError{Kind: tracker.FeedNotFound, Symbol: symbol, Err: err}
		default:
			return &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: err}
		}
	default:
		return &tracker.FeedError{Kind: tracker.FeedUnreachable, Symbol: symbol, Err: err}
	}
}
