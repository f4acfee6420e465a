package tracker

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStore_firstRun(t *testing.T) {
	s := NewStore(t.TempDir(), "EUR")
	l, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 0 {
		t.Errorf("first run should yield an empty ledger, got %d holdings", l.Len())
	}
	if l.Currency() != "EUR" {
		t.Errorf("currency = %q, want EUR", l.Currency())
	}
}

func TestStore_saveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir(), "USD")

	l := NewLedger("USD")
	h := Holding{
		Class:          Metal,
		Symbol:         "XAU",
		Quantity:       Q(62.2069536),
		Unit:           "g",
		CostBasisUnit:  USD(1750),
		LastKnownPrice: USD(1800),
		LastUpdated:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Source:         SourceLive,
	}
	if err := l.UpsertHolding(h, false); err != nil {
		t.Fatal(err)
	}
	if err := l.UpsertHolding(btc(0.5, 20000, 0), false); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(l); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}

	if got.Len() != 2 {
		t.Fatalf("want 2 holdings, got %d", got.Len())
	}
	gh, ok := got.Holding(Metal, "XAU")
	if !ok {
		t.Fatal("XAU holding lost in round trip")
	}
	if !gh.Quantity.Equal(h.Quantity) || gh.Unit != h.Unit || gh.Source != h.Source {
		t.Errorf("round trip changed the holding: %+v", gh)
	}
	if !gh.CostBasisUnit.Equal(h.CostBasisUnit) || !gh.LastKnownPrice.Equal(h.LastKnownPrice) {
		t.Errorf("round trip changed the prices: %+v", gh)
	}
	if !gh.LastUpdated.Equal(h.LastUpdated) {
		t.Errorf("lastUpdated = %s, want %s", gh.LastUpdated, h.LastUpdated)
	}
}

func TestStore_saveIsDeterministic(t *testing.T) {
	// Saving an unchanged ledger must reproduce the previous bytes exactly.
	s := NewStore(t.TempDir(), "USD")
	l := NewLedger("USD")
	if err := l.UpsertHolding(btc(0.5, 20000, 30000), false); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(l); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(s.LedgerPath())
	if err != nil {
		t.Fatal(err)
	}

	reloaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(reloaded); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(s.LedgerPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("save is not deterministic:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestStore_rejectedMutationLeavesFileUntouched(t *testing.T) {
	s := NewStore(t.TempDir(), "USD")
	l := NewLedger("USD")
	if err := l.UpsertHolding(btc(1, 0, 0), false); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(l); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(s.LedgerPath())
	if err != nil {
		t.Fatal(err)
	}

	// The load, mutate, save path of a command: the invalid holding is
	// rejected before the save step is ever reached.
	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	bad := Holding{Class: Crypto, Symbol: "ETH", Quantity: Q(-1)}
	var verr *ValidationError
	if err := loaded.UpsertHolding(bad, false); !errors.As(err, &verr) || verr.Kind != NegativeQuantity {
		t.Fatalf("got %v, want ValidationError{NegativeQuantity}", err)
	}

	after, err := os.ReadFile(s.LedgerPath())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("ledger file changed after a rejected mutation:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestStore_corruptFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, "USD")
	if err := os.WriteFile(s.LedgerPath(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	var serr *StoreError
	if !errors.As(err, &serr) || serr.Kind != StoreCorrupt {
		t.Errorf("got %v, want StoreError{StoreCorrupt}", err)
	}
}

func TestStore_unsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, "USD")
	doc := `{"version": 99, "currency": "USD", "holdings": []}`
	if err := os.WriteFile(s.LedgerPath(), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	var serr *StoreError
	if !errors.As(err, &serr) || serr.Kind != StoreCorrupt {
		t.Errorf("got %v, want StoreError{StoreCorrupt}", err)
	}
}

func TestStore_saveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, "USD")
	if err := s.Save(NewLedger("USD")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(s.LedgerPath()) {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

func TestConfig_roundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Currency != "USD" {
		t.Errorf("default currency = %q, want USD", cfg.Currency)
	}

	cfg.Currency = "EUR"
	cfg.MetalsKey = "goldapi-key"
	cfg.Brokerage = BrokerageConfig{Username: "ada", Password: "secret"}
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("round trip changed the config: %+v != %+v", got, cfg)
	}
	if !got.Brokerage.Configured() {
		t.Error("brokerage credentials should be reported as configured")
	}
}

func TestConfig_corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(dir)
	var serr *StoreError
	if !errors.As(err, &serr) || serr.Kind != StoreCorrupt {
		t.Errorf("got %v, want StoreError{StoreCorrupt}", err)
	}
}
