package tracker

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeLedger_canonicalDocument(t *testing.T) {
	l := NewLedger("USD")
	if err := l.UpsertHolding(Holding{
		Class:          Crypto,
		Symbol:         "BTC",
		Name:           "Bitcoin",
		Quantity:       Q(0.5),
		CostBasisUnit:  USD(20000),
		LastKnownPrice: USD(30000),
		LastUpdated:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Source:         SourceLive,
	}, false); err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := EncodeLedger(&b, l); err != nil {
		t.Fatal(err)
	}
	got := b.String()
	want := `{"version":1,"currency":"USD","holdings":[` +
		`{"class":"crypto","symbol":"BTC","name":"Bitcoin","quantity":0.5,` +
		`"costBasisUnit":{"currency":"USD","amount":20000},` +
		`"lastKnownPrice":{"currency":"USD","amount":30000},` +
		`"priceSource":"live","lastUpdated":"2026-08-30T12:00:00Z"}]}` + "\n"
	if got != want {
		t.Errorf("got:  %s\nwant: %s", got, want)
	}
}

func TestEncodeLedger_omitsUnsetFields(t *testing.T) {
	l := NewLedger("USD")
	if err := l.UpsertHolding(Holding{Class: Crypto, Symbol: "BTC", Quantity: Q(1)}, false); err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := EncodeLedger(&b, l); err != nil {
		t.Fatal(err)
	}
	got := b.String()
	for _, field := range []string{"name", "unit", "costBasisUnit", "lastKnownPrice", "priceSource", "lastUpdated"} {
		if strings.Contains(got, field) {
			t.Errorf("unset field %q should be omitted, got %s", field, got)
		}
	}
}

func TestEncodeLedger_cash(t *testing.T) {
	l := NewLedger("USD")
	if _, err := l.AdjustCash(AdjustSet, USD(1500.5)); err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := EncodeLedger(&b, l); err != nil {
		t.Fatal(err)
	}
	got := b.String()
	want := `{"version":1,"currency":"USD","cash":{"currency":"USD","amount":1500.5},"holdings":[]}` + "\n"
	if got != want {
		t.Errorf("got:  %swant: %s", got, want)
	}

	back, err := DecodeLedger(strings.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	if !back.Cash().Equal(USD(1500.5)) {
		t.Errorf("cash = %s, want 1500.5 after round trip", back.Cash())
	}

	// A zero balance stays out of the document.
	var b2 strings.Builder
	if err := EncodeLedger(&b2, NewLedger("USD")); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(b2.String(), "cash") {
		t.Errorf("zero cash should be omitted, got %s", b2.String())
	}
}

func TestDecodeLedger_rejectsNegativeCash(t *testing.T) {
	doc := `{"version":1,"currency":"USD","cash":{"currency":"USD","amount":-5},"holdings":[]}`
	if _, err := DecodeLedger(strings.NewReader(doc)); err == nil {
		t.Error("expected a decode error for a negative cash balance")
	}
}

func TestDecodeLedger_ignoresUnknownFields(t *testing.T) {
	doc := `{"version": 1, "currency": "USD", "futureField": true, "holdings": [
		{"class": "crypto", "symbol": "BTC", "quantity": 1, "futureNote": "x"}]}`
	l, err := DecodeLedger(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Holding(Crypto, "BTC"); !ok {
		t.Error("holding lost while decoding a document with unknown fields")
	}
}

func TestDecodeLedger_rejectsBadHoldings(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown class",
			doc:  `{"version": 1, "currency": "USD", "holdings": [{"class": "bond", "symbol": "X", "quantity": 1}]}`,
		},
		{
			name: "negative quantity",
			doc:  `{"version": 1, "currency": "USD", "holdings": [{"class": "crypto", "symbol": "BTC", "quantity": -1}]}`,
		},
		{
			name: "missing symbol",
			doc:  `{"version": 1, "currency": "USD", "holdings": [{"class": "crypto", "quantity": 1}]}`,
		},
		{
			name: "future version",
			doc:  `{"version": 2, "currency": "USD", "holdings": []}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeLedger(strings.NewReader(tc.doc)); err == nil {
				t.Error("expected a decode error")
			}
		})
	}
}
