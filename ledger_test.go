package tracker

import (
	"errors"
	"testing"
)

func TestLedger_UpsertHolding_accumulates(t *testing.T) {
	l := NewLedger("USD")
	if err := l.UpsertHolding(btc(0.5, 20000, 0), false); err != nil {
		t.Fatal(err)
	}
	if err := l.UpsertHolding(btc(0.5, 30000, 0), false); err != nil {
		t.Fatal(err)
	}

	h, ok := l.Holding(Crypto, "btc")
	if !ok {
		t.Fatal("expected a BTC holding")
	}
	if want := Q(1.0); !h.Quantity.Equal(want) {
		t.Errorf("quantity = %s, want %s", h.Quantity, want)
	}
	// (0.5*20000 + 0.5*30000) / 1.0
	if want := USD(25000); !h.CostBasisUnit.Equal(want) {
		t.Errorf("cost basis = %s, want %s", h.CostBasisUnit, want)
	}
}

func TestLedger_UpsertHolding_replace(t *testing.T) {
	l := NewLedger("USD")
	if err := l.UpsertHolding(btc(0.5, 20000, 0), false); err != nil {
		t.Fatal(err)
	}
	if err := l.UpsertHolding(btc(2, 40000, 0), true); err != nil {
		t.Fatal(err)
	}

	h, _ := l.Holding(Crypto, "BTC")
	if want := Q(2); !h.Quantity.Equal(want) {
		t.Errorf("quantity = %s, want %s", h.Quantity, want)
	}
	if want := USD(40000); !h.CostBasisUnit.Equal(want) {
		t.Errorf("cost basis = %s, want %s", h.CostBasisUnit, want)
	}
}

func TestLedger_UpsertHolding_keepsKnownBasis(t *testing.T) {
	// Merging a lot without a cost basis must not wipe the existing one.
	l := NewLedger("USD")
	if err := l.UpsertHolding(btc(1, 20000, 0), false); err != nil {
		t.Fatal(err)
	}
	if err := l.UpsertHolding(btc(1, 0, 0), false); err != nil {
		t.Fatal(err)
	}

	h, _ := l.Holding(Crypto, "BTC")
	if want := Q(2); !h.Quantity.Equal(want) {
		t.Errorf("quantity = %s, want %s", h.Quantity, want)
	}
	if want := USD(20000); !h.CostBasisUnit.Equal(want) {
		t.Errorf("cost basis = %s, want %s", h.CostBasisUnit, want)
	}
}

func TestLedger_UpsertHolding_rejectsInvalid(t *testing.T) {
	l := NewLedger("USD")

	var verr *ValidationError
	err := l.UpsertHolding(Holding{Class: Crypto, Symbol: "  ", Quantity: Q(1)}, false)
	if !errors.As(err, &verr) || verr.Kind != EmptySymbol {
		t.Errorf("empty symbol: got %v, want ValidationError{EmptySymbol}", err)
	}

	err = l.UpsertHolding(btc(-1, 0, 0), false)
	if !errors.As(err, &verr) || verr.Kind != NegativeQuantity {
		t.Errorf("negative quantity: got %v, want ValidationError{NegativeQuantity}", err)
	}
	if l.Len() != 0 {
		t.Errorf("rejected holdings must not be stored, got %d", l.Len())
	}
}

func TestLedger_AdjustQuantity(t *testing.T) {
	testCases := []struct {
		name    string
		op      AdjustOp
		amount  float64
		want    float64
		wantErr bool
		gone    bool
	}{
		{name: "set", op: AdjustSet, amount: 3, want: 3},
		{name: "add", op: AdjustAdd, amount: 0.5, want: 2.5},
		{name: "sub", op: AdjustSub, amount: 0.5, want: 1.5},
		{name: "sub to zero removes", op: AdjustSub, amount: 2, gone: true},
		{name: "sub below zero rejected", op: AdjustSub, amount: 3, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger("USD")
			if err := l.UpsertHolding(btc(2, 0, 0), false); err != nil {
				t.Fatal(err)
			}

			_, err := l.AdjustQuantity(Crypto, "BTC", tc.op, Q(tc.amount))
			if tc.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Kind != NegativeQuantity {
					t.Fatalf("got %v, want ValidationError{NegativeQuantity}", err)
				}
				// The holding must be left untouched.
				h, _ := l.Holding(Crypto, "BTC")
				if want := Q(2); !h.Quantity.Equal(want) {
					t.Errorf("quantity after rejection = %s, want %s", h.Quantity, want)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			h, ok := l.Holding(Crypto, "BTC")
			if tc.gone {
				if ok {
					t.Fatal("zero-quantity holding should have been removed")
				}
				return
			}
			if !ok {
				t.Fatal("holding disappeared")
			}
			if want := Q(tc.want); !h.Quantity.Equal(want) {
				t.Errorf("quantity = %s, want %s", h.Quantity, want)
			}
		})
	}
}

func TestLedger_AdjustQuantity_unknownHolding(t *testing.T) {
	l := NewLedger("USD")
	if _, err := l.AdjustQuantity(Metal, "XAU", AdjustSet, Q(1)); err == nil {
		t.Error("expected an error adjusting a holding that does not exist")
	}
}

func TestLedger_AdjustCash(t *testing.T) {
	l := NewLedger("USD")
	if !l.Cash().IsZero() {
		t.Fatalf("new ledger cash = %s, want zero", l.Cash())
	}

	if _, err := l.AdjustCash(AdjustAdd, USD(1500)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AdjustCash(AdjustSub, USD(200)); err != nil {
		t.Fatal(err)
	}
	if want := USD(1300); !l.Cash().Equal(want) {
		t.Errorf("cash = %s, want %s", l.Cash(), want)
	}

	balance, err := l.AdjustCash(AdjustSet, USD(500))
	if err != nil {
		t.Fatal(err)
	}
	if want := USD(500); !balance.Equal(want) || !l.Cash().Equal(want) {
		t.Errorf("cash = %s, want %s", l.Cash(), want)
	}

	var verr *ValidationError
	if _, err := l.AdjustCash(AdjustSub, USD(600)); !errors.As(err, &verr) || verr.Kind != NegativeCash {
		t.Errorf("overdraw: got %v, want ValidationError{NegativeCash}", err)
	}
	if want := USD(500); !l.Cash().Equal(want) {
		t.Errorf("cash after rejection = %s, want untouched %s", l.Cash(), want)
	}
}

func TestLedger_RemoveHolding(t *testing.T) {
	l := NewLedger("USD")
	if err := l.UpsertHolding(btc(1, 0, 0), false); err != nil {
		t.Fatal(err)
	}
	if !l.RemoveHolding(Crypto, "btc") {
		t.Error("remove should report true for an existing holding")
	}
	if l.RemoveHolding(Crypto, "BTC") {
		t.Error("remove should report false for an absent holding")
	}
	if l.Len() != 0 {
		t.Errorf("ledger should be empty, got %d holdings", l.Len())
	}
}

func TestLedger_Holdings_sortedByClassThenSymbol(t *testing.T) {
	l := NewLedger("USD")
	for _, h := range []Holding{
		{Class: Equity, Symbol: "AAPL", Quantity: Q(1)},
		{Class: Crypto, Symbol: "ETH", Quantity: Q(1)},
		{Class: Crypto, Symbol: "BTC", Quantity: Q(1)},
		{Class: Metal, Symbol: "XAU", Quantity: Q(1)},
	} {
		if err := l.UpsertHolding(h, false); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	for h := range l.Holdings() {
		got = append(got, h.Key())
	}
	want := []string{"crypto/BTC", "crypto/ETH", "equity/AAPL", "metal/XAU"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLedger_separateClassesSameSymbol(t *testing.T) {
	// The same ticker can exist in two classes without colliding.
	l := NewLedger("USD")
	if err := l.UpsertHolding(Holding{Class: Crypto, Symbol: "GOLD", Quantity: Q(10)}, false); err != nil {
		t.Fatal(err)
	}
	if err := l.UpsertHolding(Holding{Class: Equity, Symbol: "GOLD", Quantity: Q(5)}, false); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 2 {
		t.Errorf("want 2 independent holdings, got %d", l.Len())
	}
}
