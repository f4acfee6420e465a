package tracker

import (
	"encoding/json"
	"testing"
)

func TestMoney_arithmetic(t *testing.T) {
	if got, want := USD(10).Add(USD(2.5)), USD(12.5); !got.Equal(want) {
		t.Errorf("Add = %s, want %s", got, want)
	}
	if got, want := USD(10).Sub(USD(2.5)), USD(7.5); !got.Equal(want) {
		t.Errorf("Sub = %s, want %s", got, want)
	}
	if got, want := USD(30000).Mul(Q(0.5)), USD(15000); !got.Equal(want) {
		t.Errorf("Mul = %s, want %s", got, want)
	}
	if got, want := USD(25000).Div(Q(2)), USD(12500); !got.Equal(want) {
		t.Errorf("Div = %s, want %s", got, want)
	}
}

func TestMoney_weakEmptyCurrency(t *testing.T) {
	got := M(10, "").Add(USD(5))
	if got.Currency() != "USD" {
		t.Errorf("currency = %q, want USD", got.Currency())
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got := USD(0).SignedString(); got != "-" {
		t.Errorf(`zero SignedString = %q, want "-"`, got)
	}
	if got := USD(5).SignedString(); got[0] != '+' {
		t.Errorf("positive SignedString = %q, want a leading +", got)
	}
}

func TestMoney_jsonRoundTrip(t *testing.T) {
	data, err := json.Marshal(USD(30000.5))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"currency":"USD","amount":30000.5}`; string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
	var m Money
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if !m.Equal(USD(30000.5)) {
		t.Errorf("round trip = %s, want %s", m, USD(30000.5))
	}
}

func TestNewPercent_roundsHalfToEven(t *testing.T) {
	testCases := []struct {
		part, total float64
		want        Percent
	}{
		{15000, 18600, 80.6}, // 80.645...
		{3600, 18600, 19.4},  // 19.354...
		{125, 1000, 12.5},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{5, 100, 5},
		{0, 0, 0}, // zero total never divides
		{10, 0, 0},
	}
	for _, tc := range testCases {
		got := NewPercent(USD(tc.part), USD(tc.total))
		if !got.Equal(tc.want) {
			t.Errorf("NewPercent(%v/%v) = %s, want %s", tc.part, tc.total, got, tc.want)
		}
	}
}
