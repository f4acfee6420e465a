package tracker

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// btc is a helper for tests to create a priced crypto holding.
func btc(qty, cost, price float64) Holding {
	h := Holding{
		Class:    Crypto,
		Symbol:   "BTC",
		Quantity: Q(qty),
	}
	if cost != 0 {
		h.CostBasisUnit = USD(cost)
	}
	if price != 0 {
		h.LastKnownPrice = USD(price)
	}
	return h
}
