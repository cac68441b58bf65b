package patrimony

import "iter"

// CashFlow is the cash moved by transactions, in base currency.
type CashFlow struct {
	Inflows     Money // sell and dividend net amounts
	Outflows    Money // buy costs, commission included
	Commissions Money
	Delta       Money // Inflows - Outflows
}

// Accumulate sums the cash effect of entries.
//
// A buy spends gross plus commission, a sell or a dividend brings gross
// minus commission.
func Accumulate(entries iter.Seq[Entry]) CashFlow {
	var c CashFlow
	for e := range entries {
		c.Commissions = c.Commissions.Add(e.Commission)
		switch e.Kind() {
		case KindBuy:
			c.Outflows = c.Outflows.Add(e.Gross.Add(e.Commission))
		case KindSell, KindDividend:
			c.Inflows = c.Inflows.Add(e.Net())
		}
	}
	c.Delta = c.Inflows.Sub(c.Outflows)
	return c
}

// In sets the currency of zero amounts.
func (c CashFlow) In(cur string) CashFlow {
	c.Inflows = c.Inflows.In(cur)
	c.Outflows = c.Outflows.In(cur)
	c.Commissions = c.Commissions.In(cur)
	c.Delta = c.Delta.In(cur)
	return c
}

// Liquidity returns the cash available after contributing 'contributions'.
func (c CashFlow) Liquidity(contributions Money) Money {
	return contributions.Add(c.Delta)
}
