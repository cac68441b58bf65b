package patrimony

import (
	"reflect"
	"testing"
)

func TestBookSingleLot(t *testing.T) {
	b := mustBook(t, nil,
		newBuy("2025-01-01", "AAPL", EUR(1000), EUR(100), EUR(0)),
	)
	p, ok := b.Position("AAPL")
	if !ok {
		t.Fatalf("Position(AAPL) not found")
	}
	if !p.Quantity.Equal(Q(10)) || !eq(p.AverageCost, 100) {
		t.Errorf("after buy position = %v @ %v, want 10 @ 100", p.Quantity, p.AverageCost)
	}

	b = mustBook(t, nil,
		newBuy("2025-01-01", "AAPL", EUR(1000), EUR(100), EUR(0)),
		newSell("2025-02-01", "AAPL", EUR(600), EUR(150), EUR(0)),
	)
	disposals := b.Disposals()
	if len(disposals) != 1 {
		t.Fatalf("Disposals() = %d, want 1", len(disposals))
	}
	d := disposals[0]
	if !d.Quantity.Equal(Q(4)) || !eq(d.Cost, 400) || !eq(d.Proceeds, 600) || !eq(d.Gain, 200) {
		t.Errorf("disposal = {qty=%v cost=%v proceeds=%v gain=%v}, want {4 400 600 200}", d.Quantity, d.Cost, d.Proceeds, d.Gain)
	}
	p, _ = b.Position("AAPL")
	if !p.Quantity.Equal(Q(6)) || !eq(p.CostBasis, 600) || !eq(p.AverageCost, 100) {
		t.Errorf("remaining position = %v for %v @ %v, want 6 for 600 @ 100", p.Quantity, p.CostBasis, p.AverageCost)
	}
	if !eq(p.Realized, 200) {
		t.Errorf("Realized = %v, want 200", p.Realized)
	}
}

func TestBookTwoLots(t *testing.T) {
	b := mustBook(t, nil,
		newBuy("2025-01-01", "AAPL", EUR(500), EUR(100), EUR(0)),
		newBuy("2025-01-02", "AAPL", EUR(1000), EUR(200), EUR(0)),
		newSell("2025-02-01", "AAPL", EUR(2100), EUR(300), EUR(0)),
	)
	disposals := b.Disposals()
	if len(disposals) != 2 {
		t.Fatalf("Disposals() = %d, want 2", len(disposals))
	}
	if !disposals[0].Quantity.Equal(Q(5)) || !eq(disposals[0].Cost, 500) {
		t.Errorf("first disposal = %v for %v, want 5 for 500", disposals[0].Quantity, disposals[0].Cost)
	}
	if !disposals[1].Quantity.Equal(Q(2)) || !eq(disposals[1].Cost, 400) {
		t.Errorf("second disposal = %v for %v, want 2 for 400", disposals[1].Quantity, disposals[1].Cost)
	}
	if total := disposals[0].Proceeds.Add(disposals[1].Proceeds); !eq(total, 2100) {
		t.Errorf("total proceeds = %v, want 2100", total)
	}
}

func TestBookOversell(t *testing.T) {
	b := mustBook(t, nil,
		newSell("2025-02-01", "AAPL", EUR(30), EUR(10), EUR(0)),
	)
	p, ok := b.Position("AAPL")
	if !ok {
		t.Fatalf("Position(AAPL) not found")
	}
	if !p.Quantity.IsZero() {
		t.Errorf("Quantity = %v, want 0", p.Quantity)
	}
	if !p.Flags.Has(FlagOversell) {
		t.Errorf("Flags = %v, want oversell", p.Flags)
	}
	if !p.Unmatched.Equal(Q(3)) {
		t.Errorf("Unmatched = %v, want 3", p.Unmatched)
	}
}

func TestBookCommissions(t *testing.T) {
	b := mustBook(t, nil,
		newBuy("2025-01-01", "AAPL", EUR(1000), EUR(100), EUR(5)),
		newSell("2025-02-01", "AAPL", EUR(600), EUR(150), EUR(3)),
		newDividend("2025-03-01", "AAPL", EUR(20), EUR(6)),
	)
	p, _ := b.Position("AAPL")
	// cost basis carries its share of the buy commission
	if !eq(p.CostBasis, 603) {
		t.Errorf("CostBasis = %v, want 603", p.CostBasis)
	}
	d := b.Disposals()[0]
	if !eq(d.Proceeds, 597) || !eq(d.Cost, 402) || !eq(d.Gain, 195) {
		t.Errorf("disposal = {proceeds=%v cost=%v gain=%v}, want {597 402 195}", d.Proceeds, d.Cost, d.Gain)
	}
	if got := b.Commissions(); !eq(got, 14) {
		t.Errorf("Commissions() = %v, want 14", got)
	}
	if got := b.DividendIncome(); !eq(got, 14) {
		t.Errorf("DividendIncome() = %v, want 14", got)
	}
	if got := b.CashFlow().Delta; !eq(got, -1005+597+14) {
		t.Errorf("CashFlow().Delta = %v, want %v", got, -1005+597+14)
	}
}

func TestBookMultiCurrency(t *testing.T) {
	buy := newBuy("2025-01-01", "AAPL", USD(1000), USD(100), USD(0))
	buy.CapturedRate = rate(0.8)
	sell := newSell("2025-02-01", "AAPL", USD(1000), USD(100), USD(0))
	b := mustBook(t, fixedRates{"USDEUR": 0.9}, buy, sell)
	d := b.Disposals()[0]
	if !eq(d.Cost, 800) || !eq(d.Proceeds, 900) || !eq(d.Gain, 100) {
		t.Errorf("disposal = {cost=%v proceeds=%v gain=%v}, want {800 900 100}", d.Cost, d.Proceeds, d.Gain)
	}
	if d.Gain.Currency() != "EUR" {
		t.Errorf("Gain currency = %q, want EUR", d.Gain.Currency())
	}
}

func TestBookFlagsPropagate(t *testing.T) {
	b := mustBook(t, nil, // no rate at all for USD
		newBuy("2025-01-01", "AAPL", USD(1000), USD(100), USD(0)),
		newBuy("2025-01-01", "MSFT", EUR(10), EUR(0), EUR(0)),
		newSell("2025-02-01", "AAPL", USD(100), USD(100), USD(0)),
	)
	aapl, _ := b.Position("AAPL")
	if !aapl.Flags.Has(FlagFXEstimated) {
		t.Errorf("AAPL flags = %v, want fx_estimated", aapl.Flags)
	}
	if !b.Disposals()[0].Flags.Has(FlagFXEstimated) {
		t.Errorf("disposal flags = %v, want fx_estimated", b.Disposals()[0].Flags)
	}
	msft, _ := b.Position("MSFT")
	if !msft.Flags.Has(FlagNonPositivePrice) {
		t.Errorf("MSFT flags = %v, want non_positive_price", msft.Flags)
	}
}

func TestBookIdempotence(t *testing.T) {
	txs := []Transaction{
		newBuy("2025-01-01", "AAPL", EUR(500), EUR(100), EUR(1)),
		newBuy("2025-01-02", "MSFT", EUR(1000), EUR(200), EUR(1)),
		newSell("2025-02-01", "AAPL", EUR(210), EUR(70), EUR(1)),
		newDividend("2025-03-01", "MSFT", EUR(10), EUR(1)),
	}
	a := mustBook(t, nil, txs...)
	b := mustBook(t, nil, txs...)
	if !reflect.DeepEqual(a.Positions(), b.Positions()) {
		t.Errorf("Positions() differ between two builds")
	}
	if !reflect.DeepEqual(a.Disposals(), b.Disposals()) {
		t.Errorf("Disposals() differ between two builds")
	}
	if !reflect.DeepEqual(a.Positions(), a.Positions()) {
		t.Errorf("Positions() differ between two calls")
	}
}

func TestBookPositionsSorted(t *testing.T) {
	b := mustBook(t, nil,
		newBuy("2025-01-01", "MSFT", EUR(500), EUR(100), EUR(0)),
		newBuy("2025-01-02", "AAPL", EUR(1000), EUR(200), EUR(0)),
	)
	var got []string
	for _, p := range b.Positions() {
		got = append(got, p.Ticker)
	}
	if want := []string{"AAPL", "MSFT"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Positions() tickers = %v, want %v", got, want)
	}
	if _, ok := b.Position("GOOG"); ok {
		t.Errorf("Position(GOOG) found, want not found")
	}
}
