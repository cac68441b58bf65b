package patrimony

import (
	"bytes"
	"testing"

	"github.com/etnz/patrimony/date"
)

func taxBook(t *testing.T) *Book {
	return mustBook(t, nil,
		newBuy("2023-06-01", "AAPL", EUR(1000), EUR(100), EUR(0)),
		newSell("2023-12-01", "AAPL", EUR(300), EUR(150), EUR(0)),
		newDividend("2024-02-01", "AAPL", EUR(20), EUR(5)),
		newSell("2024-03-01", "AAPL", EUR(600), EUR(200), EUR(2)),
		newDividend("2024-03-01", "AAPL", EUR(10), EUR(0)),
	)
}

func TestTaxReportPeriod(t *testing.T) {
	tests := []struct {
		name          string
		period        date.Range
		wantDisposals int
		wantDividends int
		wantProceeds  float64
		wantGain      float64
		wantNet       float64
	}{
		{"2023", date.Year(2023), 1, 0, 300, 100, 0},
		{"2024", date.Year(2024), 1, 2, 598, 298, 25},
		{"all time", date.AllTime, 2, 2, 898, 398, 25},
		{"2022", date.Year(2022), 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTaxReport(taxBook(t), tt.period)
			if len(r.Disposals) != tt.wantDisposals || len(r.Dividends) != tt.wantDividends {
				t.Fatalf("NewTaxReport() = %d disposals %d dividends, want %d %d", len(r.Disposals), len(r.Dividends), tt.wantDisposals, tt.wantDividends)
			}
			if !eq(r.Proceeds, tt.wantProceeds) {
				t.Errorf("Proceeds = %v, want %v", r.Proceeds, tt.wantProceeds)
			}
			if !eq(r.Gain, tt.wantGain) {
				t.Errorf("Gain = %v, want %v", r.Gain, tt.wantGain)
			}
			if !eq(r.DividendNet, tt.wantNet) {
				t.Errorf("DividendNet = %v, want %v", r.DividendNet, tt.wantNet)
			}
			if r.Gain.Currency() != "EUR" {
				t.Errorf("Gain currency = %q, want EUR", r.Gain.Currency())
			}
		})
	}
}

func TestTaxReportFlaggedGain(t *testing.T) {
	book := mustBook(t, nil,
		newBuy("2024-01-01", "AAPL", EUR(100), EUR(10), EUR(0)),
		newSell("2024-02-01", "AAPL", EUR(300), EUR(20), EUR(0)), // 10 held, 5 oversold
	)
	r := NewTaxReport(book, date.Year(2024))
	if !eq(r.Gain, 200) {
		t.Errorf("Gain = %v, want 200", r.Gain)
	}
	if !eq(r.FlaggedGain, 100) {
		t.Errorf("FlaggedGain = %v, want 100", r.FlaggedGain)
	}
	if !r.Flags.Has(FlagOversell) {
		t.Errorf("Flags = %v, want oversell", r.Flags)
	}

	clean := NewTaxReport(taxBook(t), date.AllTime)
	if !clean.FlaggedGain.IsZero() || clean.FlaggedGain.Currency() != "EUR" {
		t.Errorf("FlaggedGain = %v, want 0 EUR", clean.FlaggedGain)
	}
}

func TestTaxReportRecordsOrder(t *testing.T) {
	r := NewTaxReport(taxBook(t), date.AllTime)
	var got []string
	for _, rec := range r.Records() {
		switch rec.(type) {
		case Disposal:
			got = append(got, "disposal "+rec.Date().String())
		case DividendRecord:
			got = append(got, "dividend "+rec.Date().String())
		}
	}
	want := []string{
		"disposal 2023-12-01",
		"dividend 2024-02-01",
		"disposal 2024-03-01",
		"dividend 2024-03-01",
	}
	if len(got) != len(want) {
		t.Fatalf("Records() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Records()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEncodeFiscalRecords(t *testing.T) {
	r := NewTaxReport(taxBook(t), date.Year(2023))
	var buf bytes.Buffer
	if err := EncodeFiscalRecords(&buf, r.Records()); err != nil {
		t.Fatalf("EncodeFiscalRecords() error = %v", err)
	}
	want := `{"type":"disposal","ticker":"AAPL","acquired":"2023-06-01","disposed":"2023-12-01","quantity":2,"currency":"EUR","proceeds":300,"cost":200,"gain":100}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("EncodeFiscalRecords() =\n%s\nwant\n%s", got, want)
	}
}
