package patrimony

import (
	"bufio"
	"encoding/json"
	"io"
	"slices"
	"time"

	"github.com/etnz/patrimony/date"
)

// FiscalRecord is one row of a fiscal report: a Disposal or a DividendRecord.
type FiscalRecord interface {
	Date() date.Date
	Security() string
}

var (
	_ FiscalRecord = Disposal{}
	_ FiscalRecord = DividendRecord{}
)

// DividendRecord is a dividend payment in base currency.
type DividendRecord struct {
	Ticker   string
	ISIN     string
	PaidAt   time.Time
	Gross    Money
	Withheld Money
	Net      Money
	Flags    Flags
}

func newDividendRecord(e Entry) DividendRecord {
	return DividendRecord{
		Ticker:   e.Ticker(),
		ISIN:     e.Tx.ISIN,
		PaidAt:   e.Time(),
		Gross:    e.Gross,
		Withheld: e.Commission,
		Net:      e.Net(),
		Flags:    e.Flags,
	}
}

// Date returns the payment day.
func (d DividendRecord) Date() date.Date { return date.Of(d.PaidAt) }

// Security returns the paying ticker.
func (d DividendRecord) Security() string { return d.Ticker }

func (d DividendRecord) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Field("type", "dividend")
	w.Field("ticker", d.Ticker)
	w.Text("isin", d.ISIN)
	w.Day("date", d.PaidAt)
	w.Field("currency", d.Gross.Currency())
	w.Amount("gross", d.Gross)
	w.Amount("withheld", d.Withheld)
	w.Amount("net", d.Net)
	w.Flags(d.Flags)
	return w.Bytes()
}

// TaxReport lists realized gains and dividends of a fiscal period.
type TaxReport struct {
	Period    date.Range
	Base      string
	Disposals []Disposal
	Dividends []DividendRecord

	Proceeds      Money
	Cost          Money
	Gain          Money
	FlaggedGain   Money // part of Gain from flagged disposals
	DividendGross Money
	Withheld      Money
	DividendNet   Money

	Flags Flags // union of the flags of every row
}

// NewTaxReport selects disposals and dividends that happened within period.
//
// The book must be built from the full ledger: lots acquired before the
// period still provide the cost of disposals within it.
func NewTaxReport(book *Book, period date.Range) *TaxReport {
	zero := M(0, book.Base())
	r := &TaxReport{
		Period:        period,
		Base:          book.Base(),
		Proceeds:      zero,
		Cost:          zero,
		Gain:          zero,
		FlaggedGain:   zero,
		DividendGross: zero,
		Withheld:      zero,
		DividendNet:   zero,
	}
	for _, d := range book.disposals {
		if !period.Contains(d.Date()) {
			continue
		}
		r.Disposals = append(r.Disposals, d)
		r.Proceeds = r.Proceeds.Add(d.Proceeds)
		r.Cost = r.Cost.Add(d.Cost)
		r.Gain = r.Gain.Add(d.Gain)
		if d.Flags != 0 {
			r.FlaggedGain = r.FlaggedGain.Add(d.Gain)
		}
		r.Flags |= d.Flags
	}
	for _, d := range book.dividends {
		if !period.Contains(d.Date()) {
			continue
		}
		r.Dividends = append(r.Dividends, d)
		r.DividendGross = r.DividendGross.Add(d.Gross)
		r.Withheld = r.Withheld.Add(d.Withheld)
		r.DividendNet = r.DividendNet.Add(d.Net)
		r.Flags |= d.Flags
	}
	return r
}

func recordTime(r FiscalRecord) time.Time {
	switch r := r.(type) {
	case Disposal:
		return r.DisposedAt
	case DividendRecord:
		return r.PaidAt
	}
	return time.Time{}
}

// Records returns disposals and dividends merged in chronological order.
//
// Matches of a single sell keep their FIFO order.
func (r *TaxReport) Records() []FiscalRecord {
	records := make([]FiscalRecord, 0, len(r.Disposals)+len(r.Dividends))
	for _, d := range r.Disposals {
		records = append(records, d)
	}
	for _, d := range r.Dividends {
		records = append(records, d)
	}
	slices.SortStableFunc(records, func(a, b FiscalRecord) int {
		return recordTime(a).Compare(recordTime(b))
	})
	return records
}

// EncodeFiscalRecords writes records to w as JSON lines.
func EncodeFiscalRecords(w io.Writer, records []FiscalRecord) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return bw.Flush()
}
