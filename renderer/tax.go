package renderer

import (
	"github.com/etnz/patrimony"
)

// TaxMarkdown renders the realized gains and dividends of a tax report.
func TaxMarkdown(r *patrimony.TaxReport) string {
	var p printer
	p.Printf("# Tax Report, %s\n\n", r.Period.Name())
	p.Printf("Amounts in %s.\n\n", r.Base)

	p.Printf("## Disposals\n\n")
	if len(r.Disposals) == 0 {
		p.Printf("No disposal.\n\n")
	} else {
		p.Printf("| Disposed | Ticker | ISIN | Acquired | Quantity | Proceeds | Cost | Gain | Flags |\n")
		p.Printf("|:---|:---|:---|:---|---:|---:|---:|---:|:---|\n")
		for _, d := range r.Disposals {
			acquired := ""
			if !d.AcquiredAt.IsZero() {
				acquired = d.AcquiredAt.Format("2006-01-02")
			}
			p.Printf("| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				d.Date(), d.Ticker, d.ISIN, acquired, d.Quantity, d.Proceeds, d.Cost, d.Gain.SignedString(), flagCell(d.Flags))
		}
		p.Printf("| **Total** | | | | | %s | %s | %s | |\n", r.Proceeds, r.Cost, r.Gain.SignedString())
		if !r.FlaggedGain.IsZero() {
			p.Printf("| **Flagged** | | | | | | | %s | |\n", r.FlaggedGain.SignedString())
			p.Printf("| **Unflagged** | | | | | | | %s | |\n", r.Gain.Sub(r.FlaggedGain).SignedString())
		}
		p.Printf("\n")
	}

	p.Printf("## Dividends\n\n")
	if len(r.Dividends) == 0 {
		p.Printf("No dividend.\n\n")
	} else {
		p.Printf("| Paid | Ticker | ISIN | Gross | Withheld | Net | Flags |\n")
		p.Printf("|:---|:---|:---|---:|---:|---:|:---|\n")
		for _, d := range r.Dividends {
			p.Printf("| %s | %s | %s | %s | %s | %s | %s |\n",
				d.Date(), d.Ticker, d.ISIN, d.Gross, d.Withheld, d.Net, flagCell(d.Flags))
		}
		p.Printf("| **Total** | | | %s | %s | %s | |\n\n", r.DividendGross, r.Withheld, r.DividendNet)
	}
	renderFlags(&p, r.Flags)
	return p.String()
}
