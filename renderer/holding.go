package renderer

import (
	"github.com/etnz/patrimony"
)

// HoldingMarkdown renders the positions held on the report date.
func HoldingMarkdown(r *patrimony.HoldingReport) string {
	var p printer
	p.Printf("# Holding on %s\n\n", r.Date)
	p.Printf("Amounts in %s. %d open positions.\n\n", r.Base, r.Open)

	if len(r.Rows) > 0 {
		p.Printf("| Ticker | Quantity | Avg. Cost | Cost Basis | Quote | Market Value | Unrealized | Unrealized %% | Realized | Flags |\n")
		p.Printf("|:---|---:|---:|---:|---:|---:|---:|---:|---:|:---|\n")
		for _, v := range r.Rows {
			quote, value, gain, pct := "n/a", "n/a", "n/a", "n/a"
			if v.Known {
				quote = v.Quote.String()
				value = v.MarketValue.String()
				gain = v.UnrealizedGain.SignedString()
				pct = v.UnrealizedPct.SignedString()
			}
			p.Printf("| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				v.Ticker, v.Quantity, v.AverageCost, v.CostBasis, quote, value, gain, pct, v.Realized.SignedString(), flagCell(v.Flags))
		}
		p.Printf("\n")
	}

	p.Printf("| Total | Value |\n")
	p.Printf("|:---|---:|\n")
	p.Printf("| Market Value | %s |\n", r.MarketValue)
	p.Printf("| Cost Basis | %s |\n", r.CostBasis)
	p.Printf("| Unrealized Gain | %s |\n", r.UnrealizedGain.SignedString())
	p.Printf("| Realized Gain | %s |\n", r.Realized.SignedString())
	if r.Unvalued > 0 {
		p.Printf("| Positions without quote | %d |\n", r.Unvalued)
	}
	p.Printf("\n")
	renderFlags(&p, r.Flags)
	return p.String()
}
