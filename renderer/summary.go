package renderer

import (
	"github.com/etnz/patrimony"
)

// SummaryMarkdown renders the headline figures of a portfolio.
func SummaryMarkdown(s *patrimony.Summary) string {
	var p printer
	p.Printf("# Summary on %s\n\n", s.Date)
	p.Printf("| Metric | Value |\n")
	p.Printf("|:---|---:|\n")
	p.Printf("| Open positions | %d |\n", s.Positions)
	p.Printf("| Market Value | %s |\n", s.MarketValue)
	p.Printf("| Cost Basis | %s |\n", s.CostBasis)
	p.Printf("| Unrealized Gain | %s |\n", s.UnrealizedGain.SignedString())
	p.Printf("| Realized Gain | %s |\n", s.Realized.SignedString())
	p.Printf("| Dividends | %s |\n", s.Dividends)
	p.Printf("| Commissions | %s |\n", s.Commissions)
	if s.Unvalued > 0 {
		p.Printf("| Positions without quote | %d |\n", s.Unvalued)
	}
	p.Printf("\n")
	renderFlags(&p, s.Flags)
	return p.String()
}
