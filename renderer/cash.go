package renderer

import (
	"github.com/etnz/patrimony"
)

// CashMarkdown renders the cash flow of trading against contributions.
func CashMarkdown(r *patrimony.CashReport) string {
	var p printer
	p.Printf("# Cash Flow\n\n")
	p.Printf("Amounts in %s.\n\n", r.Base)
	p.Printf("| Item | Amount |\n")
	p.Printf("|:---|---:|\n")
	p.Printf("| Contributions | %s |\n", r.Contributions)
	p.Printf("| Outflows (buys) | %s |\n", r.Flow.Outflows.Neg().SignedString())
	p.Printf("| Inflows (sells, dividends) | %s |\n", r.Flow.Inflows.SignedString())
	p.Printf("| Commissions paid | %s |\n", r.Flow.Commissions)
	p.Printf("| Net trading flow | %s |\n", r.Flow.Delta.SignedString())
	p.Printf("| **Liquidity** | **%s** |\n\n", r.Liquidity)
	return p.String()
}
