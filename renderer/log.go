package renderer

import (
	"github.com/etnz/patrimony"
)

// LogMarkdown renders the transactions of the ledger, newest first.
func LogMarkdown(l *patrimony.Ledger) string {
	var p printer
	p.Printf("# Transactions\n\n")
	if l.Len() == 0 {
		p.Printf("No transaction.\n")
		return p.String()
	}
	p.Printf("| Date | Kind | Ticker | Quantity | Price | Gross | Commission | Memo | Flags |\n")
	p.Printf("|:---|:---|:---|---:|---:|---:|---:|:---|:---|\n")
	for tx := range l.Newest() {
		qty, price := "", ""
		if tx.Kind != patrimony.KindDividend {
			qty = tx.Quantity().String()
			price = tx.UnitPrice.String()
		}
		p.Printf("| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Timestamp.Format("2006-01-02"), tx.Kind, tx.Ticker, qty, price, tx.Gross, tx.Commission, cell(tx.Memo), flagCell(tx.Flags()))
	}
	return p.String()
}
