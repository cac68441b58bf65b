// Package patrimony is the accounting engine of a personal stock portfolio.
//
// It replays an append-only ledger of buys, sells and dividends to derive:
//   - positions with their FIFO cost basis,
//   - realized gains, one Disposal per lot matched by a sell,
//   - dividend income and commissions paid,
//   - cash moved by trading,
//   - market value and unrealized gains, given quotes.
//
// Every amount is normalized to a single base currency. Data-quality
// defects never abort a report, they are attached as Flags to the rows
// they affect.
//
// The engine does not fetch anything itself: ledgers come from a
// LedgerStore, quotes from a QuoteProvider and exchange rates from a
// RateProvider. The store, yahoo, tradegate, exchangerate, ecb and eodhd
// packages provide implementations, and the pat command ties them together.
package patrimony
