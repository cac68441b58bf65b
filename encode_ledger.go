package patrimony

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/patrimony/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// txCmd is the on-disk form of a Transaction, one per JSONL line.
//
// All amounts share the single "currency" field.
type txCmd struct {
	ID         string           `json:"id"`
	Kind       Kind             `json:"kind"`
	Timestamp  string           `json:"timestamp"`
	Ticker     string           `json:"ticker"`
	ISIN       string           `json:"isin"`
	Currency   string           `json:"currency"`
	Gross      decimal.Decimal  `json:"gross"`
	Price      decimal.Decimal  `json:"price"`
	Commission decimal.Decimal  `json:"commission"`
	Rate       *decimal.Decimal `json:"rate"`
	Memo       string           `json:"memo"`
}

// parseTimestamp accepts RFC 3339 timestamps and plain dates (midnight UTC).
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

// MarshalJSON writes the transaction with a stable field order.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Text("id", tx.ID)
	w.Field("kind", tx.Kind)
	w.Field("timestamp", tx.Timestamp.Format(time.RFC3339Nano))
	w.Field("ticker", tx.Ticker)
	w.Text("isin", tx.ISIN)
	w.Text("currency", tx.Currency())
	w.Amount("gross", tx.Gross)
	if tx.Kind == KindDividend {
		w.OptionalAmount("price", tx.UnitPrice)
	} else {
		w.Amount("price", tx.UnitPrice)
	}
	w.OptionalAmount("commission", tx.Commission)
	if tx.CapturedRate != nil {
		w.Field("rate", tx.CapturedRate)
	}
	w.Text("memo", tx.Memo)
	return w.Bytes()
}

// UnmarshalJSON reads a transaction written by MarshalJSON.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var cmd txCmd
	if err := json.Unmarshal(data, &cmd); err != nil {
		return err
	}
	ts, err := parseTimestamp(cmd.Timestamp)
	if err != nil {
		return err
	}
	*tx = Transaction{
		ID:           cmd.ID,
		Kind:         cmd.Kind,
		Timestamp:    ts,
		Ticker:       cmd.Ticker,
		ISIN:         cmd.ISIN,
		Gross:        M(cmd.Gross, cmd.Currency),
		UnitPrice:    M(cmd.Price, cmd.Currency),
		Commission:   M(cmd.Commission, cmd.Currency),
		CapturedRate: cmd.Rate,
		Memo:         cmd.Memo,
	}
	return nil
}

// EncodeTransaction writes a single transaction to w as one JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("could not encode transaction %q: %w", tx.ID, err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// EncodeLedger writes every transaction of the ledger to w, in chronological order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, tx := range l.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTransactions decodes transactions from a stream of JSONL data, in
// the order they appear. Empty lines and lines starting with '#' are
// skipped.
//
// Decoding does not validate transactions; NewLedger does.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	var errs []error
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var identifier struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal([]byte(text), &identifier); err != nil {
			errs = append(errs, fmt.Errorf("line %d: could not identify transaction kind: %w", line, err))
			continue
		}

		switch identifier.Kind {
		case KindBuy, KindSell, KindDividend:
			var tx Transaction
			if err := json.Unmarshal([]byte(text), &tx); err != nil {
				errs = append(errs, fmt.Errorf("line %d: %w", line, err))
				continue
			}
			txs = append(txs, tx)
		default:
			errs = append(errs, fmt.Errorf("line %d: %w: %q", line, ErrUnknownKind, identifier.Kind))
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("error reading from input: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return txs, nil
}
