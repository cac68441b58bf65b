package patrimony

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the type of a ledger transaction.
type Kind string

const (
	KindBuy      Kind = "buy"
	KindSell     Kind = "sell"
	KindDividend Kind = "dividend"
)

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindBuy, KindSell, KindDividend:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

var (
	ErrUnknownKind     = errors.New("unknown transaction kind")
	ErrMissingTicker   = errors.New("ticker is missing")
	ErrMissingTime     = errors.New("timestamp is missing")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrCurrencyMixture = errors.New("amounts must share one currency")
	ErrZeroQuantity    = errors.New("buy or sell of no shares")
)

// Transaction is a single recorded Buy, Sell or Dividend event.
//
// Transactions are never edited once recorded, a correction is a new
// offsetting transaction.
type Transaction struct {
	ID        string
	Ticker    string
	ISIN      string // optional
	Kind      Kind
	Timestamp time.Time

	Gross      Money // total amount exchanged, excluding commission
	UnitPrice  Money // price per share, unused for dividends
	Commission Money // fee or, for dividends, tax withheld

	// CapturedRate is the rate, in base currency per unit of the
	// transaction currency, observed when the transaction was recorded.
	CapturedRate *decimal.Decimal

	Memo string
}

// Currency returns the currency of the transaction amounts, or "" when none was recorded.
func (tx Transaction) Currency() string {
	for _, m := range []Money{tx.Gross, tx.UnitPrice, tx.Commission} {
		if m.Currency() != "" {
			return m.Currency()
		}
	}
	return ""
}

// Security returns the quoted instrument of the transaction.
func (tx Transaction) Security() Security {
	return Security{Ticker: tx.Ticker, ISIN: tx.ISIN, Currency: tx.Currency()}
}

// price returns the unit price used to derive the quantity, and true if it had to be replaced.
func (tx Transaction) price() (decimal.Decimal, bool) {
	if !tx.UnitPrice.IsPositive() {
		return decimal.NewFromInt(1), true
	}
	return tx.UnitPrice.Decimal(), false
}

// Quantity returns the number of shares bought or sold: Gross / UnitPrice
// rounded to QuantityPrecision. Dividends have no quantity.
func (tx Transaction) Quantity() Quantity {
	if tx.Kind == KindDividend {
		return Quantity{}
	}
	price, _ := tx.price()
	return Q(tx.Gross.Decimal().Div(price)).Round()
}

// Flags returns the data-quality defects of the transaction itself.
func (tx Transaction) Flags() Flags {
	var f Flags
	if tx.Kind != KindDividend {
		if _, replaced := tx.price(); replaced {
			f |= FlagNonPositivePrice
		}
	}
	if tx.Currency() == "" {
		f |= FlagMissingCurrency
	}
	return f
}

// Validate reports structural errors that make the transaction unusable.
//
// Data-quality defects (non-positive price, missing currency) are not
// errors, see Flags.
func (tx Transaction) Validate() error {
	var errs []error
	if _, err := ParseKind(string(tx.Kind)); err != nil {
		errs = append(errs, err)
	}
	if tx.Ticker == "" {
		errs = append(errs, ErrMissingTicker)
	}
	if tx.Timestamp.IsZero() {
		errs = append(errs, ErrMissingTime)
	}
	if tx.Gross.IsNegative() {
		errs = append(errs, fmt.Errorf("gross %v: %w", tx.Gross, ErrNegativeAmount))
	}
	if tx.Commission.IsNegative() {
		errs = append(errs, fmt.Errorf("commission %v: %w", tx.Commission, ErrNegativeAmount))
	}
	if (tx.Kind == KindBuy || tx.Kind == KindSell) && !tx.Gross.IsNegative() && !tx.Quantity().IsPositive() {
		errs = append(errs, fmt.Errorf("gross %v at %v: %w", tx.Gross, tx.UnitPrice, ErrZeroQuantity))
	}
	cur := tx.Currency()
	if cur != "" {
		if err := ValidateCurrency(cur); err != nil {
			errs = append(errs, err)
		}
		for _, m := range []Money{tx.Gross, tx.UnitPrice, tx.Commission} {
			if m.Currency() != "" && m.Currency() != cur {
				errs = append(errs, fmt.Errorf("%w: %s and %s", ErrCurrencyMixture, cur, m.Currency()))
			}
		}
	}
	if tx.ISIN != "" {
		if err := ValidateISIN(tx.ISIN); err != nil {
			errs = append(errs, err)
		}
	}
	if tx.CapturedRate != nil && !tx.CapturedRate.IsPositive() {
		errs = append(errs, fmt.Errorf("captured rate must be positive, got %v", tx.CapturedRate))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid %s of %q on %s: %w", tx.Kind, tx.Ticker, tx.Timestamp.Format(time.DateOnly), errors.Join(errs...))
}
