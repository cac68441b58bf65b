package patrimony

import "strings"

// Flags annotate a derived record with the data-quality defects and
// estimates that went into it.
type Flags uint8

const (
	// FlagNonPositivePrice marks a Buy or Sell whose unit price was not
	// positive and was replaced by 1 to derive the quantity.
	FlagNonPositivePrice Flags = 1 << iota
	// FlagMissingCurrency marks amounts recorded without a currency, which
	// were read as base currency.
	FlagMissingCurrency
	// FlagOversell marks a sell of more shares than were held.
	FlagOversell
	// FlagFXEstimated marks a conversion that fell back to a rate of 1.
	FlagFXEstimated
	// FlagNoQuote marks a position that could not be valued.
	FlagNoQuote
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagNonPositivePrice, "non_positive_price"},
	{FlagMissingCurrency, "missing_currency"},
	{FlagOversell, "oversell"},
	{FlagFXEstimated, "fx_estimated"},
	{FlagNoQuote, "no_quote"},
}

// Has reports whether all of f2 are set in f.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Names returns the names of the set flags.
func (f Flags) Names() []string {
	var names []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return names
}

func (f Flags) String() string { return strings.Join(f.Names(), ",") }

func (f Flags) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}
