package patrimony

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Security identifies a tradable instrument for quote lookups.
//
// Ticker is the symbol used in the ledger; ISIN is optional and lets
// exchanges that do not know the ticker find the security anyway.
type Security struct {
	Ticker   string
	ISIN     string
	Currency string // quote currency when known
}

func (s Security) String() string {
	if s.ISIN == "" {
		return s.Ticker
	}
	return s.Ticker + " (" + s.ISIN + ")"
}

var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// NormalizeTicker returns the canonical form of a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateISIN checks if a string is a validly formatted ISIN.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid ISIN length: must be 12 characters, got %d", len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid ISIN format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}

	// letters count as two digits, A=10 .. Z=35
	var digits strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			digits.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			digits.WriteRune(char)
		}
	}

	// Luhn, doubling from the rightmost digit.
	sum := 0
	double := true
	s := digits.String()
	for i := len(s) - 1; i >= 0; i-- {
		digit := int(s[i] - '0')
		if double {
			digit *= 2
		}
		sum += digit/10 + digit%10
		double = !double
	}

	want := (10 - sum%10) % 10
	if got := int(isin[11] - '0'); got != want {
		return fmt.Errorf("invalid ISIN check digit: expected %d, got %d", want, got)
	}
	return nil
}
