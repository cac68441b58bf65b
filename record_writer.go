package patrimony

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/etnz/patrimony/date"
)

// recordWriter encodes one JSON object with fields in call order.
//
// Ledger lines and fiscal records are read by people and diffed, so their
// keys must not be reordered. The first failing field is reported by Bytes.
type recordWriter struct {
	buf []byte
	err error
}

func (w *recordWriter) key(k string) {
	if len(w.buf) == 0 {
		w.buf = append(w.buf, '{')
	} else {
		w.buf = append(w.buf, ',')
	}
	w.buf = strconv.AppendQuote(w.buf, k)
	w.buf = append(w.buf, ':')
}

// Field writes v as encoded by json.Marshal.
func (w *recordWriter) Field(k string, v any) {
	if w.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("field %q: %w", k, err)
		return
	}
	w.key(k)
	w.buf = append(w.buf, b...)
}

// Text writes s unless it is empty.
func (w *recordWriter) Text(k, s string) {
	if s != "" {
		w.Field(k, s)
	}
}

// Amount writes the decimal value of m, its currency is written separately.
func (w *recordWriter) Amount(k string, m Money) { w.Field(k, m.Decimal()) }

// OptionalAmount writes m unless it is zero.
func (w *recordWriter) OptionalAmount(k string, m Money) {
	if !m.IsZero() {
		w.Amount(k, m)
	}
}

// Day writes the calendar day of t unless t is zero.
func (w *recordWriter) Day(k string, t time.Time) {
	if !t.IsZero() {
		w.Field(k, date.Of(t))
	}
}

// Flags writes the flag names unless none is set.
func (w *recordWriter) Flags(f Flags) {
	if f != 0 {
		w.Field("flags", f)
	}
}

// Bytes returns the encoded object.
func (w *recordWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.buf) == 0 {
		return []byte("{}"), nil
	}
	return append(w.buf, '}'), nil
}
