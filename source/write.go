package source

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/bsonskema/value"
)

// Options controls JSON output.
type Options struct {
	// Canonical wraps every number in its Extended JSON wrapper so that the
	// exact kind survives a round trip. Relaxed output (the default) writes
	// Int32, Int64 and finite Double values as plain numbers.
	Canonical bool
	// Indent, when non-empty, pretty-prints with the given indent string.
	Indent string
}

// MarshalJSON renders v as Extended JSON.
func MarshalJSON(v value.Value, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := jsonWriter{buf: &buf, canonical: opts.Canonical}
	if err := w.value(v); err != nil {
		return nil, err
	}
	if opts.Indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := j.Indent(&out, buf.Bytes(), "", opts.Indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// WriteJSON writes v followed by a newline.
func WriteJSON(w io.Writer, v value.Value, opts Options) error {
	b, err := MarshalJSON(v, opts)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

type jsonWriter struct {
	buf       *bytes.Buffer
	canonical bool
}

func (w jsonWriter) value(v value.Value) error {
	switch t := v.(type) {
	case nil, value.Null:
		w.buf.WriteString("null")
	case value.Undefined:
		w.buf.WriteString(`{"$undefined":true}`)
	case value.String:
		return w.str(string(t))
	case value.Boolean:
		w.buf.WriteString(strconv.FormatBool(bool(t)))
	case value.Int32:
		if w.canonical {
			return w.wrapped(keyNumberInt, strconv.FormatInt(int64(t), 10))
		}
		w.buf.WriteString(strconv.FormatInt(int64(t), 10))
	case value.Int64:
		if w.canonical {
			return w.wrapped(keyNumberLong, strconv.FormatInt(int64(t), 10))
		}
		w.buf.WriteString(strconv.FormatInt(int64(t), 10))
	case value.Double:
		return w.double(float64(t))
	case value.Decimal128:
		return w.wrapped(keyNumberDecimal, t.String())
	case value.ObjectID:
		return w.wrapped(keyOID, t.Hex())
	case value.Array:
		w.buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.value(e); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')
	case *value.Document:
		w.buf.WriteByte('{')
		for i, e := range t.Elements() {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			if err := w.str(e.Key); err != nil {
				return err
			}
			w.buf.WriteByte(':')
			if err := w.value(e.Value); err != nil {
				return err
			}
		}
		w.buf.WriteByte('}')
	default:
		return fmt.Errorf("source: cannot write %T", v)
	}
	return nil
}

func (w jsonWriter) double(f float64) error {
	switch {
	case math.IsInf(f, 1):
		return w.wrapped(keyNumberDouble, "Infinity")
	case math.IsInf(f, -1):
		return w.wrapped(keyNumberDouble, "-Infinity")
	case math.IsNaN(f):
		return w.wrapped(keyNumberDouble, "NaN")
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if isIntegerLiteral(s) {
		// keep the literal a double when read back
		s += ".0"
	}
	if w.canonical {
		return w.wrapped(keyNumberDouble, s)
	}
	w.buf.WriteString(s)
	return nil
}

func (w jsonWriter) str(s string) error {
	b, err := j.Marshal(s)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

func (w jsonWriter) wrapped(key, payload string) error {
	w.buf.WriteByte('{')
	if err := w.str(key); err != nil {
		return err
	}
	w.buf.WriteByte(':')
	if err := w.str(payload); err != nil {
		return err
	}
	w.buf.WriteByte('}')
	return nil
}
