package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// ErrTrailingData is returned by ReadJSON when input continues after the first
// value.
var ErrTrailingData = errors.New("source: trailing data after JSON value")

// Duplicates selects how an object repeating a key is read.
type Duplicates int

const (
	// DupLastWins keeps the last occurrence at the position of the first.
	DupLastWins Duplicates = iota
	// DupWarn is DupLastWins and also reports the key to ReadOptions.Warn.
	DupWarn
	// DupError fails with a duplicate_key issue at the repeated key.
	DupError
)

// ReadOptions tunes the JSON readers. The zero value reads leniently.
type ReadOptions struct {
	OnDuplicateKey Duplicates
	// Warn receives the dotted path of each repeated key under DupWarn.
	Warn func(path string)
}

// jsonReader builds values from go-json decoder tokens.
type jsonReader struct {
	dec *j.Decoder
	opt ReadOptions
}

func newJSONReader(r io.Reader, opt ReadOptions) *jsonReader {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &jsonReader{dec: dec, opt: opt}
}

// ReadJSON reads exactly one JSON value from r.
func ReadJSON(r io.Reader) (value.Value, error) { return ReadJSONWith(r, ReadOptions{}) }

// ReadJSONWith is ReadJSON with explicit options.
func ReadJSONWith(r io.Reader, opt ReadOptions) (value.Value, error) {
	jr := newJSONReader(r, opt)
	tok, err := jr.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := jr.value(tok, "")
	if err != nil {
		return nil, err
	}
	if _, err := jr.dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

// ReadJSONBytes is ReadJSON over a byte slice.
func ReadJSONBytes(b []byte) (value.Value, error) { return ReadJSON(bytes.NewReader(b)) }

// ReadJSONStream reads a sequence of whitespace-separated JSON values (for
// example JSON Lines) and calls fn for each, stopping at the first error.
func ReadJSONStream(r io.Reader, fn func(value.Value) error) error {
	return ReadJSONStreamWith(r, ReadOptions{}, fn)
}

// ReadJSONStreamWith is ReadJSONStream with explicit options.
func ReadJSONStreamWith(r io.Reader, opt ReadOptions, fn func(value.Value) error) error {
	jr := newJSONReader(r, opt)
	for {
		tok, err := jr.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		v, err := jr.value(tok, "")
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

func (jr *jsonReader) next() (j.Token, error) {
	tok, err := jr.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (jr *jsonReader) value(tok j.Token, path string) (value.Value, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return jr.document(path)
		case '[':
			return jr.array(path)
		}
		return nil, fmt.Errorf("source: unexpected delimiter %q", rune(t))
	case string:
		return value.String(t), nil
	case bool:
		return value.Boolean(t), nil
	case j.Number:
		return numberFromText(string(t))
	case float64:
		return value.Double(t), nil
	case nil:
		return value.Null{}, nil
	}
	return nil, fmt.Errorf("source: unexpected token %T", tok)
}

// within prefixes plain errors with seg. Issues already carry a full path.
func within(seg string, err error) error {
	if _, ok := bsonskema.AsIssues(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", seg, err)
}

func (jr *jsonReader) document(path string) (value.Value, error) {
	d := value.NewDocument()
	for {
		tok, err := jr.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == '}' {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("source: expected object key, got %v", tok)
		}
		at := bsonskema.JoinPath(path, key)
		if _, dup := d.Get(key); dup {
			switch jr.opt.OnDuplicateKey {
			case DupError:
				return nil, bsonskema.Issues{bsonskema.ParsePath(at).Issue(bsonskema.CodeDuplicateKey, key, nil)}
			case DupWarn:
				if jr.opt.Warn != nil {
					jr.opt.Warn(at)
				}
			}
		}
		tok, err = jr.next()
		if err != nil {
			return nil, err
		}
		v, err := jr.value(tok, at)
		if err != nil {
			return nil, within(key, err)
		}
		d.Set(key, v)
	}
	if v, ok, err := unwrap(d); ok || err != nil {
		return v, err
	}
	return d, nil
}

func (jr *jsonReader) array(path string) (value.Value, error) {
	out := value.Array{}
	for {
		tok, err := jr.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == ']' {
			return out, nil
		}
		v, err := jr.value(tok, bsonskema.IndexPath(path, len(out)))
		if err != nil {
			return nil, within(fmt.Sprint(len(out)), err)
		}
		out = append(out, v)
	}
}
