package store

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Document is a schemaless record as returned by the document store.
// Every document returned by GetDocuments carries its id under "id".
type Document map[string]any

// ID returns the document id
func (d Document) ID() string {
	return d.String("id")
}

// String returns the value under key if it is a string, otherwise ""
func (d Document) String(key string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the value under key as an int. Non-numeric values yield 0.
func (d Document) Int(key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// Decimal returns the value under key as a decimal amount
func (d Document) Decimal(key string) decimal.Decimal {
	switch v := d[key].(type) {
	case decimal.Decimal:
		return v
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case json.Number:
		if dec, err := decimal.NewFromString(v.String()); err == nil {
			return dec
		}
	case string:
		if dec, err := decimal.NewFromString(v); err == nil {
			return dec
		}
	}
	return decimal.Zero
}

// Time returns the value under key as a time. Numbers are read as Unix
// milliseconds. The second return value is false when the field is absent
// or not a recognised timestamp.
func (d Document) Time(key string) (time.Time, bool) {
	switch v := d[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		return t, err == nil
	case int64:
		return time.UnixMilli(v), true
	case int:
		return time.UnixMilli(int64(v)), true
	case int32:
		return time.UnixMilli(int64(v)), true
	case float64:
		return time.UnixMilli(int64(v)), true
	case float32:
		return time.UnixMilli(int64(v)), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return time.Time{}, false
			}
			n = int64(f)
		}
		return time.UnixMilli(n), true
	}
	return time.Time{}, false
}

// Documents returns the list under key, converting nested maps to
// Documents. Entries that are not maps become empty documents so the
// length of the list is preserved.
func (d Document) Documents(key string) []Document {
	raw, ok := d[key].([]any)
	if !ok {
		if docs, ok := d[key].([]Document); ok {
			return docs
		}
		if maps, ok := d[key].([]map[string]any); ok {
			out := make([]Document, len(maps))
			for i, m := range maps {
				out[i] = Document(m)
			}
			return out
		}
		return nil
	}

	out := make([]Document, len(raw))
	for i, item := range raw {
		switch m := item.(type) {
		case Document:
			out[i] = m
		case map[string]any:
			out[i] = Document(m)
		default:
			out[i] = Document{}
		}
	}
	return out
}

// Strings returns the list of strings under key, skipping other values
func (d Document) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clone returns a shallow copy of the document
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
