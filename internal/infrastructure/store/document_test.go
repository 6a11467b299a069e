package store

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDocument_String(t *testing.T) {
	doc := Document{"name": "Rice", "count": 3}

	assert.Equal(t, "Rice", doc.String("name"))
	assert.Equal(t, "", doc.String("count"))
	assert.Equal(t, "", doc.String("missing"))
}

func TestDocument_Int(t *testing.T) {
	doc := Document{
		"int":    7,
		"int32":  int32(8),
		"int64":  int64(9),
		"float":  10.0,
		"number": json.Number("11"),
		"string": "12",
		"bad":    "x",
	}

	assert.Equal(t, 7, doc.Int("int"))
	assert.Equal(t, 8, doc.Int("int32"))
	assert.Equal(t, 9, doc.Int("int64"))
	assert.Equal(t, 10, doc.Int("float"))
	assert.Equal(t, 11, doc.Int("number"))
	assert.Equal(t, 12, doc.Int("string"))
	assert.Equal(t, 0, doc.Int("bad"))
	assert.Equal(t, 0, doc.Int("missing"))
}

func TestDocument_Decimal(t *testing.T) {
	doc := Document{
		"int":     5000000,
		"float":   12.5,
		"string":  "100000000",
		"decimal": decimal.NewFromInt(42),
	}

	assert.True(t, decimal.NewFromInt(5000000).Equal(doc.Decimal("int")))
	assert.True(t, decimal.RequireFromString("12.5").Equal(doc.Decimal("float")))
	assert.True(t, decimal.NewFromInt(100000000).Equal(doc.Decimal("string")))
	assert.True(t, decimal.NewFromInt(42).Equal(doc.Decimal("decimal")))
	assert.True(t, doc.Decimal("missing").IsZero())
}

func TestDocument_Time(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := Document{
		"native": now,
		"text":   now.Format(time.RFC3339Nano),
		"millis": now.UnixMilli(),
		"bad":    "yesterday",
	}

	got, ok := doc.Time("native")
	assert.True(t, ok)
	assert.True(t, now.Equal(got))

	got, ok = doc.Time("text")
	assert.True(t, ok)
	assert.True(t, now.Equal(got))

	got, ok = doc.Time("millis")
	assert.True(t, ok)
	assert.True(t, now.Equal(got))

	_, ok = doc.Time("bad")
	assert.False(t, ok)
	_, ok = doc.Time("missing")
	assert.False(t, ok)
}

func TestDocument_Documents_PreservesLength(t *testing.T) {
	doc := Document{
		"items": []any{
			map[string]any{"productId": "p1"},
			"garbage",
			Document{"productId": "p2"},
		},
	}

	items := doc.Documents("items")

	assert.Len(t, items, 3)
	assert.Equal(t, "p1", items[0].String("productId"))
	assert.Empty(t, items[1])
	assert.Equal(t, "p2", items[2].String("productId"))
	assert.Nil(t, doc.Documents("missing"))
}

func TestDocument_Strings(t *testing.T) {
	doc := Document{
		"plain": []string{"a", "b"},
		"mixed": []any{"c", 1, "d"},
	}

	assert.Equal(t, []string{"a", "b"}, doc.Strings("plain"))
	assert.Equal(t, []string{"c", "d"}, doc.Strings("mixed"))
	assert.Nil(t, doc.Strings("missing"))
}

func TestDocument_Clone(t *testing.T) {
	doc := Document{"a": 1}
	clone := doc.Clone()
	clone["a"] = 2

	assert.Equal(t, 1, doc["a"])
}

func TestDocument_Time_JSONMillis(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	raw := []byte(`{"createdAt": ` + strconv.FormatInt(created.UnixMilli(), 10) + `}`)

	var plain Document
	assert.NoError(t, json.Unmarshal(raw, &plain))
	got, ok := plain.Time("createdAt")
	assert.True(t, ok)
	assert.True(t, created.Equal(got))

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var numbered Document
	assert.NoError(t, dec.Decode(&numbered))
	got, ok = numbered.Time("createdAt")
	assert.True(t, ok)
	assert.True(t, created.Equal(got))

	got, ok = Document{"createdAt": int(created.UnixMilli())}.Time("createdAt")
	assert.True(t, ok)
	assert.True(t, created.Equal(got))

	_, ok = Document{"createdAt": json.Number("soon")}.Time("createdAt")
	assert.False(t, ok)
}
