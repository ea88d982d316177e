package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

type amountKind int

const (
	amountMissing amountKind = iota
	amountNumber
	amountText
	amountOther
)

// Amount is the raw amount field of a stored document. Stores hold it either
// as a number or as a numeric string; anything else decodes to an amount that
// fails Cents.
type Amount struct {
	kind amountKind
	num  decimal.Decimal
	text string
}

// NumberAmount wraps a numeric amount.
func NumberAmount(d decimal.Decimal) Amount {
	return Amount{kind: amountNumber, num: d}
}

// TextAmount wraps an amount stored as a string.
func TextAmount(s string) Amount {
	return Amount{kind: amountText, text: s}
}

// CentsAmount builds the canonical numeric amount for a value in cents.
func CentsAmount(cents int64) Amount {
	return NumberAmount(decimal.New(cents, -2))
}

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Cents normalises the amount to non-negative cents, rounding half away from zero.
func (a Amount) Cents() (int64, error) {
	var d decimal.Decimal

	switch a.kind {
	case amountNumber:
		d = a.num
	case amountText:
		parsed, err := decimal.NewFromString(strings.TrimSpace(a.text))
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q is not numeric", ErrMalformed, a.text)
		}

		d = parsed
	case amountMissing:
		return 0, fmt.Errorf("%w: amount missing", ErrMalformed)
	default:
		return 0, fmt.Errorf("%w: amount has unsupported type", ErrMalformed)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrMalformed, d)
	}

	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: amount %s out of range", ErrMalformed, d)
	}

	return cents.IntPart(), nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case amountNumber:
		return []byte(a.num.String()), nil
	case amountText:
		return json.Marshal(a.text)
	}

	return []byte("null"), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = Amount{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding amount: %w", err)
		}

		*a = TextAmount(s)
	default:
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			*a = Amount{kind: amountOther}
			return nil
		}

		*a = NumberAmount(d)
	}

	return nil
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch a.kind {
	case amountNumber:
		return bson.TypeDouble, bsoncore.AppendDouble(nil, a.num.InexactFloat64()), nil
	case amountText:
		return bson.TypeString, bsoncore.AppendString(nil, a.text), nil
	}

	return bson.TypeNull, nil, nil
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeDouble:
		f := raw.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			*a = Amount{kind: amountOther}
			return nil
		}

		*a = NumberAmount(decimal.NewFromFloat(f))
	case bson.TypeInt32:
		*a = NumberAmount(decimal.NewFromInt32(raw.Int32()))
	case bson.TypeInt64:
		*a = NumberAmount(decimal.NewFromInt(raw.Int64()))
	case bson.TypeDecimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			*a = Amount{kind: amountOther}
			return nil
		}

		*a = NumberAmount(d)
	case bson.TypeString:
		*a = TextAmount(raw.StringValue())
	case bson.TypeNull, bson.TypeUndefined:
		*a = Amount{}
	default:
		*a = Amount{kind: amountOther}
	}

	return nil
}
