package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Decimal is the exact fixed-point number used for prices and quantities.
// It is stored as a string in both BSON and JSON so amounts survive
// round-trips without floating point drift.
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(value string) (Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", value, err)
	}
	return Decimal{d}, nil
}

// MustDecimal panics on a malformed literal. Only for constants and tests.
func MustDecimal(value string) Decimal {
	d, err := NewDecimal(value)
	if err != nil {
		panic(err)
	}
	return d
}

func DecimalFromInt(value int64) Decimal {
	return Decimal{decimal.NewFromInt(value)}
}

func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{d.Decimal.Add(other.Decimal)}
}

func (d Decimal) Mul(other Decimal) Decimal {
	return Decimal{d.Decimal.Mul(other.Decimal)}
}

// Round2 rounds to 2 decimal places, half up.
func (d Decimal) Round2() Decimal {
	return Decimal{d.Decimal.Round(2)}
}

func (d Decimal) IsWhole() bool {
	return d.Decimal.IsInteger()
}

func (d Decimal) Equal(other Decimal) bool {
	return d.Decimal.Equal(other.Decimal)
}

// MarshalBSONValue always stores the amount as its canonical string form.
func (d Decimal) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Decimal.String())
}

// UnmarshalBSONValue accepts string and numeric BSON types so documents
// written before the string migration still decode.
func (d *Decimal) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		d.Decimal = decimal.Zero
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return err
		}
		d.Decimal = parsed
		return nil
	case bsontype.Double:
		var value float64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		d.Decimal = decimal.NewFromFloat(value)
		return nil
	case bsontype.Int32:
		var value int32
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		d.Decimal = decimal.NewFromInt32(value)
		return nil
	case bsontype.Int64:
		var value int64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		d.Decimal = decimal.NewFromInt(value)
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Decimal", t)
	}
}
