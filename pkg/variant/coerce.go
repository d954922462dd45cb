package variant

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/shopspring/decimal"
)

// appendField writes field into builder, which must have been created for
// typ (via typ.ArrowType()), coercing scalars as needed. field's shape must
// already be known to match typ's dimensions; that check happens once, in
// Subcolumn.Insert, before any builder is touched.
func appendField(builder array.Builder, typ LeastCommonType, field Field) error {
	if field.IsNull() {
		builder.AppendNull()
		return nil
	}

	if typ.Dimensions == 0 {
		if field.Kind() != FieldScalarKind {
			return invalidArgf("appendField", "expected a scalar value for type %s, got %s", typ, field.Kind())
		}
		return appendScalar(builder, typ.Base, field.Scalar())
	}

	lb, ok := builder.(*array.ListBuilder)
	if !ok {
		return invalidArgf("appendField", "expected a list builder for type %s, got %T", typ, builder)
	}
	if field.Kind() != FieldArrayKind {
		return invalidArgf("appendField", "expected an array value for type %s, got %s", typ, field.Kind())
	}

	lb.Append(true)
	childType := LeastCommonType{Dimensions: typ.Dimensions - 1, Base: typ.Base}
	for _, item := range field.Items() {
		if err := appendField(lb.ValueBuilder(), childType, item); err != nil {
			return err
		}
	}
	return nil
}

// appendScalar coerces v into base's physical representation and appends it
// to builder.
func appendScalar(builder array.Builder, base ScalarKind, v ScalarValue) error {
	switch base {
	case ScalarBool:
		b, ok := builder.(*array.BooleanBuilder)
		if !ok || v.Kind() != ScalarBool {
			return invalidArgf("appendScalar", "cannot coerce %s into Bool", v.Kind())
		}
		b.Append(v.Bool())

	case ScalarInt64:
		b, ok := builder.(*array.Int64Builder)
		if !ok {
			return invalidArgf("appendScalar", "unexpected builder %T for Int64", builder)
		}
		switch v.Kind() {
		case ScalarInt64:
			b.Append(v.Int64())
		case ScalarBool:
			if v.Bool() {
				b.Append(1)
			} else {
				b.Append(0)
			}
		default:
			return invalidArgf("appendScalar", "cannot coerce %s into Int64", v.Kind())
		}

	case ScalarFloat64:
		b, ok := builder.(*array.Float64Builder)
		if !ok {
			return invalidArgf("appendScalar", "unexpected builder %T for Float64", builder)
		}
		f, ok := v.AsFloat64()
		if !ok {
			return invalidArgf("appendScalar", "cannot coerce %s into Float64", v.Kind())
		}
		b.Append(f)

	case ScalarDecimal:
		// Decimal parts are stored as their canonical string form; see
		// DESIGN.md for why this is preferred over arrow/decimal128 here.
		b, ok := builder.(*array.StringBuilder)
		if !ok {
			return invalidArgf("appendScalar", "unexpected builder %T for Decimal", builder)
		}
		d, ok := v.AsDecimal()
		if !ok {
			return invalidArgf("appendScalar", "cannot coerce %s into Decimal", v.Kind())
		}
		b.Append(d.String())

	case ScalarTimestamp:
		b, ok := builder.(*array.TimestampBuilder)
		if !ok || v.Kind() != ScalarTimestamp {
			return invalidArgf("appendScalar", "cannot coerce %s into Timestamp", v.Kind())
		}
		b.Append(arrow.Timestamp(v.Timestamp().UnixMicro()))

	case ScalarString:
		b, ok := builder.(*array.StringBuilder)
		if !ok {
			return invalidArgf("appendScalar", "unexpected builder %T for String", builder)
		}
		b.Append(v.AsString())

	default:
		return invalidArgf("appendScalar", "unsupported target scalar kind %s", base)
	}

	return nil
}

// readField reconstructs the Field stored at row i of arr, an array of
// type typ.ArrowType().
func readField(arr arrow.Array, typ LeastCommonType, i int) Field {
	if arr.IsNull(i) {
		return NullField()
	}

	if typ.Dimensions > 0 {
		la, ok := arr.(*array.List)
		if !ok {
			panic("variant: readField: expected a list array")
		}
		start, end := la.ValueOffsets(i)
		values := la.ListValues()
		childType := LeastCommonType{Dimensions: typ.Dimensions - 1, Base: typ.Base}
		items := make([]Field, 0, end-start)
		for j := start; j < end; j++ {
			items = append(items, readField(values, childType, int(j)))
		}
		return ArrayField(items)
	}

	switch typ.Base {
	case ScalarBool:
		return ScalarField(BoolValue(arr.(*array.Boolean).Value(i)))
	case ScalarInt64:
		return ScalarField(Int64Value(arr.(*array.Int64).Value(i)))
	case ScalarFloat64:
		return ScalarField(Float64Value(arr.(*array.Float64).Value(i)))
	case ScalarString:
		return ScalarField(StringValue(arr.(*array.String).Value(i)))
	case ScalarDecimal:
		s := arr.(*array.String).Value(i)
		d, err := decimal.NewFromString(s)
		if err != nil {
			panic("variant: readField: stored decimal is not parseable: " + err.Error())
		}
		return ScalarField(DecimalValue(d))
	case ScalarTimestamp:
		ts := arr.(*array.Timestamp).Value(i)
		return ScalarField(TimestampValue(time.UnixMicro(int64(ts)).UTC()))
	default:
		panic("variant: readField: unsupported scalar kind " + typ.Base.String())
	}
}
