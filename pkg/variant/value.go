package variant

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/shopspring/decimal"
)

// Helper types used to smuggle pointers through ScalarValue.any without
// causing a second allocation, following the technique documented on
// pkg/dataobj/internal/dataset.Value (itself modeled on log/slog.Value):
// wrapping a pointer in an `any` does not itself allocate, only boxing a
// non-pointer value does.
type stringptr *byte

// ScalarValue is a single scalar leaf value: a small tagged union that
// avoids allocating for the common numeric and string cases, mirroring
// pkg/dataobj/internal/dataset.Value.
type ScalarValue struct {
	_ [0]func() // disallow == comparison; use ScalarValue.Equal

	num uint64
	any any
}

// BoolValue returns a ScalarValue for a bool.
func BoolValue(v bool) ScalarValue {
	n := uint64(0)
	if v {
		n = 1
	}
	return ScalarValue{num: n, any: ScalarBool}
}

// Int64Value returns a ScalarValue for an int64.
func Int64Value(v int64) ScalarValue {
	return ScalarValue{num: uint64(v), any: ScalarInt64}
}

// Float64Value returns a ScalarValue for a float64.
func Float64Value(v float64) ScalarValue {
	return ScalarValue{num: math.Float64bits(v), any: ScalarFloat64}
}

// StringValue returns a ScalarValue for a string.
func StringValue(v string) ScalarValue {
	return ScalarValue{num: uint64(len(v)), any: (stringptr)(unsafe.StringData(v))}
}

// DecimalValue returns a ScalarValue for a decimal.Decimal.
func DecimalValue(v decimal.Decimal) ScalarValue {
	return ScalarValue{any: &v}
}

// TimestampValue returns a ScalarValue for a time.Time, truncated to
// microsecond precision to match arrowStorageType(ScalarTimestamp).
func TimestampValue(v time.Time) ScalarValue {
	t := v.UTC().Truncate(time.Microsecond)
	return ScalarValue{any: &t}
}

// IsNil reports whether v holds no scalar (the zero ScalarValue).
func (v ScalarValue) IsNil() bool { return v.any == nil }

// Kind returns the ScalarKind of v, or ScalarNothing if v is nil.
func (v ScalarValue) Kind() ScalarKind {
	switch t := v.any.(type) {
	case nil:
		return ScalarNothing
	case ScalarKind:
		return t
	case stringptr:
		return ScalarString
	case *decimal.Decimal:
		return ScalarDecimal
	case *time.Time:
		return ScalarTimestamp
	default:
		panic(fmt.Sprintf("variant: ScalarValue has unexpected representation %T", t))
	}
}

// Bool returns v's value as a bool. It panics if v is not a ScalarBool.
func (v ScalarValue) Bool() bool {
	v.mustBe(ScalarBool)
	return v.num != 0
}

// Int64 returns v's value as an int64. It panics if v is not a ScalarInt64.
func (v ScalarValue) Int64() int64 {
	v.mustBe(ScalarInt64)
	return int64(v.num)
}

// Float64 returns v's value as a float64. It panics if v is not a
// ScalarFloat64.
func (v ScalarValue) Float64() float64 {
	v.mustBe(ScalarFloat64)
	return math.Float64frombits(v.num)
}

// String returns v's value as a string. It panics if v is not a
// ScalarString.
func (v ScalarValue) String() string {
	v.mustBe(ScalarString)
	sp := v.any.(stringptr)
	return unsafe.String(sp, v.num)
}

// Decimal returns v's value as a decimal.Decimal. It panics if v is not a
// ScalarDecimal.
func (v ScalarValue) Decimal() decimal.Decimal {
	v.mustBe(ScalarDecimal)
	return *v.any.(*decimal.Decimal)
}

// Timestamp returns v's value as a time.Time. It panics if v is not a
// ScalarTimestamp.
func (v ScalarValue) Timestamp() time.Time {
	v.mustBe(ScalarTimestamp)
	return *v.any.(*time.Time)
}

func (v ScalarValue) mustBe(k ScalarKind) {
	if actual := v.Kind(); actual != k {
		panic(fmt.Sprintf("variant: ScalarValue kind is %s, not %s", actual, k))
	}
}

// AsFloat64 widens v to a float64 for numeric coercion, and reports whether
// v was numeric (Bool, Int64, Float64, or Decimal).
func (v ScalarValue) AsFloat64() (float64, bool) {
	switch v.Kind() {
	case ScalarBool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	case ScalarInt64:
		return float64(v.Int64()), true
	case ScalarFloat64:
		return v.Float64(), true
	case ScalarDecimal:
		f, _ := v.Decimal().Float64()
		return f, true
	default:
		return 0, false
	}
}

// AsString renders v in its canonical textual form, used when coercing a
// value into a String part.
func (v ScalarValue) AsString() string {
	switch v.Kind() {
	case ScalarBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case ScalarInt64:
		return fmt.Sprintf("%d", v.Int64())
	case ScalarFloat64:
		return fmt.Sprintf("%g", v.Float64())
	case ScalarString:
		return v.String()
	case ScalarDecimal:
		return v.Decimal().String()
	case ScalarTimestamp:
		return v.Timestamp().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// AsDecimal coerces v into a decimal.Decimal, used when promoting a numeric
// value into a Decimal part.
func (v ScalarValue) AsDecimal() (decimal.Decimal, bool) {
	switch v.Kind() {
	case ScalarDecimal:
		return v.Decimal(), true
	case ScalarInt64:
		return decimal.NewFromInt(v.Int64()), true
	case ScalarBool:
		if v.Bool() {
			return decimal.NewFromInt(1), true
		}
		return decimal.NewFromInt(0), true
	case ScalarFloat64:
		return decimal.NewFromFloat(v.Float64()), true
	default:
		return decimal.Decimal{}, false
	}
}
