package variant

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestScalarValueRoundTrip(t *testing.T) {
	require.Equal(t, ScalarBool, BoolValue(true).Kind())
	require.True(t, BoolValue(true).Bool())

	require.Equal(t, ScalarInt64, Int64Value(42).Kind())
	require.Equal(t, int64(42), Int64Value(42).Int64())

	require.Equal(t, ScalarFloat64, Float64Value(3.5).Kind())
	require.Equal(t, 3.5, Float64Value(3.5).Float64())

	require.Equal(t, ScalarString, StringValue("hello").Kind())
	require.Equal(t, "hello", StringValue("hello").String())

	d := decimal.NewFromFloat(1.25)
	require.Equal(t, ScalarDecimal, DecimalValue(d).Kind())
	require.True(t, d.Equal(DecimalValue(d).Decimal()))

	now := time.Date(2026, 8, 3, 12, 0, 0, 123456789, time.UTC)
	tv := TimestampValue(now)
	require.Equal(t, ScalarTimestamp, tv.Kind())
	require.Equal(t, now.Truncate(time.Microsecond), tv.Timestamp())
}

func TestScalarValueMustBePanics(t *testing.T) {
	require.Panics(t, func() { Int64Value(1).Bool() })
	require.Panics(t, func() { _ = BoolValue(true).String() })
}

func TestScalarValueAsFloat64(t *testing.T) {
	f, ok := Int64Value(10).AsFloat64()
	require.True(t, ok)
	require.Equal(t, float64(10), f)

	_, ok = StringValue("x").AsFloat64()
	require.False(t, ok)
}

func TestScalarValueAsString(t *testing.T) {
	require.Equal(t, "true", BoolValue(true).AsString())
	require.Equal(t, "42", Int64Value(42).AsString())
	require.Equal(t, "hello", StringValue("hello").AsString())
}

func TestScalarValueAsDecimal(t *testing.T) {
	d, ok := Int64Value(7).AsDecimal()
	require.True(t, ok)
	require.True(t, decimal.NewFromInt(7).Equal(d))

	_, ok = (ScalarValue{}).AsDecimal()
	require.False(t, ok)
}

func TestScalarValueIsNil(t *testing.T) {
	require.True(t, (ScalarValue{}).IsNil())
	require.False(t, Int64Value(0).IsNil())
}
