package variant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartAppendAndGetField(t *testing.T) {
	p := newPart(nil, LeastCommonType{Dimensions: 0, Base: ScalarInt64})
	require.NoError(t, p.Append(ScalarField(Int64Value(1))))
	require.NoError(t, p.Append(ScalarField(Int64Value(2))))
	require.Equal(t, 2, p.Size())
	require.Equal(t, int64(1), p.GetField(0).Scalar().Int64())
	require.Equal(t, int64(2), p.GetField(1).Scalar().Int64())
}

func TestPartAppendDefaultsThenValue(t *testing.T) {
	p := newPart(nil, LeastCommonType{Dimensions: 0, Base: ScalarString})
	p.AppendDefaults(2)
	require.NoError(t, p.Append(ScalarField(StringValue("x"))))
	require.Equal(t, 3, p.Size())
	require.True(t, p.GetField(0).IsNull())
	require.True(t, p.GetField(1).IsNull())
	require.Equal(t, "x", p.GetField(2).Scalar().String())
}

func TestPartPopBack(t *testing.T) {
	p := newPart(nil, LeastCommonType{Dimensions: 0, Base: ScalarInt64})
	require.NoError(t, p.Append(ScalarField(Int64Value(1))))
	require.NoError(t, p.Append(ScalarField(Int64Value(2))))
	require.NoError(t, p.Append(ScalarField(Int64Value(3))))
	p.PopBack(1)
	require.Equal(t, 2, p.Size())
	require.Equal(t, int64(2), p.GetField(1).Scalar().Int64())

	// The builder should be usable again after PopBack.
	require.NoError(t, p.Append(ScalarField(Int64Value(9))))
	require.Equal(t, 3, p.Size())
	require.Equal(t, int64(9), p.GetField(2).Scalar().Int64())
}

func TestPartArrayMemoization(t *testing.T) {
	p := newPart(nil, LeastCommonType{Dimensions: 0, Base: ScalarInt64})
	require.NoError(t, p.Append(ScalarField(Int64Value(1))))
	first := p.Array()
	second := p.Array()
	require.Same(t, first, second)
}

func TestPartNestedArray(t *testing.T) {
	p := newPart(nil, LeastCommonType{Dimensions: 1, Base: ScalarInt64})
	require.NoError(t, p.Append(ArrayField([]Field{ScalarField(Int64Value(1)), ScalarField(Int64Value(2))})))
	require.NoError(t, p.Append(ArrayField(nil)))

	got := p.GetField(0)
	require.Equal(t, FieldArrayKind, got.Kind())
	require.Len(t, got.Items(), 2)
	require.Equal(t, int64(1), got.Items()[0].Scalar().Int64())

	empty := p.GetField(1)
	require.Equal(t, FieldArrayKind, empty.Kind())
	require.Len(t, empty.Items(), 0)
}
