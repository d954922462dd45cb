package variant

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"
)

func TestJoinScalarIdentity(t *testing.T) {
	require.Equal(t, ScalarInt64, joinScalar(ScalarNothing, ScalarInt64))
	require.Equal(t, ScalarInt64, joinScalar(ScalarInt64, ScalarNothing))
	require.Equal(t, ScalarInt64, joinScalar(ScalarInt64, ScalarInt64))
}

func TestJoinScalarNumericWidening(t *testing.T) {
	require.Equal(t, ScalarFloat64, joinScalar(ScalarInt64, ScalarFloat64))
	require.Equal(t, ScalarDecimal, joinScalar(ScalarInt64, ScalarDecimal))
}

func TestJoinScalarFallsBackToString(t *testing.T) {
	require.Equal(t, ScalarString, joinScalar(ScalarTimestamp, ScalarInt64))
	require.Equal(t, ScalarString, joinScalar(ScalarString, ScalarBool))
}

func TestLeastCommonSupertypePanicsOnDimensionMismatch(t *testing.T) {
	require.Panics(t, func() {
		LeastCommonSupertype(
			LeastCommonType{Dimensions: 0, Base: ScalarInt64},
			LeastCommonType{Dimensions: 1, Base: ScalarInt64},
		)
	})
}

func TestLeastCommonTypeArrowType(t *testing.T) {
	scalar := LeastCommonType{Dimensions: 0, Base: ScalarInt64}
	require.True(t, scalar.ArrowType().ID() == arrowStorageType(ScalarInt64).ID())

	nested := LeastCommonType{Dimensions: 2, Base: ScalarInt64}
	list, ok := nested.ArrowType().(*arrow.ListType)
	require.True(t, ok, "expected a list type for Dimensions=2")
	innerList, ok := list.Elem().(*arrow.ListType)
	require.True(t, ok, "expected a nested list type")
	require.Equal(t, arrowStorageType(ScalarInt64).ID(), innerList.Elem().ID())
}

func TestLeastCommonTypeIsNothing(t *testing.T) {
	require.True(t, LeastCommonType{}.IsNothing())
	require.False(t, (LeastCommonType{Base: ScalarBool}).IsNothing())
}
