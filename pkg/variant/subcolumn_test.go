package variant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubcolumnInsertAndSize(t *testing.T) {
	s := NewSubcolumn(true)
	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	require.NoError(t, s.Insert(ScalarField(Int64Value(2))))
	require.Equal(t, 2, s.Size())
	require.Equal(t, ScalarInt64, s.LeastCommonType().Base)
}

func TestSubcolumnEmptyDefaultsBeforeFirstRealInsert(t *testing.T) {
	s := NewSubcolumn(true)
	s.InsertManyDefaults(3)
	require.Equal(t, 3, s.Size())
	require.True(t, s.IsEmpty())

	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	require.Equal(t, 4, s.Size())
	require.False(t, s.IsEmpty())
	require.True(t, s.GetField(0).IsNull())
	require.Equal(t, int64(1), s.GetField(3).Scalar().Int64())
}

func TestSubcolumnPromotesOnTypeConflict(t *testing.T) {
	// Scenario 2: insert {"a": 1}, then {"a": "x"}.
	s := NewSubcolumn(true)
	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	require.NoError(t, s.Insert(ScalarField(StringValue("x"))))

	require.Equal(t, ScalarString, s.LeastCommonType().Base)
	require.Len(t, s.parts, 2)

	s.Finalize()
	require.True(t, s.IsFinalized())
	require.Equal(t, "1", s.GetField(0).Scalar().AsString())
	require.Equal(t, "x", s.GetField(1).Scalar().String())
}

func TestSubcolumnDimensionMismatchFails(t *testing.T) {
	// Scenario 4: insert {"a": [1,2]}, then {"a": 3}.
	s := NewSubcolumn(true)
	require.NoError(t, s.Insert(ArrayField([]Field{ScalarField(Int64Value(1)), ScalarField(Int64Value(2))})))
	err := s.Insert(ScalarField(Int64Value(3)))
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidArgument, verr.Kind)
	require.Equal(t, 1, s.Size())
}

func TestSubcolumnFinalizeIdempotent(t *testing.T) {
	s := NewSubcolumn(true)
	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	s.Finalize()
	partsAfterFirst := len(s.parts)
	s.Finalize()
	require.Equal(t, partsAfterFirst, len(s.parts))
	require.True(t, s.IsFinalized())
}

func TestSubcolumnPopBackRestoresState(t *testing.T) {
	s := NewSubcolumn(true)
	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	require.NoError(t, s.Insert(ScalarField(Int64Value(2))))
	require.NoError(t, s.Insert(ScalarField(Int64Value(3))))
	s.PopBack(2)
	require.Equal(t, 1, s.Size())
	require.Equal(t, int64(1), s.GetField(0).Scalar().Int64())
}

func TestSubcolumnGetLastField(t *testing.T) {
	s := NewSubcolumn(true)
	require.True(t, s.GetLastField().IsNull())
	require.NoError(t, s.Insert(ScalarField(Int64Value(9))))
	require.Equal(t, int64(9), s.GetLastField().Scalar().Int64())
}

func TestSubcolumnCheckTypes(t *testing.T) {
	s := NewSubcolumn(true)
	require.NoError(t, s.CheckTypes())
	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	require.NoError(t, s.Insert(ScalarField(StringValue("x"))))
	require.NoError(t, s.CheckTypes())
}

func TestSubcolumnStatsCardinality(t *testing.T) {
	s := NewSubcolumn(true)
	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	require.NoError(t, s.Insert(ScalarField(Int64Value(1))))
	require.NoError(t, s.Insert(ScalarField(Int64Value(2))))
	// HLL is approximate; just sanity check it is in a plausible range.
	card := s.Stats().Cardinality()
	require.GreaterOrEqual(t, card, uint64(1))
	require.LessOrEqual(t, card, uint64(3))
}
