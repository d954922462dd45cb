package variant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func doc(entries ...ObjectEntry) Field { return ObjectField(entries) }

func entry(seg string, v Field) ObjectEntry { return ObjectEntry{Segment: seg, Value: v} }

func scalar(v ScalarValue) Field { return ScalarField(v) }

func TestObjectColumnScenario1_SameTypeAppends(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(2))))))

	require.Equal(t, 2, c.Size())
	keys := c.Keys()
	require.Len(t, keys, 1)
	require.Equal(t, Path{"a"}, keys[0])

	c.Finalize()
	sub := c.GetSubcolumn(Path{"a"})
	require.True(t, sub.IsFinalized())
	require.Equal(t, int64(1), sub.GetField(0).Scalar().Int64())
	require.Equal(t, int64(2), sub.GetField(1).Scalar().Int64())
}

func TestObjectColumnScenario2_TypePromotion(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(StringValue("x"))))))

	c.Finalize()
	sub := c.GetSubcolumn(Path{"a"})
	require.Equal(t, ScalarString, sub.LeastCommonType().Base)
	require.Equal(t, "1", sub.GetField(0).Scalar().AsString())
	require.Equal(t, "x", sub.GetField(1).Scalar().String())
}

func TestObjectColumnScenario3_DisjointKeysGetDefaults(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	require.NoError(t, c.TryInsert(doc(entry("b", scalar(Int64Value(2))))))

	require.Equal(t, 2, c.Size())
	a := c.GetSubcolumn(Path{"a"})
	b := c.GetSubcolumn(Path{"b"})
	require.True(t, a.GetField(1).IsNull())
	require.True(t, b.GetField(0).IsNull())
	require.Equal(t, int64(2), b.GetField(1).Scalar().Int64())
}

func TestObjectColumnScenario4_DimensionMismatchRollsBack(t *testing.T) {
	c := NewObjectColumn()
	arr := ArrayField([]Field{scalar(Int64Value(1)), scalar(Int64Value(2))})
	require.NoError(t, c.TryInsert(doc(entry("a", arr))))

	err := c.TryInsert(doc(entry("a", scalar(Int64Value(3)))))
	require.Error(t, err)

	require.Equal(t, 1, c.Size())
	sub := c.GetSubcolumn(Path{"a"})
	require.Equal(t, 1, sub.Size())
	require.Equal(t, 1, sub.LeastCommonType().Dimensions)
}

func TestObjectColumnScenario5_NestedPaths(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(
		entry("a", doc(entry("b", scalar(Int64Value(1))), entry("c", scalar(Int64Value(2))))),
	)))
	require.NoError(t, c.TryInsert(doc(
		entry("a", doc(entry("b", scalar(Int64Value(3))))),
	)))

	keys := c.Keys()
	require.Len(t, keys, 2)
	c.Finalize()
	ab := c.GetSubcolumn(Path{"a", "b"})
	ac := c.GetSubcolumn(Path{"a", "c"})
	require.Equal(t, int64(1), ab.GetField(0).Scalar().Int64())
	require.Equal(t, int64(3), ab.GetField(1).Scalar().Int64())
	require.Equal(t, int64(2), ac.GetField(0).Scalar().Int64())
	require.True(t, ac.GetField(1).IsNull())
}

func TestObjectColumnScenario6_RaggedNestingRejected(t *testing.T) {
	c := NewObjectColumn()
	ragged := ArrayField([]Field{
		scalar(Int64Value(1)),
		ArrayField([]Field{scalar(Int64Value(2))}),
	})
	err := c.TryInsert(doc(entry("a", ragged)))
	require.Error(t, err)
	require.Equal(t, 0, c.Size())
	require.False(t, c.HasSubcolumn(Path{"a"}))
}

func TestObjectColumnKeyStabilityAcrossNewPaths(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	before := c.Keys()
	require.NoError(t, c.TryInsert(doc(entry("b", scalar(Int64Value(2))))))
	after := c.Keys()

	require.Len(t, after, len(before)+1)
	for _, p := range before {
		found := false
		for _, q := range after {
			if p.Equal(q) {
				found = true
			}
		}
		require.True(t, found, "existing key %v disappeared after inserting a new path", p)
	}
}

func TestObjectColumnInsertPopRoundTrip(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	sizeBefore := c.Size()

	require.NoError(t, c.TryInsert(doc(entry("new_path", scalar(Int64Value(9))))))
	c.PopBack(1)

	require.Equal(t, sizeBefore, c.Size())
}

func TestObjectColumnFinalizeIdempotent(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	c.Finalize()
	c.Finalize()
	require.True(t, c.IsFinalized())
}

func TestObjectColumnCheckConsistency(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	require.NoError(t, c.TryInsert(doc(entry("b", scalar(Int64Value(2))))))
	require.NoError(t, c.CheckConsistency())
}

func TestObjectColumnInsertDefaultUsesDummyPath(t *testing.T) {
	c := NewObjectColumn()
	c.InsertDefault()
	require.Equal(t, 1, c.Size())
	require.Len(t, c.Keys(), 1)
	require.Equal(t, Path{DummyPathSegment}, c.Keys()[0])
}

func TestObjectColumnTryInsertArray(t *testing.T) {
	c := NewObjectColumn()
	rows := ArrayField([]Field{
		doc(entry("a", scalar(Int64Value(1)))),
		doc(entry("a", scalar(Int64Value(2)))),
	})
	n, err := c.TryInsertArray(rows)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, c.Size())
}

func TestObjectColumnUnsupportedOperationsPanic(t *testing.T) {
	c := NewObjectColumn()
	require.Panics(t, func() { c.Filter(nil) })
	require.Panics(t, func() { c.Permute(nil, 0) })
	require.Panics(t, func() { c.CompareAt(0, 0, c, 0) })
	require.Panics(t, func() { c.Scatter(1, nil) })
	require.Panics(t, func() { c.GetDataAt(0) })
}

func TestObjectColumnAddSubcolumnAttachesExisting(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))

	sub := NewSubcolumn(true)
	require.NoError(t, sub.Insert(scalar(Int64Value(9))))
	require.NoError(t, c.AddSubcolumn(Path{"b"}, sub))

	require.Same(t, sub, c.GetSubcolumn(Path{"b"}))
	require.Equal(t, int64(9), c.GetSubcolumn(Path{"b"}).GetField(0).Scalar().Int64())
}

func TestObjectColumnAddSubcolumnRejectsSizeMismatch(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))

	sub := NewSubcolumn(true)
	err := c.AddSubcolumn(Path{"b"}, sub)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidArgument, verr.Kind)
}

func TestObjectColumnAddSubcolumnRejectsDuplicatePath(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.AddSubcolumn(Path{"a"}, NewSubcolumn(true)))
	err := c.AddSubcolumn(Path{"a"}, NewSubcolumn(true))
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidArgument, verr.Kind)
}

func TestObjectColumnAddEmptySubcolumn(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(2))))))

	sub, err := c.AddEmptySubcolumn(Path{"b"}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, sub.Size())
	require.True(t, sub.GetField(0).IsNull())
	require.True(t, sub.GetField(1).IsNull())

	_, err = c.AddEmptySubcolumn(Path{"c"}, 1)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidArgument, verr.Kind)
}

func TestObjectColumnAddNestedSubcolumnBuildsTypedDefaults(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))

	info := FieldInfo{ScalarType: ScalarInt64, NumDimensions: 0}
	sub, err := c.AddNestedSubcolumn(Path{"items", "id"}, info, 1)
	require.NoError(t, err)
	require.Equal(t, 1, sub.Size())
	require.True(t, sub.GetField(0).IsNull())
	require.Equal(t, ScalarInt64, sub.LeastCommonType().Base)
	require.Same(t, sub, c.GetSubcolumn(Path{"items", "id"}))
}

func TestObjectColumnAddNestedSubcolumnRejectsDuplicatePath(t *testing.T) {
	c := NewObjectColumn()
	info := FieldInfo{ScalarType: ScalarInt64}
	_, err := c.AddNestedSubcolumn(Path{"a"}, info, 0)
	require.NoError(t, err)

	_, err = c.AddNestedSubcolumn(Path{"a"}, info, 0)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidArgument, verr.Kind)
}

func TestObjectColumnToRecordBatch(t *testing.T) {
	c := NewObjectColumn()
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(1))))))
	require.NoError(t, c.TryInsert(doc(entry("a", scalar(Int64Value(2))))))

	rb := c.ToRecordBatch()
	require.Equal(t, int64(2), rb.NumRows())
	require.Equal(t, int64(1), rb.NumCols())
}
