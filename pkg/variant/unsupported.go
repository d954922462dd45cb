package variant

// This file groups the operations spec.md §4.4/§7 requires an ObjectColumn
// to reject outright: the generic column interface's cross-column and
// serialization surface (filter, permute, scatter, compare, hash, and
// friends). An object column is row-rectangular but not type-uniform, so
// none of these can be given a meaning without first converting to a
// tuple column (see ToRecordBatch in tuple.go) — that conversion is the
// documented escape hatch, not any of these.
//
// Each method panics with an Unsupported *Error via the unsupported
// helper, the idiomatic Go analogue of the source's LOG(FATAL): a caller
// reaching one of these has a bug, not a recoverable error condition.

// Replicate is unsupported; see the file comment.
func (c *ObjectColumn) Replicate(offsets []uint64) { unsupported("ObjectColumn.Replicate") }

// GetDataAt is unsupported; see the file comment.
func (c *ObjectColumn) GetDataAt(row int) []byte { unsupported("ObjectColumn.GetDataAt"); return nil }

// Filter is unsupported; see the file comment.
func (c *ObjectColumn) Filter(mask []uint8) *ObjectColumn { unsupported("ObjectColumn.Filter"); return nil }

// FilterWithResultSize is unsupported; see the file comment.
func (c *ObjectColumn) FilterWithResultSize(mask []uint8, resultSize int) *ObjectColumn {
	unsupported("ObjectColumn.FilterWithResultSize")
	return nil
}

// Permute is unsupported; see the file comment.
func (c *ObjectColumn) Permute(perm []uint64, limit int) *ObjectColumn {
	unsupported("ObjectColumn.Permute")
	return nil
}

// CompareAt is unsupported; see the file comment.
func (c *ObjectColumn) CompareAt(n int, m int, rhs *ObjectColumn, nanDirection int) int {
	unsupported("ObjectColumn.CompareAt")
	return 0
}

// GetPermutation is unsupported; see the file comment.
func (c *ObjectColumn) GetPermutation(ascending bool, limit int) []uint64 {
	unsupported("ObjectColumn.GetPermutation")
	return nil
}

// Scatter is unsupported; see the file comment.
func (c *ObjectColumn) Scatter(numColumns int, selector []uint32) []*ObjectColumn {
	unsupported("ObjectColumn.Scatter")
	return nil
}

// ReplaceColumnData is unsupported; see the file comment.
func (c *ObjectColumn) ReplaceColumnData(rhs *ObjectColumn, row, selfRow int) {
	unsupported("ObjectColumn.ReplaceColumnData")
}

// ReplaceColumnDataDefault is unsupported; see the file comment.
func (c *ObjectColumn) ReplaceColumnDataDefault(selfRow int) {
	unsupported("ObjectColumn.ReplaceColumnDataDefault")
}

// GetExtremes is unsupported; see the file comment.
func (c *ObjectColumn) GetExtremes() (min, max Field) {
	unsupported("ObjectColumn.GetExtremes")
	return NullField(), NullField()
}

// GetIndicesOfNonDefaultRows is unsupported; see the file comment.
func (c *ObjectColumn) GetIndicesOfNonDefaultRows() []uint64 {
	unsupported("ObjectColumn.GetIndicesOfNonDefaultRows")
	return nil
}

// AppendDataBySelector is unsupported; see the file comment.
func (c *ObjectColumn) AppendDataBySelector(src *ObjectColumn, selector []uint64) {
	unsupported("ObjectColumn.AppendDataBySelector")
}

// SerializeValueIntoArena is unsupported; see the file comment.
func (c *ObjectColumn) SerializeValueIntoArena(row int, arena []byte) []byte {
	unsupported("ObjectColumn.SerializeValueIntoArena")
	return nil
}

// DeserializeAndInsertFromArena is unsupported; see the file comment.
func (c *ObjectColumn) DeserializeAndInsertFromArena(data []byte) int {
	unsupported("ObjectColumn.DeserializeAndInsertFromArena")
	return 0
}

// UpdateHashWithValue is unsupported; see the file comment.
func (c *ObjectColumn) UpdateHashWithValue(row int, hash []byte) {
	unsupported("ObjectColumn.UpdateHashWithValue")
}

// InsertData is unsupported; see the file comment. Unlike TryInsert, the
// generic column interface's InsertData has no error return, so a
// caller's only path to feeding an object column is TryInsert.
func (c *ObjectColumn) InsertData(data []byte, length int) { unsupported("ObjectColumn.InsertData") }

// InsertIndicesFrom is unsupported in its non-try form; see the file
// comment. Use TryInsertIndicesFrom.
func (c *ObjectColumn) InsertIndicesFrom(src *ObjectColumn, indices []uint64) {
	unsupported("ObjectColumn.InsertIndicesFrom")
}
