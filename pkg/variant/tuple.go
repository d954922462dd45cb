package variant

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// TupleSchema is the downstream "tuple of fixed columns" view spec.md §6.3
// promises an object column can be converted into, and the named-tuple
// contract original_source/.../data_type_struct.h exposes
// (get_position_by_name, get_element_names). Building one is the only way
// out of this package's cross-column Non-goals: once converted, ordinary
// tuple/record-batch tooling (filter, permute, compare...) applies.
type TupleSchema struct {
	paths []Path
	pos   map[string]int
}

// Fields returns the element paths of t, in column order.
func (t *TupleSchema) Fields() []Path { return t.paths }

// PositionByName returns the column index of name (name's dotted form),
// and whether it was found.
func (t *TupleSchema) PositionByName(name string) (int, bool) {
	i, ok := t.pos[name]
	return i, ok
}

// ElementNames returns every element's dotted name, in column order.
func (t *TupleSchema) ElementNames() []string {
	out := make([]string, len(t.paths))
	for i, p := range t.paths {
		out[i] = p.String()
	}
	return out
}

// TupleSchema builds c's downstream tuple schema: finalizing c first (a
// schema is only meaningful over a column with one part per subcolumn),
// then emitting one element per subcolumn path, sorted for a stable
// column order.
func (c *ObjectColumn) TupleSchema() *TupleSchema {
	c.Finalize()
	paths := c.tree.Keys()
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })

	schema := &TupleSchema{paths: paths, pos: make(map[string]int, len(paths))}
	for i, p := range paths {
		schema.pos[p.String()] = i
	}
	return schema
}

// ToArrowSchema finalizes c and returns an arrow.Schema with one field per
// subcolumn path (its dotted name), in the same order TupleSchema uses.
func (c *ObjectColumn) ToArrowSchema() *arrow.Schema {
	schema := c.TupleSchema()
	fields := make([]arrow.Field, len(schema.paths))
	for i, p := range schema.paths {
		sub := c.tree.Find(p)
		fields[i] = arrow.Field{
			Name:     p.String(),
			Type:     sub.LeastCommonType().ArrowType(),
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}

// ToRecordBatch finalizes c and materializes its subcolumns as a single
// arrow.RecordBatch, one column per subcolumn path. This is the converter
// spec.md §1/§6.3 calls out as the only sanctioned way to hand an object
// column's contents to code that needs ordinary columnar operations
// (filter, compare, hash, and the rest of this package's Non-goals).
func (c *ObjectColumn) ToRecordBatch() arrow.Record {
	tuple := c.TupleSchema()
	arrowSchema := c.ToArrowSchema()
	cols := make([]arrow.Array, len(tuple.paths))
	for i, path := range tuple.paths {
		cols[i] = c.tree.Find(path).parts[0].Array()
	}
	return array.NewRecord(arrowSchema, cols, int64(c.numRows))
}
