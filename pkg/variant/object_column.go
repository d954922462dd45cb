package variant

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DummyPathSegment is the single-subcolumn placeholder path used when an
// ObjectColumn has received only empty documents (no real subcolumns yet),
// matching be/src/vec/columns/column_object.h's COLUMN_NAME_DUMMY. It keeps
// row-count bookkeeping well defined even before any real key has been
// observed.
const DummyPathSegment = "_dummy"

// ObjectColumn is the row-rectangular container over a set of Subcolumns
// keyed by path, per spec.md §4.3/§4.4. All subcolumns always report the
// same Size(); TryInsert keeps that invariant by default-filling every
// subcolumn a document omits, and by rolling back every subcolumn a
// document partially touched if any leaf fails.
type ObjectColumn struct {
	mem     memory.Allocator
	logger  log.Logger
	metrics *Metrics

	tree    *SubcolumnTree
	numRows int
}

// ObjectColumnOption configures an ObjectColumn constructed with
// NewObjectColumn.
type ObjectColumnOption func(*ObjectColumn)

// WithColumnLogger sets the logger an ObjectColumn (and the Subcolumns it
// creates) uses.
func WithColumnLogger(logger log.Logger) ObjectColumnOption {
	return func(c *ObjectColumn) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithColumnMetrics attaches Metrics to an ObjectColumn.
func WithColumnMetrics(m *Metrics) ObjectColumnOption {
	return func(c *ObjectColumn) { c.metrics = m }
}

// WithColumnAllocator sets the Arrow memory allocator an ObjectColumn's
// subcolumns use.
func WithColumnAllocator(mem memory.Allocator) ObjectColumnOption {
	return func(c *ObjectColumn) {
		if mem != nil {
			c.mem = mem
		}
	}
}

// NewObjectColumn returns an empty ObjectColumn.
func NewObjectColumn(opts ...ObjectColumnOption) *ObjectColumn {
	c := &ObjectColumn{
		mem:    memory.DefaultAllocator,
		logger: log.NewNopLogger(),
		tree:   NewSubcolumnTree(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ObjectColumn) newSubcolumn() *Subcolumn {
	return NewSubcolumn(true, WithAllocator(c.mem), WithLogger(c.logger), WithMetrics(c.metrics))
}

// Size returns the number of rows in c.
func (c *ObjectColumn) Size() int { return c.numRows }

// Empty reports whether c holds zero rows.
func (c *ObjectColumn) Empty() bool { return c.numRows == 0 }

// IsFinalized reports whether Finalize has been called and no mutation has
// happened since: every subcolumn holds exactly one part and no default
// prefix.
func (c *ObjectColumn) IsFinalized() bool {
	for _, p := range c.tree.Keys() {
		if !c.tree.Find(p).IsFinalized() {
			return false
		}
	}
	return true
}

// Keys returns every subcolumn path currently present, in first-insertion
// order.
func (c *ObjectColumn) Keys() []Path { return c.tree.Keys() }

// HasSubcolumn reports whether path has a subcolumn.
func (c *ObjectColumn) HasSubcolumn(path Path) bool { return c.tree.Find(path) != nil }

// GetSubcolumn returns the Subcolumn at path, or nil if none exists.
func (c *ObjectColumn) GetSubcolumn(path Path) *Subcolumn { return c.tree.Find(path) }

// ByteSize aggregates the uncompressed size of every subcolumn in bytes.
func (c *ObjectColumn) ByteSize() int64 {
	var n int64
	for _, p := range c.tree.Keys() {
		n += c.tree.Find(p).ByteSize()
	}
	return n
}

// AllocatedBytes reports the same figure as ByteSize for this in-memory
// implementation.
func (c *ObjectColumn) AllocatedBytes() int64 { return c.ByteSize() }

// AddSubcolumn attaches an already-built Subcolumn at path, per spec.md
// §4.4's add_sub_column(path, column). It fails with InvalidArgument if
// path already has a subcolumn, or if column's size disagrees with c's
// row count.
func (c *ObjectColumn) AddSubcolumn(path Path, column *Subcolumn) error {
	if column.Size() != c.numRows {
		return invalidArgf("ObjectColumn.AddSubcolumn", "subcolumn %q has %d rows, column has %d", path.String(), column.Size(), c.numRows)
	}
	if err := c.tree.Add(path, column); err != nil {
		return err
	}
	c.metrics.setSubcolumns(c.tree.Len())
	return nil
}

// AddEmptySubcolumn registers a new subcolumn at path pre-filled with size
// defaults, per spec.md §4.4's add_sub_column(path, size). size must equal
// c's current row count, since the new subcolumn has nowhere to carry
// per-row data yet.
func (c *ObjectColumn) AddEmptySubcolumn(path Path, size int) (*Subcolumn, error) {
	if size != c.numRows {
		return nil, invalidArgf("ObjectColumn.AddEmptySubcolumn", "size %d for new subcolumn %q does not match column's %d rows", size, path.String(), c.numRows)
	}
	sub := c.newSubcolumn()
	sub.InsertManyDefaults(size)
	if err := c.tree.Add(path, sub); err != nil {
		return nil, err
	}
	c.metrics.setSubcolumns(c.tree.Len())
	return sub, nil
}

// AddNestedSubcolumn registers a new subcolumn at path, typed from info and
// pre-filled with size defaults, per spec.md §4.4's
// add_nested_subcolumn(path, info, size). Unlike AddEmptySubcolumn it does
// not require size to equal c's row count: nested-array ingestion builds
// sibling subcolumns one source array at a time, so a caller backfills the
// gap with InsertManyDefaults (or a following row-by-row insert) once every
// sibling is in place.
func (c *ObjectColumn) AddNestedSubcolumn(path Path, info FieldInfo, size int) (*Subcolumn, error) {
	if size < 0 {
		return nil, invalidArgf("ObjectColumn.AddNestedSubcolumn", "negative size %d for subcolumn %q", size, path.String())
	}
	sub := newDefaultFilledSubcolumn(true, info, size, WithAllocator(c.mem), WithLogger(c.logger), WithMetrics(c.metrics))
	if err := c.tree.Add(path, sub); err != nil {
		return nil, err
	}
	c.metrics.setSubcolumns(c.tree.Len())
	return sub, nil
}

// RemoveSubcolumns deletes every subcolumn at the given paths, if present.
func (c *ObjectColumn) RemoveSubcolumns(paths []Path) {
	for _, p := range paths {
		c.tree.Erase(p)
	}
	c.metrics.setSubcolumns(c.tree.Len())
}

// TryInsert flattens doc (which must be FieldObjectKind) into its leaf
// paths and inserts one row, creating new subcolumns as needed. It is
// atomic: either every existing subcolumn gains exactly one row and every
// newly observed path gains a subcolumn, or c is left exactly as it was
// before the call (see spec.md §4.4's transactional insert contract).
func (c *ObjectColumn) TryInsert(doc Field) (err error) {
	defer func() {
		c.metrics.observeInsert(err == nil)
	}()

	leaves, err := flattenObject(doc)
	if err != nil {
		return err
	}
	if len(leaves) == 0 {
		c.InsertDefault()
		return nil
	}

	type touched struct {
		sub     *Subcolumn
		created bool
	}
	applied := make([]touched, 0, len(leaves))

	rollback := func() {
		c.metrics.observeRollback()
		level.Warn(c.logger).Log("msg", "rolled back partial insert", "err", err)
		for _, t := range applied {
			if t.created {
				continue // erased from the tree below; nothing to pop
			}
			t.sub.PopBack(1)
		}
		for _, t := range applied {
			if t.created {
				// find and erase by identity: cheap linear scan over the
				// small set of paths touched this call.
				for _, p := range c.tree.Keys() {
					if c.tree.Find(p) == t.sub {
						c.tree.Erase(p)
						break
					}
				}
			}
		}
	}

	touchedPaths := make(map[string]bool, len(leaves))
	for _, lf := range leaves {
		touchedPaths[lf.Path.String()] = true

		info, infoErr := GetFieldInfo(lf.Field)
		if infoErr != nil {
			err = infoErr
			rollback()
			return err
		}

		sub := c.tree.Find(lf.Path)
		created := false
		if sub == nil {
			sub = c.newSubcolumn()
			sub.InsertManyDefaults(c.numRows)
			if addErr := c.tree.Add(lf.Path, sub); addErr != nil {
				err = addErr
				rollback()
				return err
			}
			created = true
			level.Debug(c.logger).Log("msg", "discovered new subcolumn path", "path", lf.Path.String())
		}

		if insErr := sub.InsertWithInfo(lf.Field, info); insErr != nil {
			err = insErr
			if created {
				c.tree.Erase(lf.Path)
			}
			rollback()
			return err
		}
		applied = append(applied, touched{sub: sub, created: created})
	}

	for _, p := range c.tree.Keys() {
		if !touchedPaths[p.String()] {
			c.tree.Find(p).InsertDefault()
		}
	}

	c.numRows++
	c.metrics.setRows(c.numRows)
	c.metrics.setSubcolumns(c.tree.Len())
	return nil
}

// TryInsertArray unwraps an array-of-objects Field one level (Doris's
// strip_outer_array) and inserts one row per element, stopping at the
// first failure. It reports how many rows were successfully inserted
// before any error.
func (c *ObjectColumn) TryInsertArray(field Field) (inserted int, err error) {
	if field.Kind() != FieldArrayKind {
		return 0, invalidArgf("ObjectColumn.TryInsertArray", "expected an array-shaped Field, got %s", field.Kind())
	}
	for _, item := range field.Items() {
		if err := c.TryInsert(item); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// InsertDefault appends one all-default row.
func (c *ObjectColumn) InsertDefault() {
	if c.tree.Len() == 0 {
		c.tree.Add(Path{DummyPathSegment}, c.newSubcolumn())
	}
	for _, p := range c.tree.Keys() {
		c.tree.Find(p).InsertDefault()
	}
	c.numRows++
	c.metrics.setRows(c.numRows)
	c.metrics.setSubcolumns(c.tree.Len())
}

// PopBack removes the last n rows from every subcolumn.
func (c *ObjectColumn) PopBack(n int) {
	if n <= 0 {
		return
	}
	if n > c.numRows {
		panic("variant: ObjectColumn.PopBack: n exceeds column size")
	}
	for _, p := range c.tree.Keys() {
		c.tree.Find(p).PopBack(n)
	}
	c.numRows -= n
	c.metrics.setRows(c.numRows)
}

// Finalize collapses every subcolumn to a single dense part. It is
// idempotent.
func (c *ObjectColumn) Finalize() {
	for _, p := range c.tree.Keys() {
		c.tree.Find(p).Finalize()
	}
	c.metrics.observeFinalize()
}

// Get reconstructs row i as a nested Field, with one object level per
// non-final path segment; subcolumns sharing a path prefix are grouped
// under the same object.
func (c *ObjectColumn) Get(row int) Field {
	if row < 0 || row >= c.numRows {
		panic("variant: ObjectColumn.Get: row out of range")
	}
	paths := c.tree.Keys()
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })

	type kv struct {
		path Path
		val  Field
	}
	kvs := make([]kv, 0, len(paths))
	for _, p := range paths {
		if len(p) == 1 && p[0] == DummyPathSegment {
			continue
		}
		kvs = append(kvs, kv{path: p, val: c.tree.Find(p).GetField(row)})
	}
	if len(kvs) == 0 {
		return ObjectField(nil)
	}

	root := map[string]any{} // either another map[string]any, or a Field leaf
	var order []string
	orderSeen := map[string]bool{}
	for _, e := range kvs {
		insertNested(root, &order, orderSeen, e.path, e.val)
	}
	return buildObjectField(root, order)
}

func insertNested(node map[string]any, order *[]string, seen map[string]bool, path Path, val Field) {
	seg := path[0]
	if !seen[seg] {
		seen[seg] = true
		*order = append(*order, seg)
	}
	if len(path) == 1 {
		node[seg] = val
		return
	}
	child, ok := node[seg].(map[string]any)
	if !ok {
		child = map[string]any{}
		node[seg] = child
	}
	insertNested(child, order, seen, path[1:], val)
}

func buildObjectField(node map[string]any, order []string) Field {
	entries := make([]ObjectEntry, 0, len(order))
	for _, seg := range order {
		switch v := node[seg].(type) {
		case Field:
			entries = append(entries, ObjectEntry{Segment: seg, Value: v})
		case map[string]any:
			// Nested maps don't carry an order slice, so emit this
			// child's segments in sorted order, matching the sorted path
			// order Get uses at the top level.
			childOrder := make([]string, 0, len(v))
			for k := range v {
				childOrder = append(childOrder, k)
			}
			sort.Strings(childOrder)
			entries = append(entries, ObjectEntry{Segment: seg, Value: buildObjectField(v, childOrder)})
		}
	}
	return ObjectField(entries)
}

// TryInsertFrom copies row i of src into c as one new row, creating any
// subcolumn paths present in src but absent from c. It is atomic in the
// same sense as TryInsert.
func (c *ObjectColumn) TryInsertFrom(src *ObjectColumn, i int) error {
	return c.TryInsert(src.Get(i))
}

// TryInsertRangeFrom copies length consecutive rows of src, starting at
// start, into c. It stops and returns an error at the first row that
// fails to insert, leaving every row inserted before it in place (it does
// not roll back earlier, successfully inserted rows in the range).
func (c *ObjectColumn) TryInsertRangeFrom(src *ObjectColumn, start, length int) error {
	if length == 0 {
		return nil
	}
	if start < 0 || start+length > src.Size() {
		return invalidArgf("ObjectColumn.TryInsertRangeFrom", "range [%d, %d) out of bounds for source of size %d", start, start+length, src.Size())
	}
	for i := start; i < start+length; i++ {
		if err := c.TryInsertFrom(src, i); err != nil {
			return err
		}
	}
	return nil
}

// TryInsertIndicesFrom copies the rows of src named by indices, in order,
// into c. It stops and returns an error at the first row that fails to
// insert.
func (c *ObjectColumn) TryInsertIndicesFrom(src *ObjectColumn, indices []int) error {
	for _, i := range indices {
		if i < 0 || i >= src.Size() {
			return invalidArgf("ObjectColumn.TryInsertIndicesFrom", "index %d out of bounds for source of size %d", i, src.Size())
		}
		if err := c.TryInsertFrom(src, i); err != nil {
			return err
		}
	}
	return nil
}

// CheckConsistency validates c's structural invariants: every subcolumn
// must report the same Size() as c, and each subcolumn's own parts must be
// correctly ordered. It returns a ConsistencyViolation error rather than
// panicking directly, since it is a pure check; callers that discover a
// violation are expected to treat it as fatal, per spec.md §7.
func (c *ObjectColumn) CheckConsistency() error {
	for _, p := range c.tree.Keys() {
		sub := c.tree.Find(p)
		if sub.Size() != c.numRows {
			return consistencyf("ObjectColumn.CheckConsistency", "subcolumn %q has %d rows, column has %d", p.String(), sub.Size(), c.numRows)
		}
		if err := sub.CheckTypes(); err != nil {
			return err
		}
	}
	return nil
}

// CloneResized returns a new ObjectColumn with the same subcolumn paths and
// types as c, holding size rows that are all defaults. No row values are
// copied from c.
func (c *ObjectColumn) CloneResized(size int) *ObjectColumn {
	out := NewObjectColumn(
		WithColumnAllocator(c.mem),
		WithColumnLogger(c.logger),
		WithColumnMetrics(c.metrics),
	)
	for _, p := range c.tree.Keys() {
		src := c.tree.Find(p)
		clone := NewSubcolumn(true, WithAllocator(c.mem), WithLogger(c.logger), WithMetrics(c.metrics))
		typ := src.LeastCommonType()
		if !typ.IsNothing() {
			clone.addNewColumnPart(typ)
		}
		out.tree.Add(p, clone)
	}
	if size > 0 {
		for i := 0; i < size; i++ {
			out.InsertDefault()
		}
	}
	return out
}
