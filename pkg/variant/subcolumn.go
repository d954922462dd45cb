package variant

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/axiomhq/hyperloglog"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Subcolumn stores the values observed at one path across all rows, as an
// ordered list of typed parts plus a leading run of defaults counted
// symbolically before any part exists. See spec.md §3/§4.2 for the full
// invariants and §4.5 for its state machine.
type Subcolumn struct {
	mem      memory.Allocator
	nullable bool
	logger   log.Logger
	metrics  *Metrics

	leastCommonType LeastCommonType
	parts           []*part
	defaultsPrefix  int

	stats *hyperloglog.Sketch // lazily created; see Subcolumn.Stats
}

// NewSubcolumn returns an empty Subcolumn in the Empty-defaults state.
func NewSubcolumn(nullable bool, opts ...SubcolumnOption) *Subcolumn {
	s := &Subcolumn{
		mem:      memory.DefaultAllocator,
		nullable: nullable,
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubcolumnOption configures a Subcolumn constructed with NewSubcolumn.
type SubcolumnOption func(*Subcolumn)

// WithLogger sets the logger a Subcolumn uses for promotion diagnostics.
func WithLogger(logger log.Logger) SubcolumnOption {
	return func(s *Subcolumn) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Metrics counters to a Subcolumn.
func WithMetrics(m *Metrics) SubcolumnOption {
	return func(s *Subcolumn) { s.metrics = m }
}

// WithAllocator sets the Arrow memory allocator a Subcolumn's parts use.
func WithAllocator(mem memory.Allocator) SubcolumnOption {
	return func(s *Subcolumn) {
		if mem != nil {
			s.mem = mem
		}
	}
}

// Size returns the number of logical rows in s, per invariant 1 of §3:
// num_of_defaults_in_prefix plus the sum of all parts' sizes.
func (s *Subcolumn) Size() int {
	n := s.defaultsPrefix
	for _, p := range s.parts {
		n += p.Size()
	}
	return n
}

// IsEmpty reports whether s has no parts yet (the Empty-defaults state).
func (s *Subcolumn) IsEmpty() bool { return len(s.parts) == 0 }

// IsFinalized reports whether s has exactly one part and no pending default
// prefix.
func (s *Subcolumn) IsFinalized() bool { return s.defaultsPrefix == 0 && len(s.parts) == 1 }

// LeastCommonType returns s's current common type.
func (s *Subcolumn) LeastCommonType() LeastCommonType { return s.leastCommonType }

// ByteSize aggregates the uncompressed size of s's data in bytes.
func (s *Subcolumn) ByteSize() int64 {
	var n int64
	for _, p := range s.parts {
		n += p.ByteSize()
	}
	return n
}

// AllocatedBytes reports the same figure as ByteSize for this in-memory
// implementation; a page-backed implementation would additionally count
// unused capacity in its buffers.
func (s *Subcolumn) AllocatedBytes() int64 { return s.ByteSize() }

// Insert computes field's FieldInfo and inserts it, per spec.md §4.2's
// convenience overload.
func (s *Subcolumn) Insert(field Field) error {
	info, err := GetFieldInfo(field)
	if err != nil {
		return err
	}
	return s.InsertWithInfo(field, info)
}

// InsertWithInfo is the heart of type promotion (spec.md §4.2, "insert
// (field, info)").
func (s *Subcolumn) InsertWithInfo(field Field, info FieldInfo) error {
	if len(s.parts) == 0 {
		if field.IsNull() {
			s.defaultsPrefix++
			return nil
		}

		initial := LeastCommonType{Dimensions: info.NumDimensions, Base: info.ScalarType}
		prefix := s.defaultsPrefix
		s.addNewColumnPart(initial)
		s.parts[0].AppendDefaults(prefix)
		s.defaultsPrefix = 0
		if err := s.parts[0].Append(field); err != nil {
			// Undo the part we just created: nothing has observed it
			// yet, so simply drop it and restore the default prefix.
			s.parts = nil
			s.leastCommonType = LeastCommonType{}
			s.defaultsPrefix = prefix
			return err
		}
		return nil
	}

	if info.NumDimensions != s.leastCommonType.Dimensions {
		return invalidArgf("Subcolumn.Insert", "dimension mismatch: subcolumn has %d dimensions, value has %d", s.leastCommonType.Dimensions, info.NumDimensions)
	}

	candidate := LeastCommonType{Dimensions: info.NumDimensions, Base: info.ScalarType}
	joined := LeastCommonSupertype(s.leastCommonType, candidate)

	last := s.parts[len(s.parts)-1]
	if joined.Equal(s.leastCommonType) {
		return last.Append(field)
	}

	level.Debug(s.logger).Log("msg", "promoting subcolumn part", "from", s.leastCommonType.String(), "to", joined.String())
	if s.metrics != nil {
		s.metrics.promotionsTotal.Inc()
	}
	s.addNewColumnPart(joined)
	return s.parts[len(s.parts)-1].Append(field)
}

func (s *Subcolumn) addNewColumnPart(typ LeastCommonType) {
	s.parts = append(s.parts, newPart(s.mem, typ))
	s.leastCommonType = typ
}

// InsertDefault appends one default value.
func (s *Subcolumn) InsertDefault() { s.InsertManyDefaults(1) }

// InsertManyDefaults appends n default values.
func (s *Subcolumn) InsertManyDefaults(n int) {
	if n <= 0 {
		return
	}
	if len(s.parts) == 0 {
		s.defaultsPrefix += n
		return
	}
	s.parts[len(s.parts)-1].AppendDefaults(n)
}

// InsertRangeFrom copies length rows starting at start from src into s,
// applying s's ordinary promotion rule to each. This is a row-by-row
// simplification of the source's part-by-part range copy: it is
// semantically equivalent (every row still goes through the same
// promotion decision a plain Insert would make) at the cost of not sharing
// physical storage with src's parts. See DESIGN.md.
func (s *Subcolumn) InsertRangeFrom(src *Subcolumn, start, length int) error {
	if length == 0 {
		return nil
	}
	srcSize := src.Size()
	if start < 0 || start+length > srcSize {
		return invalidArgf("Subcolumn.InsertRangeFrom", "range [%d, %d) out of bounds for source of size %d", start, start+length, srcSize)
	}

	applied := 0
	for i := start; i < start+length; i++ {
		field := src.GetField(i)
		if err := s.Insert(field); err != nil {
			if applied > 0 {
				s.PopBack(applied)
			}
			return err
		}
		applied++
	}
	return nil
}

// PopBack truncates s by removing its last n rows.
func (s *Subcolumn) PopBack(n int) {
	if n <= 0 {
		return
	}
	if n > s.Size() {
		panic("variant: Subcolumn.PopBack: n exceeds subcolumn size")
	}
	remaining := n
	for remaining > 0 && len(s.parts) > 0 {
		last := s.parts[len(s.parts)-1]
		if last.Size() <= remaining {
			remaining -= last.Size()
			s.parts = s.parts[:len(s.parts)-1]
			continue
		}
		last.PopBack(remaining)
		remaining = 0
	}
	if remaining > 0 {
		s.defaultsPrefix -= remaining
	}
	if len(s.parts) > 0 {
		s.leastCommonType = s.parts[len(s.parts)-1].typ
	}
}

// GetLastField returns the last inserted Field, or Null if s is empty.
func (s *Subcolumn) GetLastField() Field {
	if len(s.parts) == 0 {
		return NullField()
	}
	last := s.parts[len(s.parts)-1]
	return last.GetField(last.Size() - 1)
}

// GetField reconstructs the Field at absolute row index row.
func (s *Subcolumn) GetField(row int) Field {
	if row < 0 || row >= s.Size() {
		panic("variant: Subcolumn.GetField: row out of range")
	}
	if row < s.defaultsPrefix {
		return NullField()
	}
	offset := row - s.defaultsPrefix
	for _, p := range s.parts {
		if offset < p.Size() {
			return p.GetField(offset)
		}
		offset -= p.Size()
	}
	panic("variant: Subcolumn.GetField: row accounting bug")
}

// Finalize collapses s's parts to a single part of s.LeastCommonType(),
// per spec.md §4.2/§4.5. It is idempotent.
func (s *Subcolumn) Finalize() {
	if s.IsFinalized() {
		return
	}
	target := s.leastCommonType
	if target.IsNothing() {
		// No non-null scalar was ever inserted (only defaults, or arrays
		// whose elements were all null): finalize to a String part with the
		// same number of dimensions, giving callers a concrete Arrow type
		// to work with.
		target = LeastCommonType{Dimensions: target.Dimensions, Base: ScalarString}
	}

	merged := newPart(s.mem, target)
	merged.AppendDefaults(s.defaultsPrefix)

	for _, p := range s.parts {
		arr := p.Array()
		for i := 0; i < arr.Len(); i++ {
			if err := merged.AppendFrom(arr, p.typ, i); err != nil {
				panic("variant: Finalize: coercing part to common type: " + err.Error())
			}
		}
	}

	s.parts = []*part{merged}
	s.leastCommonType = target
	s.defaultsPrefix = 0
}

// CheckTypes validates invariants 2-4 of spec.md §3: parts must be in
// strictly ascending type order, and the common type must equal the last
// part's type. Invariant 4 (nullability) holds by construction, since every
// part stores nulls in its Arrow validity bitmap.
func (s *Subcolumn) CheckTypes() error {
	for i := 1; i < len(s.parts); i++ {
		prev, cur := s.parts[i-1].typ, s.parts[i].typ
		joined := LeastCommonSupertype(prev, cur)
		if !joined.Equal(cur) || prev.Equal(cur) {
			return consistencyf("Subcolumn.CheckTypes", "part %d (%s) is not a proper supertype of part %d (%s)", i, cur, i-1, prev)
		}
	}
	if n := len(s.parts); n > 0 && !s.leastCommonType.Equal(s.parts[n-1].typ) {
		return consistencyf("Subcolumn.CheckTypes", "common type %s differs from last part's type %s", s.leastCommonType, s.parts[n-1].typ)
	}
	return nil
}

// RecreateWithDefaultValues returns a new Subcolumn with the same row count
// as s, filled with defaults of a type derived from info. It is used to
// materialize a sibling nested array with matching offsets when a document
// omits a key some other row in the batch provided.
func (s *Subcolumn) RecreateWithDefaultValues(info FieldInfo) *Subcolumn {
	return newDefaultFilledSubcolumn(s.nullable, info, s.Size(), WithAllocator(s.mem), WithLogger(s.logger), WithMetrics(s.metrics))
}

// newDefaultFilledSubcolumn returns a new Subcolumn of size rows, every one
// a default of the type described by info. It underlies both
// RecreateWithDefaultValues and ObjectColumn.AddNestedSubcolumn.
func newDefaultFilledSubcolumn(nullable bool, info FieldInfo, size int, opts ...SubcolumnOption) *Subcolumn {
	out := NewSubcolumn(nullable, opts...)
	if size == 0 {
		return out
	}
	typ := LeastCommonType{Dimensions: info.NumDimensions, Base: info.ScalarType}
	if typ.IsNothing() {
		typ = LeastCommonType{Dimensions: info.NumDimensions, Base: ScalarString}
	}
	out.addNewColumnPart(typ)
	out.parts[0].AppendDefaults(size)
	return out
}

// Stats lazily builds (or returns the cached) HyperLogLog sketch tracking
// approximate distinct-value cardinality of s's non-null scalar leaves,
// grounded on pkg/dataobj/internal/dataset/column_stats.go's
// columnStatsBuilder. The sketch is built from s's rows on the first call
// and cached; rows inserted or removed afterwards are not reflected in it.
// It is purely observational and never influences type promotion.
func (s *Subcolumn) Stats() *SubcolumnStats {
	if s.stats == nil {
		sketch, err := hyperloglog.NewSketch(12, true)
		if err != nil {
			panic("variant: creating hyperloglog sketch: " + err.Error())
		}
		s.stats = sketch
		for _, p := range s.parts {
			observeStats(s.stats, p)
		}
	}
	return &SubcolumnStats{sketch: s.stats}
}

func observeStats(sketch *hyperloglog.Sketch, p *part) {
	arr := p.Array()
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		f := p.GetField(i)
		insertFieldStats(sketch, f)
	}
}

func insertFieldStats(sketch *hyperloglog.Sketch, f Field) {
	switch f.Kind() {
	case FieldScalarKind:
		sketch.Insert([]byte(f.Scalar().AsString()))
	case FieldArrayKind:
		for _, item := range f.Items() {
			insertFieldStats(sketch, item)
		}
	}
}
