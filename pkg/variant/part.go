package variant

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// part is one dense, uniformly-typed vector inside a Subcolumn (spec.md
// §3's "Part"). While growing it accumulates values in an Arrow builder;
// Array snapshots the builder's current contents and previously-frozen
// chunks into a single Arrow array, concatenating exactly the way
// pkg/dataobj/sections/generic.Builder.flushSection merges segment
// RecordBatches with array.Concatenate.
type part struct {
	mem     memory.Allocator
	typ     LeastCommonType
	builder array.Builder

	chunks []arrow.Array // previously frozen, immutable chunks, in row order
	length int           // total rows across chunks + pending builder appends

	cached arrow.Array // memoized Array() result; cleared by any mutation
}

func newPart(mem memory.Allocator, typ LeastCommonType) *part {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &part{
		mem:     mem,
		typ:     typ,
		builder: array.NewBuilder(mem, typ.ArrowType()),
	}
}

func (p *part) Size() int { return p.length }

// AppendDefaults appends n default (NULL, for our purposes) values to p.
func (p *part) AppendDefaults(n int) {
	if n <= 0 {
		return
	}
	p.builder.AppendNulls(n)
	p.length += n
	p.cached = nil
}

// Append coerces field to p's type and appends it. field must already be
// known to fit p.typ's dimensions; coercion only ever changes the scalar
// representation, never the array shape.
func (p *part) Append(field Field) error {
	if err := appendField(p.builder, p.typ, field); err != nil {
		return err
	}
	p.length++
	p.cached = nil
	return nil
}

// AppendFrom appends the value at row i of src, an array holding values of
// srcType, after decoding and re-coercing it into p's own type. This is how
// Finalize and InsertRangeFrom migrate rows across part boundaries with
// differing historical types.
func (p *part) AppendFrom(src arrow.Array, srcType LeastCommonType, i int) error {
	return p.Append(readField(src, srcType, i))
}

// Array returns p's contents as a single immutable Arrow array, freezing
// any pending builder state first.
func (p *part) Array() arrow.Array {
	if p.cached != nil {
		return p.cached
	}
	if p.builder.Len() > 0 {
		p.chunks = append(p.chunks, p.builder.NewArray())
	}
	switch len(p.chunks) {
	case 0:
		p.cached = array.MakeArrayOfNull(p.mem, p.typ.ArrowType(), 0)
	case 1:
		p.cached = p.chunks[0]
	default:
		merged, err := array.Concatenate(p.chunks, p.mem)
		if err != nil {
			panic(fmt.Sprintf("variant: concatenating part chunks: %s", err))
		}
		p.chunks = []arrow.Array{merged}
		p.cached = merged
	}
	return p.cached
}

// PopBack truncates p by removing its last n rows.
func (p *part) PopBack(n int) {
	if n <= 0 {
		return
	}
	if n > p.length {
		panic("variant: part.PopBack: n exceeds part length")
	}
	arr := p.Array()
	newLen := arr.Len() - n
	sliced := array.NewSlice(arr, 0, int64(newLen))
	p.chunks = []arrow.Array{sliced}
	p.cached = sliced
	p.length = newLen
	// Reset the builder so future appends start clean; any pending
	// builder state was already folded into arr by the Array() call
	// above.
	p.builder = array.NewBuilder(p.mem, p.typ.ArrowType())
}

// ByteSize approximates the uncompressed size of p's data in bytes.
func (p *part) ByteSize() int64 {
	return int64(p.Array().Data().SizeInBytes())
}

// GetField reconstructs the Field stored at row i.
func (p *part) GetField(i int) Field {
	return readField(p.Array(), p.typ, i)
}
