package variant

import "fmt"

// FieldKind tags the shape of a Field.
type FieldKind uint8

const (
	// FieldNull is the default/missing value.
	FieldNull FieldKind = iota
	// FieldScalarKind holds a single ScalarValue.
	FieldScalarKind
	// FieldArrayKind holds an ordered sequence of Fields.
	FieldArrayKind
	// FieldObjectKind holds an ordered mapping from path segment to
	// Field, possibly nested. Only ObjectColumn.TryInsert (and friends)
	// ever look at a FieldObjectKind value; once flattened into leaf
	// paths, only Null/Scalar/Array Fields reach a Subcolumn.
	FieldObjectKind
)

// Field is a tagged runtime value: Null, a scalar, an ordered array of
// Fields (arbitrarily nested), or an object mapping segment names to
// Fields. It is the unit of data a JSON (or equivalent) parser is expected
// to produce for this package to consume; no parsing happens inside it.
type Field struct {
	kind   FieldKind
	scalar ScalarValue
	items  []Field
	object []ObjectEntry
}

// ObjectEntry is one segment/value pair inside a FieldObjectKind Field.
type ObjectEntry struct {
	Segment string
	Value   Field
}

// NullField returns the Null field.
func NullField() Field { return Field{kind: FieldNull} }

// ScalarField returns a Field wrapping a scalar value.
func ScalarField(v ScalarValue) Field { return Field{kind: FieldScalarKind, scalar: v} }

// ArrayField returns a Field wrapping an ordered sequence of Fields.
func ArrayField(items []Field) Field { return Field{kind: FieldArrayKind, items: items} }

// ObjectField returns a Field wrapping an ordered mapping of segment names
// to Fields.
func ObjectField(entries []ObjectEntry) Field { return Field{kind: FieldObjectKind, object: entries} }

// Kind returns f's FieldKind.
func (f Field) Kind() FieldKind { return f.kind }

// IsNull reports whether f is the Null field.
func (f Field) IsNull() bool { return f.kind == FieldNull }

// Scalar returns f's scalar value. It panics if f is not a scalar Field.
func (f Field) Scalar() ScalarValue {
	if f.kind != FieldScalarKind {
		panic("variant: Field.Scalar called on a non-scalar Field")
	}
	return f.scalar
}

// Items returns f's array elements. It panics if f is not an array Field.
func (f Field) Items() []Field {
	if f.kind != FieldArrayKind {
		panic("variant: Field.Items called on a non-array Field")
	}
	return f.items
}

// Entries returns f's object entries. It panics if f is not an object
// Field.
func (f Field) Entries() []ObjectEntry {
	if f.kind != FieldObjectKind {
		panic("variant: Field.Entries called on a non-object Field")
	}
	return f.object
}

// FieldInfo is a derived summary of a Field used for dimensional checking
// and type promotion, per spec.md §3/§4.1.
type FieldInfo struct {
	// ScalarType is the least common scalar type across all leaf scalars
	// of the Field, or ScalarNothing if there are none (an all-Null or
	// empty-array Field).
	ScalarType ScalarKind
	// HaveNulls is true iff any leaf scalar is Null.
	HaveNulls bool
	// NeedConvert is true iff the leaf scalars had more than one
	// concrete type that had to be unified.
	NeedConvert bool
	// NumDimensions is 0 for a scalar, 1 for an array of scalars, 2 for
	// an array of arrays, and so on.
	NumDimensions int
}

// GetFieldInfo traverses field recursively and returns its FieldInfo, per
// spec.md §4.1. It fails with InvalidArgument if array nesting depth is
// inconsistent across siblings at any level (e.g. [1, [2]]).
//
// field must not be a FieldObjectKind; objects are flattened into leaf
// paths by ObjectColumn before FieldInfo is ever computed on them.
func GetFieldInfo(field Field) (FieldInfo, error) {
	if field.kind == FieldObjectKind {
		return FieldInfo{}, invalidArgf("GetFieldInfo", "cannot compute FieldInfo of an object-shaped Field; flatten it into leaf paths first")
	}

	var info FieldInfo
	info.ScalarType = ScalarNothing

	dims, err := walkField(field, 0, &info)
	if err != nil {
		return FieldInfo{}, err
	}
	if dims == -1 {
		dims = 0 // a bare Null (or all-null array) is treated as a scalar for dimension purposes
	}
	info.NumDimensions = dims
	return info, nil
}

// walkField descends into field, folding leaf scalar kinds into info and
// returning the array depth observed at this position. depth is the
// nesting level of field itself, used only for error messages.
func walkField(field Field, depth int, info *FieldInfo) (int, error) {
	switch field.kind {
	case FieldNull:
		info.HaveNulls = true
		return -1, nil // unknown: a bare null does not constrain sibling depth
	case FieldScalarKind:
		k := field.scalar.Kind()
		if info.ScalarType != ScalarNothing && info.ScalarType != k {
			info.NeedConvert = true
		}
		info.ScalarType = joinScalar(info.ScalarType, k)
		return 0, nil
	case FieldArrayKind:
		elemDepth := -1
		for _, item := range field.items {
			d, err := walkField(item, depth+1, info)
			if err != nil {
				return 0, err
			}
			if d == -1 {
				continue // null or empty; doesn't constrain depth
			}
			if elemDepth == -1 {
				elemDepth = d
			} else if elemDepth != d {
				return 0, invalidArgf("GetFieldInfo", "ragged array nesting at depth %d: sibling elements have dimensions %d and %d", depth, elemDepth, d)
			}
		}
		if elemDepth == -1 {
			elemDepth = 0 // empty array, or array of only nulls: assume scalar elements
		}
		return elemDepth + 1, nil
	default:
		return 0, invalidArgf("GetFieldInfo", "unexpected field kind %d", field.kind)
	}
}

// flattenObject walks a FieldObjectKind Field and appends one (Path, Field)
// pair per leaf (Null/Scalar/Array) reachable from it, in document order.
// It fails with InvalidArgument if doc is not object-shaped.
func flattenObject(doc Field) ([]leaf, error) {
	if doc.kind != FieldObjectKind {
		return nil, invalidArgf("TryInsert", "expected an object-shaped Field, got kind %d", doc.kind)
	}
	var out []leaf
	flattenInto(doc, nil, &out)
	return out, nil
}

type leaf struct {
	Path  Path
	Field Field
}

func flattenInto(f Field, prefix Path, out *[]leaf) {
	if f.kind != FieldObjectKind {
		p := make(Path, len(prefix))
		copy(p, prefix)
		*out = append(*out, leaf{Path: p, Field: f})
		return
	}
	for _, entry := range f.object {
		next := make(Path, len(prefix)+1)
		copy(next, prefix)
		next[len(prefix)] = entry.Segment
		flattenInto(entry.Value, next, out)
	}
}

func (k FieldKind) String() string {
	switch k {
	case FieldNull:
		return "Null"
	case FieldScalarKind:
		return "Scalar"
	case FieldArrayKind:
		return "Array"
	case FieldObjectKind:
		return "Object"
	default:
		return fmt.Sprintf("FieldKind(%d)", k)
	}
}
