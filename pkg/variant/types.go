package variant

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// ScalarKind is a node in the small, total scalar type lattice this package
// implements as the "type system oracle" spec.md §6.1 says is supplied by an
// external collaborator. ScalarNothing is the bottom element (no scalar
// observed yet); ScalarString is the top element every other kind joins
// into, so LeastCommonSupertype never fails to produce a join for two
// scalar kinds — see DESIGN.md for why get_field_info's "no lattice join"
// failure mode is therefore unreachable for scalars and not checked for.
type ScalarKind uint8

const (
	ScalarNothing ScalarKind = iota
	ScalarBool
	ScalarInt64
	ScalarFloat64
	ScalarDecimal
	ScalarTimestamp
	ScalarString
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNothing:
		return "Nothing"
	case ScalarBool:
		return "Bool"
	case ScalarInt64:
		return "Int64"
	case ScalarFloat64:
		return "Float64"
	case ScalarDecimal:
		return "Decimal"
	case ScalarTimestamp:
		return "Timestamp"
	case ScalarString:
		return "String"
	default:
		return "Unknown"
	}
}

// arrowStorageType returns the concrete Arrow type used to physically store
// a dense part of the given scalar kind. Decimal is stored as its canonical
// string form (see DESIGN.md) and Timestamp as microsecond-precision UTC,
// matching pkg/dataobj/sections/generic.Builder.mapArrowType's approach of
// picking one canonical physical representation per logical kind.
func arrowStorageType(k ScalarKind) arrow.DataType {
	switch k {
	case ScalarBool:
		return arrow.FixedWidthTypes.Boolean
	case ScalarInt64:
		return arrow.PrimitiveTypes.Int64
	case ScalarFloat64:
		return arrow.PrimitiveTypes.Float64
	case ScalarDecimal, ScalarString:
		return arrow.BinaryTypes.String
	case ScalarTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	case ScalarNothing:
		// A part has base Nothing when a Subcolumn's first value is an
		// empty array or an array of only nulls (see
		// Subcolumn.InsertWithInfo). Every element of such a part is null,
		// so Boolean is used only as a placeholder physical type.
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// LeastCommonType is the (type, base type, number of dimensions) triple
// spec.md §3 assigns to a Subcolumn: Dimensions counts array nesting (0 for
// a scalar), and Base is the scalar kind at the bottom of that nesting.
// The zero value is the "Nothing" type with zero dimensions.
type LeastCommonType struct {
	Dimensions int
	Base       ScalarKind
}

// IsNothing reports whether t's base kind is ScalarNothing: the initial,
// untyped state of an empty Subcolumn, or an array type whose elements have
// all been null so far.
func (t LeastCommonType) IsNothing() bool { return t.Base == ScalarNothing }

// Equal reports whether t and other name the same type.
func (t LeastCommonType) Equal(other LeastCommonType) bool {
	return t.Dimensions == other.Dimensions && t.Base == other.Base
}

// ArrowType materializes t as a concrete Arrow type, wrapping the scalar
// storage type in t.Dimensions layers of arrow.ListOf, one per array
// dimension.
func (t LeastCommonType) ArrowType() arrow.DataType {
	dt := arrowStorageType(t.Base)
	for i := 0; i < t.Dimensions; i++ {
		dt = arrow.ListOf(dt)
	}
	return dt
}

func (t LeastCommonType) String() string {
	s := t.Base.String()
	for i := 0; i < t.Dimensions; i++ {
		s = "Array(" + s + ")"
	}
	return s
}

// joinScalar computes the least upper bound of two scalar kinds. The
// lattice is total: String is a universal supertype, so join never fails
// for two scalar kinds. Numeric kinds widen among themselves before
// falling back to String; Timestamp joins with any kind other than itself
// or Nothing into String.
func joinScalar(a, b ScalarKind) ScalarKind {
	if a == b {
		return a
	}
	if a == ScalarNothing {
		return b
	}
	if b == ScalarNothing {
		return a
	}

	numericRank := map[ScalarKind]int{
		ScalarBool:    0,
		ScalarInt64:   1,
		ScalarDecimal: 2,
		ScalarFloat64: 3,
	}
	ra, aOK := numericRank[a]
	rb, bOK := numericRank[b]
	if aOK && bOK {
		if ra > rb {
			return a
		}
		return b
	}

	return ScalarString
}

// LeastCommonSupertype computes the join of two LeastCommonTypes, matching
// spec.md §4.2 step 4's `t_join = least_common_supertype(t_cur, ...)`. Two
// types with differing dimensions have no join within a single Subcolumn
// promotion step (dimension mismatches are rejected by the caller before
// reaching here; see Subcolumn.Insert), so LeastCommonSupertype requires
// equal Dimensions and panics otherwise — it is only ever called after that
// check has already passed.
func LeastCommonSupertype(a, b LeastCommonType) LeastCommonType {
	if a.Dimensions != b.Dimensions {
		panic("variant: LeastCommonSupertype called with mismatched dimensions")
	}
	return LeastCommonType{Dimensions: a.Dimensions, Base: joinScalar(a.Base, b.Base)}
}
