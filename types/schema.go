package types

import "fmt"

// Column is a named, typed field in a Schema. Offset is the byte offset of
// this column's fixed-width slot within a serialized tuple's fixed region
// (meaningless for variable-width kinds, which store a tail offset there
// instead). Length carries the declared maximum width for variable-width
// kinds (VARCHAR(n)'s n, VECTOR(D)'s D); it is otherwise 0.
//
// Column carries a Nullable flag and a declared-max-length Length field for
// variable-width types.
type Column struct {
	Name     string
	Kind     Kind
	Length   uint32
	Offset   uint32
	Nullable bool
}

// InlinedSize is the number of bytes this column occupies in a tuple's
// fixed region: its real width if fixed-width, or 4 bytes for the tail
// offset otherwise.
func (c Column) InlinedSize() uint32 {
	if c.Kind.IsFixedWidth() {
		return c.Kind.FixedWidth()
	}
	return 4
}

// Schema is an ordered, named, typed column list.
type Schema struct {
	columns []Column
}

// NewSchema computes offsets left-to-right and returns the resulting Schema.
func NewSchema(cols []Column) *Schema {
	out := make([]Column, len(cols))
	copy(out, cols)
	var offset uint32
	for i := range out {
		out[i].Offset = offset
		offset += out[i].InlinedSize()
	}
	return &Schema{columns: out}
}

func (s *Schema) Columns() []Column   { return s.columns }
func (s *Schema) Column(idx int) Column { return s.columns[idx] }
func (s *Schema) Len() int            { return len(s.columns) }

// FixedRegionSize is the total width of the tuple's fixed-width region
// (inline values plus tail offsets for variable-width columns).
func (s *Schema) FixedRegionSize() uint32 {
	var size uint32
	for _, c := range s.columns {
		size += c.InlinedSize()
	}
	return size
}

func (s *Schema) ColumnIndex(name string) (int, error) {
	for i, c := range s.columns {
		if c.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column does not exist: %s", name)
}

// EqualForProjection reports whether two schemas agree columnwise on type
// (names may differ), as required when merging a Projection whose exprs are
// exactly the identity over its child.
func EqualForProjection(a, b *Schema) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.columns {
		if a.columns[i].Kind != b.columns[i].Kind {
			return false
		}
	}
	return true
}

// ConcatSchemas returns a new schema formed by appending b's columns after
// a's, recomputing offsets. Used to build the output schema of a join.
func ConcatSchemas(a, b *Schema) *Schema {
	cols := make([]Column, 0, a.Len()+b.Len())
	cols = append(cols, a.Columns()...)
	cols = append(cols, b.Columns()...)
	return NewSchema(cols)
}
