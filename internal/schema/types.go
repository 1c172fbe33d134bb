package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Identifier is a name for backtick-quoted embedding in SQL. Values built by
// internal/sanitize are safe as they stand; other packages also convert raw
// names to Identifier directly, and internal/sqlbuild sanitizes those again
// before emitting them.
type Identifier string

// String returns the raw identifier text.
func (id Identifier) String() string { return string(id) }

// Quoted returns the identifier wrapped in backticks, with any embedded
// backtick doubled, safe for direct interpolation into a SQL statement.
func (id Identifier) Quoted() string {
	escaped := ""
	for _, r := range string(id) {
		if r == '`' {
			escaped += "``"
		} else {
			escaped += string(r)
		}
	}
	return "`" + escaped + "`"
}

// LogicalType is one of the enumerated logical column types a user may
// assign to an Attribute.
type LogicalType string

const (
	TypeInt       LogicalType = "INT"
	TypeVarchar   LogicalType = "VARCHAR(255)"
	TypeText      LogicalType = "TEXT"
	TypeDate      LogicalType = "DATE"
	TypeBoolean   LogicalType = "BOOLEAN"
	TypeDecimal   LogicalType = "DECIMAL(10,2)"
	TypeTimestamp LogicalType = "TIMESTAMP"
	TypeFloat     LogicalType = "FLOAT"
)

// logicalTypeOrder is the priority order substring matching walks, mirroring
// the original UI's MYSQL_TYPE_MAP: an introspected type like TINYINT(1)
// matches INT before it ever gets a chance to match BOOLEAN.
var logicalTypeOrder = []LogicalType{
	TypeInt, TypeVarchar, TypeText, TypeDate, TypeBoolean, TypeDecimal, TypeTimestamp, TypeFloat,
}

// ParseLogicalType maps a user- or introspection-supplied type name (e.g. a
// raw information_schema.column_type string like "varchar(255)" or
// "decimal(10,2)") to a LogicalType. It uppercases raw and matches it by
// substring against the canonical types in logicalTypeOrder, returning the
// first match, defaulting to TEXT only when none match.
func ParseLogicalType(raw string) LogicalType {
	upper := strings.ToUpper(raw)
	for _, t := range logicalTypeOrder {
		if strings.Contains(upper, string(t)) {
			return t
		}
	}
	return TypeText
}

// SQLType returns the MySQL column type to emit in DDL.
func (t LogicalType) SQLType() string { return string(t) }

// Attribute is a single column of a Relation.
type Attribute struct {
	Name       Identifier
	Type       LogicalType
	IsPK       bool
	IsNotNull  bool
	IsUnique   bool
}

// Relation is a named, ordered collection of Attributes with a designated
// primary key.
type Relation struct {
	Name       Identifier
	Attributes []Attribute
	PrimaryKey AttrSet
}

// Universe returns the full attribute-name set of the relation.
func (r Relation) Universe() AttrSet {
	names := make([]string, len(r.Attributes))
	for i, a := range r.Attributes {
		names[i] = string(a.Name)
	}
	return NewAttrSet(names...)
}

// AttributeByName looks up an Attribute by name, case-sensitively.
func (r Relation) AttributeByName(name string) (Attribute, bool) {
	for _, a := range r.Attributes {
		if string(a.Name) == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// FD is a single functional dependency X -> Y.
type FD struct {
	Determinants AttrSet
	Dependents   AttrSet
}

func (fd FD) String() string {
	return fmt.Sprintf("%s -> %s", fd.Determinants.Key(), fd.Dependents.Key())
}

// FDSet maps a determinant's canonical Key() to its (merged) dependent set.
// Multiple FDs sharing a determinant are unioned together per spec §3.
type FDSet map[string]FD

// NewFDSet builds an FDSet from a list of FDs, merging right-hand sides that
// share a determinant.
func NewFDSet(fds ...FD) FDSet {
	out := make(FDSet, len(fds))
	for _, fd := range fds {
		out.Add(fd.Determinants, fd.Dependents)
	}
	return out
}

// Add merges X -> Y into the set, unioning with any existing dependents for
// the same determinant.
func (s FDSet) Add(x, y AttrSet) {
	key := x.Key()
	if existing, ok := s[key]; ok {
		s[key] = FD{Determinants: x, Dependents: existing.Dependents.Union(y)}
	} else {
		s[key] = FD{Determinants: x, Dependents: y}
	}
}

// List returns the FDs in the set in an arbitrary but stable (sorted by
// determinant key) order.
func (s FDSet) List() []FD {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]FD, 0, len(s))
	for _, k := range keys {
		out = append(out, s[k])
	}
	return out
}

// Clone returns a shallow copy of the FDSet (AttrSets are themselves
// immutable-in-practice, so this is safe).
func (s FDSet) Clone() FDSet {
	out := make(FDSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SubSchema is one table produced by a decomposition.
type SubSchema struct {
	Name       Identifier
	Attributes AttrSet
	PrimaryKey AttrSet
}

// Decomposition is an ordered list of sub-schemas produced by the Decomposer.
type Decomposition struct {
	Tables  []SubSchema
	LostFDs []FD
}

// Condition is a single predicate in a WHERE/HAVING clause list.
type Condition struct {
	ColumnRef string
	Operator  string
	Value     any
	HasValue  bool
	Connector string // "AND" or "OR"; ignored on the first condition
	Func      string // aggregate function name, HAVING only
}
