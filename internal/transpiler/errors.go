package transpiler

import (
	"fmt"

	"github.com/leapstack-labs/luajs/internal/ast"
)

// UnsupportedConstructError reports a syntax form, operator, or arity the
// translator does not model. The first one encountered aborts the whole
// translation; there is no partial output.
type UnsupportedConstructError struct {
	Construct string // the construct kind, e.g. "parallel assignment"
	Pos       ast.Position
}

func (e *UnsupportedConstructError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("line %d, column %d: unsupported construct: %s", e.Pos.Line, e.Pos.Column, e.Construct)
	}
	return fmt.Sprintf("unsupported construct: %s", e.Construct)
}

// unsupported creates an UnsupportedConstructError for the given node.
func unsupported(node ast.Node, format string, args ...any) error {
	var pos ast.Position
	if node != nil {
		pos = node.Position()
	}
	return &UnsupportedConstructError{
		Construct: fmt.Sprintf(format, args...),
		Pos:       pos,
	}
}

// IllegalIdentifierError reports an identifier that collides with a name the
// translator reserves for method-call desugaring.
type IllegalIdentifierError struct {
	Name string
	Pos  ast.Position
}

func (e *IllegalIdentifierError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("line %d, column %d: illegal identifier %q", e.Pos.Line, e.Pos.Column, e.Name)
	}
	return fmt.Sprintf("illegal identifier %q", e.Name)
}
