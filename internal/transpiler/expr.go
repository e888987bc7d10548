package transpiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/luajs/internal/ast"
)

// reservedSelf is the JavaScript receiver keyword. A Lua program using it as
// a plain identifier would collide with the method-call desugaring, so the
// translator rejects it outright.
const reservedSelf = "this"

// binaryOps maps translatable Lua binary operators to their JavaScript
// spelling. Floor division maps to '/' without reproducing integer-floor
// semantics; this is a known gap, not an oversight. Operators absent from
// the table are rejected.
var binaryOps = map[ast.BinaryOp]string{
	ast.OpAdd:      "+",
	ast.OpSub:      "-",
	ast.OpMul:      "*",
	ast.OpDiv:      "/",
	ast.OpFloorDiv: "/",
	ast.OpMod:      "%",
	ast.OpConcat:   "+",
	ast.OpEq:       "===",
	ast.OpNe:       "!==",
	ast.OpGt:       ">",
	ast.OpGe:       ">=",
	ast.OpLt:       "<",
	ast.OpLe:       "<=",
}

// exprString converts one expression node into a JavaScript expression.
// Every compound form is parenthesized so the result can be spliced into any
// surrounding context without precedence surprises.
func exprString(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.Name == reservedSelf {
			return "", &IllegalIdentifierError{Name: e.Name, Pos: e.Pos}
		}
		return e.Name, nil

	case *ast.BoolExpr:
		if e.Value {
			return "true", nil
		}
		return "false", nil

	case *ast.NumberExpr:
		return strconv.FormatFloat(e.Value, 'g', -1, 64), nil

	case *ast.NilExpr:
		return "undefined", nil

	case *ast.StringExpr:
		return stringLiteral(e.Value), nil

	case *ast.UnaryExpr:
		return unaryString(e)

	case *ast.BinaryExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return "", unsupported(e, "binary operator %q", e.Op.String())
		}
		lhs, err := exprString(e.LHS)
		if err != nil {
			return "", err
		}
		rhs, err := exprString(e.RHS)
		if err != nil {
			return "", err
		}
		return "(" + lhs + op + rhs + ")", nil

	case *ast.CallExpr:
		return callString(e)

	case *ast.TableExpr:
		return tableString(e)

	case *ast.IndexExpr:
		target, err := exprString(e.Target)
		if err != nil {
			return "", err
		}
		key, err := exprString(e.Key)
		if err != nil {
			return "", err
		}
		return "(" + target + "[" + key + "])", nil

	case *ast.FunctionExpr:
		return "", unsupported(e, "anonymous function expression")

	case *ast.VarargExpr:
		return "", unsupported(e, "vararg expression")

	default:
		return "", unsupported(expr, "expression %T", expr)
	}
}

// stringLiteral renders a string literal with every byte as a two-digit hex
// escape. Unreadable, but it reproduces the source bytes exactly in the
// JavaScript runtime regardless of encoding.
func stringLiteral(value []byte) string {
	var b strings.Builder
	b.Grow(len(value)*4 + 2)
	b.WriteByte('"')
	for _, c := range value {
		fmt.Fprintf(&b, `\x%02x`, c)
	}
	b.WriteByte('"')
	return b.String()
}

func unaryString(e *ast.UnaryExpr) (string, error) {
	operand, err := exprString(e.Operand)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case ast.OpLen:
		return "(" + operand + ".length)", nil
	case ast.OpNeg:
		return "(-" + operand + ")", nil
	case ast.OpPos:
		return "(+" + operand + ")", nil
	default:
		return "", unsupported(e, "unary operator %q", e.Op.String())
	}
}

// callString renders a function or method call. Method calls keep the
// member-call syntax and additionally pass the receiver as the first
// argument, reproducing Lua's implicit self.
func callString(e *ast.CallExpr) (string, error) {
	target, err := exprString(e.Target)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if e.Method != "" {
		b.WriteString(target)
		b.WriteByte('.')
		b.WriteString(e.Method)
		b.WriteByte('(')
		b.WriteString(target)
		if len(e.Args) > 0 {
			b.WriteString(", ")
		}
	} else {
		b.WriteString(target)
		b.WriteByte('(')
	}

	for i, arg := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := exprString(arg)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}

	b.WriteByte(')')
	return b.String(), nil
}

// tableString renders a table constructor as a JavaScript object literal.
// Expression keys become computed keys; positional fields have no object
// literal equivalent and are rejected.
func tableString(e *ast.TableExpr) (string, error) {
	var b strings.Builder
	b.WriteString("({")

	for i, field := range e.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		switch f := field.(type) {
		case *ast.KeyField:
			key, err := exprString(f.Key)
			if err != nil {
				return "", err
			}
			value, err := exprString(f.Value)
			if err != nil {
				return "", err
			}
			b.WriteString("[" + key + "]: " + value)
		case *ast.NameField:
			value, err := exprString(f.Value)
			if err != nil {
				return "", err
			}
			b.WriteString(`"` + f.Name + `": ` + value)
		case *ast.ValueField:
			return "", unsupported(e, "table field without a key")
		default:
			return "", unsupported(e, "table field %T", field)
		}
	}

	b.WriteString("})")
	return b.String(), nil
}
