package transpiler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/leapstack-labs/luajs/internal/ast"
)

// indentUnit is one level of block indentation in the output.
const indentUnit = "    "

// writeBlock renders a block's statements and trailing return into buf, one
// statement per line, without leading indentation. Nested blocks render into
// their own buffer and are spliced back in with one extra indent level, so
// indentation can never leak between sibling subtrees.
func writeBlock(buf *bytes.Buffer, block *ast.Block) error {
	for _, stmt := range block.Statements {
		if err := writeStmt(buf, stmt); err != nil {
			return err
		}
	}

	if ret := block.Return; ret != nil {
		switch len(ret.Values) {
		case 0:
			buf.WriteString("return;\n")
		case 1:
			value, err := exprString(ret.Values[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, "return %s;\n", value)
		default:
			return unsupported(ret, "multiple return values")
		}
	}

	return nil
}

// writeNested renders a child block one indentation level deeper than the
// caller's lines.
func writeNested(buf *bytes.Buffer, block *ast.Block) error {
	var child bytes.Buffer
	if err := writeBlock(&child, block); err != nil {
		return err
	}
	indentInto(buf, child.Bytes())
	return nil
}

// indentInto copies src into dst, prefixing every line with one indent unit.
func indentInto(dst *bytes.Buffer, src []byte) {
	for len(src) > 0 {
		line := src
		if i := bytes.IndexByte(src, '\n'); i >= 0 {
			line = src[:i]
			src = src[i+1:]
		} else {
			src = nil
		}
		dst.WriteString(indentUnit)
		dst.Write(line)
		dst.WriteByte('\n')
	}
}

func writeStmt(buf *bytes.Buffer, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.EmptyStmt:
		buf.WriteString(";\n")
		return nil

	case *ast.AssignStmt:
		if len(s.Targets) > 1 || len(s.Values) > 1 {
			return unsupported(s, "parallel assignment")
		}
		target, err := exprString(s.Targets[0])
		if err != nil {
			return err
		}
		value, err := exprString(s.Values[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "%s = %s;\n", target, value)
		return nil

	case *ast.LocalStmt:
		if len(s.Names) > 1 {
			return unsupported(s, "multiple declaration targets")
		}
		if len(s.Values) > 1 {
			return unsupported(s, "multiple declaration values")
		}
		if len(s.Values) == 0 {
			return unsupported(s, "local declaration without initializer")
		}
		value, err := exprString(s.Values[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "var %s = %s;\n", s.Names[0], value)
		return nil

	case *ast.IfStmt:
		return writeIf(buf, s)

	case *ast.WhileStmt:
		cond, err := exprString(s.Cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "while (%s) {\n", cond)
		if err := writeNested(buf, s.Body); err != nil {
			return err
		}
		buf.WriteString("}\n")
		return nil

	case *ast.NumericForStmt:
		return writeNumericFor(buf, s)

	case *ast.BreakStmt:
		buf.WriteString("break;\n")
		return nil

	case *ast.DoStmt:
		// An IIFE gives the block its own lexical scope.
		buf.WriteString("(function() {\n")
		if err := writeNested(buf, s.Body); err != nil {
			return err
		}
		buf.WriteString("})();\n")
		return nil

	case *ast.CallStmt:
		call, err := callString(s.Call)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "%s;\n", call)
		return nil

	case *ast.FunctionDefStmt:
		return writeFunctionDef(buf, s)

	case *ast.LocalFunctionStmt:
		if s.Body.IsVararg {
			return unsupported(s, "variadic function parameters")
		}
		fmt.Fprintf(buf, "var %s = (%s) => {\n", s.Name, strings.Join(s.Body.Params, ", "))
		if err := writeNested(buf, s.Body.Body); err != nil {
			return err
		}
		buf.WriteString("};\n")
		return nil

	case *ast.RepeatStmt:
		return unsupported(s, "repeat/until loop")
	case *ast.GenericForStmt:
		return unsupported(s, "generic for loop")
	case *ast.GotoStmt:
		return unsupported(s, "goto statement")
	case *ast.LabelStmt:
		return unsupported(s, "label statement")

	default:
		return unsupported(stmt, "statement %T", stmt)
	}
}

func writeIf(buf *bytes.Buffer, s *ast.IfStmt) error {
	cond, err := exprString(s.Cond)
	if err != nil {
		return err
	}
	fmt.Fprintf(buf, "if (%s) {\n", cond)
	if err := writeNested(buf, s.Body); err != nil {
		return err
	}
	buf.WriteString("}\n")

	for _, branch := range s.ElseIfs {
		cond, err := exprString(branch.Cond)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "else if (%s) {\n", cond)
		if err := writeNested(buf, branch.Body); err != nil {
			return err
		}
		buf.WriteString("}\n")
	}

	if s.Else != nil {
		buf.WriteString("else {\n")
		if err := writeNested(buf, s.Else); err != nil {
			return err
		}
		buf.WriteString("}\n")
	}

	return nil
}

// writeNumericFor desugars the Lua numeric for loop. Stop and step are
// hoisted into loop-local variables so each bound expression is evaluated
// exactly once, and the continuation test follows the sign of the step the
// way Lua's loop protocol does. The initializer uses let: each loop gets
// its own bindings, so nested loops cannot clobber an outer loop's bounds
// and shadowed loop variables stay independent, as they are in Lua.
func writeNumericFor(buf *bytes.Buffer, s *ast.NumericForStmt) error {
	start, err := exprString(s.Start)
	if err != nil {
		return err
	}
	stop, err := exprString(s.Stop)
	if err != nil {
		return err
	}

	name := s.Name
	if s.Step == nil {
		fmt.Fprintf(buf, "for (let %s = %s, __stop = %s; %s <= __stop; %s += 1) {\n",
			name, start, stop, name, name)
	} else {
		step, err := exprString(s.Step)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "for (let %s = %s, __stop = %s, __step = %s; __step >= 0 ? %s <= __stop : %s >= __stop; %s += __step) {\n",
			name, start, stop, step, name, name, name)
	}

	if err := writeNested(buf, s.Body); err != nil {
		return err
	}
	buf.WriteString("}\n")
	return nil
}

func writeFunctionDef(buf *bytes.Buffer, s *ast.FunctionDefStmt) error {
	if len(s.NamePath) > 1 || s.IsMethod {
		return unsupported(s, "dotted or method function name")
	}
	if s.Body.IsVararg {
		return unsupported(s, "variadic function parameters")
	}
	fmt.Fprintf(buf, "function %s(%s) {\n", s.NamePath[0], strings.Join(s.Body.Params, ", "))
	if err := writeNested(buf, s.Body.Body); err != nil {
		return err
	}
	buf.WriteString("}\n")
	return nil
}
