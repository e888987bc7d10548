// Package transpiler converts a restricted subset of the Lua syntax tree
// into equivalent JavaScript source text. Anything outside the subset is
// rejected with a typed error rather than mis-translated.
//
// # Usage
//
//	block, err := parser.Parse(src)
//	if err != nil {
//	    // handle parse error
//	}
//	js, err := transpiler.Translate(block)
//
// Translation is a single depth-first pass over the tree. A call owns its
// output buffer, so independent translations may run concurrently.
package transpiler

import (
	"bytes"

	"github.com/leapstack-labs/luajs/internal/ast"
)

// Translate converts a parsed Lua block into JavaScript source text.
// On failure it returns either an *UnsupportedConstructError or an
// *IllegalIdentifierError and no output; the first offending node aborts
// the whole translation.
func Translate(block *ast.Block) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBlock(&buf, block); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
