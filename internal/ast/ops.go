package ast

// UnaryOp identifies a unary operator.
type UnaryOp int

// Unary operators.
const (
	OpNeg    UnaryOp = iota // -
	OpNot                   // not
	OpLen                   // #
	OpBitNot                // ~
	OpPos                   // + (not produced by the parser; kept for tree builders)
)

var unaryOpNames = map[UnaryOp]string{
	OpNeg:    "-",
	OpNot:    "not",
	OpLen:    "#",
	OpBitNot: "~",
	OpPos:    "+",
}

func (op UnaryOp) String() string {
	if name, ok := unaryOpNames[op]; ok {
		return name
	}
	return "?"
}

// BinaryOp identifies a binary operator.
type BinaryOp int

// Binary operators.
const (
	OpAdd      BinaryOp = iota // +
	OpSub                      // -
	OpMul                      // *
	OpDiv                      // /
	OpFloorDiv                 // //
	OpMod                      // %
	OpPow                      // ^
	OpConcat                   // ..
	OpEq                       // ==
	OpNe                       // ~=
	OpLt                       // <
	OpLe                       // <=
	OpGt                       // >
	OpGe                       // >=
	OpAnd                      // and
	OpOr                       // or
	OpBitAnd                   // &
	OpBitOr                    // |
	OpBitXor                   // ~
	OpShl                      // <<
	OpShr                      // >>
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "^",
	OpConcat:   "..",
	OpEq:       "==",
	OpNe:       "~=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpAnd:      "and",
	OpOr:       "or",
	OpBitAnd:   "&",
	OpBitOr:    "|",
	OpBitXor:   "~",
	OpShl:      "<<",
	OpShr:      ">>",
}

func (op BinaryOp) String() string {
	if name, ok := binaryOpNames[op]; ok {
		return name
	}
	return "?"
}
