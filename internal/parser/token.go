package parser

import (
	"fmt"

	"github.com/leapstack-labs/luajs/internal/ast"
)

// TokenType identifies the type of a lexical token.
type TokenType int

// Token types.
const (
	TokenEOF TokenType = iota

	// Literals
	TokenName   // identifier
	TokenNumber // numeric literal
	TokenString // string literal

	// Keywords
	TokenAnd
	TokenBreak
	TokenDo
	TokenElse
	TokenElseif
	TokenEnd
	TokenFalse
	TokenFor
	TokenFunction
	TokenGoto
	TokenIf
	TokenIn
	TokenLocal
	TokenNil
	TokenNot
	TokenOr
	TokenRepeat
	TokenReturn
	TokenThen
	TokenTrue
	TokenUntil
	TokenWhile

	// Operators and delimiters
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenDSlash    // //
	TokenPercent   // %
	TokenCaret     // ^
	TokenHash      // #
	TokenAmp       // &
	TokenTilde     // ~
	TokenPipe      // |
	TokenShl       // <<
	TokenShr       // >>
	TokenEq        // ==
	TokenNe        // ~=
	TokenLe        // <=
	TokenGe        // >=
	TokenLt        // <
	TokenGt        // >
	TokenAssign    // =
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenDColon    // ::
	TokenSemicolon // ;
	TokenColon     // :
	TokenComma     // ,
	TokenDot       // .
	TokenConcat    // ..
	TokenEllipsis  // ...
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "<eof>",
	TokenName:      "name",
	TokenNumber:    "number",
	TokenString:    "string",
	TokenAnd:       "and",
	TokenBreak:     "break",
	TokenDo:        "do",
	TokenElse:      "else",
	TokenElseif:    "elseif",
	TokenEnd:       "end",
	TokenFalse:     "false",
	TokenFor:       "for",
	TokenFunction:  "function",
	TokenGoto:      "goto",
	TokenIf:        "if",
	TokenIn:        "in",
	TokenLocal:     "local",
	TokenNil:       "nil",
	TokenNot:       "not",
	TokenOr:        "or",
	TokenRepeat:    "repeat",
	TokenReturn:    "return",
	TokenThen:      "then",
	TokenTrue:      "true",
	TokenUntil:     "until",
	TokenWhile:     "while",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenDSlash:    "//",
	TokenPercent:   "%",
	TokenCaret:     "^",
	TokenHash:      "#",
	TokenAmp:       "&",
	TokenTilde:     "~",
	TokenPipe:      "|",
	TokenShl:       "<<",
	TokenShr:       ">>",
	TokenEq:        "==",
	TokenNe:        "~=",
	TokenLe:        "<=",
	TokenGe:        ">=",
	TokenLt:        "<",
	TokenGt:        ">",
	TokenAssign:    "=",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenDColon:    "::",
	TokenSemicolon: ";",
	TokenColon:     ":",
	TokenComma:     ",",
	TokenDot:       ".",
	TokenConcat:    "..",
	TokenEllipsis:  "...",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"and":      TokenAnd,
	"break":    TokenBreak,
	"do":       TokenDo,
	"else":     TokenElse,
	"elseif":   TokenElseif,
	"end":      TokenEnd,
	"false":    TokenFalse,
	"for":      TokenFor,
	"function": TokenFunction,
	"goto":     TokenGoto,
	"if":       TokenIf,
	"in":       TokenIn,
	"local":    TokenLocal,
	"nil":      TokenNil,
	"not":      TokenNot,
	"or":       TokenOr,
	"repeat":   TokenRepeat,
	"return":   TokenReturn,
	"then":     TokenThen,
	"true":     TokenTrue,
	"until":    TokenUntil,
	"while":    TokenWhile,
}

// LookupName returns the keyword token type for an identifier, or TokenName.
func LookupName(name string) TokenType {
	if t, ok := keywords[name]; ok {
		return t
	}
	return TokenName
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string  // raw text for names and numbers
	Bytes   []byte  // decoded value for string literals
	Number  float64 // parsed value for number literals
	Pos     ast.Position
}

func (t Token) String() string {
	switch t.Type {
	case TokenName, TokenNumber:
		return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
	case TokenString:
		return fmt.Sprintf("string(%q)", t.Bytes)
	default:
		return t.Type.String()
	}
}
