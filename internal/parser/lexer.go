package parser

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/luajs/internal/ast"
)

// Lexer tokenizes Lua source. It works on raw bytes so string literals
// survive byte-for-byte regardless of encoding.
type Lexer struct {
	input   []byte
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input []byte) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() ast.Position {
	return ast.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	pos := l.currentPos()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}, nil

	case isNameStart(l.ch):
		name := l.readName()
		return Token{Type: LookupName(name), Literal: name, Pos: pos}, nil

	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return l.readNumber(pos)

	case l.ch == '"' || l.ch == '\'':
		return l.readString(pos)

	case l.ch == '[' && (l.peekChar() == '[' || l.peekChar() == '='):
		if value, ok, err := l.readLongBracket(pos); err != nil {
			return Token{}, err
		} else if ok {
			return Token{Type: TokenString, Bytes: value, Pos: pos}, nil
		}
		// '[' not followed by a long-bracket opener: plain bracket.
		l.readChar()
		return Token{Type: TokenLBracket, Pos: pos}, nil
	}

	return l.readSymbol(pos)
}

// readSymbol reads an operator or delimiter token.
func (l *Lexer) readSymbol(pos ast.Position) (Token, error) {
	mk := func(t TokenType, n int) (Token, error) {
		for i := 0; i < n; i++ {
			l.readChar()
		}
		return Token{Type: t, Pos: pos}, nil
	}

	switch l.ch {
	case '+':
		return mk(TokenPlus, 1)
	case '-':
		return mk(TokenMinus, 1)
	case '*':
		return mk(TokenStar, 1)
	case '/':
		if l.peekChar() == '/' {
			return mk(TokenDSlash, 2)
		}
		return mk(TokenSlash, 1)
	case '%':
		return mk(TokenPercent, 1)
	case '^':
		return mk(TokenCaret, 1)
	case '#':
		return mk(TokenHash, 1)
	case '&':
		return mk(TokenAmp, 1)
	case '~':
		if l.peekChar() == '=' {
			return mk(TokenNe, 2)
		}
		return mk(TokenTilde, 1)
	case '|':
		return mk(TokenPipe, 1)
	case '<':
		switch l.peekChar() {
		case '<':
			return mk(TokenShl, 2)
		case '=':
			return mk(TokenLe, 2)
		}
		return mk(TokenLt, 1)
	case '>':
		switch l.peekChar() {
		case '>':
			return mk(TokenShr, 2)
		case '=':
			return mk(TokenGe, 2)
		}
		return mk(TokenGt, 1)
	case '=':
		if l.peekChar() == '=' {
			return mk(TokenEq, 2)
		}
		return mk(TokenAssign, 1)
	case '(':
		return mk(TokenLParen, 1)
	case ')':
		return mk(TokenRParen, 1)
	case '{':
		return mk(TokenLBrace, 1)
	case '}':
		return mk(TokenRBrace, 1)
	case '[':
		return mk(TokenLBracket, 1)
	case ']':
		return mk(TokenRBracket, 1)
	case ';':
		return mk(TokenSemicolon, 1)
	case ':':
		if l.peekChar() == ':' {
			return mk(TokenDColon, 2)
		}
		return mk(TokenColon, 1)
	case ',':
		return mk(TokenComma, 1)
	case '.':
		if l.peekChar() == '.' {
			l.readChar() // first '.'
			if l.peekChar() == '.' {
				return mk(TokenEllipsis, 2)
			}
			return mk(TokenConcat, 1)
		}
		return mk(TokenDot, 1)
	}

	return Token{}, &LexError{Pos: pos, Message: "unexpected character " + strconv.QuoteRune(rune(l.ch))}
}

// skipWhitespaceAndComments skips whitespace, line comments and long comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			pos := l.currentPos()
			l.readChar()
			l.readChar()
			if l.ch == '[' {
				if _, ok, err := l.readLongBracket(pos); err != nil {
					return err
				} else if ok {
					continue
				}
			}
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) readName() string {
	start := l.pos
	for isNameStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads a decimal or hexadecimal numeric literal.
func (l *Lexer) readNumber(pos ast.Position) (Token, error) {
	start := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '.' {
			l.readChar()
		}
		if l.ch == 'p' || l.ch == 'P' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	} else {
		for isDigit(l.ch) || l.ch == '.' {
			l.readChar()
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	lit := string(l.input[start:l.pos])
	value, err := parseNumber(lit)
	if err != nil {
		return Token{}, &LexError{Pos: pos, Message: ErrInvalidNumber + " " + strconv.Quote(lit)}
	}
	return Token{Type: TokenNumber, Literal: lit, Number: value, Pos: pos}, nil
}

// parseNumber converts a Lua numeric literal to a float64.
func parseNumber(lit string) (float64, error) {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		// Integer hex literals have no exponent; ParseFloat requires one
		// for the hex form, so try integer parsing first.
		if u, err := strconv.ParseUint(lit[2:], 16, 64); err == nil {
			return float64(u), nil
		}
		if !strings.ContainsAny(lit, "pP") {
			return strconv.ParseFloat(lit+"p0", 64)
		}
	}
	return strconv.ParseFloat(lit, 64)
}

// readString reads a single- or double-quoted string literal, decoding
// escape sequences into raw bytes.
func (l *Lexer) readString(pos ast.Position) (Token, error) {
	quote := l.ch
	l.readChar()

	var value []byte
	for l.ch != quote {
		switch l.ch {
		case 0, '\n':
			return Token{}, &LexError{Pos: pos, Message: ErrUnterminatedString}
		case '\\':
			b, err := l.readEscape()
			if err != nil {
				return Token{}, err
			}
			value = append(value, b...)
		default:
			value = append(value, l.ch)
			l.readChar()
		}
	}
	l.readChar() // closing quote

	return Token{Type: TokenString, Bytes: value, Pos: pos}, nil
}

// readEscape decodes one backslash escape sequence.
func (l *Lexer) readEscape() ([]byte, error) {
	pos := l.currentPos()
	l.readChar() // backslash

	switch ch := l.ch; ch {
	case 'a':
		l.readChar()
		return []byte{'\a'}, nil
	case 'b':
		l.readChar()
		return []byte{'\b'}, nil
	case 'f':
		l.readChar()
		return []byte{'\f'}, nil
	case 'n':
		l.readChar()
		return []byte{'\n'}, nil
	case 'r':
		l.readChar()
		return []byte{'\r'}, nil
	case 't':
		l.readChar()
		return []byte{'\t'}, nil
	case 'v':
		l.readChar()
		return []byte{'\v'}, nil
	case '\\', '"', '\'':
		l.readChar()
		return []byte{ch}, nil
	case '\n':
		l.readChar()
		return []byte{'\n'}, nil
	case 'x':
		l.readChar()
		var v byte
		for i := 0; i < 2; i++ {
			d, ok := hexValue(l.ch)
			if !ok {
				return nil, &LexError{Pos: pos, Message: ErrInvalidEscape}
			}
			v = v<<4 | d
			l.readChar()
		}
		return []byte{v}, nil
	case 'z':
		l.readChar()
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		return nil, nil
	default:
		if isDigit(ch) {
			v := 0
			for i := 0; i < 3 && isDigit(l.ch); i++ {
				v = v*10 + int(l.ch-'0')
				l.readChar()
			}
			if v > 255 {
				return nil, &LexError{Pos: pos, Message: ErrInvalidEscape}
			}
			return []byte{byte(v)}, nil
		}
		return nil, &LexError{Pos: pos, Message: ErrInvalidEscape}
	}
}

// readLongBracket reads a [[...]] or [=[...]=] form starting at '['.
// Returns ok=false without consuming input if the opener is not a long
// bracket (e.g. '[=' not followed by '[').
func (l *Lexer) readLongBracket(pos ast.Position) ([]byte, bool, error) {
	// Scan ahead for the opener without consuming.
	level := 0
	i := l.readPos
	for i < len(l.input) && l.input[i] == '=' {
		level++
		i++
	}
	if i >= len(l.input) || l.input[i] != '[' {
		return nil, false, nil
	}

	// Consume '[', the '=' run, and the second '['.
	for j := 0; j < level+2; j++ {
		l.readChar()
	}

	// A newline immediately after the opener is skipped.
	if l.ch == '\r' {
		l.readChar()
	}
	if l.ch == '\n' {
		l.readChar()
	}

	closer := "]" + strings.Repeat("=", level) + "]"
	var value []byte
	for {
		if l.ch == 0 {
			return nil, false, &LexError{Pos: pos, Message: "unterminated long bracket"}
		}
		if l.ch == ']' && l.pos+len(closer) <= len(l.input) && string(l.input[l.pos:l.pos+len(closer)]) == closer {
			for j := 0; j < len(closer); j++ {
				l.readChar()
			}
			return value, true, nil
		}
		value = append(value, l.ch)
		l.readChar()
	}
}

func isNameStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func hexValue(ch byte) (byte, bool) {
	switch {
	case isDigit(ch):
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}
