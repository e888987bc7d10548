// Package parser provides Lua lexing and parsing.
//
// # Usage
//
//	block, err := parser.Parse(src)
//	if err != nil {
//	    // handle error
//	}
//
// The parser covers the full Lua 5.x statement and expression surface,
// including forms later stages may reject. Parsing stops at the first error.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/luajs/internal/ast"
)

// Parser parses Lua source into an AST.
type Parser struct {
	lexer *Lexer
	token Token // current token
	peek  Token // lookahead token
	err   error // first error; once set, parsing unwinds
}

// NewParser creates a new parser for the given source.
func NewParser(src []byte) *Parser {
	p := &Parser{lexer: NewLexer(src)}
	// Read two tokens to initialize current and peek.
	p.next()
	p.next()
	return p
}

// Parse parses a complete Lua chunk and returns its top-level block.
func Parse(src []byte) (*ast.Block, error) {
	p := NewParser(src)
	block := p.parseBlock()
	if p.err == nil && !p.check(TokenEOF) {
		p.errorf(p.token.Pos, ErrUnexpectedToken, p.token, TokenEOF)
	}
	if p.err != nil {
		return nil, p.err
	}
	return block, nil
}

// ParseExpr parses a single expression followed by end of input.
func ParseExpr(src []byte) (ast.Expr, error) {
	p := NewParser(src)
	expr := p.parseExpr()
	if p.err == nil && !p.check(TokenEOF) {
		p.errorf(p.token.Pos, ErrUnexpectedToken, p.token, TokenEOF)
	}
	if p.err != nil {
		return nil, p.err
	}
	return expr, nil
}

// ---------- Token Helpers ----------

// next advances to the next token. Lexer errors become the parser's sticky
// error and leave the current token at EOF so callers unwind.
func (p *Parser) next() {
	if p.err != nil {
		p.token = Token{Type: TokenEOF, Pos: p.token.Pos}
		return
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.err = err
		tok = Token{Type: TokenEOF, Pos: p.peek.Pos}
	}
	p.token = p.peek
	p.peek = tok
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.next()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise records an error.
func (p *Parser) expect(t TokenType) Token {
	tok := p.token
	if !p.check(t) {
		p.errorf(tok.Pos, ErrUnexpectedToken, tok, t)
		return tok
	}
	p.next()
	return tok
}

// errorf records the first parse error.
func (p *Parser) errorf(pos ast.Position, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	p.token = Token{Type: TokenEOF, Pos: pos}
	p.peek = p.token
}

// failed reports whether parsing has already gone wrong.
func (p *Parser) failed() bool {
	return p.err != nil
}

// ---------- Blocks and Statements ----------

// blockFollow reports whether the current token ends a block.
func (p *Parser) blockFollow() bool {
	switch p.token.Type {
	case TokenEOF, TokenEnd, TokenElse, TokenElseif, TokenUntil:
		return true
	}
	return false
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{NodeInfo: ast.NodeInfo{Pos: p.token.Pos}}

	for !p.blockFollow() && !p.failed() {
		if p.check(TokenReturn) {
			block.Return = p.parseReturn()
			break
		}
		block.Statements = append(block.Statements, p.parseStatement())
	}

	return block
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	ret := &ast.ReturnStmt{NodeInfo: ast.NodeInfo{Pos: p.token.Pos}}
	p.expect(TokenReturn)

	if !p.blockFollow() && !p.check(TokenSemicolon) {
		ret.Values = p.parseExprList()
	}
	p.match(TokenSemicolon)
	return ret
}

func (p *Parser) parseStatement() ast.Stmt {
	pos := p.token.Pos

	switch p.token.Type {
	case TokenSemicolon:
		p.next()
		return &ast.EmptyStmt{NodeInfo: ast.NodeInfo{Pos: pos}}

	case TokenIf:
		return p.parseIf()

	case TokenWhile:
		p.next()
		cond := p.parseExpr()
		p.expect(TokenDo)
		body := p.parseBlock()
		p.expect(TokenEnd)
		return &ast.WhileStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Cond: cond, Body: body}

	case TokenDo:
		p.next()
		body := p.parseBlock()
		p.expect(TokenEnd)
		return &ast.DoStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Body: body}

	case TokenFor:
		return p.parseFor()

	case TokenRepeat:
		p.next()
		body := p.parseBlock()
		p.expect(TokenUntil)
		cond := p.parseExpr()
		return &ast.RepeatStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Body: body, Cond: cond}

	case TokenFunction:
		return p.parseFunctionDef()

	case TokenLocal:
		return p.parseLocal()

	case TokenBreak:
		p.next()
		return &ast.BreakStmt{NodeInfo: ast.NodeInfo{Pos: pos}}

	case TokenGoto:
		p.next()
		label := p.expect(TokenName)
		return &ast.GotoStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Label: label.Literal}

	case TokenDColon:
		p.next()
		name := p.expect(TokenName)
		p.expect(TokenDColon)
		return &ast.LabelStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Name: name.Literal}

	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.token.Pos
	p.expect(TokenIf)
	cond := p.parseExpr()
	p.expect(TokenThen)
	body := p.parseBlock()

	stmt := &ast.IfStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Cond: cond, Body: body}

	for p.check(TokenElseif) && !p.failed() {
		p.next()
		branchCond := p.parseExpr()
		p.expect(TokenThen)
		branchBody := p.parseBlock()
		stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIf{Cond: branchCond, Body: branchBody})
	}

	if p.match(TokenElse) {
		stmt.Else = p.parseBlock()
	}

	p.expect(TokenEnd)
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.token.Pos
	p.expect(TokenFor)
	first := p.expect(TokenName)

	// Numeric form: for name = start, stop [, step] do ... end
	if p.match(TokenAssign) {
		start := p.parseExpr()
		p.expect(TokenComma)
		stop := p.parseExpr()
		var step ast.Expr
		if p.match(TokenComma) {
			step = p.parseExpr()
		}
		p.expect(TokenDo)
		body := p.parseBlock()
		p.expect(TokenEnd)
		return &ast.NumericForStmt{
			NodeInfo: ast.NodeInfo{Pos: pos},
			Name:     first.Literal,
			Start:    start,
			Stop:     stop,
			Step:     step,
			Body:     body,
		}
	}

	// Generic form: for name {, name} in explist do ... end
	names := []string{first.Literal}
	for p.match(TokenComma) {
		names = append(names, p.expect(TokenName).Literal)
	}
	p.expect(TokenIn)
	exprs := p.parseExprList()
	p.expect(TokenDo)
	body := p.parseBlock()
	p.expect(TokenEnd)
	return &ast.GenericForStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Names: names, Exprs: exprs, Body: body}
}

func (p *Parser) parseFunctionDef() ast.Stmt {
	pos := p.token.Pos
	p.expect(TokenFunction)

	namePath := []string{p.expect(TokenName).Literal}
	for p.match(TokenDot) {
		namePath = append(namePath, p.expect(TokenName).Literal)
	}
	isMethod := false
	if p.match(TokenColon) {
		namePath = append(namePath, p.expect(TokenName).Literal)
		isMethod = true
	}

	body := p.parseFuncBody()
	return &ast.FunctionDefStmt{
		NodeInfo: ast.NodeInfo{Pos: pos},
		NamePath: namePath,
		IsMethod: isMethod,
		Body:     body,
	}
}

func (p *Parser) parseLocal() ast.Stmt {
	pos := p.token.Pos
	p.expect(TokenLocal)

	if p.match(TokenFunction) {
		name := p.expect(TokenName)
		body := p.parseFuncBody()
		return &ast.LocalFunctionStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Name: name.Literal, Body: body}
	}

	names := []string{p.expect(TokenName).Literal}
	for p.match(TokenComma) {
		names = append(names, p.expect(TokenName).Literal)
	}

	stmt := &ast.LocalStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Names: names}
	if p.match(TokenAssign) {
		stmt.Values = p.parseExprList()
	}
	return stmt
}

// parseExprStatement parses an assignment or a call statement, both of which
// begin with a suffixed expression.
func (p *Parser) parseExprStatement() ast.Stmt {
	pos := p.token.Pos
	first := p.parseSuffixedExpr()

	if p.check(TokenAssign) || p.check(TokenComma) {
		targets := []ast.Expr{first}
		for p.match(TokenComma) {
			targets = append(targets, p.parseSuffixedExpr())
		}
		p.expect(TokenAssign)
		values := p.parseExprList()

		for _, target := range targets {
			switch target.(type) {
			case *ast.Ident, *ast.IndexExpr:
			default:
				p.errorf(target.Position(), "cannot assign to this expression")
			}
		}
		return &ast.AssignStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Targets: targets, Values: values}
	}

	call, ok := first.(*ast.CallExpr)
	if !ok {
		p.errorf(pos, "syntax error: expression is not a statement")
		return &ast.EmptyStmt{NodeInfo: ast.NodeInfo{Pos: pos}}
	}
	return &ast.CallStmt{NodeInfo: ast.NodeInfo{Pos: pos}, Call: call}
}

// ---------- Expressions ----------

// binaryPrec holds Lua 5.4 operator priorities. Right-associative operators
// ('..' and '^') have a lower right priority than left.
var binaryPrec = map[TokenType]struct {
	left  int
	right int
	op    ast.BinaryOp
}{
	TokenOr:      {1, 1, ast.OpOr},
	TokenAnd:     {2, 2, ast.OpAnd},
	TokenLt:      {3, 3, ast.OpLt},
	TokenGt:      {3, 3, ast.OpGt},
	TokenLe:      {3, 3, ast.OpLe},
	TokenGe:      {3, 3, ast.OpGe},
	TokenNe:      {3, 3, ast.OpNe},
	TokenEq:      {3, 3, ast.OpEq},
	TokenPipe:    {4, 4, ast.OpBitOr},
	TokenTilde:   {5, 5, ast.OpBitXor},
	TokenAmp:     {6, 6, ast.OpBitAnd},
	TokenShl:     {7, 7, ast.OpShl},
	TokenShr:     {7, 7, ast.OpShr},
	TokenConcat:  {9, 8, ast.OpConcat},
	TokenPlus:    {10, 10, ast.OpAdd},
	TokenMinus:   {10, 10, ast.OpSub},
	TokenStar:    {11, 11, ast.OpMul},
	TokenSlash:   {11, 11, ast.OpDiv},
	TokenDSlash:  {11, 11, ast.OpFloorDiv},
	TokenPercent: {11, 11, ast.OpMod},
	TokenCaret:   {14, 13, ast.OpPow},
}

// unaryPrec is the priority of all unary operators.
const unaryPrec = 12

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinExpr(0)
}

// parseBinExpr implements precedence climbing: it parses an expression whose
// binary operators all bind tighter than limit.
func (p *Parser) parseBinExpr(limit int) ast.Expr {
	var left ast.Expr

	if op, ok := unaryOp(p.token.Type); ok {
		pos := p.token.Pos
		p.next()
		operand := p.parseBinExpr(unaryPrec)
		left = &ast.UnaryExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Op: op, Operand: operand}
	} else {
		left = p.parseSimpleExpr()
	}

	for !p.failed() {
		prec, ok := binaryPrec[p.token.Type]
		if !ok || prec.left <= limit {
			break
		}
		pos := p.token.Pos
		p.next()
		right := p.parseBinExpr(prec.right)
		left = &ast.BinaryExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Op: prec.op, LHS: left, RHS: right}
	}

	return left
}

func unaryOp(t TokenType) (ast.UnaryOp, bool) {
	switch t {
	case TokenMinus:
		return ast.OpNeg, true
	case TokenNot:
		return ast.OpNot, true
	case TokenHash:
		return ast.OpLen, true
	case TokenTilde:
		return ast.OpBitNot, true
	}
	return 0, false
}

func (p *Parser) parseSimpleExpr() ast.Expr {
	pos := p.token.Pos

	switch p.token.Type {
	case TokenNil:
		p.next()
		return &ast.NilExpr{NodeInfo: ast.NodeInfo{Pos: pos}}
	case TokenTrue:
		p.next()
		return &ast.BoolExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Value: true}
	case TokenFalse:
		p.next()
		return &ast.BoolExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Value: false}
	case TokenNumber:
		value := p.token.Number
		p.next()
		return &ast.NumberExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Value: value}
	case TokenString:
		value := p.token.Bytes
		p.next()
		return &ast.StringExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Value: value}
	case TokenEllipsis:
		p.next()
		return &ast.VarargExpr{NodeInfo: ast.NodeInfo{Pos: pos}}
	case TokenFunction:
		p.next()
		body := p.parseFuncBody()
		return &ast.FunctionExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Body: body}
	case TokenLBrace:
		return p.parseTable()
	default:
		return p.parseSuffixedExpr()
	}
}

// parsePrimaryExpr parses a name or a parenthesized expression.
func (p *Parser) parsePrimaryExpr() ast.Expr {
	pos := p.token.Pos

	switch p.token.Type {
	case TokenName:
		name := p.token.Literal
		p.next()
		return &ast.Ident{NodeInfo: ast.NodeInfo{Pos: pos}, Name: name}
	case TokenLParen:
		p.next()
		expr := p.parseExpr()
		p.expect(TokenRParen)
		return expr
	default:
		p.errorf(pos, ErrUnexpectedToken, p.token, "expression")
		return &ast.NilExpr{NodeInfo: ast.NodeInfo{Pos: pos}}
	}
}

// parseSuffixedExpr parses a primary expression followed by any number of
// index, member, call, and method-call suffixes.
func (p *Parser) parseSuffixedExpr() ast.Expr {
	expr := p.parsePrimaryExpr()

	for !p.failed() {
		pos := p.token.Pos

		switch p.token.Type {
		case TokenDot:
			p.next()
			name := p.expect(TokenName)
			// Member access is index sugar: a.b == a["b"].
			expr = &ast.IndexExpr{
				NodeInfo: ast.NodeInfo{Pos: pos},
				Target:   expr,
				Key:      &ast.StringExpr{NodeInfo: ast.NodeInfo{Pos: name.Pos}, Value: []byte(name.Literal)},
			}

		case TokenLBracket:
			p.next()
			key := p.parseExpr()
			p.expect(TokenRBracket)
			expr = &ast.IndexExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Target: expr, Key: key}

		case TokenColon:
			p.next()
			method := p.expect(TokenName)
			args := p.parseCallArgs()
			expr = &ast.CallExpr{
				NodeInfo: ast.NodeInfo{Pos: pos},
				Target:   expr,
				Method:   method.Literal,
				Args:     args,
			}

		case TokenLParen, TokenString, TokenLBrace:
			args := p.parseCallArgs()
			expr = &ast.CallExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Target: expr, Args: args}

		default:
			return expr
		}
	}

	return expr
}

// parseCallArgs parses call arguments: '(' [explist] ')', a lone string
// literal, or a lone table constructor.
func (p *Parser) parseCallArgs() []ast.Expr {
	switch p.token.Type {
	case TokenLParen:
		p.next()
		var args []ast.Expr
		if !p.check(TokenRParen) {
			args = p.parseExprList()
		}
		p.expect(TokenRParen)
		return args

	case TokenString:
		pos := p.token.Pos
		value := p.token.Bytes
		p.next()
		return []ast.Expr{&ast.StringExpr{NodeInfo: ast.NodeInfo{Pos: pos}, Value: value}}

	case TokenLBrace:
		return []ast.Expr{p.parseTable()}

	default:
		p.errorf(p.token.Pos, ErrUnexpectedToken, p.token, "call arguments")
		return nil
	}
}

func (p *Parser) parseTable() ast.Expr {
	pos := p.token.Pos
	p.expect(TokenLBrace)

	table := &ast.TableExpr{NodeInfo: ast.NodeInfo{Pos: pos}}
	for !p.check(TokenRBrace) && !p.failed() {
		table.Fields = append(table.Fields, p.parseTableField())

		if !p.match(TokenComma) && !p.match(TokenSemicolon) {
			break
		}
	}

	p.expect(TokenRBrace)
	return table
}

func (p *Parser) parseTableField() ast.TableField {
	switch {
	case p.check(TokenLBracket):
		p.next()
		key := p.parseExpr()
		p.expect(TokenRBracket)
		p.expect(TokenAssign)
		return &ast.KeyField{Key: key, Value: p.parseExpr()}

	case p.check(TokenName) && p.checkPeek(TokenAssign):
		name := p.expect(TokenName)
		p.expect(TokenAssign)
		return &ast.NameField{Name: name.Literal, Value: p.parseExpr()}

	default:
		return &ast.ValueField{Value: p.parseExpr()}
	}
}

func (p *Parser) parseFuncBody() *ast.FuncBody {
	body := &ast.FuncBody{NodeInfo: ast.NodeInfo{Pos: p.token.Pos}}
	p.expect(TokenLParen)

	for !p.check(TokenRParen) && !p.failed() {
		if p.match(TokenEllipsis) {
			body.IsVararg = true
			break
		}
		body.Params = append(body.Params, p.expect(TokenName).Literal)
		if !p.match(TokenComma) {
			break
		}
	}

	p.expect(TokenRParen)
	body.Body = p.parseBlock()
	p.expect(TokenEnd)
	return body
}

func (p *Parser) parseExprList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpr()}
	for p.match(TokenComma) && !p.failed() {
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}
