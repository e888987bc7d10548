// Package ast defines the Lua syntax tree produced by the parser and
// consumed by the transpiler. Nodes are plain data: the parser builds
// them, everything downstream only reads them.
package ast

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Stmt represents a Lua statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents a Lua expression.
type Expr interface {
	Node
	exprNode()
}

// Node is implemented by every syntax tree node.
type Node interface {
	Position() Position
}

// NodeInfo provides the source position for all AST nodes.
// Embed this in every node type.
type NodeInfo struct {
	Pos Position
}

// Position returns the node's source position.
func (n *NodeInfo) Position() Position {
	return n.Pos
}

// ---------- Blocks ----------

// Block is an ordered sequence of statements plus an optional trailing return.
type Block struct {
	NodeInfo
	Statements []Stmt
	Return     *ReturnStmt // nil if the block has no return statement
}

// ReturnStmt is the trailing return of a block, carrying zero or more values.
type ReturnStmt struct {
	NodeInfo
	Values []Expr
}

// FuncBody is the parameter list and body shared by all function forms.
type FuncBody struct {
	NodeInfo
	Params   []string
	IsVararg bool // true if the parameter list ends with '...'
	Body     *Block
}

// ---------- Statement Types ----------

// EmptyStmt is a bare ';'.
type EmptyStmt struct {
	NodeInfo
}

// AssignStmt is an assignment: target list '=' value list.
type AssignStmt struct {
	NodeInfo
	Targets []Expr // Ident or IndexExpr
	Values  []Expr
}

// LocalStmt is a local declaration: 'local' name list ['=' value list].
type LocalStmt struct {
	NodeInfo
	Names  []string
	Values []Expr // nil if the declaration has no initializer
}

// IfStmt is an if/elseif*/else chain.
type IfStmt struct {
	NodeInfo
	Cond    Expr
	Body    *Block
	ElseIfs []ElseIf
	Else    *Block // nil if there is no else branch
}

// ElseIf is one 'elseif' branch of an IfStmt.
type ElseIf struct {
	Cond Expr
	Body *Block
}

// WhileStmt is a 'while' loop.
type WhileStmt struct {
	NodeInfo
	Cond Expr
	Body *Block
}

// RepeatStmt is a 'repeat' .. 'until' loop.
type RepeatStmt struct {
	NodeInfo
	Body *Block
	Cond Expr
}

// NumericForStmt is a numeric 'for' loop: for name = start, stop [, step] do.
type NumericForStmt struct {
	NodeInfo
	Name  string
	Start Expr
	Stop  Expr
	Step  Expr // nil if the step is omitted (defaults to 1)
	Body  *Block
}

// GenericForStmt is a generic 'for' loop: for name list in expr list do.
type GenericForStmt struct {
	NodeInfo
	Names []string
	Exprs []Expr
	Body  *Block
}

// BreakStmt is a 'break'.
type BreakStmt struct {
	NodeInfo
}

// DoStmt is a scoped 'do' .. 'end' block.
type DoStmt struct {
	NodeInfo
	Body *Block
}

// CallStmt is a function call used as a statement.
type CallStmt struct {
	NodeInfo
	Call *CallExpr
}

// FunctionDefStmt is a named function definition:
// 'function' Name {'.' Name} [':' Name] funcbody.
// NamePath holds the dotted name parts; IsMethod is true for the colon form,
// in which case the method name is the last NamePath element.
type FunctionDefStmt struct {
	NodeInfo
	NamePath []string
	IsMethod bool
	Body     *FuncBody
}

// LocalFunctionStmt is a 'local function' definition.
type LocalFunctionStmt struct {
	NodeInfo
	Name string
	Body *FuncBody
}

// GotoStmt is a 'goto' statement.
type GotoStmt struct {
	NodeInfo
	Label string
}

// LabelStmt is a '::name::' label.
type LabelStmt struct {
	NodeInfo
	Name string
}

func (*EmptyStmt) stmtNode()         {}
func (*AssignStmt) stmtNode()        {}
func (*LocalStmt) stmtNode()         {}
func (*IfStmt) stmtNode()            {}
func (*WhileStmt) stmtNode()         {}
func (*RepeatStmt) stmtNode()        {}
func (*NumericForStmt) stmtNode()    {}
func (*GenericForStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()         {}
func (*DoStmt) stmtNode()            {}
func (*CallStmt) stmtNode()          {}
func (*FunctionDefStmt) stmtNode()   {}
func (*LocalFunctionStmt) stmtNode() {}
func (*GotoStmt) stmtNode()          {}
func (*LabelStmt) stmtNode()         {}

// ---------- Expression Types ----------

// Ident is a bare name.
type Ident struct {
	NodeInfo
	Name string
}

// NilExpr is the 'nil' literal.
type NilExpr struct {
	NodeInfo
}

// BoolExpr is a 'true' or 'false' literal.
type BoolExpr struct {
	NodeInfo
	Value bool
}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	NodeInfo
	Value float64
}

// StringExpr is a string literal. The value is the decoded byte sequence,
// which need not be valid UTF-8.
type StringExpr struct {
	NodeInfo
	Value []byte
}

// UnaryExpr is a unary operation.
type UnaryExpr struct {
	NodeInfo
	Op      UnaryOp
	Operand Expr
}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	NodeInfo
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

// CallExpr is a function or method call. For the method form 'obj:m(args)',
// Target is the receiver expression and Method holds the method name;
// otherwise Method is empty and Target is the callee.
type CallExpr struct {
	NodeInfo
	Target Expr
	Method string
	Args   []Expr
}

// TableExpr is a table constructor.
type TableExpr struct {
	NodeInfo
	Fields []TableField
}

// IndexExpr is a table index: target '[' key ']'. Dot access 'a.b' is
// desugared by the parser to an index with a string key.
type IndexExpr struct {
	NodeInfo
	Target Expr
	Key    Expr
}

// FunctionExpr is an anonymous function used as an expression.
type FunctionExpr struct {
	NodeInfo
	Body *FuncBody
}

// VarargExpr is the '...' expression.
type VarargExpr struct {
	NodeInfo
}

func (*Ident) exprNode()        {}
func (*NilExpr) exprNode()      {}
func (*BoolExpr) exprNode()     {}
func (*NumberExpr) exprNode()   {}
func (*StringExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*TableExpr) exprNode()    {}
func (*IndexExpr) exprNode()    {}
func (*FunctionExpr) exprNode() {}
func (*VarargExpr) exprNode()   {}

// ---------- Table Fields ----------

// TableField represents one field of a table constructor.
type TableField interface {
	tableFieldNode()
}

// KeyField is a '[key] = value' field.
type KeyField struct {
	Key   Expr
	Value Expr
}

// NameField is a 'name = value' field.
type NameField struct {
	Name  string
	Value Expr
}

// ValueField is a positional field without a key.
type ValueField struct {
	Value Expr
}

func (*KeyField) tableFieldNode()   {}
func (*NameField) tableFieldNode()  {}
func (*ValueField) tableFieldNode() {}
