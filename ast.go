package lox

// Expr and Stmt are closed: only the types in this file implement them.
type Expr interface {
	expr()
}

type Stmt interface {
	stmt()
}

type Literal struct {
	Value Value
}

type Unary struct {
	Op    Token
	Right Expr
}

type Binary struct {
	Left  Expr
	Op    Token
	Right Expr
}

type Logical struct {
	Left  Expr
	Op    Token
	Right Expr
}

type Grouping struct {
	Expr Expr
}

type Variable struct {
	Name Token
}

type Assignment struct {
	Name  Token
	Value Expr
}

type Call struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

type Get struct {
	Object Expr
	Name   Token
}

type Set struct {
	Object Expr
	Name   Token
	Value  Expr
}

type Self struct {
	Keyword Token
}

type Base struct {
	Keyword Token
	Method  Token
}

func (*Literal) expr()    {}
func (*Unary) expr()      {}
func (*Binary) expr()     {}
func (*Logical) expr()    {}
func (*Grouping) expr()   {}
func (*Variable) expr()   {}
func (*Assignment) expr() {}
func (*Call) expr()       {}
func (*Get) expr()        {}
func (*Set) expr()        {}
func (*Self) expr()       {}
func (*Base) expr()       {}

type ExprStmt struct {
	Expr Expr
}

type PrintStmt struct {
	Expr Expr
}

type VarStmt struct {
	Name Token
	Init Expr
}

type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Cdt Expr
	Csq Stmt
	Alt Stmt
}

type WhileStmt struct {
	Cdt  Expr
	Body Stmt
}

type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

type ClassStmt struct {
	Name    Token
	Super   *Variable
	Methods []*FunctionStmt
}

func (*ExprStmt) stmt()     {}
func (*PrintStmt) stmt()    {}
func (*VarStmt) stmt()      {}
func (*BlockStmt) stmt()    {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*FunctionStmt) stmt() {}
func (*ReturnStmt) stmt()   {}
func (*ClassStmt) stmt()    {}
