package lox

import (
	"errors"
)

var (
	ErrParse  = errors.New("parse error")
	ErrSyntax = errors.New("syntax error")
)

const maxArgs = 255

const (
	powLowest int = iota
	powAssign
	powOr
	powAnd
	powEqual
	powCompare
	powAdd
	powMul
	powUnary
	powCall
)

var bindings = map[rune]int{
	Assign: powAssign,
	Or:     powOr,
	And:    powAnd,
	Eq:     powEqual,
	Ne:     powEqual,
	Lt:     powCompare,
	Le:     powCompare,
	Gt:     powCompare,
	Ge:     powCompare,
	Add:    powAdd,
	Sub:    powAdd,
	Mul:    powMul,
	Div:    powMul,
	Lparen: powCall,
	Dot:    powCall,
}

type (
	prefixFunc func() (Expr, error)
	infixFunc  func(Expr) (Expr, error)
)

type Parser struct {
	prefix map[rune]prefixFunc
	infix  map[rune]infixFunc

	tokens []Token
	index  int
	prev   Token
	curr   Token

	report Reporter
	failed bool
}

func NewParser(tokens []Token, report Reporter) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != EOF {
		tokens = append(tokens, Token{Type: EOF})
	}
	if report == nil {
		report = NewReporter(nil)
	}
	p := Parser{
		tokens: tokens,
		report: report,
		prefix: make(map[rune]prefixFunc),
		infix:  make(map[rune]infixFunc),
	}

	p.registerPrefix(Not, p.parseUnary)
	p.registerPrefix(Sub, p.parseUnary)
	p.registerPrefix(Numeric, p.parseLiteral)
	p.registerPrefix(Text, p.parseLiteral)
	p.registerPrefix(True, p.parseBoolean)
	p.registerPrefix(False, p.parseBoolean)
	p.registerPrefix(NilKw, p.parseNil)
	p.registerPrefix(Ident, p.parseIdent)
	p.registerPrefix(Lparen, p.parseGroup)
	p.registerPrefix(This, p.parseThis)
	p.registerPrefix(Super, p.parseSuper)

	p.registerInfix(Assign, p.parseAssign)
	p.registerInfix(Or, p.parseLogical)
	p.registerInfix(And, p.parseLogical)
	p.registerInfix(Eq, p.parseBinary)
	p.registerInfix(Ne, p.parseBinary)
	p.registerInfix(Lt, p.parseBinary)
	p.registerInfix(Le, p.parseBinary)
	p.registerInfix(Gt, p.parseBinary)
	p.registerInfix(Ge, p.parseBinary)
	p.registerInfix(Add, p.parseBinary)
	p.registerInfix(Sub, p.parseBinary)
	p.registerInfix(Mul, p.parseBinary)
	p.registerInfix(Div, p.parseBinary)
	p.registerInfix(Lparen, p.parseCall)
	p.registerInfix(Dot, p.parseDot)

	p.curr = p.tokens[0]
	return &p
}

// Parse returns every declaration that parsed cleanly. When any error was
// reported, the returned error is ErrSyntax and the statements must not be run.
func (p *Parser) Parse() ([]Stmt, error) {
	var list []Stmt
	for !p.done() {
		if s := p.parseDeclaration(); s != nil {
			list = append(list, s)
		}
	}
	if p.failed {
		return list, ErrSyntax
	}
	return list, nil
}

func (p *Parser) parseDeclaration() Stmt {
	var (
		stmt Stmt
		err  error
	)
	switch p.curr.Type {
	case ClassKw:
		stmt, err = p.parseClass()
	case Fun:
		p.next()
		stmt, err = p.parseFunction("function")
	case Var:
		stmt, err = p.parseVar()
	default:
		stmt, err = p.parseStatement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseClass() (Stmt, error) {
	p.next()
	name, err := p.expect(Ident, "Expect class name.")
	if err != nil {
		return nil, err
	}
	stmt := ClassStmt{
		Name: name,
	}
	if p.is(Lt) {
		p.next()
		super, err := p.expect(Ident, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		stmt.Super = &Variable{
			Name: super,
		}
	}
	if _, err := p.expect(Lbrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	for !p.is(Rbrace) && !p.done() {
		fn, err := p.parseFunction("method")
		if err != nil {
			return nil, err
		}
		stmt.Methods = append(stmt.Methods, fn)
	}
	if _, err := p.expect(Rbrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parseFunction(kind string) (*FunctionStmt, error) {
	name, err := p.expect(Ident, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Lparen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	fn := FunctionStmt{
		Name: name,
	}
	if !p.is(Rparen) {
		for {
			if len(fn.Params) >= maxArgs {
				p.warn(p.curr, "Can't have more than 255 parameters.")
			}
			param, err := p.expect(Ident, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param)
			if !p.is(Comma) {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(Rparen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.expect(Lbrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	fn.Body, err = p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &fn, nil
}

func (p *Parser) parseVar() (Stmt, error) {
	p.next()
	name, err := p.expect(Ident, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	stmt := VarStmt{
		Name: name,
	}
	if p.is(Assign) {
		p.next()
		if stmt.Init, err = p.parseExpression(powLowest); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch p.curr.Type {
	case For:
		return p.parseFor()
	case If:
		return p.parseIf()
	case Print:
		return p.parsePrint()
	case Return:
		return p.parseReturn()
	case While:
		return p.parseWhile()
	case Lbrace:
		p.next()
		list, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: list}, nil
	default:
		return p.parseExprStmt()
	}
}

// parseBlock expects the opening brace to be already consumed.
func (p *Parser) parseBlock() ([]Stmt, error) {
	var list []Stmt
	for !p.is(Rbrace) && !p.done() {
		if s := p.parseDeclaration(); s != nil {
			list = append(list, s)
		}
	}
	if _, err := p.expect(Rbrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	p.next()
	if _, err := p.expect(Lparen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}
	var (
		setup Stmt
		cdt  Expr
		incr Expr
		err  error
	)
	switch {
	case p.is(Semicolon):
		p.next()
	case p.is(Var):
		setup, err = p.parseVar()
	default:
		setup, err = p.parseExprStmt()
	}
	if err != nil {
		return nil, err
	}
	if !p.is(Semicolon) {
		if cdt, err = p.parseExpression(powLowest); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}
	if !p.is(Rparen) {
		if incr, err = p.parseExpression(powLowest); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Rparen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if incr != nil {
		body = &BlockStmt{
			Stmts: []Stmt{body, &ExprStmt{Expr: incr}},
		}
	}
	if cdt == nil {
		cdt = &Literal{Value: Bool(true)}
	}
	body = &WhileStmt{
		Cdt:  cdt,
		Body: body,
	}
	if setup != nil {
		body = &BlockStmt{
			Stmts: []Stmt{setup, body},
		}
	}
	return body, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	p.next()
	if _, err := p.expect(Lparen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	var (
		stmt IfStmt
		err  error
	)
	if stmt.Cdt, err = p.parseExpression(powLowest); err != nil {
		return nil, err
	}
	if _, err := p.expect(Rparen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	if stmt.Csq, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if p.is(Else) {
		p.next()
		if stmt.Alt, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return &stmt, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	p.next()
	if _, err := p.expect(Lparen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	var (
		stmt WhileStmt
		err  error
	)
	if stmt.Cdt, err = p.parseExpression(powLowest); err != nil {
		return nil, err
	}
	if _, err := p.expect(Rparen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parsePrint() (Stmt, error) {
	p.next()
	expr, err := p.parseExpression(powLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: expr}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	stmt := ReturnStmt{
		Keyword: p.curr,
	}
	p.next()
	if !p.is(Semicolon) {
		expr, err := p.parseExpression(powLowest)
		if err != nil {
			return nil, err
		}
		stmt.Value = expr
	}
	if _, err := p.expect(Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parseExprStmt() (Stmt, error) {
	expr, err := p.parseExpression(powLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func (p *Parser) parseExpression(pow int) (Expr, error) {
	fn, ok := p.prefix[p.curr.Type]
	if !ok {
		return nil, p.error(p.curr, "Expect expression.")
	}
	left, err := fn()
	if err != nil {
		return nil, err
	}
	for pow < p.power() {
		fn, ok := p.infix[p.curr.Type]
		if !ok {
			break
		}
		if left, err = fn(left); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	expr := Unary{
		Op: p.curr,
	}
	p.next()
	right, err := p.parseExpression(powUnary)
	if err != nil {
		return nil, err
	}
	expr.Right = right
	return &expr, nil
}

func (p *Parser) parseLiteral() (Expr, error) {
	defer p.next()
	return &Literal{Value: p.curr.Literal}, nil
}

func (p *Parser) parseBoolean() (Expr, error) {
	defer p.next()
	return &Literal{Value: Bool(p.is(True))}, nil
}

func (p *Parser) parseNil() (Expr, error) {
	defer p.next()
	return &Literal{Value: Nil{}}, nil
}

func (p *Parser) parseIdent() (Expr, error) {
	defer p.next()
	return &Variable{Name: p.curr}, nil
}

func (p *Parser) parseThis() (Expr, error) {
	defer p.next()
	return &Self{Keyword: p.curr}, nil
}

func (p *Parser) parseSuper() (Expr, error) {
	expr := Base{
		Keyword: p.curr,
	}
	p.next()
	if _, err := p.expect(Dot, "Expect '.' after 'super'."); err != nil {
		return nil, err
	}
	method, err := p.expect(Ident, "Expect superclass method name.")
	if err != nil {
		return nil, err
	}
	expr.Method = method
	return &expr, nil
}

func (p *Parser) parseGroup() (Expr, error) {
	p.next()
	expr, err := p.parseExpression(powLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Rparen, "Expect ')' after expression."); err != nil {
		return nil, err
	}
	return &Grouping{Expr: expr}, nil
}

func (p *Parser) parseAssign(left Expr) (Expr, error) {
	equal := p.curr
	p.next()
	value, err := p.parseExpression(powAssign - 1)
	if err != nil {
		return nil, err
	}
	switch x := left.(type) {
	case *Variable:
		return &Assignment{Name: x.Name, Value: value}, nil
	case *Get:
		return &Set{Object: x.Object, Name: x.Name, Value: value}, nil
	default:
		p.warn(equal, "Invalid assignment target.")
		return value, nil
	}
}

func (p *Parser) parseLogical(left Expr) (Expr, error) {
	expr := Logical{
		Left: left,
		Op:   p.curr,
	}
	p.next()
	right, err := p.parseExpression(bindings[expr.Op.Type])
	if err != nil {
		return nil, err
	}
	expr.Right = right
	return &expr, nil
}

func (p *Parser) parseBinary(left Expr) (Expr, error) {
	expr := Binary{
		Left: left,
		Op:   p.curr,
	}
	p.next()
	right, err := p.parseExpression(bindings[expr.Op.Type])
	if err != nil {
		return nil, err
	}
	expr.Right = right
	return &expr, nil
}

func (p *Parser) parseCall(left Expr) (Expr, error) {
	p.next()
	call := Call{
		Callee: left,
	}
	if !p.is(Rparen) {
		for {
			if len(call.Args) >= maxArgs {
				p.warn(p.curr, "Can't have more than 255 arguments.")
			}
			arg, err := p.parseExpression(powLowest)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.is(Comma) {
				break
			}
			p.next()
		}
	}
	paren, err := p.expect(Rparen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	call.Paren = paren
	return &call, nil
}

func (p *Parser) parseDot(left Expr) (Expr, error) {
	p.next()
	name, err := p.expect(Ident, "Expect property name after '.'.")
	if err != nil {
		return nil, err
	}
	return &Get{Object: left, Name: name}, nil
}

func (p *Parser) registerPrefix(kind rune, fn prefixFunc) {
	p.prefix[kind] = fn
}

func (p *Parser) registerInfix(kind rune, fn infixFunc) {
	p.infix[kind] = fn
}

func (p *Parser) power() int {
	pow, ok := bindings[p.curr.Type]
	if !ok {
		return powLowest
	}
	return pow
}

// synchronize discards tokens until the start of the next statement.
func (p *Parser) synchronize() {
	p.next()
	for !p.done() {
		if p.prev.Type == Semicolon {
			return
		}
		switch p.curr.Type {
		case ClassKw, Fun, Var, For, If, While, Print, Return:
			return
		}
		p.next()
	}
}

func (p *Parser) expect(kind rune, msg string) (Token, error) {
	if !p.is(kind) {
		return p.curr, p.error(p.curr, msg)
	}
	tok := p.curr
	p.next()
	return tok, nil
}

func (p *Parser) error(tok Token, msg string) error {
	p.warn(tok, msg)
	return ErrParse
}

// warn reports an error without unwinding the parser.
func (p *Parser) warn(tok Token, msg string) {
	p.failed = true
	p.report.ErrorAt(tok, msg)
}

func (p *Parser) done() bool {
	return p.is(EOF)
}

func (p *Parser) is(kind rune) bool {
	return p.curr.Type == kind
}

func (p *Parser) next() {
	p.prev = p.curr
	if p.curr.Type != EOF && p.index < len(p.tokens)-1 {
		p.index++
		p.curr = p.tokens[p.index]
	}
}
