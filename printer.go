package lox

import (
	"fmt"
	"strings"
)

// Sprint renders an expression, a statement or a list of statements as
// parenthesized prefix text.
func Sprint(node any) string {
	var str strings.Builder
	printNode(&str, node)
	return str.String()
}

func printNode(str *strings.Builder, node any) {
	switch n := node.(type) {
	case []Stmt:
		for i, s := range n {
			if i > 0 {
				str.WriteString("\n")
			}
			printNode(str, s)
		}
	case *Literal:
		if s, ok := n.Value.(String); ok {
			fmt.Fprintf(str, "%q", string(s))
			return
		}
		str.WriteString(stringify(n.Value))
	case *Grouping:
		parens(str, "group", n.Expr)
	case *Unary:
		parens(str, n.Op.Lexeme, n.Right)
	case *Binary:
		parens(str, n.Op.Lexeme, n.Left, n.Right)
	case *Logical:
		parens(str, n.Op.Lexeme, n.Left, n.Right)
	case *Variable:
		str.WriteString(n.Name.Lexeme)
	case *Assignment:
		parens(str, "=", n.Name.Lexeme, n.Value)
	case *Call:
		list := []any{n.Callee}
		for _, a := range n.Args {
			list = append(list, a)
		}
		parens(str, "call", list...)
	case *Get:
		parens(str, ".", n.Object, n.Name.Lexeme)
	case *Set:
		parens(str, "=", &Get{Object: n.Object, Name: n.Name}, n.Value)
	case *Self:
		str.WriteString("this")
	case *Base:
		parens(str, "super", n.Method.Lexeme)
	case *ExprStmt:
		parens(str, ";", n.Expr)
	case *PrintStmt:
		parens(str, "print", n.Expr)
	case *VarStmt:
		if n.Init == nil {
			parens(str, "var", n.Name.Lexeme)
			return
		}
		parens(str, "var", n.Name.Lexeme, "=", n.Init)
	case *BlockStmt:
		list := make([]any, 0, len(n.Stmts))
		for _, s := range n.Stmts {
			list = append(list, s)
		}
		parens(str, "block", list...)
	case *IfStmt:
		if n.Alt == nil {
			parens(str, "if", n.Cdt, n.Csq)
			return
		}
		parens(str, "if-else", n.Cdt, n.Csq, n.Alt)
	case *WhileStmt:
		parens(str, "while", n.Cdt, n.Body)
	case *FunctionStmt:
		printFunction(str, n)
	case *ReturnStmt:
		if n.Value == nil {
			str.WriteString("(return)")
			return
		}
		parens(str, "return", n.Value)
	case *ClassStmt:
		list := []any{n.Name.Lexeme}
		if n.Super != nil {
			list = append(list, "<", n.Super)
		}
		for _, m := range n.Methods {
			list = append(list, m)
		}
		parens(str, "class", list...)
	case string:
		str.WriteString(n)
	default:
		fmt.Fprintf(str, "<%T>", node)
	}
}

func printFunction(str *strings.Builder, fn *FunctionStmt) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, p.Lexeme)
	}
	list := []any{fn.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}
	for _, s := range fn.Body {
		list = append(list, s)
	}
	parens(str, "fun", list...)
}

func parens(str *strings.Builder, name string, parts ...any) {
	str.WriteString("(")
	str.WriteString(name)
	for _, p := range parts {
		str.WriteString(" ")
		printNode(str, p)
	}
	str.WriteString(")")
}
