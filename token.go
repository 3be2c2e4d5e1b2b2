package lox

import "fmt"

const (
	EOF rune = -(iota + 1)
	Ident
	Text
	Numeric
	Lparen
	Rparen
	Lbrace
	Rbrace
	Comma
	Dot
	Sub
	Add
	Semicolon
	Div
	Mul
	Not
	Ne
	Assign
	Eq
	Gt
	Ge
	Lt
	Le
	And
	ClassKw
	Else
	False
	For
	Fun
	If
	NilKw
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

var keywords = map[string]rune{
	"and":    And,
	"class":  ClassKw,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    NilKw,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

type Position struct {
	Line   int
	Column int
}

type Token struct {
	Type    rune
	Lexeme  string
	Literal Value
	Position
}

func (t Token) String() string {
	var prefix string
	switch t.Type {
	case EOF:
		return "<eof>"
	case Lparen:
		return "<lparen>"
	case Rparen:
		return "<rparen>"
	case Lbrace:
		return "<lbrace>"
	case Rbrace:
		return "<rbrace>"
	case Comma:
		return "<comma>"
	case Dot:
		return "<dot>"
	case Sub:
		return "<sub>"
	case Add:
		return "<add>"
	case Semicolon:
		return "<semicolon>"
	case Div:
		return "<div>"
	case Mul:
		return "<mul>"
	case Not:
		return "<not>"
	case Ne:
		return "<ne>"
	case Assign:
		return "<assign>"
	case Eq:
		return "<eq>"
	case Gt:
		return "<gt>"
	case Ge:
		return "<ge>"
	case Lt:
		return "<lt>"
	case Le:
		return "<le>"
	case Ident:
		prefix = "identifier"
	case Text:
		prefix = "string"
	case Numeric:
		prefix = "number"
	default:
		if _, ok := keywords[t.Lexeme]; ok {
			prefix = "keyword"
			break
		}
		prefix = "unknown"
	}
	return fmt.Sprintf("%s(%s)", prefix, t.Lexeme)
}
