package lox

import (
	"bytes"
	"strconv"
	"unicode/utf8"
)

type cursor struct {
	char rune
	curr int
	next int
	Position
}

type Scanner struct {
	input []byte
	cursor

	report Reporter
}

func NewScanner(src string, report Reporter) *Scanner {
	buf, _ := bytes.CutPrefix([]byte(src), []byte{0xef, 0xbb, 0xbf})
	s := Scanner{
		input:  buf,
		report: report,
	}
	s.cursor.Line = 1
	s.read()
	return &s
}

// Tokens drains the scanner. The returned slice always ends with a single EOF token.
func (s *Scanner) Tokens() []Token {
	var list []Token
	for {
		tok := s.Scan()
		list = append(list, tok)
		if tok.Type == EOF {
			return list
		}
	}
}

func (s *Scanner) Scan() Token {
	for {
		s.skip(isBlank)

		var tok Token
		tok.Position = s.cursor.Position
		if s.done() {
			tok.Type = EOF
			return tok
		}
		var (
			start = s.curr
			ok    = true
		)
		switch {
		case s.char == slash && s.peek() == slash:
			s.skipComment()
			continue
		case s.char == slash && s.peek() == star:
			s.skipBlockComment()
			continue
		case isQuote(s.char):
			ok = s.scanString(&tok)
		case isDigit(s.char):
			s.scanNumber(&tok)
		case isLetter(s.char):
			s.scanIdent(&tok)
		default:
			ok = s.scanPunct(&tok)
		}
		if !ok {
			continue
		}
		tok.Lexeme = string(s.input[start:s.curr])
		switch tok.Type {
		case Ident:
			if kw, ok := keywords[tok.Lexeme]; ok {
				tok.Type = kw
			}
		case Numeric:
			n, _ := strconv.ParseFloat(tok.Lexeme, 64)
			tok.Literal = Number(n)
		case Text:
			tok.Literal = String(tok.Lexeme[1 : len(tok.Lexeme)-1])
		}
		return tok
	}
}

func (s *Scanner) skipComment() {
	for !s.done() && s.char != nl {
		s.read()
	}
}

func (s *Scanner) skipBlockComment() {
	s.read()
	s.read()
	for !s.done() {
		if s.char == star && s.peek() == slash {
			s.read()
			s.read()
			return
		}
		s.read()
	}
	s.error(s.Line, "Unterminated comment.")
}

func (s *Scanner) scanString(tok *Token) bool {
	s.read()
	for !s.done() && s.char != dquote {
		s.read()
	}
	if s.done() {
		s.error(s.Line, "Unterminated string.")
		return false
	}
	s.read()
	tok.Type = Text
	return true
}

func (s *Scanner) scanNumber(tok *Token) {
	for !s.done() && isDigit(s.char) {
		s.read()
	}
	if s.char == dot && isDigit(s.peek()) {
		s.read()
		for !s.done() && isDigit(s.char) {
			s.read()
		}
	}
	tok.Type = Numeric
}

func (s *Scanner) scanIdent(tok *Token) {
	for !s.done() && isAlpha(s.char) {
		s.read()
	}
	tok.Type = Ident
}

func (s *Scanner) scanPunct(tok *Token) bool {
	switch s.char {
	case lparen:
		tok.Type = Lparen
	case rparen:
		tok.Type = Rparen
	case lbrace:
		tok.Type = Lbrace
	case rbrace:
		tok.Type = Rbrace
	case comma:
		tok.Type = Comma
	case dot:
		tok.Type = Dot
	case minus:
		tok.Type = Sub
	case plus:
		tok.Type = Add
	case semicolon:
		tok.Type = Semicolon
	case slash:
		tok.Type = Div
	case star:
		tok.Type = Mul
	case bang:
		tok.Type = Not
		if s.peek() == equal {
			s.read()
			tok.Type = Ne
		}
	case equal:
		tok.Type = Assign
		if s.peek() == equal {
			s.read()
			tok.Type = Eq
		}
	case langle:
		tok.Type = Lt
		if s.peek() == equal {
			s.read()
			tok.Type = Le
		}
	case rangle:
		tok.Type = Gt
		if s.peek() == equal {
			s.read()
			tok.Type = Ge
		}
	default:
		s.error(s.Line, "Unexpected character.")
		s.read()
		return false
	}
	s.read()
	return true
}

func (s *Scanner) error(line int, msg string) {
	if s.report != nil {
		s.report.Error(line, msg)
	}
}

func (s *Scanner) done() bool {
	return s.char == eof
}

func (s *Scanner) read() {
	if s.char == nl {
		s.cursor.Line++
		s.cursor.Column = 0
	}
	if s.next >= len(s.input) {
		s.char, s.curr = eof, len(s.input)
		return
	}
	r, n := utf8.DecodeRune(s.input[s.next:])
	s.char, s.curr, s.next = r, s.next, s.next+n
	s.cursor.Column++
}

func (s *Scanner) peek() rune {
	if s.next >= len(s.input) {
		return eof
	}
	r, _ := utf8.DecodeRune(s.input[s.next:])
	return r
}

func (s *Scanner) skip(accept func(rune) bool) {
	for !s.done() && accept(s.char) {
		s.read()
	}
}

const (
	eof        = -1
	lbrace     = '{'
	rbrace     = '}'
	lparen     = '('
	rparen     = ')'
	langle     = '<'
	rangle     = '>'
	space      = ' '
	tab        = '\t'
	nl         = '\n'
	cr         = '\r'
	dquote     = '"'
	underscore = '_'
	dot        = '.'
	plus       = '+'
	minus      = '-'
	star       = '*'
	slash      = '/'
	bang       = '!'
	equal      = '='
	comma      = ','
	semicolon  = ';'
)

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == underscore
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return isLetter(r) || isDigit(r)
}

func isQuote(r rune) bool {
	return r == dquote
}

func isBlank(r rune) bool {
	return r == space || r == tab || r == cr || r == nl
}
