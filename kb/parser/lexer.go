// Package parser reads the Prolog-style text formats used by the
// knowledge base: fact files (kb.pl / kb_aug.pl), conjunctive goals,
// and free-form formulas for validation.
package parser

import (
	"fmt"
	"unicode"
)

// TokenType identifies a lexical token class.
type TokenType int

const (
	TokenIdent TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenDot
	TokenNeck // ":-", marks a rule clause
	TokenEOF
)

// Token is a single lexical token with its source position.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// Lexer tokenizes Prolog-style input.
type Lexer struct {
	input   string
	pos     int
	line    int
	col     int
	tokens  []Token
	current int
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Lex tokenizes the entire input.
func (l *Lexer) Lex() error {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		startLine := l.line
		startCol := l.col

		ch := l.peek()
		switch {
		case ch == '(':
			l.advance()
			l.emit(TokenLeftParen, "(", startLine, startCol)
		case ch == ')':
			l.advance()
			l.emit(TokenRightParen, ")", startLine, startCol)
		case ch == ',':
			l.advance()
			l.emit(TokenComma, ",", startLine, startCol)
		case ch == '.':
			l.advance()
			l.emit(TokenDot, ".", startLine, startCol)
		case ch == ':' && l.peekAt(1) == '-':
			l.advance()
			l.advance()
			l.emit(TokenNeck, ":-", startLine, startCol)
		case isIdentStart(ch):
			l.emit(TokenIdent, l.readIdent(), startLine, startCol)
		default:
			return fmt.Errorf("unexpected character '%c' at %d:%d", ch, l.line, l.col)
		}
	}

	l.emit(TokenEOF, "", l.line, l.col)
	return nil
}

// NextToken returns the next token and advances.
func (l *Lexer) NextToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	token := l.tokens[l.current]
	l.current++
	return token
}

// PeekToken returns the next token without advancing.
func (l *Lexer) PeekToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	return l.tokens[l.current]
}

func (l *Lexer) emit(typ TokenType, value string, line, col int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Line: line, Col: col})
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// skipWhitespaceAndComments skips whitespace and % line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if unicode.IsSpace(rune(ch)) {
			l.advance()
		} else if ch == '%' {
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		} else {
			break
		}
	}
}

// readIdent reads an identifier: a letter or underscore followed by
// letters, digits, or underscores.
func (l *Lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.peek()) {
		l.advance()
	}
	return l.input[start:l.pos]
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
