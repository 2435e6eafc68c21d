package dsl

import "strings"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenPipe   // |
	TokenSep    // ||
	TokenLParen // (
	TokenRParen // )
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenWord:
		return "word"
	case TokenPipe:
		return "'|'"
	case TokenSep:
		return "'||'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "unknown"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Lexer tokenizes the Karp query wire syntax.
//
// Whitespace is significant since fields and values are taken verbatim.
// Fields and values are read with ReadField and ReadValue instead of
// NextToken, because they may contain any character but the separators.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, pos: 0}
}

// NextToken returns the next structural token from the input.
func (l *Lexer) NextToken() Token {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	start := l.pos
	switch l.input[l.pos] {
	case '|':
		if strings.HasPrefix(l.input[l.pos:], "||") {
			l.pos += 2
			return Token{Type: TokenSep, Value: "||", Pos: start}
		}
		l.pos++
		return Token{Type: TokenPipe, Value: "|", Pos: start}
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Value: "(", Pos: start}
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Value: ")", Pos: start}
	}

	for l.pos < len(l.input) && !isReserved(l.input[l.pos]) {
		l.pos++
	}
	return Token{Type: TokenWord, Value: l.input[start:l.pos], Pos: start}
}

// ReadField reads up to and including the next '|' and returns the text before it.
// ok is false if the input ends first.
func (l *Lexer) ReadField() (field string, ok bool) {
	idx := strings.IndexByte(l.input[l.pos:], '|')
	if idx < 0 {
		return "", false
	}
	field = l.input[l.pos : l.pos+idx]
	l.pos += idx + 1
	return field, true
}

// ReadValue reads a value. Inside an or(...) the value ends before the next
// "||" or ')'; at top level it runs to the end of the input.
func (l *Lexer) ReadValue(nested bool) string {
	start := l.pos
	if !nested {
		l.pos = len(l.input)
		return l.input[start:]
	}
	for l.pos < len(l.input) {
		if l.input[l.pos] == ')' || strings.HasPrefix(l.input[l.pos:], "||") {
			break
		}
		l.pos++
	}
	return l.input[start:l.pos]
}

func isReserved(ch byte) bool {
	return ch == '|' || ch == '(' || ch == ')'
}
