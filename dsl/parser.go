package dsl

import "fmt"

// SyntaxError reports malformed query wire syntax.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Parser parses the Karp query wire syntax into a Query tree.
type Parser struct {
	lexer   *Lexer
	current Token
	depth   int
}

// Parse parses the input string and returns the root query.
// Empty input yields a nil query.
func Parse(input string) (Query, error) {
	if input == "" {
		return nil, nil
	}
	p := &Parser{lexer: NewLexer(input)}
	p.advance()
	q, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, p.errorf("unexpected %v after query", p.current.Type)
	}
	return q, nil
}

func (p *Parser) advance() {
	p.current = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.current.Pos, Msg: fmt.Sprintf(format, args...)}
}

// parseExpr handles a single query: equals|f|v or or(...).
func (p *Parser) parseExpr() (Query, error) {
	if p.current.Type != TokenWord {
		return nil, p.errorf("expected query but got %v", p.current.Type)
	}

	switch p.current.Value {
	case "equals":
		return p.parseEquals()
	case "or":
		return p.parseOr()
	default:
		return nil, p.errorf("unknown query kind %q", p.current.Value)
	}
}

func (p *Parser) parseEquals() (Query, error) {
	p.advance()

	var field string
	switch p.current.Type {
	case TokenSep:
		// equals||value: empty field
	case TokenPipe:
		f, ok := p.lexer.ReadField()
		if !ok {
			return nil, p.errorf("expected '|' after field")
		}
		field = f
	default:
		return nil, p.errorf("expected '|' after equals but got %v", p.current.Type)
	}

	value := p.lexer.ReadValue(p.depth > 0)
	p.advance()
	return NewEquals(field, value), nil
}

func (p *Parser) parseOr() (Query, error) {
	p.advance()
	if p.current.Type != TokenLParen {
		return nil, p.errorf("expected '(' after or but got %v", p.current.Type)
	}
	p.advance()

	p.depth++
	defer func() { p.depth-- }()

	var operands []Query
	if p.current.Type != TokenRParen {
		for {
			q, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			operands = append(operands, q)
			if p.current.Type != TokenSep {
				break
			}
			p.advance()
		}
	}

	if p.current.Type != TokenRParen {
		return nil, p.errorf("expected ')' but got %v", p.current.Type)
	}
	p.advance()
	return NewOr(operands...), nil
}
