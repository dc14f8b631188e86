package parser

import (
	"fmt"
	"io"

	"github.com/wbrown/privalog/kb"
)

// Connective functor names reserved by the formula grammar. A predicate
// cannot share these names.
const (
	functorAnd    = "and"
	functorOr     = "or"
	functorNot    = "not"
	functorForAll = "forall"
	functorExists = "exists"
)

// Parser consumes a token stream produced by the lexer.
type Parser struct {
	lexer *Lexer
}

// NewParser creates a parser over the given input.
func NewParser(input string) (*Parser, error) {
	lexer := NewLexer(input)
	if err := lexer.Lex(); err != nil {
		return nil, err
	}
	return &Parser{lexer: lexer}, nil
}

// ParseFact parses a single ground fact such as
// "collects(google, information)." (the trailing dot is optional).
func ParseFact(input string) (kb.Fact, error) {
	p, err := NewParser(input)
	if err != nil {
		return kb.Fact{}, err
	}
	fact, err := p.parseFact()
	if err != nil {
		return kb.Fact{}, err
	}
	if tok := p.lexer.PeekToken(); tok.Type == TokenDot {
		p.lexer.NextToken()
	}
	if err := p.expectEOF(); err != nil {
		return kb.Fact{}, err
	}
	return fact, nil
}

// ParseFactFile reads a kb.pl-style fact file: one clause per line,
// "%" comments, facts terminated by ".". Rule clauses (":-") are not
// part of the supported query subset and are skipped. Facts are
// returned in file order.
func ParseFactFile(r io.Reader) ([]kb.Fact, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseFacts(string(data))
}

// ParseFacts parses fact clauses from a string. See ParseFactFile.
func ParseFacts(input string) ([]kb.Fact, error) {
	p, err := NewParser(input)
	if err != nil {
		return nil, err
	}

	var facts []kb.Fact
	for p.lexer.PeekToken().Type != TokenEOF {
		// Parse the clause head before deciding whether this is a fact
		// or a rule: rule heads may contain variables.
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		switch tok := p.lexer.NextToken(); tok.Type {
		case TokenDot:
			fact, err := atomToFact(atom)
			if err != nil {
				return nil, err
			}
			facts = append(facts, fact)
		case TokenNeck:
			// Rule clause: discard the body through its terminating dot.
			if err := p.skipToDot(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("expected '.' after fact at %d:%d", tok.Line, tok.Col)
		}
	}
	return facts, nil
}

// ParseGoal parses a conjunctive goal: comma-separated atoms with
// Prolog-style variables, e.g. "collects(google, X), uses_for(google, P)".
// A trailing dot is accepted.
func ParseGoal(input string) (kb.Goal, error) {
	p, err := NewParser(input)
	if err != nil {
		return nil, err
	}

	var goal kb.Goal
	for {
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		goal = append(goal, atom)

		tok := p.lexer.PeekToken()
		if tok.Type == TokenComma {
			p.lexer.NextToken()
			continue
		}
		break
	}
	if tok := p.lexer.PeekToken(); tok.Type == TokenDot {
		p.lexer.NextToken()
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return goal, nil
}

// ParseFormula parses a free-form formula over the connectives
// and/2, or/2, not/1, forall/2, exists/2 and atomic applications, e.g.
// "and(collects(google, X), not(uses_for(google, ads)))".
func ParseFormula(input string) (kb.Formula, error) {
	p, err := NewParser(input)
	if err != nil {
		return nil, err
	}
	f, err := p.parseFormula()
	if err != nil {
		return nil, err
	}
	if tok := p.lexer.PeekToken(); tok.Type == TokenDot {
		p.lexer.NextToken()
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Parser) parseFormula() (kb.Formula, error) {
	tok := p.lexer.PeekToken()
	if tok.Type != TokenIdent {
		return nil, fmt.Errorf("expected formula at %d:%d", tok.Line, tok.Col)
	}

	switch tok.Value {
	case functorAnd, functorOr:
		p.lexer.NextToken()
		if err := p.expect(TokenLeftParen); err != nil {
			return nil, err
		}
		left, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
		right, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		if tok.Value == functorAnd {
			return kb.And{L: left, R: right}, nil
		}
		return kb.Or{L: left, R: right}, nil

	case functorNot:
		p.lexer.NextToken()
		if err := p.expect(TokenLeftParen); err != nil {
			return nil, err
		}
		body, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return kb.Not{Body: body}, nil

	case functorForAll, functorExists:
		p.lexer.NextToken()
		if err := p.expect(TokenLeftParen); err != nil {
			return nil, err
		}
		varTok := p.lexer.NextToken()
		if varTok.Type != TokenIdent {
			return nil, fmt.Errorf("expected quantified variable at %d:%d", varTok.Line, varTok.Col)
		}
		if err := p.expect(TokenComma); err != nil {
			return nil, err
		}
		body, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		if tok.Value == functorForAll {
			return kb.ForAll{Var: varTok.Value, Body: body}, nil
		}
		return kb.Exists{Var: varTok.Value, Body: body}, nil

	default:
		return p.parseAtom()
	}
}

func (p *Parser) parseAtom() (kb.Atom, error) {
	nameTok := p.lexer.NextToken()
	if nameTok.Type != TokenIdent {
		return kb.Atom{}, fmt.Errorf("expected predicate name at %d:%d", nameTok.Line, nameTok.Col)
	}
	if kb.IsVariableName(nameTok.Value) {
		return kb.Atom{}, fmt.Errorf("predicate name cannot be a variable: %s at %d:%d",
			nameTok.Value, nameTok.Line, nameTok.Col)
	}
	if err := p.expect(TokenLeftParen); err != nil {
		return kb.Atom{}, err
	}

	var args []kb.Term
	for {
		argTok := p.lexer.NextToken()
		if argTok.Type != TokenIdent {
			return kb.Atom{}, fmt.Errorf("expected argument at %d:%d", argTok.Line, argTok.Col)
		}
		args = append(args, kb.NewTerm(argTok.Value))

		tok := p.lexer.NextToken()
		if tok.Type == TokenComma {
			continue
		}
		if tok.Type == TokenRightParen {
			break
		}
		return kb.Atom{}, fmt.Errorf("expected ',' or ')' at %d:%d", tok.Line, tok.Col)
	}
	return kb.Atom{Predicate: nameTok.Value, Args: args}, nil
}

// parseFact parses an atom and requires every argument to be ground.
func (p *Parser) parseFact() (kb.Fact, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return kb.Fact{}, err
	}
	return atomToFact(atom)
}

// atomToFact converts an atom into a fact, rejecting variables.
func atomToFact(atom kb.Atom) (kb.Fact, error) {
	args := make([]string, len(atom.Args))
	for i, t := range atom.Args {
		c, ok := t.(kb.Constant)
		if !ok {
			return kb.Fact{}, fmt.Errorf("fact arguments must be ground: %s has variable %s",
				atom.Predicate, t.String())
		}
		args[i] = c.Value
	}
	return kb.NewFact(atom.Predicate, args...), nil
}

func (p *Parser) skipToDot() error {
	for {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case TokenDot:
			return nil
		case TokenEOF:
			return fmt.Errorf("unterminated clause at %d:%d", tok.Line, tok.Col)
		}
	}
}

func (p *Parser) expect(typ TokenType) error {
	tok := p.lexer.NextToken()
	if tok.Type != typ {
		return fmt.Errorf("unexpected token %q at %d:%d", tok.Value, tok.Line, tok.Col)
	}
	return nil
}

func (p *Parser) expectEOF() error {
	tok := p.lexer.PeekToken()
	if tok.Type != TokenEOF {
		return fmt.Errorf("unexpected trailing input %q at %d:%d", tok.Value, tok.Line, tok.Col)
	}
	return nil
}
