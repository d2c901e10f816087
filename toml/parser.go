package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser builds a map[string]any tree from tokens
// Supported: [table] headers (dotted), dotted keys, strings, integers, floats, booleans and arrays
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	root      map[string]any
	current   map[string]any
	defined   map[string]bool
}

func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer:   NewLexer(input),
		root:    make(map[string]any),
		defined: make(map[string]bool),
	}
	p.nextToken()
	p.nextToken()
	p.current = p.root
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
	for p.peekToken.Type == TokenComment {
		p.peekToken = p.lexer.NextToken()
	}
}

// Parse consumes the whole input
func (p *Parser) Parse() (map[string]any, error) {
	for p.curToken.Type != TokenEOF {
		switch p.curToken.Type {
		case TokenNewline, TokenComment:
			p.nextToken()
			continue
		case TokenLBracket:
			if err := p.parseTable(); err != nil {
				return nil, err
			}
		case TokenIdent, TokenString:
			if err := p.parseKeyValue(); err != nil {
				return nil, err
			}
		case TokenError:
			return nil, fmt.Errorf("line %d: %s", p.curToken.Line, p.curToken.Literal)
		default:
			return nil, fmt.Errorf("line %d: unexpected token %s", p.curToken.Line, p.curToken)
		}

		if p.curToken.Type != TokenNewline && p.curToken.Type != TokenEOF {
			return nil, fmt.Errorf("line %d: expected end of line, got %s", p.curToken.Line, p.curToken)
		}
	}
	return p.root, nil
}

func (p *Parser) parseTable() error {
	line := p.curToken.Line
	p.nextToken()

	keys, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.curToken.Type != TokenRBracket {
		return fmt.Errorf("line %d: expected ']' after table name", line)
	}
	p.nextToken()

	path := strings.Join(keys, ".")
	if p.defined[path] {
		return fmt.Errorf("line %d: table [%s] defined twice", line, path)
	}
	p.defined[path] = true

	table, err := descend(p.root, keys)
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	p.current = table
	return nil
}

func (p *Parser) parseKeyValue() error {
	line := p.curToken.Line
	keys, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.curToken.Type != TokenEqual {
		return fmt.Errorf("line %d: expected '=' after key, got %s", line, p.curToken)
	}
	p.nextToken()

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	parent, err := descend(p.current, keys[:len(keys)-1])
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	last := keys[len(keys)-1]
	if _, exists := parent[last]; exists {
		return fmt.Errorf("line %d: duplicate key %s", line, last)
	}
	parent[last] = val
	return nil
}

// parseKey reads a possibly dotted key
func (p *Parser) parseKey() ([]string, error) {
	var keys []string
	for {
		if p.curToken.Type != TokenIdent && p.curToken.Type != TokenString {
			return nil, fmt.Errorf("line %d: expected key, got %s", p.curToken.Line, p.curToken)
		}
		keys = append(keys, p.curToken.Literal)
		p.nextToken()

		if p.curToken.Type != TokenDot {
			return keys, nil
		}
		p.nextToken()
	}
}

func (p *Parser) parseValue() (any, error) {
	tok := p.curToken
	switch tok.Type {
	case TokenString:
		p.nextToken()
		return tok.Literal, nil
	case TokenBool:
		p.nextToken()
		return tok.Literal == "true", nil
	case TokenInteger:
		n, err := strconv.ParseInt(tok.Literal, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid integer %s", tok.Line, tok.Literal)
		}
		p.nextToken()
		return n, nil
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid float %s", tok.Line, tok.Literal)
		}
		p.nextToken()
		return f, nil
	case TokenLBracket:
		return p.parseArray()
	}
	return nil, fmt.Errorf("line %d: unexpected value %s", tok.Line, tok)
}

// parseArray reads [a, b, ...]; newlines and a trailing comma are allowed
func (p *Parser) parseArray() ([]any, error) {
	p.nextToken()
	arr := make([]any, 0)

	for {
		for p.curToken.Type == TokenNewline {
			p.nextToken()
		}
		if p.curToken.Type == TokenRBracket {
			p.nextToken()
			return arr, nil
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)

		for p.curToken.Type == TokenNewline {
			p.nextToken()
		}
		switch p.curToken.Type {
		case TokenComma:
			p.nextToken()
		case TokenRBracket:
		default:
			return nil, fmt.Errorf("line %d: expected ',' or ']' in array", p.curToken.Line)
		}
	}
}

// descend walks keys from m, creating tables as needed
func descend(m map[string]any, keys []string) (map[string]any, error) {
	for _, key := range keys {
		next, exists := m[key]
		if !exists {
			child := make(map[string]any)
			m[key] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %s is not a table", key)
		}
		m = child
	}
	return m, nil
}
