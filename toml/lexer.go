package toml

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenError TokenType = iota
	TokenEOF
	TokenComment

	TokenIdent   // bare key
	TokenString  // "quoted"
	TokenInteger // 123
	TokenFloat   // 1.5
	TokenBool    // true/false

	TokenEqual    // =
	TokenDot      // .
	TokenComma    // ,
	TokenLBracket // [
	TokenRBracket // ]
	TokenNewline  // \n
)

// Token is one lexeme with its source position
type Token struct {
	Type    TokenType
	Literal string
	Line    int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("Error(%s)", t.Literal)
	case TokenNewline:
		return "Newline"
	}
	return fmt.Sprintf("%q", t.Literal)
}

// Lexer splits settings files into tokens
type Lexer struct {
	input []byte
	pos   int
	line  int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipBlank()

	if l.pos >= len(l.input) {
		return l.token(TokenEOF, "")
	}

	ch := l.peek()
	switch ch {
	case '\n':
		tok := l.token(TokenNewline, "\n")
		l.advance()
		l.line++
		return tok
	case '#':
		return l.readComment()
	case '"':
		return l.readString()
	case '=':
		l.advance()
		return l.token(TokenEqual, "=")
	case '.':
		l.advance()
		return l.token(TokenDot, ".")
	case ',':
		l.advance()
		return l.token(TokenComma, ",")
	case '[':
		l.advance()
		return l.token(TokenLBracket, "[")
	case ']':
		l.advance()
		return l.token(TokenRBracket, "]")
	}

	if isBareRune(ch) || ch == '+' {
		return l.readBare()
	}

	l.advance()
	return l.token(TokenError, fmt.Sprintf("unexpected character %q", ch))
}

func (l *Lexer) token(typ TokenType, lit string) Token {
	return Token{Type: typ, Literal: lit, Line: l.line}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipBlank() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) readComment() Token {
	l.advance()
	start := l.pos
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenComment, string(l.input[start:l.pos]))
}

// readString reads a basic string; newlines inside are an error
func (l *Lexer) readString() Token {
	l.advance()
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.advance()
		switch ch {
		case '\n':
			return l.token(TokenError, "newline in string")
		case '"':
			return l.token(TokenString, sb.String())
		case '\\':
			esc := l.advance()
			switch esc {
			case '"', '\\':
				sb.WriteRune(esc)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return l.token(TokenError, fmt.Sprintf("unknown escape \\%c", esc))
			}
		default:
			sb.WriteRune(ch)
		}
	}
	return l.token(TokenError, "unterminated string")
}

// readBare reads a bare key, boolean or number
// Dots continue the literal only after a leading digit or sign, so a.b stays a dotted key
func (l *Lexer) readBare() Token {
	start := l.pos
	first := l.peek()
	numeric := isDigit(first) || first == '+' || first == '-'

	for l.pos < len(l.input) {
		ch := l.peek()
		if isBareRune(ch) || ch == '+' || (numeric && ch == '.') {
			l.advance()
			continue
		}
		break
	}
	lit := string(l.input[start:l.pos])

	switch {
	case lit == "true" || lit == "false":
		return l.token(TokenBool, lit)
	case !numeric:
		return l.token(TokenIdent, lit)
	case strings.ContainsAny(lit, ".eE") && !strings.ContainsAny(lit, "xX"):
		return l.token(TokenFloat, lit)
	}
	if isDigit(first) || len(lit) > 1 && isDigit(rune(lit[1])) {
		return l.token(TokenInteger, lit)
	}
	return l.token(TokenIdent, lit)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isBareRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || r == '_' || r == '-'
}
