package selector

import (
	"strings"

	"github.com/meridianmq/mqselect/pkg/types"
)

// reservedWords maps lowercased lexemes to their token types. Matching is
// case-insensitive but the token keeps the lexeme as written.
var reservedWords = map[string]TokenType{
	"and":     TokenAnd,
	"between": TokenBetween,
	"false":   TokenFalse,
	"in":      TokenIn,
	"is":      TokenIs,
	"like":    TokenLike,
	"not":     TokenNot,
	"null":    TokenNull,
	"or":      TokenOr,
	"true":    TokenTrue,
}

// Tokeniser scans selector source into tokens. It keeps every token it
// has produced, so the parser can push tokens back with ReturnTokens and
// have them replayed in order by later NextToken calls.
type Tokeniser struct {
	input    string
	pos      int
	tokens   []Token
	returned int
}

// NewTokeniser creates a tokeniser over the given source.
func NewTokeniser(source string) *Tokeniser {
	return &Tokeniser{input: source}
}

// ReturnTokens pushes the last n produced tokens back so they are
// replayed by subsequent NextToken calls.
func (t *Tokeniser) ReturnTokens(n int) {
	if t.returned+n > len(t.tokens) {
		panic("returning more tokens than were produced")
	}
	t.returned += n
}

// NextToken returns the next token. At end of input it returns TokenEOS,
// repeatedly if called again.
func (t *Tokeniser) NextToken() (Token, error) {
	if t.returned > 0 {
		tok := t.tokens[len(t.tokens)-t.returned]
		t.returned--
		return tok, nil
	}
	tok, err := t.scan()
	if err != nil {
		return Token{}, err
	}
	t.tokens = append(t.tokens, tok)
	return tok, nil
}

func (t *Tokeniser) scan() (Token, error) {
	t.skipWhitespace()
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOS, Pos: t.pos}, nil
	}

	start := t.pos
	c := t.input[t.pos]
	switch {
	case isIdentStart(c):
		return t.scanIdentifier(start), nil
	case c == '\'':
		return t.scanString(start)
	case isDigit(c):
		return t.scanNumber(start), nil
	case c == '.' && t.pos+1 < len(t.input) && isDigit(t.input[t.pos+1]):
		return t.scanNumber(start), nil
	case c == '(':
		t.pos++
		return Token{Type: TokenLParen, Val: "(", Pos: start}, nil
	case c == ')':
		t.pos++
		return Token{Type: TokenRParen, Val: ")", Pos: start}, nil
	default:
		return t.scanOperator(start), nil
	}
}

func (t *Tokeniser) skipWhitespace() {
	for t.pos < len(t.input) && isSpace(t.input[t.pos]) {
		t.pos++
	}
}

func (t *Tokeniser) scanIdentifier(start int) Token {
	for t.pos < len(t.input) && isIdentPart(t.input[t.pos]) {
		t.pos++
	}
	lexeme := t.input[start:t.pos]
	if typ, ok := reservedWords[strings.ToLower(lexeme)]; ok {
		return Token{Type: typ, Val: lexeme, Pos: start}
	}
	return Token{Type: TokenIdent, Val: lexeme, Pos: start}
}

// scanString consumes a single-quoted literal. A doubled quote inside the
// literal stands for one literal apostrophe.
func (t *Tokeniser) scanString(start int) (Token, error) {
	t.pos++ // opening quote
	var sb strings.Builder
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == '\'' {
			if t.pos+1 < len(t.input) && t.input[t.pos+1] == '\'' {
				sb.WriteByte('\'')
				t.pos += 2
				continue
			}
			t.pos++
			return Token{Type: TokenString, Val: sb.String(), Pos: start}, nil
		}
		sb.WriteByte(c)
		t.pos++
	}
	return Token{}, types.NewLexError("unterminated string literal", start)
}

func (t *Tokeniser) scanNumber(start int) Token {
	approx := false
	for t.pos < len(t.input) && isDigit(t.input[t.pos]) {
		t.pos++
	}
	if t.pos < len(t.input) && t.input[t.pos] == '.' {
		approx = true
		t.pos++
		for t.pos < len(t.input) && isDigit(t.input[t.pos]) {
			t.pos++
		}
	}
	// Consume an exponent only when a complete one is present. A bare
	// trailing "e" belongs to the next token.
	if t.pos < len(t.input) && (t.input[t.pos] == 'e' || t.input[t.pos] == 'E') {
		j := t.pos + 1
		if j < len(t.input) && (t.input[j] == '+' || t.input[j] == '-') {
			j++
		}
		if j < len(t.input) && isDigit(t.input[j]) {
			for j < len(t.input) && isDigit(t.input[j]) {
				j++
			}
			t.pos = j
			approx = true
		}
	}
	typ := TokenExact
	if approx {
		typ = TokenApprox
	}
	return Token{Type: typ, Val: t.input[start:t.pos], Pos: start}
}

// scanOperator consumes the longest run of operator characters, so "<>"
// and "<=" come out as single tokens.
func (t *Tokeniser) scanOperator(start int) Token {
	for t.pos < len(t.input) && isOperatorPart(t.input[t.pos]) {
		t.pos++
	}
	return Token{Type: TokenOperator, Val: t.input[start:t.pos], Pos: start}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(c byte) bool {
	return isAlpha(c) || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isOperatorPart(c byte) bool {
	return !isIdentPart(c) && !isSpace(c) &&
		c != '\'' && c != '(' && c != ')'
}
