package selector

import (
	"fmt"
	"strconv"

	"github.com/meridianmq/mqselect/pkg/types"
)

// Grammar:
//
//	selector   := orExpr EOS
//	orExpr     := andExpr ( OR andExpr )*
//	andExpr    := compExpr ( AND compExpr )*
//	compExpr   := '(' orExpr ')' | NOT compExpr | comparison
//	comparison := primary IS [NOT] NULL | primary op primary
//	primary    := identifier | string | number | TRUE | FALSE | NULL
//
// IS [NOT] NULL is only legal with an identifier on the left.
type parser struct {
	toks *Tokeniser
}

// Parse compiles selector source into a boolean expression tree. Errors
// are *types.SelectorError values carrying the byte position.
func Parse(source string) (BoolExpr, error) {
	p := &parser{toks: NewTokeniser(source)}
	e, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type != TokenEOS {
		return nil, types.NewParseError(
			fmt.Sprintf("expected end of input, got %s", describeToken(tok)), tok.Pos)
	}
	return e, nil
}

func (p *parser) next() (Token, error) {
	return p.toks.NextToken()
}

func (p *parser) parseOrExpr() (BoolExpr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenOr {
			p.toks.ReturnTokens(1)
			return left, nil
		}
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &OrExpr{Left: left, Right: right}
	}
}

func (p *parser) parseAndExpr() (BoolExpr, error) {
	left, err := p.parseCompExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenAnd {
			p.toks.ReturnTokens(1)
			return left, nil
		}
		right, err := p.parseCompExpr()
		if err != nil {
			return nil, err
		}
		left = &AndExpr{Left: left, Right: right}
	}
}

func (p *parser) parseCompExpr() (BoolExpr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenLParen:
		e, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		closing, err := p.next()
		if err != nil {
			return nil, err
		}
		if closing.Type != TokenRParen {
			return nil, types.NewParseError(
				fmt.Sprintf("expected ')', got %s", describeToken(closing)), closing.Pos)
		}
		return e, nil
	case TokenNot:
		e, err := p.parseCompExpr()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: e}, nil
	default:
		p.toks.ReturnTokens(1)
		return p.parseComparison()
	}
}

func (p *parser) parseComparison() (BoolExpr, error) {
	left, leftTok, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenIs:
		if leftTok.Type != TokenIdent {
			return nil, types.NewParseError(
				fmt.Sprintf("expected identifier before IS, got %s", describeToken(leftTok)),
				leftTok.Pos)
		}
		return p.parseNullPredicate(left.(*IdentifierExpr))
	case TokenBetween, TokenLike, TokenIn:
		return nil, types.NewParseError(
			fmt.Sprintf("%s is not supported", tok.Type), tok.Pos)
	case TokenOperator:
		op, ok := compareOpFromLexeme(tok.Val)
		if !ok {
			return nil, types.NewParseError(
				fmt.Sprintf("unknown operator '%s'", tok.Val), tok.Pos)
		}
		right, _, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ComparisonExpr{Op: op, Left: left, Right: right}, nil
	default:
		return nil, types.NewParseError(
			fmt.Sprintf("expected comparison, got %s", describeToken(tok)), tok.Pos)
	}
}

func (p *parser) parseNullPredicate(ident *IdentifierExpr) (BoolExpr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenNull:
		return &NullPredicateExpr{Ident: ident}, nil
	case TokenNot:
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenNull {
			return nil, types.NewParseError(
				fmt.Sprintf("expected NULL after IS NOT, got %s", describeToken(tok)), tok.Pos)
		}
		return &NullPredicateExpr{Ident: ident, Negated: true}, nil
	default:
		return nil, types.NewParseError(
			fmt.Sprintf("expected NULL after IS, got %s", describeToken(tok)), tok.Pos)
	}
}

func (p *parser) parsePrimary() (ValueExpr, Token, error) {
	tok, err := p.next()
	if err != nil {
		return nil, Token{}, err
	}
	switch tok.Type {
	case TokenIdent:
		return &IdentifierExpr{Name: tok.Val}, tok, nil
	case TokenString:
		return &LiteralExpr{Value: types.NewString(tok.Val)}, tok, nil
	case TokenTrue:
		return &LiteralExpr{Value: types.NewBool(true)}, tok, nil
	case TokenFalse:
		return &LiteralExpr{Value: types.NewBool(false)}, tok, nil
	case TokenNull:
		return &LiteralExpr{Value: types.Unknown}, tok, nil
	case TokenExact:
		n, err := strconv.ParseUint(tok.Val, 10, 64)
		if err != nil {
			return nil, Token{}, types.NewParseError(
				fmt.Sprintf("integer literal out of range: %s", tok.Val), tok.Pos)
		}
		return &LiteralExpr{Value: types.NewExact(n)}, tok, nil
	case TokenApprox:
		f, err := strconv.ParseFloat(tok.Val, 64)
		if err != nil {
			return nil, Token{}, types.NewParseError(
				fmt.Sprintf("malformed numeric literal: %s", tok.Val), tok.Pos)
		}
		return &LiteralExpr{Value: types.NewInexact(f)}, tok, nil
	default:
		return nil, Token{}, types.NewParseError(
			fmt.Sprintf("unexpected %s", describeToken(tok)), tok.Pos)
	}
}

func describeToken(tok Token) string {
	if tok.Type == TokenEOS {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Val)
}
