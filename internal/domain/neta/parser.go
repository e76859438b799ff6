package neta

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// TypeLookup resolves "&name" and "&id" targets to type handles while a
// definition is compiled.
type TypeLookup interface {
	ResolveName(name string) (molecule.TypeHandle, bool)
	ResolveID(id int) (molecule.TypeHandle, bool)
}

// parser is a recursive-descent parser with one token of lookahead.  Errors
// are raised by panicking with a *CompileError, which compile recovers.
type parser struct {
	lex    *Lexer
	tok    Token
	lookup TypeLookup
}

// compile parses text into a node tree.  It is the only place a
// *CompileError panic is recovered; any other panic is re-raised.
func compile(text string, lookup TypeLookup) (root *Node, err *CompileError) {
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*CompileError)
			if !ok {
				panic(r)
			}
			root, err = nil, ce
		}
	}()

	p := &parser{lex: NewLexer(text), lookup: lookup}
	p.tok = p.scan(0, modeDefault)

	root = newNode(KindRoot)
	if p.tok.Type != TokenEOF {
		root.Children = p.parseOrSequence(root)
	}
	if p.tok.Type != TokenEOF {
		p.unexpected("',' or end of definition")
	}
	return root, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Token handling
// ─────────────────────────────────────────────────────────────────────────────

func (p *parser) scan(pos int, mode lexMode) Token {
	tok, err := p.lex.Scan(pos, mode)
	if err != nil {
		panic(err)
	}
	return tok
}

// consume returns the current token and scans the next one in mode.
func (p *parser) consume(mode lexMode) Token {
	cur := p.tok
	p.tok = p.scan(cur.End, mode)
	return cur
}

func (p *parser) expect(t TokenType, want string) Token {
	if p.tok.Type != t {
		p.unexpected(want)
	}
	return p.consume(modeDefault)
}

func (p *parser) fail(kind ErrorKind, pos int, format string, args ...interface{}) {
	panic(&CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (p *parser) unexpected(want string) {
	if p.tok.Type == TokenEOF {
		p.fail(ErrSyntax, p.tok.Pos, "unexpected end of definition, expected %s", want)
	}
	p.fail(ErrSyntax, p.tok.Pos, "unexpected %s '%s', expected %s", p.tok.Type, p.tok.Value, want)
}

func (p *parser) noNegation(negate bool, bang Token) {
	if negate {
		p.fail(ErrSyntax, bang.Pos, "'!' cannot be applied to '%s'", p.tok.Value)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Sequences and terms
// ─────────────────────────────────────────────────────────────────────────────

// parseOrSequence parses "sequence ('|' sequence)*".  ctx is the node that
// owns any keyword or tag terms met along the way.
func (p *parser) parseOrSequence(ctx *Node) []*Node {
	seq := p.parseSequence(ctx)
	if p.tok.Type != TokenPipe {
		return seq
	}
	p.consume(modeDefault)
	or := newNode(KindOr)
	or.Primary = seq
	or.Alternative = p.parseOrSequence(ctx)
	return []*Node{or}
}

func (p *parser) parseSequence(ctx *Node) []*Node {
	var nodes []*Node
	for {
		if n := p.parseTerm(ctx); n != nil {
			nodes = append(nodes, n)
		}
		if p.tok.Type != TokenComma {
			return nodes
		}
		p.consume(modeDefault)
	}
}

// parseTerm returns the node for one term, or nil when the term only
// modified ctx (a tag, modifier or flag).
func (p *parser) parseTerm(ctx *Node) *Node {
	bang := p.tok
	negate := false
	if p.tok.Type == TokenBang {
		p.consume(modeDefault)
		negate = true
	}

	var n *Node
	switch p.tok.Type {
	case TokenQuestion:
		p.consume(modeDefault)
		n = newNode(KindPresence)
		n.Targets = p.parseTargetList()
	case TokenDash:
		p.consume(modeDefault)
		n = newNode(KindConnection)
		n.Targets = p.parseTargetList()
		if p.tok.Type == TokenLParen {
			p.parseBody(n)
		}
	case TokenLParen:
		p.consume(modeDefault)
		n = newNode(KindRoot)
		n.Children = p.parseOrSequence(ctx)
		p.expect(TokenRParen, "')'")
	case TokenHash:
		p.noNegation(negate, bang)
		p.consume(modeName)
		ctx.Identifiers = appendUnique(ctx.Identifiers, p.parseTagList()...)
		return nil
	case TokenKeyword:
		switch p.tok.Value {
		case "ring":
			n = p.parseRing()
		case "nbonds":
			n = p.parseCount(KindBondCount)
		case "nh":
			n = p.parseCount(KindHydrogenCount)
		case "geometry":
			n = p.parseGeometry()
		default:
			p.noNegation(negate, bang)
			p.parseContextKeyword(ctx)
			return nil
		}
	case TokenWord:
		p.fail(ErrUnknownKeyword, p.tok.Pos, "unknown keyword '%s' for a %s node", p.tok.Value, ctx.Kind)
	case TokenElement:
		p.fail(ErrSyntax, p.tok.Pos, "element '%s' must be preceded by '?' or '-'", p.tok.Value)
	default:
		p.unexpected("a term")
	}

	n.Reverse = negate
	return n
}

// parseBody parses "'(' [orSequence] ')'" into n's children, with n as the
// keyword context.
func (p *parser) parseBody(n *Node) {
	p.expect(TokenLParen, "'('")
	if p.tok.Type == TokenRParen {
		p.consume(modeDefault)
		return
	}
	n.Children = p.parseOrSequence(n)
	p.expect(TokenRParen, "')'")
}

// parseContextKeyword applies a modifier or flag to ctx.
func (p *parser) parseContextKeyword(ctx *Node) {
	kw := p.tok
	switch {
	case ctx.acceptsFlag(kw.Value):
		p.consume(modeDefault)
		ctx.Flags[kw.Value] = true
	case ctx.acceptsModifier(kw.Value):
		p.consume(modeDefault)
		op := p.parseOperator(kw.Value)
		valuePos := p.tok.Pos
		v := p.parseInteger()
		if ctx.Kind == KindRingAtom && kw.Value == "n" {
			if op != OpEqual {
				p.fail(ErrBadOperator, kw.Pos, "ring atom count 'n' only accepts '='")
			}
			if v < 1 {
				p.fail(ErrSyntax, valuePos, "ring atom count must be at least 1")
			}
		}
		ctx.Modifiers[kw.Value] = Modifier{Op: op, Value: v}
	default:
		p.fail(ErrUnknownKeyword, kw.Pos, "keyword '%s' is not valid for a %s node", kw.Value, ctx.Kind)
	}
}

func (p *parser) parseCount(kind NodeKind) *Node {
	kw := p.consume(modeDefault)
	n := newNode(kind)
	op := p.parseOperator(kw.Value)
	n.Modifiers[kw.Value] = Modifier{Op: op, Value: p.parseInteger()}
	return n
}

func (p *parser) parseGeometry() *Node {
	kw := p.consume(modeDefault)
	if p.tok.Type != TokenOperator {
		p.fail(ErrBadOperator, p.tok.Pos, "expected '=' or '!=' after '%s'", kw.Value)
	}
	op, _ := ParseOperator(p.tok.Value)
	if op != OpEqual && op != OpNotEqual {
		p.fail(ErrBadOperator, p.tok.Pos, "option '%s' only accepts '=' or '!=', not '%s'", kw.Value, p.tok.Value)
	}
	p.consume(modeName)
	if p.tok.Type != TokenName && p.tok.Type != TokenString {
		p.unexpected("a geometry name")
	}
	val := p.consume(modeDefault)
	if _, ok := molecule.GeometryFromString(val.Value); !ok {
		p.fail(ErrUnknownKeyword, val.Pos, "unknown geometry '%s'", val.Value)
	}
	n := newNode(KindCharacter)
	n.Options[kw.Value] = StringOption{Op: op, Value: val.Value}
	return n
}

func (p *parser) parseOperator(keyword string) Operator {
	if p.tok.Type != TokenOperator {
		p.fail(ErrBadOperator, p.tok.Pos, "expected a comparison operator after '%s'", keyword)
	}
	op, _ := ParseOperator(p.tok.Value)
	p.consume(modeDefault)
	return op
}

func (p *parser) parseInteger() int {
	switch p.tok.Type {
	case TokenInteger:
		v, err := strconv.Atoi(p.tok.Value)
		if err != nil {
			p.fail(ErrSyntax, p.tok.Pos, "integer '%s' out of range", p.tok.Value)
		}
		p.consume(modeDefault)
		return v
	case TokenFloat:
		p.fail(ErrSyntax, p.tok.Pos, "expected an integer, found '%s'", p.tok.Value)
	case TokenOperator:
		p.fail(ErrBadOperator, p.tok.Pos, "malformed operator near '%s'", p.tok.Value)
	default:
		p.unexpected("an integer")
	}
	return 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Rings
// ─────────────────────────────────────────────────────────────────────────────

func (p *parser) parseRing() *Node {
	p.consume(modeDefault)
	p.expect(TokenLParen, "'(' after 'ring'")
	ring := newNode(KindRing)
	if p.tok.Type == TokenRParen {
		p.consume(modeDefault)
		return ring
	}
	for {
		p.parseRingItem(ring)
		if p.tok.Type != TokenComma {
			break
		}
		p.consume(modeDefault)
	}
	p.expect(TokenRParen, "',' or ')'")
	return ring
}

func (p *parser) parseRingItem(ring *Node) {
	bang := p.tok
	negate := false
	if p.tok.Type == TokenBang {
		p.consume(modeDefault)
		negate = true
	}

	switch p.tok.Type {
	case TokenKeyword:
		p.noNegation(negate, bang)
		p.parseContextKeyword(ring)
	case TokenHash:
		p.noNegation(negate, bang)
		p.consume(modeName)
		ring.Identifiers = appendUnique(ring.Identifiers, p.parseTagList()...)
	case TokenElement, TokenAmpersand, TokenLBracket:
		ra := newNode(KindRingAtom)
		ra.Targets = p.parseTargetList()
		ra.Reverse = negate
		if p.tok.Type == TokenLParen {
			p.parseBody(ra)
		}
		ring.Children = append(ring.Children, ra)
	case TokenWord:
		if unicode.IsUpper(rune(p.tok.Value[0])) {
			p.fail(ErrUnknownElement, p.tok.Pos, "unknown element '%s'", p.tok.Value)
		}
		p.fail(ErrUnknownKeyword, p.tok.Pos, "keyword '%s' is not valid for a ring node", p.tok.Value)
	default:
		p.unexpected("a ring term")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Targets and tags
// ─────────────────────────────────────────────────────────────────────────────

func (p *parser) parseTargetList() TargetSet {
	var ts TargetSet
	if p.tok.Type != TokenLBracket {
		p.parseTarget(&ts)
		return ts
	}
	p.consume(modeDefault)
	for {
		p.parseTarget(&ts)
		switch p.tok.Type {
		case TokenComma:
			p.consume(modeDefault)
		case TokenRBracket:
			p.consume(modeDefault)
			return ts
		default:
			p.unexpected("',' or ']'")
		}
	}
}

func (p *parser) parseTarget(ts *TargetSet) {
	switch p.tok.Type {
	case TokenElement:
		el, _ := molecule.ElementFromSymbol(p.tok.Value)
		p.consume(modeDefault)
		for _, e := range ts.Elements {
			if e == el {
				return
			}
		}
		ts.Elements = append(ts.Elements, el)
	case TokenAmpersand:
		p.consume(modeName)
		ref := p.tok
		if ref.Type != TokenName && ref.Type != TokenInteger {
			p.unexpected("a type name or id after '&'")
		}
		if p.lookup == nil {
			p.fail(ErrUnresolvedType, ref.Pos, "type '%s' cannot be resolved without a type lookup", ref.Value)
		}
		var (
			h  molecule.TypeHandle
			ok bool
		)
		if ref.Type == TokenInteger {
			id, err := strconv.Atoi(ref.Value)
			if err == nil {
				h, ok = p.lookup.ResolveID(id)
			}
		} else {
			h, ok = p.lookup.ResolveName(ref.Value)
		}
		if !ok || h == nil {
			p.fail(ErrUnresolvedType, ref.Pos, "type '%s' could not be resolved", ref.Value)
		}
		p.consume(modeDefault)
		ts.Types = append(ts.Types, TypeTarget{Ref: ref.Value, Handle: h})
	case TokenWord, TokenKeyword:
		p.fail(ErrUnknownElement, p.tok.Pos, "unknown element '%s'", p.tok.Value)
	default:
		p.unexpected("an element or type reference")
	}
}

// parseTagList parses "Name | '[' Name (',' Name)* ']'".  The current token
// was scanned in name mode.
func (p *parser) parseTagList() []string {
	if p.tok.Type == TokenName {
		return []string{p.consume(modeDefault).Value}
	}
	p.expect(TokenLBracket, "a tag name or '['")
	var names []string
	for {
		// expect already scanned the token after '[' or ',' in default mode.
		p.tok = p.scan(p.tok.Pos, modeName)
		if p.tok.Type != TokenName {
			p.unexpected("a tag name")
		}
		names = append(names, p.consume(modeDefault).Value)
		switch p.tok.Type {
		case TokenComma:
			p.consume(modeDefault)
		case TokenRBracket:
			p.consume(modeDefault)
			return names
		default:
			p.unexpected("',' or ']'")
		}
	}
}

func appendUnique(dst []string, names ...string) []string {
	for _, n := range names {
		found := false
		for _, d := range dst {
			if d == n {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, n)
		}
	}
	return dst
}
