package neta

import (
	"strings"
	"unicode"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota

	// Words
	TokenElement // element symbol
	TokenKeyword // reserved word
	TokenName    // free-form name (expect-name mode only)
	TokenWord    // unrecognised word

	// Literals
	TokenInteger
	TokenFloat
	TokenString

	// Operators and punctuation
	TokenOperator  // = != > < >= <=
	TokenComma     // ,
	TokenPipe      // |
	TokenBang      // !
	TokenQuestion  // ?
	TokenDash      // -
	TokenHash      // #
	TokenAmpersand // &
	TokenLParen    // (
	TokenRParen    // )
	TokenLBracket  // [
	TokenRBracket  // ]
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "end of definition",
	TokenElement:   "element",
	TokenKeyword:   "keyword",
	TokenName:      "name",
	TokenWord:      "word",
	TokenInteger:   "integer",
	TokenFloat:     "number",
	TokenString:    "string",
	TokenOperator:  "operator",
	TokenComma:     "','",
	TokenPipe:      "'|'",
	TokenBang:      "'!'",
	TokenQuestion:  "'?'",
	TokenDash:      "'-'",
	TokenHash:      "'#'",
	TokenAmpersand: "'&'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenLBracket:  "'['",
	TokenRBracket:  "']'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "token"
}

// Token is a lexical token.  Pos is the byte offset of its first character
// and End the offset just past its last.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	End   int
}

// keywords are the reserved words of the language.  Which of them are valid
// at a given point is decided by the parser from the enclosing node.
var keywords = map[string]bool{
	"ring":     true,
	"nbonds":   true,
	"nh":       true,
	"geometry": true,
	"n":        true,
	"size":     true,
	"root":     true,
}

// lexMode selects how alphabetic words are classified.
type lexMode int

const (
	modeDefault lexMode = iota
	// modeName treats every word as a free-form name.  Used after '#' and
	// '&' and for option values.
	modeName
)

// Lexer produces tokens on demand.  It is context-sensitive: the parser
// chooses the mode for each token it requests.
type Lexer struct {
	input string
}

// NewLexer returns a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Scan returns the token starting at or after pos.  Lexical errors are
// reported as *CompileError.
func (l *Lexer) Scan(pos int, mode lexMode) (Token, *CompileError) {
	for pos < len(l.input) && isSpace(l.input[pos]) {
		pos++
	}
	if pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: pos, End: pos}, nil
	}

	c := l.input[pos]
	single := func(t TokenType) (Token, *CompileError) {
		return Token{Type: t, Value: string(c), Pos: pos, End: pos + 1}, nil
	}

	switch {
	case isLetter(c):
		return l.scanWord(pos, mode), nil
	case isDigit(c):
		return l.scanNumber(pos)
	case c == '"' || c == '\'':
		return l.scanString(pos)
	}

	switch c {
	case ',':
		return single(TokenComma)
	case '|':
		return single(TokenPipe)
	case '?':
		return single(TokenQuestion)
	case '-':
		return single(TokenDash)
	case '#':
		return single(TokenHash)
	case '&':
		return single(TokenAmpersand)
	case '(':
		return single(TokenLParen)
	case ')':
		return single(TokenRParen)
	case '[':
		return single(TokenLBracket)
	case ']':
		return single(TokenRBracket)
	case '!':
		if l.peekByte(pos+1) == '=' {
			return Token{Type: TokenOperator, Value: "!=", Pos: pos, End: pos + 2}, nil
		}
		return single(TokenBang)
	case '=':
		return single(TokenOperator)
	case '<', '>':
		if l.peekByte(pos+1) == '=' {
			return Token{Type: TokenOperator, Value: string(c) + "=", Pos: pos, End: pos + 2}, nil
		}
		return single(TokenOperator)
	}

	return Token{}, &CompileError{
		Kind:    ErrLexical,
		Message: "unexpected character '" + string(rune(c)) + "'",
		Pos:     pos,
	}
}

// Tokenize scans the whole input in default mode.  It is used by diagnostics
// and tests; the parser scans incrementally.
func (l *Lexer) Tokenize() ([]Token, *CompileError) {
	var out []Token
	pos := 0
	for {
		tok, err := l.Scan(pos, modeDefault)
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out, nil
		}
		pos = tok.End
	}
}

func (l *Lexer) peekByte(pos int) byte {
	if pos < len(l.input) {
		return l.input[pos]
	}
	return 0
}

func (l *Lexer) scanWord(pos int, mode lexMode) Token {
	end := pos + 1
	for end < len(l.input) && (isWordByte(l.input[end]) || mode == modeName && l.input[end] == '.') {
		end++
	}
	word := l.input[pos:end]
	tok := Token{Value: word, Pos: pos, End: end}
	switch {
	case mode == modeName:
		tok.Type = TokenName
	case molecule.IsElementSymbol(word):
		tok.Type = TokenElement
	case keywords[word]:
		tok.Type = TokenKeyword
	default:
		tok.Type = TokenWord
	}
	return tok
}

func (l *Lexer) scanNumber(pos int) (Token, *CompileError) {
	end := pos
	for end < len(l.input) && isDigit(l.input[end]) {
		end++
	}
	typ := TokenInteger
	if end < len(l.input) && l.input[end] == '.' {
		typ = TokenFloat
		end++
		for end < len(l.input) && isDigit(l.input[end]) {
			end++
		}
	}
	if end < len(l.input) && (l.input[end] == 'e' || l.input[end] == 'E') {
		exp := end + 1
		if exp < len(l.input) && (l.input[exp] == '+' || l.input[exp] == '-') {
			exp++
		}
		if exp >= len(l.input) || !isDigit(l.input[exp]) {
			return Token{}, &CompileError{Kind: ErrLexical, Message: "malformed exponent in number", Pos: end}
		}
		for exp < len(l.input) && isDigit(l.input[exp]) {
			exp++
		}
		typ = TokenFloat
		end = exp
	}
	if end < len(l.input) && isLetter(l.input[end]) {
		return Token{}, &CompileError{Kind: ErrLexical, Message: "malformed number '" + l.input[pos:end+1] + "'", Pos: pos}
	}
	return Token{Type: typ, Value: l.input[pos:end], Pos: pos, End: end}, nil
}

func (l *Lexer) scanString(pos int) (Token, *CompileError) {
	quote := l.input[pos]
	end := strings.IndexByte(l.input[pos+1:], quote)
	if end < 0 {
		return Token{}, &CompileError{Kind: ErrLexical, Message: "unterminated string", Pos: pos}
	}
	end += pos + 1
	return Token{Type: TokenString, Value: l.input[pos+1 : end], Pos: pos, End: end + 1}, nil
}

func isSpace(c byte) bool  { return unicode.IsSpace(rune(c)) }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
