package sqlsubset

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokQuotedIdent
	tokPlaceholder
	tokNumber
	tokString
	tokSymbol
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// keyword reports whether t is the bare identifier kw, case-insensitively.
func (t token) keyword(kw string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (t token) symbol(s string) bool {
	return t.kind == tokSymbol && t.text == s
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of statement"
	}
	return t.text
}

func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '$':
			start := i
			i++
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			if i == start+1 {
				return nil, fmt.Errorf("bare $ at offset %d", start)
			}
			tokens = append(tokens, token{kind: tokPlaceholder, text: src[start:i], pos: start})
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: src[start:i], pos: start})
		case c == '\'':
			start := i
			i++
			var b strings.Builder
			closed := false
			for i < len(src) {
				if src[i] == '\'' {
					if i+1 < len(src) && src[i+1] == '\'' {
						b.WriteByte('\'')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(src[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string at offset %d", start)
			}
			tokens = append(tokens, token{kind: tokString, text: b.String(), pos: start})
		case c == '"':
			start := i
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated identifier at offset %d", start)
			}
			tokens = append(tokens, token{kind: tokQuotedIdent, text: src[i+1 : i+1+end], pos: start})
			i += end + 2
		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(src) && (src[i] == '_' || src[i] == '.' || unicode.IsLetter(rune(src[i])) || unicode.IsDigit(rune(src[i]))) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			start := i
			if i+1 < len(src) {
				two := src[i : i+2]
				switch two {
				case ">=", "<=", "<>", "!=", "||", "::":
					tokens = append(tokens, token{kind: tokSymbol, text: two, pos: start})
					i += 2
					continue
				}
			}
			tokens = append(tokens, token{kind: tokSymbol, text: string(c), pos: start})
			i++
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}
