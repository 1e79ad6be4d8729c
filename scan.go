package stitch

import "unicode"

// scanner is a cursor over source text. parse is the tokenizing
// primitive; until scans to a delimiter with the cursor's content kept
// intact, for forms whose extent is not whitespace-delimited (string
// literals, comments, doc blocks).
type scanner struct {
	src []rune
	pos int
}

func newScanner(src string) *scanner { return &scanner{src: []rune(src)} }

// parse skips leading delimiter runes, then consumes up to and past the
// next delimiter rune, returning everything in between. The second return
// is false only when the cursor reaches the end of the source before any
// non-delimiter rune; an unterminated run returns the remainder with true.
func (sc *scanner) parse(delim func(rune) bool) (string, bool) {
	for sc.pos < len(sc.src) && delim(sc.src[sc.pos]) {
		sc.pos++
	}
	if sc.pos >= len(sc.src) {
		return "", false
	}
	start := sc.pos
	for sc.pos < len(sc.src) && !delim(sc.src[sc.pos]) {
		sc.pos++
	}
	tok := string(sc.src[start:sc.pos])
	if sc.pos < len(sc.src) {
		sc.pos++ // past the delimiter
	}
	return tok, true
}

// until consumes up to and past the next delimiter rune, with no leading
// skip: a delimiter at the cursor yields empty content. The second return
// is false when the source ends before the delimiter appears; the
// remainder is consumed either way.
func (sc *scanner) until(delim func(rune) bool) (string, bool) {
	start := sc.pos
	for ; sc.pos < len(sc.src); sc.pos++ {
		if delim(sc.src[sc.pos]) {
			tok := string(sc.src[start:sc.pos])
			sc.pos++
			return tok, true
		}
	}
	return string(sc.src[start:]), false
}

// token consumes the next whitespace-delimited token.
func (sc *scanner) token() (string, bool) { return sc.parse(isSpace) }

func isSpace(r rune) bool { return unicode.IsSpace(r) }
func isQuote(r rune) bool { return r == '"' }
