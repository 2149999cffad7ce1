package console

import (
	"errors"
	"strings"
	"unicode"
)

var (
	errNoClosingQuote = errors.New("no closing quotation")
	errNoEscapedChar  = errors.New("no escaped character")
)

func isSpace(r rune) bool { return unicode.IsSpace(r) }

// isArgSep separates the arguments of a method call.
func isArgSep(r rune) bool { return r == ',' || unicode.IsSpace(r) }

// splitWords splits s into tokens using POSIX shell quoting. Single quotes
// preserve everything up to the closing quote. Inside double quotes a
// backslash escapes only '"' and '\'. Outside quotes a backslash escapes
// any character. An empty quoted string yields an empty token.
func splitWords(s string, isSep func(rune) bool) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		inTok  bool
		quote  rune
		escape bool
	)
	for _, r := range s {
		switch {
		case escape:
			if quote == '"' && r != '"' && r != '\\' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			escape = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escape = true
			default:
				cur.WriteRune(r)
			}
		case r == '\\':
			escape = true
			inTok = true
		case r == '\'' || r == '"':
			quote = r
			inTok = true
		case isSep(r):
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if escape {
		return nil, errNoEscapedChar
	}
	if quote != 0 {
		return nil, errNoClosingQuote
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// mappingStart returns the offset of a '{' that opens the second argument
// of a method call, or the first when the id is omitted. Braces inside a
// quoted argument do not count.
func mappingStart(s string) (int, bool) {
	var (
		inTok  bool
		seen   bool
		quote  rune
		escape bool
	)
	for i, r := range s {
		if !inTok {
			if isArgSep(r) {
				continue
			}
			if r == '{' {
				return i, true
			}
			if seen {
				return 0, false
			}
			inTok, seen = true, true
		}
		switch {
		case escape:
			escape = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			}
		case quote == '"':
			if r == '"' {
				quote = 0
			} else if r == '\\' {
				escape = true
			}
		case r == '\\':
			escape = true
		case r == '\'' || r == '"':
			quote = r
		case isArgSep(r):
			inTok = false
		}
	}
	return 0, false
}
