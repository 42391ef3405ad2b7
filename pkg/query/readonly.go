package query

import (
	"strings"
	"unicode"
)

var writeWords = map[string]struct{}{
	"insert": {}, "update": {}, "delete": {}, "drop": {}, "alter": {},
	"create": {}, "truncate": {}, "grant": {}, "revoke": {}, "attach": {},
	"detach": {}, "pragma": {}, "vacuum": {}, "replace": {}, "merge": {},
	"copy": {}, "call": {}, "do": {}, "lock": {}, "reindex": {}, "set": {},
	"into": {},
}

var readWords = map[string]struct{}{
	"select": {}, "with": {}, "values": {},
}

// IsReadOnly checks that a statement cannot modify the store. It is a
// conservative lexical check: a single SELECT, WITH or VALUES statement
// without any data or schema changing keyword outside of literals and
// comments. Some read-only statements are rejected as well, for example
// calls of the `replace` function.
func IsReadOnly(stmt string) error {
	s, err := stripLiterals(stmt)
	if err != nil {
		return err
	}
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r == ';' || unicode.IsSpace(r)
	})
	if strings.TrimSpace(s) == "" {
		return NotReadOnlyError("empty statement")
	}
	if strings.Contains(s, ";") {
		return NotReadOnlyError("multiple statements")
	}

	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if len(words) == 0 {
		return NotReadOnlyError("no keywords found")
	}
	if _, ok := readWords[words[0]]; !ok {
		return NotReadOnlyError("statement must start with SELECT, WITH or VALUES")
	}
	for _, w := range words {
		if _, ok := writeWords[w]; ok {
			return NotReadOnlyError("keyword " + strings.ToUpper(w) + " is not allowed")
		}
	}
	return nil
}

// stripLiterals replaces comments, quoted strings, quoted identifiers and
// dollar-quoted bodies with spaces.
func stripLiterals(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "--"):
			j := strings.IndexByte(s[i:], '\n')
			if j < 0 {
				return b.String(), nil
			}
			i += j
		case strings.HasPrefix(s[i:], "/*"):
			j := strings.Index(s[i+2:], "*/")
			if j < 0 {
				return "", NotReadOnlyError("unterminated comment")
			}
			i += j + 4
			b.WriteByte(' ')
		case s[i] == '\'' || s[i] == '"' || s[i] == '`':
			j, err := closeQuote(s, i)
			if err != nil {
				return "", err
			}
			i = j
			b.WriteByte(' ')
		case s[i] == '$':
			tag := dollarTag(s[i:])
			if tag == "" {
				b.WriteByte(s[i])
				i++
				continue
			}
			j := strings.Index(s[i+len(tag):], tag)
			if j < 0 {
				return "", NotReadOnlyError("unterminated dollar quote")
			}
			i += len(tag) + j + len(tag)
			b.WriteByte(' ')
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String(), nil
}

// closeQuote returns the index after the closing quote. Doubled quotes
// are escapes.
func closeQuote(s string, start int) (int, error) {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1, nil
	}
	return 0, NotReadOnlyError("unterminated quote")
}

// dollarTag returns `$tag$` or `$$` at the start of s, or an empty string
// for positional parameters like `$1`.
func dollarTag(s string) string {
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '$' {
			return s[:i+1]
		}
		if !(c == '_' || unicode.IsLetter(rune(c)) || (i > 1 && unicode.IsDigit(rune(c)))) {
			return ""
		}
	}
	return ""
}
