package model

import "strings"

// EspaceByteString writes `s` as a PDF literal string, escaping the
// characters that are significant to the tokenizer: the enclosing
// parentheses, backslash, and raw CR which would otherwise be read back
// as a line-continuation. The result includes the surrounding "(" ")".
func EspaceByteString(s []byte) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}
