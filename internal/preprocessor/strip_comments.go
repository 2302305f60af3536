// Package preprocessor holds text-level transforms used by the
// preprocessor CLI. These operate on raw source text, before any
// parsing.
package preprocessor

import "strings"

// StripComments removes // and /* */ comments from Verilog source text.
//
// The replacement character selects the policy:
//   - ' ': comment contents and delimiters are replaced with spaces;
//   - 0:   comment contents and delimiters are deleted;
//   - any other character: comment contents are replaced with it, the
//     delimiters are kept.
//
// Newlines are always preserved, so line numbers survive the transform.
// Comment-looking text inside string literals is left alone.
func StripComments(contents string, replacement byte) string {
	var out strings.Builder
	out.Grow(len(contents))

	writeDelimiter := func(delim string) {
		switch replacement {
		case ' ':
			out.WriteString(strings.Repeat(" ", len(delim)))
		case 0:
			// deleted
		default:
			out.WriteString(delim)
		}
	}
	writeBody := func(ch byte) {
		if ch == '\n' {
			out.WriteByte('\n')
			return
		}
		if replacement != 0 {
			out.WriteByte(replacement)
		}
	}

	const (
		stateCode = iota
		stateString
		stateLineComment
		stateBlockComment
	)
	state := stateCode

	for i := 0; i < len(contents); i++ {
		ch := contents[i]
		switch state {
		case stateCode:
			switch {
			case ch == '"':
				state = stateString
				out.WriteByte(ch)
			case ch == '/' && i+1 < len(contents) && contents[i+1] == '/':
				state = stateLineComment
				writeDelimiter("//")
				i++
			case ch == '/' && i+1 < len(contents) && contents[i+1] == '*':
				state = stateBlockComment
				writeDelimiter("/*")
				i++
			default:
				out.WriteByte(ch)
			}

		case stateString:
			out.WriteByte(ch)
			if ch == '\\' && i+1 < len(contents) {
				out.WriteByte(contents[i+1])
				i++
			} else if ch == '"' {
				state = stateCode
			}

		case stateLineComment:
			if ch == '\n' {
				out.WriteByte('\n')
				state = stateCode
			} else {
				writeBody(ch)
			}

		case stateBlockComment:
			if ch == '*' && i+1 < len(contents) && contents[i+1] == '/' {
				writeDelimiter("*/")
				i++
				state = stateCode
			} else {
				writeBody(ch)
			}
		}
	}
	return out.String()
}
