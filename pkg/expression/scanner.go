package expression

import (
	"strings"
)

type rawSegment struct {
	text        string
	offset      int
	placeholder bool
}

// scanInterpolation splits src into literal text and `{{ ... }}` bodies.
// Quotes and braces inside a body are honoured so `{{ "}}" }}` and map
// literals do not close the placeholder early.
func scanInterpolation(src string) ([]rawSegment, error) {
	var (
		out      []rawSegment
		i        int
		litStart int
	)

	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], "{{"):
			if i > litStart {
				out = append(out, rawSegment{text: src[litStart:i], offset: litStart})
			}
			bodyStart := i + 2
			end, err := findClose(src, bodyStart)
			if err != nil {
				return nil, err
			}
			out = append(out, rawSegment{text: src[bodyStart:end], offset: bodyStart, placeholder: true})
			i = end + 2
			litStart = i
		case strings.HasPrefix(src[i:], "}}"):
			return nil, parseErrorf(src, i, "unexpected '}}' without matching '{{'")
		default:
			i++
		}
	}

	if litStart < len(src) {
		out = append(out, rawSegment{text: src[litStart:], offset: litStart})
	}
	return out, nil
}

func findClose(src string, start int) (int, error) {
	var (
		quote   byte
		escaped bool
		depth   int
	)

	for i := start; i < len(src); i++ {
		ch := src[i]
		if quote != 0 {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				return -1, parseErrorf(src, i, "nested '{{' inside placeholder")
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				continue
			}
			if i+1 < len(src) && src[i+1] == '}' {
				return i, nil
			}
			return -1, parseErrorf(src, i, "unexpected '}' inside placeholder")
		}
	}

	if quote != 0 {
		return -1, parseErrorf(src, start, "unterminated string literal")
	}
	return -1, parseErrorf(src, start-2, "unterminated '{{'")
}

type part struct {
	text   string
	offset int
}

// splitTopLevel splits s on sep outside quotes and brackets. A '|' that is
// part of '||' never splits.
func splitTopLevel(s string, offset int, sep byte) []part {
	var (
		out     []part
		quote   byte
		escaped bool
		depth   int
		start   int
	)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth > 0 {
				continue
			}
			if sep == '|' && i+1 < len(s) && s[i+1] == '|' {
				i++
				continue
			}
			out = append(out, part{text: s[start:i], offset: offset + start})
			start = i + 1
		}
	}
	out = append(out, part{text: s[start:], offset: offset + start})
	return out
}

func isFilterName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
