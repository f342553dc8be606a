package report

import "strings"

// Sanitize strips markup from documentation text. Tags (<...>) and entities
// (&...;) are dropped along with their contents, a tag also drops the single
// space before it, and runs of spaces collapse to one space.
func Sanitize(s string) string {
	out := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return string(out)
			}

			if n := len(out); n > 0 && out[n-1] == ' ' {
				out = out[:n-1]
			}

			i += end

		case '&':
			end := strings.IndexByte(s[i:], ';')
			if end < 0 {
				return string(out)
			}

			i += end

		case ' ':
			if n := len(out); n > 0 && out[n-1] == ' ' {
				continue
			}

			out = append(out, c)

		default:
			out = append(out, c)
		}
	}

	return string(out)
}
