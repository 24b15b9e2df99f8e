package llm

import "bytes"

// nCommands are LaTeX commands starting with "n" that would otherwise be
// read as a JSON newline escape.
var nCommands = map[string]bool{
	"ne": true, "neq": true, "neg": true, "not": true, "nabla": true,
	"nu": true, "ni": true, "nmid": true, "nleq": true, "ngeq": true,
}

// RepairEscapes doubles backslashes inside JSON strings that start LaTeX
// commands instead of JSON escapes. Models often emit "\frac" or "\sqrt"
// unescaped; the first is valid JSON (a form feed) and the second is not.
// Input that is not inside a string literal is copied unchanged.
func RepairEscapes(raw []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(raw) + 16)
	inString := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			out.WriteByte(c)
			continue
		}
		switch c {
		case '"':
			inString = false
			out.WriteByte(c)
			continue
		case '\\':
		default:
			out.WriteByte(c)
			continue
		}

		if i+1 >= len(raw) {
			out.WriteString(`\\`)
			continue
		}
		next := raw[i+1]
		switch {
		case next == '"' || next == '\\' || next == '/':
			out.WriteByte('\\')
			out.WriteByte(next)
			i++
		case next == 'u' && isHex4(raw[i+2:]):
			out.WriteByte('\\')
		case next == 'n' && nCommands[word(raw[i+1:])]:
			out.WriteString(`\\`)
		case bytes.IndexByte([]byte("bfnrt"), next) >= 0 && !latexWord(raw[i+1:]):
			out.WriteByte('\\')
		default:
			out.WriteString(`\\`)
		}
	}
	return out.Bytes()
}

// latexWord reports whether s starts with a lowercase command name of two
// or more letters, like "frac" or "times".
func latexWord(s []byte) bool {
	w := word(s)
	return len(w) >= 2 && w[0] != 'n'
}

func word(s []byte) string {
	n := 0
	for n < len(s) && s[n] >= 'a' && s[n] <= 'z' {
		n++
	}
	return string(s[:n])
}

func isHex4(s []byte) bool {
	if len(s) < 4 {
		return false
	}
	for _, c := range s[:4] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
