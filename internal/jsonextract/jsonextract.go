// Package jsonextract pulls a JSON object out of free-form model output.
package jsonextract

// First returns the first balanced {...} span in text. Braces inside JSON
// string literals do not count toward the balance. An opener that never
// closes is skipped, so a stray brace in prose does not hide a later object.
// ok is false when text holds no complete object.
func First(text string) (obj string, ok bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		if end := closing(text, start); end >= 0 {
			return text[start : end+1], true
		}
	}
	return "", false
}

// closing returns the index of the brace matching text[start], or -1.
func closing(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
