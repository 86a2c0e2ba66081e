// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import "strings"

// ExtractJSONObject returns the first balanced JSON object embedded in
// text. Models often wrap JSON in prose or markdown fences; this scans
// past that. The second return is false when no object is found.
func ExtractJSONObject(text string) (string, bool) {
	return extractBalanced(text, '{', '}')
}

// ExtractJSONArray returns the first balanced JSON array embedded in text.
func ExtractJSONArray(text string) (string, bool) {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans for the first opening delimiter and returns the
// substring up to its matching close, skipping delimiters that appear
// inside JSON string literals.
func extractBalanced(text string, opening, closing byte) (string, bool) {
	start := strings.IndexByte(text, opening)
	if start < 0 {
		return "", false
	}

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
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
